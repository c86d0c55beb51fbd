package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for _, name := range []string{"json", "gob"} {
		c, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, c.Name())
	}

	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "json", c.Name())

	_, err = New("binary")
	assert.Error(t, err)
}

func TestJSONNumbersDecodeAsFloat(t *testing.T) {
	c := NewJSONCodec()
	b, err := c.Encode(map[string]any{"count": 3, "theme": "dark"})
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, c.Decode(b, &out))
	assert.Equal(t, map[string]any{"count": float64(3), "theme": "dark"}, out)
}

func TestGOBKeepsNestedContent(t *testing.T) {
	c := NewGOBCodec()
	in := map[string]any{
		"count": 3,
		"tags":  []any{"a", "b"},
		"meta":  map[string]any{"ok": true},
	}
	b, err := c.Encode(in)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, c.Decode(b, &out))
	assert.Equal(t, in, out)

	items := []any{"x", int64(2)}
	b, err = c.Encode(items)
	require.NoError(t, err)

	var outItems []any
	require.NoError(t, c.Decode(b, &outItems))
	assert.Equal(t, items, outItems)
}

func TestDecodeGarbage(t *testing.T) {
	var out map[string]any
	assert.Error(t, NewJSONCodec().Decode([]byte("{"), &out))
	assert.Error(t, NewGOBCodec().Decode([]byte{0x01}, &out))
}
