package provide

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSets(t *testing.T) {
	props, err := parseSets([]string{"theme=light", "pageSize=20", "compact=true", "tags=[a, b]", "note=a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"theme":    "light",
		"pageSize": 20,
		"compact":  true,
		"tags":     []any{"a", "b"},
		"note":     "a=b",
	}, props)

	_, err = parseSets([]string{"theme"})
	assert.Error(t, err)
	_, err = parseSets([]string{"=light"})
	assert.Error(t, err)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, "", parseValue(""))
	assert.Equal(t, "{unclosed", parseValue("{unclosed"))
	assert.Equal(t, 1.5, parseValue("1.5"))
}
