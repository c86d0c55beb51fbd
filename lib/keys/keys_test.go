package keys

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type post struct {
	id string
}

func (p *post) EntityType() string { return "post" }
func (p *post) EntityID() string   { return p.id }

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"MyKey":        "my-key",
		"my-key":       "my-key",
		"my_key":       "my-key",
		"my key":       "my-key",
		"settings":     "settings",
		"userSettings": "user-settings",
		"innerHTML":    "inner-html",
		"action_name":  "action-name",
		"css-class":    "css-class",
		"v2Settings":   "v2-settings",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, Normalize(in))
		})
	}

	assert.Equal(t, Normalize("MyKey"), Normalize("my-key"))
}

func TestCanonical(t *testing.T) {
	k, err := Canonical("UserSettings")
	require.NoError(t, err)
	assert.Equal(t, "user-settings", k)

	for _, raw := range []string{"post:7", "favorites|user:42", ":"} {
		_, err := Canonical(raw)
		assert.True(t, errors.Is(err, common.ErrConfiguration), raw)
	}
}

func TestDeriveIdentity(t *testing.T) {
	id, err := DeriveIdentity(Ref{Type: "post", ID: "7"})
	require.NoError(t, err)
	assert.Equal(t, "post:7", id)

	id, err = DeriveIdentity(&post{id: "42"})
	require.NoError(t, err)
	assert.Equal(t, "post:42", id)

	_, err = DeriveIdentity(Ref{Type: "post"})
	assert.True(t, errors.Is(err, common.ErrInvalidEntity))

	_, err = DeriveIdentity(Ref{ID: "7"})
	assert.True(t, errors.Is(err, common.ErrInvalidEntity))

	var missing *post
	_, err = DeriveIdentity(missing)
	assert.True(t, errors.Is(err, common.ErrInvalidEntity))
}

func TestParseRef(t *testing.T) {
	ref, err := ParseRef("user:42")
	require.NoError(t, err)
	assert.Equal(t, Ref{Type: "user", ID: "42"}, ref)
	assert.Equal(t, "user:42", ref.String())

	for _, bad := range []string{"", "user", ":42", "user:"} {
		_, err := ParseRef(bad)
		assert.True(t, errors.Is(err, common.ErrInvalidEntity), bad)
	}
}

func TestIsUnset(t *testing.T) {
	var p *post
	var e Entity = p

	assert.True(t, IsUnset(nil))
	assert.True(t, IsUnset(p))
	assert.True(t, IsUnset(e))
	assert.False(t, IsUnset(&post{id: "1"}))
	assert.False(t, IsUnset(Ref{}))
	assert.False(t, IsUnset(0))
}
