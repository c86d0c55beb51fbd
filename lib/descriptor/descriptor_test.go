package descriptor

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/storagefor/lib/common"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newObject(state State, _ Stores) (any, error) {
	return state.Clone(), nil
}

func TestState(t *testing.T) {
	s := State{"theme": "dark", StorageKeyField: "storage:prefs"}
	assert.Equal(t, "storage:prefs", s.StorageKey())
	assert.Equal(t, map[string]any{"theme": "dark"}, s.Content())

	c := s.Clone()
	c["theme"] = "light"
	assert.Equal(t, "dark", s["theme"])

	var empty State
	assert.Equal(t, "", empty.StorageKey())
	assert.NotNil(t, empty.Clone())
}

func TestVariants(t *testing.T) {
	d := NewConstructible(NameFor("prefs"), newObject, WithKind(store.KindSession))
	assert.Equal(t, "storage:prefs", d.Name)
	assert.Equal(t, Constructible, d.Variant())
	assert.Equal(t, store.KindSession, d.Kind)

	v, err := d.Construct(State{"a": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, State{"a": 1}, v)

	props := map[string]any{"limit": 10}
	p := NewPlain(NameFor("settings"), props)
	assert.Equal(t, PlainObject, p.Variant())
	assert.Equal(t, store.KindLocal, p.Kind)
	props["limit"] = 20
	assert.Equal(t, map[string]any{"limit": 10}, p.Properties())

	_, err = p.Construct(State{}, nil)
	assert.Error(t, err)

	assert.Equal(t, "Constructible", Constructible.String())
	assert.Equal(t, "PlainObject", PlainObject.String())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.RegisterAll(
		NewConstructible("storage:prefs", newObject),
		NewPlain("storage:anonymous", nil),
	))
	assert.Equal(t, []string{"storage:anonymous", "storage:prefs"}, r.Names())

	d, ok := r.Lookup("storage:prefs")
	require.True(t, ok)
	assert.Equal(t, Constructible, d.Variant())

	_, ok = r.Lookup("storage:missing")
	assert.False(t, ok)

	err := r.Register(NewPlain("storage:prefs", nil))
	assert.True(t, errors.Is(err, common.ErrConfiguration))

	r.Unregister("storage:prefs")
	_, ok = r.Lookup("storage:prefs")
	assert.False(t, ok)
}

func TestRegistryRejectsInvalid(t *testing.T) {
	r := NewRegistry()

	invalid := []*Descriptor{
		nil,
		NewPlain("", nil),
		NewConstructible("storage:x", nil),
		NewPlain("storage:y", nil, WithKind("cloud")),
		{Name: "storage:z", Kind: store.KindLocal},
	}
	for _, d := range invalid {
		assert.True(t, errors.Is(r.Register(d), common.ErrConfiguration))
	}
	assert.Empty(t, r.Names())
}
