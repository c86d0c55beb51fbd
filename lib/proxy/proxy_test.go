package proxy

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/storagefor/lib/codec"
	"github.com/ValentinKolb/storagefor/lib/descriptor"
	"github.com/ValentinKolb/storagefor/lib/probe"
	"github.com/ValentinKolb/storagefor/lib/store"
	"github.com/ValentinKolb/storagefor/lib/store/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefsState() descriptor.State {
	return descriptor.State{"theme": "dark", descriptor.StorageKeyField: "storage:prefs"}
}

func TestObjectSeedAndPersist(t *testing.T) {
	for _, c := range []codec.ICodec{codec.NewJSONCodec(), codec.NewGOBCodec()} {
		t.Run(c.Name(), func(t *testing.T) {
			s := memstore.New()

			o, err := NewObject(prefsState(), s, c)
			require.NoError(t, err)
			assert.Equal(t, "storage:prefs", o.StorageKey())
			assert.Equal(t, map[string]any{"theme": "dark"}, o.Content())
			assert.True(t, o.IsInitialContent())

			// nothing is written until the first change
			_, ok, err := s.GetItem("storage:prefs")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, o.Set("theme", "light"))
			require.NoError(t, o.Set("font", "mono"))
			assert.False(t, o.IsInitialContent())
			assert.Equal(t, []string{"font", "theme"}, o.Keys())

			// a second object on the same key loads the persisted content
			o2, err := NewObject(prefsState(), s, c)
			require.NoError(t, err)
			v, ok := o2.Get("theme")
			assert.True(t, ok)
			assert.Equal(t, "light", v)

			require.NoError(t, o.Delete("font"))
			_, ok = o.Get("font")
			assert.False(t, ok)
		})
	}
}

func TestObjectResetAndClear(t *testing.T) {
	s := memstore.New()
	o, err := NewObject(prefsState(), s, codec.NewJSONCodec())
	require.NoError(t, err)

	require.NoError(t, o.SetProperties(map[string]any{"theme": "light", "size": "xl"}))
	require.NoError(t, o.Reset())
	assert.Equal(t, map[string]any{"theme": "dark"}, o.Content())
	assert.True(t, o.IsInitialContent())

	require.NoError(t, o.Clear())
	assert.Empty(t, o.Content())
	_, ok, err := s.GetItem("storage:prefs")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestObjectErrors(t *testing.T) {
	_, err := NewObject(descriptor.State{"theme": "dark"}, memstore.New(), codec.NewJSONCodec())
	assert.Error(t, err)

	s := memstore.New()
	require.NoError(t, s.SetItem("storage:prefs", []byte("not json")))
	_, err = NewObject(prefsState(), s, codec.NewJSONCodec())
	assert.Error(t, err)

	// write failures of the native store are returned, the content is unchanged
	full := memstore.New(memstore.WithQuota(1))
	require.NoError(t, full.SetItem("other", []byte("x")))
	o, err := NewObject(prefsState(), full, codec.NewJSONCodec())
	require.NoError(t, err)
	err = o.Set("theme", "light")
	assert.True(t, errors.Is(err, store.ErrQuotaExceeded))
	v, _ := o.Get("theme")
	assert.Equal(t, "dark", v)
	assert.True(t, o.IsInitialContent())
}

func TestWriteFailuresKeepContent(t *testing.T) {
	s := memstore.New()
	o, err := NewObject(prefsState(), s, codec.NewJSONCodec())
	require.NoError(t, err)
	require.NoError(t, o.Set("size", "xl"))
	a, err := NewArray(descriptor.State{ItemsField: []any{"a"}, descriptor.StorageKeyField: "storage:recent"}, s, codec.NewJSONCodec())
	require.NoError(t, err)
	require.NoError(t, a.Append("b"))

	require.NoError(t, s.Close())

	assert.True(t, errors.Is(o.Set("theme", "light"), store.ErrClosed))
	assert.True(t, errors.Is(o.Delete("size"), store.ErrClosed))
	assert.True(t, errors.Is(o.Clear(), store.ErrClosed))
	assert.Equal(t, map[string]any{"theme": "dark", "size": "xl"}, o.Content())

	assert.True(t, errors.Is(a.Append("c"), store.ErrClosed))
	assert.True(t, errors.Is(a.RemoveAt(0), store.ErrClosed))
	assert.True(t, errors.Is(a.Clear(), store.ErrClosed))
	assert.Equal(t, []any{"a", "b"}, a.Items())
}

func TestInitialContentSurvivesReload(t *testing.T) {
	for _, c := range []codec.ICodec{codec.NewJSONCodec(), codec.NewGOBCodec()} {
		t.Run(c.Name(), func(t *testing.T) {
			s := memstore.New()
			state := descriptor.State{"pageSize": 20, "tags": []any{"a", 1}, descriptor.StorageKeyField: "storage:settings"}

			o, err := NewObject(state, s, c)
			require.NoError(t, err)
			assert.True(t, o.IsInitialContent())
			require.NoError(t, o.Set("pageSize", 50))
			require.NoError(t, o.Reset())
			assert.True(t, o.IsInitialContent())

			reloaded, err := NewObject(state, s, c)
			require.NoError(t, err)
			assert.True(t, reloaded.IsInitialContent())
			assert.Equal(t, o.Content(), reloaded.Content())

			items := descriptor.State{ItemsField: []any{1, map[string]any{"id": 2}}, descriptor.StorageKeyField: "storage:recent"}
			a, err := NewArray(items, s, c)
			require.NoError(t, err)
			require.NoError(t, a.Reset())

			reloadedArray, err := NewArray(items, s, c)
			require.NoError(t, err)
			assert.True(t, reloadedArray.IsInitialContent())
			assert.Equal(t, a.Items(), reloadedArray.Items())
		})
	}
}

func TestArray(t *testing.T) {
	s := memstore.New()
	state := descriptor.State{ItemsField: []any{"a"}, descriptor.StorageKeyField: "storage:recent:user:1"}

	a, err := NewArray(state, s, codec.NewJSONCodec())
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, a.Items())
	assert.True(t, a.IsInitialContent())

	require.NoError(t, a.Append("b", "c"))
	assert.Equal(t, 3, a.Len())
	require.NoError(t, a.RemoveAt(0))
	assert.Equal(t, []any{"b", "c"}, a.Items())
	assert.Error(t, a.RemoveAt(5))

	reloaded, err := NewArray(state, s, codec.NewJSONCodec())
	require.NoError(t, err)
	assert.Equal(t, []any{"b", "c"}, reloaded.Items())

	require.NoError(t, a.Reset())
	assert.Equal(t, []any{"a"}, a.Items())

	require.NoError(t, a.Clear())
	assert.Equal(t, 0, a.Len())
	_, ok, err := s.GetItem("storage:recent:user:1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = NewArray(descriptor.State{ItemsField: "nope", descriptor.StorageKeyField: "k"}, s, codec.NewJSONCodec())
	assert.Error(t, err)
}

func TestPlain(t *testing.T) {
	p := NewPlain(map[string]any{"limit": 10, "storageKey": "ignored"}, descriptor.State{descriptor.StorageKeyField: "storage:settings"})
	assert.Equal(t, "storage:settings", p.StorageKey())
	v, ok := p.Get("limit")
	assert.True(t, ok)
	assert.Equal(t, 10, v)

	p.Set("limit", 20)
	assert.Equal(t, 20, p.Properties()["limit"])
}

func TestDescriptors(t *testing.T) {
	reg := probe.NewRegistry(map[store.Kind]store.Factory{
		store.KindSession: func() (store.IStore, error) { return memstore.New(), nil },
	})
	defer reg.Close()

	d := ObjectDescriptor("prefs", codec.NewJSONCodec(), descriptor.WithKind(store.KindSession))
	assert.Equal(t, "storage:prefs", d.Name)

	inst, err := d.Construct(prefsState(), reg)
	require.NoError(t, err)
	o := inst.(*Object)
	require.NoError(t, o.Set("theme", "light"))

	_, ok, err := reg.GetStore(store.KindSession).GetItem("storage:prefs")
	require.NoError(t, err)
	assert.True(t, ok)

	ad := ArrayDescriptor("recent", codec.NewJSONCodec(), descriptor.WithInitialState(SeedItems("x")))
	seed := ad.InitialState.(descriptor.InitialStateFunc)(nil)
	seed[descriptor.StorageKeyField] = "storage:recent"
	inst, err = ad.Construct(seed, reg)
	require.NoError(t, err)
	assert.Equal(t, []any{"x"}, inst.(*Array).Items())
}
