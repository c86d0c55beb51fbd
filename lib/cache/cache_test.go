package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache(t *testing.T) {
	c := New()

	_, ok := c.Get("prefs")
	assert.False(t, ok)

	instance := &struct{ n int }{n: 1}
	c.Set("prefs", instance)
	c.Set("post:7", "other")

	got, ok := c.Get("prefs")
	assert.True(t, ok)
	assert.Same(t, instance, got)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"post:7", "prefs"}, c.Keys())

	c.Reset()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("prefs")
	assert.False(t, ok)
}
