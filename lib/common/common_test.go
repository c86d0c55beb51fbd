package common

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIs(t *testing.T) {
	err := ConfigurationErrorf("unknown descriptor: %s", "storage:prefs")
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.False(t, errors.Is(err, ErrInvalidEntity))
	assert.Equal(t, "ConfigurationError: unknown descriptor: storage:prefs", err.Error())

	wrapped := fmt.Errorf("provision: %w", InvalidEntityf("missing id"))
	assert.True(t, errors.Is(wrapped, ErrInvalidEntity))

	var target *Error
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, RetCInvalidEntity, target.Code)
}

func TestParseLogLevel(t *testing.T) {
	lvl, err := ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, logger.WARNING, lvl)

	_, err = ParseLogLevel("verbose")
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, filepath.Join("data", DefaultLocalFile), c.ResolvedLocalPath())
	assert.Equal(t, InMemoryPath, c.ResolvedSessionPath())

	c.LocalPath = "/tmp/x.db"
	c.SessionPath = ""
	assert.Equal(t, "/tmp/x.db", c.ResolvedLocalPath())
	assert.Equal(t, InMemoryPath, c.ResolvedSessionPath())
	assert.Contains(t, c.String(), "/tmp/x.db")

	c.Codec = "xml"
	assert.Error(t, c.Validate())
}
