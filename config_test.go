package blobfs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigAccessors(t *testing.T) {
	cfg := Config{
		"name":        "value",
		"visibility":  Public,
		"flag":        "true",
		"bool":        true,
		"count":       "12",
		"int":         7,
		"timeout":     "90s",
		"seconds":     30,
		"duration":    time.Minute,
		"headers":     map[string]any{"Cache-Control": "no-cache", "ignored": 5},
		"raw_headers": map[string]string{"X-Test": "1"},
	}

	assert.Equal(t, "value", cfg.String("name", "def"))
	assert.Equal(t, "public", cfg.String("visibility", "def"), "Stringer values are converted")
	assert.Equal(t, "def", cfg.String("missing", "def"))
	assert.Equal(t, "def", cfg.String("int", "def"))

	assert.True(t, cfg.Bool("flag", false))
	assert.True(t, cfg.Bool("bool", false))
	assert.True(t, cfg.Bool("missing", true))

	assert.Equal(t, 12, cfg.Int("count", 0))
	assert.Equal(t, 7, cfg.Int("int", 0))
	assert.Equal(t, 3, cfg.Int("name", 3))

	assert.Equal(t, 90*time.Second, cfg.Duration("timeout", 0))
	assert.Equal(t, 30*time.Second, cfg.Duration("seconds", 0))
	assert.Equal(t, time.Minute, cfg.Duration("duration", 0))
	assert.Equal(t, time.Hour, cfg.Duration("missing", time.Hour))

	assert.Equal(t, map[string]string{"Cache-Control": "no-cache"}, cfg.StringMap("headers"))
	assert.Equal(t, map[string]string{"X-Test": "1"}, cfg.StringMap("raw_headers"))
	assert.Empty(t, cfg.StringMap("missing"))

	assert.Equal(t, "value", cfg.Get("name", nil))
	assert.Nil(t, cfg.Get("missing", nil))
}

func TestNilConfig(t *testing.T) {
	var cfg Config
	assert.Equal(t, "def", cfg.String(OptionVisibility, "def"))
	assert.Empty(t, cfg.StringMap(OptionHeaders))
	assert.Empty(t, cfg.Extend(nil))
}

func TestConfigMerging(t *testing.T) {
	defaults := Config{OptionVisibility: "private", OptionMimeType: "text/plain"}
	call := Config{OptionVisibility: "public"}

	merged := defaults.Extend(call)
	assert.Equal(t, "public", merged.String(OptionVisibility, ""))
	assert.Equal(t, "text/plain", merged.String(OptionMimeType, ""))
	assert.Equal(t, "private", defaults.String(OptionVisibility, ""), "the receiver must not be modified")

	withDefaults := call.WithDefaults(defaults)
	assert.Equal(t, merged, withDefaults)
}

func TestParseVisibility(t *testing.T) {
	v, err := ParseVisibility("public")
	require.NoError(t, err)
	assert.Equal(t, Public, v)

	_, err = ParseVisibility("world-readable")
	assert.Error(t, err)
}

func TestOperationError(t *testing.T) {
	err := NewOperationError(OpRead, "some/file.txt", ErrNotExist)
	assert.EqualError(t, err, "unable to read at location: some/file.txt: file does not exist")
	assert.ErrorIs(t, err, ErrNotExist)
	assert.True(t, IsOperation(err, OpRead))
	assert.False(t, IsOperation(err, OpWrite))

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "some/file.txt", opErr.Path)

	assert.Same(t, err, NewOperationError(OpRead, "other.txt", err), "same operation is not wrapped twice")
	assert.True(t, IsOperation(NewOperationError(OpMove, "a", err), OpMove))
}
