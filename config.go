package blobfs

import (
	"fmt"
	"maps"
	"time"

	"github.com/spf13/cast"
)

// Well-known Config keys understood by Filesystem and the bundled adapters.
const (
	OptionVisibility          = "visibility"
	OptionDirectoryVisibility = "directory_visibility"
	OptionMimeType            = "mimetype"
	OptionHeaders             = "headers"
	OptionExpiresIn           = "expires_in"
	OptionChecksumAlgo        = "checksum_algo"
	OptionPublicURL           = "public_url"
)

// Config is a bag of per-operation options. A nil Config is valid and empty.
type Config map[string]any

// Get returns the value stored under key, or def when the key is absent.
func (c Config) Get(key string, def any) any {
	if v, ok := c[key]; ok {
		return v
	}
	return def
}

// String returns the value under key as a string, or def when it is absent or not a string.
func (c Config) String(key, def string) string {
	switch v := c[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return def
}

// Bool returns the value under key as a bool, or def when it is absent or cannot be converted.
func (c Config) Bool(key string, def bool) bool {
	v, ok := c[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Int returns the value under key as an int, or def when it is absent or cannot be converted.
func (c Config) Int(key string, def int) int {
	v, ok := c[key]
	if !ok {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return i
}

// Duration returns the value under key as a time.Duration. Strings are parsed with time.ParseDuration and plain
// integers are read as seconds.
func (c Config) Duration(key string, def time.Duration) time.Duration {
	switch v := c[key].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case int64:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// StringMap returns the value under key as a map of strings. Values of other types are skipped.
func (c Config) StringMap(key string) map[string]string {
	out := map[string]string{}
	switch v := c[key].(type) {
	case map[string]string:
		maps.Copy(out, v)
	case map[string]any:
		for k, val := range v {
			if s, ok := val.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}

// Extend returns a new Config holding the receiver's entries overridden by those of other.
func (c Config) Extend(other Config) Config {
	out := make(Config, len(c)+len(other))
	maps.Copy(out, c)
	maps.Copy(out, other)
	return out
}

// WithDefaults returns a new Config holding the receiver's entries, with keys missing from it taken from defaults.
func (c Config) WithDefaults(defaults Config) Config {
	return defaults.Extend(c)
}
