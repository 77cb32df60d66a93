package disk

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/c2fo/blobfs"
)

// ConfigKey is the root of the disk configuration tree.
const ConfigKey = "filesystems"

// ErrConfigMissing is returned by LoadConfig when the configuration has no filesystems tree.
const ErrConfigMissing = blobfs.Error("filesystems configuration is missing")

// LoadConfig reads the filesystems tree from v:
//
//	filesystems:
//	  default: azure
//	  disks:
//	    azure:
//	      driver: azure-storage-blob
//	      connection_string: ${AZURE_STORAGE_CONNECTION_STRING}
//
// ${VAR} and $VAR references in string values are replaced with the environment variable's value.
func LoadConfig(v *viper.Viper) (Config, error) {
	if !v.IsSet(ConfigKey) {
		return Config{}, ErrConfigMissing
	}

	raw := map[string]any{}
	if v.IsSet(ConfigKey + ".disks") {
		var err error
		if raw, err = cast.ToStringMapE(v.Get(ConfigKey + ".disks")); err != nil {
			return Config{}, fmt.Errorf("%s.disks: %w", ConfigKey, err)
		}
	}

	cfg := Config{
		Default: os.ExpandEnv(v.GetString(ConfigKey + ".default")),
		Disks:   make(map[string]blobfs.Config, len(raw)),
	}
	for name, value := range raw {
		settings, err := cast.ToStringMapE(value)
		if err != nil {
			return Config{}, fmt.Errorf("%s.disks.%s: %w", ConfigKey, name, err)
		}
		cfg.Disks[name] = blobfs.Config(expandEnv(settings))
	}

	if cfg.Default != "" {
		if _, ok := cfg.Disks[cfg.Default]; !ok {
			return Config{}, fmt.Errorf("default disk %q: %w", cfg.Default, ErrDiskNotConfigured)
		}
	}
	return cfg, nil
}

func expandEnv(settings map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		out[k] = expandValue(v)
	}
	return out
}

func expandValue(v any) any {
	switch val := v.(type) {
	case string:
		return os.ExpandEnv(val)
	case map[string]any:
		return expandEnv(val)
	case map[any]any:
		return expandEnv(cast.ToStringMap(val))
	case []any:
		out := make([]any, len(val))
		for i := range val {
			out[i] = expandValue(val[i])
		}
		return out
	}
	return v
}
