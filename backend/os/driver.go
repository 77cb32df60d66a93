package os

import (
	"errors"
	"fmt"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/utils"
)

// Disk configuration keys read by the registered driver. Permissions are octal strings such as "0640".
const (
	ConfigRoot                = "root"
	ConfigVisibility          = "visibility"
	ConfigDirectoryVisibility = "directory_visibility"
	ConfigLinks               = "links"
	ConfigTempDir             = "temp_dir"
	ConfigURL                 = "url"
	ConfigFilePublic          = utils.ConfigFilePublic
	ConfigFilePrivate         = utils.ConfigFilePrivate
	ConfigDirPublic           = utils.ConfigDirPublic
	ConfigDirPrivate          = utils.ConfigDirPrivate
)

// ErrRootRequired is returned by the driver when a disk configures no root.
var ErrRootRequired = errors.New("local: a root is required")

// OptionsFromConfig builds Options from disk configuration.
func OptionsFromConfig(cfg blobfs.Config) (Options, error) {
	opts := Options{
		Root:          cfg.String(ConfigRoot, ""),
		TempDir:       cfg.String(ConfigTempDir, ""),
		PublicURLBase: cfg.String(ConfigURL, ""),
	}
	if opts.Root == "" {
		return Options{}, ErrRootRequired
	}

	var err error
	if opts.LinkHandling, err = ParseLinkHandling(cfg.String(ConfigLinks, "")); err != nil {
		return Options{}, err
	}
	for key, target := range map[string]*blobfs.Visibility{
		ConfigVisibility:          &opts.DefaultVisibility,
		ConfigDirectoryVisibility: &opts.DefaultDirectoryVisibility,
	} {
		if v := cfg.String(key, ""); v != "" {
			if *target, err = blobfs.ParseVisibility(v); err != nil {
				return Options{}, err
			}
		}
	}
	if opts.Permissions, err = utils.PermissionsFromConfig(cfg); err != nil {
		return Options{}, fmt.Errorf("local: %w", err)
	}
	return opts, nil
}

func init() {
	backend.Register(DriverName, func(cfg blobfs.Config) (blobfs.Adapter, error) {
		opts, err := OptionsFromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return NewAdapter(WithOptions(opts), WithLogger(backend.Logger(cfg))), nil
	})
}
