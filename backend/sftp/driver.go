package sftp

import (
	"errors"
	"fmt"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/utils"
)

// Disk configuration keys read by the registered driver. Permissions use the utils.ConfigFilePublic family of keys.
const (
	ConfigHost                = "host"
	ConfigPort                = "port"
	ConfigUsername            = "username"
	ConfigPassword            = "password"
	ConfigPrivateKey          = "private_key"
	ConfigPassphrase          = "passphrase"
	ConfigKnownHostsFile      = "known_hosts_file"
	ConfigHostFingerprint     = "host_key"
	ConfigTimeout             = "timeout"
	ConfigRoot                = "root"
	ConfigVisibility          = "visibility"
	ConfigDirectoryVisibility = "directory_visibility"
	ConfigURL                 = "url"
)

// ErrHostRequired is returned by the driver when a disk configures no host.
var ErrHostRequired = errors.New("sftp: a host is required")

// OptionsFromConfig builds Options from disk configuration. Credentials missing from cfg fall back to the
// environment, see NewOptions.
func OptionsFromConfig(cfg blobfs.Config) (Options, error) {
	opts := *NewOptions()
	opts.Host = cfg.String(ConfigHost, "")
	opts.Port = cfg.Int(ConfigPort, 0)
	opts.Username = cfg.String(ConfigUsername, "")
	opts.Password = cfg.String(ConfigPassword, opts.Password)
	opts.KeyFilePath = cfg.String(ConfigPrivateKey, opts.KeyFilePath)
	opts.KeyPassphrase = cfg.String(ConfigPassphrase, opts.KeyPassphrase)
	opts.KnownHostsFile = cfg.String(ConfigKnownHostsFile, opts.KnownHostsFile)
	opts.KnownHostsString = cfg.String(ConfigHostFingerprint, "")
	opts.ConnectTimeout = cfg.Duration(ConfigTimeout, 0)
	opts.Root = cfg.String(ConfigRoot, "")
	opts.PublicURLBase = cfg.String(ConfigURL, "")
	if opts.Host == "" {
		return Options{}, ErrHostRequired
	}

	var err error
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
		return Options{}, fmt.Errorf("sftp: %w", err)
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
