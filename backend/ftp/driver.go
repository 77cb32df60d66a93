package ftp

import (
	"errors"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
)

// Disk configuration keys read by the registered driver.
const (
	ConfigHost        = "host"
	ConfigPort        = "port"
	ConfigUsername    = "username"
	ConfigPassword    = "password"
	ConfigProtocol    = "protocol"
	ConfigDisableEPSV = "disable_epsv"
	ConfigTimeout     = "timeout"
	ConfigRoot        = "root"
	ConfigURL         = "url"
)

// ErrHostRequired is returned by the driver when a disk configures no host.
var ErrHostRequired = errors.New("ftp: a host is required")

// OptionsFromConfig builds Options from disk configuration. Credentials missing from cfg fall back to the
// environment, see NewOptions.
func OptionsFromConfig(cfg blobfs.Config) (Options, error) {
	opts := *NewOptions()
	opts.Host = cfg.String(ConfigHost, "")
	opts.Port = cfg.Int(ConfigPort, 0)
	opts.Username = cfg.String(ConfigUsername, opts.Username)
	opts.Password = cfg.String(ConfigPassword, opts.Password)
	opts.Protocol = cfg.String(ConfigProtocol, opts.Protocol)
	opts.DisableEPSV = cfg.Bool(ConfigDisableEPSV, false)
	opts.Timeout = cfg.Duration(ConfigTimeout, 0)
	opts.Root = cfg.String(ConfigRoot, "")
	opts.PublicURLBase = cfg.String(ConfigURL, "")
	if opts.Host == "" {
		return Options{}, ErrHostRequired
	}
	check := opts
	check.applyDefaults()
	if err := check.validate(); err != nil {
		return Options{}, err
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
