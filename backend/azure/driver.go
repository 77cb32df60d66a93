package azure

import (
	"errors"
	"fmt"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/utils"
)

// Disk configuration keys read by the registered driver.
const (
	ConfigConnectionString   = "connection_string"
	ConfigContainer          = "container"
	ConfigPrefix             = "prefix"
	ConfigRoot               = "root"
	ConfigVisibilityHandling = "visibility_handling"
	ConfigDirectPublicURL    = "use_direct_public_url"
	ConfigPublicURLExpiry    = "public_url_expiry"
	ConfigAccountName        = "account_name"
	ConfigAccountKey         = "account_key"
	ConfigServiceURL         = "service_url"
	ConfigTenantID           = "tenant_id"
	ConfigClientID           = "client_id"
	ConfigClientSecret       = "client_secret"
)

// ErrContainerRequired is returned by the driver when a disk configures no container.
var ErrContainerRequired = errors.New("azure: a container is required")

// OptionsFromConfig builds Options from disk configuration. Settings missing from cfg fall back to the
// environment, see NewOptions.
func OptionsFromConfig(cfg blobfs.Config) (Options, error) {
	opts := *NewOptions()
	opts.ConnectionString = cfg.String(ConfigConnectionString, opts.ConnectionString)
	opts.Container = cfg.String(ConfigContainer, opts.Container)
	opts.Prefix = cfg.String(ConfigPrefix, cfg.String(ConfigRoot, ""))
	if opts.Prefix != "" {
		if err := utils.ValidatePrefix(opts.Prefix); err != nil {
			return Options{}, fmt.Errorf("%s %q: %w", ConfigPrefix, opts.Prefix, err)
		}
	}
	opts.UseDirectPublicURL = cfg.Bool(ConfigDirectPublicURL, false)
	opts.PublicURLExpiry = cfg.Duration(ConfigPublicURLExpiry, opts.PublicURLExpiry)
	opts.AccountName = cfg.String(ConfigAccountName, opts.AccountName)
	opts.AccountKey = cfg.String(ConfigAccountKey, opts.AccountKey)
	opts.ServiceURL = cfg.String(ConfigServiceURL, opts.ServiceURL)
	opts.TenantID = cfg.String(ConfigTenantID, opts.TenantID)
	opts.ClientID = cfg.String(ConfigClientID, opts.ClientID)
	opts.ClientSecret = cfg.String(ConfigClientSecret, opts.ClientSecret)

	handling, err := ParseVisibilityHandling(cfg.String(ConfigVisibilityHandling, ""))
	if err != nil {
		return Options{}, err
	}
	opts.VisibilityHandling = handling

	if opts.Container == "" {
		return Options{}, ErrContainerRequired
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
