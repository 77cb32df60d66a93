package gs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/utils"
)

// Disk configuration keys read by the registered driver.
const (
	ConfigBucket            = "bucket"
	ConfigPrefix            = "prefix"
	ConfigRoot              = "root"
	ConfigKeyFile           = "key_file"
	ConfigAPIKey            = "api_key"
	ConfigEndpoint          = "endpoint"
	ConfigNoAuth            = "without_authentication"
	ConfigScopes            = "scopes"
	ConfigMaxRetries        = "max_retries"
	ConfigVisibility        = "visibility"
	ConfigPublicURLBase     = "public_url_base"
	ConfigSigningEmail      = "signing_email"
	ConfigSigningPrivateKey = "signing_private_key"
)

// ErrBucketRequired is returned by the driver when a disk configures no bucket.
var ErrBucketRequired = errors.New("gcs: a bucket is required")

// OptionsFromConfig builds Options from disk configuration. Settings missing from cfg fall back to the
// environment, see NewOptions. Scopes are comma separated.
func OptionsFromConfig(cfg blobfs.Config) (Options, error) {
	opts := *NewOptions()
	opts.Bucket = cfg.String(ConfigBucket, opts.Bucket)
	opts.Prefix = cfg.String(ConfigPrefix, cfg.String(ConfigRoot, ""))
	if opts.Prefix != "" {
		if err := utils.ValidatePrefix(opts.Prefix); err != nil {
			return Options{}, fmt.Errorf("%s %q: %w", ConfigPrefix, opts.Prefix, err)
		}
	}
	opts.CredentialFile = cfg.String(ConfigKeyFile, "")
	opts.APIKey = cfg.String(ConfigAPIKey, "")
	opts.Endpoint = cfg.String(ConfigEndpoint, opts.Endpoint)
	opts.WithoutAuthentication = cfg.Bool(ConfigNoAuth, false)
	opts.MaxRetries = cfg.Int(ConfigMaxRetries, 0)
	opts.PublicURLBase = cfg.String(ConfigPublicURLBase, "")
	opts.SigningEmail = cfg.String(ConfigSigningEmail, "")
	opts.SigningPrivateKey = cfg.String(ConfigSigningPrivateKey, "")
	if scopes := cfg.String(ConfigScopes, ""); scopes != "" {
		for _, scope := range strings.Split(scopes, ",") {
			opts.Scopes = append(opts.Scopes, strings.TrimSpace(scope))
		}
	}

	if v := cfg.String(ConfigVisibility, ""); v != "" {
		visibility, err := blobfs.ParseVisibility(v)
		if err != nil {
			return Options{}, err
		}
		opts.Visibility = visibility
	}

	if opts.Bucket == "" {
		return Options{}, ErrBucketRequired
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
