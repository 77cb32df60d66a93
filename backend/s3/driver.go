package s3

import (
	"errors"
	"fmt"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/utils"
)

// Disk configuration keys read by the registered driver.
const (
	ConfigBucket             = "bucket"
	ConfigRegion             = "region"
	ConfigKey                = "key"
	ConfigSecret             = "secret"
	ConfigToken              = "token"
	ConfigEndpoint           = "endpoint"
	ConfigPathStyleEndpoint  = "use_path_style_endpoint"
	ConfigPrefix             = "prefix"
	ConfigRoot               = "root"
	ConfigRoleARN            = "role_arn"
	ConfigVisibility         = "visibility"
	ConfigDisableEncryption  = "disable_sse"
	ConfigMaxRetries         = "max_retries"
	ConfigUploadPartitionMiB = "upload_partition_mib"
)

// ErrBucketRequired is returned by the driver when a disk configures no bucket.
var ErrBucketRequired = errors.New("s3: a bucket is required")

// OptionsFromConfig builds Options from disk configuration. Settings missing from cfg fall back to the
// environment, see NewOptions.
func OptionsFromConfig(cfg blobfs.Config) (Options, error) {
	opts := *NewOptions()
	opts.Bucket = cfg.String(ConfigBucket, opts.Bucket)
	opts.Region = cfg.String(ConfigRegion, opts.Region)
	opts.AccessKeyID = cfg.String(ConfigKey, "")
	opts.SecretAccessKey = cfg.String(ConfigSecret, "")
	opts.SessionToken = cfg.String(ConfigToken, "")
	opts.Endpoint = cfg.String(ConfigEndpoint, opts.Endpoint)
	opts.ForcePathStyle = cfg.Bool(ConfigPathStyleEndpoint, false)
	opts.Prefix = cfg.String(ConfigPrefix, cfg.String(ConfigRoot, ""))
	if opts.Prefix != "" {
		if err := utils.ValidatePrefix(opts.Prefix); err != nil {
			return Options{}, fmt.Errorf("%s %q: %w", ConfigPrefix, opts.Prefix, err)
		}
	}
	opts.RoleARN = cfg.String(ConfigRoleARN, "")
	opts.DisableServerSideEncryption = cfg.Bool(ConfigDisableEncryption, false)
	opts.MaxRetries = cfg.Int(ConfigMaxRetries, 0)
	opts.UploadPartitionSize = int64(cfg.Int(ConfigUploadPartitionMiB, 0)) * 1024 * 1024

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
