package s3

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/c2fo/blobfs"
)

const (
	// DefaultUploadPartitionSize is the part size of multipart uploads.
	DefaultUploadPartitionSize = manager.MinUploadPartSize
	// DefaultUploadConcurrency is the number of parts uploaded in parallel.
	DefaultUploadConcurrency = manager.DefaultUploadConcurrency
)

// Options holds s3-specific options.
type Options struct {
	AccessKeyID                 string            `json:"accessKeyId,omitempty"`
	SecretAccessKey             string            `json:"secretAccessKey,omitempty"`
	SessionToken                string            `json:"sessionToken,omitempty"`
	Region                      string            `json:"region,omitempty"`
	RoleARN                     string            `json:"roleARN,omitempty"`
	Endpoint                    string            `json:"endpoint,omitempty"`
	Bucket                      string            `json:"bucket,omitempty"`
	Prefix                      string            `json:"prefix,omitempty"`
	Visibility                  blobfs.Visibility `json:"visibility,omitempty"` // ACL applied to writes without a visibility, none when empty
	ForcePathStyle              bool              `json:"forcePathStyle,omitempty"`
	DisableServerSideEncryption bool              `json:"disableServerSideEncryption,omitempty"`
	Retry                       aws.Retryer       `json:"-"`
	MaxRetries                  int               `json:"maxRetries,omitempty"`
	UploadPartitionSize         int64             `json:"uploadPartitionSize,omitempty"` // Partition size in bytes used to multipart upload of large files using manager.Uploader
	UploadConcurrency           int               `json:"uploadConcurrency,omitempty"`
}

// NewOptions creates Options from the environment.
//
// Env Vars:
//
//	*BLOBFS_S3_BUCKET
//	*BLOBFS_S3_ENDPOINT
//	*AWS_REGION
//
// Credentials are left to the default AWS chain.
func NewOptions() *Options {
	return &Options{
		Bucket:   os.Getenv("BLOBFS_S3_BUCKET"),
		Endpoint: os.Getenv("BLOBFS_S3_ENDPOINT"),
		Region:   os.Getenv("AWS_REGION"),
	}
}

func (o *Options) applyDefaults() {
	if o.UploadPartitionSize <= 0 {
		o.UploadPartitionSize = DefaultUploadPartitionSize
	}
	if o.UploadConcurrency <= 0 {
		o.UploadConcurrency = DefaultUploadConcurrency
	}
}

// getClient setup S3 client
func getClient(ctx context.Context, opt Options) (*s3.Client, error) {
	// setup default config
	awsConfig, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}

	// return client instance
	return s3.NewFromConfig(awsConfig, func(opts *s3.Options) {
		if opt.Region != "" {
			opts.Region = opt.Region
		}

		// set filepath for minio users
		opts.UsePathStyle = opt.ForcePathStyle

		// use specific endpoint, otherwise, will use aws "default endpoint resolver" based on region
		if opt.Endpoint != "" {
			opts.BaseEndpoint = aws.String(opt.Endpoint)
		}

		if opt.Retry != nil {
			opts.Retryer = opt.Retry
		}
		if opt.MaxRetries > 0 {
			opts.RetryMaxAttempts = opt.MaxRetries + 1
		}

		if opt.AccessKeyID != "" && opt.SecretAccessKey != "" {
			opts.Credentials = credentials.NewStaticCredentialsProvider(
				opt.AccessKeyID,
				opt.SecretAccessKey,
				opt.SessionToken,
			)
		} else if opt.RoleARN != "" {
			opts.Credentials = aws.NewCredentialsCache(stscreds.NewAssumeRoleProvider(sts.NewFromConfig(awsConfig), opt.RoleARN))
		}
	}), nil
}
