package testcontainers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/minio"

	"github.com/c2fo/blobfs/backend/s3"
	"github.com/c2fo/blobfs/backend/testsuite"
)

const (
	minioRegion = "us-east-1"
	minioBucket = "miniobucket"
)

func registerMinio(t *testing.T) target {
	ctx := context.Background()
	is := require.New(t)

	ctr, err := minio.Run(ctx, "minio/minio:latest", testcontainers.WithName("blobfs-minio"))
	testcontainers.CleanupContainer(t, ctr)
	is.NoError(err)

	ep, err := ctr.ConnectionString(ctx)
	is.NoError(err)

	cfg, err := config.LoadDefaultConfig(ctx)
	is.NoError(err)

	cli := awss3.NewFromConfig(cfg, func(opts *awss3.Options) {
		opts.Region = minioRegion
		opts.UsePathStyle = true
		opts.BaseEndpoint = aws.String("http://" + ep)
		opts.Credentials = credentials.NewStaticCredentialsProvider(ctr.Username, ctr.Password, "")
	})
	_, err = cli.CreateBucket(ctx, &awss3.CreateBucketInput{Bucket: aws.String(minioBucket)})
	is.NoError(err)

	adapter := s3.NewAdapter(
		s3.WithOptions(s3.Options{
			Bucket:                      minioBucket,
			Region:                      minioRegion,
			Endpoint:                    "http://" + ep,
			ForcePathStyle:              true,
			DisableServerSideEncryption: true,
		}),
		s3.WithClient(cli),
	)
	// MinIO keeps no object ACLs
	return target{
		name:    s3.DriverName + "-minio",
		adapter: adapter,
		opts:    testsuite.ConformanceOptions{SkipVisibility: true, SupportsDirectories: true},
	}
}
