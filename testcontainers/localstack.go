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
	"github.com/testcontainers/testcontainers-go/modules/localstack"

	"github.com/c2fo/blobfs/backend/s3"
	"github.com/c2fo/blobfs/backend/testsuite"
)

const (
	localStackPort   = "4566/tcp"
	localStackRegion = "us-east-1"
	localStackKey    = "dummy"
	localStackSecret = "dummy"
	localStackBucket = "localstack"
)

func registerLocalStack(t *testing.T) target {
	ctx := context.Background()
	is := require.New(t)

	ctr, err := localstack.Run(ctx, "localstack/localstack:latest", testcontainers.WithName("blobfs-localstack"))
	testcontainers.CleanupContainer(t, ctr)
	is.NoError(err)

	ep, err := ctr.PortEndpoint(ctx, localStackPort, "http")
	is.NoError(err)

	cfg, err := config.LoadDefaultConfig(ctx)
	is.NoError(err)

	cli := awss3.NewFromConfig(cfg, func(opts *awss3.Options) {
		opts.Region = localStackRegion
		opts.UsePathStyle = true
		opts.BaseEndpoint = aws.String(ep)
		opts.Credentials = credentials.NewStaticCredentialsProvider(localStackKey, localStackSecret, "")
	})
	_, err = cli.CreateBucket(ctx, &awss3.CreateBucketInput{Bucket: aws.String(localStackBucket)})
	is.NoError(err)

	adapter := s3.NewAdapter(
		s3.WithOptions(s3.Options{Bucket: localStackBucket, Region: localStackRegion, Endpoint: ep, ForcePathStyle: true}),
		s3.WithClient(cli),
	)
	return target{
		name:    s3.DriverName + "-localstack",
		adapter: adapter,
		opts:    testsuite.ConformanceOptions{SupportsVisibility: true, SupportsDirectories: true},
	}
}
