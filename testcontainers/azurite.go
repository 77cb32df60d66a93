package testcontainers

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/azure/azurite"

	"github.com/c2fo/blobfs/backend/azure"
	"github.com/c2fo/blobfs/backend/testsuite"
)

const azuriteContainer = "azurite"

func registerAzurite(t *testing.T) target {
	ctx := context.Background()
	is := require.New(t)

	ctr, err := azurite.Run(ctx, "mcr.microsoft.com/azure-storage/azurite:latest",
		testcontainers.WithName("blobfs-azurite"),
		azurite.WithEnabledServices(azurite.BlobService),
	)
	testcontainers.CleanupContainer(t, ctr)
	is.NoError(err)

	ep, err := ctr.BlobServiceURL(ctx)
	is.NoError(err)

	u, err := url.JoinPath(ep, azurite.AccountName)
	is.NoError(err)

	adapter := azure.NewAdapter(azure.WithOptions(azure.Options{
		ServiceURL:  u,
		AccountName: azurite.AccountName,
		AccountKey:  azurite.AccountKey,
		Container:   azuriteContainer,
	}))
	cli, err := adapter.Client()
	is.NoError(err)
	is.NoError(cli.CreateContainer(ctx))

	return target{
		name:    azure.DriverName,
		adapter: adapter,
		opts:    testsuite.ConformanceOptions{VisibilityNotSupported: true},
	}
}
