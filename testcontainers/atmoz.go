package testcontainers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/ssh"

	"github.com/c2fo/blobfs/backend/sftp"
	"github.com/c2fo/blobfs/backend/testsuite"
)

const (
	atmozPort     = "22/tcp"
	atmozUsername = "dummy"
	atmozPassword = "dummy"
	atmozRoot     = "upload"
)

func registerAtmoz(t *testing.T) target {
	ctx := context.Background()
	is := require.New(t)

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:       "blobfs-atmoz-sftp",
			Image:      "atmoz/sftp:alpine",
			Env:        map[string]string{"SFTP_USERS": fmt.Sprintf("%s:%s:::%s", atmozUsername, atmozPassword, atmozRoot)},
			WaitingFor: wait.ForListeningPort(atmozPort),
		},
		Started: true,
	}
	ctr, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, ctr)
	is.NoError(err)

	host, err := ctr.Host(ctx)
	is.NoError(err)

	port, err := ctr.MappedPort(ctx, atmozPort)
	is.NoError(err)

	// the user is chrooted to its home, upload is the only writable directory in it
	adapter := sftp.NewAdapter(sftp.WithOptions(sftp.Options{
		Host:               host,
		Port:               port.Int(),
		Username:           atmozUsername,
		Password:           atmozPassword,
		KnownHostsCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Root:               "/" + atmozRoot,
	}))
	t.Cleanup(func() { _ = adapter.Close() })
	return target{
		name:    sftp.DriverName + "-atmoz",
		adapter: adapter,
		opts:    testsuite.ConformanceOptions{SupportsVisibility: true, SupportsDirectories: true},
	}
}
