package testcontainers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/c2fo/blobfs/backend/ftp"
	"github.com/c2fo/blobfs/backend/testsuite"
)

const (
	vsftpdPort     = "21/tcp"
	vsftpdUsername = "admin"
	vsftpdPassword = "dummy"
)

func registerVSFTPD(t *testing.T) target {
	ctx := context.Background()
	is := require.New(t)

	req := testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Name:         "blobfs-vsftpd",
			Image:        "fauria/vsftpd:latest",
			ExposedPorts: []string{"21", "21100-21110:21100-21110"},
			Env:          map[string]string{"FTP_USER": vsftpdUsername, "FTP_PASS": vsftpdPassword},
			WaitingFor:   wait.ForListeningPort(vsftpdPort),
		},
		Started: true,
	}
	ctr, err := testcontainers.GenericContainer(ctx, req)
	testcontainers.CleanupContainer(t, ctr)
	is.NoError(err)

	host, err := ctr.Host(ctx)
	is.NoError(err)

	port, err := ctr.MappedPort(ctx, vsftpdPort)
	is.NoError(err)

	adapter := ftp.NewAdapter(ftp.WithOptions(ftp.Options{
		Host:     host,
		Port:     port.Int(),
		Username: vsftpdUsername,
		Password: vsftpdPassword,
		Root:     "/",
	}))
	t.Cleanup(func() { _ = adapter.Close() })
	// vsftpd offers no way to change permissions over FTP
	return target{
		name:    ftp.DriverName + "-vsftpd",
		adapter: adapter,
		opts:    testsuite.ConformanceOptions{VisibilityNotSupported: true, SupportsDirectories: true},
	}
}
