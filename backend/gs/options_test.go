package gs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOptions(t *testing.T) {
	t.Setenv("BLOBFS_GCS_BUCKET", "uploads")
	t.Setenv("BLOBFS_GCS_ENDPOINT", "http://localhost:4443/storage/v1/")

	o := NewOptions()
	assert.Equal(t, "uploads", o.Bucket)
	assert.Equal(t, "http://localhost:4443/storage/v1/", o.Endpoint)
}

func TestParseClientOptions(t *testing.T) {
	assert.Empty(t, parseClientOptions(Options{}))
	assert.Len(t, parseClientOptions(Options{APIKey: "key"}), 1)
	assert.Len(t, parseClientOptions(Options{
		CredentialFile:        "/secrets/key.json",
		Endpoint:              "http://localhost:4443/storage/v1/",
		WithoutAuthentication: true,
		Scopes:                []string{"https://www.googleapis.com/auth/devstorage.read_only"},
	}), 4)
}

func TestGetClient_WithoutAuthentication(t *testing.T) {
	client, err := getClient(t.Context(), Options{WithoutAuthentication: true, Endpoint: "http://localhost:4443/storage/v1/"})
	assert.NoError(t, err)
	assert.NotNil(t, client)
	assert.NoError(t, client.Close())
}
