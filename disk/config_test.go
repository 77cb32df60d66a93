package disk

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c2fo/blobfs"
)

func readYAML(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return v
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("BLOBFS_TEST_CONNECTION_STRING", "UseDevelopmentStorage=true")
	t.Setenv("BLOBFS_TEST_CONTAINER", "uploads")

	v := readYAML(t, `
filesystems:
  default: azure
  disks:
    azure:
      driver: azure-storage-blob
      connection_string: ${BLOBFS_TEST_CONNECTION_STRING}
      container: $BLOBFS_TEST_CONTAINER
      headers:
        cache_control: max-age=${BLOBFS_TEST_CONTAINER}
    scratch:
      driver: memory
      visibility: private
`)

	cfg, err := LoadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "azure", cfg.Default)
	require.Len(t, cfg.Disks, 2)

	azure := cfg.Disks["azure"]
	assert.Equal(t, "azure-storage-blob", azure.String(OptionDriver, ""))
	assert.Equal(t, "UseDevelopmentStorage=true", azure.String("connection_string", ""))
	assert.Equal(t, "uploads", azure.String("container", ""))
	assert.Equal(t, map[string]string{"cache_control": "max-age=uploads"}, azure.StringMap(blobfs.OptionHeaders))

	scratch := cfg.Disks["scratch"]
	assert.Equal(t, "memory", scratch.String(OptionDriver, ""))
	assert.Equal(t, "private", scratch.String(blobfs.OptionVisibility, ""))
}

func TestLoadConfigDefaultFromEnv(t *testing.T) {
	t.Setenv("BLOBFS_TEST_DISK", "scratch")

	cfg, err := LoadConfig(readYAML(t, `
filesystems:
  default: ${BLOBFS_TEST_DISK}
  disks:
    scratch:
      driver: memory
`))
	require.NoError(t, err)
	assert.Equal(t, "scratch", cfg.Default)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(readYAML(t, "other: true\n"))
	assert.ErrorIs(t, err, ErrConfigMissing)

	_, err = LoadConfig(readYAML(t, `
filesystems:
  default: missing
  disks:
    scratch:
      driver: memory
`))
	assert.ErrorIs(t, err, ErrDiskNotConfigured)

	_, err = LoadConfig(readYAML(t, `
filesystems:
  disks:
    scratch: just-a-string
`))
	assert.Error(t, err)
}

func TestLoadConfigIntoManager(t *testing.T) {
	cfg, err := LoadConfig(readYAML(t, `
filesystems:
  default: scratch
  disks:
    scratch:
      driver: memory
`))
	require.NoError(t, err)

	d, err := NewManager(cfg).Default()
	require.NoError(t, err)
	require.NoError(t, d.Put(t.Context(), "hello.txt", []byte("hi"), nil))
	contents, err := d.Get(t.Context(), "hello.txt")
	require.NoError(t, err)
	assert.Equal(t, "hi", string(contents))
}
