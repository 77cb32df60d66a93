// Package all imports all blobfs drivers.
package all

import (
	_ "github.com/c2fo/blobfs/backend/azure" // register azure-storage-blob driver
	_ "github.com/c2fo/blobfs/backend/ftp"   // register ftp driver
	_ "github.com/c2fo/blobfs/backend/gs"    // register gcs driver
	_ "github.com/c2fo/blobfs/backend/mem"   // register memory driver
	_ "github.com/c2fo/blobfs/backend/os"    // register local driver
	_ "github.com/c2fo/blobfs/backend/s3"    // register s3 driver
	_ "github.com/c2fo/blobfs/backend/sftp"  // register sftp driver
)
