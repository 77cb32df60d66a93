/*
Package disk resolves named, configured filesystems.

A disk is a Filesystem built from a block of configuration naming a driver:

	filesystems:
	  default: azure
	  disks:
	    azure:
	      driver: azure-storage-blob
	      connection_string: ${AZURE_STORAGE_CONNECTION_STRING}
	      container: ${AZURE_STORAGE_CONTAINER}
	    scratch:
	      driver: memory

Load it with viper and hand it to a Manager. Drivers are looked up in the backend registry, so import the
backends the configuration uses (or github.com/c2fo/blobfs/backend/all):

	import (
	    _ "github.com/c2fo/blobfs/backend/all"
	    "github.com/c2fo/blobfs/disk"
	)

	cfg, err := disk.LoadConfig(viper.GetViper())
	manager := disk.NewManager(cfg)

	d, err := manager.Disk("azure")
	err = d.Put(ctx, "file.txt", []byte("content"), nil)
	url, err := d.TemporaryURL(ctx, "file.txt", time.Now().Add(time.Minute), nil)

Manager.Extend registers a driver for one manager without touching the global registry.
*/
package disk
