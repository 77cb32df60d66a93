/*
Package backend provides a means of allowing storage drivers to self-register on load via an init() call to
backend.Register("some name", factory)

In this way, a caller can simply load the drivers (and ONLY those needed) and build adapters from configuration:

	package main

	// import backend and each driver you intend to use
	import(
	    "github.com/c2fo/blobfs"
	    "github.com/c2fo/blobfs/backend"
	    "github.com/c2fo/blobfs/backend/azure"
	)

	func main() {
	    adapter, err := backend.New(azure.DriverName, blobfs.Config{
	        "connection_string": os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
	        "container":         "uploads",
	    })
	    if err != nil {
	        panic(err)
	    }

	    fs := blobfs.New(adapter, nil)
	    ...
	}

# Development

To create your own driver, create a package that implements blobfs.Adapter and a DriverFactory turning disk
configuration into it. Then ensure it registers itself on load:

	package myexoticstore

	func init() {
	    backend.Register("exotic", func(cfg blobfs.Config) (blobfs.Adapter, error) {
	        return NewAdapter(cfg.String("endpoint", "")), nil
	    })
	}

The disk package resolves a disk's "driver" key through this registry.
*/
package backend
