/*
Package mem is the in-memory blobfs.Adapter.

# Usage

Rely on github.com/c2fo/blobfs/backend

	import(
	    "github.com/c2fo/blobfs/backend"
	    _ "github.com/c2fo/blobfs/backend/mem"
	)

	func UseFs() error {
	    adapter, err := backend.New(mem.DriverName, nil)
	    ...
	}

Or call directly:

	import "github.com/c2fo/blobfs/backend/mem"

	func DoSomething() {
	    fs := blobfs.New(mem.NewAdapter(), nil)
	    ...
	}

Unlike the object store adapters, the in-memory adapter keeps real directories: CreateDirectory records an empty
directory that shows up in listings until it is deleted.
*/
package mem
