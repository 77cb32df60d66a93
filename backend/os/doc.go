/*
Package os local disk adapter built on the os package.

# Usage

Rely on github.com/c2fo/blobfs/backend

	import(
	    "github.com/c2fo/blobfs/backend"
	    _ "github.com/c2fo/blobfs/backend/os"
	)

	func UseFs() error {
	    adapter, err := backend.New("local", blobfs.Config{"root": "/var/lib/uploads"})
	    ...
	}

Or call directly:

	import _os "github.com/c2fo/blobfs/backend/os"

	func DoSomething() {
	    adapter := _os.NewAdapter(_os.WithOptions(_os.Options{Root: "/var/lib/uploads"}))
	    ...
	}

Files are written to a temporary file first and renamed into place, so a reader sees either the old or the new
contents. Renames between devices, e.g. with a TempDir on another volume, fall back to copy and delete.

# Visibility

Visibility maps onto permissions: 0644 and 0600 for public and private files, 0755 and 0700 for directories.
Permissions, and the visibility of files and directories created without one, are configurable.

# See Also

See: https://golang.org/pkg/os/
*/
package os
