/*
Package blobfs provides a single path based file storage contract over a number of storage services such as Azure
Blob Storage, S3, GCS, the local disk and memory.

# Philosophy

Application code that stores files usually ends up with something to the effect of

	if config.DISK == "azure" {
		// do some blob operation
	} else if config.DISK == "s3" {
		// do some s3 operation
	} else {
		// do some native os.xxx operation
	}

blobfs replaces that with an Adapter interface every backend implements the same way. Object stores have no real
directories, so directories are synthesized from key prefixes: a directory exists when at least one object lives
beneath it, and deep listings yield one directory entry per distinct path segment.

What the contract gives you:
  - write, read, copy, move and delete of files, both buffered and streamed
  - file and directory existence checks that never confuse one for the other
  - lazy listings (iter.Seq2) that page through the store only as far as the caller reads
  - visibility, mime type, size and last modified metadata where the store supports them
  - public, temporary and temporary upload URLs through optional capability interfaces
  - a Filesystem facade that normalizes paths and merges default options

# Usage

Adapters live under backend/. Build one directly and wrap it in a Filesystem:

	adapter := azure.NewAdapter(
		azure.WithOptions(azure.Options{
			ConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
			Container:        "uploads",
		}),
	)
	fs := blobfs.New(adapter, blobfs.Config{blobfs.OptionVisibility: blobfs.Private})

	err := fs.Write(ctx, "reports/2024/summary.txt", []byte("hello"), nil)
	for entry, err := range fs.ListContents(ctx, "reports", true) {
		if err != nil {
			return err
		}
		fmt.Println(entry.Type, entry.Path)
	}

	url, err := fs.TemporaryURL(ctx, "reports/2024/summary.txt", time.Now().Add(time.Hour), nil)

Or configure named disks and resolve them through the disk package, which looks up adapters by driver name in the
backend registry:

	manager := disk.NewManager(cfg)
	d, err := manager.Disk("azure")

# Errors

Operations fail with *OperationError, recording the operation and path. The underlying cause stays reachable with
errors.Is, e.g. errors.Is(err, blobfs.ErrNotExist) for a missing file or blobfs.ErrVisibilityNotSupported for a
store without per-object access control.
*/
package blobfs
