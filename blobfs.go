package blobfs

import (
	"context"
	"io"
	"iter"
	"time"
)

// Adapter is the storage contract every backend implements. Paths handed to an Adapter are already normalized by
// Filesystem: forward-slash delimited, no leading slash, no "." or ".." segments.
type Adapter interface {
	// FileExists reports whether a file exists at path. A directory at path is not a file.
	FileExists(ctx context.Context, path string) (bool, error)

	// DirectoryExists reports whether a directory exists at path. Object stores infer this from the presence of at
	// least one object under the path prefix.
	DirectoryExists(ctx context.Context, path string) (bool, error)

	// Write creates or overwrites the file at path with contents.
	Write(ctx context.Context, path string, contents []byte, cfg Config) error

	// WriteStream creates or overwrites the file at path with everything read from r.
	WriteStream(ctx context.Context, path string, r io.Reader, cfg Config) error

	// Read returns the full contents of the file at path.
	Read(ctx context.Context, path string) ([]byte, error)

	// ReadStream opens the file at path for reading. The caller must close the returned reader.
	ReadStream(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the file at path. Deleting a file that does not exist is not an error.
	Delete(ctx context.Context, path string) error

	// DeleteDirectory removes everything stored under path. An empty path empties the whole store.
	DeleteDirectory(ctx context.Context, path string) error

	// CreateDirectory creates a directory at path. Backends without real directories treat this as a no-op.
	CreateDirectory(ctx context.Context, path string, cfg Config) error

	// SetVisibility changes the visibility of the file at path.
	SetVisibility(ctx context.Context, path string, visibility Visibility) error

	// Visibility returns the visibility of the file at path.
	Visibility(ctx context.Context, path string) (StorageAttributes, error)

	// MimeType returns the mime type of the file at path.
	MimeType(ctx context.Context, path string) (StorageAttributes, error)

	// LastModified returns the last modified time of the file at path.
	LastModified(ctx context.Context, path string) (StorageAttributes, error)

	// FileSize returns the size in bytes of the file at path.
	FileSize(ctx context.Context, path string) (StorageAttributes, error)

	// ListContents lazily yields the entries found under path. With deep set, entries of every nested directory
	// are yielded too, including one directory entry per distinct directory. Iteration stops at the first error.
	ListContents(ctx context.Context, path string, deep bool) iter.Seq2[StorageAttributes, error]

	// Move relocates the file at source to destination. Afterwards source no longer exists.
	Move(ctx context.Context, source, destination string, cfg Config) error

	// Copy duplicates the file at source to destination. The source is left untouched.
	Copy(ctx context.Context, source, destination string, cfg Config) error
}

// PublicURLGenerator is implemented by adapters able to produce a URL for a stored file.
type PublicURLGenerator interface {
	PublicURL(ctx context.Context, path string, cfg Config) (string, error)
}

// TemporaryURLGenerator is implemented by adapters able to produce a time-limited URL granting read access.
type TemporaryURLGenerator interface {
	TemporaryURL(ctx context.Context, path string, expiresAt time.Time, cfg Config) (string, error)
}

// TemporaryUploadURLGenerator is implemented by adapters able to produce a time-limited URL a client can upload to
// directly, without going through the adapter.
type TemporaryUploadURLGenerator interface {
	TemporaryUploadURL(ctx context.Context, path string, expiresAt time.Time, cfg Config) (*UploadURL, error)
}

// ChecksumProvider is implemented by adapters that can compute or look up a checksum without reading the file.
type ChecksumProvider interface {
	Checksum(ctx context.Context, path string, cfg Config) (string, error)
}

// UploadURL holds a pre-signed upload destination and the headers the uploading client must send with its request.
type UploadURL struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
}

// Wrapper is implemented by adapters that decorate another adapter, such as a tracing layer. A wrapper implements
// every optional capability and reports ErrUnsupported when the wrapped adapter lacks it.
type Wrapper interface {
	Unwrap() Adapter
}

// Implements reports whether adapter implements the capability T, looking through any Wrapper layers.
func Implements[T any](adapter Adapter) bool {
	for adapter != nil {
		w, ok := adapter.(Wrapper)
		if !ok {
			_, ok = adapter.(T)
			return ok
		}
		adapter = w.Unwrap()
	}
	return false
}
