package blobfs

import (
	"errors"
	"fmt"
)

// Error is a type that allows for error constants below
type Error string

// Error returns a string representation of the error
func (e Error) Error() string { return string(e) }

const (
	// ErrNotExist - File does not exist
	ErrNotExist = Error("file does not exist")

	// ErrVisibilityNotSupported - the backing store has no per-object access control
	ErrVisibilityNotSupported = Error("visibility is not supported by this adapter")

	// ErrUnsupported - the adapter does not provide the requested capability
	ErrUnsupported = Error("operation is not supported by this adapter")

	// ErrPathTraversal - a path tried to escape the root using ".." segments
	ErrPathTraversal = Error("path traversal detected")

	// ErrCorruptedPath - a path contains control characters
	ErrCorruptedPath = Error("corrupted path detected")

	// ErrMetadataUnavailable - the adapter could not report the requested piece of metadata
	ErrMetadataUnavailable = Error("metadata is not available")

	// ErrExpiryInPast - a temporary URL was requested with an expiry that already passed
	ErrExpiryInPast = Error("expiry must be in the future")
)

// Operation names the contract operation that failed.
type Operation string

const (
	OpWrite             Operation = "write"
	OpRead              Operation = "read"
	OpDelete            Operation = "delete"
	OpDeleteDirectory   Operation = "delete directory"
	OpCreateDirectory   Operation = "create directory"
	OpCheckExistence    Operation = "check existence"
	OpSetVisibility     Operation = "set visibility"
	OpRetrieveMetadata  Operation = "retrieve metadata"
	OpListContents      Operation = "list contents"
	OpMove              Operation = "move"
	OpCopy              Operation = "copy"
	OpGeneratePublicURL Operation = "generate public url"
	OpGenerateTempURL   Operation = "generate temporary url"
	OpGenerateUploadURL Operation = "generate temporary upload url"
	OpProvideChecksum   Operation = "provide checksum"
	OpResolvePath       Operation = "resolve path"
)

// OperationError records the operation and path of a failed contract call along with the underlying cause.
type OperationError struct {
	Op   Operation
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to %s at location: %s", e.Op, e.Path)
	}
	return fmt.Sprintf("unable to %s at location: %s: %s", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// NewOperationError wraps err with the failed operation and path. An err that is already an OperationError for the
// same operation is returned unchanged.
func NewOperationError(op Operation, path string, err error) error {
	var opErr *OperationError
	if errors.As(err, &opErr) && opErr.Op == op {
		return err
	}
	return &OperationError{Op: op, Path: path, Err: err}
}

// IsOperation reports whether err is an OperationError for op.
func IsOperation(err error, op Operation) bool {
	var opErr *OperationError
	return errors.As(err, &opErr) && opErr.Op == op
}
