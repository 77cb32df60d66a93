package utils

import (
	"errors"
	"io"
	"strings"
)

const (
	// ErrBadPrefix constant is returned when a prefix is not relative or ends in / or is empty
	ErrBadPrefix = "prefix is invalid - may not include leading or trailing slashes and may not be empty"
	// TouchCopyMinBufferSize min buffer size used in TouchCopyBuffered in bytes
	TouchCopyMinBufferSize = 262144
)

// RemoveTrailingSlash removes trailing slash, if any
func RemoveTrailingSlash(path string) string {
	return strings.TrimRight(path, "/")
}

// RemoveLeadingSlash removes leading slash, if any
func RemoveLeadingSlash(path string) string {
	return strings.TrimLeft(path, "/")
}

// ValidatePrefix ensures that a prefix path has neither leading nor trailing slashes and is not empty
func ValidatePrefix(prefix string) error {
	if prefix == "" || strings.HasPrefix(prefix, "/") || strings.HasSuffix(prefix, "/") {
		return errors.New(ErrBadPrefix)
	}
	return nil
}

// PathPrefixer maps adapter relative paths onto store keys below a fixed prefix, and back.
type PathPrefixer struct {
	prefix string
}

// NewPathPrefixer returns a PathPrefixer for prefix. Surrounding slashes are ignored and an empty prefix maps
// paths onto themselves.
func NewPathPrefixer(prefix string) PathPrefixer {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return PathPrefixer{prefix: prefix}
}

// Prefix returns the prefix including its trailing slash, or "" when there is none.
func (p PathPrefixer) Prefix() string {
	return p.prefix
}

// PrefixPath returns the store key of a file path.
func (p PathPrefixer) PrefixPath(path string) string {
	return p.prefix + RemoveLeadingSlash(path)
}

// PrefixDirectoryPath returns the store key prefix of a directory path, always ending in a slash unless it denotes
// the root of an unprefixed store.
func (p PathPrefixer) PrefixDirectoryPath(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return p.prefix
	}
	return p.prefix + path + "/"
}

// StripPrefix turns a store key back into an adapter relative path.
func (p PathPrefixer) StripPrefix(key string) string {
	return RemoveLeadingSlash(strings.TrimPrefix(key, p.prefix))
}

// StripDirectoryPrefix turns a store key prefix back into an adapter relative directory path.
func (p PathPrefixer) StripDirectoryPrefix(key string) string {
	return RemoveTrailingSlash(p.StripPrefix(key))
}

// TouchCopyBuffered is a wrapper around io.CopyBuffer which ensures that even empty source files (reader) will get written as an
// empty file. It guarantees a Write() call on the target file.
// bufferSize is in bytes and if is less than TouchCopyMinBufferSize will result in a buffer of size TouchCopyMinBufferSize
// bytes. If bufferSize is > TouchCopyMinBufferSize it will result in a buffer of size bufferSize bytes
func TouchCopyBuffered(writer io.Writer, reader io.Reader, bufferSize int) (int64, error) {
	if bufferSize < TouchCopyMinBufferSize {
		bufferSize = TouchCopyMinBufferSize
	}

	size, err := io.CopyBuffer(writer, reader, make([]byte, bufferSize))
	if err != nil {
		return size, err
	}
	if size == 0 {
		if _, err = writer.Write([]byte{}); err != nil {
			return 0, err
		}
	}
	return size, nil
}

// Ptr returns a pointer to the given value.
func Ptr[T any](value T) *T {
	return &value
}
