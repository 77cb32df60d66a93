package blobfs

import (
	"fmt"
	"time"
)

// Visibility is the access level of a stored file or directory.
type Visibility string

const (
	Public  Visibility = "public"
	Private Visibility = "private"
)

// ParseVisibility validates s as a Visibility.
func ParseVisibility(s string) (Visibility, error) {
	switch Visibility(s) {
	case Public, Private:
		return Visibility(s), nil
	}
	return "", fmt.Errorf("invalid visibility %q, expected %q or %q", s, Public, Private)
}

func (v Visibility) String() string { return string(v) }

// EntryType tells files and directories apart in listings.
type EntryType int

const (
	TypeFile EntryType = iota
	TypeDirectory
)

func (t EntryType) String() string {
	if t == TypeDirectory {
		return "dir"
	}
	return "file"
}

// StorageAttributes describes a file or directory. Adapters fill in what their store knows; unknown values stay
// nil or empty.
type StorageAttributes struct {
	Type         EntryType
	Path         string
	FileSize     *int64
	Visibility   Visibility
	LastModified *time.Time
	MimeType     string
	Extra        map[string]string
}

// IsFile reports whether the entry is a file.
func (a StorageAttributes) IsFile() bool { return a.Type == TypeFile }

// IsDir reports whether the entry is a directory.
func (a StorageAttributes) IsDir() bool { return a.Type == TypeDirectory }

// FileAttributes builds a file entry for path.
func FileAttributes(path string) StorageAttributes {
	return StorageAttributes{Type: TypeFile, Path: path}
}

// DirectoryAttributes builds a directory entry for path.
func DirectoryAttributes(path string) StorageAttributes {
	return StorageAttributes{Type: TypeDirectory, Path: path}
}
