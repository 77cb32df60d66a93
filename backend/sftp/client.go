package sftp

import (
	"os"

	_sftp "github.com/pkg/sftp"
)

// Client is the part of *sftp.Client the adapter uses.
type Client interface {
	Stat(p string) (os.FileInfo, error)
	Lstat(p string) (os.FileInfo, error)
	ReadDir(p string) ([]os.FileInfo, error)
	Open(p string) (*_sftp.File, error)
	OpenFile(p string, f int) (*_sftp.File, error)
	Mkdir(p string) error
	MkdirAll(p string) error
	Chmod(p string, mode os.FileMode) error
	PosixRename(oldname, newname string) error
	Rename(oldname, newname string) error
	Remove(p string) error
	RemoveDirectory(p string) error
	Close() error
}
