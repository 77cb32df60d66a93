// Package types provides the interfaces the FTP adapter talks to servers through.
package types

import (
	"io"

	_ftp "github.com/jlaffaye/ftp"
)

// Client is one FTP control connection. A connection runs one command at a time and a transfer must be closed
// before the next command.
type Client interface {
	Login(user string, password string) error
	Quit() error
	List(p string) ([]*_ftp.Entry, error)
	GetEntry(p string) (*_ftp.Entry, error)
	IsTimePreciseInList() bool
	MakeDir(path string) error
	RemoveDirRecur(path string) error
	Delete(path string) error
	Rename(from, to string) error
	Retr(path string) (io.ReadCloser, error)
	Stor(path string, r io.Reader) error
}
