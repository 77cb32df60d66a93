/*
Package ftp FTP adapter built on github.com/jlaffaye/ftp.

# Usage

Rely on github.com/c2fo/blobfs/backend

	import(
	    "github.com/c2fo/blobfs/backend"
	    _ "github.com/c2fo/blobfs/backend/ftp"
	)

	func UseFs() error {
	    adapter, err := backend.New("ftp", blobfs.Config{
	        "host":     "ftp.example.com",
	        "username": "uploader",
	        "protocol": "ftpes",
	        "root":     "/upload",
	    })
	    ...
	}

Or call directly:

	import "github.com/c2fo/blobfs/backend/ftp"

	func DoSomething() {
	    adapter := ftp.NewAdapter(ftp.WithOptions(ftp.Options{
	        Host:     "ftp.example.com",
	        Username: "uploader",
	        Password: "secret",
	        Root:     "/upload",
	    }))
	    defer adapter.Close()
	    ...
	}

Credentials and protocol fall back to the environment:

	BLOBFS_FTP_USERNAME
	BLOBFS_FTP_PASSWORD
	BLOBFS_FTP_PROTOCOL

Without a username the adapter logs in as anonymous.

# Connections

An FTP control connection runs one command at a time. The adapter keeps one connection for short commands and
serializes them. ReadStream and Copy dial a second connection for the transfer, so a stream may stay open while
other calls go on; closing the stream quits its connection.

# Protocols

	ftp    plain text (default)
	ftps   implicit TLS, usually on port 990
	ftpes  explicit TLS, AUTH TLS on the regular port

Options.TLSConfig replaces the default TLS 1.2 configuration, e.g. to trust a private certificate authority.

# Visibility

FTP has no portable command to change permissions. SetVisibility and Visibility fail with
blobfs.ErrVisibilityNotSupported, visibility settings passed to writes are ignored.

Servers answering MLST are asked for entries directly. The others, vsftpd among them, are asked for a listing of
the parent directory, and their modification times are only as precise as that listing.
*/
package ftp
