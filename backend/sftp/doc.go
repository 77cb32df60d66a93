/*
Package sftp SFTP adapter built on github.com/pkg/sftp.

# Usage

Rely on github.com/c2fo/blobfs/backend

	import(
	    "github.com/c2fo/blobfs/backend"
	    _ "github.com/c2fo/blobfs/backend/sftp"
	)

	func UseFs() error {
	    adapter, err := backend.New("sftp", blobfs.Config{
	        "host":     "sftp.example.com",
	        "username": "uploader",
	        "root":     "/upload",
	    })
	    ...
	}

Or call directly:

	import "github.com/c2fo/blobfs/backend/sftp"

	func DoSomething() {
	    adapter := sftp.NewAdapter(sftp.WithOptions(sftp.Options{
	        Host:        "sftp.example.com",
	        Username:    "uploader",
	        KeyFilePath: "/home/bob/.ssh/id_rsa",
	        Root:        "/upload",
	    }))
	    defer adapter.Close()
	    ...
	}

The adapter connects on first use and keeps the connection until Close. A lost connection is dropped and the
next call connects again.

# Authentication

Authentication is by password, private key, or both. Passwords and key files fall back to the environment:

	BLOBFS_SFTP_PASSWORD
	BLOBFS_SFTP_KEYFILE
	BLOBFS_SFTP_KEYFILE_PASSPHRASE

Host keys are checked, in order, against Options.KnownHostsCallback, a single key in Options.KnownHostsString,
Options.KnownHostsFile, the file named by BLOBFS_SFTP_KNOWN_HOSTS_FILE, and finally ~/.ssh/known_hosts and
/etc/ssh/ssh_known_hosts. Setting BLOBFS_SFTP_INSECURE_KNOWN_HOSTS skips the check entirely and should be kept
to testing.

# Visibility

Visibility maps onto permissions set with chmod, as for the local adapter: 0644 and 0600 for public and private
files, 0755 and 0700 for directories.

Files are uploaded to a temporary file and renamed into place with the posix-rename@openssh.com extension.
Servers without it get a delete and rename, which briefly leaves the path missing.
*/
package sftp
