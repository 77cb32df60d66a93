package sftp

import (
	"context"
	"errors"
	"net"
	"os"
	"path"
	"runtime"
	"strconv"
	"time"

	"github.com/mitchellh/go-homedir"
	_sftp "github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/utils"
)

const (
	// DefaultPort is the port dialed when Options.Port is zero.
	DefaultPort = 22
	// DefaultConnectTimeout bounds dialing and the ssh handshake.
	DefaultConnectTimeout = 30 * time.Second

	systemWideKnownHosts = "/etc/ssh/ssh_known_hosts"
)

// Environment variables read by NewOptions and by the host key lookup.
const (
	EnvPassword           = "BLOBFS_SFTP_PASSWORD"
	EnvKeyFile            = "BLOBFS_SFTP_KEYFILE"
	EnvKeyFilePassphrase  = "BLOBFS_SFTP_KEYFILE_PASSPHRASE"
	EnvKnownHostsFile     = "BLOBFS_SFTP_KNOWN_HOSTS_FILE"
	EnvInsecureKnownHosts = "BLOBFS_SFTP_INSECURE_KNOWN_HOSTS"
)

// ErrNoAuthMethod is returned when neither a password nor a key file is configured.
var ErrNoAuthMethod = errors.New("sftp: a password or a key file is required")

// Options holds sftp-specific options.
type Options struct {
	Host               string              `json:"host,omitempty"`
	Port               int                 `json:"port,omitempty"`
	Username           string              `json:"username,omitempty"`
	Password           string              `json:"password,omitempty"`       // env var BLOBFS_SFTP_PASSWORD
	KeyFilePath        string              `json:"keyFilePath,omitempty"`    // env var BLOBFS_SFTP_KEYFILE
	KeyPassphrase      string              `json:"keyPassphrase,omitempty"`  // env var BLOBFS_SFTP_KEYFILE_PASSPHRASE
	KnownHostsFile     string              `json:"knownHostsFile,omitempty"` // env var BLOBFS_SFTP_KNOWN_HOSTS_FILE
	KnownHostsString   string              `json:"knownHostsString,omitempty"`
	KnownHostsCallback ssh.HostKeyCallback `json:"-"` // env var BLOBFS_SFTP_INSECURE_KNOWN_HOSTS
	ConnectTimeout     time.Duration       `json:"connectTimeout,omitempty"`

	// Root is the remote directory every path is resolved against. Relative roots start at the login directory.
	Root        string            `json:"root,omitempty"`
	Permissions utils.Permissions `json:"permissions"`
	// DefaultVisibility applies to files written without a visibility. Defaults to public.
	DefaultVisibility blobfs.Visibility `json:"defaultVisibility,omitempty"`
	// DefaultDirectoryVisibility applies to directories created without a visibility. Defaults to public.
	DefaultDirectoryVisibility blobfs.Visibility `json:"defaultDirectoryVisibility,omitempty"`
	// PublicURLBase is prepended to paths by PublicURL.
	PublicURLBase string `json:"publicUrlBase,omitempty"`
}

// NewOptions creates Options from the environment.
//
// Env Vars:
//
//	*BLOBFS_SFTP_PASSWORD
//	*BLOBFS_SFTP_KEYFILE
//	*BLOBFS_SFTP_KEYFILE_PASSPHRASE
//	*BLOBFS_SFTP_KNOWN_HOSTS_FILE
func NewOptions() *Options {
	return &Options{
		Password:       os.Getenv(EnvPassword),
		KeyFilePath:    os.Getenv(EnvKeyFile),
		KeyPassphrase:  os.Getenv(EnvKeyFilePassphrase),
		KnownHostsFile: os.Getenv(EnvKnownHostsFile),
	}
}

func (o *Options) applyDefaults() {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.ConnectTimeout == 0 {
		o.ConnectTimeout = DefaultConnectTimeout
	}
	o.Permissions = o.Permissions.WithDefaults()
	if o.DefaultVisibility == "" {
		o.DefaultVisibility = blobfs.Public
	}
	if o.DefaultDirectoryVisibility == "" {
		o.DefaultDirectoryVisibility = blobfs.Public
	}
}

// conn pairs the sftp session with the ssh connection it runs over, so closing one closes both.
type conn struct {
	*_sftp.Client
	ssh *ssh.Client
}

// Close ends the sftp session and the ssh connection.
func (c *conn) Close() error {
	return errors.Join(c.Client.Close(), c.ssh.Close())
}

func getClient(ctx context.Context, opts Options) (Client, error) {
	// setup Authentication
	authMethods, err := getAuthMethods(opts)
	if err != nil {
		return nil, err
	}

	// get callback for handling known_hosts man-in-the-middle checks
	hostKeyCallback, err := getHostKeyCallback(opts)
	if err != nil {
		return nil, err
	}

	config := &ssh.ClientConfig{
		User:            opts.Username,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         opts.ConnectTimeout,
	}

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	var d net.Dialer
	netConn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = netConn.SetDeadline(deadline)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, config)
	if err != nil {
		_ = netConn.Close()
		return nil, err
	}
	_ = netConn.SetDeadline(time.Time{})
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := _sftp.NewClient(sshClient, _sftp.UseConcurrentReads(true), _sftp.UseConcurrentWrites(true))
	if err != nil {
		_ = sshClient.Close()
		return nil, err
	}
	return &conn{Client: client, ssh: sshClient}, nil
}

// getHostKeyCallback gets the host key callback, trying in order the explicit callback, a single known key, the
// configured known_hosts file, the file named by the environment and the user/system-wide known_hosts files.
// Configured files that do not exist are skipped.
func getHostKeyCallback(opts Options) (ssh.HostKeyCallback, error) {
	switch {
	case opts.KnownHostsCallback != nil:
		return opts.KnownHostsCallback, nil

	case opts.KnownHostsString != "":
		hostKey, _, _, _, err := ssh.ParseAuthorizedKey([]byte(opts.KnownHostsString))
		if err != nil {
			return nil, err
		}
		return ssh.FixedHostKey(hostKey), nil
	}

	for _, file := range []string{opts.KnownHostsFile, os.Getenv(EnvKnownHostsFile)} {
		if file == "" {
			continue
		}
		// check first to prevent auto-vivification of file
		found, err := foundFile(file)
		if err != nil {
			return nil, err
		}
		if found {
			return knownhosts.New(file)
		}
	}

	if os.Getenv(EnvInsecureKnownHosts) != "" {
		return ssh.InsecureIgnoreHostKey(), nil //nolint:gosec
	}

	// use user/system-wide known_hosts paths (as defined by OpenSSH https://man.openbsd.org/ssh)
	knownHostsFiles, err := findHomeSystemKnownHosts(nil)
	if err != nil {
		return nil, err
	}
	return knownhosts.New(knownHostsFiles...)
}

func findHomeSystemKnownHosts(knownHostsFiles []string) ([]string, error) {
	// add ~/.ssh/known_hosts
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}
	homeKnownHostsPath := path.Join(home, ".ssh/known_hosts")

	found, err := foundFile(homeKnownHostsPath)
	if err != nil {
		return nil, err
	}
	if found {
		knownHostsFiles = append(knownHostsFiles, homeKnownHostsPath)
	}

	// SSH doesn't exist natively on Windows and each implementation has a different location for known_hosts.
	// Better to specify in KnownHostsFile for Windows
	if runtime.GOOS != "windows" {
		found, err := foundFile(systemWideKnownHosts)
		if err != nil {
			return nil, err
		}
		if found {
			knownHostsFiles = append(knownHostsFiles, systemWideKnownHosts)
		}
	}
	return knownHostsFiles, nil
}

func foundFile(file string) (bool, error) {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func getAuthMethods(opts Options) ([]ssh.AuthMethod, error) {
	auth := make([]ssh.AuthMethod, 0)
	if opts.Password != "" {
		auth = append(auth, ssh.Password(opts.Password))
	}
	if opts.KeyFilePath != "" {
		secretKey, err := getKeyFile(opts.KeyFilePath, opts.KeyPassphrase)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(secretKey))
	}
	if len(auth) == 0 {
		return nil, ErrNoAuthMethod
	}
	return auth, nil
}

func getKeyFile(file, passphrase string) (ssh.Signer, error) {
	buf, err := os.ReadFile(file) //nolint:gosec
	if err != nil {
		return nil, err
	}
	if passphrase != "" {
		return ssh.ParsePrivateKeyWithPassphrase(buf, []byte(passphrase))
	}
	return ssh.ParsePrivateKey(buf)
}
