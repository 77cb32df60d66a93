package ftp

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	_ftp "github.com/jlaffaye/ftp"

	"github.com/c2fo/blobfs/backend/ftp/types"
)

// Transfer protocols.
const (
	ProtocolFTP   = "ftp"
	ProtocolFTPS  = "ftps"  // implicit TLS
	ProtocolFTPES = "ftpes" // explicit TLS (AUTH TLS)
)

const (
	// DefaultPort is the port dialed when Options.Port is zero.
	DefaultPort = 21
	// DefaultTimeout bounds dialing and every command.
	DefaultTimeout = 30 * time.Second
	// anonymous is the user logged in when none is configured.
	anonymous = "anonymous"
)

// Environment variables read by NewOptions.
const (
	EnvUsername = "BLOBFS_FTP_USERNAME"
	EnvPassword = "BLOBFS_FTP_PASSWORD"
	EnvProtocol = "BLOBFS_FTP_PROTOCOL"
)

// Options holds ftp-specific options.
type Options struct {
	Host        string        `json:"host,omitempty"`
	Port        int           `json:"port,omitempty"`
	Username    string        `json:"username,omitempty"` // env var BLOBFS_FTP_USERNAME
	Password    string        `json:"password,omitempty"` // env var BLOBFS_FTP_PASSWORD
	Protocol    string        `json:"protocol,omitempty"` // env var BLOBFS_FTP_PROTOCOL (ftp[default], ftps, ftpes)
	DisableEPSV bool          `json:"disableEpsv,omitempty"`
	Timeout     time.Duration `json:"timeout,omitempty"`
	// TLSConfig is used by ftps and ftpes. Defaults to TLS 1.2 or later verified against the host name.
	TLSConfig *tls.Config `json:"-"`
	// DebugOutput receives the control connection traffic when set.
	DebugOutput io.Writer `json:"-"`

	// Root is the remote directory every path is resolved against. Relative roots start at the login directory.
	Root string `json:"root,omitempty"`
	// PublicURLBase is prepended to paths by PublicURL.
	PublicURLBase string `json:"publicUrlBase,omitempty"`
}

// NewOptions creates Options from the environment.
//
// Env Vars:
//
//	*BLOBFS_FTP_USERNAME
//	*BLOBFS_FTP_PASSWORD
//	*BLOBFS_FTP_PROTOCOL
func NewOptions() *Options {
	return &Options{
		Username: os.Getenv(EnvUsername),
		Password: os.Getenv(EnvPassword),
		Protocol: os.Getenv(EnvProtocol),
	}
}

func (o *Options) applyDefaults() {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Protocol == "" {
		o.Protocol = ProtocolFTP
	}
	o.Protocol = strings.ToLower(o.Protocol)
	if o.Username == "" {
		o.Username = anonymous
		if o.Password == "" {
			o.Password = anonymous
		}
	}
}

func (o *Options) validate() error {
	switch o.Protocol {
	case ProtocolFTP, ProtocolFTPS, ProtocolFTPES:
		return nil
	}
	return fmt.Errorf("ftp: unknown protocol %q, expected %q, %q or %q", o.Protocol, ProtocolFTP, ProtocolFTPS, ProtocolFTPES)
}

// serverConn adapts *ftp.ServerConn to types.Client.
type serverConn struct {
	*_ftp.ServerConn
}

// Retr returns the transfer as a ReadCloser. It must be closed before the next command.
func (c serverConn) Retr(path string) (io.ReadCloser, error) {
	resp, err := c.ServerConn.Retr(path)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func getClient(ctx context.Context, opts Options) (types.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// always use context, disable EPSV if opt is true
	dialOptions := []_ftp.DialOption{
		_ftp.DialWithContext(ctx),
		_ftp.DialWithTimeout(opts.Timeout),
		_ftp.DialWithDisabledEPSV(opts.DisableEPSV),
	}

	tlsConfig := opts.TLSConfig
	if tlsConfig == nil {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: opts.Host}
	}
	switch opts.Protocol {
	case ProtocolFTPS:
		dialOptions = append(dialOptions, _ftp.DialWithTLS(tlsConfig))
	case ProtocolFTPES:
		dialOptions = append(dialOptions, _ftp.DialWithExplicitTLS(tlsConfig))
	}
	if opts.DebugOutput != nil {
		dialOptions = append(dialOptions, _ftp.DialWithDebugOutput(opts.DebugOutput))
	}

	c, err := _ftp.Dial(net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)), dialOptions...)
	if err != nil {
		return nil, err
	}
	if err := c.Login(opts.Username, opts.Password); err != nil {
		_ = c.Quit()
		return nil, err
	}
	return serverConn{c}, nil
}
