package gs

import (
	"context"
	"os"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/c2fo/blobfs"
)

// DefaultPublicURLBase is the host public object URLs are built on.
const DefaultPublicURLBase = "https://storage.googleapis.com"

// Options holds Google Cloud Storage-specific options.
type Options struct {
	Bucket                string            `json:"bucket,omitempty"`
	Prefix                string            `json:"prefix,omitempty"`
	APIKey                string            `json:"apiKey,omitempty"`
	CredentialFile        string            `json:"credentialFilePath,omitempty"`
	Endpoint              string            `json:"endpoint,omitempty"`
	WithoutAuthentication bool              `json:"withoutAuthentication,omitempty"`
	Scopes                []string          `json:"scopes,omitempty"`
	MaxRetries            int               `json:"maxRetries,omitempty"`
	Visibility            blobfs.Visibility `json:"visibility,omitempty"` // predefined ACL applied to writes without a visibility, none when empty
	PublicURLBase         string            `json:"publicUrlBase,omitempty"`
	// SigningEmail and SigningPrivateKey (PEM) sign temporary URLs. Without them the client credentials are used.
	SigningEmail      string `json:"signingEmail,omitempty"`
	SigningPrivateKey string `json:"signingPrivateKey,omitempty"`
}

// NewOptions creates Options from the environment.
//
// Env Vars:
//
//	*BLOBFS_GCS_BUCKET
//	*BLOBFS_GCS_ENDPOINT
//
// Credentials are left to Application Default Credentials, e.g. GOOGLE_APPLICATION_CREDENTIALS.
func NewOptions() *Options {
	return &Options{
		Bucket:   os.Getenv("BLOBFS_GCS_BUCKET"),
		Endpoint: os.Getenv("BLOBFS_GCS_ENDPOINT"),
	}
}

func (o *Options) applyDefaults() {
	if o.PublicURLBase == "" {
		o.PublicURLBase = DefaultPublicURLBase
	}
}

func parseClientOptions(opts Options) []option.ClientOption {
	var googleClientOpts []option.ClientOption
	if opts.APIKey != "" {
		googleClientOpts = append(googleClientOpts, option.WithAPIKey(opts.APIKey))
	}
	if opts.CredentialFile != "" {
		googleClientOpts = append(googleClientOpts, option.WithCredentialsFile(opts.CredentialFile))
	}
	if opts.Endpoint != "" {
		googleClientOpts = append(googleClientOpts, option.WithEndpoint(opts.Endpoint))
	}
	if opts.WithoutAuthentication {
		googleClientOpts = append(googleClientOpts, option.WithoutAuthentication())
	}
	if len(opts.Scopes) > 0 {
		googleClientOpts = append(googleClientOpts, option.WithScopes(opts.Scopes...))
	}
	return googleClientOpts
}

func getClient(ctx context.Context, opts Options) (*storage.Client, error) {
	return storage.NewClient(ctx, parseClientOptions(opts)...)
}
