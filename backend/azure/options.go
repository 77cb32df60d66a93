package azure

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

const (
	// DefaultPublicURLExpiry is how long a signed public URL stays valid.
	DefaultPublicURLExpiry = time.Hour
	// DefaultUploadBlockSize is the size of each block of a staged upload.
	DefaultUploadBlockSize = 4 * 1024 * 1024
	// DefaultUploadConcurrency is the number of blocks staged in parallel.
	DefaultUploadConcurrency = 5
	// DefaultMaxRetries is the number of times a failed request is retried.
	DefaultMaxRetries = 3
	// DefaultMaxIdleConnsPerHost bounds the pool of idle connections kept for the storage account.
	DefaultMaxIdleConnsPerHost = 64
	// DefaultCopyPollInterval is how often the status of a pending server side copy is checked.
	DefaultCopyPollInterval = 500 * time.Millisecond
)

// Options contains options necessary for the azure blob adapter
type Options struct {
	// ConnectionString holds an Azure Storage connection string. Explicitly set fields below take precedence over
	// the values found in it.
	ConnectionString string

	// AccountName holds the Azure Blob Storage account name for authentication
	AccountName string

	// AccountKey holds the Azure Blob Storage account key for authentication
	AccountKey string

	// ServiceURL holds the blob service endpoint, e.g. https://myaccount.blob.core.windows.net. When empty it is
	// taken from the connection string or derived from AccountName.
	ServiceURL string

	// TenantID holds the Azure Service Account tenant id for authentication
	TenantID string

	// ClientID holds the Azure Service Account client id for authentication
	ClientID string

	// ClientSecret holds the Azure Service Account client secret for authentication
	ClientSecret string

	// Container holds the name of the container the adapter works in
	Container string

	// Prefix holds a path prefix every blob name is placed below
	Prefix string

	// VisibilityHandling decides what happens when visibility is changed or requested
	VisibilityHandling VisibilityHandling

	// UseDirectPublicURL makes PublicURL return the plain blob URL instead of a signed one
	UseDirectPublicURL bool

	// PublicURLExpiry holds how long signed public URLs stay valid
	PublicURLExpiry time.Duration

	// UploadBlockSize holds the block size of staged uploads in bytes
	UploadBlockSize int64

	// UploadConcurrency holds the number of blocks staged in parallel
	UploadConcurrency int

	// MaxRetries holds the number of retries of a failed request, with exponential backoff between tries
	MaxRetries int32

	// RetryDelay holds the initial backoff delay. Zero uses the SDK default.
	RetryDelay time.Duration

	// MaxRetryDelay holds the upper bound of the backoff delay. Zero uses the SDK default.
	MaxRetryDelay time.Duration

	// TryTimeout holds the timeout of a single try. Zero uses the SDK default.
	TryTimeout time.Duration

	// MaxIdleConnsPerHost bounds the idle connection pool of the HTTP transport
	MaxIdleConnsPerHost int

	// CopyPollInterval holds how often a pending server side copy is polled
	CopyPollInterval time.Duration

	tokenCredentialFactory TokenCredentialFactory
}

// NewOptions creates a new Options struct by populating values from environment variables.
//
// Env Vars:
//
//	*AZURE_STORAGE_CONNECTION_STRING
//	*AZURE_STORAGE_CONTAINER
//	*AZURE_STORAGE_ACCOUNT
//	*AZURE_STORAGE_KEY
//	*AZURE_STORAGE_SERVICE_URL
//	*AZURE_TENANT_ID
//	*AZURE_CLIENT_ID
//	*AZURE_CLIENT_SECRET
func NewOptions() *Options {
	o := &Options{
		ConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
		Container:        os.Getenv("AZURE_STORAGE_CONTAINER"),
		AccountName:      os.Getenv("AZURE_STORAGE_ACCOUNT"),
		AccountKey:       os.Getenv("AZURE_STORAGE_KEY"),
		ServiceURL:       os.Getenv("AZURE_STORAGE_SERVICE_URL"),
		TenantID:         os.Getenv("AZURE_TENANT_ID"),
		ClientID:         os.Getenv("AZURE_CLIENT_ID"),
		ClientSecret:     os.Getenv("AZURE_CLIENT_SECRET"),
	}
	o.applyDefaults()
	return o
}

// applyDefaults fills every unset tuning knob with its default.
func (o *Options) applyDefaults() {
	if o.PublicURLExpiry <= 0 {
		o.PublicURLExpiry = DefaultPublicURLExpiry
	}
	if o.UploadBlockSize <= 0 {
		o.UploadBlockSize = DefaultUploadBlockSize
	}
	if o.UploadConcurrency <= 0 {
		o.UploadConcurrency = DefaultUploadConcurrency
	}
	if o.MaxRetries == 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.MaxIdleConnsPerHost <= 0 {
		o.MaxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}
	if o.CopyPollInterval <= 0 {
		o.CopyPollInterval = DefaultCopyPollInterval
	}
	if o.tokenCredentialFactory == nil {
		o.tokenCredentialFactory = DefaultTokenCredentialFactory
	}
}

// connectionString parses ConnectionString, returning an empty result when none is set.
func (o *Options) connectionString() (*ConnectionString, error) {
	if o.ConnectionString == "" {
		return &ConnectionString{}, nil
	}
	return ParseConnectionString(o.ConnectionString)
}

// Credential returns the credential the client authenticates with, in order of preference:
//
//  1. a token credential when TenantID, ClientID and ClientSecret are all set
//  2. a *azblob.SharedKeyCredential when an account name and key are set, directly or through the connection string
//  3. nil, for anonymous access or a shared access signature carried by the connection string
func (o *Options) Credential() (any, error) {
	// Check to see if we have service account credentials
	if o.TenantID != "" && o.ClientID != "" && o.ClientSecret != "" {
		factory := o.tokenCredentialFactory
		if factory == nil {
			factory = DefaultTokenCredentialFactory
		}
		return factory(o.TenantID, o.ClientID, o.ClientSecret)
	}

	cs, err := o.connectionString()
	if err != nil {
		return nil, err
	}

	// Check to see if we have storage account credentials
	accountName, accountKey := firstNonEmpty(o.AccountName, cs.AccountName), firstNonEmpty(o.AccountKey, cs.AccountKey)
	if accountName != "" && accountKey != "" {
		return azblob.NewSharedKeyCredential(accountName, accountKey)
	}

	// Return an anonymous credential
	return nil, nil
}

// Endpoint returns the blob service URL and the shared access signature of the connection string, if any.
func (o *Options) Endpoint() (*url.URL, string, error) {
	cs, err := o.connectionString()
	if err != nil {
		return nil, "", err
	}

	raw := o.ServiceURL
	if raw == "" {
		raw = cs.BlobEndpoint
	}
	if raw == "" {
		accountName := firstNonEmpty(o.AccountName, cs.AccountName)
		if accountName == "" {
			return nil, "", errors.New("azure: no service url, connection string or account name configured")
		}
		raw = fmt.Sprintf("https://%s.blob.core.windows.net", accountName)
	}

	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, "", fmt.Errorf("azure: invalid service url %q: %w", raw, err)
	}
	sasToken := cs.SharedAccessSignature
	if u.RawQuery != "" {
		sasToken = u.RawQuery
		u.RawQuery = ""
	}
	return u, strings.TrimPrefix(sasToken, "?"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
