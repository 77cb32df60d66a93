package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"
)

// ErrCannotSign is returned when a signed URL is requested from a client holding neither a key, a token nor a
// shared access signature.
var ErrCannotSign = errors.New("azure: signed urls need a shared key, a token credential or a shared access signature")

// DefaultClient is the main implementation that actually makes the calls to Azure Blob Storage
type DefaultClient struct {
	serviceURL *url.URL
	sasToken   string
	credential any
	container  string

	blockSize        int64
	concurrency      int
	maxRetries       int32
	copyPollInterval time.Duration
	clientOptions    azcore.ClientOptions

	mu              sync.Mutex
	containerClient *container.Client
}

// NewClient initializes a new DefaultClient for the container named by options.
func NewClient(options *Options) (*DefaultClient, error) {
	opts := *options
	opts.applyDefaults()

	credential, err := opts.Credential()
	if err != nil {
		return nil, err
	}
	serviceURL, sasToken, err := opts.Endpoint()
	if err != nil {
		return nil, err
	}

	return &DefaultClient{
		serviceURL:       serviceURL,
		sasToken:         sasToken,
		credential:       credential,
		container:        opts.Container,
		blockSize:        opts.UploadBlockSize,
		concurrency:      opts.UploadConcurrency,
		maxRetries:       opts.MaxRetries,
		copyPollInterval: opts.CopyPollInterval,
		clientOptions:    newClientOptions(&opts),
	}, nil
}

// newClientOptions configures the SDK pipeline: exponential backoff retries and a pooled transport shared by every
// request the client makes.
func newClientOptions(o *Options) azcore.ClientOptions {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          o.MaxIdleConnsPerHost * 2,
		MaxIdleConnsPerHost:   o.MaxIdleConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return azcore.ClientOptions{
		Retry: policy.RetryOptions{
			MaxRetries:    o.MaxRetries,
			RetryDelay:    o.RetryDelay,
			MaxRetryDelay: o.MaxRetryDelay,
			TryTimeout:    o.TryTimeout,
		},
		Transport: &http.Client{Transport: transport},
	}
}

// Container returns the name of the container the client works in.
func (a *DefaultClient) Container() string {
	return a.container
}

func (a *DefaultClient) getContainerClient() (*container.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.containerClient != nil {
		return a.containerClient, nil
	}

	containerURL := runtime.JoinPaths(a.serviceURL.String(), a.container)
	if a.sasToken != "" {
		containerURL += "?" + a.sasToken
	}
	opts := &container.ClientOptions{ClientOptions: a.clientOptions}

	var (
		cli *container.Client
		err error
	)
	switch cred := a.credential.(type) {
	case azcore.TokenCredential:
		cli, err = container.NewClient(containerURL, cred, opts)
	case *azblob.SharedKeyCredential:
		cli, err = container.NewClientWithSharedKeyCredential(containerURL, cred, opts)
	default:
		cli, err = container.NewClientWithNoCredential(containerURL, opts)
	}
	if err != nil {
		return nil, err
	}
	a.containerClient = cli
	return cli, nil
}

func (a *DefaultClient) blobClient(blobName string) (*blob.Client, error) {
	cli, err := a.getContainerClient()
	if err != nil {
		return nil, err
	}
	return cli.NewBlobClient(blobName), nil
}

// Properties fetches the properties for the named blob
func (a *DefaultClient) Properties(ctx context.Context, blobName string) (*BlobProperties, error) {
	cli, err := a.blobClient(blobName)
	if err != nil {
		return nil, err
	}
	resp, err := cli.GetProperties(ctx, nil)
	if err != nil {
		return nil, err
	}
	return NewBlobProperties(resp), nil
}

// Upload stages content as blocks of the configured size, uploading several in parallel, and commits them as the
// named blob.
func (a *DefaultClient) Upload(ctx context.Context, blobName string, content io.Reader, opts UploadOptions) error {
	cli, err := a.getContainerClient()
	if err != nil {
		return err
	}

	headers := &blob.HTTPHeaders{}
	if opts.ContentType != "" {
		headers.BlobContentType = to.Ptr(opts.ContentType)
	}
	if opts.CacheControl != "" {
		headers.BlobCacheControl = to.Ptr(opts.CacheControl)
	}
	if opts.ContentDisposition != "" {
		headers.BlobContentDisposition = to.Ptr(opts.ContentDisposition)
	}
	if opts.ContentEncoding != "" {
		headers.BlobContentEncoding = to.Ptr(opts.ContentEncoding)
	}
	if opts.ContentLanguage != "" {
		headers.BlobContentLanguage = to.Ptr(opts.ContentLanguage)
	}

	_, err = cli.NewBlockBlobClient(blobName).UploadStream(ctx, content, &blockblob.UploadStreamOptions{
		BlockSize:   a.blockSize,
		Concurrency: a.concurrency,
		HTTPHeaders: headers,
		Metadata:    opts.Metadata,
	})
	return err
}

// Download returns a reader for the named blob. Interrupted reads are resumed by the SDK retry reader.
func (a *DefaultClient) Download(ctx context.Context, blobName string) (io.ReadCloser, error) {
	cli, err := a.blobClient(blobName)
	if err != nil {
		return nil, err
	}
	resp, err := cli.DownloadStream(ctx, nil)
	if err != nil {
		return nil, err
	}
	return resp.NewRetryReader(ctx, &blob.RetryReaderOptions{MaxRetries: a.maxRetries}), nil
}

// Copy starts a server side copy of srcBlobName onto dstBlobName and polls until it completes.
func (a *DefaultClient) Copy(ctx context.Context, srcBlobName, dstBlobName string) error {
	src, err := a.blobClient(srcBlobName)
	if err != nil {
		return err
	}
	dst, err := a.blobClient(dstBlobName)
	if err != nil {
		return err
	}

	resp, err := dst.StartCopyFromURL(ctx, src.URL(), nil)
	if err != nil {
		return err
	}

	status := resp.CopyStatus
	for status != nil && *status == blob.CopyStatusTypePending {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(a.copyPollInterval):
		}
		props, err := dst.GetProperties(ctx, nil)
		if err != nil {
			return err
		}
		status = props.CopyStatus
		if status != nil && *status != blob.CopyStatusTypePending && *status != blob.CopyStatusTypeSuccess {
			return fmt.Errorf("azure: copy of %s %s: %s", srcBlobName, *status, deref(props.CopyStatusDescription))
		}
	}
	if status != nil && *status != blob.CopyStatusTypePending && *status != blob.CopyStatusTypeSuccess {
		return fmt.Errorf("azure: copy of %s %s", srcBlobName, *status)
	}
	return nil
}

// Delete deletes the named blob and its snapshots
func (a *DefaultClient) Delete(ctx context.Context, blobName string) error {
	cli, err := a.blobClient(blobName)
	if err != nil {
		return err
	}
	_, err = cli.Delete(ctx, &blob.DeleteOptions{DeleteSnapshots: to.Ptr(blob.DeleteSnapshotsOptionTypeInclude)})
	return err
}

// ListPage fetches one page of blobs below prefix. Shallow pages roll nested blobs up into "/" delimited prefixes.
func (a *DefaultClient) ListPage(ctx context.Context, prefix string, deep bool, marker string) (*ListPage, error) {
	cli, err := a.getContainerClient()
	if err != nil {
		return nil, err
	}

	var prefixPtr, markerPtr *string
	if prefix != "" {
		prefixPtr = to.Ptr(prefix)
	}
	if marker != "" {
		markerPtr = to.Ptr(marker)
	}

	page := &ListPage{}
	if deep {
		pager := cli.NewListBlobsFlatPager(&container.ListBlobsFlatOptions{Prefix: prefixPtr, Marker: markerPtr})
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		if resp.Segment != nil {
			for _, item := range resp.Segment.BlobItems {
				page.Blobs = append(page.Blobs, BlobItem{Name: deref(item.Name), Properties: newListedBlobProperties(item.Properties)})
			}
		}
		page.NextMarker = deref(resp.NextMarker)
		return page, nil
	}

	pager := cli.NewListBlobsHierarchyPager("/", &container.ListBlobsHierarchyOptions{Prefix: prefixPtr, Marker: markerPtr})
	resp, err := pager.NextPage(ctx)
	if err != nil {
		return nil, err
	}
	if resp.Segment != nil {
		for _, item := range resp.Segment.BlobItems {
			page.Blobs = append(page.Blobs, BlobItem{Name: deref(item.Name), Properties: newListedBlobProperties(item.Properties)})
		}
		for _, p := range resp.Segment.BlobPrefixes {
			page.Prefixes = append(page.Prefixes, deref(p.Name))
		}
	}
	page.NextMarker = deref(resp.NextMarker)
	return page, nil
}

// BlobURL returns the URL of the named blob without any shared access signature
func (a *DefaultClient) BlobURL(blobName string) string {
	u, err := url.Parse(runtime.JoinPaths(a.serviceURL.String(), a.container, escapeBlobName(blobName)))
	if err != nil {
		return ""
	}
	return u.String()
}

// SignedURL returns the URL of the named blob with a shared access signature granting permissions until expiresAt.
// Shared key clients sign a service SAS, token clients a user delegation SAS, and clients configured with a shared
// access signature hand out that signature.
func (a *DefaultClient) SignedURL(ctx context.Context, blobName string, permissions sas.BlobPermissions, expiresAt time.Time) (string, error) {
	blobURL := a.BlobURL(blobName)
	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPSandHTTP,
		StartTime:     time.Now().Add(-5 * time.Minute).UTC(),
		ExpiryTime:    expiresAt.UTC(),
		Permissions:   permissions.String(),
		ContainerName: a.container,
		BlobName:      blobName,
	}

	switch cred := a.credential.(type) {
	case *azblob.SharedKeyCredential:
		qp, err := values.SignWithSharedKey(cred)
		if err != nil {
			return "", err
		}
		return blobURL + "?" + qp.Encode(), nil
	case azcore.TokenCredential:
		svc, err := service.NewClient(a.serviceURL.String(), cred, &service.ClientOptions{ClientOptions: a.clientOptions})
		if err != nil {
			return "", err
		}
		udc, err := svc.GetUserDelegationCredential(ctx, service.KeyInfo{
			Start:  to.Ptr(values.StartTime.Format(sas.TimeFormat)),
			Expiry: to.Ptr(values.ExpiryTime.Format(sas.TimeFormat)),
		}, nil)
		if err != nil {
			return "", err
		}
		qp, err := values.SignWithUserDelegation(udc)
		if err != nil {
			return "", err
		}
		return blobURL + "?" + qp.Encode(), nil
	}

	if a.sasToken != "" {
		return blobURL + "?" + a.sasToken, nil
	}
	return "", ErrCannotSign
}

// CreateContainer creates the container, tolerating one that already exists
func (a *DefaultClient) CreateContainer(ctx context.Context) error {
	cli, err := a.getContainerClient()
	if err != nil {
		return err
	}
	if _, err := cli.Create(ctx, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return err
	}
	return nil
}

// DeleteContainer deletes the container, tolerating one that does not exist
func (a *DefaultClient) DeleteContainer(ctx context.Context) error {
	cli, err := a.getContainerClient()
	if err != nil {
		return err
	}
	if _, err := cli.Delete(ctx, nil); err != nil && !bloberror.HasCode(err, bloberror.ContainerNotFound) {
		return err
	}
	return nil
}

// escapeBlobName percent encodes each segment of a blob name, keeping the separating slashes.
func escapeBlobName(name string) string {
	return (&url.URL{Path: name}).EscapedPath()
}
