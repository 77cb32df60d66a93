package azure

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"golang.org/x/sync/errgroup"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/options"
	"github.com/c2fo/blobfs/utils"
)

// DriverName is the name the adapter registers under in the backend registry.
const DriverName = "azure-storage-blob"

// deleteConcurrency bounds the number of deletes DeleteDirectory has in flight.
const deleteConcurrency = 16

// VisibilityHandling decides how the adapter reacts to visibility being set or requested. Blob storage has no
// per-blob access control, only container level public access.
type VisibilityHandling int

const (
	// VisibilityThrow fails visibility operations with blobfs.ErrVisibilityNotSupported.
	VisibilityThrow VisibilityHandling = iota
	// VisibilityIgnore turns SetVisibility into a no-op and reports an empty visibility.
	VisibilityIgnore
)

func (h VisibilityHandling) String() string {
	if h == VisibilityIgnore {
		return "ignore"
	}
	return "throw"
}

// ParseVisibilityHandling parses "throw" or "ignore". An empty string means VisibilityThrow.
func ParseVisibilityHandling(s string) (VisibilityHandling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "throw":
		return VisibilityThrow, nil
	case "ignore":
		return VisibilityIgnore, nil
	}
	return VisibilityThrow, fmt.Errorf("azure: invalid visibility handling %q, expected \"throw\" or \"ignore\"", s)
}

// Adapter implements blobfs.Adapter for Azure Blob Storage. Every path is a blob name within one container,
// placed below an optional prefix.
type Adapter struct {
	options  Options
	client   Client
	logger   *slog.Logger
	prefixer utils.PathPrefixer
	mu       sync.Mutex
}

// NewAdapter creates a new instance of the Azure Blob Storage adapter. WithOptions should come before the options
// that adjust individual settings.
func NewAdapter(opts ...options.NewAdapterOption[Adapter]) *Adapter {
	a := &Adapter{
		options: Options{},
		logger:  slog.Default(),
	}
	options.ApplyOptions(a, opts...)
	a.options.applyDefaults()
	a.prefixer = utils.NewPathPrefixer(a.options.Prefix)
	return a
}

// Options returns the options of the adapter.
func (a *Adapter) Options() Options {
	return a.options
}

// Client returns the client the adapter works with, building a DefaultClient from the adapter options on first use.
func (a *Adapter) Client() (Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client != nil {
		return a.client, nil
	}
	client, err := NewClient(&a.options)
	if err != nil {
		return nil, err
	}
	a.client = client
	return a.client, nil
}

func (a *Adapter) log() *slog.Logger {
	return a.logger.With("adapter", DriverName, "container", a.options.Container)
}

// FileExists checks the properties of the blob at path. A missing blob is not an error.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	client, err := a.Client()
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	if _, err := client.Properties(ctx, a.prefixer.PrefixPath(path)); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapExistsError(err))
	}
	return true, nil
}

// DirectoryExists reports whether at least one blob is stored below path.
func (a *Adapter) DirectoryExists(ctx context.Context, path string) (bool, error) {
	client, err := a.Client()
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	page, err := client.ListPage(ctx, a.prefixer.PrefixDirectoryPath(path), false, "")
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapListError(err))
	}
	return len(page.Blobs) > 0 || len(page.Prefixes) > 0, nil
}

// Write uploads contents as the blob at path.
func (a *Adapter) Write(ctx context.Context, path string, contents []byte, cfg blobfs.Config) error {
	return a.WriteStream(ctx, path, bytes.NewReader(contents), cfg)
}

// WriteStream uploads everything read from r as the blob at path. The content type comes from the mimetype
// config, the file extension or the leading bytes of r, in that order.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, cfg blobfs.Config) error {
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, err)
	}
	if cfg.String(blobfs.OptionVisibility, "") != "" {
		a.log().DebugContext(ctx, "visibility is not applied to blobs", "path", path)
	}

	contentType, body, err := utils.DetectMimeTypeReader(path, r, cfg)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapReadError(err))
	}
	opts := uploadOptions(cfg)
	opts.ContentType = contentType

	a.log().DebugContext(ctx, "uploading blob", "path", path, "contentType", contentType)
	if err := client.Upload(ctx, a.prefixer.PrefixPath(path), body, opts); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapWriteError(err))
	}
	return nil
}

// uploadOptions maps the standard HTTP headers of the headers config onto blob properties.
func uploadOptions(cfg blobfs.Config) UploadOptions {
	var opts UploadOptions
	for name, value := range cfg.StringMap(blobfs.OptionHeaders) {
		switch http.CanonicalHeaderKey(name) {
		case "Cache-Control":
			opts.CacheControl = value
		case "Content-Disposition":
			opts.ContentDisposition = value
		case "Content-Encoding":
			opts.ContentEncoding = value
		case "Content-Language":
			opts.ContentLanguage = value
		}
	}
	return opts
}

// Read downloads the blob at path.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	r, err := a.ReadStream(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	buf := &bytes.Buffer{}
	if _, err := utils.TouchCopyBuffered(buf, r, 0); err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, utils.WrapReadError(err))
	}
	return buf.Bytes(), nil
}

// ReadStream opens a download of the blob at path.
func (a *Adapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	client, err := a.Client()
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, err)
	}
	r, err := client.Download(ctx, a.prefixer.PrefixPath(path))
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, mapError(err, utils.WrapReadError))
	}
	return r, nil
}

// Delete deletes the blob at path along with its snapshots.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, path, err)
	}
	if err := client.Delete(ctx, a.prefixer.PrefixPath(path)); err != nil && !isNotFound(err) {
		return blobfs.NewOperationError(blobfs.OpDelete, path, utils.WrapDeleteError(err))
	}
	return nil
}

// DeleteDirectory deletes every blob below path, several at a time.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string) error {
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)

	prefix := a.prefixer.PrefixDirectoryPath(path)
	marker := ""
	count := 0
	for {
		page, err := client.ListPage(gctx, prefix, true, marker)
		if err != nil {
			// a failed delete cancels gctx and so the listing; report the delete
			if deleteErr := g.Wait(); deleteErr != nil {
				return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(deleteErr))
			}
			return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapListError(err))
		}
		for _, item := range page.Blobs {
			name := item.Name
			count++
			g.Go(func() error {
				if err := client.Delete(gctx, name); err != nil && !isNotFound(err) {
					return fmt.Errorf("%s: %w", name, err)
				}
				return nil
			})
		}
		if page.NextMarker == "" {
			break
		}
		marker = page.NextMarker
	}
	if err := g.Wait(); err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(err))
	}
	a.log().DebugContext(ctx, "deleted directory", "path", path, "blobs", count)
	return nil
}

// CreateDirectory does nothing: directories exist as long as a blob is stored below them.
func (a *Adapter) CreateDirectory(_ context.Context, _ string, _ blobfs.Config) error {
	return nil
}

// SetVisibility fails with blobfs.ErrVisibilityNotSupported, or does nothing with VisibilityIgnore.
func (a *Adapter) SetVisibility(ctx context.Context, path string, visibility blobfs.Visibility) error {
	if a.options.VisibilityHandling == VisibilityIgnore {
		a.log().WarnContext(ctx, "ignoring visibility change", "path", path, "visibility", visibility)
		return nil
	}
	return blobfs.NewOperationError(blobfs.OpSetVisibility, path, blobfs.ErrVisibilityNotSupported)
}

// Visibility fails with blobfs.ErrVisibilityNotSupported, or returns the attributes of the blob without a
// visibility with VisibilityIgnore.
func (a *Adapter) Visibility(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	if a.options.VisibilityHandling != VisibilityIgnore {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, blobfs.ErrVisibilityNotSupported)
	}
	return a.attributes(ctx, path)
}

// MimeType returns the attributes of the blob holding its content type.
func (a *Adapter) MimeType(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(ctx, path)
}

// LastModified returns the attributes of the blob holding its last modified time.
func (a *Adapter) LastModified(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(ctx, path)
}

// FileSize returns the attributes of the blob holding its size.
func (a *Adapter) FileSize(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(ctx, path)
}

func (a *Adapter) attributes(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	props, err := a.properties(ctx, blobfs.OpRetrieveMetadata, path)
	if err != nil {
		return blobfs.StorageAttributes{}, err
	}
	return fileAttributes(path, props), nil
}

func (a *Adapter) properties(ctx context.Context, op blobfs.Operation, path string) (*BlobProperties, error) {
	client, err := a.Client()
	if err != nil {
		return nil, blobfs.NewOperationError(op, path, err)
	}
	props, err := client.Properties(ctx, a.prefixer.PrefixPath(path))
	if err != nil {
		return nil, blobfs.NewOperationError(op, path, mapError(err, utils.WrapExistsError))
	}
	return props, nil
}

func fileAttributes(path string, props *BlobProperties) blobfs.StorageAttributes {
	attrs := blobfs.FileAttributes(path)
	attrs.FileSize = props.Size
	attrs.LastModified = props.LastModified
	attrs.MimeType = props.ContentType
	if len(props.ContentMD5) > 0 {
		attrs.Extra = map[string]string{"md5": hex.EncodeToString(props.ContentMD5)}
	}
	return attrs
}

// ListContents pages through the blobs below path, fetching the next page only when the previous one has been
// consumed. Deep listings synthesize one directory entry per distinct directory; shallow listings report the
// delimited prefixes as directories.
func (a *Adapter) ListContents(ctx context.Context, path string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		client, err := a.Client()
		if err != nil {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, err))
			return
		}

		prefix := a.prefixer.PrefixDirectoryPath(path)
		dirs := utils.NewDirectoryTracker(path)
		emitDir := func(dir string) bool {
			if !dirs.Add(dir) {
				return true
			}
			return yield(blobfs.DirectoryAttributes(dir), nil)
		}

		marker := ""
		for {
			page, err := client.ListPage(ctx, prefix, deep, marker)
			if err != nil {
				yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, utils.WrapListError(err)))
				return
			}

			for _, item := range page.Blobs {
				name := a.prefixer.StripPrefix(item.Name)
				isDirMarker := strings.HasSuffix(name, "/")
				name = strings.TrimSuffix(name, "/")
				if deep {
					for _, dir := range dirs.Parents(name) {
						if !yield(blobfs.DirectoryAttributes(dir), nil) {
							return
						}
					}
				}
				if isDirMarker {
					if !emitDir(name) {
						return
					}
					continue
				}
				props := item.Properties
				if !yield(fileAttributes(name, &props), nil) {
					return
				}
			}
			for _, p := range page.Prefixes {
				if !emitDir(a.prefixer.StripDirectoryPrefix(p)) {
					return
				}
			}

			if page.NextMarker == "" {
				return
			}
			marker = page.NextMarker
		}
	}
}

// Move copies source to destination and deletes source.
func (a *Adapter) Move(ctx context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	if err := a.Copy(ctx, source, destination, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, errors.Unwrap(err))
	}
	if err := a.Delete(ctx, source); err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, errors.Unwrap(err))
	}
	return nil
}

// Copy performs a server side copy of source to destination.
func (a *Adapter) Copy(ctx context.Context, source, destination string, _ blobfs.Config) error {
	if source == destination {
		return nil
	}
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	a.log().DebugContext(ctx, "copying blob", "source", source, "destination", destination)
	if err := client.Copy(ctx, a.prefixer.PrefixPath(source), a.prefixer.PrefixPath(destination)); err != nil {
		if bloberror.HasCode(err, bloberror.CannotVerifyCopySource) {
			return blobfs.NewOperationError(blobfs.OpCopy, source, blobfs.ErrNotExist)
		}
		return blobfs.NewOperationError(blobfs.OpCopy, source, mapError(err, utils.WrapCopyError))
	}
	return nil
}

// PublicURL returns the plain blob URL with UseDirectPublicURL, otherwise a read-only signed URL valid for the
// expires_in config or PublicURLExpiry.
func (a *Adapter) PublicURL(ctx context.Context, path string, cfg blobfs.Config) (string, error) {
	client, err := a.Client()
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGeneratePublicURL, path, err)
	}
	name := a.prefixer.PrefixPath(path)
	if a.options.UseDirectPublicURL {
		return stripQuery(client.BlobURL(name)), nil
	}

	expiry := cfg.Duration(blobfs.OptionExpiresIn, a.options.PublicURLExpiry)
	signed, err := client.SignedURL(ctx, name, sas.BlobPermissions{Read: true}, time.Now().Add(expiry))
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGeneratePublicURL, path, utils.WrapSignError(err))
	}
	return signed, nil
}

// TemporaryURL returns a read-only signed URL for the blob at path, valid until expiresAt.
func (a *Adapter) TemporaryURL(ctx context.Context, path string, expiresAt time.Time, _ blobfs.Config) (string, error) {
	client, err := a.Client()
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGenerateTempURL, path, err)
	}
	signed, err := client.SignedURL(ctx, a.prefixer.PrefixPath(path), sas.BlobPermissions{Read: true}, expiresAt)
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGenerateTempURL, path, utils.WrapSignError(err))
	}
	return signed, nil
}

// TemporaryUploadURL returns a signed URL allowing a block blob to be created at path until expiresAt, along with
// the headers the upload request must carry.
func (a *Adapter) TemporaryUploadURL(ctx context.Context, path string, expiresAt time.Time, cfg blobfs.Config) (*blobfs.UploadURL, error) {
	client, err := a.Client()
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpGenerateUploadURL, path, err)
	}
	signed, err := client.SignedURL(ctx, a.prefixer.PrefixPath(path), sas.BlobPermissions{Create: true, Write: true}, expiresAt)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpGenerateUploadURL, path, utils.WrapSignError(err))
	}

	headers := map[string]string{"x-ms-blob-type": "BlockBlob"}
	for name, value := range cfg.StringMap(blobfs.OptionHeaders) {
		headers[http.CanonicalHeaderKey(name)] = value
	}
	if contentType := cfg.String(blobfs.OptionMimeType, ""); contentType != "" {
		headers["Content-Type"] = contentType
	}
	return &blobfs.UploadURL{URL: signed, Headers: headers}, nil
}

// Checksum returns the stored Content-MD5 of the blob, hex encoded. Other algorithms, and blobs uploaded without
// a Content-MD5, fail with blobfs.ErrUnsupported.
func (a *Adapter) Checksum(ctx context.Context, path string, cfg blobfs.Config) (string, error) {
	if algo := cfg.String(blobfs.OptionChecksumAlgo, "md5"); algo != "md5" {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, blobfs.ErrUnsupported)
	}
	props, err := a.properties(ctx, blobfs.OpProvideChecksum, path)
	if err != nil {
		return "", err
	}
	if len(props.ContentMD5) == 0 {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, blobfs.ErrUnsupported)
	}
	return hex.EncodeToString(props.ContentMD5), nil
}

func isNotFound(err error) bool {
	return bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ResourceNotFound)
}

// mapError turns a missing blob into blobfs.ErrNotExist and wraps everything else.
func mapError(err error, wrap func(error) error) error {
	if isNotFound(err) {
		return blobfs.ErrNotExist
	}
	return wrap(err)
}

func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	return u.String()
}
