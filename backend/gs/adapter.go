package gs

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

	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/options"
	"github.com/c2fo/blobfs/utils"
)

// DriverName is the name the adapter registers under in the backend registry.
const DriverName = "gcs"

const (
	deleteConcurrency = 16

	predefinedPublic  = "publicRead"
	predefinedPrivate = "private"
)

// Adapter implements blobfs.Adapter for a Google Cloud Storage bucket.
type Adapter struct {
	options  Options
	client   *storage.Client
	logger   *slog.Logger
	prefixer utils.PathPrefixer
	mu       sync.Mutex
}

// NewAdapter initializer for the GCS Adapter. WithOptions should come before the options adjusting single settings.
func NewAdapter(opts ...options.NewAdapterOption[Adapter]) *Adapter {
	a := &Adapter{logger: slog.Default()}
	options.ApplyOptions(a, opts...)
	a.options.applyDefaults()
	a.prefixer = utils.NewPathPrefixer(a.options.Prefix)
	return a
}

// Options returns the options of the adapter.
func (a *Adapter) Options() Options {
	return a.options
}

// Client returns the underlying storage client, creating it lazily from the adapter options.
func (a *Adapter) Client() (*storage.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		client, err := getClient(context.Background(), a.options)
		if err != nil {
			return nil, err
		}
		a.client = client
	}
	return a.client, nil
}

func (a *Adapter) bucket() (*storage.BucketHandle, error) {
	client, err := a.Client()
	if err != nil {
		return nil, err
	}
	b := client.Bucket(a.options.Bucket)
	if a.options.MaxRetries > 0 {
		b = b.Retryer(storage.WithMaxAttempts(a.options.MaxRetries + 1))
	}
	return b, nil
}

func (a *Adapter) object(path string) (*storage.ObjectHandle, error) {
	b, err := a.bucket()
	if err != nil {
		return nil, err
	}
	return b.Object(a.prefixer.PrefixPath(path)), nil
}

// FileExists reads the attributes of the object at path.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	obj, err := a.object(path)
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	if _, err := obj.Attrs(ctx); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapExistsError(err))
	}
	return true, nil
}

// DirectoryExists reports whether any object is stored below path.
func (a *Adapter) DirectoryExists(ctx context.Context, path string) (bool, error) {
	b, err := a.bucket()
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	it := b.Objects(ctx, &storage.Query{Prefix: a.prefixer.PrefixDirectoryPath(path), Delimiter: "/"})
	if _, err := it.Next(); err != nil {
		if errors.Is(err, iterator.Done) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapListError(err))
	}
	return true, nil
}

// Write uploads contents to path.
func (a *Adapter) Write(ctx context.Context, path string, contents []byte, cfg blobfs.Config) error {
	return a.WriteStream(ctx, path, bytes.NewReader(contents), cfg)
}

// WriteStream uploads everything read from r to path. A failed read aborts the upload, leaving any existing object
// in place.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, cfg blobfs.Config) error {
	obj, err := a.object(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, err)
	}
	contentType, body, err := utils.DetectMimeTypeReader(path, r, cfg)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapReadError(err))
	}
	if err := a.upload(ctx, obj, body, contentType, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, err)
	}
	return nil
}

func (a *Adapter) upload(ctx context.Context, obj *storage.ObjectHandle, body io.Reader, contentType string, cfg blobfs.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.PredefinedACL = a.predefinedACL(cfg)
	for name, value := range cfg.StringMap(blobfs.OptionHeaders) {
		switch http.CanonicalHeaderKey(name) {
		case "Cache-Control":
			w.CacheControl = value
		case "Content-Disposition":
			w.ContentDisposition = value
		case "Content-Encoding":
			w.ContentEncoding = value
		case "Content-Language":
			w.ContentLanguage = value
		}
	}

	a.logger.DebugContext(ctx, "uploading object", "adapter", DriverName, "bucket", a.options.Bucket, "object", obj.ObjectName())
	if _, err := utils.TouchCopyBuffered(w, body, 0); err != nil {
		cancel()
		_ = w.Close()
		return utils.WrapWriteError(err)
	}
	return utils.WrapCloseError(w.Close())
}

// predefinedACL returns the predefined ACL for the visibility of cfg, falling back to Options.Visibility.
func (a *Adapter) predefinedACL(cfg blobfs.Config) string {
	switch blobfs.Visibility(cfg.String(blobfs.OptionVisibility, string(a.options.Visibility))) {
	case blobfs.Public:
		return predefinedPublic
	case blobfs.Private:
		return predefinedPrivate
	}
	return ""
}

// Read downloads the object at path.
func (a *Adapter) Read(ctx context.Context, path string) ([]byte, error) {
	r, err := a.ReadStream(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, utils.WrapReadError(err))
	}
	return b, nil
}

// ReadStream opens a reader over the object at path.
func (a *Adapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := a.object(path)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, err)
	}
	r, err := obj.NewReader(ctx)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, mapError(err, utils.WrapReadError))
	}
	return r, nil
}

// Delete deletes the object at path. Missing objects are not an error.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	obj, err := a.object(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, path, err)
	}
	if err := obj.Delete(ctx); err != nil && !isNotFound(err) {
		return blobfs.NewOperationError(blobfs.OpDelete, path, utils.WrapDeleteError(err))
	}
	return nil
}

// DeleteDirectory deletes every object below path.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string) error {
	b, err := a.bucket()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)

	it := b.Objects(gctx, &storage.Query{Prefix: a.prefixer.PrefixDirectoryPath(path)})
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			// a failed delete cancels gctx and so the listing; report the delete
			if deleteErr := g.Wait(); deleteErr != nil {
				return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(deleteErr))
			}
			return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapListError(err))
		}
		name := attrs.Name
		g.Go(func() error {
			if err := b.Object(name).Delete(gctx); err != nil && !isNotFound(err) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(err))
	}
	return nil
}

// CreateDirectory stores an empty "path/" marker object.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, cfg blobfs.Config) error {
	if path == "" {
		return nil
	}
	b, err := a.bucket()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, err)
	}
	dirCfg := cfg
	if v := cfg.String(blobfs.OptionDirectoryVisibility, ""); v != "" {
		dirCfg = cfg.Extend(blobfs.Config{blobfs.OptionVisibility: v})
	}
	marker := b.Object(a.prefixer.PrefixDirectoryPath(path))
	if err := a.upload(ctx, marker, bytes.NewReader(nil), "", dirCfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, err)
	}
	return nil
}

// SetVisibility grants or revokes read access of all users to the object at path. Buckets with uniform bucket-level
// access reject object ACL changes.
func (a *Adapter) SetVisibility(ctx context.Context, path string, visibility blobfs.Visibility) error {
	obj, err := a.object(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, err)
	}
	if _, err := obj.Attrs(ctx); err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, mapError(err, utils.WrapExistsError))
	}

	switch visibility {
	case blobfs.Public:
		err = obj.ACL().Set(ctx, storage.AllUsers, storage.RoleReader)
	case blobfs.Private:
		// revoking a grant that does not exist is a 404
		if err = obj.ACL().Delete(ctx, storage.AllUsers); isNotFound(err) {
			err = nil
		}
	default:
		err = fmt.Errorf("unknown visibility %q", visibility)
	}
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, utils.WrapWriteError(err))
	}
	return nil
}

// Visibility reports public when all users may read the object at path.
func (a *Adapter) Visibility(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	attrs, err := a.attrs(ctx, path)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, err)
	}
	out := blobfs.FileAttributes(path)
	out.Visibility = visibilityOf(attrs.ACL)
	return out, nil
}

func visibilityOf(acl []storage.ACLRule) blobfs.Visibility {
	for _, rule := range acl {
		if rule.Entity == storage.AllUsers && (rule.Role == storage.RoleReader || rule.Role == storage.RoleOwner) {
			return blobfs.Public
		}
	}
	return blobfs.Private
}

// MimeType returns the attributes of the object holding its content type.
func (a *Adapter) MimeType(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.fileAttributes(ctx, path)
}

// LastModified returns the attributes of the object holding its last modified time.
func (a *Adapter) LastModified(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.fileAttributes(ctx, path)
}

// FileSize returns the attributes of the object holding its size.
func (a *Adapter) FileSize(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.fileAttributes(ctx, path)
}

func (a *Adapter) attrs(ctx context.Context, path string) (*storage.ObjectAttrs, error) {
	obj, err := a.object(path)
	if err != nil {
		return nil, err
	}
	attrs, err := obj.Attrs(ctx)
	if err != nil {
		return nil, mapError(err, utils.WrapExistsError)
	}
	return attrs, nil
}

func (a *Adapter) fileAttributes(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	attrs, err := a.attrs(ctx, path)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, err)
	}
	return toFileAttributes(path, attrs), nil
}

func toFileAttributes(path string, attrs *storage.ObjectAttrs) blobfs.StorageAttributes {
	out := blobfs.FileAttributes(path)
	out.FileSize = utils.Ptr(attrs.Size)
	if !attrs.Updated.IsZero() {
		out.LastModified = utils.Ptr(attrs.Updated)
	}
	out.MimeType = attrs.ContentType
	if len(attrs.MD5) > 0 {
		out.Extra = map[string]string{"md5": hex.EncodeToString(attrs.MD5)}
	}
	return out
}

// ListContents iterates the objects below path, fetching pages as the caller consumes them. Shallow listings use
// the "/" delimiter and report prefixes as directories.
func (a *Adapter) ListContents(ctx context.Context, path string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		b, err := a.bucket()
		if err != nil {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, err))
			return
		}

		q := &storage.Query{Prefix: a.prefixer.PrefixDirectoryPath(path), Projection: storage.ProjectionNoACL}
		if !deep {
			q.Delimiter = "/"
		}
		dirs := utils.NewDirectoryTracker(path)

		it := b.Objects(ctx, q)
		for {
			attrs, err := it.Next()
			if errors.Is(err, iterator.Done) {
				return
			}
			if err != nil {
				yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, utils.WrapListError(err)))
				return
			}

			if attrs.Prefix != "" {
				dir := a.prefixer.StripDirectoryPrefix(attrs.Prefix)
				if dirs.Add(dir) && !yield(blobfs.DirectoryAttributes(dir), nil) {
					return
				}
				continue
			}

			name := a.prefixer.StripPrefix(attrs.Name)
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
				if dirs.Add(name) && !yield(blobfs.DirectoryAttributes(name), nil) {
					return
				}
				continue
			}
			if !yield(toFileAttributes(name, attrs), nil) {
				return
			}
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

// Copy rewrites source to destination inside the bucket.
func (a *Adapter) Copy(ctx context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	src, err := a.object(source)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	dst, err := a.object(destination)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	copier := dst.CopierFrom(src)
	copier.PredefinedACL = a.predefinedACL(cfg)
	if _, err := copier.Run(ctx); err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, mapError(err, utils.WrapCopyError))
	}
	return nil
}

// PublicURL returns the unsigned URL of the object below PublicURLBase.
func (a *Adapter) PublicURL(_ context.Context, path string, _ blobfs.Config) (string, error) {
	return fmt.Sprintf("%s/%s/%s",
		strings.TrimRight(a.options.PublicURLBase, "/"), a.options.Bucket, escapeKey(a.prefixer.PrefixPath(path))), nil
}

// TemporaryURL returns a V4 signed GET URL valid until expiresAt.
func (a *Adapter) TemporaryURL(_ context.Context, path string, expiresAt time.Time, _ blobfs.Config) (string, error) {
	u, err := a.signedURL(path, http.MethodGet, expiresAt, "")
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGenerateTempURL, path, err)
	}
	return u, nil
}

// TemporaryUploadURL returns a V4 signed PUT URL valid until expiresAt. When the mimetype option is set the upload
// must send it as its Content-Type.
func (a *Adapter) TemporaryUploadURL(_ context.Context, path string, expiresAt time.Time, cfg blobfs.Config) (*blobfs.UploadURL, error) {
	contentType := cfg.String(blobfs.OptionMimeType, "")
	u, err := a.signedURL(path, http.MethodPut, expiresAt, contentType)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpGenerateUploadURL, path, err)
	}
	headers := map[string]string{}
	if contentType != "" {
		headers["Content-Type"] = contentType
	}
	return &blobfs.UploadURL{URL: u, Headers: headers}, nil
}

func (a *Adapter) signedURL(path, method string, expiresAt time.Time, contentType string) (string, error) {
	b, err := a.bucket()
	if err != nil {
		return "", err
	}
	opts := &storage.SignedURLOptions{
		Scheme:      storage.SigningSchemeV4,
		Method:      method,
		Expires:     expiresAt,
		ContentType: contentType,
	}
	if a.options.SigningEmail != "" && a.options.SigningPrivateKey != "" {
		opts.GoogleAccessID = a.options.SigningEmail
		opts.PrivateKey = []byte(a.options.SigningPrivateKey)
	}
	u, err := b.SignedURL(a.prefixer.PrefixPath(path), opts)
	if err != nil {
		return "", utils.WrapSignError(err)
	}
	return u, nil
}

// Checksum returns the md5 or crc32c the store keeps for the object. Other algorithms fail with
// blobfs.ErrUnsupported.
func (a *Adapter) Checksum(ctx context.Context, path string, cfg blobfs.Config) (string, error) {
	algo := cfg.String(blobfs.OptionChecksumAlgo, "md5")
	if algo != "md5" && algo != "crc32c" {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, blobfs.ErrUnsupported)
	}
	attrs, err := a.attrs(ctx, path)
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, err)
	}
	if algo == "crc32c" {
		return fmt.Sprintf("%08x", attrs.CRC32C), nil
	}
	if len(attrs.MD5) == 0 {
		// composite objects carry no md5
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, blobfs.ErrUnsupported)
	}
	return hex.EncodeToString(attrs.MD5), nil
}

func isNotFound(err error) bool {
	if errors.Is(err, storage.ErrObjectNotExist) {
		return true
	}
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func mapError(err error, wrap func(error) error) error {
	if isNotFound(err) {
		return blobfs.ErrNotExist
	}
	return wrap(err)
}

// escapeKey percent encodes each segment of key, keeping the separating slashes.
func escapeKey(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
