package s3

import (
	"bytes"
	"context"
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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"golang.org/x/sync/errgroup"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/options"
	"github.com/c2fo/blobfs/utils"
)

// DriverName is the name the adapter registers under in the backend registry.
const DriverName = "s3"

const (
	// deleteBatchSize is the most keys a single DeleteObjects request accepts.
	deleteBatchSize   = 1000
	deleteConcurrency = 4

	allUsersURI = "http://acs.amazonaws.com/groups/global/AllUsers"
)

// Adapter implements blobfs.Adapter for an S3 bucket.
type Adapter struct {
	options   Options
	client    Client
	uploader  Uploader
	presigner Presigner
	logger    *slog.Logger
	prefixer  utils.PathPrefixer
	mu        sync.Mutex
}

// NewAdapter initializer for the S3 Adapter. WithOptions should come before the options adjusting single settings.
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

// Client returns the underlying aws s3 client, creating it lazily from the adapter options.
func (a *Adapter) Client() (Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clientLocked()
}

func (a *Adapter) clientLocked() (Client, error) {
	if a.client == nil {
		client, err := getClient(context.Background(), a.options)
		if err != nil {
			return nil, err
		}
		a.client = client
	}
	return a.client, nil
}

// Uploader returns the uploader writes go through, a *manager.Uploader over the client unless one was injected.
func (a *Adapter) Uploader() (Uploader, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.uploader != nil {
		return a.uploader, nil
	}
	client, err := a.clientLocked()
	if err != nil {
		return nil, err
	}
	a.uploader = manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = a.options.UploadPartitionSize
		u.Concurrency = a.options.UploadConcurrency
	})
	return a.uploader, nil
}

// Presigner returns the presigner for temporary URLs. Without an injected one it is only available for *s3.Client.
func (a *Adapter) Presigner() (Presigner, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.presigner != nil {
		return a.presigner, nil
	}
	client, err := a.clientLocked()
	if err != nil {
		return nil, err
	}
	s3Client, ok := client.(*s3.Client)
	if !ok {
		return nil, blobfs.ErrUnsupported
	}
	a.presigner = s3.NewPresignClient(s3Client)
	return a.presigner, nil
}

func (a *Adapter) log() *slog.Logger {
	return a.logger.With("adapter", DriverName, "bucket", a.options.Bucket)
}

func (a *Adapter) key(path string) *string {
	return aws.String(a.prefixer.PrefixPath(path))
}

// FileExists heads the object at path.
func (a *Adapter) FileExists(ctx context.Context, path string) (bool, error) {
	client, err := a.Client()
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	_, err = client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path)})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapExistsError(err))
	}
	return true, nil
}

// DirectoryExists reports whether any object is stored below path.
func (a *Adapter) DirectoryExists(ctx context.Context, path string) (bool, error) {
	client, err := a.Client()
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	out, err := client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:    aws.String(a.options.Bucket),
		Prefix:    aws.String(a.prefixer.PrefixDirectoryPath(path)),
		Delimiter: aws.String("/"),
		MaxKeys:   aws.Int32(1),
	})
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapListError(err))
	}
	return len(out.Contents) > 0 || len(out.CommonPrefixes) > 0, nil
}

// Write uploads contents to path.
func (a *Adapter) Write(ctx context.Context, path string, contents []byte, cfg blobfs.Config) error {
	return a.WriteStream(ctx, path, bytes.NewReader(contents), cfg)
}

// WriteStream uploads everything read from r to path, in parts when it exceeds the partition size.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, cfg blobfs.Config) error {
	uploader, err := a.Uploader()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, err)
	}
	contentType, body, err := utils.DetectMimeTypeReader(path, r, cfg)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapReadError(err))
	}

	in := a.putInput(a.prefixer.PrefixPath(path), body, cfg)
	in.ContentType = aws.String(contentType)

	a.log().DebugContext(ctx, "uploading object", "path", path, "contentType", contentType)
	if _, err := uploader.Upload(ctx, in); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapWriteError(err))
	}
	return nil
}

func (a *Adapter) putInput(key string, body io.Reader, cfg blobfs.Config) *s3.PutObjectInput {
	in := &s3.PutObjectInput{
		Bucket: aws.String(a.options.Bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    a.acl(cfg),
	}
	if !a.options.DisableServerSideEncryption {
		in.ServerSideEncryption = types.ServerSideEncryptionAes256
	}
	for name, value := range cfg.StringMap(blobfs.OptionHeaders) {
		switch http.CanonicalHeaderKey(name) {
		case "Cache-Control":
			in.CacheControl = aws.String(value)
		case "Content-Disposition":
			in.ContentDisposition = aws.String(value)
		case "Content-Encoding":
			in.ContentEncoding = aws.String(value)
		case "Content-Language":
			in.ContentLanguage = aws.String(value)
		}
	}
	return in
}

// acl returns the canned ACL for the visibility of cfg, falling back to Options.Visibility.
func (a *Adapter) acl(cfg blobfs.Config) types.ObjectCannedACL {
	return cannedACL(blobfs.Visibility(cfg.String(blobfs.OptionVisibility, string(a.options.Visibility))))
}

func cannedACL(v blobfs.Visibility) types.ObjectCannedACL {
	switch v {
	case blobfs.Public:
		return types.ObjectCannedACLPublicRead
	case blobfs.Private:
		return types.ObjectCannedACLPrivate
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

	buf := &bytes.Buffer{}
	if _, err := utils.TouchCopyBuffered(buf, r, 0); err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, utils.WrapReadError(err))
	}
	return buf.Bytes(), nil
}

// ReadStream opens the body of the object at path.
func (a *Adapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	client, err := a.Client()
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, err)
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path)})
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, mapError(err, utils.WrapReadError))
	}
	return out.Body, nil
}

// Delete deletes the object at path.
func (a *Adapter) Delete(ctx context.Context, path string) error {
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, path, err)
	}
	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path)})
	if err != nil && !isNotFound(err) {
		return blobfs.NewOperationError(blobfs.OpDelete, path, utils.WrapDeleteError(err))
	}
	return nil
}

// DeleteDirectory deletes every object below path in batches of up to a thousand keys.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string) error {
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	deleteBatch := func(batch []types.ObjectIdentifier) {
		g.Go(func() error {
			out, err := client.DeleteObjects(gctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(a.options.Bucket),
				Delete: &types.Delete{Objects: batch, Quiet: aws.Bool(true)},
			})
			if err != nil {
				return err
			}
			if len(out.Errors) > 0 {
				e := out.Errors[0]
				return fmt.Errorf("%d keys not deleted, first %s: %s", len(out.Errors), aws.ToString(e.Key), aws.ToString(e.Message))
			}
			return nil
		})
	}

	in := &s3.ListObjectsV2Input{
		Bucket: aws.String(a.options.Bucket),
		Prefix: aws.String(a.prefixer.PrefixDirectoryPath(path)),
	}
	var batch []types.ObjectIdentifier
	for {
		out, err := client.ListObjectsV2(gctx, in)
		if err != nil {
			// a failed delete cancels gctx and so the listing; report the delete
			if deleteErr := g.Wait(); deleteErr != nil {
				return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(deleteErr))
			}
			return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapListError(err))
		}
		for _, obj := range out.Contents {
			batch = append(batch, types.ObjectIdentifier{Key: obj.Key})
			if len(batch) == deleteBatchSize {
				deleteBatch(batch)
				batch = nil
			}
		}
		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		in.ContinuationToken = out.NextContinuationToken
	}
	if len(batch) > 0 {
		deleteBatch(batch)
	}
	if err := g.Wait(); err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(err))
	}
	return nil
}

// CreateDirectory stores an empty "path/" marker object so the directory exists before anything is written to it.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, cfg blobfs.Config) error {
	if path == "" {
		return nil
	}
	uploader, err := a.Uploader()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, err)
	}
	dirCfg := cfg
	if v := cfg.String(blobfs.OptionDirectoryVisibility, ""); v != "" {
		dirCfg = cfg.Extend(blobfs.Config{blobfs.OptionVisibility: v})
	}
	in := a.putInput(a.prefixer.PrefixDirectoryPath(path), bytes.NewReader(nil), dirCfg)
	if _, err := uploader.Upload(ctx, in); err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, utils.WrapWriteError(err))
	}
	return nil
}

// SetVisibility applies the public-read or private canned ACL to the object at path.
func (a *Adapter) SetVisibility(ctx context.Context, path string, visibility blobfs.Visibility) error {
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, err)
	}
	acl := cannedACL(visibility)
	if acl == "" {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, fmt.Errorf("unknown visibility %q", visibility))
	}
	_, err = client.PutObjectAcl(ctx, &s3.PutObjectAclInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path), ACL: acl})
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, mapError(err, utils.WrapWriteError))
	}
	return nil
}

// Visibility reads the ACL of the object at path. Objects readable by all users are public.
func (a *Adapter) Visibility(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	client, err := a.Client()
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, err)
	}
	out, err := client.GetObjectAcl(ctx, &s3.GetObjectAclInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path)})
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, mapError(err, utils.WrapReadError))
	}

	attrs := blobfs.FileAttributes(path)
	attrs.Visibility = blobfs.Private
	for _, grant := range out.Grants {
		if grant.Grantee != nil && aws.ToString(grant.Grantee.URI) == allUsersURI && grant.Permission == types.PermissionRead {
			attrs.Visibility = blobfs.Public
		}
	}
	return attrs, nil
}

// MimeType returns the attributes of the object holding its content type.
func (a *Adapter) MimeType(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(ctx, blobfs.OpRetrieveMetadata, path)
}

// LastModified returns the attributes of the object holding its last modified time.
func (a *Adapter) LastModified(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(ctx, blobfs.OpRetrieveMetadata, path)
}

// FileSize returns the attributes of the object holding its size.
func (a *Adapter) FileSize(ctx context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(ctx, blobfs.OpRetrieveMetadata, path)
}

func (a *Adapter) attributes(ctx context.Context, op blobfs.Operation, path string) (blobfs.StorageAttributes, error) {
	client, err := a.Client()
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(op, path, err)
	}
	out, err := client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path)})
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(op, path, mapError(err, utils.WrapExistsError))
	}
	attrs := blobfs.FileAttributes(path)
	attrs.FileSize = out.ContentLength
	attrs.LastModified = out.LastModified
	attrs.MimeType = aws.ToString(out.ContentType)
	if etag := aws.ToString(out.ETag); etag != "" {
		attrs.Extra = map[string]string{"etag": strings.Trim(etag, `"`)}
	}
	return attrs, nil
}

// ListContents pages through the objects below path as the caller consumes them. Shallow listings use the "/"
// delimiter and report common prefixes as directories.
func (a *Adapter) ListContents(ctx context.Context, path string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		client, err := a.Client()
		if err != nil {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, err))
			return
		}

		in := &s3.ListObjectsV2Input{
			Bucket: aws.String(a.options.Bucket),
			Prefix: aws.String(a.prefixer.PrefixDirectoryPath(path)),
		}
		if !deep {
			in.Delimiter = aws.String("/")
		}
		dirs := utils.NewDirectoryTracker(path)

		for {
			out, err := client.ListObjectsV2(ctx, in)
			if err != nil {
				yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, utils.WrapListError(err)))
				return
			}

			for _, obj := range out.Contents {
				name := a.prefixer.StripPrefix(aws.ToString(obj.Key))
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
				attrs := blobfs.FileAttributes(name)
				attrs.FileSize = obj.Size
				attrs.LastModified = obj.LastModified
				if !yield(attrs, nil) {
					return
				}
			}
			for _, p := range out.CommonPrefixes {
				dir := a.prefixer.StripDirectoryPrefix(aws.ToString(p.Prefix))
				if dirs.Add(dir) && !yield(blobfs.DirectoryAttributes(dir), nil) {
					return
				}
			}

			if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
				return
			}
			in.ContinuationToken = out.NextContinuationToken
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
func (a *Adapter) Copy(ctx context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	client, err := a.Client()
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	in := &s3.CopyObjectInput{
		Bucket:     aws.String(a.options.Bucket),
		Key:        a.key(destination),
		CopySource: aws.String(escapeKey(a.options.Bucket + "/" + a.prefixer.PrefixPath(source))),
		ACL:        a.acl(cfg),
	}
	if !a.options.DisableServerSideEncryption {
		in.ServerSideEncryption = types.ServerSideEncryptionAes256
	}
	if _, err := client.CopyObject(ctx, in); err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, mapError(err, utils.WrapCopyError))
	}
	return nil
}

// PublicURL returns the unsigned URL of the object, virtual hosted style unless ForcePathStyle is set.
func (a *Adapter) PublicURL(_ context.Context, path string, _ blobfs.Config) (string, error) {
	key := escapeKey(a.prefixer.PrefixPath(path))
	if a.options.Endpoint == "" {
		host := "s3.amazonaws.com"
		if a.options.Region != "" {
			host = "s3." + a.options.Region + ".amazonaws.com"
		}
		if a.options.ForcePathStyle {
			return fmt.Sprintf("https://%s/%s/%s", host, a.options.Bucket, key), nil
		}
		return fmt.Sprintf("https://%s.%s/%s", a.options.Bucket, host, key), nil
	}

	u, err := url.Parse(strings.TrimRight(a.options.Endpoint, "/"))
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGeneratePublicURL, path, err)
	}
	if a.options.ForcePathStyle {
		return fmt.Sprintf("%s://%s%s/%s/%s", u.Scheme, u.Host, u.Path, a.options.Bucket, key), nil
	}
	return fmt.Sprintf("%s://%s.%s%s/%s", u.Scheme, a.options.Bucket, u.Host, u.Path, key), nil
}

// TemporaryURL presigns a GET of the object valid until expiresAt.
func (a *Adapter) TemporaryURL(ctx context.Context, path string, expiresAt time.Time, _ blobfs.Config) (string, error) {
	presigner, err := a.Presigner()
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGenerateTempURL, path, err)
	}
	req, err := presigner.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path)},
		s3.WithPresignExpires(time.Until(expiresAt)),
	)
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpGenerateTempURL, path, utils.WrapSignError(err))
	}
	return req.URL, nil
}

// TemporaryUploadURL presigns a PUT of the object valid until expiresAt. The returned headers are the ones the
// upload must send: the configured content type and headers, plus any further header the signature covers.
func (a *Adapter) TemporaryUploadURL(ctx context.Context, path string, expiresAt time.Time, cfg blobfs.Config) (*blobfs.UploadURL, error) {
	presigner, err := a.Presigner()
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpGenerateUploadURL, path, err)
	}

	headers := map[string]string{}
	for name, value := range cfg.StringMap(blobfs.OptionHeaders) {
		headers[http.CanonicalHeaderKey(name)] = value
	}
	if contentType := cfg.String(blobfs.OptionMimeType, ""); contentType != "" {
		headers["Content-Type"] = contentType
	}

	in := &s3.PutObjectInput{Bucket: aws.String(a.options.Bucket), Key: a.key(path), ACL: a.acl(cfg)}
	if contentType, ok := headers["Content-Type"]; ok {
		in.ContentType = aws.String(contentType)
	}
	req, err := presigner.PresignPutObject(ctx, in, s3.WithPresignExpires(time.Until(expiresAt)))
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpGenerateUploadURL, path, utils.WrapSignError(err))
	}

	for name, values := range req.SignedHeader {
		if strings.EqualFold(name, "Host") || len(values) == 0 {
			continue
		}
		headers[http.CanonicalHeaderKey(name)] = values[0]
	}
	return &blobfs.UploadURL{URL: req.URL, Headers: headers}, nil
}

// Checksum returns the ETag of objects uploaded in a single part, which is their md5. Other objects and algorithms
// fail with blobfs.ErrUnsupported.
func (a *Adapter) Checksum(ctx context.Context, path string, cfg blobfs.Config) (string, error) {
	if cfg.String(blobfs.OptionChecksumAlgo, "md5") != "md5" {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, blobfs.ErrUnsupported)
	}
	attrs, err := a.attributes(ctx, blobfs.OpProvideChecksum, path)
	if err != nil {
		return "", err
	}
	etag := attrs.Extra["etag"]
	if etag == "" || strings.Contains(etag, "-") {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, blobfs.ErrUnsupported)
	}
	return etag, nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
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
