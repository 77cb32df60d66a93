package telemetry

import (
	"context"
	"io"
	"iter"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/options"
)

// InstrumentationName is the tracer name used when NewAdapter is given no tracer.
const InstrumentationName = "github.com/c2fo/blobfs/telemetry"

// Span attribute keys.
const (
	AttrPath        = attribute.Key("blobfs.path")
	AttrOperation   = attribute.Key("blobfs.operation")
	AttrDestination = attribute.Key("blobfs.destination")
	AttrSize        = attribute.Key("blobfs.size")
	AttrDeep        = attribute.Key("blobfs.deep")
	AttrEntries     = attribute.Key("blobfs.entries")
	AttrDisk        = attribute.Key("blobfs.disk")
)

// Adapter records a span for every call made to the adapter it wraps. It implements the optional capability
// interfaces and answers blobfs.ErrUnsupported when the wrapped adapter lacks one; use blobfs.Implements to look
// through it.
type Adapter struct {
	inner  blobfs.Adapter
	tracer trace.Tracer
	attrs  []attribute.KeyValue
}

// NewAdapter wraps inner. A nil tracer falls back to the global tracer provider.
func NewAdapter(inner blobfs.Adapter, tracer trace.Tracer, opts ...options.NewAdapterOption[Adapter]) *Adapter {
	if tracer == nil {
		tracer = otel.Tracer(InstrumentationName)
	}
	a := &Adapter{inner: inner, tracer: tracer}
	options.ApplyOptions(a, opts...)
	return a
}

// Unwrap returns the wrapped adapter.
func (a *Adapter) Unwrap() blobfs.Adapter {
	return a.inner
}

func (a *Adapter) start(ctx context.Context, name string, op blobfs.Operation, path string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	kv := make([]attribute.KeyValue, 0, len(a.attrs)+len(attrs)+2)
	kv = append(kv, AttrOperation.String(string(op)), AttrPath.String(path))
	kv = append(kv, a.attrs...)
	kv = append(kv, attrs...)
	return a.tracer.Start(ctx, "blobfs."+name, trace.WithAttributes(kv...), trace.WithSpanKind(trace.SpanKindClient))
}

func end(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// FileExists records the wrapped FileExists.
func (a *Adapter) FileExists(ctx context.Context, path string) (exists bool, err error) {
	ctx, span := a.start(ctx, "FileExists", blobfs.OpCheckExistence, path)
	defer func() { end(span, err) }()
	return a.inner.FileExists(ctx, path)
}

// DirectoryExists records the wrapped DirectoryExists.
func (a *Adapter) DirectoryExists(ctx context.Context, path string) (exists bool, err error) {
	ctx, span := a.start(ctx, "DirectoryExists", blobfs.OpCheckExistence, path)
	defer func() { end(span, err) }()
	return a.inner.DirectoryExists(ctx, path)
}

// Write records the wrapped Write.
func (a *Adapter) Write(ctx context.Context, path string, contents []byte, cfg blobfs.Config) (err error) {
	ctx, span := a.start(ctx, "Write", blobfs.OpWrite, path, AttrSize.Int(len(contents)))
	defer func() { end(span, err) }()
	return a.inner.Write(ctx, path, contents, cfg)
}

// WriteStream records the wrapped WriteStream.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, cfg blobfs.Config) (err error) {
	ctx, span := a.start(ctx, "WriteStream", blobfs.OpWrite, path)
	defer func() { end(span, err) }()
	return a.inner.WriteStream(ctx, path, r, cfg)
}

// Read records the wrapped Read.
func (a *Adapter) Read(ctx context.Context, path string) (contents []byte, err error) {
	ctx, span := a.start(ctx, "Read", blobfs.OpRead, path)
	defer func() {
		if err == nil {
			span.SetAttributes(AttrSize.Int(len(contents)))
		}
		end(span, err)
	}()
	return a.inner.Read(ctx, path)
}

// ReadStream records opening the wrapped stream. Reading it is not part of the span.
func (a *Adapter) ReadStream(ctx context.Context, path string) (r io.ReadCloser, err error) {
	ctx, span := a.start(ctx, "ReadStream", blobfs.OpRead, path)
	defer func() { end(span, err) }()
	return a.inner.ReadStream(ctx, path)
}

// Delete records the wrapped Delete.
func (a *Adapter) Delete(ctx context.Context, path string) (err error) {
	ctx, span := a.start(ctx, "Delete", blobfs.OpDelete, path)
	defer func() { end(span, err) }()
	return a.inner.Delete(ctx, path)
}

// DeleteDirectory records the wrapped DeleteDirectory.
func (a *Adapter) DeleteDirectory(ctx context.Context, path string) (err error) {
	ctx, span := a.start(ctx, "DeleteDirectory", blobfs.OpDeleteDirectory, path)
	defer func() { end(span, err) }()
	return a.inner.DeleteDirectory(ctx, path)
}

// CreateDirectory records the wrapped CreateDirectory.
func (a *Adapter) CreateDirectory(ctx context.Context, path string, cfg blobfs.Config) (err error) {
	ctx, span := a.start(ctx, "CreateDirectory", blobfs.OpCreateDirectory, path)
	defer func() { end(span, err) }()
	return a.inner.CreateDirectory(ctx, path, cfg)
}

// SetVisibility records the wrapped SetVisibility.
func (a *Adapter) SetVisibility(ctx context.Context, path string, visibility blobfs.Visibility) (err error) {
	ctx, span := a.start(ctx, "SetVisibility", blobfs.OpSetVisibility, path, attribute.String("blobfs.visibility", visibility.String()))
	defer func() { end(span, err) }()
	return a.inner.SetVisibility(ctx, path, visibility)
}

// Visibility records the wrapped Visibility.
func (a *Adapter) Visibility(ctx context.Context, path string) (attrs blobfs.StorageAttributes, err error) {
	ctx, span := a.start(ctx, "Visibility", blobfs.OpRetrieveMetadata, path)
	defer func() { end(span, err) }()
	return a.inner.Visibility(ctx, path)
}

// MimeType records the wrapped MimeType.
func (a *Adapter) MimeType(ctx context.Context, path string) (attrs blobfs.StorageAttributes, err error) {
	ctx, span := a.start(ctx, "MimeType", blobfs.OpRetrieveMetadata, path)
	defer func() { end(span, err) }()
	return a.inner.MimeType(ctx, path)
}

// LastModified records the wrapped LastModified.
func (a *Adapter) LastModified(ctx context.Context, path string) (attrs blobfs.StorageAttributes, err error) {
	ctx, span := a.start(ctx, "LastModified", blobfs.OpRetrieveMetadata, path)
	defer func() { end(span, err) }()
	return a.inner.LastModified(ctx, path)
}

// FileSize records the wrapped FileSize.
func (a *Adapter) FileSize(ctx context.Context, path string) (attrs blobfs.StorageAttributes, err error) {
	ctx, span := a.start(ctx, "FileSize", blobfs.OpRetrieveMetadata, path)
	defer func() { end(span, err) }()
	return a.inner.FileSize(ctx, path)
}

// ListContents records one span covering the whole iteration, from the first entry until the consumer stops or
// the listing ends.
func (a *Adapter) ListContents(ctx context.Context, path string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		ctx, span := a.start(ctx, "ListContents", blobfs.OpListContents, path, AttrDeep.Bool(deep))
		var (
			entries int
			err     error
		)
		defer func() {
			span.SetAttributes(AttrEntries.Int(entries))
			end(span, err)
		}()

		for entry, entryErr := range a.inner.ListContents(ctx, path, deep) {
			if entryErr != nil {
				err = entryErr
				yield(entry, entryErr)
				return
			}
			entries++
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// Move records the wrapped Move.
func (a *Adapter) Move(ctx context.Context, source, destination string, cfg blobfs.Config) (err error) {
	ctx, span := a.start(ctx, "Move", blobfs.OpMove, source, AttrDestination.String(destination))
	defer func() { end(span, err) }()
	return a.inner.Move(ctx, source, destination, cfg)
}

// Copy records the wrapped Copy.
func (a *Adapter) Copy(ctx context.Context, source, destination string, cfg blobfs.Config) (err error) {
	ctx, span := a.start(ctx, "Copy", blobfs.OpCopy, source, AttrDestination.String(destination))
	defer func() { end(span, err) }()
	return a.inner.Copy(ctx, source, destination, cfg)
}

// PublicURL records the wrapped PublicURL.
func (a *Adapter) PublicURL(ctx context.Context, path string, cfg blobfs.Config) (url string, err error) {
	ctx, span := a.start(ctx, "PublicURL", blobfs.OpGeneratePublicURL, path)
	defer func() { end(span, err) }()
	gen, ok := a.inner.(blobfs.PublicURLGenerator)
	if !ok {
		return "", blobfs.NewOperationError(blobfs.OpGeneratePublicURL, path, blobfs.ErrUnsupported)
	}
	return gen.PublicURL(ctx, path, cfg)
}

// TemporaryURL records the wrapped TemporaryURL.
func (a *Adapter) TemporaryURL(ctx context.Context, path string, expiresAt time.Time, cfg blobfs.Config) (url string, err error) {
	ctx, span := a.start(ctx, "TemporaryURL", blobfs.OpGenerateTempURL, path)
	defer func() { end(span, err) }()
	gen, ok := a.inner.(blobfs.TemporaryURLGenerator)
	if !ok {
		return "", blobfs.NewOperationError(blobfs.OpGenerateTempURL, path, blobfs.ErrUnsupported)
	}
	return gen.TemporaryURL(ctx, path, expiresAt, cfg)
}

// TemporaryUploadURL records the wrapped TemporaryUploadURL.
func (a *Adapter) TemporaryUploadURL(ctx context.Context, path string, expiresAt time.Time, cfg blobfs.Config) (upload *blobfs.UploadURL, err error) {
	ctx, span := a.start(ctx, "TemporaryUploadURL", blobfs.OpGenerateUploadURL, path)
	defer func() { end(span, err) }()
	gen, ok := a.inner.(blobfs.TemporaryUploadURLGenerator)
	if !ok {
		return nil, blobfs.NewOperationError(blobfs.OpGenerateUploadURL, path, blobfs.ErrUnsupported)
	}
	return gen.TemporaryUploadURL(ctx, path, expiresAt, cfg)
}

// Checksum records the wrapped Checksum.
func (a *Adapter) Checksum(ctx context.Context, path string, cfg blobfs.Config) (sum string, err error) {
	ctx, span := a.start(ctx, "Checksum", blobfs.OpProvideChecksum, path)
	defer func() { end(span, err) }()
	provider, ok := a.inner.(blobfs.ChecksumProvider)
	if !ok {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, blobfs.ErrUnsupported)
	}
	return provider.Checksum(ctx, path, cfg)
}
