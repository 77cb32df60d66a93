package blobfs

import (
	"bytes"
	"context"
	"crypto/md5"  //nolint:gosec // md5 is the conventional content checksum of object stores
	"crypto/sha1" //nolint:gosec // offered for compatibility with stores reporting sha1
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"iter"
	"strings"
	"time"
)

// Filesystem is the caller facing side of an Adapter. It normalizes every path, merges per call options over its
// default Config and offers the URL and checksum helpers that only some adapters provide natively.
type Filesystem struct {
	adapter Adapter
	config  Config
}

// New returns a Filesystem backed by adapter. cfg holds defaults applied to every call, e.g. a default visibility.
func New(adapter Adapter, cfg Config) *Filesystem {
	if cfg == nil {
		cfg = Config{}
	}
	return &Filesystem{adapter: adapter, config: cfg}
}

// Adapter returns the underlying Adapter.
func (f *Filesystem) Adapter() Adapter {
	return f.adapter
}

// Config returns the default Config.
func (f *Filesystem) Config() Config {
	return f.config
}

// FileExists reports whether a file exists at path.
func (f *Filesystem) FileExists(ctx context.Context, path string) (bool, error) {
	p, err := f.normalize(OpCheckExistence, path)
	if err != nil {
		return false, err
	}
	return f.adapter.FileExists(ctx, p)
}

// DirectoryExists reports whether a directory exists at path.
func (f *Filesystem) DirectoryExists(ctx context.Context, path string) (bool, error) {
	p, err := f.normalize(OpCheckExistence, path)
	if err != nil {
		return false, err
	}
	return f.adapter.DirectoryExists(ctx, p)
}

// Has reports whether either a file or a directory exists at path.
func (f *Filesystem) Has(ctx context.Context, path string) (bool, error) {
	exists, err := f.FileExists(ctx, path)
	if err != nil || exists {
		return exists, err
	}
	return f.DirectoryExists(ctx, path)
}

// Write creates or overwrites the file at path.
func (f *Filesystem) Write(ctx context.Context, path string, contents []byte, cfg Config) error {
	p, err := f.normalize(OpWrite, path)
	if err != nil {
		return err
	}
	return f.adapter.Write(ctx, p, contents, f.merge(cfg))
}

// WriteStream creates or overwrites the file at path with the contents of r.
func (f *Filesystem) WriteStream(ctx context.Context, path string, r io.Reader, cfg Config) error {
	p, err := f.normalize(OpWrite, path)
	if err != nil {
		return err
	}
	return f.adapter.WriteStream(ctx, p, r, f.merge(cfg))
}

// Read returns the contents of the file at path.
func (f *Filesystem) Read(ctx context.Context, path string) ([]byte, error) {
	p, err := f.normalize(OpRead, path)
	if err != nil {
		return nil, err
	}
	return f.adapter.Read(ctx, p)
}

// ReadStream opens the file at path for reading.
func (f *Filesystem) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	p, err := f.normalize(OpRead, path)
	if err != nil {
		return nil, err
	}
	return f.adapter.ReadStream(ctx, p)
}

// Delete removes the file at path.
func (f *Filesystem) Delete(ctx context.Context, path string) error {
	p, err := f.normalize(OpDelete, path)
	if err != nil {
		return err
	}
	return f.adapter.Delete(ctx, p)
}

// DeleteDirectory removes the directory at path and everything below it.
func (f *Filesystem) DeleteDirectory(ctx context.Context, path string) error {
	p, err := f.normalize(OpDeleteDirectory, path)
	if err != nil {
		return err
	}
	return f.adapter.DeleteDirectory(ctx, p)
}

// CreateDirectory creates a directory at path.
func (f *Filesystem) CreateDirectory(ctx context.Context, path string, cfg Config) error {
	p, err := f.normalize(OpCreateDirectory, path)
	if err != nil {
		return err
	}
	return f.adapter.CreateDirectory(ctx, p, f.merge(cfg))
}

// SetVisibility changes the visibility of the file at path.
func (f *Filesystem) SetVisibility(ctx context.Context, path string, visibility Visibility) error {
	p, err := f.normalize(OpSetVisibility, path)
	if err != nil {
		return err
	}
	return f.adapter.SetVisibility(ctx, p, visibility)
}

// Visibility returns the visibility of the file at path.
func (f *Filesystem) Visibility(ctx context.Context, path string) (Visibility, error) {
	p, err := f.normalize(OpRetrieveMetadata, path)
	if err != nil {
		return "", err
	}
	attrs, err := f.adapter.Visibility(ctx, p)
	if err != nil {
		return "", err
	}
	if attrs.Visibility == "" {
		return "", NewOperationError(OpRetrieveMetadata, p, fmt.Errorf("visibility: %w", ErrMetadataUnavailable))
	}
	return attrs.Visibility, nil
}

// MimeType returns the mime type of the file at path.
func (f *Filesystem) MimeType(ctx context.Context, path string) (string, error) {
	p, err := f.normalize(OpRetrieveMetadata, path)
	if err != nil {
		return "", err
	}
	attrs, err := f.adapter.MimeType(ctx, p)
	if err != nil {
		return "", err
	}
	if attrs.MimeType == "" {
		return "", NewOperationError(OpRetrieveMetadata, p, fmt.Errorf("mime type: %w", ErrMetadataUnavailable))
	}
	return attrs.MimeType, nil
}

// LastModified returns the last modified time of the file at path.
func (f *Filesystem) LastModified(ctx context.Context, path string) (time.Time, error) {
	p, err := f.normalize(OpRetrieveMetadata, path)
	if err != nil {
		return time.Time{}, err
	}
	attrs, err := f.adapter.LastModified(ctx, p)
	if err != nil {
		return time.Time{}, err
	}
	if attrs.LastModified == nil {
		return time.Time{}, NewOperationError(OpRetrieveMetadata, p, fmt.Errorf("last modified: %w", ErrMetadataUnavailable))
	}
	return *attrs.LastModified, nil
}

// FileSize returns the size in bytes of the file at path.
func (f *Filesystem) FileSize(ctx context.Context, path string) (int64, error) {
	p, err := f.normalize(OpRetrieveMetadata, path)
	if err != nil {
		return 0, err
	}
	attrs, err := f.adapter.FileSize(ctx, p)
	if err != nil {
		return 0, err
	}
	if attrs.FileSize == nil {
		return 0, NewOperationError(OpRetrieveMetadata, p, fmt.Errorf("file size: %w", ErrMetadataUnavailable))
	}
	return *attrs.FileSize, nil
}

// ListContents lazily yields the entries under path.
func (f *Filesystem) ListContents(ctx context.Context, path string, deep bool) iter.Seq2[StorageAttributes, error] {
	p, err := f.normalize(OpListContents, path)
	if err != nil {
		return func(yield func(StorageAttributes, error) bool) {
			yield(StorageAttributes{}, err)
		}
	}
	return f.adapter.ListContents(ctx, p, deep)
}

// Move relocates the file at source to destination. Moving a file onto itself is a no-op.
func (f *Filesystem) Move(ctx context.Context, source, destination string, cfg Config) error {
	src, err := f.normalize(OpMove, source)
	if err != nil {
		return err
	}
	dst, err := f.normalize(OpMove, destination)
	if err != nil {
		return err
	}
	if src == dst {
		return nil
	}
	return f.adapter.Move(ctx, src, dst, f.merge(cfg))
}

// Copy duplicates the file at source to destination. Copying a file onto itself is a no-op.
func (f *Filesystem) Copy(ctx context.Context, source, destination string, cfg Config) error {
	src, err := f.normalize(OpCopy, source)
	if err != nil {
		return err
	}
	dst, err := f.normalize(OpCopy, destination)
	if err != nil {
		return err
	}
	if src == dst {
		return nil
	}
	return f.adapter.Copy(ctx, src, dst, f.merge(cfg))
}

// PublicURL returns a URL for the file at path. A public_url base in the config takes precedence over the adapter.
func (f *Filesystem) PublicURL(ctx context.Context, path string, cfg Config) (string, error) {
	p, err := f.normalize(OpGeneratePublicURL, path)
	if err != nil {
		return "", err
	}
	cfg = f.merge(cfg)
	if base := cfg.String(OptionPublicURL, ""); base != "" {
		return strings.TrimRight(base, "/") + "/" + p, nil
	}
	gen, ok := f.adapter.(PublicURLGenerator)
	if !ok {
		return "", NewOperationError(OpGeneratePublicURL, p, ErrUnsupported)
	}
	return gen.PublicURL(ctx, p, cfg)
}

// TemporaryURL returns a URL granting read access to the file at path until expiresAt.
func (f *Filesystem) TemporaryURL(ctx context.Context, path string, expiresAt time.Time, cfg Config) (string, error) {
	p, err := f.normalize(OpGenerateTempURL, path)
	if err != nil {
		return "", err
	}
	if !expiresAt.After(time.Now()) {
		return "", NewOperationError(OpGenerateTempURL, p, ErrExpiryInPast)
	}
	gen, ok := f.adapter.(TemporaryURLGenerator)
	if !ok {
		return "", NewOperationError(OpGenerateTempURL, p, ErrUnsupported)
	}
	return gen.TemporaryURL(ctx, p, expiresAt, f.merge(cfg))
}

// TemporaryUploadURL returns a URL, and the headers to send with it, that lets a client upload the file at path
// directly until expiresAt.
func (f *Filesystem) TemporaryUploadURL(ctx context.Context, path string, expiresAt time.Time, cfg Config) (*UploadURL, error) {
	p, err := f.normalize(OpGenerateUploadURL, path)
	if err != nil {
		return nil, err
	}
	if !expiresAt.After(time.Now()) {
		return nil, NewOperationError(OpGenerateUploadURL, p, ErrExpiryInPast)
	}
	gen, ok := f.adapter.(TemporaryUploadURLGenerator)
	if !ok {
		return nil, NewOperationError(OpGenerateUploadURL, p, ErrUnsupported)
	}
	return gen.TemporaryUploadURL(ctx, p, expiresAt, f.merge(cfg))
}

// Checksum returns a hex encoded checksum of the file at path. Adapters able to report a checksum are asked
// first; otherwise the file is streamed through the algorithm named by checksum_algo (md5 by default).
func (f *Filesystem) Checksum(ctx context.Context, path string, cfg Config) (string, error) {
	p, err := f.normalize(OpProvideChecksum, path)
	if err != nil {
		return "", err
	}
	cfg = f.merge(cfg)
	if provider, ok := f.adapter.(ChecksumProvider); ok {
		sum, err := provider.Checksum(ctx, p, cfg)
		if err == nil || !isUnsupported(err) {
			return sum, err
		}
	}
	return f.computeChecksum(ctx, p, cfg)
}

func (f *Filesystem) computeChecksum(ctx context.Context, p string, cfg Config) (string, error) {
	h, err := NewChecksumHash(cfg.String(OptionChecksumAlgo, "md5"))
	if err != nil {
		return "", NewOperationError(OpProvideChecksum, p, err)
	}
	r, err := f.adapter.ReadStream(ctx, p)
	if err != nil {
		return "", NewOperationError(OpProvideChecksum, p, err)
	}
	defer func() { _ = r.Close() }()

	if _, err := io.Copy(h, r); err != nil {
		return "", NewOperationError(OpProvideChecksum, p, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NewChecksumHash returns the hash implementation for a checksum_algo value.
func NewChecksumHash(algo string) (hash.Hash, error) {
	switch strings.ToLower(algo) {
	case "", "md5":
		return md5.New(), nil //nolint:gosec
	case "sha1":
		return sha1.New(), nil //nolint:gosec
	case "sha256":
		return sha256.New(), nil
	}
	return nil, fmt.Errorf("unsupported checksum algorithm %q", algo)
}

// ChecksumOf returns the hex encoded checksum of contents.
func ChecksumOf(contents []byte, algo string) (string, error) {
	h, err := NewChecksumHash(algo)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, bytes.NewReader(contents)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Collect drains a listing into a slice, stopping at the first error.
func Collect(seq iter.Seq2[StorageAttributes, error]) ([]StorageAttributes, error) {
	var entries []StorageAttributes
	for entry, err := range seq {
		if err != nil {
			return entries, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (f *Filesystem) normalize(op Operation, path string) (string, error) {
	p, err := NormalizePath(path)
	if err != nil {
		return "", NewOperationError(op, path, err)
	}
	return p, nil
}

func (f *Filesystem) merge(cfg Config) Config {
	return f.config.Extend(cfg)
}

func isUnsupported(err error) bool {
	return err != nil && errors.Is(err, ErrUnsupported)
}
