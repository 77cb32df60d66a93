package disk

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/c2fo/blobfs"
)

// OptionURL is the disk config key holding a base URL that replaces the adapter's public URLs.
const OptionURL = "url"

// Disk is a named, configured Filesystem with the convenience calls applications reach for.
type Disk struct {
	name   string
	fs     *blobfs.Filesystem
	config blobfs.Config
}

// NewDisk returns a Disk named name over fs. cfg is the disk's configuration as loaded by LoadConfig.
func NewDisk(name string, fs *blobfs.Filesystem, cfg blobfs.Config) *Disk {
	if cfg == nil {
		cfg = blobfs.Config{}
	}
	return &Disk{name: name, fs: fs, config: cfg}
}

// Name returns the disk name.
func (d *Disk) Name() string {
	return d.name
}

// Filesystem returns the Filesystem behind the disk.
func (d *Disk) Filesystem() *blobfs.Filesystem {
	return d.fs
}

// Config returns the disk configuration.
func (d *Disk) Config() blobfs.Config {
	return d.config
}

// Exists reports whether a file or directory exists at path.
func (d *Disk) Exists(ctx context.Context, path string) (bool, error) {
	return d.fs.Has(ctx, path)
}

// Missing is the negation of Exists.
func (d *Disk) Missing(ctx context.Context, path string) (bool, error) {
	exists, err := d.Exists(ctx, path)
	return !exists, err
}

// Get returns the contents of the file at path.
func (d *Disk) Get(ctx context.Context, path string) ([]byte, error) {
	return d.fs.Read(ctx, path)
}

// ReadStream opens the file at path for reading.
func (d *Disk) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	return d.fs.ReadStream(ctx, path)
}

// Put writes contents to path.
func (d *Disk) Put(ctx context.Context, path string, contents []byte, cfg blobfs.Config) error {
	return d.fs.Write(ctx, path, contents, cfg)
}

// PutStream writes everything read from r to path.
func (d *Disk) PutStream(ctx context.Context, path string, r io.Reader, cfg blobfs.Config) error {
	return d.fs.WriteStream(ctx, path, r, cfg)
}

// Delete removes every file in paths. Each path is attempted; the failures are joined.
func (d *Disk) Delete(ctx context.Context, paths ...string) error {
	var errs []error
	for _, p := range paths {
		if err := d.fs.Delete(ctx, p); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Copy copies the file at source to destination.
func (d *Disk) Copy(ctx context.Context, source, destination string) error {
	return d.fs.Copy(ctx, source, destination, nil)
}

// Move moves the file at source to destination.
func (d *Disk) Move(ctx context.Context, source, destination string) error {
	return d.fs.Move(ctx, source, destination, nil)
}

// Size returns the size in bytes of the file at path.
func (d *Disk) Size(ctx context.Context, path string) (int64, error) {
	return d.fs.FileSize(ctx, path)
}

// LastModified returns the last modification time of the file at path.
func (d *Disk) LastModified(ctx context.Context, path string) (time.Time, error) {
	return d.fs.LastModified(ctx, path)
}

// MimeType returns the mime type of the file at path.
func (d *Disk) MimeType(ctx context.Context, path string) (string, error) {
	return d.fs.MimeType(ctx, path)
}

// Checksum returns the checksum of the file at path.
func (d *Disk) Checksum(ctx context.Context, path string, cfg blobfs.Config) (string, error) {
	return d.fs.Checksum(ctx, path, cfg)
}

// Visibility returns the visibility of the file at path.
func (d *Disk) Visibility(ctx context.Context, path string) (blobfs.Visibility, error) {
	return d.fs.Visibility(ctx, path)
}

// SetVisibility changes the visibility of the file at path.
func (d *Disk) SetVisibility(ctx context.Context, path string, visibility blobfs.Visibility) error {
	return d.fs.SetVisibility(ctx, path, visibility)
}

// Files returns the paths of the files directly inside directory.
func (d *Disk) Files(ctx context.Context, directory string) ([]string, error) {
	return d.paths(ctx, directory, false, blobfs.TypeFile)
}

// AllFiles returns the paths of every file below directory.
func (d *Disk) AllFiles(ctx context.Context, directory string) ([]string, error) {
	return d.paths(ctx, directory, true, blobfs.TypeFile)
}

// Directories returns the paths of the directories directly inside directory.
func (d *Disk) Directories(ctx context.Context, directory string) ([]string, error) {
	return d.paths(ctx, directory, false, blobfs.TypeDirectory)
}

// AllDirectories returns the paths of every directory below directory.
func (d *Disk) AllDirectories(ctx context.Context, directory string) ([]string, error) {
	return d.paths(ctx, directory, true, blobfs.TypeDirectory)
}

func (d *Disk) paths(ctx context.Context, directory string, deep bool, typ blobfs.EntryType) ([]string, error) {
	out := []string{}
	for entry, err := range d.fs.ListContents(ctx, directory, deep) {
		if err != nil {
			return nil, err
		}
		if entry.Type == typ {
			out = append(out, entry.Path)
		}
	}
	slices.Sort(out)
	return out, nil
}

// MakeDirectory creates a directory at path.
func (d *Disk) MakeDirectory(ctx context.Context, path string) error {
	return d.fs.CreateDirectory(ctx, path, nil)
}

// DeleteDirectory removes the directory at path and its contents.
func (d *Disk) DeleteDirectory(ctx context.Context, path string) error {
	return d.fs.DeleteDirectory(ctx, path)
}

// URL returns the URL of the file at path. The disk's url config, when set, is used as a base; otherwise the
// adapter generates the URL.
func (d *Disk) URL(ctx context.Context, path string) (string, error) {
	if base := d.config.String(OptionURL, ""); base != "" {
		p, err := blobfs.NormalizePath(path)
		if err != nil {
			return "", blobfs.NewOperationError(blobfs.OpGeneratePublicURL, path, err)
		}
		return strings.TrimRight(base, "/") + "/" + p, nil
	}
	return d.fs.PublicURL(ctx, path, nil)
}

// TemporaryURL returns a URL granting read access to the file at path until expiresAt.
func (d *Disk) TemporaryURL(ctx context.Context, path string, expiresAt time.Time, cfg blobfs.Config) (string, error) {
	return d.fs.TemporaryURL(ctx, path, expiresAt, cfg)
}

// TemporaryUploadURL returns a URL and the headers a client needs to upload path directly until expiresAt.
func (d *Disk) TemporaryUploadURL(ctx context.Context, path string, expiresAt time.Time, cfg blobfs.Config) (*blobfs.UploadURL, error) {
	return d.fs.TemporaryUploadURL(ctx, path, expiresAt, cfg)
}

// ProvidesTemporaryURLs reports whether the disk's adapter can sign temporary URLs.
func (d *Disk) ProvidesTemporaryURLs() bool {
	return blobfs.Implements[blobfs.TemporaryURLGenerator](d.fs.Adapter())
}
