package os

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/options"
	"github.com/c2fo/blobfs/utils"
)

// DriverName is the name the adapter registers under in the backend registry.
const DriverName = "local"

// tempPattern names files being written. Listings leave them out.
const tempPattern = ".blobfs-*.tmp"

var errNotAFile = errors.New("not a file")

// Adapter implements blobfs.Adapter on a directory of the local filesystem.
type Adapter struct {
	options Options
	root    string
	logger  *slog.Logger
}

// NewAdapter initializer for the local Adapter. WithOptions should come before the options adjusting single settings.
func NewAdapter(opts ...options.NewAdapterOption[Adapter]) *Adapter {
	a := &Adapter{logger: slog.Default()}
	options.ApplyOptions(a, opts...)
	a.options.applyDefaults()
	a.root = filepath.Clean(a.options.Root)
	return a
}

// Options returns the options of the adapter.
func (a *Adapter) Options() Options {
	return a.options
}

// Root returns the directory paths are resolved against.
func (a *Adapter) Root() string {
	return a.root
}

// fullPath resolves path below the root. Paths climbing out of the root fail with blobfs.ErrPathTraversal.
func (a *Adapter) fullPath(path string) (string, error) {
	full := filepath.Join(a.root, filepath.FromSlash(path))
	rel, err := filepath.Rel(a.root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", blobfs.ErrPathTraversal
	}
	return full, nil
}

// FileExists reports whether a regular file exists at path.
func (a *Adapter) FileExists(_ context.Context, path string) (bool, error) {
	full, err := a.fullPath(path)
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapExistsError(err))
	}
	return !info.IsDir(), nil
}

// DirectoryExists reports whether a directory exists at path.
func (a *Adapter) DirectoryExists(_ context.Context, path string) (bool, error) {
	full, err := a.fullPath(path)
	if err != nil {
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, err)
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, path, utils.WrapExistsError(err))
	}
	return info.IsDir(), nil
}

// Write writes contents to path, creating missing parent directories.
func (a *Adapter) Write(ctx context.Context, path string, contents []byte, cfg blobfs.Config) error {
	return a.WriteStream(ctx, path, bytes.NewReader(contents), cfg)
}

// WriteStream writes everything read from r to a temporary file renamed onto path once complete, so readers never
// see a partial file.
func (a *Adapter) WriteStream(ctx context.Context, path string, r io.Reader, cfg blobfs.Config) error {
	full, err := a.fullPath(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, err)
	}
	if err := a.ensureParent(full, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapWriteError(err))
	}

	tempDir := a.options.TempDir
	if tempDir == "" {
		tempDir = filepath.Dir(full)
	}
	tmp, err := os.CreateTemp(tempDir, tempPattern)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapWriteError(err))
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := utils.TouchCopyBuffered(tmp, r, 0); err != nil {
		_ = tmp.Close()
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapWriteError(err))
	}
	if err := tmp.Close(); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapCloseError(err))
	}

	visibility := blobfs.Visibility(cfg.String(blobfs.OptionVisibility, string(a.options.DefaultVisibility)))
	if err := os.Chmod(tmp.Name(), a.options.Permissions.ForFile(visibility)); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapWriteError(err))
	}
	if err := safeOsRename(tmp.Name(), full); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapWriteError(err))
	}
	a.logger.DebugContext(ctx, "wrote file", "adapter", DriverName, "path", path)
	return nil
}

// ensureParent creates the missing parents of full with the directory visibility of cfg.
func (a *Adapter) ensureParent(full string, cfg blobfs.Config) error {
	visibility := blobfs.Visibility(cfg.String(blobfs.OptionDirectoryVisibility, string(a.options.DefaultDirectoryVisibility)))
	return os.MkdirAll(filepath.Dir(full), a.options.Permissions.ForDir(visibility))
}

// Read reads the file at path.
func (a *Adapter) Read(_ context.Context, path string) ([]byte, error) {
	full, err := a.fullPath(path)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, err)
	}
	b, err := os.ReadFile(full)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, mapError(err, utils.WrapReadError))
	}
	return b, nil
}

// ReadStream opens the file at path.
func (a *Adapter) ReadStream(_ context.Context, path string) (io.ReadCloser, error) {
	full, err := a.fullPath(path)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, path, mapError(err, utils.WrapReadError))
	}
	return f, nil
}

// Delete removes the file at path. Missing files are not an error, directories are.
func (a *Adapter) Delete(_ context.Context, path string) error {
	full, err := a.fullPath(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, path, err)
	}
	info, err := os.Lstat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return blobfs.NewOperationError(blobfs.OpDelete, path, utils.WrapDeleteError(err))
	}
	if info.IsDir() {
		return blobfs.NewOperationError(blobfs.OpDelete, path, errNotAFile)
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return blobfs.NewOperationError(blobfs.OpDelete, path, utils.WrapDeleteError(err))
	}
	return nil
}

// DeleteDirectory removes path and everything below it. Deleting the root empties it.
func (a *Adapter) DeleteDirectory(_ context.Context, path string) error {
	full, err := a.fullPath(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, err)
	}
	if path != "" {
		if err := os.RemoveAll(full); err != nil {
			return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(err))
		}
		return nil
	}

	entries, err := os.ReadDir(full)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapListError(err))
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(full, entry.Name())); err != nil {
			return blobfs.NewOperationError(blobfs.OpDeleteDirectory, path, utils.WrapDeleteError(err))
		}
	}
	return nil
}

// CreateDirectory creates path and its missing parents.
func (a *Adapter) CreateDirectory(_ context.Context, path string, cfg blobfs.Config) error {
	visibility := blobfs.Visibility(cfg.String(blobfs.OptionDirectoryVisibility,
		cfg.String(blobfs.OptionVisibility, string(a.options.DefaultDirectoryVisibility))))
	perm := a.options.Permissions.ForDir(visibility)

	full, err := a.fullPath(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, err)
	}
	if err := os.MkdirAll(full, perm); err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, utils.WrapWriteError(err))
	}
	// MkdirAll leaves existing directories alone and is subject to the umask
	if err := os.Chmod(full, perm); err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, utils.WrapWriteError(err))
	}
	return nil
}

// SetVisibility changes the permissions of the file or directory at path.
func (a *Adapter) SetVisibility(_ context.Context, path string, visibility blobfs.Visibility) error {
	if visibility != blobfs.Public && visibility != blobfs.Private {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, fmt.Errorf("unknown visibility %q", visibility))
	}
	full, err := a.fullPath(path)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, err)
	}
	info, err := os.Stat(full)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, mapError(err, utils.WrapWriteError))
	}
	perm := a.options.Permissions.ForFile(visibility)
	if info.IsDir() {
		perm = a.options.Permissions.ForDir(visibility)
	}
	if err := os.Chmod(full, perm); err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, path, utils.WrapWriteError(err))
	}
	return nil
}

// Visibility maps the permissions of the file at path back onto a visibility.
func (a *Adapter) Visibility(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	info, err := a.statFile(path)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, err)
	}
	attrs := blobfs.FileAttributes(path)
	attrs.Visibility = a.options.Permissions.VisibilityOf(info.Mode())
	return attrs, nil
}

// MimeType detects the mime type of the file at path from its extension and first bytes.
func (a *Adapter) MimeType(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	if _, err := a.statFile(path); err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, err)
	}
	full, err := a.fullPath(path)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, err)
	}
	f, err := os.Open(full)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, mapError(err, utils.WrapReadError))
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, utils.MimeSniffLength)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, utils.WrapReadError(err))
	}
	attrs := blobfs.FileAttributes(path)
	attrs.MimeType = utils.DetectMimeType(path, head[:n], nil)
	return attrs, nil
}

// LastModified returns the attributes of the file holding its modification time.
func (a *Adapter) LastModified(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.fileAttributes(path)
}

// FileSize returns the attributes of the file holding its size.
func (a *Adapter) FileSize(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.fileAttributes(path)
}

func (a *Adapter) statFile(path string) (fs.FileInfo, error) {
	full, err := a.fullPath(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(full)
	if err != nil {
		return nil, mapError(err, utils.WrapExistsError)
	}
	if info.IsDir() {
		return nil, errNotAFile
	}
	return info, nil
}

func (a *Adapter) fileAttributes(path string) (blobfs.StorageAttributes, error) {
	info, err := a.statFile(path)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, path, err)
	}
	return a.toAttributes(path, info), nil
}

func (a *Adapter) toAttributes(path string, info fs.FileInfo) blobfs.StorageAttributes {
	var attrs blobfs.StorageAttributes
	if info.IsDir() {
		attrs = blobfs.DirectoryAttributes(path)
	} else {
		attrs = blobfs.FileAttributes(path)
		attrs.FileSize = utils.Ptr(info.Size())
	}
	attrs.LastModified = utils.Ptr(info.ModTime())
	attrs.Visibility = a.options.Permissions.VisibilityOf(info.Mode())
	return attrs
}

// ListContents lists path, walking the tree below it when deep. Entries are read as the caller consumes them and
// a missing directory lists nothing.
func (a *Adapter) ListContents(_ context.Context, path string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		full, err := a.fullPath(path)
		if err != nil {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, err))
			return
		}
		fail := func(err error) {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, utils.WrapListError(err)))
		}

		if !deep {
			entries, err := os.ReadDir(full)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					fail(err)
				}
				return
			}
			for _, entry := range entries {
				attrs, ok, err := a.entryAttributes(joinPath(path, entry.Name()), entry)
				if err != nil {
					fail(err)
					return
				}
				if ok && !yield(attrs, nil) {
					return
				}
			}
			return
		}

		stopped := false
		err = filepath.WalkDir(full, func(p string, entry fs.DirEntry, err error) error {
			if err != nil {
				if p == full && errors.Is(err, fs.ErrNotExist) {
					return fs.SkipAll
				}
				return err
			}
			if p == full {
				return nil
			}
			rel, err := filepath.Rel(a.root, p)
			if err != nil {
				return err
			}
			attrs, ok, err := a.entryAttributes(filepath.ToSlash(rel), entry)
			if err != nil {
				return err
			}
			if ok && !yield(attrs, nil) {
				stopped = true
				return fs.SkipAll
			}
			return nil
		})
		if err != nil && !stopped {
			fail(err)
		}
	}
}

// entryAttributes returns the attributes of a listed entry, or false for entries left out of listings.
func (a *Adapter) entryAttributes(path string, entry fs.DirEntry) (blobfs.StorageAttributes, bool, error) {
	if matched, _ := filepath.Match(tempPattern, entry.Name()); matched {
		return blobfs.StorageAttributes{}, false, nil
	}
	if entry.Type()&fs.ModeSymlink != 0 {
		if a.options.LinkHandling == SkipLinks {
			return blobfs.StorageAttributes{}, false, nil
		}
		return blobfs.StorageAttributes{}, false, fmt.Errorf("unsupported symbolic link %s", path)
	}
	info, err := entry.Info()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// removed while listing
			return blobfs.StorageAttributes{}, false, nil
		}
		return blobfs.StorageAttributes{}, false, err
	}
	return a.toAttributes(path, info), true, nil
}

// Move renames source onto destination, copying across devices.
func (a *Adapter) Move(_ context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	if _, err := a.statFile(source); err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, err)
	}
	src, _ := a.fullPath(source)
	dst, err := a.fullPath(destination)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, destination, err)
	}
	if err := a.ensureParent(dst, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, utils.WrapWriteError(err))
	}
	if err := safeOsRename(src, dst); err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, utils.WrapWriteError(err))
	}
	if v := cfg.String(blobfs.OptionVisibility, ""); v != "" {
		if err := os.Chmod(dst, a.options.Permissions.ForFile(blobfs.Visibility(v))); err != nil {
			return blobfs.NewOperationError(blobfs.OpMove, source, utils.WrapWriteError(err))
		}
	}
	return nil
}

// Copy copies source to destination, keeping the permissions of source unless cfg sets a visibility.
func (a *Adapter) Copy(_ context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	if _, err := a.statFile(source); err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	src, _ := a.fullPath(source)
	dst, err := a.fullPath(destination)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, destination, err)
	}
	if err := a.ensureParent(dst, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, utils.WrapWriteError(err))
	}
	if err := osCopy(src, dst); err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, mapError(err, utils.WrapCopyError))
	}
	if v := cfg.String(blobfs.OptionVisibility, ""); v != "" {
		if err := os.Chmod(dst, a.options.Permissions.ForFile(blobfs.Visibility(v))); err != nil {
			return blobfs.NewOperationError(blobfs.OpCopy, source, utils.WrapWriteError(err))
		}
	}
	return nil
}

// PublicURL appends the escaped path to PublicURLBase. Without a base it fails with blobfs.ErrUnsupported.
func (a *Adapter) PublicURL(_ context.Context, path string, _ blobfs.Config) (string, error) {
	if a.options.PublicURLBase == "" {
		return "", blobfs.NewOperationError(blobfs.OpGeneratePublicURL, path, blobfs.ErrUnsupported)
	}
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(a.options.PublicURLBase, "/") + "/" + strings.Join(segments, "/"), nil
}

func joinPath(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func mapError(err error, wrap func(error) error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return blobfs.ErrNotExist
	}
	return wrap(err)
}
