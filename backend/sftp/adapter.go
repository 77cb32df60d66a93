package sftp

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
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	_sftp "github.com/pkg/sftp"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/options"
	"github.com/c2fo/blobfs/utils"
)

// DriverName is the name the adapter registers under in the backend registry.
const DriverName = "sftp"

// tempPattern names files being written. Listings leave them out.
const tempPattern = ".blobfs-*.tmp"

var errNotAFile = errors.New("not a file")

// Adapter implements blobfs.Adapter on a directory of an SFTP server. Visibility is stored as permission bits.
type Adapter struct {
	options Options
	root    string
	logger  *slog.Logger

	mu     sync.Mutex
	client Client
}

// NewAdapter initializer for the SFTP Adapter. WithOptions should come before the options adjusting single settings.
func NewAdapter(opts ...options.NewAdapterOption[Adapter]) *Adapter {
	a := &Adapter{logger: slog.Default()}
	options.ApplyOptions(a, opts...)
	a.options.applyDefaults()
	a.root = path.Clean(a.options.Root)
	return a
}

// Options returns the options of the adapter.
func (a *Adapter) Options() Options {
	return a.options
}

// Client returns the sftp client, connecting lazily from the adapter options.
func (a *Adapter) Client(ctx context.Context) (Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		client, err := getClient(ctx, a.options)
		if err != nil {
			return nil, err
		}
		a.logger.DebugContext(ctx, "connected", "adapter", DriverName, "host", a.options.Host)
		a.client = client
	}
	return a.client, nil
}

// Close closes the connection, if any. The next call connects again.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// dropLostConnection forgets a client whose connection went away, so the next call reconnects.
func (a *Adapter) dropLostConnection(err error) {
	if !errors.Is(err, _sftp.ErrSSHFxConnectionLost) && !errors.Is(err, _sftp.ErrSSHFxNoConnection) {
		return
	}
	a.logger.Warn("connection lost", "adapter", DriverName, "host", a.options.Host, "error", err)
	_ = a.Close()
}

// fullPath resolves path below the root. Paths climbing out of the root fail with blobfs.ErrPathTraversal.
func (a *Adapter) fullPath(p string) (string, error) {
	rel := path.Clean(p)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", blobfs.ErrPathTraversal
	}
	return path.Join(a.root, rel), nil
}

// FileExists reports whether a regular file exists at path.
func (a *Adapter) FileExists(ctx context.Context, p string) (bool, error) {
	info, err := a.stat(ctx, p)
	if err != nil {
		if errors.Is(err, blobfs.ErrNotExist) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, p, err)
	}
	return !info.IsDir(), nil
}

// DirectoryExists reports whether a directory exists at path.
func (a *Adapter) DirectoryExists(ctx context.Context, p string) (bool, error) {
	info, err := a.stat(ctx, p)
	if err != nil {
		if errors.Is(err, blobfs.ErrNotExist) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, p, err)
	}
	return info.IsDir(), nil
}

func (a *Adapter) stat(ctx context.Context, p string) (os.FileInfo, error) {
	full, err := a.fullPath(p)
	if err != nil {
		return nil, err
	}
	client, err := a.Client(ctx)
	if err != nil {
		return nil, err
	}
	info, err := client.Stat(full)
	if err != nil {
		a.dropLostConnection(err)
		return nil, mapError(err, utils.WrapExistsError)
	}
	return info, nil
}

func (a *Adapter) statFile(ctx context.Context, p string) (os.FileInfo, error) {
	info, err := a.stat(ctx, p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errNotAFile
	}
	return info, nil
}

// Write writes contents to path, creating missing parent directories.
func (a *Adapter) Write(ctx context.Context, p string, contents []byte, cfg blobfs.Config) error {
	return a.WriteStream(ctx, p, bytes.NewReader(contents), cfg)
}

// WriteStream uploads everything read from r to a temporary file renamed onto path once complete, so readers
// never see a partial file.
func (a *Adapter) WriteStream(ctx context.Context, p string, r io.Reader, cfg blobfs.Config) error {
	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, p, err)
	}
	client, err := a.Client(ctx)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, p, err)
	}
	if err := a.ensureParent(client, full, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, p, utils.WrapWriteError(err))
	}

	visibility := blobfs.Visibility(cfg.String(blobfs.OptionVisibility, string(a.options.DefaultVisibility)))
	if err := a.upload(client, full, r, a.options.Permissions.ForFile(visibility)); err != nil {
		a.dropLostConnection(err)
		return blobfs.NewOperationError(blobfs.OpWrite, p, utils.WrapWriteError(err))
	}
	a.logger.DebugContext(ctx, "wrote file", "adapter", DriverName, "path", p)
	return nil
}

// upload writes r to a temporary file next to full, sets its mode and renames it onto full.
func (a *Adapter) upload(client Client, full string, r io.Reader, mode fs.FileMode) error {
	tmp := path.Join(path.Dir(full), strings.Replace(tempPattern, "*", uuid.NewString(), 1))
	f, err := client.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}
	if _, err := f.ReadFrom(r); err != nil {
		_ = f.Close()
		_ = client.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = client.Remove(tmp)
		return utils.WrapCloseError(err)
	}
	if err := client.Chmod(tmp, mode); err != nil {
		_ = client.Remove(tmp)
		return err
	}
	if err := rename(client, tmp, full); err != nil {
		_ = client.Remove(tmp)
		return err
	}
	return nil
}

// rename moves oldname onto newname, replacing newname. Servers without the posix-rename extension refuse to
// rename onto an existing file, so newname is removed first for them.
func rename(client Client, oldname, newname string) error {
	err := client.PosixRename(oldname, newname)
	if err == nil || !isUnsupported(err) {
		return err
	}
	if err := client.Remove(newname); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return client.Rename(oldname, newname)
}

func isUnsupported(err error) bool {
	if errors.Is(err, _sftp.ErrSSHFxOpUnsupported) {
		return true
	}
	var status *_sftp.StatusError
	return errors.As(err, &status) && status.Code == uint32(_sftp.ErrSSHFxOpUnsupported)
}

// ensureParent creates the missing parents of full with the directory visibility of cfg.
func (a *Adapter) ensureParent(client Client, full string, cfg blobfs.Config) error {
	visibility := blobfs.Visibility(cfg.String(blobfs.OptionDirectoryVisibility, string(a.options.DefaultDirectoryVisibility)))
	return a.mkdirs(client, path.Dir(full), a.options.Permissions.ForDir(visibility))
}

// mkdirs creates dir and its missing parents below the root with mode. A missing root is created as well.
func (a *Adapter) mkdirs(client Client, dir string, mode fs.FileMode) error {
	if _, err := client.Stat(dir); err == nil {
		return nil
	}
	if _, err := client.Stat(a.root); errors.Is(err, fs.ErrNotExist) {
		if err := client.MkdirAll(a.root); err != nil {
			return err
		}
	}

	current := a.root
	rel := a.relative(dir)
	if rel == "" {
		return nil
	}
	for _, segment := range strings.Split(rel, "/") {
		current = path.Join(current, segment)
		info, err := client.Stat(current)
		switch {
		case err == nil && info.IsDir():
			continue
		case err == nil:
			return fmt.Errorf("%s is not a directory", current)
		case !errors.Is(err, fs.ErrNotExist):
			return err
		}
		if err := client.Mkdir(current); err != nil {
			return err
		}
		if err := client.Chmod(current, mode); err != nil {
			return err
		}
	}
	return nil
}

// relative strips the root from a path returned by fullPath.
func (a *Adapter) relative(full string) string {
	switch {
	case full == a.root:
		return ""
	case a.root == ".":
		return full
	case a.root == "/":
		return strings.TrimPrefix(full, "/")
	}
	return strings.TrimPrefix(full, a.root+"/")
}

// Read reads the file at path.
func (a *Adapter) Read(ctx context.Context, p string) ([]byte, error) {
	r, err := a.ReadStream(ctx, p)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, err)
	}
	defer func() { _ = r.Close() }()

	b, err := io.ReadAll(r)
	if err != nil {
		a.dropLostConnection(err)
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, utils.WrapReadError(err))
	}
	return b, nil
}

// ReadStream opens the file at path.
func (a *Adapter) ReadStream(ctx context.Context, p string) (io.ReadCloser, error) {
	if _, err := a.statFile(ctx, p); err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, err)
	}
	full, _ := a.fullPath(p)
	client, err := a.Client(ctx)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, err)
	}
	f, err := client.Open(full)
	if err != nil {
		a.dropLostConnection(err)
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, mapError(err, utils.WrapReadError))
	}
	return f, nil
}

// Delete removes the file at path. Missing files are not an error, directories are.
func (a *Adapter) Delete(ctx context.Context, p string) error {
	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, p, err)
	}
	client, err := a.Client(ctx)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, p, err)
	}
	info, err := client.Lstat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		a.dropLostConnection(err)
		return blobfs.NewOperationError(blobfs.OpDelete, p, utils.WrapDeleteError(err))
	}
	if info.IsDir() {
		return blobfs.NewOperationError(blobfs.OpDelete, p, errNotAFile)
	}
	if err := client.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return blobfs.NewOperationError(blobfs.OpDelete, p, utils.WrapDeleteError(err))
	}
	return nil
}

// DeleteDirectory removes path and everything below it. Deleting the root empties it.
func (a *Adapter) DeleteDirectory(ctx context.Context, p string) error {
	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, p, err)
	}
	client, err := a.Client(ctx)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, p, err)
	}
	if full != a.root {
		if err := removeAll(ctx, client, full); err != nil {
			a.dropLostConnection(err)
			return blobfs.NewOperationError(blobfs.OpDeleteDirectory, p, utils.WrapDeleteError(err))
		}
		return nil
	}

	entries, err := client.ReadDir(full)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, p, utils.WrapListError(err))
	}
	for _, entry := range entries {
		if err := removeAll(ctx, client, path.Join(full, entry.Name())); err != nil {
			return blobfs.NewOperationError(blobfs.OpDeleteDirectory, p, utils.WrapDeleteError(err))
		}
	}
	return nil
}

// removeAll removes p and, for directories, everything below it. A missing p is not an error.
func removeAll(ctx context.Context, client Client, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := client.Lstat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		if err := client.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	}
	entries, err := client.ReadDir(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	for _, entry := range entries {
		if err := removeAll(ctx, client, path.Join(p, entry.Name())); err != nil {
			return err
		}
	}
	if err := client.RemoveDirectory(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// CreateDirectory creates path and its missing parents, then applies the directory visibility to path.
func (a *Adapter) CreateDirectory(ctx context.Context, p string, cfg blobfs.Config) error {
	visibility := blobfs.Visibility(cfg.String(blobfs.OptionDirectoryVisibility,
		cfg.String(blobfs.OptionVisibility, string(a.options.DefaultDirectoryVisibility))))
	mode := a.options.Permissions.ForDir(visibility)

	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, p, err)
	}
	client, err := a.Client(ctx)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, p, err)
	}
	if err := a.mkdirs(client, full, mode); err != nil {
		a.dropLostConnection(err)
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, p, utils.WrapWriteError(err))
	}
	if err := client.Chmod(full, mode); err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, p, utils.WrapWriteError(err))
	}
	return nil
}

// SetVisibility changes the permissions of the file or directory at path.
func (a *Adapter) SetVisibility(ctx context.Context, p string, visibility blobfs.Visibility) error {
	if visibility != blobfs.Public && visibility != blobfs.Private {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, p, fmt.Errorf("unknown visibility %q", visibility))
	}
	info, err := a.stat(ctx, p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, p, err)
	}
	mode := a.options.Permissions.ForFile(visibility)
	if info.IsDir() {
		mode = a.options.Permissions.ForDir(visibility)
	}
	full, _ := a.fullPath(p)
	client, err := a.Client(ctx)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, p, err)
	}
	if err := client.Chmod(full, mode); err != nil {
		return blobfs.NewOperationError(blobfs.OpSetVisibility, p, utils.WrapWriteError(err))
	}
	return nil
}

// Visibility maps the permissions of the file at path back onto a visibility.
func (a *Adapter) Visibility(ctx context.Context, p string) (blobfs.StorageAttributes, error) {
	info, err := a.statFile(ctx, p)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, p, err)
	}
	attrs := blobfs.FileAttributes(p)
	attrs.Visibility = a.options.Permissions.VisibilityOf(info.Mode())
	return attrs, nil
}

// MimeType detects the mime type of the file at path from its extension and first bytes.
func (a *Adapter) MimeType(ctx context.Context, p string) (blobfs.StorageAttributes, error) {
	r, err := a.ReadStream(ctx, p)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, p, err)
	}
	defer func() { _ = r.Close() }()

	head := make([]byte, utils.MimeSniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, p, utils.WrapReadError(err))
	}
	attrs := blobfs.FileAttributes(p)
	attrs.MimeType = utils.DetectMimeType(p, head[:n], nil)
	return attrs, nil
}

// LastModified returns the attributes of the file holding its modification time.
func (a *Adapter) LastModified(ctx context.Context, p string) (blobfs.StorageAttributes, error) {
	return a.fileAttributes(ctx, p)
}

// FileSize returns the attributes of the file holding its size.
func (a *Adapter) FileSize(ctx context.Context, p string) (blobfs.StorageAttributes, error) {
	return a.fileAttributes(ctx, p)
}

func (a *Adapter) fileAttributes(ctx context.Context, p string) (blobfs.StorageAttributes, error) {
	info, err := a.statFile(ctx, p)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, p, err)
	}
	return a.toAttributes(p, info), nil
}

func (a *Adapter) toAttributes(p string, info os.FileInfo) blobfs.StorageAttributes {
	var attrs blobfs.StorageAttributes
	if info.IsDir() {
		attrs = blobfs.DirectoryAttributes(p)
	} else {
		attrs = blobfs.FileAttributes(p)
		attrs.FileSize = utils.Ptr(info.Size())
	}
	attrs.LastModified = utils.Ptr(info.ModTime())
	attrs.Visibility = a.options.Permissions.VisibilityOf(info.Mode())
	return attrs
}

// ListContents lists path, descending into subdirectories when deep. Directories are yielded before their
// contents, symbolic links and files being written are left out, and a missing directory lists nothing.
func (a *Adapter) ListContents(ctx context.Context, p string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		full, err := a.fullPath(p)
		if err != nil {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, p, err))
			return
		}
		client, err := a.Client(ctx)
		if err != nil {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, p, err))
			return
		}
		if err := a.list(ctx, client, full, a.relative(full), deep, yield); err != nil && !errors.Is(err, errStopped) {
			a.dropLostConnection(err)
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, p, utils.WrapListError(err)))
		}
	}
}

var errStopped = errors.New("listing stopped")

func (a *Adapter) list(ctx context.Context, client Client, full, dir string, deep bool, yield func(blobfs.StorageAttributes, error) bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entries, err := client.ReadDir(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		if matched, _ := path.Match(tempPattern, name); matched || entry.Mode()&fs.ModeSymlink != 0 {
			continue
		}
		entryPath := joinPath(dir, name)
		if !yield(a.toAttributes(entryPath, entry), nil) {
			return errStopped
		}
		if deep && entry.IsDir() {
			if err := a.list(ctx, client, path.Join(full, name), entryPath, deep, yield); err != nil {
				return err
			}
		}
	}
	return nil
}

// Move renames source onto destination.
func (a *Adapter) Move(ctx context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	if _, err := a.statFile(ctx, source); err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, err)
	}
	src, _ := a.fullPath(source)
	dst, err := a.fullPath(destination)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, destination, err)
	}
	client, err := a.Client(ctx)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, err)
	}
	if err := a.ensureParent(client, dst, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, utils.WrapWriteError(err))
	}
	if err := rename(client, src, dst); err != nil {
		a.dropLostConnection(err)
		return blobfs.NewOperationError(blobfs.OpMove, source, utils.WrapWriteError(err))
	}
	if v := cfg.String(blobfs.OptionVisibility, ""); v != "" {
		if err := client.Chmod(dst, a.options.Permissions.ForFile(blobfs.Visibility(v))); err != nil {
			return blobfs.NewOperationError(blobfs.OpMove, source, utils.WrapWriteError(err))
		}
	}
	return nil
}

// Copy streams source through the client into destination, keeping the permissions of source unless cfg sets
// a visibility.
func (a *Adapter) Copy(ctx context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	info, err := a.statFile(ctx, source)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	src, _ := a.fullPath(source)
	dst, err := a.fullPath(destination)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, destination, err)
	}
	client, err := a.Client(ctx)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	if err := a.ensureParent(client, dst, cfg); err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, utils.WrapWriteError(err))
	}

	mode := info.Mode().Perm()
	if v := cfg.String(blobfs.OptionVisibility, ""); v != "" {
		mode = a.options.Permissions.ForFile(blobfs.Visibility(v))
	}
	f, err := client.Open(src)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, mapError(err, utils.WrapCopyError))
	}
	defer func() { _ = f.Close() }()
	if err := a.upload(client, dst, f, mode); err != nil {
		a.dropLostConnection(err)
		return blobfs.NewOperationError(blobfs.OpCopy, source, utils.WrapCopyError(err))
	}
	return nil
}

// PublicURL appends the escaped path to PublicURLBase. Without a base it fails with blobfs.ErrUnsupported.
func (a *Adapter) PublicURL(_ context.Context, p string, _ blobfs.Config) (string, error) {
	if a.options.PublicURLBase == "" {
		return "", blobfs.NewOperationError(blobfs.OpGeneratePublicURL, p, blobfs.ErrUnsupported)
	}
	segments := strings.Split(p, "/")
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
