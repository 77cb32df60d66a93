package ftp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ftp "github.com/jlaffaye/ftp"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend/ftp/types"
	"github.com/c2fo/blobfs/options"
	"github.com/c2fo/blobfs/utils"
)

// DriverName is the name the adapter registers under in the backend registry.
const DriverName = "ftp"

// tempPattern names files being written. Listings leave them out.
const tempPattern = ".blobfs-*.tmp"

var errNotAFile = errors.New("not a file")

// Connector opens a logged in control connection.
type Connector func(ctx context.Context) (types.Client, error)

// Adapter implements blobfs.Adapter on a directory of an FTP server. FTP has no portable way to change
// permissions, so visibility operations fail with blobfs.ErrVisibilityNotSupported.
//
// One control connection serves the adapter, one command at a time. Streams being read hold a connection of
// their own until closed.
type Adapter struct {
	options   Options
	root      string
	logger    *slog.Logger
	connector Connector

	mu     sync.Mutex
	client types.Client
}

// NewAdapter initializer for the FTP Adapter. WithOptions should come before the options adjusting single settings.
func NewAdapter(opts ...options.NewAdapterOption[Adapter]) *Adapter {
	a := &Adapter{logger: slog.Default()}
	options.ApplyOptions(a, opts...)
	a.options.applyDefaults()
	a.root = path.Clean(a.options.Root)
	if a.connector == nil {
		a.connector = func(ctx context.Context) (types.Client, error) {
			return getClient(ctx, a.options)
		}
	}
	return a
}

// Options returns the options of the adapter.
func (a *Adapter) Options() Options {
	return a.options
}

// Close quits the control connection, if any. The next call connects again.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.closeLocked()
}

func (a *Adapter) closeLocked() error {
	if a.client == nil {
		return nil
	}
	err := a.client.Quit()
	a.client = nil
	return err
}

// do runs fn on the control connection, connecting first when needed. A lost connection is dropped so the next
// call reconnects.
func (a *Adapter) do(ctx context.Context, fn func(c types.Client) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.client == nil {
		client, err := a.connector(ctx)
		if err != nil {
			return err
		}
		a.logger.DebugContext(ctx, "connected", "adapter", DriverName, "host", a.options.Host)
		a.client = client
	}
	err := fn(a.client)
	if isConnectionLost(err) {
		a.logger.WarnContext(ctx, "connection lost", "adapter", DriverName, "host", a.options.Host, "error", err)
		_ = a.closeLocked()
	}
	return err
}

func isConnectionLost(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, net.ErrClosed)
}

// fullPath resolves path below the root. Paths climbing out of the root fail with blobfs.ErrPathTraversal.
func (a *Adapter) fullPath(p string) (string, error) {
	rel := path.Clean(p)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", blobfs.ErrPathTraversal
	}
	return path.Join(a.root, rel), nil
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

// entry stats full. Servers with MLST answer directly, the others are asked for a listing of the parent.
func (a *Adapter) entry(c types.Client, full string) (*_ftp.Entry, error) {
	if full == "/" || full == "." {
		return &_ftp.Entry{Name: full, Type: _ftp.EntryTypeFolder}, nil
	}
	if c.IsTimePreciseInList() {
		e, err := c.GetEntry(full)
		if err != nil {
			return nil, mapError(err, utils.WrapExistsError)
		}
		return e, nil
	}
	entries, err := c.List(path.Dir(full))
	if err != nil {
		return nil, mapError(err, utils.WrapExistsError)
	}
	name := path.Base(full)
	for _, e := range entries {
		if e.Name == name || path.Base(e.Name) == name {
			return e, nil
		}
	}
	return nil, blobfs.ErrNotExist
}

func (a *Adapter) stat(ctx context.Context, p string) (*_ftp.Entry, error) {
	full, err := a.fullPath(p)
	if err != nil {
		return nil, err
	}
	var e *_ftp.Entry
	err = a.do(ctx, func(c types.Client) error {
		e, err = a.entry(c, full)
		return err
	})
	return e, err
}

func (a *Adapter) statFile(ctx context.Context, p string) (*_ftp.Entry, error) {
	e, err := a.stat(ctx, p)
	if err != nil {
		return nil, err
	}
	if e.Type == _ftp.EntryTypeFolder {
		return nil, errNotAFile
	}
	return e, nil
}

// FileExists reports whether a file exists at path.
func (a *Adapter) FileExists(ctx context.Context, p string) (bool, error) {
	e, err := a.stat(ctx, p)
	if err != nil {
		if errors.Is(err, blobfs.ErrNotExist) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, p, err)
	}
	return e.Type == _ftp.EntryTypeFile, nil
}

// DirectoryExists reports whether a directory exists at path.
func (a *Adapter) DirectoryExists(ctx context.Context, p string) (bool, error) {
	e, err := a.stat(ctx, p)
	if err != nil {
		if errors.Is(err, blobfs.ErrNotExist) {
			return false, nil
		}
		return false, blobfs.NewOperationError(blobfs.OpCheckExistence, p, err)
	}
	return e.Type == _ftp.EntryTypeFolder, nil
}

// Write writes contents to path, creating missing parent directories.
func (a *Adapter) Write(ctx context.Context, p string, contents []byte, cfg blobfs.Config) error {
	return a.WriteStream(ctx, p, bytes.NewReader(contents), cfg)
}

// WriteStream stores everything read from r in a temporary file renamed onto path once complete. Visibility
// settings in cfg are ignored.
func (a *Adapter) WriteStream(ctx context.Context, p string, r io.Reader, _ blobfs.Config) error {
	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, p, err)
	}
	err = a.do(ctx, func(c types.Client) error {
		if err := a.mkdirs(c, path.Dir(full)); err != nil {
			return err
		}
		return upload(c, full, r)
	})
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, p, utils.WrapWriteError(err))
	}
	a.logger.DebugContext(ctx, "wrote file", "adapter", DriverName, "path", p)
	return nil
}

// upload stores r next to full and renames it onto full. A failed rename leaves full as it was.
func upload(c types.Client, full string, r io.Reader) error {
	tmp := path.Join(path.Dir(full), strings.Replace(tempPattern, "*", uuid.NewString(), 1))
	if err := c.Stor(tmp, r); err != nil {
		_ = c.Delete(tmp)
		return err
	}
	if err := c.Rename(tmp, full); err != nil {
		_ = c.Delete(tmp)
		return err
	}
	return nil
}

// mkdirs creates dir and its missing parents, the root included.
func (a *Adapter) mkdirs(c types.Client, dir string) error {
	if e, err := a.entry(c, dir); err == nil {
		if e.Type != _ftp.EntryTypeFolder {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	} else if !errors.Is(err, blobfs.ErrNotExist) {
		return err
	}

	current := ""
	if strings.HasPrefix(dir, "/") {
		current = "/"
	}
	for _, segment := range strings.Split(strings.Trim(dir, "/"), "/") {
		if segment == "" || segment == "." {
			continue
		}
		current = path.Join(current, segment)
		if err := c.MakeDir(current); err == nil {
			continue
		}
		e, err := a.entry(c, current)
		switch {
		case err != nil:
			return err
		case e.Type != _ftp.EntryTypeFolder:
			return fmt.Errorf("%s is not a directory", current)
		}
	}
	return nil
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
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, utils.WrapReadError(err))
	}
	return b, nil
}

// ReadStream retrieves the file at path over a connection of its own, quit when the stream is closed.
func (a *Adapter) ReadStream(ctx context.Context, p string) (io.ReadCloser, error) {
	if _, err := a.statFile(ctx, p); err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, err)
	}
	full, _ := a.fullPath(p)
	r, err := a.retrieve(ctx, full)
	if err != nil {
		return nil, blobfs.NewOperationError(blobfs.OpRead, p, mapError(err, utils.WrapReadError))
	}
	return r, nil
}

func (a *Adapter) retrieve(ctx context.Context, full string) (io.ReadCloser, error) {
	c, err := a.connector(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.Retr(full)
	if err != nil {
		_ = c.Quit()
		return nil, err
	}
	return &stream{ReadCloser: resp, conn: c}, nil
}

// stream closes the transfer, then quits the connection serving it.
type stream struct {
	io.ReadCloser
	conn types.Client
}

func (s *stream) Close() error {
	return errors.Join(s.ReadCloser.Close(), s.conn.Quit())
}

// Delete removes the file at path. Missing files are not an error, directories are.
func (a *Adapter) Delete(ctx context.Context, p string) error {
	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, p, err)
	}
	err = a.do(ctx, func(c types.Client) error {
		e, err := a.entry(c, full)
		switch {
		case errors.Is(err, blobfs.ErrNotExist):
			return nil
		case err != nil:
			return err
		case e.Type == _ftp.EntryTypeFolder:
			return errNotAFile
		}
		if err := c.Delete(full); err != nil && !isNotFound(err) {
			return utils.WrapDeleteError(err)
		}
		return nil
	})
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDelete, p, err)
	}
	return nil
}

// DeleteDirectory removes path and everything below it. Deleting the root empties it.
func (a *Adapter) DeleteDirectory(ctx context.Context, p string) error {
	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, p, err)
	}
	err = a.do(ctx, func(c types.Client) error {
		if full != a.root {
			return removeAll(a, c, full)
		}
		entries, err := c.List(full)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return utils.WrapListError(err)
		}
		for _, e := range entries {
			if e.Name == "." || e.Name == ".." {
				continue
			}
			if err := removeAll(a, c, path.Join(full, path.Base(e.Name))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpDeleteDirectory, p, err)
	}
	return nil
}

// removeAll removes full, recursively for directories. A missing full is not an error.
func removeAll(a *Adapter, c types.Client, full string) error {
	e, err := a.entry(c, full)
	switch {
	case errors.Is(err, blobfs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case e.Type == _ftp.EntryTypeFolder:
		err = c.RemoveDirRecur(full)
	default:
		err = c.Delete(full)
	}
	if err == nil {
		return nil
	}
	// servers answer 550 for missing paths and refused ones alike
	if isNotFound(err) {
		if _, statErr := a.entry(c, full); errors.Is(statErr, blobfs.ErrNotExist) {
			return nil
		}
	}
	return utils.WrapDeleteError(err)
}

// CreateDirectory creates path and its missing parents. Visibility settings in cfg are ignored.
func (a *Adapter) CreateDirectory(ctx context.Context, p string, _ blobfs.Config) error {
	full, err := a.fullPath(p)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, p, err)
	}
	if err := a.do(ctx, func(c types.Client) error { return a.mkdirs(c, full) }); err != nil {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, p, utils.WrapWriteError(err))
	}
	return nil
}

// SetVisibility fails with blobfs.ErrVisibilityNotSupported.
func (a *Adapter) SetVisibility(_ context.Context, p string, _ blobfs.Visibility) error {
	return blobfs.NewOperationError(blobfs.OpSetVisibility, p, blobfs.ErrVisibilityNotSupported)
}

// Visibility fails with blobfs.ErrVisibilityNotSupported.
func (a *Adapter) Visibility(_ context.Context, p string) (blobfs.StorageAttributes, error) {
	return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, p, blobfs.ErrVisibilityNotSupported)
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
	e, err := a.statFile(ctx, p)
	if err != nil {
		return blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpRetrieveMetadata, p, err)
	}
	return toAttributes(p, e), nil
}

func toAttributes(p string, e *_ftp.Entry) blobfs.StorageAttributes {
	var attrs blobfs.StorageAttributes
	if e.Type == _ftp.EntryTypeFolder {
		attrs = blobfs.DirectoryAttributes(p)
	} else {
		attrs = blobfs.FileAttributes(p)
		attrs.FileSize = utils.Ptr(int64(e.Size)) //nolint:gosec
	}
	if !e.Time.IsZero() {
		attrs.LastModified = utils.Ptr(e.Time)
	}
	return attrs
}

// ListContents lists path, descending into subdirectories when deep. Directories are yielded before their
// contents, links and files being written are left out, and a missing directory lists nothing.
//
// The listing of a directory is read in full before anything is yielded, so the control connection is free
// while the caller handles entries.
func (a *Adapter) ListContents(ctx context.Context, p string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		full, err := a.fullPath(p)
		if err != nil {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, p, err))
			return
		}
		if err := a.list(ctx, full, a.relative(full), deep, yield); err != nil && !errors.Is(err, errStopped) {
			yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, p, utils.WrapListError(err)))
		}
	}
}

var errStopped = errors.New("listing stopped")

func (a *Adapter) list(ctx context.Context, full, dir string, deep bool, yield func(blobfs.StorageAttributes, error) bool) error {
	var entries []*_ftp.Entry
	err := a.do(ctx, func(c types.Client) error {
		var err error
		entries, err = c.List(full)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		name := path.Base(e.Name)
		if name == "." || name == ".." || e.Type == _ftp.EntryTypeLink {
			continue
		}
		if matched, _ := path.Match(tempPattern, name); matched {
			continue
		}
		entryPath := joinPath(dir, name)
		if !yield(toAttributes(entryPath, e), nil) {
			return errStopped
		}
		if deep && e.Type == _ftp.EntryTypeFolder {
			if err := a.list(ctx, path.Join(full, name), entryPath, deep, yield); err != nil {
				return err
			}
		}
	}
	return nil
}

// Move renames source onto destination.
func (a *Adapter) Move(ctx context.Context, source, destination string, _ blobfs.Config) error {
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
	err = a.do(ctx, func(c types.Client) error {
		if err := a.mkdirs(c, path.Dir(dst)); err != nil {
			return err
		}
		return c.Rename(src, dst)
	})
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpMove, source, utils.WrapWriteError(err))
	}
	return nil
}

// Copy retrieves source over a second connection and stores it at destination.
func (a *Adapter) Copy(ctx context.Context, source, destination string, _ blobfs.Config) error {
	if source == destination {
		return nil
	}
	if _, err := a.statFile(ctx, source); err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, err)
	}
	src, _ := a.fullPath(source)
	dst, err := a.fullPath(destination)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, destination, err)
	}
	r, err := a.retrieve(ctx, src)
	if err != nil {
		return blobfs.NewOperationError(blobfs.OpCopy, source, mapError(err, utils.WrapCopyError))
	}
	defer func() { _ = r.Close() }()

	err = a.do(ctx, func(c types.Client) error {
		if err := a.mkdirs(c, path.Dir(dst)); err != nil {
			return err
		}
		return upload(c, dst, r)
	})
	if err != nil {
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

// isNotFound reports whether err is a 550 reply.
func isNotFound(err error) bool {
	var reply *textproto.Error
	if errors.As(err, &reply) {
		return reply.Code == _ftp.StatusFileUnavailable
	}
	return strings.HasPrefix(err.Error(), fmt.Sprintf("%d", _ftp.StatusFileUnavailable))
}

func mapError(err error, wrap func(error) error) error {
	if isNotFound(err) {
		return blobfs.ErrNotExist
	}
	return wrap(err)
}
