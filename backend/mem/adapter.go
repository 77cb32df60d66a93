package mem

import (
	"bytes"
	"context"
	"io"
	"iter"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/options"
	"github.com/c2fo/blobfs/utils"
)

// DriverName is the name the adapter registers under in the backend registry.
const DriverName = "memory"

type memFile struct {
	contents     []byte
	visibility   blobfs.Visibility
	lastModified time.Time
	mimeType     string
}

type memDirectory struct {
	visibility   blobfs.Visibility
	lastModified time.Time
}

// Adapter implements blobfs.Adapter in memory. It is safe for concurrent use.
type Adapter struct {
	mu                sync.RWMutex
	files             map[string]*memFile
	dirs              map[string]*memDirectory
	defaultVisibility blobfs.Visibility
	now               func() time.Time
}

// NewAdapter initializer for Adapter struct.
func NewAdapter(opts ...options.NewAdapterOption[Adapter]) *Adapter {
	a := &Adapter{
		files:             map[string]*memFile{},
		dirs:              map[string]*memDirectory{},
		defaultVisibility: blobfs.Public,
		now:               time.Now,
	}
	options.ApplyOptions(a, opts...)
	return a
}

// FileExists reports whether a file is stored at path.
func (a *Adapter) FileExists(_ context.Context, path string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.files[path]
	return ok, nil
}

// DirectoryExists reports whether path was created as a directory or holds at least one file.
func (a *Adapter) DirectoryExists(_ context.Context, path string) (bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if _, ok := a.dirs[path]; ok {
		return true, nil
	}
	prefix := blobfs.EnsureTrailingSlash(path)
	for key := range a.files {
		if strings.HasPrefix(key, prefix) {
			return true, nil
		}
	}
	for key := range a.dirs {
		if strings.HasPrefix(key, prefix) {
			return true, nil
		}
	}
	return false, nil
}

// Write stores a copy of contents at path.
func (a *Adapter) Write(_ context.Context, path string, contents []byte, cfg blobfs.Config) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.put(path, bytes.Clone(contents), cfg)
	return nil
}

// WriteStream stores everything read from r at path.
func (a *Adapter) WriteStream(_ context.Context, path string, r io.Reader, cfg blobfs.Config) error {
	buf := &bytes.Buffer{}
	if _, err := utils.TouchCopyBuffered(buf, r, 0); err != nil {
		return blobfs.NewOperationError(blobfs.OpWrite, path, utils.WrapReadError(err))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.put(path, buf.Bytes(), cfg)
	return nil
}

// put requires the write lock.
func (a *Adapter) put(path string, contents []byte, cfg blobfs.Config) {
	visibility := blobfs.Visibility(cfg.String(blobfs.OptionVisibility, ""))
	if existing, ok := a.files[path]; ok && visibility == "" {
		visibility = existing.visibility
	}
	if visibility == "" {
		visibility = a.defaultVisibility
	}
	a.files[path] = &memFile{
		contents:     contents,
		visibility:   visibility,
		lastModified: a.now(),
		mimeType:     utils.DetectMimeType(path, contents, cfg),
	}
}

// Read returns a copy of the contents stored at path.
func (a *Adapter) Read(_ context.Context, path string) ([]byte, error) {
	f, err := a.file(blobfs.OpRead, path)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(f.contents), nil
}

// ReadStream returns a reader over a copy of the contents stored at path.
func (a *Adapter) ReadStream(ctx context.Context, path string) (io.ReadCloser, error) {
	contents, err := a.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(contents)), nil
}

// Delete removes the file at path.
func (a *Adapter) Delete(_ context.Context, path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.files, path)
	return nil
}

// DeleteDirectory removes path and everything below it. An empty path clears the adapter.
func (a *Adapter) DeleteDirectory(_ context.Context, path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	prefix := blobfs.EnsureTrailingSlash(path)
	maps.DeleteFunc(a.files, func(key string, _ *memFile) bool { return strings.HasPrefix(key, prefix) })
	maps.DeleteFunc(a.dirs, func(key string, _ *memDirectory) bool {
		return key == path || strings.HasPrefix(key, prefix)
	})
	return nil
}

// CreateDirectory records path and its parents as directories.
func (a *Adapter) CreateDirectory(_ context.Context, path string, cfg blobfs.Config) error {
	if path == "" {
		return nil
	}
	visibility := blobfs.Visibility(cfg.String(blobfs.OptionDirectoryVisibility, cfg.String(blobfs.OptionVisibility, "")))
	if visibility == "" {
		visibility = a.defaultVisibility
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.files[path]; ok {
		return blobfs.NewOperationError(blobfs.OpCreateDirectory, path, errFileInTheWay)
	}
	for _, dir := range append(blobfs.ParentDirectories(path), path) {
		if _, ok := a.dirs[dir]; !ok {
			a.dirs[dir] = &memDirectory{visibility: visibility, lastModified: a.now()}
		}
	}
	return nil
}

// SetVisibility changes the visibility of the file or directory at path.
func (a *Adapter) SetVisibility(_ context.Context, path string, visibility blobfs.Visibility) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if f, ok := a.files[path]; ok {
		f.visibility = visibility
		return nil
	}
	if d, ok := a.dirs[path]; ok {
		d.visibility = visibility
		return nil
	}
	return blobfs.NewOperationError(blobfs.OpSetVisibility, path, blobfs.ErrNotExist)
}

// Visibility returns the attributes of path holding its visibility.
func (a *Adapter) Visibility(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(path)
}

// MimeType returns the attributes of path holding its mime type.
func (a *Adapter) MimeType(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(path)
}

// LastModified returns the attributes of path holding its last modified time.
func (a *Adapter) LastModified(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(path)
}

// FileSize returns the attributes of path holding its size.
func (a *Adapter) FileSize(_ context.Context, path string) (blobfs.StorageAttributes, error) {
	return a.attributes(path)
}

func (a *Adapter) attributes(path string) (blobfs.StorageAttributes, error) {
	f, err := a.file(blobfs.OpRetrieveMetadata, path)
	if err != nil {
		return blobfs.StorageAttributes{}, err
	}
	return fileAttributes(path, f), nil
}

// ListContents yields a snapshot of the entries under path taken when iteration starts.
func (a *Adapter) ListContents(ctx context.Context, path string, deep bool) iter.Seq2[blobfs.StorageAttributes, error] {
	return func(yield func(blobfs.StorageAttributes, error) bool) {
		for _, entry := range a.snapshot(path, deep) {
			if err := ctx.Err(); err != nil {
				yield(blobfs.StorageAttributes{}, blobfs.NewOperationError(blobfs.OpListContents, path, err))
				return
			}
			if !yield(entry, nil) {
				return
			}
		}
	}
}

func (a *Adapter) snapshot(path string, deep bool) []blobfs.StorageAttributes {
	a.mu.RLock()
	defer a.mu.RUnlock()

	prefix := blobfs.EnsureTrailingSlash(path)
	entries := map[string]blobfs.StorageAttributes{}
	addDir := func(dir string) {
		if _, ok := entries[dir]; ok {
			return
		}
		attrs := blobfs.DirectoryAttributes(dir)
		if d, ok := a.dirs[dir]; ok {
			attrs.Visibility = d.visibility
			attrs.LastModified = utils.Ptr(d.lastModified)
		}
		entries[dir] = attrs
	}
	// addBelow records the entry at key along with the directories between it and path.
	addBelow := func(key string, file bool) {
		rel := strings.TrimPrefix(key, prefix)
		segments := strings.Split(rel, "/")
		if !deep && len(segments) > 1 {
			addDir(prefix + segments[0])
			return
		}
		for i := 1; i < len(segments); i++ {
			addDir(prefix + strings.Join(segments[:i], "/"))
		}
		if file {
			entries[key] = fileAttributes(key, a.files[key])
		} else {
			addDir(key)
		}
	}

	for key := range a.files {
		if strings.HasPrefix(key, prefix) {
			addBelow(key, true)
		}
	}
	for key := range a.dirs {
		if strings.HasPrefix(key, prefix) {
			addBelow(key, false)
		}
	}

	keys := slices.Sorted(maps.Keys(entries))
	out := make([]blobfs.StorageAttributes, 0, len(keys))
	for _, key := range keys {
		out = append(out, entries[key])
	}
	return out
}

// Move relocates the file at source to destination in one step. Moving a file onto itself is a no-op.
func (a *Adapter) Move(_ context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.files[source]
	if !ok {
		return blobfs.NewOperationError(blobfs.OpMove, source, blobfs.ErrNotExist)
	}
	a.files[destination] = a.duplicate(f, cfg)
	delete(a.files, source)
	return nil
}

// Copy duplicates the file at source to destination. Copying a file onto itself is a no-op.
func (a *Adapter) Copy(_ context.Context, source, destination string, cfg blobfs.Config) error {
	if source == destination {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	f, ok := a.files[source]
	if !ok {
		return blobfs.NewOperationError(blobfs.OpCopy, source, blobfs.ErrNotExist)
	}
	a.files[destination] = a.duplicate(f, cfg)
	return nil
}

func (a *Adapter) duplicate(f *memFile, cfg blobfs.Config) *memFile {
	cp := *f
	cp.contents = bytes.Clone(f.contents)
	cp.lastModified = a.now()
	if v := cfg.String(blobfs.OptionVisibility, ""); v != "" {
		cp.visibility = blobfs.Visibility(v)
	}
	return &cp
}

// Checksum returns the hex encoded checksum of the file at path using the checksum_algo of cfg.
func (a *Adapter) Checksum(_ context.Context, path string, cfg blobfs.Config) (string, error) {
	f, err := a.file(blobfs.OpProvideChecksum, path)
	if err != nil {
		return "", err
	}
	sum, err := blobfs.ChecksumOf(f.contents, cfg.String(blobfs.OptionChecksumAlgo, "md5"))
	if err != nil {
		return "", blobfs.NewOperationError(blobfs.OpProvideChecksum, path, err)
	}
	return sum, nil
}

func (a *Adapter) file(op blobfs.Operation, path string) (*memFile, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	f, ok := a.files[path]
	if !ok {
		return nil, blobfs.NewOperationError(op, path, blobfs.ErrNotExist)
	}
	cp := *f
	return &cp, nil
}

func fileAttributes(path string, f *memFile) blobfs.StorageAttributes {
	attrs := blobfs.FileAttributes(path)
	attrs.FileSize = utils.Ptr(int64(len(f.contents)))
	attrs.Visibility = f.visibility
	attrs.LastModified = utils.Ptr(f.lastModified)
	attrs.MimeType = f.mimeType
	return attrs
}

const errFileInTheWay = blobfs.Error("a file already exists at the directory path")

func init() {
	backend.Register(DriverName, func(cfg blobfs.Config) (blobfs.Adapter, error) {
		var opts []options.NewAdapterOption[Adapter]
		if v := cfg.String(blobfs.OptionVisibility, ""); v != "" {
			visibility, err := blobfs.ParseVisibility(v)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithDefaultVisibility(visibility))
		}
		return NewAdapter(opts...), nil
	})
}
