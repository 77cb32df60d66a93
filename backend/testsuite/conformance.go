package testsuite

import (
	"context"
	"crypto/md5" //nolint:gosec
	"encoding/hex"
	"io"
	"path"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c2fo/blobfs"
)

// ConformanceOptions configures conformance test behavior
type ConformanceOptions struct {
	// BasePath is the directory every scenario works below. Defaults to "blobfs-conformance".
	BasePath string

	// SupportsVisibility is set for adapters storing a per-file visibility.
	SupportsVisibility bool

	// VisibilityNotSupported is set for adapters configured to reject visibility changes with
	// blobfs.ErrVisibilityNotSupported. Adapters silently ignoring visibility set neither flag.
	VisibilityNotSupported bool

	// SkipVisibility skips the visibility scenario, e.g. for emulators without access control lists.
	SkipVisibility bool

	// SupportsDirectories is set for adapters able to hold empty directories.
	SupportsDirectories bool

	// ClockSkew is the tolerance applied when comparing the store's last modified times with the local clock.
	// Defaults to five minutes.
	ClockSkew time.Duration
}

type scenario struct {
	t       *testing.T
	fs      *blobfs.Filesystem
	adapter blobfs.Adapter
	dir     string
	opts    ConformanceOptions
}

func (s *scenario) path(name string) string {
	return path.Join(s.dir, name)
}

func (s *scenario) write(name, contents string) {
	s.t.Helper()
	require.NoError(s.t, s.fs.Write(s.t.Context(), s.path(name), []byte(contents), nil), "writing %s", name)
}

func (s *scenario) read(name string) string {
	s.t.Helper()
	contents, err := s.fs.Read(s.t.Context(), s.path(name))
	require.NoError(s.t, err, "reading %s", name)
	return string(contents)
}

func (s *scenario) fileExists(name string) bool {
	s.t.Helper()
	exists, err := s.fs.FileExists(s.t.Context(), s.path(name))
	require.NoError(s.t, err)
	return exists
}

func (s *scenario) directoryExists(name string) bool {
	s.t.Helper()
	exists, err := s.fs.DirectoryExists(s.t.Context(), s.path(name))
	require.NoError(s.t, err)
	return exists
}

func (s *scenario) list(name string, deep bool) []blobfs.StorageAttributes {
	s.t.Helper()
	entries, err := blobfs.Collect(s.fs.ListContents(s.t.Context(), s.path(name), deep))
	require.NoError(s.t, err)
	return entries
}

// RunConformanceTests runs all conformance tests against the provided adapter.
// This is the main entry point for adapter conformance testing.
func RunConformanceTests(t *testing.T, adapter blobfs.Adapter, opts ...ConformanceOptions) {
	t.Helper()
	opt := ConformanceOptions{}
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.BasePath == "" {
		opt.BasePath = "blobfs-conformance"
	}
	if opt.ClockSkew == 0 {
		opt.ClockSkew = 5 * time.Minute
	}

	fs := blobfs.New(adapter, nil)
	scenarios := []struct {
		name string
		run  func(*scenario)
	}{
		{"WritingAndReadingAFile", writingAndReadingAFile},
		{"OverwritingAFile", overwritingAFile},
		{"WritingAndReadingStreams", writingAndReadingStreams},
		{"ReadingAFileThatDoesNotExist", readingAFileThatDoesNotExist},
		{"DeletingAFile", deletingAFile},
		{"FileExistsOnDirectoryIsFalse", fileExistsOnDirectoryIsFalse},
		{"CopyingAFile", copyingAFile},
		{"MovingAFile", movingAFile},
		{"CopyingAndMovingOntoItself", copyingAndMovingOntoItself},
		{"ListingContentsShallow", listingContentsShallow},
		{"ListingContentsDeep", listingContentsDeep},
		{"DeletingADirectory", deletingADirectory},
		{"FetchingMetadata", fetchingMetadata},
		{"Visibility", visibility},
		{"Checksum", checksum},
		{"PublicURL", publicURL},
		{"TemporaryURL", temporaryURL},
		{"CreatingADirectory", creatingADirectory},
		{"FileNamesWithSpecialCharacters", fileNamesWithSpecialCharacters},
	}

	for _, sc := range scenarios {
		t.Run(sc.name, func(t *testing.T) {
			s := &scenario{t: t, fs: fs, adapter: adapter, dir: path.Join(opt.BasePath, sc.name), opts: opt}
			t.Cleanup(func() {
				if err := fs.DeleteDirectory(context.Background(), s.dir); err != nil {
					t.Logf("warning: error cleaning up %s: %v", s.dir, err)
				}
			})
			sc.run(s)
		})
	}
}

func writingAndReadingAFile(s *scenario) {
	s.write("path.txt", "contents")
	assert.True(s.t, s.fileExists("path.txt"))
	assert.Equal(s.t, "contents", s.read("path.txt"))
}

func overwritingAFile(s *scenario) {
	s.write("path.txt", "contents")
	s.write("path.txt", "new contents")
	assert.Equal(s.t, "new contents", s.read("path.txt"))
}

func writingAndReadingStreams(s *scenario) {
	contents := strings.Repeat("streamed ", 4096)
	require.NoError(s.t, s.fs.WriteStream(s.t.Context(), s.path("stream.txt"), strings.NewReader(contents), nil))

	r, err := s.fs.ReadStream(s.t.Context(), s.path("stream.txt"))
	require.NoError(s.t, err)
	defer func() { _ = r.Close() }()

	read, err := io.ReadAll(r)
	require.NoError(s.t, err)
	assert.Equal(s.t, contents, string(read))

	require.NoError(s.t, s.fs.WriteStream(s.t.Context(), s.path("empty.txt"), strings.NewReader(""), nil))
	assert.True(s.t, s.fileExists("empty.txt"), "an empty stream still creates a file")
}

func readingAFileThatDoesNotExist(s *scenario) {
	_, err := s.fs.Read(s.t.Context(), s.path("missing.txt"))
	require.Error(s.t, err)
	assert.ErrorIs(s.t, err, blobfs.ErrNotExist)
	assert.True(s.t, blobfs.IsOperation(err, blobfs.OpRead))

	_, err = s.fs.ReadStream(s.t.Context(), s.path("missing.txt"))
	assert.ErrorIs(s.t, err, blobfs.ErrNotExist)
}

func deletingAFile(s *scenario) {
	s.write("path.txt", "contents")
	require.NoError(s.t, s.fs.Delete(s.t.Context(), s.path("path.txt")))
	assert.False(s.t, s.fileExists("path.txt"))

	assert.NoError(s.t, s.fs.Delete(s.t.Context(), s.path("missing.txt")), "deleting a missing file is not an error")
}

func fileExistsOnDirectoryIsFalse(s *scenario) {
	assert.False(s.t, s.directoryExists("test"))

	s.write("test/file.txt", "")

	assert.True(s.t, s.directoryExists("test"))
	assert.False(s.t, s.fileExists("test"))
	assert.False(s.t, s.directoryExists("test/file.txt"))
}

func copyingAFile(s *scenario) {
	s.write("source.txt", "contents to be copied")

	require.NoError(s.t, s.fs.Copy(s.t.Context(), s.path("source.txt"), s.path("destination.txt"), nil))

	assert.True(s.t, s.fileExists("source.txt"))
	assert.True(s.t, s.fileExists("destination.txt"))
	assert.Equal(s.t, "contents to be copied", s.read("destination.txt"))

	s.write("source.txt", "changed")
	assert.Equal(s.t, "contents to be copied", s.read("destination.txt"), "a copy is independent of its source")
}

func movingAFile(s *scenario) {
	s.write("source.txt", "contents to be moved")

	require.NoError(s.t, s.fs.Move(s.t.Context(), s.path("source.txt"), s.path("nested/destination.txt"), nil))

	assert.False(s.t, s.fileExists("source.txt"), "After moving a file should no longer exist in the original location.")
	assert.True(s.t, s.fileExists("nested/destination.txt"), "After moving, a file should be present at the new location.")
	assert.Equal(s.t, "contents to be moved", s.read("nested/destination.txt"))
}

// copyingAndMovingOntoItself calls the adapter directly, below the Filesystem's own same-path check.
func copyingAndMovingOntoItself(s *scenario) {
	ctx := s.t.Context()
	s.write("self.txt", "kept")

	require.NoError(s.t, s.adapter.Copy(ctx, s.path("self.txt"), s.path("self.txt"), nil))
	assert.Equal(s.t, "kept", s.read("self.txt"), "copying a file onto itself leaves it untouched")

	require.NoError(s.t, s.adapter.Move(ctx, s.path("self.txt"), s.path("self.txt"), nil))
	assert.True(s.t, s.fileExists("self.txt"), "moving a file onto itself must not delete it")
	assert.Equal(s.t, "kept", s.read("self.txt"))
}

func listingContentsShallow(s *scenario) {
	s.write("a.txt", "a")
	s.write("dir/b.txt", "b")

	entries := s.list("", false)
	require.Len(s.t, entries, 2)

	byPath := map[string]blobfs.StorageAttributes{}
	for _, e := range entries {
		byPath[e.Path] = e
	}
	assert.True(s.t, byPath[s.path("a.txt")].IsFile())
	assert.True(s.t, byPath[s.path("dir")].IsDir())
}

func listingContentsDeep(s *scenario) {
	s.write("dir1/file1.txt", "content1")
	s.write("dir1/dir2/file2.txt", "content2")
	s.write("dir1/dir2/dir3/file3.txt", "content3")

	entries := s.list("", true)
	require.Len(s.t, entries, 6, "3 files + 3 directories")

	var files, dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Path)
		} else {
			files = append(files, e.Path)
		}
	}
	assert.ElementsMatch(s.t, []string{s.path("dir1"), s.path("dir1/dir2"), s.path("dir1/dir2/dir3")}, dirs)
	assert.ElementsMatch(s.t, []string{
		s.path("dir1/file1.txt"),
		s.path("dir1/dir2/file2.txt"),
		s.path("dir1/dir2/dir3/file3.txt"),
	}, files)

	for _, e := range entries {
		if e.IsFile() {
			require.NotNil(s.t, e.FileSize, e.Path)
			assert.EqualValues(s.t, 8, *e.FileSize, e.Path)
		}
	}
}

func deletingADirectory(s *scenario) {
	s.write("dir/file.txt", "contents")
	s.write("dir/nested/file.txt", "contents")
	s.write("other.txt", "contents")

	require.NoError(s.t, s.fs.DeleteDirectory(s.t.Context(), s.path("dir")))

	assert.False(s.t, s.directoryExists("dir"))
	assert.False(s.t, s.fileExists("dir/file.txt"))
	assert.False(s.t, s.fileExists("dir/nested/file.txt"))
	assert.True(s.t, s.fileExists("other.txt"), "siblings survive")
}

func fetchingMetadata(s *scenario) {
	before := time.Now().Add(-s.opts.ClockSkew)
	s.write("file.txt", "contents")

	size, err := s.fs.FileSize(s.t.Context(), s.path("file.txt"))
	require.NoError(s.t, err)
	assert.EqualValues(s.t, len("contents"), size)

	modified, err := s.fs.LastModified(s.t.Context(), s.path("file.txt"))
	require.NoError(s.t, err)
	assert.True(s.t, modified.After(before), "last modified %s is too old", modified)
	assert.True(s.t, modified.Before(time.Now().Add(s.opts.ClockSkew)), "last modified %s is in the future", modified)

	mimeType, err := s.fs.MimeType(s.t.Context(), s.path("file.txt"))
	require.NoError(s.t, err)
	assert.Equal(s.t, "text/plain", mimeType)

	_, err = s.fs.FileSize(s.t.Context(), s.path("missing.txt"))
	assert.ErrorIs(s.t, err, blobfs.ErrNotExist)
}

func visibility(s *scenario) {
	if s.opts.SkipVisibility {
		s.t.Skip("visibility is not exercised for this store")
	}
	s.write("file.txt", "contents")
	ctx := s.t.Context()

	switch {
	case s.opts.SupportsVisibility:
		require.NoError(s.t, s.fs.Write(ctx, s.path("private.txt"), []byte("x"), blobfs.Config{blobfs.OptionVisibility: blobfs.Private}))
		v, err := s.fs.Visibility(ctx, s.path("private.txt"))
		require.NoError(s.t, err)
		assert.Equal(s.t, blobfs.Private, v)

		require.NoError(s.t, s.fs.SetVisibility(ctx, s.path("private.txt"), blobfs.Public))
		v, err = s.fs.Visibility(ctx, s.path("private.txt"))
		require.NoError(s.t, err)
		assert.Equal(s.t, blobfs.Public, v)

		err = s.fs.SetVisibility(ctx, s.path("missing.txt"), blobfs.Public)
		assert.Error(s.t, err, "setting visibility on a missing file fails")
	case s.opts.VisibilityNotSupported:
		err := s.fs.SetVisibility(ctx, s.path("file.txt"), blobfs.Public)
		assert.ErrorIs(s.t, err, blobfs.ErrVisibilityNotSupported)
		assert.True(s.t, blobfs.IsOperation(err, blobfs.OpSetVisibility))
	default:
		assert.NoError(s.t, s.fs.SetVisibility(ctx, s.path("file.txt"), blobfs.Public))
	}
}

func checksum(s *scenario) {
	s.write("file.txt", "checksum contents")

	sum, err := s.fs.Checksum(s.t.Context(), s.path("file.txt"), nil)
	require.NoError(s.t, err)

	expected := md5.Sum([]byte("checksum contents")) //nolint:gosec
	assert.Equal(s.t, hex.EncodeToString(expected[:]), sum)
}

func publicURL(s *scenario) {
	if !blobfs.Implements[blobfs.PublicURLGenerator](s.fs.Adapter()) {
		s.t.Skip("adapter does not generate public urls")
	}
	s.write("file.txt", "contents")

	u, err := s.fs.PublicURL(s.t.Context(), s.path("file.txt"), nil)
	require.NoError(s.t, err)
	assert.Contains(s.t, u, "file.txt")
}

func temporaryURL(s *scenario) {
	if !blobfs.Implements[blobfs.TemporaryURLGenerator](s.fs.Adapter()) {
		s.t.Skip("adapter does not generate temporary urls")
	}
	s.write("file.txt", "contents")

	u, err := s.fs.TemporaryURL(s.t.Context(), s.path("file.txt"), time.Now().Add(time.Minute), nil)
	require.NoError(s.t, err)
	assert.Contains(s.t, u, "file.txt")

	_, err = s.fs.TemporaryURL(s.t.Context(), s.path("file.txt"), time.Now().Add(-time.Minute), nil)
	assert.ErrorIs(s.t, err, blobfs.ErrExpiryInPast)
}

func creatingADirectory(s *scenario) {
	require.NoError(s.t, s.fs.CreateDirectory(s.t.Context(), s.path("created"), nil))
	if !s.opts.SupportsDirectories {
		return
	}

	assert.True(s.t, s.directoryExists("created"))
	entries := s.list("", false)
	require.Len(s.t, entries, 1)
	assert.True(s.t, entries[0].IsDir())
	assert.Equal(s.t, s.path("created"), entries[0].Path)
}

func fileNamesWithSpecialCharacters(s *scenario) {
	for _, name := range []string{"with space.txt", "some dir/with+plus.txt", "ümlaut-ß.txt", "percent%20.txt"} {
		s.write(name, name)
		assert.True(s.t, s.fileExists(name), name)
		assert.Equal(s.t, name, s.read(name))
	}
}
