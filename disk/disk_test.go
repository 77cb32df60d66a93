package disk

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend/mem"
)

type DiskTestSuite struct {
	suite.Suite
	disk *Disk
}

func (s *DiskTestSuite) SetupTest() {
	s.disk = NewDisk("scratch", blobfs.New(mem.NewAdapter(), nil), blobfs.Config{OptionDriver: mem.DriverName})
}

func (s *DiskTestSuite) TestPutGetExists() {
	ctx := s.T().Context()

	missing, err := s.disk.Missing(ctx, "file.txt")
	s.Require().NoError(err)
	s.True(missing)

	s.Require().NoError(s.disk.Put(ctx, "file.txt", []byte("content"), nil))

	exists, err := s.disk.Exists(ctx, "file.txt")
	s.Require().NoError(err)
	s.True(exists)

	contents, err := s.disk.Get(ctx, "file.txt")
	s.Require().NoError(err)
	s.Equal("content", string(contents))

	size, err := s.disk.Size(ctx, "file.txt")
	s.Require().NoError(err)
	s.EqualValues(7, size)

	mimeType, err := s.disk.MimeType(ctx, "file.txt")
	s.Require().NoError(err)
	s.Contains(mimeType, "text/plain")
}

func (s *DiskTestSuite) TestPutStream() {
	ctx := s.T().Context()
	s.Require().NoError(s.disk.PutStream(ctx, "stream.txt", bytes.NewBufferString("streamed"), nil))

	r, err := s.disk.ReadStream(ctx, "stream.txt")
	s.Require().NoError(err)
	defer func() { _ = r.Close() }()
	contents, err := io.ReadAll(r)
	s.Require().NoError(err)
	s.Equal("streamed", string(contents))
}

func (s *DiskTestSuite) TestExistsForDirectory() {
	ctx := s.T().Context()
	s.Require().NoError(s.disk.Put(ctx, "dir/file.txt", []byte("x"), nil))

	exists, err := s.disk.Exists(ctx, "dir")
	s.Require().NoError(err)
	s.True(exists, "a directory holding files exists")
}

func (s *DiskTestSuite) TestDeleteMany() {
	ctx := s.T().Context()
	s.Require().NoError(s.disk.Put(ctx, "a.txt", []byte("a"), nil))
	s.Require().NoError(s.disk.Put(ctx, "b.txt", []byte("b"), nil))
	s.Require().NoError(s.disk.Put(ctx, "c.txt", []byte("c"), nil))

	s.Require().NoError(s.disk.Delete(ctx, "a.txt", "b.txt", "never-written.txt"))

	files, err := s.disk.Files(ctx, "")
	s.Require().NoError(err)
	s.Equal([]string{"c.txt"}, files)
}

func (s *DiskTestSuite) TestDeleteReportsEveryFailure() {
	err := s.disk.Delete(s.T().Context(), "../a.txt", "ok.txt", "../b.txt")
	s.Require().Error(err)
	s.ErrorIs(err, blobfs.ErrPathTraversal)
	s.Contains(err.Error(), "../a.txt")
	s.Contains(err.Error(), "../b.txt")
}

func (s *DiskTestSuite) TestCopyAndMove() {
	ctx := s.T().Context()
	s.Require().NoError(s.disk.Put(ctx, "file.txt", []byte("content"), nil))

	s.Require().NoError(s.disk.Copy(ctx, "file.txt", "file2.txt"))
	s.Require().NoError(s.disk.Move(ctx, "file2.txt", "file3.txt"))

	missing, err := s.disk.Missing(ctx, "file2.txt")
	s.Require().NoError(err)
	s.True(missing)

	contents, err := s.disk.Get(ctx, "file3.txt")
	s.Require().NoError(err)
	s.Equal("content", string(contents))

	contents, err = s.disk.Get(ctx, "file.txt")
	s.Require().NoError(err)
	s.Equal("content", string(contents), "copy leaves the source in place")
}

func (s *DiskTestSuite) TestListings() {
	ctx := s.T().Context()
	for _, p := range []string{"a.txt", "dir/b.txt", "dir/sub/c.txt"} {
		s.Require().NoError(s.disk.Put(ctx, p, []byte(p), nil))
	}

	files, err := s.disk.Files(ctx, "")
	s.Require().NoError(err)
	s.Equal([]string{"a.txt"}, files)

	files, err = s.disk.AllFiles(ctx, "")
	s.Require().NoError(err)
	s.Equal([]string{"a.txt", "dir/b.txt", "dir/sub/c.txt"}, files)

	files, err = s.disk.Files(ctx, "dir")
	s.Require().NoError(err)
	s.Equal([]string{"dir/b.txt"}, files)

	dirs, err := s.disk.Directories(ctx, "")
	s.Require().NoError(err)
	s.Equal([]string{"dir"}, dirs)

	dirs, err = s.disk.AllDirectories(ctx, "")
	s.Require().NoError(err)
	s.Equal([]string{"dir", "dir/sub"}, dirs)

	empty, err := s.disk.Files(ctx, "nowhere")
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *DiskTestSuite) TestMakeAndDeleteDirectory() {
	ctx := s.T().Context()
	s.Require().NoError(s.disk.MakeDirectory(ctx, "made/here"))

	dirs, err := s.disk.AllDirectories(ctx, "")
	s.Require().NoError(err)
	s.Equal([]string{"made", "made/here"}, dirs)

	s.Require().NoError(s.disk.Put(ctx, "made/here/file.txt", []byte("x"), nil))
	s.Require().NoError(s.disk.DeleteDirectory(ctx, "made"))

	exists, err := s.disk.Exists(ctx, "made/here/file.txt")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *DiskTestSuite) TestVisibility() {
	ctx := s.T().Context()
	s.Require().NoError(s.disk.Put(ctx, "file.txt", []byte("x"), blobfs.Config{blobfs.OptionVisibility: blobfs.Private}))

	visibility, err := s.disk.Visibility(ctx, "file.txt")
	s.Require().NoError(err)
	s.Equal(blobfs.Private, visibility)

	s.Require().NoError(s.disk.SetVisibility(ctx, "file.txt", blobfs.Public))
	visibility, err = s.disk.Visibility(ctx, "file.txt")
	s.Require().NoError(err)
	s.Equal(blobfs.Public, visibility)
}

func (s *DiskTestSuite) TestChecksumAndLastModified() {
	ctx := s.T().Context()
	before := time.Now().Add(-time.Second)
	s.Require().NoError(s.disk.Put(ctx, "file.txt", []byte("content"), nil))

	sum, err := s.disk.Checksum(ctx, "file.txt", nil)
	s.Require().NoError(err)
	expected, err := blobfs.ChecksumOf([]byte("content"), "md5")
	s.Require().NoError(err)
	s.Equal(expected, sum)

	modified, err := s.disk.LastModified(ctx, "file.txt")
	s.Require().NoError(err)
	s.True(modified.After(before))
}

func (s *DiskTestSuite) TestURL() {
	ctx := s.T().Context()

	_, err := s.disk.URL(ctx, "file.txt")
	s.ErrorIs(err, blobfs.ErrUnsupported, "the memory adapter cannot generate public URLs")

	d := NewDisk("cdn", s.disk.Filesystem(), blobfs.Config{OptionURL: "https://cdn.example.com/assets/"})
	url, err := d.URL(ctx, "/images//logo.png")
	s.Require().NoError(err)
	s.Equal("https://cdn.example.com/assets/images/logo.png", url)

	_, err = d.URL(ctx, "../secret")
	s.ErrorIs(err, blobfs.ErrPathTraversal)
}

func (s *DiskTestSuite) TestTemporaryURLs() {
	ctx := s.T().Context()
	s.False(s.disk.ProvidesTemporaryURLs())

	_, err := s.disk.TemporaryURL(ctx, "file.txt", time.Now().Add(time.Minute), nil)
	s.ErrorIs(err, blobfs.ErrUnsupported)

	_, err = s.disk.TemporaryUploadURL(ctx, "file.txt", time.Now().Add(time.Minute), nil)
	s.ErrorIs(err, blobfs.ErrUnsupported)
}

func (s *DiskTestSuite) TestAccessors() {
	s.Equal("scratch", s.disk.Name())
	s.Equal(mem.DriverName, s.disk.Config().String(OptionDriver, ""))
	s.NotNil(s.disk.Filesystem())
}

func TestDiskTestSuite(t *testing.T) {
	suite.Run(t, new(DiskTestSuite))
}
