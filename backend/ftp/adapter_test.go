package ftp

import (
	"context"
	"errors"
	"io"
	"net/textproto"
	"strings"
	"testing"
	"time"

	_ftp "github.com/jlaffaye/ftp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/backend/ftp/mocks"
	"github.com/c2fo/blobfs/backend/ftp/types"
)

var errUnavailable = &textproto.Error{Code: _ftp.StatusFileUnavailable, Msg: "No such file or directory."}

func file(name string, size uint64) *_ftp.Entry {
	return &_ftp.Entry{Name: name, Type: _ftp.EntryTypeFile, Size: size, Time: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func folder(name string) *_ftp.Entry {
	return &_ftp.Entry{Name: name, Type: _ftp.EntryTypeFolder}
}

func isTemp(p string) bool {
	return strings.HasPrefix(p, "/upload/") && strings.Contains(p, "/.blobfs-") && strings.HasSuffix(p, ".tmp")
}

type AdapterTestSuite struct {
	suite.Suite
	client  *mocks.Client
	dialed  []types.Client
	adapter *Adapter
}

func (s *AdapterTestSuite) SetupTest() {
	s.client = mocks.NewClient(s.T())
	s.client.EXPECT().IsTimePreciseInList().Return(false).Maybe()
	s.dialed = nil
	s.adapter = NewAdapter(
		WithOptions(Options{Host: "ftp.example.com", Root: "/upload", PublicURLBase: "https://files.example.com/"}),
		WithClient(s.client),
		WithConnector(s.connect),
	)
}

// connect hands out the connections queued with s.dial.
func (s *AdapterTestSuite) connect(context.Context) (types.Client, error) {
	if len(s.dialed) == 0 {
		return nil, errors.New("no connection queued")
	}
	c := s.dialed[0]
	s.dialed = s.dialed[1:]
	return c, nil
}

func (s *AdapterTestSuite) dial() *mocks.Client {
	c := mocks.NewClient(s.T())
	c.EXPECT().IsTimePreciseInList().Return(false).Maybe()
	s.dialed = append(s.dialed, c)
	return c
}

func (s *AdapterTestSuite) TestFileExists_ListsTheParent() {
	ctx := s.T().Context()
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a.txt", 5), folder("dir")}, nil)

	exists, err := s.adapter.FileExists(ctx, "a.txt")
	s.NoError(err)
	s.True(exists)

	exists, err = s.adapter.FileExists(ctx, "dir")
	s.NoError(err)
	s.False(exists)

	exists, err = s.adapter.DirectoryExists(ctx, "dir")
	s.NoError(err)
	s.True(exists)

	exists, err = s.adapter.FileExists(ctx, "missing.txt")
	s.NoError(err)
	s.False(exists)
}

func (s *AdapterTestSuite) TestFileExists_MLST() {
	client := mocks.NewClient(s.T())
	client.EXPECT().IsTimePreciseInList().Return(true)
	client.EXPECT().GetEntry("/upload/a.txt").Return(file("a.txt", 5), nil)
	client.EXPECT().GetEntry("/upload/b.txt").Return(nil, errUnavailable)
	adapter := NewAdapter(WithRoot("/upload"), WithClient(client))

	exists, err := adapter.FileExists(s.T().Context(), "a.txt")
	s.NoError(err)
	s.True(exists)

	exists, err = adapter.FileExists(s.T().Context(), "b.txt")
	s.NoError(err)
	s.False(exists)
}

func (s *AdapterTestSuite) TestWrite_UploadsThenRenames() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{folder("sub")}, nil)

	var tmp, stored string
	s.client.EXPECT().Stor(mock.MatchedBy(isTemp), mock.Anything).RunAndReturn(func(p string, r io.Reader) error {
		tmp = p
		b, err := io.ReadAll(r)
		stored = string(b)
		return err
	})
	s.client.EXPECT().Rename(mock.MatchedBy(isTemp), "/upload/sub/a.txt").Return(nil)

	s.Require().NoError(s.adapter.Write(s.T().Context(), "sub/a.txt", []byte("hello"), nil))
	s.Equal("hello", stored)
	s.True(strings.HasPrefix(tmp, "/upload/sub/.blobfs-"))
}

func (s *AdapterTestSuite) TestWrite_FailedRenameKeepsTheOldFile() {
	s.client.EXPECT().List("/").Return([]*_ftp.Entry{folder("upload")}, nil)
	s.client.EXPECT().Stor(mock.MatchedBy(isTemp), mock.Anything).Return(nil)
	s.client.EXPECT().Rename(mock.MatchedBy(isTemp), "/upload/a.txt").Return(&textproto.Error{Code: 553, Msg: "Could not rename."})
	s.client.EXPECT().Delete(mock.MatchedBy(isTemp)).Return(nil).Once()

	err := s.adapter.Write(s.T().Context(), "a.txt", []byte("new"), nil)
	s.Error(err)
	s.True(blobfs.IsOperation(err, blobfs.OpWrite))
	// the mock fails the test on a Delete of /upload/a.txt
}

func (s *AdapterTestSuite) TestWrite_CreatesMissingParents() {
	s.client.EXPECT().List("/upload/a").Return(nil, errUnavailable)
	s.client.EXPECT().MakeDir("/upload").Return(&textproto.Error{Code: 550, Msg: "Create directory operation failed."})
	s.client.EXPECT().List("/").Return([]*_ftp.Entry{folder("upload")}, nil)
	s.client.EXPECT().MakeDir("/upload/a").Return(nil)
	s.client.EXPECT().MakeDir("/upload/a/b").Return(nil)
	s.client.EXPECT().Stor(mock.MatchedBy(isTemp), mock.Anything).Return(nil)
	s.client.EXPECT().Rename(mock.MatchedBy(isTemp), "/upload/a/b/c.txt").Return(nil)

	s.NoError(s.adapter.Write(s.T().Context(), "a/b/c.txt", []byte("x"), nil))
}

func (s *AdapterTestSuite) TestWrite_ParentIsAFile() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a", 1)}, nil)

	err := s.adapter.Write(s.T().Context(), "a/b.txt", []byte("x"), nil)
	s.ErrorContains(err, "not a directory")
}

func (s *AdapterTestSuite) TestReadStream_UsesAConnectionOfItsOwn() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a.txt", 5)}, nil)
	transfer := s.dial()
	transfer.EXPECT().Retr("/upload/a.txt").Return(io.NopCloser(strings.NewReader("hello")), nil)
	transfer.EXPECT().Quit().Return(nil).Once()

	r, err := s.adapter.ReadStream(s.T().Context(), "a.txt")
	s.Require().NoError(err)

	// the control connection stays usable while the stream is open
	exists, err := s.adapter.FileExists(s.T().Context(), "a.txt")
	s.NoError(err)
	s.True(exists)

	b, err := io.ReadAll(r)
	s.NoError(err)
	s.Equal("hello", string(b))
	s.NoError(r.Close())
}

func (s *AdapterTestSuite) TestRead_Missing() {
	s.client.EXPECT().List("/upload").Return(nil, nil)

	_, err := s.adapter.Read(s.T().Context(), "missing.txt")
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpRead))
}

func (s *AdapterTestSuite) TestVisibilityIsNotSupported() {
	ctx := s.T().Context()
	err := s.adapter.SetVisibility(ctx, "a.txt", blobfs.Public)
	s.ErrorIs(err, blobfs.ErrVisibilityNotSupported)
	s.True(blobfs.IsOperation(err, blobfs.OpSetVisibility))

	_, err = s.adapter.Visibility(ctx, "a.txt")
	s.ErrorIs(err, blobfs.ErrVisibilityNotSupported)
}

func (s *AdapterTestSuite) TestMetadata() {
	ctx := s.T().Context()
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a.txt", 5)}, nil)

	attrs, err := s.adapter.FileSize(ctx, "a.txt")
	s.Require().NoError(err)
	s.Equal(int64(5), *attrs.FileSize)

	attrs, err = s.adapter.LastModified(ctx, "a.txt")
	s.Require().NoError(err)
	s.Equal(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), *attrs.LastModified)
}

func (s *AdapterTestSuite) TestMimeType() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("page.html", 28)}, nil)
	transfer := s.dial()
	transfer.EXPECT().Retr("/upload/page.html").Return(io.NopCloser(strings.NewReader("<html><body></body></html>")), nil)
	transfer.EXPECT().Quit().Return(nil)

	attrs, err := s.adapter.MimeType(s.T().Context(), "page.html")
	s.Require().NoError(err)
	s.Contains(attrs.MimeType, "text/html")
}

func (s *AdapterTestSuite) TestMoveAndCopy_OntoItselfDoNothing() {
	ctx := s.T().Context()
	// no expectations: any call to the server fails the test
	s.NoError(s.adapter.Move(ctx, "a.txt", "a.txt", nil))
	s.NoError(s.adapter.Copy(ctx, "a.txt", "a.txt", nil))
}

func (s *AdapterTestSuite) TestMove() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a.txt", 1), folder("b")}, nil)
	s.client.EXPECT().Rename("/upload/a.txt", "/upload/b/a.txt").Return(nil)

	s.NoError(s.adapter.Move(s.T().Context(), "a.txt", "b/a.txt", nil))
}

func (s *AdapterTestSuite) TestMove_Missing() {
	s.client.EXPECT().List("/upload").Return(nil, nil)

	err := s.adapter.Move(s.T().Context(), "a.txt", "b.txt", nil)
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpMove))
}

func (s *AdapterTestSuite) TestCopy_StreamsThroughASecondConnection() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a.txt", 5)}, nil)
	s.client.EXPECT().List("/").Return([]*_ftp.Entry{folder("upload")}, nil)
	transfer := s.dial()
	transfer.EXPECT().Retr("/upload/a.txt").Return(io.NopCloser(strings.NewReader("hello")), nil)
	transfer.EXPECT().Quit().Return(nil)

	var stored string
	s.client.EXPECT().Stor(mock.MatchedBy(isTemp), mock.Anything).RunAndReturn(func(_ string, r io.Reader) error {
		b, err := io.ReadAll(r)
		stored = string(b)
		return err
	})
	s.client.EXPECT().Rename(mock.MatchedBy(isTemp), "/upload/b.txt").Return(nil)

	s.Require().NoError(s.adapter.Copy(s.T().Context(), "a.txt", "b.txt", nil))
	s.Equal("hello", stored)
}

func (s *AdapterTestSuite) TestDelete() {
	ctx := s.T().Context()
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a.txt", 1), folder("dir")}, nil)
	s.client.EXPECT().Delete("/upload/a.txt").Return(nil)

	s.NoError(s.adapter.Delete(ctx, "a.txt"))
	s.NoError(s.adapter.Delete(ctx, "missing.txt"))

	err := s.adapter.Delete(ctx, "dir")
	s.Error(err)
	s.True(blobfs.IsOperation(err, blobfs.OpDelete))
}

func (s *AdapterTestSuite) TestDeleteDirectory() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{folder("dir")}, nil)
	s.client.EXPECT().RemoveDirRecur("/upload/dir").Return(nil)

	s.NoError(s.adapter.DeleteDirectory(s.T().Context(), "dir"))
}

func (s *AdapterTestSuite) TestDeleteDirectory_Failure() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{folder("dir")}, nil)
	s.client.EXPECT().RemoveDirRecur("/upload/dir").Return(&textproto.Error{Code: 550, Msg: "Permission denied."})

	err := s.adapter.DeleteDirectory(s.T().Context(), "dir")
	s.Error(err, "a directory still present after a refused removal is reported")
	s.True(blobfs.IsOperation(err, blobfs.OpDeleteDirectory))
}

func (s *AdapterTestSuite) TestDeleteDirectory_AlreadyGone() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{folder("dir")}, nil).Once()
	s.client.EXPECT().RemoveDirRecur("/upload/dir").Return(errUnavailable)
	s.client.EXPECT().List("/upload").Return(nil, nil)

	s.NoError(s.adapter.DeleteDirectory(s.T().Context(), "dir"))
}

func (s *AdapterTestSuite) TestDeleteDirectory_RootIsEmptied() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{folder("."), folder(".."), file("a.txt", 1), folder("d")}, nil)
	s.client.EXPECT().Delete("/upload/a.txt").Return(nil)
	s.client.EXPECT().RemoveDirRecur("/upload/d").Return(nil)

	s.NoError(s.adapter.DeleteDirectory(s.T().Context(), ""))
}

func (s *AdapterTestSuite) TestCreateDirectory() {
	s.client.EXPECT().List("/upload").Return(nil, nil)
	s.client.EXPECT().MakeDir("/upload").Return(errUnavailable)
	s.client.EXPECT().List("/").Return([]*_ftp.Entry{folder("upload")}, nil)
	s.client.EXPECT().MakeDir("/upload/new").Return(nil)

	s.NoError(s.adapter.CreateDirectory(s.T().Context(), "new", nil))
}

func (s *AdapterTestSuite) TestListContents() {
	s.client.EXPECT().List("/upload").Return([]*_ftp.Entry{
		folder("."),
		folder("d"),
		file(".blobfs-0f8b4c4a.tmp", 3),
		{Name: "link", Type: _ftp.EntryTypeLink},
		file("f.txt", 2),
	}, nil)
	s.client.EXPECT().List("/upload/d").Return([]*_ftp.Entry{file("g.txt", 1)}, nil)

	var paths []string
	for attrs, err := range s.adapter.ListContents(s.T().Context(), "", true) {
		s.Require().NoError(err)
		paths = append(paths, attrs.Path)
	}
	s.Equal([]string{"d", "d/g.txt", "f.txt"}, paths)

	paths = nil
	for attrs, err := range s.adapter.ListContents(s.T().Context(), "", false) {
		s.Require().NoError(err)
		paths = append(paths, attrs.Path)
		break
	}
	s.Equal([]string{"d"}, paths)
}

func (s *AdapterTestSuite) TestListContents_MissingDirectory() {
	s.client.EXPECT().List("/upload/missing").Return(nil, errUnavailable)

	for _, err := range s.adapter.ListContents(s.T().Context(), "missing", true) {
		s.Fail("nothing is listed", "%v", err)
	}
}

func (s *AdapterTestSuite) TestLostConnectionReconnects() {
	s.client.EXPECT().List("/upload").Return(nil, io.EOF).Once()
	s.client.EXPECT().Quit().Return(nil).Once()
	next := s.dial()
	next.EXPECT().List("/upload").Return([]*_ftp.Entry{file("a.txt", 1)}, nil)

	_, err := s.adapter.FileExists(s.T().Context(), "a.txt")
	s.Error(err)

	exists, err := s.adapter.FileExists(s.T().Context(), "a.txt")
	s.NoError(err)
	s.True(exists)
}

func (s *AdapterTestSuite) TestPathsOutsideTheRootAreRejected() {
	ctx := s.T().Context()
	_, err := s.adapter.Read(ctx, "../etc/passwd")
	s.ErrorIs(err, blobfs.ErrPathTraversal)
	s.ErrorIs(s.adapter.Write(ctx, "a/../../b.txt", []byte("x"), nil), blobfs.ErrPathTraversal)
}

func (s *AdapterTestSuite) TestPublicURL() {
	u, err := s.adapter.PublicURL(s.T().Context(), "dir/a b.txt", nil)
	s.NoError(err)
	s.Equal("https://files.example.com/dir/a%20b.txt", u)

	_, err = NewAdapter(WithClient(s.client)).PublicURL(s.T().Context(), "a.txt", nil)
	s.ErrorIs(err, blobfs.ErrUnsupported)
}

func (s *AdapterTestSuite) TestClose() {
	s.client.EXPECT().Quit().Return(nil).Once()
	s.NoError(s.adapter.Close())
	s.NoError(s.adapter.Close(), "closing twice is fine")
}

func (s *AdapterTestSuite) TestDriver() {
	factory := backend.Driver(DriverName)
	s.Require().NotNil(factory)

	adapter, err := factory(blobfs.Config{
		ConfigHost:        "ftp.example.com",
		ConfigPort:        "2121",
		ConfigUsername:    "uploader",
		ConfigPassword:    "secret",
		ConfigProtocol:    "FTPES",
		ConfigDisableEPSV: "true",
		ConfigTimeout:     "5s",
		ConfigRoot:        "/upload",
	})
	s.Require().NoError(err)

	opts := adapter.(*Adapter).Options()
	s.Equal("ftp.example.com", opts.Host)
	s.Equal(2121, opts.Port)
	s.Equal("uploader", opts.Username)
	s.Equal("secret", opts.Password)
	s.Equal(ProtocolFTPES, opts.Protocol)
	s.True(opts.DisableEPSV)
	s.Equal(5*time.Second, opts.Timeout)
	s.Equal("/upload", opts.Root)

	_, err = factory(blobfs.Config{})
	s.ErrorIs(err, ErrHostRequired)

	_, err = factory(blobfs.Config{ConfigHost: "h", ConfigProtocol: "sftp"})
	s.ErrorContains(err, "unknown protocol")
}

func TestAdapter(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}
