package azure

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/backend/azure/mocks"
	"github.com/c2fo/blobfs/utils"
)

type AdapterTestSuite struct {
	suite.Suite
	client  *mocks.Client
	adapter *Adapter
}

func (s *AdapterTestSuite) SetupTest() {
	s.client = mocks.NewClient(s.T())
	s.adapter = NewAdapter(WithOptions(Options{Container: "test-container"}), WithClient(s.client), WithPrefix("tenant"))
}

func notFound(code bloberror.Code) error {
	return &azcore.ResponseError{ErrorCode: string(code), StatusCode: 404}
}

func (s *AdapterTestSuite) TestFileExists() {
	s.client.EXPECT().Properties(mock.Anything, "tenant/a.txt").Return(&BlobProperties{}, nil).Once()
	s.client.EXPECT().Properties(mock.Anything, "tenant/missing.txt").Return(nil, notFound(bloberror.BlobNotFound)).Once()
	s.client.EXPECT().Properties(mock.Anything, "tenant/broken.txt").Return(nil, errors.New("boom")).Once()

	exists, err := s.adapter.FileExists(s.T().Context(), "a.txt")
	s.NoError(err)
	s.True(exists)

	exists, err = s.adapter.FileExists(s.T().Context(), "missing.txt")
	s.NoError(err, "a missing blob is not an error")
	s.False(exists)

	_, err = s.adapter.FileExists(s.T().Context(), "broken.txt")
	s.True(blobfs.IsOperation(err, blobfs.OpCheckExistence))
}

func (s *AdapterTestSuite) TestDirectoryExists() {
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", false, "").
		Return(&ListPage{Prefixes: []string{"tenant/dir/sub/"}}, nil).Once()
	s.client.EXPECT().ListPage(mock.Anything, "tenant/empty/", false, "").
		Return(&ListPage{}, nil).Once()

	exists, err := s.adapter.DirectoryExists(s.T().Context(), "dir")
	s.NoError(err)
	s.True(exists)

	exists, err = s.adapter.DirectoryExists(s.T().Context(), "empty")
	s.NoError(err)
	s.False(exists)
}

func (s *AdapterTestSuite) TestWrite() {
	var uploaded string
	s.client.EXPECT().Upload(mock.Anything, "tenant/docs/a.json", mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, r io.Reader, opts UploadOptions) error {
			b, err := io.ReadAll(r)
			uploaded = string(b)
			s.Equal("application/json", opts.ContentType)
			s.Equal("max-age=60", opts.CacheControl)
			return err
		}).Once()

	err := s.adapter.Write(s.T().Context(), "docs/a.json", []byte(`{"a":1}`), blobfs.Config{
		blobfs.OptionHeaders: map[string]string{"cache-control": "max-age=60"},
	})
	s.NoError(err)
	s.Equal(`{"a":1}`, uploaded)
}

func (s *AdapterTestSuite) TestWriteStream_SniffsContentType() {
	png := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 32)
	var uploaded string
	s.client.EXPECT().Upload(mock.Anything, "tenant/image", mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, r io.Reader, opts UploadOptions) error {
			b, err := io.ReadAll(r)
			uploaded = string(b)
			s.Equal("image/png", opts.ContentType)
			return err
		}).Once()

	s.NoError(s.adapter.WriteStream(s.T().Context(), "image", strings.NewReader(png), nil))
	s.Equal(png, uploaded, "the sniffed bytes are still uploaded")
}

func (s *AdapterTestSuite) TestWrite_ConfigMimeTypeWins() {
	s.client.EXPECT().Upload(mock.Anything, "tenant/a.txt", mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, _ io.Reader, opts UploadOptions) error {
			s.Equal("application/x-custom", opts.ContentType)
			return nil
		}).Once()

	s.NoError(s.adapter.Write(s.T().Context(), "a.txt", []byte("x"), blobfs.Config{blobfs.OptionMimeType: "application/x-custom"}))
}

func (s *AdapterTestSuite) TestWrite_Error() {
	s.client.EXPECT().Upload(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("boom")).Once()

	err := s.adapter.Write(s.T().Context(), "a.txt", []byte("x"), nil)
	s.True(blobfs.IsOperation(err, blobfs.OpWrite))
	s.ErrorContains(err, "boom")
}

func (s *AdapterTestSuite) TestRead() {
	s.client.EXPECT().Download(mock.Anything, "tenant/a.txt").Return(io.NopCloser(strings.NewReader("hello")), nil).Once()
	s.client.EXPECT().Download(mock.Anything, "tenant/missing.txt").Return(nil, notFound(bloberror.BlobNotFound)).Once()

	contents, err := s.adapter.Read(s.T().Context(), "a.txt")
	s.NoError(err)
	s.Equal("hello", string(contents))

	_, err = s.adapter.Read(s.T().Context(), "missing.txt")
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpRead))
}

func (s *AdapterTestSuite) TestDelete() {
	s.client.EXPECT().Delete(mock.Anything, "tenant/a.txt").Return(nil).Once()
	s.client.EXPECT().Delete(mock.Anything, "tenant/missing.txt").Return(notFound(bloberror.BlobNotFound)).Once()
	s.client.EXPECT().Delete(mock.Anything, "tenant/broken.txt").Return(errors.New("boom")).Once()

	s.NoError(s.adapter.Delete(s.T().Context(), "a.txt"))
	s.NoError(s.adapter.Delete(s.T().Context(), "missing.txt"), "deleting a missing blob is fine")
	s.True(blobfs.IsOperation(s.adapter.Delete(s.T().Context(), "broken.txt"), blobfs.OpDelete))
}

func (s *AdapterTestSuite) TestDeleteDirectory() {
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", true, "").
		Return(&ListPage{Blobs: []BlobItem{{Name: "tenant/dir/a"}, {Name: "tenant/dir/b"}}, NextMarker: "m"}, nil).Once()
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", true, "m").
		Return(&ListPage{Blobs: []BlobItem{{Name: "tenant/dir/sub/c"}}}, nil).Once()

	var deleted atomic.Int32
	s.client.EXPECT().Delete(mock.Anything, mock.Anything).RunAndReturn(func(context.Context, string) error {
		deleted.Add(1)
		return nil
	}).Times(3)

	s.NoError(s.adapter.DeleteDirectory(s.T().Context(), "dir"))
	s.Equal(int32(3), deleted.Load())
}

func (s *AdapterTestSuite) TestDeleteDirectory_Error() {
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", true, "").
		Return(&ListPage{Blobs: []BlobItem{{Name: "tenant/dir/a"}}}, nil).Once()
	s.client.EXPECT().Delete(mock.Anything, "tenant/dir/a").Return(errors.New("boom")).Once()

	err := s.adapter.DeleteDirectory(s.T().Context(), "dir")
	s.True(blobfs.IsOperation(err, blobfs.OpDeleteDirectory))
	s.ErrorContains(err, "tenant/dir/a")
}

func (s *AdapterTestSuite) TestDeleteDirectory_DeleteErrorWinsOverCancelledListing() {
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", true, "").
		Return(&ListPage{Blobs: []BlobItem{{Name: "tenant/dir/a"}}, NextMarker: "m"}, nil).Once()
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", true, "m").
		RunAndReturn(func(ctx context.Context, _ string, _ bool, _ string) (*ListPage, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}).Once()
	s.client.EXPECT().Delete(mock.Anything, "tenant/dir/a").Return(errors.New("boom")).Once()

	err := s.adapter.DeleteDirectory(s.T().Context(), "dir")
	s.True(blobfs.IsOperation(err, blobfs.OpDeleteDirectory))
	s.ErrorContains(err, "boom")
	s.NotErrorIs(err, context.Canceled)
}

func (s *AdapterTestSuite) TestCreateDirectory() {
	s.NoError(s.adapter.CreateDirectory(s.T().Context(), "dir", nil), "no client call is made")
}

func (s *AdapterTestSuite) TestVisibility_Throw() {
	err := s.adapter.SetVisibility(s.T().Context(), "a.txt", blobfs.Public)
	s.ErrorIs(err, blobfs.ErrVisibilityNotSupported)
	s.True(blobfs.IsOperation(err, blobfs.OpSetVisibility))

	_, err = s.adapter.Visibility(s.T().Context(), "a.txt")
	s.ErrorIs(err, blobfs.ErrVisibilityNotSupported)
	s.True(blobfs.IsOperation(err, blobfs.OpRetrieveMetadata))
}

func (s *AdapterTestSuite) TestVisibility_Ignore() {
	adapter := NewAdapter(WithClient(s.client), WithVisibilityHandling(VisibilityIgnore))
	s.client.EXPECT().Properties(mock.Anything, "a.txt").Return(&BlobProperties{Size: utils.Ptr(int64(3))}, nil).Once()

	s.NoError(adapter.SetVisibility(s.T().Context(), "a.txt", blobfs.Private))

	attrs, err := adapter.Visibility(s.T().Context(), "a.txt")
	s.NoError(err)
	s.Empty(attrs.Visibility)
	s.Equal("a.txt", attrs.Path)
}

func (s *AdapterTestSuite) TestMetadata() {
	modified := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.client.EXPECT().Properties(mock.Anything, "tenant/a.txt").Return(&BlobProperties{
		Size:         utils.Ptr(int64(5)),
		LastModified: &modified,
		ContentType:  "text/plain",
		ContentMD5:   []byte{0xde, 0xad},
	}, nil).Times(3)
	s.client.EXPECT().Properties(mock.Anything, "tenant/missing.txt").Return(nil, notFound(bloberror.BlobNotFound)).Once()

	attrs, err := s.adapter.MimeType(s.T().Context(), "a.txt")
	s.NoError(err)
	s.Equal("text/plain", attrs.MimeType)
	s.Equal("dead", attrs.Extra["md5"])

	attrs, err = s.adapter.FileSize(s.T().Context(), "a.txt")
	s.NoError(err)
	s.Equal(int64(5), *attrs.FileSize)

	attrs, err = s.adapter.LastModified(s.T().Context(), "a.txt")
	s.NoError(err)
	s.Equal(modified, *attrs.LastModified)

	_, err = s.adapter.FileSize(s.T().Context(), "missing.txt")
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpRetrieveMetadata))
}

func (s *AdapterTestSuite) TestListContents_Shallow() {
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", false, "").Return(&ListPage{
		Blobs:      []BlobItem{{Name: "tenant/dir/a.txt", Properties: BlobProperties{Size: utils.Ptr(int64(1))}}},
		Prefixes:   []string{"tenant/dir/sub/"},
		NextMarker: "next",
	}, nil).Once()
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", false, "next").Return(&ListPage{
		Blobs: []BlobItem{{Name: "tenant/dir/b.txt"}},
	}, nil).Once()

	entries, err := blobfs.Collect(s.adapter.ListContents(s.T().Context(), "dir", false))
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal("dir/a.txt", entries[0].Path)
	s.True(entries[0].IsFile())
	s.Equal(int64(1), *entries[0].FileSize)
	s.Equal("dir/sub", entries[1].Path)
	s.True(entries[1].IsDir())
	s.Equal("dir/b.txt", entries[2].Path)
}

func (s *AdapterTestSuite) TestListContents_Deep() {
	s.client.EXPECT().ListPage(mock.Anything, "tenant/", true, "").Return(&ListPage{
		Blobs: []BlobItem{
			{Name: "tenant/a/b/c.txt"},
			{Name: "tenant/a/b/d.txt"},
			{Name: "tenant/a/e.txt"},
			{Name: "tenant/f/"},
		},
	}, nil).Once()

	entries, err := blobfs.Collect(s.adapter.ListContents(s.T().Context(), "", true))
	s.Require().NoError(err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Type.String()+":"+e.Path)
	}
	s.Equal([]string{"dir:a", "dir:a/b", "file:a/b/c.txt", "file:a/b/d.txt", "file:a/e.txt", "dir:f"}, paths)
}

func (s *AdapterTestSuite) TestListContents_StopsFetchingWhenConsumerStops() {
	s.client.EXPECT().ListPage(mock.Anything, "tenant/dir/", false, "").Return(&ListPage{
		Blobs:      []BlobItem{{Name: "tenant/dir/a.txt"}, {Name: "tenant/dir/b.txt"}},
		NextMarker: "next",
	}, nil).Once()

	count := 0
	for _, err := range s.adapter.ListContents(s.T().Context(), "dir", false) {
		s.NoError(err)
		count++
		break
	}
	s.Equal(1, count, "the second page is never requested")
}

func (s *AdapterTestSuite) TestListContents_Error() {
	s.client.EXPECT().ListPage(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	_, err := blobfs.Collect(s.adapter.ListContents(s.T().Context(), "dir", true))
	s.True(blobfs.IsOperation(err, blobfs.OpListContents))
}

func (s *AdapterTestSuite) TestCopyAndMove() {
	s.client.EXPECT().Copy(mock.Anything, "tenant/a.txt", "tenant/b.txt").Return(nil).Twice()
	s.client.EXPECT().Delete(mock.Anything, "tenant/a.txt").Return(nil).Once()

	s.NoError(s.adapter.Copy(s.T().Context(), "a.txt", "b.txt", nil))
	s.NoError(s.adapter.Move(s.T().Context(), "a.txt", "b.txt", nil))
}

func (s *AdapterTestSuite) TestMove_MissingSource() {
	s.client.EXPECT().Copy(mock.Anything, "tenant/missing.txt", "tenant/b.txt").
		Return(notFound(bloberror.CannotVerifyCopySource)).Once()

	err := s.adapter.Move(s.T().Context(), "missing.txt", "b.txt", nil)
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpMove))
	s.False(blobfs.IsOperation(err, blobfs.OpCopy), "the copy failure is reported as a failed move")
}

func (s *AdapterTestSuite) TestCopyAndMove_SamePath() {
	// the mock fails the test on any client call
	s.NoError(s.adapter.Copy(s.T().Context(), "a.txt", "a.txt", nil))
	s.NoError(s.adapter.Move(s.T().Context(), "a.txt", "a.txt", nil))
	s.client.AssertNotCalled(s.T(), "Delete", mock.Anything, mock.Anything)
}

func (s *AdapterTestSuite) TestPublicURL_Signed() {
	s.client.EXPECT().SignedURL(mock.Anything, "tenant/a.txt", sas.BlobPermissions{Read: true}, mock.Anything).
		RunAndReturn(func(_ context.Context, _ string, _ sas.BlobPermissions, expiresAt time.Time) (string, error) {
			s.WithinDuration(time.Now().Add(10*time.Minute), expiresAt, time.Minute)
			return "https://acct.blob.core.windows.net/test-container/tenant/a.txt?sig=x&se=y&sp=r", nil
		}).Once()

	u, err := s.adapter.PublicURL(s.T().Context(), "a.txt", blobfs.Config{blobfs.OptionExpiresIn: "10m"})
	s.NoError(err)
	s.Contains(u, "sig=x")
}

func (s *AdapterTestSuite) TestPublicURL_Direct() {
	adapter := NewAdapter(WithClient(s.client), WithDirectPublicURL(true))
	s.client.EXPECT().BlobURL("a.txt").Return("https://acct.blob.core.windows.net/c/a.txt?sv=1&sig=x").Once()

	u, err := adapter.PublicURL(s.T().Context(), "a.txt", nil)
	s.NoError(err)
	s.Equal("https://acct.blob.core.windows.net/c/a.txt", u, "direct urls never carry a signature")
}

func (s *AdapterTestSuite) TestTemporaryURL() {
	expiresAt := time.Now().Add(time.Hour)
	s.client.EXPECT().SignedURL(mock.Anything, "tenant/a.txt", sas.BlobPermissions{Read: true}, expiresAt).
		Return("signed", nil).Once()
	s.client.EXPECT().SignedURL(mock.Anything, "tenant/b.txt", sas.BlobPermissions{Read: true}, expiresAt).
		Return("", ErrCannotSign).Once()

	u, err := s.adapter.TemporaryURL(s.T().Context(), "a.txt", expiresAt, nil)
	s.NoError(err)
	s.Equal("signed", u)

	_, err = s.adapter.TemporaryURL(s.T().Context(), "b.txt", expiresAt, nil)
	s.ErrorIs(err, ErrCannotSign)
	s.True(blobfs.IsOperation(err, blobfs.OpGenerateTempURL))
}

func (s *AdapterTestSuite) TestTemporaryUploadURL() {
	expiresAt := time.Now().Add(time.Hour)
	s.client.EXPECT().SignedURL(mock.Anything, "tenant/a.txt", sas.BlobPermissions{Create: true, Write: true}, expiresAt).
		Return("signed-upload", nil).Once()

	upload, err := s.adapter.TemporaryUploadURL(s.T().Context(), "a.txt", expiresAt, blobfs.Config{
		blobfs.OptionMimeType: "text/plain",
		blobfs.OptionHeaders:  map[string]string{"x-ms-meta-owner": "me"},
	})
	s.NoError(err)
	s.Equal("signed-upload", upload.URL)
	s.Equal(map[string]string{
		"x-ms-blob-type":  "BlockBlob",
		"Content-Type":    "text/plain",
		"X-Ms-Meta-Owner": "me",
	}, upload.Headers)
}

func (s *AdapterTestSuite) TestChecksum() {
	sum := []byte{0x90, 0x01, 0x50, 0x98}
	s.client.EXPECT().Properties(mock.Anything, "tenant/a.txt").Return(&BlobProperties{ContentMD5: sum}, nil).Once()
	s.client.EXPECT().Properties(mock.Anything, "tenant/b.txt").Return(&BlobProperties{}, nil).Once()

	checksum, err := s.adapter.Checksum(s.T().Context(), "a.txt", nil)
	s.NoError(err)
	s.Equal(hex.EncodeToString(sum), checksum)

	_, err = s.adapter.Checksum(s.T().Context(), "b.txt", nil)
	s.ErrorIs(err, blobfs.ErrUnsupported, "no stored md5 means the caller hashes the contents")

	_, err = s.adapter.Checksum(s.T().Context(), "a.txt", blobfs.Config{blobfs.OptionChecksumAlgo: "sha256"})
	s.ErrorIs(err, blobfs.ErrUnsupported)
}

func (s *AdapterTestSuite) TestChecksum_FallsBackThroughFilesystem() {
	s.client.EXPECT().Properties(mock.Anything, "tenant/a.txt").Return(&BlobProperties{}, nil).Once()
	s.client.EXPECT().Download(mock.Anything, "tenant/a.txt").Return(io.NopCloser(strings.NewReader("abc")), nil).Once()

	checksum, err := blobfs.New(s.adapter, nil).Checksum(s.T().Context(), "a.txt", nil)
	s.NoError(err)
	s.Equal("900150983cd24fb0d6963f7d28e17f72", checksum)
}

func (s *AdapterTestSuite) TestClient_BuiltFromOptions() {
	adapter := NewAdapter(WithOptions(Options{ConnectionString: "UseDevelopmentStorage=true", Container: "c"}))
	client, err := adapter.Client()
	s.Require().NoError(err)
	again, err := adapter.Client()
	s.Require().NoError(err)
	s.Same(client, again, "the client is built once")
	s.Equal("http://127.0.0.1:10000/devstoreaccount1/c/a.txt", client.BlobURL("a.txt"))
}

func (s *AdapterTestSuite) TestClient_Error() {
	adapter := NewAdapter(WithOptions(Options{Container: "c"}))
	_, err := adapter.FileExists(s.T().Context(), "a.txt")
	s.True(blobfs.IsOperation(err, blobfs.OpCheckExistence))
}

func (s *AdapterTestSuite) TestParseVisibilityHandling() {
	h, err := ParseVisibilityHandling("")
	s.NoError(err)
	s.Equal(VisibilityThrow, h)

	h, err = ParseVisibilityHandling("IGNORE")
	s.NoError(err)
	s.Equal(VisibilityIgnore, h)
	s.Equal("ignore", h.String())

	_, err = ParseVisibilityHandling("sometimes")
	s.Error(err)
}

func (s *AdapterTestSuite) TestDriver() {
	s.T().Setenv("AZURE_STORAGE_CONTAINER", "")
	factory := backend.Driver(DriverName)
	s.Require().NotNil(factory)

	adapter, err := factory(blobfs.Config{
		ConfigConnectionString:   "UseDevelopmentStorage=true",
		ConfigContainer:          "uploads",
		ConfigRoot:               "tenant",
		ConfigVisibilityHandling: "ignore",
		ConfigDirectPublicURL:    "true",
		ConfigPublicURLExpiry:    "15m",
	})
	s.Require().NoError(err)

	opts := adapter.(*Adapter).Options()
	s.Equal("uploads", opts.Container)
	s.Equal("tenant", opts.Prefix)
	s.Equal(VisibilityIgnore, opts.VisibilityHandling)
	s.True(opts.UseDirectPublicURL)
	s.Equal(15*time.Minute, opts.PublicURLExpiry)

	_, err = factory(blobfs.Config{ConfigConnectionString: "UseDevelopmentStorage=true"})
	s.ErrorIs(err, ErrContainerRequired)

	_, err = factory(blobfs.Config{ConfigContainer: "c", ConfigVisibilityHandling: "bogus"})
	s.Error(err)

	_, err = factory(blobfs.Config{ConfigContainer: "c", ConfigPrefix: "/tenant/"})
	s.ErrorContains(err, utils.ErrBadPrefix)
}

func TestAdapter(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}
