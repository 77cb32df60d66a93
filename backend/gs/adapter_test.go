package gs

import (
	"crypto/md5" //nolint:gosec
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"io"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/storage"
	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
)

const bucketName = "test-bucket"

type Objects []fakestorage.Object

func object(name, contents string) fakestorage.Object {
	return fakestorage.Object{
		ObjectAttrs: fakestorage.ObjectAttrs{
			BucketName:  bucketName,
			Name:        name,
			ContentType: "text/plain",
		},
		Content: []byte(contents),
	}
}

type AdapterTestSuite struct {
	suite.Suite
	server  *fakestorage.Server
	adapter *Adapter
}

func (s *AdapterTestSuite) SetupTest() {
	s.server = fakestorage.NewServer(Objects{
		object("tenant/dir/a.txt", "a"),
		object("tenant/dir/sub/b.txt", "bb"),
		object("tenant/top.txt", "top"),
		object("outside.txt", "outside"),
	})
	s.adapter = NewAdapter(WithOptions(Options{Bucket: bucketName}), WithClient(s.server.Client()), WithPrefix("tenant"))
}

func (s *AdapterTestSuite) TearDownTest() {
	s.server.Stop()
}

func (s *AdapterTestSuite) TestWriteAndRead() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "docs/new.json", []byte(`{"a":1}`), nil))

	b, err := s.adapter.Read(ctx, "docs/new.json")
	s.NoError(err)
	s.Equal(`{"a":1}`, string(b))

	stored, err := s.server.GetObject(bucketName, "tenant/docs/new.json")
	s.Require().NoError(err)
	s.Equal("application/json", stored.ContentType)
}

func (s *AdapterTestSuite) TestWriteStream() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.WriteStream(ctx, "stream.txt", strings.NewReader("streamed"), nil))

	r, err := s.adapter.ReadStream(ctx, "stream.txt")
	s.Require().NoError(err)
	defer func() { _ = r.Close() }()
	b, err := io.ReadAll(r)
	s.NoError(err)
	s.Equal("streamed", string(b))
}

func (s *AdapterTestSuite) TestRead_Missing() {
	_, err := s.adapter.Read(s.T().Context(), "missing.txt")
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpRead))
}

func (s *AdapterTestSuite) TestFileExists() {
	exists, err := s.adapter.FileExists(s.T().Context(), "top.txt")
	s.NoError(err)
	s.True(exists)

	exists, err = s.adapter.FileExists(s.T().Context(), "dir")
	s.NoError(err)
	s.False(exists, "a directory is not a file")

	exists, err = s.adapter.FileExists(s.T().Context(), "outside.txt")
	s.NoError(err)
	s.False(exists, "objects outside the prefix are invisible")
}

func (s *AdapterTestSuite) TestDirectoryExists() {
	exists, err := s.adapter.DirectoryExists(s.T().Context(), "dir")
	s.NoError(err)
	s.True(exists)

	exists, err = s.adapter.DirectoryExists(s.T().Context(), "dir/sub")
	s.NoError(err)
	s.True(exists)

	exists, err = s.adapter.DirectoryExists(s.T().Context(), "nothing")
	s.NoError(err)
	s.False(exists)
}

func (s *AdapterTestSuite) TestDelete() {
	ctx := s.T().Context()
	s.NoError(s.adapter.Delete(ctx, "top.txt"))
	exists, err := s.adapter.FileExists(ctx, "top.txt")
	s.NoError(err)
	s.False(exists)

	s.NoError(s.adapter.Delete(ctx, "top.txt"), "deleting a missing object succeeds")
}

func (s *AdapterTestSuite) TestDeleteDirectory() {
	ctx := s.T().Context()
	s.NoError(s.adapter.DeleteDirectory(ctx, "dir"))

	exists, err := s.adapter.DirectoryExists(ctx, "dir")
	s.NoError(err)
	s.False(exists)

	exists, err = s.adapter.FileExists(ctx, "top.txt")
	s.NoError(err)
	s.True(exists, "siblings survive")
}

func (s *AdapterTestSuite) TestCreateDirectory() {
	ctx := s.T().Context()
	s.NoError(s.adapter.CreateDirectory(ctx, "empty", nil))

	exists, err := s.adapter.DirectoryExists(ctx, "empty")
	s.NoError(err)
	s.True(exists)

	_, err = s.server.GetObject(bucketName, "tenant/empty/")
	s.NoError(err, "a marker object is stored")
}

func paths(entries []blobfs.StorageAttributes) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Type.String()+":"+e.Path)
	}
	return out
}

func (s *AdapterTestSuite) TestListContents_Shallow() {
	entries, err := blobfs.Collect(s.adapter.ListContents(s.T().Context(), "", false))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"file:top.txt", "dir:dir"}, paths(entries))
}

func (s *AdapterTestSuite) TestListContents_Deep() {
	entries, err := blobfs.Collect(s.adapter.ListContents(s.T().Context(), "", true))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"file:top.txt", "dir:dir", "file:dir/a.txt", "dir:dir/sub", "file:dir/sub/b.txt"}, paths(entries))

	for _, e := range entries {
		if e.IsFile() && e.Path == "dir/sub/b.txt" {
			s.Equal(int64(2), *e.FileSize)
		}
	}
}

func (s *AdapterTestSuite) TestListContents_Subdirectory() {
	entries, err := blobfs.Collect(s.adapter.ListContents(s.T().Context(), "dir", false))
	s.Require().NoError(err)
	s.ElementsMatch([]string{"file:dir/a.txt", "dir:dir/sub"}, paths(entries))
}

func (s *AdapterTestSuite) TestCopyAndMove() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Copy(ctx, "top.txt", "copy.txt", nil))
	b, err := s.adapter.Read(ctx, "copy.txt")
	s.NoError(err)
	s.Equal("top", string(b))

	s.Require().NoError(s.adapter.Move(ctx, "copy.txt", "moved/copy.txt", nil))
	exists, err := s.adapter.FileExists(ctx, "copy.txt")
	s.NoError(err)
	s.False(exists)
	b, err = s.adapter.Read(ctx, "moved/copy.txt")
	s.NoError(err)
	s.Equal("top", string(b))
}

func (s *AdapterTestSuite) TestMove_MissingSource() {
	err := s.adapter.Move(s.T().Context(), "missing.txt", "b.txt", nil)
	s.True(blobfs.IsOperation(err, blobfs.OpMove))
	s.ErrorIs(err, blobfs.ErrNotExist)
}

func (s *AdapterTestSuite) TestMetadata() {
	ctx := s.T().Context()
	attrs, err := s.adapter.FileSize(ctx, "dir/sub/b.txt")
	s.NoError(err)
	s.Equal(int64(2), *attrs.FileSize)
	s.Equal("dir/sub/b.txt", attrs.Path)

	attrs, err = s.adapter.MimeType(ctx, "top.txt")
	s.NoError(err)
	s.Equal("text/plain", attrs.MimeType)

	_, err = s.adapter.LastModified(ctx, "missing.txt")
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpRetrieveMetadata))
}

func (s *AdapterTestSuite) TestChecksum() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "sum.txt", []byte("checksum contents"), nil))

	sum, err := s.adapter.Checksum(ctx, "sum.txt", nil)
	s.NoError(err)
	expected := md5.Sum([]byte("checksum contents")) //nolint:gosec
	s.Equal(hex.EncodeToString(expected[:]), sum)

	_, err = s.adapter.Checksum(ctx, "sum.txt", blobfs.Config{blobfs.OptionChecksumAlgo: "sha1"})
	s.ErrorIs(err, blobfs.ErrUnsupported)
}

func (s *AdapterTestSuite) TestPublicURL() {
	u, err := s.adapter.PublicURL(s.T().Context(), "some dir/a+b.txt", nil)
	s.NoError(err)
	s.Equal("https://storage.googleapis.com/test-bucket/tenant/some%20dir/a+b.txt", u)

	adapter := NewAdapter(WithOptions(Options{Bucket: bucketName, PublicURLBase: "https://cdn.example.com/"}))
	u, err = adapter.PublicURL(s.T().Context(), "a.txt", nil)
	s.NoError(err)
	s.Equal("https://cdn.example.com/test-bucket/a.txt", u)
}

func signingKey(t *testing.T) string {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)}))
}

func (s *AdapterTestSuite) TestTemporaryURLs() {
	adapter := NewAdapter(
		WithOptions(Options{
			Bucket:            bucketName,
			SigningEmail:      "signer@project.iam.gserviceaccount.com",
			SigningPrivateKey: signingKey(s.T()),
		}),
		WithClient(s.server.Client()),
		WithPrefix("tenant"),
	)

	u, err := adapter.TemporaryURL(s.T().Context(), "top.txt", time.Now().Add(time.Hour), nil)
	s.Require().NoError(err)
	s.Contains(u, "/test-bucket/tenant/top.txt?")
	s.Contains(u, "X-Goog-Signature=")
	s.Contains(u, "X-Goog-Expires=")

	upload, err := adapter.TemporaryUploadURL(s.T().Context(), "new.txt", time.Now().Add(time.Hour), blobfs.Config{
		blobfs.OptionMimeType: "text/plain",
	})
	s.Require().NoError(err)
	s.Contains(upload.URL, "/test-bucket/tenant/new.txt?")
	s.Equal(map[string]string{"Content-Type": "text/plain"}, upload.Headers)
}

func (s *AdapterTestSuite) TestVisibilityOf() {
	s.Equal(blobfs.Public, visibilityOf([]storage.ACLRule{
		{Entity: "project-owners-123", Role: storage.RoleOwner},
		{Entity: storage.AllUsers, Role: storage.RoleReader},
	}))
	s.Equal(blobfs.Private, visibilityOf([]storage.ACLRule{{Entity: "project-owners-123", Role: storage.RoleOwner}}))
	s.Equal(blobfs.Private, visibilityOf(nil), "uniform bucket-level access has no object acls")
}

func (s *AdapterTestSuite) TestPredefinedACL() {
	s.Equal("publicRead", s.adapter.predefinedACL(blobfs.Config{blobfs.OptionVisibility: "public"}))
	s.Equal("private", s.adapter.predefinedACL(blobfs.Config{blobfs.OptionVisibility: "private"}))
	s.Empty(s.adapter.predefinedACL(nil))

	adapter := NewAdapter(WithOptions(Options{Bucket: bucketName, Visibility: blobfs.Public}))
	s.Equal("publicRead", adapter.predefinedACL(nil))
}

func (s *AdapterTestSuite) TestDriver() {
	s.T().Setenv("BLOBFS_GCS_BUCKET", "")
	factory := backend.Driver(DriverName)
	s.Require().NotNil(factory)

	adapter, err := factory(blobfs.Config{
		ConfigBucket:     "uploads",
		ConfigRoot:       "tenant",
		ConfigKeyFile:    "/secrets/key.json",
		ConfigScopes:     "a, b",
		ConfigMaxRetries: "2",
		ConfigVisibility: "private",
	})
	s.Require().NoError(err)

	opts := adapter.(*Adapter).Options()
	s.Equal("uploads", opts.Bucket)
	s.Equal("tenant", opts.Prefix)
	s.Equal("/secrets/key.json", opts.CredentialFile)
	s.Equal([]string{"a", "b"}, opts.Scopes)
	s.Equal(2, opts.MaxRetries)
	s.Equal(blobfs.Private, opts.Visibility)
	s.Equal(DefaultPublicURLBase, opts.PublicURLBase)

	_, err = factory(blobfs.Config{})
	s.ErrorIs(err, ErrBucketRequired)

	_, err = factory(blobfs.Config{ConfigBucket: "b", ConfigPrefix: "/tenant"})
	s.ErrorContains(err, "prefix is invalid")
}

func TestAdapter(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}
