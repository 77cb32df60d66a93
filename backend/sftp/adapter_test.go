package sftp

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	_sftp "github.com/pkg/sftp"
	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/backend"
	"github.com/c2fo/blobfs/utils"
)

type AdapterTestSuite struct {
	suite.Suite
	root    string
	client  *_sftp.Client
	adapter *Adapter
}

func (s *AdapterTestSuite) SetupTest() {
	s.root = s.T().TempDir()
	s.client = newPipeClient(s.T())
	s.adapter = NewAdapter(WithRoot(s.root), WithClient(s.client))
}

func (s *AdapterTestSuite) mode(path string) fs.FileMode {
	info, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(path)))
	s.Require().NoError(err)
	return info.Mode().Perm()
}

func (s *AdapterTestSuite) TestWrite_CreatesParentsAndLeavesNoTempFiles() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "a/b/c.txt", []byte("hello"), nil))

	b, err := os.ReadFile(filepath.Join(s.root, "a", "b", "c.txt"))
	s.NoError(err)
	s.Equal("hello", string(b))

	entries, err := os.ReadDir(filepath.Join(s.root, "a", "b"))
	s.NoError(err)
	s.Len(entries, 1, "the temporary file is renamed into place")
}

func (s *AdapterTestSuite) TestWrite_MissingRootIsCreated() {
	root := filepath.Join(s.T().TempDir(), "missing", "root")
	adapter := NewAdapter(WithRoot(root), WithClient(s.client))

	s.Require().NoError(adapter.Write(s.T().Context(), "a.txt", []byte("x"), nil))
	s.FileExists(filepath.Join(root, "a.txt"))
}

func (s *AdapterTestSuite) TestVisibilityPermissions() {
	if runtime.GOOS == "windows" {
		s.T().Skip("windows has no unix permissions")
	}
	ctx := s.T().Context()

	s.Require().NoError(s.adapter.Write(ctx, "public.txt", []byte("x"), nil))
	s.Equal(utils.DefaultFilePublic, s.mode("public.txt"))

	s.Require().NoError(s.adapter.Write(ctx, "private.txt", []byte("x"), blobfs.Config{blobfs.OptionVisibility: blobfs.Private}))
	s.Equal(utils.DefaultFilePrivate, s.mode("private.txt"))

	attrs, err := s.adapter.Visibility(ctx, "private.txt")
	s.Require().NoError(err)
	s.Equal(blobfs.Private, attrs.Visibility)

	s.Require().NoError(s.adapter.SetVisibility(ctx, "private.txt", blobfs.Public))
	s.Equal(utils.DefaultFilePublic, s.mode("private.txt"))

	s.Require().NoError(s.adapter.CreateDirectory(ctx, "secret", blobfs.Config{blobfs.OptionDirectoryVisibility: blobfs.Private}))
	s.Equal(utils.DefaultDirPrivate, s.mode("secret"))

	s.Require().NoError(s.adapter.SetVisibility(ctx, "secret", blobfs.Public))
	s.Equal(utils.DefaultDirPublic, s.mode("secret"))

	s.Require().NoError(s.adapter.Write(ctx, "hidden/a.txt", []byte("x"), blobfs.Config{blobfs.OptionDirectoryVisibility: blobfs.Private}))
	s.Equal(utils.DefaultDirPrivate, s.mode("hidden"), "missing parents take the directory visibility")

	err = s.adapter.SetVisibility(ctx, "missing.txt", blobfs.Public)
	s.ErrorIs(err, blobfs.ErrNotExist)

	err = s.adapter.SetVisibility(ctx, "public.txt", "world")
	s.True(blobfs.IsOperation(err, blobfs.OpSetVisibility))
}

func (s *AdapterTestSuite) TestCopy_KeepsPermissionsUnlessVisibilityGiven() {
	if runtime.GOOS == "windows" {
		s.T().Skip("windows has no unix permissions")
	}
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "src.txt", []byte("x"), blobfs.Config{blobfs.OptionVisibility: blobfs.Private}))

	s.Require().NoError(s.adapter.Copy(ctx, "src.txt", "copy/kept.txt", nil))
	s.Equal(utils.DefaultFilePrivate, s.mode("copy/kept.txt"))

	s.Require().NoError(s.adapter.Copy(ctx, "src.txt", "copy/public.txt", blobfs.Config{blobfs.OptionVisibility: blobfs.Public}))
	s.Equal(utils.DefaultFilePublic, s.mode("copy/public.txt"))
}

func (s *AdapterTestSuite) TestCopy_OntoItselfKeepsContents() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "same.txt", []byte("kept"), nil))

	s.Require().NoError(s.adapter.Copy(ctx, "same.txt", "same.txt", nil))
	s.Require().NoError(s.adapter.Move(ctx, "same.txt", "same.txt", nil))

	b, err := os.ReadFile(filepath.Join(s.root, "same.txt"))
	s.Require().NoError(err)
	s.Equal("kept", string(b))
}

func (s *AdapterTestSuite) TestMove_Missing() {
	err := s.adapter.Move(s.T().Context(), "missing.txt", "b.txt", nil)
	s.ErrorIs(err, blobfs.ErrNotExist)
	s.True(blobfs.IsOperation(err, blobfs.OpMove))
}

func (s *AdapterTestSuite) TestPathsOutsideTheRootAreRejected() {
	ctx := s.T().Context()
	outside := filepath.Join(filepath.Dir(s.root), "outside.txt")
	s.Require().NoError(os.WriteFile(outside, []byte("x"), 0o600))
	s.T().Cleanup(func() { _ = os.Remove(outside) })

	escaping := "../" + filepath.Base(outside)
	_, err := s.adapter.Read(ctx, escaping)
	s.ErrorIs(err, blobfs.ErrPathTraversal)

	err = s.adapter.Write(ctx, "a/../../x.txt", []byte("x"), nil)
	s.ErrorIs(err, blobfs.ErrPathTraversal)

	err = s.adapter.Delete(ctx, escaping)
	s.ErrorIs(err, blobfs.ErrPathTraversal)
	s.FileExists(outside)

	s.Require().NoError(s.adapter.Write(ctx, "a/../inside.txt", []byte("x"), nil))
	s.FileExists(filepath.Join(s.root, "inside.txt"))
}

func (s *AdapterTestSuite) TestDelete_Directory() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.CreateDirectory(ctx, "dir", nil))

	err := s.adapter.Delete(ctx, "dir")
	s.Error(err)
	s.True(blobfs.IsOperation(err, blobfs.OpDelete))
	s.DirExists(filepath.Join(s.root, "dir"))
}

func (s *AdapterTestSuite) TestDeleteDirectory_Root() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "a.txt", []byte("x"), nil))
	s.Require().NoError(s.adapter.Write(ctx, "dir/nested/b.txt", []byte("x"), nil))

	s.Require().NoError(s.adapter.DeleteDirectory(ctx, ""))

	s.DirExists(s.root, "the root itself is kept")
	entries, err := os.ReadDir(s.root)
	s.NoError(err)
	s.Empty(entries)

	s.NoError(s.adapter.DeleteDirectory(ctx, "missing"), "a missing directory is not an error")
}

func (s *AdapterTestSuite) TestListContents_SkipsTempFilesAndStopsEarly() {
	ctx := s.T().Context()
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		s.Require().NoError(s.adapter.Write(ctx, name, []byte("x"), nil))
	}
	s.Require().NoError(os.WriteFile(filepath.Join(s.root, ".blobfs-upload.tmp"), []byte("partial"), 0o600))

	entries, err := blobfs.Collect(s.adapter.ListContents(ctx, "", false))
	s.Require().NoError(err)
	s.Len(entries, 3)

	count := 0
	for _, err := range s.adapter.ListContents(ctx, "", true) {
		s.Require().NoError(err)
		count++
		if count == 2 {
			break
		}
	}
	s.Equal(2, count)

	entries, err = blobfs.Collect(s.adapter.ListContents(ctx, "missing", true))
	s.NoError(err)
	s.Empty(entries)
}

func (s *AdapterTestSuite) TestListContents_DeepPathsAreRelativeToTheRoot() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "dir/sub/a.txt", []byte("abc"), nil))

	entries, err := blobfs.Collect(s.adapter.ListContents(ctx, "dir", true))
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("dir/sub", entries[0].Path)
	s.True(entries[0].IsDir())
	s.Equal("dir/sub/a.txt", entries[1].Path)
	s.EqualValues(3, *entries[1].FileSize)
}

func (s *AdapterTestSuite) TestMimeType() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "image", []byte("\x89PNG\r\n\x1a\n"), nil))

	attrs, err := s.adapter.MimeType(ctx, "image")
	s.Require().NoError(err)
	s.Equal("image/png", attrs.MimeType)

	_, err = s.adapter.MimeType(ctx, "missing")
	s.ErrorIs(err, blobfs.ErrNotExist)
}

func (s *AdapterTestSuite) TestPublicURL() {
	_, err := s.adapter.PublicURL(s.T().Context(), "a b.txt", nil)
	s.ErrorIs(err, blobfs.ErrUnsupported)

	adapter := NewAdapter(WithOptions(Options{Root: s.root, PublicURLBase: "https://files.example.com/"}), WithClient(s.client))
	u, err := adapter.PublicURL(s.T().Context(), "dir/a b.txt", nil)
	s.NoError(err)
	s.Equal("https://files.example.com/dir/a%20b.txt", u)
}

// noPosixRename is a server without the posix-rename extension.
type noPosixRename struct {
	*_sftp.Client
}

func (noPosixRename) PosixRename(string, string) error {
	return &_sftp.StatusError{Code: uint32(_sftp.ErrSSHFxOpUnsupported)}
}

func (s *AdapterTestSuite) TestWrite_OverwritesWithoutPosixRename() {
	ctx := s.T().Context()
	adapter := NewAdapter(WithRoot(s.root), WithClient(noPosixRename{s.client}))

	s.Require().NoError(adapter.Write(ctx, "a.txt", []byte("old"), nil))
	s.Require().NoError(adapter.Write(ctx, "a.txt", []byte("new"), nil))

	b, err := os.ReadFile(filepath.Join(s.root, "a.txt"))
	s.Require().NoError(err)
	s.Equal("new", string(b))
}

// failingRename refuses every rename.
type failingRename struct {
	*_sftp.Client
}

func (failingRename) PosixRename(string, string) error { return os.ErrPermission }

func (s *AdapterTestSuite) TestWrite_FailedRenameKeepsTheOldFile() {
	ctx := s.T().Context()
	s.Require().NoError(s.adapter.Write(ctx, "a.txt", []byte("old"), nil))

	adapter := NewAdapter(WithRoot(s.root), WithClient(failingRename{s.client}))
	err := adapter.Write(ctx, "a.txt", []byte("new"), nil)
	s.ErrorIs(err, os.ErrPermission)
	s.True(blobfs.IsOperation(err, blobfs.OpWrite))

	b, err := os.ReadFile(filepath.Join(s.root, "a.txt"))
	s.Require().NoError(err)
	s.Equal("old", string(b))

	entries, err := os.ReadDir(s.root)
	s.Require().NoError(err)
	s.Len(entries, 1, "the temporary file is removed")
}

func (s *AdapterTestSuite) TestClose() {
	s.NoError(s.adapter.Close())
	s.NoError(s.adapter.Close(), "closing twice is a no-op")
}

func (s *AdapterTestSuite) TestDriver() {
	factory := backend.Driver(DriverName)
	s.Require().NotNil(factory)

	adapter, err := factory(blobfs.Config{
		ConfigHost:                "sftp.example.com",
		ConfigPort:                "2222",
		ConfigUsername:            "uploader",
		ConfigPassword:            "secret",
		ConfigTimeout:             "5s",
		ConfigRoot:                "/upload",
		ConfigDirectoryVisibility: "private",
		utils.ConfigFilePrivate:   "0640",
	})
	s.Require().NoError(err)

	opts := adapter.(*Adapter).Options()
	s.Equal("sftp.example.com", opts.Host)
	s.Equal(2222, opts.Port)
	s.Equal("uploader", opts.Username)
	s.Equal("secret", opts.Password)
	s.Equal("/upload", opts.Root)
	s.Equal(blobfs.Private, opts.DefaultDirectoryVisibility)
	s.Equal(blobfs.Public, opts.DefaultVisibility)
	s.Equal(fs.FileMode(0o640), opts.Permissions.FilePrivate)
	s.Equal(utils.DefaultFilePublic, opts.Permissions.FilePublic)

	_, err = factory(blobfs.Config{})
	s.ErrorIs(err, ErrHostRequired)

	_, err = factory(blobfs.Config{ConfigHost: "h", ConfigVisibility: "world"})
	s.Error(err)
}

func TestAdapter(t *testing.T) {
	suite.Run(t, new(AdapterTestSuite))
}
