package utils_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/c2fo/blobfs"
	"github.com/c2fo/blobfs/utils"
)

type utilsSuite struct {
	suite.Suite
}

func (s *utilsSuite) TestRemoveSlashes() {
	s.Equal("some/path", utils.RemoveTrailingSlash("some/path//"))
	s.Equal("some/path/", utils.RemoveLeadingSlash("//some/path/"))
}

func (s *utilsSuite) TestValidatePrefix() {
	s.NoError(utils.ValidatePrefix("some/prefix"))
	s.NoError(utils.ValidatePrefix("."))
	s.EqualError(utils.ValidatePrefix(""), utils.ErrBadPrefix)
	s.EqualError(utils.ValidatePrefix("/some"), utils.ErrBadPrefix)
	s.EqualError(utils.ValidatePrefix("some/"), utils.ErrBadPrefix)
}

func (s *utilsSuite) TestPathPrefixer() {
	tests := []struct {
		prefix    string
		path      string
		file      string
		directory string
		message   string
	}{
		{prefix: "", path: "a/b.txt", file: "a/b.txt", directory: "a/b.txt/", message: "no prefix"},
		{prefix: "root", path: "a/b.txt", file: "root/a/b.txt", directory: "root/a/b.txt/", message: "plain prefix"},
		{prefix: "/root/", path: "a", file: "root/a", directory: "root/a/", message: "prefix with slashes"},
		{prefix: "root", path: "", file: "root/", directory: "root/", message: "root path"},
		{prefix: "", path: "", file: "", directory: "", message: "root path without prefix"},
	}

	for _, tt := range tests {
		s.Run(tt.message, func() {
			p := utils.NewPathPrefixer(tt.prefix)
			s.Equal(tt.file, p.PrefixPath(tt.path))
			s.Equal(tt.directory, p.PrefixDirectoryPath(tt.path))
			s.Equal(tt.path, p.StripPrefix(p.PrefixPath(tt.path)))
			s.Equal(tt.path, p.StripDirectoryPrefix(p.PrefixDirectoryPath(tt.path)))
		})
	}
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

type countingWriter struct {
	bytes.Buffer
	calls int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.calls++
	return w.Buffer.Write(p)
}

func (s *utilsSuite) TestTouchCopyBuffered() {
	w := &countingWriter{}
	n, err := utils.TouchCopyBuffered(w, strings.NewReader("hello world"), 0)
	s.NoError(err)
	s.EqualValues(11, n)
	s.Equal("hello world", w.String())

	empty := &countingWriter{}
	n, err = utils.TouchCopyBuffered(empty, strings.NewReader(""), 1024)
	s.NoError(err)
	s.Zero(n)
	s.Equal(1, empty.calls, "an empty source still results in a write")

	_, err = utils.TouchCopyBuffered(errWriter{}, strings.NewReader("data"), 0)
	s.EqualError(err, "write failed")
}

func (s *utilsSuite) TestDetectMimeType() {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	s.Equal("application/x-custom", utils.DetectMimeType("file.png", png, blobfs.Config{blobfs.OptionMimeType: "application/x-custom"}),
		"explicit config wins")
	s.Equal("application/json", utils.DetectMimeType("data.json", []byte("not json"), nil), "extension beats content")
	s.Equal("image/png", utils.DetectMimeType("no-extension", png, nil), "content is sniffed last")
	s.Equal("text/plain", utils.DetectMimeType("no-extension", []byte("plain words"), nil))
}

func (s *utilsSuite) TestDetectMimeTypeReader() {
	content := strings.Repeat("plain words ", 1000)
	mt, r, err := utils.DetectMimeTypeReader("no-extension", strings.NewReader(content), nil)
	s.Require().NoError(err)
	s.Equal("text/plain", mt)

	all, err := io.ReadAll(r)
	s.Require().NoError(err)
	s.Equal(content, string(all), "sniffing must not consume the stream")

	mt, _, err = utils.DetectMimeTypeReader("image.PNG", strings.NewReader("x"), nil)
	s.Require().NoError(err)
	s.Equal("image/png", mt)
}

func (s *utilsSuite) TestDirectoryTracker() {
	d := utils.NewDirectoryTracker("")
	s.Equal([]string{"a", "a/b"}, d.Parents("a/b/c.txt"))
	s.Empty(d.Parents("a/b/d.txt"), "directories are reported once")
	s.Equal([]string{"e"}, d.Parents("e/f.txt"))
	s.Empty(d.Parents("top.txt"))
	s.False(d.Add("a"))
	s.True(d.Add("g"))

	d = utils.NewDirectoryTracker("root")
	s.Equal([]string{"root/x"}, d.Parents("root/x/y.txt"))
	s.False(d.Add("root"), "the listing root is never an entry")
	s.False(d.Add(""))
}

func TestUtils(t *testing.T) {
	suite.Run(t, new(utilsSuite))
}
