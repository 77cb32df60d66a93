package utils

import (
	"bytes"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/c2fo/blobfs"
)

// MimeSniffLength is how many leading bytes of content are inspected when neither the config nor the file extension
// give away a mime type.
const MimeSniffLength = 3072

// DetectMimeType resolves the mime type of a file about to be written. An explicit mimetype in cfg wins, then the file
// extension, then the leading bytes of contents.
func DetectMimeType(filePath string, contents []byte, cfg blobfs.Config) string {
	if mt := cfg.String(blobfs.OptionMimeType, ""); mt != "" {
		return mt
	}
	if mt := MimeTypeByExtension(filePath); mt != "" {
		return mt
	}
	if len(contents) > MimeSniffLength {
		contents = contents[:MimeSniffLength]
	}
	return stripParams(mimetype.Detect(contents).String())
}

// DetectMimeTypeReader is DetectMimeType for streamed writes. It returns the mime type along with a reader that
// yields the full, unconsumed content of r.
func DetectMimeTypeReader(filePath string, r io.Reader, cfg blobfs.Config) (string, io.Reader, error) {
	if mt := cfg.String(blobfs.OptionMimeType, ""); mt != "" {
		return mt, r, nil
	}
	if mt := MimeTypeByExtension(filePath); mt != "" {
		return mt, r, nil
	}
	head := make([]byte, MimeSniffLength)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, WrapReadError(err)
	}
	head = head[:n]
	return stripParams(mimetype.Detect(head).String()), io.MultiReader(bytes.NewReader(head), r), nil
}

// MimeTypeByExtension returns the registered mime type of the file extension of filePath, without parameters, or ""
// when the extension is unknown.
func MimeTypeByExtension(filePath string) string {
	ext := path.Ext(filePath)
	if ext == "" {
		return ""
	}
	return stripParams(mime.TypeByExtension(strings.ToLower(ext)))
}

func stripParams(mt string) string {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return strings.TrimSpace(mt)
}
