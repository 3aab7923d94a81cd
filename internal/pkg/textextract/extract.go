// FILE: internal/pkg/textextract/extract.go
package textextract

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrUnsupportedFormat means the uploaded file is not a format this
// service can extract text from.
var ErrUnsupportedFormat = errors.New("unsupported document format")

var supportedExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
}

// FromUpload reads the text content of an uploaded document. Only plain
// text formats are supported; binary formats like PDF need a dedicated
// extraction service upstream.
func FromUpload(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !supportedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: file is not valid utf-8 text", ErrUnsupportedFormat)
	}

	return string(data), nil
}
