package textextract

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadFixture(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestFromUploadPlainText(t *testing.T) {
	fh := uploadFixture(t, "visit.txt", []byte("Patient reports chest pain."))

	text, err := FromUpload(fh)
	require.NoError(t, err)
	assert.Equal(t, "Patient reports chest pain.", text)
}

func TestFromUploadUnsupportedExtension(t *testing.T) {
	fh := uploadFixture(t, "scan.pdf", []byte("%PDF-1.4"))

	_, err := FromUpload(fh)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFromUploadRejectsBinaryContent(t *testing.T) {
	fh := uploadFixture(t, "notes.txt", []byte{0xff, 0xfe, 0x00, 0x01})

	_, err := FromUpload(fh)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
