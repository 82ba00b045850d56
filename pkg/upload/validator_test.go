package upload_test

import (
	"testing"

	"go-talent-marketplace/pkg/upload"

	"github.com/stretchr/testify/assert"
)

var (
	pdfHeader  = []byte("%PDF-1.7 rest of file")
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10}
	pngHeader  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	zipHeader  = []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00}
)

func TestValidate(t *testing.T) {
	t.Run("Should accept a real PDF as a document", func(t *testing.T) {
		res := upload.Validate("cv.pdf", pdfHeader, "application/pdf", upload.KindDocument)
		assert.True(t, res.Valid)
		assert.Equal(t, ".pdf", res.Extension)
	})

	t.Run("Should accept a real JPEG as an image", func(t *testing.T) {
		res := upload.Validate("photo.JPG", jpegHeader, "image/jpeg", upload.KindImage)
		assert.True(t, res.Valid)
		assert.Equal(t, ".jpg", res.Extension)
	})

	t.Run("Should reject a file without an extension", func(t *testing.T) {
		res := upload.Validate("cv", pdfHeader, "application/pdf", upload.KindDocument)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "no extension")
	})

	t.Run("Should reject an image in a document slot", func(t *testing.T) {
		res := upload.Validate("photo.png", pngHeader, "image/png", upload.KindDocument)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "not allowed")
	})

	t.Run("Should reject spoofed content behind a pdf extension", func(t *testing.T) {
		res := upload.Validate("cv.pdf", jpegHeader, "application/pdf", upload.KindDocument)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Error, "does not match extension")
	})

	t.Run("Should reject octet-stream except for office documents", func(t *testing.T) {
		res := upload.Validate("cv.pdf", pdfHeader, "application/octet-stream", upload.KindDocument)
		assert.False(t, res.Valid)

		res = upload.Validate("cv.docx", zipHeader, "application/octet-stream", upload.KindDocument)
		assert.True(t, res.Valid)
	})

	t.Run("Should reject files too small to carry a signature", func(t *testing.T) {
		res := upload.Validate("cv.pdf", []byte{0x25}, "application/pdf", upload.KindDocument)
		assert.False(t, res.Valid)
	})
}

func TestCheckExtension(t *testing.T) {
	assert.NoError(t, upload.CheckExtension("resume.docx", upload.KindDocument))
	assert.Error(t, upload.CheckExtension("script.exe", upload.KindDocument))
	assert.Error(t, upload.CheckExtension("photo.png", upload.KindDocument))
	assert.NoError(t, upload.CheckExtension("photo.webp", upload.KindImage))
}

func TestIsImageExtension(t *testing.T) {
	assert.True(t, upload.IsImageExtension(".png"))
	assert.True(t, upload.IsImageExtension(".JPG"))
	assert.False(t, upload.IsImageExtension(".pdf"))
}
