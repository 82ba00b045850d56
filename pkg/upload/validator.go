package upload

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Kind narrows which file families an upload slot accepts.
type Kind string

const (
	// KindDocument accepts CV/certificate style files (pdf, doc, docx).
	KindDocument Kind = "document"
	// KindImage accepts profile photos (jpg, png, webp).
	KindImage Kind = "image"
)

// Result contains the outcome of file validation
type Result struct {
	Valid        bool   // Whether the file passed all checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	Error        string // Reason when validation failed
}

// Magic byte signatures per extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webp": {{0x52, 0x49, 0x46, 0x46}}, // RIFF header
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}}, // ZIP (PK..)
}

// Extension whitelists per upload kind
var allowedByKind = map[Kind]map[string]bool{
	KindDocument: {
		".pdf":  true,
		".doc":  true,
		".docx": true,
	},
	KindImage: {
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	},
}

// Strict MIME whitelist - application/octet-stream is NOT included
var strictMIMETypes = map[string]bool{
	"image/jpeg":         true,
	"image/png":          true,
	"image/webp":         true,
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	// ZIP container (DOCX detection fallback)
	"application/zip": true,
}

// Validate performs 3-layer file validation:
//  1. Extension whitelist for the upload kind
//  2. Magic byte verification (content matches extension)
//  3. MIME type whitelist (application/octet-stream rejected except for
//     OLE/ZIP office documents already proven by magic bytes)
func Validate(filename string, data []byte, detectedMIME string, kind Kind) Result {
	result := Result{DetectedMIME: detectedMIME}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	allowed, ok := allowedByKind[kind]
	if !ok || !allowed[ext] {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if !matchesMagicBytes(ext, data) {
		result.Error = "file content does not match extension (potential file spoofing detected)"
		return result
	}

	if detectedMIME == "application/octet-stream" {
		// Office documents are sometimes sniffed as octet-stream; their
		// magic bytes were already checked above
		if ext != ".doc" && ext != ".docx" {
			result.Error = "binary files not allowed; file type could not be determined"
			return result
		}
	} else if !strictMIMETypes[detectedMIME] {
		result.Error = "MIME type not allowed: " + detectedMIME
		return result
	}

	result.Valid = true
	return result
}

// matchesMagicBytes checks if file content starts with an expected signature
func matchesMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // Too small to validate
	}

	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}

	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// CheckExtension checks only the extension for quick pre-validation.
func CheckExtension(filename string, kind Kind) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("file has no extension")
	}
	if !allowedByKind[kind][ext] {
		return fmt.Errorf("file extension not allowed: %s (allowed: %s)",
			ext, strings.Join(AllowedExtensions(kind), ", "))
	}
	return nil
}

// AllowedExtensions lists the whitelist for error messages.
func AllowedExtensions(kind Kind) []string {
	allowed := allowedByKind[kind]
	extensions := make([]string, 0, len(allowed))
	for ext := range allowed {
		extensions = append(extensions, ext)
	}
	return extensions
}

// IsImageExtension reports whether the extension is an image type.
func IsImageExtension(ext string) bool {
	return allowedByKind[KindImage][strings.ToLower(ext)]
}
