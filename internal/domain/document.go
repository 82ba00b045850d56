package domain

import (
	"context"
	"time"
)

// DocumentType classifies an uploaded file.
type DocumentType string

const (
	DocumentCV          DocumentType = "CV"
	DocumentCertificate DocumentType = "CERTIFICATE"
	DocumentPhoto       DocumentType = "PHOTO"
	DocumentOther       DocumentType = "OTHER"
)

// IsValid checks if the document type is a known value
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentCV, DocumentCertificate, DocumentPhoto, DocumentOther:
		return true
	}
	return false
}

// MaxDocumentSize is the upload cap in bytes.
const MaxDocumentSize = 10 << 20 // 10MB

type Document struct {
	ID          string       `json:"id"` // UUID
	OwnerID     string       `json:"owner_id"`
	Type        DocumentType `json:"type"`
	FileName    string       `json:"file_name"`
	ContentType string       `json:"content_type"`
	SizeBytes   int64        `json:"size_bytes"`
	StorageKey  string       `json:"-"` // Object key in the bucket, never exposed
	CreatedAt   time.Time    `json:"created_at"`
}

// DocumentUpload is the inbound file before validation and storage.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Type        DocumentType
	Data        []byte
}

type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Document, error)
}

type DocumentUsecase interface {
	// Upload validates, scans and stores a file, returning the stored
	// document record. ip is used for upload quota tracking.
	Upload(ctx context.Context, ownerID, ip string, upload *DocumentUpload) (*Document, error)

	ListMine(ctx context.Context, ownerID string) ([]Document, error)

	// ResolveURL returns a short-lived presigned URL for viewing the
	// document. Only the owner or an admin may resolve it.
	ResolveURL(ctx context.Context, userID, documentID string) (string, error)
}
