package usecase

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/antivirus"
	"go-talent-marketplace/pkg/apperror"
	"go-talent-marketplace/pkg/logger"
	"go-talent-marketplace/pkg/storage"
	"go-talent-marketplace/pkg/upload"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	_ "image/png" // PNG decode support for photo recompression
)

// Photos are recompressed to keep the bucket small; nothing candidate-facing
// needs more than this.
const (
	maxPhotoDimension = 512
	photoJPEGQuality  = 85
)

type documentUsecase struct {
	docs    domain.DocumentRepository
	store   *storage.Store
	scanner antivirus.Scanner
	limiter *upload.Limiter
}

func NewDocumentUsecase(
	docs domain.DocumentRepository,
	store *storage.Store,
	scanner antivirus.Scanner,
	limiter *upload.Limiter,
) domain.DocumentUsecase {
	return &documentUsecase{
		docs:    docs,
		store:   store,
		scanner: scanner,
		limiter: limiter,
	}
}

// kindFor maps a document type to the file family it accepts.
func kindFor(docType domain.DocumentType, filename string) upload.Kind {
	switch docType {
	case domain.DocumentPhoto:
		return upload.KindImage
	case domain.DocumentCV, domain.DocumentCertificate:
		return upload.KindDocument
	default:
		// OTHER accepts both families; pick by extension
		if upload.IsImageExtension(filepath.Ext(filename)) {
			return upload.KindImage
		}
		return upload.KindDocument
	}
}

func (u *documentUsecase) Upload(ctx context.Context, ownerID, ip string, up *domain.DocumentUpload) (*domain.Document, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != ownerID {
		return nil, apperror.Forbidden("You can only upload your own documents")
	}

	if u.store == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, "Document storage is not configured", nil)
	}

	if !up.Type.IsValid() {
		return nil, apperror.BadRequest("Unknown document type")
	}
	if len(up.Data) == 0 {
		return nil, apperror.BadRequest("File is empty")
	}
	if len(up.Data) > domain.MaxDocumentSize {
		return nil, apperror.BadRequest("File exceeds the 10MB limit")
	}

	if u.limiter != nil {
		allowed, retryAfter, err := u.limiter.Allow(ctx, ip, ownerID)
		if err != nil {
			logger.Log.Warn("upload quota check degraded", "error", err)
		}
		if !allowed {
			return nil, apperror.New(http.StatusTooManyRequests,
				fmt.Sprintf("Upload limit reached, retry in %d seconds", retryAfter), nil)
		}
	}

	detectedMIME := http.DetectContentType(up.Data)
	check := upload.Validate(up.FileName, up.Data, detectedMIME, kindFor(up.Type, up.FileName))
	if !check.Valid {
		return nil, apperror.BadRequest(check.Error)
	}

	if u.scanner != nil {
		scan := u.scanner.Scan(ctx, up.FileName, up.Data)
		if scan.Infected {
			logger.Log.Warn("upload rejected by malware scan",
				"owner_id", ownerID,
				"scanner", scan.ScannerName,
				"threat", scan.ThreatName,
				"error", scan.Error,
			)
			return nil, apperror.BadRequest("File failed the malware scan")
		}
	}

	data := up.Data
	contentType := detectedMIME
	ext := check.Extension
	if up.Type == domain.DocumentPhoto && (ext == ".jpg" || ext == ".jpeg" || ext == ".png") {
		if compressed, err := recompressPhoto(data); err == nil {
			data = compressed
			contentType = "image/jpeg"
			ext = ".jpg"
		} else {
			logger.Log.Warn("photo recompression failed, storing original", "error", err)
		}
	}

	doc := &domain.Document{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Type:        up.Type,
		FileName:    up.FileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
		CreatedAt:   time.Now(),
	}
	doc.StorageKey = fmt.Sprintf("%s/%s/%s%s", ownerID, strings.ToLower(string(up.Type)), doc.ID, ext)

	if err := u.store.Put(ctx, doc.StorageKey, contentType, data); err != nil {
		return nil, apperror.Internal(err)
	}
	if err := u.docs.Create(ctx, doc); err != nil {
		// Best effort cleanup so the bucket does not accumulate orphans
		if delErr := u.store.Delete(ctx, doc.StorageKey); delErr != nil {
			logger.Log.Warn("failed to clean up orphaned object", "key", doc.StorageKey, "error", delErr)
		}
		return nil, apperror.Internal(err)
	}

	return doc, nil
}

// recompressPhoto scales the image down to maxPhotoDimension and re-encodes
// it as JPEG.
func recompressPhoto(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxPhotoDimension || h > maxPhotoDimension {
		scale := float64(maxPhotoDimension) / float64(max(w, h))
		w = int(float64(w) * scale)
		h = int(float64(h) * scale)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: photoJPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

func (u *documentUsecase) ListMine(ctx context.Context, ownerID string) ([]domain.Document, error) {
	ctxUserID, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || ctxUserID == "" {
		return nil, apperror.Unauthorized("User not authenticated")
	}
	if ctxUserID != ownerID {
		return nil, apperror.Forbidden("You can only list your own documents")
	}
	return u.docs.ListByOwner(ctx, ownerID)
}

func (u *documentUsecase) ResolveURL(ctx context.Context, userID, documentID string) (string, error) {
	doc, err := u.docs.GetByID(ctx, documentID)
	if err != nil {
		return "", apperror.Internal(err)
	}
	if doc == nil {
		return "", apperror.NotFound("Document not found")
	}

	role, _ := ctx.Value(domain.KeyUserRole).(string)
	if doc.OwnerID != userID && role != domain.RoleAdmin {
		return "", apperror.Forbidden("You cannot access this document")
	}

	if u.store == nil {
		return "", apperror.New(http.StatusServiceUnavailable, "Document storage is not configured", nil)
	}

	url, err := u.store.PresignGet(ctx, doc.StorageKey, 15*time.Minute)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return url, nil
}
