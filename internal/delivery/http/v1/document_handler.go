package v1

import (
	"io"
	"net/http"
	"strings"

	"go-talent-marketplace/internal/delivery/http/response"
	"go-talent-marketplace/internal/domain"
	"go-talent-marketplace/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	documentUC domain.DocumentUsecase
}

func NewDocumentHandler(protected *gin.RouterGroup, documentUC domain.DocumentUsecase) {
	handler := &DocumentHandler{documentUC: documentUC}

	documents := protected.Group("/documents")
	{
		documents.POST("", handler.Upload)
		documents.GET("", handler.ListMine)
		documents.GET("/:id/url", handler.ResolveURL)
	}
}

// Upload godoc
// @Summary      Upload a document
// @Description  Upload a CV, certificate or photo (multipart form, max 10MB)
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true  "File to upload"
// @Param        type  formData  string  true  "Document type (CV, CERTIFICATE, PHOTO, OTHER)"
// @Success      201   {object}  response.Response{data=domain.Document}
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /documents [post]
// @Security     BearerAuth
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("A file is required"))
		return
	}
	if fileHeader.Size > domain.MaxDocumentSize {
		c.Error(apperror.BadRequest("File exceeds the 10MB limit"))
		return
	}

	docType := domain.DocumentType(strings.ToUpper(c.PostForm("type")))
	if !docType.IsValid() {
		c.Error(apperror.BadRequest("type must be one of CV, CERTIFICATE, PHOTO, OTHER"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	defer file.Close()

	// Cap the read one byte past the limit so oversized bodies with a lying
	// Content-Length still get rejected
	data, err := io.ReadAll(io.LimitReader(file, domain.MaxDocumentSize+1))
	if err != nil {
		c.Error(apperror.Internal(err))
		return
	}
	if len(data) > domain.MaxDocumentSize {
		c.Error(apperror.BadRequest("File exceeds the 10MB limit"))
		return
	}

	doc, err := h.documentUC.Upload(c.Request.Context(), userID, c.ClientIP(), &domain.DocumentUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Type:        docType,
		Data:        data,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Document uploaded", doc)
}

// ListMine godoc
// @Summary      List my documents
// @Tags         documents
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Document}
// @Failure      401  {object}  response.Response
// @Router       /documents [get]
// @Security     BearerAuth
func (h *DocumentHandler) ListMine(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	docs, err := h.documentUC.ListMine(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Documents", docs)
}

// ResolveURL godoc
// @Summary      Get a download URL
// @Description  Get a short-lived presigned URL for viewing a document
// @Tags         documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /documents/{id}/url [get]
// @Security     BearerAuth
func (h *DocumentHandler) ResolveURL(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))
	documentID := c.Param("id")

	url, err := h.documentUC.ResolveURL(c.Request.Context(), userID, documentID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Document URL", gin.H{"url": url})
}
