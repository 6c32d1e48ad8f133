package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/models"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/storage"
	"github.com/karmanverma/mortgage-broker-ai-sub001/internal/store"

	"github.com/gin-gonic/gin"
)

// maxUploadBytes caps a single document upload at 25 MB.
const maxUploadBytes = 25 << 20

// DocumentHandler serves document CRUD, the checklist progress view and the
// signed download endpoint.
type DocumentHandler struct {
	stores  *store.Stores
	objects storage.ObjectStore
}

// NewDocumentHandler constructs a DocumentHandler.
func NewDocumentHandler(stores *store.Stores, objects storage.ObjectStore) *DocumentHandler {
	return &DocumentHandler{stores: stores, objects: objects}
}

// List handles GET /api/documents?loanId=...
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	docs, err := h.stores.Documents.List(c.Request.Context(), userID, c.Query("loanId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

// Upload handles POST /api/documents (multipart form: file + metadata fields)
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File exceeds the 25MB upload limit"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	in := store.DocumentUpload{
		Name:        fileHeader.Filename,
		Category:    models.DocumentCategory(c.PostForm("category")),
		LoanID:      c.PostForm("loanId"),
		ClientID:    c.PostForm("clientId"),
		LenderID:    c.PostForm("lenderId"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}
	doc, err := h.stores.Documents.Upload(c.Request.Context(), userID, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// UpdateStatusRequest represents a document status change payload
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	LoanID string `json:"loanId"`
}

// UpdateStatus handles PATCH /api/documents/:id/status
func (h *DocumentHandler) UpdateStatus(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status := models.DocumentStatus(req.Status)
	switch status {
	case models.DocStatusPending, models.DocStatusReceived, models.DocStatusReviewed:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be pending, received or reviewed"})
		return
	}
	doc, err := h.stores.Documents.UpdateStatus(c.Request.Context(), userID, c.Param("id"), req.LoanID, status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /api/documents/:id?loanId=...
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.stores.Documents.Delete(c.Request.Context(), userID, c.Param("id"), c.Query("loanId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully", "id": c.Param("id")})
}

// SignedURL handles GET /api/documents/:id/signed-url
func (h *DocumentHandler) SignedURL(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	url, err := h.stores.Documents.SignedURL(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Progress handles GET /api/loans/:id/documents/progress
func (h *DocumentHandler) Progress(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	progress, err := h.stores.Documents.Progress(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

// ServeFile handles GET /api/files/*path. It is unauthenticated on purpose:
// the HMAC signature in the query string is the credential, so the links can
// be handed to lender systems that hold no session.
func (h *DocumentHandler) ServeFile(c *gin.Context) {
	objectPath := strings.TrimPrefix(c.Param("path"), "/")
	if objectPath == "" || strings.Contains(objectPath, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file path"})
		return
	}

	err := h.objects.VerifySignedURL(objectPath, c.Query("expires"), c.Query("signature"))
	if err != nil {
		if errors.Is(err, storage.ErrBadSignature) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired download link"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify download link"})
		return
	}

	data, err := h.objects.Download(objectPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	c.Data(http.StatusOK, "application/octet-stream", data)
}
