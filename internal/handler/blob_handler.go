package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/campushq/studentdesk-backend/internal/response"
	"github.com/campushq/studentdesk-backend/internal/service"
	"github.com/campushq/studentdesk-backend/internal/validator"
)

// BlobHandler issues signed upload URLs for direct-to-storage uploads.
type BlobHandler struct {
	sas *service.BlobSASService
	log zerolog.Logger
}

// NewBlobHandler creates a new BlobHandler.
func NewBlobHandler(sas *service.BlobSASService, log zerolog.Logger) *BlobHandler {
	return &BlobHandler{sas: sas, log: log}
}

// UploadTargetRequest is the payload for requesting a signed upload URL.
type UploadTargetRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// CreateUploadTarget godoc
// POST /api/blob-sas
// Returns {uploadUrl, publicUrl}; the signed uploadUrl grants create+write
// on a single fresh blob name and expires after the configured window.
func (h *BlobHandler) CreateUploadTarget(c *gin.Context) {
	var req UploadTargetRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.ValidationError(c, fields)
		return
	}

	target, err := h.sas.IssueUploadTarget(req.Filename, req.ContentType)
	if err != nil {
		h.log.Error().Err(err).Str("filename", req.Filename).Msg("sas issuance failed")
		response.PlainError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	response.JSON(c, http.StatusOK, target)
}
