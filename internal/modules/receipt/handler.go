package receipt

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"backline/internal/middleware"
	"backline/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/receipts", h.Upload)
}

func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/receipts/:id", h.GetReceipt)
	rg.POST("/receipts/cleanup", h.Cleanup)
}

func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("receipt")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Receipt file is required")
		return
	}

	r, err := h.service.Upload(c.Request.Context(), fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Receipt file is empty")
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusBadRequest, "FILE_TOO_LARGE", "Receipt image must be smaller than 5MB")
		case errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Receipt must be a JPG, PNG or WebP image")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to upload receipt")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"receipt": gin.H{
			"id":        r.ID,
			"mime_type": r.MimeType,
			"size":      r.Size,
		},
	})
}

// GetReceipt serves the stored image to the admin panel.
func (h *Handler) GetReceipt(c *gin.Context) {
	r, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "RECEIPT_NOT_FOUND", "Receipt not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load receipt")
		return
	}
	if len(r.Data) == 0 {
		response.Error(c, http.StatusGone, "RECEIPT_PURGED", "Receipt image was purged")
		return
	}

	c.Data(http.StatusOK, r.MimeType, r.Data)
}

func (h *Handler) Cleanup(c *gin.Context) {
	count, bytesFreed, err := h.service.PurgeOld(c.Request.Context(), middleware.AdminFrom(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Cleanup failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"cleaned_count": count,
		"bytes_freed":   bytesFreed,
	})
}
