package handlers

import (
	"net/http"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/services"
	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service services.ImageServiceInterface
}

func NewUploadHandler(service services.ImageServiceInterface) *UploadHandler {
	return &UploadHandler{service: service}
}

// UploadImage stores a base64 course image and returns its URL
func (h *UploadHandler) UploadImage(c *gin.Context) {
	var req models.UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, bindError(err), "Failed to upload image")
		return
	}

	url, err := h.service.UploadEncoded(c.Request.Context(), req.Image, req.ContentType)
	if err != nil {
		respondServiceError(c, err, "Failed to upload image")
		return
	}

	c.JSON(http.StatusCreated, models.UploadImageResponse{
		Success:  true,
		ImageURL: url,
	})
}
