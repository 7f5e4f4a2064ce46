package handlers

import (
	"net/http"

	"github.com/certiswift/certiswift-api/internal/services"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	service services.CatalogServiceInterface
}

func NewCatalogHandler(service services.CatalogServiceInterface) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// GetOptions returns the choices offered by the course form
func (h *CatalogHandler) GetOptions(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.service.Options())
}
