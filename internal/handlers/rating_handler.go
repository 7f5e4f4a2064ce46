package handlers

import (
	"net/http"

	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/services"
	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	service services.RatingServiceInterface
}

func NewRatingHandler(service services.RatingServiceInterface) *RatingHandler {
	return &RatingHandler{service: service}
}

// ListRatings handles GET /api/courses/:id/ratings, newest first with a summary
func (h *RatingHandler) ListRatings(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ratings, err := h.service.ListRatings(c.Request.Context(), courseID)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch ratings")
		return
	}

	c.JSON(http.StatusOK, models.RatingsListResponse{
		Ratings: ratings,
		Summary: models.Summarize(ratings),
	})
}

// CreateRating handles POST /api/courses/:id/ratings
func (h *RatingHandler) CreateRating(c *gin.Context) {
	courseID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, bindError(err), "Failed to submit rating")
		return
	}

	rating, err := h.service.AddRating(c.Request.Context(), courseID, &req)
	if err != nil {
		respondServiceError(c, err, "Failed to submit rating")
		return
	}

	c.JSON(http.StatusCreated, models.CreateRatingResponse{
		Success: true,
		Rating:  rating,
	})
}
