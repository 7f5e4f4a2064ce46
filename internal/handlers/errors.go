package handlers

import (
	"errors"
	"net/http"
	"strconv"

	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends an error JSON response and attaches the error to the gin context
// so the observability middleware can include the reason in the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondErrorWithDetails sends an error response with an additional details field.
func respondErrorWithDetails(c *gin.Context, status int, message string, details any, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message, "details": details})
}

// statusForError maps an error kind to its HTTP status
func statusForError(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pkgerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, pkgerrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, pkgerrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, pkgerrors.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage is the client-facing text for err. Internal failures are not echoed.
func publicMessage(err error, fallback string) string {
	switch statusForError(err) {
	case http.StatusRequestEntityTooLarge:
		return "Request body too large"
	case http.StatusBadRequest, http.StatusNotFound, http.StatusConflict:
		return err.Error()
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusServiceUnavailable:
		return "Image storage is not available"
	default:
		return fallback
	}
}

// respondServiceError maps a service error to a status and JSON body.
// Validation failures carry per-field details.
func respondServiceError(c *gin.Context, err error, fallback string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(verrs), err)
		return
	}

	respondError(c, statusForError(err), publicMessage(err, fallback), err)
}

// parseIDParam reads a positive integer path parameter
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}
