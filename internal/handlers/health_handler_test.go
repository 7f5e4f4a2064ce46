package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	handler := NewHealthHandler(fakePinger{})
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/healthcheck", http.NoBody)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	handler := NewHealthHandler(fakePinger{err: errors.New("connection refused")})
	router := gin.New()
	router.GET("/healthcheck", handler.Healthcheck)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/healthcheck", http.NoBody))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","reason":"database unreachable"}`, w.Body.String())
}
