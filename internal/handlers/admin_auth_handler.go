package handlers

import (
	"errors"
	"net/http"

	"github.com/certiswift/certiswift-api/internal/middleware"
	"github.com/certiswift/certiswift-api/internal/models"
	"github.com/certiswift/certiswift-api/internal/services"
	pkgerrors "github.com/certiswift/certiswift-api/pkg/errors"
	"github.com/gin-gonic/gin"
)

// AdminAuthHandler handles dashboard login, session and account endpoints.
type AdminAuthHandler struct {
	service services.AdminAuthServiceInterface
}

func NewAdminAuthHandler(service services.AdminAuthServiceInterface) *AdminAuthHandler {
	return &AdminAuthHandler{service: service}
}

func (h *AdminAuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, bindError(err), "Login failed")
		return
	}

	session, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUnauthorized) {
			respondError(c, http.StatusUnauthorized, "Invalid email or password", err)
			return
		}
		respondServiceError(c, err, "Login failed")
		return
	}

	middleware.SetAdminSessionCookie(c, session.Token, h.service.SessionTTL(), h.service.CookieSecure())

	c.JSON(http.StatusOK, models.AdminLoginResponse{
		Success: true,
		Session: session,
	})
}

// Logout revokes the current session, if any, and clears the cookie
func (h *AdminAuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.AdminSessionCookieName); err == nil {
		h.service.Logout(token)
	}
	middleware.ClearAdminSessionCookie(c, h.service.CookieSecure())

	c.JSON(http.StatusOK, models.AdminLogoutResponse{Success: true})
}

func (h *AdminAuthHandler) GetSession(c *gin.Context) {
	session, err := middleware.GetAdminSession(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Not authenticated", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

func (h *AdminAuthHandler) CreateAdmin(c *gin.Context) {
	var req models.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondServiceError(c, bindError(err), "Failed to create admin")
		return
	}

	admin, err := h.service.CreateAdmin(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "Failed to create admin")
		return
	}

	c.JSON(http.StatusCreated, models.CreateAdminResponse{
		Success: true,
		Admin:   admin,
	})
}

func (h *AdminAuthHandler) TestConnection(c *gin.Context) {
	c.JSON(http.StatusOK, models.TestConnectionResponse{
		Connected: h.service.TestConnection(c.Request.Context()),
	})
}
