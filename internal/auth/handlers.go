package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler exposes the auth service over gin.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the auth endpoints on a route group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.handleLogin)
	rg.POST("/refresh", h.handleRefresh)
	rg.POST("/logout", h.handleLogout)
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": err.Error()})
		return
	}

	resp, err := h.service.Refresh(c.Request.Context(), req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) handleLogout(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST", "message": err.Error()})
		return
	}
	h.service.Logout(req.RefreshToken)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func writeAuthError(c *gin.Context, err error) {
	if authErr, ok := err.(AuthError); ok {
		status := http.StatusUnauthorized
		if authErr.Code == ErrForbidden.Code {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{"error": authErr.Code, "message": authErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "INTERNAL", "message": "internal error"})
}
