package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-ops-dashboard/internal/vault"
)

type credentialRequest struct {
	BaseURL  string `json:"base_url"`
	APIToken string `json:"api_token" binding:"required"`
}

// handleStoreCredential upserts the backend credential for a platform.
// Admin-only when auth is enabled; the token is never echoed back.
func (s *Server) handleStoreCredential(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	platform := c.Param("platform")
	cred := vault.Credential{
		Platform: platform,
		BaseURL:  req.BaseURL,
		APIToken: req.APIToken,
	}
	if err := s.credentials.StoreCredential(c.Request.Context(), cred); err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info().Str("platform", platform).Msg("platform credential stored")
	successResponse(c, gin.H{"platform": platform, "stored": true})
}

func (s *Server) handleDeleteCredential(c *gin.Context) {
	platform := c.Param("platform")
	if err := s.credentials.DeleteCredential(c.Request.Context(), platform); err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info().Str("platform", platform).Msg("platform credential deleted")
	successResponse(c, gin.H{"platform": platform, "deleted": true})
}
