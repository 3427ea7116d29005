package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-ops-dashboard/internal/database"
	"trading-ops-dashboard/internal/editor"
	"trading-ops-dashboard/internal/params"
)

// editorError maps editor failures to HTTP statuses.
func editorError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, editor.ErrSessionNotFound):
		errorResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, editor.ErrInvalidScope),
		errors.Is(err, params.ErrUnknownTemplate),
		errors.Is(err, params.ErrNothingPending),
		errors.Is(err, params.ErrAlreadyPending):
		errorResponse(c, http.StatusBadRequest, err.Error())
	default:
		backendError(c, err)
	}
}

type openEditorRequest struct {
	InstanceID string `json:"instance_id" binding:"required"`
	Platform   string `json:"platform"`
	Account    string `json:"account"`
}

func (s *Server) handleOpenEditor(c *gin.Context) {
	var req openEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.editor.Open(c.Request.Context(), req.InstanceID, req.Platform, req.Account)
	if err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, view)
}

func (s *Server) handleGetEditor(c *gin.Context) {
	view, err := s.editor.Get(c.Param("sessionId"))
	if err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, view)
}

func (s *Server) handleUpdateParameters(c *gin.Context) {
	var p params.InstanceParameters
	if err := c.ShouldBindJSON(&p); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.editor.Update(c.Param("sessionId"), p)
	if err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, view)
}

type templateRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
}

func (s *Server) handleRequestTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	tpl, err := s.editor.RequestTemplate(c.Param("sessionId"), req.TemplateID)
	if err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, gin.H{
		"template":              tpl,
		"confirmation_required": true,
	})
}

func (s *Server) handleConfirmTemplate(c *gin.Context) {
	view, err := s.editor.ConfirmTemplate(c.Param("sessionId"))
	if err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, view)
}

func (s *Server) handleCancelTemplate(c *gin.Context) {
	if err := s.editor.CancelTemplate(c.Param("sessionId")); err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, gin.H{"cancelled": true})
}

type refreshRequest struct {
	Scope string `json:"scope" binding:"required"`
}

func (s *Server) handleRefreshEditor(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	view, err := s.editor.Refresh(c.Request.Context(), c.Param("sessionId"), params.Scope(req.Scope))
	if err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, view)
}

func (s *Server) handleRequestAutoTrade(c *gin.Context) {
	warning, err := s.editor.RequestAutoTrade(c.Param("sessionId"))
	if err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, gin.H{
		"warning":               warning,
		"confirmation_required": true,
	})
}

func (s *Server) handleConfirmAutoTrade(c *gin.Context) {
	sessionID := c.Param("sessionId")
	view, err := s.editor.ConfirmAutoTrade(sessionID)
	if err != nil {
		editorError(c, err)
		return
	}
	s.recordAudit(c, database.AuditActionAutoTradeEnable, view.InstanceID, "session "+sessionID)
	successResponse(c, view)
}

func (s *Server) handleDisableAutoTrade(c *gin.Context) {
	sessionID := c.Param("sessionId")
	view, err := s.editor.DisableAutoTrade(sessionID)
	if err != nil {
		editorError(c, err)
		return
	}
	s.recordAudit(c, database.AuditActionAutoTradeOff, view.InstanceID, "session "+sessionID)
	successResponse(c, view)
}

type saveRequest struct {
	PersistProfile bool `json:"persist_profile"`
}

func (s *Server) handleSaveEditor(c *gin.Context) {
	var req saveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			errorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	sessionID := c.Param("sessionId")
	result, err := s.editor.Save(c.Request.Context(), sessionID, req.PersistProfile)
	if err != nil {
		if errors.Is(err, editor.ErrValidationFailed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   true,
				"message": "parameter validation failed",
				"errors":  result.Errors,
			})
			return
		}
		editorError(c, err)
		return
	}

	view, viewErr := s.editor.Get(sessionID)
	if viewErr == nil {
		s.recordAudit(c, database.AuditActionSaveParameters, view.InstanceID, "session "+sessionID)
	}
	successResponse(c, gin.H{"saved": true, "validation": result})
}

func (s *Server) handleCloseEditor(c *gin.Context) {
	if err := s.editor.Close(c.Param("sessionId")); err != nil {
		editorError(c, err)
		return
	}
	successResponse(c, gin.H{"closed": true})
}
