package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"trading-ops-dashboard/internal/auth"
	"trading-ops-dashboard/internal/backend"
	"trading-ops-dashboard/internal/database"
	"trading-ops-dashboard/internal/params"
)

// backendError maps a backend failure to an API response, preserving the
// backend's status and message where it provided one.
func backendError(c *gin.Context, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		errorResponse(c, apiErr.StatusCode, apiErr.Message)
		return
	}
	errorResponse(c, http.StatusBadGateway, err.Error())
}

// recordAudit appends an audit event, attributing it to the authenticated
// operator when auth is on. Audit failures are logged, never surfaced.
func (s *Server) recordAudit(c *gin.Context, action, instanceID, detail string) {
	if s.audit == nil {
		return
	}
	operatorID, username := auth.OperatorFromContext(c)
	event := database.AuditEvent{
		OperatorID:   operatorID,
		OperatorName: username,
		Action:       action,
		InstanceID:   instanceID,
		Detail:       detail,
	}
	if err := s.audit.RecordAuditEvent(c.Request.Context(), event); err != nil {
		s.logger.Error().Err(err).Str("action", action).Msg("failed to record audit event")
	}
}

func (s *Server) handleListInstances(c *gin.Context) {
	instances, err := s.backend.ListInstances(c.Request.Context())
	if err != nil {
		backendError(c, err)
		return
	}
	successResponse(c, gin.H{"instances": instances})
}

func (s *Server) handleStartInstance(c *gin.Context) {
	id := c.Param("id")
	if err := s.backend.StartInstance(c.Request.Context(), id); err != nil {
		backendError(c, err)
		return
	}
	s.recordAudit(c, database.AuditActionStart, id, "")
	s.hub.BroadcastInstanceEvent(id, "started")
	successResponse(c, gin.H{"instance_id": id, "status": "running"})
}

func (s *Server) handleStopInstance(c *gin.Context) {
	id := c.Param("id")
	if err := s.backend.StopInstance(c.Request.Context(), id); err != nil {
		backendError(c, err)
		return
	}
	s.recordAudit(c, database.AuditActionStop, id, "")
	s.hub.BroadcastInstanceEvent(id, "stopped")
	successResponse(c, gin.H{"instance_id": id, "status": "stopped"})
}

func (s *Server) handleDeleteInstance(c *gin.Context) {
	id := c.Param("id")
	if err := s.backend.DeleteInstance(c.Request.Context(), id); err != nil {
		backendError(c, err)
		return
	}
	s.recordAudit(c, database.AuditActionDelete, id, "")
	if s.balances != nil {
		s.balances.Invalidate(c.Request.Context())
	}
	s.hub.BroadcastInstanceEvent(id, "deleted")
	successResponse(c, gin.H{"instance_id": id, "status": "deleted"})
}

// handleGetInstanceParameters returns the materialized parameter view for an
// instance without opening an editor session. Whatever the backend holds is
// rendered through the defaulting engine, so the response is always complete.
func (s *Server) handleGetInstanceParameters(c *gin.Context) {
	id := c.Param("id")
	raw, err := s.backend.GetInstanceParameters(c.Request.Context(), id)
	if err != nil {
		backendError(c, err)
		return
	}
	successResponse(c, gin.H{
		"instance_id": id,
		"parameters":  params.Materialize(raw),
	})
}

func (s *Server) handleListTemplates(c *gin.Context) {
	successResponse(c, gin.H{"templates": params.Templates()})
}

func (s *Server) handleAccountBalances(c *gin.Context) {
	ctx := c.Request.Context()

	if s.balances != nil {
		if cached, ok := s.balances.Get(ctx); ok {
			successResponse(c, gin.H{"balances": cached, "cached": true})
			return
		}
	}

	balances, err := s.backend.ListAccountBalances(ctx)
	if err != nil {
		backendError(c, err)
		return
	}
	if s.balances != nil {
		s.balances.Set(ctx, balances)
	}
	successResponse(c, gin.H{"balances": balances, "cached": false})
}

func logQueryFromRequest(c *gin.Context) backend.LogQuery {
	q := backend.LogQuery{
		InstanceID: c.Query("instance_id"),
		Level:      c.Query("level"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}
	if since, err := time.Parse(time.RFC3339, c.Query("since")); err == nil {
		q.Since = since
	}
	return q
}

func (s *Server) handleGetLogs(c *gin.Context) {
	logs, err := s.backend.GetLogs(c.Request.Context(), logQueryFromRequest(c))
	if err != nil {
		backendError(c, err)
		return
	}
	successResponse(c, gin.H{"logs": logs})
}

// handleExportLogs streams the filtered logs as CSV.
func (s *Server) handleExportLogs(c *gin.Context) {
	logs, err := s.backend.GetLogs(c.Request.Context(), logQueryFromRequest(c))
	if err != nil {
		backendError(c, err)
		return
	}

	filename := fmt.Sprintf("logs-%s.csv", time.Now().Format("20060102-150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)

	writer := csv.NewWriter(c.Writer)
	writer.Write([]string{"timestamp", "level", "instance_id", "message"})
	for _, record := range logs {
		writer.Write([]string{
			record.Timestamp.Format(time.RFC3339),
			record.Level,
			record.InstanceID,
			record.Message,
		})
	}
	writer.Flush()
}

func (s *Server) handleListAudit(c *gin.Context) {
	if s.audit == nil {
		errorResponse(c, http.StatusNotImplemented, "audit trail is not configured")
		return
	}

	limit := 100
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	events, err := s.audit.ListAuditEvents(c.Request.Context(), c.Query("instance_id"), limit)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	successResponse(c, gin.H{"events": events})
}
