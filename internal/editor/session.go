// Package editor owns the server-side editing sessions. A session is the
// equivalent of one open settings dialog: exactly one editable copy of the
// instance parameters, plus the confirmation state machines guarding
// templates and auto-trade.
package editor

import (
	"time"

	"trading-ops-dashboard/internal/params"
)

// Session is one open parameter editor. All mutation goes through the
// Manager, which serializes access.
type Session struct {
	ID         string
	InstanceID string
	Platform   string
	Account    string

	Params params.InstanceParameters

	templates params.TemplateConfirm
	autoTrade params.AutoTradeGate

	OpenedAt  time.Time
	UpdatedAt time.Time
}

// View is the snapshot handed to the HTTP layer for rendering.
type View struct {
	SessionID      string                    `json:"session_id"`
	InstanceID     string                    `json:"instance_id"`
	Parameters     params.InstanceParameters `json:"parameters"`
	TemplateState  string                    `json:"template_state"`
	PendingID      string                    `json:"pending_template,omitempty"`
	AutoTradeState string                    `json:"auto_trade_state"`
	OpenedAt       time.Time                 `json:"opened_at"`
	UpdatedAt      time.Time                 `json:"updated_at"`
}

func (s *Session) view() View {
	v := View{
		SessionID:      s.ID,
		InstanceID:     s.InstanceID,
		Parameters:     s.Params.Clone(),
		TemplateState:  s.templates.State().String(),
		AutoTradeState: s.autoTrade.State().String(),
		OpenedAt:       s.OpenedAt,
		UpdatedAt:      s.UpdatedAt,
	}
	if pending, ok := s.templates.Pending(); ok {
		v.PendingID = pending.ID
	}
	return v
}
