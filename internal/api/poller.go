package api

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"trading-ops-dashboard/internal/backend"
)

// StatusPoller watches the backend's instance list and pushes changes to
// the websocket hub so open dashboards stay current without refreshing.
type StatusPoller struct {
	backend  BackendAPI
	hub      *Hub
	interval time.Duration
	logger   zerolog.Logger

	lastStatus map[string]string
}

// NewStatusPoller creates a poller. Interval defaults to five seconds.
func NewStatusPoller(backendAPI BackendAPI, hub *Hub, interval time.Duration, logger zerolog.Logger) *StatusPoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &StatusPoller{
		backend:    backendAPI,
		hub:        hub,
		interval:   interval,
		logger:     logger,
		lastStatus: make(map[string]string),
	}
}

// Run polls until the context is cancelled.
func (p *StatusPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *StatusPoller) poll(ctx context.Context) {
	if p.hub.ClientCount() == 0 {
		return
	}

	pollCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	instances, err := p.backend.ListInstances(pollCtx)
	if err != nil {
		p.logger.Debug().Err(err).Msg("status poll failed")
		return
	}

	seen := make(map[string]bool, len(instances))
	for _, inst := range instances {
		seen[inst.ID] = true
		if p.lastStatus[inst.ID] != inst.Status {
			p.lastStatus[inst.ID] = inst.Status
			p.broadcastInstance(inst)
		}
	}
	for id := range p.lastStatus {
		if !seen[id] {
			delete(p.lastStatus, id)
			p.hub.BroadcastInstanceEvent(id, "deleted")
		}
	}
}

func (p *StatusPoller) broadcastInstance(inst backend.Instance) {
	p.hub.Broadcast(Event{
		Type:       "instance_status",
		InstanceID: inst.ID,
		Data: map[string]interface{}{
			"status":    inst.Status,
			"symbol":    inst.Symbol,
			"autoTrade": inst.AutoTrade,
			"pnl":       inst.PnL,
		},
	})
}
