package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Instance is one running strategy instance as reported by the backend.
type Instance struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`
	Account   string    `json:"account"`
	Strategy  string    `json:"strategy"`
	Symbol    string    `json:"symbol"`
	Status    string    `json:"status"` // running, stopped, error
	AutoTrade bool      `json:"autoTrade"`
	PnL       float64   `json:"pnl"`
	StartedAt time.Time `json:"started_at"`
}

// ListInstances returns all strategy instances known to the backend.
func (c *Client) ListInstances(ctx context.Context) ([]Instance, error) {
	var data struct {
		Instances []Instance `json:"instances"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/running/instances", nil, &data); err != nil {
		return nil, err
	}
	return data.Instances, nil
}

// StartInstance asks the backend to start a stopped instance.
func (c *Client) StartInstance(ctx context.Context, instanceID string) error {
	path := fmt.Sprintf("/api/running/instances/%s/start", url.PathEscape(instanceID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// StopInstance asks the backend to stop a running instance.
func (c *Client) StopInstance(ctx context.Context, instanceID string) error {
	path := fmt.Sprintf("/api/running/instances/%s/stop", url.PathEscape(instanceID))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// DeleteInstance removes an instance from the backend entirely.
func (c *Client) DeleteInstance(ctx context.Context, instanceID string) error {
	path := fmt.Sprintf("/api/running/instances/%s", url.PathEscape(instanceID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
