package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"trading-ops-dashboard/internal/params"
)

// GetInstanceParameters fetches the authoritative parameter object for an
// instance. The payload is returned raw; materialization and reconciliation
// happen in the params package.
func (c *Client) GetInstanceParameters(ctx context.Context, instanceID string) (params.RawParams, error) {
	var data struct {
		RawParameters params.RawParams `json:"raw_parameters"`
	}
	path := fmt.Sprintf("/api/running/instances/%s/parameters", url.PathEscape(instanceID))
	if err := c.do(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, err
	}
	return data.RawParameters, nil
}

// SaveInstanceParameters writes the flattened parameter body to the running
// instance.
func (c *Client) SaveInstanceParameters(ctx context.Context, instanceID string, flat map[string]interface{}) error {
	path := fmt.Sprintf("/api/running/instances/%s/parameters", url.PathEscape(instanceID))
	return c.do(ctx, http.MethodPost, path, flat, nil)
}

// SaveProfileConfig persists the same flattened body to the account profile
// so it survives instance restarts.
func (c *Client) SaveProfileConfig(ctx context.Context, platform, account string, flat map[string]interface{}) error {
	path := fmt.Sprintf("/api/profiles/%s/%s/config", url.PathEscape(platform), url.PathEscape(account))
	return c.do(ctx, http.MethodPost, path, flat, nil)
}
