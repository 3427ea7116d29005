// Package vault stores the per-platform API tokens the dashboard uses to
// talk to trading backends. With Vault disabled the client degrades to an
// in-memory store for development.
package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/vault/api"

	"trading-ops-dashboard/config"
)

// Credential is one backend credential stored per platform.
type Credential struct {
	Platform string `json:"platform"`
	BaseURL  string `json:"base_url"`
	APIToken string `json:"api_token"`
}

// Client wraps the HashiCorp Vault client with a local read cache.
type Client struct {
	client *api.Client
	config config.VaultConfig
	mu     sync.RWMutex
	cache  map[string]*Credential // platform -> credential
}

// NewClient creates a Vault client. When Vault is disabled the client works
// purely off its in-memory cache.
func NewClient(cfg config.VaultConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{
			config: cfg,
			cache:  make(map[string]*Credential),
		}, nil
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSEnabled && cfg.CACert != "" {
		tlsConfig := &api.TLSConfig{
			CACert: cfg.CACert,
		}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	return &Client{
		client: client,
		config: cfg,
		cache:  make(map[string]*Credential),
	}, nil
}

// StoreCredential stores a platform credential in Vault (or the local cache
// when Vault is disabled).
func (c *Client) StoreCredential(ctx context.Context, cred Credential) error {
	if !c.config.Enabled {
		c.mu.Lock()
		c.cache[cred.Platform] = &cred
		c.mu.Unlock()
		return nil
	}

	path := c.secretPath(cred.Platform)
	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"platform":  cred.Platform,
			"base_url":  cred.BaseURL,
			"api_token": cred.APIToken,
		},
	}

	if _, err := c.client.Logical().WriteWithContext(ctx, path, secretData); err != nil {
		return fmt.Errorf("failed to store credential in vault: %w", err)
	}

	c.mu.Lock()
	c.cache[cred.Platform] = &cred
	c.mu.Unlock()
	return nil
}

// GetCredential returns the credential for a platform, preferring the local
// cache over a Vault round trip.
func (c *Client) GetCredential(ctx context.Context, platform string) (*Credential, error) {
	c.mu.RLock()
	if cached, ok := c.cache[platform]; ok {
		c.mu.RUnlock()
		return cached, nil
	}
	c.mu.RUnlock()

	if !c.config.Enabled {
		return nil, fmt.Errorf("credential for %s not found and vault is disabled", platform)
	}

	secret, err := c.client.Logical().ReadWithContext(ctx, c.secretPath(platform))
	if err != nil {
		return nil, fmt.Errorf("failed to read credential from vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("credential for %s not found", platform)
	}

	// KV v2 nests the payload under "data".
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected secret format for %s", platform)
	}

	cred := &Credential{Platform: platform}
	if v, ok := data["base_url"].(string); ok {
		cred.BaseURL = v
	}
	if v, ok := data["api_token"].(string); ok {
		cred.APIToken = v
	}
	if cred.APIToken == "" {
		return nil, fmt.Errorf("credential for %s has no api_token", platform)
	}

	c.mu.Lock()
	c.cache[platform] = cred
	c.mu.Unlock()
	return cred, nil
}

// DeleteCredential removes a platform credential from Vault and the cache.
func (c *Client) DeleteCredential(ctx context.Context, platform string) error {
	c.mu.Lock()
	delete(c.cache, platform)
	c.mu.Unlock()

	if !c.config.Enabled {
		return nil
	}

	if _, err := c.client.Logical().DeleteWithContext(ctx, c.secretPath(platform)); err != nil {
		return fmt.Errorf("failed to delete credential from vault: %w", err)
	}
	return nil
}

func (c *Client) secretPath(platform string) string {
	mount := c.config.MountPath
	if mount == "" {
		mount = "secret"
	}
	prefix := c.config.SecretPath
	if prefix == "" {
		prefix = "dashboard/platforms"
	}
	return fmt.Sprintf("%s/data/%s/%s", mount, prefix, platform)
}
