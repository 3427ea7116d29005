package backend

import (
	"context"
	"net/http"
)

// AccountBalance is the backend's balance snapshot for one account.
type AccountBalance struct {
	Platform         string  `json:"platform"`
	Account          string  `json:"account"`
	Asset            string  `json:"asset"`
	WalletBalance    float64 `json:"wallet_balance"`
	AvailableBalance float64 `json:"available_balance"`
	UnrealizedPnL    float64 `json:"unrealized_pnl"`
	MarginUsed       float64 `json:"margin_used"`
}

// ListAccountBalances returns balances for every configured account.
func (c *Client) ListAccountBalances(ctx context.Context) ([]AccountBalance, error) {
	var data struct {
		Balances []AccountBalance `json:"balances"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/accounts/balances", nil, &data); err != nil {
		return nil, err
	}
	return data.Balances, nil
}
