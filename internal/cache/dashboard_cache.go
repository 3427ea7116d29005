package cache

import (
	"context"
	"fmt"

	"trading-ops-dashboard/internal/backend"
	"trading-ops-dashboard/internal/params"
)

// ParameterCache stores the last raw parameter payload fetched from the
// backend per instance, so an editor can still open while the backend is
// briefly unreachable. Satisfies editor.ParameterCache.
type ParameterCache struct {
	service *CacheService
}

func NewParameterCache(service *CacheService) *ParameterCache {
	return &ParameterCache{service: service}
}

// GetInstanceParameters returns the cached payload and whether one exists.
// Any cache trouble is treated as a miss.
func (p *ParameterCache) GetInstanceParameters(ctx context.Context, instanceID string) (params.RawParams, bool) {
	var raw params.RawParams
	found, err := p.service.getJSON(ctx, fmt.Sprintf(keyInstanceParameters, instanceID), &raw)
	if err != nil || !found {
		return nil, false
	}
	return raw, true
}

// SetInstanceParameters records the latest known backend payload. Failures
// are logged by the service and otherwise ignored; the cache is best-effort.
func (p *ParameterCache) SetInstanceParameters(ctx context.Context, instanceID string, raw params.RawParams) {
	_ = p.service.setJSON(ctx, fmt.Sprintf(keyInstanceParameters, instanceID), raw, parametersTTL)
}

// BalanceCache keeps the aggregated account balances for a short window so
// the dashboard doesn't hammer the backend while several operators watch
// the same panel.
type BalanceCache struct {
	service *CacheService
}

func NewBalanceCache(service *CacheService) *BalanceCache {
	return &BalanceCache{service: service}
}

func (b *BalanceCache) Get(ctx context.Context) ([]backend.AccountBalance, bool) {
	var balances []backend.AccountBalance
	found, err := b.service.getJSON(ctx, keyAccountBalances, &balances)
	if err != nil || !found {
		return nil, false
	}
	return balances, true
}

func (b *BalanceCache) Set(ctx context.Context, balances []backend.AccountBalance) {
	_ = b.service.setJSON(ctx, keyAccountBalances, balances, balancesTTL)
}

// Invalidate drops the cached balances, so the next panel read sees the
// backend's state right after an instance changes.
func (b *BalanceCache) Invalidate(ctx context.Context) {
	_ = b.service.Delete(ctx, keyAccountBalances)
}
