package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"trading-ops-dashboard/internal/backend"
	"trading-ops-dashboard/internal/params"
)

// fakeRedis implements redisCommander in memory.
type fakeRedis struct {
	mu   sync.Mutex
	data map[string]string

	getErr  error
	setErr  error
	pingErr error

	getCalls  int
	pingCalls int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) Ping(ctx context.Context) *redis.StatusCmd {
	f.mu.Lock()
	f.pingCalls++
	err := f.pingErr
	f.mu.Unlock()
	return redis.NewStatusResult("PONG", err)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	val, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(val, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (f *fakeRedis) Close() error { return nil }

func (f *fakeRedis) calls() (gets, pings int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls, f.pingCalls
}

func newTestCacheService(client redisCommander) *CacheService {
	return &CacheService{
		client:        client,
		logger:        zerolog.Nop(),
		healthy:       true,
		lastCheck:     time.Now(),
		maxFailures:   3,
		checkInterval: 30 * time.Second,
	}
}

func TestParameterCacheRoundTrip(t *testing.T) {
	fr := newFakeRedis()
	pc := NewParameterCache(newTestCacheService(fr))
	ctx := context.Background()

	if _, found := pc.GetInstanceParameters(ctx, "inst-1"); found {
		t.Fatal("expected a miss on empty cache")
	}

	pc.SetInstanceParameters(ctx, "inst-1", params.RawParams{
		"long": map[string]interface{}{"first_qty": 0.5},
	})

	raw, found := pc.GetInstanceParameters(ctx, "inst-1")
	if !found {
		t.Fatal("expected a hit after set")
	}
	long, ok := raw["long"].(map[string]interface{})
	if !ok || long["first_qty"].(float64) != 0.5 {
		t.Errorf("round trip lost data: %v", raw)
	}
}

func TestCacheMissIsNotABreakerFailure(t *testing.T) {
	fr := newFakeRedis()
	cs := newTestCacheService(fr)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		var out map[string]interface{}
		found, err := cs.getJSON(ctx, "missing", &out)
		if err != nil {
			t.Fatalf("miss %d returned error: %v", i, err)
		}
		if found {
			t.Fatalf("miss %d reported found", i)
		}
	}
	if !cs.IsHealthy() {
		t.Error("cache misses must not open the circuit breaker")
	}
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	fr := newFakeRedis()
	fr.getErr = errors.New("connection refused")
	cs := newTestCacheService(fr)
	ctx := context.Background()

	var out map[string]interface{}
	for i := 0; i < 3; i++ {
		if _, err := cs.getJSON(ctx, "key", &out); err == nil {
			t.Fatalf("failure %d did not surface an error", i)
		}
	}
	if cs.IsHealthy() {
		t.Fatal("breaker should be open after three failures")
	}

	// While open, calls are shed without touching redis.
	gets, _ := fr.calls()
	if _, err := cs.getJSON(ctx, "key", &out); err == nil {
		t.Error("shed call should return an error")
	}
	if err := cs.setJSON(ctx, "key", map[string]interface{}{}, time.Minute); err == nil {
		t.Error("shed set should return an error")
	}
	if after, _ := fr.calls(); after != gets {
		t.Errorf("open breaker still reached redis: %d -> %d calls", gets, after)
	}
}

func TestBreakerRecoversOnSuccessfulPing(t *testing.T) {
	fr := newFakeRedis()
	cs := newTestCacheService(fr)

	cs.mu.Lock()
	cs.healthy = false
	cs.failureCount = 3
	cs.lastCheck = time.Now().Add(-time.Hour)
	cs.mu.Unlock()

	// A shed call schedules the background ping.
	var out map[string]interface{}
	cs.getJSON(context.Background(), "key", &out)

	deadline := time.Now().Add(2 * time.Second)
	for !cs.IsHealthy() {
		if time.Now().After(deadline) {
			t.Fatal("breaker did not close after a successful ping")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if _, pings := fr.calls(); pings == 0 {
		t.Error("recovery happened without a ping")
	}
}

func TestBalanceCacheInvalidate(t *testing.T) {
	fr := newFakeRedis()
	bc := NewBalanceCache(newTestCacheService(fr))
	ctx := context.Background()

	bc.Set(ctx, []backend.AccountBalance{
		{Platform: "binance", Account: "main", WalletBalance: 100},
	})
	if _, found := bc.Get(ctx); !found {
		t.Fatal("expected a hit after set")
	}

	bc.Invalidate(ctx)
	if _, found := bc.Get(ctx); found {
		t.Error("expected a miss after invalidate")
	}
}
