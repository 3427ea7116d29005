// Package params implements the instance-parameter model for strategy
// instances: materializing a safe editable object from whatever the trading
// backend returns, validating operator edits, reconciling scoped refreshes
// and applying risk-posture templates.
package params

// PositionMode selects how the backend books exposure for an instance.
type PositionMode string

const (
	ModeDual PositionMode = "dual" // independent long and short positions
	ModeNet  PositionMode = "net"  // single netted position
)

// OrderType selects the order style used for entries and adds.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// LegParams holds the tunables for one directional leg (long or short).
// All fractions are stored as decimals, e.g. 0.02 = 2%.
type LegParams struct {
	FirstQty     float64 `json:"first_qty"`      // base order size for the first entry
	AddRatio     float64 `json:"add_ratio"`      // size multiplier per additional entry
	AddInterval  float64 `json:"add_interval"`   // price move fraction that triggers the next add
	MaxAddTimes  int     `json:"max_add_times"`  // cap on number of adds
	TPFirstOrder float64 `json:"tp_first_order"` // take-profit fraction before any add
	TPBeforeFull float64 `json:"tp_before_full"` // take-profit fraction while adds remain
	TPAfterFull  float64 `json:"tp_after_full"`  // take-profit fraction at full position
}

// SidePair carries a per-side (long/short) pair of fractions.
type SidePair struct {
	Long  float64 `json:"long"`
	Short float64 `json:"short"`
}

// HedgeParams holds the offset-position tunables.
type HedgeParams struct {
	TriggerLoss        float64  `json:"trigger_loss"`     // loss fraction that opens a hedge
	EqualEps           float64  `json:"equal_eps"`        // tolerance for "exposure balanced"
	MinWaitSeconds     int      `json:"min_wait_seconds"` // dwell time before hedge actions repeat
	ReleaseTPAfterFull SidePair `json:"release_tp_after_full"`
	ReleaseSLLossRatio SidePair `json:"release_sl_loss_ratio"`
}

// AdvancedParams holds the optional risk/execution/monitoring block. Numeric
// fields use the zero value to mean "not set"; the validator skips unset
// fields and only rejects explicitly negative ones.
type AdvancedParams struct {
	Symbol                      string       `json:"symbol"`
	Leverage                    int          `json:"leverage"`
	Mode                        PositionMode `json:"mode"`
	OrderType                   OrderType    `json:"order_type"`
	Interval                    int          `json:"interval"` // decision interval in seconds
	MaxDailyLoss                float64      `json:"max_daily_loss"`
	EmergencyStopLoss           float64      `json:"emergency_stop_loss"`
	EnableLogging               bool         `json:"enable_logging"`
	EnablePerformanceMonitoring bool         `json:"enable_performance_monitoring"`
	EnableWebhooks              bool         `json:"enable_webhooks"`
}

// InstanceParameters is the full tunable configuration for one running
// strategy instance. Exactly one editable copy exists per open editor
// session; the durable copy lives in the trading backend.
type InstanceParameters struct {
	Long     LegParams       `json:"long"`
	Short    LegParams       `json:"short"`
	Hedge    HedgeParams     `json:"hedge"`
	Advanced *AdvancedParams `json:"advanced,omitempty"`

	// AutoTrade gates whether the backend may place live orders. Templates
	// and scoped refreshes never set this to true; only the explicit
	// confirm flow in AutoTradeGate does.
	AutoTrade bool `json:"autoTrade"`

	// Notifications mirrors the backend's enable_alerts field.
	Notifications bool `json:"notifications"`
}

// Clone returns a deep copy, so edits on the copy never alias the original's
// advanced block.
func (p InstanceParameters) Clone() InstanceParameters {
	out := p
	if p.Advanced != nil {
		adv := *p.Advanced
		out.Advanced = &adv
	}
	return out
}
