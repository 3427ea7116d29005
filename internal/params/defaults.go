package params

// Built-in safe defaults. This is the single source of truth for default
// literals; nothing else in the repo redefines them.
const (
	DefaultSymbol   = "OPUSDT"
	DefaultLeverage = 5
	DefaultInterval = 60 // seconds

	defaultFirstQty     = 0.01
	defaultAddRatio     = 2.0
	defaultAddInterval  = 0.02
	defaultMaxAddTimes  = 3
	defaultTPFirstOrder = 0.01
	defaultTPBeforeFull = 0.015
	defaultTPAfterFull  = 0.02

	defaultTriggerLoss    = 0.05
	defaultEqualEps       = 0.01
	defaultMinWaitSeconds = 60
	defaultReleaseTP      = 0.012
	defaultReleaseSLRatio = 0.5

	defaultMaxDailyLoss      = 100.0
	defaultEmergencyStopLoss = 0.15
)

// DefaultLeg returns the safe defaults for one directional leg.
func DefaultLeg() LegParams {
	return LegParams{
		FirstQty:     defaultFirstQty,
		AddRatio:     defaultAddRatio,
		AddInterval:  defaultAddInterval,
		MaxAddTimes:  defaultMaxAddTimes,
		TPFirstOrder: defaultTPFirstOrder,
		TPBeforeFull: defaultTPBeforeFull,
		TPAfterFull:  defaultTPAfterFull,
	}
}

// DefaultHedge returns the safe hedge defaults.
func DefaultHedge() HedgeParams {
	return HedgeParams{
		TriggerLoss:        defaultTriggerLoss,
		EqualEps:           defaultEqualEps,
		MinWaitSeconds:     defaultMinWaitSeconds,
		ReleaseTPAfterFull: SidePair{Long: defaultReleaseTP, Short: defaultReleaseTP},
		ReleaseSLLossRatio: SidePair{Long: defaultReleaseSLRatio, Short: defaultReleaseSLRatio},
	}
}

// DefaultAdvanced returns the safe advanced-block defaults.
func DefaultAdvanced() *AdvancedParams {
	return &AdvancedParams{
		Symbol:                      DefaultSymbol,
		Leverage:                    DefaultLeverage,
		Mode:                        ModeDual,
		OrderType:                   OrderMarket,
		Interval:                    DefaultInterval,
		MaxDailyLoss:                defaultMaxDailyLoss,
		EmergencyStopLoss:           defaultEmergencyStopLoss,
		EnableLogging:               true,
		EnablePerformanceMonitoring: false,
		EnableWebhooks:              false,
	}
}

// Defaults returns a complete, valid parameter object with live trading off.
func Defaults() InstanceParameters {
	return InstanceParameters{
		Long:          DefaultLeg(),
		Short:         DefaultLeg(),
		Hedge:         DefaultHedge(),
		Advanced:      DefaultAdvanced(),
		AutoTrade:     false,
		Notifications: true,
	}
}

// Materialize builds a fully-populated InstanceParameters from whatever the
// backend returned. Fallback is applied per leaf: a remote value is taken
// only when present and usable, otherwise the built-in default fills the
// leaf. A partially shaped remote long block therefore keeps its good leaves.
//
// Materialize never fails. Malformed input of any kind, including values
// that panic on access, yields the full-defaults object so the editor can
// always render.
func Materialize(raw RawParams) (out InstanceParameters) {
	defer func() {
		if r := recover(); r != nil {
			out = Defaults()
		}
	}()

	out = Defaults()
	if raw == nil {
		return out
	}

	out.Long = materializeLeg(raw.child("long"), out.Long)
	out.Short = materializeLeg(raw.child("short"), out.Short)
	out.Hedge = materializeHedge(raw.child("hedge"), out.Hedge)
	out.Advanced = materializeAdvanced(raw, out.Advanced)

	// AutoTrade only leaves false when the remote payload carried an
	// explicit boolean. An instance must never gain live-trading permission
	// through an incomplete or mistyped payload.
	if b, ok := raw.boolean("autoTrade"); ok {
		out.AutoTrade = b
	} else if b, ok := raw.boolean("auto_trade"); ok {
		out.AutoTrade = b
	}

	if b, ok := raw.boolean("notifications"); ok {
		out.Notifications = b
	} else if b, ok := raw.child("monitoring").boolean("enable_alerts"); ok {
		out.Notifications = b
	} else if b, ok := raw.boolean("enable_alerts"); ok {
		out.Notifications = b
	}

	return out
}

func materializeLeg(raw RawParams, def LegParams) LegParams {
	out := def
	takeFraction(raw, "first_qty", &out.FirstQty)
	takeFraction(raw, "add_ratio", &out.AddRatio)
	takeFraction(raw, "add_interval", &out.AddInterval)
	takePositiveInt(raw, "max_add_times", &out.MaxAddTimes)
	takeFraction(raw, "tp_first_order", &out.TPFirstOrder)
	takeFraction(raw, "tp_before_full", &out.TPBeforeFull)
	takeFraction(raw, "tp_after_full", &out.TPAfterFull)
	return out
}

func materializeHedge(raw RawParams, def HedgeParams) HedgeParams {
	out := def
	takeFraction(raw, "trigger_loss", &out.TriggerLoss)
	takeFraction(raw, "equal_eps", &out.EqualEps)
	takePositiveInt(raw, "min_wait_seconds", &out.MinWaitSeconds)

	tp := raw.child("release_tp_after_full")
	takeFraction(tp, "long", &out.ReleaseTPAfterFull.Long)
	takeFraction(tp, "short", &out.ReleaseTPAfterFull.Short)

	sl := raw.child("release_sl_loss_ratio")
	takeFraction(sl, "long", &out.ReleaseSLLossRatio.Long)
	takeFraction(sl, "short", &out.ReleaseSLLossRatio.Short)
	return out
}

// materializeAdvanced fills the advanced block from the remote payload. The
// backend sends these leaves either flat or nested under risk_control /
// execution / monitoring / safety, so each lookup walks the same three-tier
// order the scoped refresh uses.
func materializeAdvanced(raw RawParams, def *AdvancedParams) *AdvancedParams {
	out := *def
	lk := newLookup(raw)

	if s, ok := lk.str("symbol"); ok && s != "" {
		out.Symbol = s
	}
	if v, ok := lk.integer("leverage"); ok && v > 0 {
		out.Leverage = v
	}
	if s, ok := lk.str("mode"); ok {
		if m := PositionMode(s); m == ModeDual || m == ModeNet {
			out.Mode = m
		}
	}
	if s, ok := lk.str("order_type"); ok {
		if ot := OrderType(s); ot == OrderMarket || ot == OrderLimit {
			out.OrderType = ot
		}
	}
	if v, ok := lk.integer("interval"); ok && v > 0 {
		out.Interval = v
	}
	if v, ok := lk.float("max_daily_loss"); ok && v > 0 {
		out.MaxDailyLoss = v
	}
	if v, ok := lk.float("emergency_stop_loss"); ok && v > 0 {
		out.EmergencyStopLoss = v
	}
	if b, ok := lk.boolean("enable_logging"); ok {
		out.EnableLogging = b
	}
	if b, ok := lk.boolean("enable_performance_monitoring"); ok {
		out.EnablePerformanceMonitoring = b
	}
	if b, ok := lk.boolean("enable_webhooks"); ok {
		out.EnableWebhooks = b
	}
	return &out
}

// takeFraction overwrites dst when raw carries a usable positive number
// under key. Zero, negative and mistyped values leave the default in place.
func takeFraction(raw RawParams, key string, dst *float64) {
	if v, ok := raw.float(key); ok && v > 0 {
		*dst = v
	}
}

func takePositiveInt(raw RawParams, key string, dst *int) {
	if v, ok := raw.integer(key); ok && v > 0 {
		*dst = v
	}
}
