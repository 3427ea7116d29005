package params

// Scope names the subset of the parameter object a refresh is allowed to
// overwrite. Refreshing one tab must never clobber edits in the other.
type Scope string

const (
	ScopeParameters Scope = "parameters" // long / short / hedge
	ScopeAdvanced   Scope = "advanced"   // risk / execution / monitoring
)

// Valid reports whether s is a known refresh scope.
func (s Scope) Valid() bool {
	return s == ScopeParameters || s == ScopeAdvanced
}

// nestedSections is the lookup order for advanced leaves inside the
// backend's wire format. Nested always wins over a flat top-level field.
var nestedSections = []string{"risk_control", "execution", "monitoring", "safety"}

// lookup resolves one advanced leaf against the backend payload using the
// three-tier precedence: nested section, then flat top-level, then caller's
// fallback (the existing local value).
type lookup struct {
	raw RawParams
}

func newLookup(raw RawParams) lookup {
	return lookup{raw: raw}
}

func (l lookup) float(key string) (float64, bool) {
	for _, section := range nestedSections {
		if v, ok := l.raw.child(section).float(key); ok {
			return v, true
		}
	}
	return l.raw.float(key)
}

func (l lookup) integer(key string) (int, bool) {
	for _, section := range nestedSections {
		if v, ok := l.raw.child(section).integer(key); ok {
			return v, true
		}
	}
	return l.raw.integer(key)
}

func (l lookup) boolean(key string) (bool, bool) {
	for _, section := range nestedSections {
		if v, ok := l.raw.child(section).boolean(key); ok {
			return v, true
		}
	}
	return l.raw.boolean(key)
}

func (l lookup) str(key string) (string, bool) {
	for _, section := range nestedSections {
		if v, ok := l.raw.child(section).str(key); ok {
			return v, true
		}
	}
	return l.raw.str(key)
}

// Reconcile pulls the backend's authoritative values for one scope into a
// copy of the local editable object, leaving every field outside the scope
// byte-identical. A leaf the remote payload omits keeps its local value; the
// remote never nulls anything out.
//
// Notifications is reconciled from monitoring.enable_alerts under either
// scope. AutoTrade is never modified here: it is refresh-proof and only
// changes through the explicit AutoTradeGate confirm flow.
//
// Reconcile is pure and returns a new value, so a failed fetch simply means
// it is never called and local state stays untouched.
func Reconcile(local InstanceParameters, remote RawParams, scope Scope) InstanceParameters {
	out := local.Clone()
	if remote == nil {
		return out
	}

	switch scope {
	case ScopeParameters:
		if block := remote.child("long"); block != nil {
			out.Long = reconcileLeg(out.Long, block)
		}
		if block := remote.child("short"); block != nil {
			out.Short = reconcileLeg(out.Short, block)
		}
		if block := remote.child("hedge"); block != nil {
			out.Hedge = reconcileHedge(out.Hedge, block)
		}

	case ScopeAdvanced:
		adv := out.Advanced
		if adv == nil {
			adv = DefaultAdvanced()
		}
		out.Advanced = reconcileAdvanced(adv, remote)
	}

	if b, ok := remote.child("monitoring").boolean("enable_alerts"); ok {
		out.Notifications = b
	}

	return out
}

func reconcileLeg(local LegParams, block RawParams) LegParams {
	out := local
	if v, ok := block.float("first_qty"); ok {
		out.FirstQty = v
	}
	if v, ok := block.float("add_ratio"); ok {
		out.AddRatio = v
	}
	if v, ok := block.float("add_interval"); ok {
		out.AddInterval = v
	}
	if v, ok := block.integer("max_add_times"); ok {
		out.MaxAddTimes = v
	}
	if v, ok := block.float("tp_first_order"); ok {
		out.TPFirstOrder = v
	}
	if v, ok := block.float("tp_before_full"); ok {
		out.TPBeforeFull = v
	}
	if v, ok := block.float("tp_after_full"); ok {
		out.TPAfterFull = v
	}
	return out
}

func reconcileHedge(local HedgeParams, block RawParams) HedgeParams {
	out := local
	if v, ok := block.float("trigger_loss"); ok {
		out.TriggerLoss = v
	}
	if v, ok := block.float("equal_eps"); ok {
		out.EqualEps = v
	}
	if v, ok := block.integer("min_wait_seconds"); ok {
		out.MinWaitSeconds = v
	}
	if tp := block.child("release_tp_after_full"); tp != nil {
		if v, ok := tp.float("long"); ok {
			out.ReleaseTPAfterFull.Long = v
		}
		if v, ok := tp.float("short"); ok {
			out.ReleaseTPAfterFull.Short = v
		}
	}
	if sl := block.child("release_sl_loss_ratio"); sl != nil {
		if v, ok := sl.float("long"); ok {
			out.ReleaseSLLossRatio.Long = v
		}
		if v, ok := sl.float("short"); ok {
			out.ReleaseSLLossRatio.Short = v
		}
	}
	return out
}

func reconcileAdvanced(local *AdvancedParams, remote RawParams) *AdvancedParams {
	out := *local
	lk := newLookup(remote)

	if s, ok := lk.str("symbol"); ok && s != "" {
		out.Symbol = s
	}
	if v, ok := lk.integer("leverage"); ok {
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
	if v, ok := lk.integer("interval"); ok {
		out.Interval = v
	}
	if v, ok := lk.float("max_daily_loss"); ok {
		out.MaxDailyLoss = v
	}
	if v, ok := lk.float("emergency_stop_loss"); ok {
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
