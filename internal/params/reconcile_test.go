package params

import (
	"reflect"
	"testing"
)

func editedLocal() InstanceParameters {
	p := Defaults()
	p.Long.FirstQty = 0.77
	p.Short.AddInterval = 0.09
	p.Hedge.TriggerLoss = 0.11
	p.Advanced.Symbol = "ETHUSDT"
	p.Advanced.Leverage = 12
	p.Advanced.MaxDailyLoss = 250
	return p
}

func TestReconcileParametersScopeLeavesAdvancedUntouched(t *testing.T) {
	local := editedLocal()
	before := *local.Advanced

	remote := RawParams{
		"long":           map[string]interface{}{"first_qty": 0.33},
		"risk_control":   map[string]interface{}{"max_daily_loss": 1.0},
		"leverage":       3.0,
		"symbol":         "BTCUSDT",
	}

	out := Reconcile(local, remote, ScopeParameters)

	if out.Long.FirstQty != 0.33 {
		t.Errorf("expected long first_qty refreshed to 0.33, got %v", out.Long.FirstQty)
	}
	if !reflect.DeepEqual(*out.Advanced, before) {
		t.Errorf("advanced block modified by parameters-scope refresh:\n got: %+v\nwant: %+v", *out.Advanced, before)
	}
}

func TestReconcileAdvancedScopeLeavesLegsUntouched(t *testing.T) {
	local := editedLocal()

	remote := RawParams{
		"long":  map[string]interface{}{"first_qty": 0.01},
		"short": map[string]interface{}{"add_interval": 0.01},
		"hedge": map[string]interface{}{"trigger_loss": 0.01},
		"risk_control": map[string]interface{}{
			"max_daily_loss": 500.0,
		},
	}

	out := Reconcile(local, remote, ScopeAdvanced)

	if out.Long != local.Long || out.Short != local.Short || out.Hedge != local.Hedge {
		t.Error("leg or hedge block modified by advanced-scope refresh")
	}
	if out.Advanced.MaxDailyLoss != 500 {
		t.Errorf("expected max_daily_loss refreshed to 500, got %v", out.Advanced.MaxDailyLoss)
	}
	// Leaves the remote omitted keep local edits.
	if out.Advanced.Symbol != "ETHUSDT" {
		t.Errorf("symbol should keep local edit, got %s", out.Advanced.Symbol)
	}
	if out.Advanced.Leverage != 12 {
		t.Errorf("leverage should keep local edit, got %d", out.Advanced.Leverage)
	}
}

func TestReconcileThreeTierPrecedence(t *testing.T) {
	tests := []struct {
		name   string
		remote RawParams
		want   float64
	}{
		{
			name: "nested wins over flat",
			remote: RawParams{
				"risk_control":   map[string]interface{}{"max_daily_loss": 50.0},
				"max_daily_loss": 99.0,
			},
			want: 50,
		},
		{
			name:   "flat used when nested absent",
			remote: RawParams{"max_daily_loss": 99.0},
			want:   99,
		},
		{
			name:   "local preserved when neither present",
			remote: RawParams{},
			want:   250, // editedLocal's value
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Reconcile(editedLocal(), tt.remote, ScopeAdvanced)
			if out.Advanced.MaxDailyLoss != tt.want {
				t.Errorf("max_daily_loss = %v, want %v", out.Advanced.MaxDailyLoss, tt.want)
			}
		})
	}
}

func TestReconcileMissingRemoteBlockKeepsLocal(t *testing.T) {
	local := editedLocal()

	// Remote carries only a long block; short and hedge must survive.
	remote := RawParams{
		"long": map[string]interface{}{"first_qty": 0.2, "add_ratio": 3.0},
	}

	out := Reconcile(local, remote, ScopeParameters)

	if out.Long.FirstQty != 0.2 || out.Long.AddRatio != 3.0 {
		t.Errorf("long block not refreshed: %+v", out.Long)
	}
	if out.Long.AddInterval != local.Long.AddInterval {
		t.Errorf("omitted long leaf nulled out: %v", out.Long.AddInterval)
	}
	if out.Short != local.Short {
		t.Errorf("short block modified despite absent remote.short")
	}
	if out.Hedge != local.Hedge {
		t.Errorf("hedge block modified despite absent remote.hedge")
	}
}

func TestReconcileNeverTouchesAutoTrade(t *testing.T) {
	for _, scope := range []Scope{ScopeParameters, ScopeAdvanced} {
		local := editedLocal()
		local.AutoTrade = false

		remote := RawParams{
			"autoTrade":  true,
			"auto_trade": true,
			"long":       map[string]interface{}{"first_qty": 0.5},
			"execution":  map[string]interface{}{"leverage": 20.0},
		}

		out := Reconcile(local, remote, scope)
		if out.AutoTrade {
			t.Errorf("scope %s: reconcile enabled autoTrade", scope)
		}

		// And the reverse: an already-enabled flag is not silently cleared.
		local.AutoTrade = true
		out = Reconcile(local, remote, scope)
		if !out.AutoTrade {
			t.Errorf("scope %s: reconcile modified autoTrade", scope)
		}
	}
}

func TestReconcileNotificationsIndependentOfScope(t *testing.T) {
	remote := RawParams{
		"monitoring": map[string]interface{}{"enable_alerts": false},
	}

	for _, scope := range []Scope{ScopeParameters, ScopeAdvanced} {
		local := Defaults()
		out := Reconcile(local, remote, scope)
		if out.Notifications {
			t.Errorf("scope %s: notifications not reconciled from monitoring.enable_alerts", scope)
		}
	}

	// Absent enable_alerts keeps the local value.
	out := Reconcile(Defaults(), RawParams{}, ScopeParameters)
	if !out.Notifications {
		t.Error("notifications clobbered when remote omitted enable_alerts")
	}
}

func TestReconcileNilRemoteIsNoop(t *testing.T) {
	local := editedLocal()
	out := Reconcile(local, nil, ScopeParameters)
	if !reflect.DeepEqual(out, local) {
		t.Errorf("nil remote should leave local untouched")
	}
}

func TestReconcileDoesNotAliasLocalAdvanced(t *testing.T) {
	local := editedLocal()
	out := Reconcile(local, RawParams{"risk_control": map[string]interface{}{"max_daily_loss": 1.0}}, ScopeAdvanced)

	out.Advanced.Symbol = "XRPUSDT"
	if local.Advanced.Symbol == "XRPUSDT" {
		t.Error("reconciled copy aliases the local advanced block")
	}
}
