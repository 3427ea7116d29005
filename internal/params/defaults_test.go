package params

import "testing"

func TestMaterializeNilReturnsCompleteDefaults(t *testing.T) {
	p := Materialize(nil)

	if p.Long != DefaultLeg() || p.Short != DefaultLeg() {
		t.Errorf("expected default legs, got long=%+v short=%+v", p.Long, p.Short)
	}
	if p.Hedge != DefaultHedge() {
		t.Errorf("expected default hedge, got %+v", p.Hedge)
	}
	if p.Advanced == nil {
		t.Fatal("advanced block missing after materialize")
	}
	if p.Advanced.Symbol != DefaultSymbol {
		t.Errorf("expected symbol %s, got %s", DefaultSymbol, p.Advanced.Symbol)
	}
	if p.Advanced.Leverage != DefaultLeverage {
		t.Errorf("expected leverage %d, got %d", DefaultLeverage, p.Advanced.Leverage)
	}
	if p.AutoTrade {
		t.Error("autoTrade must default to false")
	}
	if !p.Notifications {
		t.Error("notifications should default to true")
	}
}

func TestMaterializeNeverProducesInvalidObject(t *testing.T) {
	inputs := []struct {
		name string
		raw  RawParams
	}{
		{"nil", nil},
		{"empty", RawParams{}},
		{"wrong types everywhere", RawParams{
			"long":      "not an object",
			"short":     42.0,
			"hedge":     []interface{}{1, 2},
			"autoTrade": "yes",
			"symbol":    7.0,
		}},
		{"negative values", RawParams{
			"long":  map[string]interface{}{"first_qty": -1.0, "add_ratio": -2.0},
			"hedge": map[string]interface{}{"trigger_loss": -0.5},
		}},
		{"zero values", RawParams{
			"long": map[string]interface{}{"first_qty": 0.0, "max_add_times": 0.0},
		}},
		{"missing hedge and advanced", RawParams{
			"long": map[string]interface{}{"first_qty": 0.5},
		}},
	}

	for _, tt := range inputs {
		t.Run(tt.name, func(t *testing.T) {
			p := Materialize(tt.raw)
			res := Validate(p)
			if !res.IsValid {
				t.Errorf("materialized object failed validation: %v", res.Errors)
			}
			if p.Advanced == nil {
				t.Error("advanced block missing")
			}
			if p.AutoTrade {
				t.Error("autoTrade leaked true from malformed input")
			}
		})
	}
}

func TestMaterializePerFieldFallback(t *testing.T) {
	// A partially populated long block keeps its good leaves; only the
	// missing or invalid leaves fall back to defaults.
	raw := RawParams{
		"long": map[string]interface{}{
			"first_qty":   0.5,
			"add_ratio":   "broken",
			"add_interval": -0.01,
			"tp_after_full": 0.04,
		},
	}

	p := Materialize(raw)

	if p.Long.FirstQty != 0.5 {
		t.Errorf("expected remote first_qty 0.5, got %v", p.Long.FirstQty)
	}
	if p.Long.TPAfterFull != 0.04 {
		t.Errorf("expected remote tp_after_full 0.04, got %v", p.Long.TPAfterFull)
	}
	if p.Long.AddRatio != defaultAddRatio {
		t.Errorf("invalid add_ratio should default to %v, got %v", defaultAddRatio, p.Long.AddRatio)
	}
	if p.Long.AddInterval != defaultAddInterval {
		t.Errorf("negative add_interval should default to %v, got %v", defaultAddInterval, p.Long.AddInterval)
	}
	if p.Long.MaxAddTimes != defaultMaxAddTimes {
		t.Errorf("missing max_add_times should default to %v, got %v", defaultMaxAddTimes, p.Long.MaxAddTimes)
	}
	// Untouched blocks are full defaults.
	if p.Short != DefaultLeg() {
		t.Errorf("short block should be defaults, got %+v", p.Short)
	}
}

func TestMaterializeAutoTradeRequiresExplicitBoolean(t *testing.T) {
	tests := []struct {
		name string
		raw  RawParams
		want bool
	}{
		{"absent", RawParams{}, false},
		{"explicit true", RawParams{"autoTrade": true}, true},
		{"explicit false", RawParams{"autoTrade": false}, false},
		{"snake_case true", RawParams{"auto_trade": true}, true},
		{"string true ignored", RawParams{"autoTrade": "true"}, false},
		{"number ignored", RawParams{"autoTrade": 1.0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Materialize(tt.raw).AutoTrade; got != tt.want {
				t.Errorf("autoTrade = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMaterializeReadsNestedAdvancedSections(t *testing.T) {
	raw := RawParams{
		"risk_control": map[string]interface{}{
			"max_daily_loss": 50.0,
		},
		"execution": map[string]interface{}{
			"order_type": "limit",
			"leverage":   10.0,
		},
		"monitoring": map[string]interface{}{
			"enable_alerts":  false,
			"enable_webhooks": true,
		},
	}

	p := Materialize(raw)

	if p.Advanced.MaxDailyLoss != 50.0 {
		t.Errorf("expected max_daily_loss 50, got %v", p.Advanced.MaxDailyLoss)
	}
	if p.Advanced.OrderType != OrderLimit {
		t.Errorf("expected order_type limit, got %s", p.Advanced.OrderType)
	}
	if p.Advanced.Leverage != 10 {
		t.Errorf("expected leverage 10, got %d", p.Advanced.Leverage)
	}
	if !p.Advanced.EnableWebhooks {
		t.Error("expected enable_webhooks true")
	}
	if p.Notifications {
		t.Error("expected notifications false from monitoring.enable_alerts")
	}
}

func TestParseRaw(t *testing.T) {
	raw, err := ParseRaw([]byte(`{"long":{"first_qty":0.3}}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := raw.child("long").float("first_qty"); !ok || v != 0.3 {
		t.Errorf("expected first_qty 0.3, got %v ok=%v", v, ok)
	}

	if _, err := ParseRaw([]byte(`{broken`)); err == nil {
		t.Error("expected error for malformed JSON")
	}

	raw, err = ParseRaw(nil)
	if err != nil || raw != nil {
		t.Errorf("empty input should yield nil map, got %v err=%v", raw, err)
	}
}
