package params

import "testing"

func TestFlattenSpreadsAdvancedToTopLevel(t *testing.T) {
	p := Defaults()
	p.Notifications = false
	flat := Flatten(p)

	if _, ok := flat["advanced"]; ok {
		t.Error("flattened body must not carry an advanced key")
	}
	if flat["symbol"] != DefaultSymbol {
		t.Errorf("symbol = %v, want %s", flat["symbol"], DefaultSymbol)
	}
	if flat["leverage"] != DefaultLeverage {
		t.Errorf("leverage = %v, want %d", flat["leverage"], DefaultLeverage)
	}
	if flat["enable_alerts"] != false {
		t.Errorf("enable_alerts must mirror notifications, got %v", flat["enable_alerts"])
	}
	if flat["autoTrade"] != false {
		t.Errorf("autoTrade = %v, want false", flat["autoTrade"])
	}
	if _, ok := flat["long"].(LegParams); !ok {
		t.Errorf("long block missing or wrong type: %T", flat["long"])
	}
}

func TestFlattenWithoutAdvancedBlock(t *testing.T) {
	p := Defaults()
	p.Advanced = nil
	flat := Flatten(p)

	if _, ok := flat["symbol"]; ok {
		t.Error("nil advanced block must not emit advanced leaves")
	}
	if _, ok := flat["hedge"]; !ok {
		t.Error("hedge block missing")
	}
}
