package params

import "testing"

func TestTemplateConfirmFlow(t *testing.T) {
	var tc TemplateConfirm
	p := Defaults()
	before := p

	tpl, err := tc.Request("aggressive")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if tpl.Description == "" {
		t.Error("pending template must expose a description for display")
	}
	if tc.State() != StatePendingConfirm {
		t.Errorf("expected pending state, got %s", tc.State())
	}
	if p != before {
		t.Error("request must not mutate parameters")
	}

	if err := tc.Confirm(&p); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if tc.State() != StateIdle {
		t.Errorf("expected idle after confirm, got %s", tc.State())
	}
	if p.Long.FirstQty != 0.02 {
		t.Errorf("expected aggressive first_qty 0.02, got %v", p.Long.FirstQty)
	}
	if p.Hedge.TriggerLoss != 0.03 {
		t.Errorf("expected aggressive trigger_loss 0.03, got %v", p.Hedge.TriggerLoss)
	}
	if p.AutoTrade {
		t.Error("template application enabled autoTrade")
	}
}

func TestTemplateConfirmCancelDiscardsPending(t *testing.T) {
	var tc TemplateConfirm
	p := Defaults()
	before := p

	if _, err := tc.Request("conservative"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	tc.Cancel()

	if tc.State() != StateIdle {
		t.Errorf("expected idle after cancel, got %s", tc.State())
	}
	if p != before {
		t.Error("cancel must not mutate parameters")
	}
	if err := tc.Confirm(&p); err != ErrNothingPending {
		t.Errorf("confirm after cancel should fail with ErrNothingPending, got %v", err)
	}
}

func TestTemplateConfirmRejectsUnknownAndDoublePending(t *testing.T) {
	var tc TemplateConfirm

	if _, err := tc.Request("yolo"); err != ErrUnknownTemplate {
		t.Errorf("expected ErrUnknownTemplate, got %v", err)
	}
	if tc.State() != StateIdle {
		t.Error("failed request must not leave pending state")
	}

	if _, err := tc.Request("balanced"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if _, err := tc.Request("aggressive"); err != ErrAlreadyPending {
		t.Errorf("expected ErrAlreadyPending, got %v", err)
	}
}

func TestTemplateNeverEnablesAutoTrade(t *testing.T) {
	for _, tpl := range Templates() {
		p := Defaults()
		p.AutoTrade = true // operator had it on; template forces it off
		tpl.Apply(&p)
		if p.AutoTrade {
			t.Errorf("template %s left autoTrade enabled", tpl.ID)
		}
		if res := Validate(p); !res.IsValid {
			t.Errorf("template %s produced invalid parameters: %v", tpl.ID, res.Errors)
		}
	}
}

func TestAutoTradeGateRequiresConfirmation(t *testing.T) {
	var g AutoTradeGate
	p := Defaults()

	if err := g.ConfirmEnable(&p); err != ErrNothingPending {
		t.Errorf("confirm without request should fail, got %v", err)
	}
	if p.AutoTrade {
		t.Fatal("autoTrade enabled without confirmation")
	}

	warning, err := g.RequestEnable()
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if warning == "" {
		t.Error("request must return the warning text")
	}
	if p.AutoTrade {
		t.Error("request alone must not enable autoTrade")
	}

	if err := g.ConfirmEnable(&p); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if !p.AutoTrade {
		t.Error("autoTrade not enabled after confirm")
	}
	if g.State() != StateIdle {
		t.Errorf("expected idle after confirm, got %s", g.State())
	}
}

func TestAutoTradeGateDisableIsImmediate(t *testing.T) {
	var g AutoTradeGate
	p := Defaults()
	p.AutoTrade = true

	g.Disable(&p)
	if p.AutoTrade {
		t.Error("disable must take effect immediately")
	}

	// Disable also drops a pending enable request.
	if _, err := g.RequestEnable(); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	g.Disable(&p)
	if err := g.ConfirmEnable(&p); err != ErrNothingPending {
		t.Errorf("pending enable should be dropped by disable, got %v", err)
	}
}

func TestEndToEndMaterializeTemplateValidate(t *testing.T) {
	// Open a dialog with nothing from the backend, apply "aggressive",
	// confirm, save-validate, then break one field.
	p := Materialize(nil)

	var tc TemplateConfirm
	if _, err := tc.Request("aggressive"); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if err := tc.Confirm(&p); err != nil {
		t.Fatalf("confirm failed: %v", err)
	}

	if p.Long.FirstQty != 0.02 {
		t.Errorf("long.first_qty = %v, want 0.02", p.Long.FirstQty)
	}
	if p.Hedge.TriggerLoss != 0.03 {
		t.Errorf("hedge.trigger_loss = %v, want 0.03", p.Hedge.TriggerLoss)
	}
	if p.AutoTrade {
		t.Error("autoTrade must remain false")
	}

	if res := Validate(p); !res.IsValid {
		t.Fatalf("expected valid parameters, got %v", res.Errors)
	}

	p.Long.FirstQty = 0
	res := Validate(p)
	if res.IsValid {
		t.Fatal("expected validation failure")
	}
	count := 0
	for _, e := range res.Errors {
		if e == "long first_qty must be greater than 0" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one first_qty error, got %d in %v", count, res.Errors)
	}
}
