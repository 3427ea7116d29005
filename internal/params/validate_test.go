package params

import (
	"reflect"
	"testing"
)

func TestValidateDefaultsAreValid(t *testing.T) {
	res := Validate(Defaults())
	if !res.IsValid {
		t.Fatalf("built-in defaults must validate cleanly, got %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("expected no errors, got %v", res.Errors)
	}
}

func TestValidateCollectsAllViolationsInOrder(t *testing.T) {
	p := Defaults()
	p.Long.FirstQty = 0
	p.Long.TPAfterFull = -0.01
	p.Short.AddRatio = 0
	p.Hedge.TriggerLoss = -1
	p.Hedge.ReleaseSLLossRatio.Short = 0
	p.Advanced.MaxDailyLoss = -5

	want := []string{
		"long first_qty must be greater than 0",
		"long tp_after_full must be greater than 0",
		"short add_ratio must be greater than 0",
		"hedge trigger_loss must be greater than 0",
		"hedge release_sl_loss_ratio.short must be greater than 0",
		"advanced max_daily_loss must be greater than 0",
	}

	res := Validate(p)
	if res.IsValid {
		t.Fatal("expected validation failure")
	}
	if !reflect.DeepEqual(res.Errors, want) {
		t.Errorf("errors mismatch\n got: %v\nwant: %v", res.Errors, want)
	}
}

func TestValidateSingleViolationYieldsSingleError(t *testing.T) {
	p := Defaults()
	p.Long.FirstQty = 0

	res := Validate(p)
	if res.IsValid {
		t.Fatal("expected validation failure")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", res.Errors)
	}
	if res.Errors[0] != "long first_qty must be greater than 0" {
		t.Errorf("unexpected message: %q", res.Errors[0])
	}
}

func TestValidateAdvancedFieldsOptional(t *testing.T) {
	// Zero means unset for the optional advanced numerics; only explicit
	// negatives fail.
	p := Defaults()
	p.Advanced.Leverage = 0
	p.Advanced.Interval = 0
	p.Advanced.MaxDailyLoss = 0
	p.Advanced.EmergencyStopLoss = 0

	if res := Validate(p); !res.IsValid {
		t.Errorf("unset advanced fields must not fail validation: %v", res.Errors)
	}

	p.Advanced.Leverage = -1
	res := Validate(p)
	if res.IsValid || len(res.Errors) != 1 {
		t.Fatalf("expected one leverage error, got %v", res.Errors)
	}
	if res.Errors[0] != "advanced leverage must be greater than 0" {
		t.Errorf("unexpected message: %q", res.Errors[0])
	}
}

func TestValidateMissingAdvancedBlock(t *testing.T) {
	p := Defaults()
	p.Advanced = nil

	if res := Validate(p); !res.IsValid {
		t.Errorf("nil advanced block must not fail validation: %v", res.Errors)
	}
}
