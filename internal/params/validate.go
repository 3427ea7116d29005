package params

import "fmt"

// Result is the outcome of validating a candidate parameter object. Errors
// holds one human-readable message per violated rule, in fixed declaration
// order (long block, short block, hedge block, advanced block) so callers
// and tests can rely on the sequence.
type Result struct {
	IsValid bool     `json:"is_valid"`
	Errors  []string `json:"errors"`
}

// Validate checks a candidate parameter object against the domain
// constraints. It is a pure function: no side effects, no network. Every
// violation is collected; callers must block the save entirely when IsValid
// is false and present all messages at once.
func Validate(p InstanceParameters) Result {
	var errs []string

	errs = appendLegErrors(errs, "long", p.Long)
	errs = appendLegErrors(errs, "short", p.Short)

	if p.Hedge.TriggerLoss <= 0 {
		errs = append(errs, "hedge trigger_loss must be greater than 0")
	}
	if p.Hedge.EqualEps <= 0 {
		errs = append(errs, "hedge equal_eps must be greater than 0")
	}
	if p.Hedge.MinWaitSeconds <= 0 {
		errs = append(errs, "hedge min_wait_seconds must be greater than 0")
	}
	if p.Hedge.ReleaseTPAfterFull.Long <= 0 {
		errs = append(errs, "hedge release_tp_after_full.long must be greater than 0")
	}
	if p.Hedge.ReleaseTPAfterFull.Short <= 0 {
		errs = append(errs, "hedge release_tp_after_full.short must be greater than 0")
	}
	if p.Hedge.ReleaseSLLossRatio.Long <= 0 {
		errs = append(errs, "hedge release_sl_loss_ratio.long must be greater than 0")
	}
	if p.Hedge.ReleaseSLLossRatio.Short <= 0 {
		errs = append(errs, "hedge release_sl_loss_ratio.short must be greater than 0")
	}

	// Advanced numeric rules apply only when the field is set; zero means
	// unset for this optional block.
	if adv := p.Advanced; adv != nil {
		if adv.Leverage < 0 {
			errs = append(errs, "advanced leverage must be greater than 0")
		}
		if adv.Interval < 0 {
			errs = append(errs, "advanced interval must be greater than 0")
		}
		if adv.MaxDailyLoss < 0 {
			errs = append(errs, "advanced max_daily_loss must be greater than 0")
		}
		if adv.EmergencyStopLoss < 0 {
			errs = append(errs, "advanced emergency_stop_loss must be greater than 0")
		}
	}

	return Result{IsValid: len(errs) == 0, Errors: errs}
}

func appendLegErrors(errs []string, side string, leg LegParams) []string {
	if leg.FirstQty <= 0 {
		errs = append(errs, fmt.Sprintf("%s first_qty must be greater than 0", side))
	}
	if leg.AddRatio <= 0 {
		errs = append(errs, fmt.Sprintf("%s add_ratio must be greater than 0", side))
	}
	if leg.AddInterval <= 0 {
		errs = append(errs, fmt.Sprintf("%s add_interval must be greater than 0", side))
	}
	if leg.MaxAddTimes <= 0 {
		errs = append(errs, fmt.Sprintf("%s max_add_times must be greater than 0", side))
	}
	if leg.TPFirstOrder <= 0 {
		errs = append(errs, fmt.Sprintf("%s tp_first_order must be greater than 0", side))
	}
	if leg.TPBeforeFull <= 0 {
		errs = append(errs, fmt.Sprintf("%s tp_before_full must be greater than 0", side))
	}
	if leg.TPAfterFull <= 0 {
		errs = append(errs, fmt.Sprintf("%s tp_after_full must be greater than 0", side))
	}
	return errs
}
