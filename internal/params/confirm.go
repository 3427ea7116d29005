package params

import "errors"

// ConfirmState is the explicit state of a two-step confirmation flow. The
// pending-vs-committed distinction is a named state rather than a boolean so
// it stays type-checkable.
type ConfirmState int

const (
	StateIdle ConfirmState = iota
	StatePendingConfirm
)

func (s ConfirmState) String() string {
	if s == StatePendingConfirm {
		return "pending_confirm"
	}
	return "idle"
}

var (
	// ErrUnknownTemplate is returned when a requested template ID does not
	// name a built-in preset.
	ErrUnknownTemplate = errors.New("unknown template")

	// ErrNothingPending is returned when confirm is called with no pending
	// request to commit.
	ErrNothingPending = errors.New("no pending confirmation")

	// ErrAlreadyPending is returned when a new request arrives while an
	// earlier one is still awaiting confirmation.
	ErrAlreadyPending = errors.New("confirmation already pending")
)

// TemplateConfirm guards template application behind an explicit
// confirmation step. Requesting a template records intent and exposes its
// description for display; nothing mutates until Confirm.
type TemplateConfirm struct {
	state   ConfirmState
	pending Template
}

// State returns the current flow state.
func (tc *TemplateConfirm) State() ConfirmState { return tc.state }

// Pending returns the template awaiting confirmation, if any.
func (tc *TemplateConfirm) Pending() (Template, bool) {
	return tc.pending, tc.state == StatePendingConfirm
}

// Request records the intent to apply a template and returns it so the
// caller can display its description before committing.
func (tc *TemplateConfirm) Request(templateID string) (Template, error) {
	if tc.state == StatePendingConfirm {
		return Template{}, ErrAlreadyPending
	}
	t, ok := TemplateByID(templateID)
	if !ok {
		return Template{}, ErrUnknownTemplate
	}
	tc.state = StatePendingConfirm
	tc.pending = t
	return t, nil
}

// Confirm applies the pending template to the target and returns to idle.
// Apply itself forces AutoTrade off, so confirming a template can never
// enable live trading.
func (tc *TemplateConfirm) Confirm(p *InstanceParameters) error {
	if tc.state != StatePendingConfirm {
		return ErrNothingPending
	}
	tc.pending.Apply(p)
	tc.state = StateIdle
	tc.pending = Template{}
	return nil
}

// Cancel discards the pending template with no mutation.
func (tc *TemplateConfirm) Cancel() {
	tc.state = StateIdle
	tc.pending = Template{}
}

// AutoTradeWarning is shown to the operator before auto-trade may be turned
// on.
const AutoTradeWarning = "Enabling auto-trade allows the backend to place live orders " +
	"for this instance without further confirmation. Verify the parameters and account " +
	"before continuing."

// AutoTradeGate guards the live-trading flag. Enabling requires an explicit
// Request/Confirm pair; disabling is immediate. Turning risk off is always
// allowed instantly, turning it on requires friction.
type AutoTradeGate struct {
	state ConfirmState
}

// State returns the current flow state.
func (g *AutoTradeGate) State() ConfirmState { return g.state }

// RequestEnable records the intent to enable auto-trade and returns the
// warning the operator must see.
func (g *AutoTradeGate) RequestEnable() (string, error) {
	if g.state == StatePendingConfirm {
		return "", ErrAlreadyPending
	}
	g.state = StatePendingConfirm
	return AutoTradeWarning, nil
}

// ConfirmEnable flips auto-trade on. This is the only code path in the
// repository that sets AutoTrade to true.
func (g *AutoTradeGate) ConfirmEnable(p *InstanceParameters) error {
	if g.state != StatePendingConfirm {
		return ErrNothingPending
	}
	p.AutoTrade = true
	g.state = StateIdle
	return nil
}

// Cancel discards a pending enable request.
func (g *AutoTradeGate) Cancel() {
	g.state = StateIdle
}

// Disable turns auto-trade off immediately, no confirmation required, and
// drops any pending enable request.
func (g *AutoTradeGate) Disable(p *InstanceParameters) {
	p.AutoTrade = false
	g.state = StateIdle
}
