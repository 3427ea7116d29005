package params

// Template is a named risk-posture preset. Templates are immutable, defined
// at build time and never persisted; they carry leg and hedge values plus an
// optional notifications toggle.
type Template struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	Long          LegParams   `json:"long"`
	Short         LegParams   `json:"short"`
	Hedge         HedgeParams `json:"hedge"`
	Notifications *bool       `json:"notifications,omitempty"`
}

// Apply overlays the template onto the target parameters. It overwrites the
// leg and hedge blocks, leaves the advanced block alone and forces AutoTrade
// off: no template may ever grant live-trading permission.
func (t Template) Apply(p *InstanceParameters) {
	p.Long = t.Long
	p.Short = t.Short
	p.Hedge = t.Hedge
	p.AutoTrade = false
	if t.Notifications != nil {
		p.Notifications = *t.Notifications
	} else {
		p.Notifications = true
	}
}

var builtinTemplates = []Template{
	{
		ID:          "conservative",
		Name:        "Conservative",
		Description: "Small first entries, few adds, wide add spacing and early profit taking. Hedges open late and release quickly.",
		Long: LegParams{
			FirstQty:     0.005,
			AddRatio:     1.5,
			AddInterval:  0.03,
			MaxAddTimes:  2,
			TPFirstOrder: 0.008,
			TPBeforeFull: 0.01,
			TPAfterFull:  0.012,
		},
		Short: LegParams{
			FirstQty:     0.005,
			AddRatio:     1.5,
			AddInterval:  0.03,
			MaxAddTimes:  2,
			TPFirstOrder: 0.008,
			TPBeforeFull: 0.01,
			TPAfterFull:  0.012,
		},
		Hedge: HedgeParams{
			TriggerLoss:        0.08,
			EqualEps:           0.01,
			MinWaitSeconds:     120,
			ReleaseTPAfterFull: SidePair{Long: 0.01, Short: 0.01},
			ReleaseSLLossRatio: SidePair{Long: 0.4, Short: 0.4},
		},
	},
	{
		ID:          "balanced",
		Name:        "Balanced",
		Description: "The built-in safe defaults: moderate sizing, three adds per leg and standard hedge thresholds.",
		Long:        DefaultLeg(),
		Short:       DefaultLeg(),
		Hedge:       DefaultHedge(),
	},
	{
		ID:          "aggressive",
		Name:        "Aggressive",
		Description: "Double-size first entries, tighter add spacing, more adds and an early hedge trigger. Expect larger swings.",
		Long: LegParams{
			FirstQty:     0.02,
			AddRatio:     2.0,
			AddInterval:  0.015,
			MaxAddTimes:  5,
			TPFirstOrder: 0.012,
			TPBeforeFull: 0.018,
			TPAfterFull:  0.025,
		},
		Short: LegParams{
			FirstQty:     0.02,
			AddRatio:     2.0,
			AddInterval:  0.015,
			MaxAddTimes:  5,
			TPFirstOrder: 0.012,
			TPBeforeFull: 0.018,
			TPAfterFull:  0.025,
		},
		Hedge: HedgeParams{
			TriggerLoss:        0.03,
			EqualEps:           0.01,
			MinWaitSeconds:     30,
			ReleaseTPAfterFull: SidePair{Long: 0.015, Short: 0.015},
			ReleaseSLLossRatio: SidePair{Long: 0.6, Short: 0.6},
		},
	},
}

// Templates returns the built-in presets in display order.
func Templates() []Template {
	out := make([]Template, len(builtinTemplates))
	copy(out, builtinTemplates)
	return out
}

// TemplateByID looks up a built-in preset.
func TemplateByID(id string) (Template, bool) {
	for _, t := range builtinTemplates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
