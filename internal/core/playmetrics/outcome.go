package playmetrics

// Outcome tags the possession result of a play. The sign convention of the
// after-state depends on the branch, so each branch is modeled explicitly
// instead of through nested conditionals.
type Outcome int

const (
	// OutcomeNormalGain keeps possession: the after-state is evaluated
	// directly for the same offense.
	OutcomeNormalGain Outcome = iota
	// OutcomeTouchdown fixes expected points at 7 and bumps win probability.
	OutcomeTouchdown
	// OutcomeTurnover flips possession (interception or lost fumble): the
	// after-state is the before-state negated.
	OutcomeTurnover
	// OutcomeTurnoverOnDowns flips possession after a failed 4th down: the
	// after-state is evaluated for the new situation, then negated.
	OutcomeTurnoverOnDowns
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTouchdown:
		return "touchdown"
	case OutcomeTurnover:
		return "turnover"
	case OutcomeTurnoverOnDowns:
		return "turnover_on_downs"
	default:
		return "normal_gain"
	}
}
