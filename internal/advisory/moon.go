package advisory

// Moon phase names for the eight classic buckets.
const (
	PhaseNew            = "new"
	PhaseWaxingCrescent = "waxing crescent"
	PhaseFirstQuarter   = "first quarter"
	PhaseWaxingGibbous  = "waxing gibbous"
	PhaseFull           = "full"
	PhaseWaningGibbous  = "waning gibbous"
	PhaseLastQuarter    = "last quarter"
	PhaseWaningCrescent = "waning crescent"
)

// MoonPhaseLabel buckets a [0,1) phase fraction into one of eight named
// phases. Values near both ends of the cycle map to new moon.
func MoonPhaseLabel(p float64) string {
	switch {
	case p < 0.03 || p > 0.97:
		return PhaseNew
	case p < 0.22:
		return PhaseWaxingCrescent
	case p < 0.28:
		return PhaseFirstQuarter
	case p < 0.47:
		return PhaseWaxingGibbous
	case p < 0.53:
		return PhaseFull
	case p < 0.72:
		return PhaseWaningGibbous
	case p < 0.78:
		return PhaseLastQuarter
	default:
		return PhaseWaningCrescent
	}
}
