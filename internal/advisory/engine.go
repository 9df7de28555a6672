// Package advisory turns a location's hemisphere, calendar dates and moon
// phase samples into ranked horticultural action recommendations.
package advisory

import (
	"slices"
	"time"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

// ActionKind identifies a horticultural action.
type ActionKind string

const (
	ActionRepot             ActionKind = "repot"
	ActionStructuralPruning ActionKind = "structural-pruning"
	ActionPinching          ActionKind = "pinching"
	ActionFertilizing       ActionKind = "fertilizing"
	ActionWiring            ActionKind = "wiring"
)

// ActionWindow maps an action to the calendar months it applies in, per
// hemisphere. Read-only configuration injected at construction.
type ActionWindow struct {
	Action      ActionKind
	MonthsNorth []time.Month
	MonthsSouth []time.Month
}

// DefaultWindows is the built-in seasonal table. Windows follow temperate
// bonsai practice: repotting and structural work in late winter, pinching
// and feeding through the growth season, wiring once growth slows.
func DefaultWindows() []ActionWindow {
	return []ActionWindow{
		{
			Action:      ActionRepot,
			MonthsNorth: []time.Month{time.February, time.March},
			MonthsSouth: []time.Month{time.August, time.September},
		},
		{
			Action:      ActionStructuralPruning,
			MonthsNorth: []time.Month{time.January, time.February},
			MonthsSouth: []time.Month{time.July, time.August},
		},
		{
			Action:      ActionPinching,
			MonthsNorth: []time.Month{time.April, time.May, time.June},
			MonthsSouth: []time.Month{time.October, time.November, time.December},
		},
		{
			Action: ActionFertilizing,
			MonthsNorth: []time.Month{
				time.March, time.April, time.May, time.June,
				time.July, time.August, time.September, time.October,
			},
			MonthsSouth: []time.Month{
				time.September, time.October, time.November, time.December,
				time.January, time.February, time.March, time.April,
			},
		},
		{
			Action:      ActionWiring,
			MonthsNorth: []time.Month{time.October, time.November},
			MonthsSouth: []time.Month{time.April, time.May},
		},
	}
}

// Item is one recommended date with its applicable actions.
type Item struct {
	Date      string       `json:"date"`
	MoonPhase *float64     `json:"moonPhase,omitempty"`
	PhaseName string       `json:"phaseName,omitempty"`
	Actions   []ActionKind `json:"actions"`
}

// Engine evaluates the window table against astronomy data.
type Engine struct {
	windows []ActionWindow
}

// New creates an engine with the given window table; a nil table uses the
// defaults.
func New(windows []ActionWindow) *Engine {
	if windows == nil {
		windows = DefaultWindows()
	}
	return &Engine{windows: windows}
}

// Recommend evaluates each astronomy day against the window table for the
// location's hemisphere. Days whose date cannot be parsed or that satisfy
// no action predicate are omitted. When useLunarRule is set and a day
// carries a moon phase sample, per-action lunar rules apply: structural
// pruning requires a waning moon, repotting is suppressed around full
// moon. A positive limit truncates the result.
func (e *Engine) Recommend(location model.Location, days []model.AstronomyDay, useLunarRule bool, limit int) []Item {
	items := make([]Item, 0, len(days))

	for _, day := range days {
		date, err := time.Parse("2006-01-02", day.Date)
		if err != nil {
			continue
		}
		month := date.Month()

		var actions []ActionKind
		for _, window := range e.windows {
			if !slices.Contains(window.months(location.Hemisphere), month) {
				continue
			}
			if useLunarRule && day.MoonPhase != nil && !lunarAllows(window.Action, *day.MoonPhase) {
				continue
			}
			actions = append(actions, window.Action)
		}
		if len(actions) == 0 {
			continue
		}

		item := Item{Date: day.Date, MoonPhase: day.MoonPhase, Actions: actions}
		if day.MoonPhase != nil {
			item.PhaseName = MoonPhaseLabel(*day.MoonPhase)
		}
		items = append(items, item)

		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items
}

func (w *ActionWindow) months(hemisphere model.Hemisphere) []time.Month {
	if hemisphere == model.HemisphereSouth {
		return w.MonthsSouth
	}
	return w.MonthsNorth
}

// lunarAllows applies the per-action lunar rule to a phase sample.
// Structural pruning wants a waning moon; repotting avoids the stress
// window around full moon. Other actions are unconstrained by phase.
func lunarAllows(action ActionKind, phase float64) bool {
	switch action {
	case ActionStructuralPruning:
		return phase >= 0.50
	case ActionRepot:
		return !(phase > 0.45 && phase < 0.55)
	default:
		return true
	}
}
