package advisory

import (
	"slices"
	"testing"
	"time"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

func northLocation() model.Location {
	return model.Location{Latitude: 60.17, Longitude: 24.94, Hemisphere: model.HemisphereNorth}
}

func southLocation() model.Location {
	return model.Location{Latitude: -12.05, Longitude: -77.05, Hemisphere: model.HemisphereSouth}
}

func day(date string, phase *float64) model.AstronomyDay {
	return model.AstronomyDay{Date: date, MoonPhase: phase}
}

func phase(p float64) *float64 { return &p }

func hasAction(item Item, action ActionKind) bool {
	return slices.Contains(item.Actions, action)
}

func TestRecommendRepotWindowByHemisphere(t *testing.T) {
	t.Parallel()
	engine := New(nil)

	north := engine.Recommend(northLocation(), []model.AstronomyDay{day("2024-02-10", nil)}, false, 0)
	if len(north) != 1 || !hasAction(north[0], ActionRepot) {
		t.Errorf("northern February must include repot, got %+v", north)
	}

	south := engine.Recommend(southLocation(), []model.AstronomyDay{day("2024-02-10", nil)}, false, 0)
	for _, item := range south {
		if hasAction(item, ActionRepot) {
			t.Errorf("southern February must not include repot, got %+v", item)
		}
	}

	southSpring := engine.Recommend(southLocation(), []model.AstronomyDay{day("2024-08-10", nil)}, false, 0)
	if len(southSpring) != 1 || !hasAction(southSpring[0], ActionRepot) {
		t.Errorf("southern August must include repot, got %+v", southSpring)
	}
}

func TestRecommendLunarRuleSuppressesRepot(t *testing.T) {
	t.Parallel()
	engine := New(nil)
	days := []model.AstronomyDay{day("2024-02-10", phase(0.50))}

	items := engine.Recommend(northLocation(), days, true, 0)
	for _, item := range items {
		if hasAction(item, ActionRepot) {
			t.Errorf("repot must be suppressed at phase 0.50, got %+v", item)
		}
	}

	// Without the lunar rule the same day recommends repot.
	items = engine.Recommend(northLocation(), days, false, 0)
	if len(items) != 1 || !hasAction(items[0], ActionRepot) {
		t.Errorf("repot must apply without the lunar rule, got %+v", items)
	}
}

func TestRecommendStructuralPruningNeedsWaningMoon(t *testing.T) {
	t.Parallel()
	engine := New(nil)

	waxing := engine.Recommend(northLocation(), []model.AstronomyDay{day("2024-01-10", phase(0.20))}, true, 0)
	for _, item := range waxing {
		if hasAction(item, ActionStructuralPruning) {
			t.Errorf("structural pruning must need a waning moon, got %+v", item)
		}
	}

	waning := engine.Recommend(northLocation(), []model.AstronomyDay{day("2024-01-10", phase(0.60))}, true, 0)
	if len(waning) != 1 || !hasAction(waning[0], ActionStructuralPruning) {
		t.Errorf("structural pruning must apply on a waning moon, got %+v", waning)
	}
}

func TestRecommendOmitsEmptyDays(t *testing.T) {
	t.Parallel()
	// A table with a single January-only action.
	engine := New([]ActionWindow{{
		Action:      ActionWiring,
		MonthsNorth: []time.Month{time.January},
		MonthsSouth: []time.Month{time.July},
	}})

	items := engine.Recommend(northLocation(), []model.AstronomyDay{
		day("2024-01-31", nil),
		day("2024-02-01", nil),
	}, false, 0)

	if len(items) != 1 || items[0].Date != "2024-01-31" {
		t.Errorf("days with no active actions must be omitted, got %+v", items)
	}
}

func TestRecommendLimitTruncates(t *testing.T) {
	t.Parallel()
	engine := New(nil)

	days := []model.AstronomyDay{
		day("2024-02-01", nil),
		day("2024-02-02", nil),
		day("2024-02-03", nil),
	}
	items := engine.Recommend(northLocation(), days, false, 2)
	if len(items) != 2 {
		t.Errorf("limit must truncate, got %d items", len(items))
	}
}

func TestRecommendSkipsUnparsableDates(t *testing.T) {
	t.Parallel()
	engine := New(nil)

	items := engine.Recommend(northLocation(), []model.AstronomyDay{day("February 10", nil)}, false, 0)
	if len(items) != 0 {
		t.Errorf("unparsable dates must be skipped, got %+v", items)
	}
}

func TestMoonPhaseLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase float64
		want  string
	}{
		{0.0, PhaseNew},
		{0.10, PhaseWaxingCrescent},
		{0.25, PhaseFirstQuarter},
		{0.40, PhaseWaxingGibbous},
		{0.5, PhaseFull},
		{0.60, PhaseWaningGibbous},
		{0.75, PhaseLastQuarter},
		{0.85, PhaseWaningCrescent},
		{0.99, PhaseNew}, // wraparound
	}

	for _, tt := range tests {
		if got := MoonPhaseLabel(tt.phase); got != tt.want {
			t.Errorf("MoonPhaseLabel(%v) = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
