package geoastro

import (
	"fmt"
	"sync"
	"time"

	"github.com/sj14/astral/pkg/astral"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

// lunarCycleDays is the length of the synodic month used to normalize
// astral's moon phase into a [0,1) fraction.
const lunarCycleDays = 28.0

// localEntry holds computed astronomy for a single date.
type localEntry struct {
	day  model.AstronomyDay
	date time.Time
}

// LocalCalculator computes sun events and moon phase offline, used when
// the astronomy provider is unreachable. Results are cached per date.
type LocalCalculator struct {
	cache    map[string]localEntry
	lock     sync.RWMutex
	observer astral.Observer
	location *time.Location
}

// NewLocalCalculator creates a calculator for fixed coordinates. A nil
// location defaults to the system timezone.
func NewLocalCalculator(latitude, longitude float64, location *time.Location) *LocalCalculator {
	if location == nil {
		location = time.Local
	}
	return &LocalCalculator{
		cache:    make(map[string]localEntry),
		observer: astral.Observer{Latitude: latitude, Longitude: longitude},
		location: location,
	}
}

// Day returns locally computed astronomy for a date, using cache if
// available.
func (lc *LocalCalculator) Day(date time.Time) (model.AstronomyDay, error) {
	dateKey := date.Format(ISODate)

	lc.lock.RLock()
	entry, exists := lc.cache[dateKey]
	lc.lock.RUnlock()

	if exists && entry.date.Equal(date) {
		return entry.day, nil
	}

	day, err := lc.calculateDay(date)
	if err != nil {
		return model.AstronomyDay{}, err
	}

	lc.lock.Lock()
	lc.cache[dateKey] = localEntry{day: day, date: date}
	lc.lock.Unlock()

	return day, nil
}

// Days returns locally computed astronomy for each day in [start, end].
func (lc *LocalCalculator) Days(start, end string) ([]model.AstronomyDay, error) {
	dates, err := daysInRange(start, end)
	if err != nil {
		return nil, err
	}

	days := make([]model.AstronomyDay, 0, len(dates))
	for _, dateStr := range dates {
		date, parseErr := time.ParseInLocation(ISODate, dateStr, lc.location)
		if parseErr != nil {
			return nil, parseErr
		}
		day, dayErr := lc.Day(date)
		if dayErr != nil {
			return nil, dayErr
		}
		days = append(days, day)
	}
	return days, nil
}

func (lc *LocalCalculator) calculateDay(date time.Time) (model.AstronomyDay, error) {
	sunrise, err := astral.Sunrise(lc.observer, date)
	if err != nil {
		return model.AstronomyDay{}, fmt.Errorf("failed to calculate sunrise: %w", err)
	}
	sunset, err := astral.Sunset(lc.observer, date)
	if err != nil {
		return model.AstronomyDay{}, fmt.Errorf("failed to calculate sunset: %w", err)
	}

	localSunrise := sunrise.In(lc.location)
	localSunset := sunset.In(lc.location)
	phase := MoonPhaseFraction(date)

	return model.AstronomyDay{
		Date:      date.Format(ISODate),
		Sunrise:   &localSunrise,
		Sunset:    &localSunset,
		MoonPhase: &phase,
	}, nil
}

// MoonPhaseFraction returns the moon phase for a date as a fraction of
// the lunar cycle: 0 is new moon, 0.5 is full moon.
func MoonPhaseFraction(date time.Time) float64 {
	return normalizePhase(astral.MoonPhase(date) / lunarCycleDays)
}
