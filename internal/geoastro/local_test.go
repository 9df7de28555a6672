package geoastro

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalCalculator_Day(t *testing.T) {
	calc := NewLocalCalculator(60.1699, 24.9384, time.UTC)
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	day, err := calc.Day(date)

	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", day.Date)
	require.NotNil(t, day.Sunrise)
	require.NotNil(t, day.Sunset)
	assert.True(t, day.Sunrise.Before(*day.Sunset))
	require.NotNil(t, day.MoonPhase)
	assert.GreaterOrEqual(t, *day.MoonPhase, 0.0)
	assert.Less(t, *day.MoonPhase, 1.0)

	// Second call must come from cache and match exactly.
	again, err := calc.Day(date)
	require.NoError(t, err)
	assert.Equal(t, day, again)
}

func TestLocalCalculator_Days(t *testing.T) {
	calc := NewLocalCalculator(60.1699, 24.9384, time.UTC)

	days, err := calc.Days("2024-02-01", "2024-02-03")

	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, "2024-02-01", days[0].Date)
	assert.Equal(t, "2024-02-03", days[2].Date)
}

func TestMoonPhaseFraction_Bounds(t *testing.T) {
	for day := 0; day < 60; day++ {
		date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
		phase := MoonPhaseFraction(date)
		assert.GreaterOrEqual(t, phase, 0.0, "date %s", date.Format(ISODate))
		assert.Less(t, phase, 1.0, "date %s", date.Format(ISODate))
	}
}
