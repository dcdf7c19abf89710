package vitals

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSeriesDeterministic(t *testing.T) {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	a := GenerateSeries(MetricWeight, 30, end, 42)
	b := GenerateSeries(MetricWeight, 30, end, 42)
	assert.Equal(t, a, b)

	c := GenerateSeries(MetricWeight, 30, end, 43)
	assert.NotEqual(t, a, c)
}

func TestGenerateSeriesLengthAndOrder(t *testing.T) {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	readings := GenerateSeries(MetricHeartRate, 14, end, 1)
	require.Len(t, readings, 14)

	for i := 1; i < len(readings); i++ {
		assert.True(t, readings[i].RecordedAt.After(readings[i-1].RecordedAt))
		assert.Equal(t, 24*time.Hour, readings[i].RecordedAt.Sub(readings[i-1].RecordedAt))
	}
	assert.Equal(t, end.Truncate(24*time.Hour), readings[len(readings)-1].RecordedAt)
}

func TestGenerateSeriesWeightTrendsDown(t *testing.T) {
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	readings := GenerateSeries(MetricWeight, 90, end, 7)
	require.Len(t, readings, 90)

	first, last := readings[0], readings[len(readings)-1]
	assert.Equal(t, "lbs", first.Unit)
	assert.Greater(t, first.Value, last.Value)
	// Roughly an 8% drop from 220, give or take the noise.
	assert.InDelta(t, 220*0.92, last.Value, 3)
}

func TestGenerateSeriesHeartRateStaysPlausible(t *testing.T) {
	readings := GenerateSeries(MetricHeartRate, 60, time.Now(), 99)
	for _, r := range readings {
		assert.Equal(t, "bpm", r.Unit)
		assert.GreaterOrEqual(t, r.Value, 55.0)
		assert.LessOrEqual(t, r.Value, 85.0)
	}
}

func TestGenerateSeriesStepsDampenedOnWeekends(t *testing.T) {
	readings := GenerateSeries(MetricSteps, 28, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 5)

	var weekday, weekend float64
	var weekdayN, weekendN int
	for _, r := range readings {
		assert.Equal(t, "steps", r.Unit)
		switch r.RecordedAt.Weekday() {
		case time.Saturday, time.Sunday:
			weekend += r.Value
			weekendN++
		default:
			weekday += r.Value
			weekdayN++
		}
	}
	require.NotZero(t, weekdayN)
	require.NotZero(t, weekendN)
	assert.Greater(t, weekday/float64(weekdayN), weekend/float64(weekendN))
}

func TestGenerateSeriesDegenerate(t *testing.T) {
	assert.Nil(t, GenerateSeries(MetricWeight, 0, time.Now(), 1))
	assert.Nil(t, GenerateSeries(MetricWeight, -5, time.Now(), 1))
}

func TestSeedForStable(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, SeedFor(id, MetricWeight), SeedFor(id, MetricWeight))
	assert.NotEqual(t, SeedFor(id, MetricWeight), SeedFor(id, MetricSteps))
	assert.NotEqual(t, SeedFor(uuid.New(), MetricWeight), SeedFor(uuid.New(), MetricWeight))
}
