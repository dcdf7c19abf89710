package vitals

import (
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Reading is one generated point before persistence.
type Reading struct {
	Value      float64
	Unit       string
	RecordedAt time.Time
}

// GenerateSeries produces a plausible daily series for a metric type,
// ending at end and going back days days. Deterministic for a given
// seed so demo data is reproducible.
func GenerateSeries(metricType string, days int, end time.Time, seed int64) []Reading {
	if days <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	end = end.Truncate(24 * time.Hour)

	readings := make([]Reading, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		// progress runs 0→1 over the series.
		progress := float64(days-1-i) / math.Max(float64(days-1), 1)

		var value float64
		var unit string
		switch metricType {
		case MetricHeartRate:
			// Resting rate with a mild weekly rhythm.
			value = 68 + 4*math.Sin(2*math.Pi*float64(i)/7) + rng.Float64()*6 - 3
			value = math.Round(value)
			unit = "bpm"
		case MetricSteps:
			value = 6500 + 2500*rng.Float64()
			if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
				value *= 0.7
			}
			value = math.Round(value)
			unit = "steps"
		default:
			// Weight trending down ~8% over the series with daily noise,
			// the shape a responding weight-loss patient shows.
			value = 220 * (1 - 0.08*progress)
			value += rng.Float64()*2 - 1
			value = math.Round(value*10) / 10
			unit = "lbs"
		}

		readings = append(readings, Reading{
			Value:      value,
			Unit:       unit,
			RecordedAt: day,
		})
	}
	return readings
}

// SeedFor derives a stable per-patient seed so repeated generation
// yields the same series.
func SeedFor(patientID uuid.UUID, metricType string) int64 {
	var seed int64
	for _, b := range patientID {
		seed = seed*31 + int64(b)
	}
	for _, r := range metricType {
		seed = seed*31 + int64(r)
	}
	return seed
}
