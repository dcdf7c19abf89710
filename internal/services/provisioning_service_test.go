package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanjameskelley/joinomu-sub002/internal/catalog"
)

func TestDefaultWeeklySchedule(t *testing.T) {
	providerID := uuid.New()
	week := catalog.DefaultWeek{
		Days:       []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		StartTime:  "09:00:00",
		EndTime:    "17:00:00",
		Treatments: []string{"weight_loss", "mens_health"},
	}

	rows := DefaultWeeklySchedule(providerID, week)
	require.Len(t, rows, 5)

	for i, row := range rows {
		assert.Equal(t, providerID, row.ProviderID)
		assert.Equal(t, week.Days[i], row.DayOfWeek)
		assert.Equal(t, "09:00:00", row.StartTime)
		assert.Equal(t, "17:00:00", row.EndTime)

		var treatments []string
		require.NoError(t, json.Unmarshal(row.TreatmentTypes, &treatments))
		assert.Equal(t, week.Treatments, treatments)
	}
}

func TestDefaultWeeklyScheduleEmptyWeek(t *testing.T) {
	rows := DefaultWeeklySchedule(uuid.New(), catalog.DefaultWeek{})
	assert.Empty(t, rows)
}

func TestNextRetryDelay(t *testing.T) {
	assert.Equal(t, 5*time.Second, NextRetryDelay(1))
	assert.Equal(t, 10*time.Second, NextRetryDelay(2))
	assert.Equal(t, 20*time.Second, NextRetryDelay(3))
	assert.Equal(t, 40*time.Second, NextRetryDelay(4))

	// Zero and negative attempts behave like the first.
	assert.Equal(t, 5*time.Second, NextRetryDelay(0))
	assert.Equal(t, 5*time.Second, NextRetryDelay(-3))

	// The cap holds no matter how many attempts.
	assert.Equal(t, 10*time.Minute, NextRetryDelay(10))
	assert.Equal(t, 10*time.Minute, NextRetryDelay(100))
}
