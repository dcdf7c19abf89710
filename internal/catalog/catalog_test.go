package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileMissingFallsBackToBuiltins(t *testing.T) {
	c, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	assert.True(t, c.Exists("weight_loss"))
	assert.True(t, c.Exists("mens_health"))
	assert.False(t, c.Exists("dermatology"))

	week := c.DefaultWeek()
	assert.Equal(t, []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}, week.Days)
	assert.Equal(t, "09:00:00", week.StartTime)
	assert.Equal(t, "17:00:00", week.EndTime)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	payload := `{
		"treatments": [
			{"key": "dermatology", "name": "Dermatology", "active": true}
		],
		"default_week": {
			"days": ["Monday", "Wednesday"],
			"start_time": "08:00:00",
			"end_time": "12:00:00",
			"treatments": ["dermatology"]
		}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)

	got := c.Get("dermatology")
	require.NotNil(t, got)
	assert.Equal(t, "Dermatology", got.Name)
	assert.True(t, got.Active)

	week := c.DefaultWeek()
	assert.Equal(t, []string{"Monday", "Wednesday"}, week.Days)
	assert.Equal(t, "08:00:00", week.StartTime)
}

func TestLoadFromFileKeepsBuiltinWeekWhenOmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"treatments": []}`), 0o644))

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "09:00:00", c.DefaultWeek().StartTime)
}

func TestLoadFromFileInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestRegisterAndAll(t *testing.T) {
	c := New()
	assert.Empty(t, c.All())

	c.Register(&Treatment{Key: "weight_loss", Name: "Weight Loss", Active: true})
	c.Register(&Treatment{Key: "mens_health", Name: "Mens Health", Active: true})

	assert.Len(t, c.All(), 2)
	assert.True(t, c.Exists("weight_loss"))
	assert.Nil(t, c.Get("missing"))
}
