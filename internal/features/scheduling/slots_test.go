package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	assert.Equal(t, 0, ParseClock("00:00:00"))
	assert.Equal(t, 9*60, ParseClock("09:00:00"))
	assert.Equal(t, 17*60, ParseClock("17:00:00"))
	assert.Equal(t, 13*60+30, ParseClock("13:30"))
	assert.Equal(t, -1, ParseClock("25:00:00"))
	assert.Equal(t, -1, ParseClock("nope"))
	assert.Equal(t, -1, ParseClock(""))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "09:00:00", FormatClock(9*60))
	assert.Equal(t, "13:30:00", FormatClock(13*60+30))
}

func TestClockRoundTrip(t *testing.T) {
	for _, s := range []string{"09:00:00", "12:30:00", "23:59:00"} {
		assert.Equal(t, s, FormatClock(ParseClock(s)))
	}
}

func TestSplitWindow(t *testing.T) {
	slots := SplitWindow(Window{Start: 9 * 60, End: 11 * 60}, SlotMinutes)
	require.Len(t, slots, 4)
	assert.Equal(t, Slot{StartTime: "09:00:00", EndTime: "09:30:00"}, slots[0])
	assert.Equal(t, Slot{StartTime: "10:30:00", EndTime: "11:00:00"}, slots[3])
}

func TestSplitWindowDropsPartialSlot(t *testing.T) {
	slots := SplitWindow(Window{Start: 9 * 60, End: 9*60 + 45}, SlotMinutes)
	require.Len(t, slots, 1)
	assert.Equal(t, "09:30:00", slots[0].EndTime)
}

func TestSplitWindowDegenerate(t *testing.T) {
	assert.Nil(t, SplitWindow(Window{Start: 600, End: 600}, SlotMinutes))
	assert.Nil(t, SplitWindow(Window{Start: 660, End: 600}, SlotMinutes))
	assert.Nil(t, SplitWindow(Window{Start: 540, End: 600}, 0))
}

func TestDefaultWorkdaySlotCount(t *testing.T) {
	// A 09:00-17:00 day yields sixteen half-hour slots.
	slots := SplitWindow(Window{Start: ParseClock("09:00:00"), End: ParseClock("17:00:00")}, SlotMinutes)
	assert.Len(t, slots, 16)
}

func TestOverlaps(t *testing.T) {
	a := Window{Start: 540, End: 570}

	assert.True(t, Overlaps(a, Window{Start: 540, End: 570}))
	assert.True(t, Overlaps(a, Window{Start: 555, End: 585}))
	assert.True(t, Overlaps(a, Window{Start: 500, End: 545}))

	// Half-open intervals: sharing an endpoint is not an overlap.
	assert.False(t, Overlaps(a, Window{Start: 570, End: 600}))
	assert.False(t, Overlaps(a, Window{Start: 510, End: 540}))
	assert.False(t, Overlaps(a, Window{Start: 600, End: 630}))
}

func TestFilterBooked(t *testing.T) {
	slots := SplitWindow(Window{Start: 9 * 60, End: 11 * 60}, SlotMinutes)
	require.Len(t, slots, 4)

	booked := []Window{
		{Start: ParseClock("09:30:00"), End: ParseClock("10:00:00")},
	}
	open := FilterBooked(slots, booked)
	require.Len(t, open, 3)
	for _, s := range open {
		assert.NotEqual(t, "09:30:00", s.StartTime)
	}
}

func TestFilterBookedNoConflicts(t *testing.T) {
	slots := SplitWindow(Window{Start: 9 * 60, End: 10 * 60}, SlotMinutes)
	open := FilterBooked(slots, nil)
	assert.Equal(t, slots, open)
}

func TestFilterBookedEverythingTaken(t *testing.T) {
	slots := SplitWindow(Window{Start: 9 * 60, End: 12 * 60}, SlotMinutes)
	open := FilterBooked(slots, []Window{{Start: 9 * 60, End: 12 * 60}})
	assert.Empty(t, open)
}
