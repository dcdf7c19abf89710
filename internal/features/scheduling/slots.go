package scheduling

import (
	"time"
)

// SlotMinutes is the booking granularity.
const SlotMinutes = 30

// Slot is one bookable window on a given date.
type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Window is a half-open availability interval in minutes since
// midnight, the internal currency of the slot math.
type Window struct {
	Start int
	End   int
}

// ParseClock converts an HH:MM:SS (or HH:MM) string to minutes since
// midnight. Returns -1 for unparseable input.
func ParseClock(s string) int {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
		if err != nil {
			return -1
		}
	}
	return t.Hour()*60 + t.Minute()
}

// FormatClock renders minutes since midnight as HH:MM:SS.
func FormatClock(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format("15:04:05")
}

// SplitWindow divides an availability window into fixed-size slots,
// dropping any remainder shorter than a full slot.
func SplitWindow(w Window, slotMinutes int) []Slot {
	if slotMinutes <= 0 || w.End <= w.Start {
		return nil
	}
	var slots []Slot
	for start := w.Start; start+slotMinutes <= w.End; start += slotMinutes {
		slots = append(slots, Slot{
			StartTime: FormatClock(start),
			EndTime:   FormatClock(start + slotMinutes),
		})
	}
	return slots
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(a, b Window) bool {
	return a.Start < b.End && b.Start < a.End
}

// FilterBooked removes slots that intersect any booked window.
func FilterBooked(slots []Slot, booked []Window) []Slot {
	open := make([]Slot, 0, len(slots))
	for _, s := range slots {
		w := Window{Start: ParseClock(s.StartTime), End: ParseClock(s.EndTime)}
		conflict := false
		for _, b := range booked {
			if Overlaps(w, b) {
				conflict = true
				break
			}
		}
		if !conflict {
			open = append(open, s)
		}
	}
	return open
}
