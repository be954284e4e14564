package booking

import "time"

// Clinic hours: a morning block from 10:00 to 13:00 and an afternoon block
// from 14:00 to 16:00, subdivided into 30-minute slots. The universe is fixed
// and generated independently of booking data; the availability query only
// reports occupancy and clients offer universe minus occupancy.
var slotWindows = []struct {
	startHour, endHour int
}{
	{10, 13},
	{14, 16},
}

const slotMinutes = 30

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// TimeSlots returns the fixed daily slot universe as formatted time strings,
// e.g. "10:00 AM", "02:30 PM".
func TimeSlots() []string {
	var slots []string
	for _, w := range slotWindows {
		for hour := w.startHour; hour < w.endHour; hour++ {
			for minute := 0; minute < 60; minute += slotMinutes {
				t := time.Date(0, 1, 1, hour, minute, 0, 0, time.UTC)
				slots = append(slots, t.Format("03:04 PM"))
			}
		}
	}
	return slots
}

// ValidSlot reports whether s belongs to the fixed slot universe.
func ValidSlot(s string) bool {
	for _, slot := range TimeSlots() {
		if slot == s {
			return true
		}
	}
	return false
}
