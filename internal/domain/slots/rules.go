package slots

import "time"

// MaxDurationFrom returns the longest booking that fits between the given
// start hour and midnight closing.
func MaxDurationFrom(startHour int) int {
	if startHour >= 23 {
		return 1
	}
	return 24 - startHour
}

// CanBookRun reports whether the duration consecutive slots starting at
// startID can take a single booking. Consecutive means by position in the
// ordered collection, and the whole run must stay on the start slot's
// date; every slot of the run must be free.
func CanBookRun(collection []Slot, startID string, duration int) bool {
	start := indexOf(collection, startID)
	if start < 0 || duration < 1 || start+duration > len(collection) {
		return false
	}
	date := collection[start].Date
	for i := start; i < start+duration; i++ {
		if collection[i].Date != date || !collection[i].IsFree() {
			return false
		}
	}
	return true
}

// IsPastCutoff excludes slots on the current day that start too soon:
// a booking must begin roughly ten minutes in the future, rounding up to
// the next hour once the current hour is ten minutes old. Slots on other
// dates are never cut off.
func IsPastCutoff(s Slot, now time.Time) bool {
	if s.Date != now.Format(DateLayout) {
		return false
	}
	cutoff := now.Hour()
	if now.Minute() >= 10 {
		cutoff++
	}
	return s.StartHour < cutoff
}

func indexOf(collection []Slot, id string) int {
	for i := range collection {
		if collection[i].ID == id {
			return i
		}
	}
	return -1
}
