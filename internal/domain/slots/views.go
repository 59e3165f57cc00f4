package slots

import (
	"fmt"
	"time"
)

// Filter selects which slots a listing returns.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterAvailable Filter = "available"
	FilterBooked    Filter = "booked"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterAvailable, FilterBooked:
		return true
	}
	return false
}

// FilteredSlots lists the date's slots that pass the cutoff rule and the
// filter. Available means simultaneously unbooked, non-holiday and
// unblocked.
func (e *Engine) FilteredSlots(date string, filter Filter, now time.Time) []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := []Slot{}
	for _, s := range e.collection {
		if s.Date != date || IsPastCutoff(s, now) {
			continue
		}
		switch filter {
		case FilterAvailable:
			if !s.IsFree() {
				continue
			}
		case FilterBooked:
			if !s.IsBooked {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// GroupedSlots lists the date's slots with multi-hour runs collapsed to
// their first slot; the trailing slots of a run are suppressed.
func (e *Engine) GroupedSlots(date string, now time.Time) []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := []Slot{}
	skip := 0
	for _, s := range e.collection {
		if s.Date != date {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		if s.IsBooked && s.Duration > 1 {
			skip = s.Duration - 1
		}
		if IsPastCutoff(s, now) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// CurrentActive returns the booked run whose hour range contains now on
// the current date, or nil when the venue is idle.
func (e *Engine) CurrentActive(now time.Time) *Slot {
	e.mu.Lock()
	defer e.mu.Unlock()

	date := now.Format(DateLayout)
	hour := now.Hour()
	skip := 0
	for _, s := range e.collection {
		if skip > 0 {
			skip--
			continue
		}
		if s.IsBooked && s.Duration > 1 {
			skip = s.Duration - 1
		}
		if s.Date != date || !s.IsBooked {
			continue
		}
		length := s.Duration
		if length < 1 {
			length = 1
		}
		if s.StartHour <= hour && hour < s.StartHour+length {
			active := s
			return &active
		}
	}
	return nil
}

// Upcoming returns booked runs starting later today or tomorrow, in
// (date, hour) order, truncated to count.
func (e *Engine) Upcoming(now time.Time, count int) []Slot {
	e.mu.Lock()
	defer e.mu.Unlock()

	if count <= 0 {
		return []Slot{}
	}

	today := now.Format(DateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(DateLayout)

	out := []Slot{}
	skip := 0
	for _, s := range e.collection {
		if skip > 0 {
			skip--
			continue
		}
		if s.IsBooked && s.Duration > 1 {
			skip = s.Duration - 1
		}
		if !s.IsBooked {
			continue
		}
		laterToday := s.Date == today && s.StartHour > now.Hour()
		if !laterToday && s.Date != tomorrow {
			continue
		}
		out = append(out, s)
		if len(out) == count {
			break
		}
	}
	return out
}

// RemainingTime renders the wall-clock countdown to the run's end hour
// as "HH:MM", floored at "00:00" once the session is over.
func RemainingTime(s Slot, now time.Time) string {
	day, err := time.ParseInLocation(DateLayout, s.Date, now.Location())
	if err != nil {
		return "00:00"
	}
	length := s.Duration
	if length < 1 {
		length = 1
	}
	end := day.Add(time.Duration(s.StartHour+length) * time.Hour)
	left := end.Sub(now)
	if left < 0 {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", int(left.Hours()), int(left.Minutes())%60)
}
