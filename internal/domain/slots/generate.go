package slots

import "time"

// GenerateWeek produces the canonical seed: one free slot per hour in
// [OpeningHour, ClosingHour) for the reference day and the six days that
// follow, ordered by (date, hour). A persisted collection is never
// regenerated; this only backs the in-memory default when nothing has
// been stored yet.
func GenerateWeek(ref time.Time) []Slot {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	out := make([]Slot, 0, WeekDays*(ClosingHour-OpeningHour))
	for d := 0; d < WeekDays; d++ {
		date := day.AddDate(0, 0, d).Format(DateLayout)
		for hour := OpeningHour; hour < ClosingHour; hour++ {
			out = append(out, Slot{
				ID:        SlotID(date, hour),
				Date:      date,
				StartHour: hour,
				EndHour:   (hour + 1) % 24,
			})
		}
	}
	return out
}

// WeekDates returns the date keys covered by the window starting at ref.
func WeekDates(ref time.Time) []string {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	dates := make([]string, 0, WeekDays)
	for d := 0; d < WeekDays; d++ {
		dates = append(dates, day.AddDate(0, 0, d).Format(DateLayout))
	}
	return dates
}
