package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMaxDurationFrom(t *testing.T) {
	tests := []struct {
		startHour int
		want      int
	}{
		{0, 24},
		{5, 19},
		{12, 12},
		{22, 2},
		{23, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaxDurationFrom(tt.startHour), "start hour %d", tt.startHour)
	}
}

func TestCanBookRun(t *testing.T) {
	week := GenerateWeek(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	assert.True(t, CanBookRun(week, "2025-03-10-18", 3))

	t.Run("occupied slot breaks the run", func(t *testing.T) {
		collection := GenerateWeek(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
		collection[indexOf(collection, "2025-03-10-19")].IsBooked = true
		assert.False(t, CanBookRun(collection, "2025-03-10-18", 3))
		assert.True(t, CanBookRun(collection, "2025-03-10-18", 1))
	})

	t.Run("holiday slot breaks the run", func(t *testing.T) {
		collection := GenerateWeek(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
		collection[indexOf(collection, "2025-03-10-20")].IsHoliday = true
		assert.False(t, CanBookRun(collection, "2025-03-10-18", 3))
	})

	t.Run("run may not cross into the next day", func(t *testing.T) {
		// 23:00 is the last slot of the day; two hours would spill over.
		assert.False(t, CanBookRun(week, "2025-03-10-23", 2))
	})

	t.Run("unknown start or bad duration", func(t *testing.T) {
		assert.False(t, CanBookRun(week, "2025-03-10-4", 1))
		assert.False(t, CanBookRun(week, "2025-03-10-18", 0))
		assert.False(t, CanBookRun(week, "2025-03-16-23", 2))
	})
}

func TestIsPastCutoff(t *testing.T) {
	slot := func(date string, hour int) Slot {
		return Slot{ID: SlotID(date, hour), Date: date, StartHour: hour}
	}

	t.Run("other dates are never cut off", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)
		assert.False(t, IsPastCutoff(slot("2025-03-11", 5), now))
	})

	t.Run("early in the hour the current slot survives", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 18, 5, 0, 0, time.UTC)
		assert.True(t, IsPastCutoff(slot("2025-03-10", 17), now))
		assert.False(t, IsPastCutoff(slot("2025-03-10", 18), now))
	})

	t.Run("ten minutes in the cutoff rolls to the next hour", func(t *testing.T) {
		now := time.Date(2025, 3, 10, 18, 10, 0, 0, time.UTC)
		assert.True(t, IsPastCutoff(slot("2025-03-10", 18), now))
		assert.False(t, IsPastCutoff(slot("2025-03-10", 19), now))
	})
}
