package slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterValid(t *testing.T) {
	assert.True(t, FilterAll.Valid())
	assert.True(t, FilterAvailable.Valid())
	assert.True(t, FilterBooked.Valid())
	assert.False(t, Filter("cancelled").Valid())
}

func TestFilteredSlots(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))
	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(1))
	require.NoError(t, err)
	require.NoError(t, e.ToggleHoliday(context.Background(), "2025-03-11-10", "Closed"))

	all := e.FilteredSlots("2025-03-11", FilterAll, testRef)
	assert.Len(t, all, ClosingHour-OpeningHour)

	available := e.FilteredSlots("2025-03-11", FilterAvailable, testRef)
	assert.Len(t, available, ClosingHour-OpeningHour-2)

	booked := e.FilteredSlots("2025-03-11", FilterBooked, testRef)
	require.Len(t, booked, 1)
	assert.Equal(t, "2025-03-11-18", booked[0].ID)
}

func TestFilteredSlotsAppliesCutoffToday(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	// 18:45 on the window's first day: slots up to and including 18:00
	// are gone, 19:00 onwards remain.
	now := time.Date(2025, 3, 10, 18, 45, 0, 0, time.UTC)
	today := e.FilteredSlots("2025-03-10", FilterAll, now)
	require.Len(t, today, ClosingHour-19)
	assert.Equal(t, 19, today[0].StartHour)
}

func TestGroupedSlotsCollapsesRuns(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))
	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(3))
	require.NoError(t, err)

	grouped := e.GroupedSlots("2025-03-11", testRef)

	// 19 hourly slots, with the run's two trailing slots suppressed
	require.Len(t, grouped, ClosingHour-OpeningHour-2)
	i := indexOf(grouped, "2025-03-11-18")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, 3, grouped[i].Duration)
	assert.Equal(t, 21, grouped[i+1].StartHour)
}

func TestGroupedSlotsSuppressesRunTailPastCutoff(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))
	_, err := e.ConfirmBooking(context.Background(), "2025-03-10-18", testDetails(3))
	require.NoError(t, err)

	// mid-run: the card's start slot is behind the cutoff, and the
	// trailing slots must not resurface as bookable-looking entries
	now := time.Date(2025, 3, 10, 19, 30, 0, 0, time.UTC)
	grouped := e.GroupedSlots("2025-03-10", now)

	for _, s := range grouped {
		assert.GreaterOrEqual(t, s.StartHour, 21)
	}
}

func TestCurrentActive(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))
	_, err := e.ConfirmBooking(context.Background(), "2025-03-10-18", testDetails(3))
	require.NoError(t, err)

	assert.Nil(t, e.CurrentActive(time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC)))

	active := e.CurrentActive(time.Date(2025, 3, 10, 19, 30, 0, 0, time.UTC))
	require.NotNil(t, active)
	assert.Equal(t, "2025-03-10-18", active.ID)

	// run ended at 21:00
	assert.Nil(t, e.CurrentActive(time.Date(2025, 3, 10, 21, 0, 0, 0, time.UTC)))

	// same hour on another date is not active
	assert.Nil(t, e.CurrentActive(time.Date(2025, 3, 11, 19, 0, 0, 0, time.UTC)))
}

func TestUpcoming(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))
	for _, id := range []string{"2025-03-10-9", "2025-03-10-20", "2025-03-11-6", "2025-03-11-15"} {
		_, err := e.ConfirmBooking(context.Background(), id, testDetails(1))
		require.NoError(t, err)
	}

	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	upcoming := e.Upcoming(now, 4)

	// the 09:00 session has started, the rest follow in order
	require.Len(t, upcoming, 3)
	assert.Equal(t, "2025-03-10-20", upcoming[0].ID)
	assert.Equal(t, "2025-03-11-6", upcoming[1].ID)
	assert.Equal(t, "2025-03-11-15", upcoming[2].ID)

	assert.Len(t, e.Upcoming(now, 2), 2)
	assert.Empty(t, e.Upcoming(now, 0))
	assert.Empty(t, e.Upcoming(now, -1))
}

func TestUpcomingListsRunStartsOnly(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))
	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(3))
	require.NoError(t, err)

	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	upcoming := e.Upcoming(now, 10)

	require.Len(t, upcoming, 1)
	assert.Equal(t, "2025-03-11-18", upcoming[0].ID)
}

func TestRemainingTime(t *testing.T) {
	s := Slot{Date: "2025-03-10", StartHour: 18, Duration: 3, IsBooked: true}

	assert.Equal(t, "01:30", RemainingTime(s, time.Date(2025, 3, 10, 19, 30, 0, 0, time.UTC)))
	assert.Equal(t, "03:00", RemainingTime(s, time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)))
	assert.Equal(t, "00:01", RemainingTime(s, time.Date(2025, 3, 10, 20, 59, 0, 0, time.UTC)))
	assert.Equal(t, "00:00", RemainingTime(s, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)))

	// a slot with no recorded duration counts as one hour
	single := Slot{Date: "2025-03-10", StartHour: 18}
	assert.Equal(t, "00:30", RemainingTime(single, time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC)))
}
