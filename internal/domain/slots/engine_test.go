package slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"buddybox/internal/domain/history"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testRef = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, store Store) (*Engine, *history.MemoryStore) {
	t.Helper()
	records := history.NewMemoryStore()
	e := NewEngine(store, history.NewLedger(records), nil, zap.NewNop().Sugar())
	require.NoError(t, e.Load(context.Background(), testRef))
	return e, records
}

func testDetails(duration int) BookingDetails {
	return BookingDetails{
		Name:     "Ramesh",
		Mobile:   "9812345678",
		Members:  6,
		Duration: duration,
		Price:    250 * duration,
	}
}

func TestEngineLoadSeedsGeneratedWeek(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	day := e.FilteredSlots("2025-03-10", FilterAll, testRef.Add(-24*time.Hour))
	assert.Len(t, day, ClosingHour-OpeningHour)
}

func TestEngineLoadPrefersStoredRecords(t *testing.T) {
	store := NewMemoryStore(nil)
	booked := Slot{
		ID: "2025-03-11-18", Date: "2025-03-11", StartHour: 18, EndHour: 19,
		IsBooked: true, Name: "Sita", Mobile: "9800000000", Members: 6, Duration: 1,
	}
	require.NoError(t, store.Upsert(context.Background(), booked))

	e, _ := newTestEngine(t, store)

	err := e.SelectSlot("2025-03-11-18", 1)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestEngineSelectSlot(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	assert.NoError(t, e.SelectSlot("2025-03-11-18", 3))
	assert.ErrorIs(t, e.SelectSlot("2025-03-11-4", 1), ErrSlotNotFound)

	var exceeded *DurationExceededError
	err := e.SelectSlot("2025-03-11-23", 3)
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 1, exceeded.Max)
	assert.Equal(t, "venue closes at midnight, max hours available: 1 hr", err.Error())

	err = e.SelectSlot("2025-03-11-20", 12)
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, 4, exceeded.Max)
}

func TestEngineConfirmBooking(t *testing.T) {
	store := NewMemoryStore(nil)
	e, records := newTestEngine(t, store)

	rec, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(3))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", rec.Date)
	assert.Equal(t, 18, rec.StartHour)
	assert.NotEmpty(t, rec.TransactionID)

	// every slot of the run carries the booking
	for hour := 18; hour < 21; hour++ {
		stored, err := store.GetForDate(context.Background(), "2025-03-11")
		require.NoError(t, err)
		s := stored[indexOf(stored, SlotID("2025-03-11", hour))]
		assert.True(t, s.IsBooked)
		assert.Equal(t, "Ramesh", s.Name)
		assert.Equal(t, 3, s.Duration)
	}

	count, err := records.CountByMobile(context.Background(), "9812345678")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEngineConfirmBookingLostRace(t *testing.T) {
	// Two sessions share the store. Both pass selection, the slower one
	// must fail on confirm with nothing written to its ledger.
	store := NewMemoryStore(nil)
	first, _ := newTestEngine(t, store)
	second, secondRecords := newTestEngine(t, store)

	require.NoError(t, first.SelectSlot("2025-03-11-18", 1))
	require.NoError(t, second.SelectSlot("2025-03-11-18", 1))

	_, err := first.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(1))
	require.NoError(t, err)

	_, err = second.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(1))
	assert.ErrorIs(t, err, ErrSlotTaken)

	count, err := secondRecords.CountByMobile(context.Background(), "9812345678")
	require.NoError(t, err)
	assert.Zero(t, count)
}

type failingLedger struct{}

func (failingLedger) Append(context.Context, *history.Record) error { return errors.New("ledger down") }
func (failingLedger) CountForCustomer(context.Context, string) (int, error) {
	return 0, errors.New("ledger down")
}

func TestEngineConfirmBookingRollsBackOnLedgerFailure(t *testing.T) {
	e := NewEngine(NewMemoryStore(nil), failingLedger{}, nil, zap.NewNop().Sugar())
	require.NoError(t, e.Load(context.Background(), testRef))

	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(3))
	require.Error(t, err)

	// the run is free again
	assert.NoError(t, e.SelectSlot("2025-03-11-18", 3))
}

func TestEngineBookThenCancelRestoresFreeState(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	before := e.FilteredSlots("2025-03-11", FilterAll, testRef)

	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(3))
	require.NoError(t, err)
	require.NoError(t, e.CancelBooking(context.Background(), "2025-03-11-18"))

	after := e.FilteredSlots("2025-03-11", FilterAll, testRef)
	assert.Equal(t, before, after)
}

func TestEngineCancelAndUndoRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(3))
	require.NoError(t, err)
	before := e.GroupedSlots("2025-03-11", testRef)
	booked := before[indexOf(before, "2025-03-11-18")]

	require.NoError(t, e.CancelBooking(context.Background(), "2025-03-11-18"))
	assert.NoError(t, e.SelectSlot("2025-03-11-18", 3))

	restored, err := e.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, booked, *restored)
	assert.ErrorIs(t, e.SelectSlot("2025-03-11-18", 1), ErrSlotUnavailable)
}

func TestEngineCancelBookingAtTrailingSlot(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-18", testDetails(3))
	require.NoError(t, err)
	sita := BookingDetails{Name: "Sita", Mobile: "9800000000", Members: 6, Duration: 1, Price: 250}
	_, err = e.ConfirmBooking(context.Background(), "2025-03-11-21", sita)
	require.NoError(t, err)

	// addressed mid-run: frees Ramesh's 18-21 run and nothing else
	require.NoError(t, e.CancelBooking(context.Background(), "2025-03-11-19"))

	booked := e.FilteredSlots("2025-03-11", FilterBooked, testRef)
	require.Len(t, booked, 1)
	assert.Equal(t, "2025-03-11-21", booked[0].ID)
	assert.Equal(t, "Sita", booked[0].Name)
	assert.NoError(t, e.SelectSlot("2025-03-11-18", 3))

	// the undo snapshot covers the run's first slot
	restored, err := e.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11-18", restored.ID)
	assert.True(t, restored.IsBooked)
}

func TestEngineCancelBookingBackToBackIdenticalRuns(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	// the same customer books 12-15 and 15-18 separately
	_, err := e.ConfirmBooking(context.Background(), "2025-03-11-12", testDetails(3))
	require.NoError(t, err)
	_, err = e.ConfirmBooking(context.Background(), "2025-03-11-15", testDetails(3))
	require.NoError(t, err)

	// cancelling inside the second run leaves the first untouched
	require.NoError(t, e.CancelBooking(context.Background(), "2025-03-11-16"))

	booked := e.FilteredSlots("2025-03-11", FilterBooked, testRef)
	require.Len(t, booked, 3)
	assert.Equal(t, "2025-03-11-12", booked[0].ID)
	assert.NoError(t, e.SelectSlot("2025-03-11-15", 3))
}

func TestEngineCancelBooking(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	assert.ErrorIs(t, e.CancelBooking(context.Background(), "2025-03-11-18"), ErrNoBooking)
	assert.ErrorIs(t, e.CancelBooking(context.Background(), "bogus"), ErrSlotNotFound)
}

func TestEngineUndoEmpty(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	_, err := e.Undo(context.Background())
	assert.ErrorIs(t, err, ErrNothingToUndo)
}

func TestEngineToggleHoliday(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	require.NoError(t, e.ToggleHoliday(context.Background(), "2025-03-12-10", "Maintenance"))
	day := e.FilteredSlots("2025-03-12", FilterAll, testRef)
	s := day[indexOf(day, "2025-03-12-10")]
	assert.True(t, s.IsHoliday)
	assert.Equal(t, "Maintenance", s.HolidayTitle)
	assert.False(t, s.IsFree())

	// toggling again frees the slot
	require.NoError(t, e.ToggleHoliday(context.Background(), "2025-03-12-10", ""))
	day = e.FilteredSlots("2025-03-12", FilterAll, testRef)
	assert.True(t, day[indexOf(day, "2025-03-12-10")].IsFree())
}

func TestEngineToggleHolidayClearsBooking(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	_, err := e.ConfirmBooking(context.Background(), "2025-03-12-10", testDetails(1))
	require.NoError(t, err)

	require.NoError(t, e.ToggleHoliday(context.Background(), "2025-03-12-10", "Closed"))
	day := e.FilteredSlots("2025-03-12", FilterAll, testRef)
	s := day[indexOf(day, "2025-03-12-10")]
	assert.True(t, s.IsHoliday)
	assert.False(t, s.IsBooked)
	assert.Empty(t, s.Name)

	// undo brings the booking back exactly
	restored, err := e.Undo(context.Background())
	require.NoError(t, err)
	assert.True(t, restored.IsBooked)
	assert.Equal(t, "Ramesh", restored.Name)
}

func TestEngineMarkDayHoliday(t *testing.T) {
	store := NewMemoryStore(nil)
	e, _ := newTestEngine(t, store)

	require.NoError(t, e.MarkDayHoliday(context.Background(), "2025-03-13", "Holi"))

	day := e.FilteredSlots("2025-03-13", FilterAll, testRef)
	require.Len(t, day, ClosingHour-OpeningHour)
	for _, s := range day {
		assert.True(t, s.IsHoliday)
		assert.Equal(t, "Holi", s.HolidayTitle)
	}

	assert.ErrorIs(t, e.MarkDayHoliday(context.Background(), "2024-01-01", "x"), ErrSlotNotFound)
}

func TestEngineBlockDay(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	_, err := e.ConfirmBooking(context.Background(), "2025-03-14-18", testDetails(1))
	require.NoError(t, err)

	require.NoError(t, e.BlockDay(context.Background(), "2025-03-14", "Private event"))

	day := e.FilteredSlots("2025-03-14", FilterAll, testRef)
	for _, s := range day {
		assert.True(t, s.IsBlocked)
		assert.False(t, s.IsBooked)
		assert.Equal(t, "Private event", s.BlockTitle)
	}

	assert.ErrorIs(t, e.BlockDay(context.Background(), "2024-01-01", "x"), ErrSlotNotFound)
}

func TestEngineUndoIsPerSlot(t *testing.T) {
	e, _ := newTestEngine(t, NewMemoryStore(nil))

	require.NoError(t, e.ToggleHoliday(context.Background(), "2025-03-12-10", "a"))
	require.NoError(t, e.ToggleHoliday(context.Background(), "2025-03-12-11", "b"))

	restored, err := e.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12-11", restored.ID)

	restored, err = e.Undo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12-10", restored.ID)

	_, err = e.Undo(context.Background())
	assert.ErrorIs(t, err, ErrNothingToUndo)
}
