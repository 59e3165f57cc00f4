package slots

import (
	"context"
	"sync"
	"time"

	"buddybox/internal/domain/history"

	"go.uber.org/zap"
)

// Ledger is the slice of the history ledger the engine needs: appending
// a record on successful payment and reading loyalty counts.
type Ledger interface {
	Append(ctx context.Context, rec *history.Record) error
	CountForCustomer(ctx context.Context, mobile string) (int, error)
}

// SnapshotCache is the freshness-windowed key/value store used for the
// simulated sync of the slot collection. Reads past the window report
// stale and the engine falls back to defaults.
type SnapshotCache interface {
	Get(ctx context.Context, key string, dest any) error
	Put(ctx context.Context, key string, v any) error
}

const weekSnapshotKey = "slots:week"

type undoSnapshot struct {
	slotID string
	prev   Slot
}

// Engine owns the slot collection and the undo log for the lifetime of
// the process. All mutations validate fully before writing, flush to the
// store afterwards, and never leave a partial multi-slot change behind
// on failure.
type Engine struct {
	mu     sync.Mutex
	store  Store
	ledger Ledger
	cache  SnapshotCache
	logger *zap.SugaredLogger

	collection []Slot
	undo       []undoSnapshot
}

func NewEngine(store Store, ledger Ledger, cache SnapshotCache, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		store:  store,
		ledger: ledger,
		cache:  cache,
		logger: logger,
	}
}

// Load seeds the collection for the week starting at ref: stored records
// win over generated defaults, date by date. When the store is down the
// cached snapshot is used if still fresh, and failing that the generated
// week. Persistence trouble is recoverable, never fatal.
func (e *Engine) Load(ctx context.Context, ref time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	generated := GenerateWeek(ref)

	loaded := make([]Slot, 0, len(generated))
	for _, date := range WeekDates(ref) {
		stored, err := e.store.GetForDate(ctx, date)
		if err != nil {
			e.logger.Warnw("slot store unreachable, falling back to snapshot", "date", date, "error", err)
			e.collection = e.loadFallback(ctx, generated)
			return nil
		}
		byID := make(map[string]Slot, len(stored))
		for _, s := range stored {
			byID[s.ID] = s
		}
		for _, s := range generated {
			if s.Date != date {
				continue
			}
			if rec, ok := byID[s.ID]; ok {
				s = rec
			}
			loaded = append(loaded, s)
		}
	}
	e.collection = loaded
	return nil
}

func (e *Engine) loadFallback(ctx context.Context, generated []Slot) []Slot {
	if e.cache != nil {
		var cached []Slot
		if err := e.cache.Get(ctx, weekSnapshotKey, &cached); err == nil && len(cached) > 0 {
			return cached
		}
	}
	e.logger.Warn("no fresh slot snapshot, seeding default week")
	return generated
}

// SelectSlot validates that a booking of the given duration could start
// at the slot. No state changes; a DurationExceededError carries the
// clamped maximum for the caller to re-prompt with.
func (e *Engine) SelectSlot(id string, duration int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.validateRun(id, duration)
}

func (e *Engine) validateRun(id string, duration int) error {
	i := indexOf(e.collection, id)
	if i < 0 {
		return ErrSlotNotFound
	}
	if max := MaxDurationFrom(e.collection[i].StartHour); duration > max {
		return &DurationExceededError{Max: max}
	}
	if !CanBookRun(e.collection, id, duration) {
		return ErrSlotUnavailable
	}
	return nil
}

// ConfirmBooking commits a booking after payment. It re-reads the
// authoritative store for the slot's date immediately before writing:
// the payment window holds no lock, so another writer may have taken the
// slot in the meantime, in which case the call fails with ErrSlotTaken
// and appends nothing. On success every slot of the run carries the same
// booking attributes and a history record is appended.
func (e *Engine) ConfirmBooking(ctx context.Context, id string, d BookingDetails) (*history.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := indexOf(e.collection, id)
	if i < 0 {
		return nil, ErrSlotNotFound
	}

	authoritative, err := e.store.GetForDate(ctx, e.collection[i].Date)
	if err != nil {
		e.logger.Warnw("authoritative re-read failed, trusting in-memory state", "error", err)
	}
	for _, s := range authoritative {
		if j := indexOf(e.collection, s.ID); j >= 0 {
			e.collection[j] = s
		}
	}

	if e.collection[i].IsBooked {
		return nil, ErrSlotTaken
	}
	if err := e.validateRun(id, d.Duration); err != nil {
		return nil, err
	}

	run := e.collection[i : i+d.Duration]
	for k := range run {
		run[k].reset()
		run[k].IsBooked = true
		run[k].Name = d.Name
		run[k].Mobile = d.Mobile
		run[k].Members = d.Members
		run[k].Duration = d.Duration
	}

	rec := &history.Record{
		Name:      d.Name,
		Mobile:    d.Mobile,
		Date:      run[0].Date,
		StartHour: run[0].StartHour,
		Duration:  d.Duration,
		Members:   d.Members,
		Price:     d.Price,
	}
	if err := e.ledger.Append(ctx, rec); err != nil {
		for k := range run {
			run[k].reset()
		}
		return nil, err
	}

	e.flush(ctx, run)
	return rec, nil
}

// CancelBooking frees a whole run. id may address any slot of the run;
// the run's first slot is resolved before freeing, so the freed range
// never spills into an adjacent booking. An undo snapshot of the first
// slot, the one the grouped view surfaces as the booking's card, is
// recorded first.
func (e *Engine) CancelBooking(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := indexOf(e.collection, id)
	if i < 0 {
		return ErrSlotNotFound
	}
	if !e.collection[i].IsBooked {
		return ErrNoBooking
	}

	start := e.runStart(i)
	e.pushUndo(e.collection[start])

	length := e.collection[start].Duration
	if length < 1 {
		length = 1
	}
	if start+length > len(e.collection) {
		length = len(e.collection) - start
	}
	run := e.collection[start : start+length]
	for k := range run {
		run[k].reset()
	}
	e.flush(ctx, run)
	return nil
}

// runStart resolves the first slot of the booked run containing index i.
// Runs are contiguous and every slot carries the same booking
// attributes, so the start is the earliest adjacent slot with the same
// booking, aligned to the run length when identical bookings sit back to
// back.
func (e *Engine) runStart(i int) int {
	s := e.collection[i]
	if s.Duration < 1 {
		return i
	}
	region := i
	for region > 0 {
		prev := e.collection[region-1]
		if prev.Date != s.Date || !prev.IsBooked ||
			prev.Name != s.Name || prev.Mobile != s.Mobile ||
			prev.Members != s.Members || prev.Duration != s.Duration {
			break
		}
		region--
	}
	return i - (i-region)%s.Duration
}

// ToggleHoliday flips a single slot between holiday and free. Marking a
// booked slot force-clears the booking on that slot only; the rest of a
// multi-hour run is left alone.
func (e *Engine) ToggleHoliday(ctx context.Context, id, title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := indexOf(e.collection, id)
	if i < 0 {
		return ErrSlotNotFound
	}

	e.pushUndo(e.collection[i])

	s := &e.collection[i]
	wasHoliday := s.IsHoliday
	s.reset()
	if !wasHoliday {
		s.IsHoliday = true
		s.HolidayTitle = title
	}
	e.flush(ctx, e.collection[i:i+1])
	return nil
}

// MarkDayHoliday marks every slot of the date as a holiday, the bulk
// variant used when the venue closes for a full day.
func (e *Engine) MarkDayHoliday(ctx context.Context, date, title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	touched := false
	for i := range e.collection {
		if e.collection[i].Date != date {
			continue
		}
		touched = true
		e.pushUndo(e.collection[i])
		e.collection[i].reset()
		e.collection[i].IsHoliday = true
		e.collection[i].HolidayTitle = title
	}
	if !touched {
		return ErrSlotNotFound
	}

	if err := e.store.MarkHolidayForDate(ctx, date, title); err != nil {
		e.logger.Warnw("holiday flush failed", "date", date, "error", err)
	}
	e.snapshot(ctx)
	return nil
}

// BlockDay blocks every slot of the date, clearing bookings and holiday
// markers. Each slot gets its own undo snapshot; restoring the whole day
// takes as many undo calls as slots.
func (e *Engine) BlockDay(ctx context.Context, date, title string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start, end := -1, -1
	for i := range e.collection {
		if e.collection[i].Date != date {
			continue
		}
		if start < 0 {
			start = i
		}
		end = i + 1
		e.pushUndo(e.collection[i])
		e.collection[i].reset()
		e.collection[i].IsBlocked = true
		e.collection[i].BlockTitle = title
	}
	if start < 0 {
		return ErrSlotNotFound
	}
	e.flush(ctx, e.collection[start:end])
	return nil
}

// Undo restores the most recently snapshotted slot to its prior state
// verbatim. Single-step and per-slot.
func (e *Engine) Undo(ctx context.Context) (*Slot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.undo) == 0 {
		return nil, ErrNothingToUndo
	}
	snap := e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]

	i := indexOf(e.collection, snap.slotID)
	if i < 0 {
		return nil, ErrSlotNotFound
	}
	e.collection[i] = snap.prev
	e.flush(ctx, e.collection[i:i+1])

	restored := e.collection[i]
	return &restored, nil
}

func (e *Engine) pushUndo(s Slot) {
	e.undo = append(e.undo, undoSnapshot{slotID: s.ID, prev: s})
}

// flush persists the touched run and refreshes the week snapshot. Store
// failures are logged and tolerated: the in-memory collection stays
// authoritative for this session.
func (e *Engine) flush(ctx context.Context, run []Slot) {
	if err := e.store.UpsertRun(ctx, run); err != nil {
		e.logger.Warnw("slot flush failed", "slots", len(run), "error", err)
	}
	e.snapshot(ctx)
}

func (e *Engine) snapshot(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Put(ctx, weekSnapshotKey, e.collection); err != nil {
		e.logger.Debugw("snapshot write failed", "error", err)
	}
}
