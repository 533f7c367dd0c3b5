package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/repository"
	"go.uber.org/zap"
)

var (
	// ErrDayOutOfRange is returned for a day that is not in the displayed month.
	ErrDayOutOfRange = errors.New("day out of range for month")
	// ErrNoMonth is returned by operations that need a displayed month.
	ErrNoMonth = errors.New("no month selected")
)

// MonthStore is the in-memory day-to-reading mapping for the displayed
// month. Switching months replaces the mapping wholesale; saves update it
// optimistically before the gateway write and are never rolled back.
//
// Fetches are tagged with a generation number. BeginMonth bumps it, and
// CommitFetch drops any result whose generation is no longer current, so a
// slow fetch for a month the viewer already left cannot overwrite the new
// month's data.
type MonthStore struct {
	readings repository.ReadingRepo
	loc      *time.Location
	log      *zap.Logger
	observer UseCaseObserver
	stale    func()

	mu       sync.Mutex
	month    domain.Month
	gen      uint64
	loading  bool
	days     map[int]domain.Reading
	pending  map[int]domain.Reading
	selected int
}

// MonthStoreOption configures a MonthStore.
type MonthStoreOption func(*MonthStore)

// WithLocation sets the zone calendar dates are derived in. Defaults to
// time.Local.
func WithLocation(loc *time.Location) MonthStoreOption {
	return func(s *MonthStore) { s.loc = loc }
}

// WithObserver reports fetches and saves as use cases.
func WithObserver(o UseCaseObserver) MonthStoreOption {
	return func(s *MonthStore) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithMetrics counts discarded fetches.
func WithMetrics(m *Metrics) MonthStoreOption {
	return func(s *MonthStore) {
		if m != nil {
			s.stale = m.StaleFetches.Inc
		}
	}
}

func NewMonthStore(readings repository.ReadingRepo, logger *zap.Logger, opts ...MonthStoreOption) *MonthStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MonthStore{
		readings: readings,
		loc:      time.Local,
		log:      logger.Named("month"),
		observer: NoopUseCaseObserver{},
		stale:    func() {},
		days:     map[int]domain.Reading{},
		pending:  map[int]domain.Reading{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch is the result of loading one month from the gateway.
type Fetch struct {
	Month      domain.Month
	Generation uint64
	Days       map[int]domain.Reading
	Err        error
}

// SetMonth switches to m and loads it. A read failure is logged and leaves
// the month empty; the error is returned for callers that want it.
func (s *MonthStore) SetMonth(ctx context.Context, m domain.Month) error {
	gen := s.BeginMonth(m)
	f := s.FetchMonth(ctx, m, gen)
	s.CommitFetch(f)
	return f.Err
}

// BeginMonth makes m the displayed month, clears the mapping and the
// selection, and returns the generation a fetch for m must carry.
func (s *MonthStore) BeginMonth(m domain.Month) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.month = m
	s.loading = true
	s.days = map[int]domain.Reading{}
	s.pending = map[int]domain.Reading{}
	s.selected = 0
	return s.gen
}

// FetchMonth reads m's readings from the gateway. It does not touch the
// store and is safe to run off the UI goroutine.
func (s *MonthStore) FetchMonth(ctx context.Context, m domain.Month, gen uint64) (f Fetch) {
	f = Fetch{Month: m, Generation: gen}
	defer observe(ctx, s.observer, "fetch-month", time.Now(), map[string]any{"month": m.String()}, &f.Err)

	entries, err := s.readings.ListRange(ctx, m.First(), m.Last())
	if err != nil {
		f.Err = fmt.Errorf("loading %s: %w", m, err)
		s.log.Error("month fetch failed", zap.String("month", m.String()), zap.Error(err))
		return f
	}
	f.Days = byDay(m, entries)
	return f
}

// CommitFetch installs f if it belongs to the current generation and
// reports whether it did. Saves made while the fetch was in flight are
// reapplied on top of the fetched data.
func (s *MonthStore) CommitFetch(f Fetch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Generation != s.gen {
		s.log.Debug("discarding stale month fetch",
			zap.String("month", f.Month.String()),
			zap.Uint64("generation", f.Generation),
			zap.Uint64("current", s.gen))
		s.stale()
		return false
	}
	s.loading = false
	days := make(map[int]domain.Reading, len(f.Days)+len(s.pending))
	for d, r := range f.Days {
		days[d] = r.Clone()
	}
	for d, r := range s.pending {
		if r.IsEmpty() {
			delete(days, d)
			continue
		}
		days[d] = r.Clone()
	}
	s.days = days
	s.pending = map[int]domain.Reading{}
	return true
}

// Save applies r to day optimistically and writes it through the gateway.
// A gateway failure is logged and returned; the optimistic value stays.
func (s *MonthStore) Save(ctx context.Context, day int, r domain.Reading) error {
	date, err := s.Apply(day, r)
	if err != nil {
		return err
	}
	return s.Persist(ctx, date, r)
}

// Apply is the optimistic half of Save: it updates the mapping and returns
// the calendar date the write must use. An empty reading removes the day.
func (s *MonthStore) Apply(day int, r domain.Reading) (domain.Date, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.month.Year == 0 {
		return domain.Date{}, ErrNoMonth
	}
	if day < 1 || day > s.month.DaysIn() {
		return domain.Date{}, fmt.Errorf("day %d of %s: %w", day, s.month, ErrDayOutOfRange)
	}

	if r.IsEmpty() {
		delete(s.days, day)
	} else {
		s.days[day] = r.Clone()
	}
	if s.loading {
		s.pending[day] = r.Clone()
	}
	return domain.NewDate(s.month.Year, s.month.Month, day, s.loc), nil
}

// Persist is the write half of Save. It does not touch the mapping.
func (s *MonthStore) Persist(ctx context.Context, date domain.Date, r domain.Reading) (err error) {
	fields := map[string]any{"date": date.String(), "clear": r.IsEmpty()}
	defer observe(ctx, s.observer, "save-day", time.Now(), fields, &err)

	if err = persist(ctx, s.readings, date, r); err != nil {
		s.log.Error("saving day failed, keeping local value",
			zap.String("date", date.String()), zap.Error(err))
	}
	return err
}

// Select marks day as the selected day.
func (s *MonthStore) Select(day int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.month.Year == 0 {
		return ErrNoMonth
	}
	if day < 1 || day > s.month.DaysIn() {
		return fmt.Errorf("day %d of %s: %w", day, s.month, ErrDayOutOfRange)
	}
	s.selected = day
	return nil
}

// Deselect clears the selection.
func (s *MonthStore) Deselect() {
	s.mu.Lock()
	s.selected = 0
	s.mu.Unlock()
}

// Selected returns the selected day, or 0.
func (s *MonthStore) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Month returns the displayed month.
func (s *MonthStore) Month() domain.Month {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.month
}

// Reading returns the reading for day and whether one exists.
func (s *MonthStore) Reading(day int) (domain.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.days[day]
	if !ok {
		return domain.Reading{}, false
	}
	return r.Clone(), true
}

// MonthSnapshot is a point-in-time copy of the store.
type MonthSnapshot struct {
	Month      domain.Month
	Generation uint64
	Loading    bool
	Selected   int
	Days       map[int]domain.Reading
}

// DaysWithData returns the days that have a reading, ascending.
func (m MonthSnapshot) DaysWithData() []int {
	out := make([]int, 0, len(m.Days))
	for d := range m.Days {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Snapshot copies the current state.
func (s *MonthStore) Snapshot() MonthSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	days := make(map[int]domain.Reading, len(s.days))
	for d, r := range s.days {
		days[d] = r.Clone()
	}
	return MonthSnapshot{
		Month:      s.month,
		Generation: s.gen,
		Loading:    s.loading,
		Selected:   s.selected,
		Days:       days,
	}
}
