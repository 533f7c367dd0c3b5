package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/repository"
)

type readingService struct {
	readings repository.ReadingRepo
	observer UseCaseObserver
}

func NewReadingService(readings repository.ReadingRepo, observers ...UseCaseObserver) ReadingService {
	return &readingService{
		readings: readings,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *readingService) ListMonth(ctx context.Context, m domain.Month) (days map[int]domain.Reading, err error) {
	defer observe(ctx, s.observer, "list-month", time.Now(), map[string]any{"month": m.String()}, &err)

	entries, err := s.readings.ListRange(ctx, m.First(), m.Last())
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", m, err)
	}
	return byDay(m, entries), nil
}

func (s *readingService) Get(ctx context.Context, date domain.Date) (*domain.DailyEntry, error) {
	return s.readings.GetByDate(ctx, date)
}

func (s *readingService) Save(ctx context.Context, date domain.Date, r domain.Reading) (err error) {
	fields := map[string]any{"date": date.String(), "clear": r.IsEmpty()}
	defer observe(ctx, s.observer, "save-reading", time.Now(), fields, &err)
	return persist(ctx, s.readings, date, r)
}

// persist writes r for date, deleting the row when r is empty.
func persist(ctx context.Context, readings repository.ReadingRepo, date domain.Date, r domain.Reading) error {
	if r.IsEmpty() {
		if err := readings.Delete(ctx, date); err != nil {
			return fmt.Errorf("clearing %s: %w", date, err)
		}
		return nil
	}
	entry := &domain.DailyEntry{Date: date, Reading: r.Clone()}
	if err := readings.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("saving %s: %w", date, err)
	}
	return nil
}

// byDay keys the entries that fall in m by day of month.
func byDay(m domain.Month, entries []*domain.DailyEntry) map[int]domain.Reading {
	days := make(map[int]domain.Reading, len(entries))
	for _, e := range entries {
		if !m.Contains(e.Date) || e.Reading.IsEmpty() {
			continue
		}
		days[e.Date.Day] = e.Reading.Clone()
	}
	return days
}
