package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ankushthakur2007/sqp/internal/db"
	"github.com/ankushthakur2007/sqp/internal/domain"
)

// FailOnNthExecUoW injects Err on the Nth ExecContext call inside a
// transaction, counting from 1. Reads pass through uncounted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// StubReadingRepo is an in-memory gateway whose calls can be made to fail
// or block. It satisfies repository.ReadingRepo.
type StubReadingRepo struct {
	mu      sync.Mutex
	entries map[domain.Date]domain.DailyEntry

	ListErr   error
	UpsertErr error
	DeleteErr error

	// Gate, when set, is received from before ListRange returns, letting a
	// test hold a fetch in flight.
	Gate chan struct{}

	Upserts []domain.DailyEntry
	Deletes []domain.Date
}

// NewStubReadingRepo seeds a stub gateway with entries.
func NewStubReadingRepo(seed ...*domain.DailyEntry) *StubReadingRepo {
	r := &StubReadingRepo{entries: map[domain.Date]domain.DailyEntry{}}
	for _, e := range seed {
		r.entries[e.Date] = *e
	}
	return r
}

func (r *StubReadingRepo) ListRange(ctx context.Context, start, end domain.Date) ([]*domain.DailyEntry, error) {
	r.mu.Lock()
	gate, listErr := r.Gate, r.ListErr
	var out []*domain.DailyEntry
	for d, e := range r.entries {
		if d.String() >= start.String() && d.String() <= end.String() {
			e := e
			out = append(out, &e)
		}
	}
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if listErr != nil {
		return nil, listErr
	}
	return out, nil
}

func (r *StubReadingRepo) GetByDate(ctx context.Context, date domain.Date) (*domain.DailyEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[date]
	if !ok {
		return nil, fmt.Errorf("entry %s: not found", date)
	}
	return &e, nil
}

func (r *StubReadingRepo) Upsert(ctx context.Context, e *domain.DailyEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Upserts = append(r.Upserts, *e)
	if r.UpsertErr != nil {
		return r.UpsertErr
	}
	r.entries[e.Date] = *e
	return nil
}

func (r *StubReadingRepo) Delete(ctx context.Context, date domain.Date) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deletes = append(r.Deletes, date)
	if r.DeleteErr != nil {
		return r.DeleteErr
	}
	delete(r.entries, date)
	return nil
}

// SetGate installs or removes the ListRange gate.
func (r *StubReadingRepo) SetGate(ch chan struct{}) {
	r.mu.Lock()
	r.Gate = ch
	r.mu.Unlock()
}

// UpsertCount returns how many upserts were attempted.
func (r *StubReadingRepo) UpsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Upserts)
}
