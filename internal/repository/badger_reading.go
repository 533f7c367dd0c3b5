package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// entryPrefix namespaces daily entries. ISO dates sort lexically, so the
// key order is calendar order.
const entryPrefix = "entry/"

// BadgerReadingRepo implements ReadingRepo on an embedded Badger store.
type BadgerReadingRepo struct {
	db  *badger.DB
	log *zap.Logger
}

type badgerRecord struct {
	Reading   domain.Reading `yaml:"reading"`
	UpdatedAt time.Time      `yaml:"updated_at"`
}

// OpenBadgerReadingRepo opens (or creates) a Badger store at dir. An empty
// dir keeps the store in memory.
func OpenBadgerReadingRepo(dir string, logger *zap.Logger) (*BadgerReadingRepo, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := badger.DefaultOptions(dir).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{logger.Named("badger").Sugar()})
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger store: %w", err)
	}
	logger.Info("badger store opened", zap.String("dir", dir), zap.Bool("in_memory", dir == ""))
	return &BadgerReadingRepo{db: db, log: logger}, nil
}

// Close releases the store.
func (r *BadgerReadingRepo) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("closing badger store: %w", err)
	}
	return nil
}

func entryKey(d domain.Date) []byte {
	return []byte(entryPrefix + d.String())
}

func (r *BadgerReadingRepo) ListRange(ctx context.Context, start, end domain.Date) ([]*domain.DailyEntry, error) {
	var out []*domain.DailyEntry
	endKey := entryKey(end)

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(entryKey(start)); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			if bytes.Compare(item.Key(), endKey) > 0 {
				break
			}
			e, err := decodeItem(item)
			if err != nil {
				return err
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing entries %s..%s: %w", start, end, err)
	}
	return out, nil
}

func (r *BadgerReadingRepo) GetByDate(ctx context.Context, date domain.Date) (*domain.DailyEntry, error) {
	var e *domain.DailyEntry
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(entryKey(date))
		if err != nil {
			return err
		}
		e, err = decodeItem(item)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("entry %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting entry %s: %w", date, err)
	}
	return e, nil
}

func (r *BadgerReadingRepo) Upsert(ctx context.Context, e *domain.DailyEntry) error {
	if e.Reading.IsEmpty() {
		return fmt.Errorf("entry %s: %w", e.Date, ErrEmptyReading)
	}
	stamp := e.UpdatedAt
	if stamp.IsZero() {
		stamp = nowUTC()
	}
	val, err := yaml.Marshal(badgerRecord{Reading: e.Reading, UpdatedAt: stamp.UTC()})
	if err != nil {
		return fmt.Errorf("encoding entry %s: %w", e.Date, err)
	}
	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(entryKey(e.Date), val)
	})
	if err != nil {
		return fmt.Errorf("upserting entry %s: %w", e.Date, err)
	}
	return nil
}

func (r *BadgerReadingRepo) Delete(ctx context.Context, date domain.Date) error {
	err := r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(entryKey(date))
	})
	if err != nil {
		return fmt.Errorf("deleting entry %s: %w", date, err)
	}
	return nil
}

func decodeItem(item *badger.Item) (*domain.DailyEntry, error) {
	key := string(item.Key())
	d, err := domain.ParseDate(key[len(entryPrefix):])
	if err != nil {
		return nil, fmt.Errorf("decoding key %q: %w", key, err)
	}
	var rec badgerRecord
	err = item.Value(func(val []byte) error {
		return yaml.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, fmt.Errorf("decoding entry %s: %w", d, err)
	}
	return &domain.DailyEntry{Date: d, Reading: rec.Reading, UpdatedAt: rec.UpdatedAt}, nil
}

// badgerLogger adapts a zap sugared logger to badger.Logger.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}
