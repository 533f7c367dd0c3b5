// Package thresholds owns the live threshold set: loading it from
// client-local settings, merging partial updates and persisting the result.
package thresholds

import (
	"errors"
	"io"
	"sync"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/settings"
	"go.uber.org/zap"
)

// StorageKey is the settings key the threshold set is stored under.
const StorageKey = "pq-tracker-thresholds"

// Controller holds the one active threshold set. All methods are safe for
// concurrent use.
type Controller struct {
	store *settings.Store
	log   *zap.Logger

	// writeMu serializes changes: the stored file ends up matching the
	// live set and listeners see changes in order. Listeners must not
	// call Update.
	writeMu sync.Mutex

	mu        sync.RWMutex
	current   domain.Thresholds
	listeners []func(domain.Thresholds)
}

// NewController returns a controller holding the defaults. Call Load to
// read the persisted set.
func NewController(store *settings.Store, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:   store,
		log:     logger.Named("thresholds"),
		current: domain.DefaultThresholds(),
	}
}

// Load reads the persisted set and makes it current. Missing or malformed
// configuration yields the defaults; Load never fails.
func (c *Controller) Load() domain.Thresholds {
	th := c.read()
	if th == nil {
		def := domain.DefaultThresholds()
		th = &def
	}
	c.set(*th)
	return th.Clone()
}

// read returns the stored set, or nil when there is none usable.
func (c *Controller) read() *domain.Thresholds {
	if c.store == nil {
		return nil
	}
	// Decode over the defaults so a file missing some keys still yields a
	// complete set.
	th := domain.DefaultThresholds()
	err := c.store.Load(StorageKey, &th)
	switch {
	case err == nil:
	case errors.Is(err, settings.ErrMissing):
		c.log.Debug("no stored thresholds, using defaults")
		return nil
	case errors.Is(err, settings.ErrMalformed):
		c.log.Warn("stored thresholds malformed, using defaults", zap.Error(err))
		return nil
	default:
		c.log.Warn("reading thresholds failed, using defaults", zap.Error(err))
		return nil
	}
	mode, perr := domain.ParseThresholdMode(string(th.Mode))
	if perr != nil {
		c.log.Warn("stored threshold mode unknown, using absolute", zap.String("mode", string(th.Mode)))
		mode = domain.ModeAbsolute
	}
	th.Mode = mode
	return &th
}

// Current returns a copy of the live set.
func (c *Controller) Current() domain.Thresholds {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current.Clone()
}

// Update merges p into the live set and persists the full result. A
// persist failure is logged; the live set is updated regardless.
func (c *Controller) Update(p domain.ThresholdPatch) domain.Thresholds {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	next := c.current.Apply(p)
	c.current = next
	listeners := append([]func(domain.Thresholds){}, c.listeners...)
	c.mu.Unlock()

	if c.store != nil {
		if err := c.store.Save(StorageKey, next); err != nil {
			c.log.Error("persisting thresholds failed", zap.Error(err))
		}
	}
	for _, fn := range listeners {
		fn(next.Clone())
	}
	return next.Clone()
}

// OnChange registers fn to run after every change to the live set, from
// Update or from an external edit picked up by Watch.
func (c *Controller) OnChange(fn func(domain.Thresholds)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Watch reloads the live set whenever the settings file changes on disk.
// An unreadable file keeps the current set. Close the returned closer to
// stop watching.
func (c *Controller) Watch() (io.Closer, error) {
	if c.store == nil {
		return nil, errors.New("thresholds: no settings store")
	}
	w, err := c.store.Watch(StorageKey, 0, c.reload)
	if err != nil {
		return nil, err
	}
	return w, nil
}

func (c *Controller) reload() {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	th := c.read()
	if th == nil {
		return
	}
	if c.set(*th) {
		c.log.Info("thresholds reloaded from disk")
	}
}

// set replaces the live set and notifies listeners when it changed.
func (c *Controller) set(th domain.Thresholds) bool {
	c.mu.Lock()
	if equal(c.current, th) {
		c.mu.Unlock()
		return false
	}
	c.current = th.Clone()
	listeners := append([]func(domain.Thresholds){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(th.Clone())
	}
	return true
}

func equal(a, b domain.Thresholds) bool {
	if a.ProductionGood != b.ProductionGood || a.ProductionAlert != b.ProductionAlert ||
		a.QualityGood != b.QualityGood || a.QualityAlert != b.QualityAlert || a.Mode != b.Mode {
		return false
	}
	if (a.ProductionTarget == nil) != (b.ProductionTarget == nil) {
		return false
	}
	return a.ProductionTarget == nil || *a.ProductionTarget == *b.ProductionTarget
}
