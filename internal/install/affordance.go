// Package install tracks whether the environment offers to install sqp as
// a standalone app, and lets the UI trigger that offer once.
package install

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrUnavailable is returned by Trigger when there is nothing to invoke.
var ErrUnavailable = errors.New("install not available")

// Prompt invokes the environment's deferred install capability.
type Prompt func(ctx context.Context) error

// Affordance holds at most one pending install prompt.
type Affordance struct {
	standalone bool
	log        *zap.Logger

	mu     sync.Mutex
	prompt Prompt
}

// New returns an affordance. When standalone is true the app is already
// installed and the affordance never becomes available.
func New(standalone bool, logger *zap.Logger) *Affordance {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Affordance{standalone: standalone, log: logger.Named("install")}
}

// Standalone reports whether the app runs in installed mode.
func (a *Affordance) Standalone() bool {
	return a.standalone
}

// Offer records the capability supplied by the environment, replacing any
// earlier one. Offers are ignored in standalone mode.
func (a *Affordance) Offer(p Prompt) {
	if a.standalone || p == nil {
		return
	}
	a.mu.Lock()
	a.prompt = p
	a.mu.Unlock()
}

// Available reports whether the install affordance should be shown.
func (a *Affordance) Available() bool {
	if a.standalone {
		return false
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prompt != nil
}

// Trigger invokes the pending prompt and clears it. The prompt is consumed
// even when it fails; the environment has to offer again.
func (a *Affordance) Trigger(ctx context.Context) error {
	if a.standalone {
		return ErrUnavailable
	}
	a.mu.Lock()
	p := a.prompt
	a.prompt = nil
	a.mu.Unlock()

	if p == nil {
		return ErrUnavailable
	}
	if err := p(ctx); err != nil {
		a.log.Warn("install prompt failed", zap.Error(err))
		return err
	}
	a.log.Info("install prompt accepted")
	return nil
}
