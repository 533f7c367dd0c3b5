package install

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAffordance_OfferAndTrigger(t *testing.T) {
	a := New(false, nil)
	assert.False(t, a.Available())

	calls := 0
	a.Offer(func(context.Context) error { calls++; return nil })
	assert.True(t, a.Available())

	assert.NoError(t, a.Trigger(context.Background()))
	assert.Equal(t, 1, calls)
	assert.False(t, a.Available(), "prompt is consumed")
	assert.ErrorIs(t, a.Trigger(context.Background()), ErrUnavailable)
	assert.Equal(t, 1, calls)
}

func TestAffordance_StandaloneSuppresses(t *testing.T) {
	a := New(true, nil)
	a.Offer(func(context.Context) error { return nil })

	assert.True(t, a.Standalone())
	assert.False(t, a.Available())
	assert.ErrorIs(t, a.Trigger(context.Background()), ErrUnavailable)
}

func TestAffordance_FailedPromptIsStillConsumed(t *testing.T) {
	a := New(false, nil)
	boom := errors.New("dismissed")
	a.Offer(func(context.Context) error { return boom })

	assert.ErrorIs(t, a.Trigger(context.Background()), boom)
	assert.False(t, a.Available())
}

func TestAffordance_NilOfferIgnored(t *testing.T) {
	a := New(false, nil)
	a.Offer(nil)
	assert.False(t, a.Available())
}
