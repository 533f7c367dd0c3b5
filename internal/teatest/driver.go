// Package teatest provides a synchronous test driver for bubbletea models.
//
// It replaces tea.Program in tests by calling Update() directly and
// synchronously draining returned Cmds. This enables deterministic,
// goroutine-free testing of tea.Model implementations.
//
// Cursor blink Cmds (which block on timer channels) are executed with a
// short timeout and skipped if they don't return promptly.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// MaxDrainDepth is the safety limit for command draining to prevent infinite loops.
const MaxDrainDepth = 100

// DefaultCmdTimeout is how long to wait for a Cmd to return before
// skipping it. Store reads and message factories return in microseconds;
// cursor blinks and tea.Tick timers block far longer.
const DefaultCmdTimeout = 10 * time.Millisecond

// Driver is a synchronous test harness for any tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when tea.QuitMsg is seen during drain.
	// tea.QuitMsg is normally intercepted by the bubbletea runtime,
	// so the model may not handle it; the driver detects it explicitly.
	Quitting bool

	// Skipped counts Cmds dropped because they outlived the timeout.
	Skipped int

	timeout time.Duration
}

// New creates a Driver for the given model and applies options.
// Call DrainInit() after construction to process the model's Init() command.
func New(t *testing.T, model tea.Model, opts ...Option) *Driver {
	t.Helper()
	d := &Driver{T: t, Model: model, timeout: DefaultCmdTimeout}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Option configures the Driver during construction.
type Option func(*Driver)

// WithSize sends an initial WindowSizeMsg before any other processing.
func WithSize(w, h int) Option {
	return func(d *Driver) {
		d.T.Helper()
		updated, _ := d.Model.Update(tea.WindowSizeMsg{Width: w, Height: h})
		d.Model = updated
	}
}

// WithCmdTimeout overrides DefaultCmdTimeout.
func WithCmdTimeout(timeout time.Duration) Option {
	return func(d *Driver) { d.timeout = timeout }
}

// DrainInit executes the model's Init() command and drains all resulting messages.
func (d *Driver) DrainInit() {
	d.T.Helper()
	d.drainCmd(d.Model.Init(), 0)
}

// Send dispatches a message through Update and drains all resulting Cmds.
// Nothing is delivered once the model has quit.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	d.update(msg, 0)
}

// SendKey sends a tea.KeyMsg through the model.
func (d *Driver) SendKey(msg tea.KeyMsg) {
	d.T.Helper()
	d.Send(msg)
}

// Press sends a non-rune key such as tea.KeyEnter.
func (d *Driver) Press(k tea.KeyType) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: k})
}

// PressKey sends a character key.
func (d *Driver) PressKey(r rune) {
	d.T.Helper()
	d.SendKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (d *Driver) PressEnter() { d.Press(tea.KeyEnter) }
func (d *Driver) PressEsc() { d.Press(tea.KeyEsc) }
func (d *Driver) PressUp() { d.Press(tea.KeyUp) }
func (d *Driver) PressDown() { d.Press(tea.KeyDown) }
func (d *Driver) PressLeft() { d.Press(tea.KeyLeft) }
func (d *Driver) PressRight() { d.Press(tea.KeyRight) }
func (d *Driver) PressTab() { d.Press(tea.KeyTab) }

// Type sends s one rune at a time.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.PressKey(r)
	}
}

// View returns the full rendered output of the model.
func (d *Driver) View() string {
	return d.Model.View()
}

func (d *Driver) update(msg tea.Msg, depth int) {
	updated, cmd := d.Model.Update(msg)
	d.Model = updated
	d.drainCmd(cmd, depth+1)
}

// drainCmd runs cmd and feeds what it produces back into the model until
// the chain ends, a Cmd blocks past the timeout, or MaxDrainDepth is hit.
func (d *Driver) drainCmd(cmd tea.Cmd, depth int) {
	d.T.Helper()
	if cmd == nil {
		return
	}
	if depth >= MaxDrainDepth {
		d.T.Logf("teatest.Driver: drain depth limit (%d) reached", MaxDrainDepth)
		return
	}

	msg, ok := execCmdWithTimeout(cmd, d.timeout)
	if !ok {
		d.Skipped++
		return
	}

	switch m := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, sub := range m {
			d.drainCmd(sub, depth+1)
		}
	case tea.QuitMsg:
		// The runtime normally swallows QuitMsg; the model still sees it
		// here but nothing it returns is run.
		d.Quitting = true
		d.Model, _ = d.Model.Update(m)
	default:
		if isCursorBlink(m) {
			return
		}
		d.update(m, depth)
	}
}

// execCmdWithTimeout runs cmd in a goroutine and reports false if it has
// not returned within timeout.
func execCmdWithTimeout(cmd tea.Cmd, timeout time.Duration) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case msg := <-ch:
		return msg, true
	case <-timer.C:
		return nil, false
	}
}

// isCursorBlink matches the unexported blink messages of bubbles/cursor,
// whose follow-up Cmds sleep on timers.
func isCursorBlink(msg tea.Msg) bool {
	return strings.Contains(strings.ToLower(fmt.Sprintf("%T", msg)), "blink")
}
