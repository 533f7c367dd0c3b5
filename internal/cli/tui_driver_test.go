package cli

import (
	"testing"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/ankushthakur2007/sqp/internal/settings"
	"github.com/ankushthakur2007/sqp/internal/teatest"
	"github.com/ankushthakur2007/sqp/internal/testutil"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
)

// TestDriver wraps teatest.Driver with access to appModel internals
// (view stack, shared state, month store) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// tuiApp builds an App over a stub gateway seeded with entries.
func tuiApp(t *testing.T, repo *testutil.StubReadingRepo) *App {
	t.Helper()
	ctrl := thresholds.NewController(settings.NewStore(t.TempDir(), nil), nil)
	ctrl.Load()
	return &App{
		Repo:       repo,
		Thresholds: ctrl,
		Location:   time.UTC,
		Now:        func() time.Time { return fixedNow },
	}
}

// NewTestDriver constructs the appModel, sets terminal size, and drains
// Init(), which loads the current month from the stub gateway.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(newSharedState(app))
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// Store returns the month store behind the month view.
func (d *TestDriver) Store() *service.MonthStore {
	return d.State().Store
}

// MonthView returns the month view at the bottom of the stack.
func (d *TestDriver) MonthView() *monthView {
	return d.appModel().viewStack[0].(*monthView)
}

// IsQuitting reports whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the output shown in the content area, if any.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// Save runs a day save the way the editor does: optimistic apply, then
// the write Cmd, whose result is fed back through the model.
func (d *TestDriver) Save(day int, r domain.Reading) {
	d.T.Helper()
	cmd := saveDayCmd(d.State(), day, r)
	if cmd == nil {
		d.T.Fatalf("save of day %d was rejected", day)
	}
	d.Send(cmd())
}
