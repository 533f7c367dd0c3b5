package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/ankushthakur2007/sqp/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2025 = domain.Month{Year: 2025, Month: time.March}

func seededRepo(t *testing.T) *testutil.StubReadingRepo {
	t.Helper()
	return testutil.NewStubReadingRepo(
		testutil.NewTestEntry(t, "2025-03-05"),
		testutil.NewTestEntry(t, "2025-04-02", testutil.WithProduction(500)),
		testutil.NewTestEntry(t, "2025-02-28", testutil.WithSafety(domain.SafetyLostTime)),
	)
}

func TestTUI_InitialLoadShowsCurrentMonth(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	snap := d.Store().Snapshot()
	assert.Equal(t, march2025, snap.Month)
	assert.False(t, snap.Loading)
	assert.Equal(t, []int{5}, snap.DaysWithData())
	assert.Equal(t, ViewMonth, d.ActiveViewID())
	assert.Equal(t, "March 2025", d.ActiveViewTitle())

	view := stripANSI(d.View())
	assert.Contains(t, view, "MARCH 2025")
	assert.Contains(t, view, "1/31")
}

func TestTUI_MonthNavigationReloads(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	d.PressKey(']')
	snap := d.Store().Snapshot()
	assert.Equal(t, domain.Month{Year: 2025, Month: time.April}, snap.Month)
	assert.Equal(t, []int{2}, snap.DaysWithData())
	assert.Contains(t, stripANSI(d.View()), "APRIL 2025")

	d.PressKey('[')
	d.PressKey('[')
	snap = d.Store().Snapshot()
	assert.Equal(t, domain.Month{Year: 2025, Month: time.February}, snap.Month)
	assert.Equal(t, []int{28}, snap.DaysWithData())

	d.PressKey('.')
	assert.Equal(t, march2025, d.Store().Month())
}

func TestTUI_NavigationClearsSelection(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	d.PressRight()
	require.Equal(t, 14, d.Store().Selected())

	d.PressKey(']')
	assert.Equal(t, 0, d.Store().Selected())
}

func TestTUI_StaleFetchIsDiscarded(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))
	d.PressKey(']')

	stale := service.Fetch{
		Month:      march2025,
		Generation: 1,
		Days:       map[int]domain.Reading{5: testutil.NewTestEntry(t, "2025-03-05").Reading},
	}
	d.Send(monthLoadedMsg{fetch: stale})

	snap := d.Store().Snapshot()
	assert.Equal(t, time.April, snap.Month.Month)
	assert.Equal(t, []int{2}, snap.DaysWithData())
	assert.Contains(t, stripANSI(d.View()), "APRIL 2025")
}

func TestTUI_SelectionMovesAndClamps(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	// First move selects today.
	d.PressRight()
	assert.Equal(t, 14, d.Store().Selected())

	d.PressRight()
	assert.Equal(t, 15, d.Store().Selected())
	d.PressDown()
	assert.Equal(t, 22, d.Store().Selected())
	d.PressLeft()
	assert.Equal(t, 21, d.Store().Selected())
	d.PressUp()
	assert.Equal(t, 14, d.Store().Selected())

	for i := 0; i < 5; i++ {
		d.PressDown()
	}
	assert.Equal(t, 31, d.Store().Selected())
	for i := 0; i < 10; i++ {
		d.PressKey('k')
	}
	assert.Equal(t, 1, d.Store().Selected())

	d.PressEsc()
	assert.Equal(t, 0, d.Store().Selected())
}

func TestTUI_SelectionShowsDaySummary(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	d.PressRight()
	d.PressUp()
	d.PressLeft()
	d.PressLeft()
	require.Equal(t, 5, d.Store().Selected())

	view := stripANSI(d.View())
	assert.Contains(t, view, "2025-03-05")
	assert.Contains(t, view, "4500")
}

func TestTUI_EnterOpensEditorAndEscCancels(t *testing.T) {
	repo := seededRepo(t)
	d := NewTestDriver(t, tuiApp(t, repo))

	d.PressEnter()
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, 2, d.ViewStackLen())
	assert.Equal(t, "2025-03-14", d.ActiveViewTitle())

	// The form takes q as text, not as quit.
	d.PressKey('q')
	assert.False(t, d.IsQuitting())

	d.PressEsc()
	assert.Equal(t, ViewMonth, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
	assert.Equal(t, 0, repo.UpsertCount())
}

func TestTUI_ThresholdsKeyOpensForm(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	d.PressKey('t')
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Equal(t, "Thresholds", d.ActiveViewTitle())

	d.PressEsc()
	assert.Equal(t, ViewMonth, d.ActiveViewID())
}

func TestTUI_SaveShowsConfirmation(t *testing.T) {
	repo := seededRepo(t)
	d := NewTestDriver(t, tuiApp(t, repo))

	d.Save(14, testutil.Reading(domain.FloatPtr(4200), nil, nil))

	assert.Equal(t, 1, repo.UpsertCount())
	r, ok := d.Store().Reading(14)
	require.True(t, ok)
	assert.Equal(t, 4200.0, *r.Production)
	assert.Contains(t, stripANSI(d.View()), "Saved 2025-03-14")
	assert.Positive(t, d.Skipped, "dismissal tick should be pending")

	d.Send(confirmExpiredMsg{gen: d.MonthView().confirmGen})
	assert.NotContains(t, stripANSI(d.View()), "Saved 2025-03-14")
}

func TestTUI_NewerSaveReplacesPendingDismissal(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	d.Save(10, testutil.Reading(domain.FloatPtr(1), nil, nil))
	first := d.MonthView().confirmGen
	d.Save(11, testutil.Reading(domain.FloatPtr(2), nil, nil))

	d.Send(confirmExpiredMsg{gen: first})
	assert.Contains(t, stripANSI(d.View()), "Saved 2025-03-11")

	d.Send(confirmExpiredMsg{gen: d.MonthView().confirmGen})
	assert.NotContains(t, stripANSI(d.View()), "Saved")
}

func TestTUI_FailedSaveKeepsValueAndConfirms(t *testing.T) {
	repo := seededRepo(t)
	repo.UpsertErr = errors.New("disk full")
	d := NewTestDriver(t, tuiApp(t, repo))

	d.Save(20, testutil.Reading(nil, domain.FloatPtr(99), nil))

	_, ok := d.Store().Reading(20)
	assert.True(t, ok, "optimistic value is not rolled back")
	assert.Contains(t, stripANSI(d.View()), "Saved 2025-03-20")
}

func TestTUI_ClearKeyDeletesSelectedDay(t *testing.T) {
	repo := seededRepo(t)
	d := NewTestDriver(t, tuiApp(t, repo))

	d.PressRight()
	d.PressUp()
	d.PressLeft()
	d.PressLeft()
	require.Equal(t, 5, d.Store().Selected())

	d.PressKey('x')
	_, ok := d.Store().Reading(5)
	assert.False(t, ok)
	require.Len(t, repo.Deletes, 1)
	assert.Equal(t, "2025-03-05", repo.Deletes[0].String())

	// Clearing an empty day does nothing.
	d.PressRight()
	d.PressKey('x')
	assert.Len(t, repo.Deletes, 1)
}

func TestTUI_ThresholdChangeRefreshesStatuses(t *testing.T) {
	app := tuiApp(t, seededRepo(t))
	d := NewTestDriver(t, app)

	mv := d.MonthView()
	assert.Equal(t, domain.StatusGood, mv.view.Days[4].Status.Quality)

	app.Thresholds.Update(domain.ThresholdPatch{QualityGood: domain.FloatPtr(99)})
	d.Send(refreshViewMsg{})

	assert.Equal(t, 99.0, mv.view.Thresholds.QualityGood)
	assert.Equal(t, domain.StatusWarning, mv.view.Days[4].Status.Quality)
}

func TestTUI_ToggleSafetyLayout(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	assert.False(t, d.State().LetterSafety)
	d.PressKey('c')
	assert.True(t, d.State().LetterSafety)
}

func TestTUI_OutputIsDismissedByAnyKey(t *testing.T) {
	d := NewTestDriver(t, tuiApp(t, seededRepo(t)))

	d.Send(cmdOutputMsg{output: "Thresholds updated"})
	assert.Equal(t, "Thresholds updated", d.LastOutput())
	assert.Contains(t, d.View(), "Thresholds updated")

	d.PressKey('z')
	assert.Empty(t, d.LastOutput())
	assert.False(t, d.IsQuitting())
}

func TestTUI_Quit(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		d := NewTestDriver(t, tuiApp(t, seededRepo(t)))
		d.SendKey(key)
		assert.True(t, d.IsQuitting(), key.String())
		assert.Empty(t, strings.TrimSpace(d.View()))
	}
}
