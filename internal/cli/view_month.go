package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ankushthakur2007/sqp/internal/cli/formatter"
	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// confirmDuration is how long the save confirmation stays on screen.
const confirmDuration = 2500 * time.Millisecond

// monthLoadedMsg carries a finished month fetch back to the update loop.
type monthLoadedMsg struct {
	fetch service.Fetch
}

// daySavedMsg reports the outcome of a day write.
type daySavedMsg struct {
	date domain.Date
	err  error
}

// confirmExpiredMsg dismisses the save confirmation shown for gen.
type confirmExpiredMsg struct {
	gen int
}

type monthKeyMap struct {
	Prev, Next    key.Binding
	Left, Right   key.Binding
	Up, Down      key.Binding
	Edit, Clear   key.Binding
	Thresholds    key.Binding
	ToggleSafety  key.Binding
	Today, Cancel key.Binding
}

var monthKeys = monthKeyMap{
	Prev:         key.NewBinding(key.WithKeys("["), key.WithHelp("[/]", "month")),
	Next:         key.NewBinding(key.WithKeys("]")),
	Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←→↑↓", "day")),
	Right:        key.NewBinding(key.WithKeys("right", "l")),
	Up:           key.NewBinding(key.WithKeys("up", "k")),
	Down:         key.NewBinding(key.WithKeys("down", "j")),
	Edit:         key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
	Clear:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
	Thresholds:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "thresholds")),
	ToggleSafety: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cross/S")),
	Today:        key.NewBinding(key.WithKeys("."), key.WithHelp(".", "today")),
	Cancel:       key.NewBinding(key.WithKeys("esc")),
}

// monthView draws the displayed month on the S, Q and P panels and lets
// the user pick a day to edit.
type monthView struct {
	state *SharedState
	view  service.MonthView

	confirm    string
	confirmGen int
}

func newMonthView(state *SharedState) *monthView {
	return &monthView{state: state}
}

func (v *monthView) Init() tea.Cmd {
	return v.loadMonth(domain.MonthOf(v.state.App.now()))
}

// loadMonth switches the store to m and returns the Cmd that fetches it.
// The store is cleared immediately so the panels never show the previous
// month's readings under the new title.
func (v *monthView) loadMonth(m domain.Month) tea.Cmd {
	store := v.state.Store
	gen := store.BeginMonth(m)
	v.rebuild()
	return func() tea.Msg {
		return monthLoadedMsg{fetch: store.FetchMonth(context.Background(), m, gen)}
	}
}

// rebuild recomputes the classified view from the store and the current
// thresholds.
func (v *monthView) rebuild() {
	snap := v.state.Store.Snapshot()
	v.view = service.BuildMonthView(snap.Month, snap.Days, v.state.App.Thresholds.Current(), v.state.App.layouts())
}

func (v *monthView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case monthLoadedMsg:
		if v.state.Store.CommitFetch(msg.fetch) {
			v.rebuild()
		}
		return v, nil

	case refreshViewMsg:
		v.rebuild()
		return v, nil

	case daySavedMsg:
		v.rebuild()
		v.confirmGen++
		v.confirm = fmt.Sprintf("%s Saved %s", formatter.StyleGreen.Render("✔"), formatter.Bold(msg.date.String()))
		gen := v.confirmGen
		return v, tea.Tick(confirmDuration, func(time.Time) tea.Msg {
			return confirmExpiredMsg{gen: gen}
		})

	case confirmExpiredMsg:
		if msg.gen == v.confirmGen {
			v.confirm = ""
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *monthView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	store := v.state.Store
	switch {
	case key.Matches(msg, monthKeys.Prev):
		return v, v.loadMonth(store.Month().Add(-1))
	case key.Matches(msg, monthKeys.Next):
		return v, v.loadMonth(store.Month().Add(1))
	case key.Matches(msg, monthKeys.Today):
		return v, v.loadMonth(domain.MonthOf(v.state.App.now()))

	case key.Matches(msg, monthKeys.Left):
		v.moveSelection(-1)
	case key.Matches(msg, monthKeys.Right):
		v.moveSelection(1)
	case key.Matches(msg, monthKeys.Up):
		v.moveSelection(-7)
	case key.Matches(msg, monthKeys.Down):
		v.moveSelection(7)

	case key.Matches(msg, monthKeys.Edit):
		day := store.Selected()
		if day == 0 {
			v.moveSelection(0)
			day = store.Selected()
		}
		if day == 0 {
			return v, nil
		}
		return v, pushView(newDayFormView(v.state, day))

	case key.Matches(msg, monthKeys.Clear):
		if day := store.Selected(); day != 0 {
			if _, ok := store.Reading(day); ok {
				cmd := saveDayCmd(v.state, day, domain.Reading{})
				v.rebuild()
				return v, cmd
			}
		}

	case key.Matches(msg, monthKeys.Thresholds):
		return v, pushView(newThresholdFormView(v.state))

	case key.Matches(msg, monthKeys.ToggleSafety):
		v.state.LetterSafety = !v.state.LetterSafety

	case key.Matches(msg, monthKeys.Cancel):
		store.Deselect()
	}
	return v, nil
}

// moveSelection shifts the selected day by delta, clamped to the month.
// With nothing selected it starts from today when today is in the
// displayed month, otherwise from the 1st.
func (v *monthView) moveSelection(delta int) {
	store := v.state.Store
	m := store.Month()
	n := m.DaysIn()
	if n == 0 {
		return
	}
	day := store.Selected()
	if day == 0 {
		day = 1
		if today := domain.DateOf(v.state.App.now()); m.Contains(today) {
			day = today.Day
		}
	} else {
		day += delta
	}
	day = min(max(day, 1), n)
	if err := store.Select(day); err != nil {
		v.state.App.logger().Debug("select day", zap.Int("day", day), zap.Error(err))
	}
}

// saveDayCmd applies r to day in the store right away and returns the Cmd
// that writes it through. Write failures are logged by the store and the
// confirmation is shown either way.
func saveDayCmd(state *SharedState, day int, r domain.Reading) tea.Cmd {
	log := state.App.logger().With(zap.String("op", uuid.NewString()))
	date, err := state.Store.Apply(day, r)
	if err != nil {
		log.Error("save rejected", zap.Int("day", day), zap.Error(err))
		return nil
	}
	store := state.Store
	return func() tea.Msg {
		err := store.Persist(context.Background(), date, r)
		if err == nil {
			log.Debug("day saved", zap.String("date", date.String()))
		}
		return daySavedMsg{date: date, err: err}
	}
}

func (v *monthView) View() string {
	snap := v.state.Store.Snapshot()

	var b strings.Builder
	b.WriteString(formatter.RenderMonth(v.view, formatter.MonthOptions{
		Selected:     snap.Selected,
		LetterSafety: v.state.LetterSafety,
	}))
	b.WriteString("\n")

	if snap.Loading {
		b.WriteString("\n" + formatter.Dim("Loading "+snap.Month.Title()+"…"))
	}
	if snap.Selected > 0 && snap.Selected <= len(v.view.Days) {
		b.WriteString("\n" + formatter.FormatDaySummary(v.view.Days[snap.Selected-1]))
	}
	if v.confirm != "" {
		b.WriteString("\n" + v.confirm)
	}
	return b.String()
}

func (v *monthView) ID() ViewID    { return ViewMonth }
func (v *monthView) Title() string { return v.view.Title }

func (v *monthView) ShortHelp() []key.Binding {
	return []key.Binding{
		monthKeys.Prev, monthKeys.Left, monthKeys.Edit, monthKeys.Clear,
		monthKeys.Thresholds, monthKeys.ToggleSafety, monthKeys.Today,
	}
}
