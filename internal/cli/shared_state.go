package cli

import "github.com/ankushthakur2007/sqp/internal/service"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Store holds the displayed month. Fetches and writes run in tea.Cmds;
	// commits happen on the update loop.
	Store *service.MonthStore

	// LetterSafety draws safety on the S letter instead of the cross.
	LetterSafety bool

	// Terminal dimensions
	Width  int
	Height int
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - 4
	if h < 5 {
		h = 5
	}
	return h
}
