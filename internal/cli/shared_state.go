package cli

import tea "github.com/charmbracelet/bubbletea"

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	Today string

	// Terminal dimensions
	Width  int
	Height int

	// Send delivers messages from other goroutines into the event loop.
	// It is nil when no program is running, and views then skip live
	// subscriptions and reload after each change instead.
	Send func(tea.Msg)
}

// Live reports whether subscription callbacks can reach the event loop.
func (s *SharedState) Live() bool {
	return s.Send != nil
}

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	return max(s.Height-headerLines-2, 1)
}
