package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// tableController is what the root model needs from a list screen.
type tableController interface {
	// HandleKey consumes nav-mode keys meant for the table.
	HandleKey(msg tea.KeyMsg) (bool, tea.Cmd)
	// Capturing reports whether a filter input or menu owns the keyboard.
	Capturing() bool
	Name() string
	Prefs() TablePrefs
	ApplyPrefs(p TablePrefs)
	StopLoading()
	// TakeInfo returns and clears the last status notice.
	TakeInfo() string
	View(width, height int, frame string) string
}
