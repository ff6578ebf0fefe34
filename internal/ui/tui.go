// ABOUTME: TUI initialization and control channel
// ABOUTME: Wraps the bubbletea program for the speaker UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a user action forwarded to the application
type Command struct {
	Speak     string
	Replay    bool
	Stop      bool
	Quit      bool
	SetRate   *float64
	SetPitch  *float64
	SetVolume *int
}

// Control carries commands from the TUI to the application
type Control struct {
	Commands chan Command
}

// NewControl creates a control channel
func NewControl() *Control {
	return &Control{
		Commands: make(chan Command, 10),
	}
}

// send forwards a command without blocking the render loop
func (c *Control) send(cmd Command) {
	if c == nil {
		return
	}
	select {
	case c.Commands <- cmd:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *Control, rate, pitch float64) Model {
	return Model{
		state:   "idle",
		rate:    rate,
		pitch:   pitch,
		volume:  100,
		control: ctrl,
	}
}

// Run starts the TUI
func Run(ctrl *Control, rate, pitch float64) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl, rate, pitch), tea.WithAltScreen())
	return p, nil
}
