// ABOUTME: Bubbletea model for the speaker TUI
// ABOUTME: Text entry plus rate, pitch, and transport controls
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	rateStep  = 0.1
	pitchStep = 1.0

	minRate  = 0.5
	maxRate  = 2.0
	minPitch = -12.0
	maxPitch = 12.0
)

// Model represents the TUI state
type Model struct {
	// Text entry
	input   string
	editing bool

	// Playback
	state  string
	rate   float64
	pitch  float64
	volume int

	// Last clip / error
	clipInfo string
	lastErr  string

	control *Control

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderInput()
	s += m.renderControls()
	s += m.renderHelp()

	return s
}

// renderHeader renders playback state
func (m Model) renderHeader() string {
	stateIcon := "■"
	if m.state == "playing" {
		stateIcon = "▶"
	}

	clip := m.clipInfo
	if clip == "" {
		clip = "(no clip)"
	}

	return fmt.Sprintf(`┌─ Cadence Speaker ────────────────────────────────────┐
│ State: %s %-44s │
│ Clip:  %-46s │
├──────────────────────────────────────────────────────┤
`, stateIcon, m.state, truncate(clip, 46))
}

// renderInput renders the text entry line
func (m Model) renderInput() string {
	cursor := ""
	if m.editing {
		cursor = "█"
	}

	return fmt.Sprintf("│ Text: %-46s │\n", truncate(m.input+cursor, 46))
}

// renderControls renders rate, pitch, and volume
func (m Model) renderControls() string {
	s := fmt.Sprintf("│ Rate:  %.1fx %-41s │\n", m.rate, renderBar(int((m.rate-minRate)/(maxRate-minRate)*100), 100, 10))
	s += fmt.Sprintf("│ Pitch: %+.0f st %-40s │\n", m.pitch, renderBar(int((m.pitch-minPitch)/(maxPitch-minPitch)*100), 100, 10))
	s += fmt.Sprintf("│ Volume: %d%%%-42s │\n", m.volume, "")

	if m.lastErr != "" {
		s += fmt.Sprintf("│ Error: %-45s │\n", truncate(m.lastErr, 45))
	}

	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	if m.editing {
		return `│ enter:Speak  esc:Cancel                              │
└──────────────────────────────────────────────────────┘
`
	}
	return `│ i:Edit  space:Replay  s:Stop  -/+:Rate  [/]:Pitch    │
│ ↑/↓:Volume  q:Quit                                   │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editing {
		return m.handleEditKey(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		m.control.send(Command{Quit: true})
		return m, tea.Quit
	case "i":
		m.editing = true
	case " ":
		m.control.send(Command{Replay: true})
	case "s":
		m.control.send(Command{Stop: true})
	case "+", "=":
		m.rate = clamp(m.rate+rateStep, minRate, maxRate)
		m.control.send(Command{SetRate: &m.rate})
	case "-":
		m.rate = clamp(m.rate-rateStep, minRate, maxRate)
		m.control.send(Command{SetRate: &m.rate})
	case "]":
		m.pitch = clamp(m.pitch+pitchStep, minPitch, maxPitch)
		m.control.send(Command{SetPitch: &m.pitch})
	case "[":
		m.pitch = clamp(m.pitch-pitchStep, minPitch, maxPitch)
		m.control.send(Command{SetPitch: &m.pitch})
	case "up":
		m.volume = clampInt(m.volume+5, 0, 100)
		m.control.send(Command{SetVolume: &m.volume})
	case "down":
		m.volume = clampInt(m.volume-5, 0, 100)
		m.control.send(Command{SetVolume: &m.volume})
	}

	return m, nil
}

// handleEditKey handles keys while entering text
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		text := strings.TrimSpace(m.input)
		if text != "" {
			m.control.send(Command{Speak: text})
		}
	case tea.KeyEsc:
		m.editing = false
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			m.input += " "
		}
	}

	return m, nil
}

// applyStatus updates model from a status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.State != "" {
		m.state = msg.State
	}
	if msg.ClipInfo != "" {
		m.clipInfo = msg.ClipInfo
	}
	if msg.Err != "" {
		m.lastErr = msg.Err
	}
}

// StatusMsg updates TUI state from the application
type StatusMsg struct {
	State    string
	ClipInfo string
	Err      string
}

// Utility functions
func renderBar(value, max, width int) string {
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

// truncate shortens text to at most length runes, never splitting a
// multibyte character
func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
