// ABOUTME: Tests for the speaker TUI model
// ABOUTME: Verifies key handling and command emission
package ui

import (
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestEditSubmitEmitsSpeak(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(ctrl, 1.0, 0)

	next, _ := m.Update(keyMsg("i"))
	m = next.(Model)
	if !m.editing {
		t.Fatal("expected editing mode after 'i'")
	}

	for _, r := range "hello" {
		next, _ = m.Update(keyMsg(string(r)))
		m = next.(Model)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	if m.editing {
		t.Error("expected editing mode to end on enter")
	}

	select {
	case cmd := <-ctrl.Commands:
		if cmd.Speak != "hello" {
			t.Errorf("expected speak command %q, got %q", "hello", cmd.Speak)
		}
	default:
		t.Fatal("expected a speak command")
	}
}

func TestRateKeysClampToTestedRange(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(ctrl, 2.0, 0)

	next, _ := m.Update(keyMsg("+"))
	m = next.(Model)

	if m.rate > maxRate {
		t.Errorf("rate exceeded max: %f", m.rate)
	}

	m.rate = minRate
	next, _ = m.Update(keyMsg("-"))
	m = next.(Model)
	if m.rate < minRate {
		t.Errorf("rate below min: %f", m.rate)
	}
}

func TestStopKeyEmitsStop(t *testing.T) {
	ctrl := NewControl()
	m := NewModel(ctrl, 1.0, 0)

	m.Update(keyMsg("s"))

	select {
	case cmd := <-ctrl.Commands:
		if !cmd.Stop {
			t.Error("expected stop command")
		}
	default:
		t.Fatal("expected a command")
	}
}

func TestTruncatePreservesRunes(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		length int
		want   string
	}{
		{"short ascii", "hello", 10, "hello"},
		{"long ascii", "hello world", 8, "hello..."},
		{"multibyte kept whole", "héllo wörld ünïcode", 10, "héllo w..."},
		{"exact length", "exact", 5, "exact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.length)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.length, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.length)
			}
		})
	}
}

func TestStatusMsgUpdatesState(t *testing.T) {
	m := NewModel(NewControl(), 1.0, 0)

	next, _ := m.Update(StatusMsg{State: "playing", ClipInfo: "test clip"})
	m = next.(Model)

	if m.state != "playing" {
		t.Errorf("expected playing, got %q", m.state)
	}
	if m.clipInfo != "test clip" {
		t.Errorf("expected clip info to update, got %q", m.clipInfo)
	}
}
