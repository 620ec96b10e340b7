// Package toaster provides the transient notification shown over the editor.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/compleet/internal/ui/overlay"
	"github.com/zjrosen/compleet/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up before it is dismissed.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	// StyleSuccess shows ✓ with a green border.
	StyleSuccess Style = iota
	// StyleError shows ✗ with a red border.
	StyleError
	// StyleInfo shows i with a blue border.
	StyleInfo
)

// Model holds the toaster state.
type Model struct {
	message string
	style   Style
	visible bool
	// seq identifies the current toast so a stale dismissal is ignored.
	seq int
}

// New creates a new toaster model.
func New() Model {
	return Model{}
}

// Show displays a toast, replacing any toast already showing.
func (m Model) Show(message string, style Style) Model {
	m.message = message
	m.style = style
	m.visible = true
	m.seq++
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible returns whether the toast is currently showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the text of the toast.
func (m Model) Message() string {
	return m.message
}

// Style returns the style of the toast.
func (m Model) Style() Style {
	return m.style
}

// Seq returns the sequence number of the latest Show.
func (m Model) Seq() int {
	return m.seq
}

// Dismiss hides the toast if msg belongs to it.
func (m Model) Dismiss(msg DismissMsg) Model {
	if msg.Seq != m.seq {
		return m
	}
	return m.Hide()
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var content string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.Color(styles.TokenToastError))
		content = "✗ " + m.message
	case StyleInfo:
		style = style.BorderForeground(styles.Color(styles.TokenToastInfo))
		content = "i " + m.message
	default:
		style = style.BorderForeground(styles.Color(styles.TokenToastSuccess))
		content = "✓ " + m.message
	}

	return style.Render(content)
}

// Overlay renders the toast at the bottom center of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}

	cfg := overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.Bottom,
	}
	return overlay.Place(cfg, m.View(), bg)
}

// DismissMsg signals that the toast with sequence Seq should be dismissed.
type DismissMsg struct {
	Seq int
}

// ScheduleDismiss returns a command that dismisses the current toast after d.
func (m Model) ScheduleDismiss(d time.Duration) tea.Cmd {
	seq := m.seq
	return tea.Tick(d, func(_ time.Time) tea.Msg {
		return DismissMsg{Seq: seq}
	})
}
