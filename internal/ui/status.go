package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// DefaultStatusTimeout is how long copy feedback stays visible.
const DefaultStatusTimeout = 1200 * time.Millisecond

// StatusType classifies a status message.
type StatusType int

const (
	StatusNone StatusType = iota
	StatusSuccess
	StatusError
)

// clearStatusMsg expires the status message with the same sequence number.
type clearStatusMsg struct {
	seq int
}

// StatusModel is the one-line feedback area under the tree.
type StatusModel struct {
	Message string
	Type    StatusType
	Timeout time.Duration
	Width   int

	seq int
}

// NewStatusModel creates a status line with the default timeout.
func NewStatusModel() StatusModel {
	return StatusModel{Timeout: DefaultStatusTimeout, Width: 80}
}

// Set shows msg and returns the command that clears it after the timeout.
// Errors stay until replaced.
func (m *StatusModel) Set(msg string, typ StatusType) tea.Cmd {
	m.seq++
	m.Message = msg
	m.Type = typ
	if typ == StatusError || m.Timeout <= 0 {
		return nil
	}
	seq := m.seq
	return tea.Tick(m.Timeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

// Clear removes the message.
func (m *StatusModel) Clear() {
	m.seq++
	m.Message = ""
	m.Type = StatusNone
}

// Update handles expiry messages.
func (m StatusModel) Update(msg tea.Msg) StatusModel {
	if c, ok := msg.(clearStatusMsg); ok && c.seq == m.seq {
		m.Message = ""
		m.Type = StatusNone
	}
	return m
}

func (m StatusModel) view(st styles) string {
	text := ansi.Truncate(m.Message, m.Width, "…")
	switch m.Type {
	case StatusSuccess:
		return st.success.Render(text)
	case StatusError:
		return st.failure.Render(text)
	default:
		return text
	}
}
