package cli

import (
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorGreen = lipgloss.Color("#04B575")
	colorRed   = lipgloss.Color("#FF4672")
	colorGray  = lipgloss.Color("#767676")
	colorAmber = lipgloss.Color("#FFB000")
	colorBlue  = lipgloss.Color("#5A56E0")
)

type Styles struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Busy    lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue),
		Header: lipgloss.NewStyle().
			Bold(true).
			Underline(true),
		Success: lipgloss.NewStyle().
			Foreground(colorGreen),
		Error: lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true),
		Busy: lipgloss.NewStyle().
			Foreground(colorAmber),
	}
}

// lockedWriter serialises writes from the REPL and from background
// deletions.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
