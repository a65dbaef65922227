// Package styles holds the lipgloss styles shared by command output.
package styles

import "github.com/charmbracelet/lipgloss"

// ANSI palette.
var (
	Primary = lipgloss.Color("4")
	Success = lipgloss.Color("2")
	Warning = lipgloss.Color("3")
	Error   = lipgloss.Color("1")
	Muted   = lipgloss.Color("245")
)

var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	SuccessText = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)

	WarningText = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	ErrorText = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	MutedText = lipgloss.NewStyle().
			Foreground(Muted)
)

// Status classifies a one-line outcome message.
type Status int

const (
	StatusOK Status = iota
	StatusWarn
	StatusFail
)

const (
	markOK   = "✓"
	markWarn = "!"
	markFail = "✗"
)

// StatusLine renders msg prefixed with a mark and colored for s.
func StatusLine(s Status, msg string) string {
	switch s {
	case StatusOK:
		return SuccessText.Render(markOK + " " + msg)
	case StatusWarn:
		return WarningText.Render(markWarn + " " + msg)
	default:
		return ErrorText.Render(markFail + " " + msg)
	}
}
