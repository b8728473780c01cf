package ui

import (
	"os"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	labelStyle  = lipgloss.NewStyle().Bold(true)
	uidStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("36")).Bold(true)

	uidPattern = regexp.MustCompile(`(?i)\buid=\d+\b`)
)

// Styler applies color when it is enabled and is the identity otherwise.
type Styler struct {
	enabled bool
}

// NewStyler returns a Styler that colors output if enabled.
func NewStyler(enabled bool) Styler {
	return Styler{enabled: enabled}
}

// TerminalStyler colors output when f is a terminal and NO_COLOR is unset.
func TerminalStyler(f *os.File) Styler {
	return NewStyler(ansiEnabled(f))
}

// Enabled reports whether the styler colors anything.
func (s Styler) Enabled() bool { return s.enabled }

// Error styles an error message.
func (s Styler) Error(msg string) string { return s.render(errorStyle, msg) }

// Prompt styles the interactive prompt.
func (s Styler) Prompt(p string) string { return s.render(promptStyle, p) }

// Label styles a table heading or field name.
func (s Styler) Label(text string) string { return s.render(labelStyle, text) }

// HighlightUIDs styles every uid=N in line.
func (s Styler) HighlightUIDs(line string) string {
	if !s.enabled {
		return line
	}
	return uidPattern.ReplaceAllStringFunc(line, func(m string) string {
		return uidStyle.Render(m)
	})
}

func (s Styler) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}

func ansiEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
