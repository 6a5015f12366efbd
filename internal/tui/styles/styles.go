// Package styles provides Lipgloss styling for the TUI.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kannan/replicant/internal/config"
	"github.com/kannan/replicant/internal/transcript"
)

var (
	// Colors
	Muted       = lipgloss.Color("#808080") // Gray
	Accent      = lipgloss.Color("#FFD700") // Gold
	BorderColor = lipgloss.Color("#0f3460") // Border color

	// Help key style
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(Accent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// Footer style
	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted)
)

// Theme holds the styles derived from the configured colors.
type Theme struct {
	Background lipgloss.Color

	Output lipgloss.Style
	Prompt lipgloss.Style
	Source lipgloss.Style
	Error  lipgloss.Style

	Title   lipgloss.Style
	State   lipgloss.Style
	Spinner lipgloss.Style
	Input   lipgloss.Style
}

// NewTheme builds a theme from config colors. Empty colors fall back to
// the defaults.
func NewTheme(c config.Colors) Theme {
	def := config.DefaultConfig().UI.Colors
	pick := func(v, fallback string) lipgloss.Color {
		if v == "" {
			return lipgloss.Color(fallback)
		}
		return lipgloss.Color(v)
	}

	bg := pick(c.Background, def.Background)
	base := lipgloss.NewStyle().Background(bg)

	return Theme{
		Background: bg,
		Output:     base.Foreground(pick(c.Output, def.Output)),
		Prompt:     base.Foreground(pick(c.Prompt, def.Prompt)),
		Source:     base.Foreground(pick(c.Source, def.Source)),
		Error:      base.Foreground(pick(c.Error, def.Error)).Bold(true),

		Title: lipgloss.NewStyle().
			Foreground(pick(c.Output, def.Output)).
			Bold(true).
			Padding(0, 1),
		State: lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true),
		Spinner: lipgloss.NewStyle().Foreground(pick(c.Prompt, def.Prompt)),
		Input:   lipgloss.NewStyle().Foreground(pick(c.Prompt, def.Prompt)),
	}
}

// For returns the style for a transcript tone.
func (t Theme) For(tone transcript.Tone) lipgloss.Style {
	switch tone {
	case transcript.Prompt:
		return t.Prompt
	case transcript.Source:
		return t.Source
	case transcript.Error:
		return t.Error
	default:
		return t.Output
	}
}

// Render styles text line by line so a trailing newline does not become a
// padded blank line.
func (t Theme) Render(tone transcript.Tone, text string) string {
	style := t.For(tone)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// Binding is a key and what it does.
type Binding struct {
	Key  string
	Desc string
}

// RenderHelp renders a help line with key bindings.
func RenderHelp(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, HelpKeyStyle.Render("["+b.Key+"]")+" "+HelpDescStyle.Render(b.Desc))
	}
	return strings.Join(parts, "  ")
}
