// Package pretty renders build reports and topic listings for the terminal.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles holds the lipgloss styles used by the formatters. With colour
// disabled every style renders text unchanged.
type Styles struct {
	// Outcome labels.
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style

	// Topic listing.
	Module      lipgloss.Style
	Title       lipgloss.Style
	Path        lipgloss.Style
	Description lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Dim          lipgloss.Style
}

// NewStyles returns coloured styles, or plain ones when colorEnabled is false.
func NewStyles(colorEnabled bool) *Styles {
	fg := func(color string) lipgloss.Style {
		if !colorEnabled {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}
	bold := func(style lipgloss.Style) lipgloss.Style {
		return style.Bold(colorEnabled)
	}

	return &Styles{
		Error:   bold(fg("9")),
		Warning: bold(fg("11")),
		Info:    bold(fg("12")),
		Success: bold(fg("10")),
		Failure: bold(fg("9")),

		Module:      bold(lipgloss.NewStyle()),
		Title:       fg("14"),
		Path:        fg("8"),
		Description: fg("7").Italic(colorEnabled),

		SummaryTitle: bold(lipgloss.NewStyle()),
		SummaryValue: lipgloss.NewStyle(),
		Dim:          fg("8"),
	}
}

// IsColorEnabled resolves a --color mode ("always", "never" or "auto") for
// writer. Auto enables colour only on a terminal without NO_COLOR set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
