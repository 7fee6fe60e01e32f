// Package style defines the lipgloss styles shared by all mtpulse
// terminal output.
package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Erfan-XRay/MTPulse/internal/ui"
)

func init() {
	// Pin the renderer to the detected profile. Auto-detection alone
	// would ignore NO_COLOR and CLICOLOR, and produces uncolored
	// output when stdout is piped even with CLICOLOR_FORCE set.
	lipgloss.SetColorProfile(ui.ColorProfile())
}

var (
	Bold   = lipgloss.NewStyle().Bold(true)
	Dim    = lipgloss.NewStyle().Faint(true)
	Cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	Yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	Green  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Red    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	// Header is used for section titles in status output.
	Header = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
)
