package display

import "github.com/charmbracelet/lipgloss"

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a")).
			Italic(true)

	teamStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd")).
			Bold(true)

	periodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#52525b")).
				Italic(true)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fafafa")).
			Background(lipgloss.Color("#3f3f46")).
			Bold(true).
			Padding(0, 2)

	// Clock tones.
	clockIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa")).
			Bold(true)

	clockRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a")).
			Bold(true)

	// Urgent: soft coral for the last minute.
	clockUrgentStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fca5a5")).
				Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8")).
			Background(lipgloss.Color("#3f3f46")).
			Padding(0, 1)

	buttonPrimaryStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#18181b")).
				Background(lipgloss.Color("#fde68a")).
				Padding(0, 1)

	focusMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))
)
