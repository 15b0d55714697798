package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#191724")
	Surface  = lipgloss.Color("#1f1d2e")
	Overlay  = lipgloss.Color("#26233a")
	Text     = lipgloss.Color("#e0def4")
	Subtle   = lipgloss.Color("#908caa")
	Iris     = lipgloss.Color("#c4a7e7")
	Foam     = lipgloss.Color("#9ccfd8")
	Pine     = lipgloss.Color("#31748f")
	Gold     = lipgloss.Color("#f6c177")
	Love     = lipgloss.Color("#eb6f92")

	App = lipgloss.NewStyle().
		Background(Base).
		Foreground(Text).
		Padding(1, 2)

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Background(Surface).
		Foreground(Text).
		Padding(1, 2)

	Title  = lipgloss.NewStyle().Foreground(Foam).Bold(true)
	Muted  = lipgloss.NewStyle().Foreground(Subtle)
	Timer  = lipgloss.NewStyle().Foreground(Gold).Bold(true)
	Accent = lipgloss.NewStyle().Foreground(Iris)
	Alert  = lipgloss.NewStyle().Foreground(Love)
)
