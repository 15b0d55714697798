package stats

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"attn/internal/client/controller"
	statsdto "attn/internal/modules/stats/dto"
	"attn/internal/ui/theme"
)

// Render draws the stats overlay: today's numbers plus the 7-day trend
// table, oldest day first.
func Render(s controller.State, sp spinner.Model, width int) string {
	var body string
	switch {
	case s.StatsLoading && !s.HasStats:
		body = sp.View() + " loading stats..."
	case !s.HasStats:
		body = theme.Muted.Render("no stats yet")
	default:
		body = renderStats(s.Stats)
	}

	title := theme.Title.Render("Stats") + "\n\n"
	hint := "\n\n" + theme.Muted.Render("t/esc to close")
	pane := theme.Pane.Width(max(width-4, 48)).Render(title + body + hint)
	if s.Notice != "" {
		return lipgloss.JoinVertical(lipgloss.Left, pane, theme.Alert.Render("  ! "+s.Notice))
	}
	return pane
}

func renderStats(stats statsdto.Stats) string {
	today := fmt.Sprintf(
		"Today: %s sessions · %s distractions/hour · longest streak %s",
		theme.Accent.Render(fmt.Sprintf("%d", stats.TodaySessions)),
		theme.Accent.Render(fmt.Sprintf("%.1f", stats.TodayDistractionsPerHour)),
		theme.Timer.Render(fmt.Sprintf("%.0fs", stats.TodayLongestStreakSeconds)),
	)
	return today + "\n\n" + trendTable(stats.Last7Days).View()
}

func trendTable(trend []statsdto.DailyRollup) table.Model {
	rows := make([]table.Row, 0, len(trend))
	for _, day := range trend {
		rows = append(rows, table.Row{
			day.Date,
			fmt.Sprintf("%d", day.SessionCount),
			fmt.Sprintf("%d", day.TotalDistractions),
			fmt.Sprintf("%.0fs", day.LongestStreakSeconds),
		})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Day", Width: 12},
			{Title: "Sessions", Width: 10},
			{Title: "Distractions", Width: 14},
			{Title: "Best streak", Width: 12},
		}),
		table.WithRows(rows),
		table.WithHeight(len(rows)),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.Foam).Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(theme.Overlay)
	styles.Cell = styles.Cell.Foreground(theme.Text)
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return t
}
