package focus

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"attn/internal/client/controller"
	"attn/internal/ui/theme"
)

// Render draws the landing, active, or summary screen for the current
// controller state. The view is stateless; everything it needs is in the
// state value.
func Render(s controller.State, width int) string {
	var body string
	switch s.Phase {
	case controller.NoSession:
		body = renderLanding()
	case controller.PendingStart, controller.Active:
		body = renderActive(s)
	case controller.PendingEnd, controller.Summary:
		body = renderSummary(s)
	}

	pane := theme.Pane.Width(max(width-4, 40)).Render(body)
	if s.Notice != "" {
		return lipgloss.JoinVertical(lipgloss.Left, pane, theme.Alert.Render("  ! "+s.Notice))
	}
	return pane
}

func renderLanding() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("attn") + "\n\n")
	b.WriteString("No session running.\n\n")
	b.WriteString(theme.Muted.Render("press s to start focusing"))
	return b.String()
}

func renderActive(s controller.State) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Focusing") + "\n\n")
	b.WriteString(theme.Timer.Render(formatDuration(s.Elapsed())) + "\n\n")
	b.WriteString(fmt.Sprintf("Distractions: %s\n", theme.Accent.Render(fmt.Sprintf("%d", s.Distractions))))
	if s.SessionID == "" {
		b.WriteString(theme.Muted.Render("syncing...") + "\n")
	}
	b.WriteString("\n" + theme.Muted.Render("d distraction · e end"))
	return b.String()
}

func renderSummary(s controller.State) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Session complete") + "\n\n")
	b.WriteString(fmt.Sprintf("Duration        %s\n", theme.Timer.Render(formatSeconds(s.Summary.DurationSeconds))))
	b.WriteString(fmt.Sprintf("Distractions    %d\n", s.Summary.DistractionCount))
	if s.Summary.StreakKnown {
		b.WriteString(fmt.Sprintf("Longest streak  %s\n", theme.Accent.Render(formatSeconds(s.Summary.LongestStreakSeconds))))
		b.WriteString(fmt.Sprintf("Average streak  %s\n", formatSeconds(s.Summary.AverageStreakSeconds)))
	} else {
		b.WriteString("Longest streak  " + theme.Muted.Render("computing...") + "\n")
	}
	if s.Phase == controller.PendingEnd {
		b.WriteString("\n" + theme.Muted.Render("confirming..."))
	} else {
		b.WriteString("\n" + theme.Muted.Render("enter to dismiss"))
	}
	return b.String()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	sec := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}

func formatSeconds(seconds float64) string {
	return formatDuration(time.Duration(seconds * float64(time.Second)))
}
