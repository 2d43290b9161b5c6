package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/maitre/internal/api"
)

// renderHeader renders the status bar with all information.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if !m.snapshot.Loaded && m.snapshot.LastError == nil {
		return m.renderConnectingHeader(styles, bg)
	}

	content := m.buildStatusContent(styles, bg)

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(content)
}

// renderConnectingHeader shows the state before the first reload finishes.
func (m Model) renderConnectingHeader(styles Styles, bg BgStyle) string {
	target := "server"
	if m.apiURL != "" {
		target = truncate(m.apiURL, 40)
	}
	return styles.Header.Width(m.width).Render(
		bg.Render("maitre", styles.Logo) + bg.Spaces(2) +
			bg.Render("Connecting to "+target+"...", styles.WarningText.Bold(true)),
	)
}

// buildStatusContent builds the status bar content string.
func (m Model) buildStatusContent(styles Styles, bg BgStyle) string {
	compact := m.width < LayoutCompactWidth
	snap := m.snapshot
	stats := snap.Stats

	parts := []string{bg.Render("maitre", styles.Logo)}

	switch {
	case snap.IsOffline():
		parts = append(parts,
			bg.Render("● "+classifyConnectionError(snap.LastError), styles.DangerText),
			bg.Render("Retrying...", styles.WarningText.Bold(true)),
		)
	case snap.LastError != nil:
		parts = append(parts, bg.Render("● ERROR", styles.WarningText.Bold(true)))
	default:
		parts = append(parts, bg.Render("● ONLINE", styles.SuccessText))
	}

	waitingStyle := styles.MutedText
	if stats.Waiting > 0 {
		waitingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(m.theme.StatusColors["waiting"])).
			Background(lipgloss.Color(m.theme.Surface))
	}
	label := func(long, short string) string {
		return ternary(compact, short, long)
	}
	parts = append(parts,
		bg.Line(label("Waiting:", "W:"), fmt.Sprintf("%d", stats.Waiting), styles.MutedText, waitingStyle),
		bg.Line(label("Seated:", "S:"), fmt.Sprintf("%d", stats.Seated), styles.MutedText, styles.Text),
		bg.Line(label("Total:", "T:"), fmt.Sprintf("%d", stats.Total), styles.MutedText, styles.Text),
		bg.Line(label("Avg wait:", "Avg:"), fmt.Sprintf("%dm", stats.AverageWait), styles.MutedText, styles.InfoText),
	)

	if timeStr := m.formatTimestamp(); timeStr != "" {
		parts = append(parts, bg.Render(timeStr, styles.MutedText))
	}

	if snap.LastError != nil {
		maxErr := 60
		if compact {
			maxErr = 30
		}
		errText := truncate(api.UserMessage(snap.LastError), maxErr)
		parts = append(parts, bg.Render(errText, styles.DangerText))
	}

	return bg.Join(parts, "  ")
}

// formatTimestamp formats the last successful refresh with a relative indicator.
func (m Model) formatTimestamp() string {
	if m.lastUpdated.IsZero() {
		return ""
	}
	since := m.now().Sub(m.lastUpdated)
	return m.lastUpdated.Format("15:04:05") + " (" + humanizeDuration(since) + ")"
}

// classifyConnectionError returns a short description of the connection error.
func classifyConnectionError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}

// humanizeDuration formats an age like "just now" or "5m ago".
func humanizeDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return "just now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
	return fmt.Sprintf("%dd ago", int(d.Hours()/24))
}

// renderCommandBar renders the command hints bar. A search in progress or a
// fresh notice takes the bar over.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	if m.searching {
		return styles.Header.Width(m.width).Render(m.searchInput.View())
	}

	if notice, ok := m.latestToast(); ok {
		text := notice.Message
		if notice.AI {
			text += "  [AI]"
		}
		return styles.Header.Width(m.width).Render(
			bg.Render(truncate(text, maxInt(10, m.width-4)), styles.noticeStyle(notice.Level)))
	}

	type cmd struct{ key, desc string }
	var commands []cmd

	switch m.currentView {
	case ViewAnalytics:
		commands = []cmd{
			{"r", "Refresh"},
			{"j/k", "Scroll"},
			{"q", "Queue"},
			{"l", "Logs"},
			{"?", "More"},
		}
	case ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"L", m.logState.minLevel},
			{"q", "Queue"},
			{"A", "Analytics"},
			{"?", "More"},
		}
	default:
		commands = []cmd{
			{"f", string(m.snapshot.Filter)},
			{"/", "Search"},
			{"a", "Add"},
			{"s", "Seat"},
			{"d", "Done"},
			{"x", "Remove"},
			{"m", "SMS"},
			{"c", "QR"},
			{"I", "Insights"},
			{"?", "More"},
		}
	}

	colon := bg.Render(":", styles.FaintText)
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+2)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}

	if m.currentView == ViewQueue && m.snapshot.Searching() {
		segments = append(segments,
			bg.Render("/"+truncate(m.snapshot.SearchTerm, 18), styles.AccentText))
	}

	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, sep))
}
