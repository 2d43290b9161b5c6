package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/maitre/internal/logtail"
)

var logLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// logState holds all log-related state.
type logState struct {
	records  []logtail.Record
	follow   bool
	minLevel string
	err      error
}

type logRecordsMsg struct {
	records []logtail.Record
	err     error
}

func readLogsCmd(path string) tea.Cmd {
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		records, err := logtail.ReadRecords(path, LogTailLines)
		return logRecordsMsg{records: records, err: err}
	}
}

// resizeViewports fits the scrolling views inside their boxes.
func (m *Model) resizeViewports() {
	inner := maxInt(m.width-2, 1)
	// header, cmdbar, box borders
	m.analyticsViewport.Width = inner
	m.analyticsViewport.Height = maxInt(m.height-4, 1)
	// plus the status line under the log box
	m.logViewport.Width = inner
	m.logViewport.Height = maxInt(m.height-5, 1)
}

func nextLogLevel(current string) string {
	for i, l := range logLevels {
		if l == current {
			return logLevels[(i+1)%len(logLevels)]
		}
	}
	return logLevels[0]
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewQueue
		return m, nil
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logState.follow = !m.logState.follow
		if m.logState.follow {
			m.logViewport.GotoBottom()
			return m, readLogsCmd(m.logPath)
		}
		return m, nil
	case key.Matches(msg, m.keys.CycleLogLevel):
		m.logState.minLevel = nextLogLevel(m.logState.minLevel)
		m.updateLogViewport()
		return m, nil
	}

	// Manual scrolling pauses follow mode
	switch {
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.logState.follow = false
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.logState.follow = false
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.PageDown):
		m.logViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.logState.follow = false
		m.logViewport.PageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logState.follow = false
		m.logViewport.HalfPageUp()
	}
	return m, nil
}

// updateLogViewport re-renders the log content.
func (m *Model) updateLogViewport() {
	if !m.ready {
		return
	}
	m.logViewport.SetContent(m.renderLogContent(m.logViewport.Width))
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// visibleRecords applies the minimum level filter.
func (m Model) visibleRecords() []logtail.Record {
	out := make([]logtail.Record, 0, len(m.logState.records))
	for _, r := range m.logState.records {
		if r.AtLeast(m.logState.minLevel) {
			out = append(out, r)
		}
	}
	return out
}

func (m Model) renderLogContent(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if m.logPath == "" {
		return bg.Render("Logging to a file is disabled", styles.MutedText)
	}
	if m.logState.err != nil {
		return bg.Render("Cannot read "+m.logPath+": "+m.logState.err.Error(), styles.DangerText)
	}

	records := m.visibleRecords()
	if len(records) == 0 {
		return bg.Render("No log entries at "+m.logState.minLevel+" or above", styles.MutedText)
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		lines = append(lines, ansi.Truncate(m.formatRecord(r, styles), width, "…"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) formatRecord(r logtail.Record, styles Styles) string {
	if r.Level == "" {
		return styles.Text.Render(r.Raw)
	}
	ts := ""
	if !r.Time.IsZero() {
		ts = r.Time.Local().Format("15:04:05") + " "
	}
	var b strings.Builder
	b.WriteString(styles.FaintText.Render(ts))
	b.WriteString(m.levelStyle(r.Level).Render(fmt.Sprintf("%-5s", r.Level)))
	b.WriteString(styles.Text.Render(" " + r.Message))
	for _, a := range r.Attrs {
		b.WriteString(styles.MutedText.Render(" " + a.Key + "="))
		b.WriteString(styles.InfoText.Render(a.Value))
	}
	return b.String()
}

func (m Model) levelStyle(level string) lipgloss.Style {
	color := m.theme.Muted
	switch {
	case strings.HasPrefix(level, "ERROR"):
		color = m.theme.Danger
	case strings.HasPrefix(level, "WARN"):
		color = m.theme.Warning
	case strings.HasPrefix(level, "INFO"):
		color = m.theme.Success
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(lipgloss.Color(m.theme.SurfaceAlt))
}

// renderLogs renders the log view.
func (m Model) renderLogs() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	title := "maitre log"
	if m.logPath != "" {
		title += " · " + m.logPath
	}
	box := m.renderTitledBox(title, m.logViewport.View(), m.width, m.height-3, true)

	autoTail := "off"
	if m.logState.follow {
		autoTail = "on"
	}
	status := fmt.Sprintf("%d of %d lines · level ≥ %s · auto-tail %s",
		len(m.visibleRecords()), len(m.logState.records), m.logState.minLevel, autoTail)
	return box + "\n" + bg.FillLine(bg.Render(status, styles.FaintText), m.width)
}
