package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queuesync"
)

// firstServiceHour labels the first hourly bucket; the backend reports one
// bucket per service hour starting at opening time.
const firstServiceHour = 11

type analyticsState struct {
	data    api.Analytics
	server  *api.QueueStats
	err     error
	loaded  bool
	loading bool
	fetched time.Time
}

type analyticsMsg struct {
	data   api.Analytics
	server *api.QueueStats // nil when /api/queue/stats failed
	err    error
}

func (m *Model) loadAnalytics() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	m.analytics.loading = true
	m.analytics.fetched = m.now()
	return analyticsCmd(m.ctx, m.ctrl)
}

func analyticsCmd(ctx context.Context, ctrl *queuesync.Controller) tea.Cmd {
	return func() tea.Msg {
		data, err := ctrl.Analytics(ctx)
		if err != nil {
			return analyticsMsg{err: err}
		}
		msg := analyticsMsg{data: data}
		if stats, err := ctrl.ServerStats(ctx); err == nil {
			msg.server = &stats
		}
		return msg
	}
}

func (m Model) handleAnalyticsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.currentView = ViewQueue
	case key.Matches(msg, m.keys.Down):
		m.analyticsViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Up):
		m.analyticsViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Top):
		m.analyticsViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.analyticsViewport.GotoBottom()
	case key.Matches(msg, m.keys.PageDown):
		m.analyticsViewport.PageDown()
	case key.Matches(msg, m.keys.PageUp):
		m.analyticsViewport.PageUp()
	}
	return m, nil
}

func (m *Model) updateAnalyticsViewport() {
	if !m.ready {
		return
	}
	m.analyticsViewport.SetContent(m.renderAnalyticsContent(m.analyticsViewport.Width))
}

func (m Model) renderAnalytics() string {
	title := "Analytics"
	if !m.analytics.fetched.IsZero() {
		title += " · " + m.analytics.fetched.Format("15:04")
	}
	return m.renderTitledBox(title, m.analyticsViewport.View(), m.width, m.height-2, true)
}

func (m Model) renderAnalyticsContent(width int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	switch {
	case m.analytics.loading && !m.analytics.loaded:
		return bg.Render("Loading analytics...", styles.MutedText)
	case m.analytics.err != nil:
		return bg.Render("Analytics unavailable: "+api.UserMessage(m.analytics.err), styles.DangerText)
	case !m.analytics.loaded:
		return bg.Render("Press r to load analytics", styles.MutedText)
	}

	data := m.analytics.data
	label := func(s string) string { return padRight(s, 18) }
	lines := []string{
		bg.Line(label("Customers today"), fmt.Sprintf("%d", data.TodayCustomers), styles.MutedText, styles.Text),
		bg.Line(label("Average wait"), fmt.Sprintf("%.1f min", data.AverageWaitTime), styles.MutedText, styles.InfoText),
		bg.Line(label("Peak hour"), data.PeakHour, styles.MutedText, styles.WarningText),
		bg.Line(label("Queue efficiency"), fmt.Sprintf("%d%%", data.QueueEfficiency), styles.MutedText, styles.SuccessText),
	}
	if s := m.analytics.server; s != nil {
		lines = append(lines, bg.Line(label("Server counts"),
			fmt.Sprintf("%d waiting · %d seated · %d done · %d today", s.Waiting, s.Seated, s.Done, s.TodayTotal),
			styles.MutedText, styles.Text))
	}
	lines = append(lines, "")

	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent)).Background(lipgloss.Color(m.theme.SurfaceAlt))
	info := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Info)).Background(lipgloss.Color(m.theme.SurfaceAlt))

	lines = append(lines, bg.Render("Customers per hour", styles.Text.Bold(true)))
	lines = append(lines, barChart(data.HourlyData, width, "", accent, styles.MutedText)...)
	lines = append(lines, "")
	lines = append(lines, bg.Render("Wait time per hour", styles.Text.Bold(true)))
	lines = append(lines, barChart(data.WaitTimeData, width, "m", info, styles.MutedText)...)

	return strings.Join(lines, "\n")
}

// barChart renders one horizontal bar per bucket, scaled to the widest value.
func barChart(values []int, width int, unit string, barStyle, labelStyle lipgloss.Style) []string {
	if len(values) == 0 {
		return []string{labelStyle.Render("  no data")}
	}
	peak := 0
	for _, v := range values {
		peak = maxInt(peak, v)
	}
	// "HH:00 " + bar + " value"
	room := maxInt(width-6-8, 1)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		n := 0
		if peak > 0 && v > 0 {
			n = maxInt(1, v*room/peak)
		}
		hour := (firstServiceHour + i) % 24
		lines = append(lines,
			labelStyle.Render(fmt.Sprintf("%02d:00 ", hour))+
				barStyle.Render(strings.Repeat("█", n))+
				labelStyle.Render(fmt.Sprintf(" %d%s", v, unit)))
	}
	return lines
}
