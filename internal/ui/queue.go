package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/maitre/internal/queue"
)

// updateQueueTable keeps the selection in bounds when the queue changes.
// Preserves selection by entry ID when possible.
func (m *Model) updateQueueTable() {
	entries := m.snapshot.View()
	if len(entries) == 0 {
		m.selectedRow = 0
		m.selectedID = 0
		return
	}

	if m.selectedID > 0 {
		for i, entry := range entries {
			if entry.ID == m.selectedID {
				m.selectedRow = i
				return
			}
		}
	}

	if m.selectedRow >= len(entries) {
		m.selectedRow = len(entries) - 1
	}
	m.selectedID = entries[m.selectedRow].ID
}

// selectedEntry returns the entry under the cursor.
func (m Model) selectedEntry() (queue.Entry, bool) {
	entries := m.snapshot.View()
	if m.selectedRow < 0 || m.selectedRow >= len(entries) {
		return queue.Entry{}, false
	}
	return entries[m.selectedRow], true
}

// paneWidths splits the queue view between table and detail pane. Narrow
// terminals get the table only.
func (m Model) paneWidths() (table, detail int) {
	if m.width < LayoutCompactWidth {
		return m.width, 0
	}
	if m.width >= LayoutExtraWideWidth {
		table = m.width * 45 / 100
	} else {
		table = m.width * 55 / 100
	}
	return table, m.width - table
}

// tableRows is the number of entry rows that fit in the table pane.
func (m Model) tableRows() int {
	// header + cmdbar, box borders, column header
	return m.height - 2 - 2 - 1
}

// renderQueue renders the queue view with split layout (table + detail).
func (m Model) renderQueue() string {
	contentHeight := m.height - 2
	tableWidth, detailWidth := m.paneWidths()

	entries := m.snapshot.View()
	tablePane := m.renderTitledBox(m.queueTitle(len(entries)), m.renderQueueTable(entries, tableWidth-2), tableWidth, contentHeight, true)
	if detailWidth == 0 {
		return tablePane
	}

	detailTitle := "Details"
	detailContent := m.renderDetail(detailWidth - 2)
	if entry, ok := m.selectedEntry(); ok {
		detailTitle = entry.QueueNumber + " · " + truncate(entry.CustomerName, maxInt(8, detailWidth/2))
	}
	detailPane := m.renderTitledBox(detailTitle, detailContent, detailWidth, contentHeight, false)

	return lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailPane)
}

func (m Model) queueTitle(count int) string {
	if m.snapshot.Searching() {
		return fmt.Sprintf("Search %q (%d)", truncate(m.snapshot.SearchTerm, 20), count)
	}
	return fmt.Sprintf("Queue · %s (%d)", m.snapshot.Filter, count)
}

type column struct {
	title string
	width int
}

// queueColumns sizes the table columns for the inner pane width. The name
// column takes whatever is left.
func queueColumns(inner int) []column {
	cols := []column{
		{"No.", 6},
		{"Name", 0},
		{"Pty", 4},
		{"Type", 9},
		{"Status", 8},
		{"Wait", 5},
		{"Added", 9},
	}
	if inner >= LayoutPhoneWidth {
		cols = append(cols[:2], append([]column{{"Phone", 14}}, cols[2:]...)...)
	}
	fixed := 0
	for _, c := range cols {
		fixed += c.width + 1
	}
	name := inner - fixed - 1
	if name < 6 {
		name = 6
	}
	cols[1].width = name
	return cols
}

func (m Model) renderQueueTable(entries []queue.Entry, inner int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	if len(entries) == 0 {
		return bg.Render(m.emptyMessage(), styles.MutedText)
	}

	cols := queueColumns(inner)
	header := make([]string, 0, len(cols))
	for _, c := range cols {
		header = append(header, cell(c.title, c.width))
	}
	lines := []string{bg.Render(strings.Join(header, " "), styles.FaintText.Bold(true))}

	visible := maxInt(1, m.tableRows())
	offset := 0
	if m.selectedRow >= visible {
		offset = m.selectedRow - visible + 1
	}
	end := minInt(len(entries), offset+visible)

	now := m.now()
	for i := offset; i < end; i++ {
		entry := entries[i]
		values := queueRowValues(entry, cols, now)
		if i == m.selectedRow {
			lines = append(lines, m.theme.Styles().Selected.Width(inner).Render(strings.Join(values, " ")))
			continue
		}
		rendered := make([]string, len(values))
		for j, v := range values {
			style := styles.Text
			switch cols[j].title {
			case "Status":
				style = m.statusForeground(string(entry.Status))
			case "Type":
				style = m.typeForeground(string(entry.Type))
			case "No.", "Added", "Phone":
				style = styles.MutedText
			}
			rendered[j] = style.Render(v)
		}
		lines = append(lines, strings.Join(rendered, bg.Space()))
	}
	return strings.Join(lines, "\n")
}

func queueRowValues(entry queue.Entry, cols []column, now time.Time) []string {
	values := make([]string, 0, len(cols))
	for _, c := range cols {
		var v string
		switch c.title {
		case "No.":
			v = entry.QueueNumber
		case "Name":
			v = entry.CustomerName
		case "Phone":
			v = entry.Phone
		case "Pty":
			v = fmt.Sprintf("%d", entry.PartySize)
		case "Type":
			v = string(entry.Type)
		case "Status":
			v = string(entry.Status)
		case "Wait":
			v = fmt.Sprintf("%dm", entry.EstimatedWait)
		case "Added":
			if !entry.Timestamp.IsZero() {
				v = humanizeDuration(entry.Waited(now))
			}
		}
		values = append(values, cell(v, c.width))
	}
	return values
}

func (m Model) emptyMessage() string {
	switch {
	case m.snapshot.LastError != nil:
		return "Queue unavailable. Retrying on the next refresh."
	case m.snapshot.Searching():
		return fmt.Sprintf("No customers match %q", m.snapshot.SearchTerm)
	case !m.snapshot.Loaded:
		return "Loading queue..."
	case m.snapshot.Filter != "" && m.snapshot.Filter != "All":
		return fmt.Sprintf("No %s customers", strings.ToLower(string(m.snapshot.Filter)))
	default:
		return "No customers in the queue"
	}
}

func (m Model) statusForeground(status string) lipgloss.Style {
	color := m.theme.StatusColors[strings.ToLower(status)]
	if color == "" {
		color = m.theme.Muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(lipgloss.Color(m.theme.SurfaceAlt))
}

func (m Model) typeForeground(t string) lipgloss.Style {
	color := m.theme.TypeColors[strings.ToLower(t)]
	if color == "" {
		color = m.theme.Muted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Background(lipgloss.Color(m.theme.SurfaceAlt))
}

// renderDetail renders the selected entry.
func (m Model) renderDetail(inner int) string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	entry, ok := m.selectedEntry()
	if !ok {
		return bg.Render("Select a customer", styles.MutedText)
	}

	label := func(s string) string { return padRight(s, 10) }
	var lines []string
	add := func(l string) {
		if l != "" {
			lines = append(lines, ansi.Truncate(l, inner, "…"))
		}
	}

	add(bg.Render(entry.CustomerName, styles.Text.Bold(true)))
	add(styles.StatusStyle(string(entry.Status)).Render(string(entry.Status)) + bg.Space() +
		styles.TypeStyle(string(entry.Type)).Render(string(entry.Type)))
	lines = append(lines, "")

	add(bg.Line(label("Number"), entry.QueueNumber, styles.MutedText, styles.AccentText))
	add(bg.Line(label("Party"), pluralize(entry.PartySize, "guest", "guests"), styles.MutedText, styles.Text))
	add(bg.Line(label("Phone"), entry.Phone, styles.MutedText, styles.Text))
	if !entry.Timestamp.IsZero() {
		added := entry.Timestamp.Local().Format("15:04") + " (" + humanizeDuration(entry.Waited(m.now())) + ")"
		add(bg.Line(label("Added"), added, styles.MutedText, styles.Text))
	}
	add(bg.Line(label("Est. wait"), fmt.Sprintf("%d min", entry.EstimatedWait), styles.MutedText, styles.InfoText))

	if p := entry.Prediction; p != nil {
		lines = append(lines, "")
		ai := "heuristic"
		if p.AIPowered {
			ai = "AI powered"
		}
		if p.Confidence != nil {
			ai += fmt.Sprintf(" · %d%% confidence", *p.Confidence)
		}
		add(bg.Line(label("Estimate"), ai, styles.MutedText, styles.AccentText))
		for _, f := range p.Factors {
			add(bg.Render("  • "+f, styles.MutedText))
		}
	}

	lines = append(lines, "")
	add(bg.Render("Actions", styles.FaintText.Bold(true)))
	if next, ok := entry.Status.Next(); ok {
		k := "s"
		if next == queue.StatusDone {
			k = "d"
		}
		add(bg.Render(k, styles.AccentText) + bg.Space() + bg.Render("mark "+string(next), styles.MutedText))
	}
	add(bg.Render("m", styles.AccentText) + bg.Space() + bg.Render("send table-ready SMS", styles.MutedText))
	add(bg.Render("c", styles.AccentText) + bg.Space() + bg.Render("show status QR", styles.MutedText))
	add(bg.Render("x", styles.AccentText) + bg.Space() + bg.Render("remove", styles.MutedText))

	return strings.Join(lines, "\n")
}

// renderTitledBox renders content in a box with the title embedded in the top border:
// ┌─── Title ───┐
// When focused is true, the border uses BorderFocus.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr := m.theme.Border
	if focused {
		borderColorStr = m.theme.BorderFocus
	}
	bg := NewBgStyle(m.theme.SurfaceAlt)
	bgColor := lipgloss.Color(m.theme.SurfaceAlt)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := maxInt(width-2, 0)
	title = truncate(title, maxInt(innerWidth-4, 1))
	titleLen := ansi.StringWidth(title)
	leftPad := maxInt((innerWidth-titleLen-2)/2, 0)
	rightPad := maxInt(innerWidth-titleLen-2-leftPad, 0)

	topBorder := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)

	bottomBorder := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	contentStyle := lipgloss.NewStyle().Width(innerWidth).MaxWidth(innerWidth).Background(bgColor)

	contentLines := strings.Split(content, "\n")
	boxHeight := height - 2

	paddedLines := make([]string, 0, maxInt(boxHeight, 0))
	for i := 0; i < boxHeight; i++ {
		var line string
		if i < len(contentLines) {
			line = contentLines[i]
		}
		paddedLines = append(paddedLines,
			bg.Render("│", borderStyle)+
				contentStyle.Render(line)+
				bg.Render("│", borderStyle))
	}

	return topBorder + "\n" + strings.Join(paddedLines, "\n") + "\n" + bottomBorder
}
