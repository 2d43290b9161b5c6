package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queue"
	"github.com/five82/maitre/internal/state"
)

// RenderPlain writes the snapshot as a bordered text table for non-interactive
// output. Colours are left to lipgloss, which drops them when w is not a
// terminal.
func RenderPlain(w io.Writer, snap state.Snapshot, now time.Time) error {
	stats := snap.Stats
	var b strings.Builder

	fmt.Fprintf(&b, "Waiting %d · Seated %d · Done %d · Total %d · Avg wait %dm\n",
		stats.Waiting, stats.Seated, stats.Done, stats.Total, stats.AverageWait)

	if snap.LastError != nil {
		fmt.Fprintf(&b, "Queue unavailable: %s\n", api.UserMessage(snap.LastError))
		_, err := io.WriteString(w, b.String())
		return err
	}

	entries := snap.View()
	heading := fmt.Sprintf("Filter: %s", snap.Filter)
	if snap.Searching() {
		heading = fmt.Sprintf("Search: %q", snap.SearchTerm)
	}
	fmt.Fprintf(&b, "%s (%d)\n", heading, len(entries))

	if len(entries) == 0 {
		b.WriteString("No customers in the queue\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		added := ""
		if !e.Timestamp.IsZero() {
			added = humanizeDuration(e.Waited(now))
		}
		rows = append(rows, []string{
			e.QueueNumber,
			e.CustomerName,
			e.Phone,
			fmt.Sprintf("%d", e.PartySize),
			string(e.Type),
			string(e.Status),
			fmt.Sprintf("%dm", e.EstimatedWait),
			added,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("No.", "Name", "Phone", "Party", "Type", "Status", "Wait", "Added").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderStatus writes one customer's status lookup as label/value rows.
func RenderStatus(w io.Writer, status api.CustomerStatus, now time.Time) error {
	position := "-"
	if status.Status == queue.StatusWaiting && status.Position > 0 {
		position = fmt.Sprintf("%d", status.Position)
	}
	added := "-"
	if ts := status.ParsedTimestamp(); !ts.IsZero() {
		added = humanizeDuration(now.Sub(ts))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Rows(
			[]string{"Queue number", status.QueueNumber},
			[]string{"Name", status.CustomerName},
			[]string{"Party", fmt.Sprintf("%d", status.PartySize)},
			[]string{"Type", string(status.QueueType)},
			[]string{"Status", string(status.Status)},
			[]string{"Position", position},
			[]string{"Est. wait", fmt.Sprintf("%dm", status.EstimatedWait)},
			[]string{"Added", added},
		).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}
