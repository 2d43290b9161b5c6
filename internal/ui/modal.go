package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/queue"
)

// Modal is the interface for modal dialogs.
// The Update method returns the updated modal, a command, and a bool indicating if the modal should close.
type Modal interface {
	Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool)
	View(theme Theme, width, height int) string
}

func (m Model) renderModal() string {
	return m.modal.View(m.theme, m.width, m.height)
}

// placeDialog draws content in a rounded box centred on screen.
func placeDialog(theme Theme, width, height, boxWidth int, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(minInt(boxWidth, maxInt(width-4, 20)))

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(content),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}

func dialogTitle(theme Theme, title string) string {
	styles := theme.Styles()
	return styles.Text.Bold(true).Render(title) + "\n" +
		styles.FaintText.Render(strings.Repeat("─", 30)) + "\n\n"
}

// confirmModal asks a yes/no question and runs onConfirm on yes.
type confirmModal struct {
	title     string
	message   string
	onConfirm tea.Cmd
}

func newConfirmModal(title, message string, onConfirm tea.Cmd) *confirmModal {
	return &confirmModal{title: title, message: message, onConfirm: onConfirm}
}

func (c *confirmModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil, false
	}
	switch {
	case key.Matches(k, keys.Confirm), k.String() == "y", k.String() == "Y":
		return c, c.onConfirm, true
	case key.Matches(k, keys.Escape), k.String() == "n", k.String() == "N":
		return c, nil, true
	}
	return c, nil, false
}

func (c *confirmModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(dialogTitle(theme, c.title))
	b.WriteString(styles.Text.Render(c.message))
	b.WriteString("\n\n")
	b.WriteString(styles.AccentText.Render("y/enter"))
	b.WriteString(styles.MutedText.Render(" confirm   "))
	b.WriteString(styles.AccentText.Render("n/esc"))
	b.WriteString(styles.MutedText.Render(" cancel"))
	return placeDialog(theme, width, height, 56, b.String())
}

// infoModal shows read-only lines until any key is pressed.
type infoModal struct {
	title string
	lines []infoLine
}

type infoLine struct {
	label string
	value string
}

func (i *infoModal) Update(msg tea.Msg, _ keyMap) (Modal, tea.Cmd, bool) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return i, nil, true
	}
	return i, nil, false
}

func (i *infoModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(dialogTitle(theme, i.title))
	for _, line := range i.lines {
		switch {
		case line.label == "" && line.value == "":
			b.WriteString("\n")
			continue
		case line.label == "":
			b.WriteString(styles.Text.Render(line.value))
		case line.value == "":
			b.WriteString(styles.AccentText.Bold(true).Render(line.label))
		default:
			b.WriteString(styles.MutedText.Width(16).Render(line.label))
			b.WriteString(styles.Text.Render(line.value))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.FaintText.Render("press any key to close"))
	return placeDialog(theme, width, height, 72, b.String())
}

func newQRModal(qr api.QRCode, entry queue.Entry) *infoModal {
	number := qr.QueueNumber
	if number == "" {
		number = entry.QueueNumber
	}
	lines := []infoLine{
		{"Queue number", number},
		{"Customer", entry.CustomerName},
		{"Status page", qr.StatusURL},
	}
	if qr.QRCode != "" {
		lines = append(lines, infoLine{"QR image", fmt.Sprintf("%s (%d bytes)", dataURLKind(qr.QRCode), len(qr.QRCode))})
	}
	lines = append(lines,
		infoLine{},
		infoLine{value: "Open the status page on the customer's phone or print the QR code from the web dashboard."},
	)
	return &infoModal{title: "Customer QR code", lines: lines}
}

// dataURLKind returns the media type of a data URL, e.g. "image/png".
func dataURLKind(dataURL string) string {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "image"
	}
	if i := strings.IndexAny(rest, ";,"); i > 0 {
		return rest[:i]
	}
	return "image"
}

func newInsightsModal(in api.Insights) *infoModal {
	lines := []infoLine{
		{"Efficiency", fmt.Sprintf("%d/100", in.EfficiencyScore)},
		{"Average wait", fmt.Sprintf("%d min", in.AvgWaitTime)},
	}
	if in.PeakHourPrediction != "" {
		lines = append(lines, infoLine{"Peak hour", in.PeakHourPrediction})
	}
	if len(in.Bottlenecks) > 0 {
		lines = append(lines, infoLine{}, infoLine{label: "Bottlenecks"})
		for _, b := range in.Bottlenecks {
			lines = append(lines, infoLine{value: "• " + b})
		}
	}
	if len(in.Suggestions) > 0 {
		lines = append(lines, infoLine{}, infoLine{label: "Suggestions"})
		for _, s := range in.Suggestions {
			lines = append(lines, infoLine{value: "• " + s})
		}
	}
	return &infoModal{title: "Queue insights", lines: lines}
}
