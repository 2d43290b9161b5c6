package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/maitre/internal/queue"
	"github.com/five82/maitre/internal/queuesync"
)

const (
	fieldName = iota
	fieldPhone
	fieldParty
	fieldType
	fieldCount
)

// addFormModal collects a new party. Input is validated locally before the
// controller is called so mistakes stay on screen.
type addFormModal struct {
	ctx  context.Context
	ctrl *queuesync.Controller

	inputs    [fieldType]textinput.Model
	queueType queue.Type
	focus     int

	err        string
	estimate   *queuesync.Estimate
	predicting bool
}

type estimateMsg struct {
	est queuesync.Estimate
	err error
}

func newAddFormModal(ctx context.Context, ctrl *queuesync.Controller) *addFormModal {
	f := &addFormModal{ctx: ctx, ctrl: ctrl, queueType: queue.TypeTable}

	placeholders := [fieldType]string{"Customer name", "Phone number", "2"}
	limits := [fieldType]int{64, 24, 3}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Prompt = ""
		f.inputs[i] = ti
	}
	f.inputs[fieldName].Focus()
	return f
}

// Init starts the cursor blinking.
func (f *addFormModal) Init() tea.Cmd {
	return textinput.Blink
}

// input reads the form. An unparsable party size becomes 0 so validation
// reports it.
func (f *addFormModal) input() queue.AddInput {
	party, err := strconv.Atoi(strings.TrimSpace(f.inputs[fieldParty].Value()))
	if err != nil {
		party = 0
	}
	return queue.AddInput{
		CustomerName: f.inputs[fieldName].Value(),
		Phone:        f.inputs[fieldPhone].Value(),
		PartySize:    party,
		Type:         f.queueType,
	}
}

// localEstimate is the heuristic shown while typing.
func (f *addFormModal) localEstimate() int {
	waiting := 0
	if f.ctrl != nil {
		waiting = f.ctrl.Store().WaitingCount(f.queueType)
	}
	return queue.EstimateWait(f.queueType, waiting)
}

func (f *addFormModal) setFocus(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focus {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *addFormModal) toggleType() {
	if f.queueType == queue.TypeTable {
		f.queueType = queue.TypeTakeaway
	} else {
		f.queueType = queue.TypeTable
	}
	f.estimate = nil
}

func (f *addFormModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case estimateMsg:
		f.predicting = false
		if msg.err != nil {
			f.err = msg.err.Error()
			return f, nil, false
		}
		est := msg.est
		f.estimate = &est
		return f, nil, false

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Escape):
			return f, nil, true
		case msg.String() == "ctrl+s":
			return f.submit()
		case key.Matches(msg, keys.Confirm):
			if f.focus == fieldType {
				return f.submit()
			}
			return f, f.setFocus(f.focus + 1), false
		case key.Matches(msg, keys.NextField):
			return f, f.setFocus(f.focus + 1), false
		case key.Matches(msg, keys.PrevField):
			return f, f.setFocus(f.focus - 1), false
		case key.Matches(msg, keys.Predict):
			if f.ctrl == nil || f.predicting {
				return f, nil, false
			}
			f.predicting = true
			f.err = ""
			return f, predictCmd(f.ctx, f.ctrl, f.input()), false
		}

		if f.focus == fieldType {
			switch msg.String() {
			case "left", "right", " ", "t":
				f.toggleType()
			}
			return f, nil, false
		}

		var cmd tea.Cmd
		before := f.inputs[f.focus].Value()
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		if f.inputs[f.focus].Value() != before {
			f.estimate = nil
			f.err = ""
		}
		return f, cmd, false
	}

	var cmd tea.Cmd
	if f.focus < fieldType {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	}
	return f, cmd, false
}

// submit validates and hands the party to the controller, or keeps the form
// open on the offending field.
func (f *addFormModal) submit() (Modal, tea.Cmd, bool) {
	in := f.input()
	if err := in.Validate(); err != nil {
		f.err = err.Error()
		var verr *queue.ValidationError
		if errors.As(err, &verr) {
			return f, f.setFocus(fieldForValidation(verr.Field)), false
		}
		return f, nil, false
	}
	if f.ctrl == nil {
		return f, nil, true
	}
	return f, addCmd(f.ctx, f.ctrl, in), true
}

func fieldForValidation(field string) int {
	switch field {
	case "name":
		return fieldName
	case "phone":
		return fieldPhone
	case "party size":
		return fieldParty
	default:
		return fieldType
	}
}

func (f *addFormModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()
	labels := [fieldCount]string{"Name", "Phone", "Party size", "Type"}

	var b strings.Builder
	b.WriteString(dialogTitle(theme, "Add customer"))

	for i := 0; i < fieldCount; i++ {
		labelStyle := styles.MutedText
		if i == f.focus {
			labelStyle = styles.AccentText.Bold(true)
		}
		b.WriteString(labelStyle.Width(12).Render(labels[i]))
		if i < fieldType {
			b.WriteString(f.inputs[i].View())
		} else {
			b.WriteString(f.renderTypeChoice(styles, i == f.focus))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(f.renderEstimate(styles))

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(styles.DangerText.Render(f.err))
	}

	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("enter next/add · tab move · ctrl+p predict · esc cancel"))
	return placeDialog(theme, width, height, 64, b.String())
}

func (f *addFormModal) renderTypeChoice(styles Styles, focused bool) string {
	choices := []queue.Type{queue.TypeTable, queue.TypeTakeaway}
	parts := make([]string, 0, len(choices))
	for _, t := range choices {
		if t == f.queueType {
			parts = append(parts, styles.TypeStyle(string(t)).Render(string(t)))
		} else {
			parts = append(parts, styles.FaintText.Render(string(t)))
		}
	}
	out := strings.Join(parts, "  ")
	if focused {
		out += styles.FaintText.Render("  ←/→")
	}
	return out
}

func (f *addFormModal) renderEstimate(styles Styles) string {
	if f.predicting {
		return styles.MutedText.Render("Asking the server for a prediction...")
	}
	if f.estimate == nil || !f.estimate.Remote {
		minutes := f.localEstimate()
		if f.estimate != nil {
			minutes = f.estimate.Minutes
		}
		return styles.MutedText.Render("Estimated wait ") +
			styles.InfoText.Render(fmt.Sprintf("about %d min", minutes))
	}

	est := f.estimate
	line := styles.MutedText.Render("Predicted wait ") +
		styles.InfoText.Render(fmt.Sprintf("about %d min", est.Minutes))
	if est.AIPowered {
		line += styles.AccentText.Render("  AI")
	}
	if est.Confidence > 0 {
		line += styles.MutedText.Render(fmt.Sprintf("  %d%% confidence", est.Confidence))
	}
	if est.Recommendation != "" {
		line += "\n" + styles.FaintText.Render(truncate(est.Recommendation, 58))
	}
	return line
}

func predictCmd(ctx context.Context, ctrl *queuesync.Controller, in queue.AddInput) tea.Cmd {
	return func() tea.Msg {
		est, err := ctrl.PredictWait(ctx, in)
		return estimateMsg{est: est, err: err}
	}
}

func addCmd(ctx context.Context, ctrl *queuesync.Controller, in queue.AddInput) tea.Cmd {
	return func() tea.Msg {
		_, err := ctrl.AddCustomer(ctx, in)
		return opDoneMsg{err: err}
	}
}
