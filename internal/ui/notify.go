package ui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/maitre/internal/queuesync"
)

// ProgramNotifier forwards controller notices to a running program as
// messages. Notices sent while no program is bound are dropped.
type ProgramNotifier struct {
	program atomic.Pointer[tea.Program]
}

// NewNotifier returns an unbound notifier.
func NewNotifier() *ProgramNotifier {
	return &ProgramNotifier{}
}

// Bind attaches p; nil detaches.
func (n *ProgramNotifier) Bind(p *tea.Program) {
	n.program.Store(p)
}

// Notify implements queuesync.Notifier.
func (n *ProgramNotifier) Notify(notice queuesync.Notice) {
	if p := n.program.Load(); p != nil {
		p.Send(noticeMsg(notice))
	}
}

type toast struct {
	id      int
	notice  queuesync.Notice
	created time.Time
}

// pushToast records a notice and schedules its removal.
func (m *Model) pushToast(n queuesync.Notice) tea.Cmd {
	m.toastSeq++
	id := m.toastSeq
	m.toasts = append(m.toasts, toast{id: id, notice: n, created: m.now()})
	if len(m.toasts) > maxToasts {
		m.toasts = m.toasts[len(m.toasts)-maxToasts:]
	}
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg(id)
	})
}

func (m *Model) dropToast(id int) {
	kept := make([]toast, 0, len(m.toasts))
	for _, t := range m.toasts {
		if t.id != id {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// latestToast returns the newest notice still on screen.
func (m Model) latestToast() (queuesync.Notice, bool) {
	if len(m.toasts) == 0 {
		return queuesync.Notice{}, false
	}
	return m.toasts[len(m.toasts)-1].notice, true
}

func (s Styles) noticeStyle(level queuesync.Level) lipgloss.Style {
	switch level {
	case queuesync.LevelSuccess:
		return s.SuccessText
	case queuesync.LevelWarning:
		return s.WarningText.Bold(true)
	case queuesync.LevelError:
		return s.DangerText
	default:
		return s.InfoText
	}
}
