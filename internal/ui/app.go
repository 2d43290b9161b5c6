package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/maitre/internal/api"
	"github.com/five82/maitre/internal/prefs"
	"github.com/five82/maitre/internal/queue"
	"github.com/five82/maitre/internal/queuesync"
	"github.com/five82/maitre/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewQueue View = iota
	ViewAnalytics
	ViewLogs
)

var viewOrder = []View{ViewQueue, ViewAnalytics, ViewLogs}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *queuesync.Controller
	Notifier   *ProgramNotifier
	PollTick   time.Duration
	ThemeName  string
	PrefsPath  string
	LogPath    string
	APIURL     string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      *queuesync.Controller
	store     *state.Store
	prefsPath string
	pollTick  time.Duration
	logPath   string
	apiURL    string

	// UI state
	theme       Theme
	keys        keyMap
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Queue state
	selectedRow int
	selectedID  int64
	searchInput textinput.Model
	searching   bool

	// Overlays
	modal    Modal
	showHelp bool
	toasts   []toast
	toastSeq int

	// Analytics state
	analytics         analyticsState
	analyticsViewport viewport.Model

	// Log state
	logViewport viewport.Model
	logState    logState

	now func() time.Time
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "name, phone or queue number"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		logPath:     opts.LogPath,
		apiURL:      opts.APIURL,
		theme:       GetTheme(opts.ThemeName),
		keys:        DefaultKeyMap(),
		currentView: ViewQueue,
		searchInput: ti,
		logState:    logState{follow: true, minLevel: "INFO"},
		now:         time.Now,
	}
	if m.ctrl != nil {
		m.store = m.ctrl.Store()
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.analyticsViewport = viewport.New(0, 0)
			m.logViewport = viewport.New(0, 0)
		}
		m.ready = true
		m.resizeViewports()
		m.updateQueueTable()
		m.updateAnalyticsViewport()
		m.updateLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = m.snapshot.LastUpdated
		m.updateQueueTable()
		return m, nil

	case noticeMsg:
		cmd := m.pushToast(queuesync.Notice(msg))
		return m, cmd

	case toastExpiredMsg:
		m.dropToast(int(msg))
		return m, nil

	case opDoneMsg:
		if msg.result.QR != nil {
			m.modal = newQRModal(*msg.result.QR, msg.entry)
		}
		return m, fetchSnapshotCmd(m.store)

	case insightsMsg:
		if msg.err == nil {
			m.modal = newInsightsModal(msg.insights)
		}
		return m, nil

	case analyticsMsg:
		m.analytics.loading = false
		m.analytics.data = msg.data
		m.analytics.server = msg.server
		m.analytics.err = msg.err
		m.analytics.loaded = msg.err == nil
		m.updateAnalyticsViewport()
		return m, nil

	case logRecordsMsg:
		m.logState.err = msg.err
		if msg.err == nil {
			m.logState.records = msg.records
		}
		m.updateLogViewport()
		return m, nil

	case estimateMsg:
		if m.modal != nil {
			var cmd tea.Cmd
			m.modal, cmd, _ = m.modal.Update(msg, m.keys)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.renderModal()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		next, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = next
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.switchView(m.cycleView(1))

	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(m.cycleView(-1))

	case key.Matches(msg, m.keys.ViewQueue):
		return m.switchView(ViewQueue)

	case key.Matches(msg, m.keys.ViewAnalytics):
		return m.switchView(ViewAnalytics)

	case key.Matches(msg, m.keys.ViewLogs):
		return m.switchView(ViewLogs)

	case key.Matches(msg, m.keys.Reload):
		if m.currentView == ViewAnalytics {
			cmd := m.loadAnalytics()
			return m, cmd
		}
		return m, reloadCmd(m.ctx, m.ctrl)
	}

	switch m.currentView {
	case ViewQueue:
		return m.handleQueueKey(msg)
	case ViewAnalytics:
		return m.handleAnalyticsKey(msg)
	case ViewLogs:
		return m.handleLogsKey(msg)
	}

	return m, nil
}

func (m Model) cycleView(step int) View {
	idx := 0
	for i, v := range viewOrder {
		if v == m.currentView {
			idx = i
			break
		}
	}
	idx = (idx + step + len(viewOrder)) % len(viewOrder)
	return viewOrder[idx]
}

// switchView changes the active view and fetches whatever it shows.
func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	switch v {
	case ViewAnalytics:
		if !m.analytics.loaded && !m.analytics.loading {
			cmd := m.loadAnalytics()
			return m, cmd
		}
	case ViewLogs:
		return m, readLogsCmd(m.logPath)
	}
	return m, nil
}

// handleQueueKey processes keyboard input for the queue view.
func (m Model) handleQueueKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CycleFilter):
		m.setFilter(m.snapshot.Filter.Next())
		return m, nil
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(state.FilterAll)
		return m, nil
	case key.Matches(msg, m.keys.FilterTable):
		m.setFilter(state.FilterTable)
		return m, nil
	case key.Matches(msg, m.keys.FilterTakeaway):
		m.setFilter(state.FilterTakeaway)
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.snapshot.SearchTerm)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.snapshot.Searching() {
			m.searchInput.SetValue("")
			return m, searchCmd(m.ctx, m.ctrl, "")
		}
		return m, nil

	case key.Matches(msg, m.keys.Add):
		if m.ctrl == nil {
			return m, nil
		}
		form := newAddFormModal(m.ctx, m.ctrl)
		m.modal = form
		return m, form.Init()

	case key.Matches(msg, m.keys.Insights):
		return m, insightsCmd(m.ctx, m.ctrl)
	}

	if entry, ok := m.selectedEntry(); ok {
		switch {
		case key.Matches(msg, m.keys.Seat):
			return m, dispatchCmd(m.ctx, m.ctrl, queuesync.ActionSeat, entry)
		case key.Matches(msg, m.keys.Complete):
			return m, dispatchCmd(m.ctx, m.ctrl, queuesync.ActionComplete, entry)
		case key.Matches(msg, m.keys.SMS):
			return m, dispatchCmd(m.ctx, m.ctrl, queuesync.ActionNotifySMS, entry)
		case key.Matches(msg, m.keys.QR):
			return m, dispatchCmd(m.ctx, m.ctrl, queuesync.ActionShowQR, entry)
		case key.Matches(msg, m.keys.Remove):
			m.modal = newConfirmModal(
				"Remove customer",
				"Remove "+entry.QueueNumber+" "+entry.CustomerName+" from the queue?",
				dispatchCmd(m.ctx, m.ctrl, queuesync.ActionRemove, entry),
			)
			return m, nil
		}
	}

	count := len(m.snapshot.View())
	if count == 0 {
		return m, nil
	}
	page := maxInt(1, m.tableRows())
	switch {
	case key.Matches(msg, m.keys.Down):
		m.selectedRow = minInt(m.selectedRow+1, count-1)
	case key.Matches(msg, m.keys.Up):
		m.selectedRow = maxInt(m.selectedRow-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.selectedRow = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selectedRow = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selectedRow = minInt(m.selectedRow+page, count-1)
	case key.Matches(msg, m.keys.PageUp):
		m.selectedRow = maxInt(m.selectedRow-page, 0)
	case key.Matches(msg, m.keys.HalfPageDown):
		m.selectedRow = minInt(m.selectedRow+maxInt(1, page/2), count-1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.selectedRow = maxInt(m.selectedRow-maxInt(1, page/2), 0)
	}
	if entry, ok := m.selectedEntry(); ok {
		m.selectedID = entry.ID
	}
	return m, nil
}

// handleSearchKey feeds the search box until Enter or Esc.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, searchCmd(m.ctx, m.ctrl, m.searchInput.Value())
	case tea.KeyEsc:
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, searchCmd(m.ctx, m.ctrl, "")
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// setFilter applies a filter locally; no request is needed.
func (m *Model) setFilter(f state.Filter) {
	if m.store == nil {
		return
	}
	m.store.SetFilter(f)
	m.snapshot = m.store.Snapshot()
	m.updateQueueTable()
	m.savePrefs()
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{
		Theme:  m.theme.Name,
		Filter: string(m.snapshot.Filter),
	})
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}

	if m.currentView == ViewLogs && m.logState.follow {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}

	cmds = append(cmds, tickCmd(m.pollTick))

	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	b.WriteString(m.renderContent())

	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewQueue:
		return m.renderQueue()
	case ViewAnalytics:
		return m.renderAnalytics()
	case ViewLogs:
		return m.renderLogs()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type noticeMsg queuesync.Notice

type toastExpiredMsg int

// opDoneMsg reports a finished controller operation. Failures were already
// surfaced as notices, so err is informational.
type opDoneMsg struct {
	action queuesync.Action
	entry  queue.Entry
	result queuesync.Result
	err    error
}

type insightsMsg struct {
	insights api.Insights
	err      error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func reloadCmd(ctx context.Context, ctrl *queuesync.Controller) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		err := ctrl.Reload(ctx)
		return opDoneMsg{err: err}
	}
}

func searchCmd(ctx context.Context, ctrl *queuesync.Controller, term string) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		err := ctrl.Search(ctx, term)
		return opDoneMsg{err: err}
	}
}

func dispatchCmd(ctx context.Context, ctrl *queuesync.Controller, action queuesync.Action, entry queue.Entry) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		res, err := ctrl.Dispatch(ctx, queuesync.Command{Action: action, EntryID: entry.ID})
		return opDoneMsg{action: action, entry: entry, result: res, err: err}
	}
}

func insightsCmd(ctx context.Context, ctrl *queuesync.Controller) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		insights, err := ctrl.Insights(ctx)
		return insightsMsg{insights: insights, err: err}
	}
}

// Run starts the Bubble Tea program and binds the notifier to it for the
// lifetime of the program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if opts.Notifier != nil {
		opts.Notifier.Bind(p)
		defer opts.Notifier.Bind(nil)
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
