package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding
	Reload     key.Binding

	// View switching
	ViewQueue     key.Binding
	ViewAnalytics key.Binding
	ViewLogs      key.Binding

	// Queue filters and search
	CycleFilter    key.Binding
	FilterAll      key.Binding
	FilterTable    key.Binding
	FilterTakeaway key.Binding
	Search         key.Binding

	// Queue actions
	Add      key.Binding
	Seat     key.Binding
	Complete key.Binding
	Remove   key.Binding
	SMS      key.Binding
	QR       key.Binding
	Insights key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Logs actions
	ToggleFollow  key.Binding
	CycleLogLevel key.Binding

	// Forms and dialogs
	Confirm   key.Binding
	NextField key.Binding
	PrevField key.Binding
	Predict   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		// Global
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "e"),
			key.WithHelp("e", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Clear search / back"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reload queue"),
		),

		// View switching
		ViewQueue: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "Queue view"),
		),
		ViewAnalytics: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "Analytics view"),
		),
		ViewLogs: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Logs view"),
		),

		// Queue filters and search
		CycleFilter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle filter"),
		),
		FilterAll: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "All"),
		),
		FilterTable: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Table"),
		),
		FilterTakeaway: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Takeaway"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search customers"),
		),

		// Queue actions
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add customer"),
		),
		Seat: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Seat"),
		),
		Complete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Done"),
		),
		Remove: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Remove"),
		),
		SMS: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Send SMS"),
		),
		QR: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "QR code"),
		),
		Insights: key.NewBinding(
			key.WithKeys("I"),
			key.WithHelp("I", "Queue insights"),
		),

		// Navigation
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "Page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "Page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),

		// Logs actions
		ToggleFollow: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("Space", "Toggle follow mode"),
		),
		CycleLogLevel: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Cycle minimum level"),
		),

		// Forms and dialogs
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "Next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "Previous field"),
		),
		Predict: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "Ask server for a wait prediction"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Navigation
		{k.Tab, k.ViewQueue, k.ViewAnalytics, k.ViewLogs},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.HalfPageDown, k.HalfPageUp},
		// Queue
		{k.CycleFilter, k.FilterAll, k.FilterTable, k.FilterTakeaway, k.Search},
		{k.Add, k.Seat, k.Complete, k.Remove, k.SMS, k.QR, k.Insights},
		// Logs
		{k.ToggleFollow, k.CycleLogLevel},
		// General
		{k.Reload, k.CycleTheme, k.Help, k.Quit},
	}
}
