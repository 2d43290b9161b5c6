// Package ui provides the terminal front end for the maitre host stand.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model holds view state only; queue data
// lives in a state.Store owned by a queuesync.Controller. Each tick the model
// copies a fresh state.Snapshot out of the store, and key presses become
// tea.Cmds that call the controller in the background. When a call finishes,
// the model re-reads the store instead of applying results itself, so the
// screen always shows the last reload.
//
// # Package Structure
//
//   - app.go: Model, Update/View, key routing, and Run
//   - queue.go: queue table and detail pane
//   - header.go: status bar, command bar, and connection error classification
//   - form.go: add-customer modal with local and server wait estimates
//   - modal.go: Modal interface, confirm and info dialogs (QR, insights)
//   - analytics.go: daily analytics with bar charts
//   - logs.go: tail of maitre's own JSON log
//   - notify.go: ProgramNotifier and toast handling
//   - plain.go: non-interactive table output
//   - theme.go, style_helpers.go, keys.go, help.go: presentation plumbing
//
// # Notices
//
// The controller reports outcomes through a queuesync.Notifier. A
// ProgramNotifier bound by Run forwards them to the program as messages, and
// they are shown on the command bar for a few seconds.
//
// # Keyboard Shortcuts
//
// Navigation:
//   - tab/shift+tab: Cycle views
//   - q, A, l: Queue, Analytics, Logs
//   - j/k, g/G: Move, jump to top/bottom
//
// Queue:
//   - f, 1/2/3: Cycle filter or pick All/Table/Takeaway
//   - /: Search; Enter runs it, Esc clears it
//   - a: Add customer
//   - s, d, x: Seat, done, remove
//   - m, c, I: SMS, QR code, insights
//
// General:
//   - r: Reload
//   - T: Cycle theme
//   - h/?: Help
//   - e/ctrl+c: Quit
package ui
