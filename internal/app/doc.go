// Package app provides the orchestration layer for maitre.
//
// # Overview
//
// This package is the composition root. It loads configuration, opens the
// log file, installs tracing, and builds the queue client, store, and
// controller that every entry point shares.
//
// # Entry Points
//
//   - Run: interactive TUI with a background PeriodicRefresh
//   - RunOnce: one reload printed as a plain table, for pipes and cron
//   - Status: customer-facing lookup of one queue number
//
// # Startup
//
//	┌──────────────┐
//	│   open()     │
//	└──────┬───────┘
//	       ├─────> config.Load()           ~/.config/maitre/config.toml
//	       ├─────> logging.OpenFile()      JSON log tailed by the Logs view
//	       ├─────> telemetry.Setup()       OTLP tracing when configured
//	       ├─────> api.NewClient()         HTTP client with otelhttp transport
//	       ├─────> prefs.Load()            saved theme and filter
//	       └─────> queuesync.New()         controller over state.Store
//
// Run then performs one Reload so the first frame has data, starts
// Controller.PeriodicRefresh at the configured poll interval, and hands the
// controller to ui.Run until the user quits or the context is cancelled.
//
// # Error Handling
//
// Fatal errors (returned):
//   - Config file unreadable or invalid
//   - API URL that cannot be parsed
//
// Recoverable errors:
//   - Log file cannot be opened: logging is disabled with a warning
//   - Saved filter is unknown: the All filter is used
//   - Reload failures: the store records them and the UI shows offline state
//
// RunOnce still prints the (empty) table when its reload fails and then
// returns the error, so scripts get a non-zero exit.
package app
