package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the detail pane is hidden.
	LayoutCompactWidth = 100

	// LayoutPhoneWidth is the minimum table pane width to show the phone column.
	LayoutPhoneWidth = 80

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogTailLines is the number of log lines read from the end of the log file.
	LogTailLines = 500
)

// Timing constants.
const (
	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a notification stays on the command bar.
	ToastDuration = 4 * time.Second

	// maxToasts bounds the pending notification stack.
	maxToasts = 3
)
