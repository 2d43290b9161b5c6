// Package logtail reads the tail of maitre's own log file for the Logs view.
//
// Read returns the last N lines of a file in one pass using a ring buffer, so
// memory stays O(N) however large the log grows. A missing file is not an
// error; it yields no lines.
//
// Parse turns a slog JSON line into a Record (time, level, message and
// sorted attributes). Lines that are not JSON are kept as plain messages so
// stray output is still visible. AtLeast implements the view's level filter.
package logtail
