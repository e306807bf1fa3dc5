// Package ui renders upnpc diagnostics on the terminal.
//
// Device lines are plain text on stdout and never pass through this
// package. Everything else goes to stderr:
//
//   - Printer: failure and success boxes, format string errors with a
//     caret under the offending character, and the closing summary line
//   - ScanProgress: a Bubble Tea progress bar covering the search window
//
// A Printer bound to a terminal renders with Lipgloss; bound to a pipe or
// file it writes the same information as plain lines. The progress bar is
// only started by the CLI when stderr is a terminal and logging is off,
// since log lines would tear the bar apart.
package ui
