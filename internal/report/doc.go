// Package report renders synchronization progress and pass reports for the
// console.
//
// A [Console] is used as the progress observer of a pass: it prints one line
// per finished candidate while the pass runs and a summary once it ends.
// Styling uses lipgloss and degrades to plain text when the output is not a
// terminal.
package report
