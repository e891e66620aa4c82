// Package tui provides a Bubble Tea-based terminal UI for watching a
// provisioning session.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/provizor/provizor/internal/preflight"
	"github.com/provizor/provizor/internal/workflow"
)

// EventMsg wraps one workflow event for the UI.
type EventMsg struct{ Event workflow.Event }

// ReportMsg carries a finished preflight report.
type ReportMsg struct{ Report *preflight.Report }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the session reached its terminal state.
type DoneMsg struct{}

// Observer adapts a running program into a workflow observer, so session
// events stream into the UI from the background goroutine driving the
// session.
func Observer(p *tea.Program) workflow.ObserverFunc {
	return func(e workflow.Event) {
		p.Send(EventMsg{Event: e})
	}
}

// ReportSink adapts a running program into a preflight report sink, so
// finished reports render as per-check lines alongside the event stream.
func ReportSink(p *tea.Program) func(*preflight.Report) {
	return func(r *preflight.Report) {
		p.Send(ReportMsg{Report: r})
	}
}
