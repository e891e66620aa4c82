package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/provizor/provizor/internal/preflight"
	"github.com/provizor/provizor/internal/workflow"
)

// Run wraps a session-driving function with the dashboard. driveFn receives
// an observer and a preflight report sink wired into the UI and runs the
// workflow to completion in a background goroutine; the UI quits when
// driveFn returns.
func Run(ctx context.Context, clusterName, provider, region string, driveFn func(workflow.Observer, func(*preflight.Report)) error) error {
	m := NewModel(clusterName, provider, region)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		if err := driveFn(Observer(p), ReportSink(p)); err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
