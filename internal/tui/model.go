package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/provizor/provizor/internal/workflow"
)

// Step represents one workflow stage for display.
type Step struct {
	Name   string
	State  workflow.State
	Done   bool
	Active bool
	Err    bool
}

// CheckLine is one preflight check result for display.
type CheckLine struct {
	Name    string
	Message string
	Passed  bool
}

// Model is the Bubble Tea model for the provisioning dashboard.
type Model struct {
	ClusterName string
	Provider    string
	Region      string

	Steps  []Step
	Checks []CheckLine

	State     workflow.State
	FaultKind string
	FaultText string

	SpinnerFrame int
	StartTime    time.Time

	Width  int
	Height int
	Err    error
	Done   bool
}

// NewModel creates the dashboard model for one session.
func NewModel(clusterName, provider, region string) Model {
	return Model{
		ClusterName: clusterName,
		Provider:    provider,
		Region:      region,
		StartTime:   time.Now(),
		State:       workflow.StateCredentials,
		Steps: []Step{
			{Name: "Credentials", State: workflow.StateCredentials},
			{Name: "Configuration", State: workflow.StateConfigure},
			{Name: "Preflight", State: workflow.StatePreflight},
			{Name: "Quota Escalation", State: workflow.StateQuotaEscalation},
			{Name: "Provisioning", State: workflow.StateProvisioning},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case EventMsg:
		m.applyEvent(msg.Event)
		if m.State == workflow.StateDone {
			m.Done = true
			return m, tea.Quit
		}

	case ReportMsg:
		m.Checks = m.Checks[:0]
		for _, name := range sortedCheckNames(msg.Report) {
			result := msg.Report.Checks[name]
			m.Checks = append(m.Checks, CheckLine{
				Name:    name,
				Message: result.Message,
				Passed:  result.Passed(),
			})
		}

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// applyEvent folds one workflow event into the display state.
func (m *Model) applyEvent(e workflow.Event) {
	switch e.Type {
	case workflow.EventStateChanged:
		m.State = workflow.State(e.Fields["to"])
		m.markSteps()
		if m.State != workflow.StateFailed {
			m.FaultKind = ""
			m.FaultText = ""
		}

	case workflow.EventFault:
		m.FaultKind = e.Fields["kind"]
		m.FaultText = e.Message
	}
}

// markSteps walks the step list and flags everything before the current
// state as done. The escalation step only lights up when the session
// actually passes through it.
func (m *Model) markSteps() {
	current := -1
	for i := range m.Steps {
		if m.Steps[i].State == m.State {
			current = i
			break
		}
	}

	switch m.State {
	case workflow.StateDone:
		for i := range m.Steps {
			m.Steps[i].Done = true
			m.Steps[i].Active = false
		}
		return
	case workflow.StateFailed:
		for i := range m.Steps {
			if m.Steps[i].Active {
				m.Steps[i].Err = true
				m.Steps[i].Active = false
			}
		}
		return
	}

	if current < 0 {
		return
	}
	for i := range m.Steps {
		wasActive := m.Steps[i].Active
		m.Steps[i].Active = i == current
		if i < current {
			// A skipped escalation step stays unlit.
			if m.Steps[i].State == workflow.StateQuotaEscalation && !wasActive && !m.Steps[i].Done {
				continue
			}
			m.Steps[i].Done = true
			m.Steps[i].Err = false
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
