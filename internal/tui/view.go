package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/provizor/provizor/internal/preflight"
	"github.com/provizor/provizor/internal/workflow"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderSteps(&b, m)
	if len(m.Checks) > 0 {
		renderChecks(&b, m)
	}
	if m.FaultText != "" {
		renderFault(&b, m)
	}
	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := fmt.Sprintf("provizor: %s", m.ClusterName)
	if m.Region != "" {
		title += fmt.Sprintf(" (%s/%s)", m.Provider, m.Region)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Done:
		status += readyStyle.Render("Running")
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.State == workflow.StateFailed:
		status += failedStyle.Render("Failed")
	default:
		status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(string(m.State))
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderSteps(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Workflow"))
	b.WriteString("\n")

	for _, step := range m.Steps {
		var icon string
		var style styleFunc
		switch {
		case step.Err:
			icon = crossMark
			style = sf(failedStyle)
		case step.Done:
			icon = checkMark
			style = sf(readyStyle)
		case step.Active:
			icon = currentSpinner(m.SpinnerFrame)
			style = sf(activeStyle)
		default:
			icon = pending
			style = sf(dimStyle)
		}
		fmt.Fprintf(b, "    %s %s\n", style(icon), style(step.Name))
	}
}

func renderChecks(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Preflight"))
	b.WriteString("\n")

	for _, check := range m.Checks {
		if check.Passed {
			fmt.Fprintf(b, "    %s %s\n", readyStyle.Render(checkMark), check.Name)
			continue
		}
		fmt.Fprintf(b, "    %s %s %s\n",
			failedStyle.Render(crossMark), check.Name, dimStyle.Render(check.Message))
	}
}

func renderFault(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Fault"))
	b.WriteString("\n")
	fmt.Fprintf(b, "    %s %s\n",
		failedStyle.Render("["+m.FaultKind+"]"), m.FaultText)
}

func renderFooter(b *strings.Builder, m Model) {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	b.WriteString(footerStyle.Render(fmt.Sprintf("  elapsed %s | q to quit", elapsed)))
	b.WriteString("\n")
}

// sortedCheckNames orders a report's checks for stable rendering.
func sortedCheckNames(report *preflight.Report) []string {
	names := make([]string, 0, len(report.Checks))
	for name := range report.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
