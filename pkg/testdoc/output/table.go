package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle  = lipgloss.NewStyle().Bold(true)

	stateStyles = map[string]lipgloss.Style{
		string(testdoc.StateCompleted): lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		string(testdoc.StateAvailable): lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
		string(testdoc.StateLocked):    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	// Result colors follow the workbook fills.
	verdictStyles = map[string]lipgloss.Style{
		string(models.VerdictPass): lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		string(models.VerdictFail): lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6347")),
		string(models.VerdictHold): lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB6C1")),
	}
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	labelStyle = lipgloss.NewStyle()
	stateStyles = map[string]lipgloss.Style{}
	verdictStyles = map[string]lipgloss.Style{}
}

// TaskTable renders tasks with their availability.
func TaskTable(w io.Writer, tasks []testdoc.TaskStatus) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, dimStyle.Render("No tasks found."))
		return
	}

	const pad = 2
	idW, stateW, nameW, testerW, resultW := 4, 7, 6, 8, 8
	for _, t := range tasks {
		idW = max(idW, len(t.ID)+pad)
		stateW = max(stateW, len(t.State)+pad)
		nameW = max(nameW, min(len(t.Name)+pad, 40))
		testerW = max(testerW, len(t.Tester)+pad)
		resultW = max(resultW, len(t.Result)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", stateW, "STATE", nameW, "TASK", testerW, "TESTER", resultW, "RESULT", "UPDATED")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		name := t.Name
		const maxName = 38
		if len(name) > maxName {
			name = name[:maxName-3] + "..."
		}
		row := fmt.Sprintf("%-*s %s %s %s %s %s",
			idW, t.ID,
			padRight(styledValue(string(t.State), stateStyles), stateW),
			padRight(name, nameW),
			padRight(stringOrDash(t.Tester), testerW),
			padRight(styledValue(stringOrDash(t.Result), verdictStyles), resultW),
			stringOrDash(t.Timestamp))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// SummaryText renders the summary as labeled lines followed by the date and
// tester breakdowns.
func SummaryText(w io.Writer, s models.Summary) {
	fields := []struct {
		label string
		value string
	}{
		{"Total Tasks", fmt.Sprint(s.Total)},
		{"Pass", styledValue(string(models.VerdictPass), verdictStyles) + " " + fmt.Sprint(s.Pass)},
		{"Fail", styledValue(string(models.VerdictFail), verdictStyles) + " " + fmt.Sprint(s.Fail)},
		{"Hold", styledValue(string(models.VerdictHold), verdictStyles) + " " + fmt.Sprint(s.Hold)},
		{"Pass Rate", s.PassRate},
		{"Progress", s.ProgressBar},
		{"Overall", s.Overall},
		{"Last Task", stringOrDash(s.LastTaskID)},
		{"Last Tester", stringOrDash(s.LastTester)},
		{"Last Update", stringOrDash(s.LastUpdated)},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%s %s\n", padRight(labelStyle.Render(f.label+":"), 14), f.value)
	}

	if len(s.ByDate) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("DATE         COUNT"))
		for _, d := range s.ByDate {
			fmt.Fprintf(w, "%-12s %5d\n", d.Date, d.Count)
		}
	}
	if len(s.ByTester) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("TESTER               COUNT"))
		for _, tc := range s.ByTester {
			fmt.Fprintf(w, "%-20s %5d\n", tc.Tester, tc.Count)
		}
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

// padRight pads s to a visible width, ignoring ANSI escape codes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
