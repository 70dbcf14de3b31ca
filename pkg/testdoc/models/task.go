// Package models defines data structures for the test tracking workbook.
package models

// Verdict is the outcome a tester records for a task.
type Verdict string

const (
	// VerdictPass marks a task that behaved as expected.
	VerdictPass Verdict = "Pass"
	// VerdictFail marks a task that did not behave as expected.
	VerdictFail Verdict = "Fail"
	// VerdictHold marks a task that could not be completed yet.
	VerdictHold Verdict = "Hold"
)

// Verdicts lists the recognized verdicts in summary order.
var Verdicts = []Verdict{VerdictPass, VerdictFail, VerdictHold}

// verdictFills maps verdicts to result-cell background colors.
var verdictFills = map[Verdict]string{
	VerdictPass: "90EE90",
	VerdictFail: "FF6347",
	VerdictHold: "FFB6C1",
}

// FillWhite is the fill used for unrecognized verdicts.
const FillWhite = "FFFFFF"

// Valid reports whether v is one of the recognized verdicts.
func (v Verdict) Valid() bool {
	_, ok := verdictFills[v]
	return ok
}

// FillColor returns the RGB hex fill for the verdict. Unknown verdicts are white.
func (v Verdict) FillColor() string {
	if c, ok := verdictFills[v]; ok {
		return c
	}
	return FillWhite
}

// TaskRecord is one row of the master sheet.
type TaskRecord struct {
	// Row is the 1-based worksheet row.
	Row int `json:"row"`
	// RawID is the Task ID cell as written in the sheet.
	RawID string `json:"raw_id"`
	// ID is the normalized identifier.
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	Navigation string `json:"navigation,omitempty"`
	Parameters string `json:"parameters,omitempty"`
	Tester     string `json:"tester,omitempty"`
	// Result is empty for untested tasks.
	Result    string `json:"result,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Completed reports whether the task has a recorded result.
func (t TaskRecord) Completed() bool {
	return t.Result != ""
}
