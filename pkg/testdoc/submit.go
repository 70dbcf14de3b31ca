package testdoc

import (
	"fmt"
	"strings"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/taskid"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/workbook"
)

// Submission is one tester's result for one task.
type Submission struct {
	// TaskID is the identifier as picked by the tester ("3", 3, "3.0", "3.1").
	TaskID      interface{}
	Tester      string
	Verdict     models.Verdict
	Comment     string
	Screenshots [][]byte
}

// Outcome reports what Apply changed.
type Outcome struct {
	// Task is the master row after mirroring.
	Task    models.TaskRecord `json:"task"`
	Block   models.BlockWrite `json:"block"`
	Summary models.Summary    `json:"summary"`
}

// ParseVerdict maps user input onto a recognized verdict, ignoring case and
// surrounding space.
func ParseVerdict(s string) (models.Verdict, error) {
	s = strings.TrimSpace(s)
	for _, v := range models.Verdicts {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: %q (want one of Pass, Fail, Hold)", ErrInvalidVerdict, s)
}

// Apply merges a submission into wb: it resolves the master row, writes a
// detail block, mirrors the result into the master sheet and rebuilds the
// Summary sheet. timestamp is recorded verbatim in every place it appears.
//
// Screenshots are decoded and thumbnailed and the master row is resolved
// before anything is written, so a rejected submission leaves wb untouched.
// Verdicts outside Pass/Fail/Hold are written with a white fill.
func Apply(wb *workbook.Workbook, sub Submission, timestamp string) (*Outcome, error) {
	id := taskid.Normalize(sub.TaskID)
	if id == "" {
		return nil, NewSubmissionError("", StageValidate, ErrEmptyTaskID)
	}
	tester := strings.TrimSpace(sub.Tester)
	if tester == "" {
		return nil, NewSubmissionError(id, StageValidate, ErrEmptyTester)
	}
	if strings.TrimSpace(string(sub.Verdict)) == "" {
		return nil, NewSubmissionError(id, StageValidate, fmt.Errorf("%w: empty", ErrInvalidVerdict))
	}

	thumbs := make([][]byte, 0, len(sub.Screenshots))
	for i, img := range sub.Screenshots {
		png, err := workbook.Thumbnail(img)
		if err != nil {
			return nil, NewSubmissionError(id, StageValidate, fmt.Errorf("screenshot %d: %w", i+1, err))
		}
		thumbs = append(thumbs, png)
	}

	table, err := wb.Master()
	if err != nil {
		return nil, NewSubmissionError(id, StageLocate, err)
	}
	rec, ok := table.FindTask(id)
	if !ok {
		return nil, NewSubmissionError(id, StageLocate, fmt.Errorf("%w: %s", ErrTaskNotFound, id))
	}

	loc, err := wb.Locate(rec.RawID)
	if err != nil {
		return nil, NewSubmissionError(id, StageLocate, err)
	}

	block, err := wb.WriteBlock(loc, workbook.Entry{
		Record:      rec,
		Tester:      tester,
		Verdict:     sub.Verdict,
		Comment:     strings.TrimSpace(sub.Comment),
		Screenshots: thumbs,
		Timestamp:   timestamp,
	})
	if err != nil {
		return nil, NewSubmissionError(id, StageWrite, err)
	}
	block.MasterRow = rec.Row

	if err := wb.MirrorResult(rec, tester, sub.Verdict, timestamp); err != nil {
		return nil, NewSubmissionError(id, StageMirror, err)
	}
	rec.Tester = tester
	rec.Result = string(sub.Verdict)
	rec.Timestamp = timestamp

	summary, err := wb.RebuildSummary(workbook.LastUpdate{TaskID: rec.RawID, Tester: tester, At: timestamp})
	if err != nil {
		return nil, NewSubmissionError(id, StageSummary, err)
	}

	return &Outcome{Task: rec, Block: block, Summary: summary}, nil
}
