package testdoc

import (
	"errors"
	"fmt"
)

// ErrTaskNotFound indicates no master row matches the submitted task ID.
var ErrTaskNotFound = errors.New("task not found in master sheet")

// ErrInvalidVerdict indicates a verdict outside Pass/Fail/Hold.
var ErrInvalidVerdict = errors.New("invalid verdict")

// ErrEmptyTaskID indicates a submission without a task ID.
var ErrEmptyTaskID = errors.New("empty task id")

// ErrEmptyTester indicates a submission without a tester name.
var ErrEmptyTester = errors.New("empty tester name")

// ErrSyncFailed indicates the workbook was updated locally but could not be
// pushed to the remote store.
var ErrSyncFailed = errors.New("remote sync failed")

// ErrWorkbookNotFound indicates there is no workbook to load.
var ErrWorkbookNotFound = errors.New("workbook not found")

// Submission stages reported by SubmissionError.
const (
	StageValidate  = "validate"
	StageLocate    = "locate"
	StageWrite     = "write"
	StageMirror    = "mirror"
	StageSummary   = "summary"
	StageSerialize = "serialize"
	StageSync      = "sync"
)

// SubmissionError represents an error during one stage of a submission.
type SubmissionError struct {
	TaskID string
	Stage  string
	Err    error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission error for task %q (%s): %v", e.TaskID, e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a new SubmissionError.
func NewSubmissionError(taskID, stage string, err error) *SubmissionError {
	return &SubmissionError{
		TaskID: taskID,
		Stage:  stage,
		Err:    err,
	}
}
