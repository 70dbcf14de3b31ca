// Package testdoc records test results into a tracking workbook and keeps
// its Summary sheet and remote copy up to date.
package testdoc

import (
	"strings"
	"time"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/workbook"
)

// ConflictPolicy decides what happens when the remote copy changed since it
// was fetched.
type ConflictPolicy string

const (
	// ConflictFail reports the conflict and leaves the remote copy untouched.
	ConflictFail ConflictPolicy = "fail"
	// ConflictRetry re-fetches the remote copy, re-applies the submission to
	// it and pushes again.
	ConflictRetry ConflictPolicy = "retry"
)

// Defaults used by DefaultOptions.
const (
	DefaultTimeZone        = "Asia/Kolkata"
	DefaultTimestampLayout = "2006-01-02 15:04:05"
	DefaultCommitMessage   = "Update by {tester} on Task {task}"
	DefaultMaxAttempts     = 3
)

// Options configures submission behavior.
type Options struct {
	// MasterSheet is the sheet holding one row per task.
	MasterSheet string
	// Location is the zone submission timestamps are rendered in.
	Location *time.Location
	// TimestampLayout is the Go time layout for timestamps.
	TimestampLayout string
	// CommitMessage is the remote commit message. {tester} and {task} are
	// replaced with the submission's tester and raw task ID.
	CommitMessage string
	// Conflict selects the stale-SHA policy.
	Conflict ConflictPolicy
	// MaxAttempts bounds pushes under ConflictRetry.
	MaxAttempts int
}

// DefaultOptions returns default submission options.
func DefaultOptions() Options {
	return Options{
		MasterSheet:     workbook.DefaultMasterSheet,
		Location:        LoadLocation(DefaultTimeZone),
		TimestampLayout: DefaultTimestampLayout,
		CommitMessage:   DefaultCommitMessage,
		Conflict:        ConflictFail,
		MaxAttempts:     DefaultMaxAttempts,
	}
}

// LoadLocation resolves a zone name. Asia/Kolkata falls back to a fixed
// +05:30 zone when no tz database is available; other unknown names fall back
// to UTC.
func LoadLocation(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	if name == DefaultTimeZone {
		return time.FixedZone("IST", 5*3600+30*60)
	}
	return time.UTC
}

// Timestamp formats t in the configured zone and layout.
func (o Options) Timestamp(t time.Time) string {
	loc := o.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := o.TimestampLayout
	if layout == "" {
		layout = DefaultTimestampLayout
	}
	return t.In(loc).Format(layout)
}

// Message renders the commit message for a submission.
func (o Options) Message(tester, rawTaskID string) string {
	tmpl := o.CommitMessage
	if tmpl == "" {
		tmpl = DefaultCommitMessage
	}
	return strings.NewReplacer("{tester}", tester, "{task}", rawTaskID).Replace(tmpl)
}

// ShouldRetry reports whether a conflicting push on the given attempt should
// be retried.
func (o Options) ShouldRetry(attempt int) bool {
	if o.Conflict != ConflictRetry {
		return false
	}
	max := o.MaxAttempts
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	return attempt < max
}
