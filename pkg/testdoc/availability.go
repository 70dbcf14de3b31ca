package testdoc

import (
	"sort"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/parser"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/taskid"
)

// TaskState is whether a tester may pick a task.
type TaskState string

const (
	StateCompleted TaskState = "completed"
	StateAvailable TaskState = "available"
	StateLocked    TaskState = "locked"
)

// TaskStatus is a master record with its availability.
type TaskStatus struct {
	models.TaskRecord
	State TaskState `json:"state"`
}

// Availability lists the tasks assigned to tester in identifier order. Tasks
// are unlocked one at a time: a task is available when it is the first one
// or the task before it is completed. A task counts as completed when any
// master row with the same identifier has a result. An empty tester lists
// every task.
func Availability(table *parser.Table, tester string) []TaskStatus {
	completed := make(map[string]bool)
	for _, rec := range table.Records() {
		if rec.Completed() {
			completed[rec.ID] = true
		}
	}

	seen := make(map[string]bool)
	var tasks []models.TaskRecord
	for _, rec := range table.Records() {
		if rec.ID == "" || seen[rec.ID] {
			continue
		}
		if tester != "" && rec.Tester != tester {
			continue
		}
		seen[rec.ID] = true
		tasks = append(tasks, rec)
	}
	sort.SliceStable(tasks, func(i, j int) bool { return taskid.Less(tasks[i].ID, tasks[j].ID) })

	out := make([]TaskStatus, len(tasks))
	for i, rec := range tasks {
		state := StateLocked
		switch {
		case completed[rec.ID]:
			state = StateCompleted
		case i == 0 || completed[tasks[i-1].ID]:
			state = StateAvailable
		}
		out[i] = TaskStatus{TaskRecord: rec, State: state}
	}
	return out
}

// Testers returns the distinct tester names in the master sheet, sorted.
func Testers(table *parser.Table) []string {
	set := make(map[string]bool)
	for _, rec := range table.Records() {
		if rec.Tester != "" {
			set[rec.Tester] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
