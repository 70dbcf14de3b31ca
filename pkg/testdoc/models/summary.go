package models

// DateCount is one row of the completion-over-time table.
type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// TesterCount is one row of the per-tester table.
type TesterCount struct {
	Tester string `json:"tester"`
	Count  int    `json:"count"`
}

// Summary is the aggregate written to the Summary sheet. It is derived from
// the master sheet on every rebuild and never stored independently.
type Summary struct {
	Total    int    `json:"total"`
	Pass     int    `json:"pass"`
	Fail     int    `json:"fail"`
	Hold     int    `json:"hold"`
	PassRate string `json:"pass_rate"`
	// Completed counts rows with any non-empty result.
	Completed   int    `json:"completed"`
	ProgressBar string `json:"progress_bar"`
	// Overall is the "x / y tasks completed" line.
	Overall     string        `json:"overall"`
	LastTaskID  string        `json:"last_task_id,omitempty"`
	LastTester  string        `json:"last_tester,omitempty"`
	LastUpdated string        `json:"last_updated,omitempty"`
	ByDate      []DateCount   `json:"by_date,omitempty"`
	ByTester    []TesterCount `json:"by_tester,omitempty"`
}
