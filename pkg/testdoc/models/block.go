package models

// BlockLocation is where a submission will be written inside a detail sheet.
type BlockLocation struct {
	// Sheet is the per-family sheet name ("Task ID 3").
	Sheet string `json:"sheet"`
	// Row is the 1-based row the next write starts at.
	Row int `json:"row"`
	// NewSheet is true when the sheet did not exist before the lookup.
	NewSheet bool `json:"new_sheet"`
	// NewBlock is true when header rows must be written first.
	NewBlock bool `json:"new_block"`
	// HeaderRow is the row of the matching header, or 0 for a new block.
	HeaderRow int `json:"header_row,omitempty"`
	// NextBlockRow is the first row of the following block, or 0 if none.
	NextBlockRow int `json:"next_block_row,omitempty"`
	// Label is "Task" or "Subtask".
	Label string `json:"label"`
	// Header is the header text ("Task 3.1").
	Header string `json:"header"`
}

// BlockWrite reports what a submission wrote.
type BlockWrite struct {
	Sheet    string `json:"sheet"`
	StartRow int    `json:"start_row"`
	// ResultRow is the row holding the verdict.
	ResultRow int `json:"result_row"`
	// EndRow is the last row written (result or comment row).
	EndRow int `json:"end_row"`
	// NextRow is the row after the two-row separator.
	NextRow int `json:"next_row"`
	// HeaderRows is 4 for a new block, 0 otherwise.
	HeaderRows int `json:"header_rows"`
	Images     int `json:"images"`
	// InsertedRows counts rows shifted down to make room in an existing block.
	InsertedRows int    `json:"inserted_rows,omitempty"`
	MasterRow    int    `json:"master_row"`
	Timestamp    string `json:"timestamp"`
}
