package models

// WorkbookReport represents workbook-level container with per-sheet drawings.
type WorkbookReport struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets maps sheet name to SheetReport.
	Sheets map[string]SheetReport `json:"sheets"`
	// Summary is recomputed from the master sheet.
	Summary *Summary `json:"summary,omitempty"`
}
