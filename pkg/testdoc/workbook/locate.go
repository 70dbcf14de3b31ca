package workbook

import (
	"fmt"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/taskid"
)

// Header labels that open a detail block in column A.
const (
	LabelTask    = "Task"
	LabelSubtask = "Subtask"
)

// blockSeparator is the number of blank rows left between blocks.
const blockSeparator = 2

// Locator finds the insertion point for a task's next write.
type Locator interface {
	Locate(wb *Workbook, rawID string) (models.BlockLocation, error)
}

// ScanLocator finds blocks by scanning column A/B for the block header.
// Each lookup is O(rows) in the target sheet.
type ScanLocator struct{}

// Locate derives the family sheet for rawID and finds the block whose header
// is ("Task"|"Subtask", "Task <rawID>"). A missing sheet is created and the
// block starts at row 1. A missing block starts two blank rows below the
// sheet's last used row. An existing block is extended after its last
// labeled row.
func (ScanLocator) Locate(wb *Workbook, rawID string) (models.BlockLocation, error) {
	loc := models.BlockLocation{
		Sheet:  taskid.SheetName(rawID),
		Label:  taskid.HeaderLabel(rawID),
		Header: taskid.HeaderText(rawID),
	}

	if !wb.HasSheet(loc.Sheet) {
		if _, err := wb.f.NewSheet(loc.Sheet); err != nil {
			return loc, fmt.Errorf("create sheet %q: %w", loc.Sheet, err)
		}
		loc.Row = 1
		loc.NewSheet = true
		loc.NewBlock = true
		return loc, nil
	}

	rows, err := wb.f.GetRows(loc.Sheet)
	if err != nil {
		return loc, fmt.Errorf("read sheet %q: %w", loc.Sheet, err)
	}

	for i, row := range rows {
		if cellAt(row, 0) == loc.Label && cellAt(row, 1) == loc.Header {
			loc.HeaderRow = i + 1
			break
		}
	}

	if loc.HeaderRow == 0 {
		loc.NewBlock = true
		loc.Row = 1
		if last := lastUsedRow(rows); last > 0 {
			loc.Row = last + blockSeparator + 1
		}
		return loc, nil
	}

	lastLabeled := loc.HeaderRow
	for r := loc.HeaderRow + 1; r <= len(rows); r++ {
		label := cellAt(rows[r-1], 0)
		if isHeaderLabel(label) {
			loc.NextBlockRow = r
			break
		}
		if label != "" {
			lastLabeled = r
		}
	}
	loc.Row = lastLabeled + 1

	return loc, nil
}

func isHeaderLabel(s string) bool {
	return s == LabelTask || s == LabelSubtask
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

func lastUsedRow(rows [][]string) int {
	for r := len(rows); r > 0; r-- {
		for _, cell := range rows[r-1] {
			if cell != "" {
				return r
			}
		}
	}
	return 0
}
