package parser

import (
	"fmt"
	"strings"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/taskid"
	"github.com/xuri/excelize/v2"
)

// Master sheet column headers.
const (
	ColTaskID     = "Task ID"
	ColTester     = "Tester Name"
	ColTaskName   = "Task Name"
	ColNavigation = "Navigation"
	ColParameters = "Parameters"
	ColResult     = "Test Result"
	ColTimestamp  = "Timestamp"
)

// Table is a sheet read as a header row plus data rows.
type Table struct {
	// Sheet is the source sheet name.
	Sheet string
	// Headers holds trimmed header cells; blanks become "Column_<i>".
	Headers []string
	// Rows holds data rows padded to len(Headers). Row i lives on
	// worksheet row i+2.
	Rows [][]string

	index map[string]int
}

// ReadTable reads a sheet using its first row as column headers.
// Trailing empty rows are dropped.
func ReadTable(f *excelize.File, sheetName string) (*Table, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	last := len(rows) - 1
	for last >= 0 && isBlankRow(rows[last]) {
		last--
	}
	rows = rows[:last+1]

	t := &Table{Sheet: sheetName, index: make(map[string]int)}
	if len(rows) == 0 {
		return t, nil
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	t.Headers = make([]string, width)
	for i := 0; i < width; i++ {
		var h string
		if i < len(rows[0]) {
			h = strings.TrimSpace(rows[0][i])
		}
		if h == "" {
			h = fmt.Sprintf("Column_%d", i)
		}
		t.Headers[i] = h
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}

	for _, row := range rows[1:] {
		padded := make([]string, width)
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}

	return t, nil
}

// isBlankRow reports whether every cell in row is empty.
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the 0-based index of a header, or -1.
func (t *Table) Column(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// Has reports whether the table has a column with the given header.
func (t *Table) Has(name string) bool {
	return t.Column(name) >= 0
}

// Value returns the trimmed cell of data row i under header name, or "".
func (t *Table) Value(i int, name string) string {
	col := t.Column(name)
	if col < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return strings.TrimSpace(t.Rows[i][col])
}

// Records converts the table rows into task records.
func (t *Table) Records() []models.TaskRecord {
	records := make([]models.TaskRecord, 0, len(t.Rows))
	for i := range t.Rows {
		records = append(records, t.record(i))
	}
	return records
}

func (t *Table) record(i int) models.TaskRecord {
	raw := t.Value(i, ColTaskID)
	return models.TaskRecord{
		Row:        i + 2,
		RawID:      raw,
		ID:         taskid.Normalize(raw),
		Name:       t.Value(i, ColTaskName),
		Navigation: t.Value(i, ColNavigation),
		Parameters: t.Value(i, ColParameters),
		Tester:     t.Value(i, ColTester),
		Result:     t.Value(i, ColResult),
		Timestamp:  t.Value(i, ColTimestamp),
	}
}

// FindTask returns the first record whose normalized Task ID equals the
// normalized form of id.
func (t *Table) FindTask(id string) (models.TaskRecord, bool) {
	want := taskid.Normalize(id)
	if want == "" {
		return models.TaskRecord{}, false
	}
	for i := range t.Rows {
		if taskid.Normalize(t.Value(i, ColTaskID)) == want {
			return t.record(i), true
		}
	}
	return models.TaskRecord{}, false
}
