package workbook

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/parser"
	"github.com/xuri/excelize/v2"
)

// SummarySheet is the derived dashboard sheet.
const SummarySheet = "Summary"

// Summary sheet layout. Chart ranges are computed from these rows, so a row
// constant and its chart reference always move together.
const (
	summaryFirstRow   = 1
	lastTaskRow       = 6
	progressRow       = 12
	dateHeaderRow     = 19
	testerHeaderRow   = 39
	chartColumn       = "D"
	pieAnchorRow      = 2
	lineAnchorRow     = 18
	barAnchorOffset   = 4 // bar chart sits this many rows above its table
	progressBarLength = 20
	progressFill      = "ADD8E6"
)

// Chart titles.
const (
	PieChartTitle  = "Test Result Summary"
	LineChartTitle = "Task Completion Over Time"
	BarChartTitle  = "Tasks Completed Per Tester"
)

// LastUpdate identifies the submission that triggered a rebuild.
type LastUpdate struct {
	TaskID string
	Tester string
	At     string
}

// ReadLastUpdate reads the last-updated rows back from an existing Summary
// sheet. It returns the zero value when the sheet is missing.
func ReadLastUpdate(f *excelize.File) LastUpdate {
	if idx, err := f.GetSheetIndex(SummarySheet); err != nil || idx < 0 {
		return LastUpdate{}
	}
	get := func(row int) string {
		v, _ := f.GetCellValue(SummarySheet, cellName(2, row))
		return v
	}
	return LastUpdate{TaskID: get(lastTaskRow), Tester: get(lastTaskRow + 1), At: get(lastTaskRow + 2)}
}

// timestampLayouts are the layouts accepted for master-sheet timestamps.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"01-02-06 15:04",
	"1/2/06 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006",
}

// ParseTimestamp parses a master-sheet timestamp cell. Numeric cells are
// treated as Excel serial dates.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Summarize computes the aggregate for a master table. It is a pure function
// of the table contents.
func Summarize(table *parser.Table, last LastUpdate) models.Summary {
	s := models.Summary{
		Total:       table.Len(),
		LastTaskID:  last.TaskID,
		LastTester:  last.Tester,
		LastUpdated: last.At,
	}

	if table.Has(parser.ColResult) {
		for i := 0; i < table.Len(); i++ {
			switch models.Verdict(table.Value(i, parser.ColResult)) {
			case models.VerdictPass:
				s.Pass++
			case models.VerdictFail:
				s.Fail++
			case models.VerdictHold:
				s.Hold++
			}
			if table.Value(i, parser.ColResult) != "" {
				s.Completed++
			}
		}
	}

	s.PassRate = "0%"
	if s.Total > 0 {
		s.PassRate = fmt.Sprintf("%.2f%%", float64(s.Pass)/float64(s.Total)*100)
	}
	s.ProgressBar = ProgressBar(s.Pass+s.Fail+s.Hold, s.Total)
	s.Overall = OverallLine(s.Completed, s.Total)

	if table.Has(parser.ColTimestamp) {
		s.ByDate = countByDate(table)
	}
	if table.Has(parser.ColTester) && table.Has(parser.ColResult) {
		s.ByTester = countByTester(table)
	}

	return s
}

// ProgressBar renders done/total as a 20-cell bar and a whole percentage.
func ProgressBar(done, total int) string {
	filled, pct := 0, 0
	if total > 0 {
		filled = done * progressBarLength / total
		pct = done * 100 / total
	}
	if filled > progressBarLength {
		filled = progressBarLength
	}
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("█", filled), strings.Repeat("-", progressBarLength-filled), pct)
}

// OverallLine renders the overall completion sentence.
func OverallLine(done, total int) string {
	pct := 0
	if total > 0 {
		pct = done * 100 / total
	}
	return fmt.Sprintf("%d / %d tasks completed (Overall Completion - %d%%)", done, total, pct)
}

func countByDate(table *parser.Table) []models.DateCount {
	counts := make(map[string]int)
	for i := 0; i < table.Len(); i++ {
		t, ok := ParseTimestamp(table.Value(i, parser.ColTimestamp))
		if !ok {
			continue
		}
		counts[t.Format("2006-01-02")]++
	}

	out := make([]models.DateCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, models.DateCount{Date: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func countByTester(table *parser.Table) []models.TesterCount {
	counts := make(map[string]int)
	for i := 0; i < table.Len(); i++ {
		if table.Value(i, parser.ColResult) == "" {
			continue
		}
		if name := table.Value(i, parser.ColTester); name != "" {
			counts[name]++
		}
	}

	out := make([]models.TesterCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.TesterCount{Tester: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tester < out[j].Tester
	})
	return out
}

// RebuildSummary recomputes the Summary sheet from the master sheet. Prior
// charts and derived tables are removed before the new ones are written.
func (wb *Workbook) RebuildSummary(last LastUpdate) (models.Summary, error) {
	table, err := wb.Master()
	if err != nil {
		return models.Summary{}, fmt.Errorf("read master sheet: %w", err)
	}
	s := Summarize(table, last)

	if !wb.HasSheet(SummarySheet) {
		if _, err := wb.f.NewSheet(SummarySheet); err != nil {
			return s, fmt.Errorf("create summary sheet: %w", err)
		}
	}
	if err := wb.clearSummary(); err != nil {
		return s, err
	}

	pairs := []struct {
		label string
		value interface{}
	}{
		{"Total Tasks", s.Total},
		{"Pass", s.Pass},
		{"Fail", s.Fail},
		{"Hold", s.Hold},
		{"Pass Rate", s.PassRate},
		{"Last Updated Task ID", s.LastTaskID},
		{"Last Updated By", s.LastTester},
		{"Last Updated On", s.LastUpdated},
	}
	for i, p := range pairs {
		row := summaryFirstRow + i
		if err := wb.setStyled(SummarySheet, cellName(1, row), p.label, true, ""); err != nil {
			return s, err
		}
		if err := wb.f.SetCellValue(SummarySheet, cellName(2, row), p.value); err != nil {
			return s, err
		}
	}

	if err := wb.f.AddChart(SummarySheet, chartCell(pieAnchorRow), pieChart()); err != nil {
		return s, fmt.Errorf("add pie chart: %w", err)
	}

	if err := wb.f.SetCellValue(SummarySheet, cellName(1, progressRow), "Progress"); err != nil {
		return s, err
	}
	if err := wb.setStyled(SummarySheet, cellName(2, progressRow), s.ProgressBar, false, progressFill); err != nil {
		return s, err
	}

	testerRow := testerHeaderRow
	if table.Has(parser.ColTimestamp) {
		if err := wb.writeCountTable(dateHeaderRow, "Date", len(s.ByDate), func(i int) (string, int) {
			return s.ByDate[i].Date, s.ByDate[i].Count
		}); err != nil {
			return s, err
		}
		if len(s.ByDate) > 0 {
			chart := countChart(excelize.Line, LineChartTitle, "Date", "Tasks Completed", dateHeaderRow, len(s.ByDate))
			if err := wb.f.AddChart(SummarySheet, chartCell(lineAnchorRow), chart); err != nil {
				return s, fmt.Errorf("add line chart: %w", err)
			}
		}
		// Keep the tester table clear of a long date table.
		if end := dateHeaderRow + len(s.ByDate); end+2 > testerRow {
			testerRow = end + 2
		}
	}

	if table.Has(parser.ColTester) && table.Has(parser.ColResult) {
		if err := wb.writeCountTable(testerRow, "Tester Name", len(s.ByTester), func(i int) (string, int) {
			return s.ByTester[i].Tester, s.ByTester[i].Count
		}); err != nil {
			return s, err
		}
		if len(s.ByTester) > 0 {
			chart := countChart(excelize.Col, BarChartTitle, "Tester", "Task Count", testerRow, len(s.ByTester))
			if err := wb.f.AddChart(SummarySheet, chartCell(testerRow-barAnchorOffset), chart); err != nil {
				return s, fmt.Errorf("add bar chart: %w", err)
			}
		}
	}

	return s, nil
}

// clearSummary deletes every chart on the Summary sheet, wherever it is
// anchored, and blanks the rows written by the previous rebuild.
func (wb *Workbook) clearSummary() error {
	rows, err := wb.f.GetRows(SummarySheet)
	if err != nil {
		return fmt.Errorf("read summary sheet: %w", err)
	}

	anchors, err := wb.chartAnchors(SummarySheet)
	if err != nil {
		return err
	}
	for _, cell := range anchors {
		if err := wb.f.DeleteChart(SummarySheet, cell); err != nil {
			return fmt.Errorf("delete chart at %s: %w", cell, err)
		}
	}

	for r := summaryFirstRow; r <= len(rows); r++ {
		for col := 1; col <= 2; col++ {
			if cellAt(rows[r-1], col-1) == "" {
				continue
			}
			if err := wb.f.SetCellValue(SummarySheet, cellName(col, r), nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// chartAnchors returns the distinct anchor cells of every chart on sheet.
// excelize has no chart listing, so the drawing is read back from the
// serialized package.
func (wb *Workbook) chartAnchors(sheet string) ([]string, error) {
	data, err := wb.Bytes()
	if err != nil {
		return nil, err
	}
	charts, err := parser.ExtractCharts(data)
	if err != nil {
		return nil, fmt.Errorf("read charts: %w", err)
	}
	var anchors []string
	seen := make(map[string]bool)
	for _, c := range charts[sheet] {
		if c.Anchor != "" && !seen[c.Anchor] {
			seen[c.Anchor] = true
			anchors = append(anchors, c.Anchor)
		}
	}
	return anchors, nil
}

// writeCountTable writes a bold two-column header at headerRow followed by n
// label/count rows.
func (wb *Workbook) writeCountTable(headerRow int, label string, n int, row func(i int) (string, int)) error {
	if err := wb.setStyled(SummarySheet, cellName(1, headerRow), label, true, ""); err != nil {
		return err
	}
	if err := wb.setStyled(SummarySheet, cellName(2, headerRow), "Test Count", true, ""); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		name, count := row(i)
		r := headerRow + 1 + i
		if err := wb.f.SetCellValue(SummarySheet, cellName(1, r), name); err != nil {
			return err
		}
		if err := wb.f.SetCellValue(SummarySheet, cellName(2, r), count); err != nil {
			return err
		}
	}
	return nil
}

func chartCell(row int) string {
	return chartColumn + strconv.Itoa(row)
}

func summaryRange(col string, first, last int) string {
	return fmt.Sprintf("%s!$%s$%d:$%s$%d", SummarySheet, col, first, col, last)
}

func pieChart() *excelize.Chart {
	return &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Categories: summaryRange("A", 2, 4),
			Values:     summaryRange("B", 2, 4),
		}},
		Title:    []excelize.RichTextRun{{Text: PieChartTitle}},
		PlotArea: excelize.ChartPlotArea{ShowVal: true},
	}
}

// countChart builds a single-series chart over a count table whose header is
// at headerRow and whose n data rows follow it.
func countChart(typ excelize.ChartType, title, xTitle, yTitle string, headerRow, n int) *excelize.Chart {
	return &excelize.Chart{
		Type: typ,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$%d", SummarySheet, headerRow),
			Categories: summaryRange("A", headerRow+1, headerRow+n),
			Values:     summaryRange("B", headerRow+1, headerRow+n),
		}},
		Title: []excelize.RichTextRun{{Text: title}},
		XAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: xTitle}}},
		YAxis: excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: yTitle}}},
	}
}
