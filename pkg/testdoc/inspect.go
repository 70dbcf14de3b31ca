package testdoc

import (
	"bytes"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/parser"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/workbook"
	"github.com/xuri/excelize/v2"
)

// InspectError represents an error while reading one component of a workbook.
type InspectError struct {
	Component string // "sheets", "charts", "pictures", "master"
	Err       error
}

func (e *InspectError) Error() string {
	return "inspect " + e.Component + ": " + e.Err.Error()
}

func (e *InspectError) Unwrap() error {
	return e.Err
}

// Inspect reads charts and pictures back out of a serialized workbook and
// recomputes the summary from its master sheet.
func Inspect(data []byte, bookName string, opts Options) (*models.WorkbookReport, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &InspectError{Component: "sheets", Err: err}
	}
	defer f.Close()

	sheets := make(map[string]models.SheetReport)
	for _, name := range f.GetSheetList() {
		sheets[name] = models.SheetReport{}
	}

	charts, err := parser.ExtractCharts(data)
	if err != nil {
		return nil, &InspectError{Component: "charts", Err: err}
	}
	for name, c := range charts {
		sheet := sheets[name]
		sheet.Charts = c
		sheets[name] = sheet
	}

	pictures, err := parser.ExtractPictures(data)
	if err != nil {
		return nil, &InspectError{Component: "pictures", Err: err}
	}
	for name, p := range pictures {
		sheet := sheets[name]
		sheet.Pictures = p
		sheets[name] = sheet
	}

	report := &models.WorkbookReport{BookName: bookName, Sheets: sheets}

	master := opts.MasterSheet
	if master == "" {
		master = workbook.DefaultMasterSheet
	}
	if idx, err := f.GetSheetIndex(master); err == nil && idx >= 0 {
		table, err := parser.ReadTable(f, master)
		if err != nil {
			return nil, &InspectError{Component: "master", Err: err}
		}
		s := workbook.Summarize(table, workbook.ReadLastUpdate(f))
		report.Summary = &s
	}

	return report, nil
}
