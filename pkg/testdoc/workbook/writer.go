package workbook

import (
	"fmt"
	"strconv"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/xuri/excelize/v2"
)

// Master sheet columns overwritten when a result is mirrored (1-based).
const (
	MasterTesterCol    = 5
	MasterResultCol    = 6
	MasterTimestampCol = 7
)

// headerRows is the number of bold rows opening a new block.
const headerRows = 4

// Entry is one submission to write into a detail block.
type Entry struct {
	// Record is the master row the submission belongs to.
	Record      models.TaskRecord
	Tester      string
	Verdict     models.Verdict
	Comment     string
	// Screenshots are PNG images placed as given, normally Thumbnail output.
	Screenshots [][]byte
	// Timestamp is the formatted submission time.
	Timestamp string
}

// BlockRows returns the rows a submission occupies, excluding the separator.
func BlockRows(newBlock bool, images int, comment bool) int {
	n := images*ImageRowStride + 1
	if newBlock {
		n += headerRows
	}
	if comment {
		n++
	}
	return n
}

// WriteBlock writes e at loc: header rows for a new block, screenshots,
// the color-coded result row, and an optional comment row. When loc is inside
// an existing block whose gap to the next block is too small, rows are
// inserted so nothing below is overwritten.
func (wb *Workbook) WriteBlock(loc models.BlockLocation, e Entry) (models.BlockWrite, error) {
	images := e.Screenshots
	sheet := loc.Sheet
	out := models.BlockWrite{
		Sheet:     sheet,
		StartRow:  loc.Row,
		Images:    len(images),
		Timestamp: e.Timestamp,
	}

	if !loc.NewBlock && loc.NextBlockRow > 0 {
		needed := BlockRows(false, len(images), e.Comment != "") + blockSeparator
		if free := loc.NextBlockRow - loc.Row; free < needed {
			if err := wb.f.InsertRows(sheet, loc.NextBlockRow, needed-free); err != nil {
				return out, fmt.Errorf("insert rows in %q: %w", sheet, err)
			}
			out.InsertedRows = needed - free
		}
	}

	row := loc.Row
	writeRow := func(label string, value interface{}) error {
		if err := wb.setStyled(sheet, cellName(1, row), label, true, ""); err != nil {
			return err
		}
		if err := wb.setStyled(sheet, cellName(2, row), value, true, ""); err != nil {
			return err
		}
		row++
		return nil
	}

	if loc.NewBlock {
		header := []struct {
			label string
			value string
		}{
			{loc.Label, loc.Header},
			{"Navigation", e.Record.Navigation},
			{"Tester Name", e.Tester},
			{"Timestamp", e.Timestamp},
		}
		for _, h := range header {
			if err := writeRow(h.label, h.value); err != nil {
				return out, err
			}
		}
		out.HeaderRows = headerRows
	}

	if len(images) > 0 {
		if err := wb.f.SetColWidth(sheet, "A", "A", imageColumnWide); err != nil {
			return out, err
		}
	}
	for _, img := range images {
		pic := &excelize.Picture{
			Extension: ".png",
			File:      img,
			Format:    &excelize.GraphicOptions{Positioning: "oneCell"},
		}
		if err := wb.f.AddPictureFromBytes(sheet, "A"+strconv.Itoa(row), pic); err != nil {
			return out, fmt.Errorf("add screenshot at row %d: %w", row, err)
		}
		if err := wb.f.SetRowHeight(sheet, row, imageRowHeight); err != nil {
			return out, err
		}
		row += ImageRowStride
	}

	out.ResultRow = row
	if err := wb.setStyled(sheet, cellName(1, row), "Test Result", true, ""); err != nil {
		return out, err
	}
	if err := wb.setStyled(sheet, cellName(2, row), string(e.Verdict), true, e.Verdict.FillColor()); err != nil {
		return out, err
	}
	row++

	if e.Comment != "" {
		if err := writeRow("Comment", e.Comment); err != nil {
			return out, err
		}
	}

	out.EndRow = row - 1
	out.NextRow = row + blockSeparator
	return out, nil
}

// MirrorResult overwrites the tester, result and timestamp columns of the
// master row for rec and applies the verdict fill to the result cell.
func (wb *Workbook) MirrorResult(rec models.TaskRecord, tester string, verdict models.Verdict, timestamp string) error {
	if rec.Row < 2 {
		return fmt.Errorf("invalid master row %d for task %q", rec.Row, rec.RawID)
	}
	if err := wb.f.SetCellValue(wb.master, cellName(MasterTesterCol, rec.Row), tester); err != nil {
		return err
	}
	if err := wb.setStyled(wb.master, cellName(MasterResultCol, rec.Row), string(verdict), false, verdict.FillColor()); err != nil {
		return err
	}
	return wb.f.SetCellValue(wb.master, cellName(MasterTimestampCol, rec.Row), timestamp)
}
