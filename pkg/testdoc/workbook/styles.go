package workbook

import "github.com/xuri/excelize/v2"

type styleKey struct {
	bold bool
	fill string
}

// style returns a cached style ID for a bold flag and optional solid fill.
func (wb *Workbook) style(bold bool, fill string) (int, error) {
	key := styleKey{bold: bold, fill: fill}
	if id, ok := wb.styles[key]; ok {
		return id, nil
	}

	s := &excelize.Style{}
	if bold {
		s.Font = &excelize.Font{Bold: true}
	}
	if fill != "" {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
	}

	id, err := wb.f.NewStyle(s)
	if err != nil {
		return 0, err
	}
	wb.styles[key] = id
	return id, nil
}

// setStyled writes a value and applies a style to the same cell.
func (wb *Workbook) setStyled(sheet, cell string, value interface{}, bold bool, fill string) error {
	if err := wb.f.SetCellValue(sheet, cell, value); err != nil {
		return err
	}
	if !bold && fill == "" {
		return nil
	}
	id, err := wb.style(bold, fill)
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, cell, cell, id)
}

// cellName is excelize.CoordinatesToCellName for coordinates known to be valid.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
