// Package workbook owns the tracking workbook during a submission: it finds
// detail blocks, writes result rows and screenshots, mirrors results into the
// master sheet, and regenerates the Summary sheet.
//
// A Workbook is mutated in place and is not safe for concurrent use. Each
// submission should work on its own loaded copy.
package workbook

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/parser"
	"github.com/xuri/excelize/v2"
)

// DefaultMasterSheet is the sheet holding one row per task.
const DefaultMasterSheet = "Sheet1"

// ErrNoMasterSheet indicates the master sheet is missing from the workbook.
var ErrNoMasterSheet = errors.New("master sheet not found")

// Workbook is the mutable aggregate passed through the submission pipeline.
type Workbook struct {
	f       *excelize.File
	master  string
	locator Locator
	styles  map[styleKey]int
}

// Option configures a Workbook.
type Option func(*Workbook)

// WithMasterSheet overrides the master sheet name.
func WithMasterSheet(name string) Option {
	return func(wb *Workbook) {
		if name != "" {
			wb.master = name
		}
	}
}

// WithLocator replaces the header-scan block lookup.
func WithLocator(l Locator) Option {
	return func(wb *Workbook) {
		if l != nil {
			wb.locator = l
		}
	}
}

// New wraps an open excelize file.
func New(f *excelize.File, opts ...Option) (*Workbook, error) {
	wb := &Workbook{
		f:       f,
		master:  DefaultMasterSheet,
		locator: ScanLocator{},
		styles:  make(map[styleKey]int),
	}
	for _, opt := range opts {
		opt(wb)
	}
	if !wb.HasSheet(wb.master) {
		return nil, fmt.Errorf("%w: %q", ErrNoMasterSheet, wb.master)
	}
	return wb, nil
}

// Open reads a serialized workbook.
func Open(data []byte, opts ...Option) (*Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	wb, err := New(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return wb, nil
}

// File exposes the underlying excelize file.
func (wb *Workbook) File() *excelize.File {
	return wb.f
}

// MasterSheet returns the master sheet name.
func (wb *Workbook) MasterSheet() string {
	return wb.master
}

// HasSheet reports whether a sheet with the given name exists.
func (wb *Workbook) HasSheet(name string) bool {
	idx, err := wb.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Master reads the master sheet as a table.
func (wb *Workbook) Master() (*parser.Table, error) {
	return parser.ReadTable(wb.f, wb.master)
}

// Bytes serializes the workbook.
func (wb *Workbook) Bytes() ([]byte, error) {
	buf, err := wb.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the underlying file.
func (wb *Workbook) Close() error {
	return wb.f.Close()
}

// Locate finds or creates the detail block for a task identifier.
func (wb *Workbook) Locate(rawID string) (models.BlockLocation, error) {
	return wb.locator.Locate(wb, rawID)
}
