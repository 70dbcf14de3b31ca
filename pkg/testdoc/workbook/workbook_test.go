package workbook

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var masterHeader = []interface{}{"Task ID", "Task Name", "Navigation", "Parameters", "Tester Name", "Test Result", "Timestamp"}

// newTestWorkbook builds a master sheet from rows of Task ID, Task Name,
// Navigation, Parameters, Tester Name, Test Result, Timestamp.
func newTestWorkbook(t *testing.T, rows ...[]interface{}) *Workbook {
	t.Helper()
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &masterHeader))
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", cellName(1, i+2), &r))
	}
	wb, err := New(f)
	require.NoError(t, err)
	t.Cleanup(func() { wb.Close() })
	return wb
}

func record(t *testing.T, wb *Workbook, id string) models.TaskRecord {
	t.Helper()
	table, err := wb.Master()
	require.NoError(t, err)
	rec, ok := table.FindTask(id)
	require.True(t, ok, "task %q not in master sheet", id)
	return rec
}

func cell(t *testing.T, wb *Workbook, sheet, name string) string {
	t.Helper()
	v, err := wb.File().GetCellValue(sheet, name)
	require.NoError(t, err)
	return v
}

func fillOf(t *testing.T, wb *Workbook, sheet, name string) string {
	t.Helper()
	id, err := wb.File().GetCellStyle(sheet, name)
	require.NoError(t, err)
	style, err := wb.File().GetStyle(id)
	require.NoError(t, err)
	if len(style.Fill.Color) == 0 {
		return ""
	}
	c := strings.ToUpper(strings.TrimPrefix(style.Fill.Color[0], "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewRequiresMasterSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := New(f, WithMasterSheet("Tasks"))
	assert.ErrorIs(t, err, ErrNoMasterSheet)
}

func TestOpenRoundTrip(t *testing.T) {
	wb := newTestWorkbook(t, []interface{}{1, "A", "Nav", "", "", "", ""})
	data, err := wb.Bytes()
	require.NoError(t, err)

	reopened, err := Open(data)
	require.NoError(t, err)
	defer reopened.Close()

	table, err := reopened.Master()
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())

	_, err = Open([]byte("garbage"))
	assert.Error(t, err)
}

func TestThumbnail(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{1200, 400, 600, 200},
		{300, 800, 150, 400},
		{100, 50, 100, 50},
		{600, 400, 600, 400},
	}

	for _, tt := range tests {
		out, err := Thumbnail(pngBytes(t, tt.w, tt.h))
		require.NoError(t, err)
		cfg, err := png.DecodeConfig(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, tt.wantW, cfg.Width, "width for %dx%d", tt.w, tt.h)
		assert.Equal(t, tt.wantH, cfg.Height, "height for %dx%d", tt.w, tt.h)
	}
}

func TestThumbnailJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 800, 800)), nil))

	out, err := Thumbnail(buf.Bytes())
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	_, err := Thumbnail([]byte("not an image"))
	assert.ErrorIs(t, err, ErrUnreadableImage)
}

func TestBlockRows(t *testing.T) {
	assert.Equal(t, 5, BlockRows(true, 0, false))
	assert.Equal(t, 6, BlockRows(true, 0, true))
	assert.Equal(t, 4+30+1+1, BlockRows(true, 2, true))
	assert.Equal(t, 1, BlockRows(false, 0, false))
}

func TestLocateNewSheet(t *testing.T) {
	wb := newTestWorkbook(t, []interface{}{3, "Search", "Home", "", "", "", ""})

	loc, err := wb.Locate("3")
	require.NoError(t, err)

	assert.Equal(t, "Task ID 3", loc.Sheet)
	assert.True(t, loc.NewSheet)
	assert.True(t, loc.NewBlock)
	assert.Equal(t, 1, loc.Row)
	assert.Equal(t, "Task", loc.Label)
	assert.Equal(t, "Task 3", loc.Header)
	assert.True(t, wb.HasSheet("Task ID 3"))
}

func TestLocateSubtaskAppendsNewBlock(t *testing.T) {
	wb := newTestWorkbook(t,
		[]interface{}{2, "Login", "Home > Login", "", "", "", ""},
		[]interface{}{2.1, "Logout", "Home > Logout", "", "", "", ""},
	)

	loc, err := wb.Locate("2")
	require.NoError(t, err)
	w, err := wb.WriteBlock(loc, Entry{Record: record(t, wb, "2"), Tester: "Asha", Verdict: models.VerdictPass, Timestamp: "2026-10-19 10:00:00"})
	require.NoError(t, err)
	assert.Equal(t, 5, w.EndRow)

	sub, err := wb.Locate("2.1")
	require.NoError(t, err)
	assert.Equal(t, "Task ID 2", sub.Sheet)
	assert.False(t, sub.NewSheet)
	assert.True(t, sub.NewBlock)
	assert.Equal(t, "Subtask", sub.Label)
	assert.Equal(t, "Task 2.1", sub.Header)
	assert.Equal(t, 8, sub.Row, "two blank rows after row 5")
}

func TestWriteBlockLayout(t *testing.T) {
	wb := newTestWorkbook(t, []interface{}{3, "Search", "Home > Search", "q=x", "", "", ""})
	rec := record(t, wb, "3")

	loc, err := wb.Locate(rec.RawID)
	require.NoError(t, err)
	w, err := wb.WriteBlock(loc, Entry{
		Record:      rec,
		Tester:      "Asha",
		Verdict:     models.VerdictFail,
		Comment:     "button missing",
		Screenshots: [][]byte{pngBytes(t, 900, 600), pngBytes(t, 50, 50)},
		Timestamp:   "2026-10-19 10:00:00",
	})
	require.NoError(t, err)

	sheet := "Task ID 3"
	assert.Equal(t, 4, w.HeaderRows)
	assert.Equal(t, 2, w.Images)
	assert.Equal(t, 1, w.StartRow)
	assert.Equal(t, 4+2*ImageRowStride+1, w.ResultRow)
	assert.Equal(t, BlockRows(true, 2, true), w.EndRow)
	assert.Equal(t, w.EndRow+3, w.NextRow)

	assert.Equal(t, "Task", cell(t, wb, sheet, "A1"))
	assert.Equal(t, "Task 3", cell(t, wb, sheet, "B1"))
	assert.Equal(t, "Home > Search", cell(t, wb, sheet, "B2"))
	assert.Equal(t, "Asha", cell(t, wb, sheet, "B3"))
	assert.Equal(t, "2026-10-19 10:00:00", cell(t, wb, sheet, "B4"))
	assert.Equal(t, "Test Result", cell(t, wb, sheet, cellName(1, w.ResultRow)))
	assert.Equal(t, "Fail", cell(t, wb, sheet, cellName(2, w.ResultRow)))
	assert.Equal(t, "FF6347", fillOf(t, wb, sheet, cellName(2, w.ResultRow)))
	assert.Equal(t, "button missing", cell(t, wb, sheet, cellName(2, w.EndRow)))

	data, err := wb.Bytes()
	require.NoError(t, err)
	pictures, err := parser.ExtractPictures(data)
	require.NoError(t, err)
	require.Len(t, pictures[sheet], 2)
	assert.Equal(t, "A5", pictures[sheet][0].Anchor)
	assert.Equal(t, "A20", pictures[sheet][1].Anchor)
}

func TestWriteBlockUnknownVerdictIsWhite(t *testing.T) {
	wb := newTestWorkbook(t, []interface{}{4, "X", "Nav", "", "", "", ""})
	rec := record(t, wb, "4")

	loc, err := wb.Locate(rec.RawID)
	require.NoError(t, err)
	w, err := wb.WriteBlock(loc, Entry{Record: rec, Tester: "Ravi", Verdict: "Blocked", Timestamp: "t"})
	require.NoError(t, err)

	assert.Equal(t, "Blocked", cell(t, wb, "Task ID 4", cellName(2, w.ResultRow)))
	assert.Equal(t, models.FillWhite, fillOf(t, wb, "Task ID 4", cellName(2, w.ResultRow)))
}

func TestResubmissionAppends(t *testing.T) {
	wb := newTestWorkbook(t, []interface{}{5, "Pay", "Cart > Pay", "", "", "", ""})
	rec := record(t, wb, "5")
	sheet := "Task ID 5"

	loc, err := wb.Locate(rec.RawID)
	require.NoError(t, err)
	first, err := wb.WriteBlock(loc, Entry{Record: rec, Tester: "Asha", Verdict: models.VerdictFail, Comment: "crash", Timestamp: "t1"})
	require.NoError(t, err)
	assert.Equal(t, 6, first.EndRow)

	again, err := wb.Locate(rec.RawID)
	require.NoError(t, err)
	assert.False(t, again.NewBlock)
	assert.Equal(t, 1, again.HeaderRow)
	assert.Equal(t, 7, again.Row)

	second, err := wb.WriteBlock(again, Entry{Record: rec, Tester: "Asha", Verdict: models.VerdictPass, Timestamp: "t2"})
	require.NoError(t, err)
	assert.Equal(t, 0, second.HeaderRows)
	assert.Equal(t, 7, second.ResultRow)

	assert.Equal(t, "Fail", cell(t, wb, sheet, "B5"))
	assert.Equal(t, "crash", cell(t, wb, sheet, "B6"))
	assert.Equal(t, "Test Result", cell(t, wb, sheet, "A7"))
	assert.Equal(t, "Pass", cell(t, wb, sheet, "B7"))
}

func TestResubmissionSkipsScreenshotRows(t *testing.T) {
	wb := newTestWorkbook(t, []interface{}{7, "Upload", "Files", "", "", "", ""})
	rec := record(t, wb, "7")
	sheet := "Task ID 7"

	loc, err := wb.Locate(rec.RawID)
	require.NoError(t, err)
	first, err := wb.WriteBlock(loc, Entry{
		Record:      rec,
		Tester:      "Asha",
		Verdict:     models.VerdictFail,
		Screenshots: [][]byte{pngBytes(t, 40, 30)},
		Timestamp:   "t1",
	})
	require.NoError(t, err)
	require.Equal(t, 4+ImageRowStride+1, first.ResultRow)

	// Rows 6-19 under the picture are blank in column A.
	again, err := wb.Locate(rec.RawID)
	require.NoError(t, err)
	assert.False(t, again.NewBlock)
	assert.Equal(t, first.ResultRow+1, again.Row)

	second, err := wb.WriteBlock(again, Entry{Record: rec, Tester: "Asha", Verdict: models.VerdictPass, Timestamp: "t2"})
	require.NoError(t, err)
	assert.Equal(t, 21, second.ResultRow)
	assert.Equal(t, "Fail", cell(t, wb, sheet, "B20"))
	assert.Equal(t, "Pass", cell(t, wb, sheet, "B21"))
	assert.Equal(t, "", cell(t, wb, sheet, "A6"))

	data, err := wb.Bytes()
	require.NoError(t, err)
	pictures, err := parser.ExtractPictures(data)
	require.NoError(t, err)
	require.Len(t, pictures[sheet], 1)
	assert.Equal(t, "A5", pictures[sheet][0].Anchor)
}

func TestResubmissionMakesRoomBeforeNextBlock(t *testing.T) {
	wb := newTestWorkbook(t,
		[]interface{}{6, "A", "Nav A", "", "", "", ""},
		[]interface{}{6.1, "B", "Nav B", "", "", "", ""},
	)
	sheet := "Task ID 6"

	for _, id := range []string{"6", "6.1"} {
		rec := record(t, wb, id)
		loc, err := wb.Locate(rec.RawID)
		require.NoError(t, err)
		_, err = wb.WriteBlock(loc, Entry{Record: rec, Tester: "Asha", Verdict: models.VerdictHold, Timestamp: "t"})
		require.NoError(t, err)
	}
	assert.Equal(t, "Subtask", cell(t, wb, sheet, "A8"))

	rec := record(t, wb, "6")
	loc, err := wb.Locate(rec.RawID)
	require.NoError(t, err)
	assert.Equal(t, 6, loc.Row)
	assert.Equal(t, 8, loc.NextBlockRow)

	w, err := wb.WriteBlock(loc, Entry{Record: rec, Tester: "Asha", Verdict: models.VerdictPass, Comment: "fixed", Timestamp: "t"})
	require.NoError(t, err)
	assert.Equal(t, 2, w.InsertedRows)

	assert.Equal(t, "Pass", cell(t, wb, sheet, "B6"))
	assert.Equal(t, "fixed", cell(t, wb, sheet, "B7"))
	assert.Equal(t, "", cell(t, wb, sheet, "A8"))
	assert.Equal(t, "", cell(t, wb, sheet, "A9"))
	assert.Equal(t, "Subtask", cell(t, wb, sheet, "A10"))
	assert.Equal(t, "Task 6.1", cell(t, wb, sheet, "B10"))
	assert.Equal(t, "Hold", cell(t, wb, sheet, "B14"))
}

func TestMirrorResult(t *testing.T) {
	wb := newTestWorkbook(t,
		[]interface{}{1, "A", "Nav", "", "", "", ""},
		[]interface{}{"2.0", "B", "Nav", "", "", "", ""},
	)
	rec := record(t, wb, "2")
	require.Equal(t, 3, rec.Row)

	require.NoError(t, wb.MirrorResult(rec, "Asha", models.VerdictHold, "2026-10-19 09:30:00"))

	assert.Equal(t, "Asha", cell(t, wb, "Sheet1", "E3"))
	assert.Equal(t, "Hold", cell(t, wb, "Sheet1", "F3"))
	assert.Equal(t, "2026-10-19 09:30:00", cell(t, wb, "Sheet1", "G3"))
	assert.Equal(t, "FFB6C1", fillOf(t, wb, "Sheet1", "F3"))
	assert.Equal(t, "", cell(t, wb, "Sheet1", "F2"))

	assert.Error(t, wb.MirrorResult(models.TaskRecord{}, "x", models.VerdictPass, "t"))
}
