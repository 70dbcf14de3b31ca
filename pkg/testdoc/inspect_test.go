package testdoc

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/workbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	var shot bytes.Buffer
	require.NoError(t, png.Encode(&shot, image.NewRGBA(image.Rect(0, 0, 300, 200))))

	tr := NewTracker(DefaultOptions(), WithClock(fixedClock))
	res, err := tr.Submit(context.Background(), twoTaskMaster(t), Submission{
		TaskID:      2,
		Tester:      "Asha",
		Verdict:     models.VerdictPass,
		Screenshots: [][]byte{shot.Bytes()},
	})
	require.NoError(t, err)

	report, err := Inspect(res.Workbook, "tracker.xlsx", DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "tracker.xlsx", report.BookName)
	assert.Contains(t, report.Sheets, "Sheet1")

	summary := report.Sheets[workbook.SummarySheet]
	require.Len(t, summary.Charts, 3)
	assert.Equal(t, workbook.PieChartTitle, summary.Charts[0].Title)

	detail := report.Sheets["Task ID 2"]
	require.Len(t, detail.Pictures, 1)
	assert.Equal(t, "A5", detail.Pictures[0].Anchor)

	require.NotNil(t, report.Summary)
	assert.Equal(t, 1, report.Summary.Pass)
	assert.Equal(t, "2", report.Summary.LastTaskID)
	assert.Equal(t, "Asha", report.Summary.LastTester)
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte("nope"), "x.xlsx", DefaultOptions())
	var ie *InspectError
	assert.ErrorAs(t, err, &ie)
}
