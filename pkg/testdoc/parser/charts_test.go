package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleChart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <c:chart>
    <c:title><c:tx><c:rich><a:p><a:r><a:t>Task Completion Over Time</a:t></a:r></a:p></c:rich></c:tx></c:title>
    <c:plotArea>
      <c:lineChart>
        <c:ser>
          <c:tx><c:strRef><c:f>Summary!$B$19</c:f><c:strCache><c:pt idx="0"><c:v>Test Count</c:v></c:pt></c:strCache></c:strRef></c:tx>
          <c:cat><c:strRef><c:f>Summary!$A$20:$A$21</c:f></c:strRef></c:cat>
          <c:val><c:numRef><c:f>Summary!$B$20:$B$21</c:f></c:numRef></c:val>
        </c:ser>
      </c:lineChart>
      <c:catAx><c:title><c:tx><c:rich><a:p><a:r><a:t>Date</a:t></a:r></a:p></c:rich></c:tx></c:title></c:catAx>
      <c:valAx><c:title><c:tx><c:rich><a:p><a:r><a:t>Tasks Completed</a:t></a:r></a:p></c:rich></c:tx></c:title></c:valAx>
    </c:plotArea>
  </c:chart>
</c:chartSpace>`

func TestParseChartXML(t *testing.T) {
	chart := parseChartXML([]byte(sampleChart), "Chart 2", "D18")

	assert.Equal(t, "Line", chart.ChartType)
	assert.Equal(t, "Task Completion Over Time", chart.Title)
	assert.Equal(t, "Date", chart.XAxisTitle)
	assert.Equal(t, "Tasks Completed", chart.YAxisTitle)
	assert.Equal(t, "D18", chart.Anchor)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, "Test Count", chart.Series[0].Name)
	assert.Equal(t, "Summary!$B$19", chart.Series[0].NameRange)
	assert.Equal(t, "Summary!$A$20:$A$21", chart.Series[0].Categories)
	assert.Equal(t, "Summary!$B$20:$B$21", chart.Series[0].Values)
}

func TestParseChartXMLUnknown(t *testing.T) {
	chart := parseChartXML([]byte(`<c:chartSpace xmlns:c="x"><c:chart/></c:chartSpace>`), "Chart", "A1")
	assert.Equal(t, "unknown", chart.ChartType)
}

func TestChartTypeMap(t *testing.T) {
	tests := []struct {
		tag      string
		expected string
	}{
		{"pieChart", "Pie"},
		{"lineChart", "Line"},
		{"barChart", "Bar"},
	}

	for _, tt := range tests {
		result, ok := ChartTypeMap[tt.tag]
		if !ok {
			t.Errorf("ChartTypeMap[%q] not found", tt.tag)
			continue
		}
		if result != tt.expected {
			t.Errorf("ChartTypeMap[%q] = %q, expected %q", tt.tag, result, tt.expected)
		}
	}
}

func TestExtractCharts(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	for i, v := range []interface{}{"Pass", 3, "Fail", 1} {
		cell, _ := excelize.CoordinatesToCellName(i%2+1, i/2+1)
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	require.NoError(t, f.AddChart("Sheet1", "D2", &excelize.Chart{
		Type: excelize.Pie,
		Series: []excelize.ChartSeries{{
			Categories: "Sheet1!$A$1:$A$2",
			Values:     "Sheet1!$B$1:$B$2",
		}},
		Title: []excelize.RichTextRun{{Text: "Results"}},
	}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	charts, err := ExtractCharts(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, charts["Sheet1"], 1)

	chart := charts["Sheet1"][0]
	assert.Equal(t, "Pie", chart.ChartType)
	assert.Equal(t, "Results", chart.Title)
	assert.Equal(t, "D2", chart.Anchor)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, "Sheet1!$B$1:$B$2", chart.Series[0].Values)
}
