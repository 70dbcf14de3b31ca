package parser

import (
	"bytes"
	"encoding/xml"
	"sort"
	"strings"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/xuri/excelize/v2"
)

// ChartTypeMap maps OOXML chart element tags to chart type names.
var ChartTypeMap = map[string]string{
	"lineChart":      "Line",
	"line3DChart":    "3DLine",
	"barChart":       "Bar",
	"bar3DChart":     "3DBar",
	"areaChart":      "Area",
	"area3DChart":    "3DArea",
	"pieChart":       "Pie",
	"pie3DChart":     "3DPie",
	"doughnutChart":  "Doughnut",
	"scatterChart":   "XYScatter",
	"bubbleChart":    "Bubble",
	"radarChart":     "Radar",
	"surfaceChart":   "Surface",
	"surface3DChart": "3DSurface",
	"stockChart":     "Stock",
	"ofPieChart":     "PieOfPie",
}

// ExtractCharts reads charts from serialized workbook bytes.
// Returns a map of sheet name to charts ordered by anchor row.
func ExtractCharts(data []byte) (map[string][]models.Chart, error) {
	pkg, err := openPackage(data)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]models.Chart)
	for sheetName, drawingPath := range pkg.sheetDrawings() {
		drawingXML, err := pkg.read(drawingPath)
		if err != nil || drawingXML == nil {
			continue
		}

		rels := pkg.drawingRels(drawingPath)
		type placed struct {
			row   int
			chart models.Chart
		}
		var found []placed
		for _, a := range parseDrawingAnchors(drawingXML) {
			if a.kind != kindChart {
				continue
			}
			chartPath, ok := rels[a.rID]
			if !ok {
				continue
			}
			chartXML, err := pkg.read(chartPath)
			if err != nil || chartXML == nil {
				continue
			}
			anchor, _ := excelize.CoordinatesToCellName(a.fromCol+1, a.fromRow+1)
			found = append(found, placed{row: a.fromRow, chart: parseChartXML(chartXML, a.name, anchor)})
		}
		if len(found) == 0 {
			continue
		}

		sort.SliceStable(found, func(i, j int) bool { return found[i].row < found[j].row })
		charts := make([]models.Chart, len(found))
		for i, p := range found {
			charts[i] = p.chart
		}
		result[sheetName] = charts
	}

	return result, nil
}

// parseChartXML parses chart XML content.
func parseChartXML(data []byte, name, anchor string) models.Chart {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	chart := models.Chart{Name: name, Anchor: anchor}

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "chart" {
			parseChartElement(decoder, &chart)
		}
	}

	if chart.ChartType == "" {
		chart.ChartType = "unknown"
	}
	return chart
}

// parseChartElement parses c:chart element.
func parseChartElement(decoder *xml.Decoder, chart *models.Chart) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "title":
				chart.Title = parseChartTitle(decoder)
				depth--
			case "plotArea":
				parsePlotArea(decoder, chart)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseChartTitle parses a title element's rich text runs.
func parseChartTitle(decoder *xml.Decoder) string {
	var title string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				if txt, err := readElementText(decoder); err == nil {
					title += txt
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return strings.TrimSpace(title)
}

// parsePlotArea parses plot area element.
func parsePlotArea(decoder *xml.Decoder, chart *models.Chart) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if ct, ok := ChartTypeMap[t.Name.Local]; ok {
				if chart.ChartType == "" {
					chart.ChartType = ct
				}
				chart.Series = append(chart.Series, parseChartSeries(decoder)...)
				depth--
				continue
			}
			switch t.Name.Local {
			case "catAx", "dateAx":
				chart.XAxisTitle = parseAxisTitle(decoder)
				depth--
			case "valAx":
				chart.YAxisTitle = parseAxisTitle(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseChartSeries parses series elements within a chart type.
func parseChartSeries(decoder *xml.Decoder) []models.ChartSeries {
	var series []models.ChartSeries
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "ser" {
				series = append(series, parseSingleSeries(decoder))
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return series
}

// parseSingleSeries parses a single series element.
func parseSingleSeries(decoder *xml.Decoder) models.ChartSeries {
	var s models.ChartSeries
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "tx":
				s.Name, s.NameRange = parseSeriesName(decoder)
				depth--
			case "cat":
				s.Categories = parseSeriesRange(decoder)
				depth--
			case "val":
				s.Values = parseSeriesRange(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return s
}

// parseSeriesName parses series name from tx element.
func parseSeriesName(decoder *xml.Decoder) (name, nameRange string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "f":
				if txt, err := readElementText(decoder); err == nil {
					nameRange = strings.TrimSpace(txt)
				}
				depth--
			case "v":
				if txt, err := readElementText(decoder); err == nil {
					name = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseSeriesRange parses range reference from cat or val element.
func parseSeriesRange(decoder *xml.Decoder) string {
	var ref string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "f" && ref == "" {
				if txt, err := readElementText(decoder); err == nil {
					ref = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return ref
}

// parseAxisTitle returns an axis title, consuming the axis element.
func parseAxisTitle(decoder *xml.Decoder) string {
	var title string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "title" {
				title = parseChartTitle(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return title
}
