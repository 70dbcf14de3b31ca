package parser

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleDrawing = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart">
  <xdr:twoCellAnchor editAs="oneCell">
    <xdr:from><xdr:col>0</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>4</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:to><xdr:col>6</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>20</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>
    <xdr:pic>
      <xdr:nvPicPr><xdr:cNvPr id="2" name="Picture 1"/><xdr:cNvPicPr/></xdr:nvPicPr>
      <xdr:blipFill><a:blip r:embed="rId1"/></xdr:blipFill>
      <xdr:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="5715000" cy="3810000"/></a:xfrm></xdr:spPr>
    </xdr:pic>
    <xdr:clientData/>
  </xdr:twoCellAnchor>
  <xdr:twoCellAnchor>
    <xdr:from><xdr:col>3</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>1</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:to><xdr:col>10</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>15</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>
    <xdr:graphicFrame macro="">
      <xdr:nvGraphicFramePr><xdr:cNvPr id="3" name="Chart 1"/><xdr:cNvGraphicFramePr/></xdr:nvGraphicFramePr>
      <xdr:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/></xdr:xfrm>
      <a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/chart"><c:chart r:id="rId2"/></a:graphicData></a:graphic>
    </xdr:graphicFrame>
    <xdr:clientData/>
  </xdr:twoCellAnchor>
</xdr:wsDr>`

func TestParseDrawingAnchors(t *testing.T) {
	anchors := parseDrawingAnchors([]byte(sampleDrawing))
	require.Len(t, anchors, 2)

	pic := anchors[0]
	assert.Equal(t, kindPicture, pic.kind)
	assert.Equal(t, "Picture 1", pic.name)
	assert.Equal(t, 0, pic.fromCol)
	assert.Equal(t, 4, pic.fromRow)
	assert.Equal(t, "rId1", pic.rID)
	assert.Equal(t, 600, EMUToPixels(pic.cx))
	assert.Equal(t, 400, EMUToPixels(pic.cy))

	chart := anchors[1]
	assert.Equal(t, kindChart, chart.kind)
	assert.Equal(t, "Chart 1", chart.name)
	assert.Equal(t, 3, chart.fromCol)
	assert.Equal(t, 1, chart.fromRow)
	assert.Equal(t, "rId2", chart.rID)
}

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		target   string
		baseDir  string
		expected string
	}{
		{"../charts/chart1.xml", "xl/drawings", "xl/charts/chart1.xml"},
		{"../drawings/drawing1.xml", "xl/worksheets", "xl/drawings/drawing1.xml"},
		{"/xl/drawings/drawing1.xml", "xl/worksheets", "xl/drawings/drawing1.xml"},
		{"drawing1.xml", "xl/drawings", "xl/drawings/drawing1.xml"},
		{"worksheets/sheet1.xml", "xl", "xl/worksheets/sheet1.xml"},
	}

	for _, tt := range tests {
		result := resolveRelativePath(tt.target, tt.baseDir)
		if result != tt.expected {
			t.Errorf("resolveRelativePath(%q, %q) = %q, expected %q",
				tt.target, tt.baseDir, result, tt.expected)
		}
	}
}

func TestRelsPathFor(t *testing.T) {
	assert.Equal(t, "xl/drawings/_rels/drawing1.xml.rels", relsPathFor("xl/drawings/drawing1.xml"))
	assert.Equal(t, "xl/worksheets/_rels/sheet2.xml.rels", relsPathFor("xl/worksheets/sheet2.xml"))
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractPictures(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Task ID 1")
	require.NoError(t, err)
	pic := &excelize.Picture{Extension: ".png", File: testPNG(t, 40, 20)}
	require.NoError(t, f.AddPictureFromBytes("Task ID 1", "A20", pic))
	require.NoError(t, f.AddPictureFromBytes("Task ID 1", "A5", pic))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	pictures, err := ExtractPictures(buf.Bytes())
	require.NoError(t, err)

	require.Len(t, pictures["Task ID 1"], 2)
	assert.Equal(t, "A5", pictures["Task ID 1"][0].Anchor)
	assert.Equal(t, 5, pictures["Task ID 1"][0].Row)
	assert.Equal(t, "A20", pictures["Task ID 1"][1].Anchor)
	assert.Empty(t, pictures["Sheet1"])
}

func TestExtractPicturesInvalidArchive(t *testing.T) {
	_, err := ExtractPictures([]byte("not a zip"))
	assert.Error(t, err)
}
