package parser

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// Drawing object kinds.
const (
	kindChart   = "chart"
	kindPicture = "picture"
	kindShape   = "shape"
)

// drawingAnchor holds one anchored object from a drawing part.
type drawingAnchor struct {
	kind    string
	name    string
	fromCol int // 0-based
	fromRow int // 0-based
	rID     string
	cx      int64
	cy      int64
}

// parseDrawingAnchors parses drawing XML content and returns its anchors
// in document order.
func parseDrawingAnchors(data []byte) []drawingAnchor {
	var anchors []drawingAnchor

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor", "absoluteAnchor":
				if a := parseAnchor(decoder); a.kind != "" {
					anchors = append(anchors, a)
				}
			}
		}
	}

	return anchors
}

// parseAnchor parses an anchor element up to its end tag.
func parseAnchor(decoder *xml.Decoder) drawingAnchor {
	var a drawingAnchor
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
			case "from":
				a.fromCol, a.fromRow = parseAnchorFrom(decoder)
				depth--
			case "pic":
				a.kind = kindPicture
			case "graphicFrame":
				if a.kind == "" {
					a.kind = kindShape
				}
			case "sp", "cxnSp":
				if a.kind == "" {
					a.kind = kindShape
				}
			case "cNvPr":
				if a.name == "" {
					a.name = attrValue(t, "name")
				}
			case "chart":
				if id := attrValue(t, "id"); id != "" {
					a.kind = kindChart
					a.rID = id
				}
			case "blip":
				if id := attrValue(t, "embed"); id != "" {
					a.rID = id
				}
			case "ext":
				if cx, err := strconv.ParseInt(attrValue(t, "cx"), 10, 64); err == nil && cx > 0 {
					a.cx = cx
				}
				if cy, err := strconv.ParseInt(attrValue(t, "cy"), 10, 64); err == nil && cy > 0 {
					a.cy = cy
				}
			}
		case xml.EndElement:
			depth--
		}
	}

	return a
}

// parseAnchorFrom parses the from element's col and row markers.
func parseAnchorFrom(decoder *xml.Decoder) (col, row int) {
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
			case "col":
				if txt, err := readElementText(decoder); err == nil {
					col, _ = strconv.Atoi(strings.TrimSpace(txt))
				}
				depth--
			case "row":
				if txt, err := readElementText(decoder); err == nil {
					row, _ = strconv.Atoi(strings.TrimSpace(txt))
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
