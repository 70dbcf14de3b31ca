package parser

import (
	"sort"

	"github.com/Anvaishxx0/Testing-Documentation/pkg/testdoc/models"
	"github.com/xuri/excelize/v2"
)

// ExtractPictures reads embedded images from serialized workbook bytes.
// Returns a map of sheet name to pictures ordered by anchor row.
func ExtractPictures(data []byte) (map[string][]models.Picture, error) {
	pkg, err := openPackage(data)
	if err != nil {
		return nil, err
	}

	result := make(map[string][]models.Picture)
	for sheetName, drawingPath := range pkg.sheetDrawings() {
		drawingXML, err := pkg.read(drawingPath)
		if err != nil || drawingXML == nil {
			continue
		}

		var pictures []models.Picture
		for _, a := range parseDrawingAnchors(drawingXML) {
			if a.kind != kindPicture {
				continue
			}
			anchor, _ := excelize.CoordinatesToCellName(a.fromCol+1, a.fromRow+1)
			pictures = append(pictures, models.Picture{
				Name:   a.name,
				Anchor: anchor,
				Row:    a.fromRow + 1,
				Col:    a.fromCol + 1,
				W:      EMUToPixels(a.cx),
				H:      EMUToPixels(a.cy),
			})
		}
		if len(pictures) == 0 {
			continue
		}

		sort.SliceStable(pictures, func(i, j int) bool {
			return pictures[i].Row < pictures[j].Row
		})
		result[sheetName] = pictures
	}

	return result, nil
}
