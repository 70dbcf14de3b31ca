package models

// Picture represents an embedded image and its cell anchor.
type Picture struct {
	// Name is the drawing object name.
	Name string `json:"name"`
	// Anchor is the top-left cell (e.g., "A5").
	Anchor string `json:"anchor"`
	// Row is the 1-based anchor row.
	Row int `json:"row"`
	// Col is the 1-based anchor column.
	Col int `json:"col"`
	// W is the width in pixels.
	W int `json:"w"`
	// H is the height in pixels.
	H int `json:"h"`
}
