package models

// SheetReport represents drawing objects read back from a single sheet.
type SheetReport struct {
	// Charts contains charts detected on the sheet.
	Charts []Chart `json:"charts,omitempty"`
	// Pictures contains embedded images.
	Pictures []Picture `json:"pictures,omitempty"`
}
