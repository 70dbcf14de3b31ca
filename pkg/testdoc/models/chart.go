package models

// ChartSeries represents series metadata for a chart.
type ChartSeries struct {
	// Name is the series display name.
	Name string `json:"name,omitempty"`
	// NameRange is the range reference for the series name.
	NameRange string `json:"name_range,omitempty"`
	// Categories is the range reference for category labels.
	Categories string `json:"categories,omitempty"`
	// Values is the range reference for the plotted values.
	Values string `json:"values,omitempty"`
}

// Chart represents chart metadata read from a drawing part.
type Chart struct {
	// Name is the drawing object name.
	Name string `json:"name"`
	// ChartType is the chart type (e.g., Pie, Line, Bar).
	ChartType string `json:"chart_type"`
	// Title is the chart title.
	Title string `json:"title,omitempty"`
	// XAxisTitle is the category axis title.
	XAxisTitle string `json:"x_axis_title,omitempty"`
	// YAxisTitle is the value axis title.
	YAxisTitle string `json:"y_axis_title,omitempty"`
	// Anchor is the top-left cell the chart is anchored at (e.g., "D2").
	Anchor string `json:"anchor"`
	// Series is the list of series included in the chart.
	Series []ChartSeries `json:"series"`
}
