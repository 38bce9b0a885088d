package sim

// Color is a palette tag. Renderers map tags to concrete colors.
type Color string

const (
	ColorEmerald Color = "emerald"
	ColorPink    Color = "pink"
	ColorBlue    Color = "blue"
	ColorRose    Color = "rose"
	ColorOrange  Color = "orange"
	ColorSlate   Color = "slate"
	ColorWhite   Color = "white"
)

// Bounds is the data-space window shown by a scene.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Marker is a filled dot: a data point, centroid, neuron or signal.
type Marker struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
}

// Segment is a straight line between two data-space points.
type Segment struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Color  Color   `json:"color"`
	Dashed bool    `json:"dashed,omitempty"`
	Arrow  bool    `json:"arrow,omitempty"`
}

// Label is text anchored at a data-space point.
type Label struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Text  string  `json:"text"`
	Color Color   `json:"color"`
}

// Scene is everything a renderer needs to draw a visualization. YUp is true
// for chart-style scenes (y grows upwards) and false for canvas-style scenes.
// Segments are drawn first, then markers, then labels.
type Scene struct {
	Title    string    `json:"title"`
	Status   string    `json:"status"`
	Hint     string    `json:"hint"`
	Bounds   Bounds    `json:"bounds"`
	YUp      bool      `json:"y_up"`
	Segments []Segment `json:"segments"`
	Markers  []Marker  `json:"markers"`
	Labels   []Label   `json:"labels,omitempty"`
}
