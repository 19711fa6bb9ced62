package model

import "encoding/json"

// Point is a single coordinate sample on the canvas.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is a finalized freehand path. Once stored it is never mutated;
// only a clear-all removes it.
type Stroke struct {
	Tool     string  `json:"tool"`     // pen | eraser
	DrawType string  `json:"drawType"` // pen | pencil | marker
	Color    string  `json:"color"`
	Points   []Point `json:"points"`
}

// Clone returns an independent copy of the stroke, including its points.
func (s Stroke) Clone() Stroke {
	out := s
	out.Points = make([]Point, len(s.Points))
	copy(out.Points, s.Points)
	return out
}

// TemplateTransform is the shared translation+scale applied to the board
// template. Identity is zero translation and unit scale.
type TemplateTransform struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Scale float64 `json:"scale"`
}

// IdentityTransform is the reset value used at session start and clear-all.
func IdentityTransform() TemplateTransform {
	return TemplateTransform{X: 0, Y: 0, Scale: 1}
}

// Snapshot is the full board state unicast to a late joiner as the
// init-board payload. Keyed records stay as raw JSON so client-defined
// fields round-trip untouched.
type Snapshot struct {
	Paths             []Stroke          `json:"paths"`
	Shapes            []json.RawMessage `json:"shapes"`
	TextElements      []json.RawMessage `json:"textElements"`
	StickyNotes       []json.RawMessage `json:"stickyNotes"`
	TemplateTexts     []json.RawMessage `json:"templateTexts"`
	TemplateTransform TemplateTransform `json:"templateTransform"`
}
