package models

// Render pass kinds. A layer under edit is synthesized as two passes:
// a non-interactive background pass followed by the interactive editable
// pass, so the editor always draws on top of the persisted geometry.
const (
	PassStatic     = "static"
	PassBackground = "background"
	PassEditable   = "editable"
	PassBasicMove  = "basicMove"
)

// Highlight colors resolved by the synthesizer.
const (
	SelectionColor = "#FFD700"
	HoverColor     = "#9C27B0"
)

// ResolvedStyle is the per-feature paint produced by style resolution.
type ResolvedStyle struct {
	FillColor     string  `json:"fill_color"`
	StrokeColor   string  `json:"stroke_color"`
	FillOpacity   float64 `json:"fill_opacity"`
	StrokeOpacity float64 `json:"stroke_opacity"`
	StrokeWidth   float64 `json:"stroke_width"`
	PointRadius   float64 `json:"point_radius"`
}

// RenderLayer is one renderable layer object handed to the basemap
// collaborator. Styles holds one resolved paint per feature, in feature
// order.
type RenderLayer struct {
	ID              string            `json:"id"`
	LayerID         string            `json:"layer_id"`
	Pass            string            `json:"pass"`
	Interactive     bool              `json:"interactive"`
	Mode            EditMode          `json:"mode,omitempty"`
	Data            FeatureCollection `json:"data"`
	Styles          []ResolvedStyle   `json:"styles"`
	SelectedIndexes []int             `json:"selected_indexes,omitempty"`
}
