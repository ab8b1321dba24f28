package models

// Spatial tool names.
const (
	ToolBuffer     = "buffer"
	ToolExtrude    = "extrude"
	ToolUnion      = "union"
	ToolIntersect  = "intersect"
	ToolDifference = "difference"
	ToolSimplify   = "simplify"
	ToolConvexHull = "convexHull"
	ToolCentroid   = "centroid"
	ToolDissolve   = "dissolve"
	ToolArea       = "area"
	ToolLength     = "length"
)

// OperationParams carries tool-specific knobs. Unused fields are ignored by
// tools that do not read them.
type OperationParams struct {
	Distance         float64 `json:"distance,omitempty"`
	Unit             string  `json:"unit,omitempty"`
	Tolerance        float64 `json:"tolerance,omitempty"`
	HighQuality      bool    `json:"high_quality,omitempty"`
	SelectedVertexes []int   `json:"selected_vertexes,omitempty"`
}

// OperationRequest asks the geometry engine to run one tool over the
// currently selected features.
type OperationRequest struct {
	Tool     string          `json:"tool"`
	Features []Feature       `json:"features"`
	Params   OperationParams `json:"params"`
}

// OperationResult is the replacement feature set, or a measurement summary
// for tools that do not change geometry.
type OperationResult struct {
	Features []Feature `json:"features,omitempty"`
	Summary  string    `json:"summary,omitempty"`
	// Measurement reports that the result is informational only and must
	// not be committed back to the layer.
	Measurement bool `json:"measurement,omitempty"`
}
