package models

// VectorLayer is one editable dataset in the layer registry. The geometry
// collection is replaced wholesale on every commit, never mutated in place.
type VectorLayer struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Geometry  FeatureCollection `json:"geometry_collection"`
	Style     LayerStyleConfig  `json:"style"`
	Visible   bool              `json:"visible"`
	ColorHint string            `json:"color_hint,omitempty"`
}

// ExportPayload is the (filename, serialized collection) pair handed to the
// persistence collaborator. The editor produces the data but never writes it.
type ExportPayload struct {
	Filename          string            `json:"filename"`
	FeatureCollection FeatureCollection `json:"feature_collection"`
}
