package models

import (
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Geometry keeps coordinates in their raw nested-array form so that
// malformed upstream payloads survive long enough to be sanitized,
// and so that whole-coordinate transforms (nudge) can walk the tree
// without caring about the geometry type.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

type Feature struct {
	Type       string         `json:"type"`
	Geometry   *Geometry      `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// StyleOverrideKey is the feature property that carries a per-feature
// style override taking precedence over layer and category styles.
const StyleOverrideKey = "_style"

func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

func NewFeature(geometryType string, coordinates any) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   &Geometry{Type: geometryType, Coordinates: coordinates},
		Properties: map[string]any{},
	}
}

// Orb converts the raw geometry into a typed orb geometry for spatial math.
func (g *Geometry) Orb() (orb.Geometry, error) {
	if g == nil {
		return nil, fmt.Errorf("nil geometry")
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	gg, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("geometry %q: %w", g.Type, err)
	}
	return gg.Geometry(), nil
}

// GeometryFromOrb converts a typed orb geometry back to the raw form.
func GeometryFromOrb(o orb.Geometry) *Geometry {
	if o == nil {
		return nil
	}
	raw, err := geojson.NewGeometry(o).MarshalJSON()
	if err != nil {
		return nil
	}
	var g Geometry
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil
	}
	return &g
}

// FeatureFromOrb wraps an orb geometry in a feature, carrying over properties.
func FeatureFromOrb(o orb.Geometry, properties map[string]any) Feature {
	f := Feature{Type: "Feature", Geometry: GeometryFromOrb(o), Properties: map[string]any{}}
	for k, v := range properties {
		f.Properties[k] = v
	}
	return f
}

// Position interprets v as a single [lon, lat, ...] coordinate pair.
// Only numeric entries are accepted.
func Position(v any) ([]float64, bool) {
	switch pos := v.(type) {
	case []float64:
		if len(pos) < 2 {
			return nil, false
		}
		return pos, true
	case []any:
		if len(pos) < 2 {
			return nil, false
		}
		out := make([]float64, 0, len(pos))
		for _, c := range pos {
			n, ok := c.(float64)
			if !ok {
				return nil, false
			}
			out = append(out, n)
		}
		return out, true
	}
	return nil, false
}

// Positions interprets v as a list of coordinate pairs (a line or a ring).
func Positions(v any) ([][]float64, bool) {
	list, ok := v.([]any)
	if !ok {
		if typed, ok2 := v.([][]float64); ok2 {
			return typed, true
		}
		return nil, false
	}
	out := make([][]float64, 0, len(list))
	for _, item := range list {
		pos, ok := Position(item)
		if !ok {
			return nil, false
		}
		out = append(out, pos)
	}
	return out, true
}

// Rings interprets v as polygon rings.
func Rings(v any) ([][][]float64, bool) {
	list, ok := v.([]any)
	if !ok {
		if typed, ok2 := v.([][][]float64); ok2 {
			return typed, true
		}
		return nil, false
	}
	out := make([][][]float64, 0, len(list))
	for _, item := range list {
		ring, ok := Positions(item)
		if !ok {
			return nil, false
		}
		out = append(out, ring)
	}
	return out, true
}

// CloneCoordinates deep-copies a raw coordinate tree. Commits never share
// coordinate slices between the old and new collection value.
func CloneCoordinates(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneCoordinates(item)
		}
		return out
	case []float64:
		out := make([]float64, len(t))
		copy(out, t)
		return out
	case [][]float64:
		out := make([][]float64, len(t))
		for i, p := range t {
			cp := make([]float64, len(p))
			copy(cp, p)
			out[i] = cp
		}
		return out
	case [][][]float64:
		out := make([][][]float64, len(t))
		for i, r := range t {
			out[i] = CloneCoordinates(r).([][]float64)
		}
		return out
	default:
		return v
	}
}

// Clone returns a deep copy of the feature.
func (f Feature) Clone() Feature {
	out := Feature{Type: f.Type}
	if f.Geometry != nil {
		out.Geometry = &Geometry{
			Type:        f.Geometry.Type,
			Coordinates: CloneCoordinates(f.Geometry.Coordinates),
		}
	}
	if f.Properties != nil {
		out.Properties = make(map[string]any, len(f.Properties))
		for k, v := range f.Properties {
			out.Properties[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of the collection.
func (fc FeatureCollection) Clone() FeatureCollection {
	out := NewFeatureCollection(make([]Feature, 0, len(fc.Features)))
	for _, f := range fc.Features {
		out.Features = append(out.Features, f.Clone())
	}
	return out
}

// IsFeatureCollection reports whether the collection is shaped like GeoJSON
// feature-collection data. Layers whose data fails this are never picked as
// the edit target.
func (fc FeatureCollection) IsFeatureCollection() bool {
	return fc.Type == "FeatureCollection" && fc.Features != nil
}
