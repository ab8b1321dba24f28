package models

import (
	"fmt"
	"strings"
)

// Style is a resolved paint description for one feature or one layer.
type Style struct {
	FillColor     string  `json:"fill_color" yaml:"fill_color"`
	StrokeColor   string  `json:"stroke_color" yaml:"stroke_color"`
	FillOpacity   float64 `json:"fill_opacity" yaml:"fill_opacity"`
	StrokeOpacity float64 `json:"stroke_opacity" yaml:"stroke_opacity"`
	StrokeWidth   float64 `json:"stroke_width" yaml:"stroke_width"`
	PointRadius   float64 `json:"point_radius" yaml:"point_radius"`
}

// Category rule operators, evaluated against feature properties.
const (
	OperatorEquals   = "equals"
	OperatorContains = "contains"
	OperatorGreater  = "greater"
	OperatorLess     = "less"
)

// CategoryRule is a property-based conditional style. Rules are evaluated
// in list order and the first match wins.
type CategoryRule struct {
	Field    string `json:"field" yaml:"field"`
	Operator string `json:"operator" yaml:"operator"`
	Value    any    `json:"value" yaml:"value"`
	Style    Style  `json:"style" yaml:"style"`
}

// Styling modes for a layer.
const (
	StylingDefault     = "default"
	StylingCategorized = "categorized"
)

type LayerStyleConfig struct {
	DefaultStyle      Style          `json:"default_style" yaml:"default_style"`
	CategorizedStyles []CategoryRule `json:"categorized_styles" yaml:"categorized_styles"`
	StylingMode       string         `json:"styling_mode" yaml:"styling_mode"`
}

// Matches evaluates the rule against a property bag.
func (r CategoryRule) Matches(properties map[string]any) bool {
	if properties == nil {
		return false
	}
	value, ok := properties[r.Field]
	if !ok {
		return false
	}
	switch r.Operator {
	case OperatorEquals:
		return fmt.Sprint(value) == fmt.Sprint(r.Value)
	case OperatorContains:
		return strings.Contains(fmt.Sprint(value), fmt.Sprint(r.Value))
	case OperatorGreater:
		a, aok := asNumber(value)
		b, bok := asNumber(r.Value)
		return aok && bok && a > b
	case OperatorLess:
		a, aok := asNumber(value)
		b, bok := asNumber(r.Value)
		return aok && bok && a < b
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Geometry-type fallback styles, used when a layer carries no usable
// style configuration of its own.
var (
	DefaultPointStyle = Style{
		FillColor:     "#2196F3",
		StrokeColor:   "#0D47A1",
		FillOpacity:   0.9,
		StrokeOpacity: 1,
		StrokeWidth:   1,
		PointRadius:   6,
	}
	DefaultLineStyle = Style{
		FillColor:     "#FF9800",
		StrokeColor:   "#FF9800",
		FillOpacity:   0,
		StrokeOpacity: 1,
		StrokeWidth:   2,
		PointRadius:   4,
	}
	DefaultPolygonStyle = Style{
		FillColor:     "#4CAF50",
		StrokeColor:   "#1B5E20",
		FillOpacity:   0.4,
		StrokeOpacity: 1,
		StrokeWidth:   2,
		PointRadius:   4,
	}
)

// GeometryTypeStyle returns the fallback style for a GeoJSON geometry type.
func GeometryTypeStyle(geometryType string) Style {
	switch geometryType {
	case "Point", "MultiPoint":
		return DefaultPointStyle
	case "LineString", "MultiLineString":
		return DefaultLineStyle
	default:
		return DefaultPolygonStyle
	}
}
