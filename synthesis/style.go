package synthesis

import (
	"reflect"

	"github.com/khankhulgun/khanedit/models"
)

// styleFromOverride reads a feature's _style property bag.
func styleFromOverride(v any) (models.Style, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return models.Style{}, false
	}
	var s models.Style
	if c, ok := m["fillColor"].(string); ok {
		s.FillColor = c
	}
	if c, ok := m["strokeColor"].(string); ok {
		s.StrokeColor = c
	}
	if n, ok := m["fillOpacity"].(float64); ok {
		s.FillOpacity = n
	} else {
		s.FillOpacity = 0.5
	}
	if n, ok := m["strokeOpacity"].(float64); ok {
		s.StrokeOpacity = n
	} else {
		s.StrokeOpacity = 1
	}
	if n, ok := m["strokeWidth"].(float64); ok {
		s.StrokeWidth = n
	} else {
		s.StrokeWidth = 2
	}
	if n, ok := m["pointRadius"].(float64); ok {
		s.PointRadius = n
	} else {
		s.PointRadius = 5
	}
	return s, s.FillColor != "" || s.StrokeColor != ""
}

func zeroStyle(s models.Style) bool {
	return s == models.Style{}
}

// baseStyle resolves the non-highlight style for one feature:
// _style override > category rule > layer default > color hint >
// geometry-type default.
func baseStyle(layer models.VectorLayer, f models.Feature) models.Style {
	if f.Properties != nil {
		if raw, ok := f.Properties[models.StyleOverrideKey]; ok {
			if s, ok := styleFromOverride(raw); ok {
				return s
			}
		}
	}
	if layer.Style.StylingMode == models.StylingCategorized {
		for _, rule := range layer.Style.CategorizedStyles {
			if rule.Matches(f.Properties) {
				return rule.Style
			}
		}
	}
	if !zeroStyle(layer.Style.DefaultStyle) {
		return layer.Style.DefaultStyle
	}
	geometryType := ""
	if f.Geometry != nil {
		geometryType = f.Geometry.Type
	}
	if layer.ColorHint != "" {
		hinted := models.GeometryTypeStyle(geometryType)
		hinted.FillColor = layer.ColorHint
		hinted.StrokeColor = layer.ColorHint
		return hinted
	}
	return models.GeometryTypeStyle(geometryType)
}

// resolveStyle applies the full precedence chain, highlights included:
// selection gold > hover purple > base chain. Line strings never receive
// a fill whatever the style source.
func resolveStyle(layer models.VectorLayer, f models.Feature, selected, hovered bool) models.ResolvedStyle {
	base := baseStyle(layer, f)

	fill := base.FillColor
	stroke := base.StrokeColor
	switch {
	case selected:
		fill = models.SelectionColor
		stroke = models.SelectionColor
	case hovered:
		fill = models.HoverColor
		stroke = models.HoverColor
	}

	out := models.ResolvedStyle{
		FillColor:     fill,
		StrokeColor:   stroke,
		FillOpacity:   base.FillOpacity,
		StrokeOpacity: base.StrokeOpacity,
		StrokeWidth:   base.StrokeWidth,
		PointRadius:   base.PointRadius,
	}
	if f.Geometry != nil {
		switch f.Geometry.Type {
		case "LineString", "MultiLineString":
			out.FillOpacity = 0
		}
	}
	return out
}

// sameFeature matches the hovered feature against a collection member.
func sameFeature(a models.Feature, b *models.Feature) bool {
	if b == nil {
		return false
	}
	return reflect.DeepEqual(a, *b)
}
