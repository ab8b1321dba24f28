// Package sanitize validates raw geometry coordinates before they enter the
// interactive render path. Malformed upstream data is dropped, never
// surfaced as a blocking error.
package sanitize

import (
	"math"

	"github.com/rs/zerolog/log"

	"github.com/khankhulgun/khanedit/models"
)

func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

func validLon(n float64) bool { return finite(n) && n >= -180 && n <= 180 }
func validLat(n float64) bool { return finite(n) && n >= -90 && n <= 90 }

// validPosition requires at least [lon, lat], both finite and in range.
// Extra members (altitude) only need to be finite numbers.
func validPosition(v any) ([]float64, bool) {
	pos, ok := models.Position(v)
	if !ok {
		return nil, false
	}
	if !validLon(pos[0]) || !validLat(pos[1]) {
		return nil, false
	}
	for _, n := range pos[2:] {
		if !finite(n) {
			return nil, false
		}
	}
	return pos, true
}

func positionsToRaw(positions [][]float64) []any {
	out := make([]any, len(positions))
	for i, p := range positions {
		out[i] = p
	}
	return out
}

// Feature validates a feature's coordinates by geometry type. The boolean
// result is false when the feature must be excluded from the editable
// render pass. Geometry types other than Point, LineString and Polygon pass
// through unchanged.
func Feature(f models.Feature) (models.Feature, bool) {
	if f.Geometry == nil || f.Geometry.Coordinates == nil {
		log.Debug().Msg("sanitize: dropping feature with missing geometry")
		return f, false
	}

	switch f.Geometry.Type {
	case "Point":
		pos, ok := validPosition(f.Geometry.Coordinates)
		if !ok {
			log.Debug().Msg("sanitize: dropping point with invalid coordinates")
			return f, false
		}
		f.Geometry = &models.Geometry{Type: "Point", Coordinates: pos}
		return f, true

	case "LineString":
		positions, ok := models.Positions(f.Geometry.Coordinates)
		if !ok {
			log.Debug().Msg("sanitize: dropping malformed line")
			return f, false
		}
		kept := make([][]float64, 0, len(positions))
		for _, p := range positions {
			if clean, ok := validPosition(p); ok {
				kept = append(kept, clean)
			}
		}
		if len(kept) < 2 {
			log.Debug().Int("positions", len(kept)).Msg("sanitize: dropping short line")
			return f, false
		}
		f.Geometry = &models.Geometry{Type: "LineString", Coordinates: positionsToRaw(kept)}
		return f, true

	case "Polygon":
		rings, ok := models.Rings(f.Geometry.Coordinates)
		if !ok {
			log.Debug().Msg("sanitize: dropping malformed polygon")
			return f, false
		}
		keptRings := make([]any, 0, len(rings))
		for _, ring := range rings {
			kept := make([][]float64, 0, len(ring))
			for _, p := range ring {
				if clean, ok := validPosition(p); ok {
					kept = append(kept, clean)
				}
			}
			// A closed ring needs at least a triangle plus the closing point.
			if len(kept) >= 4 {
				keptRings = append(keptRings, positionsToRaw(kept))
			}
		}
		if len(keptRings) == 0 {
			log.Debug().Msg("sanitize: dropping polygon with no surviving rings")
			return f, false
		}
		f.Geometry = &models.Geometry{Type: "Polygon", Coordinates: keptRings}
		return f, true

	default:
		// Multi-variants and collections are trusted as-is.
		return f, true
	}
}

// Collection filters a feature collection down to the features that survive
// sanitization.
func Collection(fc models.FeatureCollection) models.FeatureCollection {
	out := models.NewFeatureCollection(make([]models.Feature, 0, len(fc.Features)))
	dropped := 0
	for _, f := range fc.Features {
		clean, ok := Feature(f)
		if !ok {
			dropped++
			continue
		}
		out.Features = append(out.Features, clean)
	}
	if dropped > 0 {
		log.Debug().Int("dropped", dropped).Int("kept", len(out.Features)).
			Msg("sanitize: excluded malformed features from editable pass")
	}
	return out
}
