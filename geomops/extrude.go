package geomops

import (
	"sort"

	"github.com/khankhulgun/khanedit/models"
	"github.com/khankhulgun/khanedit/spatial"
)

// probeDistanceMeters is how far along the candidate bearing the inside
// test probes. The fixed short probe can misjudge direction on highly
// non-convex rings near self-intersections; that behavior is kept as-is.
const probeDistanceMeters = 1.0

// extrudeBearing resolves the outward bearing for the selected vertexes of
// a ring. ring excludes the closing point.
func extrudeBearing(ring [][]float64, selected []int) float64 {
	n := len(ring)
	if len(selected) == 1 {
		i := selected[0]
		v := ring[i]
		prev := ring[(i-1+n)%n]
		next := ring[(i+1)%n]
		mean := spatial.MeanBearing(
			spatial.Bearing(v, prev),
			spatial.Bearing(v, next),
		)
		return spatial.NormalizeBearing(mean + 90)
	}
	first := ring[selected[0]]
	last := ring[selected[len(selected)-1]]
	chord := spatial.Bearing(first, last)
	return spatial.NormalizeBearing(chord + 90)
}

func extrudeTool(feature models.Feature, params models.OperationParams) (models.OperationResult, error) {
	if feature.Geometry == nil || feature.Geometry.Type != "Polygon" {
		return models.OperationResult{}, preconditionf(models.ToolExtrude, "requires a polygon feature")
	}
	if len(params.SelectedVertexes) == 0 {
		return models.OperationResult{}, preconditionf(models.ToolExtrude, "requires at least one selected vertex")
	}
	if params.Distance == 0 {
		return models.OperationResult{}, preconditionf(models.ToolExtrude, "distance must be non-zero")
	}

	rings, ok := models.Rings(feature.Geometry.Coordinates)
	if !ok || len(rings) == 0 {
		return models.OperationResult{}, preconditionf(models.ToolExtrude, "polygon has no rings")
	}
	closed := rings[0]
	if len(closed) < 4 {
		return models.OperationResult{}, preconditionf(models.ToolExtrude, "outer ring is degenerate")
	}
	// Work on the open ring; the closing point is mirrored afterwards.
	open := closed[:len(closed)-1]

	selected := append([]int(nil), params.SelectedVertexes...)
	sort.Ints(selected)
	for _, i := range selected {
		if i < 0 || i >= len(open) {
			return models.OperationResult{}, preconditionf(models.ToolExtrude, "vertex index %d out of range", i)
		}
	}

	bearing := extrudeBearing(open, selected)

	// Disambiguate direction: if a short probe along the candidate bearing
	// lands inside the polygon, the extrusion would point inward, so flip it.
	probe := spatial.Destination(open[selected[0]], bearing, probeDistanceMeters)
	if spatial.PointInPolygon(probe, rings) {
		bearing = spatial.NormalizeBearing(bearing + 180)
	}

	distance := distanceMeters(params.Distance, params.Unit)

	out := feature.Clone()
	outRings, _ := models.Rings(out.Geometry.Coordinates)
	outer := outRings[0]
	for _, i := range selected {
		moved := spatial.Destination(outer[i], bearing, distance)
		if len(outer[i]) > 2 {
			moved = append(moved, outer[i][2:]...)
		}
		outer[i] = moved
		if i == 0 {
			// Keep the ring closed: the first point and the closing
			// point are the same vertex.
			outer[len(outer)-1] = moved
		}
	}
	outRings[0] = outer
	out.Geometry = &models.Geometry{Type: "Polygon", Coordinates: ringsToRaw(outRings)}

	return models.OperationResult{Features: []models.Feature{out}}, nil
}

func ringsToRaw(rings [][][]float64) []any {
	out := make([]any, len(rings))
	for i, ring := range rings {
		raw := make([]any, len(ring))
		for j, pos := range ring {
			raw[j] = pos
		}
		out[i] = raw
	}
	return out
}
