package geomops

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb/geo"

	"github.com/khankhulgun/khanedit/models"
	"github.com/khankhulgun/khanedit/spatial"
)

func polygonFeature(rings [][][]float64) models.Feature {
	return models.Feature{
		Type:       "Feature",
		Geometry:   &models.Geometry{Type: "Polygon", Coordinates: rings},
		Properties: map[string]any{"name": "test"},
	}
}

// square returns the closed outer ring of an axis-aligned square.
func square(minLon, minLat, size float64) [][][]float64 {
	return [][][]float64{{
		{minLon, minLat},
		{minLon + size, minLat},
		{minLon + size, minLat + size},
		{minLon, minLat + size},
		{minLon, minLat},
	}}
}

func pointFeature(lon, lat float64) models.Feature {
	return models.Feature{
		Type:       "Feature",
		Geometry:   &models.Geometry{Type: "Point", Coordinates: []float64{lon, lat}},
		Properties: map[string]any{},
	}
}

func lineFeature(positions [][]float64) models.Feature {
	return models.Feature{
		Type:       "Feature",
		Geometry:   &models.Geometry{Type: "LineString", Coordinates: positions},
		Properties: map[string]any{},
	}
}

func areaOf(t *testing.T, f models.Feature) float64 {
	t.Helper()
	g, err := f.Geometry.Orb()
	if err != nil {
		t.Fatalf("result geometry: %v", err)
	}
	return geo.Area(g)
}

func TestPreconditionBounds(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		features int
	}{
		{"intersect with one", models.ToolIntersect, 1},
		{"intersect with three", models.ToolIntersect, 3},
		{"union with one", models.ToolUnion, 1},
		{"extrude with two", models.ToolExtrude, 2},
		{"dissolve with one", models.ToolDissolve, 1},
		{"area with none", models.ToolArea, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			features := make([]models.Feature, tc.features)
			for i := range features {
				features[i] = polygonFeature(square(float64(i), 0, 0.001))
			}
			_, err := Run(models.OperationRequest{Tool: tc.tool, Features: features})
			var pe *PreconditionError
			if !errors.As(err, &pe) {
				t.Fatalf("err %v, want PreconditionError", err)
			}
			if pe.Tool != tc.tool {
				t.Errorf("error names tool %q, want %q", pe.Tool, tc.tool)
			}
		})
	}
}

func TestUnknownToolFails(t *testing.T) {
	_, err := Run(models.OperationRequest{Tool: "teleport", Features: []models.Feature{pointFeature(0, 0)}})
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("err %v, want PreconditionError", err)
	}
}

func TestUnionMergesOverlappingSquares(t *testing.T) {
	a := polygonFeature(square(0, 0, 0.002))
	b := polygonFeature(square(0.001, 0, 0.002))

	res, err := Run(models.OperationRequest{Tool: models.ToolUnion, Features: []models.Feature{a, b}})
	if err != nil {
		t.Fatalf("union: %v", err)
	}
	if len(res.Features) != 1 {
		t.Fatalf("got %d features, want 1 merged polygon", len(res.Features))
	}

	got := areaOf(t, res.Features[0])
	want := areaOf(t, a) * 1.5 // three overlapping half-squares
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("union area %.1f m², want about %.1f m²", got, want)
	}
	if res.Features[0].Properties["name"] != "test" {
		t.Error("union did not carry the first feature's properties")
	}
}

func TestIntersectOverlapAndDisjoint(t *testing.T) {
	a := polygonFeature(square(0, 0, 0.002))
	b := polygonFeature(square(0.001, 0, 0.002))

	res, err := Run(models.OperationRequest{Tool: models.ToolIntersect, Features: []models.Feature{a, b}})
	if err != nil {
		t.Fatalf("intersect: %v", err)
	}
	got := areaOf(t, res.Features[0])
	want := areaOf(t, a) / 2
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("intersection area %.1f m², want about %.1f m²", got, want)
	}

	far := polygonFeature(square(1, 1, 0.002))
	res, err = Run(models.OperationRequest{Tool: models.ToolIntersect, Features: []models.Feature{a, far}})
	if err != nil {
		t.Fatalf("disjoint intersect must not error, got %v", err)
	}
	if len(res.Features) != 0 || res.Summary == "" {
		t.Errorf("disjoint intersect: %d features, summary %q; want none plus a summary", len(res.Features), res.Summary)
	}
}

func TestDifferenceRemovesOverlap(t *testing.T) {
	a := polygonFeature(square(0, 0, 0.002))
	b := polygonFeature(square(0.001, 0, 0.002))

	res, err := Run(models.OperationRequest{Tool: models.ToolDifference, Features: []models.Feature{a, b}})
	if err != nil {
		t.Fatalf("difference: %v", err)
	}
	got := areaOf(t, res.Features[0])
	want := areaOf(t, a) / 2
	if math.Abs(got-want)/want > 0.01 {
		t.Errorf("difference area %.1f m², want about %.1f m²", got, want)
	}

	cover := polygonFeature(square(-0.001, -0.001, 0.004))
	res, err = Run(models.OperationRequest{Tool: models.ToolDifference, Features: []models.Feature{a, cover}})
	if err != nil {
		t.Fatalf("covered difference must not error, got %v", err)
	}
	if len(res.Features) != 0 || res.Summary == "" {
		t.Errorf("covered difference: %d features, summary %q; want none plus a summary", len(res.Features), res.Summary)
	}
}

func TestDissolveSkipsNonPolygonalFeatures(t *testing.T) {
	a := polygonFeature(square(0, 0, 0.002))
	b := polygonFeature(square(0.001, 0, 0.002))
	stray := pointFeature(5, 5)

	res, err := Run(models.OperationRequest{Tool: models.ToolDissolve, Features: []models.Feature{a, stray, b}})
	if err != nil {
		t.Fatalf("dissolve: %v", err)
	}
	if len(res.Features) != 1 {
		t.Fatalf("got %d features, want 1", len(res.Features))
	}
	if !strings.Contains(res.Summary, "1 feature(s) skipped") {
		t.Errorf("summary %q does not report the skipped feature", res.Summary)
	}

	_, err = Run(models.OperationRequest{Tool: models.ToolDissolve, Features: []models.Feature{pointFeature(0, 0), pointFeature(1, 1)}})
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Errorf("all-skipped dissolve: err %v, want PreconditionError", err)
	}
}

func TestSimplifyReducesVertexes(t *testing.T) {
	wiggly := lineFeature([][]float64{
		{0, 0}, {0.5, 0.00001}, {1, 0}, {1.5, -0.00001}, {2, 0},
	})
	res, err := Run(models.OperationRequest{
		Tool:     models.ToolSimplify,
		Features: []models.Feature{wiggly},
		Params:   models.OperationParams{Tolerance: 0.001, HighQuality: true},
	})
	if err != nil {
		t.Fatalf("simplify: %v", err)
	}
	out, ok := models.Positions(res.Features[0].Geometry.Coordinates)
	if !ok {
		t.Fatal("simplified feature is not a line")
	}
	if len(out) >= 5 {
		t.Errorf("simplify kept %d positions, want fewer than 5", len(out))
	}
	if out[0][0] != 0 || out[len(out)-1][0] != 2 {
		t.Error("simplify moved the line endpoints")
	}
}

func TestConvexHullExcludesInteriorPoint(t *testing.T) {
	features := []models.Feature{
		pointFeature(0, 0),
		pointFeature(1, 0),
		pointFeature(1, 1),
		pointFeature(0, 1),
		pointFeature(0.5, 0.5), // interior
	}
	res, err := Run(models.OperationRequest{Tool: models.ToolConvexHull, Features: features})
	if err != nil {
		t.Fatalf("convex hull: %v", err)
	}
	rings, ok := models.Rings(res.Features[0].Geometry.Coordinates)
	if !ok || len(rings) != 1 {
		t.Fatal("hull is not a single-ring polygon")
	}
	for _, pos := range rings[0] {
		if pos[0] == 0.5 && pos[1] == 0.5 {
			t.Error("interior point appears on the hull")
		}
	}
	if got := len(rings[0]); got != 5 {
		t.Errorf("hull ring has %d positions, want 4 corners plus closure", got)
	}

	collinear := []models.Feature{pointFeature(0, 0), pointFeature(1, 1), pointFeature(2, 2)}
	_, err = Run(models.OperationRequest{Tool: models.ToolConvexHull, Features: collinear})
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Errorf("collinear hull: err %v, want PreconditionError", err)
	}
}

func TestCentroidOfSquare(t *testing.T) {
	res, err := Run(models.OperationRequest{
		Tool:     models.ToolCentroid,
		Features: []models.Feature{polygonFeature(square(0, 0, 0.001))},
	})
	if err != nil {
		t.Fatalf("centroid: %v", err)
	}
	pos, ok := models.Position(res.Features[0].Geometry.Coordinates)
	if !ok {
		t.Fatal("centroid is not a point")
	}
	if math.Abs(pos[0]-0.0005) > 1e-9 || math.Abs(pos[1]-0.0005) > 1e-9 {
		t.Errorf("centroid at %v, want (0.0005, 0.0005)", pos)
	}
	if res.Features[0].Properties["original_type"] != "Polygon" {
		t.Error("centroid did not record the original geometry type")
	}
}

func TestAreaMeasurement(t *testing.T) {
	res, err := Run(models.OperationRequest{
		Tool:     models.ToolArea,
		Features: []models.Feature{polygonFeature(square(0, 0, 0.001))},
	})
	if err != nil {
		t.Fatalf("area: %v", err)
	}
	if !res.Measurement {
		t.Error("area result not flagged as a measurement")
	}
	m2, ok := res.Features[0].Properties["area_m2"].(float64)
	if !ok {
		t.Fatal("area_m2 property missing")
	}
	// A 0.001 degree square at the equator is roughly 111 m on a side.
	if m2 < 11000 || m2 > 13500 {
		t.Errorf("area %.1f m², want roughly 12400 m²", m2)
	}
	if !strings.Contains(res.Summary, "Total area") {
		t.Errorf("summary %q missing the total", res.Summary)
	}
}

func TestLengthMeasurement(t *testing.T) {
	meridian := lineFeature([][]float64{{0, 0}, {0, 1}})
	res, err := Run(models.OperationRequest{Tool: models.ToolLength, Features: []models.Feature{meridian}})
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if !res.Measurement {
		t.Error("length result not flagged as a measurement")
	}
	m, ok := res.Features[0].Properties["length_m"].(float64)
	if !ok {
		t.Fatal("length_m property missing")
	}
	// One degree of latitude, allowing for the radius convention in use.
	if m < 110000 || m > 112000 {
		t.Errorf("length %.1f m, want about 111 km", m)
	}
}

func TestBufferPointApproximatesCircle(t *testing.T) {
	res, err := Run(models.OperationRequest{
		Tool:     models.ToolBuffer,
		Features: []models.Feature{pointFeature(10, 45)},
		Params:   models.OperationParams{Distance: 100},
	})
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}
	got := areaOf(t, res.Features[0])
	want := math.Pi * 100 * 100
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("buffered point area %.1f m², want about %.1f m²", got, want)
	}
}

func TestBufferPolygonSignedDistance(t *testing.T) {
	base := polygonFeature(square(0, 0, 0.002))
	baseArea := areaOf(t, base)

	grown, err := Run(models.OperationRequest{
		Tool:     models.ToolBuffer,
		Features: []models.Feature{base},
		Params:   models.OperationParams{Distance: 50},
	})
	if err != nil {
		t.Fatalf("grow: %v", err)
	}
	if got := areaOf(t, grown.Features[0]); got <= baseArea {
		t.Errorf("positive buffer did not grow the polygon: %.1f <= %.1f", got, baseArea)
	}

	shrunk, err := Run(models.OperationRequest{
		Tool:     models.ToolBuffer,
		Features: []models.Feature{base},
		Params:   models.OperationParams{Distance: -50},
	})
	if err != nil {
		t.Fatalf("shrink: %v", err)
	}
	if got := areaOf(t, shrunk.Features[0]); got >= baseArea {
		t.Errorf("negative buffer did not shrink the polygon: %.1f >= %.1f", got, baseArea)
	}
}

func TestBufferRejections(t *testing.T) {
	_, err := Run(models.OperationRequest{
		Tool:     models.ToolBuffer,
		Features: []models.Feature{pointFeature(0, 0)},
	})
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Errorf("zero distance: err %v, want PreconditionError", err)
	}

	_, err = Run(models.OperationRequest{
		Tool:     models.ToolBuffer,
		Features: []models.Feature{pointFeature(0, 0)},
		Params:   models.OperationParams{Distance: -100},
	})
	if err == nil {
		t.Error("negative buffer on a point must fail")
	}
}

func TestBufferKilometerUnit(t *testing.T) {
	res, err := Run(models.OperationRequest{
		Tool:     models.ToolBuffer,
		Features: []models.Feature{pointFeature(0, 0)},
		Params:   models.OperationParams{Distance: 1, Unit: "km"},
	})
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}
	got := areaOf(t, res.Features[0])
	want := math.Pi * 1000 * 1000
	if math.Abs(got-want)/want > 0.05 {
		t.Errorf("1 km buffer area %.1f m², want about %.1f m²", got, want)
	}
}

func TestExtrudeConvexVertexMovesOutward(t *testing.T) {
	poly := polygonFeature(square(0, 0, 0.001))
	baseArea := areaOf(t, poly)

	res, err := Run(models.OperationRequest{
		Tool:     models.ToolExtrude,
		Features: []models.Feature{poly},
		Params:   models.OperationParams{Distance: 50, SelectedVertexes: []int{1}},
	})
	if err != nil {
		t.Fatalf("extrude: %v", err)
	}
	if got := areaOf(t, res.Features[0]); got <= baseArea {
		t.Errorf("outward extrusion did not grow the polygon: %.1f <= %.1f", got, baseArea)
	}

	rings, _ := models.Rings(res.Features[0].Geometry.Coordinates)
	origRings, _ := models.Rings(poly.Geometry.Coordinates)
	if spatial.PointInPolygon(rings[0][1], origRings) {
		t.Error("moved vertex ended up inside the original polygon")
	}
}

func TestExtrudeConcaveVertexFlipsOutward(t *testing.T) {
	// L-shaped polygon; vertex 3 is the reflex corner.
	ell := polygonFeature([][][]float64{{
		{0, 0}, {0.002, 0}, {0.002, 0.001}, {0.001, 0.001},
		{0.001, 0.002}, {0, 0.002}, {0, 0},
	}})
	origRings, _ := models.Rings(ell.Geometry.Coordinates)

	res, err := Run(models.OperationRequest{
		Tool:     models.ToolExtrude,
		Features: []models.Feature{ell},
		Params:   models.OperationParams{Distance: 30, SelectedVertexes: []int{3}},
	})
	if err != nil {
		t.Fatalf("extrude: %v", err)
	}
	rings, _ := models.Rings(res.Features[0].Geometry.Coordinates)
	if spatial.PointInPolygon(rings[0][3], origRings) {
		t.Error("reflex vertex was pushed into the polygon interior")
	}
}

func TestExtrudeMirrorsClosingPoint(t *testing.T) {
	poly := polygonFeature(square(0, 0, 0.001))
	res, err := Run(models.OperationRequest{
		Tool:     models.ToolExtrude,
		Features: []models.Feature{poly},
		Params:   models.OperationParams{Distance: 50, SelectedVertexes: []int{0}},
	})
	if err != nil {
		t.Fatalf("extrude: %v", err)
	}
	rings, _ := models.Rings(res.Features[0].Geometry.Coordinates)
	ring := rings[0]
	first, last := ring[0], ring[len(ring)-1]
	if first[0] != last[0] || first[1] != last[1] {
		t.Errorf("ring no longer closed: first %v, last %v", first, last)
	}
	if first[0] == 0 && first[1] == 0 {
		t.Error("selected vertex 0 did not move")
	}
}

func TestExtrudeRejections(t *testing.T) {
	poly := polygonFeature(square(0, 0, 0.001))
	cases := []struct {
		name     string
		features []models.Feature
		params   models.OperationParams
	}{
		{"not a polygon", []models.Feature{pointFeature(0, 0)}, models.OperationParams{Distance: 10, SelectedVertexes: []int{0}}},
		{"no vertexes", []models.Feature{poly}, models.OperationParams{Distance: 10}},
		{"zero distance", []models.Feature{poly}, models.OperationParams{SelectedVertexes: []int{0}}},
		{"vertex out of range", []models.Feature{poly}, models.OperationParams{Distance: 10, SelectedVertexes: []int{9}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Run(models.OperationRequest{Tool: models.ToolExtrude, Features: tc.features, Params: tc.params})
			var pe *PreconditionError
			if !errors.As(err, &pe) {
				t.Errorf("err %v, want PreconditionError", err)
			}
		})
	}
}

func TestDistanceUnitNormalization(t *testing.T) {
	if got := distanceMeters(2, "km"); got != 2000 {
		t.Errorf("2 km = %v m, want 2000", got)
	}
	if got := distanceMeters(2, "kilometers"); got != 2000 {
		t.Errorf("2 kilometers = %v m, want 2000", got)
	}
	if got := distanceMeters(1, "degrees"); math.Abs(got-111194.93) > 0.01 {
		t.Errorf("1 degree = %v m", got)
	}
	if got := distanceMeters(7, ""); got != 7 {
		t.Errorf("default unit: %v, want meters passthrough", got)
	}
}
