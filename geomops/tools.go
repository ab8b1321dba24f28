package geomops

import (
	"fmt"
	"sort"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/simplify"
	"github.com/rs/zerolog/log"

	"github.com/khankhulgun/khanedit/models"
)

func clipPolygonOf(tool string, f models.Feature, position int) (polyclip.Polygon, error) {
	g, err := f.Geometry.Orb()
	if err != nil {
		return nil, preconditionf(tool, "feature %d has invalid geometry", position)
	}
	pp, err := toClip(g)
	if err != nil {
		return nil, preconditionf(tool, "feature %d is not a polygon", position)
	}
	return pp, nil
}

func unionTool(features []models.Feature) (models.OperationResult, error) {
	acc, err := clipPolygonOf(models.ToolUnion, features[0], 0)
	if err != nil {
		return models.OperationResult{}, err
	}
	for i, f := range features[1:] {
		next, err := clipPolygonOf(models.ToolUnion, f, i+1)
		if err != nil {
			return models.OperationResult{}, err
		}
		acc, err = construct(polyclip.UNION, acc, next)
		if err != nil {
			return models.OperationResult{}, fmt.Errorf("union step %d: %w", i+1, err)
		}
	}
	merged := models.FeatureFromOrb(fromClip(acc), features[0].Properties)
	return models.OperationResult{Features: []models.Feature{merged}}, nil
}

func intersectTool(features []models.Feature) (models.OperationResult, error) {
	a, err := clipPolygonOf(models.ToolIntersect, features[0], 0)
	if err != nil {
		return models.OperationResult{}, err
	}
	b, err := clipPolygonOf(models.ToolIntersect, features[1], 1)
	if err != nil {
		return models.OperationResult{}, err
	}
	out, err := construct(polyclip.INTERSECTION, a, b)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("intersect: %w", err)
	}
	if len(out) == 0 {
		// An empty intersection is a legitimate answer, not an error.
		return models.OperationResult{
			Features: []models.Feature{},
			Summary:  "The selected polygons do not intersect",
		}, nil
	}
	result := models.FeatureFromOrb(fromClip(out), features[0].Properties)
	return models.OperationResult{Features: []models.Feature{result}}, nil
}

func differenceTool(features []models.Feature) (models.OperationResult, error) {
	a, err := clipPolygonOf(models.ToolDifference, features[0], 0)
	if err != nil {
		return models.OperationResult{}, err
	}
	b, err := clipPolygonOf(models.ToolDifference, features[1], 1)
	if err != nil {
		return models.OperationResult{}, err
	}
	out, err := construct(polyclip.DIFFERENCE, a, b)
	if err != nil {
		return models.OperationResult{}, fmt.Errorf("difference: %w", err)
	}
	if len(out) == 0 {
		return models.OperationResult{
			Features: []models.Feature{},
			Summary:  "The second polygon covers the first entirely",
		}, nil
	}
	result := models.FeatureFromOrb(fromClip(out), features[0].Properties)
	return models.OperationResult{Features: []models.Feature{result}}, nil
}

func dissolveTool(features []models.Feature) (models.OperationResult, error) {
	var acc polyclip.Polygon
	skipped := 0
	for i, f := range features {
		next, err := clipPolygonOf(models.ToolDissolve, f, i)
		if err != nil {
			skipped++
			log.Warn().Int("feature", i).Msg("dissolve: skipping non-polygonal feature")
			continue
		}
		if acc == nil {
			acc = next
			continue
		}
		merged, err := construct(polyclip.UNION, acc, next)
		if err != nil {
			// Best-effort merge: skip the failing step and continue.
			skipped++
			log.Warn().Int("feature", i).Err(err).Msg("dissolve: union step failed, skipping")
			continue
		}
		acc = merged
	}
	if acc == nil {
		return models.OperationResult{}, preconditionf(models.ToolDissolve, "no dissolvable polygons in selection")
	}
	result := models.FeatureFromOrb(fromClip(acc), features[0].Properties)
	summary := ""
	if skipped > 0 {
		summary = fmt.Sprintf("Dissolved with %d feature(s) skipped", skipped)
	}
	return models.OperationResult{Features: []models.Feature{result}, Summary: summary}, nil
}

// radialReduce drops successive points closer than the tolerance, the cheap
// pre-pass used when high quality is not requested.
func radialReduce(g orb.Geometry, tolerance float64) orb.Geometry {
	reduceLine := func(line orb.LineString) orb.LineString {
		if len(line) < 3 {
			return line
		}
		out := orb.LineString{line[0]}
		for _, pt := range line[1 : len(line)-1] {
			if planar.Distance(out[len(out)-1], pt) >= tolerance {
				out = append(out, pt)
			}
		}
		return append(out, line[len(line)-1])
	}
	switch t := g.(type) {
	case orb.LineString:
		return reduceLine(t)
	case orb.Polygon:
		out := make(orb.Polygon, len(t))
		for i, ring := range t {
			out[i] = orb.Ring(reduceLine(orb.LineString(ring)))
		}
		return out
	case orb.MultiLineString:
		out := make(orb.MultiLineString, len(t))
		for i, line := range t {
			out[i] = reduceLine(line)
		}
		return out
	}
	return g
}

func simplifyTool(features []models.Feature, params models.OperationParams) (models.OperationResult, error) {
	tolerance := params.Tolerance
	if tolerance <= 0 {
		tolerance = 0.0001
	}
	simplifier := simplify.DouglasPeucker(tolerance)

	out := make([]models.Feature, 0, len(features))
	for i, f := range features {
		g, err := f.Geometry.Orb()
		if err != nil {
			return models.OperationResult{}, preconditionf(models.ToolSimplify, "feature %d has invalid geometry", i)
		}
		if !params.HighQuality {
			g = radialReduce(g, tolerance)
		}
		out = append(out, models.FeatureFromOrb(simplifier.Simplify(g), f.Properties))
	}
	return models.OperationResult{Features: out}, nil
}

func pooledVertexes(tool string, features []models.Feature) ([]orb.Point, error) {
	var points []orb.Point
	collect := func(g orb.Geometry) {
		switch t := g.(type) {
		case orb.Point:
			points = append(points, t)
		case orb.MultiPoint:
			points = append(points, t...)
		case orb.LineString:
			points = append(points, t...)
		case orb.MultiLineString:
			for _, line := range t {
				points = append(points, line...)
			}
		case orb.Polygon:
			for _, ring := range t {
				points = append(points, ring...)
			}
		case orb.MultiPolygon:
			for _, poly := range t {
				for _, ring := range poly {
					points = append(points, ring...)
				}
			}
		}
	}
	for i, f := range features {
		g, err := f.Geometry.Orb()
		if err != nil {
			return nil, preconditionf(tool, "feature %d has invalid geometry", i)
		}
		collect(g)
	}
	return points, nil
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull computes the hull of a point set with the monotone chain
// algorithm. Returns the hull as a closed ring.
func convexHull(points []orb.Point) orb.Ring {
	sort.Slice(points, func(i, j int) bool {
		if points[i][0] != points[j][0] {
			return points[i][0] < points[j][0]
		}
		return points[i][1] < points[j][1]
	})
	// Deduplicate after sorting.
	uniq := points[:0]
	for i, p := range points {
		if i == 0 || p != points[i-1] {
			uniq = append(uniq, p)
		}
	}
	points = uniq
	if len(points) < 3 {
		return nil
	}

	var lower, upper []orb.Point
	for _, p := range points {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	for i := len(points) - 1; i >= 0; i-- {
		p := points[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	if len(hull) < 3 {
		return nil
	}
	ring := make(orb.Ring, 0, len(hull)+1)
	ring = append(ring, hull...)
	ring = append(ring, hull[0])
	return ring
}

func convexHullTool(features []models.Feature) (models.OperationResult, error) {
	points, err := pooledVertexes(models.ToolConvexHull, features)
	if err != nil {
		return models.OperationResult{}, err
	}
	if len(points) < 3 {
		return models.OperationResult{}, preconditionf(models.ToolConvexHull,
			"requires at least 3 vertexes across the selection, got %d", len(points))
	}
	ring := convexHull(points)
	if ring == nil {
		return models.OperationResult{}, preconditionf(models.ToolConvexHull,
			"selected vertexes are collinear")
	}
	hull := models.FeatureFromOrb(orb.Polygon{ring}, features[0].Properties)
	return models.OperationResult{Features: []models.Feature{hull}}, nil
}

func centroidTool(features []models.Feature) (models.OperationResult, error) {
	out := make([]models.Feature, 0, len(features))
	for i, f := range features {
		g, err := f.Geometry.Orb()
		if err != nil {
			return models.OperationResult{}, preconditionf(models.ToolCentroid, "feature %d has invalid geometry", i)
		}
		center, _ := planar.CentroidArea(g)
		cf := models.FeatureFromOrb(center, f.Properties)
		cf.Properties["original_type"] = f.Geometry.Type
		out = append(out, cf)
	}
	return models.OperationResult{Features: out}, nil
}

func formatArea(m2 float64) string {
	if m2 >= 1e6 {
		return fmt.Sprintf("%.3f km²", m2/1e6)
	}
	return fmt.Sprintf("%.1f m²", m2)
}

func formatLength(m float64) string {
	if m >= 1000 {
		return fmt.Sprintf("%.3f km", m/1000)
	}
	return fmt.Sprintf("%.1f m", m)
}

func areaTool(features []models.Feature) (models.OperationResult, error) {
	out := make([]models.Feature, 0, len(features))
	total := 0.0
	for i, f := range features {
		g, err := f.Geometry.Orb()
		if err != nil {
			return models.OperationResult{}, preconditionf(models.ToolArea, "feature %d has invalid geometry", i)
		}
		m2 := geo.Area(g)
		total += m2
		annotated := f.Clone()
		annotated.Properties["area_m2"] = m2
		annotated.Properties["area_km2"] = m2 / 1e6
		out = append(out, annotated)
	}
	return models.OperationResult{
		Features:    out,
		Summary:     fmt.Sprintf("Total area: %s", formatArea(total)),
		Measurement: true,
	}, nil
}

func lengthTool(features []models.Feature) (models.OperationResult, error) {
	out := make([]models.Feature, 0, len(features))
	total := 0.0
	for i, f := range features {
		g, err := f.Geometry.Orb()
		if err != nil {
			return models.OperationResult{}, preconditionf(models.ToolLength, "feature %d has invalid geometry", i)
		}
		m := geo.Length(g)
		total += m
		annotated := f.Clone()
		annotated.Properties["length_m"] = m
		annotated.Properties["length_km"] = m / 1000
		out = append(out, annotated)
	}
	return models.OperationResult{
		Features:    out,
		Summary:     fmt.Sprintf("Total length: %s", formatLength(total)),
		Measurement: true,
	}, nil
}
