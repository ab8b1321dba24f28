package geomops

import (
	"fmt"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"
)

// toClip flattens a polygonal orb geometry into polyclip contours.
func toClip(g orb.Geometry) (polyclip.Polygon, error) {
	switch p := g.(type) {
	case orb.Polygon:
		out := make(polyclip.Polygon, 0, len(p))
		for _, ring := range p {
			contour := make(polyclip.Contour, 0, len(ring))
			for i, pt := range ring {
				// Drop the GeoJSON closing point; polyclip contours
				// are implicitly closed.
				if i == len(ring)-1 && len(ring) > 1 && pt == ring[0] {
					continue
				}
				contour = append(contour, polyclip.Point{X: pt[0], Y: pt[1]})
			}
			out = append(out, contour)
		}
		return out, nil
	case orb.MultiPolygon:
		var out polyclip.Polygon
		for _, poly := range p {
			pp, err := toClip(poly)
			if err != nil {
				return nil, err
			}
			out = append(out, pp...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("geometry type %T is not polygonal", g)
}

// fromClip converts polyclip output back into an orb polygon with rings
// closed per the GeoJSON convention.
func fromClip(p polyclip.Polygon) orb.Polygon {
	out := make(orb.Polygon, 0, len(p))
	for _, contour := range p {
		if len(contour) == 0 {
			continue
		}
		ring := make(orb.Ring, 0, len(contour)+1)
		for _, pt := range contour {
			ring = append(ring, orb.Point{pt.X, pt.Y})
		}
		ring = append(ring, ring[0])
		out = append(out, ring)
	}
	return out
}

// construct runs one boolean operation, converting polyclip panics on
// degenerate input into errors so iterative tools can skip and continue.
func construct(op polyclip.Op, subject, clipping polyclip.Polygon) (result polyclip.Polygon, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("polygon clipping failed: %v", r)
		}
	}()
	result = subject.Construct(op, clipping)
	return result, nil
}
