package geomops

import (
	"fmt"
	"math"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/paulmach/orb"

	"github.com/khankhulgun/khanedit/models"
	"github.com/khankhulgun/khanedit/spatial"
)

// bufferSteps is the number of segments used to approximate circular caps.
const bufferSteps = 32

func position(pt orb.Point) []float64 {
	return []float64{pt[0], pt[1]}
}

// circleAround approximates a geodesic circle as a closed ring.
func circleAround(center orb.Point, radiusMeters float64) orb.Ring {
	ring := make(orb.Ring, 0, bufferSteps+1)
	for i := 0; i < bufferSteps; i++ {
		bearing := float64(i) * 360.0 / bufferSteps
		dest := spatial.Destination(position(center), bearing, radiusMeters)
		ring = append(ring, orb.Point{dest[0], dest[1]})
	}
	ring = append(ring, ring[0])
	return ring
}

// segmentSleeve is the rectangle covering a segment offset by the radius on
// both sides.
func segmentSleeve(a, b orb.Point, radiusMeters float64) orb.Ring {
	bearing := spatial.Bearing(position(a), position(b))
	left := spatial.NormalizeBearing(bearing - 90)
	right := spatial.NormalizeBearing(bearing + 90)

	al := spatial.Destination(position(a), left, radiusMeters)
	ar := spatial.Destination(position(a), right, radiusMeters)
	bl := spatial.Destination(position(b), left, radiusMeters)
	br := spatial.Destination(position(b), right, radiusMeters)

	return orb.Ring{
		{al[0], al[1]},
		{bl[0], bl[1]},
		{br[0], br[1]},
		{ar[0], ar[1]},
		{al[0], al[1]},
	}
}

// lineSleeve unions per-segment sleeves and per-vertex caps into the buffer
// region of a path.
func lineSleeve(line []orb.Point, radiusMeters float64) (polyclip.Polygon, error) {
	var acc polyclip.Polygon
	add := func(ring orb.Ring) error {
		piece, err := toClip(orb.Polygon{ring})
		if err != nil {
			return err
		}
		if acc == nil {
			acc = piece
			return nil
		}
		merged, err := construct(polyclip.UNION, acc, piece)
		if err != nil {
			return err
		}
		acc = merged
		return nil
	}

	for _, pt := range line {
		if err := add(circleAround(pt, radiusMeters)); err != nil {
			return nil, err
		}
	}
	for i := 0; i+1 < len(line); i++ {
		if line[i] == line[i+1] {
			continue
		}
		if err := add(segmentSleeve(line[i], line[i+1], radiusMeters)); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// bufferGeometry grows (or shrinks, for negative distances) one geometry.
func bufferGeometry(g orb.Geometry, radiusMeters float64) (orb.Geometry, error) {
	grow := radiusMeters >= 0
	r := math.Abs(radiusMeters)

	switch t := g.(type) {
	case orb.Point:
		if !grow {
			return nil, fmt.Errorf("cannot apply a negative buffer to a point")
		}
		return orb.Polygon{circleAround(t, r)}, nil

	case orb.LineString:
		if !grow {
			return nil, fmt.Errorf("cannot apply a negative buffer to a line")
		}
		sleeve, err := lineSleeve(t, r)
		if err != nil {
			return nil, err
		}
		return fromClip(sleeve), nil

	case orb.Polygon:
		base, err := toClip(t)
		if err != nil {
			return nil, err
		}
		var boundary polyclip.Polygon
		for _, ring := range t {
			sleeve, err := lineSleeve(ring, r)
			if err != nil {
				return nil, err
			}
			if boundary == nil {
				boundary = sleeve
				continue
			}
			boundary, err = construct(polyclip.UNION, boundary, sleeve)
			if err != nil {
				return nil, err
			}
		}
		op := polyclip.UNION
		if !grow {
			op = polyclip.DIFFERENCE
		}
		out, err := construct(op, base, boundary)
		if err != nil {
			return nil, err
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("buffer distance collapses the polygon")
		}
		return fromClip(out), nil

	case orb.MultiPolygon:
		var acc polyclip.Polygon
		for _, poly := range t {
			buffered, err := bufferGeometry(poly, radiusMeters)
			if err != nil {
				return nil, err
			}
			piece, err := toClip(buffered)
			if err != nil {
				return nil, err
			}
			if acc == nil {
				acc = piece
				continue
			}
			acc, err = construct(polyclip.UNION, acc, piece)
			if err != nil {
				return nil, err
			}
		}
		return fromClip(acc), nil
	}
	return nil, fmt.Errorf("buffer does not support geometry type %T", g)
}

func bufferTool(features []models.Feature, params models.OperationParams) (models.OperationResult, error) {
	if params.Distance == 0 {
		return models.OperationResult{}, preconditionf(models.ToolBuffer, "distance must be non-zero")
	}
	radius := distanceMeters(params.Distance, params.Unit)

	out := make([]models.Feature, 0, len(features))
	for i, f := range features {
		g, err := f.Geometry.Orb()
		if err != nil {
			return models.OperationResult{}, preconditionf(models.ToolBuffer, "feature %d has invalid geometry", i)
		}
		buffered, err := bufferGeometry(g, radius)
		if err != nil {
			return models.OperationResult{}, fmt.Errorf("buffer feature %d: %w", i, err)
		}
		out = append(out, models.FeatureFromOrb(buffered, f.Properties))
	}
	return models.OperationResult{Features: out}, nil
}
