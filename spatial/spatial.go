// Package spatial holds the geographic math shared by drag metrics and the
// geometry tools: haversine distance, bearings and destination points on the
// mean-radius sphere, and point-in-ring probing.
package spatial

import (
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for all spherical math.
const EarthRadiusMeters = 6371000.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }
func toDegrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// HaversineDistance returns the great-circle distance in meters between two
// [lon, lat] positions.
func HaversineDistance(from, to []float64) float64 {
	lat1 := toRadians(from[1])
	lat2 := toRadians(to[1])
	dLat := toRadians(to[1] - from[1])
	dLon := toRadians(to[0] - from[0])

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// Bearing returns the initial compass bearing in degrees from north,
// normalized to [0, 360), between two [lon, lat] positions.
func Bearing(from, to []float64) float64 {
	lat1 := toRadians(from[1])
	lat2 := toRadians(to[1])
	dLon := toRadians(to[0] - from[0])

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := toDegrees(math.Atan2(y, x))
	return math.Mod(bearing+360, 360)
}

// Destination returns the [lon, lat] position reached by travelling the
// given distance in meters along the given bearing.
func Destination(from []float64, bearing, distanceMeters float64) []float64 {
	lat1 := toRadians(from[1])
	lon1 := toRadians(from[0])
	brng := toRadians(bearing)
	d := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) +
		math.Cos(lat1)*math.Sin(d)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(math.Sin(brng)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2))

	return []float64{toDegrees(lon2), toDegrees(lat2)}
}

// NormalizeBearing wraps a bearing into [0, 360).
func NormalizeBearing(bearing float64) float64 {
	return math.Mod(math.Mod(bearing, 360)+360, 360)
}

// MeanBearing averages two bearings on the circle, resolving the wrap-around
// at 0/360 by summing the unit vectors.
func MeanBearing(b1, b2 float64) float64 {
	x := math.Cos(toRadians(b1)) + math.Cos(toRadians(b2))
	y := math.Sin(toRadians(b1)) + math.Sin(toRadians(b2))
	return NormalizeBearing(toDegrees(math.Atan2(y, x)))
}

// PointInRing reports whether a [lon, lat] position falls inside a ring
// using the even-odd rule.
func PointInRing(point []float64, ring [][]float64) bool {
	inside := false
	n := len(ring)
	if n < 3 {
		return false
	}
	j := n - 1
	for i := 0; i < n; i++ {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > point[1]) != (yj > point[1]) &&
			point[0] < (xj-xi)*(point[1]-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}
	return inside
}

// PointInPolygon checks the outer ring and subtracts holes.
func PointInPolygon(point []float64, rings [][][]float64) bool {
	if len(rings) == 0 {
		return false
	}
	if !PointInRing(point, rings[0]) {
		return false
	}
	for _, hole := range rings[1:] {
		if PointInRing(point, hole) {
			return false
		}
	}
	return true
}
