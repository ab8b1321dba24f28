package spatial

import (
	"math"
	"testing"
)

func TestHaversineDistance(t *testing.T) {
	// One degree of longitude at the equator.
	d := HaversineDistance([]float64{0, 0}, []float64{1, 0})
	if math.Abs(d-111195) > 50 {
		t.Errorf("1° longitude at equator: got %f m, want ≈111195 m", d)
	}

	if d := HaversineDistance([]float64{47.9, 106.9}, []float64{47.9, 106.9}); d != 0 {
		t.Errorf("identical points: got %f, want 0", d)
	}
}

func TestBearing(t *testing.T) {
	tests := []struct {
		name     string
		from, to []float64
		want     float64
	}{
		{"north", []float64{0, 0}, []float64{0, 1}, 0},
		{"east", []float64{0, 0}, []float64{1, 0}, 90},
		{"south", []float64{0, 1}, []float64{0, 0}, 180},
		{"west", []float64{1, 0}, []float64{0, 0}, 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.from, tt.to)
			if math.Abs(got-tt.want) > 0.01 {
				t.Errorf("got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestDestinationRoundTrip(t *testing.T) {
	start := []float64{106.9, 47.9}
	dest := Destination(start, 45, 1000)
	back := HaversineDistance(start, dest)
	if math.Abs(back-1000) > 1 {
		t.Errorf("destination 1000 m away measures %f m", back)
	}
}

func TestMeanBearing(t *testing.T) {
	if got := MeanBearing(350, 10); math.Abs(got-0) > 0.01 && math.Abs(got-360) > 0.01 {
		t.Errorf("mean of 350 and 10: got %f, want 0", got)
	}
	if got := MeanBearing(90, 180); math.Abs(got-135) > 0.01 {
		t.Errorf("mean of 90 and 180: got %f, want 135", got)
	}
}

func TestPointInRing(t *testing.T) {
	square := [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}}
	if !PointInRing([]float64{0.5, 0.5}, square) {
		t.Error("center should be inside")
	}
	if PointInRing([]float64{1.5, 0.5}, square) {
		t.Error("outside point should not be inside")
	}
}

func TestPointInPolygonWithHole(t *testing.T) {
	rings := [][][]float64{
		{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}},
		{{1, 1}, {3, 1}, {3, 3}, {1, 3}, {1, 1}},
	}
	if PointInPolygon([]float64{2, 2}, rings) {
		t.Error("point in hole should not be inside")
	}
	if !PointInPolygon([]float64{0.5, 2}, rings) {
		t.Error("point between hole and boundary should be inside")
	}
}
