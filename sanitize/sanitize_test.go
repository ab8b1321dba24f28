package sanitize

import (
	"math"
	"reflect"
	"testing"

	"github.com/khankhulgun/khanedit/models"
)

func cleanCollection() models.FeatureCollection {
	return models.NewFeatureCollection([]models.Feature{
		models.NewFeature("Point", []float64{106.9, 47.9}),
		models.NewFeature("LineString", [][]float64{{0, 0}, {1, 1}, {2, 0}}),
		models.NewFeature("Polygon", [][][]float64{
			{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		}),
	})
}

func TestCleanCollectionSurvives(t *testing.T) {
	out := Collection(cleanCollection())
	if len(out.Features) != 3 {
		t.Fatalf("clean collection lost features: got %d, want 3", len(out.Features))
	}
}

func TestIdempotence(t *testing.T) {
	once := Collection(cleanCollection())
	twice := Collection(once)
	if !reflect.DeepEqual(once, twice) {
		t.Error("sanitizing an already-sanitized collection changed it")
	}
}

func TestDropRules(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name    string
		feature models.Feature
		kept    bool
	}{
		{"nil geometry", models.Feature{Type: "Feature"}, false},
		{"valid point", models.NewFeature("Point", []float64{10, 20}), true},
		{"point with NaN", models.NewFeature("Point", []float64{nan, 20}), false},
		{"point out of range", models.NewFeature("Point", []float64{200, 20}), false},
		{"point short arity", models.NewFeature("Point", []float64{10}), false},
		{"line of one valid position", models.NewFeature("LineString", [][]float64{{0, 0}, {nan, 1}}), false},
		{"line keeps valid positions", models.NewFeature("LineString", [][]float64{{0, 0}, {nan, 1}, {1, 1}}), true},
		{"polygon ring too short", models.NewFeature("Polygon", [][][]float64{
			{{0, 0}, {1, 0}, {0, 0}},
		}), false},
		{"polygon with one bad ring", models.NewFeature("Polygon", [][][]float64{
			{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
			{{0, 0}, {nan, 0}, {0, 0}},
		}), true},
		{"multipolygon passes through", models.NewFeature("MultiPolygon", []any{}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, kept := Feature(tt.feature)
			if kept != tt.kept {
				t.Errorf("kept = %v, want %v", kept, tt.kept)
			}
		})
	}
}

func TestPolygonDropsFailingRing(t *testing.T) {
	nan := math.NaN()
	f := models.NewFeature("Polygon", [][][]float64{
		{{0, 0}, {1, 0}, {1, 1}, {0, 0}},
		{{0, 0}, {nan, 0}, {0, 0}},
	})
	clean, kept := Feature(f)
	if !kept {
		t.Fatal("polygon with one surviving ring must be kept")
	}
	rings, ok := models.Rings(clean.Geometry.Coordinates)
	if !ok || len(rings) != 1 {
		t.Fatalf("got %d rings, want 1", len(rings))
	}
}

func TestLineFiltersInvalidPositions(t *testing.T) {
	nan := math.NaN()
	f := models.NewFeature("LineString", [][]float64{{0, 0}, {nan, 5}, {2, 2}, {3, 3}})
	clean, kept := Feature(f)
	if !kept {
		t.Fatal("line with three valid positions must be kept")
	}
	positions, _ := models.Positions(clean.Geometry.Coordinates)
	if len(positions) != 3 {
		t.Errorf("got %d positions, want 3", len(positions))
	}
}
