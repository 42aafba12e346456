package fgb

import (
	"errors"
	"testing"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
	geography "github.com/tingold/orb-geography"
)

func TestKindToFGB(t *testing.T) {
	tests := []struct {
		name     string
		kind     geography.Kind
		expected flattypes.GeometryType
	}{
		{"Point", geography.KindPoint, flattypes.GeometryTypePoint},
		{"LineString", geography.KindLineString, flattypes.GeometryTypeLineString},
		{"Polygon", geography.KindPolygon, flattypes.GeometryTypePolygon},
		{"MultiPolygon", geography.KindMultiPolygon, flattypes.GeometryTypeMultiPolygon},
		{"Unknown", geography.Kind(99), flattypes.GeometryTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := kindToFGB(tt.kind)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestGeometryToFGB(t *testing.T) {
	tests := []struct {
		name string
		geom geography.Geometry
	}{
		{"Point", geography.NewPoint(1.5, 2.5, geography.WGS84())},
		{"LineString", geography.LineStringFromOrb(orb.LineString{{0, 0}, {1, 1}, {2, 2}}, geography.WGS84())},
		{"Polygon", geography.PolygonFromOrb(orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}}, // hole
		}, geography.WGS84())},
		{"MultiPolygon", geography.MultiPolygonFromOrb(orb.MultiPolygon{
			{{{0, 0}, {5, 0}, {5, 5}, {0, 5}, {0, 0}}},
			{{{10, 10}, {15, 10}, {15, 15}, {10, 15}, {10, 10}}},
		}, geography.SRID{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := flatbuffers.NewBuilder(256)
			if geom := geometryToFGB(tt.geom, builder); geom == nil {
				t.Fatal("expected non-nil geometry")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	p := geography.NewPoint(1, 2, geography.WGS84())
	poly := geography.PolygonFromOrb(orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}, geography.SRID{})

	got, err := normalize(&p)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if _, ok := got.(geography.Point); !ok {
		t.Errorf("expected geography.Point, got %T", got)
	}

	got, err = normalize(&poly)
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if _, ok := got.(geography.Polygon); !ok {
		t.Errorf("expected geography.Polygon, got %T", got)
	}

	var nilLine *geography.LineString
	if _, err := normalize(nilLine); !errors.Is(err, ErrNilGeometry) {
		t.Errorf("expected ErrNilGeometry, got %v", err)
	}
	if _, err := normalize(nil); !errors.Is(err, ErrNilGeometry) {
		t.Errorf("expected ErrNilGeometry, got %v", err)
	}
}

func TestGeometryToFGB_Pointer(t *testing.T) {
	mp := geography.MultiPolygonFromOrb(orb.MultiPolygon{
		{{{0, 0}, {5, 0}, {5, 5}, {0, 0}}},
	}, geography.WGS84())

	if geom := geometryToFGB(&mp, flatbuffers.NewBuilder(256)); geom == nil {
		t.Fatal("expected non-nil geometry")
	}
}

func TestGeometryToFGB_Nil(t *testing.T) {
	builder := flatbuffers.NewBuilder(256)

	geom := geometryToFGB(nil, builder)
	if geom != nil {
		t.Error("expected nil geometry for nil input")
	}
}

func TestGeometryFromFGB_Nil(t *testing.T) {
	_, err := geometryFromFGB(nil, geography.WGS84())
	if err != ErrNilGeometry {
		t.Errorf("expected ErrNilGeometry, got %v", err)
	}
}

func TestPointsToXY(t *testing.T) {
	ls := geography.LineStringFromOrb(orb.LineString{{1, 2}, {3, 4}, {5, 6}}, geography.WGS84())
	xy := pointsToXY(ls.Points)

	expected := []float64{1, 2, 3, 4, 5, 6}
	if len(xy) != len(expected) {
		t.Fatalf("expected %d coordinates, got %d", len(expected), len(xy))
	}

	for i, v := range expected {
		if xy[i] != v {
			t.Errorf("at index %d: expected %f, got %f", i, v, xy[i])
		}
	}
}

func TestPolygonToXYEnds(t *testing.T) {
	poly := geography.PolygonFromOrb(orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}, // 5 points
		{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},     // 5 points
	}, geography.WGS84())

	xy, ends := polygonToXYEnds(poly)

	if len(xy) != 20 { // 10 points * 2 coordinates
		t.Errorf("expected 20 coordinates, got %d", len(xy))
	}

	if len(ends) != 2 {
		t.Fatalf("expected 2 ends, got %d", len(ends))
	}

	if ends[0] != 5 {
		t.Errorf("expected first end to be 5, got %d", ends[0])
	}

	if ends[1] != 10 {
		t.Errorf("expected second end to be 10, got %d", ends[1])
	}
}

func TestPolygonToXYEnds_Empty(t *testing.T) {
	xy, ends := polygonToXYEnds(geography.NewPolygon(geography.WGS84()))

	if len(xy) != 0 || len(ends) != 0 {
		t.Errorf("expected no coordinates or ends, got %v %v", xy, ends)
	}
}
