package fgb

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	geography "github.com/tingold/orb-geography"
)

// writeTempFile writes geometries to a FlatGeobuf file in a temp dir.
func writeTempFile(t *testing.T, name string, geometries []geography.Geometry, opts *Options) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)

	file, err := os.Create(tmpFile)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	err = Write(file, geometries, opts)
	_ = file.Close()
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	return tmpFile
}

// byEWKT indexes geometries by their EWKT form. Features come back in index
// order, not write order.
func byEWKT(geometries []geography.Geometry) map[string]int {
	m := make(map[string]int, len(geometries))
	for _, g := range geometries {
		m[fmt.Sprint(g)]++
	}
	return m
}

func TestNewReaderFromData_Invalid(t *testing.T) {
	// Invalid data (not a FlatGeobuf file)
	_, err := NewReaderFromData([]byte("not a flatgeobuf"))
	if err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestNewReaderFromData_Empty(t *testing.T) {
	_, err := NewReaderFromData([]byte{})
	if err == nil {
		t.Error("expected error for empty data")
	}
}

func TestRoundTrip_Points(t *testing.T) {
	geometries := make([]geography.Geometry, 0, 10)
	for i := 0; i < 10; i++ {
		geometries = append(geometries, geography.NewPoint(float64(i), float64(i*2), geography.WGS84()))
	}

	tmpFile := writeTempFile(t, "test.fgb", geometries, &Options{
		Name:         "test_points",
		IncludeIndex: true,
	})

	reader, err := NewReader(tmpFile)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	// Check header
	header := reader.Header()
	if header == nil {
		t.Fatal("expected non-nil header")
	}

	if header.Name != "test_points" {
		t.Errorf("expected name 'test_points', got %q", header.Name)
	}

	if header.GeometryType != "Point" {
		t.Errorf("expected geometry type 'Point', got %q", header.GeometryType)
	}

	if header.FeaturesCount != 10 {
		t.Errorf("expected 10 features, got %d", header.FeaturesCount)
	}

	if !header.HasIndex {
		t.Error("expected HasIndex to be true")
	}

	got, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	want := byEWKT(geometries)
	have := byEWKT(got)
	if len(have) != len(want) {
		t.Fatalf("expected %d distinct points, got %d", len(want), len(have))
	}
	for k, n := range want {
		if have[k] != n {
			t.Errorf("%s: expected %d, got %d", k, n, have[k])
		}
	}
}

func TestRoundTrip_MixedSRIDs(t *testing.T) {
	geometries := []geography.Geometry{
		geography.NewPoint(1, 1, geography.WGS84()),
		geography.NewPoint(2, 2, geography.NewSRID(0)),
		geography.NewPoint(3, 3, geography.SRID{}),
		geography.LineStringFromOrb(orb.LineString{{0, 0}, {4, 4}}, geography.NewSRID(3857)),
		geography.PolygonFromOrb(orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{2, 2}, {8, 2}, {8, 8}, {2, 8}, {2, 2}},
		}, geography.WGS84()),
		geography.MultiPolygonFromOrb(orb.MultiPolygon{
			{{{0, 0}, {5, 0}, {5, 5}, {0, 5}, {0, 0}}},
			{{{10, 10}, {15, 10}, {15, 15}, {10, 15}, {10, 10}}},
		}, geography.NewSRID(4269)),
	}

	tmpFile := writeTempFile(t, "mixed.fgb", geometries, nil)

	reader, err := NewReader(tmpFile)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	header := reader.Header()
	if header.GeometryType != "Unknown" {
		t.Errorf("expected geometry type 'Unknown', got %q", header.GeometryType)
	}
	if len(header.Columns) != 1 || header.Columns[0].Name != SRIDColumn ||
		header.Columns[0].Type != "Int" || !header.Columns[0].Nullable {
		t.Errorf("expected a single nullable Int srid column, got %+v", header.Columns)
	}

	got, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	want := byEWKT(geometries)
	have := byEWKT(got)
	for k, n := range want {
		if have[k] != n {
			t.Errorf("%s: expected %d, got %d (have %v)", k, n, have[k], have)
		}
	}

	// The absent SRID must not come back as zero
	for _, g := range got {
		p, ok := g.(geography.Point)
		if ok && p.X == 3 && p.SRID.Valid {
			t.Errorf("expected absent SRID for point 3, got %v", p.SRID)
		}
		if ok && p.X == 2 && p.SRID != geography.NewSRID(0) {
			t.Errorf("expected SRID 0 for point 2, got %v", p.SRID)
		}
	}
}

func TestRoundTrip_FromData(t *testing.T) {
	poly := geography.PolygonFromOrb(orb.Polygon{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}}, geography.WGS84())

	var buf bytes.Buffer
	if err := Write(&buf, []geography.Geometry{poly}, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	reader, err := NewReaderFromData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}

	header := reader.Header()
	if header.GeometryType != "Polygon" {
		t.Errorf("expected geometry type 'Polygon', got %q", header.GeometryType)
	}
	if header.CRS == nil || header.CRS.Code != 4326 {
		t.Errorf("expected CRS 4326, got %+v", header.CRS)
	}
	if header.Envelope != [4]float64{0, 0, 10, 10} {
		t.Errorf("expected envelope [0 0 10 10], got %v", header.Envelope)
	}

	got, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 geometry, got %d", len(got))
	}

	gotPoly, ok := got[0].(geography.Polygon)
	if !ok {
		t.Fatalf("expected Polygon, got %T", got[0])
	}
	if !poly.Equal(gotPoly) {
		t.Errorf("expected %v, got %v", poly, gotPoly)
	}
}

func TestRoundTrip_Search(t *testing.T) {
	// Write points in a grid
	geometries := make([]geography.Geometry, 0, 100)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			geometries = append(geometries, geography.NewPoint(float64(x), float64(y), geography.WGS84()))
		}
	}

	tmpFile := writeTempFile(t, "test_search.fgb", geometries, &Options{IncludeIndex: true})

	reader, err := NewReader(tmpFile)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	// Search a small area
	bounds := orb.Bound{
		Min: orb.Point{2, 2},
		Max: orb.Point{4, 4},
	}

	results, err := reader.Search(bounds)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(results) == 0 {
		t.Error("expected some results from search")
	}

	for _, g := range results {
		p := g.(geography.Point)
		if !bounds.Pad(1).Contains(p.Orb()) {
			t.Errorf("point %v is far outside the search bounds", p)
		}
		if p.SRID != geography.WGS84() {
			t.Errorf("expected SRID 4326, got %v", p.SRID)
		}
	}
}

func TestSearch_NoIndex(t *testing.T) {
	geometries := []geography.Geometry{geography.NewPoint(1, 2, geography.WGS84())}
	tmpFile := writeTempFile(t, "test_no_index.fgb", geometries, &Options{IncludeIndex: false})

	reader, err := NewReader(tmpFile)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer func() { _ = reader.Close() }()

	_, err = reader.Search(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}})
	if err != ErrNoIndex {
		t.Errorf("expected ErrNoIndex, got %v", err)
	}

	_, err = reader.ReadAll()
	if err != ErrNoIndex {
		t.Errorf("expected ErrNoIndex from ReadAll, got %v", err)
	}
}

func TestReader_Close(t *testing.T) {
	geometries := []geography.Geometry{geography.NewPoint(1, 2, geography.WGS84())}
	tmpFile := writeTempFile(t, "test_close.fgb", geometries, &Options{IncludeIndex: true})

	// Open and close
	reader, err := NewReader(tmpFile)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}

	err = reader.Close()
	if err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNewReader_NonExistent(t *testing.T) {
	_, err := NewReader("/nonexistent/path/to/file.fgb")
	if err == nil {
		t.Error("expected error for non-existent file")
	}
}
