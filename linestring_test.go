package geography

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/paulmach/orb"
)

func TestLineString_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		line LineString
	}{
		{"WGS84", LineStringFromOrb(orb.LineString{{0, 0}, {1, 1}, {2, 0}}, WGS84())},
		{"NoSRID", LineStringFromOrb(orb.LineString{{-1.25, 3.5}, {7, 8}}, SRID{})},
		{"SRIDZero", LineStringFromOrb(orb.LineString{{1, 2}, {3, 4}}, NewSRID(0))},
		{"Empty", NewLineString(WGS84())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.line.MarshalEWKB()
			if err != nil {
				t.Fatalf("MarshalEWKB failed: %v", err)
			}

			var got LineString
			if err := got.UnmarshalEWKB(data); err != nil {
				t.Fatalf("UnmarshalEWKB failed: %v", err)
			}
			if diff := cmp.Diff(tt.line, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
			if !got.Equal(tt.line) {
				t.Error("expected Equal to hold")
			}
		})
	}
}

func TestLineString_Layout(t *testing.T) {
	ls := NewLineString(SRID{}, NewPoint(1, 2, SRID{}), NewPoint(3, 4, SRID{}))

	data, err := ls.MarshalEWKB()
	if err != nil {
		t.Fatalf("MarshalEWKB failed: %v", err)
	}

	// marker + tag + count + 2 points
	if len(data) != 1+4+4+32 {
		t.Fatalf("expected 41 bytes, got %d", len(data))
	}
	if n := binary.LittleEndian.Uint32(data[5:9]); n != 2 {
		t.Errorf("expected point count 2, got %d", n)
	}
}

func TestNewLineString_StampsSRID(t *testing.T) {
	ls := NewLineString(WGS84(), NewPoint(0, 0, SRID{}), NewPoint(1, 1, NewSRID(3857)))

	for i, p := range ls.Points {
		if p.SRID != WGS84() {
			t.Errorf("point %d: expected SRID 4326, got %s", i, p.SRID)
		}
	}
}

func TestLineString_UnmarshalEWKB_Errors(t *testing.T) {
	valid, _ := LineStringFromOrb(orb.LineString{{0, 0}, {1, 1}}, WGS84()).MarshalEWKB()
	point, _ := NewPoint(1, 2, WGS84()).MarshalEWKB()

	tests := []struct {
		name     string
		data     []byte
		expected error
	}{
		{"Empty", []byte{}, ErrEmptyInput},
		{"MissingCount", valid[:9], io.ErrUnexpectedEOF},
		{"MissingPoint", valid[:len(valid)-16], io.ErrUnexpectedEOF},
		{"Point", point, ErrKindMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ls LineString
			err := ls.UnmarshalEWKB(tt.data)
			if !errors.Is(err, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, err)
			}
			if ls.Points != nil {
				t.Errorf("expected no points on error, got %v", ls.Points)
			}
		})
	}
}

func TestLineString_Orb(t *testing.T) {
	ols := orb.LineString{{1, 2}, {3, 4}, {5, 6}}
	ls := LineStringFromOrb(ols, NewSRID(3857))

	if !ls.Orb().Equal(ols) {
		t.Errorf("expected %v, got %v", ols, ls.Orb())
	}
	if !LineStringFromOrb(ls.Orb(), ls.SRID).Equal(ls) {
		t.Error("expected orb conversion to round trip")
	}
	if ls.String() != "SRID=3857;LINESTRING(1 2,3 4,5 6)" {
		t.Errorf("unexpected EWKT %q", ls.String())
	}
}
