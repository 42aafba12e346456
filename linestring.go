package geography

import (
	"database/sql/driver"
	"io"

	"github.com/paulmach/orb"
	"github.com/tingold/orb-geography/ewkb"
)

// LineString is an ordered sequence of points sharing the line's SRID.
type LineString struct {
	Points []Point `json:"points"`
	SRID   SRID    `json:"srid"`
}

// NewLineString creates a line string. Every point takes the line's SRID.
func NewLineString(srid SRID, points ...Point) LineString {
	ls := LineString{Points: make([]Point, len(points)), SRID: srid}
	for i, p := range points {
		ls.Points[i] = Point{X: p.X, Y: p.Y, SRID: srid}
	}
	return ls
}

// LineStringFromOrb converts an orb line string.
func LineStringFromOrb(ls orb.LineString, srid SRID) LineString {
	return LineString{Points: pointsFromOrb(ls, srid), SRID: srid}
}

func pointsFromOrb(points []orb.Point, srid SRID) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = PointFromOrb(p, srid)
	}
	return out
}

func pointsToOrb(points []Point) []orb.Point {
	out := make([]orb.Point, len(points))
	for i, p := range points {
		out[i] = p.Orb()
	}
	return out
}

// Orb returns the line as an orb line string.
func (ls LineString) Orb() orb.LineString {
	return orb.LineString(pointsToOrb(ls.Points))
}

// OrbGeometry returns the line as an orb geometry.
func (ls LineString) OrbGeometry() orb.Geometry {
	return ls.Orb()
}

func (ls LineString) Kind() Kind {
	return KindLineString
}

func (ls LineString) SpatialRef() SRID {
	return ls.SRID
}

// Equal reports whether both lines have the same points and SRID.
func (ls LineString) Equal(o LineString) bool {
	return ls.SRID == o.SRID && ls.Orb().Equal(o.Orb())
}

func (ls LineString) String() string {
	return ewkt(ls.Orb(), ls.SRID)
}

// WriteEWKB writes the line to w. Member point SRIDs are not encoded.
func (ls LineString) WriteEWKB(w io.Writer) error {
	ew := ewkb.NewWriter(w)
	if err := ew.WriteHeader(ls.SRID.header(ewkb.TypeLineString)); err != nil {
		return err
	}
	return ew.WriteLineString(ls.Orb())
}

// MarshalEWKB encodes the line.
func (ls LineString) MarshalEWKB() ([]byte, error) {
	return marshal(ls, ls.SRID.header(ewkb.TypeLineString).Size()+ewkb.CountSize+len(ls.Points)*ewkb.PointSize)
}

// UnmarshalEWKB decodes a line string. ls is left untouched on error.
func (ls *LineString) UnmarshalEWKB(data []byte) error {
	var out LineString
	err := decode(KindLineString, data, func(r *ewkb.Reader, h ewkb.Header) error {
		ols, err := r.ReadLineString()
		if err != nil {
			return err
		}
		out = LineStringFromOrb(ols, sridFromHeader(h))
		return nil
	})
	if err != nil {
		return err
	}

	*ls = out
	return nil
}

// Scan implements sql.Scanner. A NULL column fails with ErrNullValue.
func (ls *LineString) Scan(src interface{}) error {
	data, err := scanSource(KindLineString, src)
	if err != nil {
		return err
	}
	return ls.UnmarshalEWKB(data)
}

// Value implements driver.Valuer.
func (ls LineString) Value() (driver.Value, error) {
	return ls.MarshalEWKB()
}
