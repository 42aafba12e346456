package geography

import (
	"database/sql/driver"
	"io"

	"github.com/paulmach/orb"
	"github.com/tingold/orb-geography/ewkb"
)

// Point is a geography point. X is the longitude, Y the latitude.
type Point struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	SRID SRID    `json:"srid"`
}

// NewPoint creates a point.
func NewPoint(x, y float64, srid SRID) Point {
	return Point{X: x, Y: y, SRID: srid}
}

// PointFromOrb converts an orb point.
func PointFromOrb(p orb.Point, srid SRID) Point {
	return Point{X: p[0], Y: p[1], SRID: srid}
}

// Orb returns the point as an orb point.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// OrbGeometry returns the point as an orb geometry.
func (p Point) OrbGeometry() orb.Geometry {
	return p.Orb()
}

func (p Point) Kind() Kind {
	return KindPoint
}

func (p Point) SpatialRef() SRID {
	return p.SRID
}

// Equal reports whether both points have the same coordinates and SRID.
func (p Point) Equal(o Point) bool {
	return p.X == o.X && p.Y == o.Y && p.SRID == o.SRID
}

func (p Point) String() string {
	return ewkt(p.Orb(), p.SRID)
}

// WriteEWKB writes the point to w.
func (p Point) WriteEWKB(w io.Writer) error {
	ew := ewkb.NewWriter(w)
	if err := ew.WriteHeader(p.SRID.header(ewkb.TypePoint)); err != nil {
		return err
	}
	return ew.WritePoint(p.Orb())
}

// MarshalEWKB encodes the point.
func (p Point) MarshalEWKB() ([]byte, error) {
	return marshal(p, p.SRID.header(ewkb.TypePoint).Size()+ewkb.PointSize)
}

// UnmarshalEWKB decodes a point. p is left untouched on error.
func (p *Point) UnmarshalEWKB(data []byte) error {
	var out Point
	err := decode(KindPoint, data, func(r *ewkb.Reader, h ewkb.Header) error {
		op, err := r.ReadPoint()
		if err != nil {
			return err
		}
		out = PointFromOrb(op, sridFromHeader(h))
		return nil
	})
	if err != nil {
		return err
	}

	*p = out
	return nil
}

// Scan implements sql.Scanner. A NULL column fails with ErrNullValue.
func (p *Point) Scan(src interface{}) error {
	data, err := scanSource(KindPoint, src)
	if err != nil {
		return err
	}
	return p.UnmarshalEWKB(data)
}

// Value implements driver.Valuer.
func (p Point) Value() (driver.Value, error) {
	return p.MarshalEWKB()
}
