package geography

import (
	"database/sql/driver"
	"io"

	"github.com/paulmach/orb"
	"github.com/tingold/orb-geography/ewkb"
)

// Polygon is a geography polygon. The first ring is the exterior boundary,
// the rest are holes. Rings should be closed.
type Polygon struct {
	Rings []LineString `json:"rings"`
	SRID  SRID         `json:"srid"`
}

// NewPolygon creates a polygon. Every ring and point takes the polygon's
// SRID.
func NewPolygon(srid SRID, rings ...LineString) Polygon {
	poly := Polygon{Rings: make([]LineString, len(rings)), SRID: srid}
	for i, r := range rings {
		poly.Rings[i] = NewLineString(srid, r.Points...)
	}
	return poly
}

// PolygonFromOrb converts an orb polygon.
func PolygonFromOrb(p orb.Polygon, srid SRID) Polygon {
	rings := make([]LineString, len(p))
	for i, r := range p {
		rings[i] = LineString{Points: pointsFromOrb(r, srid), SRID: srid}
	}
	return Polygon{Rings: rings, SRID: srid}
}

// Orb returns the polygon as an orb polygon.
func (p Polygon) Orb() orb.Polygon {
	poly := make(orb.Polygon, len(p.Rings))
	for i, r := range p.Rings {
		poly[i] = orb.Ring(pointsToOrb(r.Points))
	}
	return poly
}

// OrbGeometry returns the polygon as an orb geometry.
func (p Polygon) OrbGeometry() orb.Geometry {
	return p.Orb()
}

func (p Polygon) Kind() Kind {
	return KindPolygon
}

func (p Polygon) SpatialRef() SRID {
	return p.SRID
}

// Equal reports whether both polygons have the same rings and SRID.
func (p Polygon) Equal(o Polygon) bool {
	return p.SRID == o.SRID && p.Orb().Equal(o.Orb())
}

func (p Polygon) String() string {
	return ewkt(p.Orb(), p.SRID)
}

// WriteEWKB writes the polygon to w. Rings are encoded without headers.
func (p Polygon) WriteEWKB(w io.Writer) error {
	ew := ewkb.NewWriter(w)
	if err := ew.WriteHeader(p.SRID.header(ewkb.TypePolygon)); err != nil {
		return err
	}
	return ew.WritePolygon(p.Orb())
}

// MarshalEWKB encodes the polygon.
func (p Polygon) MarshalEWKB() ([]byte, error) {
	poly := p.Orb()
	return marshal(p, p.SRID.header(ewkb.TypePolygon).Size()+ewkb.PolygonSize(poly))
}

// UnmarshalEWKB decodes a polygon. p is left untouched on error.
func (p *Polygon) UnmarshalEWKB(data []byte) error {
	var out Polygon
	err := decode(KindPolygon, data, func(r *ewkb.Reader, h ewkb.Header) error {
		op, err := r.ReadPolygon()
		if err != nil {
			return err
		}
		out = PolygonFromOrb(op, sridFromHeader(h))
		return nil
	})
	if err != nil {
		return err
	}

	*p = out
	return nil
}

// Scan implements sql.Scanner. A NULL column fails with ErrNullValue.
func (p *Polygon) Scan(src interface{}) error {
	data, err := scanSource(KindPolygon, src)
	if err != nil {
		return err
	}
	return p.UnmarshalEWKB(data)
}

// Value implements driver.Valuer.
func (p Polygon) Value() (driver.Value, error) {
	return p.MarshalEWKB()
}
