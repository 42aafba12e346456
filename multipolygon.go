package geography

import (
	"database/sql/driver"
	"io"

	"github.com/paulmach/orb"
	"github.com/tingold/orb-geography/ewkb"
)

// MultiPolygon is a collection of polygons. Each member carries its own
// optional SRID, written in the member's EWKB header when present. Members
// built by the constructors have no SRID of their own.
type MultiPolygon struct {
	Polygons []Polygon `json:"polygons"`
	SRID     SRID      `json:"srid"`
}

// NewMultiPolygon creates a multi polygon. Member SRIDs are kept as given.
func NewMultiPolygon(srid SRID, polygons ...Polygon) MultiPolygon {
	mp := MultiPolygon{Polygons: make([]Polygon, len(polygons)), SRID: srid}
	copy(mp.Polygons, polygons)
	return mp
}

// MultiPolygonFromOrb converts an orb multi polygon. memberSRIDs optionally
// gives the SRID of each member in order, as returned by MemberSRIDs;
// members past its end have no SRID.
func MultiPolygonFromOrb(mp orb.MultiPolygon, srid SRID, memberSRIDs ...SRID) MultiPolygon {
	polygons := make([]Polygon, len(mp))
	for i, p := range mp {
		var memberSRID SRID
		if i < len(memberSRIDs) {
			memberSRID = memberSRIDs[i]
		}
		polygons[i] = PolygonFromOrb(p, memberSRID)
	}
	return MultiPolygon{Polygons: polygons, SRID: srid}
}

// MemberSRIDs returns the SRID of each member. Together with Orb it is
// enough to rebuild the collection with MultiPolygonFromOrb.
func (mp MultiPolygon) MemberSRIDs() []SRID {
	srids := make([]SRID, len(mp.Polygons))
	for i, p := range mp.Polygons {
		srids[i] = p.SRID
	}
	return srids
}

// Orb returns the collection as an orb multi polygon. Member SRIDs are
// available from MemberSRIDs.
func (mp MultiPolygon) Orb() orb.MultiPolygon {
	out := make(orb.MultiPolygon, len(mp.Polygons))
	for i, p := range mp.Polygons {
		out[i] = p.Orb()
	}
	return out
}

// OrbGeometry returns the collection as an orb geometry.
func (mp MultiPolygon) OrbGeometry() orb.Geometry {
	return mp.Orb()
}

func (mp MultiPolygon) Kind() Kind {
	return KindMultiPolygon
}

func (mp MultiPolygon) SpatialRef() SRID {
	return mp.SRID
}

// Equal reports whether both collections have the same members, member
// SRIDs and SRID.
func (mp MultiPolygon) Equal(o MultiPolygon) bool {
	if mp.SRID != o.SRID || len(mp.Polygons) != len(o.Polygons) {
		return false
	}
	for i := range mp.Polygons {
		if !mp.Polygons[i].Equal(o.Polygons[i]) {
			return false
		}
	}
	return true
}

func (mp MultiPolygon) String() string {
	return ewkt(mp.Orb(), mp.SRID)
}

// parts builds the member encodings. A member header names an SRID exactly
// when the member has one.
func (mp MultiPolygon) parts() []ewkb.PolygonPart {
	parts := make([]ewkb.PolygonPart, len(mp.Polygons))
	for i, p := range mp.Polygons {
		parts[i] = ewkb.PolygonPart{Header: p.SRID.header(ewkb.TypePolygon), Polygon: p.Orb()}
	}
	return parts
}

// WriteEWKB writes the collection to w.
func (mp MultiPolygon) WriteEWKB(w io.Writer) error {
	ew := ewkb.NewWriter(w)
	if err := ew.WriteHeader(mp.SRID.header(ewkb.TypeMultiPolygon)); err != nil {
		return err
	}
	return ew.WriteMultiPolygon(mp.parts())
}

// MarshalEWKB encodes the collection.
func (mp MultiPolygon) MarshalEWKB() ([]byte, error) {
	size := mp.SRID.header(ewkb.TypeMultiPolygon).Size() + ewkb.CountSize
	for _, p := range mp.Polygons {
		size += p.SRID.header(ewkb.TypePolygon).Size() + ewkb.PolygonSize(p.Orb())
	}
	return marshal(mp, size)
}

// UnmarshalEWKB decodes a multi polygon. Members without an SRID in their own
// header have none. mp is left untouched on error.
func (mp *MultiPolygon) UnmarshalEWKB(data []byte) error {
	var out MultiPolygon
	err := decode(KindMultiPolygon, data, func(r *ewkb.Reader, h ewkb.Header) error {
		parts, err := r.ReadMultiPolygon()
		if err != nil {
			return err
		}

		out = MultiPolygon{Polygons: make([]Polygon, len(parts)), SRID: sridFromHeader(h)}
		for i, part := range parts {
			out.Polygons[i] = PolygonFromOrb(part.Polygon, sridFromHeader(part.Header))
		}
		return nil
	})
	if err != nil {
		return err
	}

	*mp = out
	return nil
}

// Scan implements sql.Scanner. A NULL column fails with ErrNullValue.
func (mp *MultiPolygon) Scan(src interface{}) error {
	data, err := scanSource(KindMultiPolygon, src)
	if err != nil {
		return err
	}
	return mp.UnmarshalEWKB(data)
}

// Value implements driver.Valuer.
func (mp MultiPolygon) Value() (driver.Value, error) {
	return mp.MarshalEWKB()
}
