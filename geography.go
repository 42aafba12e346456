// Package geography provides PostGIS geography values for the orb geometry
// library. Points, line strings, polygons and multi polygons are encoded to
// and decoded from Extended Well-Known Binary (EWKB), converted to and from
// orb geometries, and bound to database/sql columns.
//
// Every value carries an optional SRID. An absent SRID stays absent through
// every conversion; it never turns into zero.
package geography

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/tingold/orb-geography/ewkb"
)

// Common errors returned by this package.
var (
	ErrNullValue      = errors.New("geography: unexpected NULL value")
	ErrEmptyInput     = errors.New("geography: empty input")
	ErrKindMismatch   = errors.New("geography: geometry kind mismatch")
	ErrTrailingData   = errors.New("geography: trailing data after geometry")
	ErrUnsupported    = errors.New("geography: unsupported geometry")
	ErrUnsupportedSrc = errors.New("geography: unsupported scan source")
)

// DecodeError reports bytes that are not a valid encoding of the requested
// geometry kind. Err holds the underlying cause.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Kind == 0 {
		return "geography: decode: " + e.Err.Error()
	}
	return "geography: decode " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Kind identifies a geometry variant. Values match the EWKB type codes.
type Kind uint32

const (
	KindPoint        = Kind(ewkb.TypePoint)
	KindLineString   = Kind(ewkb.TypeLineString)
	KindPolygon      = Kind(ewkb.TypePolygon)
	KindMultiPolygon = Kind(ewkb.TypeMultiPolygon)
)

func (k Kind) String() string {
	return ewkb.TypeName(uint32(k))
}

// SRID is an optional spatial reference identifier.
type SRID struct {
	ID    int32
	Valid bool // Valid is true if ID is set
}

// NewSRID returns a present SRID.
func NewSRID(id int32) SRID {
	return SRID{ID: id, Valid: true}
}

// WGS84 returns the geographic lat/lng SRID (EPSG:4326).
func WGS84() SRID {
	return NewSRID(4326)
}

func (s SRID) String() string {
	if !s.Valid {
		return "none"
	}
	return strconv.FormatInt(int64(s.ID), 10)
}

// MarshalJSON encodes an absent SRID as null.
func (s SRID) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(s.ID), 10), nil
}

// UnmarshalJSON decodes null as an absent SRID.
func (s *SRID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = SRID{}
		return nil
	}

	var id int32
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	*s = NewSRID(id)
	return nil
}

func (s SRID) header(typ uint32) ewkb.Header {
	return ewkb.Header{Type: typ, SRID: s.ID, HasSRID: s.Valid}
}

func sridFromHeader(h ewkb.Header) SRID {
	if !h.HasSRID {
		return SRID{}
	}
	return NewSRID(h.SRID)
}

// Encodable is implemented by values that write themselves as EWKB.
type Encodable interface {
	MarshalEWKB() ([]byte, error)
	WriteEWKB(w io.Writer) error
}

// Decodable is implemented by values that read themselves from EWKB.
type Decodable interface {
	UnmarshalEWKB(data []byte) error
}

// Geometry is implemented by Point, LineString, Polygon and MultiPolygon.
type Geometry interface {
	Encodable
	Kind() Kind
	SpatialRef() SRID
	OrbGeometry() orb.Geometry
}

var (
	_ Geometry = Point{}
	_ Geometry = LineString{}
	_ Geometry = Polygon{}
	_ Geometry = MultiPolygon{}

	_ Decodable = (*Point)(nil)
	_ Decodable = (*LineString)(nil)
	_ Decodable = (*Polygon)(nil)
	_ Decodable = (*MultiPolygon)(nil)
)

// marshal encodes e into a fresh buffer of the given size hint.
func marshal(e Encodable, size int) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, size))
	if err := e.WriteEWKB(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decode reads one geometry of the given kind from data. Anything left over
// after the geometry is an error.
func decode(kind Kind, data []byte, fn func(r *ewkb.Reader, h ewkb.Header) error) error {
	if len(data) == 0 {
		return &DecodeError{Kind: kind, Err: ErrEmptyInput}
	}

	br := bytes.NewReader(data)
	r := ewkb.NewReader(br)

	h, err := r.ReadHeader()
	if err != nil {
		return &DecodeError{Kind: kind, Err: err}
	}
	if Kind(h.Type) != kind {
		return &DecodeError{Kind: kind, Err: fmt.Errorf("%w: found %s", ErrKindMismatch, Kind(h.Type))}
	}

	if err := fn(r, h); err != nil {
		return &DecodeError{Kind: kind, Err: err}
	}

	if br.Len() > 0 {
		return &DecodeError{Kind: kind, Err: fmt.Errorf("%w: %d bytes", ErrTrailingData, br.Len())}
	}
	return nil
}

// PeekKind returns the geometry kind named by the header of data without
// decoding the payload.
func PeekKind(data []byte) (Kind, error) {
	if len(data) == 0 {
		return 0, &DecodeError{Err: ErrEmptyInput}
	}

	h, err := ewkb.NewReader(bytes.NewReader(data)).ReadHeader()
	if err != nil {
		return 0, &DecodeError{Err: err}
	}
	return Kind(h.Type), nil
}

// Decode decodes data into whichever geometry kind its header names.
func Decode(data []byte) (Geometry, error) {
	kind, err := PeekKind(data)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindPoint:
		var p Point
		if err := p.UnmarshalEWKB(data); err != nil {
			return nil, err
		}
		return p, nil
	case KindLineString:
		var ls LineString
		if err := ls.UnmarshalEWKB(data); err != nil {
			return nil, err
		}
		return ls, nil
	case KindPolygon:
		var poly Polygon
		if err := poly.UnmarshalEWKB(data); err != nil {
			return nil, err
		}
		return poly, nil
	case KindMultiPolygon:
		var mp MultiPolygon
		if err := mp.UnmarshalEWKB(data); err != nil {
			return nil, err
		}
		return mp, nil
	default:
		return nil, &DecodeError{Kind: kind, Err: ErrUnsupported}
	}
}

// FromOrb wraps an orb geometry with the given SRID. orb.Ring is accepted as
// a single ring polygon.
func FromOrb(g orb.Geometry, srid SRID) (Geometry, error) {
	switch v := g.(type) {
	case orb.Point:
		return PointFromOrb(v, srid), nil
	case orb.LineString:
		return LineStringFromOrb(v, srid), nil
	case orb.Ring:
		return PolygonFromOrb(orb.Polygon{v}, srid), nil
	case orb.Polygon:
		return PolygonFromOrb(v, srid), nil
	case orb.MultiPolygon:
		return MultiPolygonFromOrb(v, srid), nil
	case nil:
		return nil, ErrUnsupported
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, g.GeoJSONType())
	}
}

// ewkt renders g in the PostGIS extended WKT form.
func ewkt(g orb.Geometry, srid SRID) string {
	if !srid.Valid {
		return wkt.MarshalString(g)
	}
	return "SRID=" + srid.String() + ";" + wkt.MarshalString(g)
}
