// Package ewkb reads and writes the Extended Well-Known Binary encoding used
// by PostGIS for geometry and geography values.
//
// Coordinates are exchanged as orb values. The optional SRID travels in a
// Header, so an absent SRID and an SRID of zero stay distinguishable.
package ewkb

import (
	"errors"

	"github.com/paulmach/orb"
)

// Geometry type codes, the low bits of the tag word.
const (
	TypePoint              uint32 = 1
	TypeLineString         uint32 = 2
	TypePolygon            uint32 = 3
	TypeMultiPoint         uint32 = 4
	TypeMultiLineString    uint32 = 5
	TypeMultiPolygon       uint32 = 6
	TypeGeometryCollection uint32 = 7
)

// Flags carried in the high bits of the tag word.
const (
	flagZ    uint32 = 0x80000000
	flagM    uint32 = 0x40000000
	flagSRID uint32 = 0x20000000
	typeMask uint32 = 0x0fffffff
)

// Byte order markers.
const (
	BigEndian    byte = 0x00
	LittleEndian byte = 0x01
)

// Sizes of the fixed parts of an encoding, in bytes.
const (
	HeaderSize = 5 // byte order marker + tag word
	SRIDSize   = 4
	CountSize  = 4
	PointSize  = 16
)

// maxPrealloc bounds slice preallocation from counts read off the wire.
const maxPrealloc = 1024

// Common errors returned by this package.
var (
	ErrByteOrder            = errors.New("ewkb: invalid byte order marker")
	ErrUnsupportedType      = errors.New("ewkb: unsupported geometry type")
	ErrUnsupportedDimension = errors.New("ewkb: only 2D geometries are supported")
	ErrUnexpectedType       = errors.New("ewkb: unexpected member geometry type")
	ErrNonFinite            = errors.New("ewkb: coordinate is NaN or infinite")
)

// Header is the leading section of every encoded geometry.
type Header struct {
	Type    uint32 // geometry type code, flags stripped
	SRID    int32  // meaningful only when HasSRID is set
	HasSRID bool
}

// Size returns the encoded length of the header.
func (h Header) Size() int {
	if h.HasSRID {
		return HeaderSize + SRIDSize
	}
	return HeaderSize
}

// tag returns the tag word for the header.
func (h Header) tag() uint32 {
	t := h.Type & typeMask
	if h.HasSRID {
		t |= flagSRID
	}
	return t
}

// TypeName returns the name of a geometry type code.
func TypeName(t uint32) string {
	switch t {
	case TypePoint:
		return "Point"
	case TypeLineString:
		return "LineString"
	case TypePolygon:
		return "Polygon"
	case TypeMultiPoint:
		return "MultiPoint"
	case TypeMultiLineString:
		return "MultiLineString"
	case TypeMultiPolygon:
		return "MultiPolygon"
	case TypeGeometryCollection:
		return "GeometryCollection"
	default:
		return "Unknown"
	}
}

func supported(t uint32) bool {
	switch t {
	case TypePoint, TypeLineString, TypePolygon, TypeMultiPolygon:
		return true
	}
	return false
}

// PolygonPart is one member of a MultiPolygon together with its own header.
// The member header carries an SRID only when the member overrides the
// collection's.
type PolygonPart struct {
	Header  Header
	Polygon orb.Polygon
}
