package ewkb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/paulmach/orb"
)

// Reader decodes EWKB values from an underlying stream. The byte order is
// taken from the most recent header read, so nested members may use a
// different order than their parent.
type Reader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

// NewReader creates a reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, order: binary.LittleEndian}
}

// read fills n bytes of the scratch buffer. A stream that ends part way
// through a value is reported as io.ErrUnexpectedEOF.
func (r *Reader) read(n int) ([]byte, error) {
	if _, err := io.ReadFull(r.r, r.buf[:n]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return r.buf[:n], nil
}

func (r *Reader) readUint32() (uint32, error) {
	b, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *Reader) readFloat() (float64, error) {
	b, err := r.read(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(r.order.Uint64(b)), nil
}

// ReadHeader reads a byte order marker, the tag word and the SRID when the
// tag says one follows.
func (r *Reader) ReadHeader() (Header, error) {
	b, err := r.read(1)
	if err != nil {
		return Header{}, err
	}

	switch b[0] {
	case LittleEndian:
		r.order = binary.LittleEndian
	case BigEndian:
		r.order = binary.BigEndian
	default:
		return Header{}, fmt.Errorf("%w: 0x%02x", ErrByteOrder, b[0])
	}

	tag, err := r.readUint32()
	if err != nil {
		return Header{}, err
	}
	if tag&(flagZ|flagM) != 0 {
		return Header{}, ErrUnsupportedDimension
	}

	h := Header{Type: tag & typeMask}
	if !supported(h.Type) {
		return h, fmt.Errorf("%w: %d", ErrUnsupportedType, h.Type)
	}

	if tag&flagSRID != 0 {
		srid, err := r.readUint32()
		if err != nil {
			return h, err
		}
		h.SRID = int32(srid)
		h.HasSRID = true
	}

	return h, nil
}

// ReadCount reads a point, ring or member count.
func (r *Reader) ReadCount() (int, error) {
	n, err := r.readUint32()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// ReadPoint reads a point payload. NaN and infinite coordinates fail with
// ErrNonFinite.
func (r *Reader) ReadPoint() (orb.Point, error) {
	x, err := r.readFloat()
	if err != nil {
		return orb.Point{}, err
	}
	y, err := r.readFloat()
	if err != nil {
		return orb.Point{}, err
	}
	if !finite(x) || !finite(y) {
		return orb.Point{}, fmt.Errorf("%w: (%v %v)", ErrNonFinite, x, y)
	}
	return orb.Point{x, y}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (r *Reader) readPoints() ([]orb.Point, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}

	points := make([]orb.Point, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		p, err := r.ReadPoint()
		if err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, nil
}

// ReadLineString reads a line string payload.
func (r *Reader) ReadLineString() (orb.LineString, error) {
	points, err := r.readPoints()
	if err != nil {
		return nil, err
	}
	return orb.LineString(points), nil
}

// ReadPolygon reads a polygon payload. Rings carry no header of their own.
func (r *Reader) ReadPolygon() (orb.Polygon, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}

	poly := make(orb.Polygon, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		points, err := r.readPoints()
		if err != nil {
			return nil, err
		}
		poly = append(poly, orb.Ring(points))
	}
	return poly, nil
}

// ReadMultiPolygon reads a multi polygon payload. Every member is a complete
// polygon encoding with its own header.
func (r *Reader) ReadMultiPolygon() ([]PolygonPart, error) {
	n, err := r.ReadCount()
	if err != nil {
		return nil, err
	}

	parts := make([]PolygonPart, 0, min(n, maxPrealloc))
	for i := 0; i < n; i++ {
		h, err := r.ReadHeader()
		if err != nil {
			return nil, err
		}
		if h.Type != TypePolygon {
			return nil, fmt.Errorf("%w: %s in MultiPolygon", ErrUnexpectedType, TypeName(h.Type))
		}

		poly, err := r.ReadPolygon()
		if err != nil {
			return nil, err
		}
		parts = append(parts, PolygonPart{Header: h, Polygon: poly})
	}
	return parts, nil
}
