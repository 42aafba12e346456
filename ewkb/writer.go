package ewkb

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/paulmach/orb"
)

// Writer encodes EWKB values onto an underlying sink. Errors from the sink
// are returned unchanged.
type Writer struct {
	w      io.Writer
	order  binary.ByteOrder
	marker byte
	buf    [8]byte
}

// NewWriter creates a little-endian writer over w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, order: binary.LittleEndian, marker: LittleEndian}
}

// SetByteOrder switches the byte order used for everything written after
// the call.
func (w *Writer) SetByteOrder(order binary.ByteOrder) {
	w.order = order
	if order == binary.BigEndian {
		w.marker = BigEndian
	} else {
		w.marker = LittleEndian
	}
}

func (w *Writer) writeUint32(v uint32) error {
	w.order.PutUint32(w.buf[:4], v)
	_, err := w.w.Write(w.buf[:4])
	return err
}

func (w *Writer) writeFloat(v float64) error {
	w.order.PutUint64(w.buf[:8], math.Float64bits(v))
	_, err := w.w.Write(w.buf[:8])
	return err
}

// WriteHeader writes the byte order marker, the tag word and, when present,
// the SRID.
func (w *Writer) WriteHeader(h Header) error {
	w.buf[0] = w.marker
	if _, err := w.w.Write(w.buf[:1]); err != nil {
		return err
	}
	if err := w.writeUint32(h.tag()); err != nil {
		return err
	}
	if h.HasSRID {
		return w.writeUint32(uint32(h.SRID))
	}
	return nil
}

// WriteCount writes a point, ring or member count.
func (w *Writer) WriteCount(n int) error {
	return w.writeUint32(uint32(n))
}

// WritePoint writes a point payload, x then y. NaN and infinite coordinates
// fail with ErrNonFinite before anything is written.
func (w *Writer) WritePoint(p orb.Point) error {
	if !finite(p[0]) || !finite(p[1]) {
		return fmt.Errorf("%w: (%v %v)", ErrNonFinite, p[0], p[1])
	}
	if err := w.writeFloat(p[0]); err != nil {
		return err
	}
	return w.writeFloat(p[1])
}

func (w *Writer) writePoints(points []orb.Point) error {
	if err := w.WriteCount(len(points)); err != nil {
		return err
	}
	for _, p := range points {
		if err := w.WritePoint(p); err != nil {
			return err
		}
	}
	return nil
}

// WriteLineString writes a line string payload.
func (w *Writer) WriteLineString(ls orb.LineString) error {
	return w.writePoints(ls)
}

// WritePolygon writes a polygon payload.
func (w *Writer) WritePolygon(poly orb.Polygon) error {
	if err := w.WriteCount(len(poly)); err != nil {
		return err
	}
	for _, ring := range poly {
		if err := w.writePoints(ring); err != nil {
			return err
		}
	}
	return nil
}

// WriteMultiPolygon writes a multi polygon payload, each member with its own
// polygon header.
func (w *Writer) WriteMultiPolygon(parts []PolygonPart) error {
	if err := w.WriteCount(len(parts)); err != nil {
		return err
	}
	for _, part := range parts {
		h := part.Header
		h.Type = TypePolygon
		if err := w.WriteHeader(h); err != nil {
			return err
		}
		if err := w.WritePolygon(part.Polygon); err != nil {
			return err
		}
	}
	return nil
}

// LineStringSize returns the payload length of a line string.
func LineStringSize(ls orb.LineString) int {
	return CountSize + len(ls)*PointSize
}

// PolygonSize returns the payload length of a polygon.
func PolygonSize(poly orb.Polygon) int {
	size := CountSize
	for _, ring := range poly {
		size += CountSize + len(ring)*PointSize
	}
	return size
}
