package fgb

import (
	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
	geography "github.com/tingold/orb-geography"
)

// Reader provides read access to a FlatGeobuf file.
type Reader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// NewReader creates a reader from a file path.
// The file is memory-mapped for efficient access.
func NewReader(path string) (*Reader, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// NewReaderFromData creates a reader from byte data.
func NewReaderFromData(data []byte) (*Reader, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// Header returns metadata about the FlatGeobuf file.
func (r *Reader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		Description:   string(h.Description()),
		GeometryType:  flattypes.EnumNamesGeometryType[h.GeometryType()],
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
		CRS:           headerCRS(h),
	}

	if h.EnvelopeLength() >= 4 {
		header.Envelope = [4]float64{
			h.Envelope(0),
			h.Envelope(1),
			h.Envelope(2),
			h.Envelope(3),
		}
	}

	colLen := h.ColumnsLength()
	if colLen > 0 {
		header.Columns = make([]ColumnInfo, 0, colLen)
		for i := 0; i < colLen; i++ {
			var col flattypes.Column
			if h.Columns(&col, i) {
				header.Columns = append(header.Columns, ColumnInfo{
					Name:     string(col.Name()),
					Type:     flattypes.EnumNamesColumnType[col.Type()],
					Nullable: col.Nullable(),
				})
			}
		}
	}

	return header
}

func headerCRS(h *flattypes.Header) *CRS {
	var crs flattypes.Crs
	if h.Crs(&crs) == nil {
		return nil
	}
	return &CRS{
		Code:        int(crs.Code()),
		Name:        string(crs.Name()),
		Description: string(crs.Description()),
	}
}

// ReadAll reads every feature. It needs the spatial index, as the
// underlying library only iterates features through an index search.
func (r *Reader) ReadAll() ([]geography.Geometry, error) {
	h := r.fgb.Header()

	if h.FeaturesCount() == 0 {
		return []geography.Geometry{}, nil
	}
	if h.IndexNodeSize() == 0 || h.EnvelopeLength() < 4 {
		return nil, ErrNoIndex
	}

	return r.search(h, h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3))
}

// Search performs a spatial query using the built-in index.
// Returns values whose bounding boxes intersect the query bounds.
func (r *Reader) Search(bounds orb.Bound) ([]geography.Geometry, error) {
	h := r.fgb.Header()

	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}

	return r.search(h, bounds.Min[0], bounds.Min[1], bounds.Max[0], bounds.Max[1])
}

func (r *Reader) search(h *flattypes.Header, minX, minY, maxX, maxY float64) ([]geography.Geometry, error) {
	features, err := r.fgb.Search(minX, minY, maxX, maxY)
	if err != nil {
		return nil, err
	}

	defaultSRID := headerCRS(h).SRID()
	sridIndex := sridColumnIndex(h)

	geometries := make([]geography.Geometry, 0, len(features))
	for _, fgbFeature := range features {
		g, err := convertFeature(fgbFeature, h, sridIndex, defaultSRID)
		if err != nil {
			return nil, err
		}
		geometries = append(geometries, g)
	}

	return geometries, nil
}

// Close releases resources associated with the reader.
func (r *Reader) Close() error {
	// The FlatGeoBuf type doesn't expose a public Close method,
	// but the finalizer will clean up when garbage collected.
	r.fgb = nil
	return nil
}

// convertFeature converts a FlatGeobuf feature to a geography value. The
// srid column wins over the header CRS; a file without the column takes the
// CRS code for every feature.
func convertFeature(fgbFeature *flattypes.Feature, header *flattypes.Header, sridIndex int, defaultSRID geography.SRID) (geography.Geometry, error) {
	if fgbFeature == nil {
		return nil, ErrNilGeometry
	}

	srid := defaultSRID
	if sridIndex >= 0 {
		propsLen := fgbFeature.PropertiesLength()
		propsBytes := make([]byte, propsLen)
		for i := 0; i < propsLen; i++ {
			propsBytes[i] = byte(fgbFeature.Properties(i))
		}
		srid = decodeSRID(propsBytes, header, sridIndex)
	}

	var geomObj flattypes.Geometry
	return geometryFromFGB(fgbFeature.Geometry(&geomObj), srid)
}
