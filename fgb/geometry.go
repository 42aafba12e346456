package fgb

import (
	"fmt"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/paulmach/orb"
	geography "github.com/tingold/orb-geography"
)

// kindToFGB converts a geography kind to its FlatGeobuf GeometryType.
func kindToFGB(kind geography.Kind) flattypes.GeometryType {
	switch kind {
	case geography.KindPoint:
		return flattypes.GeometryTypePoint
	case geography.KindLineString:
		return flattypes.GeometryTypeLineString
	case geography.KindPolygon:
		return flattypes.GeometryTypePolygon
	case geography.KindMultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// normalize returns geom as one of the value types, dereferencing pointers.
func normalize(geom geography.Geometry) (geography.Geometry, error) {
	switch v := geom.(type) {
	case nil:
		return nil, ErrNilGeometry
	case geography.Point, geography.LineString, geography.Polygon, geography.MultiPolygon:
		return v, nil
	case *geography.Point:
		if v == nil {
			return nil, ErrNilGeometry
		}
		return *v, nil
	case *geography.LineString:
		if v == nil {
			return nil, ErrNilGeometry
		}
		return *v, nil
	case *geography.Polygon:
		if v == nil {
			return nil, ErrNilGeometry
		}
		return *v, nil
	case *geography.MultiPolygon:
		if v == nil {
			return nil, ErrNilGeometry
		}
		return *v, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, geom)
	}
}

// geometryToFGB converts a geography value to a FlatGeobuf writer.Geometry.
func geometryToFGB(geom geography.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	geom, err := normalize(geom)
	if err != nil {
		return nil
	}

	g := writer.NewGeometry(builder)

	switch v := geom.(type) {
	case geography.Point:
		g.SetType(flattypes.GeometryTypePoint)
		g.SetXY([]float64{v.X, v.Y})

	case geography.LineString:
		g.SetType(flattypes.GeometryTypeLineString)
		g.SetXY(pointsToXY(v.Points))

	case geography.Polygon:
		g.SetType(flattypes.GeometryTypePolygon)
		xy, ends := polygonToXYEnds(v)
		g.SetXY(xy)
		g.SetEnds(ends)

	case geography.MultiPolygon:
		g.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, len(v.Polygons))
		for _, poly := range v.Polygons {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := polygonToXYEnds(poly)
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		g.SetParts(parts)

	default:
		return nil
	}

	return g
}

// geometryFromFGB converts a FlatGeobuf geometry to a geography value with
// the given SRID.
func geometryFromFGB(fgbGeom *flattypes.Geometry, srid geography.SRID) (geography.Geometry, error) {
	if fgbGeom == nil {
		return nil, ErrNilGeometry
	}

	switch fgbGeom.Type() {
	case flattypes.GeometryTypePoint:
		if fgbGeom.XyLength() < 2 {
			return nil, fmt.Errorf("%w: point without coordinates", ErrUnsupportedType)
		}
		return geography.PointFromOrb(orb.Point{fgbGeom.Xy(0), fgbGeom.Xy(1)}, srid), nil

	case flattypes.GeometryTypeLineString:
		return geography.LineStringFromOrb(orb.LineString(pointsFromXY(fgbGeom)), srid), nil

	case flattypes.GeometryTypePolygon:
		return geography.PolygonFromOrb(polygonFromXYEnds(fgbGeom), srid), nil

	case flattypes.GeometryTypeMultiPolygon:
		return geography.MultiPolygonFromOrb(multiPolygonFromParts(fgbGeom), srid), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, flattypes.EnumNamesGeometryType[fgbGeom.Type()])
	}
}

// Helper functions for writing

func pointsToXY(points []geography.Point) []float64 {
	xy := make([]float64, 0, len(points)*2)
	for _, p := range points {
		xy = append(xy, p.X, p.Y)
	}
	return xy
}

func polygonToXYEnds(poly geography.Polygon) ([]float64, []uint32) {
	totalPoints := 0
	for _, ring := range poly.Rings {
		totalPoints += len(ring.Points)
	}

	xy := make([]float64, 0, totalPoints*2)
	ends := make([]uint32, 0, len(poly.Rings))

	cumulative := uint32(0)
	for _, ring := range poly.Rings {
		for _, p := range ring.Points {
			xy = append(xy, p.X, p.Y)
		}
		cumulative += uint32(len(ring.Points))
		ends = append(ends, cumulative)
	}

	return xy, ends
}

// Helper functions for reading

func pointsFromXY(fgbGeom *flattypes.Geometry) []orb.Point {
	xyLen := fgbGeom.XyLength()

	points := make([]orb.Point, 0, xyLen/2)
	for i := 0; i+1 < xyLen; i += 2 {
		points = append(points, orb.Point{fgbGeom.Xy(i), fgbGeom.Xy(i + 1)})
	}
	return points
}

func polygonFromXYEnds(fgbGeom *flattypes.Geometry) orb.Polygon {
	xyLen := fgbGeom.XyLength()
	endsLen := fgbGeom.EndsLength()

	if xyLen < 2 {
		return orb.Polygon{}
	}

	// If no ends array, treat all points as a single ring
	if endsLen == 0 {
		return orb.Polygon{orb.Ring(pointsFromXY(fgbGeom))}
	}

	poly := make(orb.Polygon, 0, endsLen)
	start := uint32(0)

	for i := 0; i < endsLen; i++ {
		end := fgbGeom.Ends(i)
		ring := make(orb.Ring, 0, end-start)

		for j := start; j < end; j++ {
			idx := int(j) * 2
			if idx+1 < xyLen {
				ring = append(ring, orb.Point{fgbGeom.Xy(idx), fgbGeom.Xy(idx + 1)})
			}
		}

		poly = append(poly, ring)
		start = end
	}

	return poly
}

func multiPolygonFromParts(fgbGeom *flattypes.Geometry) orb.MultiPolygon {
	partsLen := fgbGeom.PartsLength()
	if partsLen == 0 {
		// Fallback: treat as single polygon
		poly := polygonFromXYEnds(fgbGeom)
		if len(poly) > 0 {
			return orb.MultiPolygon{poly}
		}
		return orb.MultiPolygon{}
	}

	mp := make(orb.MultiPolygon, 0, partsLen)
	for i := 0; i < partsLen; i++ {
		var part flattypes.Geometry
		if fgbGeom.Parts(&part, i) {
			mp = append(mp, polygonFromXYEnds(&part))
		}
	}

	return mp
}
