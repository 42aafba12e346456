package fgb

import (
	"fmt"
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	geography "github.com/tingold/orb-geography"
)

// Write writes geography values to FlatGeobuf format. Pointers to the value
// types are accepted; any other Geometry fails with ErrUnsupportedType before
// anything is written. When opts.CRS is nil and every value shares one
// positive SRID, that SRID becomes the header CRS.
func Write(w io.Writer, geometries []geography.Geometry, opts *Options) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	if len(geometries) == 0 {
		return ErrNoGeometries
	}

	values := make([]geography.Geometry, len(geometries))
	for i, g := range geometries {
		v, err := normalize(g)
		if err != nil {
			return fmt.Errorf("geometry %d: %w", i, err)
		}
		values[i] = v
	}
	geometries = values

	// Determine geometry type from first geometry
	geomType := kindToFGB(geometries[0].Kind())

	// Check if all geometries are the same type
	for _, g := range geometries[1:] {
		if kindToFGB(g.Kind()) != geomType {
			geomType = flattypes.GeometryTypeUnknown
			break
		}
	}

	crs := opts.CRS
	if crs == nil {
		crs = CRSFromSRID(sharedSRID(geometries))
	}

	builder := flatbuffers.NewBuilder(4096)

	// Create header
	header := writer.NewHeader(builder)
	header.SetGeometryType(geomType)

	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}

	header.SetColumns([]*writer.Column{newSRIDColumn(builder)})

	if crs != nil {
		fgbCrs := writer.NewCrs(builder)
		fgbCrs.SetOrg("EPSG") // Default organization
		if crs.Code > 0 {
			fgbCrs.SetCode(int32(crs.Code))
		}
		if crs.Name != "" {
			fgbCrs.SetName(crs.Name)
		}
		if crs.Description != "" {
			fgbCrs.SetDescription(crs.Description)
		}
		// WKT can be stored in description if needed
		if crs.WKT != "" && crs.Description == "" {
			fgbCrs.SetDescription(crs.WKT)
		}
		header.SetCrs(fgbCrs)
	}

	gen := &geometryFeatureGenerator{geometries: geometries}

	// Create writer with or without index
	fgbWriter := writer.NewWriter(header, opts.IncludeIndex, gen, nil)

	_, err := fgbWriter.Write(w)
	return err
}

// sharedSRID returns the SRID common to all geometries, or an absent SRID.
func sharedSRID(geometries []geography.Geometry) geography.SRID {
	srid := geometries[0].SpatialRef()
	for _, g := range geometries[1:] {
		if g.SpatialRef() != srid {
			return geography.SRID{}
		}
	}
	return srid
}

// geometryFeatureGenerator generates one feature per geography value, with
// the value's SRID in the srid column.
type geometryFeatureGenerator struct {
	geometries []geography.Geometry
	index      int
}

func (g *geometryFeatureGenerator) Generate() *writer.Feature {
	if g.index >= len(g.geometries) {
		return nil
	}

	geom := g.geometries[g.index]
	g.index++

	builder := flatbuffers.NewBuilder(1024)
	fgbGeom := geometryToFGB(geom, builder)

	feature := writer.NewFeature(builder)
	feature.SetGeometry(fgbGeom)

	if props := encodeSRID(geom.SpatialRef(), 0); len(props) > 0 {
		feature.SetProperties(props)
	}

	return feature
}
