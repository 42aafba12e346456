// Package fgb exports geography values to FlatGeobuf files and imports them
// back. The SRID of every feature is kept in a nullable "srid" column, and
// the header CRS carries the SRID shared by all features when there is one.
package fgb

import (
	"errors"

	geography "github.com/tingold/orb-geography"
)

// Common errors returned by this package.
var (
	ErrNoGeometries    = errors.New("fgb: no geometries to write")
	ErrNilGeometry     = errors.New("fgb: nil geometry")
	ErrUnsupportedType = errors.New("fgb: unsupported geometry type")
	ErrNoIndex         = errors.New("fgb: file has no spatial index")
)

// CRS represents a coordinate reference system.
type CRS struct {
	Code        int    // EPSG code (e.g., 4326 for WGS84)
	Name        string // CRS name
	Description string // CRS description
	WKT         string // Well-Known Text representation
}

// WGS84 returns the standard WGS84 CRS (EPSG:4326).
func WGS84() *CRS {
	return &CRS{
		Code: 4326,
		Name: "WGS 84",
	}
}

// CRSFromSRID returns the EPSG CRS named by srid, or nil when srid is absent
// or not a positive code.
func CRSFromSRID(srid geography.SRID) *CRS {
	if !srid.Valid || srid.ID <= 0 {
		return nil
	}
	if srid == geography.WGS84() {
		return WGS84()
	}
	return &CRS{Code: int(srid.ID)}
}

// SRID returns the SRID named by the CRS code.
func (c *CRS) SRID() geography.SRID {
	if c == nil || c.Code <= 0 {
		return geography.SRID{}
	}
	return geography.NewSRID(int32(c.Code))
}

// Options configures FlatGeobuf writing.
type Options struct {
	Name         string // Layer name
	Description  string // Layer description
	IncludeIndex bool   // Include spatial index (default: true)
	CRS          *CRS   // Coordinate reference system; derived from the shared SRID when nil
}

// DefaultOptions returns default options for writing FlatGeobuf files.
func DefaultOptions() *Options {
	return &Options{
		IncludeIndex: true,
	}
}

// ColumnInfo describes a property column in a FlatGeobuf file.
type ColumnInfo struct {
	Name     string // Column name
	Type     string // Column type ("Int", "Double", "String", etc.)
	Nullable bool   // Whether the column can contain null values
}

// Header contains metadata about a FlatGeobuf file.
type Header struct {
	Name          string       // Layer name
	Description   string       // Layer description
	GeometryType  string       // Geometry type ("Point", "Polygon", "Unknown", etc.)
	FeaturesCount uint64       // Number of features in the file
	Envelope      [4]float64   // Bounding box [minX, minY, maxX, maxY]
	CRS           *CRS         // Coordinate reference system
	HasIndex      bool         // Whether the file has a spatial index
	Columns       []ColumnInfo // Property column schema
}
