package fgb

import (
	"encoding/binary"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	geography "github.com/tingold/orb-geography"
)

// SRIDColumn is the property column holding each feature's SRID.
const SRIDColumn = "srid"

// newSRIDColumn creates the nullable Int column for feature SRIDs.
func newSRIDColumn(builder *flatbuffers.Builder) *writer.Column {
	col := writer.NewColumn(builder)
	col.SetName(SRIDColumn)
	col.SetTitle(SRIDColumn) // Set title to match name for JS library compatibility
	col.SetType(flattypes.ColumnTypeInt)
	col.SetNullable(true)
	return col
}

// encodeSRID encodes the feature properties for srid.
// The format is: [2-byte column index][value bytes]. An absent SRID is a
// null value and is omitted.
func encodeSRID(srid geography.SRID, colIndex int) []byte {
	if !srid.Valid {
		return nil
	}

	buf := make([]byte, 6)
	binary.LittleEndian.PutUint16(buf[:2], uint16(colIndex))
	binary.LittleEndian.PutUint32(buf[2:], uint32(srid.ID))
	return buf
}

// sridColumnIndex returns the index of the srid column in header, or -1.
func sridColumnIndex(header *flattypes.Header) int {
	for i := 0; i < header.ColumnsLength(); i++ {
		var col flattypes.Column
		if header.Columns(&col, i) && string(col.Name()) == SRIDColumn && col.Type() == flattypes.ColumnTypeInt {
			return i
		}
	}
	return -1
}

// decodeSRID finds the srid value in encoded feature properties. Other
// columns are skipped by their type width.
func decodeSRID(data []byte, header *flattypes.Header, sridIndex int) geography.SRID {
	offset := 0

	for offset+2 <= len(data) {
		colIndex := int(binary.LittleEndian.Uint16(data[offset : offset+2]))
		offset += 2

		var col flattypes.Column
		if colIndex >= header.ColumnsLength() || !header.Columns(&col, colIndex) {
			break
		}

		size := propertySize(data[offset:], col.Type())
		if size < 0 || offset+size > len(data) {
			break
		}

		if colIndex == sridIndex {
			return geography.NewSRID(int32(binary.LittleEndian.Uint32(data[offset : offset+4])))
		}
		offset += size
	}

	return geography.SRID{}
}

// propertySize returns the encoded width of a value of colType at the start
// of data, or -1 when it cannot be determined.
func propertySize(data []byte, colType flattypes.ColumnType) int {
	switch colType {
	case flattypes.ColumnTypeBool, flattypes.ColumnTypeByte, flattypes.ColumnTypeUByte:
		return 1
	case flattypes.ColumnTypeShort, flattypes.ColumnTypeUShort:
		return 2
	case flattypes.ColumnTypeInt, flattypes.ColumnTypeUInt, flattypes.ColumnTypeFloat:
		return 4
	case flattypes.ColumnTypeLong, flattypes.ColumnTypeULong, flattypes.ColumnTypeDouble:
		return 8
	case flattypes.ColumnTypeString, flattypes.ColumnTypeJson, flattypes.ColumnTypeDateTime, flattypes.ColumnTypeBinary:
		// 4-byte length prefix followed by the bytes
		if len(data) < 4 {
			return -1
		}
		return 4 + int(binary.LittleEndian.Uint32(data[:4]))
	default:
		return -1
	}
}
