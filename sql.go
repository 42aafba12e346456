package geography

import (
	"encoding/hex"
	"fmt"
)

// scanSource turns a database/sql source value into raw EWKB. Drivers hand
// geography columns over either as raw bytes or as the hex text PostGIS
// prints; both start with a byte order marker, 0x00/0x01 raw or '0' as text.
func scanSource(kind Kind, src interface{}) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, ErrNullValue
	case []byte:
		if len(v) > 0 && v[0] == '0' {
			return decodeHex(kind, string(v))
		}
		return v, nil
	case string:
		return decodeHex(kind, v)
	default:
		return nil, &DecodeError{Kind: kind, Err: fmt.Errorf("%w: %T", ErrUnsupportedSrc, src)}
	}
}

func decodeHex(kind Kind, s string) ([]byte, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Kind: kind, Err: err}
	}
	return data, nil
}
