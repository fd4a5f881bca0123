package guidedsection

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// GUIDLen is the encoded size of a format GUID in a section header or a
// registry backing block.
const GUIDLen = 16

// EncodeGUID serializes a GUID in firmware wire order: the first three
// groups little-endian, the final eight bytes as-is. This differs from the
// big-endian RFC 4122 order uuid.UUID uses in memory.
func EncodeGUID(g uuid.UUID) []byte {
	b := make([]byte, GUIDLen)
	putGUID(b, g)
	return b
}

// putGUID writes g in wire order into dst, which must hold GUIDLen bytes.
func putGUID(dst []byte, g uuid.UUID) {
	binary.LittleEndian.PutUint32(dst[0:4], binary.BigEndian.Uint32(g[0:4]))
	binary.LittleEndian.PutUint16(dst[4:6], binary.BigEndian.Uint16(g[4:6]))
	binary.LittleEndian.PutUint16(dst[6:8], binary.BigEndian.Uint16(g[6:8]))
	copy(dst[8:16], g[8:16])
}

// DecodeGUID parses a firmware wire-order GUID.
func DecodeGUID(b []byte) (uuid.UUID, error) {
	if len(b) < GUIDLen {
		return uuid.Nil, fmt.Errorf("%w: guid needs %d bytes, have %d", ErrInvalidParameter, GUIDLen, len(b))
	}
	var g uuid.UUID
	binary.BigEndian.PutUint32(g[0:4], binary.LittleEndian.Uint32(b[0:4]))
	binary.BigEndian.PutUint16(g[4:6], binary.LittleEndian.Uint16(b[4:6]))
	binary.BigEndian.PutUint16(g[6:8], binary.LittleEndian.Uint16(b[6:8]))
	copy(g[8:16], b[8:16])
	return g, nil
}
