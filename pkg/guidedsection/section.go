package guidedsection

import (
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

// SectionTypeGUIDDefined is the section type byte of a GUID-defined section.
const SectionTypeGUIDDefined = 0x02

// maxSize24 is the ceiling of the 3-byte size field. A header carrying it
// uses the extended large-section form with a 4-byte size.
const maxSize24 = 0xFFFFFF

// Header lengths and field offsets of the two header forms.
const (
	stdHeaderLen = 24 // GUID at 4, data offset at 20, attributes at 22
	extHeaderLen = 28 // GUID at 8, data offset at 24, attributes at 26
)

// SectionAttributes are the attribute bits of a GUID-defined section.
type SectionAttributes uint16

const (
	// AttrProcessingRequired marks sections whose payload must be decoded
	// before use.
	AttrProcessingRequired SectionAttributes = 0x01

	// AttrAuthStatusValid marks sections whose decode handler produces a
	// meaningful authentication status.
	AttrAuthStatusValid SectionAttributes = 0x02
)

// AuthStatus is the authentication outcome bitfield of a decode operation.
type AuthStatus uint32

const (
	// AuthPlatformOverride is set by a decode handler when the section was
	// decoded through an unauthenticated or platform-override path.
	AuthPlatformOverride AuthStatus = 0x01

	// AuthImageSigned indicates the section carried a signature.
	AuthImageSigned AuthStatus = 0x02

	// AuthNotTested indicates no authentication was attempted.
	AuthNotTested AuthStatus = 0x04

	// AuthTestFailed indicates authentication was attempted and failed.
	AuthTestFailed AuthStatus = 0x08
)

// SectionHeader is the parsed fixed-offset header of a GUID-defined section.
type SectionHeader struct {
	// Type is the section type byte (SectionTypeGUIDDefined).
	Type byte
	// Size is the total section size in bytes, header included.
	Size uint32
	// GUID identifies the payload's encoding format.
	GUID uuid.UUID
	// DataOffset is the offset of the encoded payload from the section start.
	DataOffset uint16
	// Attributes are the section's attribute bits.
	Attributes SectionAttributes
	// Extended reports whether the header uses the large-section form.
	Extended bool
}

// HeaderLen returns the length of the header form this section uses.
func (h SectionHeader) HeaderLen() int {
	if h.Extended {
		return extHeaderLen
	}
	return stdHeaderLen
}

// ParseSection reads the fixed-offset header fields of a GUID-defined
// section. Both the standard and the extended large-section forms are
// handled. Returns ErrInvalidParameter for truncated buffers, non
// GUID-defined types, and data offsets outside the buffer.
func ParseSection(section []byte) (SectionHeader, error) {
	if len(section) < stdHeaderLen {
		return SectionHeader{}, fmt.Errorf("%w: section truncated at %d bytes", ErrInvalidParameter, len(section))
	}

	h := SectionHeader{Type: section[3]}
	if h.Type != SectionTypeGUIDDefined {
		return SectionHeader{}, fmt.Errorf("%w: section type 0x%02x is not GUID-defined", ErrInvalidParameter, h.Type)
	}

	size24 := uint32(section[0]) | uint32(section[1])<<8 | uint32(section[2])<<16
	if size24 == maxSize24 {
		if len(section) < extHeaderLen {
			return SectionHeader{}, fmt.Errorf("%w: extended section truncated at %d bytes", ErrInvalidParameter, len(section))
		}
		h.Extended = true
		h.Size = binary.LittleEndian.Uint32(section[4:8])
		h.GUID, _ = DecodeGUID(section[8:24])
		h.DataOffset = binary.LittleEndian.Uint16(section[24:26])
		h.Attributes = SectionAttributes(binary.LittleEndian.Uint16(section[26:28]))
	} else {
		h.Size = size24
		h.GUID, _ = DecodeGUID(section[4:20])
		h.DataOffset = binary.LittleEndian.Uint16(section[20:22])
		h.Attributes = SectionAttributes(binary.LittleEndian.Uint16(section[22:24]))
	}

	if int(h.DataOffset) < h.HeaderLen() || int(h.DataOffset) > len(section) {
		return SectionHeader{}, fmt.Errorf("%w: data offset %d outside section of %d bytes", ErrInvalidParameter, h.DataOffset, len(section))
	}
	return h, nil
}

// SectionGUID extracts the embedded format GUID from a GUID-defined section.
func SectionGUID(section []byte) (uuid.UUID, error) {
	h, err := ParseSection(section)
	if err != nil {
		return uuid.Nil, err
	}
	return h.GUID, nil
}

// SectionData returns the encoded payload of a GUID-defined section. The
// returned slice aliases section.
func SectionData(section []byte) ([]byte, error) {
	h, err := ParseSection(section)
	if err != nil {
		return nil, err
	}
	return section[h.DataOffset:], nil
}

// NewGUIDDefinedSection builds a GUID-defined section wrapping payload. The
// extended header form is used automatically when the total size does not
// fit the 3-byte size field.
func NewGUIDDefinedSection(guid uuid.UUID, attrs SectionAttributes, payload []byte) []byte {
	if stdHeaderLen+len(payload) < maxSize24 {
		total := stdHeaderLen + len(payload)
		b := make([]byte, total)
		b[0] = byte(total)
		b[1] = byte(total >> 8)
		b[2] = byte(total >> 16)
		b[3] = SectionTypeGUIDDefined
		putGUID(b[4:20], guid)
		binary.LittleEndian.PutUint16(b[20:22], stdHeaderLen)
		binary.LittleEndian.PutUint16(b[22:24], uint16(attrs))
		copy(b[stdHeaderLen:], payload)
		return b
	}

	total := extHeaderLen + len(payload)
	b := make([]byte, total)
	b[0], b[1], b[2] = 0xFF, 0xFF, 0xFF
	b[3] = SectionTypeGUIDDefined
	binary.LittleEndian.PutUint32(b[4:8], uint32(total))
	putGUID(b[8:24], guid)
	binary.LittleEndian.PutUint16(b[24:26], extHeaderLen)
	binary.LittleEndian.PutUint16(b[26:28], uint16(attrs))
	copy(b[extHeaderLen:], payload)
	return b
}
