package guidedsection

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Signature marks an initialized registry block: 'E','G','S','I' packed
// little-endian. Reading it back after writing it doubles as the
// writability probe for a candidate store.
const Signature uint32 = 0x49534745

// Block field sizes. The block is laid out as
// [signature u32][count u32][GUID;N][decode ref u32;N][get-info ref u32;N],
// all little-endian, where N is the layout capacity.
const (
	sigOffset   = 0
	countOffset = 4
	headerLen   = 8
	refLen      = 4
)

// Layout computes field offsets within a registry backing block. Every
// offset derives from the handler capacity alone; once a block has been
// initialized, the layout that carved it must not change.
type Layout struct {
	capacity int
}

// NewLayout creates a layout for the given handler capacity.
// Panics if capacity is less than 1.
func NewLayout(capacity int) Layout {
	if capacity < 1 {
		panic("guidedsection: layout capacity must be at least 1")
	}
	return Layout{capacity: capacity}
}

// Capacity returns the maximum number of handler entries.
func (l Layout) Capacity() int {
	return l.capacity
}

// Size returns the number of bytes a backing block occupies.
func (l Layout) Size() int64 {
	return int64(headerLen + l.capacity*(GUIDLen+2*refLen))
}

func (l Layout) guidOffset(slot int) int64 {
	return int64(headerLen + slot*GUIDLen)
}

func (l Layout) decodeRefOffset(slot int) int64 {
	return int64(headerLen + l.capacity*GUIDLen + slot*refLen)
}

func (l Layout) infoRefOffset(slot int) int64 {
	return int64(headerLen + l.capacity*(GUIDLen+refLen) + slot*refLen)
}

// checkSlot rejects indexes outside the configured capacity.
func (l Layout) checkSlot(slot int) error {
	if slot < 0 || slot >= l.capacity {
		return fmt.Errorf("slot %d out of range [0,%d)", slot, l.capacity)
	}
	return nil
}

// ReadSignature reads the block's signature word.
func (l Layout) ReadSignature(r io.ReaderAt) (uint32, error) {
	return readU32(r, sigOffset)
}

// WriteSignature writes the block's signature word.
func (l Layout) WriteSignature(w io.WriterAt, sig uint32) error {
	return writeU32(w, sigOffset, sig)
}

// ReadCount reads the number of occupied entries.
func (l Layout) ReadCount(r io.ReaderAt) (uint32, error) {
	return readU32(r, countOffset)
}

// WriteCount writes the number of occupied entries.
func (l Layout) WriteCount(w io.WriterAt, count uint32) error {
	return writeU32(w, countOffset, count)
}

// ReadGUID reads the format GUID stored in a slot.
func (l Layout) ReadGUID(r io.ReaderAt, slot int) (uuid.UUID, error) {
	if err := l.checkSlot(slot); err != nil {
		return uuid.Nil, err
	}
	var b [GUIDLen]byte
	if _, err := r.ReadAt(b[:], l.guidOffset(slot)); err != nil {
		return uuid.Nil, err
	}
	return DecodeGUID(b[:])
}

// WriteGUID writes the format GUID of a slot.
func (l Layout) WriteGUID(w io.WriterAt, slot int, g uuid.UUID) error {
	if err := l.checkSlot(slot); err != nil {
		return err
	}
	var b [GUIDLen]byte
	putGUID(b[:], g)
	_, err := w.WriteAt(b[:], l.guidOffset(slot))
	return err
}

// ReadDecodeRef reads the decode-handler reference of a slot.
func (l Layout) ReadDecodeRef(r io.ReaderAt, slot int) (uint32, error) {
	if err := l.checkSlot(slot); err != nil {
		return 0, err
	}
	return readU32(r, l.decodeRefOffset(slot))
}

// WriteDecodeRef writes the decode-handler reference of a slot.
func (l Layout) WriteDecodeRef(w io.WriterAt, slot int, ref uint32) error {
	if err := l.checkSlot(slot); err != nil {
		return err
	}
	return writeU32(w, l.decodeRefOffset(slot), ref)
}

// ReadInfoRef reads the get-info-handler reference of a slot.
func (l Layout) ReadInfoRef(r io.ReaderAt, slot int) (uint32, error) {
	if err := l.checkSlot(slot); err != nil {
		return 0, err
	}
	return readU32(r, l.infoRefOffset(slot))
}

// WriteInfoRef writes the get-info-handler reference of a slot.
func (l Layout) WriteInfoRef(w io.WriterAt, slot int, ref uint32) error {
	if err := l.checkSlot(slot); err != nil {
		return err
	}
	return writeU32(w, l.infoRefOffset(slot), ref)
}

func readU32(r io.ReaderAt, off int64) (uint32, error) {
	var b [4]byte
	if _, err := r.ReadAt(b[:], off); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

func writeU32(w io.WriterAt, off int64, v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	_, err := w.WriteAt(b[:], off)
	return err
}
