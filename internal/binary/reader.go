package binary

import (
	"bytes"
	"encoding/binary"

	"github.com/wippyai/clrmeta/errors"
)

// Reader is a bounds-checked little-endian cursor over a byte slice.
// Every failed read reports TruncatedInput with the absolute offset of the
// read, computed from the base the reader was created with.
type Reader struct {
	data  []byte
	pos   int
	base  int
	phase errors.Phase
}

// NewReader creates a Reader over data. base is the absolute offset of
// data[0] within the enclosing buffer and only affects error offsets.
func NewReader(data []byte, base int, phase errors.Phase) *Reader {
	return &Reader{data: data, base: base, phase: phase}
}

// Position returns the current position relative to the start of data.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Seek moves the cursor to pos.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return errors.Truncated(r.phase, r.base+pos, 0, len(r.data)-pos)
	}
	r.pos = pos
	return nil
}

func (r *Reader) need(n int) error {
	if n < 0 || r.Len() < n {
		return errors.Truncated(r.phase, r.base+r.pos, n, r.Len())
	}
	return nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// ReadU16 reads a little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadUint reads a 1, 2 or 4 byte little-endian unsigned integer.
func (r *Reader) ReadUint(width int) (uint32, error) {
	switch width {
	case 1:
		b, err := r.ReadU8()
		return uint32(b), err
	case 2:
		v, err := r.ReadU16()
		return uint32(v), err
	case 4:
		return r.ReadU32()
	default:
		panic("binary: unsupported integer width")
	}
}

// ReadBytes returns the next n bytes without copying.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if err := r.need(n); err != nil {
		return nil, err
	}
	b := r.data[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n
	return nil
}

// ReadCString reads bytes up to a NUL terminator and consumes the terminator.
// The returned slice excludes the NUL.
func (r *Reader) ReadCString() ([]byte, error) {
	end := bytes.IndexByte(r.data[r.pos:], 0)
	if end < 0 {
		return nil, errors.Truncated(r.phase, r.base+r.pos, r.Len()+1, r.Len())
	}
	s := r.data[r.pos : r.pos+end : r.pos+end]
	r.pos += end + 1
	return s, nil
}

// Align skips padding so that the position, measured from start, is a
// multiple of n. Padding bytes are not inspected.
func (r *Reader) Align(start, n int) error {
	rem := (r.pos - start) % n
	if rem == 0 {
		return nil
	}
	return r.Skip(n - rem)
}

// ReadCompressed reads an ECMA-335 compressed unsigned integer.
func (r *Reader) ReadCompressed() (uint32, error) {
	v, n, err := DecodeCompressed(r.data[r.pos:], r.base+r.pos, r.phase)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// DecodeCompressed decodes a compressed unsigned integer from the start of b
// and returns the value and the number of bytes it occupied. Missing bytes
// are TruncatedInput; a 111xxxxx lead byte is MalformedHeap.
func DecodeCompressed(b []byte, offset int, phase errors.Phase) (uint32, int, error) {
	if len(b) == 0 {
		return 0, 0, errors.Truncated(phase, offset, 1, 0)
	}
	first := b[0]
	switch {
	case first&0x80 == 0:
		return uint32(first), 1, nil
	case first&0xC0 == 0x80:
		if len(b) < 2 {
			return 0, 0, errors.Truncated(phase, offset, 2, len(b))
		}
		return uint32(first&0x3F)<<8 | uint32(b[1]), 2, nil
	case first&0xE0 == 0xC0:
		if len(b) < 4 {
			return 0, 0, errors.Truncated(phase, offset, 4, len(b))
		}
		return uint32(first&0x1F)<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]), 4, nil
	default:
		return 0, 0, errors.New(phase, errors.KindMalformedHeap).
			Offset(offset).
			Value(first).
			Detail("invalid compressed integer lead byte 0x%02X", first).
			Build()
	}
}
