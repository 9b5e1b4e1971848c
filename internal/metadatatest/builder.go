// Package metadatatest assembles synthetic metadata blobs for tests.
package metadatatest

import (
	"encoding/binary"
	"math/bits"
)

// Stream is one named stream of a synthetic metadata root.
type Stream struct {
	Name string
	Data []byte
}

// Root lays out a BSJB root, its directory and the stream payloads.
type Root struct {
	Version      string
	Streams      []Stream
	MajorVersion uint16
	MinorVersion uint16
	Flags        uint16
}

// Bytes encodes the root. Stream payloads follow the directory in order,
// each padded to a 4-byte boundary.
func (r *Root) Bytes() []byte {
	version := append([]byte(r.Version), 0)
	for len(version)%4 != 0 {
		version = append(version, 0)
	}

	var hdr []byte
	hdr = binary.LittleEndian.AppendUint32(hdr, 0x424A5342)
	hdr = binary.LittleEndian.AppendUint16(hdr, r.MajorVersion)
	hdr = binary.LittleEndian.AppendUint16(hdr, r.MinorVersion)
	hdr = binary.LittleEndian.AppendUint32(hdr, 0)
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(len(version)))
	hdr = append(hdr, version...)
	hdr = binary.LittleEndian.AppendUint16(hdr, r.Flags)
	hdr = binary.LittleEndian.AppendUint16(hdr, uint16(len(r.Streams)))

	dirSize := 0
	for _, s := range r.Streams {
		dirSize += 8 + align4(len(s.Name)+1)
	}

	offset := len(hdr) + dirSize
	var body []byte
	for _, s := range r.Streams {
		hdr = binary.LittleEndian.AppendUint32(hdr, uint32(offset))
		hdr = binary.LittleEndian.AppendUint32(hdr, uint32(len(s.Data)))
		name := append([]byte(s.Name), 0)
		for len(name)%4 != 0 {
			name = append(name, 0)
		}
		hdr = append(hdr, name...)

		data := append([]byte(nil), s.Data...)
		for len(data)%4 != 0 {
			data = append(data, 0)
		}
		body = append(body, data...)
		offset += len(data)
	}
	return append(hdr, body...)
}

// DirectoryEnd returns the offset just past the stream directory.
func (r *Root) DirectoryEnd() int {
	n := 4 + 2 + 2 + 4 + 4 + align4(len(r.Version)+1) + 2 + 2
	for _, s := range r.Streams {
		n += 8 + align4(len(s.Name)+1)
	}
	return n
}

func align4(n int) int {
	return (n + 3) &^ 3
}

// EncodeCompressed encodes v as an ECMA-335 compressed unsigned integer.
func EncodeCompressed(v uint32) []byte {
	switch {
	case v < 0x80:
		return []byte{byte(v)}
	case v < 0x4000:
		return []byte{0x80 | byte(v>>8), byte(v)}
	default:
		return []byte{0xC0 | byte(v>>24), byte(v >> 16), byte(v >> 8), byte(v)}
	}
}

// StringHeap builds a #Strings heap with deduplication.
type StringHeap struct {
	buf   []byte
	index map[string]uint32
}

// NewStringHeap returns a heap holding only the empty string at index 0.
func NewStringHeap() *StringHeap {
	return &StringHeap{buf: []byte{0}, index: map[string]uint32{"": 0}}
}

// Add appends s and returns its index.
func (h *StringHeap) Add(s string) uint32 {
	if i, ok := h.index[s]; ok {
		return i
	}
	i := uint32(len(h.buf))
	h.buf = append(h.buf, s...)
	h.buf = append(h.buf, 0)
	h.index[s] = i
	return i
}

// Bytes returns the heap contents.
func (h *StringHeap) Bytes() []byte {
	return h.buf
}

// BlobHeap builds a #Blob heap.
type BlobHeap struct {
	buf []byte
}

// NewBlobHeap returns a heap holding only the empty blob at index 0.
func NewBlobHeap() *BlobHeap {
	return &BlobHeap{buf: []byte{0}}
}

// Add appends b and returns its index.
func (h *BlobHeap) Add(b []byte) uint32 {
	i := uint32(len(h.buf))
	h.buf = append(h.buf, EncodeCompressed(uint32(len(b)))...)
	h.buf = append(h.buf, b...)
	return i
}

// Bytes returns the heap contents.
func (h *BlobHeap) Bytes() []byte {
	return h.buf
}

// UserStringHeap builds a #US heap.
type UserStringHeap struct {
	buf []byte
}

// NewUserStringHeap returns a heap holding only the empty entry at index 0.
func NewUserStringHeap() *UserStringHeap {
	return &UserStringHeap{buf: []byte{0}}
}

// Add appends s as UTF-16LE with the given flag byte and returns its index.
func (h *UserStringHeap) Add(s string, flag byte) uint32 {
	var payload []byte
	for _, r := range s {
		if r >= 0x10000 {
			r -= 0x10000
			payload = binary.LittleEndian.AppendUint16(payload, uint16(0xD800+(r>>10)))
			payload = binary.LittleEndian.AppendUint16(payload, uint16(0xDC00+(r&0x3FF)))
			continue
		}
		payload = binary.LittleEndian.AppendUint16(payload, uint16(r))
	}
	payload = append(payload, flag)
	i := uint32(len(h.buf))
	h.buf = append(h.buf, EncodeCompressed(uint32(len(payload)))...)
	h.buf = append(h.buf, payload...)
	return i
}

// Bytes returns the heap contents.
func (h *UserStringHeap) Bytes() []byte {
	return h.buf
}

// GUIDHeap builds a #GUID heap.
type GUIDHeap struct {
	buf []byte
}

// Add appends g and returns its 1-based index.
func (h *GUIDHeap) Add(g [16]byte) uint32 {
	h.buf = append(h.buf, g[:]...)
	return uint32(len(h.buf) / 16)
}

// Bytes returns the heap contents.
func (h *GUIDHeap) Bytes() []byte {
	return h.buf
}

// Cell is one encoded column value.
type Cell struct {
	Value uint32
	Width int
}

// U8, U16 and U32 build cells of a fixed width.
func U8(v uint32) Cell  { return Cell{Value: v, Width: 1} }
func U16(v uint32) Cell { return Cell{Value: v, Width: 2} }
func U32(v uint32) Cell { return Cell{Value: v, Width: 4} }

// Tables builds a #~ stream. Row counts default to the number of rows added;
// SetRowCount overrides them for header-only fixtures.
type Tables struct {
	ExtraData    *uint32
	rows         [64][]byte
	counts       [64]uint32
	set          [64]bool
	Sorted       uint64
	MajorVersion uint8
	MinorVersion uint8
	HeapSizes    uint8
}

// NewTables returns a builder for a 2.0 schema stream.
func NewTables() *Tables {
	return &Tables{MajorVersion: 2}
}

// AddRow appends one row to table id.
func (t *Tables) AddRow(id uint8, cells ...Cell) {
	for _, c := range cells {
		switch c.Width {
		case 1:
			t.rows[id] = append(t.rows[id], byte(c.Value))
		case 2:
			t.rows[id] = binary.LittleEndian.AppendUint16(t.rows[id], uint16(c.Value))
		case 4:
			t.rows[id] = binary.LittleEndian.AppendUint32(t.rows[id], c.Value)
		default:
			panic("metadatatest: bad cell width")
		}
	}
	if !t.set[id] {
		t.counts[id]++
	}
}

// AddRaw appends pre-encoded row bytes to table id without touching the
// row count.
func (t *Tables) AddRaw(id uint8, b []byte) {
	t.rows[id] = append(t.rows[id], b...)
}

// SetRowCount fixes the declared row count of table id.
func (t *Tables) SetRowCount(id uint8, n uint32) {
	t.counts[id] = n
	t.set[id] = true
}

// Valid returns the valid mask implied by the row counts.
func (t *Tables) Valid() uint64 {
	var valid uint64
	for id, n := range t.counts {
		if n > 0 || t.set[id] {
			valid |= 1 << id
		}
	}
	return valid
}

// Header returns only the encoded header.
func (t *Tables) Header() []byte {
	valid := t.Valid()
	var b []byte
	b = binary.LittleEndian.AppendUint32(b, 0)
	b = append(b, t.MajorVersion, t.MinorVersion, t.HeapSizes, 1)
	b = binary.LittleEndian.AppendUint64(b, valid)
	b = binary.LittleEndian.AppendUint64(b, t.Sorted)
	for id := range 64 {
		if valid&(1<<id) != 0 {
			b = binary.LittleEndian.AppendUint32(b, t.counts[id])
		}
	}
	if t.ExtraData != nil {
		b = binary.LittleEndian.AppendUint32(b, *t.ExtraData)
	}
	return b
}

// HeaderSize returns the encoded header length.
func (t *Tables) HeaderSize() int {
	n := 24 + 4*bits.OnesCount64(t.Valid())
	if t.ExtraData != nil {
		n += 4
	}
	return n
}

// Bytes returns the header followed by all rows in ascending table order.
func (t *Tables) Bytes() []byte {
	b := t.Header()
	for id := range 64 {
		b = append(b, t.rows[id]...)
	}
	return b
}
