package table

import (
	"math/bits"

	"github.com/wippyai/clrmeta/errors"
	"github.com/wippyai/clrmeta/internal/binary"
)

// Heap size flags in Header.HeapSizes.
const (
	HeapStringsWide uint8 = 0x01
	HeapGUIDWide    uint8 = 0x02
	HeapBlobWide    uint8 = 0x04
	HeapExtraData   uint8 = 0x40
)

// Header is the fixed prefix of a #~ or #- stream.
type Header struct {
	Reserved     uint32
	MajorVersion uint8
	MinorVersion uint8
	HeapSizes    uint8
	Reserved2    uint8
	Valid        uint64
	Sorted       uint64
	RowCounts    [MaxTables]uint32
	ExtraData    uint32
}

// ParseHeader decodes the table stream header at the start of b and returns
// it with the number of bytes consumed. Row counts are assigned to set bits
// of Valid in ascending order; a bit that is clear has row count 0.
func ParseHeader(b []byte) (*Header, int, error) {
	r := binary.NewReader(b, 0, errors.PhaseTables)
	h := &Header{}
	var err error

	if h.Reserved, err = r.ReadU32(); err != nil {
		return nil, 0, err
	}
	if h.MajorVersion, err = r.ReadU8(); err != nil {
		return nil, 0, err
	}
	if h.MinorVersion, err = r.ReadU8(); err != nil {
		return nil, 0, err
	}
	if h.HeapSizes, err = r.ReadU8(); err != nil {
		return nil, 0, err
	}
	if h.Reserved2, err = r.ReadU8(); err != nil {
		return nil, 0, err
	}
	if h.Valid, err = r.ReadU64(); err != nil {
		return nil, 0, err
	}
	if h.Sorted, err = r.ReadU64(); err != nil {
		return nil, 0, err
	}

	for valid := h.Valid; valid != 0; valid &= valid - 1 {
		id := bits.TrailingZeros64(valid)
		if h.RowCounts[id], err = r.ReadU32(); err != nil {
			return nil, 0, err
		}
	}
	if h.HeapSizes&HeapExtraData != 0 {
		if h.ExtraData, err = r.ReadU32(); err != nil {
			return nil, 0, err
		}
	}
	return h, r.Position(), nil
}

// Present reports whether table id is marked valid and holds rows.
func (h *Header) Present(id ID) bool {
	return int(id) < MaxTables && h.Valid&(1<<id) != 0 && h.RowCounts[id] > 0
}

// IsSorted reports whether the sorted mask marks table id.
func (h *Header) IsSorted(id ID) bool {
	return int(id) < MaxTables && h.Sorted&(1<<id) != 0
}

// RowCount returns the declared row count of id, or 0 when absent.
func (h *Header) RowCount(id ID) uint32 {
	if int(id) >= MaxTables {
		return 0
	}
	return h.RowCounts[id]
}

// StringIndexWidth returns the byte width of #Strings indices.
func (h *Header) StringIndexWidth() int {
	return heapWidth(h.HeapSizes, HeapStringsWide)
}

// GUIDIndexWidth returns the byte width of #GUID indices.
func (h *Header) GUIDIndexWidth() int {
	return heapWidth(h.HeapSizes, HeapGUIDWide)
}

// BlobIndexWidth returns the byte width of #Blob indices.
func (h *Header) BlobIndexWidth() int {
	return heapWidth(h.HeapSizes, HeapBlobWide)
}

func heapWidth(sizes, flag uint8) int {
	if sizes&flag != 0 {
		return 4
	}
	return 2
}

// TableIndexWidth returns the width of a simple index into id: 4 bytes once
// the target exceeds 65535 rows.
func (h *Header) TableIndexWidth(id ID) int {
	if h.RowCount(id) > 0xFFFF {
		return 4
	}
	return 2
}

// CodedIndexWidth returns the width of a coded index of kind k: 4 bytes when
// any table in its set reaches 2^(16-tagbits) rows. Reserved slots count as
// empty tables.
func (h *Header) CodedIndexWidth(k CodedKind) int {
	limit := k.SmallLimit()
	for _, id := range k.Tables() {
		if id != NoTable && h.RowCount(id) >= limit {
			return 4
		}
	}
	return 2
}

// ColumnWidth resolves the byte width of c under this header.
func (h *Header) ColumnWidth(c Column) int {
	switch c.Kind {
	case Fixed:
		return c.Size
	case StringIndex:
		return h.StringIndexWidth()
	case GUIDIndex:
		return h.GUIDIndexWidth()
	case BlobIndex:
		return h.BlobIndexWidth()
	case SimpleIndex:
		return h.TableIndexWidth(c.Target)
	case CodedIndex:
		return h.CodedIndexWidth(c.Coded)
	default:
		panic("table: unknown column kind")
	}
}
