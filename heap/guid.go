package heap

import (
	"iter"

	"github.com/google/uuid"

	"github.com/wippyai/clrmeta/errors"
)

// GUIDName is the stream name of the GUID heap.
const GUIDName = "#GUID"

const guidSize = 16

// GUIDs is the #GUID heap. Indices are 1-based record numbers.
type GUIDs struct {
	data []byte
}

// NewGUIDs binds a #GUID view to data.
func NewGUIDs(data []byte) GUIDs {
	return GUIDs{data: data}
}

// Count returns the number of complete records in the heap.
func (h GUIDs) Count() int {
	return len(h.data) / guidSize
}

// Len returns the heap size in bytes.
func (h GUIDs) Len() int {
	return len(h.data)
}

// Raw returns the 16 stored bytes of record index, in on-disk order.
// Index 0 yields nil.
func (h GUIDs) Raw(index uint32) ([]byte, error) {
	if index == 0 {
		return nil, nil
	}
	off := (uint64(index) - 1) * guidSize
	if off+guidSize > uint64(len(h.data)) {
		return nil, errors.MalformedHeap(GUIDName, index, "GUID index past end of heap")
	}
	return h.data[off : off+guidSize : off+guidSize], nil
}

// Get returns record index as a UUID. The stored form keeps the first three
// fields little-endian; they are swapped so String prints the usual
// registry form. Index 0 yields uuid.Nil.
func (h GUIDs) Get(index uint32) (uuid.UUID, error) {
	raw, err := h.Raw(index)
	if err != nil || raw == nil {
		return uuid.Nil, err
	}
	return toUUID(raw), nil
}

// All yields every complete record with its 1-based index. A trailing
// partial record is not yielded.
func (h GUIDs) All() iter.Seq2[uint32, uuid.UUID] {
	return func(yield func(uint32, uuid.UUID) bool) {
		for i := range h.Count() {
			raw := h.data[i*guidSize : (i+1)*guidSize]
			if !yield(uint32(i)+1, toUUID(raw)) {
				return
			}
		}
	}
}

func toUUID(raw []byte) uuid.UUID {
	var u uuid.UUID
	u[0], u[1], u[2], u[3] = raw[3], raw[2], raw[1], raw[0]
	u[4], u[5] = raw[5], raw[4]
	u[6], u[7] = raw[7], raw[6]
	copy(u[8:], raw[8:])
	return u
}
