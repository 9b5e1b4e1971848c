package heap

import "iter"

// BlobName is the stream name of the blob heap.
const BlobName = "#Blob"

// Blobs is the #Blob heap. Signature blobs are handed out undecoded; their
// interpretation belongs to the caller.
type Blobs struct {
	data []byte
}

// NewBlobs binds a #Blob view to data.
func NewBlobs(data []byte) Blobs {
	return Blobs{data: data}
}

// Len returns the heap size in bytes.
func (h Blobs) Len() int {
	return len(h.data)
}

// Get returns the blob at byte offset index. The slice aliases the heap and
// has its capacity clipped to its length. Index 0 is always the empty blob.
func (h Blobs) Get(index uint32) ([]byte, error) {
	if index == 0 {
		return []byte{}, nil
	}
	b, _, err := lengthPrefixed(BlobName, h.data, index)
	return b, err
}

// All yields every blob with its byte offset, starting with the entry at
// offset 0. Iteration stops at the first entry whose length prefix is
// invalid or whose payload overruns the heap.
func (h Blobs) All() iter.Seq2[uint32, []byte] {
	return func(yield func(uint32, []byte) bool) {
		for off := uint32(0); uint64(off) < uint64(len(h.data)); {
			b, next, err := lengthPrefixed(BlobName, h.data, off)
			if err != nil || !yield(off, b) {
				return
			}
			off = next
		}
	}
}
