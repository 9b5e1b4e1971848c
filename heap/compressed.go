package heap

import (
	"github.com/wippyai/clrmeta/errors"
	"github.com/wippyai/clrmeta/internal/binary"
)

// DecodeCompressed decodes an ECMA-335 compressed unsigned integer from the
// start of b, returning the value and its encoded length in bytes.
//
//	0xxxxxxx                            7-bit value, 1 byte
//	10xxxxxx xxxxxxxx                   14-bit value, 2 bytes
//	110xxxxx xxxxxxxx xxxxxxxx xxxxxxxx 29-bit value, 4 bytes
//
// Too few bytes yields TruncatedInput; any other lead byte is MalformedHeap.
func DecodeCompressed(b []byte) (uint32, int, error) {
	return binary.DecodeCompressed(b, 0, errors.PhaseHeap)
}

// lengthPrefixed returns the payload of the length-prefixed entry at index
// and the offset of the entry that follows it.
func lengthPrefixed(name string, data []byte, index uint32) ([]byte, uint32, error) {
	if uint64(index) >= uint64(len(data)) {
		return nil, 0, errors.MalformedHeap(name, index, "index past end of heap")
	}
	r := binary.NewReader(data, 0, errors.PhaseHeap)
	if err := r.Seek(int(index)); err != nil {
		return nil, 0, err
	}
	n, err := r.ReadCompressed()
	if err != nil {
		e := errors.MalformedHeap(name, index, "bad length prefix")
		e.Cause = err
		return nil, 0, e
	}
	if uint64(n) > uint64(r.Len()) {
		return nil, 0, errors.MalformedHeap(name, index, "entry overruns heap")
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		return nil, 0, err
	}
	return b, uint32(r.Position()), nil
}
