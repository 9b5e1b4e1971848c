package heap

import (
	"iter"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/clrmeta/errors"
)

// StringsName is the stream name of the identifier string heap.
const StringsName = "#Strings"

// Strings is the #Strings heap. Get returns substrings of one string built
// when the view is bound, so lookups do not allocate.
type Strings struct {
	data []byte
	s    string
}

// NewStrings binds a #Strings view to a copy of data.
func NewStrings(data []byte) Strings {
	return Strings{data: data, s: string(data)}
}

// NewStringsNoCopy binds a #Strings view that aliases data. data must not be
// modified for as long as the view or any string it returned is in use.
func NewStringsNoCopy(data []byte) Strings {
	return Strings{data: data, s: unsafe.String(unsafe.SliceData(data), len(data))}
}

// Len returns the heap size in bytes.
func (h Strings) Len() int {
	return len(h.data)
}

// Get returns the string starting at byte offset index.
func (h Strings) Get(index uint32) (string, error) {
	end, err := h.end(index)
	if err != nil || end == 0 {
		return "", err
	}
	s := h.s[index:end]
	if !utf8.ValidString(s) {
		return "", errors.MalformedHeap(StringsName, index, "invalid UTF-8")
	}
	return s, nil
}

// Bytes returns the raw bytes of the string at index, without the
// terminator and without UTF-8 validation.
func (h Strings) Bytes(index uint32) ([]byte, error) {
	end, err := h.end(index)
	if err != nil || end == 0 {
		return nil, err
	}
	return h.data[index:end:end], nil
}

// end returns the offset of the terminator of the string at index, or 0 for
// index 0.
func (h Strings) end(index uint32) (uint32, error) {
	if index == 0 {
		return 0, nil
	}
	if uint64(index) >= uint64(len(h.s)) {
		return 0, errors.MalformedHeap(StringsName, index, "index past end of heap")
	}
	n := strings.IndexByte(h.s[index:], 0)
	if n < 0 {
		return 0, errors.MalformedHeap(StringsName, index, "missing NUL terminator")
	}
	return index + uint32(n), nil
}

// All yields every string with its byte offset, starting with the empty
// string at offset 0. Iteration stops at the first entry that is not
// NUL-terminated or not valid UTF-8.
func (h Strings) All() iter.Seq2[uint32, string] {
	return func(yield func(uint32, string) bool) {
		for off := 0; off < len(h.s); {
			n := strings.IndexByte(h.s[off:], 0)
			if n < 0 {
				return
			}
			s := h.s[off : off+n]
			if !utf8.ValidString(s) || !yield(uint32(off), s) {
				return
			}
			off += n + 1
		}
	}
}
