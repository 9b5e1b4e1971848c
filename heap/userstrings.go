package heap

import (
	"iter"

	"golang.org/x/text/encoding/unicode"

	"github.com/wippyai/clrmeta/errors"
)

// UserStringsName is the stream name of the user string heap.
const UserStringsName = "#US"

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// UserString is one #US entry. Flag is the trailing byte the compiler emits;
// a nonzero low bit marks strings with characters outside plain ASCII or
// with special control characters. Unpaired surrogates decode as U+FFFD.
type UserString struct {
	Text string
	Flag byte
}

// HasSpecialChars reports whether the flag byte's low bit is set.
func (s UserString) HasSpecialChars() bool {
	return s.Flag&1 != 0
}

// UserStrings is the #US heap.
type UserStrings struct {
	data []byte
}

// NewUserStrings binds a #US view to data.
func NewUserStrings(data []byte) UserStrings {
	return UserStrings{data: data}
}

// Len returns the heap size in bytes.
func (h UserStrings) Len() int {
	return len(h.data)
}

// Raw returns the UTF-16LE bytes and flag byte of the entry at index.
// Index 0 is always the empty string.
func (h UserStrings) Raw(index uint32) ([]byte, byte, error) {
	if index == 0 {
		return nil, 0, nil
	}
	text, flag, _, err := h.entry(index)
	return text, flag, err
}

// entry splits the entry at index into text and flag byte and returns the
// offset of the next entry.
func (h UserStrings) entry(index uint32) ([]byte, byte, uint32, error) {
	b, next, err := lengthPrefixed(UserStringsName, h.data, index)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(b) == 0 {
		return nil, 0, next, nil
	}
	text := b[:len(b)-1]
	if len(text)%2 != 0 {
		return nil, 0, 0, errors.MalformedHeap(UserStringsName, index, "odd UTF-16 byte length")
	}
	return text, b[len(b)-1], next, nil
}

// Get decodes the user string at byte offset index.
func (h UserStrings) Get(index uint32) (UserString, error) {
	text, flag, err := h.Raw(index)
	if err != nil {
		return UserString{}, err
	}
	return decodeUserString(index, text, flag)
}

// All yields every user string with its byte offset, starting with the
// entry at offset 0. Iteration stops at the first entry that is malformed.
func (h UserStrings) All() iter.Seq2[uint32, UserString] {
	return func(yield func(uint32, UserString) bool) {
		for off := uint32(0); uint64(off) < uint64(len(h.data)); {
			text, flag, next, err := h.entry(off)
			if err != nil {
				return
			}
			us, err := decodeUserString(off, text, flag)
			if err != nil || !yield(off, us) {
				return
			}
			off = next
		}
	}
}

func decodeUserString(index uint32, text []byte, flag byte) (UserString, error) {
	if len(text) == 0 {
		return UserString{Flag: flag}, nil
	}
	decoded, err := utf16le.NewDecoder().Bytes(text)
	if err != nil {
		e := errors.MalformedHeap(UserStringsName, index, "undecodable UTF-16")
		e.Cause = err
		return UserString{}, e
	}
	return UserString{Text: string(decoded), Flag: flag}, nil
}
