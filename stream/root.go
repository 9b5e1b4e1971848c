package stream

import (
	"unicode/utf8"

	"github.com/wippyai/clrmeta/errors"
	"github.com/wippyai/clrmeta/internal/binary"
)

// Signature is the metadata root magic, "BSJB" read as a little-endian u32.
const Signature uint32 = 0x424A5342

// Well-known stream names.
const (
	Tables             = "#~"
	TablesUncompressed = "#-"
	Strings            = "#Strings"
	UserStrings        = "#US"
	GUID               = "#GUID"
	Blob               = "#Blob"
)

// Header is one entry of the stream directory. Offset is relative to the
// start of the metadata root.
type Header struct {
	Name   string
	Offset uint32
	Size   uint32
}

// IsTables reports whether h names a table stream, compressed or not.
func (h Header) IsTables() bool {
	return h.Name == Tables || h.Name == TablesUncompressed
}

// Bytes returns the stream's bytes within data, the buffer the root was
// parsed from.
func (h Header) Bytes(data []byte) ([]byte, error) {
	end := uint64(h.Offset) + uint64(h.Size)
	if end > uint64(len(data)) {
		return nil, errors.New(errors.PhaseRoot, errors.KindTruncatedInput).
			Path(h.Name).
			Offset(int(h.Offset)).
			Detail("stream of %d bytes ends past buffer of %d bytes", h.Size, len(data)).
			Build()
	}
	return data[h.Offset:end:end], nil
}

// Root is the parsed BSJB metadata root.
type Root struct {
	Version      string
	Streams      []Header
	Reserved     uint32
	MajorVersion uint16
	MinorVersion uint16
	Flags        uint16
}

// ParseRoot parses the metadata root and stream directory at the start of
// data. Every stream must lie within data.
func ParseRoot(data []byte) (*Root, error) {
	r := binary.NewReader(data, 0, errors.PhaseRoot)

	sig, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if sig != Signature {
		return nil, errors.InvalidSignature(sig, Signature)
	}

	root := &Root{}
	if root.MajorVersion, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if root.MinorVersion, err = r.ReadU16(); err != nil {
		return nil, err
	}
	if root.Reserved, err = r.ReadU32(); err != nil {
		return nil, err
	}

	versionLen, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	start := r.Position()
	version, err := r.ReadBytes(int(versionLen))
	if err != nil {
		return nil, err
	}
	if err := r.Align(start, 4); err != nil {
		return nil, err
	}
	for i, b := range version {
		if b == 0 {
			version = version[:i]
			break
		}
	}
	if !utf8.Valid(version) {
		return nil, errors.New(errors.PhaseRoot, errors.KindMalformedMetadata).
			Offset(start).
			Value(string(version)).
			Detail("version string is not valid UTF-8").
			Build()
	}
	root.Version = string(version)

	if root.Flags, err = r.ReadU16(); err != nil {
		return nil, err
	}
	count, err := r.ReadU16()
	if err != nil {
		return nil, err
	}

	root.Streams = make([]Header, 0, count)
	for range count {
		h, err := parseHeader(r)
		if err != nil {
			return nil, err
		}
		if _, err := h.Bytes(data); err != nil {
			return nil, err
		}
		root.Streams = append(root.Streams, h)
	}
	return root, nil
}

func parseHeader(r *binary.Reader) (Header, error) {
	var h Header
	var err error
	start := r.Position()
	if h.Offset, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.Size, err = r.ReadU32(); err != nil {
		return h, err
	}
	name, err := r.ReadCString()
	if err != nil {
		return h, err
	}
	if err := r.Align(start, 4); err != nil {
		return h, err
	}
	h.Name = string(name)
	return h, nil
}

// Find returns the first stream named name.
func (r *Root) Find(name string) (Header, bool) {
	for _, h := range r.Streams {
		if h.Name == name {
			return h, true
		}
	}
	return Header{}, false
}

// TablesStream returns the first #~ or #- stream.
func (r *Root) TablesStream() (Header, bool) {
	for _, h := range r.Streams {
		if h.IsTables() {
			return h, true
		}
	}
	return Header{}, false
}

// Duplicates returns the names that occur more than once in the directory.
func (r *Root) Duplicates() []string {
	var dups []string
	seen := make(map[string]int, len(r.Streams))
	for _, h := range r.Streams {
		seen[h.Name]++
		if seen[h.Name] == 2 {
			dups = append(dups, h.Name)
		}
	}
	return dups
}
