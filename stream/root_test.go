package stream_test

import (
	stderrors "errors"
	"testing"

	"github.com/wippyai/clrmeta/errors"
	"github.com/wippyai/clrmeta/internal/metadatatest"
	"github.com/wippyai/clrmeta/stream"
)

func sampleRoot() *metadatatest.Root {
	return &metadatatest.Root{
		MajorVersion: 1,
		MinorVersion: 1,
		Version:      "v4.0.30319",
		Streams: []metadatatest.Stream{
			{Name: stream.Tables, Data: []byte{1, 2, 3, 4, 5, 6, 7, 8}},
			{Name: stream.Strings, Data: []byte("\x00Foo\x00")},
			{Name: stream.UserStrings, Data: []byte{0}},
			{Name: stream.GUID, Data: make([]byte, 16)},
			{Name: stream.Blob, Data: []byte{0, 1, 0xAA}},
		},
	}
}

func TestParseRoot(t *testing.T) {
	b := sampleRoot()
	data := b.Bytes()

	root, err := stream.ParseRoot(data)
	if err != nil {
		t.Fatalf("ParseRoot: %v", err)
	}
	if root.Version != "v4.0.30319" {
		t.Errorf("Version = %q", root.Version)
	}
	if root.MajorVersion != 1 || root.MinorVersion != 1 {
		t.Errorf("version = %d.%d", root.MajorVersion, root.MinorVersion)
	}
	if len(root.Streams) != 5 {
		t.Fatalf("len(Streams) = %d, want 5", len(root.Streams))
	}

	wantNames := []string{"#~", "#Strings", "#US", "#GUID", "#Blob"}
	for i, h := range root.Streams {
		if h.Name != wantNames[i] {
			t.Errorf("Streams[%d].Name = %q, want %q", i, h.Name, wantNames[i])
		}
	}

	if first := root.Streams[0]; first.Offset != uint32(b.DirectoryEnd()) {
		t.Errorf("first stream offset = %d, want %d", first.Offset, b.DirectoryEnd())
	}

	h, ok := root.Find(stream.Strings)
	if !ok {
		t.Fatal("Find(#Strings) failed")
	}
	got, err := h.Bytes(data)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "\x00Foo\x00" {
		t.Errorf("#Strings bytes = %q", got)
	}

	ts, ok := root.TablesStream()
	if !ok || ts.Name != stream.Tables || !ts.IsTables() {
		t.Errorf("TablesStream = %+v, %v", ts, ok)
	}

	if _, ok := root.Find("#Pdb"); ok {
		t.Error("Find(#Pdb) should fail")
	}
}

func TestParseRootVersionPadding(t *testing.T) {
	for _, v := range []string{"", "v", "v4", "v4.", "v4.0", "v4.0.30319", "v2.0.50727x"} {
		t.Run(v, func(t *testing.T) {
			b := sampleRoot()
			b.Version = v
			root, err := stream.ParseRoot(b.Bytes())
			if err != nil {
				t.Fatalf("ParseRoot: %v", err)
			}
			if root.Version != v {
				t.Errorf("Version = %q, want %q", root.Version, v)
			}
			if len(root.Streams) != 5 {
				t.Errorf("len(Streams) = %d", len(root.Streams))
			}
		})
	}
}

func TestParseRootUnpaddedVersionLength(t *testing.T) {
	// A version length that is not a multiple of four still resumes at the
	// next 4-byte boundary.
	data := []byte{
		0x42, 0x53, 0x4A, 0x42,
		1, 0, 1, 0,
		0, 0, 0, 0,
		3, 0, 0, 0,
		'v', '1', 0, 0xEE,
		0, 0,
		0, 0,
	}
	root, err := stream.ParseRoot(data)
	if err != nil {
		t.Fatalf("ParseRoot: %v", err)
	}
	if root.Version != "v1" {
		t.Errorf("Version = %q, want v1", root.Version)
	}
	if len(root.Streams) != 0 {
		t.Errorf("len(Streams) = %d, want 0", len(root.Streams))
	}
}

func TestParseRootUnknownStreamKept(t *testing.T) {
	b := sampleRoot()
	b.Streams = append(b.Streams, metadatatest.Stream{Name: "#Pdb", Data: []byte{9, 9}})
	b.Streams = append(b.Streams, metadatatest.Stream{Name: "#Strings", Data: []byte{0}})

	root, err := stream.ParseRoot(b.Bytes())
	if err != nil {
		t.Fatalf("ParseRoot: %v", err)
	}
	if _, ok := root.Find("#Pdb"); !ok {
		t.Error("unknown stream dropped")
	}
	dups := root.Duplicates()
	if len(dups) != 1 || dups[0] != "#Strings" {
		t.Errorf("Duplicates = %v", dups)
	}
	h, _ := root.Find(stream.Strings)
	if h.Size != 5 {
		t.Errorf("Find returned later duplicate (size %d)", h.Size)
	}
}

func TestParseRootInvalidSignature(t *testing.T) {
	data := sampleRoot().Bytes()
	data[0] = 'X'
	_, err := stream.ParseRoot(data)
	if !stderrors.Is(err, errors.ErrInvalidSignature) {
		t.Fatalf("got %v, want InvalidSignature", err)
	}
	var e *errors.Error
	if stderrors.As(err, &e) && e.Value != uint32(0x424A5358) {
		t.Errorf("Value = %#v", e.Value)
	}
}

func TestParseRootTruncated(t *testing.T) {
	b := sampleRoot()
	data := b.Bytes()
	end := b.DirectoryEnd()

	for _, n := range []int{0, 3, 4, 11, 16, 20, end - 1} {
		_, err := stream.ParseRoot(data[:n])
		if !stderrors.Is(err, errors.ErrTruncatedInput) {
			t.Errorf("ParseRoot(data[:%d]) = %v, want TruncatedInput", n, err)
		}
	}
}

func TestParseRootStreamPastBuffer(t *testing.T) {
	b := sampleRoot()
	data := b.Bytes()
	// Cut into the last stream's payload but keep the directory intact.
	_, err := stream.ParseRoot(data[:len(data)-2])
	if !stderrors.Is(err, errors.ErrTruncatedInput) {
		t.Fatalf("got %v, want TruncatedInput", err)
	}
}

func TestHeaderBytesOverflow(t *testing.T) {
	h := stream.Header{Name: "#Blob", Offset: 0xFFFFFFFF, Size: 0xFFFFFFFF}
	if _, err := h.Bytes(make([]byte, 16)); !stderrors.Is(err, errors.ErrTruncatedInput) {
		t.Errorf("got %v, want TruncatedInput", err)
	}
}

func TestParseRootInvalidVersionUTF8(t *testing.T) {
	tests := []struct {
		name    string
		version string
	}{
		{"lone continuation byte", "v4.0\x80"},
		{"truncated sequence", "v\xE4\xB8"},
		{"invalid lead byte", "\xFFv4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := sampleRoot()
			b.Version = tt.version
			_, err := stream.ParseRoot(b.Bytes())
			if !stderrors.Is(err, errors.ErrMalformedMetadata) {
				t.Fatalf("got %v, want MalformedMetadata", err)
			}
			var e *errors.Error
			if !stderrors.As(err, &e) || e.Phase != errors.PhaseRoot || e.Offset != 16 {
				t.Errorf("error = %+v, want PhaseRoot at offset 16", e)
			}
		})
	}
}

func TestParseRootVersionUTF8(t *testing.T) {
	b := sampleRoot()
	b.Version = "v4.0-世界"
	root, err := stream.ParseRoot(b.Bytes())
	if err != nil {
		t.Fatalf("ParseRoot: %v", err)
	}
	if root.Version != "v4.0-世界" {
		t.Errorf("Version = %q", root.Version)
	}
}
