package clrmeta_test

import (
	"github.com/wippyai/clrmeta/internal/metadatatest"
	"github.com/wippyai/clrmeta/stream"
	"github.com/wippyai/clrmeta/table"
)

var (
	u16 = metadatatest.U16
	u32 = metadatatest.U32
)

var sampleMvid = [16]byte{
	0x78, 0x56, 0x34, 0x12, 0x34, 0x12, 0x78, 0x56,
	0x9A, 0xBC, 0xDE, 0xF0, 0x12, 0x34, 0x56, 0x78,
}

// ecmaKey is the ECMA standard public key; its token is b77a5c561934e089.
var ecmaKey = []byte{0, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0}

var ecmaToken = []byte{0xb7, 0x7a, 0x5c, 0x56, 0x19, 0x34, 0xe0, 0x89}

// sample is a small assembly:
//
//	[assembly: Attr] Test 1.0.0.0 -> mscorlib 4.0.0.0
//	class <Module>
//	class Program : System.Object { int count; static void Main(string[] args); .ctor() }
//	class Test.Util.Helper : System.Object { string name; class Inner {} }
type sample struct {
	strings     *metadatatest.StringHeap
	blobs       *metadatatest.BlobHeap
	userStrings *metadatatest.UserStringHeap
	guids       *metadatatest.GUIDHeap
	tables      *metadatatest.Tables
	helloIndex  uint32
}

func newSample() *sample {
	s := &sample{
		strings:     metadatatest.NewStringHeap(),
		blobs:       metadatatest.NewBlobHeap(),
		userStrings: metadatatest.NewUserStringHeap(),
		guids:       &metadatatest.GUIDHeap{},
		tables:      metadatatest.NewTables(),
	}
	str := s.strings.Add
	blob := s.blobs.Add
	tb := s.tables

	tb.AddRow(uint8(table.Module), u16(0), u16(str("test.dll")), u16(s.guids.Add(sampleMvid)), u16(0), u16(0))

	// ResolutionScope = AssemblyRef[1]
	tb.AddRow(uint8(table.TypeRef), u16(1<<2|2), u16(str("Object")), u16(str("System")))

	tb.AddRow(uint8(table.TypeDef), u32(0), u16(str("<Module>")), u16(0), u16(0), u16(1), u16(1))
	// Extends = TypeRef[1]
	tb.AddRow(uint8(table.TypeDef), u32(0x100001), u16(str("Program")), u16(0), u16(0b101), u16(1), u16(1))
	tb.AddRow(uint8(table.TypeDef), u32(0x100001), u16(str("Helper")), u16(str("Test.Util")), u16(0b101), u16(2), u16(3))
	tb.AddRow(uint8(table.TypeDef), u32(0x100002), u16(str("Inner")), u16(0), u16(0b101), u16(3), u16(3))

	tb.AddRow(uint8(table.Field), u16(0x0011), u16(str("count")), u16(blob([]byte{0x06, 0x08})))
	tb.AddRow(uint8(table.Field), u16(0x0001), u16(str("name")), u16(blob([]byte{0x06, 0x0E})))

	tb.AddRow(uint8(table.MethodDef), u32(0x2050), u16(0), u16(0x0096), u16(str("Main")), u16(blob([]byte{0x00, 0x01, 0x01, 0x1D, 0x0E})), u16(1))
	tb.AddRow(uint8(table.MethodDef), u32(0x2058), u16(0), u16(0x1886), u16(str(".ctor")), u16(blob([]byte{0x20, 0x00, 0x01})), u16(2))

	tb.AddRow(uint8(table.Param), u16(0), u16(1), u16(str("args")))

	// Class = TypeRef[1]
	tb.AddRow(uint8(table.MemberRef), u16(1<<3|1), u16(str(".ctor")), u16(blob([]byte{0x20, 0x00, 0x01})))

	// Parent = Assembly[1], Type = MemberRef[1]
	tb.AddRow(uint8(table.CustomAttribute), u16(1<<5|14), u16(1<<3|3), u16(blob([]byte{0x01, 0x00, 0x00, 0x00})))

	tb.AddRow(uint8(table.ModuleRef), u16(str("kernel32")))

	tb.AddRow(uint8(table.Assembly),
		u32(0x8004), u16(1), u16(0), u16(0), u16(0), u32(0),
		u16(0), u16(str("Test")), u16(0))

	tb.AddRow(uint8(table.AssemblyRef),
		u16(4), u16(0), u16(0), u16(0), u32(0),
		u16(blob(ecmaToken)), u16(str("mscorlib")), u16(0), u16(0))

	tb.AddRow(uint8(table.NestedClass), u16(4), u16(3))

	s.helloIndex = s.userStrings.Add("Hello, 世界", 1)
	return s
}

func (s *sample) root() *metadatatest.Root {
	return &metadatatest.Root{
		MajorVersion: 1,
		MinorVersion: 1,
		Version:      "v4.0.30319",
		Streams: []metadatatest.Stream{
			{Name: stream.Tables, Data: s.tables.Bytes()},
			{Name: stream.Strings, Data: s.strings.Bytes()},
			{Name: stream.UserStrings, Data: s.userStrings.Bytes()},
			{Name: stream.GUID, Data: s.guids.Bytes()},
			{Name: stream.Blob, Data: s.blobs.Bytes()},
		},
	}
}

func (s *sample) bytes() []byte {
	return s.root().Bytes()
}
