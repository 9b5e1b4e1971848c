package table

import (
	"fmt"
	"math/bits"

	"github.com/wippyai/clrmeta/errors"
)

// CodedKind names a coded index: a tag selecting one table of a fixed set,
// packed with a RID into a single column.
type CodedKind uint8

const (
	TypeDefOrRef CodedKind = iota
	HasConstant
	HasCustomAttribute
	HasFieldMarshal
	HasDeclSecurity
	MemberRefParent
	HasSemantics
	MethodDefOrRef
	MemberForwarded
	Implementation
	CustomAttributeType
	ResolutionScope
	TypeOrMethodDef

	numCodedKinds
)

type codedSpec struct {
	name   string
	tables []ID
	bits   uint
}

// Tag sets in tag order, ECMA-335 II.24.2.6. NoTable fills slots the
// standard reserves.
var codedSpecs = [numCodedKinds]codedSpec{
	TypeDefOrRef: newCodedSpec("TypeDefOrRef", TypeDef, TypeRef, TypeSpec),
	HasConstant:  newCodedSpec("HasConstant", Field, Param, Property),
	HasCustomAttribute: newCodedSpec("HasCustomAttribute",
		MethodDef, Field, TypeRef, TypeDef, Param, InterfaceImpl, MemberRef,
		Module, DeclSecurity, Property, Event, StandAloneSig, ModuleRef,
		TypeSpec, Assembly, AssemblyRef, File, ExportedType, ManifestResource,
		GenericParam, GenericParamConstraint, MethodSpec),
	HasFieldMarshal:     newCodedSpec("HasFieldMarshal", Field, Param),
	HasDeclSecurity:     newCodedSpec("HasDeclSecurity", TypeDef, MethodDef, Assembly),
	MemberRefParent:     newCodedSpec("MemberRefParent", TypeDef, TypeRef, ModuleRef, MethodDef, TypeSpec),
	HasSemantics:        newCodedSpec("HasSemantics", Event, Property),
	MethodDefOrRef:      newCodedSpec("MethodDefOrRef", MethodDef, MemberRef),
	MemberForwarded:     newCodedSpec("MemberForwarded", Field, MethodDef),
	Implementation:      newCodedSpec("Implementation", File, AssemblyRef, ExportedType),
	CustomAttributeType: newCodedSpec("CustomAttributeType", NoTable, NoTable, MethodDef, MemberRef, NoTable),
	ResolutionScope:     newCodedSpec("ResolutionScope", Module, ModuleRef, AssemblyRef, TypeRef),
	TypeOrMethodDef:     newCodedSpec("TypeOrMethodDef", TypeDef, MethodDef),
}

func newCodedSpec(name string, tables ...ID) codedSpec {
	return codedSpec{name: name, tables: tables, bits: tagBits(len(tables))}
}

// tagBits returns ceil(log2(n)), with a minimum of one bit.
func tagBits(n int) uint {
	if n <= 2 {
		return 1
	}
	return uint(bits.Len(uint(n - 1)))
}

func (k CodedKind) String() string {
	if k < numCodedKinds {
		return codedSpecs[k].name
	}
	return fmt.Sprintf("CodedKind(%d)", uint8(k))
}

// TagBits returns the number of low bits holding the table tag.
func (k CodedKind) TagBits() uint {
	return codedSpecs[k].bits
}

// Tables returns the tag set in tag order. Callers must not modify it.
func (k CodedKind) Tables() []ID {
	return codedSpecs[k].tables
}

// SmallLimit is the smallest row count that forces a 4-byte column.
func (k CodedKind) SmallLimit() uint32 {
	return 1 << (16 - k.TagBits())
}

// Decode splits a raw coded index into its table and RID. A zero value is
// the null reference. A tag past the set or naming a reserved slot is
// MalformedMetadata.
func (k CodedKind) Decode(raw uint32) (Ref, error) {
	cs := &codedSpecs[k]
	if raw == 0 {
		return Ref{Table: cs.tables[0]}, nil
	}
	tag := raw & (1<<cs.bits - 1)
	rid := raw >> cs.bits
	if int(tag) >= len(cs.tables) || cs.tables[tag] == NoTable {
		return Ref{}, errors.New(errors.PhaseRows, errors.KindMalformedMetadata).
			Path(cs.name).
			Value(raw).
			Detail("tag %d not in %s", tag, cs.name).
			Build()
	}
	return Ref{Table: cs.tables[tag], RID: rid}, nil
}

// Encode packs ref back into a raw coded value. It reports false when the
// table is not part of the tag set.
func (k CodedKind) Encode(ref Ref) (uint32, bool) {
	cs := &codedSpecs[k]
	for tag, id := range cs.tables {
		if id == ref.Table && id != NoTable {
			return ref.RID<<cs.bits | uint32(tag), true
		}
	}
	return 0, false
}

// Ref is a resolved table reference. RID 0 is null regardless of Table.
type Ref struct {
	Table ID
	RID   uint32
}

// IsNull reports whether r refers to no row.
func (r Ref) IsNull() bool {
	return r.RID == 0
}

// Token returns the metadata token for r: table in the high byte, RID in
// the low 24 bits.
func (r Ref) Token() uint32 {
	return uint32(r.Table)<<24 | r.RID&0x00FFFFFF
}

// RefFromToken splits a metadata token.
func RefFromToken(token uint32) Ref {
	return Ref{Table: ID(token >> 24), RID: token & 0x00FFFFFF}
}

func (r Ref) String() string {
	if r.IsNull() {
		return "null"
	}
	return fmt.Sprintf("%s[%d]", r.Table, r.RID)
}
