package clrmeta

import (
	"iter"

	"github.com/wippyai/clrmeta/table"
)

// MethodInfo is one row of the MethodDef table. Signature is the raw
// signature blob.
type MethodInfo struct {
	m         *Metadata
	Name      string
	Signature []byte
	RID       uint32
	RVA       uint32
	Flags     uint16
	ImplFlags uint16
}

// Token returns the MethodDef token of mi.
func (mi MethodInfo) Token() uint32 {
	return table.Ref{Table: table.MethodDef, RID: mi.RID}.Token()
}

// Params yields the method's Param rows through its ParamList range.
func (mi MethodInfo) Params() iter.Seq[ParamInfo] {
	m := mi.m
	return func(yield func(ParamInfo) bool) {
		for rid := range m.ownedRange(table.MethodDef, mi.RID, "ParamList", table.Param, table.ParamPtr, "Param") {
			row, ok := m.tables.Row(table.Param, rid)
			if !ok {
				continue
			}
			p := ParamInfo{
				RID:      row.RID,
				Flags:    uint16(row.Uint("Flags")),
				Sequence: uint16(row.Uint("Sequence")),
				Name:     m.str(row.Uint("Name")),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// ParamInfo is one row of the Param table. Sequence 0 describes the return
// value.
type ParamInfo struct {
	Name     string
	RID      uint32
	Flags    uint16
	Sequence uint16
}

// FieldInfo is one row of the Field table.
type FieldInfo struct {
	Name      string
	Signature []byte
	RID       uint32
	Flags     uint16
}

// Token returns the Field token of f.
func (f FieldInfo) Token() uint32 {
	return table.Ref{Table: table.Field, RID: f.RID}.Token()
}

// MemberRefInfo is one row of the MemberRef table.
type MemberRefInfo struct {
	Name      string
	Signature []byte
	// Parent is a TypeDef, TypeRef, ModuleRef, MethodDef or TypeSpec.
	Parent table.Ref
	RID    uint32
}

// CustomAttributeInfo is one row of the CustomAttribute table. Value is the
// undecoded attribute blob.
type CustomAttributeInfo struct {
	Value []byte
	// Parent is the row the attribute is attached to.
	Parent table.Ref
	// Constructor is a MethodDef or MemberRef.
	Constructor table.Ref
	RID         uint32
}

// Methods yields every MethodDef row in RID order.
func (m *Metadata) Methods() iter.Seq[MethodInfo] {
	return rows(m, table.MethodDef, m.methodInfo)
}

// Method returns the MethodDef row rid.
func (m *Metadata) Method(rid uint32) (MethodInfo, bool) {
	row, ok := m.tables.Row(table.MethodDef, rid)
	if !ok {
		return MethodInfo{}, false
	}
	return m.methodInfo(row), true
}

// Fields yields every Field row in RID order.
func (m *Metadata) Fields() iter.Seq[FieldInfo] {
	return rows(m, table.Field, m.fieldInfo)
}

// MemberRefs yields every MemberRef row in RID order.
func (m *Metadata) MemberRefs() iter.Seq[MemberRefInfo] {
	return rows(m, table.MemberRef, func(row table.Row) MemberRefInfo {
		return MemberRefInfo{
			RID:       row.RID,
			Parent:    row.Ref("Class"),
			Name:      m.str(row.Uint("Name")),
			Signature: m.blob(row.Uint("Signature")),
		}
	})
}

// CustomAttributes yields every CustomAttribute row in RID order.
func (m *Metadata) CustomAttributes() iter.Seq[CustomAttributeInfo] {
	return rows(m, table.CustomAttribute, func(row table.Row) CustomAttributeInfo {
		return CustomAttributeInfo{
			RID:         row.RID,
			Parent:      row.Ref("Parent"),
			Constructor: row.Ref("Type"),
			Value:       m.blob(row.Uint("Value")),
		}
	})
}

// AttributesOf yields the custom attributes attached to parent.
func (m *Metadata) AttributesOf(parent table.Ref) iter.Seq[CustomAttributeInfo] {
	return func(yield func(CustomAttributeInfo) bool) {
		for ca := range m.CustomAttributes() {
			if ca.Parent == parent && !yield(ca) {
				return
			}
		}
	}
}

func (m *Metadata) methodInfo(row table.Row) MethodInfo {
	return MethodInfo{
		m:         m,
		RID:       row.RID,
		RVA:       row.Uint("RVA"),
		ImplFlags: uint16(row.Uint("ImplFlags")),
		Flags:     uint16(row.Uint("Flags")),
		Name:      m.str(row.Uint("Name")),
		Signature: m.blob(row.Uint("Signature")),
	}
}

func (m *Metadata) fieldInfo(row table.Row) FieldInfo {
	return FieldInfo{
		RID:       row.RID,
		Flags:     uint16(row.Uint("Flags")),
		Name:      m.str(row.Uint("Name")),
		Signature: m.blob(row.Uint("Signature")),
	}
}
