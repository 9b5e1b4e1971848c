package clrmeta

import (
	"iter"

	"github.com/wippyai/clrmeta/table"
)

// TypeDef visibility and semantics flags, ECMA-335 II.23.1.15.
const (
	TypeVisibilityMask    uint32 = 0x00000007
	TypeNotPublic         uint32 = 0x00000000
	TypePublic            uint32 = 0x00000001
	TypeNestedPublic      uint32 = 0x00000002
	TypeNestedPrivate     uint32 = 0x00000003
	TypeClassSemanticMask uint32 = 0x00000020
	TypeInterface         uint32 = 0x00000020
	TypeAbstract          uint32 = 0x00000080
	TypeSealed            uint32 = 0x00000100
)

// TypeDefView is one row of the TypeDef table with its strings resolved.
type TypeDefView struct {
	m         *Metadata
	Name      string
	Namespace string
	// Extends is the base type, null for interfaces and System.Object.
	Extends table.Ref
	Flags   uint32
	RID     uint32
}

// FullName returns Namespace.Name, or just Name in the global namespace.
func (t TypeDefView) FullName() string {
	return fullName(t.Namespace, t.Name)
}

// Token returns the TypeDef token of t.
func (t TypeDefView) Token() uint32 {
	return table.Ref{Table: table.TypeDef, RID: t.RID}.Token()
}

// IsInterface reports whether t is an interface.
func (t TypeDefView) IsInterface() bool {
	return t.Flags&TypeClassSemanticMask == TypeInterface
}

// IsNested reports whether t's visibility marks it as nested.
func (t TypeDefView) IsNested() bool {
	return t.Flags&TypeVisibilityMask >= TypeNestedPublic
}

// Methods yields the methods t owns through its MethodList range.
func (t TypeDefView) Methods() iter.Seq[MethodInfo] {
	m := t.m
	return func(yield func(MethodInfo) bool) {
		for rid := range m.ownedRange(table.TypeDef, t.RID, "MethodList", table.MethodDef, table.MethodPtr, "Method") {
			row, ok := m.tables.Row(table.MethodDef, rid)
			if ok && !yield(m.methodInfo(row)) {
				return
			}
		}
	}
}

// Fields yields the fields t owns through its FieldList range.
func (t TypeDefView) Fields() iter.Seq[FieldInfo] {
	m := t.m
	return func(yield func(FieldInfo) bool) {
		for rid := range m.ownedRange(table.TypeDef, t.RID, "FieldList", table.Field, table.FieldPtr, "Field") {
			row, ok := m.tables.Row(table.Field, rid)
			if ok && !yield(m.fieldInfo(row)) {
				return
			}
		}
	}
}

// EnclosingType returns the type t is nested in.
func (t TypeDefView) EnclosingType() (TypeDefView, bool) {
	for _, row := range t.m.tables.Rows(table.NestedClass) {
		if row.Uint("NestedClass") == t.RID {
			return t.m.TypeDef(row.Uint("EnclosingClass"))
		}
	}
	return TypeDefView{}, false
}

// NestedTypes yields the types directly nested in t.
func (t TypeDefView) NestedTypes() iter.Seq[TypeDefView] {
	m := t.m
	return func(yield func(TypeDefView) bool) {
		for _, row := range m.tables.Rows(table.NestedClass) {
			if row.Uint("EnclosingClass") != t.RID {
				continue
			}
			nested, ok := m.TypeDef(row.Uint("NestedClass"))
			if ok && !yield(nested) {
				return
			}
		}
	}
}

// Types yields every TypeDef row in RID order, including the <Module>
// pseudo-type at RID 1. The sequence can be ranged over repeatedly.
func (m *Metadata) Types() iter.Seq[TypeDefView] {
	return rows(m, table.TypeDef, m.typeDefView)
}

// TypeCount returns the number of TypeDef rows.
func (m *Metadata) TypeCount() int {
	return m.tables.Len(table.TypeDef)
}

// TypeDef returns the TypeDef row rid.
func (m *Metadata) TypeDef(rid uint32) (TypeDefView, bool) {
	row, ok := m.tables.Row(table.TypeDef, rid)
	if !ok {
		return TypeDefView{}, false
	}
	return m.typeDefView(row), true
}

// FindType returns the first type with the given namespace and name.
func (m *Metadata) FindType(namespace, name string) (TypeDefView, bool) {
	for _, row := range m.tables.Rows(table.TypeDef) {
		if m.str(row.Uint("TypeName")) == name && m.str(row.Uint("TypeNamespace")) == namespace {
			return m.typeDefView(row), true
		}
	}
	return TypeDefView{}, false
}

func (m *Metadata) typeDefView(row table.Row) TypeDefView {
	return TypeDefView{
		m:         m,
		RID:       row.RID,
		Flags:     row.Uint("Flags"),
		Name:      m.str(row.Uint("TypeName")),
		Namespace: m.str(row.Uint("TypeNamespace")),
		Extends:   row.Ref("Extends"),
	}
}

// TypeRefInfo is one row of the TypeRef table.
type TypeRefInfo struct {
	Name      string
	Namespace string
	// ResolutionScope is the Module, ModuleRef, AssemblyRef or enclosing
	// TypeRef that defines the type.
	ResolutionScope table.Ref
	RID             uint32
}

// FullName returns Namespace.Name, or just Name in the global namespace.
func (t TypeRefInfo) FullName() string {
	return fullName(t.Namespace, t.Name)
}

// TypeRefs yields every TypeRef row in RID order.
func (m *Metadata) TypeRefs() iter.Seq[TypeRefInfo] {
	return rows(m, table.TypeRef, func(row table.Row) TypeRefInfo {
		return TypeRefInfo{
			RID:             row.RID,
			ResolutionScope: row.Ref("ResolutionScope"),
			Name:            m.str(row.Uint("TypeName")),
			Namespace:       m.str(row.Uint("TypeNamespace")),
		}
	})
}

func fullName(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}

// ownedRange yields the target RIDs owned by row rid of owner through its
// list column. When the pointer table ptr holds rows the list indexes ptr,
// and each entry's ptrColumn names the real target row.
func (m *Metadata) ownedRange(owner table.ID, rid uint32, list string, target, ptr table.ID, ptrColumn string) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		indirect := m.tables.Len(ptr) > 0
		through := target
		if indirect {
			through = ptr
		}
		start, end := m.tables.Range(owner, rid, list, through)
		for i := start; i < end; i++ {
			next := i
			if indirect {
				row, _ := m.tables.Row(ptr, i)
				next = row.Uint(ptrColumn)
			}
			if !yield(next) {
				return
			}
		}
	}
}
