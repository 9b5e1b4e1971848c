package table

import "fmt"

// ID identifies a metadata table. The value is the table's bit in the valid
// mask and the high byte of its metadata tokens.
type ID uint8

// Tables defined by ECMA-335 partition II, chapter 22.
const (
	Module                 ID = 0x00
	TypeRef                ID = 0x01
	TypeDef                ID = 0x02
	FieldPtr               ID = 0x03
	Field                  ID = 0x04
	MethodPtr              ID = 0x05
	MethodDef              ID = 0x06
	ParamPtr               ID = 0x07
	Param                  ID = 0x08
	InterfaceImpl          ID = 0x09
	MemberRef              ID = 0x0A
	Constant               ID = 0x0B
	CustomAttribute        ID = 0x0C
	FieldMarshal           ID = 0x0D
	DeclSecurity           ID = 0x0E
	ClassLayout            ID = 0x0F
	FieldLayout            ID = 0x10
	StandAloneSig          ID = 0x11
	EventMap               ID = 0x12
	EventPtr               ID = 0x13
	Event                  ID = 0x14
	PropertyMap            ID = 0x15
	PropertyPtr            ID = 0x16
	Property               ID = 0x17
	MethodSemantics        ID = 0x18
	MethodImpl             ID = 0x19
	ModuleRef              ID = 0x1A
	TypeSpec               ID = 0x1B
	ImplMap                ID = 0x1C
	FieldRVA               ID = 0x1D
	EncLog                 ID = 0x1E
	EncMap                 ID = 0x1F
	Assembly               ID = 0x20
	AssemblyProcessor      ID = 0x21
	AssemblyOS             ID = 0x22
	AssemblyRef            ID = 0x23
	AssemblyRefProcessor   ID = 0x24
	AssemblyRefOS          ID = 0x25
	File                   ID = 0x26
	ExportedType           ID = 0x27
	ManifestResource       ID = 0x28
	NestedClass            ID = 0x29
	GenericParam           ID = 0x2A
	MethodSpec             ID = 0x2B
	GenericParamConstraint ID = 0x2C
)

// MaxTables is the number of bits in the valid mask.
const MaxTables = 64

// NoTable marks an unused slot in a coded index tag set.
const NoTable ID = 0xFF

var names = [...]string{
	Module:                 "Module",
	TypeRef:                "TypeRef",
	TypeDef:                "TypeDef",
	FieldPtr:               "FieldPtr",
	Field:                  "Field",
	MethodPtr:              "MethodPtr",
	MethodDef:              "MethodDef",
	ParamPtr:               "ParamPtr",
	Param:                  "Param",
	InterfaceImpl:          "InterfaceImpl",
	MemberRef:              "MemberRef",
	Constant:               "Constant",
	CustomAttribute:        "CustomAttribute",
	FieldMarshal:           "FieldMarshal",
	DeclSecurity:           "DeclSecurity",
	ClassLayout:            "ClassLayout",
	FieldLayout:            "FieldLayout",
	StandAloneSig:          "StandAloneSig",
	EventMap:               "EventMap",
	EventPtr:               "EventPtr",
	Event:                  "Event",
	PropertyMap:            "PropertyMap",
	PropertyPtr:            "PropertyPtr",
	Property:               "Property",
	MethodSemantics:        "MethodSemantics",
	MethodImpl:             "MethodImpl",
	ModuleRef:              "ModuleRef",
	TypeSpec:               "TypeSpec",
	ImplMap:                "ImplMap",
	FieldRVA:               "FieldRVA",
	EncLog:                 "EncLog",
	EncMap:                 "EncMap",
	Assembly:               "Assembly",
	AssemblyProcessor:      "AssemblyProcessor",
	AssemblyOS:             "AssemblyOS",
	AssemblyRef:            "AssemblyRef",
	AssemblyRefProcessor:   "AssemblyRefProcessor",
	AssemblyRefOS:          "AssemblyRefOS",
	File:                   "File",
	ExportedType:           "ExportedType",
	ManifestResource:       "ManifestResource",
	NestedClass:            "NestedClass",
	GenericParam:           "GenericParam",
	MethodSpec:             "MethodSpec",
	GenericParamConstraint: "GenericParamConstraint",
}

func (id ID) String() string {
	if int(id) < len(names) {
		return names[id]
	}
	return fmt.Sprintf("Table(0x%02X)", uint8(id))
}

// Known reports whether id has a row schema.
func (id ID) Known() bool {
	return int(id) < len(schemas) && schemas[id] != nil
}
