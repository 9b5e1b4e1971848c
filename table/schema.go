package table

import "fmt"

// ColumnKind selects how a column's width is resolved and how its value is
// interpreted.
type ColumnKind uint8

const (
	Fixed ColumnKind = iota
	StringIndex
	GUIDIndex
	BlobIndex
	SimpleIndex
	CodedIndex
)

func (k ColumnKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case StringIndex:
		return "string"
	case GUIDIndex:
		return "guid"
	case BlobIndex:
		return "blob"
	case SimpleIndex:
		return "index"
	case CodedIndex:
		return "coded"
	default:
		return fmt.Sprintf("ColumnKind(%d)", uint8(k))
	}
}

// Column is the static description of one table column. Size is set only
// for Fixed columns, Target only for SimpleIndex and Coded only for
// CodedIndex.
type Column struct {
	Name   string
	Kind   ColumnKind
	Size   int
	Target ID
	Coded  CodedKind
}

func u8(name string) Column  { return Column{Name: name, Kind: Fixed, Size: 1} }
func u16(name string) Column { return Column{Name: name, Kind: Fixed, Size: 2} }
func u32(name string) Column { return Column{Name: name, Kind: Fixed, Size: 4} }
func str(name string) Column { return Column{Name: name, Kind: StringIndex} }
func guid(name string) Column {
	return Column{Name: name, Kind: GUIDIndex}
}
func blob(name string) Column { return Column{Name: name, Kind: BlobIndex} }
func index(name string, target ID) Column {
	return Column{Name: name, Kind: SimpleIndex, Target: target}
}
func coded(name string, kind CodedKind) Column {
	return Column{Name: name, Kind: CodedIndex, Coded: kind}
}

// Column layouts, ECMA-335 II.22.
var schemas = [MaxTables][]Column{
	Module: {u16("Generation"), str("Name"), guid("Mvid"), guid("EncId"), guid("EncBaseId")},
	TypeRef: {
		coded("ResolutionScope", ResolutionScope), str("TypeName"), str("TypeNamespace"),
	},
	TypeDef: {
		u32("Flags"), str("TypeName"), str("TypeNamespace"), coded("Extends", TypeDefOrRef),
		index("FieldList", Field), index("MethodList", MethodDef),
	},
	FieldPtr:  {index("Field", Field)},
	Field:     {u16("Flags"), str("Name"), blob("Signature")},
	MethodPtr: {index("Method", MethodDef)},
	MethodDef: {
		u32("RVA"), u16("ImplFlags"), u16("Flags"), str("Name"), blob("Signature"),
		index("ParamList", Param),
	},
	ParamPtr:        {index("Param", Param)},
	Param:           {u16("Flags"), u16("Sequence"), str("Name")},
	InterfaceImpl:   {index("Class", TypeDef), coded("Interface", TypeDefOrRef)},
	MemberRef:       {coded("Class", MemberRefParent), str("Name"), blob("Signature")},
	Constant:        {u8("Type"), u8("Padding"), coded("Parent", HasConstant), blob("Value")},
	CustomAttribute: {coded("Parent", HasCustomAttribute), coded("Type", CustomAttributeType), blob("Value")},
	FieldMarshal:    {coded("Parent", HasFieldMarshal), blob("NativeType")},
	DeclSecurity:    {u16("Action"), coded("Parent", HasDeclSecurity), blob("PermissionSet")},
	ClassLayout:     {u16("PackingSize"), u32("ClassSize"), index("Parent", TypeDef)},
	FieldLayout:     {u32("Offset"), index("Field", Field)},
	StandAloneSig:   {blob("Signature")},
	EventMap:        {index("Parent", TypeDef), index("EventList", Event)},
	EventPtr:        {index("Event", Event)},
	Event:           {u16("EventFlags"), str("Name"), coded("EventType", TypeDefOrRef)},
	PropertyMap:     {index("Parent", TypeDef), index("PropertyList", Property)},
	PropertyPtr:     {index("Property", Property)},
	Property:        {u16("Flags"), str("Name"), blob("Type")},
	MethodSemantics: {u16("Semantics"), index("Method", MethodDef), coded("Association", HasSemantics)},
	MethodImpl: {
		index("Class", TypeDef), coded("MethodBody", MethodDefOrRef),
		coded("MethodDeclaration", MethodDefOrRef),
	},
	ModuleRef: {str("Name")},
	TypeSpec:  {blob("Signature")},
	ImplMap: {
		u16("MappingFlags"), coded("MemberForwarded", MemberForwarded), str("ImportName"),
		index("ImportScope", ModuleRef),
	},
	FieldRVA: {u32("RVA"), index("Field", Field)},
	EncLog:   {u32("Token"), u32("FuncCode")},
	EncMap:   {u32("Token")},
	Assembly: {
		u32("HashAlgId"), u16("MajorVersion"), u16("MinorVersion"), u16("BuildNumber"),
		u16("RevisionNumber"), u32("Flags"), blob("PublicKey"), str("Name"), str("Culture"),
	},
	AssemblyProcessor: {u32("Processor")},
	AssemblyOS:        {u32("OSPlatformID"), u32("OSMajorVersion"), u32("OSMinorVersion")},
	AssemblyRef: {
		u16("MajorVersion"), u16("MinorVersion"), u16("BuildNumber"), u16("RevisionNumber"),
		u32("Flags"), blob("PublicKeyOrToken"), str("Name"), str("Culture"), blob("HashValue"),
	},
	AssemblyRefProcessor: {u32("Processor"), index("AssemblyRef", AssemblyRef)},
	AssemblyRefOS: {
		u32("OSPlatformID"), u32("OSMajorVersion"), u32("OSMinorVersion"),
		index("AssemblyRef", AssemblyRef),
	},
	File: {u32("Flags"), str("Name"), blob("HashValue")},
	ExportedType: {
		u32("Flags"), u32("TypeDefId"), str("TypeName"), str("TypeNamespace"),
		coded("Implementation", Implementation),
	},
	ManifestResource: {
		u32("Offset"), u32("Flags"), str("Name"), coded("Implementation", Implementation),
	},
	NestedClass:            {index("NestedClass", TypeDef), index("EnclosingClass", TypeDef)},
	GenericParam:           {u16("Number"), u16("Flags"), coded("Owner", TypeOrMethodDef), str("Name")},
	MethodSpec:             {coded("Method", MethodDefOrRef), blob("Instantiation")},
	GenericParamConstraint: {index("Owner", GenericParam), coded("Constraint", TypeDefOrRef)},
}

// columnIndex maps table and column name to the column's position.
var columnIndex [MaxTables]map[string]int

func init() {
	for id, cols := range schemas {
		if cols == nil {
			continue
		}
		m := make(map[string]int, len(cols))
		for i, c := range cols {
			if _, dup := m[c.Name]; dup {
				panic(fmt.Sprintf("table: duplicate column %s.%s", ID(id), c.Name))
			}
			if c.Kind == SimpleIndex && !c.Target.Known() {
				panic(fmt.Sprintf("table: %s.%s targets unknown table", ID(id), c.Name))
			}
			m[c.Name] = i
		}
		columnIndex[id] = m
	}
}

// Schema returns the column list for id, or nil when id has no schema.
// Callers must not modify it.
func Schema(id ID) []Column {
	if int(id) >= MaxTables {
		return nil
	}
	return schemas[id]
}
