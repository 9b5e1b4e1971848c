package clrmeta

import (
	"crypto/sha1"
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/wippyai/clrmeta/table"
)

// Version is a four-part assembly version.
type Version struct {
	Major    uint16
	Minor    uint16
	Build    uint16
	Revision uint16
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Assembly flags, ECMA-335 II.23.1.2.
const (
	AssemblyFlagPublicKey                  uint32 = 0x0001
	AssemblyFlagRetargetable               uint32 = 0x0100
	AssemblyFlagDisableJITCompileOptimizer uint32 = 0x4000
	AssemblyFlagEnableJITCompileTracking   uint32 = 0x8000
)

// AssemblyInfo is the projection of the single Assembly row.
type AssemblyInfo struct {
	Name      string
	Culture   string
	PublicKey []byte
	Version   Version
	Flags     uint32
	HashAlgID uint32
}

// PublicKeyToken returns the last 8 bytes of the SHA-1 of the public key,
// reversed. It returns nil when the assembly is not strong-named.
func (a *AssemblyInfo) PublicKeyToken() []byte {
	return publicKeyToken(a.PublicKey)
}

// FullName returns the display name, e.g.
// "Test, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null".
func (a *AssemblyInfo) FullName() string {
	return displayName(a.Name, a.Version, a.Culture, a.PublicKeyToken())
}

func publicKeyToken(key []byte) []byte {
	if len(key) == 0 {
		return nil
	}
	sum := sha1.Sum(key)
	token := make([]byte, 8)
	for i := range token {
		token[i] = sum[len(sum)-1-i]
	}
	return token
}

func displayName(name string, v Version, culture string, token []byte) string {
	if culture == "" {
		culture = "neutral"
	}
	tok := "null"
	if len(token) > 0 {
		tok = fmt.Sprintf("%x", token)
	}
	return fmt.Sprintf("%s, Version=%s, Culture=%s, PublicKeyToken=%s", name, v, culture, tok)
}

// ModuleInfo is the projection of the Module row.
type ModuleInfo struct {
	Name       string
	Mvid       uuid.UUID
	Generation uint16
}

// AssemblyRefInfo is one row of the AssemblyRef table.
type AssemblyRefInfo struct {
	Name      string
	Culture   string
	HashValue []byte
	// PublicKeyOrToken holds the full key when Flags has
	// AssemblyFlagPublicKey, otherwise the 8-byte token or nothing.
	PublicKeyOrToken []byte
	Version          Version
	Flags            uint32
	RID              uint32
}

// PublicKeyToken returns the reference's token, hashing the key when the
// reference carries a full public key.
func (a AssemblyRefInfo) PublicKeyToken() []byte {
	if a.Flags&AssemblyFlagPublicKey != 0 {
		return publicKeyToken(a.PublicKeyOrToken)
	}
	if len(a.PublicKeyOrToken) == 0 {
		return nil
	}
	return a.PublicKeyOrToken
}

// FullName returns the display name of the referenced assembly.
func (a AssemblyRefInfo) FullName() string {
	return displayName(a.Name, a.Version, a.Culture, a.PublicKeyToken())
}

// ModuleRefInfo is one row of the ModuleRef table.
type ModuleRefInfo struct {
	Name string
	RID  uint32
}

// Assembly returns the assembly manifest, or nil for a netmodule.
func (m *Metadata) Assembly() *AssemblyInfo {
	return m.assembly
}

// Module returns the module row, or nil when the Module table is empty.
func (m *Metadata) Module() *ModuleInfo {
	return m.module
}

// AssemblyRefs yields every AssemblyRef row in RID order.
func (m *Metadata) AssemblyRefs() iter.Seq[AssemblyRefInfo] {
	return rows(m, table.AssemblyRef, func(row table.Row) AssemblyRefInfo {
		return AssemblyRefInfo{
			RID:              row.RID,
			Name:             m.str(row.Uint("Name")),
			Culture:          m.str(row.Uint("Culture")),
			Version:          rowVersion(row),
			Flags:            row.Uint("Flags"),
			PublicKeyOrToken: m.blob(row.Uint("PublicKeyOrToken")),
			HashValue:        m.blob(row.Uint("HashValue")),
		}
	})
}

// ModuleRefs yields every ModuleRef row in RID order.
func (m *Metadata) ModuleRefs() iter.Seq[ModuleRefInfo] {
	return rows(m, table.ModuleRef, func(row table.Row) ModuleRefInfo {
		return ModuleRefInfo{RID: row.RID, Name: m.str(row.Uint("Name"))}
	})
}

func (m *Metadata) moduleInfo(row table.Row) *ModuleInfo {
	// GUID references were checked by verifyHeapRefs.
	mvid, _ := m.guids.Get(row.Uint("Mvid"))
	return &ModuleInfo{
		Generation: uint16(row.Uint("Generation")),
		Name:       m.str(row.Uint("Name")),
		Mvid:       mvid,
	}
}

func (m *Metadata) assemblyInfo(row table.Row) *AssemblyInfo {
	return &AssemblyInfo{
		Name:      m.str(row.Uint("Name")),
		Culture:   m.str(row.Uint("Culture")),
		PublicKey: m.blob(row.Uint("PublicKey")),
		Version:   rowVersion(row),
		Flags:     row.Uint("Flags"),
		HashAlgID: row.Uint("HashAlgId"),
	}
}

func rowVersion(row table.Row) Version {
	return Version{
		Major:    uint16(row.Uint("MajorVersion")),
		Minor:    uint16(row.Uint("MinorVersion")),
		Build:    uint16(row.Uint("BuildNumber")),
		Revision: uint16(row.Uint("RevisionNumber")),
	}
}

// rows projects every row of id through fn, lazily and restartably.
func rows[T any](m *Metadata, id table.ID, fn func(table.Row) T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, row := range m.tables.Rows(id) {
			if !yield(fn(row)) {
				return
			}
		}
	}
}
