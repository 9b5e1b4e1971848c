package clrmeta

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/clrmeta/errors"
	"github.com/wippyai/clrmeta/heap"
	"github.com/wippyai/clrmeta/stream"
	"github.com/wippyai/clrmeta/table"
)

// Config holds parse options. A nil *Config means defaults.
type Config struct {
	// Logger receives parse diagnostics. nil falls back to Logger().
	Logger *zap.Logger

	// Strict makes Parse fail with the first problem Validate would report.
	Strict bool
}

// Metadata is a parsed metadata blob. It owns a private copy of the input
// and is immutable, so any number of goroutines may read it concurrently.
// Identifier strings and blobs handed out by its accessors alias that copy;
// reading them does not allocate.
type Metadata struct {
	root        *stream.Root
	tables      *table.Set
	module      *ModuleInfo
	assembly    *AssemblyInfo
	data        []byte
	strings     heap.Strings
	userStrings heap.UserStrings
	guids       heap.GUIDs
	blobs       heap.Blobs
}

// Parse decodes metadata with default options.
func Parse(b []byte) (*Metadata, error) {
	return ParseWithConfig(b, nil)
}

// ParseWithConfig decodes the metadata root at the start of b, binds the
// heaps and decodes every table. The input is copied; b may be reused once
// Parse returns. On error no partial result is returned.
func ParseWithConfig(b []byte, cfg *Config) (*Metadata, error) {
	log := Logger()
	strict := false
	if cfg != nil {
		if cfg.Logger != nil {
			log = cfg.Logger
		}
		strict = cfg.Strict
	}

	data := make([]byte, len(b))
	copy(data, b)

	root, err := stream.ParseRoot(data)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed metadata root",
		zap.String("version", root.Version),
		zap.Uint16("major", root.MajorVersion),
		zap.Uint16("minor", root.MinorVersion),
		zap.Int("streams", len(root.Streams)))
	for _, name := range root.Duplicates() {
		log.Warn("duplicate stream name, using first", zap.String("stream", name))
	}

	m := &Metadata{root: root, data: data}

	th, ok := root.TablesStream()
	if !ok {
		return nil, errors.Malformed(errors.PhaseRoot, "no %s stream", stream.Tables)
	}
	if th.Name == stream.TablesUncompressed {
		log.Debug("uncompressed table stream")
	}

	// data is never written after this point, so strings may alias it.
	if m.strings, err = bindHeap(root, data, stream.Strings, heap.NewStringsNoCopy); err != nil {
		return nil, err
	}
	if m.userStrings, err = bindHeap(root, data, stream.UserStrings, heap.NewUserStrings); err != nil {
		return nil, err
	}
	if m.guids, err = bindHeap(root, data, stream.GUID, heap.NewGUIDs); err != nil {
		return nil, err
	}
	if m.blobs, err = bindHeap(root, data, stream.Blob, heap.NewBlobs); err != nil {
		return nil, err
	}

	tb, err := th.Bytes(data)
	if err != nil {
		return nil, err
	}
	if m.tables, err = table.Decode(tb); err != nil {
		return nil, rebase(err, int(th.Offset))
	}

	h := m.tables.Header()
	for id := range table.ID(table.MaxTables) {
		l := m.tables.Layout(id)
		if l == nil {
			continue
		}
		if l.RowCount == 0 {
			log.Warn("valid table with zero rows", zap.Stringer("table", id))
			continue
		}
		log.Debug("decoded table",
			zap.Stringer("table", id),
			zap.Uint32("rows", l.RowCount),
			zap.Int("row_size", l.RowSize),
			zap.Bool("sorted", h.IsSorted(id)))
	}

	if err := m.verifyHeapRefs(); err != nil {
		return nil, err
	}
	if err := m.project(); err != nil {
		return nil, err
	}

	if strict {
		if errs := m.Validate(); len(errs) > 0 {
			return nil, errs[0]
		}
	}
	return m, nil
}

// bindHeap returns the view for the first stream named name. A missing
// stream is an empty heap.
func bindHeap[H any](root *stream.Root, data []byte, name string, bind func([]byte) H) (H, error) {
	h, ok := root.Find(name)
	if !ok {
		return bind(nil), nil
	}
	b, err := h.Bytes(data)
	if err != nil {
		var zero H
		return zero, err
	}
	return bind(b), nil
}

// rebase shifts a stream-relative error offset to a root-relative one.
func rebase(err error, base int) error {
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Offset < 0 {
		return err
	}
	out := *e
	out.Offset += base
	return &out
}

// verifyHeapRefs checks every heap index held by every row so that the
// projections below can read heaps without error checks.
func (m *Metadata) verifyHeapRefs() error {
	for id := range m.tables.Present() {
		for _, row := range m.tables.Rows(id) {
			for i := range row.Len() {
				v := row.At(i)
				var err error
				switch v.Kind {
				case table.StringIndex:
					_, err = m.strings.Get(v.Raw)
				case table.BlobIndex:
					_, err = m.blobs.Get(v.Raw)
				case table.GUIDIndex:
					_, err = m.guids.Raw(v.Raw)
				default:
					continue
				}
				if err != nil {
					return errors.New(errors.PhaseHeap, errors.KindMalformedHeap).
						Path(rowPath(row), row.Column(i).Name).
						Value(v.Raw).
						Cause(err).
						Detail("bad %s reference", v.Kind).
						Build()
				}
			}
		}
	}
	return nil
}

// project precomputes the Module and Assembly rows.
func (m *Metadata) project() error {
	if n := m.tables.Len(table.Assembly); n > 1 {
		return errors.New(errors.PhaseQuery, errors.KindMalformedMetadata).
			Path(table.Assembly.String()).
			Value(n).
			Detail("%d Assembly rows, at most one allowed", n).
			Build()
	}
	if row, ok := m.tables.Row(table.Module, 1); ok {
		m.module = m.moduleInfo(row)
	}
	if row, ok := m.tables.Row(table.Assembly, 1); ok {
		m.assembly = m.assemblyInfo(row)
	}
	return nil
}

// Version returns the runtime version string from the metadata root.
func (m *Metadata) Version() string {
	return m.root.Version
}

// Root returns the parsed metadata root.
func (m *Metadata) Root() *stream.Root {
	return m.root
}

// Tables returns the decoded table stream.
func (m *Metadata) Tables() *table.Set {
	return m.tables
}

// Strings returns the #Strings heap.
func (m *Metadata) Strings() heap.Strings {
	return m.strings
}

// UserStrings returns the #US heap.
func (m *Metadata) UserStrings() heap.UserStrings {
	return m.userStrings
}

// GUIDs returns the #GUID heap.
func (m *Metadata) GUIDs() heap.GUIDs {
	return m.guids
}

// Blobs returns the #Blob heap.
func (m *Metadata) Blobs() heap.Blobs {
	return m.blobs
}

// Bytes returns the private copy of the input. Callers must not modify it;
// the strings returned by accessors share its memory.
func (m *Metadata) Bytes() []byte {
	return m.data
}

// Stream returns the bytes of the first stream named name.
func (m *Metadata) Stream(name string) ([]byte, bool) {
	h, ok := m.root.Find(name)
	if !ok {
		return nil, false
	}
	// ParseRoot already bounded every stream.
	b, _ := h.Bytes(m.data)
	return b, true
}

// UserString returns the #US entry at index, as referenced by ldstr tokens.
func (m *Metadata) UserString(index uint32) (heap.UserString, error) {
	return m.userStrings.Get(index)
}

// str reads a verified #Strings reference.
func (m *Metadata) str(index uint32) string {
	s, _ := m.strings.Get(index)
	return s
}

// blob reads a verified #Blob reference.
func (m *Metadata) blob(index uint32) []byte {
	b, _ := m.blobs.Get(index)
	return b
}

func rowPath(row table.Row) string {
	return table.Ref{Table: row.Table(), RID: row.RID}.String()
}
