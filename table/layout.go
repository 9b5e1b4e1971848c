package table

import "github.com/wippyai/clrmeta/errors"

// ColumnLayout is a column with its resolved width and byte offset within
// the row.
type ColumnLayout struct {
	Column
	Width  int
	Offset int
}

// Layout is the resolved physical shape of one table.
type Layout struct {
	Columns  []ColumnLayout
	RowSize  int
	RowCount uint32
	Table    ID
}

// Size returns the total byte size of the table.
func (l *Layout) Size() uint64 {
	return uint64(l.RowSize) * uint64(l.RowCount)
}

// ResolveLayout computes the layout of id under h. The table need not be
// present; its RowCount is then 0.
func ResolveLayout(h *Header, id ID) (*Layout, error) {
	cols := Schema(id)
	if cols == nil {
		return nil, errors.Unsupported(uint8(id))
	}
	l := &Layout{
		Table:    id,
		RowCount: h.RowCount(id),
		Columns:  make([]ColumnLayout, len(cols)),
	}
	for i, c := range cols {
		w := h.ColumnWidth(c)
		l.Columns[i] = ColumnLayout{Column: c, Width: w, Offset: l.RowSize}
		l.RowSize += w
	}
	return l, nil
}

// ResolveLayouts returns the layout of every table marked in h.Valid,
// indexed by table ID. A valid bit with no schema is UnsupportedTable, even
// when its row count is 0, since the byte size of its rows is unknown.
func ResolveLayouts(h *Header) ([MaxTables]*Layout, error) {
	var out [MaxTables]*Layout
	for id := range MaxTables {
		if h.Valid&(1<<id) == 0 {
			continue
		}
		l, err := ResolveLayout(h, ID(id))
		if err != nil {
			return out, err
		}
		out[id] = l
	}
	return out, nil
}
