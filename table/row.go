package table

import (
	"fmt"

	"github.com/wippyai/clrmeta/errors"
	"github.com/wippyai/clrmeta/internal/binary"
)

// Value is one decoded cell. Raw holds the integer as stored. For simple
// and coded indices Ref holds the resolved target table and RID.
type Value struct {
	Ref  Ref
	Raw  uint32
	Kind ColumnKind
}

// Row is one decoded table row. The zero Row is not usable.
type Row struct {
	layout *Layout
	values []Value
	RID    uint32
}

// Table returns the table the row belongs to.
func (r Row) Table() ID {
	return r.layout.Table
}

// Len returns the number of columns.
func (r Row) Len() int {
	return len(r.values)
}

// At returns the value of column i.
func (r Row) At(i int) Value {
	return r.values[i]
}

// Column returns the layout of column i.
func (r Row) Column(i int) ColumnLayout {
	return r.layout.Columns[i]
}

// Get returns the value of the named column. Column names are static, so an
// unknown name is a programming error and panics.
func (r Row) Get(name string) Value {
	i, ok := columnIndex[r.layout.Table][name]
	if !ok {
		panic(fmt.Sprintf("table: %s has no column %q", r.layout.Table, name))
	}
	return r.values[i]
}

// Uint returns the raw value of the named column.
func (r Row) Uint(name string) uint32 {
	return r.Get(name).Raw
}

// Ref returns the resolved reference held by the named index column.
func (r Row) Ref(name string) Ref {
	return r.Get(name).Ref
}

// Token returns the metadata token of the row itself.
func (r Row) Token() uint32 {
	return Ref{Table: r.layout.Table, RID: r.RID}.Token()
}

// DecodeTable decodes l.RowCount rows of l.RowSize bytes from the start of b.
// base is the absolute offset of b and only affects error offsets.
func DecodeTable(b []byte, base int, l *Layout) ([]Row, error) {
	if l.Size() > uint64(len(b)) {
		return nil, errors.New(errors.PhaseRows, errors.KindTruncatedInput).
			Path(l.Table.String()).
			Offset(base).
			Value(l.RowCount).
			Detail("%d rows of %d bytes need %d bytes, %d available", l.RowCount, l.RowSize, l.Size(), len(b)).
			Build()
	}

	ncol := len(l.Columns)
	values := make([]Value, int(l.RowCount)*ncol)
	rows := make([]Row, l.RowCount)
	r := binary.NewReader(b, base, errors.PhaseRows)

	for i := range rows {
		vals := values[i*ncol : (i+1)*ncol : (i+1)*ncol]
		for c, col := range l.Columns {
			raw, err := r.ReadUint(col.Width)
			if err != nil {
				return nil, err
			}
			v, err := decodeValue(col.Column, raw)
			if err != nil {
				return nil, annotate(err, l.Table, uint32(i+1), col.Name, base+i*l.RowSize+col.Offset)
			}
			vals[c] = v
		}
		rows[i] = Row{RID: uint32(i + 1), layout: l, values: vals}
	}
	return rows, nil
}

func decodeValue(c Column, raw uint32) (Value, error) {
	v := Value{Kind: c.Kind, Raw: raw}
	switch c.Kind {
	case SimpleIndex:
		v.Ref = Ref{Table: c.Target, RID: raw}
	case CodedIndex:
		ref, err := c.Coded.Decode(raw)
		if err != nil {
			return v, err
		}
		v.Ref = ref
	}
	return v, nil
}

func annotate(err error, id ID, rid uint32, column string, offset int) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return err
	}
	out := *e
	out.Path = []string{fmt.Sprintf("%s[%d]", id, rid), column}
	out.Offset = offset
	return &out
}
