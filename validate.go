package clrmeta

import (
	"github.com/wippyai/clrmeta/errors"
	"github.com/wippyai/clrmeta/table"
)

// rangeLists are the list columns whose values must not decrease from one
// owner row to the next.
var rangeLists = []struct {
	owner  table.ID
	column string
}{
	{table.TypeDef, "FieldList"},
	{table.TypeDef, "MethodList"},
	{table.MethodDef, "ParamList"},
	{table.EventMap, "EventList"},
	{table.PropertyMap, "PropertyList"},
}

// Validate reports structural problems that decode cleanly but break the
// rules of the table format: a Module table without exactly one row,
// references past the end of their target table and decreasing range
// lists. A nil result means no problems were found. Every error has kind
// MalformedMetadata.
func (m *Metadata) Validate() []error {
	var errs []error

	if n := m.tables.Len(table.Module); n != 1 {
		errs = append(errs, errors.New(errors.PhaseValidate, errors.KindMalformedMetadata).
			Path(table.Module.String()).
			Value(n).
			Detail("Module table has %d rows, want 1", n).
			Build())
	}

	for id := range m.tables.Present() {
		for _, row := range m.tables.Rows(id) {
			errs = append(errs, m.checkRefs(row)...)
		}
	}

	for _, rl := range rangeLists {
		var prev uint32
		for _, row := range m.tables.Rows(rl.owner) {
			v := row.Uint(rl.column)
			if v < prev {
				errs = append(errs, errors.New(errors.PhaseValidate, errors.KindMalformedMetadata).
					Path(rowPath(row), rl.column).
					Value(v).
					Detail("range list decreases from %d to %d", prev, v).
					Build())
			}
			prev = v
		}
	}
	return errs
}

// checkRefs checks that every index in row stays within its target table.
// Simple indices may point one past the end, which is how an empty trailing
// range list is written.
func (m *Metadata) checkRefs(row table.Row) []error {
	var errs []error
	for i := range row.Len() {
		v := row.At(i)
		n := uint32(m.tables.Len(v.Ref.Table))
		limit := n
		switch v.Kind {
		case table.SimpleIndex:
			limit++
		case table.CodedIndex:
		default:
			continue
		}
		if v.Ref.RID > limit {
			errs = append(errs, errors.New(errors.PhaseValidate, errors.KindMalformedMetadata).
				Path(rowPath(row), row.Column(i).Name).
				Value(v.Ref).
				Detail("%s past end of %s (%d rows)", v.Ref, v.Ref.Table, n).
				Build())
		}
	}
	return errs
}
