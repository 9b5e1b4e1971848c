package table

import "iter"

// Set is a fully decoded table stream. It is immutable and safe for
// concurrent use.
type Set struct {
	header  *Header
	layouts [MaxTables]*Layout
	rows    [MaxTables][]Row
}

// Decode parses a #~ or #- stream: header, layouts, then every present
// table in ascending ID order. Error offsets are relative to the stream.
func Decode(stream []byte) (*Set, error) {
	h, n, err := ParseHeader(stream)
	if err != nil {
		return nil, err
	}
	layouts, err := ResolveLayouts(h)
	if err != nil {
		return nil, err
	}

	s := &Set{header: h, layouts: layouts}
	pos := n
	for id, l := range layouts {
		if l == nil || l.RowCount == 0 {
			continue
		}
		rows, err := DecodeTable(stream[pos:], pos, l)
		if err != nil {
			return nil, err
		}
		s.rows[id] = rows
		pos += int(l.Size())
	}
	return s, nil
}

// Header returns the decoded stream header.
func (s *Set) Header() *Header {
	return s.header
}

// Layout returns the resolved layout of id, or nil when id is not valid.
func (s *Set) Layout(id ID) *Layout {
	if int(id) >= MaxTables {
		return nil
	}
	return s.layouts[id]
}

// Rows returns all rows of id in RID order. Callers must not modify the
// returned slice.
func (s *Set) Rows(id ID) []Row {
	if int(id) >= MaxTables {
		return nil
	}
	return s.rows[id]
}

// Len returns the number of rows in id.
func (s *Set) Len(id ID) int {
	return len(s.Rows(id))
}

// Row returns row rid of id. RID 0 and RIDs past the end report false.
func (s *Set) Row(id ID, rid uint32) (Row, bool) {
	rows := s.Rows(id)
	if rid == 0 || uint64(rid) > uint64(len(rows)) {
		return Row{}, false
	}
	return rows[rid-1], true
}

// Resolve returns the row ref points to.
func (s *Set) Resolve(ref Ref) (Row, bool) {
	return s.Row(ref.Table, ref.RID)
}

// Present yields the IDs of tables that hold rows, in ascending order.
func (s *Set) Present() iter.Seq[ID] {
	return func(yield func(ID) bool) {
		for id := range MaxTables {
			if len(s.rows[id]) > 0 && !yield(ID(id)) {
				return
			}
		}
	}
}

// Range returns the RIDs [start, end) that row rid of owner owns in target
// through its list column. The end is the next owner row's list value, or
// target's row count + 1 for the last owner. Out-of-range bounds are
// clamped so the result is always a valid, possibly empty, range.
func (s *Set) Range(owner ID, rid uint32, column string, target ID) (start, end uint32) {
	rows := s.Rows(owner)
	if rid == 0 || uint64(rid) > uint64(len(rows)) {
		return 0, 0
	}
	limit := uint32(s.Len(target)) + 1
	start = rows[rid-1].Uint(column)
	if int(rid) < len(rows) {
		end = rows[rid].Uint(column)
	} else {
		end = limit
	}
	start = max(start, 1)
	end = min(end, limit)
	if start > end {
		start = end
	}
	return start, end
}
