// Package result holds the in-memory representation of one query's output:
// an ordered column list plus the fully materialized rows, each cell a typed
// Value. A Set is produced by one query execution and is read-only from then
// on — exporters and the HTTP layer never mutate it.
package result

// Set is the materialized output of a single query.
//
// Columns preserves the server-reported order and may contain duplicate
// names. Every row has exactly len(Columns) values; the session layer
// guarantees this invariant at materialization time.
type Set struct {
	Columns []string
	Rows    [][]Value
}

// RowCount returns the number of data rows.
func (s *Set) RowCount() int {
	return len(s.Rows)
}

// Empty reports whether the set holds no data rows. Exporters do not check
// this — callers decide whether exporting an empty set is meaningful.
func (s *Set) Empty() bool {
	return len(s.Rows) == 0
}

// LastRow returns the final row of the set, or nil when the set is empty.
// The interactive layer shows it as a quick sanity preview after a query.
func (s *Set) LastRow() []Value {
	if len(s.Rows) == 0 {
		return nil
	}
	return s.Rows[len(s.Rows)-1]
}
