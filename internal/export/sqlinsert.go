package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/result"
)

// ToSQLInsert writes one INSERT statement per row, newline-terminated, in
// row order:
//
//	INSERT INTO <table> (<col1>, <col2>, …) VALUES (<v1>, <v2>, …);
//
// The column list uses the set's column names verbatim, comma-joined, in
// server order. Value rendering is the security-sensitive path — see
// renderValue.
func ToSQLInsert(set *result.Set, path, tableName string) error {
	if tableName == "" {
		tableName = DefaultTableName
	}

	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot create %s", path), err)
	}

	w := bufio.NewWriter(f)
	columns := strings.Join(set.Columns, ", ")
	values := make([]string, len(set.Columns))

	for _, row := range set.Rows {
		for i, v := range row {
			values[i] = renderValue(v)
		}
		if _, err := fmt.Fprintf(w, "INSERT INTO %s (%s) VALUES (%s);\n",
			tableName, columns, strings.Join(values, ", ")); err != nil {
			_ = f.Close()
			return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot write to %s", path), err)
		}
	}

	if err := w.Flush(); err != nil {
		_ = f.Close()
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot flush %s", path), err)
	}
	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot close %s", path), err)
	}
	return nil
}

// renderValue produces the SQL literal for one cell. The variant switch is
// exhaustive; KindOther falls through to the plain textual form.
//
//   - Null → unquoted NULL
//   - Text / binary → single-quoted, embedded quotes doubled
//   - Date → 'YYYY-MM-DD', DateTime → 'YYYY-MM-DD HH:MM:SS'
//   - numerics, booleans, Other → plain unquoted text
func renderValue(v result.Value) string {
	switch v.Kind() {
	case result.KindNull:
		return "NULL"
	case result.KindText, result.KindBytes:
		return quoteString(v.Display())
	case result.KindDate:
		return "'" + v.Time().Format(result.DateFormat) + "'"
	case result.KindDateTime:
		return "'" + v.Time().Format(result.DateTimeFormat) + "'"
	default:
		return v.Display()
	}
}

// quoteString single-quotes s for a SQL literal, doubling every embedded
// single quote. No other escaping is applied: standard SQL string literals
// treat backslashes as data, not escapes.
func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
