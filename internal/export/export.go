// Package export turns a materialized result set into a file on disk. All
// exporters are pure formatters: they read the set, never mutate it, and do
// not decide whether exporting an empty set is meaningful — that check
// belongs to the caller.
package export

import (
	"fmt"
	"strings"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/result"
)

// Format is the closed set of output formats. Dispatch over it is
// exhaustive; adding a format is a compile-visible change here and in
// Export.
type Format int

const (
	FormatCSV Format = iota
	FormatSpreadsheet
	FormatSQLInsert
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatSpreadsheet:
		return "xlsx"
	case FormatSQLInsert:
		return "sql"
	default:
		return "unknown"
	}
}

// Extension returns the conventional file extension, dot included.
func (f Format) Extension() string {
	return "." + f.String()
}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "xlsx", "excel", "spreadsheet":
		return FormatSpreadsheet, nil
	case "sql", "sql-insert":
		return FormatSQLInsert, nil
	default:
		return 0, errs.New(errs.ErrKindUnsupportedFormat,
			fmt.Sprintf("unsupported export format %q (want csv, xlsx, or sql)", s))
	}
}

// DefaultTableName is the placeholder used by the SQL exporter when the
// caller does not name a target table.
const DefaultTableName = "<table_name>"

// Export writes set to path in the given format. tableName is only
// meaningful for FormatSQLInsert.
func Export(set *result.Set, f Format, path, tableName string) error {
	switch f {
	case FormatCSV:
		return ToCSV(set, path)
	case FormatSpreadsheet:
		return ToSpreadsheet(set, path)
	case FormatSQLInsert:
		return ToSQLInsert(set, path, tableName)
	default:
		return errs.New(errs.ErrKindUnsupportedFormat,
			fmt.Sprintf("unsupported export format %d", f))
	}
}
