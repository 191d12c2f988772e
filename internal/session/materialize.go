package session

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/result"
)

// Materialize drains a database/sql result set into a result.Set, converting
// each cell into its typed Value. It always closes rows. Both session
// drivers go through database/sql, so the conversion lives here once.
func Materialize(rows *sql.Rows) (*result.Set, error) {
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read column names", err)
	}

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to read column types", err)
	}
	dbTypes := make([]string, len(cols))
	for i, ct := range types {
		dbTypes[i] = strings.ToUpper(ct.DatabaseTypeName())
	}

	set := &result.Set{Columns: cols, Rows: make([][]result.Value, 0)}

	for rows.Next() {
		dest := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range dest {
			ptrs[i] = &dest[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, errs.Wrap(errs.ErrKindQueryFailed, "failed to scan row", err)
		}

		row := make([]result.Value, len(cols))
		for i, v := range dest {
			row[i] = convertValue(v, dbTypes[i])
		}
		set.Rows = append(set.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, errs.Wrap(errs.ErrKindQueryFailed, "error during row iteration", err)
	}
	return set, nil
}

// convertValue maps one scanned cell to its Value variant. dbType is the
// driver's upper-cased column type name, used to tell DATE from DATETIME
// (both scan as time.Time) and binary from character data (both scan as
// []byte under the MySQL driver).
func convertValue(v any, dbType string) result.Value {
	switch x := v.(type) {
	case nil:
		return result.Null()
	case int64:
		return result.Int(x)
	case int32:
		return result.Int(int64(x))
	case float64:
		return result.Float(x)
	case float32:
		return result.Float(float64(x))
	case bool:
		return result.Bool(x)
	case time.Time:
		if dbType == "DATE" {
			return result.Date(x)
		}
		return result.DateTime(x)
	case string:
		return textValue(x, dbType)
	case []byte:
		return textValue(string(x), dbType)
	default:
		return result.Other(fmt.Sprint(x))
	}
}

func textValue(s, dbType string) result.Value {
	switch dbType {
	case "BINARY", "VARBINARY", "TINYBLOB", "BLOB", "MEDIUMBLOB", "LONGBLOB", "BYTEA":
		return result.Bytes([]byte(s))
	case "DECIMAL", "NUMERIC":
		// Exact numerics keep their server-supplied textual form so an
		// export round-trip never loses precision.
		return result.Other(s)
	default:
		return result.Text(s)
	}
}
