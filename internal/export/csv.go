package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/result"
)

// ToCSV writes set to path as UTF-8 CSV: one header row of column names,
// then one record per row. Quoting follows RFC 4180 — embedded delimiters,
// quotes, and newlines are handled by the encoder.
//
// Null renders as an empty field, so a later parse recovers it as an empty
// string; that string/empty ambiguity is an accepted limitation of the
// format.
func ToCSV(set *result.Set, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot create %s", path), err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(set.Columns); err != nil {
		_ = f.Close()
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot write header to %s", path), err)
	}

	record := make([]string, len(set.Columns))
	for _, row := range set.Rows {
		for i, v := range row {
			record[i] = v.Display()
		}
		if err := w.Write(record); err != nil {
			_ = f.Close()
			return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot write row to %s", path), err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot flush %s", path), err)
	}

	if err := f.Close(); err != nil {
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot close %s", path), err)
	}
	return nil
}
