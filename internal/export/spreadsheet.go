package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hawkdb/hawkdb/internal/errs"
	"github.com/hawkdb/hawkdb/internal/result"
)

// SheetName is the single worksheet every spreadsheet export writes to.
const SheetName = "Data"

// ToSpreadsheet writes set to path as an XLSX workbook with one sheet named
// "Data": a header row followed by the data rows. Integer and float values
// become numeric cells, booleans become boolean cells, everything else is
// written as text. Null leaves the cell empty.
func ToSpreadsheet(set *result.Set, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return errs.Wrap(errs.ErrKindIOFailure, "cannot initialize worksheet", err)
	}

	for c, col := range set.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return errs.Wrap(errs.ErrKindIOFailure, "invalid header cell coordinates", err)
		}
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return errs.Wrap(errs.ErrKindIOFailure, "cannot write header cell", err)
		}
	}

	for r, row := range set.Rows {
		for c, v := range row {
			if v.IsNull() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return errs.Wrap(errs.ErrKindIOFailure, "invalid cell coordinates", err)
			}
			if err := f.SetCellValue(SheetName, cell, v.Native()); err != nil {
				return errs.Wrap(errs.ErrKindIOFailure, "cannot write cell", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errs.Wrap(errs.ErrKindIOFailure, fmt.Sprintf("cannot save %s", path), err)
	}
	return nil
}
