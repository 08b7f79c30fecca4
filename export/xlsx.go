// Package export writes PTO entries to spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/warp/pto-tracker/generic"
	"github.com/xuri/excelize/v2"
)

const sheetName = "PTO"

var header = []any{"Name", "Date", "PTO", "Hours Worked"}

// WriteXLSX writes one sheet with a row per entry, in the set's order.
func WriteXLSX(w io.Writer, set generic.EntrySet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	for i, e := range set.Entries {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		hours, _ := e.HoursWorked().Float64()
		values := []any{e.Person, e.Date.Time(), e.Kind.Label(), hours}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		dateCell, _ := excelize.CoordinatesToCellName(2, row)
		if err := f.SetCellStyle(sheetName, dateCell, dateCell, dateStyle); err != nil {
			return fmt.Errorf("style row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheetName, "B", "D", 14); err != nil {
		return err
	}

	_, err = f.WriteTo(w)
	return err
}

// ReadXLSX reads rows written by WriteXLSX back into entries. Row ids are
// not exported, so every entry comes back without one.
func ReadXLSX(r io.Reader) ([]generic.Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("worksheet is empty")
	}

	var entries []generic.Entry
	for i, row := range rows[1:] {
		if len(row) < 3 {
			continue
		}
		date, err := parseCellDate(row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		kind, err := generic.ParseKind(row[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, generic.Entry{Person: row[0], Date: date, Kind: kind})
	}
	return entries, nil
}

func parseCellDate(value string) (generic.Date, error) {
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return generic.Date{}, err
		}
		return generic.DateOf(t), nil
	}
	return generic.ParseDate(value)
}
