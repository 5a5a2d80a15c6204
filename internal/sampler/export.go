package sampler

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"

	"covsim/internal/errors"
)

// exportHeaders returns the dataset column names
func exportHeaders() []string {
	return []string{"s", "d", "y"}
}

// exportRows formats every record for file output
func exportRows(ds *Dataset) [][]string {
	rows := make([][]string, ds.N())
	for i, rec := range ds.Records {
		rows[i] = []string{
			strconv.Itoa(int(rec.S)),
			strconv.Itoa(int(rec.D)),
			fToStr(rec.Y, 6),
		}
	}
	return rows
}

// WriteCSV dumps the dataset to a CSV file
func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.ExportError("failed to create csv file", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(exportHeaders()); err != nil {
		return errors.ExportError("failed to write csv header", err)
	}
	for _, row := range exportRows(ds) {
		if err := w.Write(row); err != nil {
			return errors.ExportError("failed to write csv row", err)
		}
	}
	return w.Error()
}

// WriteXLSX dumps the dataset to an XLSX file
func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()

	// Ensure Sheet1 exists and is active.
	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range exportHeaders() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range exportRows(ds) {
		rowIdx := r + 2
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowIdx)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.ExportError("failed to save xlsx file", err)
	}
	return nil
}

func fToStr(x float64, decimals int) string {
	p := math.Pow10(decimals)
	x = math.Round(x*p) / p
	return strconv.FormatFloat(x, 'f', decimals, 64)
}
