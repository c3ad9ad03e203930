package testkit

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Header is the registrar export header row used by fixtures.
var Header = []string{
	"課程標籤",
	"主開學院名稱_中文",
	"主開系所名稱_中文",
	"主開課程碼",
	"主開科目名稱",
	"學分數",
	"授課教師",
}

// Course is one fixture row in Header order.
type Course struct {
	Tags       string
	College    string
	Department string
	Code       string
	Name       string
	Credits    string
	Instructor string
}

// Row renders the course as a sheet row.
func (c Course) Row() []string {
	return []string{c.Tags, c.College, c.Department, c.Code, c.Name, c.Credits, c.Instructor}
}

// WriteSemesterXLSX writes courses under Header into dir/name and returns the path.
func WriteSemesterXLSX(tb testing.TB, dir, name string, courses ...Course) string {
	tb.Helper()
	rows := [][]string{Header}
	for _, c := range courses {
		rows = append(rows, c.Row())
	}
	path := filepath.Join(dir, name)
	WriteSheet(tb, path, "Sheet1", rows)
	return path
}

// WriteSheet writes raw rows into a new workbook whose only sheet is named sheet.
func WriteSheet(tb testing.TB, path, sheet string, rows [][]string) {
	tb.Helper()
	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		require.NoError(tb, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		addr, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(tb, err)
		require.NoError(tb, f.SetSheetRow(sheet, addr, &cells))
	}
	require.NoError(tb, f.SaveAs(path))
}

// WriteCSV writes rows as a CSV file.
func WriteCSV(tb testing.TB, path string, rows [][]string) {
	tb.Helper()
	file, err := os.Create(path)
	require.NoError(tb, err)
	defer file.Close()

	w := csv.NewWriter(file)
	require.NoError(tb, w.WriteAll(rows))
}

// WriteGarbage writes bytes that no reader can parse.
func WriteGarbage(tb testing.TB, path string) {
	tb.Helper()
	require.NoError(tb, os.WriteFile(path, []byte("this is not a workbook"), 0o644))
}
