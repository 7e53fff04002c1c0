package testutil

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// Column headers of the import spreadsheet.
const (
	ColType         = "Type"
	ColMenuTitle    = "Τίτλος Μενού"
	ColMeal         = "Meal"
	ColMonthlyItem  = "Γεύμα(doc αρχείο)"
	ColWeek         = "Εβδομάδα"
	ColDay          = "Ημέρα"
	ColWeeklyPrice  = "Weekly Price"
	ColMonthlyPrice = "Monthly Price"
)

// StandardHeader is the full header row in spreadsheet order.
var StandardHeader = []string{
	ColType, ColMenuTitle, ColMeal, ColMonthlyItem, ColWeek, ColDay, ColWeeklyPrice, ColMonthlyPrice,
}

// WorkbookRow is one data row keyed by header.
type WorkbookRow map[string]string

// WeeklyRow builds a weekly-layout row: the item sits under "Meal", the day
// under "Εβδομάδα" and the meal under "Ημέρα".
func WeeklyRow(menu, item, day, meal string) WorkbookRow {
	return WorkbookRow{ColType: "weekly", ColMenuTitle: menu, ColMeal: item, ColWeek: day, ColDay: meal}
}

// MonthlyRow builds a monthly-layout row.
func MonthlyRow(menu, item, week, day, meal string) WorkbookRow {
	return WorkbookRow{ColType: "monthly", ColMenuTitle: menu, ColMonthlyItem: item, ColWeek: week, ColDay: day, ColMeal: meal}
}

// WriteWorkbook renders header and rows into an in-memory XLSX file.
func WriteWorkbook(t *testing.T, header []string, rows ...WorkbookRow) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	for col, h := range header {
		setCell(t, f, sheet, col, 1, h)
	}
	for i, row := range rows {
		for col, h := range header {
			if v, ok := row[h]; ok {
				setCell(t, f, sheet, col, i+2, v)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("writing workbook: %v", err)
	}
	return bytes.Clone(buf.Bytes())
}

func setCell(t *testing.T, f *excelize.File, sheet string, col, row int, v string) {
	t.Helper()
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		t.Fatalf("cell name: %v", err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		t.Fatalf("setting %s: %v", cell, err)
	}
}
