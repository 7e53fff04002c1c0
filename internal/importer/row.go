package importer

import (
	"strconv"
	"strings"

	"github.com/alexanderramin/menuplan/internal/domain"
)

// Header texts of the import spreadsheet.
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

// Layout names the column each logical field is read from. An empty
// column means the layout has no such field.
type Layout struct {
	Item string
	Week string
	Day  string
	Meal string
}

// Layouts is the type-conditioned column map. Weekly sheets reuse the
// monthly headers shifted by one: the item sits under "Meal", the day under
// "Εβδομάδα" and the meal under "Ημέρα".
var Layouts = map[domain.MenuType]Layout{
	domain.MenuWeekly: {
		Item: ColMeal,
		Day:  ColWeek,
		Meal: ColDay,
	},
	domain.MenuMonthly: {
		Item: ColMonthlyItem,
		Week: ColWeek,
		Day:  ColDay,
		Meal: ColMeal,
	},
}

// Row is one decoded data row. Number is the spreadsheet row number with
// the header as row 1. MenuType is the layout the row was decoded with and
// Type the raw cell it came from. HasPrices is set when the sheet carries
// both price columns.
type Row struct {
	Number         int
	Type           string
	MenuType       domain.MenuType
	TypeRecognized bool

	MenuTitle string
	Item      string
	Week      string
	Day       string
	Meal      string

	WeeklyPrice  string
	MonthlyPrice string
	HasPrices    bool

	Raw map[string]string
}

// Empty reports whether the row names neither an item nor a menu.
func (r Row) Empty() bool {
	return r.Item == "" && r.MenuTitle == ""
}

// Complete reports whether the row names both an item and a menu.
func (r Row) Complete() bool {
	return r.Item != "" && r.MenuTitle != ""
}

// DecodeRows maps every raw row onto its layout. Unrecognised Type values
// are decoded with the monthly layout.
func DecodeRows(sheet *Sheet) []Row {
	rows := make([]Row, 0, len(sheet.Rows))
	for i, raw := range sheet.Rows {
		rows = append(rows, DecodeRow(i+2, raw))
	}
	return rows
}

func DecodeRow(number int, raw map[string]string) Row {
	typ := raw[ColType]
	mt, ok := domain.ParseMenuType(typ)
	if !ok {
		mt = domain.MenuMonthly
	}
	layout := Layouts[mt]

	_, hasWeekly := raw[ColWeeklyPrice]
	_, hasMonthly := raw[ColMonthlyPrice]

	return Row{
		Number:         number,
		Type:           typ,
		MenuType:       mt,
		TypeRecognized: ok,
		MenuTitle:      raw[ColMenuTitle],
		Item:           cell(raw, layout.Item),
		Week:           cell(raw, layout.Week),
		Day:            cell(raw, layout.Day),
		Meal:           cell(raw, layout.Meal),
		WeeklyPrice:    raw[ColWeeklyPrice],
		MonthlyPrice:   raw[ColMonthlyPrice],
		HasPrices:      hasWeekly && hasMonthly,
		Raw:            raw,
	}
}

func cell(raw map[string]string, col string) string {
	if col == "" {
		return ""
	}
	return raw[col]
}

// ParsePrice reads a price cell, accepting a comma as decimal separator.
func ParsePrice(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(strings.TrimSuffix(s, "€"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f, true
}
