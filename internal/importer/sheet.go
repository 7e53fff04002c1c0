// Package importer decodes menu assignment spreadsheets into typed rows and
// checks them against the vocabulary and catalog before anything is written.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnreadableWorkbook = errors.New("unreadable workbook")
	ErrNoWorksheet        = errors.New("workbook has no worksheet")
)

// Sheet is the first worksheet of a workbook: its header and every
// non-empty data row keyed by header text.
type Sheet struct {
	Header []string
	Rows   []map[string]string
}

// ParseWorkbook reads the first worksheet of an XLSX document. Rows that
// are blank after trimming are dropped before the header is taken, so the
// header is the first row with any content.
func ParseWorkbook(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}
	grid, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %v", ErrUnreadableWorkbook, sheets[0], err)
	}

	var nonEmpty [][]string
	for _, cells := range grid {
		if !blank(cells) {
			nonEmpty = append(nonEmpty, cells)
		}
	}

	sheet := &Sheet{}
	if len(nonEmpty) == 0 {
		return sheet, nil
	}
	for _, h := range nonEmpty[0] {
		sheet.Header = append(sheet.Header, strings.TrimSpace(h))
	}
	for _, cells := range nonEmpty[1:] {
		row := make(map[string]string, len(sheet.Header))
		for col, h := range sheet.Header {
			if h == "" {
				continue
			}
			if col < len(cells) {
				row[h] = strings.TrimSpace(cells[col])
			} else {
				row[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// ParseFile opens path and parses it with ParseWorkbook.
func ParseFile(path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	defer f.Close()
	return ParseWorkbook(f)
}

func blank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
