package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/yurifrl/festas/pkg/models"
)

// maxXLSRows bounds how much of a legacy workbook is read.
const maxXLSRows = 5000

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrMissingColumn     = errors.New("required column not found")
)

// Format is the container format of a tabular source.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

func detectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// TableOptions controls how a sheet is turned into a Table.
type TableOptions struct {
	// Sheet selects a worksheet by name; empty means the first one.
	Sheet string
	// HeaderHint is a column that must be present in the header row. Rows
	// above the first row containing it are treated as titles and skipped.
	HeaderHint string
	// DateColumns hold dates. Only typed numeric xlsx cells there are read as
	// Excel serials and become DD/MM/YYYY; text is left for ParseDate. Legacy
	// xls date cells are already rendered through their own number format.
	DateColumns []string
}

// Table is a header plus the data rows below it.
type Table struct {
	Header []string
	Rows   [][]models.RawValue
	// FirstRow is the 1-based sheet row of Rows[0].
	FirstRow int
}

// Column returns the index of the named column, matching case-insensitively
// and ignoring repeated or surrounding whitespace. It returns -1 when absent.
func (t *Table) Column(name string) int {
	want := normalizeHeader(name)
	for i, h := range t.Header {
		if normalizeHeader(h) == want {
			return i
		}
	}
	return -1
}

// Cell returns the value at row/column, or a blank value when out of range.
func (t *Table) Cell(row []models.RawValue, col int) models.RawValue {
	if col < 0 || col >= len(row) {
		return models.RawValue{}
	}
	return row[col]
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// ReadTable loads a tabular source from its bytes, picking the reader from
// the file extension.
func (p *Parser) ReadTable(data []byte, filename string, opts TableOptions) (*Table, error) {
	format, err := detectFormat(filename)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("reading table", "file", filename, "format", format, "sheet", opts.Sheet)

	var cells [][]models.RawValue
	switch format {
	case FormatXLSX:
		cells, err = readXLSX(data, opts)
	case FormatXLS:
		cells, err = readXLS(data, opts.Sheet)
	case FormatCSV:
		cells, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("no data found in sheet")
	}

	return buildTable(cells, opts.HeaderHint)
}

func buildTable(cells [][]models.RawValue, hint string) (*Table, error) {
	headerIdx := 0
	if hint != "" {
		headerIdx = -1
		want := normalizeHeader(hint)
		for i, row := range cells {
			for _, c := range row {
				if normalizeHeader(c.String()) == want {
					headerIdx = i
					break
				}
			}
			if headerIdx >= 0 {
				break
			}
		}
		if headerIdx < 0 {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, hint)
		}
	}

	header := make([]string, len(cells[headerIdx]))
	for i, c := range cells[headerIdx] {
		header[i] = c.String()
	}

	return &Table{Header: header, Rows: cells[headerIdx+1:], FirstRow: headerIdx + 2}, nil
}

func readXLSX(data []byte, opts TableOptions) ([][]models.RawValue, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found", sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}

	// Date columns are only known once the header row is found.
	dateCols := map[int]bool{}
	headerSeen := false
	var out [][]models.RawValue
	for r, row := range rows {
		values := make([]models.RawValue, len(row))
		for c, text := range row {
			if text == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheet, axis)
			if err != nil {
				return nil, fmt.Errorf("error reading cell %s: %w", axis, err)
			}
			values[c] = xlsxValue(text, cellType, dateCols[c])
		}
		out = append(out, values)

		if !headerSeen && (opts.HeaderHint == "" || rowHas(row, opts.HeaderHint)) {
			headerSeen = true
			for c, text := range row {
				for _, dc := range opts.DateColumns {
					if normalizeHeader(text) == normalizeHeader(dc) {
						dateCols[c] = true
					}
				}
			}
		}
	}
	return out, nil
}

func rowHas(row []string, column string) bool {
	want := normalizeHeader(column)
	for _, text := range row {
		if normalizeHeader(text) == want {
			return true
		}
	}
	return false
}

func xlsxValue(text string, cellType excelize.CellType, dateColumn bool) models.RawValue {
	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return models.TextValue(text)
		}
		if dateColumn {
			if t, err := excelize.ExcelDateToTime(f, false); err == nil {
				return models.TextValue(t.Format(models.DateLayout))
			}
		}
		return models.NumberValue(f)
	case excelize.CellTypeDate:
		if len(text) >= 10 {
			if t, err := time.Parse("2006-01-02", text[:10]); err == nil {
				return models.TextValue(t.Format(models.DateLayout))
			}
		}
		return models.TextValue(text)
	default:
		return models.TextValue(text)
	}
}

func readXLS(data []byte, sheet string) ([][]models.RawValue, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "cp1252")
	if err != nil {
		return nil, fmt.Errorf("error creating workbook: %w", err)
	}

	var rows [][]string
	if sheet == "" {
		rows = workbook.ReadAllCells(maxXLSRows)
	} else {
		ws := findXLSSheet(workbook, sheet)
		if ws == nil {
			return nil, fmt.Errorf("sheet %q not found", sheet)
		}
		for i := 0; i <= int(ws.MaxRow) && i < maxXLSRows; i++ {
			row := ws.Row(i)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			cols := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cols[c] = row.Col(c)
			}
			rows = append(rows, cols)
		}
	}

	out := make([][]models.RawValue, len(rows))
	for i, row := range rows {
		out[i] = textRow(row)
	}
	return out, nil
}

func findXLSSheet(workbook *xls.WorkBook, name string) *xls.WorkSheet {
	for i := 0; i < workbook.NumSheets(); i++ {
		if ws := workbook.GetSheet(i); ws != nil && ws.Name == name {
			return ws
		}
	}
	return nil
}

func readCSV(data []byte) ([][]models.RawValue, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.Comma = detectSeparator(data)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV record: %w", err)
	}

	out := make([][]models.RawValue, len(records))
	for i, record := range records {
		out[i] = textRow(record)
	}
	return out, nil
}

// detectSeparator prefers ';' (the Brazilian spreadsheet default) unless the
// first line has more commas than semicolons.
func detectSeparator(data []byte) rune {
	firstLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}
	if bytes.Count(firstLine, []byte(",")) > bytes.Count(firstLine, []byte(";")) {
		return ','
	}
	return ';'
}

func textRow(row []string) []models.RawValue {
	values := make([]models.RawValue, len(row))
	for i, text := range row {
		if text == "" {
			continue
		}
		values[i] = models.TextValue(text)
	}
	return values
}
