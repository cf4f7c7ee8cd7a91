// Package sheet reads and writes single-sheet tables as xlsx workbooks or csv files.
//
// It knows nothing about clients: rows are header-keyed string maps on the way in
// and positional string slices on the way out.
package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a supported table file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// defaultSheet is the sheet excelize creates in a new workbook.
const defaultSheet = "Sheet1"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Row is one decoded data row keyed by header text. Empty cells are absent.
type Row map[string]string

// Get returns the value of column as written, or "" when absent.
func (r Row) Get(column string) string {
	return r[column]
}

// Table is a table ready to be written.
type Table struct {
	Sheet   string     // sheet name (xlsx only)
	Headers []string   // first row
	Rows    [][]string // data rows, positional
	Widths  []float64  // optional column widths in characters (xlsx only)
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatXLSX, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want xlsx or csv)", s)
	}
}

// FormatFromPath derives the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("path %q has no extension", path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ReadTable decodes the first sheet of data. The first non-empty row is the
// header; blank rows are skipped. Any container or parse failure is returned as-is.
func ReadTable(data []byte, format Format) ([]Row, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX:
		records, err = readXLSX(data)
	case FormatCSV:
		records, err = readCSV(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	// raw values: numbers as written, dates as serial day counts
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffComma(data)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return records, nil
}

// sniffComma returns ';' when the first non-blank line has more unquoted
// semicolons than commas, as pt-BR spreadsheet programs write csv.
func sniffComma(data []byte) rune {
	line := bytes.TrimLeft(data, " \t\r\n")
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	var commas, semicolons int
	quoted := false
	for _, b := range line {
		switch {
		case b == '"':
			quoted = !quoted
		case quoted:
		case b == ',':
			commas++
		case b == ';':
			semicolons++
		}
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

func toRows(records [][]string) []Row {
	var headers []string
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(rec))
			for i, h := range rec {
				headers[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make(Row, len(headers))
		for i, cell := range rec {
			if i >= len(headers) || headers[i] == "" || cell == "" {
				continue
			}
			// first column wins when a header repeats
			if _, dup := row[headers[i]]; !dup {
				row[headers[i]] = cell
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteTable encodes t in the given format.
func WriteTable(t Table, format Format) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return writeXLSX(t)
	case FormatCSV:
		return writeCSV(t)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func writeXLSX(t Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	name := t.Sheet
	if name == "" {
		name = defaultSheet
	}
	if name != defaultSheet {
		if err := f.SetSheetName(defaultSheet, name); err != nil {
			return nil, fmt.Errorf("name sheet: %w", err)
		}
	}

	if err := setRow(f, name, 1, t.Headers); err != nil {
		return nil, err
	}
	for i, rec := range t.Rows {
		if err := setRow(f, name, i+2, rec); err != nil {
			return nil, err
		}
	}

	for i, w := range t.Widths {
		if w <= 0 {
			continue
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(name, col, col, w); err != nil {
			return nil, fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheetName string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}

func writeCSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for _, rec := range t.Rows {
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
