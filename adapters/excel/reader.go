package excel

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"edadash/adapters/datareadiness/coercer"
	"edadash/domain/core"
	"edadash/domain/table"

	"github.com/xuri/excelize/v2"
)

// DataReader parses CSV and Excel uploads into typed tables
type DataReader struct {
	config  ReaderConfig
	coercer *coercer.TypeCoercer
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(config ReaderConfig) *DataReader {
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
	}
}

// ReadTable parses r according to the extension of name. Every parse failure
// is reported as ErrInvalidInput.
func (r *DataReader) ReadTable(name string, rd io.Reader) (*table.Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = r.readCSVRows(rd)
	case FormatXLSX, FormatXLS:
		rows, err = r.readExcelRows(rd, format)
	}
	if err != nil {
		return nil, err
	}

	return r.buildTable(tableName(name), rows)
}

// readCSVRows reads delimited text, sniffing comma, semicolon or tab from the
// header line and dropping a UTF-8 byte order mark.
func (r *DataReader) readCSVRows(rd io.Reader) ([][]string, error) {
	br := bufio.NewReader(rd)
	if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	// The BOM peek filled the buffer, so the header line is already available.
	firstLine, _ := br.Peek(br.Buffered())
	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(firstLine)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, core.NewInvalidInputError("failed to read CSV file", err)
	}
	return rows, nil
}

// sniffDelimiter picks the most frequent candidate delimiter on the first line
func sniffDelimiter(head []byte) rune {
	line := string(head)
	if i := strings.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	best, bestCount := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t', '|'} {
		if n := strings.Count(line, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// readExcelRows reads the configured sheet, or the first one
func (r *DataReader) readExcelRows(rd io.Reader, format Format) ([][]string, error) {
	f, err := excelize.OpenReader(rd)
	if err != nil {
		if format == FormatXLS {
			return nil, core.NewInvalidInputError("legacy .xls workbooks are not supported, save the file as .xlsx or .csv", err)
		}
		return nil, core.NewInvalidInputError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := r.config.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.NewInvalidInputError("workbook has no sheets", nil)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewInvalidInputError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}
	return rows, nil
}

// buildTable drops fully blank trailing rows, enforces the row cap and infers
// column types.
func (r *DataReader) buildTable(name string, rows [][]string) (*table.Table, error) {
	for len(rows) > 0 && isBlankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) < 2 {
		return nil, core.NewInvalidInputError("file must have at least a header row and one data row", nil)
	}

	data := rows[1:]
	if r.config.MaxRows > 0 && len(data) > r.config.MaxRows {
		return nil, core.NewInvalidInputError(fmt.Sprintf("too many rows (%d > %d)", len(data), r.config.MaxRows), nil)
	}

	t, err := table.New(name, rows[0], data)
	if err != nil {
		return nil, err
	}
	r.coercer.CoerceTable(t)

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func tableName(fileName string) string {
	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
