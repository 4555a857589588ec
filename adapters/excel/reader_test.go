package excel

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"edadash/domain/core"
	"edadash/domain/table"
	"edadash/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var _ ports.TableReaderPort = (*DataReader)(nil)

func TestReadCSVInfersTypes(t *testing.T) {
	csvData := "\xEF\xBB\xBFid,price,region,active,joined\n" +
		"1,9.99,north,yes,2024-01-02\n" +
		"2,12.50,south,no,2024-02-03\n" +
		"3,NA,north,yes,2024-03-04\n" +
		"4,7.25,east,no,2024-04-05\n"

	r := NewDataReader(DefaultReaderConfig())
	tbl, err := r.ReadTable("sales.csv", strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, "sales", tbl.Name)
	assert.Equal(t, []string{"id", "price", "region", "active", "joined"}, tbl.ColumnNames())
	assert.Equal(t, 4, tbl.RowCount())

	price, _ := tbl.Column("price")
	assert.Equal(t, table.TypeNumeric, price.Type)
	assert.Equal(t, []float64{9.99, 12.5, 7.25}, price.Floats())
	assert.Equal(t, 1, price.MissingCount())

	region, _ := tbl.Column("region")
	assert.Equal(t, table.TypeCategorical, region.Type)

	active, _ := tbl.Column("active")
	assert.Equal(t, table.TypeBoolean, active.Type)

	joined, _ := tbl.Column("joined")
	assert.Equal(t, table.TypeTemporal, joined.Type)
}

func TestReadCSVSniffsSemicolonDelimiter(t *testing.T) {
	r := NewDataReader(DefaultReaderConfig())
	tbl, err := r.ReadTable("eu.csv", strings.NewReader("a;b\n1;x\n2;y\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.RowCount())
}

func TestReadCSVRequiresDataRow(t *testing.T) {
	r := NewDataReader(DefaultReaderConfig())

	for name, input := range map[string]string{
		"empty":       "",
		"header only": "a,b\n",
		"blank tail":  "a,b\n,\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := r.ReadTable("x.csv", strings.NewReader(input))
			require.Error(t, err)
			assert.True(t, core.IsInvalidInput(err))
		})
	}
}

func TestReadRejectsUnsupportedExtension(t *testing.T) {
	r := NewDataReader(DefaultReaderConfig())
	_, err := r.ReadTable("notes.pdf", strings.NewReader("a,b\n1,2\n"))
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestReadEnforcesMaxRows(t *testing.T) {
	cfg := DefaultReaderConfig()
	cfg.MaxRows = 2
	r := NewDataReader(cfg)

	_, err := r.ReadTable("x.csv", strings.NewReader("a\n1\n2\n3\n"))
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestReadExcelFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"name", "score"},
		{"alice", 91.5},
		{"bob", 78},
		{"carol", 88},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	r := NewDataReader(DefaultReaderConfig())
	tbl, err := r.ReadTable("scores.xlsx", &buf)
	require.NoError(t, err)

	assert.Equal(t, "scores", tbl.Name)
	assert.Equal(t, 3, tbl.RowCount())
	score, ok := tbl.Column("score")
	require.True(t, ok)
	assert.Equal(t, table.TypeNumeric, score.Type)
	assert.Len(t, score.Floats(), 3)
}

func TestReadCorruptExcel(t *testing.T) {
	r := NewDataReader(DefaultReaderConfig())
	for _, name := range []string{"bad.xlsx", "old.xls"} {
		_, err := r.ReadTable(name, strings.NewReader("not a workbook"))
		require.Error(t, err, name)
		assert.True(t, core.IsInvalidInput(err), name)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"a.csv", FormatCSV},
		{"A.CSV", FormatCSV},
		{"a.tsv", FormatCSV},
		{"a.xlsx", FormatXLSX},
		{"a.xls", FormatXLS},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, fmt.Sprintf("format for %s", tt.name))
	}
}
