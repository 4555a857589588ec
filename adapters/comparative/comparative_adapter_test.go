package comparative

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edadash/adapters/excel"
	"edadash/domain/core"
	"edadash/domain/report"
	"edadash/domain/table"
	"edadash/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.ReportAdapter = (*ComparativeAdapter)(nil)

func readTable(t *testing.T, name, csv string) *table.Table {
	t.Helper()
	tbl, err := excel.NewDataReader(excel.DefaultReaderConfig()).ReadTable(name, strings.NewReader(csv))
	require.NoError(t, err)
	return tbl
}

// hundredRows builds a 100-row, 5-column CSV with a numeric price column
func hundredRows() string {
	var b strings.Builder
	b.WriteString("id,price,qty,region,discount\n")
	regions := []string{"north", "south", "east", "west"}
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&b, "%d,%.2f,%d,%s,%.2f\n", i, 10+float64(i)*1.5, i%7+1, regions[i%4], float64(i%5)/10)
	}
	return b.String()
}

func TestSelectAnalysis(t *testing.T) {
	primary := &table.Table{}
	compare := &table.Table{}

	assert.Equal(t, report.AnalysisBasic, SelectAnalysis(&report.Request{Primary: primary}))
	assert.Equal(t, report.AnalysisBasic, SelectAnalysis(&report.Request{Primary: primary, Compare: nil, Target: ""}))
	assert.Equal(t, report.AnalysisTarget, SelectAnalysis(&report.Request{Primary: primary, Target: "price"}))
	assert.Equal(t, report.AnalysisComparison, SelectAnalysis(&report.Request{Primary: primary, Compare: compare}))
	assert.Equal(t, report.AnalysisComparison, SelectAnalysis(&report.Request{Primary: primary, Compare: compare, Target: "price"}))
}

func TestGenerateWithTargetEndToEnd(t *testing.T) {
	dir := t.TempDir()
	art, err := NewComparativeAdapter().Generate(context.Background(), &report.Request{
		Backend:   report.BackendComparative,
		Primary:   readTable(t, "sales.csv", hundredRows()),
		Target:    "price",
		OutputDir: dir,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(art.Path, "comparative_report.html"))
	assert.Equal(t, filepath.Join(dir, FileName), art.Path)
	assert.Equal(t, report.AnalysisTarget, art.Analysis)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	content, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "Associations with price")
	assert.Contains(t, html, "Target: price")
}

func TestGenerateBasic(t *testing.T) {
	art, err := NewComparativeAdapter().Generate(context.Background(), &report.Request{
		Backend:   report.BackendComparative,
		Primary:   readTable(t, "sales.csv", hundredRows()),
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, report.AnalysisBasic, art.Analysis)
}

func TestGenerateComparison(t *testing.T) {
	left := readTable(t, "a.csv", hundredRows())
	right := readTable(t, "b.csv", "id,price,channel\n1,100,web\n2,110,app\n3,120,web\n")

	art, err := NewComparativeAdapter().Generate(context.Background(), &report.Request{
		Backend:   report.BackendComparative,
		Primary:   left,
		Compare:   right,
		OutputDir: t.TempDir(),
	})
	require.NoError(t, err)
	assert.Equal(t, report.AnalysisComparison, art.Analysis)

	content, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, MainLabel)
	assert.Contains(t, html, ComparisonLabel)
	assert.Contains(t, html, "channel")
}

func TestMissingTargetIsGenerationFailure(t *testing.T) {
	dir := t.TempDir()
	_, err := NewComparativeAdapter().Generate(context.Background(), &report.Request{
		Backend:   report.BackendComparative,
		Primary:   readTable(t, "t.csv", "X,Y\n1,2\n3,4\n"),
		Target:    "Z",
		OutputDir: dir,
	})
	require.Error(t, err)
	assert.True(t, core.IsReportGenerationFailed(err))
	assert.False(t, core.IsInvalidInput(err))

	_, statErr := os.Stat(filepath.Join(dir, FileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestTargetMissingFromComparisonTable(t *testing.T) {
	_, err := NewComparativeAdapter().Generate(context.Background(), &report.Request{
		Backend:   report.BackendComparative,
		Primary:   readTable(t, "a.csv", "price,qty\n1,2\n3,4\n"),
		Compare:   readTable(t, "b.csv", "qty\n5\n6\n"),
		Target:    "price",
		OutputDir: t.TempDir(),
	})
	require.Error(t, err)
	assert.True(t, core.IsReportGenerationFailed(err))
}
