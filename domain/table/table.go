package table

import (
	"fmt"
	"strings"

	"edadash/domain/core"
)

// Table is an in-memory dataset with named, typed columns. It lives for one
// report request and is never persisted.
type Table struct {
	Name    string    `json:"name"`
	Columns []*Column `json:"columns"`

	index map[string]int
}

// New builds a table from a header row and data rows. Blank header cells become
// Column_<n> and repeated names get a numeric suffix. Short rows are padded with
// missing cells and cells beyond the header are dropped. All columns start as
// text; the reader assigns inferred types afterwards.
func New(name string, header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, core.NewInvalidInputError("table has no columns", nil)
	}

	names := normalizeHeader(header)
	t := &Table{Name: name, Columns: make([]*Column, len(names))}
	for i, n := range names {
		t.Columns[i] = &Column{Name: n, Type: TypeText, Values: make([]string, len(rows))}
	}

	for r, row := range rows {
		for c := range names {
			if c < len(row) && !IsNAToken(row[c]) {
				t.Columns[c].Values[r] = strings.TrimSpace(row[c])
			}
		}
	}

	t.reindex()
	return t, nil
}

func normalizeHeader(header []string) []string {
	seen := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		base := h
		for seen[h] > 0 {
			seen[base]++
			h = fmt.Sprintf("%s_%d", base, seen[base])
		}
		seen[h]++
		names[i] = h
	}
	return names
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c.Name] = i
	}
}

// Validate checks the structural invariants: at least one column, unique names,
// equal column lengths and aligned parsed values.
func (t *Table) Validate() error {
	if t == nil || len(t.Columns) == 0 {
		return core.NewInvalidInputError("table has no columns", nil)
	}
	rows := t.Columns[0].Len()
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			return core.NewInvalidInputError(fmt.Sprintf("duplicate column %q", c.Name), nil)
		}
		seen[c.Name] = true
		if c.Len() != rows {
			return core.NewInvalidInputError(fmt.Sprintf("column %q has %d cells, expected %d", c.Name, c.Len(), rows), nil)
		}
		if c.Numbers != nil && len(c.Numbers) != rows {
			return core.NewInvalidInputError(fmt.Sprintf("column %q numeric values are not aligned", c.Name), nil)
		}
		if c.Times != nil && len(c.Times) != rows {
			return core.NewInvalidInputError(fmt.Sprintf("column %q time values are not aligned", c.Name), nil)
		}
		if !c.Type.IsValid() {
			return core.NewInvalidInputError(fmt.Sprintf("column %q has unknown type %q", c.Name, c.Type), nil)
		}
	}
	return nil
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.Columns)
}

// ColumnNames returns column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (*Column, bool) {
	if t.index == nil || len(t.index) != len(t.Columns) {
		t.reindex()
	}
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.Columns[i], true
}

// HasColumn reports whether a column with this name exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// ColumnsOfType returns the columns with one of the given types, in table order.
func (t *Table) ColumnsOfType(types ...ColumnType) []*Column {
	var out []*Column
	for _, c := range t.Columns {
		for _, ty := range types {
			if c.Type == ty {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Row returns the raw cells of row i
func (t *Table) Row(i int) []string {
	row := make([]string, len(t.Columns))
	for c, col := range t.Columns {
		row[c] = col.Values[i]
	}
	return row
}

// Head returns up to n leading rows
func (t *Table) Head(n int) [][]string {
	if n > t.RowCount() {
		n = t.RowCount()
	}
	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, t.Row(i))
	}
	return rows
}

// Tail returns up to n trailing rows
func (t *Table) Tail(n int) [][]string {
	total := t.RowCount()
	if n > total {
		n = total
	}
	rows := make([][]string, 0, n)
	for i := total - n; i < total; i++ {
		rows = append(rows, t.Row(i))
	}
	return rows
}

// MissingCells counts missing cells across all columns
func (t *Table) MissingCells() int {
	n := 0
	for _, c := range t.Columns {
		n += c.MissingCount()
	}
	return n
}

// DuplicateRows counts rows identical to an earlier row
func (t *Table) DuplicateRows() int {
	seen := make(map[string]bool, t.RowCount())
	dups := 0
	for i := 0; i < t.RowCount(); i++ {
		key := strings.Join(t.Row(i), "\x1f")
		if seen[key] {
			dups++
			continue
		}
		seen[key] = true
	}
	return dups
}

// MemoryBytes approximates the in-memory footprint: cell text plus the per-value
// overhead of string headers and parsed values.
func (t *Table) MemoryBytes() int64 {
	var total int64
	for _, c := range t.Columns {
		total += int64(len(c.Name))
		for _, v := range c.Values {
			total += int64(len(v)) + 16
		}
		total += int64(len(c.Numbers)) * 8
		total += int64(len(c.Times)) * 24
	}
	return total
}

// Fingerprint hashes the header and every cell, so two tables with the same
// content share a fingerprint regardless of inferred types.
func (t *Table) Fingerprint() core.Hash {
	var b strings.Builder
	b.WriteString(strings.Join(t.ColumnNames(), "\x1e"))
	for i := 0; i < t.RowCount(); i++ {
		b.WriteByte('\n')
		b.WriteString(strings.Join(t.Row(i), "\x1f"))
	}
	return core.NewHash([]byte(b.String()))
}
