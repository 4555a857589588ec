package analysis

import "edadash/domain/table"

// MatrixRowLimit caps the rows drawn in the nullity matrix
const MatrixRowLimit = 200

// MissingColumn is the missing count of one column
type MissingColumn struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
}

// MissingReport summarizes where values are absent
type MissingReport struct {
	Columns         []MissingColumn `json:"columns"`
	TotalCells      int             `json:"total_cells"`
	MissingCells    int             `json:"missing_cells"`
	RowsWithMissing int             `json:"rows_with_missing"`
	CompleteRows    int             `json:"complete_rows"`
	// Matrix[i][j] is true when sampled row i is missing column j.
	Matrix     [][]bool `json:"matrix"`
	SampleRows []int    `json:"sample_rows"`
}

// Missingness builds the missing-value summary and a row-sampled nullity matrix
func Missingness(t *table.Table) MissingReport {
	rows := t.RowCount()
	r := MissingReport{TotalCells: rows * t.ColumnCount()}

	for _, c := range t.Columns {
		n := c.MissingCount()
		mc := MissingColumn{Name: c.Name, Count: n}
		if rows > 0 {
			mc.Ratio = float64(n) / float64(rows)
		}
		r.Columns = append(r.Columns, mc)
		r.MissingCells += n
	}

	for i := 0; i < rows; i++ {
		if rowHasMissing(t, i) {
			r.RowsWithMissing++
		}
	}
	r.CompleteRows = rows - r.RowsWithMissing

	r.SampleRows = evenlySpaced(rows, MatrixRowLimit)
	r.Matrix = make([][]bool, len(r.SampleRows))
	for k, i := range r.SampleRows {
		r.Matrix[k] = make([]bool, t.ColumnCount())
		for j, c := range t.Columns {
			r.Matrix[k][j] = c.IsMissing(i)
		}
	}
	return r
}

func rowHasMissing(t *table.Table, i int) bool {
	for _, c := range t.Columns {
		if c.IsMissing(i) {
			return true
		}
	}
	return false
}

// evenlySpaced picks up to limit row indices spread over total rows
func evenlySpaced(total, limit int) []int {
	if limit <= 0 || total <= limit {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, limit)
	step := float64(total) / float64(limit)
	for i := range out {
		out[i] = int(float64(i) * step)
	}
	return out
}
