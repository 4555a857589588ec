package liveviewer

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"edadash/domain/core"
	"edadash/domain/table"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// RowQuery selects a window of rows after filtering and sorting
type RowQuery struct {
	Offset int
	Limit  int
	Sort   string
	Desc   bool
	Filter string
	Column string // restricts Filter to one column when set
}

// RowPage is the JSON body of /api/rows
type RowPage struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Index   []int      `json:"index"`
	Offset  int        `json:"offset"`
	Limit   int        `json:"limit"`
	Total   int        `json:"total"`
	Matched int        `json:"matched"`
}

// parseRowQuery reads paging parameters, falling back to defaults for blanks
func parseRowQuery(get func(string) string) (RowQuery, error) {
	q := RowQuery{
		Limit:  defaultPageSize,
		Sort:   get("sort"),
		Filter: strings.TrimSpace(get("filter")),
		Column: get("column"),
	}

	var err error
	if s := get("offset"); s != "" {
		if q.Offset, err = strconv.Atoi(s); err != nil || q.Offset < 0 {
			return q, core.NewInvalidInputError("offset must be a non-negative integer", nil)
		}
	}
	if s := get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit < 1 {
			return q, core.NewInvalidInputError("limit must be a positive integer", nil)
		}
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	if s := get("desc"); s != "" {
		if q.Desc, err = strconv.ParseBool(s); err != nil {
			return q, core.NewInvalidInputError("desc must be a boolean", nil)
		}
	}
	return q, nil
}

// Rows applies q to t. Sorting is stable, numeric columns order by value with
// missing cells last in both directions.
func Rows(t *table.Table, q RowQuery) (*RowPage, error) {
	var filterCol *table.Column
	if q.Column != "" {
		col, ok := t.Column(q.Column)
		if !ok {
			return nil, core.NewNotFoundError("column", q.Column)
		}
		filterCol = col
	}
	var sortCol *table.Column
	if q.Sort != "" {
		col, ok := t.Column(q.Sort)
		if !ok {
			return nil, core.NewNotFoundError("column", q.Sort)
		}
		sortCol = col
	}

	index := matchRows(t, filterCol, strings.ToLower(q.Filter))
	if sortCol != nil {
		sortRows(index, sortCol, q.Desc)
	}

	page := &RowPage{
		Columns: t.ColumnNames(),
		Offset:  q.Offset,
		Limit:   q.Limit,
		Total:   t.RowCount(),
		Matched: len(index),
		Rows:    [][]string{},
		Index:   []int{},
	}
	if q.Offset >= len(index) {
		return page, nil
	}
	end := q.Offset + q.Limit
	if end > len(index) {
		end = len(index)
	}
	for _, i := range index[q.Offset:end] {
		page.Rows = append(page.Rows, t.Row(i))
		page.Index = append(page.Index, i)
	}
	return page, nil
}

// matchRows returns the indices of rows containing needle, case-insensitively
func matchRows(t *table.Table, only *table.Column, needle string) []int {
	n := t.RowCount()
	index := make([]int, 0, n)
	cols := t.Columns
	if only != nil {
		cols = []*table.Column{only}
	}

	for i := 0; i < n; i++ {
		if needle == "" {
			index = append(index, i)
			continue
		}
		for _, col := range cols {
			if strings.Contains(strings.ToLower(col.Values[i]), needle) {
				index = append(index, i)
				break
			}
		}
	}
	return index
}

func sortRows(index []int, col *table.Column, desc bool) {
	if col.HasNumbers() {
		sort.SliceStable(index, func(a, b int) bool {
			x, y := col.Numbers[index[a]], col.Numbers[index[b]]
			switch {
			case math.IsNaN(x):
				return false
			case math.IsNaN(y):
				return true
			case desc:
				return x > y
			}
			return x < y
		})
		return
	}

	sort.SliceStable(index, func(a, b int) bool {
		x, y := col.Values[index[a]], col.Values[index[b]]
		switch {
		case x == "":
			return false
		case y == "":
			return true
		case desc:
			return x > y
		}
		return x < y
	})
}
