package analysis

import (
	"context"
	"fmt"

	"edadash/domain/table"
)

// Overview is the dataset-level summary shown at the top of every report
type Overview struct {
	Name           string                   `json:"name"`
	Rows           int                      `json:"rows"`
	Columns        int                      `json:"columns"`
	MissingCells   int                      `json:"missing_cells"`
	MissingRatio   float64                  `json:"missing_ratio"`
	DuplicateRows  int                      `json:"duplicate_rows"`
	DuplicateRatio float64                  `json:"duplicate_ratio"`
	MemoryBytes    int64                    `json:"memory_bytes"`
	TypeCounts     map[table.ColumnType]int `json:"type_counts"`
}

// MemoryMB reports the approximate in-memory size in megabytes
func (o Overview) MemoryMB() float64 {
	return float64(o.MemoryBytes) / (1024 * 1024)
}

// OverviewOf computes the overview for t
func OverviewOf(t *table.Table) Overview {
	o := Overview{
		Name:          t.Name,
		Rows:          t.RowCount(),
		Columns:       t.ColumnCount(),
		MissingCells:  t.MissingCells(),
		DuplicateRows: t.DuplicateRows(),
		MemoryBytes:   t.MemoryBytes(),
		TypeCounts:    map[table.ColumnType]int{},
	}
	if cells := o.Rows * o.Columns; cells > 0 {
		o.MissingRatio = float64(o.MissingCells) / float64(cells)
	}
	if o.Rows > 0 {
		o.DuplicateRatio = float64(o.DuplicateRows) / float64(o.Rows)
	}
	for _, c := range t.Columns {
		o.TypeCounts[c.Type]++
	}
	return o
}

// ProfileOptions controls how much of the profile is computed
type ProfileOptions struct {
	Minimal    bool
	Bins       int
	SampleRows int
	TopPairs   int
}

// DefaultProfileOptions returns the full profile settings
func DefaultProfileOptions() ProfileOptions {
	return ProfileOptions{Bins: DefaultBins, SampleRows: 10, TopPairs: 10}
}

// Profile is the complete univariate and bivariate description of a table
type Profile struct {
	Minimal      bool               `json:"minimal"`
	Overview     Overview           `json:"overview"`
	Columns      []ColumnSummary    `json:"columns"`
	Missing      *MissingReport     `json:"missing,omitempty"`
	Pearson      *CorrelationMatrix `json:"pearson,omitempty"`
	Spearman     *CorrelationMatrix `json:"spearman,omitempty"`
	CramersV     *CorrelationMatrix `json:"cramers_v,omitempty"`
	Interactions []Pair             `json:"interactions,omitempty"`
	Alerts       []Alert            `json:"alerts"`
	Header       []string           `json:"header"`
	Head         [][]string         `json:"head"`
	Tail         [][]string         `json:"tail,omitempty"`
}

// BuildProfile runs the profiling phases in order, checking ctx between them.
// Minimal profiles skip histograms, missing-value patterns, correlations and
// interactions.
func BuildProfile(ctx context.Context, t *table.Table, opts ProfileOptions) (*Profile, error) {
	if t == nil || t.ColumnCount() == 0 {
		return nil, NewComputationError("table has no columns", nil)
	}

	p := &Profile{
		Minimal:  opts.Minimal,
		Overview: OverviewOf(t),
		Header:   t.ColumnNames(),
		Head:     t.Head(opts.SampleRows),
	}

	bins := opts.Bins
	if opts.Minimal {
		bins = 0
	}
	cols, err := DescribeColumns(ctx, t, bins)
	if err != nil {
		return nil, err
	}
	p.Columns = cols
	p.Alerts = append(DuplicateAlert(p.Overview), ColumnAlerts(cols)...)

	if opts.Minimal {
		SortAlerts(p.Alerts)
		return p, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	missing := Missingness(t)
	p.Missing = &missing
	p.Tail = t.Tail(opts.SampleRows)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	numeric := t.ColumnsOfType(table.TypeNumeric)
	if len(numeric) >= 2 {
		pearson := NumericMatrix("pearson", numeric)
		spearman := NumericMatrix("spearman", numeric)
		p.Pearson, p.Spearman = &pearson, &spearman
		p.Interactions = TopPairs(pearson, opts.TopPairs)
		p.Alerts = append(p.Alerts, CorrelationAlerts(pearson)...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	discrete := t.ColumnsOfType(table.TypeCategorical, table.TypeBoolean)
	if len(discrete) >= 2 {
		cramers := CramersVMatrix(discrete)
		p.CramersV = &cramers
		p.Alerts = append(p.Alerts, CorrelationAlerts(cramers)...)
	}

	SortAlerts(p.Alerts)
	return p, nil
}

// DescribeColumns summarizes every column in table order
func DescribeColumns(ctx context.Context, t *table.Table, bins int) ([]ColumnSummary, error) {
	out := make([]ColumnSummary, 0, t.ColumnCount())
	for _, c := range t.Columns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, Summarize(c, bins))
	}
	return out, nil
}

// TargetProfile relates every column of a table to one target column
type TargetProfile struct {
	Overview     Overview        `json:"overview"`
	Target       ColumnSummary   `json:"target"`
	Associations []Association   `json:"associations"`
	Columns      []ColumnSummary `json:"columns"`
}

// BuildTargetProfile fails when target is not a column of t
func BuildTargetProfile(ctx context.Context, t *table.Table, target string, bins int) (*TargetProfile, error) {
	tc, ok := t.Column(target)
	if !ok {
		return nil, NewComputationError(fmt.Sprintf("target column %q not found in %s", target, t.Name), nil)
	}

	cols, err := DescribeColumns(ctx, t, bins)
	if err != nil {
		return nil, err
	}

	p := &TargetProfile{Overview: OverviewOf(t), Target: Summarize(tc, bins), Columns: cols}
	for _, c := range t.Columns {
		if c.Name == target {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.Associations = append(p.Associations, Associate(c, tc))
	}
	p.Associations = RankAssociations(p.Associations)
	return p, nil
}

// ComparisonProfile compares two tables column by column
type ComparisonProfile struct {
	Left   Overview   `json:"left"`
	Right  Overview   `json:"right"`
	Schema SchemaDiff `json:"schema"`
	Drifts []Drift    `json:"drifts"`
	Target string     `json:"target,omitempty"`
	// Per-dataset associations with Target, keyed by feature name
	LeftTarget  map[string]Association `json:"left_target,omitempty"`
	RightTarget map[string]Association `json:"right_target,omitempty"`
}

// BuildComparison measures drift on shared columns. When target is set it must
// exist in both tables.
func BuildComparison(ctx context.Context, left, right *table.Table, target string, bins int) (*ComparisonProfile, error) {
	p := &ComparisonProfile{
		Left:   OverviewOf(left),
		Right:  OverviewOf(right),
		Schema: DiffColumns(left, right),
		Target: target,
	}

	for _, name := range p.Schema.Shared {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lc, _ := left.Column(name)
		rc, _ := right.Column(name)
		p.Drifts = append(p.Drifts, CompareColumns(lc, rc, bins))
	}

	if target == "" {
		return p, nil
	}
	lt, ok := left.Column(target)
	if !ok {
		return nil, NewComputationError(fmt.Sprintf("target column %q not found in %s", target, left.Name), nil)
	}
	rt, ok := right.Column(target)
	if !ok {
		return nil, NewComputationError(fmt.Sprintf("target column %q not found in %s", target, right.Name), nil)
	}

	p.LeftTarget = map[string]Association{}
	p.RightTarget = map[string]Association{}
	for _, name := range p.Schema.Shared {
		if name == target {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lc, _ := left.Column(name)
		rc, _ := right.Column(name)
		p.LeftTarget[name] = Associate(lc, lt)
		p.RightTarget[name] = Associate(rc, rt)
	}
	return p, nil
}

// ComputationError reports an analysis that could not be carried out
type ComputationError struct {
	Message string
	Cause   error
}

func (e ComputationError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e ComputationError) Unwrap() error {
	return e.Cause
}

func NewComputationError(message string, cause error) ComputationError {
	return ComputationError{Message: message, Cause: cause}
}
