package report

import (
	"context"
	"testing"

	"edadash/domain/core"
	"edadash/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New("t", []string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}})
	require.NoError(t, err)
	return tbl
}

func TestParseBackend(t *testing.T) {
	for _, b := range Backends {
		got, err := ParseBackend(string(b))
		require.NoError(t, err)
		assert.Equal(t, b, got)
		assert.NotEmpty(t, b.Label())
	}

	assert.True(t, BackendProfiling.WritesFile())
	assert.True(t, BackendComparative.WritesFile())
	assert.False(t, BackendLiveViewer.WritesFile())

	_, err := ParseBackend("sweetviz")
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))
}

func TestRequestValidate(t *testing.T) {
	tbl := sampleTable(t)

	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{"nil request", nil, true},
		{"missing primary", &Request{Backend: BackendProfiling}, true},
		{"unknown backend", &Request{Backend: "x", Primary: tbl}, true},
		{"unknown mode", &Request{Backend: BackendProfiling, Primary: tbl, Mode: "turbo"}, true},
		{"minimal profiling", &Request{Backend: BackendProfiling, Primary: tbl, Mode: ModeMinimal}, false},
		{"target is not pre-validated", &Request{Backend: BackendComparative, Primary: tbl, Target: "Z"}, false},
		{"with comparison table", &Request{Backend: BackendComparative, Primary: tbl, Compare: sampleTable(t)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsInvalidInput(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEffectiveMode(t *testing.T) {
	assert.Equal(t, ModeFull, (&Request{}).EffectiveMode())
	assert.Equal(t, ModeMinimal, (&Request{Mode: ModeMinimal}).EffectiveMode())
}

func TestGenerationError(t *testing.T) {
	assert.NoError(t, GenerationError(BackendProfiling, nil))

	err := GenerationError(BackendComparative, core.NewInvalidInputError("column missing", nil))
	assert.True(t, core.IsReportGenerationFailed(err))
	assert.False(t, core.IsInvalidInput(err))
	assert.Contains(t, err.Error(), "comparative")

	assert.ErrorIs(t, GenerationError(BackendProfiling, context.Canceled), context.Canceled)

	busy := core.NewResourceUnavailableError("bind", nil)
	assert.Equal(t, busy, GenerationError(BackendLiveViewer, busy))
}
