package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"edadash/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCodeMapsDomainKinds(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"invalid input", core.NewInvalidInputError("bad csv", nil), CodeInvalidInput, http.StatusBadRequest},
		{"resource", core.NewResourceUnavailableError("port", nil), CodeResourceUnavailable, http.StatusServiceUnavailable},
		{"report", core.NewReportGenerationError("profiling", stderrors.New("boom")), CodeReportFailed, http.StatusUnprocessableEntity},
		{"not found", core.NewNotFoundError("artifact", "1"), CodeNotFound, http.StatusNotFound},
		{"plain", stderrors.New("boom"), CodeInternalError, http.StatusInternalServerError},
		{"too large", UploadTooLarge(50), CodeUploadTooLarge, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.NotEmpty(t, UserGuidance(tt.err))
		})
	}
}

func TestWrapKeepsKindAndChain(t *testing.T) {
	base := core.NewReportGenerationError("comparative", stderrors.New("column not found: Z"))
	wrapped := Wrapf(base, "generating %s report", "comparative")

	assert.Equal(t, CodeReportFailed, GetCode(wrapped))
	assert.True(t, core.IsReportGenerationFailed(wrapped))
	assert.Contains(t, wrapped.Error(), "column not found: Z")
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeDatabaseError, stderrors.New("conn refused"))
	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.Equal(t, "conn refused", err.Error()[:len("conn refused")])
}
