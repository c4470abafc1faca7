package errors_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

func TestHTTPStatusForCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		code errors.ErrorCode
		want int
	}{
		{"validation maps to 400", errors.ErrCodeValidation, http.StatusBadRequest},
		{"patent not found maps to 404", errors.ErrCodePatentNotFound, http.StatusNotFound},
		{"embedding unavailable maps to 503", errors.ErrCodeEmbeddingUnavailable, http.StatusServiceUnavailable},
		{"search failed maps to 500", errors.ErrCodeSearchFailed, http.StatusInternalServerError},
		{"unmapped code defaults to 500", errors.ErrorCode("NOPE_001"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, errors.HTTPStatusForCode(tc.code))
		})
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "patent not found", errors.DefaultMessageForCode(errors.ErrCodePatentNotFound))
	assert.Equal(t, "unknown error", errors.DefaultMessageForCode(errors.ErrorCode("NOPE_001")))
}

func TestClientServerErrorClassification(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsClientError(errors.ErrCodeSearchQueryInvalid))
	assert.False(t, errors.IsServerError(errors.ErrCodeSearchQueryInvalid))

	assert.True(t, errors.IsServerError(errors.ErrCodeTrendQueryFailed))
	assert.False(t, errors.IsClientError(errors.ErrCodeTrendQueryFailed))
}

func TestModuleForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SRCH", errors.ModuleForCode(errors.ErrCodeSearchFailed))
	assert.Equal(t, "CIT", errors.ModuleForCode(errors.ErrCodeCitationDepthInvalid))
	assert.Equal(t, "COMMON", errors.ModuleForCode(errors.ErrCodeInternal))
	assert.Equal(t, "UNKNOWN", errors.ModuleForCode(errors.ErrorCode("")))
}
