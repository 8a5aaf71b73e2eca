package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeDataSchema, "required column latitude is missing")
	assert.Equal(t, "[DATA_001] required column latitude is missing", err.Error())

	withDetail := err.WithDetail("path=data/model_table.csv")
	assert.Equal(t, "[DATA_001] required column latitude is missing: path=data/model_table.csv", withDetail.Error())
	// The original is untouched.
	assert.Empty(t, err.Detail)
}

func TestWrap_NilPassthrough(t *testing.T) {
	var err *AppError = Wrap(nil, ErrCodeInternal, "should be nil")
	assert.Nil(t, err)
}

func TestWrap_PreservesCodeOnUnknown(t *testing.T) {
	inner := New(ErrCodeDataSchema, "schema")
	outer := Wrap(fmt.Errorf("context: %w", inner), CodeUnknown, "load failed")
	assert.Equal(t, ErrCodeDataSchema, outer.Code)
}

func TestWrap_Unwrap(t *testing.T) {
	sentinel := stderrors.New("boom")
	err := Wrap(sentinel, ErrCodeDataSourceRead, "read failed")
	require.NotNil(t, err)
	assert.True(t, stderrors.Is(err, sentinel))
}

func TestIsCode(t *testing.T) {
	inner := New(ErrCodeDataSchema, "schema")
	wrapped := Wrap(inner, ErrCodeDataSourceRead, "load failed")

	assert.True(t, IsCode(wrapped, ErrCodeDataSourceRead))
	assert.True(t, IsCode(wrapped, ErrCodeDataSchema))
	assert.False(t, IsCode(wrapped, ErrCodeCacheError))
	assert.False(t, IsCode(nil, ErrCodeDataSchema))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, ErrCodeScreeningParam, GetCode(New(ErrCodeScreeningParam, "gamma out of range")))
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeScreeningParam, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeDataNotLoaded, http.StatusServiceUnavailable},
		{ErrCodeDataSchema, http.StatusInternalServerError},
		{ErrorCode("NOPE_999"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatusForCode(tt.code), "code %s", tt.code)
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeScreeningParam))
	assert.False(t, IsClientError(ErrCodeDatabaseError))
}
