package errors

import "net/http"

// ErrorCode identifies a failure category. Codes are grouped by module prefix:
// COMMON_ for cross-cutting conditions, DATA_ for dataset loading, SCRN_ for
// the screening pipeline boundary.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_004"
	ErrCodeSerialization      ErrorCode = "COMMON_005"
	ErrCodeDatabaseError      ErrorCode = "COMMON_006"
	ErrCodeCacheError         ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
)

// Dataset error codes.
const (
	// ErrCodeDataSchema marks a source table that is missing a mandatory
	// column. This is the only fatal outcome of a load; malformed values
	// degrade to per-row drops instead.
	ErrCodeDataSchema ErrorCode = "DATA_001"

	// ErrCodeDataSourceRead marks an unreadable or unopenable source.
	ErrCodeDataSourceRead ErrorCode = "DATA_002"

	// ErrCodeDataNotLoaded marks an operation attempted before any dataset
	// has been successfully loaded.
	ErrCodeDataNotLoaded ErrorCode = "DATA_003"
)

// Screening error codes.
const (
	// ErrCodeScreeningParam marks an out-of-domain control parameter
	// (negative population floor, non-positive point cap, and so on).
	ErrCodeScreeningParam ErrorCode = "SCRN_001"
)

// Aliases used by the generic factory helpers.
const (
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
)

// errorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var errorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeDataSchema:         http.StatusInternalServerError,
	ErrCodeDataSourceRead:     http.StatusInternalServerError,
	ErrCodeDataNotLoaded:      http.StatusServiceUnavailable,
	ErrCodeScreeningParam:     http.StatusBadRequest,
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode, defaulting
// to 500 for codes without an explicit mapping.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}
