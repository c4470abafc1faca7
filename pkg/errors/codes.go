package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every module.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_005"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_006"
	ErrCodeTimeout            ErrorCode = "COMMON_007"
	ErrCodeValidation         ErrorCode = "COMMON_008"
	ErrCodeSerialization      ErrorCode = "COMMON_009"
	ErrCodeDatabaseError      ErrorCode = "COMMON_010"
	ErrCodeCacheError         ErrorCode = "COMMON_011"
	ErrCodeExternalService    ErrorCode = "COMMON_012"
	ErrCodeNotImplemented     ErrorCode = "COMMON_013"
	ErrCodeUnknown            ErrorCode = "COMMON_099"

	// CodeOK is the sentinel returned by GetCode for a nil error.
	CodeOK ErrorCode = "OK"
)

// Patent module error codes.
const (
	ErrCodePatentNotFound      ErrorCode = "PAT_001"
	ErrCodePatentNumberInvalid ErrorCode = "PAT_002"
	ErrCodePatentStatusInvalid ErrorCode = "PAT_003"
)

// Search module error codes.
const (
	ErrCodeSearchQueryInvalid  ErrorCode = "SRCH_001"
	ErrCodeSearchFilterInvalid ErrorCode = "SRCH_002"
	ErrCodeSearchFailed        ErrorCode = "SRCH_003"
	ErrCodeSearchModeInvalid   ErrorCode = "SRCH_004"
)

// Citation module error codes.
const (
	ErrCodeCitationDepthInvalid    ErrorCode = "CIT_001"
	ErrCodeCitationMaxNodesInvalid ErrorCode = "CIT_002"
	ErrCodeCitationTraversalFailed ErrorCode = "CIT_003"
)

// Trend module error codes.
const (
	ErrCodeTrendQueryFailed    ErrorCode = "TRD_001"
	ErrCodeTrendWindowInvalid  ErrorCode = "TRD_002"
	ErrCodeTrendReportFailed   ErrorCode = "TRD_003"
)

// Embedding provider error codes.
const (
	ErrCodeEmbeddingUnavailable ErrorCode = "EMB_001"
	ErrCodeEmbeddingDimension   ErrorCode = "EMB_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,
	ErrCodeNotImplemented:     http.StatusNotImplemented,
	ErrCodeUnknown:            http.StatusInternalServerError,

	ErrCodePatentNotFound:      http.StatusNotFound,
	ErrCodePatentNumberInvalid: http.StatusBadRequest,
	ErrCodePatentStatusInvalid: http.StatusBadRequest,

	ErrCodeSearchQueryInvalid:  http.StatusBadRequest,
	ErrCodeSearchFilterInvalid: http.StatusBadRequest,
	ErrCodeSearchFailed:        http.StatusInternalServerError,
	ErrCodeSearchModeInvalid:   http.StatusBadRequest,

	ErrCodeCitationDepthInvalid:    http.StatusBadRequest,
	ErrCodeCitationMaxNodesInvalid: http.StatusBadRequest,
	ErrCodeCitationTraversalFailed: http.StatusInternalServerError,

	ErrCodeTrendQueryFailed:   http.StatusInternalServerError,
	ErrCodeTrendWindowInvalid: http.StatusBadRequest,
	ErrCodeTrendReportFailed:  http.StatusInternalServerError,

	ErrCodeEmbeddingUnavailable: http.StatusServiceUnavailable,
	ErrCodeEmbeddingDimension:   http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",
	ErrCodeUnknown:            "unknown error",

	ErrCodePatentNotFound:      "patent not found",
	ErrCodePatentNumberInvalid: "invalid patent number",
	ErrCodePatentStatusInvalid: "invalid patent status",

	ErrCodeSearchQueryInvalid:  "invalid search query",
	ErrCodeSearchFilterInvalid: "invalid search filter",
	ErrCodeSearchFailed:        "search failed",
	ErrCodeSearchModeInvalid:   "invalid search mode",

	ErrCodeCitationDepthInvalid:    "invalid citation depth",
	ErrCodeCitationMaxNodesInvalid: "invalid citation node limit",
	ErrCodeCitationTraversalFailed: "citation traversal failed",

	ErrCodeTrendQueryFailed:   "trend query failed",
	ErrCodeTrendWindowInvalid: "invalid trend window",
	ErrCodeTrendReportFailed:  "trend report generation failed",

	ErrCodeEmbeddingUnavailable: "embedding provider unavailable",
	ErrCodeEmbeddingDimension:   "embedding dimension mismatch",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode, e.g. "SRCH" for
// ErrCodeSearchFailed.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
