// Package handlers implements the HTTP API endpoints.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/dmhernandez2525/patent-intelligence/pkg/errors"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status and writes the
// error envelope. Unknown errors become 500 without leaking the cause.
func respondError(c *gin.Context, err error) {
	code := apperrors.GetCode(err)
	status := apperrors.HTTPStatusForCode(code)

	message := "internal server error"
	if status < http.StatusInternalServerError {
		message = apperrors.GetMessage(err)
	}

	c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{
		Code:    string(code),
		Message: message,
	}})
}

// intQuery parses an integer query parameter, returning def when absent.
// A malformed value yields a validation error.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.Validationf("query parameter %q must be an integer", name)
	}
	return v, nil
}

// floatQuery parses a float query parameter, returning def when absent.
func floatQuery(c *gin.Context, name string, def float64) (float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.Validationf("query parameter %q must be a number", name)
	}
	return v, nil
}

// dateQuery parses a YYYY-MM-DD query parameter, returning nil when absent.
func dateQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperrors.Validationf("query parameter %q must be a YYYY-MM-DD date", name)
	}
	return &t, nil
}
