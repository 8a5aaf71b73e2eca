// Package handlers contains the HTTP handlers of the screening API.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ukgridlab/solarscreen/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeAppError maps application-level errors to HTTP status codes. Server
// errors are masked; the code is still surfaced for correlation.
func writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = "internal server error"
	}
	writeJSON(w, status, ErrorResponse{Code: string(code), Message: message})
}

// queryCategories parses the categories filter. It accepts both repeated
// parameters and comma-separated lists. Nil means "no filter supplied".
func queryCategories(r *http.Request) []string {
	raw := r.URL.Query()["categories"]
	if len(raw) == 0 {
		return nil
	}
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// queryFloat parses an optional float query parameter into dest.
func queryFloat(r *http.Request, name string, dest *float64) error {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return errors.Newf(errors.ErrCodeScreeningParam, "parameter %q must be a number", name)
	}
	*dest = f
	return nil
}

// queryInt parses an optional positive integer query parameter into dest.
func queryInt(r *http.Request, name string, dest *int) error {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return errors.Newf(errors.ErrCodeScreeningParam, "parameter %q must be a positive integer", name)
	}
	*dest = n
	return nil
}
