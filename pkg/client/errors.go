package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrTooLarge is returned when a download exceeds the size cap.
var ErrTooLarge = errors.New("response body exceeds download limit")

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	// Fields holds per-field messages when the body was {"errors": {field: [msg]}}.
	Fields map[string][]string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// FieldErrors returns the structured field errors carried by err, if any.
func FieldErrors(err error) map[string][]string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && len(httpErr.Fields) > 0 {
		return httpErr.Fields
	}
	return nil
}

// parseErrorBody extracts a message and optional field errors from an error body.
// The backend is not consistent: it uses "error", "message", or "detail" for the
// message, and "errors" either as a field map or as a flat list.
func parseErrorBody(status int, body []byte) *HTTPError {
	herr := &HTTPError{StatusCode: status}

	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
		Detail  string          `json:"detail"`
		Errors  json.RawMessage `json:"errors"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		herr.Message = strings.TrimSpace(string(body))
		return herr
	}

	var errStr string
	if len(envelope.Error) > 0 {
		_ = json.Unmarshal(envelope.Error, &errStr) //nolint:errcheck // non-string "error" values are ignored
	}
	switch {
	case errStr != "":
		herr.Message = errStr
	case envelope.Message != "":
		herr.Message = envelope.Message
	case envelope.Detail != "":
		herr.Message = envelope.Detail
	}

	if len(envelope.Errors) > 0 {
		herr.Fields = decodeFieldErrors(envelope.Errors)
		if herr.Message == "" {
			herr.Message = firstFieldMessage(herr.Fields)
		}
	}
	return herr
}

func decodeFieldErrors(raw json.RawMessage) map[string][]string {
	var byField map[string]json.RawMessage
	if json.Unmarshal(raw, &byField) != nil {
		return nil
	}
	fields := make(map[string][]string, len(byField))
	for name, v := range byField {
		var list []string
		if json.Unmarshal(v, &list) == nil {
			if len(list) > 0 {
				fields[name] = list
			}
			continue
		}
		var one string
		if json.Unmarshal(v, &one) == nil && one != "" {
			fields[name] = []string{one}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func firstFieldMessage(fields map[string][]string) string {
	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if msgs := fields[n]; len(msgs) > 0 {
			return msgs[0]
		}
	}
	return ""
}
