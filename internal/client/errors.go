package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// GenericErrorMessage is shown when no message can be extracted from an error.
const GenericErrorMessage = "An error occurred. Please try again."

// RequestError reports a non-success HTTP response. The server's error
// message, when present, is carried verbatim and not interpreted.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("request failed (%d)", e.StatusCode)
}

// newRequestError builds a RequestError from a non-2xx response, pulling the
// message out of the standard {"error": "..."} payload when possible.
func newRequestError(resp *http.Response) *RequestError {
	re := &RequestError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return re
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		re.Message = payload.Error
	}
	return re
}

// ErrorMessage extracts a human-readable message from an error, falling back
// to a generic message when none is extractable.
func ErrorMessage(err error) string {
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return GenericErrorMessage
}
