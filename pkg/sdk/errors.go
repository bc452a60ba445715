package sdk

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Error codes returned by the server.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeIdeaNotFound     = "idea_not_found"
	CodeFragmentNotFound = "fragment_not_found"
	CodeSpaceNotFound    = "space_not_found"
	CodeProviderError    = "provider_error"
	CodeUnreachable      = "provider_unreachable"
	CodeInternalError    = "internal_error"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("noema server: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// NotFound reports whether the error is a not-found response.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

func apiErrorFromResponse(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && json.Unmarshal(raw, &body) == nil && body.Code != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		return apiErr
	}

	apiErr.Code = CodeInternalError
	apiErr.Message = http.StatusText(resp.StatusCode)
	return apiErr
}
