package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"

	openai "github.com/sashabaranov/go-openai"

	"github.com/noema-labs/noema/internal/domain"
)

// classifyError separates transport failures from provider responses.
// Network-level errors map to domain.ErrNetwork so callers can surface a
// 503; anything the provider actually answered maps to fallback.
func classifyError(err error, op string, fallback error) error {
	if isNetworkError(err) {
		return fmt.Errorf("%s: %v: %w", op, err, domain.ErrNetwork)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail == "" {
			detail = string(reqErr.Body)
		}
		return fmt.Errorf("%s: API error %d: %s: %w", op, reqErr.HTTPStatusCode, detail, fallback)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: API error %d: %s: %w", op, apiErr.HTTPStatusCode, apiErr.Message, fallback)
	}

	return fmt.Errorf("%s: %v: %w", op, err, fallback)
}

// isNetworkError reports whether err never reached the provider.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
