package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	openai "github.com/sashabaranov/go-openai"

	"github.com/animora/vetassist/internal/domain"
)

// mapProviderError translates an API failure into a domain sentinel. Auth and
// bad-request errors mean misconfiguration; rate limits and server errors
// mean the provider is temporarily unusable.
func mapProviderError(provider string, err error) error {
	if status, msg, ok := apiStatus(err); ok {
		switch {
		case status == 401 || status == 403:
			return fmt.Errorf("authentication failed for %s: %s: %w", provider, msg, domain.ErrProviderAuth)
		case status == 400:
			return fmt.Errorf("bad request to %s: %s: %w", provider, msg, domain.ErrProviderBadRequest)
		case status == 429 || status >= 500:
			return fmt.Errorf("%s unavailable (%d): %s: %w", provider, status, msg, domain.ErrProviderUnavailable)
		default:
			return fmt.Errorf("%s API error %d: %s: %w", provider, status, msg, domain.ErrProviderUnavailable)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s request timed out: %w", provider, domain.ErrProviderTimeout)
	}
	if isConnectionRefused(err) {
		return fmt.Errorf("%s is not reachable: %w", provider, domain.ErrProviderUnavailable)
	}

	return fmt.Errorf("%s request failed: %v: %w", provider, err, domain.ErrProviderUnavailable)
}

// apiStatus extracts the HTTP status and message from a go-openai error.
func apiStatus(err error) (int, string, bool) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode, apiErr.Message, true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, string(reqErr.Body), true
	}
	return 0, "", false
}

func isConnectionRefused(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr) || errors.Is(err, syscall.ECONNREFUSED)
}
