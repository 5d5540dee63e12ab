package llm

import (
	"errors"
	"fmt"
	"strings"

	errorvalues "github.com/limbo/habitlens/internal/error_values"
)

// Substrings of upstream error text that mean a rate limit or an exhausted plan.
var quotaMarkers = []string{
	"429",
	"quota",
	"billing",
	"rate limit",
	"rate_limit",
	"resource_exhausted",
	"too many requests",
}

// Classify maps a model client failure onto the gateway taxonomy. Unknown failures,
// timeouts included, are ErrAIUpstream; the cause stays in the chain.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errorvalues.ErrAIUnavailable),
		errors.Is(err, errorvalues.ErrAIEmptyResponse),
		errors.Is(err, errorvalues.ErrAIUpstream):
		return err
	case errors.Is(err, ErrNotConfigured):
		return fmt.Errorf("%w: %w", errorvalues.ErrAIUnavailable, err)
	case IsQuotaError(err):
		return fmt.Errorf("%w: %w", errorvalues.ErrAIQuota, err)
	default:
		return fmt.Errorf("%w: %w", errorvalues.ErrAIUpstream, err)
	}
}

func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, m := range quotaMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
