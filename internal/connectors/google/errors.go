package google

import (
	"errors"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

// Common Google API errors.
var (
	// ErrForbidden indicates insufficient permissions on a single resource.
	ErrForbidden = errors.New("google: forbidden (insufficient permissions)")

	// ErrNotFound indicates the requested resource was not found.
	ErrNotFound = errors.New("google: resource not found")

	// ErrRateLimited indicates per-minute request throttling (429). Unlike
	// daily quota exhaustion this clears on its own; callers retry later.
	ErrRateLimited = errors.New("google: rate limit exceeded")

	// ErrAlreadySubscribed indicates a subscription insert for a channel the
	// account is already subscribed to.
	ErrAlreadySubscribed = errors.New("google: subscription already exists")
)

// quotaReasons are the googleapi error reasons that mean the project's daily
// quota is spent, as opposed to a per-resource permission failure.
var quotaReasons = map[string]bool{
	"quotaExceeded":      true,
	"dailyLimitExceeded": true,
	"rateLimitExceeded":  false, // per-minute, handled as ErrRateLimited
}

// IsQuotaExceeded returns true if the error indicates account-wide daily
// quota exhaustion. Google signals this as HTTP 403 with a dedicated reason;
// some endpoints only carry the marker in the message text.
func IsQuotaExceeded(err error) bool {
	if errors.Is(err, domain.ErrQuotaExhausted) {
		return true
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	if gerr.Code != http.StatusForbidden {
		return false
	}
	for _, item := range gerr.Errors {
		if quotaReasons[item.Reason] {
			return true
		}
	}
	return strings.Contains(gerr.Message, "quota")
}

// IsUnauthorized returns true if the error indicates invalid credentials.
func IsUnauthorized(err error) bool {
	if errors.Is(err, domain.ErrAuthRequired) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusUnauthorized
	}
	return false
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}

// IsRateLimited returns true if the error indicates per-minute throttling.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// IsAlreadySubscribed returns true for the duplicate-subscription failure
// mode of subscriptions.insert (400 with reason "subscriptionDuplicate").
func IsAlreadySubscribed(err error) bool {
	if errors.Is(err, ErrAlreadySubscribed) {
		return true
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	for _, item := range gerr.Errors {
		if item.Reason == "subscriptionDuplicate" {
			return true
		}
	}
	return false
}

// WrapError converts a Google API error to a domain or package sentinel.
// The sync engine classifies failures with errors.Is on domain sentinels,
// so the mapping has to happen here at the connector boundary.
func WrapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case IsQuotaExceeded(err):
		return domain.ErrQuotaExhausted
	case IsUnauthorized(err):
		return domain.ErrAuthRequired
	case IsAlreadySubscribed(err):
		return ErrAlreadySubscribed
	case IsRateLimited(err):
		return ErrRateLimited
	case IsNotFound(err):
		return ErrNotFound
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusForbidden {
		return ErrForbidden
	}
	return err
}
