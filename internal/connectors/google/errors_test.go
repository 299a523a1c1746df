package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/subsync-cli/internal/core/domain"
)

func apiError(code int, reason, message string) *googleapi.Error {
	return &googleapi.Error{
		Code:    code,
		Message: message,
		Errors:  []googleapi.ErrorItem{{Reason: reason, Message: message}},
	}
}

func TestWrapError_QuotaExceeded(t *testing.T) {
	err := WrapError(apiError(http.StatusForbidden, "quotaExceeded", "Daily Limit Exceeded"))
	assert.ErrorIs(t, err, domain.ErrQuotaExhausted)
	assert.Equal(t, domain.FailureQuota, domain.ClassifyFailure(err))
}

func TestWrapError_DailyLimitExceeded(t *testing.T) {
	err := WrapError(apiError(http.StatusForbidden, "dailyLimitExceeded", "Daily Limit Exceeded"))
	assert.ErrorIs(t, err, domain.ErrQuotaExhausted)
}

func TestWrapError_QuotaMarkerInMessageOnly(t *testing.T) {
	gerr := &googleapi.Error{Code: http.StatusForbidden, Message: "The request cannot be completed because you have exceeded your quota."}
	err := WrapError(gerr)
	assert.ErrorIs(t, err, domain.ErrQuotaExhausted)
}

func TestWrapError_PlainForbiddenIsNotQuota(t *testing.T) {
	// A 403 without a quota reason is a per-resource permission failure and
	// must not stop the whole run.
	err := WrapError(apiError(http.StatusForbidden, "forbidden", "The subscriber is not allowed"))
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, domain.FailureTransient, domain.ClassifyFailure(err))
}

func TestWrapError_RateLimitedIsNotQuota(t *testing.T) {
	err := WrapError(apiError(http.StatusTooManyRequests, "rateLimitExceeded", "Rate Limit Exceeded"))
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.NotErrorIs(t, err, domain.ErrQuotaExhausted)
	assert.Equal(t, domain.FailureTransient, domain.ClassifyFailure(err))
}

func TestWrapError_Unauthorized(t *testing.T) {
	err := WrapError(apiError(http.StatusUnauthorized, "authError", "Invalid Credentials"))
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
	assert.Equal(t, domain.FailureFatal, domain.ClassifyFailure(err))
}

func TestWrapError_SubscriptionDuplicate(t *testing.T) {
	err := WrapError(apiError(http.StatusBadRequest, "subscriptionDuplicate", "Subscription already exists"))
	assert.ErrorIs(t, err, ErrAlreadySubscribed)
}

func TestWrapError_NotFound(t *testing.T) {
	err := WrapError(apiError(http.StatusNotFound, "notFound", "Channel not found"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWrapError_PassthroughUnknown(t *testing.T) {
	raw := errors.New("connection reset by peer")
	assert.Equal(t, raw, WrapError(raw))
	assert.Nil(t, WrapError(nil))
}

func TestWrapError_WrappedGoogleapiError(t *testing.T) {
	gerr := apiError(http.StatusForbidden, "quotaExceeded", "quota exhausted")
	wrapped := fmt.Errorf("subscriptions.list: %w", gerr)
	assert.ErrorIs(t, WrapError(wrapped), domain.ErrQuotaExhausted)
}
