package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{name: "quota sentinel", err: ErrQuotaExhausted, want: FailureQuota},
		{name: "wrapped quota", err: fmt.Errorf("join UCx: %w", ErrQuotaExhausted), want: FailureQuota},
		{name: "mirror not configured", err: ErrMirrorNotConfigured, want: FailureFatal},
		{name: "store unavailable", err: fmt.Errorf("set checkpoint: %w", ErrStoreUnavailable), want: FailureFatal},
		{name: "auth required", err: ErrAuthRequired, want: FailureFatal},
		{name: "arbitrary error", err: errors.New("channel deleted"), want: FailureTransient},
		{name: "not found", err: ErrNotFound, want: FailureTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFailure(tt.err))
		})
	}
}

func TestFailureKindString(t *testing.T) {
	assert.Equal(t, "transient", FailureTransient.String())
	assert.Equal(t, "quota", FailureQuota.String())
	assert.Equal(t, "fatal", FailureFatal.String())
}

func TestRunOutcomeString(t *testing.T) {
	assert.Equal(t, "completed", OutcomeCompleted.String())
	assert.Equal(t, "yielded-on-budget", OutcomeYieldedOnBudget.String())
	assert.Equal(t, "yielded-on-quota", OutcomeYieldedOnQuota.String())
	assert.Equal(t, "fatal", OutcomeFatal.String())
}
