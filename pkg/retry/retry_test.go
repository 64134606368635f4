package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"docharvest/pkg/config"
	errs "docharvest/pkg/errors"
	"docharvest/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Logger:      logger.NewNopLogger(),
	}
}

func TestExponentialBackoff(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:  2 * time.Second,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
	}

	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 0},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 10 * time.Second},
		{9, 10 * time.Second},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, backoff.NextDelay(tt.attempt), "attempt %d", tt.attempt)
	}
}

func TestExponentialBackoffJitterBounds(t *testing.T) {
	backoff := &ExponentialBackoff{
		BaseDelay:    100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.3,
	}

	seen := map[time.Duration]bool{}
	for i := 0; i < 50; i++ {
		d := backoff.NextDelay(2)
		assert.GreaterOrEqual(t, d, 140*time.Millisecond)
		assert.LessOrEqual(t, d, 260*time.Millisecond)
		seen[d] = true
	}
	assert.Greater(t, len(seen), 1, "jitter should vary delays")
}

func TestBackoffFromConfig(t *testing.T) {
	b := BackoffFromConfig(config.RetryConfig{BaseDelay: time.Second, MaxDelay: time.Minute, Multiplier: 3})
	assert.Equal(t, 9*time.Second, b.NextDelay(3))
}

func TestFromConfigCountsRetries(t *testing.T) {
	cfg := FromConfig(config.RetryConfig{MaxRetries: 3}, nil)
	assert.Equal(t, 4, cfg.MaxAttempts)
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	var retried []int

	cfg := fastConfig(5)
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		retried = append(retried, attempt)
	}

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errs.New(errs.ErrorTypeThrottling, "slow down", nil)
		}
		return nil
	}, cfg)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDoExhaustsAttempts(t *testing.T) {
	attempts := 0
	cause := errs.New(errs.ErrorTypeServerError, "internal", nil)

	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return cause
	}, fastConfig(4))

	require.Error(t, err)
	assert.Equal(t, 4, attempts)
	assert.Equal(t, 4, AttemptsOf(err))
	assert.ErrorIs(t, err, cause)

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.True(t, re.Exhausted)
	assert.Contains(t, err.Error(), "max retry attempts (4) exceeded")
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errs.New(errs.ErrorTypeAuth, "bad key", nil)
	}, fastConfig(5))

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, errs.ErrorTypeAuth, errs.TypeOf(err))

	var re *Error
	require.ErrorAs(t, err, &re)
	assert.False(t, re.Exhausted)
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(0)
	cfg.Backoff = &ConstantBackoff{Delay: time.Hour}
	cfg.OnRetry = func(int, error, time.Duration) { cancel() }

	err := Do(ctx, func(ctx context.Context) error {
		return errors.New("flaky")
	}, cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "retry cancelled")
}

func TestDefaultRetryIf(t *testing.T) {
	assert.False(t, DefaultRetryIf(nil))
	assert.False(t, DefaultRetryIf(context.Canceled))
	assert.False(t, DefaultRetryIf(errs.New(errs.ErrorTypeInvalidInput, "", nil)))
	assert.True(t, DefaultRetryIf(errs.New(errs.ErrorTypeNetwork, "", nil)))
	assert.True(t, DefaultRetryIf(errors.New("unknown")))
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errs.New(errs.ErrorTypeNetwork, "reset", nil)
		}
		return "blocks", nil
	}, fastConfig(3))

	require.NoError(t, err)
	assert.Equal(t, "blocks", got)
	assert.Equal(t, 2, calls)
}

func TestRandomBetween(t *testing.T) {
	for i := 0; i < 100; i++ {
		d := RandomBetween(800*time.Millisecond, 1500*time.Millisecond)
		assert.GreaterOrEqual(t, d, 800*time.Millisecond)
		assert.LessOrEqual(t, d, 1500*time.Millisecond)
	}
	assert.Equal(t, time.Second, RandomBetween(time.Second, time.Second))
}

func TestWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Wait(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Wait(ctx, 0), context.Canceled)
	assert.NoError(t, Wait(context.Background(), 0))
}
