package github

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_UpdateFromResponse(t *testing.T) {
	limiter := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateLimit, "5000")
	resp.Header.Set(HeaderRateRemaining, "4200")
	resp.Header.Set(HeaderRateReset, "1700000000")

	limiter.UpdateFromResponse(resp)

	assert.Equal(t, 5000, limiter.Limit())
	assert.Equal(t, 4200, limiter.Remaining())
	assert.Equal(t, time.Unix(1700000000, 0), limiter.ResetTime())
}

func TestRateLimiter_UpdateIgnoresMalformedHeaders(t *testing.T) {
	limiter := NewRateLimiter()

	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "not-a-number")
	limiter.UpdateFromResponse(resp)

	assert.Equal(t, AuthenticatedLimit, limiter.Remaining())

	limiter.UpdateFromResponse(nil)
	assert.Equal(t, AuthenticatedLimit, limiter.Remaining())
}

func TestRateLimiter_WaitWithFullQuota(t *testing.T) {
	limiter := NewRateLimiter()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, limiter.Wait(ctx))
}

func TestRateLimiter_WaitHonoursCancelledContext(t *testing.T) {
	limiter := NewRateLimiter()

	// Exhaust the quota with a reset far in the future so Wait would
	// otherwise block until the reset.
	resp := &http.Response{Header: http.Header{}}
	resp.Header.Set(HeaderRateRemaining, "0")
	resp.Header.Set(HeaderRateReset, "9999999999")
	limiter.UpdateFromResponse(resp)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
