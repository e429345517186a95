package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBucketBurst(t *testing.T) {
	tb := New(Config{RequestsPerSecond: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		assert.True(t, tb.Allow(), "token %d should be available", i+1)
	}
	assert.False(t, tb.Allow(), "bucket should be exhausted")
}

func TestTokenBucketUnlimited(t *testing.T) {
	tb := New(Config{})
	for i := 0; i < 1000; i++ {
		require.True(t, tb.Allow())
	}
	require.NoError(t, tb.Wait(context.Background()))
}

func TestTokenBucketWaitHonorsContext(t *testing.T) {
	tb := New(Config{RequestsPerSecond: 0.001, Burst: 1})
	require.True(t, tb.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := tb.Wait(ctx)
	assert.Error(t, err)
}

func TestPerHostSeparatesHosts(t *testing.T) {
	p := NewPerHost(Config{RequestsPerSecond: 0.001, Burst: 1})
	ctx := context.Background()

	require.NoError(t, p.Wait(ctx, "https://catalog.example.test/api?page=1"))
	require.NoError(t, p.Wait(ctx, "https://images.example.test/a.png"))

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.Error(t, p.Wait(short, "https://catalog.example.test/api?page=2"))
}
