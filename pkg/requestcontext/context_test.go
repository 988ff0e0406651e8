package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNowFallsBackToWallClock(t *testing.T) {
	before := time.Now()
	got := Now(context.Background())
	assert.False(t, got.Before(before))
}

func TestWithTimeAndRequestID(t *testing.T) {
	fixed := time.Date(2025, 4, 1, 4, 0, 0, 0, time.UTC)
	ctx := WithRequestID(WithTime(context.Background(), fixed), "req-1")

	assert.Equal(t, fixed, Now(ctx))
	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Empty(t, RequestID(context.Background()))
}
