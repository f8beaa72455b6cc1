package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelQueue(t *testing.T) {
	ctx := context.Background()
	queue := NewChannelQueue(2)
	require.NoError(t, queue.Publish(ctx, 7))
	require.NoError(t, queue.Publish(ctx, 8))

	full, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, queue.Publish(full, 9), context.DeadlineExceeded)

	id, err := queue.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	id, err = queue.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 8, id)

	require.NoError(t, queue.Close())
	_, err = queue.Next(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestMemoryCounter(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter(time.Minute)
	for want := int64(1); want <= 3; want++ {
		got, err := counter.Increment(ctx, "ratelimit:/events/step_1:10.0.0.1", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	got, err := counter.Increment(ctx, "ratelimit:/events/step_1:10.0.0.2", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestMemoryCounterWindowExpires(t *testing.T) {
	ctx := context.Background()
	counter := NewMemoryCounter(time.Minute)
	_, err := counter.Increment(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	got, err := counter.Increment(ctx, "k", 20*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}
