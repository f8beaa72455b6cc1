package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"inc/client"

	"github.com/stretchr/testify/assert"
)

type fakeDeliverer struct {
	mu        sync.Mutex
	delivered []int
	requeued  int
}

func (d *fakeDeliverer) Deliver(ctx context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delivered = append(d.delivered, id)
	if id%2 == 0 {
		return errors.New("smtp down")
	}
	return nil
}

func (d *fakeDeliverer) Requeue(ctx context.Context, olderThan time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requeued++
	return 0, nil
}

func TestWorkerDrainsQueueUntilClosed(t *testing.T) {
	ctx := context.Background()
	queue := client.NewChannelQueue(16)
	deliverer := &fakeDeliverer{}
	for id := 1; id <= 10; id++ {
		assert.NoError(t, queue.Publish(ctx, id))
	}
	assert.NoError(t, queue.Close())

	done := make(chan struct{})
	go func() {
		newNotificationWorker(queue, deliverer, 3).Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after the queue closed")
	}

	assert.Equal(t, 1, deliverer.requeued)
	assert.ElementsMatch(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, deliverer.delivered)
}

func TestWorkerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	deliverer := &fakeDeliverer{}
	done := make(chan struct{})
	go func() {
		newNotificationWorker(client.NewChannelQueue(1), deliverer, 0).Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancel")
	}
	assert.Empty(t, deliverer.delivered)
}
