package cron

import (
	"context"
	"errors"
	"sync"
	"time"

	"inc/client"
	"inc/service"

	log "github.com/sirupsen/logrus"
)

type Deliverer interface {
	Deliver(ctx context.Context, id int) error
	Requeue(ctx context.Context, olderThan time.Duration) (int, error)
}

// NotificationWorker pulls outbox ids from the queue and delivers them with a fixed
// number of concurrent senders.
type NotificationWorker struct {
	queue     client.NotificationQueue
	deliverer Deliverer
	workers   int
}

func NewNotificationWorker(queue client.NotificationQueue, notificationService *service.NotificationService, workers int) *NotificationWorker {
	return newNotificationWorker(queue, notificationService, workers)
}

func newNotificationWorker(queue client.NotificationQueue, deliverer Deliverer, workers int) *NotificationWorker {
	if workers < 1 {
		workers = 1
	}
	return &NotificationWorker{queue: queue, deliverer: deliverer, workers: workers}
}

// Run blocks until ctx is cancelled or the queue is closed.
func (w *NotificationWorker) Run(ctx context.Context) {
	if n, err := w.deliverer.Requeue(ctx, time.Minute); err != nil {
		log.WithError(err).Warn("could not requeue pending notifications")
	} else if n > 0 {
		log.WithField("count", n).Info("requeued pending notifications")
	}

	wg := sync.WaitGroup{}
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	wg.Wait()
}

func (w *NotificationWorker) loop(ctx context.Context) {
	for {
		id, err := w.queue.Next(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, client.ErrQueueClosed) {
				return
			}
			log.WithError(err).Error("reading notification queue failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		if err := w.deliverer.Deliver(sendCtx, id); err != nil {
			log.WithError(err).WithField("id", id).Warn("notification delivery failed")
		}
		cancel()
	}
}
