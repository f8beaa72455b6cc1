package client

import (
	"context"
	"errors"
	"strconv"

	"inc/config"
	"inc/metrics"

	"github.com/segmentio/kafka-go"
)

var ErrQueueClosed = errors.New("notification queue closed")

// NotificationQueue carries outbox ids from the api to the delivery worker.
type NotificationQueue interface {
	Publish(ctx context.Context, id int) error
	Next(ctx context.Context) (int, error)
	Close() error
}

type ChannelQueue struct {
	ch chan int
}

func NewChannelQueue(size int) *ChannelQueue {
	return &ChannelQueue{ch: make(chan int, size)}
}

func (q *ChannelQueue) Publish(ctx context.Context, id int) error {
	select {
	case q.ch <- id:
		metrics.NotificationQueueGauge.Inc()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChannelQueue) Next(ctx context.Context) (int, error) {
	select {
	case id, ok := <-q.ch:
		if !ok {
			return 0, ErrQueueClosed
		}
		metrics.NotificationQueueGauge.Dec()
		return id, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (q *ChannelQueue) Close() error {
	close(q.ch)
	return nil
}

type KafkaQueue struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

func NewKafkaQueue(topic string, groupId string) (*KafkaQueue, error) {
	writer, err := config.GetWriter(topic)
	if err != nil {
		return nil, err
	}
	reader, err := config.GetReader(topic, groupId)
	if err != nil {
		return nil, err
	}
	return &KafkaQueue{writer: writer, reader: reader}, nil
}

func (q *KafkaQueue) Publish(ctx context.Context, id int) error {
	value := []byte(strconv.Itoa(id))
	return q.writer.WriteMessages(ctx, kafka.Message{Key: value, Value: value})
}

func (q *KafkaQueue) Next(ctx context.Context) (int, error) {
	for {
		msg, err := q.reader.ReadMessage(ctx)
		if err != nil {
			return 0, err
		}
		id, err := strconv.Atoi(string(msg.Value))
		if err != nil {
			// not one of ours, skip it
			continue
		}
		return id, nil
	}
}

func (q *KafkaQueue) Close() error {
	return errors.Join(q.writer.Close(), q.reader.Close())
}

// NewNotificationQueue picks kafka when a broker is configured, else an in-process channel.
func NewNotificationQueue(cfg *config.Config) (NotificationQueue, error) {
	if cfg.KafkaBroker == "" {
		return NewChannelQueue(1024), nil
	}
	return NewKafkaQueue(config.NotificationTopic, "inc-notification-worker")
}
