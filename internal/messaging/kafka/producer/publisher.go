package producer

import (
	"context"
	"go-payroll/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
)

func publishEvent(ctx context.Context, writer *kafkago.Writer, event kafka.OutboxEvent) error {
	if err := kafka.ValidateOutboxEvent(event); err != nil {
		return err
	}

	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.AggregateID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "aggregate_type", Value: []byte(event.AggregateType)},
		},
	}

	if event.RequestID != "" {
		msg.Headers = append(msg.Headers, kafkago.Header{
			Key: "request_id", Value: []byte(event.RequestID),
		})
	}

	return writer.WriteMessages(ctx, msg)
}
