// Package events publishes reservation lifecycle events to Kafka so
// downstream consumers (notifications, analytics) can follow seat
// availability without polling the API.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationCancelled = "reservation.cancelled"
	TypeReservationDeleted   = "reservation.deleted"
)

// Event describes one reservation lifecycle transition. AvailableSeats
// is the flight's seat count after the transition committed.
type Event struct {
	Type           string    `json:"type"`
	ReservationID  string    `json:"reservationId"`
	FlightID       string    `json:"flightId"`
	AvailableSeats int       `json:"availableSeats"`
	Timestamp      time.Time `json:"timestamp"`
}

// Publisher emits reservation lifecycle events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// KafkaPublisher writes events to a Kafka topic, keyed by flight id so
// a flight's events stay ordered within one partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher for the given broker and topic
func NewKafkaPublisher(broker, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		logger: logger,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	event.Timestamp = time.Now()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.FlightID),
		Value: value,
	})
	if err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	p.logger.Debug("published event",
		zap.String("type", event.Type),
		zap.String("reservationId", event.ReservationID))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher discards events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event Event) error { return nil }
func (NopPublisher) Close() error                                   { return nil }
