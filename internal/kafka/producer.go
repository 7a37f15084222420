package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is the payload published for every booking lifecycle change.
type BookingEvent struct {
	Type             string    `json:"type"`
	BookingID        int64     `json:"booking_id"`
	BookingReference string    `json:"booking_reference"`
	FlightID         int64     `json:"flight_id"`
	PassengerName    string    `json:"passenger_name"`
	PassengerEmail   string    `json:"passenger_email"`
	SeatClass        string    `json:"seat_class"`
	SeatNumber       string    `json:"seat_number"`
	Status           string    `json:"status"`
	MilesEarned      int64     `json:"miles_earned,omitempty"`
	PointsEarned     int64     `json:"points_earned,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

const (
	EventBookingCreated     = "booking_created"
	EventBookingCancelled   = "booking_cancelled"
	EventBookingCheckedIn   = "booking_checked_in"
	EventBookingRescheduled = "booking_rescheduled"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
