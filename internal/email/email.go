package email

import (
	"context"
	"fmt"

	"github.com/hznasser/falconair/internal/kafka"
	"go.uber.org/zap"
)

// Sender delivers passenger notifications for booking lifecycle events.
// Delivery is a log line for now; the worker only needs the interface.
type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject := subjectFor(event)
	s.log.Info("sending notification email",
		zap.String("to", event.PassengerEmail),
		zap.String("subject", subject),
		zap.String("booking_reference", event.BookingReference))
	return nil
}

func subjectFor(event kafka.BookingEvent) string {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking %s confirmed", event.BookingReference)
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking %s cancelled, refund in 5-7 business days", event.BookingReference)
	case kafka.EventBookingCheckedIn:
		return fmt.Sprintf("Checked in: booking %s earned %d miles", event.BookingReference, event.MilesEarned)
	case kafka.EventBookingRescheduled:
		return fmt.Sprintf("Booking %s rescheduled", event.BookingReference)
	default:
		return fmt.Sprintf("Update for booking %s", event.BookingReference)
	}
}
