package booking

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/kafka"
	"github.com/hznasser/falconair/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID string, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, userID string, id int64) (*domain.Booking, error)
	RescheduleBooking(ctx context.Context, userID string, id int64, input RescheduleInput) (*RescheduleResult, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateBookingInput struct {
	FlightID       int64            `json:"flight_id"`
	PassengerName  string           `json:"passenger_name"`
	PassengerEmail string           `json:"passenger_email"`
	PassportNumber string           `json:"passport_number"`
	SeatClass      domain.SeatClass `json:"seat_class"`
	SeatNumber     string           `json:"seat_number"`
	TotalPrice     int64            `json:"total_price"`
}

type RescheduleInput struct {
	NewFlightID int64            `json:"new_flight_id"`
	SeatClass   domain.SeatClass `json:"seat_class,omitempty"`
	SeatNumber  string           `json:"seat_number,omitempty"`
}

// RescheduleResult pairs the cancelled booking with its replacement.
type RescheduleResult struct {
	OldBooking *domain.Booking `json:"old_booking"`
	NewBooking *domain.Booking `json:"new_booking"`
}

type BookingService struct {
	bookings           repository.BookingRepository
	flights            repository.FlightRepository
	producer           Producer
	log                *zap.Logger
	bookingTopic       string
	notificationsTopic string
	now                func() time.Time
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	producer Producer,
	bookingTopic string,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     bookings,
		flights:      flights,
		producer:     producer,
		bookingTopic: bookingTopic,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateCreate(input CreateBookingInput) error {
	if input.PassengerName == "" {
		return domain.NewValidationError("passenger_name", "is required")
	}
	if input.PassengerEmail == "" {
		return domain.NewValidationError("passenger_email", "is required")
	}
	if !emailPattern.MatchString(input.PassengerEmail) {
		return domain.NewValidationError("passenger_email", "must be a valid email address")
	}
	if input.PassportNumber == "" {
		return domain.NewValidationError("passport_number", "is required")
	}
	if !input.SeatClass.Valid() {
		return domain.NewValidationError("seat_class", "must be economy or business")
	}
	if input.SeatNumber == "" {
		return domain.NewValidationError("seat_number", "is required")
	}
	return nil
}

// referenceCharset avoids 0/O and 1/I so references survive being read
// over the phone.
const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func newBookingReference() string {
	id := uuid.New()
	ref := make([]byte, 6)
	for i := range ref {
		ref[i] = referenceCharset[int(id[i])%len(referenceCharset)]
	}
	return string(ref)
}

func (s *BookingService) CreateBooking(ctx context.Context, userID string, input CreateBookingInput) (*domain.Booking, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}

	price := input.TotalPrice
	if price <= 0 {
		price = flight.PriceFor(input.SeatClass)
	}

	booking := &domain.Booking{
		UserID:         userID,
		FlightID:       flight.ID,
		PassengerName:  input.PassengerName,
		PassengerEmail: input.PassengerEmail,
		PassportNumber: input.PassportNumber,
		SeatClass:      input.SeatClass,
		SeatNumber:     input.SeatNumber,
		TotalPrice:     price,
		BookingDate:    s.now(),
	}

	// Reference collisions are rare; retry a few times on the unique index.
	for attempt := 0; ; attempt++ {
		booking.BookingReference = newBookingReference()
		err = s.bookings.Create(ctx, booking)
		if err == nil {
			break
		}
		if repository.IsUniqueViolation(err) && attempt < 3 {
			continue
		}
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, userID string, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) CancelBooking(ctx context.Context, userID string, id int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, domain.ErrForbidden
	}

	cancelled, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCancelled, cancelled)
	return cancelled, nil
}

func (s *BookingService) RescheduleBooking(ctx context.Context, userID string, id int64, input RescheduleInput) (*RescheduleResult, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, domain.ErrForbidden
	}
	switch current.Status {
	case domain.BookingStatusCancelled:
		return nil, domain.ErrAlreadyCancelled
	case domain.BookingStatusCheckedIn:
		return nil, domain.ErrInvalidStateTransition
	}

	seatClass := input.SeatClass
	if seatClass == "" {
		seatClass = current.SeatClass
	}
	if !seatClass.Valid() {
		return nil, domain.NewValidationError("seat_class", "must be economy or business")
	}
	seatNumber := input.SeatNumber
	if seatNumber == "" {
		seatNumber = current.SeatNumber
	}

	newFlight, err := s.flights.GetByID(ctx, input.NewFlightID)
	if err != nil {
		return nil, err
	}

	replacement := &domain.Booking{
		BookingReference: newBookingReference(),
		UserID:           current.UserID,
		FlightID:         newFlight.ID,
		PassengerName:    current.PassengerName,
		PassengerEmail:   current.PassengerEmail,
		PassportNumber:   current.PassportNumber,
		SeatClass:        seatClass,
		SeatNumber:       seatNumber,
		TotalPrice:       newFlight.PriceFor(seatClass),
		BookingDate:      s.now(),
	}

	old, err := s.bookings.Reschedule(ctx, id, replacement)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingRescheduled, replacement)
	return &RescheduleResult{OldBooking: old, NewBooking: replacement}, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:             eventType,
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		FlightID:         booking.FlightID,
		PassengerName:    booking.PassengerName,
		PassengerEmail:   booking.PassengerEmail,
		SeatClass:        string(booking.SeatClass),
		SeatNumber:       booking.SeatNumber,
		Status:           string(booking.Status),
		OccurredAt:       s.now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.BookingReference, event); err != nil {
		s.log.Warn("failed to publish booking event", zap.String("type", eventType), zap.Error(err))
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.BookingReference, event); err != nil {
			s.log.Warn("failed to publish notification event", zap.String("type", eventType), zap.Error(err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
