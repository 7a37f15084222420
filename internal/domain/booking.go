package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID               int64         `json:"id"`
	BookingReference string        `json:"booking_reference"`
	UserID           string        `json:"user_id"`
	FlightID         int64         `json:"flight_id"`
	PassengerName    string        `json:"passenger_name"`
	PassengerEmail   string        `json:"passenger_email"`
	PassportNumber   string        `json:"passport_number"`
	SeatClass        SeatClass     `json:"seat_class"`
	SeatNumber       string        `json:"seat_number"`
	TotalPrice       int64         `json:"total_price"`
	BookingDate      time.Time     `json:"booking_date"`
	Status           BookingStatus `json:"status"`
	CreatedAt        time.Time     `json:"-"`
	UpdatedAt        time.Time     `json:"-"`
}
