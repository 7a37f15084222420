package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "scheduled"
	FlightStatusDelayed   FlightStatus = "delayed"
	FlightStatusCancelled FlightStatus = "cancelled"
)

type SeatClass string

const (
	SeatClassEconomy  SeatClass = "economy"
	SeatClassBusiness SeatClass = "business"
)

func (c SeatClass) Valid() bool {
	return c == SeatClassEconomy || c == SeatClassBusiness
}

type Flight struct {
	ID               int64        `json:"id"`
	FlightNumber     string       `json:"flight_number"`
	DepartureAirport string       `json:"departure_airport"`
	ArrivalAirport   string       `json:"arrival_airport"`
	DepartureTime    time.Time    `json:"departure_time"`
	ArrivalTime      time.Time    `json:"arrival_time"`
	EconomyPrice     int64        `json:"economy_price"`
	BusinessPrice    int64        `json:"business_price"`
	EconomySeats     int          `json:"economy_seats_available"`
	BusinessSeats    int          `json:"business_seats_available"`
	DistanceMiles    float64      `json:"distance_miles"`
	Status           FlightStatus `json:"status"`
	CreatedAt        time.Time    `json:"-"`
	UpdatedAt        time.Time    `json:"-"`
}

// PriceFor returns the fare in cents for the given class.
func (f *Flight) PriceFor(class SeatClass) int64 {
	if class == SeatClassBusiness {
		return f.BusinessPrice
	}
	return f.EconomyPrice
}

// SeatsFor returns remaining capacity for the given class.
func (f *Flight) SeatsFor(class SeatClass) int {
	if class == SeatClassBusiness {
		return f.BusinessSeats
	}
	return f.EconomySeats
}
