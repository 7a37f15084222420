package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/service/booking"
	"github.com/hznasser/falconair/internal/service/loyalty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, userID string, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) GetBooking(ctx context.Context, userID string, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, userID string, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) RescheduleBooking(ctx context.Context, userID string, id int64, input booking.RescheduleInput) (*booking.RescheduleResult, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.RescheduleResult), args.Error(1)
}

type MockLoyaltyUseCase struct {
	mock.Mock
}

func (m *MockLoyaltyUseCase) CheckIn(ctx context.Context, userID string, bookingID int64) (*loyalty.CheckInResult, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*loyalty.CheckInResult), args.Error(1)
}

func (m *MockLoyaltyUseCase) Status(ctx context.Context, userID string) (*domain.LoyaltyAccount, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoyaltyAccount), args.Error(1)
}

func authedContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(ctxUserID, "user-1")
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	bookings := &MockBookingUseCase{}
	handler := NewBookingHandler(bookings, &MockLoyaltyUseCase{})

	c, w := authedContext(t)

	input := booking.CreateBookingInput{
		FlightID:       7,
		PassengerName:  "Huda Nasser",
		PassengerEmail: "huda@example.com",
		PassportNumber: "P1234567",
		SeatClass:      domain.SeatClassEconomy,
		SeatNumber:     "14C",
		TotalPrice:     25000,
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Booking{
		ID:               1,
		BookingReference: "QX7H2M",
		UserID:           "user-1",
		FlightID:         7,
		Status:           domain.BookingStatusConfirmed,
	}
	bookings.On("CreateBooking", c.Request.Context(), "user-1", input).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Booking
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "QX7H2M", response.BookingReference)
	assert.Equal(t, domain.BookingStatusConfirmed, response.Status)
	bookings.AssertExpectations(t)
}

func TestBookingHandler_create_seatUnavailable(t *testing.T) {
	bookings := &MockBookingUseCase{}
	handler := NewBookingHandler(bookings, &MockLoyaltyUseCase{})

	c, w := authedContext(t)
	body, _ := json.Marshal(booking.CreateBookingInput{FlightID: 7})
	c.Request = httptest.NewRequest("POST", "/api/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	bookings.On("CreateBooking", c.Request.Context(), "user-1", mock.Anything).Return(nil, domain.ErrSeatUnavailable)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "SEAT_UNAVAILABLE", response["code"])
}

func TestBookingHandler_cancel(t *testing.T) {
	bookings := &MockBookingUseCase{}
	handler := NewBookingHandler(bookings, &MockLoyaltyUseCase{})

	c, w := authedContext(t)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("DELETE", "/api/bookings/3", nil)

	cancelled := &domain.Booking{ID: 3, UserID: "user-1", TotalPrice: 25000, Status: domain.BookingStatusCancelled}
	bookings.On("CancelBooking", c.Request.Context(), "user-1", int64(3)).Return(cancelled, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Booking domain.Booking `json:"booking"`
		Refund  struct {
			Amount           int64  `json:"amount"`
			ProcessingWindow string `json:"processing_window"`
		} `json:"refund"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, domain.BookingStatusCancelled, response.Booking.Status)
	assert.Equal(t, int64(25000), response.Refund.Amount)
	assert.Equal(t, "5-7 business days", response.Refund.ProcessingWindow)
}

func TestBookingHandler_cancel_alreadyCancelled(t *testing.T) {
	bookings := &MockBookingUseCase{}
	handler := NewBookingHandler(bookings, &MockLoyaltyUseCase{})

	c, w := authedContext(t)
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Request = httptest.NewRequest("DELETE", "/api/bookings/3", nil)

	bookings.On("CancelBooking", c.Request.Context(), "user-1", int64(3)).Return(nil, domain.ErrAlreadyCancelled)

	handler.cancel(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ALREADY_CANCELLED", response["code"])
}

func TestBookingHandler_checkIn(t *testing.T) {
	loyaltySvc := &MockLoyaltyUseCase{}
	handler := NewBookingHandler(&MockBookingUseCase{}, loyaltySvc)

	c, w := authedContext(t)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Request = httptest.NewRequest("POST", "/api/bookings/5/checkin", nil)

	next := int64(500)
	result := &loyalty.CheckInResult{
		Booking: &domain.Booking{ID: 5, Status: domain.BookingStatusCheckedIn},
		Rewards: domain.RewardComputation{
			MilesEarned:         4500,
			PointsEarned:        45,
			FlightDistance:      3000,
			SeatClassMultiplier: 1.5,
			TierMultiplier:      1.0,
			TotalMiles:          4500,
			TotalPoints:         45,
		},
		TierUpgrade: domain.TierUpgrade{NextTierThreshold: &next},
		Account:     &domain.LoyaltyAccount{MembershipNumber: "FF00112233", Tier: domain.TierBlue},
	}
	loyaltySvc.On("CheckIn", c.Request.Context(), "user-1", int64(5)).Return(result, nil)

	handler.checkIn(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Rewards     domain.RewardComputation `json:"loyalty_rewards"`
		TierUpgrade domain.TierUpgrade       `json:"tier_upgrade"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(4500), response.Rewards.MilesEarned)
	assert.False(t, response.TierUpgrade.Upgraded)
}

func TestBookingHandler_checkIn_windowClosed(t *testing.T) {
	loyaltySvc := &MockLoyaltyUseCase{}
	handler := NewBookingHandler(&MockBookingUseCase{}, loyaltySvc)

	c, w := authedContext(t)
	c.Params = gin.Params{{Key: "id", Value: "5"}}
	c.Request = httptest.NewRequest("POST", "/api/bookings/5/checkin", nil)

	loyaltySvc.On("CheckIn", c.Request.Context(), "user-1", int64(5)).Return(nil, domain.ErrCheckInNotOpen)

	handler.checkIn(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CHECK_IN_NOT_OPEN", response["code"])
}

func TestBookingHandler_reschedule(t *testing.T) {
	bookings := &MockBookingUseCase{}
	handler := NewBookingHandler(bookings, &MockLoyaltyUseCase{})

	c, w := authedContext(t)
	c.Params = gin.Params{{Key: "id", Value: "3"}}

	input := booking.RescheduleInput{NewFlightID: 9}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/api/bookings/3/reschedule", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	result := &booking.RescheduleResult{
		OldBooking: &domain.Booking{ID: 3, Status: domain.BookingStatusCancelled},
		NewBooking: &domain.Booking{ID: 4, FlightID: 9, Status: domain.BookingStatusConfirmed},
	}
	bookings.On("RescheduleBooking", c.Request.Context(), "user-1", int64(3), input).Return(result, nil)

	handler.reschedule(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response booking.RescheduleResult
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, int64(9), response.NewBooking.FlightID)
	assert.Equal(t, domain.BookingStatusCancelled, response.OldBooking.Status)
}

func TestBookingHandler_get_notFound(t *testing.T) {
	bookings := &MockBookingUseCase{}
	handler := NewBookingHandler(bookings, &MockLoyaltyUseCase{})

	c, w := authedContext(t)
	c.Params = gin.Params{{Key: "id", Value: "99"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/99", nil)

	bookings.On("GetBooking", c.Request.Context(), "user-1", int64(99)).Return(nil, domain.ErrBookingNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_badID(t *testing.T) {
	handler := NewBookingHandler(&MockBookingUseCase{}, &MockLoyaltyUseCase{})

	c, w := authedContext(t)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}
	c.Request = httptest.NewRequest("GET", "/api/bookings/abc", nil)

	handler.get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response map[string]string
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "VALIDATION_ERROR", response["code"])
}
