package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/service/booking"
	"github.com/hznasser/falconair/internal/service/loyalty"
)

type BookingHandler struct {
	bookings booking.BookingUseCase
	loyalty  loyalty.LoyaltyUseCase
}

func NewBookingHandler(bookings booking.BookingUseCase, loyaltySvc loyalty.LoyaltyUseCase) *BookingHandler {
	return &BookingHandler{bookings: bookings, loyalty: loyaltySvc}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
	router.DELETE("/:id", h.cancel)
	router.POST("/:id/checkin", h.checkIn)
	router.POST("/:id/reschedule", h.reschedule)
}

func bookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, domain.NewValidationError("id", "must be an integer"))
		return 0, false
	}
	return id, true
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("body", err.Error()))
		return
	}

	created, err := h.bookings.CreateBooking(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) list(c *gin.Context) {
	result, err := h.bookings.ListBookings(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	b, err := h.bookings.GetBooking(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	cancelled, err := h.bookings.CancelBooking(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"booking": cancelled,
		"refund": gin.H{
			"amount":            cancelled.TotalPrice,
			"processing_window": "5-7 business days",
		},
	})
}

func (h *BookingHandler) checkIn(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	result, err := h.loyalty.CheckIn(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) reschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	var req booking.RescheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("body", err.Error()))
		return
	}

	result, err := h.bookings.RescheduleBooking(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
