package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/search/:departure/:arrival", h.search)
	router.GET("/:id", h.get)
}

func (h *FlightHandler) search(c *gin.Context) {
	departure := c.Param("departure")
	arrival := c.Param("arrival")

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := domain.ParseTimestamp(raw)
		if err != nil {
			respondError(c, domain.NewValidationError("date", "must be an ISO-8601 date"))
			return
		}
		date = &parsed
	}

	result, err := h.service.Search(c.Request.Context(), departure, arrival, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, domain.NewValidationError("id", "must be an integer"))
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}
