package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hznasser/falconair/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestLoyaltyHandler_status(t *testing.T) {
	service := &MockLoyaltyUseCase{}
	handler := NewLoyaltyHandler(service)

	c, w := authedContext(t)
	c.Request = httptest.NewRequest("GET", "/api/loyalty/status", nil)

	account := &domain.LoyaltyAccount{
		MembershipNumber: "FF00112233",
		FirstName:        "Huda",
		LastName:         "Nasser",
		Miles:            4500,
		Points:           45,
		Tier:             domain.TierBlue,
	}
	service.On("Status", c.Request.Context(), "user-1").Return(account, nil)

	handler.status(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "FF00112233", response["membership_number"])
	assert.Equal(t, "Huda", response["first_name"])
	assert.Equal(t, float64(4500), response["loyalty_miles"])
	assert.Equal(t, float64(45), response["loyalty_points"])
	assert.Equal(t, "BLUE", response["loyalty_tier"])
}
