package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/internal/service/loyalty"
)

type LoyaltyHandler struct {
	service loyalty.LoyaltyUseCase
}

func NewLoyaltyHandler(service loyalty.LoyaltyUseCase) *LoyaltyHandler {
	return &LoyaltyHandler{service: service}
}

func (h *LoyaltyHandler) Register(router *gin.RouterGroup) {
	router.GET("/status", h.status)
}

func (h *LoyaltyHandler) status(c *gin.Context) {
	account, err := h.service.Status(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}
