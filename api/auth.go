package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hznasser/falconair/internal/domain"
	"github.com/hznasser/falconair/internal/service/auth"
)

type AuthHandler struct {
	service auth.AuthUseCase
}

func NewAuthHandler(service auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(router *gin.RouterGroup) {
	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/logout", BearerAuth(h.service), h.logout)
	router.GET("/profile", BearerAuth(h.service), h.profile)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("body", err.Error()))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req auth.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, domain.NewValidationError("body", err.Error()))
		return
	}

	token, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *AuthHandler) logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString(ctxToken)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) profile(c *gin.Context) {
	user, err := h.service.Profile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
