package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/satheesh067/Flight-Price-Prediction/apierr"
	"github.com/satheesh067/Flight-Price-Prediction/models"
	"github.com/satheesh067/Flight-Price-Prediction/services"
	"github.com/satheesh067/Flight-Price-Prediction/store"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, req.ConfirmPassword)
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		respondError(c, apierr.New(http.StatusConflict, apierr.CodeValidation, err))
		return
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrPasswordTooShort),
		errors.Is(err, services.ErrPasswordMismatch):
		badRequest(c, err)
		return
	case err != nil:
		respondError(c, apierr.Persistence(err))
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: *user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(c, apierr.New(http.StatusUnauthorized, apierr.CodeUnauthorized, err))
		return
	}
	if err != nil {
		respondError(c, apierr.Persistence(err))
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: *user})
}

// Logout is stateless: tokens expire on their own and the client discards it.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
