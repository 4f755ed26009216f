package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/inventory_api/internal/middleware"
	"github.com/GTDGit/inventory_api/internal/service"
	"github.com/GTDGit/inventory_api/internal/utils"
)

// Authenticator logs admin users in.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
}

type AuthHandler struct {
	authService Authenticator
	limiter     *middleware.InvalidAuthRateLimiter
}

func NewAuthHandler(authService Authenticator, limiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if h.limiter.Blocked(ip) {
		log.Warn().Str("ip", ip).Msg("Login rate limited")
		utils.Fail(c, utils.ErrTooManyAttempts)
		return
	}

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) || errors.Is(err, utils.ErrAccountInactive) {
			h.limiter.Fail(ip)
		}
		utils.Fail(c, err)
		return
	}

	h.limiter.Reset(ip)
	utils.JSON(c, http.StatusOK, result)
}
