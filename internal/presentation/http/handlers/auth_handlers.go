// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodayhq/mooday-go/internal/application/services"
	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/security"
	"github.com/moodayhq/mooday-go/pkg/config"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	sessions *services.SessionService
	logger   *logging.ChanneledLogger
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(sessions *services.SessionService, logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{sessions: sessions, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"displayName" binding:"required"`
}

// PostSignIn handles POST /api/v1/auth/signin
func (h *AuthHandlers) PostSignIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	if err := h.sessions.SignInWithCredentials(c.Request.Context(), req.Email, req.Password); err != nil {
		h.respondAuthError(c, err)
		return
	}

	h.logger.Auth().Info("Sign-in completed", "duration", time.Since(start))
	h.respondSession(c)
}

// PostSignUp handles POST /api/v1/auth/signup
func (h *AuthHandlers) PostSignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.SignUpWithCredentials(c.Request.Context(), req.Email, req.Password, req.DisplayName); err != nil {
		h.respondAuthError(c, err)
		return
	}
	h.respondSession(c)
}

// PostOAuth handles POST /api/v1/auth/oauth - completes a browser OAuth
// round trip with the provider access token.
func (h *AuthHandlers) PostOAuth(c *gin.Context) {
	var req struct {
		AccessToken string `json:"accessToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.SignInWithOAuth(c.Request.Context(), req.AccessToken); err != nil {
		h.respondAuthError(c, err)
		return
	}
	h.respondSession(c)
}

// PostSignOut handles POST /api/v1/auth/signout
func (h *AuthHandlers) PostSignOut(c *gin.Context) {
	if err := h.sessions.SignOut(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"signedOut": true})
}

// PostResetPassword handles POST /api/v1/auth/reset-password
func (h *AuthHandlers) PostResetPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.sessions.ResetPassword(c.Request.Context(), req.Email); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// GetSession handles GET /api/v1/auth/session - the state the route
// guard consumes.
func (h *AuthHandlers) GetSession(c *gin.Context) {
	state := h.sessions.State()
	c.JSON(http.StatusOK, gin.H{
		"isAuthenticated": state.IsAuthenticated,
		"isLoading":       state.IsLoading,
		"hasHydrated":     state.HasHydrated,
		"identity":        state.Identity,
		"error":           state.Error,
	})
}

// respondSession returns the authenticated state plus a signed JWT for
// subsequent requests.
func (h *AuthHandlers) respondSession(c *gin.Context) {
	state := h.sessions.State()
	if !state.IsAuthenticated || state.Identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": state.Error})
		return
	}

	identity := &user.Identity{
		ID:         state.Identity.ID,
		Email:      state.Identity.Email,
		AuthMethod: state.Identity.AuthMethod,
	}
	token, err := security.GenerateIdentityToken(identity, h.sessions.Token(), config.JWTSecret, config.SessionTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"identity": state.Identity,
		"token":    token,
	})
}

func (h *AuthHandlers) respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, user.ErrDuplicateIdentity):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, user.ErrProfileNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
