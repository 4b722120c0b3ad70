package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodayhq/mooday-go/internal/application/services"
	"github.com/moodayhq/mooday-go/internal/domain/user"
	"github.com/moodayhq/mooday-go/internal/infrastructure/media"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/presentation/http/middleware"
)

// ProfileHandlers covers profile edits and the onboarding flow.
type ProfileHandlers struct {
	sessions   *services.SessionService
	onboarding *services.OnboardingService
	avatars    *media.AvatarProcessor
	logger     *logging.ChanneledLogger
}

func NewProfileHandlers(
	sessions *services.SessionService,
	onboarding *services.OnboardingService,
	avatars *media.AvatarProcessor,
	logger *logging.ChanneledLogger,
) *ProfileHandlers {
	return &ProfileHandlers{
		sessions:   sessions,
		onboarding: onboarding,
		avatars:    avatars,
		logger:     logger,
	}
}

type profileUpdateRequest struct {
	DisplayName  *string `json:"displayName"`
	Email        *string `json:"email"`
	AvatarBase64 *string `json:"avatarBase64"`
}

// PutProfile handles PUT /api/v1/profile - partial profile update with
// display-name uniqueness enforcement.
func (h *ProfileHandlers) PutProfile(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := user.ProfilePatch{
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}

	if req.AvatarBase64 != nil {
		path, err := h.avatars.ProcessBase64Avatar(*req.AvatarBase64, identity.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		patch.AvatarPath = &path
	}

	if err := h.sessions.UpdateProfile(c.Request.Context(), patch); err != nil {
		if errors.Is(err, user.ErrDuplicateIdentity) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	state := h.sessions.State()
	c.JSON(http.StatusOK, gin.H{"identity": state.Identity})
}

// GetOnboarding handles GET /api/v1/onboarding
func (h *ProfileHandlers) GetOnboarding(c *gin.Context) {
	c.JSON(http.StatusOK, h.onboarding.Profile())
}

type onboardingUpdateRequest struct {
	DisplayName *string `json:"displayName"`
	UserStatus  *string `json:"userStatus"`
	Complete    bool    `json:"complete"`
}

// PutOnboarding handles PUT /api/v1/onboarding - advances the flow.
func (h *ProfileHandlers) PutOnboarding(c *gin.Context) {
	var req onboardingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.DisplayName != nil {
		if err := h.onboarding.SetDisplayName(*req.DisplayName); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.UserStatus != nil {
		if err := h.onboarding.SetUserStatus(*req.UserStatus); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	if req.Complete {
		if err := h.onboarding.Complete(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, h.onboarding.Profile())
}

// DeleteOnboarding handles DELETE /api/v1/onboarding - explicit reset
// for re-onboarding.
func (h *ProfileHandlers) DeleteOnboarding(c *gin.Context) {
	if err := h.onboarding.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.onboarding.Profile())
}
