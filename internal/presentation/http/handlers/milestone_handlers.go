package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/moodayhq/mooday-go/internal/application/services"
	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/presentation/http/middleware"
)

// MilestoneHandlers covers the milestones tab.
type MilestoneHandlers struct {
	milestones *services.MilestoneService
	logger     *logging.ChanneledLogger
}

func NewMilestoneHandlers(milestones *services.MilestoneService, logger *logging.ChanneledLogger) *MilestoneHandlers {
	return &MilestoneHandlers{milestones: milestones, logger: logger}
}

// GetMilestones handles GET /api/v1/milestones
func (h *MilestoneHandlers) GetMilestones(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	views, err := h.milestones.List(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"milestones": views})
}

type createMilestoneRequest struct {
	Title string `json:"title" binding:"required"`
	Type  string `json:"type" binding:"required"`
	Date  string `json:"date" binding:"required"`
}

// PostMilestone handles POST /api/v1/milestones
func (h *MilestoneHandlers) PostMilestone(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req createMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	kind := feed.MilestoneType(req.Type)
	switch kind {
	case feed.MilestoneBirthday, feed.MilestoneAnniversary, feed.MilestoneCustom:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown milestone type"})
		return
	}

	milestone, err := h.milestones.Create(c.Request.Context(), identity.ID, req.Title, kind, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"milestone": milestone})
}

// DeleteMilestone handles DELETE /api/v1/milestones/:id
func (h *MilestoneHandlers) DeleteMilestone(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	if err := h.milestones.Delete(c.Request.Context(), identity.ID, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
