package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moodayhq/mooday-go/internal/application/services"
	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/presentation/http/middleware"
)

// FeedHandlers covers the circle feed, reactions and voice journal
// transcription.
type FeedHandlers struct {
	feeds         *services.FeedService
	reactions     *services.ReactionService
	sessions      *services.SessionService
	transcription *services.TranscriptionService
	logger        *logging.ChanneledLogger
}

func NewFeedHandlers(
	feeds *services.FeedService,
	reactions *services.ReactionService,
	sessions *services.SessionService,
	transcription *services.TranscriptionService,
	logger *logging.ChanneledLogger,
) *FeedHandlers {
	return &FeedHandlers{
		feeds:         feeds,
		reactions:     reactions,
		sessions:      sessions,
		transcription: transcription,
		logger:        logger,
	}
}

// GetFeed handles GET /api/v1/feed?search=&order=&limit=
func (h *FeedHandlers) GetFeed(c *gin.Context) {
	query := services.FeedQuery{
		Search: c.Query("search"),
		Order:  services.SortOrder(c.DefaultQuery("order", string(services.SortAscending))),
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			query.Limit = limit
		}
	}

	posts, err := h.feeds.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

type createPostRequest struct {
	MoodEmoji      string `json:"moodEmoji" binding:"required"`
	JournalSnippet string `json:"journalSnippet"`
}

// PostPost handles POST /api/v1/feed - publishes a mood post for the
// signed-in user.
func (h *FeedHandlers) PostPost(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state := h.sessions.State()
	authorName := identity.Email
	if state.Identity != nil && state.Identity.Username != "" {
		authorName = state.Identity.Username
	}
	author := feed.Author{Name: authorName, Initials: initials(authorName)}

	post, err := h.feeds.Create(c.Request.Context(), identity.ID, author, req.MoodEmoji, req.JournalSnippet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// PostReactionToggle handles POST /api/v1/feed/:id/reactions/toggle -
// the quick-tap gesture.
func (h *FeedHandlers) PostReactionToggle(c *gin.Context) {
	viewer, ok := h.viewerName(c)
	if !ok {
		return
	}

	breakdown, err := h.reactions.Toggle(c.Request.Context(), c.Param("id"), viewer)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": breakdown})
}

type selectReactionRequest struct {
	Kind string `json:"kind" binding:"required"`
}

// PostReactionSelect handles POST /api/v1/feed/:id/reactions - the
// long-press picker choice.
func (h *FeedHandlers) PostReactionSelect(c *gin.Context) {
	viewer, ok := h.viewerName(c)
	if !ok {
		return
	}

	var req selectReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	kind := feed.ReactionKind(req.Kind)
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown reaction kind"})
		return
	}

	breakdown, err := h.reactions.Select(c.Request.Context(), c.Param("id"), viewer, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": breakdown})
}

// GetReactions handles GET /api/v1/feed/:id/reactions
func (h *FeedHandlers) GetReactions(c *gin.Context) {
	breakdown, err := h.reactions.Breakdown(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reactions": breakdown})
}

// PostTranscribe handles POST /api/v1/feed/transcribe - turns an
// uploaded voice recording into journal text.
func (h *FeedHandlers) PostTranscribe(c *gin.Context) {
	if h.transcription == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "transcription not configured"})
		return
	}

	file, _, err := c.Request.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file required"})
		return
	}
	defer file.Close()

	text, err := h.transcription.TranscribeRecording(c.Request.Context(), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// viewerName resolves the display name the reaction engine keys on.
func (h *FeedHandlers) viewerName(c *gin.Context) (string, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return "", false
	}

	state := h.sessions.State()
	if state.Identity != nil && state.Identity.Username != "" {
		return state.Identity.Username, true
	}
	return identity.Email, true
}

// initials derives up to two display initials from a name.
func initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		out = append(out, []rune(word)[0])
		if len(out) >= 2 {
			break
		}
	}
	return strings.ToUpper(string(out))
}
