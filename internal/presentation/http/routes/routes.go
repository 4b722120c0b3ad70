// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/moodayhq/mooday-go/internal/application/container"
	"github.com/moodayhq/mooday-go/internal/presentation/http/handlers"
	"github.com/moodayhq/mooday-go/internal/presentation/http/middleware"
	"github.com/moodayhq/mooday-go/pkg/config"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Serve processed avatars and other media straight from disk.
	r.Static("/media", config.MediaDir)

	authHandlers := handlers.NewAuthHandlers(container.SessionService, container.Logger)
	profileHandlers := handlers.NewProfileHandlers(container.SessionService, container.OnboardingService, container.AvatarProcessor, container.Logger)
	feedHandlers := handlers.NewFeedHandlers(container.FeedService, container.ReactionService, container.SessionService, container.TranscriptionService, container.Logger)
	milestoneHandlers := handlers.NewMilestoneHandlers(container.MilestoneService, container.Logger)
	realtimeHandlers := handlers.NewRealtimeHandlers(container.Broadcaster, container.SessionService, container.Logger)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signin", authHandlers.PostSignIn)
			auth.POST("/signup", authHandlers.PostSignUp)
			auth.POST("/oauth", authHandlers.PostOAuth)
			auth.POST("/signout", authHandlers.PostSignOut)
			auth.POST("/reset-password", authHandlers.PostResetPassword)
			auth.GET("/session", authHandlers.GetSession)
		}

		api.GET("/circle/stream", realtimeHandlers.GetCircleStream)

		protected := api.Group("")
		protected.Use(middleware.RequireSession())
		{
			protected.PUT("/profile", profileHandlers.PutProfile)

			protected.GET("/onboarding", profileHandlers.GetOnboarding)
			protected.PUT("/onboarding", profileHandlers.PutOnboarding)
			protected.DELETE("/onboarding", profileHandlers.DeleteOnboarding)

			protected.GET("/feed", feedHandlers.GetFeed)
			protected.POST("/feed", feedHandlers.PostPost)
			protected.POST("/feed/transcribe", feedHandlers.PostTranscribe)
			protected.GET("/feed/:id/reactions", feedHandlers.GetReactions)
			protected.POST("/feed/:id/reactions", feedHandlers.PostReactionSelect)
			protected.POST("/feed/:id/reactions/toggle", feedHandlers.PostReactionToggle)

			protected.GET("/milestones", milestoneHandlers.GetMilestones)
			protected.POST("/milestones", milestoneHandlers.PostMilestone)
			protected.DELETE("/milestones/:id", milestoneHandlers.DeleteMilestone)
		}
	}

	return r
}
