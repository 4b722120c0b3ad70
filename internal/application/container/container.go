// Package container provides dependency injection for all singleton services
package container

import (
	"fmt"

	"github.com/moodayhq/mooday-go/internal/application/services"
	"github.com/moodayhq/mooday-go/internal/infrastructure/email"
	"github.com/moodayhq/mooday-go/internal/infrastructure/kv"
	"github.com/moodayhq/mooday-go/internal/infrastructure/media"
	"github.com/moodayhq/mooday-go/internal/infrastructure/messaging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/oauth"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/persistence/database"
	persistencefeed "github.com/moodayhq/mooday-go/internal/infrastructure/persistence/feed"
	persistenceuser "github.com/moodayhq/mooday-go/internal/infrastructure/persistence/user"
	"github.com/moodayhq/mooday-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	SessionService       *services.SessionService
	OnboardingService    *services.OnboardingService
	ReactionService      *services.ReactionService
	FeedService          *services.FeedService
	MilestoneService     *services.MilestoneService
	TranscriptionService *services.TranscriptionService

	// Infrastructure
	Logger          *logging.ChanneledLogger
	DB              *database.DB
	Store           *kv.Store
	Broadcaster     *messaging.CircleBroadcaster
	AvatarProcessor *media.AvatarProcessor
	Mailer          email.Service
}

// NewContainer creates and wires all singleton services. config.Initialize
// must have run first.
func NewContainer(logger *logging.ChanneledLogger, db *database.DB) (*Container, error) {
	store, err := kv.NewStore(config.StateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	mailer, err := email.NewService()
	if err != nil {
		logger.Email().Warn("Email provider not configured, reset emails disabled", "error", err.Error())
		mailer = email.NoopService{}
	}

	identities := persistenceuser.NewSQLIdentityService(db, logger, mailer, config.SessionTokenTTL)
	profiles := persistenceuser.NewSQLProfileRepository(db, logger)
	posts := persistencefeed.NewSQLPostRepository(db, logger)
	reactions := persistencefeed.NewSQLReactionRepository(db, logger)
	milestones := persistencefeed.NewSQLMilestoneRepository(db, logger)

	exchanger := oauth.NewGoogleExchanger(config.GoogleUserinfoURL, logger)
	broadcaster := messaging.NewCircleBroadcaster(logger)

	return &Container{
		SessionService:       services.NewSessionService(identities, profiles, exchanger, store, logger),
		OnboardingService:    services.NewOnboardingService(store, logger),
		ReactionService:      services.NewReactionService(reactions, broadcaster, logger),
		FeedService:          services.NewFeedService(posts, profiles, broadcaster, logger, config.FeedPageSize),
		MilestoneService:     services.NewMilestoneService(milestones, logger),
		TranscriptionService: services.NewTranscriptionService(config.AAIAPIKey, logger),

		Logger:          logger,
		DB:              db,
		Store:           store,
		Broadcaster:     broadcaster,
		AvatarProcessor: media.NewAvatarProcessor(config.MediaDir, config.AvatarMaxPixels, config.AvatarQuality),
		Mailer:          mailer,
	}, nil
}
