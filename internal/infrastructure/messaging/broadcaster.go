// Package messaging pushes live feed updates to connected circle members.
package messaging

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/moodayhq/mooday-go/internal/domain/feed"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
)

// CircleClient represents a single connected circle member.
type CircleClient struct {
	Conn     *websocket.Conn
	UserName string
	Send     chan []byte
}

// ReactionUpdate is the payload broadcast when a post's reactions change.
type ReactionUpdate struct {
	Event     string         `json:"event"`
	PostID    string         `json:"postId"`
	Actor     string         `json:"actor"`
	Breakdown feed.Breakdown `json:"breakdown"`
}

// PostUpdate is the payload broadcast when a new mood post lands.
type PostUpdate struct {
	Event string     `json:"event"`
	Post  *feed.Post `json:"post"`
}

// CircleBroadcaster manages connected clients and fans updates out to
// every member except, optionally, the actor who caused them.
type CircleBroadcaster struct {
	clients    map[*CircleClient]bool
	register   chan *CircleClient
	unregister chan *CircleClient
	logger     *logging.ChanneledLogger
	mu         sync.RWMutex
}

// NewCircleBroadcaster creates a new broadcaster instance.
func NewCircleBroadcaster(logger *logging.ChanneledLogger) *CircleBroadcaster {
	return &CircleBroadcaster{
		clients:    make(map[*CircleClient]bool),
		register:   make(chan *CircleClient),
		unregister: make(chan *CircleClient),
		logger:     logger,
	}
}

// Run starts the broadcaster's main loop. This should be run as a goroutine.
func (b *CircleBroadcaster) Run() {
	for {
		select {
		case client := <-b.register:
			b.mu.Lock()
			b.clients[client] = true
			b.mu.Unlock()
			b.logger.Realtime().Debug("Circle client registered", "user", client.UserName)

		case client := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[client]; ok {
				delete(b.clients, client)
				close(client.Send)
			}
			b.mu.Unlock()
			b.logger.Realtime().Debug("Circle client unregistered", "user", client.UserName)
		}
	}
}

// Register queues a client for registration.
func (b *CircleBroadcaster) Register(client *CircleClient) {
	b.register <- client
}

// Unregister queues a client for unregistration.
func (b *CircleBroadcaster) Unregister(client *CircleClient) {
	b.unregister <- client
}

// BroadcastReaction fans a reaction change out to every connected member
// except the actor, who already applied it locally.
func (b *CircleBroadcaster) BroadcastReaction(postID, actor string, breakdown feed.Breakdown) {
	payload, err := json.Marshal(ReactionUpdate{
		Event:     "reaction",
		PostID:    postID,
		Actor:     actor,
		Breakdown: breakdown,
	})
	if err != nil {
		b.logger.Realtime().Error("Failed to encode reaction update", "error", err.Error())
		return
	}
	b.send(payload, actor)
}

// BroadcastPost fans a new post out to every connected member.
func (b *CircleBroadcaster) BroadcastPost(post *feed.Post) {
	payload, err := json.Marshal(PostUpdate{Event: "post", Post: post})
	if err != nil {
		b.logger.Realtime().Error("Failed to encode post update", "error", err.Error())
		return
	}
	b.send(payload, "")
}

func (b *CircleBroadcaster) send(payload []byte, skipUser string) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for client := range b.clients {
		if skipUser != "" && client.UserName == skipUser {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			// Slow consumer; drop the update rather than block the feed.
			b.logger.Realtime().Warn("Dropping update for slow client", "user", client.UserName)
		}
	}
}
