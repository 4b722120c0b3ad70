package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/moodayhq/mooday-go/internal/application/services"
	"github.com/moodayhq/mooday-go/internal/infrastructure/messaging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/observability/logging"
	"github.com/moodayhq/mooday-go/internal/infrastructure/security"
	"github.com/moodayhq/mooday-go/pkg/config"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// RealtimeHandlers upgrades circle members onto the live update stream.
type RealtimeHandlers struct {
	broadcaster *messaging.CircleBroadcaster
	sessions    *services.SessionService
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

func NewRealtimeHandlers(broadcaster *messaging.CircleBroadcaster, sessions *services.SessionService, logger *logging.ChanneledLogger) *RealtimeHandlers {
	return &RealtimeHandlers{
		broadcaster: broadcaster,
		sessions:    sessions,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// GetCircleStream handles GET /api/v1/circle/stream?token= - websocket
// upgrade for live reaction and post updates. The token travels as a
// query parameter because browser websocket clients cannot set headers.
func (h *RealtimeHandlers) GetCircleStream(c *gin.Context) {
	claims, err := security.ValidateJWT(c.Query("token"), config.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	identity, _ := security.IdentityFromClaims(claims)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	userName := identity.Email
	if state := h.sessions.State(); state.Identity != nil && state.Identity.Username != "" {
		userName = state.Identity.Username
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Realtime().Error("Websocket upgrade failed", "error", err.Error())
		return
	}

	client := &messaging.CircleClient{
		Conn:     conn,
		UserName: userName,
		Send:     make(chan []byte, 16),
	}
	h.broadcaster.Register(client)

	go h.writePump(client)
	go h.readPump(client)
}

// writePump drains the client's send queue onto the wire and keeps the
// connection alive with pings.
func (h *RealtimeHandlers) writePump(client *messaging.CircleClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the stream is one-way. It exists to
// notice disconnects and unregister the client.
func (h *RealtimeHandlers) readPump(client *messaging.CircleClient) {
	defer func() {
		h.broadcaster.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(512)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
