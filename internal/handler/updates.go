package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/islaguezul/portfolio-backend/internal/infrastructure/redis"
	"github.com/islaguezul/portfolio-backend/internal/notify"
	"github.com/islaguezul/portfolio-backend/internal/observability/metrics"
)

// UpdatesHandler streams content-update events to admin clients over
// a WebSocket at /ws/updates. Events arrive via the Redis channel the
// copy service publishes on.
type UpdatesHandler struct {
	redisClient    *redis.Client
	logger         *slog.Logger
	allowedOrigins []string
}

func NewUpdatesHandler(redisClient *redis.Client, logger *slog.Logger, allowedOrigins []string) *UpdatesHandler {
	return &UpdatesHandler{
		redisClient:    redisClient,
		logger:         logger,
		allowedOrigins: allowedOrigins,
	}
}

// upgrader is initialized per-request to use instance's allowed origins
func (h *UpdatesHandler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Allow requests with no origin (e.g., non-browser clients)
				return true
			}
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			h.logger.Warn("websocket origin rejected", slog.String("origin", origin))
			return false
		},
	}
}

func (h *UpdatesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer ws.Close()

	metrics.IncrementSubscribers()
	defer metrics.DecrementSubscribers()

	ctx := r.Context()
	pubsub := h.redisClient.Subscribe(ctx, notify.Channel)
	defer pubsub.Close()

	// Read pump: discard client messages, but notice the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	events := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case <-ticker.C:
			_ = ws.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second))
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Debug("updates websocket closed")
				}
				return
			}
		}
	}
}
