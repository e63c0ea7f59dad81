package handlers

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/services"
)

type WebSocketHandler struct {
	hub      *services.WebSocketHub
	upgrader websocket.Upgrader
	logger   *logrus.Logger
}

func NewWebSocketHandler(hub *services.WebSocketHub, allowedOrigins []string, logger *logrus.Logger) *WebSocketHandler {
	allowAll := slices.Contains(allowedOrigins, "*")
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowAll || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger,
	}
}

// HandleWebSocket upgrades the connection; anonymous viewers may subscribe too
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := "anonymous"
	if user, ok := middleware.CurrentUser(c); ok {
		userID = user.ID.String()
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to upgrade connection")
		return
	}

	welcome := map[string]interface{}{
		"type": "welcome",
		"data": map[string]interface{}{
			"message":   "Connected to the league feed",
			"user_id":   userID,
			"topics":    []string{services.TopicLeaderboard, services.TopicTournaments},
			"timestamp": time.Now().UTC(),
		},
	}
	if err := conn.WriteJSON(welcome); err != nil {
		h.logger.WithError(err).Warn("Failed to send welcome message")
		conn.Close()
		return
	}

	client := services.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
