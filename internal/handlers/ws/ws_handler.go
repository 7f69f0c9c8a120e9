// internal/handlers/ws/ws_handler.go
package ws

import (
	"net/http"

	"leadflow-service/internal/middleware"
	"leadflow-service/internal/pkg/response"
	hub "leadflow-service/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS middleware in front of this route.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub    *hub.Hub
	logger *zap.Logger
}

func NewWSHandler(h *hub.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: h, logger: logger}
}

// Connect upgrades the request and registers the client with the hub. Auth
// runs before this handler, so the agent identity is already in context.
func (h *WSHandler) Connect(c *gin.Context) {
	agentID := middleware.AgentID(c)
	if agentID == "" {
		response.Unauthorized(c, "authentication required")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	hub.NewClient(h.hub, conn, agentID).Register()
}
