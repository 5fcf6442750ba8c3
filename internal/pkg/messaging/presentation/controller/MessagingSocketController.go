package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/realtime"
	messaging "github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/domain"
)

// MessagingSocketController serves the realtime subscription socket. A
// connected client receives every change event addressed to its user; after
// a disconnect it is expected to catch up with explicit list/unread reads,
// so missed events are not replayed.
type MessagingSocketController struct {
	hub *realtime.Hub
	log *slog.Logger
}

func NewMessagingSocketController(hub *realtime.Hub, log *slog.Logger) *MessagingSocketController {
	return &MessagingSocketController{hub: hub, log: log}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Identity is asserted upstream; origin enforcement belongs there too.
		return true
	},
}

const socketReadTimeout = 60 * time.Second

func (ctl *MessagingSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; nothing more to do.
			return
		}

		conn := realtime.NewConnection(userID, ws)
		conn.Start()

		sub := ctl.hub.Subscribe(userID, func(ev messaging.ChangeEvent) {
			payload, err := json.Marshal(ev)
			if err != nil {
				ctl.log.Error("change event encode failed", "entity", ev.Entity, "error", err)
				return
			}
			if err := conn.Send(payload); err != nil {
				ctl.log.Warn("change event not delivered", "user_id", userID, "error", err)
			}
		})
		defer func() {
			ctl.hub.Unsubscribe(sub)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 16)
		_ = ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(socketReadTimeout))
		})

		if payload, err := json.Marshal(gin.H{"type": "connected", "subscription_id": sub.ID}); err == nil {
			_ = conn.Send(payload)
		}

		// The socket is outbound-only: the read loop exists to notice pongs
		// and the client going away. Inbound frames are discarded.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}
}
