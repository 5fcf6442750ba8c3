package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cacheport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/cache/port"
	qport "github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/queue/port"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/infrastructure/realtime"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/application/task"
	"github.com/evince-dev-254/leli-rentals-sub000/internal/pkg/messaging/presentation/controller"
)

// RegisterRoutes registers messaging HTTP endpoints under the given router
// group. It constructs per-endpoint controllers and binds them directly to
// routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, cache cacheport.Cache, queue qport.Client, hub *realtime.Hub, log *slog.Logger) {
	notifications := task.NewEnqueuer(queue)

	resolveCtl := controller.NewResolveConversationController(pool, log)
	listConvsCtl := controller.NewListConversationsController(pool, cache, log)
	sendCtl := controller.NewSendMessageController(pool, cache, hub, notifications, log)
	listMsgsCtl := controller.NewListMessagesController(pool)
	markReadCtl := controller.NewMarkReadController(pool, cache, hub, log)
	unreadCtl := controller.NewUnreadCountController(pool, cache, log)
	socketCtl := controller.NewMessagingSocketController(hub, log)

	// POST /api/v1/conversations -> resolve or create the canonical conversation
	g.POST("/conversations", resolveCtl.Handle())

	// GET /api/v1/conversations -> caller's conversation index with unread counts
	g.GET("/conversations", listConvsCtl.Handle())

	// POST /api/v1/conversations/:conversationId/messages -> append a message
	g.POST("/conversations/:conversationId/messages", sendCtl.Handle())

	// GET /api/v1/conversations/:conversationId/messages -> ordered page by cursor
	g.GET("/conversations/:conversationId/messages", listMsgsCtl.Handle())

	// POST /api/v1/conversations/:conversationId/read -> mark caller's messages read
	g.POST("/conversations/:conversationId/read", markReadCtl.Handle())

	// GET /api/v1/conversations/:conversationId/unread -> caller's unread count
	g.GET("/conversations/:conversationId/unread", unreadCtl.Handle())

	// GET /api/v1/messages/ws -> realtime change event socket
	g.GET("/messages/ws", socketCtl.Handle())
}
