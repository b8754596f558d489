package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
	"marketly/internal/infrastructure/ratelimit"
)

type Handlers struct {
	Health       *handler.HealthHandler
	Listing      *handler.ListingHandler
	Search       *handler.SearchHandler
	Wishlist     *handler.WishlistHandler
	Conversation *handler.ConversationHandler
	File         *handler.FileHandler
	User         *handler.UserHandler
	Review       *handler.ReviewHandler
	Notification *handler.NotificationHandler
	AI           *handler.AIHandler
	Places       *handler.PlacesHandler
	WebSocket    *handler.WebSocketHandler
}

func Setup(e *echo.Echo, h *Handlers, authMiddleware *middleware.AuthMiddleware, limiter middleware.Limiter) {
	v1 := e.Group("/v1", middleware.RateLimit(limiter, ratelimit.ActionHTTP))

	SetupHealthRouter(e, h.Health)
	SetupListingRouter(v1, h.Listing, h.Search, authMiddleware)
	SetupWishlistRouter(v1, h.Wishlist, authMiddleware)
	SetupConversationRouter(v1, h.Conversation, authMiddleware)
	SetupFileRouter(v1, h.File, h.Conversation, authMiddleware)
	SetupUserRouter(v1, h.User, h.Listing, authMiddleware)
	SetupReviewRouter(v1, h.Review, authMiddleware)
	SetupNotificationRouter(v1, h.Notification, authMiddleware)
	SetupAIRouter(v1, h.AI, authMiddleware)
	SetupPlacesRouter(v1, h.Places, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
}
