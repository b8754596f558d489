package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupConversationRouter(v1 *echo.Group, conversationHandler *handler.ConversationHandler, authMiddleware *middleware.AuthMiddleware) {
	conversations := v1.Group("/conversations", authMiddleware.Authenticate)
	conversations.POST("", conversationHandler.StartConversation)
	conversations.GET("", conversationHandler.ListConversations)
	conversations.GET("/:id", conversationHandler.GetConversation)
	conversations.PUT("/:id/read", conversationHandler.MarkAsRead)
	conversations.GET("/:id/messages", conversationHandler.ListMessages)
	conversations.POST("/:id/messages", conversationHandler.SendMessage)
	conversations.POST("/:id/messages/:messageId/translate", conversationHandler.TranslateMessage)
}
