package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupNotificationRouter(v1 *echo.Group, notificationHandler *handler.NotificationHandler, authMiddleware *middleware.AuthMiddleware) {
	notifications := v1.Group("/notifications", authMiddleware.Authenticate)
	notifications.GET("", notificationHandler.ListNotifications)
	notifications.PUT("/read-all", notificationHandler.MarkAllRead)
	notifications.PUT("/:id/read", notificationHandler.MarkRead)
}
