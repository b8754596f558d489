package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupAIRouter(v1 *echo.Group, aiHandler *handler.AIHandler, authMiddleware *middleware.AuthMiddleware) {
	ai := v1.Group("/ai", authMiddleware.Authenticate)
	ai.POST("/analyze", aiHandler.AnalyzePhotos)
}
