package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupFileRouter(v1 *echo.Group, fileHandler *handler.FileHandler, conversationHandler *handler.ConversationHandler, authMiddleware *middleware.AuthMiddleware) {
	uploads := v1.Group("/uploads", authMiddleware.Authenticate)

	// Chat images are checked against conversation membership
	uploads.POST("/chat/:id", conversationHandler.UploadImage)

	uploads.POST("/listing", fileHandler.UploadListingPhoto)
	uploads.POST("/listing/signed-url", fileHandler.GetSignedUploadURL)
}
