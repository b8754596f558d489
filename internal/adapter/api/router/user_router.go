package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupUserRouter(v1 *echo.Group, userHandler *handler.UserHandler, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	users := v1.Group("/users", authMiddleware.Authenticate)
	users.GET("/me", userHandler.GetCurrentUser)
	users.PUT("/me", userHandler.UpdateProfile)
	users.PUT("/me/push-token", userHandler.RegisterPushToken)
	users.PUT("/me/keywords", userHandler.SetKeywords)

	public := v1.Group("/users", authMiddleware.OptionalAuth)
	public.GET("/:id", userHandler.GetUserByID)
	public.GET("/:id/listings", listingHandler.ListBySeller)
}
