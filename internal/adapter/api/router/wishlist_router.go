package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupWishlistRouter(v1 *echo.Group, wishlistHandler *handler.WishlistHandler, authMiddleware *middleware.AuthMiddleware) {
	wishlistGroup := v1.Group("/wishlist", authMiddleware.Authenticate)
	wishlistGroup.GET("", wishlistHandler.GetUserWishlist)
}
