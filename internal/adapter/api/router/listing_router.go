package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupListingRouter(v1 *echo.Group, listingHandler *handler.ListingHandler, searchHandler *handler.SearchHandler, authMiddleware *middleware.AuthMiddleware) {
	// Browsing works for guests
	public := v1.Group("/listings", authMiddleware.OptionalAuth)
	public.GET("", listingHandler.ListRecent)
	public.GET("/search", searchHandler.Search)
	public.GET("/suggest", searchHandler.Suggest)
	public.GET("/:id", listingHandler.GetListing)

	listings := v1.Group("/listings", authMiddleware.Authenticate)
	listings.POST("", listingHandler.CreateListing)
	listings.PUT("/:id", listingHandler.UpdateListing)
	listings.PUT("/:id/status", listingHandler.SetStatus)
	listings.POST("/:id/wishlist", listingHandler.ToggleWishlist)

	v1.POST("/search/click", searchHandler.LogClick, authMiddleware.OptionalAuth)
}
