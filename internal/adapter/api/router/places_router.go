package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupPlacesRouter(v1 *echo.Group, placesHandler *handler.PlacesHandler, authMiddleware *middleware.AuthMiddleware) {
	places := v1.Group("/places", authMiddleware.OptionalAuth)
	places.GET("/autocomplete", placesHandler.Autocomplete)
	places.GET("/:placeId", placesHandler.Details)
}
