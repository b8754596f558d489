package router

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/handler"
	"marketly/internal/adapter/api/middleware"
)

func SetupReviewRouter(v1 *echo.Group, reviewHandler *handler.ReviewHandler, authMiddleware *middleware.AuthMiddleware) {
	v1.GET("/users/:id/reviews", reviewHandler.GetUserReviews)
	v1.POST("/reviews", reviewHandler.CreateReview, authMiddleware.Authenticate)
}
