package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/middleware"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// bind decodes and validates the request body into req.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}

func currentUser(c echo.Context) string {
	return middleware.UID(c)
}

func queryLimit(c echo.Context) int {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit < 1 || limit > maxLimit {
		return defaultLimit
	}
	return limit
}
