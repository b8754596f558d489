package handler

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/adapter/api/middleware"
	"marketly/internal/usecase"
	"marketly/pkg/response"
)

type SearchHandler struct {
	searchUseCase *usecase.SearchUseCase
}

func NewSearchHandler(searchUseCase *usecase.SearchUseCase) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
	}
}

func (h *SearchHandler) Search(c echo.Context) error {
	result, err := h.searchUseCase.Search(c.Request().Context(), middleware.ActorID(c), c.QueryParam("q"), queryLimit(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *SearchHandler) Suggest(c echo.Context) error {
	titles, err := h.searchUseCase.Suggest(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"suggestions": titles,
	})
}

type logClickRequest struct {
	Query     string `json:"query"`
	ListingID string `json:"listing_id" validate:"required"`
}

func (h *SearchHandler) LogClick(c echo.Context) error {
	var req logClickRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.searchUseCase.LogClick(c.Request().Context(), middleware.ActorID(c), req.Query, req.ListingID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"logged": true})
}
