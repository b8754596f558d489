package handler

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/usecase"
	"marketly/pkg/response"
)

type PlacesHandler struct {
	placesUseCase *usecase.PlacesUseCase
}

func NewPlacesHandler(placesUseCase *usecase.PlacesUseCase) *PlacesHandler {
	return &PlacesHandler{
		placesUseCase: placesUseCase,
	}
}

func (h *PlacesHandler) Autocomplete(c echo.Context) error {
	predictions, err := h.placesUseCase.Autocomplete(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, predictions)
}

func (h *PlacesHandler) Details(c echo.Context) error {
	details, err := h.placesUseCase.PlaceDetails(c.Request().Context(), c.Param("placeId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, details)
}
