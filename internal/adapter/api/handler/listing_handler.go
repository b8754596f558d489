package handler

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/usecase"
	"marketly/pkg/errors"
	"marketly/pkg/response"
	"marketly/pkg/utils"
)

type ListingHandler struct {
	listingUseCase  *usecase.ListingUseCase
	wishlistUseCase *usecase.WishlistUseCase
}

func NewListingHandler(listingUseCase *usecase.ListingUseCase, wishlistUseCase *usecase.WishlistUseCase) *ListingHandler {
	return &ListingHandler{
		listingUseCase:  listingUseCase,
		wishlistUseCase: wishlistUseCase,
	}
}

func (h *ListingHandler) CreateListing(c echo.Context) error {
	var req usecase.CreateListingInput
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.CreateListing(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, listing)
}

func (h *ListingHandler) UpdateListing(c echo.Context) error {
	var req usecase.UpdateListingInput
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.UpdateListing(c.Request().Context(), currentUser(c), c.Param("id"), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

type setStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active sold hidden"`
}

func (h *ListingHandler) SetStatus(c echo.Context) error {
	var req setStatusRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	listing, err := h.listingUseCase.SetStatus(c.Request().Context(), currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listing)
}

func (h *ListingHandler) GetListing(c echo.Context) error {
	listingID := c.Param("id")
	if listingID == "" {
		return response.Error(c, errors.BadRequest("Listing ID is required", nil))
	}

	detail, err := h.listingUseCase.GetListing(c.Request().Context(), currentUser(c), listingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, detail)
}

func (h *ListingHandler) ListRecent(c echo.Context) error {
	listings, next, err := h.listingUseCase.ListRecent(
		c.Request().Context(),
		utils.GetCursorParam(c, "before"),
		queryLimit(c),
	)
	if err != nil {
		return response.Error(c, err)
	}

	cursor := ""
	if next != nil {
		cursor = utils.FormatCursor(*next)
	}
	return response.Cursor(c, listings, cursor)
}

func (h *ListingHandler) ListBySeller(c echo.Context) error {
	listings, err := h.listingUseCase.ListBySeller(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, listings)
}

func (h *ListingHandler) ToggleWishlist(c echo.Context) error {
	result, err := h.wishlistUseCase.ToggleWishlist(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
