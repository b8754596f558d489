package handler

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/usecase"
	"marketly/pkg/response"
)

type UserHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
	}
}

// GetCurrentUser creates the profile on the first authenticated call.
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	uid := currentUser(c)

	if _, err := h.userUseCase.EnsureUser(c.Request().Context(), uid); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.userUseCase.GetProfile(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req usecase.UpdateProfileInput
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	profile, err := h.userUseCase.UpdateProfile(c.Request().Context(), currentUser(c), req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	profile, err := h.userUseCase.GetPublicProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

type pushTokenRequest struct {
	Token string `json:"token" validate:"max=4096"`
}

// RegisterPushToken stores the device token; an empty token unregisters.
func (h *UserHandler) RegisterPushToken(c echo.Context) error {
	var req pushTokenRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.userUseCase.RegisterPushToken(c.Request().Context(), currentUser(c), req.Token); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"registered": req.Token != ""})
}

type keywordsRequest struct {
	Keywords []string `json:"keywords" validate:"max=30"`
}

func (h *UserHandler) SetKeywords(c echo.Context) error {
	var req keywordsRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	saved, err := h.userUseCase.SetKeywords(c.Request().Context(), currentUser(c), req.Keywords)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{"keywords": saved})
}
