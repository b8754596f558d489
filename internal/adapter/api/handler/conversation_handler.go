package handler

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/usecase"
	"marketly/pkg/errors"
	"marketly/pkg/response"
	"marketly/pkg/utils"
)

type ConversationHandler struct {
	conversationUseCase *usecase.ConversationUseCase
}

func NewConversationHandler(conversationUseCase *usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
	}
}

type startConversationRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
}

func (h *ConversationHandler) StartConversation(c echo.Context) error {
	var req startConversationRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	conversation, err := h.conversationUseCase.StartConversation(c.Request().Context(), currentUser(c), req.ListingID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *ConversationHandler) ListConversations(c echo.Context) error {
	conversations, err := h.conversationUseCase.ListConversations(c.Request().Context(), currentUser(c))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversations)
}

func (h *ConversationHandler) GetConversation(c echo.Context) error {
	conversation, err := h.conversationUseCase.GetConversation(c.Request().Context(), currentUser(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *ConversationHandler) MarkAsRead(c echo.Context) error {
	if err := h.conversationUseCase.MarkAsRead(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]bool{"read": true})
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	messages, next, err := h.conversationUseCase.ListMessages(
		c.Request().Context(),
		currentUser(c),
		c.Param("id"),
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
	return response.Cursor(c, messages, cursor)
}

type sendMessageRequest struct {
	Text     string `json:"text" validate:"max=2000"`
	ImageURL string `json:"image_url" validate:"omitempty,url"`
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.conversationUseCase.SendMessage(c.Request().Context(), usecase.SendMessageInput{
		ConversationID: c.Param("id"),
		SenderID:       currentUser(c),
		Text:           req.Text,
		ImageURL:       req.ImageURL,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

type translateRequest struct {
	Lang string `json:"lang" validate:"required,min=2,max=8"`
}

func (h *ConversationHandler) TranslateMessage(c echo.Context) error {
	var req translateRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	translation, err := h.conversationUseCase.TranslateMessage(
		c.Request().Context(),
		currentUser(c),
		c.Param("id"),
		c.Param("messageId"),
		req.Lang,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, translation)
}

func (h *ConversationHandler) UploadImage(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}
	if file.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("Image exceeds the 5MB limit", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	url, err := h.conversationUseCase.UploadImage(
		c.Request().Context(),
		currentUser(c),
		c.Param("id"),
		src,
		file.Header.Get("Content-Type"),
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{"url": url})
}
