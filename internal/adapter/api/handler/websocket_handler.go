package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"marketly/internal/domain/entity"
	"marketly/internal/infrastructure/ratelimit"
	ws "marketly/internal/infrastructure/websocket"
	"marketly/internal/usecase"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
	"marketly/pkg/response"
	"marketly/pkg/utils"
)

const (
	keyRooms        = "rooms"
	keyAutocomplete = "autocomplete"

	autocompleteTimeout = 5 * time.Second
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	wsManager     *ws.Manager
	conversations *usecase.ConversationUseCase
	places        *usecase.PlacesUseCase
	notifier      *usecase.Notifier
	limiter       usecase.RateLimiter
	debounce      time.Duration
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	conversations *usecase.ConversationUseCase,
	places *usecase.PlacesUseCase,
	notifier *usecase.Notifier,
	limiter usecase.RateLimiter,
	debounce time.Duration,
) *WebSocketHandler {
	h := &WebSocketHandler{
		wsManager:     wsManager,
		conversations: conversations,
		places:        places,
		notifier:      notifier,
		limiter:       limiter,
		debounce:      debounce,
	}
	h.register()
	return h
}

func (h *WebSocketHandler) register() {
	h.wsManager.Handle(ws.EventJoinConversation, h.joinConversation)
	h.wsManager.Handle(ws.EventLeaveConversation, h.leaveConversation)
	h.wsManager.Handle(ws.EventSendMessage, h.sendMessage)
	h.wsManager.Handle(ws.EventMarkRead, h.markRead)
	h.wsManager.Handle(ws.EventAutocomplete, h.autocomplete)

	if h.notifier != nil {
		h.wsManager.OnUserOnline = h.notifier.Start
		h.wsManager.OnUserOffline = h.notifier.Stop
	}
	h.wsManager.OnClientClosed = releaseClient
}

// HandleWebSocket upgrades an authenticated request. The uid is set by
// AuthMiddleware.VerifyQueryToken.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := currentUser(c)
	if userID == "" {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed for %s: %v", userID, err)
		return nil
	}

	client := ws.NewClient(userID, conn)
	if !h.wsManager.RegisterClient(client) {
		conn.Close()
		return nil
	}

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}

// stopper is per-connection state that must be released on disconnect.
type stopper interface {
	Stop()
}

func releaseClient(c *ws.Client) {
	for _, v := range c.Values() {
		if s, ok := v.(stopper); ok {
			s.Stop()
		}
	}
}

// roomSubscriptions holds the live message subscription of every
// conversation a connection has joined.
type roomSubscriptions struct {
	mu      sync.Mutex
	cancels map[string]func()
}

func (r *roomSubscriptions) set(conversationID string, cancel func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.cancels[conversationID]; ok {
		prev()
	}
	r.cancels[conversationID] = cancel
}

func (r *roomSubscriptions) drop(conversationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cancel, ok := r.cancels[conversationID]; ok {
		cancel()
		delete(r.cancels, conversationID)
	}
}

func (r *roomSubscriptions) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, cancel := range r.cancels {
		cancel()
		delete(r.cancels, id)
	}
}

func rooms(c *ws.Client) *roomSubscriptions {
	return c.Value(keyRooms, func() interface{} {
		return &roomSubscriptions{cancels: make(map[string]func())}
	}).(*roomSubscriptions)
}

func requireConversation(env ws.Envelope) error {
	if env.ConversationID == "" {
		return errors.BadRequest("conversation_id is required", nil)
	}
	return nil
}

func (h *WebSocketHandler) joinConversation(ctx context.Context, c *ws.Client, env ws.Envelope) error {
	if err := requireConversation(env); err != nil {
		return err
	}
	if _, err := h.conversations.GetConversation(ctx, c.UserID, env.ConversationID); err != nil {
		return err
	}

	h.wsManager.Join(env.ConversationID, c)

	conversationID := env.ConversationID
	cancel := h.conversations.SubscribeMessages(context.Background(), conversationID, 0, func(messages []*entity.Message) {
		h.wsManager.Reply(c, ws.EventMessages, conversationID, messages)
	})
	rooms(c).set(conversationID, cancel)
	return nil
}

func (h *WebSocketHandler) leaveConversation(ctx context.Context, c *ws.Client, env ws.Envelope) error {
	if err := requireConversation(env); err != nil {
		return err
	}
	rooms(c).drop(env.ConversationID)
	h.wsManager.Leave(env.ConversationID, c)
	return nil
}

type sendMessagePayload struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
}

func decode(env ws.Envelope, v interface{}) error {
	if len(env.Data) == 0 {
		return errors.BadRequest("data is required", nil)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return errors.BadRequest("Invalid data", err)
	}
	return nil
}

func (h *WebSocketHandler) sendMessage(ctx context.Context, c *ws.Client, env ws.Envelope) error {
	if err := requireConversation(env); err != nil {
		return err
	}

	var payload sendMessagePayload
	if err := decode(env, &payload); err != nil {
		return err
	}

	_, err := h.conversations.SendMessage(ctx, usecase.SendMessageInput{
		ConversationID: env.ConversationID,
		SenderID:       c.UserID,
		Text:           payload.Text,
		ImageURL:       payload.ImageURL,
	})
	return err
}

func (h *WebSocketHandler) markRead(ctx context.Context, c *ws.Client, env ws.Envelope) error {
	if err := requireConversation(env); err != nil {
		return err
	}
	return h.conversations.MarkAsRead(ctx, c.UserID, env.ConversationID)
}

type autocompletePayload struct {
	Query string `json:"query"`
}

type autocompleteResults struct {
	Query       string                   `json:"query"`
	Predictions []entity.PlacePrediction `json:"predictions"`
}

// autocomplete debounces keystrokes per connection; only the last query of a
// burst is looked up.
func (h *WebSocketHandler) autocomplete(ctx context.Context, c *ws.Client, env ws.Envelope) error {
	var payload autocompletePayload
	if err := decode(env, &payload); err != nil {
		return err
	}

	debouncer := c.Value(keyAutocomplete, func() interface{} {
		return utils.NewDebouncer(h.debounce)
	}).(*utils.Debouncer)

	requestID := env.RequestID
	debouncer.Trigger(func(ctx context.Context) {
		h.runAutocomplete(ctx, c, requestID, payload.Query)
	})
	return nil
}

// runAutocomplete looks up query unless a newer keystroke cancels parent
// first. Cancelled lookups send nothing.
func (h *WebSocketHandler) runAutocomplete(parent context.Context, c *ws.Client, requestID, query string) {
	if h.limiter != nil {
		if allowed, _ := h.limiter.Allow(c.UserID, ratelimit.ActionAutocomplete); !allowed {
			h.wsManager.SendError(c, requestID, "TOO_MANY_REQUESTS", "Too many lookups, slow down")
			return
		}
	}

	ctx, cancel := context.WithTimeout(parent, autocompleteTimeout)
	defer cancel()

	predictions, err := h.places.Autocomplete(ctx, query)
	if parent.Err() != nil {
		return
	}
	if err != nil {
		h.wsManager.SendError(c, requestID, errors.CodeOf(err), "Place lookup failed")
		return
	}

	h.wsManager.Reply(c, ws.EventAutocompleteResults, "", autocompleteResults{
		Query:       query,
		Predictions: predictions,
	})
}
