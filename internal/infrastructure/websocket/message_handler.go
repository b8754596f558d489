package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "marketly/pkg/errors"
	"marketly/pkg/logger"
)

// Client → server events
const (
	EventPing              = "ping"
	EventJoinConversation  = "join_conversation"
	EventLeaveConversation = "leave_conversation"
	EventSendMessage       = "send_message"
	EventMarkRead          = "mark_read"
	EventAutocomplete      = "autocomplete"
)

// Server → client events
const (
	EventPong                = "pong"
	EventMessages            = "messages"
	EventNewMessage          = "new_message"
	EventUnreadCount         = "unread_count"
	EventNotificationBanner  = "notification_banner"
	EventAutocompleteResults = "autocomplete_results"
	EventError               = "error"
)

const handlerTimeout = 15 * time.Second

// Envelope is the frame format in both directions.
type Envelope struct {
	Type           string          `json:"type"`
	ConversationID string          `json:"conversation_id,omitempty"`
	RequestID      string          `json:"request_id,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	Timestamp      string          `json:"timestamp,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// HandlerFunc processes one client event. A returned error is sent back to
// the client as an "error" frame.
type HandlerFunc func(ctx context.Context, c *Client, env Envelope) error

// Handle registers fn for eventType, replacing any previous handler.
func (m *Manager) Handle(eventType string, fn HandlerFunc) {
	m.handlers[eventType] = fn
}

// Encode builds a server frame.
func Encode(eventType, conversationID string, data interface{}) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}

	return json.Marshal(Envelope{
		Type:           eventType,
		ConversationID: conversationID,
		Data:           raw,
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleClientMessage decodes a frame and routes it to the registered handler.
func (m *Manager) HandleClientMessage(c *Client, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Debug("WebSocket: bad frame from %s: %v", c.UserID, err)
		m.SendError(c, "", "BAD_FRAME", "Invalid message format")
		return
	}

	if env.Type == EventPing {
		m.send(c, EventPong, "", map[string]string{"status": "alive"})
		return
	}

	fn, ok := m.handlers[env.Type]
	if !ok {
		m.SendError(c, env.RequestID, "UNKNOWN_EVENT", "Unknown message type: "+env.Type)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := fn(ctx, c, env); err != nil {
		m.SendError(c, env.RequestID, apperrors.CodeOf(err), errorMessage(err))
	}
}

// Reply sends a frame to one connection.
func (m *Manager) Reply(c *Client, eventType, conversationID string, data interface{}) {
	m.send(c, eventType, conversationID, data)
}

func (m *Manager) SendError(c *Client, requestID, code, message string) {
	frame, err := json.Marshal(Envelope{
		Type:      EventError,
		RequestID: requestID,
		Data:      mustJSON(ErrorData{Code: code, Message: message}),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	m.SendToClient(c, frame)
}

// Publish sends an event to every connection of userID.
func (m *Manager) Publish(userID, eventType string, data interface{}) {
	frame, err := Encode(eventType, "", data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", eventType, err)
		return
	}
	m.SendToUser(userID, frame)
}

// PublishToRoom sends an event to every connection in the conversation room.
func (m *Manager) PublishToRoom(conversationID, eventType string, data interface{}) {
	frame, err := Encode(eventType, conversationID, data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", eventType, err)
		return
	}
	m.SendToRoom(conversationID, frame)
}

func (m *Manager) send(c *Client, eventType, conversationID string, data interface{}) {
	frame, err := Encode(eventType, conversationID, data)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s: %v", eventType, err)
		return
	}
	m.SendToClient(c, frame)
}

func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Internal error"
}

func mustJSON(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
