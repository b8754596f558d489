package usecase

import (
	"context"
	"time"

	"marketly/internal/infrastructure/firebase"
)

// AuthUserLookup reads a user's record from the auth provider.
type AuthUserLookup interface {
	GetUser(ctx context.Context, uid string) (*firebase.AuthUser, error)
}

// Publisher pushes realtime events to connected clients.
type Publisher interface {
	Publish(userID, eventType string, data interface{})
	PublishToRoom(conversationID, eventType string, data interface{})
}

type RateLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, string, interface{})       {}
func (noopPublisher) PublishToRoom(string, string, interface{}) {}
