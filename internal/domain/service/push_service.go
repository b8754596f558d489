package service

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/messaging"
)

// ErrPushTokenInvalid means the device token is no longer registered and
// should be removed from the profile.
var ErrPushTokenInvalid = errors.New("push token is no longer valid")

type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

type PushService interface {
	Send(ctx context.Context, token string, msg PushMessage) error
}

type FCMPushService struct {
	client *messaging.Client
}

func NewFCMPushService(client *messaging.Client) *FCMPushService {
	return &FCMPushService{client: client}
}

func (s *FCMPushService) Send(ctx context.Context, token string, msg PushMessage) error {
	if token == "" {
		return ErrPushTokenInvalid
	}

	_, err := s.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	})
	if err != nil {
		if messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err) {
			return ErrPushTokenInvalid
		}
		return fmt.Errorf("fcm send failed: %v", err)
	}
	return nil
}
