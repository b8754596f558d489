package usecase

import (
	"context"
	"math"
	"time"

	"marketly/internal/domain/repository"
	"marketly/pkg/logger"
)

// ResponseTimeEstimator keeps each user's rolling average reply latency.
type ResponseTimeEstimator struct {
	userRepo repository.UserRepository
}

func NewResponseTimeEstimator(userRepo repository.UserRepository) *ResponseTimeEstimator {
	return &ResponseTimeEstimator{userRepo: userRepo}
}

// ShouldEstimate reports whether a send is a genuine reply: someone else
// spoke last and there is a timestamp to measure from.
func ShouldEstimate(prevSenderID string, prevAt time.Time, senderID string) bool {
	return prevSenderID != "" && prevSenderID != senderID && !prevAt.IsZero()
}

// ElapsedMinutes never returns a negative value.
func ElapsedMinutes(prevAt, now time.Time) float64 {
	return math.Max(0, now.Sub(prevAt).Minutes())
}

// RecordReply folds one latency sample into the user's aggregate. Errors are
// logged and swallowed.
func (e *ResponseTimeEstimator) RecordReply(ctx context.Context, userID string, minutes float64) {
	if err := e.userRepo.RecordResponseTime(ctx, userID, minutes); err != nil {
		logger.LogBackgroundError("response_time", userID, err)
	}
}

// ResponseLabel renders an average for profile display.
func ResponseLabel(avgMinutes float64, samples int) string {
	switch {
	case samples == 0:
		return ""
	case avgMinutes <= 60:
		return "Usually replies within an hour"
	case avgMinutes <= 6*60:
		return "Usually replies within a few hours"
	case avgMinutes <= 24*60:
		return "Usually replies within a day"
	default:
		return "Usually replies in a few days"
	}
}
