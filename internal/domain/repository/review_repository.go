package repository

import (
	"context"

	"marketly/internal/domain/entity"
)

type ReviewRepository interface {
	// CreateWithRating stores the review and folds its rating into the target
	// user's aggregate atomically. Returns the updated target.
	CreateWithRating(ctx context.Context, review *entity.Review) (*entity.User, error)
	ListByTarget(ctx context.Context, targetID string, limit int) ([]*entity.Review, error)
}
