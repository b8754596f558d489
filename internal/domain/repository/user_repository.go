package repository

import (
	"context"

	"marketly/internal/domain/entity"
)

type UserRepository interface {
	// CreateIfAbsent stores user unless a profile already exists and returns
	// the stored profile.
	CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
	SetPushToken(ctx context.Context, id, token string) error
	SetKeywords(ctx context.Context, id string, keywords []string) error
	FindByAnyKeyword(ctx context.Context, keywords []string) ([]*entity.User, error)
	RecordResponseTime(ctx context.Context, id string, minutes float64) error
	IncrementListingsSold(ctx context.Context, id string) error
}
