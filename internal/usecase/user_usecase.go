package usecase

import (
	"context"
	"strings"
	"time"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
	auth     AuthUserLookup
	now      func() time.Time
}

func NewUserUseCase(userRepo repository.UserRepository, auth AuthUserLookup) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		auth:     auth,
		now:      time.Now,
	}
}

type ProfileResponse struct {
	*entity.User
	ResponseLabel string `json:"response_label,omitempty"`
}

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=60"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	Bio         *string `json:"bio" validate:"omitempty,max=500"`
	Location    *string `json:"location" validate:"omitempty,max=120"`
}

// EnsureUser returns the profile for uid, creating it from the auth
// provider's record on first sight.
func (uc *UserUseCase) EnsureUser(ctx context.Context, uid string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	now := uc.now()
	user = &entity.User{
		ID:        uid,
		Keywords:  []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if uc.auth != nil {
		record, err := uc.auth.GetUser(ctx, uid)
		if err != nil {
			logger.Warn("Auth lookup for new profile %s failed: %v", uid, err)
		} else {
			user.Email = record.Email
			user.DisplayName = record.DisplayName
			user.PhotoURL = record.PhotoURL
		}
	}
	if user.DisplayName == "" {
		user.DisplayName = defaultDisplayName(user.Email)
	}

	stored, err := uc.userRepo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, err
	}
	logger.Info("Profile ready for user %s", uid)
	return stored, nil
}

func defaultDisplayName(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return "User"
}

func (uc *UserUseCase) GetProfile(ctx context.Context, uid string) (*ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

// GetPublicProfile hides private fields of someone else's profile.
func (uc *UserUseCase) GetPublicProfile(ctx context.Context, uid string) (*ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	public := *user
	public.Email = ""
	public.Keywords = nil
	return toProfile(&public), nil
}

func toProfile(user *entity.User) *ProfileResponse {
	return &ProfileResponse{
		User:          user,
		ResponseLabel: ResponseLabel(user.AvgResponseMinutes, user.ResponseCount),
	}
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, uid string, input UpdateProfileInput) (*ProfileResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if name == "" {
			return nil, errors.BadRequest("Display name cannot be empty", nil)
		}
		user.DisplayName = name
	}
	if input.PhotoURL != nil {
		user.PhotoURL = *input.PhotoURL
	}
	if input.Bio != nil {
		user.Bio = strings.TrimSpace(*input.Bio)
	}
	if input.Location != nil {
		user.Location = strings.TrimSpace(*input.Location)
	}

	if err := uc.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	user.UpdatedAt = uc.now()
	return toProfile(user), nil
}

// RegisterPushToken stores the device token; an empty token unregisters.
func (uc *UserUseCase) RegisterPushToken(ctx context.Context, uid, token string) error {
	return uc.userRepo.SetPushToken(ctx, uid, strings.TrimSpace(token))
}

// SetKeywords saves normalized keyword tokens for new-listing alerts.
func (uc *UserUseCase) SetKeywords(ctx context.Context, uid string, keywords []string) ([]string, error) {
	normalized := KeywordTokens(strings.Join(keywords, " "))
	if err := uc.userRepo.SetKeywords(ctx, uid, normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}
