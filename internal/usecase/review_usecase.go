package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/internal/infrastructure/worker"
	"marketly/pkg/errors"
)

const maxReviewsListed = 50

type ReviewUseCase struct {
	reviewRepo    repository.ReviewRepository
	convRepo      repository.ConversationRepository
	notifications *NotificationUseCase
	dispatcher    worker.Dispatcher
	now           func() time.Time
}

func NewReviewUseCase(
	reviewRepo repository.ReviewRepository,
	convRepo repository.ConversationRepository,
	notifications *NotificationUseCase,
	dispatcher worker.Dispatcher,
) *ReviewUseCase {
	return &ReviewUseCase{
		reviewRepo:    reviewRepo,
		convRepo:      convRepo,
		notifications: notifications,
		dispatcher:    dispatcher,
		now:           time.Now,
	}
}

type SubmitReviewInput struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	Rating         int    `json:"rating" validate:"required,min=1,max=5"`
	Comment        string `json:"comment" validate:"max=1000"`
}

// SubmitReview lets one conversation participant rate the other, once per
// conversation.
func (uc *ReviewUseCase) SubmitReview(ctx context.Context, reviewerID string, input SubmitReviewInput) (*entity.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, errors.BadRequest("Rating must be between 1 and 5", nil)
	}

	conversation, err := uc.convRepo.GetByID(ctx, input.ConversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(reviewerID) {
		return nil, errors.Forbidden("You can only review people you have talked to", nil)
	}
	targetID := conversation.Counterpart(reviewerID)
	if targetID == "" || targetID == reviewerID {
		return nil, errors.BadRequest("You cannot review yourself", nil)
	}

	review := &entity.Review{
		ID:             entity.ReviewID(reviewerID, conversation.ID),
		ReviewerID:     reviewerID,
		TargetID:       targetID,
		ListingID:      conversation.ListingID,
		ConversationID: conversation.ID,
		Rating:         input.Rating,
		Comment:        strings.TrimSpace(input.Comment),
		CreatedAt:      uc.now(),
	}

	if _, err := uc.reviewRepo.CreateWithRating(ctx, review); err != nil {
		return nil, err
	}

	if uc.notifications != nil {
		uc.dispatcher.Dispatch("review_notify", func(ctx context.Context) error {
			return uc.notifications.Notify(ctx, &entity.Notification{
				UserID:         targetID,
				Type:           entity.NotificationReview,
				Title:          "New review",
				Body:           fmt.Sprintf("You received a %d-star review for %s", review.Rating, conversation.ListingTitle),
				ListingID:      conversation.ListingID,
				ConversationID: conversation.ID,
				CreatedAt:      uc.now(),
			})
		})
	}

	return review, nil
}

func (uc *ReviewUseCase) ListReviews(ctx context.Context, targetID string) ([]*entity.Review, error) {
	return uc.reviewRepo.ListByTarget(ctx, targetID, maxReviewsListed)
}
