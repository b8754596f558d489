package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/pkg/errors"
)

type firestoreReviewRepository struct {
	client *firestore.Client
}

func NewFirestoreReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &firestoreReviewRepository{
		client: client,
	}
}

func (r *firestoreReviewRepository) CreateWithRating(ctx context.Context, review *entity.Review) (*entity.User, error) {
	reviewRef := r.client.Collection(collectionReviews).Doc(review.ID)
	userRef := r.client.Collection(collectionUsers).Doc(review.TargetID)

	var target entity.User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Get(reviewRef)
		if err != nil && !isNotFound(err) {
			return err
		}
		if existing != nil && existing.Exists() {
			return errors.Conflict("You have already reviewed this conversation")
		}

		doc, err := tx.Get(userRef)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("User", err)
			}
			return err
		}
		if err := doc.DataTo(&target); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}

		target.AddRating(review.Rating)

		if err := tx.Create(reviewRef, review); err != nil {
			return err
		}
		return tx.Update(userRef, []firestore.Update{
			{Path: "ratingAverage", Value: target.RatingAverage},
			{Path: "ratingCount", Value: target.RatingCount},
		})
	})
	if err != nil {
		if _, ok := errors.As(err); ok {
			return nil, err
		}
		return nil, errors.Internal("Failed to submit review", err)
	}

	return &target, nil
}

func (r *firestoreReviewRepository) ListByTarget(ctx context.Context, targetID string, limit int) ([]*entity.Review, error) {
	query := r.client.Collection(collectionReviews).
		Where("targetId", "==", targetID).
		OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	reviews, err := decodeAll[entity.Review](query.Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to list reviews", err)
	}
	return reviews, nil
}
