package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"marketly/internal/domain/entity"
	"marketly/internal/domain/repository"
	"marketly/pkg/errors"
)

// maxKeywordsPerQuery is Firestore's array-contains-any limit.
const maxKeywordsPerQuery = 30

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) users() *firestore.CollectionRef {
	return r.client.Collection(collectionUsers)
}

func (r *firestoreUserRepository) CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, error) {
	_, err := r.users().Doc(user.ID).Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !isAlreadyExists(err) {
		return nil, errors.Internal("Failed to create user", err)
	}
	return r.GetByID(ctx, user.ID)
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.users().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	return &user, nil
}

func (r *firestoreUserRepository) update(ctx context.Context, id string, updates []firestore.Update) error {
	updates = append(updates, firestore.Update{Path: "updatedAt", Value: time.Now()})

	_, err := r.users().Doc(id).Update(ctx, updates)
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.Internal("Failed to update user", err)
	}
	return nil
}

func (r *firestoreUserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	return r.update(ctx, user.ID, []firestore.Update{
		{Path: "displayName", Value: user.DisplayName},
		{Path: "photoUrl", Value: user.PhotoURL},
		{Path: "bio", Value: user.Bio},
		{Path: "location", Value: user.Location},
	})
}

func (r *firestoreUserRepository) SetPushToken(ctx context.Context, id, token string) error {
	var value interface{} = token
	if token == "" {
		value = firestore.Delete
	}
	return r.update(ctx, id, []firestore.Update{{Path: "pushToken", Value: value}})
}

func (r *firestoreUserRepository) SetKeywords(ctx context.Context, id string, keywords []string) error {
	return r.update(ctx, id, []firestore.Update{{Path: "keywords", Value: keywords}})
}

func (r *firestoreUserRepository) FindByAnyKeyword(ctx context.Context, keywords []string) ([]*entity.User, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if len(keywords) > maxKeywordsPerQuery {
		keywords = keywords[:maxKeywordsPerQuery]
	}

	users, err := decodeAll[entity.User](r.users().Where("keywords", "array-contains-any", keywords).Documents(ctx))
	if err != nil {
		return nil, errors.Internal("Failed to query users by keyword", err)
	}
	return users, nil
}

func (r *firestoreUserRepository) RecordResponseTime(ctx context.Context, id string, minutes float64) error {
	ref := r.users().Doc(id)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("User", err)
			}
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}
		user.AddResponseTime(minutes)

		return tx.Update(ref, []firestore.Update{
			{Path: "responseTotalMinutes", Value: user.ResponseTotalMinutes},
			{Path: "responseCount", Value: user.ResponseCount},
			{Path: "avgResponseMinutes", Value: user.AvgResponseMinutes},
		})
	})
}

func (r *firestoreUserRepository) IncrementListingsSold(ctx context.Context, id string) error {
	return r.update(ctx, id, []firestore.Update{
		{Path: "listingsSold", Value: firestore.Increment(1)},
	})
}
