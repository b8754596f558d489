package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	collectionUsers         = "users"
	collectionListings      = "listings"
	collectionConversations = "conversations"
	collectionMessages      = "messages"
	collectionWishlists     = "wishlists"
	collectionReviews       = "reviews"
	collectionNotifications = "notifications"
	collectionSearchLogs    = "search_logs"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}

// watchStopped reports whether a snapshot iterator error only means the
// subscription was cancelled.
func watchStopped(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, iterator.Done) {
		return true
	}
	c := status.Code(err)
	return c == codes.Canceled || c == codes.DeadlineExceeded
}

// decodeAll iterates docs and decodes each into a new T.
func decodeAll[T any](iter *firestore.DocumentIterator) ([]*T, error) {
	defer iter.Stop()

	var out []*T
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		var v T
		if err := doc.DataTo(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, nil
}

// countQuery runs a server-side COUNT aggregation.
func countQuery(ctx context.Context, q firestore.Query) (int64, error) {
	res, err := q.NewAggregationQuery().WithCount("count").Get(ctx)
	if err != nil {
		return 0, err
	}

	return countValue(res["count"])
}

func countValue(raw interface{}) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case interface{ GetIntegerValue() int64 }:
		return v.GetIntegerValue(), nil
	}
	return 0, fmt.Errorf("unexpected count aggregation value %T", raw)
}

// bulkUpdate applies the same update to every ref and returns how many
// writes succeeded.
func bulkUpdate(ctx context.Context, client *firestore.Client, refs []*firestore.DocumentRef, updates []firestore.Update) (int, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	bw := client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for _, ref := range refs {
		job, err := bw.Update(ref, updates)
		if err != nil {
			bw.End()
			return 0, err
		}
		jobs = append(jobs, job)
	}
	bw.End()

	done := 0
	var firstErr error
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		done++
	}
	return done, firstErr
}
