package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	errs "estately_service/errors"
)

const REVIEW_COLLECTION = "reviews"

var ErrReviewExists = errors.New(errs.ReviewAlreadyExists)

type ReviewMongoDBStore struct {
	reviews *mongo.Collection
	tracer  trace.Tracer
}

func NewReviewMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ReviewStore {
	reviews := client.Database(DATABASE).Collection(REVIEW_COLLECTION)
	return &ReviewMongoDBStore{
		reviews: reviews,
		tracer:  tracer,
	}
}

// Create runs the existence check and the insert inside one session
// transaction. Two concurrent submissions for the same (author, target,
// targetType) can no longer both pass the check.
func (store *ReviewMongoDBStore) Create(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewMongoDBStore.Create")
	defer span.End()

	review.ID = primitive.NewObjectID()

	session, err := store.reviews.Database().Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	duplicateFilter := bson.M{
		"authorId":   review.AuthorID,
		"targetId":   review.TargetID,
		"targetType": review.TargetType,
	}

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		count, err := store.reviews.CountDocuments(sessCtx, duplicateFilter)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrReviewExists
		}
		return store.reviews.InsertOne(sessCtx, review)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (store *ReviewMongoDBStore) GetByTarget(ctx context.Context, targetType, targetID string) ([]*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewMongoDBStore.GetByTarget")
	defer span.End()

	return store.filter(ctx, bson.M{"targetType": targetType, "targetId": targetID})
}

func (store *ReviewMongoDBStore) GetByAuthor(ctx context.Context, authorID string) ([]*domain.Review, error) {
	ctx, span := store.tracer.Start(ctx, "ReviewMongoDBStore.GetByAuthor")
	defer span.End()

	return store.filter(ctx, bson.M{"authorId": authorID})
}

func (store *ReviewMongoDBStore) Delete(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "ReviewMongoDBStore.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.reviews.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

func (store *ReviewMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.Review, error) {
	cursor, err := store.reviews.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []*domain.Review
	for cursor.Next(ctx) {
		var review domain.Review
		if err := cursor.Decode(&review); err != nil {
			return nil, err
		}
		reviews = append(reviews, &review)
	}
	return reviews, cursor.Err()
}
