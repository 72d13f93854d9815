package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

const DEADLETTER_COLLECTION = "deadLetters"

// Failure channel for swallowed best-effort side effects. Writes here
// are themselves best-effort.
type DeadLetterMongoDBStore struct {
	letters *mongo.Collection
	tracer  trace.Tracer
}

func NewDeadLetterMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.DeadLetterStore {
	letters := client.Database(DATABASE).Collection(DEADLETTER_COLLECTION)
	return &DeadLetterMongoDBStore{
		letters: letters,
		tracer:  tracer,
	}
}

func (store *DeadLetterMongoDBStore) Create(ctx context.Context, letter *domain.DeadLetter) error {
	ctx, span := store.tracer.Start(ctx, "DeadLetterMongoDBStore.Create")
	defer span.End()

	letter.ID = primitive.NewObjectID()
	letter.CreatedAt = time.Now()
	_, err := store.letters.InsertOne(ctx, letter)
	return err
}

func (store *DeadLetterMongoDBStore) GetAll(ctx context.Context) ([]*domain.DeadLetter, error) {
	ctx, span := store.tracer.Start(ctx, "DeadLetterMongoDBStore.GetAll")
	defer span.End()

	cursor, err := store.letters.Find(ctx, bson.D{{}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var letters []*domain.DeadLetter
	for cursor.Next(ctx) {
		var letter domain.DeadLetter
		if err := cursor.Decode(&letter); err != nil {
			return nil, err
		}
		letters = append(letters, &letter)
	}
	return letters, cursor.Err()
}
