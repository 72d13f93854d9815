package store

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

const REQUEST_COLLECTION = "requests"

// All four request types share one collection, discriminated by the
// type field. Each type keeps its own status vocabulary in domain.
type RequestMongoDBStore struct {
	requests *mongo.Collection
	tracer   trace.Tracer
}

func NewRequestMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.RequestStore {
	requests := client.Database(DATABASE).Collection(REQUEST_COLLECTION)
	return &RequestMongoDBStore{
		requests: requests,
		tracer:   tracer,
	}
}

func (store *RequestMongoDBStore) Create(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	ctx, span := store.tracer.Start(ctx, "RequestMongoDBStore.Create")
	defer span.End()

	request.ID = primitive.NewObjectID()
	result, err := store.requests.InsertOne(ctx, request)
	if err != nil {
		return nil, err
	}
	request.ID = result.InsertedID.(primitive.ObjectID)
	return request, nil
}

func (store *RequestMongoDBStore) Get(ctx context.Context, id string) (*domain.Request, error) {
	ctx, span := store.tracer.Start(ctx, "RequestMongoDBStore.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return store.filterOne(ctx, bson.M{"_id": objectID})
}

func (store *RequestMongoDBStore) GetByUser(ctx context.Context, requestType domain.RequestType, userID string) ([]*domain.Request, error) {
	ctx, span := store.tracer.Start(ctx, "RequestMongoDBStore.GetByUser")
	defer span.End()

	return store.filterSorted(ctx, bson.M{"type": requestType, "userId": userID})
}

func (store *RequestMongoDBStore) GetByProvider(ctx context.Context, requestType domain.RequestType, providerID string) ([]*domain.Request, error) {
	ctx, span := store.tracer.Start(ctx, "RequestMongoDBStore.GetByProvider")
	defer span.End()

	return store.filterSorted(ctx, bson.M{"type": requestType, "providerId": providerID})
}

func (store *RequestMongoDBStore) Update(ctx context.Context, request *domain.Request) error {
	ctx, span := store.tracer.Start(ctx, "RequestMongoDBStore.Update")
	defer span.End()

	_, err := store.requests.UpdateOne(ctx, bson.M{"_id": request.ID}, bson.M{"$set": request})
	return err
}

func (store *RequestMongoDBStore) Delete(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "RequestMongoDBStore.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.requests.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

func (store *RequestMongoDBStore) filterSorted(ctx context.Context, filter interface{}) ([]*domain.Request, error) {
	sort := bson.D{{Key: "createdAt", Value: -1}}
	cursor, fallback, err := findOrdered(ctx, store.requests, filter, sort)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests, err := decodeRequests(ctx, cursor)
	if err != nil {
		return nil, err
	}
	if fallback {
		sortRequestsByCreatedAt(requests)
	}
	return requests, nil
}

func (store *RequestMongoDBStore) filterOne(ctx context.Context, filter interface{}) (request *domain.Request, err error) {
	result := store.requests.FindOne(ctx, filter)
	err = result.Decode(&request)
	return
}

func decodeRequests(ctx context.Context, cursor *mongo.Cursor) (requests []*domain.Request, err error) {
	for cursor.Next(ctx) {
		var request domain.Request
		err = cursor.Decode(&request)
		if err != nil {
			return
		}
		requests = append(requests, &request)
	}
	err = cursor.Err()
	return
}

func sortRequestsByCreatedAt(requests []*domain.Request) {
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
