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

const PROVIDER_COLLECTION = "serviceProviders"

type ProviderMongoDBStore struct {
	providers *mongo.Collection
	tracer    trace.Tracer
}

func NewProviderMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ProviderStore {
	providers := client.Database(DATABASE).Collection(PROVIDER_COLLECTION)
	return &ProviderMongoDBStore{
		providers: providers,
		tracer:    tracer,
	}
}

func (store *ProviderMongoDBStore) Create(ctx context.Context, provider *domain.ServiceProvider) (*domain.ServiceProvider, error) {
	ctx, span := store.tracer.Start(ctx, "ProviderMongoDBStore.Create")
	defer span.End()

	provider.ID = primitive.NewObjectID()
	result, err := store.providers.InsertOne(ctx, provider)
	if err != nil {
		return nil, err
	}
	provider.ID = result.InsertedID.(primitive.ObjectID)
	return provider, nil
}

func (store *ProviderMongoDBStore) Get(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	ctx, span := store.tracer.Start(ctx, "ProviderMongoDBStore.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return store.filterOne(ctx, bson.M{"_id": objectID})
}

func (store *ProviderMongoDBStore) GetApproved(ctx context.Context) ([]*domain.ServiceProvider, error) {
	ctx, span := store.tracer.Start(ctx, "ProviderMongoDBStore.GetApproved")
	defer span.End()

	return store.filter(ctx, bson.M{"isApproved": true})
}

func (store *ProviderMongoDBStore) GetApprovedByServiceType(ctx context.Context, serviceType string) ([]*domain.ServiceProvider, error) {
	ctx, span := store.tracer.Start(ctx, "ProviderMongoDBStore.GetApprovedByServiceType")
	defer span.End()

	return store.filter(ctx, bson.M{"isApproved": true, "serviceType": serviceType})
}

// Both approval flags go into one update document so the pair can
// never be observed out of sync.
func (store *ProviderMongoDBStore) SetApproval(ctx context.Context, id string, approved bool, rejectedReason string) error {
	ctx, span := store.tracer.Start(ctx, "ProviderMongoDBStore.SetApproval")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"isApproved": approved,
		"approved":   approved,
		"updatedAt":  time.Now(),
	}
	if rejectedReason != "" {
		update["rejectedReason"] = rejectedReason
	}

	_, err = store.providers.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": update})
	return err
}

func (store *ProviderMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.ServiceProvider, error) {
	cursor, err := store.providers.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var providers []*domain.ServiceProvider
	for cursor.Next(ctx) {
		var provider domain.ServiceProvider
		if err := cursor.Decode(&provider); err != nil {
			return nil, err
		}
		providers = append(providers, &provider)
	}
	return providers, cursor.Err()
}

func (store *ProviderMongoDBStore) filterOne(ctx context.Context, filter interface{}) (provider *domain.ServiceProvider, err error) {
	result := store.providers.FindOne(ctx, filter)
	err = result.Decode(&provider)
	return
}
