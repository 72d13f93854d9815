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

const PROPERTY_COLLECTION = "properties"

type PropertyMongoDBStore struct {
	properties *mongo.Collection
	tracer     trace.Tracer
}

func NewPropertyMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.PropertyStore {
	properties := client.Database(DATABASE).Collection(PROPERTY_COLLECTION)
	return &PropertyMongoDBStore{
		properties: properties,
		tracer:     tracer,
	}
}

func (store *PropertyMongoDBStore) Create(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyMongoDBStore.Create")
	defer span.End()

	property.ID = primitive.NewObjectID()
	result, err := store.properties.InsertOne(ctx, property)
	if err != nil {
		return nil, err
	}
	property.ID = result.InsertedID.(primitive.ObjectID)
	return property, nil
}

func (store *PropertyMongoDBStore) Get(ctx context.Context, id string) (*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyMongoDBStore.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return store.filterOne(ctx, bson.M{"_id": objectID})
}

func (store *PropertyMongoDBStore) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyMongoDBStore.GetByOwner")
	defer span.End()

	return store.filter(ctx, bson.M{"ownerId": ownerID})
}

func (store *PropertyMongoDBStore) GetByStatus(ctx context.Context, status domain.PropertyStatus) ([]*domain.Property, error) {
	ctx, span := store.tracer.Start(ctx, "PropertyMongoDBStore.GetByStatus")
	defer span.End()

	return store.filter(ctx, bson.M{"status": status})
}

func (store *PropertyMongoDBStore) UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error {
	ctx, span := store.tracer.Start(ctx, "PropertyMongoDBStore.UpdateStatus")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.properties.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	return err
}

func (store *PropertyMongoDBStore) Delete(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "PropertyMongoDBStore.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.properties.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

func (store *PropertyMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.Property, error) {
	cursor, err := store.properties.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []*domain.Property
	for cursor.Next(ctx) {
		var property domain.Property
		if err := cursor.Decode(&property); err != nil {
			return nil, err
		}
		properties = append(properties, &property)
	}
	return properties, cursor.Err()
}

func (store *PropertyMongoDBStore) filterOne(ctx context.Context, filter interface{}) (property *domain.Property, err error) {
	result := store.properties.FindOne(ctx, filter)
	err = result.Decode(&property)
	return
}
