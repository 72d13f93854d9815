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

const OFFER_COLLECTION = "marketplaceOffers"

type OfferMongoDBStore struct {
	offers *mongo.Collection
	tracer trace.Tracer
}

func NewOfferMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.OfferStore {
	offers := client.Database(DATABASE).Collection(OFFER_COLLECTION)
	return &OfferMongoDBStore{
		offers: offers,
		tracer: tracer,
	}
}

func (store *OfferMongoDBStore) Create(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	ctx, span := store.tracer.Start(ctx, "OfferMongoDBStore.Create")
	defer span.End()

	offer.ID = primitive.NewObjectID()
	result, err := store.offers.InsertOne(ctx, offer)
	if err != nil {
		return nil, err
	}
	offer.ID = result.InsertedID.(primitive.ObjectID)
	return offer, nil
}

func (store *OfferMongoDBStore) Get(ctx context.Context, id string) (*domain.Offer, error) {
	ctx, span := store.tracer.Start(ctx, "OfferMongoDBStore.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return store.filterOne(ctx, bson.M{"_id": objectID})
}

func (store *OfferMongoDBStore) GetByListing(ctx context.Context, listingID string) ([]*domain.Offer, error) {
	ctx, span := store.tracer.Start(ctx, "OfferMongoDBStore.GetByListing")
	defer span.End()

	return store.filter(ctx, bson.M{"listingId": listingID})
}

func (store *OfferMongoDBStore) GetByBuyer(ctx context.Context, buyerID string) ([]*domain.Offer, error) {
	ctx, span := store.tracer.Start(ctx, "OfferMongoDBStore.GetByBuyer")
	defer span.End()

	return store.filter(ctx, bson.M{"buyerId": buyerID})
}

func (store *OfferMongoDBStore) GetBySeller(ctx context.Context, sellerID string) ([]*domain.Offer, error) {
	ctx, span := store.tracer.Start(ctx, "OfferMongoDBStore.GetBySeller")
	defer span.End()

	return store.filter(ctx, bson.M{"sellerId": sellerID})
}

func (store *OfferMongoDBStore) UpdateStatus(ctx context.Context, id string, status domain.OfferStatus) error {
	ctx, span := store.tracer.Start(ctx, "OfferMongoDBStore.UpdateStatus")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.offers.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	return err
}

func (store *OfferMongoDBStore) filter(ctx context.Context, filter interface{}) ([]*domain.Offer, error) {
	cursor, err := store.offers.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var offers []*domain.Offer
	for cursor.Next(ctx) {
		var offer domain.Offer
		if err := cursor.Decode(&offer); err != nil {
			return nil, err
		}
		offers = append(offers, &offer)
	}
	return offers, cursor.Err()
}

func (store *OfferMongoDBStore) filterOne(ctx context.Context, filter interface{}) (offer *domain.Offer, err error) {
	result := store.offers.FindOne(ctx, filter)
	err = result.Decode(&offer)
	return
}
