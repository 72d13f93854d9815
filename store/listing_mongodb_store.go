package store

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

const LISTING_COLLECTION = "marketplaceListings"

type ListingMongoDBStore struct {
	listings *mongo.Collection
	tracer   trace.Tracer
}

func NewListingMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ListingStore {
	listings := client.Database(DATABASE).Collection(LISTING_COLLECTION)
	return &ListingMongoDBStore{
		listings: listings,
		tracer:   tracer,
	}
}

func (store *ListingMongoDBStore) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingMongoDBStore.Create")
	defer span.End()

	listing.ID = primitive.NewObjectID()
	result, err := store.listings.InsertOne(ctx, listing)
	if err != nil {
		return nil, err
	}
	listing.ID = result.InsertedID.(primitive.ObjectID)
	return listing, nil
}

func (store *ListingMongoDBStore) Get(ctx context.Context, id string) (*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingMongoDBStore.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return store.filterOne(ctx, bson.M{"_id": objectID})
}

func (store *ListingMongoDBStore) GetAll(ctx context.Context, filter domain.ListingFilter, listOptions domain.ListingOptions) ([]*domain.Listing, error) {
	ctx, span := store.tracer.Start(ctx, "ListingMongoDBStore.GetAll")
	defer span.End()

	query := buildListingQuery(filter)

	var sortSpec interface{}
	if listOptions.OrderBy != "" {
		direction := 1
		if listOptions.Descending {
			direction = -1
		}
		sortSpec = bson.D{{Key: listOptions.OrderBy, Value: direction}}
	}

	cursor, fallback, err := findOrdered(ctx, store.listings, query, sortSpec)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	listings, err := decodeListings(ctx, cursor)
	if err != nil {
		return nil, err
	}
	if fallback {
		sortListings(listings, listOptions)
	}
	return listings, nil
}

func (store *ListingMongoDBStore) Update(ctx context.Context, listing *domain.Listing) error {
	ctx, span := store.tracer.Start(ctx, "ListingMongoDBStore.Update")
	defer span.End()

	listing.UpdatedAt = time.Now()
	_, err := store.listings.UpdateOne(ctx, bson.M{"_id": listing.ID}, bson.M{"$set": listing})
	return err
}

func (store *ListingMongoDBStore) UpdateImages(ctx context.Context, id string, urls []string) error {
	ctx, span := store.tracer.Start(ctx, "ListingMongoDBStore.UpdateImages")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.listings.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"images": urls, "updatedAt": time.Now()}})
	return err
}

func (store *ListingMongoDBStore) Delete(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "ListingMongoDBStore.Delete")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.listings.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

func buildListingQuery(filter domain.ListingFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.City != "" {
		query["city"] = filter.City
	}
	price := bson.M{}
	if filter.MinPrice > 0 {
		price["$gte"] = filter.MinPrice
	}
	if filter.MaxPrice > 0 {
		price["$lte"] = filter.MaxPrice
	}
	if len(price) > 0 {
		query["price"] = price
	}
	return query
}

func sortListings(listings []*domain.Listing, listOptions domain.ListingOptions) {
	less := func(i, j *domain.Listing) bool { return i.CreatedAt.Before(j.CreatedAt) }
	switch listOptions.OrderBy {
	case "price":
		less = func(i, j *domain.Listing) bool { return i.Price < j.Price }
	case "views":
		less = func(i, j *domain.Listing) bool { return i.Views < j.Views }
	}
	sort.Slice(listings, func(i, j int) bool {
		if listOptions.Descending {
			return less(listings[j], listings[i])
		}
		return less(listings[i], listings[j])
	})
}

func (store *ListingMongoDBStore) filterOne(ctx context.Context, filter interface{}) (listing *domain.Listing, err error) {
	result := store.listings.FindOne(ctx, filter)
	err = result.Decode(&listing)
	return
}

func decodeListings(ctx context.Context, cursor *mongo.Cursor) (listings []*domain.Listing, err error) {
	for cursor.Next(ctx) {
		var listing domain.Listing
		err = cursor.Decode(&listing)
		if err != nil {
			return
		}
		listings = append(listings, &listing)
	}
	err = cursor.Err()
	return
}
