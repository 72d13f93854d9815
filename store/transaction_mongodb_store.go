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

const TRANSACTION_COLLECTION = "transactions"

// Append-only: no delete method on purpose.
type TransactionMongoDBStore struct {
	transactions *mongo.Collection
	tracer       trace.Tracer
}

func NewTransactionMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.TransactionStore {
	transactions := client.Database(DATABASE).Collection(TRANSACTION_COLLECTION)
	return &TransactionMongoDBStore{
		transactions: transactions,
		tracer:       tracer,
	}
}

func (store *TransactionMongoDBStore) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := store.tracer.Start(ctx, "TransactionMongoDBStore.Create")
	defer span.End()

	transaction.ID = primitive.NewObjectID()
	result, err := store.transactions.InsertOne(ctx, transaction)
	if err != nil {
		return nil, err
	}
	transaction.ID = result.InsertedID.(primitive.ObjectID)
	return transaction, nil
}

func (store *TransactionMongoDBStore) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := store.tracer.Start(ctx, "TransactionMongoDBStore.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	result := store.transactions.FindOne(ctx, bson.M{"_id": objectID})
	var transaction *domain.Transaction
	err = result.Decode(&transaction)
	return transaction, err
}

func (store *TransactionMongoDBStore) GetByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	ctx, span := store.tracer.Start(ctx, "TransactionMongoDBStore.GetByUser")
	defer span.End()

	cursor, err := store.transactions.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []*domain.Transaction
	for cursor.Next(ctx) {
		var transaction domain.Transaction
		if err := cursor.Decode(&transaction); err != nil {
			return nil, err
		}
		transactions = append(transactions, &transaction)
	}
	return transactions, cursor.Err()
}

func (store *TransactionMongoDBStore) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	ctx, span := store.tracer.Start(ctx, "TransactionMongoDBStore.UpdateStatus")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.transactions.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	return err
}
