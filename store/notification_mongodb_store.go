package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

const NOTIFICATION_COLLECTION = "notifications"

type NotificationMongoDBStore struct {
	notifications *mongo.Collection
	tracer        trace.Tracer
}

func NewNotificationMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.NotificationStore {
	notifications := client.Database(DATABASE).Collection(NOTIFICATION_COLLECTION)
	return &NotificationMongoDBStore{
		notifications: notifications,
		tracer:        tracer,
	}
}

func (store *NotificationMongoDBStore) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.Create")
	defer span.End()

	notification.ID = primitive.NewObjectID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	result, err := store.notifications.InsertOne(ctx, notification)
	if err != nil {
		return nil, err
	}
	notification.ID = result.InsertedID.(primitive.ObjectID)
	return notification, nil
}

// CreateMany is one atomic batched write. The chunking into batches of
// domain.BatchLimit happens in the service layer; this method refuses
// anything larger.
func (store *NotificationMongoDBStore) CreateMany(ctx context.Context, notifications []*domain.Notification) error {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.CreateMany")
	defer span.End()

	if len(notifications) == 0 {
		return nil
	}
	if len(notifications) > domain.BatchLimit {
		return fmt.Errorf("batch of %d exceeds the %d write limit", len(notifications), domain.BatchLimit)
	}

	now := time.Now()
	models := make([]mongo.WriteModel, 0, len(notifications))
	for _, notification := range notifications {
		notification.ID = primitive.NewObjectID()
		if notification.CreatedAt.IsZero() {
			notification.CreatedAt = now
		}
		models = append(models, mongo.NewInsertOneModel().SetDocument(notification))
	}

	_, err := store.notifications.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true))
	return err
}

func (store *NotificationMongoDBStore) GetByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.GetByUser")
	defer span.End()

	sortSpec := bson.D{{Key: "createdAt", Value: -1}}
	cursor, fallback, err := findOrdered(ctx, store.notifications, bson.M{"userId": userID}, sortSpec)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications, err := decodeNotifications(ctx, cursor)
	if err != nil {
		return nil, err
	}
	if fallback {
		sortNotificationsByCreatedAt(notifications)
	}
	return notifications, nil
}

func (store *NotificationMongoDBStore) MarkRead(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.MarkRead")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.notifications.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"read": true}})
	return err
}

// Watch feeds the live notification listener from a change stream of
// inserts addressed to the user.
func (store *NotificationMongoDBStore) Watch(ctx context.Context, userID string) (<-chan *domain.Notification, error) {
	ctx, span := store.tracer.Start(ctx, "NotificationMongoDBStore.Watch")
	defer span.End()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"operationType":       "insert",
			"fullDocument.userId": userID,
		}}},
	}

	stream, err := store.notifications.Watch(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	out := make(chan *domain.Notification)
	go func() {
		defer close(out)
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			var event struct {
				FullDocument domain.Notification `bson:"fullDocument"`
			}
			if err := stream.Decode(&event); err != nil {
				continue
			}
			notification := event.FullDocument
			select {
			case out <- &notification:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func decodeNotifications(ctx context.Context, cursor *mongo.Cursor) (notifications []*domain.Notification, err error) {
	for cursor.Next(ctx) {
		var notification domain.Notification
		err = cursor.Decode(&notification)
		if err != nil {
			return
		}
		notifications = append(notifications, &notification)
	}
	err = cursor.Err()
	return
}

func sortNotificationsByCreatedAt(notifications []*domain.Notification) {
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})
}
