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

const (
	CHAT_COLLECTION         = "chats"
	CHAT_MESSAGE_COLLECTION = "chatMessages"
)

type ChatMongoDBStore struct {
	chats    *mongo.Collection
	messages *mongo.Collection
	tracer   trace.Tracer
}

func NewChatMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ChatStore {
	database := client.Database(DATABASE)
	return &ChatMongoDBStore{
		chats:    database.Collection(CHAT_COLLECTION),
		messages: database.Collection(CHAT_MESSAGE_COLLECTION),
		tracer:   tracer,
	}
}

func (store *ChatMongoDBStore) FindOrCreate(ctx context.Context, userA, userB string) (*domain.Chat, error) {
	ctx, span := store.tracer.Start(ctx, "ChatMongoDBStore.FindOrCreate")
	defer span.End()

	key := chatKey(userA, userB)

	result := store.chats.FindOne(ctx, bson.M{"key": key})
	var existing *domain.Chat
	err := result.Decode(&existing)
	if err == nil {
		return existing, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	chat := &domain.Chat{
		ID:           primitive.NewObjectID(),
		Key:          key,
		Participants: []string{userA, userB},
		CreatedAt:    time.Now(),
	}
	if _, err := store.chats.InsertOne(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

func (store *ChatMongoDBStore) Get(ctx context.Context, id string) (*domain.Chat, error) {
	ctx, span := store.tracer.Start(ctx, "ChatMongoDBStore.Get")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	result := store.chats.FindOne(ctx, bson.M{"_id": objectID})
	var chat *domain.Chat
	err = result.Decode(&chat)
	return chat, err
}

func (store *ChatMongoDBStore) GetByParticipant(ctx context.Context, userID string) ([]*domain.Chat, error) {
	ctx, span := store.tracer.Start(ctx, "ChatMongoDBStore.GetByParticipant")
	defer span.End()

	cursor, err := store.chats.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var chats []*domain.Chat
	for cursor.Next(ctx) {
		var chat domain.Chat
		if err := cursor.Decode(&chat); err != nil {
			return nil, err
		}
		chats = append(chats, &chat)
	}
	return chats, cursor.Err()
}

func (store *ChatMongoDBStore) CreateMessage(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	ctx, span := store.tracer.Start(ctx, "ChatMongoDBStore.CreateMessage")
	defer span.End()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()
	result, err := store.messages.InsertOne(ctx, message)
	if err != nil {
		return nil, err
	}
	message.ID = result.InsertedID.(primitive.ObjectID)
	return message, nil
}

func (store *ChatMongoDBStore) GetMessages(ctx context.Context, chatID string) ([]*domain.ChatMessage, error) {
	ctx, span := store.tracer.Start(ctx, "ChatMongoDBStore.GetMessages")
	defer span.End()

	cursor, err := store.messages.Find(ctx, bson.M{"chatId": chatID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var messages []*domain.ChatMessage
	for cursor.Next(ctx) {
		var message domain.ChatMessage
		if err := cursor.Decode(&message); err != nil {
			return nil, err
		}
		messages = append(messages, &message)
	}
	return messages, cursor.Err()
}

// Order-independent key so (a,b) and (b,a) map to the same chat.
func chatKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + ":" + userB
}
