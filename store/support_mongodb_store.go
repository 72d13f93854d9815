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
	TICKET_COLLECTION = "supportTickets"
	REPLY_COLLECTION  = "supportReplies"
)

type SupportMongoDBStore struct {
	tickets *mongo.Collection
	replies *mongo.Collection
	tracer  trace.Tracer
}

func NewSupportMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.SupportStore {
	database := client.Database(DATABASE)
	return &SupportMongoDBStore{
		tickets: database.Collection(TICKET_COLLECTION),
		replies: database.Collection(REPLY_COLLECTION),
		tracer:  tracer,
	}
}

func (store *SupportMongoDBStore) CreateTicket(ctx context.Context, ticket *domain.SupportTicket) (*domain.SupportTicket, error) {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.CreateTicket")
	defer span.End()

	ticket.ID = primitive.NewObjectID()
	result, err := store.tickets.InsertOne(ctx, ticket)
	if err != nil {
		return nil, err
	}
	ticket.ID = result.InsertedID.(primitive.ObjectID)
	return ticket, nil
}

func (store *SupportMongoDBStore) GetTicket(ctx context.Context, id string) (*domain.SupportTicket, error) {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.GetTicket")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	result := store.tickets.FindOne(ctx, bson.M{"_id": objectID})
	var ticket *domain.SupportTicket
	err = result.Decode(&ticket)
	return ticket, err
}

func (store *SupportMongoDBStore) GetTicketsByUser(ctx context.Context, userID string) ([]*domain.SupportTicket, error) {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.GetTicketsByUser")
	defer span.End()

	return store.filterTickets(ctx, bson.M{"userId": userID})
}

func (store *SupportMongoDBStore) GetAllTickets(ctx context.Context) ([]*domain.SupportTicket, error) {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.GetAllTickets")
	defer span.End()

	return store.filterTickets(ctx, bson.D{{}})
}

func (store *SupportMongoDBStore) UpdateTicketStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.UpdateTicketStatus")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = store.tickets.UpdateOne(ctx, bson.M{"_id": objectID},
		bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}})
	return err
}

func (store *SupportMongoDBStore) CreateReply(ctx context.Context, reply *domain.TicketReply) (*domain.TicketReply, error) {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.CreateReply")
	defer span.End()

	reply.ID = primitive.NewObjectID()
	result, err := store.replies.InsertOne(ctx, reply)
	if err != nil {
		return nil, err
	}
	reply.ID = result.InsertedID.(primitive.ObjectID)
	return reply, nil
}

func (store *SupportMongoDBStore) GetReplies(ctx context.Context, ticketID string) ([]*domain.TicketReply, error) {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.GetReplies")
	defer span.End()

	cursor, err := store.replies.Find(ctx, bson.M{"ticketId": ticketID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var replies []*domain.TicketReply
	for cursor.Next(ctx) {
		var reply domain.TicketReply
		if err := cursor.Decode(&reply); err != nil {
			return nil, err
		}
		replies = append(replies, &reply)
	}
	return replies, cursor.Err()
}

// Replies go first, then the ticket. A crash in between leaves an
// orphaned ticket without replies, never orphaned replies.
func (store *SupportMongoDBStore) DeleteTicket(ctx context.Context, id string) error {
	ctx, span := store.tracer.Start(ctx, "SupportMongoDBStore.DeleteTicket")
	defer span.End()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	if _, err := store.replies.DeleteMany(ctx, bson.M{"ticketId": id}); err != nil {
		return err
	}
	_, err = store.tickets.DeleteOne(ctx, bson.M{"_id": objectID})
	return err
}

func (store *SupportMongoDBStore) filterTickets(ctx context.Context, filter interface{}) ([]*domain.SupportTicket, error) {
	cursor, err := store.tickets.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tickets []*domain.SupportTicket
	for cursor.Next(ctx) {
		var ticket domain.SupportTicket
		if err := cursor.Decode(&ticket); err != nil {
			return nil, err
		}
		tickets = append(tickets, &ticket)
	}
	return tickets, cursor.Err()
}
