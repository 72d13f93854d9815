package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SupportTicket struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    string             `bson:"userId" json:"userId"`
	Subject   string             `bson:"subject" json:"subject"`
	Message   string             `bson:"message" json:"message"`
	Status    TicketStatus       `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt,omitempty" json:"updatedAt"`
}

type TicketStatus string

const (
	TicketOpen   TicketStatus = "open"
	TicketClosed TicketStatus = "closed"
)

// Replies live in their own collection keyed by ticket id, mirroring a
// sub-collection. Deleting a ticket deletes its replies as a separate
// step, not atomically.
type TicketReply struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	TicketID  string             `bson:"ticketId" json:"ticketId"`
	AuthorID  string             `bson:"authorId" json:"authorId"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

// Chat is a 1:1 conversation between a requester and a provider,
// created on the first accepted construction or renovation request.
type Chat struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Key          string             `bson:"key" json:"key"`
	Participants []string           `bson:"participants" json:"participants"`
	CreatedAt    time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}

type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	ChatID    string             `bson:"chatId" json:"chatId"`
	SenderID  string             `bson:"senderId" json:"senderId"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt,omitempty" json:"createdAt"`
}
