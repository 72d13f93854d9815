package domain

import "context"

type SupportStore interface {
	CreateTicket(ctx context.Context, ticket *SupportTicket) (*SupportTicket, error)
	GetTicket(ctx context.Context, id string) (*SupportTicket, error)
	GetTicketsByUser(ctx context.Context, userID string) ([]*SupportTicket, error)
	GetAllTickets(ctx context.Context) ([]*SupportTicket, error)
	UpdateTicketStatus(ctx context.Context, id string, status TicketStatus) error
	CreateReply(ctx context.Context, reply *TicketReply) (*TicketReply, error)
	GetReplies(ctx context.Context, ticketID string) ([]*TicketReply, error)
	// DeleteTicket removes the replies first, then the ticket document.
	// The two steps are not atomic.
	DeleteTicket(ctx context.Context, id string) error
}

type ChatStore interface {
	// FindOrCreate returns the existing chat for the participant pair or
	// creates one. The key is order-independent.
	FindOrCreate(ctx context.Context, userA, userB string) (*Chat, error)
	Get(ctx context.Context, id string) (*Chat, error)
	GetByParticipant(ctx context.Context, userID string) ([]*Chat, error)
	CreateMessage(ctx context.Context, message *ChatMessage) (*ChatMessage, error)
	GetMessages(ctx context.Context, chatID string) ([]*ChatMessage, error)
}
