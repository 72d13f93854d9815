package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

type SupportService struct {
	tickets  domain.SupportStore
	chats    domain.ChatStore
	notifier *NotificationService
	logger   *logrus.Logger
	tracer   trace.Tracer
}

func NewSupportService(tickets domain.SupportStore, chats domain.ChatStore,
	notifier *NotificationService, logger *logrus.Logger, tracer trace.Tracer) *SupportService {
	return &SupportService{
		tickets:  tickets,
		chats:    chats,
		notifier: notifier,
		logger:   logger,
		tracer:   tracer,
	}
}

func (service *SupportService) CreateTicket(ctx context.Context, ticket *domain.SupportTicket) (*domain.SupportTicket, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.CreateTicket")
	defer span.End()

	if ticket.UserID == "" || ticket.Subject == "" || ticket.Message == "" {
		return nil, &ValidationError{Message: "userId, subject and message are required"}
	}

	ticket.Status = domain.TicketOpen
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt

	created, err := service.tickets.CreateTicket(ctx, ticket)
	if err != nil {
		service.logger.Printf("Error creating ticket: %v", err)
		return nil, fmt.Errorf("failed to create support ticket: %v", err)
	}
	return created, nil
}

func (service *SupportService) GetTicket(ctx context.Context, id string) (*domain.SupportTicket, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.GetTicket")
	defer span.End()

	return service.tickets.GetTicket(ctx, id)
}

func (service *SupportService) GetTicketsByUser(ctx context.Context, userID string) ([]*domain.SupportTicket, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.GetTicketsByUser")
	defer span.End()

	return service.tickets.GetTicketsByUser(ctx, userID)
}

func (service *SupportService) GetAllTickets(ctx context.Context) ([]*domain.SupportTicket, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.GetAllTickets")
	defer span.End()

	return service.tickets.GetAllTickets(ctx)
}

func (service *SupportService) CloseTicket(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "SupportService.CloseTicket")
	defer span.End()

	return service.tickets.UpdateTicketStatus(ctx, id, domain.TicketClosed)
}

// Reply appends to the ticket thread and notifies the ticket owner,
// best effort.
func (service *SupportService) Reply(ctx context.Context, reply *domain.TicketReply) (*domain.TicketReply, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.Reply")
	defer span.End()

	if reply.TicketID == "" || reply.AuthorID == "" || reply.Message == "" {
		return nil, &ValidationError{Message: "ticketId, authorId and message are required"}
	}

	ticket, err := service.tickets.GetTicket(ctx, reply.TicketID)
	if err != nil {
		return nil, fmt.Errorf("failed to read ticket: %v", err)
	}

	reply.CreatedAt = time.Now()
	created, err := service.tickets.CreateReply(ctx, reply)
	if err != nil {
		service.logger.Printf("Error creating reply: %v", err)
		return nil, fmt.Errorf("failed to create reply: %v", err)
	}

	if reply.AuthorID != ticket.UserID {
		err := service.notifier.Dispatch(ctx, &domain.Notification{
			UserID:  ticket.UserID,
			Title:   "Support reply",
			Message: fmt.Sprintf("Your ticket %q received a reply.", ticket.Subject),
			Type:    domain.ToneInfo,
			Link:    "/support/" + reply.TicketID,
		})
		if err != nil {
			service.logger.Printf("Reply notification failed: %v", err)
			service.notifier.deadLetter(ctx, "support.notify", ticket.UserID, err)
		}
	}

	return created, nil
}

func (service *SupportService) GetReplies(ctx context.Context, ticketID string) ([]*domain.TicketReply, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.GetReplies")
	defer span.End()

	return service.tickets.GetReplies(ctx, ticketID)
}

// DeleteTicket cascades to the reply documents; the store deletes them
// as a separate step before the ticket itself.
func (service *SupportService) DeleteTicket(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "SupportService.DeleteTicket")
	defer span.End()

	if err := service.tickets.DeleteTicket(ctx, id); err != nil {
		service.logger.Printf("Error deleting ticket %s: %v", id, err)
		return fmt.Errorf("failed to delete support ticket: %v", err)
	}
	return nil
}

func (service *SupportService) GetChats(ctx context.Context, userID string) ([]*domain.Chat, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.GetChats")
	defer span.End()

	return service.chats.GetByParticipant(ctx, userID)
}

func (service *SupportService) SendChatMessage(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.SendChatMessage")
	defer span.End()

	if message.ChatID == "" || message.SenderID == "" || message.Content == "" {
		return nil, &ValidationError{Message: "chatId, senderId and content are required"}
	}

	chat, err := service.chats.Get(ctx, message.ChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to read chat: %v", err)
	}

	created, err := service.chats.CreateMessage(ctx, message)
	if err != nil {
		service.logger.Printf("Error creating chat message: %v", err)
		return nil, fmt.Errorf("failed to send message: %v", err)
	}

	for _, participant := range chat.Participants {
		if participant == message.SenderID {
			continue
		}
		err := service.notifier.Dispatch(ctx, &domain.Notification{
			UserID:  participant,
			Title:   "New message",
			Message: "You have a new chat message.",
			Type:    domain.ToneInfo,
			Link:    "/chats/" + message.ChatID,
		})
		if err != nil {
			service.logger.Printf("Chat notification failed: %v", err)
			service.notifier.deadLetter(ctx, "support.chatNotify", participant, err)
		}
	}

	return created, nil
}

func (service *SupportService) GetChatMessages(ctx context.Context, chatID string) ([]*domain.ChatMessage, error) {
	ctx, span := service.tracer.Start(ctx, "SupportService.GetChatMessages")
	defer span.End()

	return service.chats.GetMessages(ctx, chatID)
}
