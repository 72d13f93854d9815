package application

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

// ConfirmationThreshold is the audience size above which a bulk send
// halts before any write and waits for explicit operator confirmation.
const ConfirmationThreshold = 500

type NotificationService struct {
	store       domain.NotificationStore
	users       domain.UserStore
	providers   domain.ProviderStore
	deadLetters domain.DeadLetterStore
	names       domain.NameCache
	mailer      Mailer
	cb          *gobreaker.CircuitBreaker
	logger      *logrus.Logger
	tracer      trace.Tracer
}

func NewNotificationService(store domain.NotificationStore, users domain.UserStore, providers domain.ProviderStore,
	deadLetters domain.DeadLetterStore, names domain.NameCache, mailer Mailer, logger *logrus.Logger, tracer trace.Tracer) *NotificationService {
	return &NotificationService{
		store:       store,
		users:       users,
		providers:   providers,
		deadLetters: deadLetters,
		names:       names,
		mailer:      mailer,
		cb:          CircuitBreaker("notificationService"),
		logger:      logger,
		tracer:      tracer,
	}
}

// Dispatch writes one notification document addressed to a user. The
// e-mail side channel is best effort: a mail failure lands in the dead
// letter log and never fails the dispatch.
func (service *NotificationService) Dispatch(ctx context.Context, notification *domain.Notification) error {
	ctx, span := service.tracer.Start(ctx, "NotificationService.Dispatch")
	defer span.End()

	if notification.Type == "" {
		notification.Type = domain.ToneInfo
	}
	notification.Read = false
	notification.CreatedAt = time.Now()

	if _, err := service.store.Create(ctx, notification); err != nil {
		service.logger.Printf("Error creating notification for %s: %v", notification.UserID, err)
		return fmt.Errorf("failed to create notification: %v", err)
	}

	service.sendMailBestEffort(ctx, notification)
	return nil
}

func (service *NotificationService) sendMailBestEffort(ctx context.Context, notification *domain.Notification) {
	_, err := service.cb.Execute(func() (interface{}, error) {
		user, err := service.users.Get(ctx, notification.UserID)
		if err != nil {
			return nil, err
		}
		email := strings.TrimSpace(user.Email)
		if email == "" {
			return nil, fmt.Errorf("empty email address for user %s", notification.UserID)
		}
		return nil, service.mailer.Send(email, notification.Title, notification.Message)
	})
	if err != nil {
		service.deadLetter(ctx, "notification.mail", notification.UserID, err)
	}
}

func (service *NotificationService) GetByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	ctx, span := service.tracer.Start(ctx, "NotificationService.GetByUser")
	defer span.End()

	return service.store.GetByUser(ctx, userID)
}

func (service *NotificationService) MarkRead(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "NotificationService.MarkRead")
	defer span.End()

	return service.store.MarkRead(ctx, id)
}

func (service *NotificationService) Watch(ctx context.Context, userID string) (<-chan *domain.Notification, error) {
	return service.store.Watch(ctx, userID)
}

// ResolveDisplayName is the single read-through name lookup every
// consumer goes through. Cache misses fall back to the user store and
// repopulate the cache with its TTL.
func (service *NotificationService) ResolveDisplayName(ctx context.Context, userID string) (string, error) {
	ctx, span := service.tracer.Start(ctx, "NotificationService.ResolveDisplayName")
	defer span.End()

	if name, err := service.names.Get(ctx, userID); err == nil && name != "" {
		return name, nil
	}

	user, err := service.users.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	name := strings.TrimSpace(user.FirstName + " " + user.LastName)

	if err := service.names.Set(ctx, userID, name); err != nil {
		log.Printf("name cache set failed for %s: %v", userID, err)
	}
	return name, nil
}

// BulkSend resolves the audience, gates oversized sends behind an
// explicit confirmation, then commits recipients in atomic batches of
// domain.BatchLimit. Progress is reported after every committed batch.
// A failed batch aborts the remainder; committed batches stay.
func (service *NotificationService) BulkSend(ctx context.Context, request *domain.BulkNotificationRequest, confirmed bool, progress func(domain.BulkProgress)) (*domain.BulkResult, error) {
	ctx, span := service.tracer.Start(ctx, "NotificationService.BulkSend")
	defer span.End()

	recipients, err := service.resolveAudience(ctx, request)
	if err != nil {
		return nil, err
	}

	total := len(recipients)
	if total > ConfirmationThreshold && !confirmed {
		return nil, &domain.ConfirmationRequiredError{Recipients: total}
	}

	tone := request.Type
	if tone == "" {
		tone = domain.ToneInfo
	}

	result := &domain.BulkResult{Recipients: total}
	for start := 0; start < total; start += domain.BatchLimit {
		end := start + domain.BatchLimit
		if end > total {
			end = total
		}

		batch := make([]*domain.Notification, 0, end-start)
		for _, userID := range recipients[start:end] {
			batch = append(batch, &domain.Notification{
				UserID:  userID,
				Title:   request.Title,
				Message: request.Message,
				Type:    tone,
				Link:    request.Link,
			})
		}

		if err := service.store.CreateMany(ctx, batch); err != nil {
			service.logger.Printf("Bulk send aborted after %d of %d: %v", result.Sent, total, err)
			return result, fmt.Errorf("bulk send failed at batch %d: %v", result.Batches+1, err)
		}

		result.Batches++
		result.Sent = end
		if progress != nil {
			progress(domain.BulkProgress{Sent: result.Sent, Total: total})
		}
	}

	return result, nil
}

func (service *NotificationService) resolveAudience(ctx context.Context, request *domain.BulkNotificationRequest) ([]string, error) {
	switch request.Audience {
	case domain.AudienceAllUsers:
		users, err := service.users.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(users))
		for _, user := range users {
			ids = append(ids, user.ID.Hex())
		}
		return ids, nil
	case domain.AudienceAllProviders:
		providers, err := service.providers.GetApproved(ctx)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(providers))
		for _, provider := range providers {
			ids = append(ids, provider.UserID)
		}
		return ids, nil
	case domain.AudienceSingleUser:
		if request.TargetID == "" {
			return nil, fmt.Errorf("single-uid audience requires a target id")
		}
		return []string{request.TargetID}, nil
	default:
		return nil, fmt.Errorf("unknown audience %q", request.Audience)
	}
}

func (service *NotificationService) deadLetter(ctx context.Context, operation, detail string, cause error) {
	letter := &domain.DeadLetter{
		Operation: operation,
		Detail:    detail,
		Error:     cause.Error(),
	}
	if err := service.deadLetters.Create(ctx, letter); err != nil {
		service.logger.Printf("dead letter write failed for %s: %v", operation, err)
	}
}

func (service *NotificationService) DeadLetters(ctx context.Context) ([]*domain.DeadLetter, error) {
	return service.deadLetters.GetAll(ctx)
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit Breaker '%s' changed from '%s' to '%s'\n", name, from, to)
			},
		},
	)
}
