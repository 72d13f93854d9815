package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	errs "estately_service/errors"
)

var (
	ErrInvalidTransition = errors.New(errs.InvalidStatusTransition)
	ErrTerminalStatus    = errors.New(errs.TerminalStatusError)
)

// RequestService carries the lifecycle shared by rental, buy/sell,
// construction and renovation requests. Each type keeps its own
// transition table in domain; the orchestration here is common.
type RequestService struct {
	requests  domain.RequestStore
	providers domain.ProviderStore
	chats     domain.ChatStore
	notifier  *NotificationService
	logger    *logrus.Logger
	tracer    trace.Tracer
}

func NewRequestService(requests domain.RequestStore, providers domain.ProviderStore, chats domain.ChatStore,
	notifier *NotificationService, logger *logrus.Logger, tracer trace.Tracer) *RequestService {
	return &RequestService{
		requests:  requests,
		providers: providers,
		chats:     chats,
		notifier:  notifier,
		logger:    logger,
		tracer:    tracer,
	}
}

func (service *RequestService) Create(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	ctx, span := service.tracer.Start(ctx, "RequestService.Create")
	defer span.End()

	if err := request.Validate(); err != nil {
		return nil, err
	}
	if (request.Type == domain.ConstructionRequest || request.Type == domain.RenovationRequest) && request.ServiceType == "" {
		return nil, &ValidationError{Message: "ServiceType is required for construction and renovation requests"}
	}

	request.Status = domain.StatusPending
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt

	created, err := service.requests.Create(ctx, request)
	if err != nil {
		service.logger.Printf("Error creating %s: %v", request.Type.Label(), err)
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  created.UserID,
		Title:   "Request submitted",
		Message: fmt.Sprintf("Your %s %s.", created.Type.Label(), domain.NoticeFor(domain.StatusPending).Fragment),
		Type:    domain.ToneInfo,
		Link:    requestLink(created),
	})

	// Construction and renovation requests without a pre-selected
	// provider fan out to every approved provider of the service type.
	if created.ProviderID == "" &&
		(created.Type == domain.ConstructionRequest || created.Type == domain.RenovationRequest) {
		service.fanOutToProviders(ctx, created)
	}

	return created, nil
}

// fanOutToProviders notifies each approved provider individually.
// Failures are captured per provider so one failed write never blocks
// the rest; they land in the dead letter log.
func (service *RequestService) fanOutToProviders(ctx context.Context, request *domain.Request) {
	providers, err := service.providers.GetApprovedByServiceType(ctx, request.ServiceType)
	if err != nil {
		service.logger.Printf("Provider fan-out lookup failed for %s: %v", request.ID.Hex(), err)
		service.notifier.deadLetter(ctx, "request.fanout", request.ID.Hex(), err)
		return
	}

	var wg sync.WaitGroup
	for _, provider := range providers {
		provider := provider
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := service.notifier.Dispatch(ctx, &domain.Notification{
				UserID:  provider.UserID,
				Title:   "New service request",
				Message: fmt.Sprintf("A new %s is available in your service area.", request.Type.Label()),
				Type:    domain.ToneInfo,
				Link:    requestLink(request),
			})
			if err != nil {
				service.logger.Printf("Fan-out to provider %s failed: %v", provider.UserID, err)
				service.notifier.deadLetter(ctx, "request.fanout", provider.UserID, err)
			}
		}()
	}
	wg.Wait()
}

func (service *RequestService) Get(ctx context.Context, id string) (*domain.Request, error) {
	ctx, span := service.tracer.Start(ctx, "RequestService.Get")
	defer span.End()

	return service.requests.Get(ctx, id)
}

func (service *RequestService) GetByUser(ctx context.Context, requestType domain.RequestType, userID string) ([]*domain.Request, error) {
	ctx, span := service.tracer.Start(ctx, "RequestService.GetByUser")
	defer span.End()

	return service.requests.GetByUser(ctx, requestType, userID)
}

func (service *RequestService) GetByProvider(ctx context.Context, requestType domain.RequestType, providerID string) ([]*domain.Request, error) {
	ctx, span := service.tracer.Start(ctx, "RequestService.GetByProvider")
	defer span.End()

	return service.requests.GetByProvider(ctx, requestType, providerID)
}

// UpdateStatus re-reads the document, checks the transition against the
// type's table (terminal statuses have no outgoing transitions at all),
// writes the new status and notifies the parties. The guard lives here,
// not in the UI.
func (service *RequestService) UpdateStatus(ctx context.Context, id string, newStatus domain.RequestStatus) (*domain.Request, error) {
	ctx, span := service.tracer.Start(ctx, "RequestService.UpdateStatus")
	defer span.End()

	request, err := service.requests.Get(ctx, id)
	if err != nil {
		service.logger.Printf("Error reading request %s: %v", id, err)
		return nil, fmt.Errorf("failed to read request: %v", err)
	}

	if request.Status.IsTerminal() {
		return nil, ErrTerminalStatus
	}
	if !request.Type.CanTransition(request.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	request.Status = newStatus
	request.UpdatedAt = time.Now()

	// An accepted construction or renovation request opens a 1:1 chat
	// between requester and provider. Chat creation failure never
	// blocks the status update.
	chatID := ""
	if newStatus == domain.StatusAccepted && request.ProviderID != "" &&
		(request.Type == domain.ConstructionRequest || request.Type == domain.RenovationRequest) {
		chat, err := service.chats.FindOrCreate(ctx, request.UserID, request.ProviderID)
		if err != nil {
			service.logger.Printf("Chat creation failed for request %s: %v", id, err)
			service.notifier.deadLetter(ctx, "request.chat", id, err)
		} else {
			chatID = chat.ID.Hex()
			request.ChatID = chatID
		}
	}

	if err := service.requests.Update(ctx, request); err != nil {
		service.logger.Printf("Error updating request %s: %v", id, err)
		return nil, fmt.Errorf("failed to update request status: %v", err)
	}

	notice := domain.NoticeFor(newStatus)
	link := requestLink(request)
	if chatID != "" {
		link = link + "?chat=" + chatID
	}

	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  request.UserID,
		Title:   "Request updated",
		Message: fmt.Sprintf("Your %s %s.", request.Type.Label(), notice.Fragment),
		Type:    notice.Tone,
		Link:    link,
	})

	if request.ProviderID != "" && providerRelevant(newStatus) {
		service.notifyBestEffort(ctx, &domain.Notification{
			UserID:  request.ProviderID,
			Title:   "Request updated",
			Message: fmt.Sprintf("A %s assigned to you %s.", request.Type.Label(), notice.Fragment),
			Type:    notice.Tone,
			Link:    link,
		})
	}

	return request, nil
}

func (service *RequestService) Delete(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "RequestService.Delete")
	defer span.End()

	if err := service.requests.Delete(ctx, id); err != nil {
		service.logger.Printf("Error deleting request %s: %v", id, err)
		return fmt.Errorf("failed to delete request: %v", err)
	}
	return nil
}

func (service *RequestService) notifyBestEffort(ctx context.Context, notification *domain.Notification) {
	if err := service.notifier.Dispatch(ctx, notification); err != nil {
		service.logger.Printf("Notification to %s failed: %v", notification.UserID, err)
		service.notifier.deadLetter(ctx, "request.notify", notification.UserID, err)
	}
}

func providerRelevant(status domain.RequestStatus) bool {
	switch status {
	case domain.StatusAccepted, domain.StatusPaid, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled:
		return true
	}
	return false
}

func requestLink(request *domain.Request) string {
	return fmt.Sprintf("/requests/%s/%s", request.Type, request.ID.Hex())
}

type ValidationError struct {
	Message string `json:"message"`
}

func (v *ValidationError) Error() string {
	return v.Message
}
