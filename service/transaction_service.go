package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	errs "estately_service/errors"
)

var (
	ErrInvalidAmount            = errors.New(errs.InvalidAmountError)
	ErrInvalidTransactionStatus = errors.New(errs.InvalidTransactionStatus)
)

type TransactionService struct {
	transactions domain.TransactionStore
	requests     domain.RequestStore
	notifier     *NotificationService
	logger       *logrus.Logger
	tracer       trace.Tracer
}

func NewTransactionService(transactions domain.TransactionStore, requests domain.RequestStore,
	notifier *NotificationService, logger *logrus.Logger, tracer trace.Tracer) *TransactionService {
	return &TransactionService{
		transactions: transactions,
		requests:     requests,
		notifier:     notifier,
		logger:       logger,
		tracer:       tracer,
	}
}

func (service *TransactionService) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx, span := service.tracer.Start(ctx, "TransactionService.Create")
	defer span.End()

	if transaction.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if transaction.UserID == "" || transaction.TargetID == "" || transaction.TargetType == "" {
		return nil, &ValidationError{Message: "userId, targetType and targetId are required"}
	}
	if transaction.Status == "" {
		transaction.Status = domain.TransactionPending
	}
	if !transaction.Status.IsValid() {
		return nil, ErrInvalidTransactionStatus
	}
	if transaction.Currency == "" {
		transaction.Currency = "USD"
	}

	transaction.CreatedAt = time.Now()
	transaction.UpdatedAt = transaction.CreatedAt

	created, err := service.transactions.Create(ctx, transaction)
	if err != nil {
		service.logger.Printf("Error creating transaction: %v", err)
		return nil, fmt.Errorf("failed to create transaction: %v", err)
	}
	return created, nil
}

func (service *TransactionService) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	ctx, span := service.tracer.Start(ctx, "TransactionService.Get")
	defer span.End()

	return service.transactions.Get(ctx, id)
}

func (service *TransactionService) GetByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	ctx, span := service.tracer.Start(ctx, "TransactionService.GetByUser")
	defer span.End()

	return service.transactions.GetByUser(ctx, userID)
}

func (service *TransactionService) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	ctx, span := service.tracer.Start(ctx, "TransactionService.UpdateStatus")
	defer span.End()

	if !status.IsValid() {
		return ErrInvalidTransactionStatus
	}
	if err := service.transactions.UpdateStatus(ctx, id, status); err != nil {
		service.logger.Printf("Error updating transaction %s: %v", id, err)
		return fmt.Errorf("failed to update transaction status: %v", err)
	}
	return nil
}

// UpdateRequestStatusOnPayment derives the next request status from the
// payment mapping and writes only when it differs from the current one,
// so a second call with the same arguments is a no-op. It runs as a
// side effect of a payment that already succeeded, so failures are
// logged and dead-lettered, never surfaced.
func (service *TransactionService) UpdateRequestStatusOnPayment(ctx context.Context, targetType domain.RequestType, targetID string) {
	ctx, span := service.tracer.Start(ctx, "TransactionService.UpdateRequestStatusOnPayment")
	defer span.End()

	request, err := service.requests.Get(ctx, targetID)
	if err != nil {
		service.logger.Printf("Payment hook read failed for %s: %v", targetID, err)
		service.notifier.deadLetter(ctx, "transaction.paymentHook", targetID, err)
		return
	}

	next := domain.StatusAfterPayment(targetType, request.Status)
	if next == request.Status {
		return
	}

	request.Status = next
	request.UpdatedAt = time.Now()
	if err := service.requests.Update(ctx, request); err != nil {
		service.logger.Printf("Payment hook write failed for %s: %v", targetID, err)
		service.notifier.deadLetter(ctx, "transaction.paymentHook", targetID, err)
	}
}
