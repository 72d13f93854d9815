package domain

import "context"

type TransactionStore interface {
	Create(ctx context.Context, transaction *Transaction) (*Transaction, error)
	Get(ctx context.Context, id string) (*Transaction, error)
	GetByUser(ctx context.Context, userID string) ([]*Transaction, error)
	UpdateStatus(ctx context.Context, id string, status TransactionStatus) error
}
