package domain

import "context"

type ReviewStore interface {
	// Create inserts the review inside a transaction that re-checks the
	// one-review-per-(author, target, targetType) rule, so concurrent
	// submissions cannot both pass the existence check.
	Create(ctx context.Context, review *Review) (*Review, error)
	GetByTarget(ctx context.Context, targetType, targetID string) ([]*Review, error)
	GetByAuthor(ctx context.Context, authorID string) ([]*Review, error)
	Delete(ctx context.Context, id string) error
}
