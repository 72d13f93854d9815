package domain

import "context"

// BatchLimit is the write-batch ceiling of the store. CreateMany must
// never be called with more documents than this.
const BatchLimit = 500

type NotificationStore interface {
	Create(ctx context.Context, notification *Notification) (*Notification, error)
	// CreateMany commits up to BatchLimit documents as one atomic
	// batched write.
	CreateMany(ctx context.Context, notifications []*Notification) error
	GetByUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
	// Watch delivers notifications for the user as they are inserted,
	// until the context is cancelled.
	Watch(ctx context.Context, userID string) (<-chan *Notification, error)
}

type DeadLetterStore interface {
	Create(ctx context.Context, letter *DeadLetter) error
	GetAll(ctx context.Context) ([]*DeadLetter, error)
}
