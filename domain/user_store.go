package domain

import "context"

type UserStore interface {
	Register(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	UpdateSuspended(ctx context.Context, id string, suspended bool) error
	Delete(ctx context.Context, id string) error
}

type ProviderStore interface {
	Create(ctx context.Context, provider *ServiceProvider) (*ServiceProvider, error)
	Get(ctx context.Context, id string) (*ServiceProvider, error)
	GetApproved(ctx context.Context) ([]*ServiceProvider, error)
	GetApprovedByServiceType(ctx context.Context, serviceType string) ([]*ServiceProvider, error)
	// SetApproval writes isApproved and the legacy approved flag in one
	// update document.
	SetApproval(ctx context.Context, id string, approved bool, rejectedReason string) error
}

type PropertyStore interface {
	Create(ctx context.Context, property *Property) (*Property, error)
	Get(ctx context.Context, id string) (*Property, error)
	GetByOwner(ctx context.Context, ownerID string) ([]*Property, error)
	GetByStatus(ctx context.Context, status PropertyStatus) ([]*Property, error)
	UpdateStatus(ctx context.Context, id string, status PropertyStatus) error
	Delete(ctx context.Context, id string) error
}

// NameCache is the read-through cache behind resolveDisplayName.
// Entries expire on a TTL, there is no unbounded in-process map.
type NameCache interface {
	Get(ctx context.Context, userID string) (string, error)
	Set(ctx context.Context, userID string, name string) error
}
