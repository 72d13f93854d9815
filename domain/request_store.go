package domain

import "context"

type RequestStore interface {
	Create(ctx context.Context, request *Request) (*Request, error)
	Get(ctx context.Context, id string) (*Request, error)
	GetByUser(ctx context.Context, requestType RequestType, userID string) ([]*Request, error)
	GetByProvider(ctx context.Context, requestType RequestType, providerID string) ([]*Request, error)
	Update(ctx context.Context, request *Request) error
	Delete(ctx context.Context, id string) error
}
