package domain

import "context"

type ListingStore interface {
	Create(ctx context.Context, listing *Listing) (*Listing, error)
	Get(ctx context.Context, id string) (*Listing, error)
	// GetAll applies the ordered query first and falls back to an
	// unordered query with an in-memory sort when ordering fails.
	GetAll(ctx context.Context, filter ListingFilter, options ListingOptions) ([]*Listing, error)
	Update(ctx context.Context, listing *Listing) error
	UpdateImages(ctx context.Context, id string, urls []string) error
	Delete(ctx context.Context, id string) error
}

type OfferStore interface {
	Create(ctx context.Context, offer *Offer) (*Offer, error)
	Get(ctx context.Context, id string) (*Offer, error)
	GetByListing(ctx context.Context, listingID string) ([]*Offer, error)
	GetByBuyer(ctx context.Context, buyerID string) ([]*Offer, error)
	GetBySeller(ctx context.Context, sellerID string) ([]*Offer, error)
	UpdateStatus(ctx context.Context, id string, status OfferStatus) error
}
