package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
	errs "estately_service/errors"
)

var ErrInvalidOfferStatus = errors.New(errs.InvalidOfferStatus)

// BlobStorage is the contract the marketplace needs from the image
// store: upload by path, delete by prefix.
type BlobStorage interface {
	SaveListingImage(ctx context.Context, listingID, imageName string, content []byte) (string, error)
	DeleteListingImages(ctx context.Context, listingID string) error
}

type MarketplaceService struct {
	listings domain.ListingStore
	offers   domain.OfferStore
	blobs    BlobStorage
	notifier *NotificationService
	logger   *logrus.Logger
	tracer   trace.Tracer
}

func NewMarketplaceService(listings domain.ListingStore, offers domain.OfferStore, blobs BlobStorage,
	notifier *NotificationService, logger *logrus.Logger, tracer trace.Tracer) *MarketplaceService {
	return &MarketplaceService{
		listings: listings,
		offers:   offers,
		blobs:    blobs,
		notifier: notifier,
		logger:   logger,
		tracer:   tracer,
	}
}

// Create is a two-phase write: the document first, then the image
// uploads, then a patch with the resulting URLs. A crash between the
// phases leaves a valid listing without images, which the schema
// allows.
func (service *MarketplaceService) Create(ctx context.Context, listing *domain.Listing, images []domain.ImageUpload) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.Create")
	defer span.End()

	if err := listing.Validate(); err != nil {
		return nil, err
	}

	listing.Status = domain.ListingPending
	listing.Views = 0
	listing.Images = nil
	listing.CreatedAt = time.Now()
	listing.UpdatedAt = listing.CreatedAt

	created, err := service.listings.Create(ctx, listing)
	if err != nil {
		service.logger.Printf("Error creating listing: %v", err)
		return nil, fmt.Errorf("failed to create listing: %v", err)
	}

	if len(images) == 0 {
		return created, nil
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		imageName := uuid.NewString() + "-" + image.Name
		url, err := service.blobs.SaveListingImage(ctx, created.ID.Hex(), imageName, image.Content)
		if err != nil {
			service.logger.Printf("Image upload failed for listing %s: %v", created.ID.Hex(), err)
			continue
		}
		urls = append(urls, url)
	}

	if len(urls) > 0 {
		if err := service.listings.UpdateImages(ctx, created.ID.Hex(), urls); err != nil {
			service.logger.Printf("Image patch failed for listing %s: %v", created.ID.Hex(), err)
		} else {
			created.Images = urls
		}
	}

	return created, nil
}

// Get optionally bumps the views counter with a read-modify-write.
// Concurrent reads can lose updates; the count is approximate.
func (service *MarketplaceService) Get(ctx context.Context, id string, incrementViews bool) (*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.Get")
	defer span.End()

	listing, err := service.listings.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if incrementViews {
		listing.Views++
		if err := service.listings.Update(ctx, listing); err != nil {
			service.logger.Printf("View count update failed for %s: %v", id, err)
		}
	}
	return listing, nil
}

func (service *MarketplaceService) GetAll(ctx context.Context, filter domain.ListingFilter, options domain.ListingOptions) ([]*domain.Listing, error) {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.GetAll")
	defer span.End()

	return service.listings.GetAll(ctx, filter, options)
}

func (service *MarketplaceService) Update(ctx context.Context, listing *domain.Listing) error {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.Update")
	defer span.End()

	if err := listing.Validate(); err != nil {
		return err
	}
	if err := service.listings.Update(ctx, listing); err != nil {
		service.logger.Printf("Error updating listing %s: %v", listing.ID.Hex(), err)
		return fmt.Errorf("failed to update listing: %v", err)
	}
	return nil
}

// Delete removes the blobs first, tolerating individual failures, then
// the document.
func (service *MarketplaceService) Delete(ctx context.Context, id string) error {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.Delete")
	defer span.End()

	if err := service.blobs.DeleteListingImages(ctx, id); err != nil {
		service.logger.Printf("Image cleanup failed for listing %s: %v", id, err)
	}
	if err := service.listings.Delete(ctx, id); err != nil {
		service.logger.Printf("Error deleting listing %s: %v", id, err)
		return fmt.Errorf("failed to delete listing: %v", err)
	}
	return nil
}

func (service *MarketplaceService) CreateOffer(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.CreateOffer")
	defer span.End()

	if err := offer.Validate(); err != nil {
		return nil, err
	}

	offer.Status = domain.OfferPending
	offer.CreatedAt = time.Now()
	offer.UpdatedAt = offer.CreatedAt

	created, err := service.offers.Create(ctx, offer)
	if err != nil {
		service.logger.Printf("Error creating offer: %v", err)
		return nil, fmt.Errorf("failed to create offer: %v", err)
	}

	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  created.SellerID,
		Title:   "New offer received",
		Message: fmt.Sprintf("You received an offer of %.2f on your listing.", created.OfferAmount),
		Type:    domain.ToneInfo,
		Link:    "/marketplace/" + created.ListingID,
	})

	return created, nil
}

func (service *MarketplaceService) GetOffersByListing(ctx context.Context, listingID string) ([]*domain.Offer, error) {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.GetOffersByListing")
	defer span.End()

	return service.offers.GetByListing(ctx, listingID)
}

func (service *MarketplaceService) GetOffersByBuyer(ctx context.Context, buyerID string) ([]*domain.Offer, error) {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.GetOffersByBuyer")
	defer span.End()

	return service.offers.GetByBuyer(ctx, buyerID)
}

func (service *MarketplaceService) GetOffersBySeller(ctx context.Context, sellerID string) ([]*domain.Offer, error) {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.GetOffersBySeller")
	defer span.End()

	return service.offers.GetBySeller(ctx, sellerID)
}

// UpdateOfferStatus accepts exactly accepted, rejected or withdrawn.
func (service *MarketplaceService) UpdateOfferStatus(ctx context.Context, id string, status domain.OfferStatus) error {
	ctx, span := service.tracer.Start(ctx, "MarketplaceService.UpdateOfferStatus")
	defer span.End()

	if !status.IsValidUpdate() {
		return ErrInvalidOfferStatus
	}

	offer, err := service.offers.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := service.offers.UpdateStatus(ctx, id, status); err != nil {
		service.logger.Printf("Error updating offer %s: %v", id, err)
		return fmt.Errorf("failed to update offer status: %v", err)
	}

	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  offer.BuyerID,
		Title:   "Offer " + string(status),
		Message: fmt.Sprintf("Your offer of %.2f was %s.", offer.OfferAmount, status),
		Type:    offerTone(status),
		Link:    "/marketplace/" + offer.ListingID,
	})

	return nil
}

func (service *MarketplaceService) notifyBestEffort(ctx context.Context, notification *domain.Notification) {
	if err := service.notifier.Dispatch(ctx, notification); err != nil {
		service.logger.Printf("Notification to %s failed: %v", notification.UserID, err)
		service.notifier.deadLetter(ctx, "marketplace.notify", notification.UserID, err)
	}
}

func offerTone(status domain.OfferStatus) domain.NoticeTone {
	switch status {
	case domain.OfferAccepted:
		return domain.ToneSuccess
	case domain.OfferRejected:
		return domain.ToneError
	}
	return domain.ToneInfo
}
