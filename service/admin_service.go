package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

// AdminService carries the back-office moderation workflows: provider
// approval, user suspension and property/listing publication.
type AdminService struct {
	users      domain.UserStore
	providers  domain.ProviderStore
	properties domain.PropertyStore
	listings   domain.ListingStore
	notifier   *NotificationService
	logger     *logrus.Logger
	tracer     trace.Tracer
}

func NewAdminService(users domain.UserStore, providers domain.ProviderStore, properties domain.PropertyStore,
	listings domain.ListingStore, notifier *NotificationService, logger *logrus.Logger, tracer trace.Tracer) *AdminService {
	return &AdminService{
		users:      users,
		providers:  providers,
		properties: properties,
		listings:   listings,
		notifier:   notifier,
		logger:     logger,
		tracer:     tracer,
	}
}

func (service *AdminService) RegisterProvider(ctx context.Context, provider *domain.ServiceProvider) (*domain.ServiceProvider, error) {
	ctx, span := service.tracer.Start(ctx, "AdminService.RegisterProvider")
	defer span.End()

	if err := provider.Validate(); err != nil {
		return nil, err
	}

	provider.IsApproved = false
	provider.Approved = false
	provider.CreatedAt = time.Now()
	provider.UpdatedAt = provider.CreatedAt

	created, err := service.providers.Create(ctx, provider)
	if err != nil {
		service.logger.Printf("Error registering provider: %v", err)
		return nil, fmt.Errorf("failed to register provider: %v", err)
	}
	return created, nil
}

// ApproveProvider sets both approval flags in a single document write.
func (service *AdminService) ApproveProvider(ctx context.Context, providerID string) error {
	ctx, span := service.tracer.Start(ctx, "AdminService.ApproveProvider")
	defer span.End()

	provider, err := service.providers.Get(ctx, providerID)
	if err != nil {
		return fmt.Errorf("failed to read provider: %v", err)
	}

	if err := service.providers.SetApproval(ctx, providerID, true, ""); err != nil {
		service.logger.Printf("Error approving provider %s: %v", providerID, err)
		return fmt.Errorf("failed to approve provider: %v", err)
	}

	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  provider.UserID,
		Title:   "Provider application approved",
		Message: "Your service provider application has been approved.",
		Type:    domain.ToneSuccess,
		Link:    "/provider/dashboard",
	})
	return nil
}

func (service *AdminService) RejectProvider(ctx context.Context, providerID, reason string) error {
	ctx, span := service.tracer.Start(ctx, "AdminService.RejectProvider")
	defer span.End()

	provider, err := service.providers.Get(ctx, providerID)
	if err != nil {
		return fmt.Errorf("failed to read provider: %v", err)
	}

	if err := service.providers.SetApproval(ctx, providerID, false, reason); err != nil {
		service.logger.Printf("Error rejecting provider %s: %v", providerID, err)
		return fmt.Errorf("failed to reject provider: %v", err)
	}

	message := "Your service provider application was rejected."
	if reason != "" {
		message = fmt.Sprintf("Your service provider application was rejected: %s", reason)
	}
	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  provider.UserID,
		Title:   "Provider application rejected",
		Message: message,
		Type:    domain.ToneError,
	})
	return nil
}

func (service *AdminService) SetUserSuspended(ctx context.Context, userID string, suspended bool) error {
	ctx, span := service.tracer.Start(ctx, "AdminService.SetUserSuspended")
	defer span.End()

	if err := service.users.UpdateSuspended(ctx, userID, suspended); err != nil {
		service.logger.Printf("Error updating suspension for %s: %v", userID, err)
		return fmt.Errorf("failed to update user suspension: %v", err)
	}

	if suspended {
		service.notifyBestEffort(ctx, &domain.Notification{
			UserID:  userID,
			Title:   "Account suspended",
			Message: "Your account has been suspended. Contact support for details.",
			Type:    domain.ToneError,
			Link:    "/support",
		})
	}
	return nil
}

func (service *AdminService) ModerateProperty(ctx context.Context, propertyID string, status domain.PropertyStatus) error {
	ctx, span := service.tracer.Start(ctx, "AdminService.ModerateProperty")
	defer span.End()

	property, err := service.properties.Get(ctx, propertyID)
	if err != nil {
		return fmt.Errorf("failed to read property: %v", err)
	}

	if err := service.properties.UpdateStatus(ctx, propertyID, status); err != nil {
		service.logger.Printf("Error moderating property %s: %v", propertyID, err)
		return fmt.Errorf("failed to update property status: %v", err)
	}

	tone := domain.ToneInfo
	if status == domain.PropertyPublished {
		tone = domain.ToneSuccess
	} else if status == domain.PropertySuspended {
		tone = domain.ToneError
	}
	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  property.OwnerID,
		Title:   "Property " + string(status),
		Message: fmt.Sprintf("Your property %q is now %s.", property.Title, status),
		Type:    tone,
		Link:    "/properties/" + propertyID,
	})
	return nil
}

func (service *AdminService) ModerateListing(ctx context.Context, listingID string, status domain.ListingStatus) error {
	ctx, span := service.tracer.Start(ctx, "AdminService.ModerateListing")
	defer span.End()

	listing, err := service.listings.Get(ctx, listingID)
	if err != nil {
		return fmt.Errorf("failed to read listing: %v", err)
	}

	listing.Status = status
	if err := service.listings.Update(ctx, listing); err != nil {
		service.logger.Printf("Error moderating listing %s: %v", listingID, err)
		return fmt.Errorf("failed to update listing status: %v", err)
	}

	tone := domain.ToneInfo
	if status == domain.ListingActive {
		tone = domain.ToneSuccess
	} else if status == domain.ListingRemoved {
		tone = domain.ToneError
	}
	service.notifyBestEffort(ctx, &domain.Notification{
		UserID:  listing.SellerID,
		Title:   "Listing " + string(status),
		Message: fmt.Sprintf("Your listing %q is now %s.", listing.Title, status),
		Type:    tone,
		Link:    "/marketplace/" + listingID,
	})
	return nil
}

func (service *AdminService) notifyBestEffort(ctx context.Context, notification *domain.Notification) {
	if err := service.notifier.Dispatch(ctx, notification); err != nil {
		service.logger.Printf("Notification to %s failed: %v", notification.UserID, err)
		service.notifier.deadLetter(ctx, "admin.notify", notification.UserID, err)
	}
}
