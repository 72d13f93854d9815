package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"estately_service/domain"
)

type fakePropertyStore struct {
	mu         sync.Mutex
	properties map[string]*domain.Property
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{properties: map[string]*domain.Property{}}
}

func (f *fakePropertyStore) Create(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	property.ID = primitive.NewObjectID()
	f.properties[property.ID.Hex()] = property
	return property, nil
}

func (f *fakePropertyStore) Get(ctx context.Context, id string) (*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if property, ok := f.properties[id]; ok {
		return property, nil
	}
	return nil, errNotFound
}

func (f *fakePropertyStore) GetByOwner(ctx context.Context, ownerID string) ([]*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Property
	for _, property := range f.properties {
		if property.OwnerID == ownerID {
			result = append(result, property)
		}
	}
	return result, nil
}

func (f *fakePropertyStore) GetByStatus(ctx context.Context, status domain.PropertyStatus) ([]*domain.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Property
	for _, property := range f.properties {
		if property.Status == status {
			result = append(result, property)
		}
	}
	return result, nil
}

func (f *fakePropertyStore) UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if property, ok := f.properties[id]; ok {
		property.Status = status
		return nil
	}
	return errNotFound
}

func (f *fakePropertyStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.properties, id)
	return nil
}

func newAdminFixture() (*AdminService, *fakeUserStore, *fakeProviderStore, *fakePropertyStore, *fakeListingStore, *fakeNotificationStore) {
	users := newFakeUserStore()
	providers := &fakeProviderStore{}
	properties := newFakePropertyStore()
	listings := newFakeListingStore()
	notifications := &fakeNotificationStore{}
	notifier := newTestNotifier(notifications, users, providers, &fakeDeadLetterStore{})
	service := NewAdminService(users, providers, properties, listings, notifier, testLogger(), testTracer())
	return service, users, providers, properties, listings, notifications
}

func TestRegisterProvider_StartsUnapproved(t *testing.T) {
	service, _, _, _, _, _ := newAdminFixture()

	created, err := service.RegisterProvider(context.Background(), &domain.ServiceProvider{
		UserID:      "user-1",
		ServiceType: "plumbing",
		IsApproved:  true,
		Approved:    true,
	})
	require.NoError(t, err)

	assert.False(t, created.IsApproved)
	assert.False(t, created.Approved)
}

func TestApproveProvider_SetsBothFlags(t *testing.T) {
	service, _, providers, _, _, notifications := newAdminFixture()
	ctx := context.Background()

	created, err := service.RegisterProvider(ctx, &domain.ServiceProvider{
		UserID:      "user-1",
		ServiceType: "plumbing",
	})
	require.NoError(t, err)

	require.NoError(t, service.ApproveProvider(ctx, created.ID.Hex()))

	stored, err := providers.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.IsApproved)
	assert.True(t, stored.Approved)

	notices := notifications.forUser("user-1")
	require.Len(t, notices, 1)
	assert.Equal(t, domain.ToneSuccess, notices[0].Type)
}

func TestRejectProvider_CarriesReason(t *testing.T) {
	service, _, providers, _, _, notifications := newAdminFixture()
	ctx := context.Background()

	created, err := service.RegisterProvider(ctx, &domain.ServiceProvider{
		UserID:      "user-1",
		ServiceType: "plumbing",
	})
	require.NoError(t, err)

	require.NoError(t, service.RejectProvider(ctx, created.ID.Hex(), "missing license"))

	stored, err := providers.Get(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.False(t, stored.IsApproved)
	assert.False(t, stored.Approved)
	assert.Equal(t, "missing license", stored.RejectedReason)

	notices := notifications.forUser("user-1")
	require.Len(t, notices, 1)
	assert.Contains(t, notices[0].Message, "missing license")
}

func TestSetUserSuspended(t *testing.T) {
	service, users, _, _, _, notifications := newAdminFixture()
	ctx := context.Background()

	user, err := users.Register(ctx, &domain.User{
		FirstName: "Mira",
		LastName:  "Kovac",
		Email:     "mira@example.com",
	})
	require.NoError(t, err)
	id := user.ID.Hex()

	require.NoError(t, service.SetUserSuspended(ctx, id, true))
	stored, _ := users.Get(ctx, id)
	assert.True(t, stored.IsSuspended)
	assert.Len(t, notifications.forUser(id), 1)

	// Unsuspending is silent.
	require.NoError(t, service.SetUserSuspended(ctx, id, false))
	stored, _ = users.Get(ctx, id)
	assert.False(t, stored.IsSuspended)
	assert.Len(t, notifications.forUser(id), 1)
}

func TestModerateProperty(t *testing.T) {
	service, _, _, properties, _, notifications := newAdminFixture()
	ctx := context.Background()

	property, _ := properties.Create(ctx, &domain.Property{
		OwnerID: "owner-1",
		Title:   "Sunny duplex",
		Status:  domain.PropertyPending,
	})

	require.NoError(t, service.ModerateProperty(ctx, property.ID.Hex(), domain.PropertyPublished))

	stored, _ := properties.Get(ctx, property.ID.Hex())
	assert.Equal(t, domain.PropertyPublished, stored.Status)

	notices := notifications.forUser("owner-1")
	require.Len(t, notices, 1)
	assert.Equal(t, domain.ToneSuccess, notices[0].Type)
}

func TestModerateListing(t *testing.T) {
	service, _, _, _, listings, notifications := newAdminFixture()
	ctx := context.Background()

	listing, _ := listings.Create(ctx, &domain.Listing{
		SellerID: "seller-1",
		Title:    "Two bedroom condo",
		Category: "apartment",
		Price:    250000,
		Status:   domain.ListingActive,
	})

	require.NoError(t, service.ModerateListing(ctx, listing.ID.Hex(), domain.ListingRemoved))

	stored, _ := listings.Get(ctx, listing.ID.Hex())
	assert.Equal(t, domain.ListingRemoved, stored.Status)

	notices := notifications.forUser("seller-1")
	require.Len(t, notices, 1)
	assert.Equal(t, domain.ToneError, notices[0].Type)
}
