package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estately_service/domain"
)

func newMarketplaceFixture() (*MarketplaceService, *fakeListingStore, *fakeOfferStore, *fakeBlobStorage, *fakeNotificationStore) {
	listings := newFakeListingStore()
	offers := newFakeOfferStore()
	blobs := newFakeBlobStorage()
	notifications := &fakeNotificationStore{}
	notifier := newTestNotifier(notifications, newFakeUserStore(), &fakeProviderStore{}, &fakeDeadLetterStore{})
	service := NewMarketplaceService(listings, offers, blobs, notifier, testLogger(), testTracer())
	return service, listings, offers, blobs, notifications
}

func validListing() *domain.Listing {
	return &domain.Listing{
		SellerID: "seller-1",
		Title:    "Two bedroom condo",
		Category: "apartment",
		City:     "Oakland",
		Price:    250000,
	}
}

func TestCreateListing_TwoPhaseImageUpload(t *testing.T) {
	service, listings, _, blobs, _ := newMarketplaceFixture()

	images := []domain.ImageUpload{
		{Name: "front.jpg", Content: []byte("front")},
		{Name: "kitchen.jpg", Content: []byte("kitchen")},
	}

	created, err := service.Create(context.Background(), validListing(), images)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingPending, created.Status)
	require.Len(t, created.Images, 2)

	stored, err := listings.Get(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.Images, stored.Images)
	assert.Len(t, blobs.saved[created.ID.Hex()], 2)
}

func TestCreateListing_UploadFailureLeavesListing(t *testing.T) {
	service, listings, _, blobs, _ := newMarketplaceFixture()
	blobs.fail = errors.New("hdfs unreachable")

	created, err := service.Create(context.Background(), validListing(), []domain.ImageUpload{
		{Name: "front.jpg", Content: []byte("front")},
	})
	require.NoError(t, err)
	assert.Empty(t, created.Images)

	_, err = listings.Get(context.Background(), created.ID.Hex())
	assert.NoError(t, err)
}

func TestCreateListing_Invalid(t *testing.T) {
	service, _, _, _, _ := newMarketplaceFixture()

	_, err := service.Create(context.Background(), &domain.Listing{Title: "No seller"}, nil)
	assert.Error(t, err)
}

func TestGetListing_ViewCounter(t *testing.T) {
	service, _, _, _, _ := newMarketplaceFixture()
	ctx := context.Background()

	created, err := service.Create(ctx, validListing(), nil)
	require.NoError(t, err)

	first, err := service.Get(ctx, created.ID.Hex(), true)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Views)

	second, err := service.Get(ctx, created.ID.Hex(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Views)

	// A plain read does not bump the counter.
	third, err := service.Get(ctx, created.ID.Hex(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, third.Views)
}

func TestGetAll_FilterApplies(t *testing.T) {
	service, _, _, _, _ := newMarketplaceFixture()
	ctx := context.Background()

	_, err := service.Create(ctx, validListing(), nil)
	require.NoError(t, err)

	house := validListing()
	house.Category = "house"
	house.Price = 600000
	_, err = service.Create(ctx, house, nil)
	require.NoError(t, err)

	apartments, err := service.GetAll(ctx, domain.ListingFilter{Category: "apartment"}, domain.ListingOptions{})
	require.NoError(t, err)
	assert.Len(t, apartments, 1)

	expensive, err := service.GetAll(ctx, domain.ListingFilter{MinPrice: 500000}, domain.ListingOptions{})
	require.NoError(t, err)
	assert.Len(t, expensive, 1)

	all, err := service.GetAll(ctx, domain.ListingFilter{}, domain.ListingOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteListing_RemovesBlobsFirst(t *testing.T) {
	service, listings, _, blobs, _ := newMarketplaceFixture()
	ctx := context.Background()

	created, err := service.Create(ctx, validListing(), []domain.ImageUpload{
		{Name: "front.jpg", Content: []byte("front")},
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, created.ID.Hex()))
	assert.Contains(t, blobs.deleted, created.ID.Hex())

	_, err = listings.Get(ctx, created.ID.Hex())
	assert.Error(t, err)
}

func TestCreateOffer_NotifiesSeller(t *testing.T) {
	service, _, _, _, notifications := newMarketplaceFixture()

	created, err := service.CreateOffer(context.Background(), &domain.Offer{
		ListingID:   "listing-1",
		BuyerID:     "buyer-1",
		SellerID:    "seller-1",
		OfferAmount: 240000,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OfferPending, created.Status)

	sellerNotices := notifications.forUser("seller-1")
	require.Len(t, sellerNotices, 1)
	assert.Contains(t, sellerNotices[0].Message, "240000.00")
}

func TestUpdateOfferStatus_RestrictedVocabulary(t *testing.T) {
	service, _, offers, _, _ := newMarketplaceFixture()
	ctx := context.Background()

	offer, _ := offers.Create(ctx, &domain.Offer{
		ListingID:   "listing-1",
		BuyerID:     "buyer-1",
		SellerID:    "seller-1",
		OfferAmount: 240000,
		Status:      domain.OfferPending,
	})

	for _, status := range []domain.OfferStatus{"sold", "pending", "", "archived"} {
		err := service.UpdateOfferStatus(ctx, offer.ID.Hex(), status)
		assert.ErrorIs(t, err, ErrInvalidOfferStatus, "status %q must be rejected", status)
	}

	stored, _ := offers.Get(ctx, offer.ID.Hex())
	assert.Equal(t, domain.OfferPending, stored.Status)
}

func TestUpdateOfferStatus_NotifiesBuyer(t *testing.T) {
	service, _, offers, _, notifications := newMarketplaceFixture()
	ctx := context.Background()

	offer, _ := offers.Create(ctx, &domain.Offer{
		ListingID:   "listing-1",
		BuyerID:     "buyer-1",
		SellerID:    "seller-1",
		OfferAmount: 240000,
		Status:      domain.OfferPending,
	})

	require.NoError(t, service.UpdateOfferStatus(ctx, offer.ID.Hex(), domain.OfferAccepted))

	stored, _ := offers.Get(ctx, offer.ID.Hex())
	assert.Equal(t, domain.OfferAccepted, stored.Status)

	buyerNotices := notifications.forUser("buyer-1")
	require.Len(t, buyerNotices, 1)
	assert.Equal(t, domain.ToneSuccess, buyerNotices[0].Type)
}
