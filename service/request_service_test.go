package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estately_service/domain"
)

func newRequestFixture() (*RequestService, *fakeRequestStore, *fakeProviderStore, *fakeChatStore, *fakeNotificationStore, *fakeDeadLetterStore) {
	requests := newFakeRequestStore()
	providers := &fakeProviderStore{}
	chats := newFakeChatStore()
	notifications := &fakeNotificationStore{}
	deadLetters := &fakeDeadLetterStore{}
	notifier := newTestNotifier(notifications, newFakeUserStore(), providers, deadLetters)
	service := NewRequestService(requests, providers, chats, notifier, testLogger(), testTracer())
	return service, requests, providers, chats, notifications, deadLetters
}

func TestRequestCreate_NotifiesRequester(t *testing.T) {
	service, _, _, _, notifications, _ := newRequestFixture()

	created, err := service.Create(context.Background(), &domain.Request{
		Type:   domain.RentalRequest,
		UserID: "user-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.False(t, created.ID.IsZero())

	sent := notifications.forUser("user-1")
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Message, "rental request")
}

func TestRequestCreate_ServiceTypeRequired(t *testing.T) {
	service, _, _, _, _, _ := newRequestFixture()

	for _, requestType := range []domain.RequestType{domain.ConstructionRequest, domain.RenovationRequest} {
		_, err := service.Create(context.Background(), &domain.Request{
			Type:   requestType,
			UserID: "user-1",
		})
		require.Error(t, err)
		var validation *ValidationError
		assert.True(t, errors.As(err, &validation))
	}

	// Rental requests have no service type.
	_, err := service.Create(context.Background(), &domain.Request{
		Type:   domain.RentalRequest,
		UserID: "user-1",
	})
	assert.NoError(t, err)
}

func TestRequestCreate_FanOutToApprovedProviders(t *testing.T) {
	service, _, providers, _, notifications, _ := newRequestFixture()

	ctx := context.Background()
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-1", ServiceType: "plumbing", IsApproved: true})
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-2", ServiceType: "plumbing", IsApproved: true})
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-3", ServiceType: "plumbing", IsApproved: false})
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-4", ServiceType: "roofing", IsApproved: true})

	_, err := service.Create(ctx, &domain.Request{
		Type:        domain.ConstructionRequest,
		UserID:      "user-1",
		ServiceType: "plumbing",
	})
	require.NoError(t, err)

	assert.Len(t, notifications.forUser("prov-1"), 1)
	assert.Len(t, notifications.forUser("prov-2"), 1)
	assert.Empty(t, notifications.forUser("prov-3"))
	assert.Empty(t, notifications.forUser("prov-4"))
}

func TestRequestCreate_FanOutSurvivesSingleProviderFailure(t *testing.T) {
	service, _, providers, _, notifications, deadLetters := newRequestFixture()

	ctx := context.Background()
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-1", ServiceType: "plumbing", IsApproved: true})
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-2", ServiceType: "plumbing", IsApproved: true})
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-3", ServiceType: "plumbing", IsApproved: true})
	notifications.failCreateFor = "prov-2"

	_, err := service.Create(ctx, &domain.Request{
		Type:        domain.ConstructionRequest,
		UserID:      "user-1",
		ServiceType: "plumbing",
	})
	require.NoError(t, err)

	assert.Len(t, notifications.forUser("user-1"), 1)
	assert.Len(t, notifications.forUser("prov-1"), 1)
	assert.Empty(t, notifications.forUser("prov-2"))
	assert.Len(t, notifications.forUser("prov-3"), 1)

	letters, _ := deadLetters.GetAll(ctx)
	var failed []*domain.DeadLetter
	for _, letter := range letters {
		if letter.Operation == "request.fanout" {
			failed = append(failed, letter)
		}
	}
	require.Len(t, failed, 1)
	assert.Equal(t, "prov-2", failed[0].Detail)
}

func TestRequestCreate_NoFanOutWithPreselectedProvider(t *testing.T) {
	service, _, providers, _, notifications, _ := newRequestFixture()

	ctx := context.Background()
	_, _ = providers.Create(ctx, &domain.ServiceProvider{UserID: "prov-1", ServiceType: "plumbing", IsApproved: true})

	_, err := service.Create(ctx, &domain.Request{
		Type:        domain.RenovationRequest,
		UserID:      "user-1",
		ProviderID:  "prov-9",
		ServiceType: "plumbing",
	})
	require.NoError(t, err)

	assert.Empty(t, notifications.forUser("prov-1"))
}

func TestUpdateStatus_TerminalGuard(t *testing.T) {
	service, requests, _, _, _, _ := newRequestFixture()

	ctx := context.Background()
	created, _ := requests.Create(ctx, &domain.Request{
		Type:   domain.RentalRequest,
		UserID: "user-1",
		Status: domain.StatusCompleted,
	})

	_, err := service.UpdateStatus(ctx, created.ID.Hex(), domain.StatusPending)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	service, requests, _, _, _, _ := newRequestFixture()

	ctx := context.Background()
	created, _ := requests.Create(ctx, &domain.Request{
		Type:   domain.RentalRequest,
		UserID: "user-1",
		Status: domain.StatusPending,
	})

	_, err := service.UpdateStatus(ctx, created.ID.Hex(), domain.StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_CancelIsBuySellOnly(t *testing.T) {
	service, requests, _, _, _, _ := newRequestFixture()
	ctx := context.Background()

	rental, _ := requests.Create(ctx, &domain.Request{
		Type:   domain.RentalRequest,
		UserID: "user-1",
		Status: domain.StatusAccepted,
	})
	_, err := service.UpdateStatus(ctx, rental.ID.Hex(), domain.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	buySell, _ := requests.Create(ctx, &domain.Request{
		Type:   domain.BuySellRequest,
		UserID: "user-1",
		Status: domain.StatusAccepted,
	})
	updated, err := service.UpdateStatus(ctx, buySell.ID.Hex(), domain.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, updated.Status)
}

func TestUpdateStatus_AcceptedOpensChat(t *testing.T) {
	service, requests, _, chats, notifications, _ := newRequestFixture()
	ctx := context.Background()

	created, _ := requests.Create(ctx, &domain.Request{
		Type:        domain.ConstructionRequest,
		UserID:      "user-1",
		ProviderID:  "prov-1",
		ServiceType: "plumbing",
		Status:      domain.StatusPending,
	})

	updated, err := service.UpdateStatus(ctx, created.ID.Hex(), domain.StatusAccepted)
	require.NoError(t, err)
	assert.NotEmpty(t, updated.ChatID)

	chat, err := chats.FindOrCreate(ctx, "user-1", "prov-1")
	require.NoError(t, err)
	assert.Equal(t, chat.ID.Hex(), updated.ChatID)

	userNotices := notifications.forUser("user-1")
	require.Len(t, userNotices, 1)
	assert.True(t, strings.Contains(userNotices[0].Link, "?chat="))
	assert.Len(t, notifications.forUser("prov-1"), 1)
}

func TestUpdateStatus_SameChatOnRepeatedAccept(t *testing.T) {
	service, requests, _, chats, _, _ := newRequestFixture()
	ctx := context.Background()

	first, _ := requests.Create(ctx, &domain.Request{
		Type:        domain.RenovationRequest,
		UserID:      "user-1",
		ProviderID:  "prov-1",
		ServiceType: "painting",
		Status:      domain.StatusPending,
	})
	second, _ := requests.Create(ctx, &domain.Request{
		Type:        domain.RenovationRequest,
		UserID:      "user-1",
		ProviderID:  "prov-1",
		ServiceType: "painting",
		Status:      domain.StatusPending,
	})

	updatedFirst, err := service.UpdateStatus(ctx, first.ID.Hex(), domain.StatusAccepted)
	require.NoError(t, err)
	updatedSecond, err := service.UpdateStatus(ctx, second.ID.Hex(), domain.StatusAccepted)
	require.NoError(t, err)

	assert.Equal(t, updatedFirst.ChatID, updatedSecond.ChatID)
	assert.Len(t, chats.chats, 1)
}

func TestUpdateStatus_ChatFailureDoesNotBlock(t *testing.T) {
	service, requests, _, chats, _, deadLetters := newRequestFixture()
	ctx := context.Background()

	chats.failFind = errors.New("chat backend down")

	created, _ := requests.Create(ctx, &domain.Request{
		Type:        domain.ConstructionRequest,
		UserID:      "user-1",
		ProviderID:  "prov-1",
		ServiceType: "plumbing",
		Status:      domain.StatusPending,
	})

	updated, err := service.UpdateStatus(ctx, created.ID.Hex(), domain.StatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, updated.Status)
	assert.Empty(t, updated.ChatID)

	letters, _ := deadLetters.GetAll(ctx)
	var chatLetters int
	for _, letter := range letters {
		if letter.Operation == "request.chat" {
			chatLetters++
		}
	}
	assert.Equal(t, 1, chatLetters)
}

func TestUpdateStatus_NoChatForRental(t *testing.T) {
	service, requests, _, chats, _, _ := newRequestFixture()
	ctx := context.Background()

	created, _ := requests.Create(ctx, &domain.Request{
		Type:       domain.RentalRequest,
		UserID:     "user-1",
		ProviderID: "prov-1",
		Status:     domain.StatusPending,
	})

	updated, err := service.UpdateStatus(ctx, created.ID.Hex(), domain.StatusAccepted)
	require.NoError(t, err)
	assert.Empty(t, updated.ChatID)
	assert.Empty(t, chats.chats)
}
