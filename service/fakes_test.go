package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/trace"

	"estately_service/domain"
)

var errNotFound = errors.New("not found")

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

type fakeNotificationStore struct {
	mu            sync.Mutex
	notifications []*domain.Notification
	batches       [][]*domain.Notification
	failCreate    error
	failCreateFor string // fail only writes addressed to this user
	failAtBatch   int    // 1-based, 0 means never fail
	watchCh       chan *domain.Notification
}

func (f *fakeNotificationStore) Create(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	if f.failCreateFor != "" && notification.UserID == f.failCreateFor {
		return nil, errors.New("write failed for " + notification.UserID)
	}
	notification.ID = primitive.NewObjectID()
	f.notifications = append(f.notifications, notification)
	return notification, nil
}

func (f *fakeNotificationStore) CreateMany(ctx context.Context, notifications []*domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(notifications) > domain.BatchLimit {
		return fmt.Errorf("batch of %d exceeds limit", len(notifications))
	}
	if f.failAtBatch > 0 && len(f.batches)+1 == f.failAtBatch {
		return errors.New("batch write failed")
	}
	f.batches = append(f.batches, notifications)
	f.notifications = append(f.notifications, notifications...)
	return nil
}

func (f *fakeNotificationStore) GetByUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, notification := range f.notifications {
		if notification.ID.Hex() == id {
			notification.Read = true
			return nil
		}
	}
	return errNotFound
}

func (f *fakeNotificationStore) Watch(ctx context.Context, userID string) (<-chan *domain.Notification, error) {
	return f.watchCh, nil
}

func (f *fakeNotificationStore) forUser(userID string) []*domain.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Notification
	for _, notification := range f.notifications {
		if notification.UserID == userID {
			result = append(result, notification)
		}
	}
	return result
}

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	store := &fakeUserStore{users: map[string]*domain.User{}}
	for _, user := range users {
		if user.ID.IsZero() {
			user.ID = primitive.NewObjectID()
		}
		copied := *user
		store.users[user.ID.Hex()] = &copied
	}
	return store
}

func (f *fakeUserStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = primitive.NewObjectID()
	copied := *user
	f.users[user.ID.Hex()] = &copied
	return user, nil
}

func (f *fakeUserStore) Get(ctx context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, errNotFound
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeUserStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*domain.User, 0, len(f.users))
	for _, user := range f.users {
		copied := *user
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeUserStore) UpdateSuspended(ctx context.Context, id string, suspended bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user, ok := f.users[id]; ok {
		user.IsSuspended = suspended
		return nil
	}
	return errNotFound
}

func (f *fakeUserStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

type fakeProviderStore struct {
	mu        sync.Mutex
	providers []*domain.ServiceProvider
	failList  error
}

func (f *fakeProviderStore) Create(ctx context.Context, provider *domain.ServiceProvider) (*domain.ServiceProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	provider.ID = primitive.NewObjectID()
	f.providers = append(f.providers, provider)
	return provider, nil
}

func (f *fakeProviderStore) Get(ctx context.Context, id string) (*domain.ServiceProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, provider := range f.providers {
		if provider.ID.Hex() == id {
			return provider, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeProviderStore) GetApproved(ctx context.Context) ([]*domain.ServiceProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var result []*domain.ServiceProvider
	for _, provider := range f.providers {
		if provider.IsApproved {
			result = append(result, provider)
		}
	}
	return result, nil
}

func (f *fakeProviderStore) GetApprovedByServiceType(ctx context.Context, serviceType string) ([]*domain.ServiceProvider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	var result []*domain.ServiceProvider
	for _, provider := range f.providers {
		if provider.IsApproved && provider.ServiceType == serviceType {
			result = append(result, provider)
		}
	}
	return result, nil
}

func (f *fakeProviderStore) SetApproval(ctx context.Context, id string, approved bool, rejectedReason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, provider := range f.providers {
		if provider.ID.Hex() == id {
			provider.IsApproved = approved
			provider.Approved = approved
			provider.RejectedReason = rejectedReason
			return nil
		}
	}
	return errNotFound
}

type fakeDeadLetterStore struct {
	mu      sync.Mutex
	letters []*domain.DeadLetter
}

func (f *fakeDeadLetterStore) Create(ctx context.Context, letter *domain.DeadLetter) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.letters = append(f.letters, letter)
	return nil
}

func (f *fakeDeadLetterStore) GetAll(ctx context.Context) ([]*domain.DeadLetter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.letters, nil
}

func (f *fakeDeadLetterStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.letters)
}

type fakeNameCache struct {
	mu    sync.Mutex
	names map[string]string
	gets  int
	sets  int
}

func newFakeNameCache() *fakeNameCache {
	return &fakeNameCache{names: map[string]string{}}
}

func (f *fakeNameCache) Get(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if name, ok := f.names[userID]; ok {
		return name, nil
	}
	return "", errNotFound
}

func (f *fakeNameCache) Set(ctx context.Context, userID string, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	f.names[userID] = name
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent int
	fail error
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent++
	return nil
}

type fakeRequestStore struct {
	mu       sync.Mutex
	requests map[string]*domain.Request
	updates  int
	failGet  error
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[string]*domain.Request{}}
}

func (f *fakeRequestStore) Create(ctx context.Context, request *domain.Request) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request.ID = primitive.NewObjectID()
	f.requests[request.ID.Hex()] = request
	return request, nil
}

func (f *fakeRequestStore) Get(ctx context.Context, id string) (*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	if request, ok := f.requests[id]; ok {
		copied := *request
		return &copied, nil
	}
	return nil, errNotFound
}

func (f *fakeRequestStore) GetByUser(ctx context.Context, requestType domain.RequestType, userID string) ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Request
	for _, request := range f.requests {
		if request.Type == requestType && request.UserID == userID {
			result = append(result, request)
		}
	}
	return result, nil
}

func (f *fakeRequestStore) GetByProvider(ctx context.Context, requestType domain.RequestType, providerID string) ([]*domain.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Request
	for _, request := range f.requests {
		if request.Type == requestType && request.ProviderID == providerID {
			result = append(result, request)
		}
	}
	return result, nil
}

func (f *fakeRequestStore) Update(ctx context.Context, request *domain.Request) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[request.ID.Hex()]; !ok {
		return errNotFound
	}
	copied := *request
	f.requests[request.ID.Hex()] = &copied
	f.updates++
	return nil
}

func (f *fakeRequestStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updates
}

type fakeChatStore struct {
	mu       sync.Mutex
	chats    map[string]*domain.Chat
	messages []*domain.ChatMessage
	failFind error
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{chats: map[string]*domain.Chat{}}
}

func chatKeyOf(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

func (f *fakeChatStore) FindOrCreate(ctx context.Context, userA, userB string) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFind != nil {
		return nil, f.failFind
	}
	key := chatKeyOf(userA, userB)
	if chat, ok := f.chats[key]; ok {
		return chat, nil
	}
	chat := &domain.Chat{
		ID:           primitive.NewObjectID(),
		Key:          key,
		Participants: []string{userA, userB},
	}
	f.chats[key] = chat
	return chat, nil
}

func (f *fakeChatStore) Get(ctx context.Context, id string) (*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, chat := range f.chats {
		if chat.ID.Hex() == id {
			return chat, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeChatStore) GetByParticipant(ctx context.Context, userID string) ([]*domain.Chat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Chat
	for _, chat := range f.chats {
		for _, participant := range chat.Participants {
			if participant == userID {
				result = append(result, chat)
				break
			}
		}
	}
	return result, nil
}

func (f *fakeChatStore) CreateMessage(ctx context.Context, message *domain.ChatMessage) (*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	message.ID = primitive.NewObjectID()
	f.messages = append(f.messages, message)
	return message, nil
}

func (f *fakeChatStore) GetMessages(ctx context.Context, chatID string) ([]*domain.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.ChatMessage
	for _, message := range f.messages {
		if message.ChatID == chatID {
			result = append(result, message)
		}
	}
	return result, nil
}

type fakeListingStore struct {
	mu       sync.Mutex
	listings map[string]*domain.Listing
}

func newFakeListingStore() *fakeListingStore {
	return &fakeListingStore{listings: map[string]*domain.Listing{}}
}

func (f *fakeListingStore) Create(ctx context.Context, listing *domain.Listing) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing.ID = primitive.NewObjectID()
	f.listings[listing.ID.Hex()] = listing
	return listing, nil
}

func (f *fakeListingStore) Get(ctx context.Context, id string) (*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if listing, ok := f.listings[id]; ok {
		copied := *listing
		return &copied, nil
	}
	return nil, errNotFound
}

func (f *fakeListingStore) GetAll(ctx context.Context, filter domain.ListingFilter, options domain.ListingOptions) ([]*domain.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Listing
	for _, listing := range f.listings {
		if filter.Matches(listing) {
			result = append(result, listing)
		}
	}
	return result, nil
}

func (f *fakeListingStore) Update(ctx context.Context, listing *domain.Listing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.listings[listing.ID.Hex()]; !ok {
		return errNotFound
	}
	copied := *listing
	f.listings[listing.ID.Hex()] = &copied
	return nil
}

func (f *fakeListingStore) UpdateImages(ctx context.Context, id string, urls []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if listing, ok := f.listings[id]; ok {
		listing.Images = urls
		return nil
	}
	return errNotFound
}

func (f *fakeListingStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.listings, id)
	return nil
}

type fakeOfferStore struct {
	mu     sync.Mutex
	offers map[string]*domain.Offer
}

func newFakeOfferStore() *fakeOfferStore {
	return &fakeOfferStore{offers: map[string]*domain.Offer{}}
}

func (f *fakeOfferStore) Create(ctx context.Context, offer *domain.Offer) (*domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	offer.ID = primitive.NewObjectID()
	f.offers[offer.ID.Hex()] = offer
	return offer, nil
}

func (f *fakeOfferStore) Get(ctx context.Context, id string) (*domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offer, ok := f.offers[id]; ok {
		return offer, nil
	}
	return nil, errNotFound
}

func (f *fakeOfferStore) GetByListing(ctx context.Context, listingID string) ([]*domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Offer
	for _, offer := range f.offers {
		if offer.ListingID == listingID {
			result = append(result, offer)
		}
	}
	return result, nil
}

func (f *fakeOfferStore) GetByBuyer(ctx context.Context, buyerID string) ([]*domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Offer
	for _, offer := range f.offers {
		if offer.BuyerID == buyerID {
			result = append(result, offer)
		}
	}
	return result, nil
}

func (f *fakeOfferStore) GetBySeller(ctx context.Context, sellerID string) ([]*domain.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Offer
	for _, offer := range f.offers {
		if offer.SellerID == sellerID {
			result = append(result, offer)
		}
	}
	return result, nil
}

func (f *fakeOfferStore) UpdateStatus(ctx context.Context, id string, status domain.OfferStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if offer, ok := f.offers[id]; ok {
		offer.Status = status
		return nil
	}
	return errNotFound
}

type fakeTransactionStore struct {
	mu           sync.Mutex
	transactions map[string]*domain.Transaction
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{transactions: map[string]*domain.Transaction{}}
}

func (f *fakeTransactionStore) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	transaction.ID = primitive.NewObjectID()
	f.transactions[transaction.ID.Hex()] = transaction
	return transaction, nil
}

func (f *fakeTransactionStore) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if transaction, ok := f.transactions[id]; ok {
		return transaction, nil
	}
	return nil, errNotFound
}

func (f *fakeTransactionStore) GetByUser(ctx context.Context, userID string) ([]*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.Transaction
	for _, transaction := range f.transactions {
		if transaction.UserID == userID {
			result = append(result, transaction)
		}
	}
	return result, nil
}

func (f *fakeTransactionStore) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if transaction, ok := f.transactions[id]; ok {
		transaction.Status = status
		return nil
	}
	return errNotFound
}

type fakeBlobStorage struct {
	mu      sync.Mutex
	saved   map[string][]string
	deleted []string
	fail    error
}

func newFakeBlobStorage() *fakeBlobStorage {
	return &fakeBlobStorage{saved: map[string][]string{}}
}

func (f *fakeBlobStorage) SaveListingImage(ctx context.Context, listingID, imageName string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return "", f.fail
	}
	url := "http://blobs/" + listingID + "/" + imageName
	f.saved[listingID] = append(f.saved[listingID], url)
	return url, nil
}

func (f *fakeBlobStorage) DeleteListingImages(ctx context.Context, listingID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, listingID)
	delete(f.saved, listingID)
	return nil
}

func newTestNotifier(store *fakeNotificationStore, users *fakeUserStore, providers *fakeProviderStore,
	deadLetters *fakeDeadLetterStore) *NotificationService {
	return NewNotificationService(store, users, providers, deadLetters, newFakeNameCache(),
		&fakeMailer{}, testLogger(), testTracer())
}
