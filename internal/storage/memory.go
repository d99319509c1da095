package storage

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// MemStorage keeps every entity in process memory. Readers run in parallel,
// writers are serialized, and WithTx applies a batch of writes atomically.
type MemStorage struct {
	mu    sync.RWMutex
	state *memState
	now   func() time.Time
}

// MemOption customizes a MemStorage.
type MemOption func(*MemStorage)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) MemOption {
	return func(s *MemStorage) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemStorage returns an empty in-memory store.
func NewMemStorage(opts ...MemOption) *MemStorage {
	s := &MemStorage{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(s)
	}
	s.state = newMemState(s.now)
	return s
}

type cartKey struct {
	userID int64
	giftID int64
}

type memState struct {
	now func() time.Time

	users    map[int64]models.User
	gifts    map[int64]models.Gift
	cart     map[int64]models.CartItem
	requests map[int64]models.GiftRequest

	usernames   map[string]int64
	emails      map[string]int64
	vendorGifts map[int64]map[int64]struct{}
	userCart    map[int64]map[int64]struct{}
	cartPairs   map[cartKey]int64

	nextUserID    int64
	nextGiftID    int64
	nextCartID    int64
	nextRequestID int64
}

func newMemState(now func() time.Time) *memState {
	return &memState{
		now:         now,
		users:       map[int64]models.User{},
		gifts:       map[int64]models.Gift{},
		cart:        map[int64]models.CartItem{},
		requests:    map[int64]models.GiftRequest{},
		usernames:   map[string]int64{},
		emails:      map[string]int64{},
		vendorGifts: map[int64]map[int64]struct{}{},
		userCart:    map[int64]map[int64]struct{}{},
		cartPairs:   map[cartKey]int64{},
	}
}

func (m *memState) clone() *memState {
	c := &memState{
		now:           m.now,
		users:         maps.Clone(m.users),
		gifts:         maps.Clone(m.gifts),
		cart:          maps.Clone(m.cart),
		requests:      maps.Clone(m.requests),
		usernames:     maps.Clone(m.usernames),
		emails:        maps.Clone(m.emails),
		vendorGifts:   make(map[int64]map[int64]struct{}, len(m.vendorGifts)),
		userCart:      make(map[int64]map[int64]struct{}, len(m.userCart)),
		cartPairs:     maps.Clone(m.cartPairs),
		nextUserID:    m.nextUserID,
		nextGiftID:    m.nextGiftID,
		nextCartID:    m.nextCartID,
		nextRequestID: m.nextRequestID,
	}
	for k, v := range m.vendorGifts {
		c.vendorGifts[k] = maps.Clone(v)
	}
	for k, v := range m.userCart {
		c.userCart[k] = maps.Clone(v)
	}
	return c
}

func normalizeKey(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func addToIndex(index map[int64]map[int64]struct{}, owner, id int64) {
	set, ok := index[owner]
	if !ok {
		set = map[int64]struct{}{}
		index[owner] = set
	}
	set[id] = struct{}{}
}

func removeFromIndex(index map[int64]map[int64]struct{}, owner, id int64) {
	if set, ok := index[owner]; ok {
		delete(set, id)
		if len(set) == 0 {
			delete(index, owner)
		}
	}
}

func sortedByID[T any](items []T, id func(T) int64) []T {
	slices.SortFunc(items, func(a, b T) int { return cmp.Compare(id(a), id(b)) })
	return items
}

func copyUser(u models.User) *models.User {
	if u.Company != nil {
		company := *u.Company
		u.Company = &company
	}
	return &u
}

func copyGift(g models.Gift) *models.Gift {
	return &g
}

func copyCartItem(c models.CartItem) *models.CartItem {
	return &c
}

func copyRequest(r models.GiftRequest) *models.GiftRequest {
	r.Items = slices.Clone(r.Items)
	if r.Notes != nil {
		notes := *r.Notes
		r.Notes = &notes
	}
	return &r
}

// users

func (m *memState) GetUser(_ context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *memState) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	id, ok := m.usernames[normalizeKey(username)]
	if !ok {
		return nil, ErrNotFound
	}
	return m.GetUser(ctx, id)
}

func (m *memState) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	id, ok := m.emails[normalizeKey(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return m.GetUser(ctx, id)
}

func (m *memState) CreateUser(_ context.Context, user models.User) (*models.User, error) {
	m.nextUserID++
	user.ID = m.nextUserID
	m.users[user.ID] = *copyUser(user)
	// first writer wins so lookups match insertion order when duplicates slip in
	if key := normalizeKey(user.Username); key != "" {
		if _, taken := m.usernames[key]; !taken {
			m.usernames[key] = user.ID
		}
	}
	if key := normalizeKey(user.Email); key != "" {
		if _, taken := m.emails[key]; !taken {
			m.emails[key] = user.ID
		}
	}
	return copyUser(user), nil
}

func (m *memState) GetAllUsers(_ context.Context) ([]models.User, error) {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *copyUser(u))
	}
	return sortedByID(out, func(u models.User) int64 { return u.ID }), nil
}

func (m *memState) UpdateUserRole(_ context.Context, id int64, role enums.UserRole) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u.Role = role
	m.users[id] = u
	return copyUser(u), nil
}

// gifts

func (m *memState) GetGift(_ context.Context, id int64) (*models.Gift, error) {
	g, ok := m.gifts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyGift(g), nil
}

func (m *memState) GetAllGifts(_ context.Context, approved *bool) ([]models.Gift, error) {
	out := make([]models.Gift, 0, len(m.gifts))
	for _, g := range m.gifts {
		if approved != nil && g.Approved != *approved {
			continue
		}
		out = append(out, g)
	}
	return sortedByID(out, func(g models.Gift) int64 { return g.ID }), nil
}

func (m *memState) GetGiftsByVendor(_ context.Context, vendorID int64) ([]models.Gift, error) {
	ids := m.vendorGifts[vendorID]
	out := make([]models.Gift, 0, len(ids))
	for id := range ids {
		out = append(out, m.gifts[id])
	}
	return sortedByID(out, func(g models.Gift) int64 { return g.ID }), nil
}

func (m *memState) CreateGift(_ context.Context, gift models.Gift) (*models.Gift, error) {
	m.nextGiftID++
	gift.ID = m.nextGiftID
	gift.Approved = false
	gift.CreatedAt = m.now()
	m.gifts[gift.ID] = gift
	addToIndex(m.vendorGifts, gift.VendorID, gift.ID)
	return copyGift(gift), nil
}

func (m *memState) UpdateGift(_ context.Context, id int64, patch models.GiftPatch) (*models.Gift, error) {
	g, ok := m.gifts[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&g)
	m.gifts[id] = g
	return copyGift(g), nil
}

func (m *memState) DeleteGift(ctx context.Context, id int64) (bool, error) {
	g, ok := m.gifts[id]
	if !ok {
		return false, nil
	}
	delete(m.gifts, id)
	removeFromIndex(m.vendorGifts, g.VendorID, id)
	// mirror the SQL cascade on cart_items.gift_id
	for cartID, item := range m.cart {
		if item.GiftID == id {
			_, _ = m.RemoveFromCart(ctx, cartID)
		}
	}
	return true, nil
}

func (m *memState) ApproveGift(_ context.Context, id int64, approved bool) (*models.Gift, error) {
	g, ok := m.gifts[id]
	if !ok {
		return nil, ErrNotFound
	}
	g.Approved = approved
	m.gifts[id] = g
	return copyGift(g), nil
}

// cart

func (m *memState) GetCartItems(_ context.Context, userID int64) ([]models.CartItem, error) {
	ids := m.userCart[userID]
	out := make([]models.CartItem, 0, len(ids))
	for id := range ids {
		out = append(out, m.cart[id])
	}
	return sortedByID(out, func(c models.CartItem) int64 { return c.ID }), nil
}

func (m *memState) GetCartItem(_ context.Context, id int64) (*models.CartItem, error) {
	c, ok := m.cart[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCartItem(c), nil
}

func (m *memState) AddToCart(_ context.Context, item models.CartItem) (*models.CartItem, error) {
	if !quantityInRange(item.Quantity) {
		return nil, ErrQuantityLimit
	}
	key := cartKey{userID: item.UserID, giftID: item.GiftID}
	if id, ok := m.cartPairs[key]; ok {
		existing := m.cart[id]
		if existing.Quantity > MaxCartQuantity-item.Quantity {
			return nil, ErrQuantityLimit
		}
		existing.Quantity += item.Quantity
		m.cart[id] = existing
		return copyCartItem(existing), nil
	}
	m.nextCartID++
	item.ID = m.nextCartID
	m.cart[item.ID] = item
	m.cartPairs[key] = item.ID
	addToIndex(m.userCart, item.UserID, item.ID)
	return copyCartItem(item), nil
}

func (m *memState) UpdateCartItem(_ context.Context, id int64, quantity int) (*models.CartItem, error) {
	c, ok := m.cart[id]
	if !ok {
		return nil, ErrNotFound
	}
	if !quantityInRange(quantity) {
		return nil, ErrQuantityLimit
	}
	c.Quantity = quantity
	m.cart[id] = c
	return copyCartItem(c), nil
}

func (m *memState) RemoveFromCart(_ context.Context, id int64) (bool, error) {
	c, ok := m.cart[id]
	if !ok {
		return false, nil
	}
	delete(m.cart, id)
	delete(m.cartPairs, cartKey{userID: c.UserID, giftID: c.GiftID})
	removeFromIndex(m.userCart, c.UserID, id)
	return true, nil
}

func (m *memState) ClearCart(ctx context.Context, userID int64) (bool, error) {
	for id := range m.userCart[userID] {
		_, _ = m.RemoveFromCart(ctx, id)
	}
	return true, nil
}

// gift requests

func (m *memState) CreateGiftRequest(_ context.Context, req models.GiftRequest) (*models.GiftRequest, error) {
	m.nextRequestID++
	now := m.now()
	req.ID = m.nextRequestID
	req.Status = enums.RequestStatusPending
	req.CreatedAt = now
	req.UpdatedAt = now
	stored := copyRequest(req)
	m.requests[req.ID] = *stored
	return copyRequest(*stored), nil
}

func (m *memState) GetGiftRequest(_ context.Context, id int64) (*models.GiftRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyRequest(r), nil
}

func (m *memState) GetGiftRequests(_ context.Context, userID *int64) ([]models.GiftRequest, error) {
	out := make([]models.GiftRequest, 0, len(m.requests))
	for _, r := range m.requests {
		if userID != nil && r.UserID != *userID {
			continue
		}
		out = append(out, *copyRequest(r))
	}
	return sortedByID(out, func(r models.GiftRequest) int64 { return r.ID }), nil
}

func (m *memState) UpdateGiftRequestStatus(_ context.Context, id int64, status enums.RequestStatus) (*models.GiftRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = m.now()
	m.requests[id] = r
	return copyRequest(r), nil
}

func (m *memState) GetStats(_ context.Context) (Stats, error) {
	stats := Stats{
		TotalUsers:    int64(len(m.users)),
		TotalGifts:    int64(len(m.gifts)),
		TotalRequests: int64(len(m.requests)),
	}
	for _, g := range m.gifts {
		if g.Approved {
			stats.TotalApprovedGifts++
		}
	}
	return stats, nil
}

// memTx is the unlocked view handed to WithTx callbacks.
type memTx struct {
	*memState
}

func (t memTx) WithTx(_ context.Context, fn func(tx Storage) error) error {
	return fn(t)
}

func (t memTx) Ping(context.Context) error { return nil }

func (t memTx) Close() error { return nil }

// WithTx runs fn against a private copy of the state under the write lock and
// publishes the copy only when fn succeeds.
func (s *MemStorage) WithTx(ctx context.Context, fn func(tx Storage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	draft := s.state.clone()
	if err := fn(memTx{memState: draft}); err != nil {
		return err
	}
	s.state = draft
	return nil
}

func (s *MemStorage) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemStorage) Close() error {
	return nil
}

func (s *MemStorage) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetStats(ctx)
}

func (s *MemStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetUser(ctx, id)
}

func (s *MemStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetUserByUsername(ctx, username)
}

func (s *MemStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetUserByEmail(ctx, email)
}

func (s *MemStorage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateUser(ctx, user)
}

func (s *MemStorage) GetAllUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetAllUsers(ctx)
}

func (s *MemStorage) UpdateUserRole(ctx context.Context, id int64, role enums.UserRole) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateUserRole(ctx, id, role)
}

func (s *MemStorage) GetGift(ctx context.Context, id int64) (*models.Gift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetGift(ctx, id)
}

func (s *MemStorage) GetAllGifts(ctx context.Context, approved *bool) ([]models.Gift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetAllGifts(ctx, approved)
}

func (s *MemStorage) GetGiftsByVendor(ctx context.Context, vendorID int64) ([]models.Gift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetGiftsByVendor(ctx, vendorID)
}

func (s *MemStorage) CreateGift(ctx context.Context, gift models.Gift) (*models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateGift(ctx, gift)
}

func (s *MemStorage) UpdateGift(ctx context.Context, id int64, patch models.GiftPatch) (*models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateGift(ctx, id, patch)
}

func (s *MemStorage) DeleteGift(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.DeleteGift(ctx, id)
}

func (s *MemStorage) ApproveGift(ctx context.Context, id int64, approved bool) (*models.Gift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ApproveGift(ctx, id, approved)
}

func (s *MemStorage) GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetCartItems(ctx, userID)
}

func (s *MemStorage) GetCartItem(ctx context.Context, id int64) (*models.CartItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetCartItem(ctx, id)
}

func (s *MemStorage) AddToCart(ctx context.Context, item models.CartItem) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AddToCart(ctx, item)
}

func (s *MemStorage) UpdateCartItem(ctx context.Context, id int64, quantity int) (*models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateCartItem(ctx, id, quantity)
}

func (s *MemStorage) RemoveFromCart(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.RemoveFromCart(ctx, id)
}

func (s *MemStorage) ClearCart(ctx context.Context, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.ClearCart(ctx, userID)
}

func (s *MemStorage) CreateGiftRequest(ctx context.Context, req models.GiftRequest) (*models.GiftRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CreateGiftRequest(ctx, req)
}

func (s *MemStorage) GetGiftRequest(ctx context.Context, id int64) (*models.GiftRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetGiftRequest(ctx, id)
}

func (s *MemStorage) GetGiftRequests(ctx context.Context, userID *int64) ([]models.GiftRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.GetGiftRequests(ctx, userID)
}

func (s *MemStorage) UpdateGiftRequestStatus(ctx context.Context, id int64, status enums.RequestStatus) (*models.GiftRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UpdateGiftRequestStatus(ctx, id, status)
}

var (
	_ Storage = (*MemStorage)(nil)
	_ Storage = memTx{}
)

func quantityInRange(quantity int) bool {
	return quantity >= 1 && quantity <= MaxCartQuantity
}
