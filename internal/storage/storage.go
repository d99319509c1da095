// Package storage is the single source of truth for marketplace entities.
// Implementations perform CRUD and filtered reads only; authorization and
// cross-entity rules live in the domain services.
package storage

import (
	"context"
	"errors"

	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

// ErrNotFound is returned when a lookup or targeted mutation finds no row.
var ErrNotFound = errors.New("storage: record not found")

// ErrConflict is returned when a write violates a uniqueness constraint.
var ErrConflict = errors.New("storage: unique constraint violated")

// MaxCartQuantity caps a cart row, including the sum of merged adds.
const MaxCartQuantity = 10000

// ErrQuantityLimit is returned when a cart write would leave a row outside
// 1..MaxCartQuantity.
var ErrQuantityLimit = errors.New("storage: cart quantity out of range")

// Stats aggregates marketplace counters.
type Stats struct {
	TotalUsers         int64
	TotalGifts         int64
	TotalApprovedGifts int64
	TotalRequests      int64
}

// UserStore persists accounts. Username and email lookups are case-insensitive.
// CreateUser does not enforce uniqueness; callers check before inserting.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUserRole(ctx context.Context, id int64, role enums.UserRole) (*models.User, error)
}

// GiftStore persists catalog items.
type GiftStore interface {
	GetGift(ctx context.Context, id int64) (*models.Gift, error)
	// GetAllGifts returns every gift when approved is nil, otherwise only
	// gifts whose flag equals *approved.
	GetAllGifts(ctx context.Context, approved *bool) ([]models.Gift, error)
	GetGiftsByVendor(ctx context.Context, vendorID int64) ([]models.Gift, error)
	// CreateGift always stores the gift unapproved.
	CreateGift(ctx context.Context, gift models.Gift) (*models.Gift, error)
	UpdateGift(ctx context.Context, id int64, patch models.GiftPatch) (*models.Gift, error)
	DeleteGift(ctx context.Context, id int64) (bool, error)
	ApproveGift(ctx context.Context, id int64, approved bool) (*models.Gift, error)
}

// CartStore persists cart rows, one per (user, gift).
type CartStore interface {
	GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, id int64) (*models.CartItem, error)
	// AddToCart merges into an existing row for the same user and gift by
	// summing quantities.
	AddToCart(ctx context.Context, item models.CartItem) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, id int64, quantity int) (*models.CartItem, error)
	RemoveFromCart(ctx context.Context, id int64) (bool, error)
	ClearCart(ctx context.Context, userID int64) (bool, error)
}

// GiftRequestStore persists submitted requests.
type GiftRequestStore interface {
	// CreateGiftRequest always stores the request as Pending.
	CreateGiftRequest(ctx context.Context, req models.GiftRequest) (*models.GiftRequest, error)
	GetGiftRequest(ctx context.Context, id int64) (*models.GiftRequest, error)
	// GetGiftRequests returns all requests when userID is nil.
	GetGiftRequests(ctx context.Context, userID *int64) ([]models.GiftRequest, error)
	UpdateGiftRequestStatus(ctx context.Context, id int64, status enums.RequestStatus) (*models.GiftRequest, error)
}

// Storage is the full repository surface.
type Storage interface {
	UserStore
	GiftStore
	CartStore
	GiftRequestStore

	GetStats(ctx context.Context) (Stats, error)
	// WithTx runs fn atomically against a transactional view of the store.
	// Any error returned by fn discards every write fn made.
	WithTx(ctx context.Context, fn func(tx Storage) error) error
	Ping(ctx context.Context) error
	Close() error
}
