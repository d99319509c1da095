package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giftconnect/giftconnect-backend/pkg/db"
	"github.com/giftconnect/giftconnect-backend/pkg/db/models"
	"github.com/giftconnect/giftconnect-backend/pkg/enums"
)

var autoMigrateIndexes = []string{
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (lower(username))",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower ON users (lower(email))",
}

// GormStorage persists entities through GORM. Postgres schemas come from the
// goose migrations; sqlite databases are created with AutoMigrate.
type GormStorage struct {
	client *db.Client
	conn   *gorm.DB
	now    func() time.Time
}

// NewGormStorage binds a storage to the shared database client.
func NewGormStorage(client *db.Client) (*GormStorage, error) {
	if client == nil || client.DB() == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &GormStorage{
		client: client,
		conn:   client.DB(),
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

// AutoMigrate creates the tables from the models. Used for sqlite and tests.
func (s *GormStorage) AutoMigrate(ctx context.Context) error {
	conn := s.conn.WithContext(ctx)
	if err := conn.AutoMigrate(&models.User{}, &models.Gift{}, &models.CartItem{}, &models.GiftRequest{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range autoMigrateIndexes {
		if err := conn.Exec(stmt).Error; err != nil {
			return fmt.Errorf("auto migrate index: %w", err)
		}
	}
	return nil
}

func (s *GormStorage) session(ctx context.Context) *gorm.DB {
	return s.conn.WithContext(ctx)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNotFound(err):
		return ErrNotFound
	case db.IsUniqueViolation(err, ""):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

// users

func (s *GormStorage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.session(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *GormStorage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.session(ctx).
		Where("lower(username) = ?", strings.ToLower(strings.TrimSpace(username))).
		Order("id").
		First(&user).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *GormStorage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.session(ctx).
		Where("lower(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("id").
		First(&user).Error
	if err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *GormStorage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	user.ID = 0
	if err := s.session(ctx).Create(&user).Error; err != nil {
		return nil, mapErr(err)
	}
	return &user, nil
}

func (s *GormStorage) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.session(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStorage) UpdateUserRole(ctx context.Context, id int64, role enums.UserRole) (*models.User, error) {
	res := s.session(ctx).Model(&models.User{}).Where("id = ?", id).UpdateColumn("role", role)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

// gifts

func (s *GormStorage) GetGift(ctx context.Context, id int64) (*models.Gift, error) {
	var gift models.Gift
	if err := s.session(ctx).First(&gift, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &gift, nil
}

func (s *GormStorage) GetAllGifts(ctx context.Context, approved *bool) ([]models.Gift, error) {
	query := s.session(ctx).Order("id")
	if approved != nil {
		query = query.Where("approved = ?", *approved)
	}
	gifts := []models.Gift{}
	if err := query.Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

func (s *GormStorage) GetGiftsByVendor(ctx context.Context, vendorID int64) ([]models.Gift, error) {
	gifts := []models.Gift{}
	if err := s.session(ctx).Where("vendor_id = ?", vendorID).Order("id").Find(&gifts).Error; err != nil {
		return nil, err
	}
	return gifts, nil
}

func (s *GormStorage) CreateGift(ctx context.Context, gift models.Gift) (*models.Gift, error) {
	gift.ID = 0
	gift.Approved = false
	gift.CreatedAt = s.now()
	if err := s.session(ctx).Create(&gift).Error; err != nil {
		return nil, mapErr(err)
	}
	return &gift, nil
}

func (s *GormStorage) UpdateGift(ctx context.Context, id int64, patch models.GiftPatch) (*models.Gift, error) {
	if _, err := s.GetGift(ctx, id); err != nil {
		return nil, err
	}
	if cols := patch.Columns(); len(cols) > 0 {
		if err := s.session(ctx).Model(&models.Gift{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return nil, mapErr(err)
		}
	}
	return s.GetGift(ctx, id)
}

func (s *GormStorage) DeleteGift(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := s.session(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gift_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Gift{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *GormStorage) ApproveGift(ctx context.Context, id int64, approved bool) (*models.Gift, error) {
	if _, err := s.GetGift(ctx, id); err != nil {
		return nil, err
	}
	if err := s.session(ctx).Model(&models.Gift{}).Where("id = ?", id).UpdateColumn("approved", approved).Error; err != nil {
		return nil, err
	}
	return s.GetGift(ctx, id)
}

// cart

func (s *GormStorage) GetCartItems(ctx context.Context, userID int64) ([]models.CartItem, error) {
	items := []models.CartItem{}
	if err := s.session(ctx).Where("user_id = ?", userID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStorage) GetCartItem(ctx context.Context, id int64) (*models.CartItem, error) {
	var item models.CartItem
	if err := s.session(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &item, nil
}

// AddToCart inserts the row or adds the quantity to the existing (user, gift) row.
func (s *GormStorage) AddToCart(ctx context.Context, item models.CartItem) (*models.CartItem, error) {
	if !quantityInRange(item.Quantity) {
		return nil, ErrQuantityLimit
	}
	item.ID = 0
	res := s.session(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "gift_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
		// the merge is skipped, and no row affected, when it would pass the cap
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "cart_items.quantity + excluded.quantity <= ?", Vars: []any{MaxCartQuantity}},
		}},
	}).Create(&item)
	if res.Error != nil {
		return nil, mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrQuantityLimit
	}

	var stored models.CartItem
	if err := s.session(ctx).
		Where("user_id = ? AND gift_id = ?", item.UserID, item.GiftID).
		First(&stored).Error; err != nil {
		return nil, mapErr(err)
	}
	return &stored, nil
}

func (s *GormStorage) UpdateCartItem(ctx context.Context, id int64, quantity int) (*models.CartItem, error) {
	if _, err := s.GetCartItem(ctx, id); err != nil {
		return nil, err
	}
	if !quantityInRange(quantity) {
		return nil, ErrQuantityLimit
	}
	if err := s.session(ctx).Model(&models.CartItem{}).Where("id = ?", id).UpdateColumn("quantity", quantity).Error; err != nil {
		return nil, err
	}
	return s.GetCartItem(ctx, id)
}

func (s *GormStorage) RemoveFromCart(ctx context.Context, id int64) (bool, error) {
	res := s.session(ctx).Where("id = ?", id).Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStorage) ClearCart(ctx context.Context, userID int64) (bool, error) {
	if err := s.session(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return false, err
	}
	return true, nil
}

// gift requests

func (s *GormStorage) CreateGiftRequest(ctx context.Context, req models.GiftRequest) (*models.GiftRequest, error) {
	now := s.now()
	req.ID = 0
	req.Status = enums.RequestStatusPending
	req.CreatedAt = now
	req.UpdatedAt = now
	if err := s.session(ctx).Create(&req).Error; err != nil {
		return nil, mapErr(err)
	}
	return &req, nil
}

func (s *GormStorage) GetGiftRequest(ctx context.Context, id int64) (*models.GiftRequest, error) {
	var req models.GiftRequest
	if err := s.session(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, mapErr(err)
	}
	return &req, nil
}

func (s *GormStorage) GetGiftRequests(ctx context.Context, userID *int64) ([]models.GiftRequest, error) {
	query := s.session(ctx).Order("id")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	reqs := []models.GiftRequest{}
	if err := query.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (s *GormStorage) UpdateGiftRequestStatus(ctx context.Context, id int64, status enums.RequestStatus) (*models.GiftRequest, error) {
	res := s.session(ctx).Model(&models.GiftRequest{}).Where("id = ?", id).UpdateColumns(map[string]any{
		"status":     status,
		"updated_at": s.now(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetGiftRequest(ctx, id)
}

func (s *GormStorage) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats
	conn := s.session(ctx)
	if err := conn.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return Stats{}, err
	}
	if err := conn.Model(&models.Gift{}).Count(&stats.TotalGifts).Error; err != nil {
		return Stats{}, err
	}
	if err := conn.Model(&models.Gift{}).Where("approved = ?", true).Count(&stats.TotalApprovedGifts).Error; err != nil {
		return Stats{}, err
	}
	if err := conn.Model(&models.GiftRequest{}).Count(&stats.TotalRequests).Error; err != nil {
		return Stats{}, err
	}
	return stats, nil
}

// WithTx runs fn inside a database transaction. Nested calls reuse the
// enclosing transaction through savepoints.
func (s *GormStorage) WithTx(ctx context.Context, fn func(tx Storage) error) error {
	return s.session(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStorage{conn: tx, now: s.now})
	})
}

func (s *GormStorage) Ping(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Ping(ctx)
}

func (s *GormStorage) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

var _ Storage = (*GormStorage)(nil)

