package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/charlesng35/stockpulse/internal/models"
)

// InventoryRepository persists inventory items scoped to their owner.
type InventoryRepository interface {
	Create(ctx context.Context, item *models.InventoryItem) error
	FindOwned(ctx context.Context, userID, id string) (*models.InventoryItem, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.InventoryItem, int64, error)
	UpdateQuantity(ctx context.Context, userID, id string, quantity int) (int64, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository returns the gorm-backed inventory store.
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	if r.db == nil {
		return ErrDBNotReady
	}
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepository) FindOwned(ctx context.Context, userID, id string) (*models.InventoryItem, error) {
	if r.db == nil {
		return nil, ErrDBNotReady
	}
	var item models.InventoryItem
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.InventoryItem, int64, error) {
	if r.db == nil {
		return nil, 0, ErrDBNotReady
	}
	var (
		items []models.InventoryItem
		total int64
	)
	q := r.db.WithContext(ctx).Model(&models.InventoryItem{}).Where("user_id = ?", userID)
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("name ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *inventoryRepository) UpdateQuantity(ctx context.Context, userID, id string, quantity int) (int64, error) {
	if r.db == nil {
		return 0, ErrDBNotReady
	}
	res := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", quantity)
	return res.RowsAffected, res.Error
}
