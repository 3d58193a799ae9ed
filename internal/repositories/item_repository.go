package repositories

import (
	"errors"

	"gorm.io/gorm"

	"renthub_backend/internal/models"
)

var ErrItemNotFound = errors.New("item not found")

type ItemRepository interface {
	Create(item *models.Item) error
	FindByID(id string) (*models.Item, error)
	Update(item *models.Item) error
	ListApproved(city string, limit, offset int) ([]models.Item, int64, error)
	ListByOwner(ownerID string) ([]models.Item, error)
	UpdateModeration(itemID string, status models.ModerationStatus) error
	SetAvailability(itemID, ownerID string, available bool) error
}

type ItemRepositoryImpl struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &ItemRepositoryImpl{db: db}
}

func (r *ItemRepositoryImpl) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

func (r *ItemRepositoryImpl) FindByID(id string) (*models.Item, error) {
	var item models.Item
	err := r.db.Preload("Owner").First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepositoryImpl) Update(item *models.Item) error {
	result := r.db.Model(item).Updates(map[string]interface{}{
		"title":         item.Title,
		"description":   item.Description,
		"quantity":      item.Quantity,
		"price_per_day": item.PricePerDay,
		"deposit_fee":   item.DepositFee,
		"city":          item.City,
		"photos":        item.Photos,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ItemRepositoryImpl) ListApproved(city string, limit, offset int) ([]models.Item, int64, error) {
	query := r.db.Model(&models.Item{}).
		Where("moderation = ? AND is_available = ?", models.ModerationStatusApproved, true)
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Item
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *ItemRepositoryImpl) ListByOwner(ownerID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *ItemRepositoryImpl) UpdateModeration(itemID string, status models.ModerationStatus) error {
	result := r.db.Model(&models.Item{}).Where("id = ?", itemID).Update("moderation", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *ItemRepositoryImpl) SetAvailability(itemID, ownerID string, available bool) error {
	result := r.db.Model(&models.Item{}).
		Where("id = ? AND owner_id = ?", itemID, ownerID).
		Update("is_available", available)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
