package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/tableorder/models"
)

type TableRepo struct {
	db *gorm.DB
}

func NewTableRepo(db *gorm.DB) *TableRepo {
	return &TableRepo{db: db}
}

func (r *TableRepo) Create(ctx context.Context, table *models.Table) error {
	return translate(r.db.WithContext(ctx).Create(table).Error, "create table %d", table.TableNumber)
}

func (r *TableRepo) FindByID(ctx context.Context, id uint) (*models.Table, error) {
	var table models.Table
	if err := r.db.WithContext(ctx).First(&table, id).Error; err != nil {
		return nil, translate(err, "table %d", id)
	}
	return &table, nil
}

func (r *TableRepo) FindByNumber(ctx context.Context, restaurantID uint, number int) (*models.Table, error) {
	var table models.Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND table_number = ?", restaurantID, number).
		First(&table).Error
	if err != nil {
		return nil, translate(err, "table %d of restaurant %d", number, restaurantID)
	}
	return &table, nil
}

func (r *TableRepo) ListByRestaurant(ctx context.Context, restaurantID uint) ([]models.Table, error) {
	var tables []models.Table
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("table_number ASC").
		Find(&tables).Error
	if err != nil {
		return nil, translate(err, "tables of restaurant %d", restaurantID)
	}
	return tables, nil
}

// UpdateSession writes the three session columns in one statement and
// returns the stored row.
func (r *TableRepo) UpdateSession(ctx context.Context, id uint, active bool, expiresAt *time.Time, activatedBy string, at time.Time) (*models.Table, error) {
	err := r.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"session_active":     active,
			"session_expires_at": expiresAt,
			"activated_by":       activatedBy,
			"updated_at":         at,
		}).Error
	if err != nil {
		return nil, translate(err, "update session of table %d", id)
	}
	return r.FindByID(ctx, id)
}
