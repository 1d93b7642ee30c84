package repository

import (
	"context"

	"github.com/gastonr9/sublimo-app-sub000/internal/model"

	"gorm.io/gorm"
)

// MovimientoStockRepository persists the stock audit trail.
// Movement rows are append-only: they are never updated or deleted.
type MovimientoStockRepository interface {
	CreateTx(tx *gorm.DB, m *model.MovimientoStock) error
	Create(ctx context.Context, m *model.MovimientoStock) error
	List(ctx context.Context, limit int) ([]model.MovimientoStock, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) CreateTx(tx *gorm.DB, m *model.MovimientoStock) error {
	return tx.Create(m).Error
}

func (r *movimientoStockRepo) Create(ctx context.Context, m *model.MovimientoStock) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, limit int) ([]model.MovimientoStock, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}
	var movs []model.MovimientoStock
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&movs).Error
	return movs, err
}
