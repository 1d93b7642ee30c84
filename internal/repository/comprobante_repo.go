package repository

import (
	"context"
	"time"

	"github.com/gastonr9/sublimo-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ComprobanteRepository interface {
	Create(ctx context.Context, c *model.Comprobante) error
	FindByPedidoID(ctx context.Context, pedidoID uuid.UUID) (*model.Comprobante, error)
	Update(ctx context.Context, c *model.Comprobante) error
	// ListPendingRetries returns pending vouchers whose next_retry_at has passed.
	ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Comprobante, error)
}

type comprobanteRepo struct{ db *gorm.DB }

func NewComprobanteRepository(db *gorm.DB) ComprobanteRepository { return &comprobanteRepo{db: db} }

func (r *comprobanteRepo) Create(ctx context.Context, c *model.Comprobante) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *comprobanteRepo) FindByPedidoID(ctx context.Context, pedidoID uuid.UUID) (*model.Comprobante, error) {
	var c model.Comprobante
	err := r.db.WithContext(ctx).Where("pedido_id = ?", pedidoID).First(&c).Error
	return &c, err
}

func (r *comprobanteRepo) Update(ctx context.Context, c *model.Comprobante) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *comprobanteRepo) ListPendingRetries(ctx context.Context, now time.Time, limit int) ([]model.Comprobante, error) {
	var comps []model.Comprobante
	err := r.db.WithContext(ctx).
		Preload("Pedido.InventarioItem.Producto").
		Preload("Pedido.Diseno").
		Where("estado = 'pendiente' AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&comps).Error
	return comps, err
}
