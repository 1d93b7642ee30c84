package repository

import (
	"context"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("InventarioItem.Producto").
		Preload("Diseno").
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var pedidos []model.Pedido
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Pedido{})

	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("InventarioItem.Producto").Preload("Diseno").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&pedidos).Error

	return pedidos, total, err
}

func (r *pedidoRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	return tx.Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Delete(&model.Pedido{}, "id = ?", id).Error
}
