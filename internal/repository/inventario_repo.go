package repository

import (
	"context"

	"github.com/gastonr9/sublimo-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventarioRepository manages per-(talle, color) stock lines.
type InventarioRepository interface {
	Create(ctx context.Context, item *model.InventarioItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.InventarioItem, error)
	// FindBySeleccion resolves the unique line for (producto, talle, color).
	FindBySeleccion(ctx context.Context, productoID uuid.UUID, talle, color string) (*model.InventarioItem, error)
	ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.InventarioItem, error)
	Update(ctx context.Context, item *model.InventarioItem) error
	Delete(ctx context.Context, id uuid.UUID) error

	// DescontarStockTx decrements stock by one iff stock > 0, inside tx.
	// Returns the number of rows affected: 0 means the line was already empty
	// and the caller must treat the sale as out of stock.
	DescontarStockTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	// RestaurarStockTx increments stock by one, inside tx.
	RestaurarStockTx(tx *gorm.DB, id uuid.UUID) error
	// AjustarStock applies a relative delta outside any caller transaction.
	AjustarStock(ctx context.Context, id uuid.UUID, delta int) error

	DB() *gorm.DB
}

type inventarioRepo struct{ db *gorm.DB }

func NewInventarioRepository(db *gorm.DB) InventarioRepository { return &inventarioRepo{db: db} }

func (r *inventarioRepo) Create(ctx context.Context, item *model.InventarioItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventarioRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.InventarioItem, error) {
	var item model.InventarioItem
	err := r.db.WithContext(ctx).Preload("Producto").First(&item, "id = ?", id).Error
	return &item, err
}

func (r *inventarioRepo) FindBySeleccion(ctx context.Context, productoID uuid.UUID, talle, color string) (*model.InventarioItem, error) {
	var item model.InventarioItem
	err := r.db.WithContext(ctx).
		Where("producto_id = ? AND talle = ? AND color = ?", productoID, talle, color).
		First(&item).Error
	return &item, err
}

func (r *inventarioRepo) ListByProducto(ctx context.Context, productoID uuid.UUID) ([]model.InventarioItem, error) {
	var items []model.InventarioItem
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).Find(&items).Error
	return items, err
}

func (r *inventarioRepo) Update(ctx context.Context, item *model.InventarioItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *inventarioRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.InventarioItem{}, "id = ?", id).Error
}

// DescontarStockTx is the conditional decrement that closes the lost-update
// race: two concurrent commits on a stock=1 line can both read 1, but only
// one UPDATE matches the stock > 0 guard.
func (r *inventarioRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.InventarioItem{}).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	return res.RowsAffected, res.Error
}

func (r *inventarioRepo) RestaurarStockTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.InventarioItem{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + 1")).Error
}

func (r *inventarioRepo) AjustarStock(ctx context.Context, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.InventarioItem{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}

func (r *inventarioRepo) DB() *gorm.DB { return r.db }
