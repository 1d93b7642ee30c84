package repository

import (
	"context"

	"github.com/gastonr9/sublimo-app-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DisenoRepository interface {
	Create(ctx context.Context, d *model.Diseno) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Diseno, error)
	// ListSeleccionables returns designs visible to customers:
	// seleccionado = true AND stock > 0.
	ListSeleccionables(ctx context.Context) ([]model.Diseno, error)
	ListAll(ctx context.Context) ([]model.Diseno, error)
	Update(ctx context.Context, d *model.Diseno) error
	// Quitar is the soft removal: the row stays, customers stop seeing it.
	Quitar(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error

	DescontarStockTx(tx *gorm.DB, id uuid.UUID) (int64, error)
	RestaurarStockTx(tx *gorm.DB, id uuid.UUID) error
}

type disenoRepo struct{ db *gorm.DB }

func NewDisenoRepository(db *gorm.DB) DisenoRepository { return &disenoRepo{db: db} }

func (r *disenoRepo) Create(ctx context.Context, d *model.Diseno) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *disenoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Diseno, error) {
	var d model.Diseno
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *disenoRepo) ListSeleccionables(ctx context.Context) ([]model.Diseno, error) {
	var disenos []model.Diseno
	err := r.db.WithContext(ctx).
		Where("seleccionado = true AND stock > 0").
		Order("nombre ASC").
		Find(&disenos).Error
	return disenos, err
}

func (r *disenoRepo) ListAll(ctx context.Context) ([]model.Diseno, error) {
	var disenos []model.Diseno
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&disenos).Error
	return disenos, err
}

func (r *disenoRepo) Update(ctx context.Context, d *model.Diseno) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *disenoRepo) Quitar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Diseno{}).Where("id = ?", id).
		Update("seleccionado", false).Error
}

func (r *disenoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Diseno{}, "id = ?", id).Error
}

func (r *disenoRepo) DescontarStockTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.Diseno{}).
		Where("id = ? AND stock > 0", id).
		Update("stock", gorm.Expr("stock - 1"))
	return res.RowsAffected, res.Error
}

func (r *disenoRepo) RestaurarStockTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.Diseno{}).Where("id = ?", id).
		Update("stock", gorm.Expr("stock + 1")).Error
}
