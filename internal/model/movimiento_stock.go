package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock registra cada cambio de stock sobre una línea de inventario
// o un diseño. Se crea al confirmar un pedido, al restaurar stock por
// cancelación/eliminación y en ajustes manuales de staff.
type MovimientoStock struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Exactly one of InventarioItemID / DisenoID is set.
	InventarioItemID *uuid.UUID `gorm:"type:uuid;index"`
	DisenoID         *uuid.UUID `gorm:"type:uuid;index"`
	Tipo             string     `gorm:"not null"` // "pedido" | "restore_cancelacion" | "restore_eliminacion" | "ajuste_manual"
	Cantidad         int        `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior    int        `gorm:"not null"`
	StockNuevo       int        `gorm:"not null"`
	Motivo           string
	ReferenciaID     *uuid.UUID `gorm:"type:uuid"` // pedido_id if applicable
	CreatedAt        time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }
