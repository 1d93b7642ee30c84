package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de pedido. "confirmado" is a legacy alias accepted on status change
// and mapped to EstadoRealizado before persisting.
const (
	EstadoPendiente = "pendiente"
	EstadoRealizado = "realizado"
	EstadoCancelado = "cancelado"
)

// Pedido is a customer order for one customized garment unit.
// While a pedido is pendiente or realizado, the referenced InventarioItem and
// Diseno each hold one unit of stock on its behalf; cancelling (or deleting a
// realizado pedido) returns both units.
type Pedido struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NombreCliente    string    `gorm:"not null"`
	ApellidoCliente  string    `gorm:"not null"`
	EmailCliente     *string
	InventarioItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	DisenoID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Estado           string    `gorm:"type:varchar(20);not null;default:'pendiente'"`
	CreatedAt        time.Time

	InventarioItem *InventarioItem `gorm:"foreignKey:InventarioItemID"`
	Diseno         *Diseno         `gorm:"foreignKey:DisenoID"`
}

// TableName overrides GORM's pluralization (pedidoes → pedidos).
func (Pedido) TableName() string { return "pedidos" }
