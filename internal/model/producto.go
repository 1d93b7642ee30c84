package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a garment base (remera, buzo, etc.) offered for customization.
// Stock is not tracked here: it lives per (talle, color) in InventarioItem.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Activo      bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Inventario []InventarioItem `gorm:"foreignKey:ProductoID;constraint:OnDelete:CASCADE"`
}

// Talles válidos, in display order. TalleOrden drives sorting of derived views.
var TalleOrden = map[string]int{"S": 0, "M": 1, "L": 2, "XL": 3, "XXL": 4}

// InventarioItem is one stock line of a product: a (talle, color) combination.
// Unique per (producto, talle, color). A Pedido references the line directly,
// not the product+talle+color triple.
type InventarioItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_producto_talle_color"`
	Talle      string    `gorm:"type:varchar(5);not null;uniqueIndex:idx_producto_talle_color"`
	Color      string    `gorm:"not null;uniqueIndex:idx_producto_talle_color"`
	Stock      int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization (inventario_items → inventario).
func (InventarioItem) TableName() string { return "inventario" }
