package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre      string          `json:"nombre"      validate:"required,min=2,max=120"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"      validate:"required"`
	// Optional initial inventory lines created together with the product
	Inventario []CrearInventarioItemRequest `json:"inventario" validate:"omitempty,dive"`
}

type ActualizarProductoRequest struct {
	Nombre      *string          `json:"nombre"      validate:"omitempty,min=2,max=120"`
	Descripcion *string          `json:"descripcion"`
	Precio      *decimal.Decimal `json:"precio"`
}

type CrearInventarioItemRequest struct {
	Talle string `json:"talle" validate:"required,oneof=S M L XL XXL"`
	Color string `json:"color" validate:"required,min=2,max=40"`
	Stock int    `json:"stock" validate:"min=0"`
}

type ActualizarInventarioItemRequest struct {
	Talle *string `json:"talle" validate:"omitempty,oneof=S M L XL XXL"`
	Color *string `json:"color" validate:"omitempty,min=2,max=40"`
	Stock *int    `json:"stock" validate:"omitempty,min=0"`
}

// AjustarStockRequest applies a relative delta to one inventory line.
type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventarioItemResponse struct {
	ID    string `json:"id"`
	Talle string `json:"talle"`
	Color string `json:"color"`
	Stock int    `json:"stock"`
}

type MovimientoStockResponse struct {
	ID               string  `json:"id"`
	InventarioItemID *string `json:"inventario_item_id,omitempty"`
	DisenoID         *string `json:"diseno_id,omitempty"`
	Tipo             string  `json:"tipo"`
	Cantidad         int     `json:"cantidad"`
	StockAnterior    int     `json:"stock_anterior"`
	StockNuevo       int     `json:"stock_nuevo"`
	Motivo           string  `json:"motivo,omitempty"`
	ReferenciaID     *string `json:"referencia_id,omitempty"`
	CreatedAt        string  `json:"created_at"`
}

type ProductoResponse struct {
	ID          string                   `json:"id"`
	Nombre      string                   `json:"nombre"`
	Descripcion *string                  `json:"descripcion"`
	Precio      decimal.Decimal          `json:"precio"`
	Activo      bool                     `json:"activo"`
	Inventario  []InventarioItemResponse `json:"inventario"`
}
