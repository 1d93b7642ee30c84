package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ConfirmarPedidoRequest is the full customer selection at commit time.
// Every field is required: the UI cannot reach commit without talle, color,
// diseño and customer names chosen, and the server re-enforces that here.
type ConfirmarPedidoRequest struct {
	ProductoID      string  `json:"producto_id"      validate:"required,uuid"`
	Talle           string  `json:"talle"            validate:"required,oneof=S M L XL XXL"`
	Color           string  `json:"color"            validate:"required"`
	DisenoID        string  `json:"diseno_id"        validate:"required,uuid"`
	NombreCliente   string  `json:"nombre_cliente"   validate:"required,min=2,max=60"`
	ApellidoCliente string  `json:"apellido_cliente" validate:"required,min=2,max=60"`
	EmailCliente    *string `json:"email_cliente"    validate:"omitempty,email"`
}

type CambiarEstadoRequest struct {
	// "confirmado" is accepted as a legacy alias of "realizado"
	Estado string `json:"estado" validate:"required,oneof=pendiente realizado confirmado cancelado"`
}

// ─── Filter / List ───────────────────────────────────────────────────────────

type PedidoFilter struct {
	Estado string `form:"estado"` // pendiente | realizado | cancelado | all (default all)
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PedidoResponse struct {
	ID              string `json:"id"`
	NombreCliente   string `json:"nombre_cliente"`
	ApellidoCliente string `json:"apellido_cliente"`
	Producto        string `json:"producto"`
	Talle           string `json:"talle"`
	Color           string `json:"color"`
	Diseno          string `json:"diseno"`
	DisenoImagenURL string `json:"diseno_imagen_url"`
	Estado          string `json:"estado"`
	CreatedAt       string `json:"created_at"`
}

type PedidoListResponse struct {
	Data  []PedidoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
