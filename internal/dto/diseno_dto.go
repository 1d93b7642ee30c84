package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearDisenoRequest associates metadata with an already-uploaded image.
// ImagenNombre is the object name returned by the upload endpoint.
type CrearDisenoRequest struct {
	Nombre       string `json:"nombre"        validate:"required,min=2,max=80"`
	ImagenNombre string `json:"imagen_nombre" validate:"required"`
	Stock        int    `json:"stock"         validate:"min=0"`
}

type ActualizarDisenoRequest struct {
	Nombre       *string `json:"nombre"       validate:"omitempty,min=2,max=80"`
	Stock        *int    `json:"stock"        validate:"omitempty,min=0"`
	Seleccionado *bool   `json:"seleccionado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DisenoResponse struct {
	ID           string `json:"id"`
	Nombre       string `json:"nombre"`
	ImagenURL    string `json:"imagen_url"`
	Stock        int    `json:"stock"`
	Seleccionado bool   `json:"seleccionado"`
}

// SubirImagenResponse is returned by the image upload endpoint.
type SubirImagenResponse struct {
	Nombre string `json:"nombre"`
	URL    string `json:"url"`
}
