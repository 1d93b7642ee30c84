package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CrearUsuarioRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Nombre   string `json:"nombre"   validate:"required,min=2,max=80"`
	Rol      string `json:"rol"      validate:"required,oneof=master empleado"`
}

type ActualizarUsuarioRequest struct {
	Email    *string `json:"email"    validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Nombre   *string `json:"nombre"   validate:"omitempty,min=2,max=80"`
	Rol      *string `json:"rol"      validate:"omitempty,oneof=master empleado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Nombre string `json:"nombre"`
	Rol    string `json:"rol"`
	Activo bool   `json:"activo"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        UsuarioResponse `json:"user"`
}
