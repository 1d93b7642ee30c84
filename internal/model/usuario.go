package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles de staff.
const (
	RolMaster   = "master"
	RolEmpleado = "empleado"
)

// Usuario stores staff accounts with role-based access.
// Rol: "master" | "empleado"
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"not null"`
	PasswordHash string    `gorm:"not null"`
	Rol          string    `gorm:"type:varchar(20);not null"`
	Activo       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
