package model

import (
	"time"

	"github.com/google/uuid"
)

// Diseno is a printable design (estampa) customers can pick for a garment.
// Seleccionado=false is a soft removal: the row stays for existing pedidos,
// customers just stop seeing it. Visible to customers iff Seleccionado && Stock>0.
type Diseno struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"not null"`
	ImagenURL    string    `gorm:"not null"`
	Stock        int       `gorm:"not null;default:0"`
	Seleccionado bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName overrides GORM's pluralization for the Spanish name.
func (Diseno) TableName() string { return "disenos" }
