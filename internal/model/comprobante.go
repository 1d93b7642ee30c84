package model

import (
	"time"

	"github.com/google/uuid"
)

// Comprobante is the record of a pedido voucher: a PDF summary generated after
// commit and optionally mailed to the customer.
// Estado: "pendiente" | "emitido" | "error"
// Pendiente vouchers with NextRetryAt in the past are re-attempted by the
// retry cron; past MaxComprobanteRetries they move to "error" and the DLQ.
type Comprobante struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	PDFPath     *string
	Estado      string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	RetryCount  int    `gorm:"not null;default:0"`
	NextRetryAt *time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Pedido *Pedido `gorm:"foreignKey:PedidoID"`
}
