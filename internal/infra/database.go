package infra

import (
	"fmt"

	"github.com/gastonr9/sublimo-app-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the full schema: AutoMigrate for tables plus the
// partial index used by the voucher retry cron. Safe to re-run.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Producto{},
		&model.InventarioItem{},
		&model.Diseno{},
		&model.Pedido{},
		&model.Usuario{},
		&model.MovimientoStock{},
		&model.Comprobante{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot handle on its
// own. Each statement is guarded so re-running on a patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// partial index for the voucher retry cron query
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_comprobantes_pending_retry') THEN
		    CREATE INDEX idx_comprobantes_pending_retry
		        ON comprobantes (next_retry_at)
		        WHERE estado = 'pendiente' AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
		// estado + fecha ordering for the pedido listing
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_pedidos_estado_created') THEN
		    CREATE INDEX idx_pedidos_estado_created
		        ON pedidos (estado, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
