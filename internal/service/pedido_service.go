package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"
	"github.com/gastonr9/sublimo-app-sub000/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoService interface {
	ConfirmarPedido(ctx context.Context, req dto.ConfirmarPedidoRequest) (*dto.PedidoResponse, error)
	ListarPedidos(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error)
	CambiarEstado(ctx context.Context, id uuid.UUID, nuevoEstado string) (*dto.PedidoResponse, error)
	EliminarPedido(ctx context.Context, id uuid.UUID) error
}

type pedidoService struct {
	repo           repository.PedidoRepository
	inventarioRepo repository.InventarioRepository
	disenoRepo     repository.DisenoRepository
	movimientoRepo repository.MovimientoStockRepository
	catalogo       CatalogoInvalidator
	dispatcher     *worker.Dispatcher
}

func NewPedidoService(
	repo repository.PedidoRepository,
	inventarioRepo repository.InventarioRepository,
	disenoRepo repository.DisenoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	catalogo CatalogoInvalidator,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{
		repo:           repo,
		inventarioRepo: inventarioRepo,
		disenoRepo:     disenoRepo,
		movimientoRepo: movimientoRepo,
		catalogo:       catalogo,
		dispatcher:     dispatcher,
	}
}

// invalidarCatalogo drops the cached product list after a stock change.
func (s *pedidoService) invalidarCatalogo(ctx context.Context) {
	if s.catalogo != nil {
		s.catalogo.InvalidarCache(ctx)
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// mapEstado normalizes the legacy alias "confirmado" kept for old admin clients.
func mapEstado(estado string) string {
	if estado == "confirmado" {
		return model.EstadoRealizado
	}
	return estado
}

// ── ConfirmarPedido ───────────────────────────────────────────────────────────
// Commit sequence:
//   1. Resolve the unique inventory line for (producto, talle, color)
//   2. Resolve the diseño; it must still be selectable
//   3. Pre-flight stock check on both (fast-fail before opening a tx)
//   4. BEGIN TX: insert pedido, conditional stock decrement on the line and
//      the diseño (UPDATE … WHERE stock > 0, RowsAffected checked), write
//      movimiento rows
//   5. COMMIT — a failed decrement rolls the pedido insert back with it
//   6. (async) enqueue the voucher job when the customer left an email
//
// The decrement-inside-tx shape means a lost update between two concurrent
// commits on the same stock=1 line is impossible: one tx wins, the other sees
// zero rows affected and aborts with ErrSinStock.

func (s *pedidoService) ConfirmarPedido(ctx context.Context, req dto.ConfirmarPedidoRequest) (*dto.PedidoResponse, error) {
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		return nil, fmt.Errorf("producto_id inválido: %w", err)
	}
	disenoID, err := uuid.Parse(req.DisenoID)
	if err != nil {
		return nil, fmt.Errorf("diseno_id inválido: %w", err)
	}

	// 1. Resolve the unique line for the selection
	item, err := s.inventarioRepo.FindBySeleccion(ctx, productoID, req.Talle, req.Color)
	if err != nil {
		return nil, fmt.Errorf("%w: no existe inventario para %s/%s", ErrNoEncontrado, req.Talle, req.Color)
	}

	// 2. Resolve the diseño
	diseno, err := s.disenoRepo.FindByID(ctx, disenoID)
	if err != nil {
		return nil, fmt.Errorf("%w: diseno %s", ErrNoEncontrado, req.DisenoID)
	}
	if !diseno.Seleccionado {
		return nil, ErrDisenoNoDisponible
	}

	// 3. Pre-flight stock check
	if item.Stock <= 0 || diseno.Stock <= 0 {
		return nil, ErrSinStock
	}

	// 4. ACID transaction
	pedido := model.Pedido{
		NombreCliente:    req.NombreCliente,
		ApellidoCliente:  req.ApellidoCliente,
		EmailCliente:     req.EmailCliente,
		InventarioItemID: item.ID,
		DisenoID:         diseno.ID,
		Estado:           model.EstadoPendiente,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &pedido); err != nil {
			return err
		}

		affected, err := s.inventarioRepo.DescontarStockTx(tx, item.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			// Another commit emptied the line between pre-flight and here.
			return ErrSinStock
		}

		affected, err = s.disenoRepo.DescontarStockTx(tx, diseno.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrSinStock
		}

		ref := pedido.ID
		itemID := item.ID
		movLinea := &model.MovimientoStock{
			InventarioItemID: &itemID,
			Tipo:             "pedido",
			Cantidad:         -1,
			StockAnterior:    item.Stock,
			StockNuevo:       item.Stock - 1,
			Motivo:           fmt.Sprintf("Pedido de %s %s", req.NombreCliente, req.ApellidoCliente),
			ReferenciaID:     &ref,
		}
		if err := s.movimientoRepo.CreateTx(tx, movLinea); err != nil {
			return err
		}

		dID := diseno.ID
		movDiseno := &model.MovimientoStock{
			DisenoID:      &dID,
			Tipo:          "pedido",
			Cantidad:      -1,
			StockAnterior: diseno.Stock,
			StockNuevo:    diseno.Stock - 1,
			Motivo:        fmt.Sprintf("Pedido de %s %s", req.NombreCliente, req.ApellidoCliente),
			ReferenciaID:  &ref,
		}
		return s.movimientoRepo.CreateTx(tx, movDiseno)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Stock moved, the cached storefront list is stale now
	s.invalidarCatalogo(ctx)

	// 5. Async voucher job — best-effort, fire & forget
	if s.dispatcher != nil && req.EmailCliente != nil && *req.EmailCliente != "" {
		payload := worker.ComprobanteJobPayload{
			PedidoID:     pedido.ID.String(),
			ClienteEmail: *req.EmailCliente,
		}
		_ = s.dispatcher.EnqueueComprobante(ctx, payload)
	}

	pedido.InventarioItem = item
	pedido.Diseno = diseno
	return pedidoToResponse(&pedido), nil
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────
// Transition to cancelado from any other estado restores one unit to the line
// and the diseño, atomically with the estado update. A pedido already
// cancelado never restores a second time.

func (s *pedidoService) CambiarEstado(ctx context.Context, id uuid.UUID, nuevoEstado string) (*dto.PedidoResponse, error) {
	nuevoEstado = mapEstado(nuevoEstado)
	switch nuevoEstado {
	case model.EstadoPendiente, model.EstadoRealizado, model.EstadoCancelado:
	default:
		return nil, ErrEstadoInvalido
	}

	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: pedido %s", ErrNoEncontrado, id)
	}

	restaurar := nuevoEstado == model.EstadoCancelado && pedido.Estado != model.EstadoCancelado

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, id, nuevoEstado); err != nil {
			return err
		}
		if !restaurar {
			return nil
		}
		return s.restaurarStockTx(tx, pedido, "restore_cancelacion",
			fmt.Sprintf("Cancelación de pedido de %s %s", pedido.NombreCliente, pedido.ApellidoCliente))
	})
	if txErr != nil {
		return nil, txErr
	}
	if restaurar {
		s.invalidarCatalogo(ctx)
	}

	pedido.Estado = nuevoEstado
	return pedidoToResponse(pedido), nil
}

// ── EliminarPedido ────────────────────────────────────────────────────────────
// Deleting a realizado pedido returns its stock first; pendiente and cancelado
// deletions leave stock untouched.

func (s *pedidoService) EliminarPedido(ctx context.Context, id uuid.UUID) error {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: pedido %s", ErrNoEncontrado, id)
	}

	restaurar := pedido.Estado == model.EstadoRealizado
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if restaurar {
			if err := s.restaurarStockTx(tx, pedido, "restore_eliminacion",
				fmt.Sprintf("Eliminación de pedido de %s %s", pedido.NombreCliente, pedido.ApellidoCliente)); err != nil {
				return err
			}
		}
		return s.repo.DeleteTx(tx, id)
	})
	if txErr != nil {
		return txErr
	}
	if restaurar {
		s.invalidarCatalogo(ctx)
	}
	return nil
}

// restaurarStockTx puts one unit back on the pedido's inventory line and
// diseño and records both movements. Caller decides when this applies.
func (s *pedidoService) restaurarStockTx(tx *gorm.DB, pedido *model.Pedido, tipo, motivo string) error {
	if err := s.inventarioRepo.RestaurarStockTx(tx, pedido.InventarioItemID); err != nil {
		return err
	}
	if err := s.disenoRepo.RestaurarStockTx(tx, pedido.DisenoID); err != nil {
		return err
	}

	stockLinea := 0
	if pedido.InventarioItem != nil {
		stockLinea = pedido.InventarioItem.Stock
	}
	stockDiseno := 0
	if pedido.Diseno != nil {
		stockDiseno = pedido.Diseno.Stock
	}

	ref := pedido.ID
	itemID := pedido.InventarioItemID
	movLinea := &model.MovimientoStock{
		InventarioItemID: &itemID,
		Tipo:             tipo,
		Cantidad:         1,
		StockAnterior:    stockLinea,
		StockNuevo:       stockLinea + 1,
		Motivo:           motivo,
		ReferenciaID:     &ref,
	}
	if err := s.movimientoRepo.CreateTx(tx, movLinea); err != nil {
		return err
	}

	disenoID := pedido.DisenoID
	movDiseno := &model.MovimientoStock{
		DisenoID:      &disenoID,
		Tipo:          tipo,
		Cantidad:      1,
		StockAnterior: stockDiseno,
		StockNuevo:    stockDiseno + 1,
		Motivo:        motivo,
		ReferenciaID:  &ref,
	}
	return s.movimientoRepo.CreateTx(tx, movDiseno)
}

// ListarPedidos returns a paginated list, newest first, optionally filtered
// by estado.
func (s *pedidoService) ListarPedidos(ctx context.Context, filter dto.PedidoFilter) (*dto.PedidoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	pedidos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		items = append(items, *pedidoToResponse(&pedidos[i]))
	}
	return &dto.PedidoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	resp := &dto.PedidoResponse{
		ID:              p.ID.String(),
		NombreCliente:   p.NombreCliente,
		ApellidoCliente: p.ApellidoCliente,
		Estado:          p.Estado,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
	if p.InventarioItem != nil {
		resp.Talle = p.InventarioItem.Talle
		resp.Color = p.InventarioItem.Color
		if p.InventarioItem.Producto != nil {
			resp.Producto = p.InventarioItem.Producto.Nombre
		}
	}
	if p.Diseno != nil {
		resp.Diseno = p.Diseno.Nombre
		resp.DisenoImagenURL = p.Diseno.ImagenURL
	}
	return resp
}
