package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"

	"github.com/google/uuid"
)

// ProductoService is the staff side of the catalog: product CRUD plus
// per-(talle, color) inventory line management.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error

	AgregarLinea(ctx context.Context, productoID uuid.UUID, req dto.CrearInventarioItemRequest) (*dto.InventarioItemResponse, error)
	ActualizarLinea(ctx context.Context, lineaID uuid.UUID, req dto.ActualizarInventarioItemRequest) (*dto.InventarioItemResponse, error)
	EliminarLinea(ctx context.Context, lineaID uuid.UUID) error
	// AjustarStock applies a staff delta; actor is the acting user's email,
	// recorded in the movement motivo.
	AjustarStock(ctx context.Context, lineaID uuid.UUID, req dto.AjustarStockRequest, actor string) (*dto.InventarioItemResponse, error)

	ListarMovimientos(ctx context.Context, limit int) ([]dto.MovimientoStockResponse, error)
}

type productoService struct {
	repo           repository.ProductoRepository
	inventarioRepo repository.InventarioRepository
	movimientoRepo repository.MovimientoStockRepository
	catalogo       CatalogoService
}

func NewProductoService(
	repo repository.ProductoRepository,
	inventarioRepo repository.InventarioRepository,
	movimientoRepo repository.MovimientoStockRepository,
	catalogo CatalogoService,
) ProductoService {
	return &productoService{
		repo:           repo,
		inventarioRepo: inventarioRepo,
		movimientoRepo: movimientoRepo,
		catalogo:       catalogo,
	}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	p := &model.Producto{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Precio:      req.Precio,
		Activo:      true,
	}
	for _, linea := range req.Inventario {
		p.Inventario = append(p.Inventario, model.InventarioItem{
			Talle: linea.Talle,
			Color: linea.Color,
			Stock: linea.Stock,
		})
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.catalogo.InvalidarCache(ctx)
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
	}
	return productoToResponse(p), nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.catalogo.InvalidarCache(ctx)
	return productoToResponse(p), nil
}

// Desactivar is the soft delete: the product disappears from the storefront
// while existing pedidos keep their inventory references intact.
func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: producto %s", ErrNoEncontrado, id)
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.catalogo.InvalidarCache(ctx)
	return nil
}

func (s *productoService) AgregarLinea(ctx context.Context, productoID uuid.UUID, req dto.CrearInventarioItemRequest) (*dto.InventarioItemResponse, error) {
	if _, err := s.repo.FindByID(ctx, productoID); err != nil {
		return nil, fmt.Errorf("%w: producto %s", ErrNoEncontrado, productoID)
	}
	item := &model.InventarioItem{
		ProductoID: productoID,
		Talle:      req.Talle,
		Color:      req.Color,
		Stock:      req.Stock,
	}
	if err := s.inventarioRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	s.catalogo.InvalidarCache(ctx)
	return lineaToResponse(item), nil
}

func (s *productoService) ActualizarLinea(ctx context.Context, lineaID uuid.UUID, req dto.ActualizarInventarioItemRequest) (*dto.InventarioItemResponse, error) {
	item, err := s.inventarioRepo.FindByID(ctx, lineaID)
	if err != nil {
		return nil, fmt.Errorf("%w: linea %s", ErrNoEncontrado, lineaID)
	}
	if req.Talle != nil {
		item.Talle = *req.Talle
	}
	if req.Color != nil {
		item.Color = *req.Color
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if err := s.inventarioRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	s.catalogo.InvalidarCache(ctx)
	return lineaToResponse(item), nil
}

func (s *productoService) EliminarLinea(ctx context.Context, lineaID uuid.UUID) error {
	if _, err := s.inventarioRepo.FindByID(ctx, lineaID); err != nil {
		return fmt.Errorf("%w: linea %s", ErrNoEncontrado, lineaID)
	}
	if err := s.inventarioRepo.Delete(ctx, lineaID); err != nil {
		return err
	}
	s.catalogo.InvalidarCache(ctx)
	return nil
}

// AjustarStock applies a staff-entered delta and records the movement.
func (s *productoService) AjustarStock(ctx context.Context, lineaID uuid.UUID, req dto.AjustarStockRequest, actor string) (*dto.InventarioItemResponse, error) {
	item, err := s.inventarioRepo.FindByID(ctx, lineaID)
	if err != nil {
		return nil, fmt.Errorf("%w: linea %s", ErrNoEncontrado, lineaID)
	}
	if item.Stock+req.Delta < 0 {
		return nil, fmt.Errorf("el ajuste dejaría stock negativo (actual %d, delta %d)", item.Stock, req.Delta)
	}

	if err := s.inventarioRepo.AjustarStock(ctx, lineaID, req.Delta); err != nil {
		return nil, err
	}

	motivo := req.Motivo
	if actor != "" {
		motivo = fmt.Sprintf("%s (por %s)", req.Motivo, actor)
	}

	itemID := item.ID
	mov := &model.MovimientoStock{
		InventarioItemID: &itemID,
		Tipo:             "ajuste_manual",
		Cantidad:         req.Delta,
		StockAnterior:    item.Stock,
		StockNuevo:       item.Stock + req.Delta,
		Motivo:           motivo,
	}
	if err := s.movimientoRepo.Create(ctx, mov); err != nil {
		return nil, err
	}

	item.Stock += req.Delta
	s.catalogo.InvalidarCache(ctx)
	return lineaToResponse(item), nil
}

// ListarMovimientos returns the most recent stock movements, newest first.
func (s *productoService) ListarMovimientos(ctx context.Context, limit int) ([]dto.MovimientoStockResponse, error) {
	movs, err := s.movimientoRepo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovimientoStockResponse, 0, len(movs))
	for _, m := range movs {
		r := dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
		if m.InventarioItemID != nil {
			id := m.InventarioItemID.String()
			r.InventarioItemID = &id
		}
		if m.DisenoID != nil {
			id := m.DisenoID.String()
			r.DisenoID = &id
		}
		if m.ReferenciaID != nil {
			id := m.ReferenciaID.String()
			r.ReferenciaID = &id
		}
		out = append(out, r)
	}
	return out, nil
}

func lineaToResponse(item *model.InventarioItem) *dto.InventarioItemResponse {
	return &dto.InventarioItemResponse{
		ID:    item.ID.String(),
		Talle: item.Talle,
		Color: item.Color,
		Stock: item.Stock,
	}
}
