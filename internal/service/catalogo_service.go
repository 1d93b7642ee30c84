package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	catalogoCacheKey = "catalogo:productos"
	catalogoCacheTTL = 5 * time.Minute
)

// CatalogoInvalidator is the write-side hook into the catalog cache. Anything
// that moves stock or edits products takes this instead of the full service.
type CatalogoInvalidator interface {
	InvalidarCache(ctx context.Context)
}

// CatalogoService is the read side of the storefront: products with nested
// inventory plus the derived talle/color views the configurator steps through.
type CatalogoService interface {
	ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error)
	TallesDisponibles(ctx context.Context, productoID uuid.UUID) (*dto.TallesResponse, error)
	// ColoresDisponibles filters to one talle when talle != ""; otherwise it
	// spans every line of the product.
	ColoresDisponibles(ctx context.Context, productoID uuid.UUID, talle string) (*dto.ColoresResponse, error)
	// InvalidarCache drops the cached product list after any catalog write.
	InvalidarCache(ctx context.Context)
}

type catalogoService struct {
	productoRepo   repository.ProductoRepository
	inventarioRepo repository.InventarioRepository
	rdb            *redis.Client
}

func NewCatalogoService(
	productoRepo repository.ProductoRepository,
	inventarioRepo repository.InventarioRepository,
	rdb *redis.Client,
) CatalogoService {
	return &catalogoService{productoRepo: productoRepo, inventarioRepo: inventarioRepo, rdb: rdb}
}

func (s *catalogoService) ListarProductos(ctx context.Context) ([]dto.ProductoResponse, error) {
	// 1. Try Redis cache — the storefront hits this on every page load
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, catalogoCacheKey).Bytes(); err == nil {
			var resp []dto.ProductoResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				return resp, nil
			}
		}
	}

	// 2. Cache miss — query DB
	productos, err := s.productoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		resp = append(resp, *productoToResponse(&productos[i]))
	}

	// 3. Populate cache — best effort, ignore errors
	if s.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = s.rdb.Set(context.Background(), catalogoCacheKey, b, catalogoCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *catalogoService) TallesDisponibles(ctx context.Context, productoID uuid.UUID) (*dto.TallesResponse, error) {
	items, err := s.inventarioRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	talles := make([]string, 0, len(model.TalleOrden))
	for _, item := range items {
		if item.Stock > 0 && !seen[item.Talle] {
			seen[item.Talle] = true
			talles = append(talles, item.Talle)
		}
	}
	sort.Slice(talles, func(i, j int) bool {
		return model.TalleOrden[talles[i]] < model.TalleOrden[talles[j]]
	})
	return &dto.TallesResponse{Talles: talles}, nil
}

func (s *catalogoService) ColoresDisponibles(ctx context.Context, productoID uuid.UUID, talle string) (*dto.ColoresResponse, error) {
	items, err := s.inventarioRepo.ListByProducto(ctx, productoID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	colores := make([]string, 0, len(items))
	for _, item := range items {
		if item.Stock <= 0 {
			continue
		}
		if talle != "" && item.Talle != talle {
			continue
		}
		if !seen[item.Color] {
			seen[item.Color] = true
			colores = append(colores, item.Color)
		}
	}
	sort.Strings(colores)
	return &dto.ColoresResponse{Colores: colores}, nil
}

func (s *catalogoService) InvalidarCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, catalogoCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("catalogo: cache invalidation failed")
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	inv := make([]dto.InventarioItemResponse, 0, len(p.Inventario))
	for _, item := range p.Inventario {
		inv = append(inv, dto.InventarioItemResponse{
			ID:    item.ID.String(),
			Talle: item.Talle,
			Color: item.Color,
			Stock: item.Stock,
		})
	}
	return &dto.ProductoResponse{
		ID:          p.ID.String(),
		Nombre:      p.Nombre,
		Descripcion: p.Descripcion,
		Precio:      p.Precio,
		Activo:      p.Activo,
		Inventario:  inv,
	}
}
