package service_test

import (
	"context"
	"testing"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildProductoSvc() (service.ProductoService, *stubProductoRepo, *stubInventarioRepo, *stubMovimientoRepo) {
	productoRepo := newStubProductoRepo()
	inventarioRepo := newStubInventarioRepo()
	movRepo := &stubMovimientoRepo{}
	catalogoSvc := service.NewCatalogoService(productoRepo, inventarioRepo, nil)
	svc := service.NewProductoService(productoRepo, inventarioRepo, movRepo, catalogoSvc)
	return svc, productoRepo, inventarioRepo, movRepo
}

func TestCrearProducto_ConInventarioInicial(t *testing.T) {
	svc, _, _, _ := buildProductoSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre: "Remera básica",
		Precio: decimal.NewFromInt(9500),
		Inventario: []dto.CrearInventarioItemRequest{
			{Talle: "M", Color: "Blanco", Stock: 10},
			{Talle: "L", Color: "Blanco", Stock: 5},
		},
	})
	require.NoError(t, err)
	assert.True(t, resp.Activo)
	assert.Len(t, resp.Inventario, 2)
}

func TestAjustarStock_RegistraMovimiento(t *testing.T) {
	svc, _, inventarioRepo, movRepo := buildProductoSvc()
	linea := seedLinea(inventarioRepo, uuid.New(), "M", "Blanco", 4)

	resp, err := svc.AjustarStock(context.Background(), linea.ID, dto.AjustarStockRequest{
		Delta:  3,
		Motivo: "reposición proveedor",
	}, "deposito@sublimo.app")
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Stock)

	require.Len(t, movRepo.movimientos, 1)
	m := movRepo.movimientos[0]
	assert.Equal(t, "ajuste_manual", m.Tipo)
	assert.Equal(t, 3, m.Cantidad)
	assert.Equal(t, 4, m.StockAnterior)
	assert.Equal(t, 7, m.StockNuevo)
	// The acting user ends up in the audit motivo
	assert.Equal(t, "reposición proveedor (por deposito@sublimo.app)", m.Motivo)
}

func TestAjustarStock_NoDejaNegativo(t *testing.T) {
	svc, _, inventarioRepo, movRepo := buildProductoSvc()
	linea := seedLinea(inventarioRepo, uuid.New(), "M", "Blanco", 2)

	_, err := svc.AjustarStock(context.Background(), linea.ID, dto.AjustarStockRequest{
		Delta:  -5,
		Motivo: "merma",
	}, "")
	assert.Error(t, err)
	assert.Equal(t, 2, inventarioRepo.items[linea.ID].Stock)
	assert.Empty(t, movRepo.movimientos)
}

func TestDesactivarProducto_SaleDelCatalogo(t *testing.T) {
	svc, productoRepo, _, _ := buildProductoSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre: "Buzo", Precio: decimal.NewFromInt(15000),
	})
	require.NoError(t, err)
	id := mustUUID(t, resp.ID)

	require.NoError(t, svc.Desactivar(context.Background(), id))
	assert.False(t, productoRepo.productos[id].Activo)

	err = svc.Desactivar(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}
