package service_test

import (
	"context"
	"testing"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmarReq(productoID uuid.UUID, talle, color string, disenoID uuid.UUID) dto.ConfirmarPedidoRequest {
	return dto.ConfirmarPedidoRequest{
		ProductoID:      productoID.String(),
		Talle:           talle,
		Color:           color,
		DisenoID:        disenoID.String(),
		NombreCliente:   "Ana",
		ApellidoCliente: "Gomez",
	}
}

func TestConfirmarPedido_DescuentaAmbosStocks(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, movRepo := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "M", "Blanco", 3)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	assert.Equal(t, "pendiente", resp.Estado)
	assert.Equal(t, "Ana", resp.NombreCliente)

	assert.Equal(t, 2, inventarioRepo.items[linea.ID].Stock)
	assert.Equal(t, 1, disenoRepo.disenos[diseno.ID].Stock)
	assert.Len(t, pedidoRepo.pedidos, 1)

	// One movimiento per decremented stock, both referencing the pedido
	require.Len(t, movRepo.movimientos, 2)
	for _, m := range movRepo.movimientos {
		assert.Equal(t, "pedido", m.Tipo)
		assert.Equal(t, -1, m.Cantidad)
		assert.Equal(t, resp.ID, m.ReferenciaID.String())
	}
}

func TestConfirmarPedido_SinStockLinea(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "L", "Negro", 0)
	diseno := seedDiseno(disenoRepo, "Calavera", 5, true)

	_, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "L", "Negro", diseno.ID))
	assert.ErrorIs(t, err, service.ErrSinStock)
	assert.Empty(t, pedidoRepo.pedidos)
}

func TestConfirmarPedido_UltimaUnidad_SegundoPierde(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "XL", "Rojo", 1)
	diseno := seedDiseno(disenoRepo, "Rayo", 10, true)

	_, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "XL", "Rojo", diseno.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, inventarioRepo.items[linea.ID].Stock)

	// The rival commit on the same stock=1 line must fail, never go negative
	_, err = svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "XL", "Rojo", diseno.ID))
	assert.ErrorIs(t, err, service.ErrSinStock)
	assert.Equal(t, 0, inventarioRepo.items[linea.ID].Stock)
	assert.Len(t, pedidoRepo.pedidos, 1)
}

func TestConfirmarPedido_DisenoQuitado(t *testing.T) {
	svc, _, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "S", "Azul", 4)
	diseno := seedDiseno(disenoRepo, "Retirado", 4, false)

	_, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "S", "Azul", diseno.ID))
	assert.ErrorIs(t, err, service.ErrDisenoNoDisponible)
}

func TestConfirmarPedido_DisenoSinStock(t *testing.T) {
	svc, _, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "S", "Azul", 4)
	diseno := seedDiseno(disenoRepo, "Agotado", 0, true)

	_, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "S", "Azul", diseno.ID))
	assert.ErrorIs(t, err, service.ErrSinStock)
}

func TestConfirmarPedido_CombinacionInexistente(t *testing.T) {
	svc, _, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "M", "Blanco", 3)
	diseno := seedDiseno(disenoRepo, "Logo", 3, true)

	// Talle exists, color doesn't
	_, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Verde", diseno.ID))
	assert.ErrorIs(t, err, service.ErrNoEncontrado)
}

func TestCambiarEstado_CancelarRestauraStock(t *testing.T) {
	svc, _, inventarioRepo, disenoRepo, movRepo := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	require.Equal(t, 1, inventarioRepo.items[linea.ID].Stock)

	id := uuid.MustParse(resp.ID)
	cancelado, err := svc.CambiarEstado(context.Background(), id, "cancelado")
	require.NoError(t, err)
	assert.Equal(t, "cancelado", cancelado.Estado)

	// Both stocks back to their pre-pedido values
	assert.Equal(t, 2, inventarioRepo.items[linea.ID].Stock)
	assert.Equal(t, 2, disenoRepo.disenos[diseno.ID].Stock)

	var restores int
	for _, m := range movRepo.movimientos {
		if m.Tipo == "restore_cancelacion" {
			restores++
			assert.Equal(t, 1, m.Cantidad)
		}
	}
	assert.Equal(t, 2, restores)
}

func TestCambiarEstado_ReCancelarNoDuplicaRestore(t *testing.T) {
	svc, _, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = svc.CambiarEstado(context.Background(), id, "cancelado")
	require.NoError(t, err)
	_, err = svc.CambiarEstado(context.Background(), id, "cancelado")
	require.NoError(t, err)

	// Restored exactly once
	assert.Equal(t, 2, inventarioRepo.items[linea.ID].Stock)
	assert.Equal(t, 2, disenoRepo.disenos[diseno.ID].Stock)
}

func TestCambiarEstado_AliasConfirmado(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	// Legacy admin clients still send "confirmado"
	out, err := svc.CambiarEstado(context.Background(), id, "confirmado")
	require.NoError(t, err)
	assert.Equal(t, model.EstadoRealizado, out.Estado)
	assert.Equal(t, model.EstadoRealizado, pedidoRepo.pedidos[id].Estado)
}

func TestCambiarEstado_Invalido(t *testing.T) {
	svc, _, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)

	_, err = svc.CambiarEstado(context.Background(), uuid.MustParse(resp.ID), "enviado")
	assert.ErrorIs(t, err, service.ErrEstadoInvalido)
}

func TestEliminarPedido_RealizadoRestauraStock(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, movRepo := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = svc.CambiarEstado(context.Background(), id, "realizado")
	require.NoError(t, err)

	require.NoError(t, svc.EliminarPedido(context.Background(), id))
	assert.Empty(t, pedidoRepo.pedidos)
	assert.Equal(t, 2, inventarioRepo.items[linea.ID].Stock)
	assert.Equal(t, 2, disenoRepo.disenos[diseno.ID].Stock)

	var restores int
	for _, m := range movRepo.movimientos {
		if m.Tipo == "restore_eliminacion" {
			restores++
		}
	}
	assert.Equal(t, 2, restores)
}

func TestEliminarPedido_PendienteNoRestaura(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	// Deleting a pendiente keeps the decrement: only realizado restores
	require.NoError(t, svc.EliminarPedido(context.Background(), id))
	assert.Empty(t, pedidoRepo.pedidos)
	assert.Equal(t, 1, inventarioRepo.items[linea.ID].Stock)
	assert.Equal(t, 1, disenoRepo.disenos[diseno.ID].Stock)
}

func TestEliminarPedido_CanceladoNoRestauraDosVeces(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = svc.CambiarEstado(context.Background(), id, "cancelado")
	require.NoError(t, err)
	require.NoError(t, svc.EliminarPedido(context.Background(), id))

	// Cancel already restored; delete must not add a second unit
	assert.Empty(t, pedidoRepo.pedidos)
	assert.Equal(t, 2, inventarioRepo.items[linea.ID].Stock)
	assert.Equal(t, 2, disenoRepo.disenos[diseno.ID].Stock)
}

func TestConfirmarPedido_FalloEnCommitNoDejaRastro(t *testing.T) {
	svc, pedidoRepo, inventarioRepo, disenoRepo, movRepo := buildPedidoSvc()
	productoID := uuid.New()
	linea := seedLinea(inventarioRepo, productoID, "M", "Blanco", 2)
	diseno := seedDiseno(disenoRepo, "Logo", 5, true)

	// Every write inside the commit shares one journal; the second audit row
	// breaks mid-transaction and the journal plays the database's rollback.
	j := &txJournal{}
	pedidoRepo.journal = j
	inventarioRepo.journal = j
	disenoRepo.journal = j
	movRepo.journal = j
	movRepo.failOn = 2

	_, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.Error(t, err)
	j.rollback()

	// No pedido row, no audit rows, both stocks back where they started.
	// Anything the service wrote outside the transactional path would
	// survive the rollback and fail here.
	assert.Empty(t, pedidoRepo.pedidos)
	assert.Empty(t, movRepo.movimientos)
	assert.Equal(t, 2, inventarioRepo.items[linea.ID].Stock)
	assert.Equal(t, 5, disenoRepo.disenos[diseno.ID].Stock)
}

func TestConfirmarYCancelar_InvalidanCacheCatalogo(t *testing.T) {
	pedidoRepo := newStubPedidoRepo()
	inventarioRepo := newStubInventarioRepo()
	disenoRepo := newStubDisenoRepo()
	cache := &stubInvalidator{}
	svc := service.NewPedidoService(pedidoRepo, inventarioRepo, disenoRepo, &stubMovimientoRepo{}, cache, nil)

	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "M", "Blanco", 3)
	diseno := seedDiseno(disenoRepo, "Logo", 3, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.n)

	id := uuid.MustParse(resp.ID)

	// Estado-only transition moves no stock, the cache stays
	_, err = svc.CambiarEstado(context.Background(), id, "realizado")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.n)

	// Cancel restores stock, so the cached list is stale
	_, err = svc.CambiarEstado(context.Background(), id, "cancelado")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.n)

	// Deleting a cancelado pedido restores nothing
	require.NoError(t, svc.EliminarPedido(context.Background(), id))
	assert.Equal(t, 2, cache.n)
}

func TestEliminarRealizado_InvalidaCacheCatalogo(t *testing.T) {
	pedidoRepo := newStubPedidoRepo()
	inventarioRepo := newStubInventarioRepo()
	disenoRepo := newStubDisenoRepo()
	cache := &stubInvalidator{}
	svc := service.NewPedidoService(pedidoRepo, inventarioRepo, disenoRepo, &stubMovimientoRepo{}, cache, nil)

	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "L", "Negro", 2)
	diseno := seedDiseno(disenoRepo, "Rayo", 2, true)

	resp, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "L", "Negro", diseno.ID))
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	_, err = svc.CambiarEstado(context.Background(), id, "realizado")
	require.NoError(t, err)

	require.NoError(t, svc.EliminarPedido(context.Background(), id))
	assert.Equal(t, 2, cache.n) // confirmar + eliminar, the realizado step in between moved no stock
}

func TestListarPedidos_FiltroEstado(t *testing.T) {
	svc, _, inventarioRepo, disenoRepo, _ := buildPedidoSvc()
	productoID := uuid.New()
	seedLinea(inventarioRepo, productoID, "M", "Blanco", 10)
	diseno := seedDiseno(disenoRepo, "Logo", 10, true)

	for i := 0; i < 3; i++ {
		_, err := svc.ConfirmarPedido(context.Background(), confirmarReq(productoID, "M", "Blanco", diseno.ID))
		require.NoError(t, err)
	}

	all, err := svc.ListarPedidos(context.Background(), dto.PedidoFilter{Estado: "all", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	cancelados, err := svc.ListarPedidos(context.Background(), dto.PedidoFilter{Estado: "cancelado", Page: 1, Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, int64(0), cancelados.Total)
}
