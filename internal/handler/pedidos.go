package handler

import (
	"net/http"

	"github.com/gastonr9/sublimo-app-sub000/internal/apierror"
	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PedidosHandler struct{ svc service.PedidoService }

func NewPedidosHandler(svc service.PedidoService) *PedidosHandler {
	return &PedidosHandler{svc: svc}
}

// Confirmar godoc
// @Summary      Confirmar un pedido
// @Description  Crea el pedido y descuenta stock de la prenda y de la estampa en una unica transaccion. Falla con 409 si la combinacion quedo sin stock.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Param        body body dto.ConfirmarPedidoRequest true "Detalle del pedido"
// @Success      201  {object} dto.PedidoResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/pedidos [post]
func (h *PedidosHandler) Confirmar(c *gin.Context) {
	var req dto.ConfirmarPedidoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ConfirmarPedido(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary      Listar pedidos
// @Description  Retorna lista paginada de pedidos filtrada por estado, mas recientes primero.
// @Tags         pedidos
// @Produce      json
// @Security     BearerAuth
// @Param        estado query string false "pendiente | realizado | cancelado | all"
// @Param        page   query int    false "Pagina (default 1)"
// @Param        limit  query int    false "Registros por pagina (default 50)"
// @Success      200    {object} dto.PedidoListResponse
// @Router       /v1/pedidos [get]
func (h *PedidosHandler) Listar(c *gin.Context) {
	var filter dto.PedidoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListarPedidos(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar pedidos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar estado de un pedido
// @Description  Actualiza el estado. Al pasar a cancelado restaura el stock de prenda y estampa en la misma transaccion.
// @Tags         pedidos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID del pedido"
// @Param        body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      200  {object} dto.PedidoResponse
// @Failure      404  {object} apierror.APIError
// @Router       /v1/pedidos/{id}/estado [put]
func (h *PedidosHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), id, req.Estado)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Eliminar godoc
// @Summary      Eliminar un pedido
// @Description  Borra el pedido. Si estaba realizado restaura el stock descontado antes de borrar.
// @Tags         pedidos
// @Security     BearerAuth
// @Param        id path string true "UUID del pedido"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/pedidos/{id} [delete]
func (h *PedidosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarPedido(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
