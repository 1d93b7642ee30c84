package handler

import (
	"net/http"

	"github.com/gastonr9/sublimo-app-sub000/internal/apierror"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CatalogoHandler struct{ svc service.CatalogoService }

func NewCatalogoHandler(svc service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{svc: svc}
}

// ListarProductos godoc
// @Summary  Listar productos activos con su inventario
// @Tags     catalogo
// @Produce  json
// @Success  200 {array} dto.ProductoResponse
// @Router   /v1/productos [get]
func (h *CatalogoHandler) ListarProductos(c *gin.Context) {
	resp, err := h.svc.ListarProductos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar productos"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Talles godoc
// @Summary  Talles con stock de un producto, ordenados S a XXL
// @Tags     catalogo
// @Produce  json
// @Param    id path string true "UUID del producto"
// @Success  200 {object} dto.TallesResponse
// @Router   /v1/productos/{id}/talles [get]
func (h *CatalogoHandler) Talles(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.TallesDisponibles(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Colores godoc
// @Summary  Colores con stock de un producto, alfabeticos. Filtro opcional por talle.
// @Tags     catalogo
// @Produce  json
// @Param    id    path  string true  "UUID del producto"
// @Param    talle query string false "Limitar a un talle"
// @Success  200 {object} dto.ColoresResponse
// @Router   /v1/productos/{id}/colores [get]
func (h *CatalogoHandler) Colores(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.svc.ColoresDisponibles(c.Request.Context(), id, c.Query("talle"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
