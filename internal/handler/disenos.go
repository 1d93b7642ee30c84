package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gastonr9/sublimo-app-sub000/internal/apierror"
	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/infra"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImagenBytes caps diseño image uploads at 5 MiB.
const maxImagenBytes = 5 << 20

type DisenosHandler struct{ svc service.DisenoService }

func NewDisenosHandler(svc service.DisenoService) *DisenosHandler {
	return &DisenosHandler{svc: svc}
}

// Seleccionables godoc
// @Summary  Estampas elegibles por el cliente (seleccionadas y con stock)
// @Tags     disenos
// @Produce  json
// @Success  200 {array} dto.DisenoResponse
// @Router   /v1/disenos [get]
func (h *DisenosHandler) Seleccionables(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.ListarSeleccionables(c.Request.Context()))
}

// ListarTodos returns every diseño for the admin panel, selected or not.
func (h *DisenosHandler) ListarTodos(c *gin.Context) {
	resp, err := h.svc.ListarTodos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar estampas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubirImagen godoc
// @Summary      Subir imagen de estampa
// @Description  Recibe multipart "imagen" y la guarda en el almacenamiento de objetos. Falla con 409 si el nombre ya existe.
// @Tags         disenos
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.SubirImagenResponse
// @Failure      409 {object} apierror.APIError
// @Router       /v1/disenos/imagen [post]
func (h *DisenosHandler) SubirImagen(c *gin.Context) {
	file, err := c.FormFile("imagen")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Campo 'imagen' requerido"))
		return
	}
	if file.Size > maxImagenBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("Imagen demasiado grande (max 5MB)"))
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer la imagen"))
		return
	}
	defer src.Close()
	data, err := io.ReadAll(io.LimitReader(src, maxImagenBytes+1))
	if err != nil || int64(len(data)) > maxImagenBytes {
		c.JSON(http.StatusBadRequest, apierror.New("No se pudo leer la imagen"))
		return
	}

	resp, err := h.svc.SubirImagen(c.Request.Context(), file.Filename, data, file.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, infra.ErrObjectExists) {
			c.JSON(http.StatusConflict, apierror.New("Ya existe una imagen con ese nombre"))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Crear registers a diseño row pointing at an already-uploaded image.
func (h *DisenosHandler) Crear(c *gin.Context) {
	var req dto.CrearDisenoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar patches nombre, stock or seleccionado for one diseño.
func (h *DisenosHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarDisenoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Quitar unselects a diseño so customers stop seeing it; the row and image stay.
func (h *DisenosHandler) Quitar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Quitar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar deletes the diseño row and removes its image from storage.
func (h *DisenosHandler) Eliminar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
