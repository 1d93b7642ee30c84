package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/infra"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type DisenoService interface {
	// ListarSeleccionables never fails the page: a backend error is logged
	// and an empty list returned so the configurator keeps rendering.
	ListarSeleccionables(ctx context.Context) []dto.DisenoResponse
	ListarTodos(ctx context.Context) ([]dto.DisenoResponse, error)
	SubirImagen(ctx context.Context, nombre string, data []byte, contentType string) (*dto.SubirImagenResponse, error)
	Crear(ctx context.Context, req dto.CrearDisenoRequest) (*dto.DisenoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarDisenoRequest) (*dto.DisenoResponse, error)
	Quitar(ctx context.Context, id uuid.UUID) error
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type disenoService struct {
	repo    repository.DisenoRepository
	storage infra.ObjectStorage
}

func NewDisenoService(repo repository.DisenoRepository, storage infra.ObjectStorage) DisenoService {
	return &disenoService{repo: repo, storage: storage}
}

func (s *disenoService) ListarSeleccionables(ctx context.Context) []dto.DisenoResponse {
	disenos, err := s.repo.ListSeleccionables(ctx)
	if err != nil {
		log.Error().Err(err).Msg("disenos: listado de seleccionables falló, devolviendo lista vacía")
		return []dto.DisenoResponse{}
	}
	resp := make([]dto.DisenoResponse, 0, len(disenos))
	for i := range disenos {
		resp = append(resp, *disenoToResponse(&disenos[i]))
	}
	return resp
}

func (s *disenoService) ListarTodos(ctx context.Context) ([]dto.DisenoResponse, error) {
	disenos, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.DisenoResponse, 0, len(disenos))
	for i := range disenos {
		resp = append(resp, *disenoToResponse(&disenos[i]))
	}
	return resp, nil
}

// SubirImagen stores the raw image. The metadata row is created by a separate
// Crear call: if that second step never happens the object stays orphaned in
// storage — there is no compensation, only the log trail.
func (s *disenoService) SubirImagen(ctx context.Context, nombre string, data []byte, contentType string) (*dto.SubirImagenResponse, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("tipo de contenido no soportado: %s", contentType)
	}
	if err := s.storage.Upload(ctx, nombre, data, contentType, false); err != nil {
		return nil, err
	}
	return &dto.SubirImagenResponse{
		Nombre: nombre,
		URL:    s.storage.PublicURL(nombre),
	}, nil
}

func (s *disenoService) Crear(ctx context.Context, req dto.CrearDisenoRequest) (*dto.DisenoResponse, error) {
	d := &model.Diseno{
		Nombre:       req.Nombre,
		ImagenURL:    s.storage.PublicURL(req.ImagenNombre),
		Stock:        req.Stock,
		Seleccionado: true,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		log.Warn().
			Str("imagen", req.ImagenNombre).
			Err(err).
			Msg("disenos: alta de metadata falló, la imagen queda huérfana en storage")
		return nil, err
	}
	return disenoToResponse(d), nil
}

func (s *disenoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarDisenoRequest) (*dto.DisenoResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: diseno %s", ErrNoEncontrado, id)
	}
	if req.Nombre != nil {
		d.Nombre = *req.Nombre
	}
	if req.Stock != nil {
		d.Stock = *req.Stock
	}
	if req.Seleccionado != nil {
		d.Seleccionado = *req.Seleccionado
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return disenoToResponse(d), nil
}

func (s *disenoService) Quitar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("%w: diseno %s", ErrNoEncontrado, id)
	}
	return s.repo.Quitar(ctx, id)
}

// Eliminar removes the row and then the backing image. The image removal runs
// second: a missing metadata row with a live object is recoverable, the
// reverse is a broken catalog entry.
func (s *disenoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: diseno %s", ErrNoEncontrado, id)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	objeto := path.Base(d.ImagenURL)
	if err := s.storage.Remove(ctx, objeto); err != nil {
		log.Warn().Str("objeto", objeto).Err(err).Msg("disenos: no se pudo borrar la imagen de storage")
	}
	return nil
}

func disenoToResponse(d *model.Diseno) *dto.DisenoResponse {
	return &dto.DisenoResponse{
		ID:           d.ID.String(),
		Nombre:       d.Nombre,
		ImagenURL:    d.ImagenURL,
		Stock:        d.Stock,
		Seleccionado: d.Seleccionado,
	}
}
