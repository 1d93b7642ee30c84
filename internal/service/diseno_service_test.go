package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/infra"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStorage is an in-memory ObjectStorage.
type stubStorage struct {
	objects map[string][]byte
	removed []string
	failAll bool
}

func newStubStorage() *stubStorage {
	return &stubStorage{objects: make(map[string][]byte)}
}

func (s *stubStorage) List(_ context.Context, prefix string) ([]infra.ObjectInfo, error) {
	var out []infra.ObjectInfo
	for name := range s.objects {
		out = append(out, infra.ObjectInfo{Name: name})
	}
	return out, nil
}

func (s *stubStorage) Upload(_ context.Context, name string, data []byte, _ string, overwrite bool) error {
	if s.failAll {
		return errors.New("storage down")
	}
	if _, exists := s.objects[name]; exists && !overwrite {
		return infra.ErrObjectExists
	}
	s.objects[name] = data
	return nil
}

func (s *stubStorage) Remove(_ context.Context, names ...string) error {
	if s.failAll {
		return errors.New("storage down")
	}
	for _, n := range names {
		delete(s.objects, n)
		s.removed = append(s.removed, n)
	}
	return nil
}

func (s *stubStorage) PublicURL(name string) string { return "/storage/disenos/" + name }

var _ infra.ObjectStorage = (*stubStorage)(nil)

func buildDisenoSvc() (service.DisenoService, *stubDisenoRepo, *stubStorage) {
	repo := newStubDisenoRepo()
	storage := newStubStorage()
	svc := service.NewDisenoService(repo, storage)
	return svc, repo, storage
}

func TestListarSeleccionables_SoloSeleccionadosConStock(t *testing.T) {
	svc, repo, _ := buildDisenoSvc()
	seedDiseno(repo, "Visible", 3, true)
	seedDiseno(repo, "Agotado", 0, true)
	seedDiseno(repo, "Quitado", 3, false)

	resp := svc.ListarSeleccionables(context.Background())
	require.Len(t, resp, 1)
	assert.Equal(t, "Visible", resp[0].Nombre)
}

func TestSubirImagen_RechazaNoImagen(t *testing.T) {
	svc, _, storage := buildDisenoSvc()

	_, err := svc.SubirImagen(context.Background(), "malware.exe", []byte{1, 2}, "application/octet-stream")
	assert.Error(t, err)
	assert.Empty(t, storage.objects)
}

func TestSubirImagen_NoSobrescribe(t *testing.T) {
	svc, _, _ := buildDisenoSvc()

	_, err := svc.SubirImagen(context.Background(), "logo.png", []byte{1}, "image/png")
	require.NoError(t, err)

	_, err = svc.SubirImagen(context.Background(), "logo.png", []byte{2}, "image/png")
	assert.ErrorIs(t, err, infra.ErrObjectExists)
}

func TestCrear_ApuntaAImagenSubida(t *testing.T) {
	svc, _, _ := buildDisenoSvc()

	up, err := svc.SubirImagen(context.Background(), "logo.png", []byte{1}, "image/png")
	require.NoError(t, err)

	d, err := svc.Crear(context.Background(), dto.CrearDisenoRequest{
		Nombre:       "Logo",
		ImagenNombre: "logo.png",
		Stock:        5,
	})
	require.NoError(t, err)
	assert.Equal(t, up.URL, d.ImagenURL)
	assert.True(t, d.Seleccionado)
}

func TestEliminar_BorraFilaEImagen(t *testing.T) {
	svc, repo, storage := buildDisenoSvc()

	_, err := svc.SubirImagen(context.Background(), "logo.png", []byte{1}, "image/png")
	require.NoError(t, err)
	d, err := svc.Crear(context.Background(), dto.CrearDisenoRequest{Nombre: "Logo", ImagenNombre: "logo.png", Stock: 1})
	require.NoError(t, err)

	id := mustUUID(t, d.ID)
	require.NoError(t, svc.Eliminar(context.Background(), id))
	assert.Empty(t, repo.disenos)
	assert.Contains(t, storage.removed, "logo.png")
}

func TestQuitar_SoftRemoval(t *testing.T) {
	svc, repo, storage := buildDisenoSvc()
	d := seedDiseno(repo, "Logo", 2, true)

	require.NoError(t, svc.Quitar(context.Background(), d.ID))
	assert.False(t, repo.disenos[d.ID].Seleccionado)
	// The row and its image survive a soft removal
	assert.Len(t, repo.disenos, 1)
	assert.Empty(t, storage.removed)
}
