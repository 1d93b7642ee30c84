package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gastonr9/sublimo-app-sub000/internal/dto"
	"github.com/gastonr9/sublimo-app-sub000/internal/model"
	"github.com/gastonr9/sublimo-app-sub000/internal/repository"
	"github.com/gastonr9/sublimo-app-sub000/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// txJournal emulates transaction rollback for the in-memory stubs: the *Tx
// methods record an undo closure per write, and rollback replays them in
// reverse. Writes that bypass the Tx path are never journaled, so a rolled
// back commit that mutated state outside the transaction leaves residue the
// assertions catch.
type txJournal struct {
	undo []func()
}

func (j *txJournal) record(fn func()) {
	if j != nil {
		j.undo = append(j.undo, fn)
	}
}

func (j *txJournal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// stubInvalidator counts catalog cache drops.
type stubInvalidator struct {
	n int
}

func (s *stubInvalidator) InvalidarCache(_ context.Context) { s.n++ }

var _ service.CatalogoInvalidator = (*stubInvalidator)(nil)

// stubPedidoRepo is an in-memory PedidoRepository for testing.
type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
	journal *txJournal
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.pedidos[p.ID] = &cp
	id := p.ID
	r.journal.record(func() { delete(r.pedidos, id) })
	return nil
}

// FindByID returns a copy, like the real repo: GORM scans into a fresh
// struct, it never hands out the stored row.
func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *p
	return &cp, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, int64, error) {
	var out []model.Pedido
	for _, p := range r.pedidos {
		if filter.Estado != "" && filter.Estado != "all" && p.Estado != filter.Estado {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubPedidoRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	prev := p.Estado
	p.Estado = estado
	r.journal.record(func() { p.Estado = prev })
	return nil
}

func (r *stubPedidoRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	if p, ok := r.pedidos[id]; ok {
		r.journal.record(func() { r.pedidos[id] = p })
	}
	delete(r.pedidos, id)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// stubInventarioRepo keeps stock lines in memory and implements the
// conditional decrement the same way the SQL does: no row taken below zero.
type stubInventarioRepo struct {
	items   map[uuid.UUID]*model.InventarioItem
	journal *txJournal
}

func newStubInventarioRepo() *stubInventarioRepo {
	return &stubInventarioRepo{items: make(map[uuid.UUID]*model.InventarioItem)}
}

func (r *stubInventarioRepo) Create(_ context.Context, item *model.InventarioItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

// FindByID returns a copy: handing out the stored pointer would let callers
// mutate the "database" row without going through Update, which the real
// GORM repo never allows.
func (r *stubInventarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventarioItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *item
	return &cp, nil
}

func (r *stubInventarioRepo) FindBySeleccion(_ context.Context, productoID uuid.UUID, talle, color string) (*model.InventarioItem, error) {
	for _, item := range r.items {
		if item.ProductoID == productoID && item.Talle == talle && item.Color == color {
			cp := *item
			return &cp, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubInventarioRepo) ListByProducto(_ context.Context, productoID uuid.UUID) ([]model.InventarioItem, error) {
	var out []model.InventarioItem
	for _, item := range r.items {
		if item.ProductoID == productoID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *stubInventarioRepo) Update(_ context.Context, item *model.InventarioItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubInventarioRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *stubInventarioRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	item, ok := r.items[id]
	if !ok || item.Stock <= 0 {
		return 0, nil
	}
	item.Stock--
	r.journal.record(func() { item.Stock++ })
	return 1, nil
}

func (r *stubInventarioRepo) RestaurarStockTx(_ *gorm.DB, id uuid.UUID) error {
	item, ok := r.items[id]
	if !ok {
		return errors.New("not found")
	}
	item.Stock++
	r.journal.record(func() { item.Stock-- })
	return nil
}

func (r *stubInventarioRepo) AjustarStock(_ context.Context, id uuid.UUID, delta int) error {
	item, ok := r.items[id]
	if !ok {
		return errors.New("not found")
	}
	item.Stock += delta
	return nil
}

func (r *stubInventarioRepo) DB() *gorm.DB { return nil }

var _ repository.InventarioRepository = (*stubInventarioRepo)(nil)

// stubDisenoRepo mirrors stubInventarioRepo for estampas.
type stubDisenoRepo struct {
	disenos map[uuid.UUID]*model.Diseno
	journal *txJournal
}

func newStubDisenoRepo() *stubDisenoRepo {
	return &stubDisenoRepo{disenos: make(map[uuid.UUID]*model.Diseno)}
}

func (r *stubDisenoRepo) Create(_ context.Context, d *model.Diseno) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.disenos[d.ID] = d
	return nil
}

func (r *stubDisenoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Diseno, error) {
	d, ok := r.disenos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *d
	return &cp, nil
}

func (r *stubDisenoRepo) ListSeleccionables(_ context.Context) ([]model.Diseno, error) {
	var out []model.Diseno
	for _, d := range r.disenos {
		if d.Seleccionado && d.Stock > 0 {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *stubDisenoRepo) ListAll(_ context.Context) ([]model.Diseno, error) {
	var out []model.Diseno
	for _, d := range r.disenos {
		out = append(out, *d)
	}
	return out, nil
}

func (r *stubDisenoRepo) Update(_ context.Context, d *model.Diseno) error {
	r.disenos[d.ID] = d
	return nil
}

func (r *stubDisenoRepo) Quitar(_ context.Context, id uuid.UUID) error {
	d, ok := r.disenos[id]
	if !ok {
		return errors.New("not found")
	}
	d.Seleccionado = false
	return nil
}

func (r *stubDisenoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.disenos, id)
	return nil
}

func (r *stubDisenoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	d, ok := r.disenos[id]
	if !ok || d.Stock <= 0 {
		return 0, nil
	}
	d.Stock--
	r.journal.record(func() { d.Stock++ })
	return 1, nil
}

func (r *stubDisenoRepo) RestaurarStockTx(_ *gorm.DB, id uuid.UUID) error {
	d, ok := r.disenos[id]
	if !ok {
		return errors.New("not found")
	}
	d.Stock++
	r.journal.record(func() { d.Stock-- })
	return nil
}

var _ repository.DisenoRepository = (*stubDisenoRepo)(nil)

// stubMovimientoRepo captures the audit trail for assertions. Setting failOn
// to n makes the nth CreateTx call (and every later one) fail, to break a
// commit partway through.
type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
	journal     *txJournal
	failOn      int
	calls       int
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	r.calls++
	if r.failOn > 0 && r.calls >= r.failOn {
		return errors.New("insert movimiento: connection reset")
	}
	r.movimientos = append(r.movimientos, *m)
	r.journal.record(func() { r.movimientos = r.movimientos[:len(r.movimientos)-1] })
	return nil
}

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.MovimientoStock) error {
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, _ int) ([]model.MovimientoStock, error) {
	return r.movimientos, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

// ── Builders ──────────────────────────────────────────────────────────────────

func buildPedidoSvc() (service.PedidoService, *stubPedidoRepo, *stubInventarioRepo, *stubDisenoRepo, *stubMovimientoRepo) {
	pedidoRepo := newStubPedidoRepo()
	inventarioRepo := newStubInventarioRepo()
	disenoRepo := newStubDisenoRepo()
	movRepo := &stubMovimientoRepo{}
	svc := service.NewPedidoService(pedidoRepo, inventarioRepo, disenoRepo, movRepo, nil, nil)
	return svc, pedidoRepo, inventarioRepo, disenoRepo, movRepo
}

func seedLinea(r *stubInventarioRepo, productoID uuid.UUID, talle, color string, stock int) *model.InventarioItem {
	item := &model.InventarioItem{
		ID:         uuid.New(),
		ProductoID: productoID,
		Talle:      talle,
		Color:      color,
		Stock:      stock,
	}
	r.items[item.ID] = item
	return item
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("invalid uuid %q: %v", s, err)
	}
	return id
}

func seedDiseno(r *stubDisenoRepo, nombre string, stock int, seleccionado bool) *model.Diseno {
	d := &model.Diseno{
		ID:           uuid.New(),
		Nombre:       nombre,
		ImagenURL:    "/storage/disenos/" + nombre + ".png",
		Stock:        stock,
		Seleccionado: seleccionado,
	}
	r.disenos[d.ID] = d
	return d
}
