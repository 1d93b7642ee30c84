package service

import "errors"

// Domain errors surfaced by the services. Handlers map these onto HTTP
// statuses; anything else is a backend failure passed through as-is.
var (
	// ErrNoEncontrado: a referenced row (line, diseño, pedido, producto) is absent.
	ErrNoEncontrado = errors.New("no encontrado")
	// ErrSinStock: the inventory line or diseño had stock <= 0 at commit time.
	ErrSinStock = errors.New("sin stock disponible")
	// ErrEstadoInvalido: the requested order status is not a known estado.
	ErrEstadoInvalido = errors.New("estado de pedido invalido")
	// ErrDisenoNoDisponible: the chosen diseño is not selectable (quitado).
	ErrDisenoNoDisponible = errors.New("el diseno no esta disponible")
)
