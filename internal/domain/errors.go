package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrUserNotFound    = errors.New("usuario no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrAlreadyIssued   = errors.New("la venta ya tiene documento fiscal emitido")
	ErrSaleCancelled   = errors.New("la venta está cancelada")
	ErrFiscalNotIssued = errors.New("la venta no tiene documento fiscal emitido")
)
