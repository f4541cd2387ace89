package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Errores de facturación. Los mensajes en inglés son parte del contrato
	// con los clientes de la API y no se traducen.
	ErrMissingTemplate      = errors.New("Cannot create invoice model without template")
	ErrUnknownInvoiceStatus = errors.New("Unknown invoice status")
	ErrNoRenderer           = errors.New("ningún renderer soporta el documento")
	ErrInvalidDateRange     = errors.New("la fecha de inicio es posterior a la fecha de fin")
)
