package domain

import (
	"errors"
	"fmt"
)

// Categorías de error de dominio (sin dependencias externas).
// Los handlers HTTP traducen cada categoría a un código de estado con errors.Is.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvariantViolation = errors.New("regla de negocio violada")
	ErrIllegalState       = errors.New("operación no permitida en el estado actual")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrConflict           = errors.New("conflicto con el estado actual")
)

// Errores específicos; cada uno envuelve su categoría.
var (
	ErrInvalidChange    = fmt.Errorf("cambio de cantidad igual a cero: %w", ErrInvalidInput)
	ErrInvalidQuantity  = fmt.Errorf("la cantidad debe ser mayor que cero: %w", ErrInvalidInput)
	ErrIllegalReference = fmt.Errorf("la línea no pertenece a la orden: %w", ErrInvalidInput)
	ErrInvalidLine      = fmt.Errorf("línea de orden inválida: %w", ErrInvalidInput)

	ErrInsufficientStock    = fmt.Errorf("stock insuficiente: %w", ErrInvariantViolation)
	ErrReservationShortfall = fmt.Errorf("reserva insuficiente para la entrega: %w", ErrInvariantViolation)
	ErrOverReceipt          = fmt.Errorf("la recepción supera la cantidad ordenada: %w", ErrInvariantViolation)
	ErrOverDelivery         = fmt.Errorf("la entrega supera la cantidad ordenada: %w", ErrInvariantViolation)

	ErrAlreadyFinal = fmt.Errorf("la orden ya está en un estado final: %w", ErrIllegalState)
)
