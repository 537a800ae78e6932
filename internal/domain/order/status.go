package order

import (
	"fmt"
	"slices"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// CheckStatus nil si current está entre los permitidos. Una orden COMPLETED
// devuelve ErrAlreadyFinal; cualquier otro estado no permitido, ErrIllegalState.
func CheckStatus(current entity.OrderStatus, allowed ...entity.OrderStatus) error {
	if slices.Contains(allowed, current) {
		return nil
	}
	if current == entity.StatusCompleted {
		return domain.ErrAlreadyFinal
	}
	return fmt.Errorf("estado %s (se requiere %v): %w", current, allowed, domain.ErrIllegalState)
}
