package repository

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// StockHistoryRepository libro mayor de stock. Solo inserta; no hay Update ni Delete.
type StockHistoryRepository interface {
	Create(ctx context.Context, h *entity.StockHistory) error
	ListByStock(ctx context.Context, stockID string, limit, offset int) ([]*entity.StockHistory, error)
	// SumByStock suma de ChangeQty del registro de stock (auditoría).
	SumByStock(ctx context.Context, stockID string) (int, error)
	// SumByRef suma de ChangeQty por producto para una referencia (ej. PO + id).
	SumByRef(ctx context.Context, refType, refID string) (map[string]int, error)
}
