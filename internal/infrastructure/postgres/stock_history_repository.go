package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.StockHistoryRepository = (*StockHistoryRepo)(nil)

// StockHistoryRepo libro mayor sobre stock_histories. Producto y bodega se obtienen por join.
type StockHistoryRepo struct {
	q Querier
}

// NewStockHistoryRepository construye el adaptador del historial.
func NewStockHistoryRepository(q Querier) *StockHistoryRepo {
	return &StockHistoryRepo{q: q}
}

// Create agrega un asiento.
func (r *StockHistoryRepo) Create(ctx context.Context, h *entity.StockHistory) error {
	query := `
		INSERT INTO stock_histories (id, inventory_stock_id, change_qty, type, ref_type, ref_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		h.ID, h.InventoryStockID, h.ChangeQty, h.Type, h.RefType, nullIfEmpty(h.RefID), h.Notes, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock history: %w", err)
	}
	return nil
}

// ListByStock asientos del más reciente al más antiguo. limit 0 = sin límite.
func (r *StockHistoryRepo) ListByStock(ctx context.Context, stockID string, limit, offset int) ([]*entity.StockHistory, error) {
	query := `
		SELECT h.id, h.inventory_stock_id, s.product_id, s.warehouse_id, h.change_qty,
		       h.type, h.ref_type, COALESCE(h.ref_id, ''), h.notes, h.created_at
		FROM stock_histories h
		JOIN inventory_stocks s ON s.id = h.inventory_stock_id
		WHERE h.inventory_stock_id = $1
		ORDER BY h.created_at DESC, h.id DESC
		LIMIT NULLIF($2, 0) OFFSET $3`
	rows, err := r.q.Query(ctx, query, stockID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock history: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.StockHistory, 0)
	for rows.Next() {
		var h entity.StockHistory
		if err := rows.Scan(&h.ID, &h.InventoryStockID, &h.ProductID, &h.WarehouseID, &h.ChangeQty,
			&h.Type, &h.RefType, &h.RefID, &h.Notes, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock history: %w", err)
		}
		out = append(out, &h)
	}
	return out, rows.Err()
}

// SumByStock Σ change_qty del registro.
func (r *StockHistoryRepo) SumByStock(ctx context.Context, stockID string) (int, error) {
	query := `SELECT COALESCE(SUM(change_qty), 0) FROM stock_histories WHERE inventory_stock_id = $1`
	var sum int
	if err := r.q.QueryRow(ctx, query, stockID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock history: %w", err)
	}
	return sum, nil
}

// SumByRef Σ change_qty por producto para una referencia (tipo + id).
func (r *StockHistoryRepo) SumByRef(ctx context.Context, refType, refID string) (map[string]int, error) {
	query := `
		SELECT s.product_id, COALESCE(SUM(h.change_qty), 0)
		FROM stock_histories h
		JOIN inventory_stocks s ON s.id = h.inventory_stock_id
		WHERE h.ref_type = $1 AND h.ref_id = $2
		GROUP BY s.product_id`
	rows, err := r.q.Query(ctx, query, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("sum stock history by ref: %w", err)
	}
	defer rows.Close()

	sums := make(map[string]int)
	for rows.Next() {
		var productID string
		var sum int
		if err := rows.Scan(&productID, &sum); err != nil {
			return nil, fmt.Errorf("scan sum by ref: %w", err)
		}
		sums[productID] = sum
	}
	return sums, rows.Err()
}
