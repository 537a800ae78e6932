package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.InventoryStockRepository = (*InventoryStockRepo)(nil)

const stockColumns = `id, product_id, warehouse_id, quantity, reserved_quantity, created_at, updated_at`

// InventoryStockRepo implementación de InventoryStockRepository sobre PostgreSQL (usable con pool o tx).
type InventoryStockRepo struct {
	q Querier
}

// NewInventoryStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewInventoryStockRepository(q Querier) *InventoryStockRepo {
	return &InventoryStockRepo{q: q}
}

// GetOrCreateForUpdate inserta la fila en cero si no existe (ON CONFLICT DO NOTHING) y la bloquea.
func (r *InventoryStockRepo) GetOrCreateForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryStock, error) {
	insert := `
		INSERT INTO inventory_stocks (id, product_id, warehouse_id, quantity, reserved_quantity, created_at, updated_at)
		VALUES ($1, $2, $3, 0, 0, now(), now())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, uuid.New().String(), productID, warehouseID); err != nil {
		return nil, fmt.Errorf("create inventory stock: %w", err)
	}
	s, err := r.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("inventory stock %s/%s: %w", productID, warehouseID, domain.ErrNotFound)
	}
	return s, nil
}

// GetForUpdate obtiene el stock y bloquea la fila (SELECT FOR UPDATE). nil, nil si no existe.
func (r *InventoryStockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.InventoryStock, error) {
	query := `SELECT ` + stockColumns + `
		FROM inventory_stocks WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory stock for update: %w", err)
	}
	return s, nil
}

// ListByProductForUpdate bloquea todas las filas del producto en orden de bodega.
func (r *InventoryStockRepo) ListByProductForUpdate(ctx context.Context, productID string) ([]*entity.InventoryStock, error) {
	query := `SELECT ` + stockColumns + `
		FROM inventory_stocks WHERE product_id = $1
		ORDER BY warehouse_id, id
		FOR UPDATE`
	return r.list(ctx, query, productID)
}

// GetByID obtiene un registro de stock sin bloquearlo.
func (r *InventoryStockRepo) GetByID(ctx context.Context, id string) (*entity.InventoryStock, error) {
	query := `SELECT ` + stockColumns + ` FROM inventory_stocks WHERE id = $1`
	s, err := scanStock(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory stock: %w", err)
	}
	return s, nil
}

// ListByProduct registros del producto sin bloqueo.
func (r *InventoryStockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryStock, error) {
	query := `SELECT ` + stockColumns + `
		FROM inventory_stocks WHERE product_id = $1
		ORDER BY warehouse_id, id`
	return r.list(ctx, query, productID)
}

// Update persiste existencia y reservado.
func (r *InventoryStockRepo) Update(ctx context.Context, stock *entity.InventoryStock) error {
	query := `
		UPDATE inventory_stocks
		SET quantity = $2, reserved_quantity = $3, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, stock.ID, stock.Quantity, stock.ReservedQuantity, stock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update inventory stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("inventory stock %s: %w", stock.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *InventoryStockRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InventoryStock, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory stocks: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.InventoryStock, 0)
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory stock: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStock(row pgx.Row) (*entity.InventoryStock, error) {
	var s entity.InventoryStock
	err := row.Scan(&s.ID, &s.ProductID, &s.WarehouseID, &s.Quantity, &s.ReservedQuantity, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
