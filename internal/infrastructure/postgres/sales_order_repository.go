package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

const salesOrderColumns = `id, customer_name, created_by, status, total, created_at, updated_at`

// SalesOrderRepo persiste sales_orders y sales_order_details.
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador.
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas (usar dentro de una tx).
func (r *SalesOrderRepo) Create(ctx context.Context, so *entity.SalesOrder) error {
	header := `
		INSERT INTO sales_orders (id, customer_name, created_by, status, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, header,
		so.ID, so.CustomerName, so.CreatedBy, string(so.Status), so.Total, so.CreatedAt, so.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert sales order: %w", err)
	}

	detail := `
		INSERT INTO sales_order_details (id, sales_order_id, line_no, product_id, sku, quantity, delivered_qty, price, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i, d := range so.Details {
		if _, err := r.q.Exec(ctx, detail,
			d.ID, so.ID, i+1, d.ProductID, d.SKU, d.Quantity, d.DeliveredQty, d.Price, string(d.Status), d.Description,
		); err != nil {
			return fmt.Errorf("insert sales order detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *SalesOrderRepo) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE).
func (r *SalesOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error) {
	return r.get(ctx, `SELECT `+salesOrderColumns+` FROM sales_orders WHERE id = $1 FOR UPDATE`, id)
}

// Update guarda estado y total de la cabecera, y producto, cantidad, entregado, precio y estado de cada línea.
func (r *SalesOrderRepo) Update(ctx context.Context, so *entity.SalesOrder) error {
	header := `UPDATE sales_orders SET status = $2, total = $3, updated_at = $4 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, header, so.ID, string(so.Status), so.Total, so.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("orden de venta %s: %w", so.ID, domain.ErrNotFound)
	}

	detail := `
		UPDATE sales_order_details
		SET product_id = $3, quantity = $4, delivered_qty = $5, price = $6, status = $7
		WHERE id = $1 AND sales_order_id = $2`
	for _, d := range so.Details {
		if _, err := r.q.Exec(ctx, detail, d.ID, so.ID, d.ProductID, d.Quantity, d.DeliveredQty, d.Price, string(d.Status)); err != nil {
			return fmt.Errorf("update sales order detail: %w", err)
		}
	}
	return nil
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *SalesOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sales order: %w", err)
	}
	return nil
}

// List órdenes por fecha de creación descendente.
func (r *SalesOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.SalesOrder, error) {
	query := `SELECT ` + salesOrderColumns + `
		FROM sales_orders
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR created_by::text = $2)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(f.Status), f.CreatedBy, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.SalesOrder, 0)
	byID := make(map[string]*entity.SalesOrder)
	ids := make([]string, 0)
	for rows.Next() {
		so, err := scanSalesOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		out = append(out, so)
		byID[so.ID] = so
		ids = append(ids, so.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return out, nil
	}
	details, err := r.details(ctx, `WHERE sales_order_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		if so, ok := byID[d.SalesOrderID]; ok {
			so.Details = append(so.Details, d)
		}
	}
	return out, nil
}

func (r *SalesOrderRepo) get(ctx context.Context, query, id string) (*entity.SalesOrder, error) {
	so, err := scanSalesOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	so.Details, err = r.details(ctx, `WHERE sales_order_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return so, nil
}

func (r *SalesOrderRepo) details(ctx context.Context, where string, arg any) ([]entity.SalesOrderDetail, error) {
	query := `
		SELECT id, sales_order_id, product_id, sku, quantity, delivered_qty, price, status, description
		FROM sales_order_details ` + where + `
		ORDER BY sales_order_id, line_no`
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list sales order details: %w", err)
	}
	defer rows.Close()

	out := make([]entity.SalesOrderDetail, 0)
	for rows.Next() {
		var d entity.SalesOrderDetail
		var status string
		if err := rows.Scan(&d.ID, &d.SalesOrderID, &d.ProductID, &d.SKU, &d.Quantity, &d.DeliveredQty, &d.Price, &status, &d.Description); err != nil {
			return nil, fmt.Errorf("scan sales order detail: %w", err)
		}
		d.Status = entity.OrderStatus(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanSalesOrder(row pgx.Row) (*entity.SalesOrder, error) {
	var so entity.SalesOrder
	var status string
	if err := row.Scan(&so.ID, &so.CustomerName, &so.CreatedBy, &status, &so.Total, &so.CreatedAt, &so.UpdatedAt); err != nil {
		return nil, err
	}
	so.Status = entity.OrderStatus(status)
	return &so, nil
}
