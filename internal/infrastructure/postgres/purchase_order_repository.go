package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, supplier_id, created_by, status, total, notes, created_at, updated_at`

// PurchaseOrderRepo persiste purchase_orders y purchase_order_details.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador.
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta la cabecera y sus líneas (usar dentro de una tx).
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	header := `
		INSERT INTO purchase_orders (id, supplier_id, created_by, status, total, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, header,
		po.ID, po.SupplierID, po.CreatedBy, string(po.Status), po.Total, po.Notes, po.CreatedAt, po.UpdatedAt,
	); err != nil {
		return fmt.Errorf("insert purchase order: %w", err)
	}

	detail := `
		INSERT INTO purchase_order_details (id, purchase_order_id, line_no, product_id, quantity, cost, status, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for i, d := range po.Details {
		if _, err := r.q.Exec(ctx, detail,
			d.ID, po.ID, i+1, d.ProductID, d.Quantity, d.Cost, string(d.Status), d.Description,
		); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("producto %s repetido: %w", d.ProductID, domain.ErrInvalidLine)
			}
			return fmt.Errorf("insert purchase order detail: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la orden con sus líneas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE); las líneas quedan protegidas por ese lock.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

// Update guarda estado, total y notas de la cabecera, y cantidad/estado de cada línea.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	header := `
		UPDATE purchase_orders SET status = $2, total = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, header, po.ID, string(po.Status), po.Total, po.Notes, po.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("orden de compra %s: %w", po.ID, domain.ErrNotFound)
	}

	detail := `UPDATE purchase_order_details SET quantity = $3, status = $4 WHERE id = $1 AND purchase_order_id = $2`
	for _, d := range po.Details {
		if _, err := r.q.Exec(ctx, detail, d.ID, po.ID, d.Quantity, string(d.Status)); err != nil {
			return fmt.Errorf("update purchase order detail: %w", err)
		}
	}
	return nil
}

// Delete elimina la orden; las líneas caen por ON DELETE CASCADE.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	return nil
}

// List órdenes por fecha de creación descendente.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + `
		FROM purchase_orders
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR created_by::text = $2)
		ORDER BY created_at DESC, id
		LIMIT NULLIF($3, 0) OFFSET $4`
	rows, err := r.q.Query(ctx, query, string(f.Status), f.CreatedBy, f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	out := make([]*entity.PurchaseOrder, 0)
	byID := make(map[string]*entity.PurchaseOrder)
	ids := make([]string, 0)
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		out = append(out, po)
		byID[po.ID] = po
		ids = append(ids, po.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(ids) == 0 {
		return out, nil
	}
	details, err := r.details(ctx, `WHERE purchase_order_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		if po, ok := byID[d.PurchaseOrderID]; ok {
			po.Details = append(po.Details, d)
		}
	}
	return out, nil
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	po.Details, err = r.details(ctx, `WHERE purchase_order_id = $1`, id)
	if err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) details(ctx context.Context, where string, arg any) ([]entity.PurchaseOrderDetail, error) {
	query := `
		SELECT id, purchase_order_id, product_id, quantity, cost, status, description
		FROM purchase_order_details ` + where + `
		ORDER BY purchase_order_id, line_no`
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list purchase order details: %w", err)
	}
	defer rows.Close()

	out := make([]entity.PurchaseOrderDetail, 0)
	for rows.Next() {
		var d entity.PurchaseOrderDetail
		var status string
		if err := rows.Scan(&d.ID, &d.PurchaseOrderID, &d.ProductID, &d.Quantity, &d.Cost, &status, &d.Description); err != nil {
			return nil, fmt.Errorf("scan purchase order detail: %w", err)
		}
		d.Status = entity.OrderStatus(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	var status string
	if err := row.Scan(&po.ID, &po.SupplierID, &po.CreatedBy, &status, &po.Total, &po.Notes, &po.CreatedAt, &po.UpdatedAt); err != nil {
		return nil, err
	}
	po.Status = entity.OrderStatus(status)
	return &po, nil
}
