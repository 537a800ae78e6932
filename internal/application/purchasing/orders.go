// Package purchasing contiene los casos de uso de órdenes de compra:
// ciclo de vida (crear, colocar, editar, cancelar, eliminar) y recepción de mercancía.
package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/order"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// OrderUseCase ciclo de vida de la orden de compra.
type OrderUseCase struct {
	txRunner inventory.TxRunner
	events   ports.EventPublisher
	metrics  ports.Metrics
	pdf      PurchaseOrderPDFGenerator
}

// NewOrderUseCase construye el caso de uso. pdf puede ser nil si no se expone el documento.
func NewOrderUseCase(txRunner inventory.TxRunner, events ports.EventPublisher, metrics ports.Metrics, pdf PurchaseOrderPDFGenerator) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, events: events, metrics: metrics, pdf: pdf}
}

// CreateOrderInput entrada para crear una orden de compra.
type CreateOrderInput struct {
	SupplierID string
	Notes      string
	Lines      []LineInput
}

// LineInput línea solicitada. Cost es el costo unitario pactado con el proveedor.
type LineInput struct {
	ProductID   string
	Quantity    int
	Cost        decimal.Decimal
	Description string
}

// OrderView orden con lo recibido por línea (derivado del libro mayor).
type OrderView struct {
	Order       *entity.PurchaseOrder
	ReceivedQty map[string]int // por ID de línea
}

// Create valida las líneas contra los productos activos del proveedor y guarda la orden en NEW.
func (uc *OrderUseCase) Create(ctx context.Context, actor entity.Actor, in CreateOrderInput) (po *entity.PurchaseOrder, err error) {
	defer ports.Track(ctx, uc.metrics, "create_purchase_order", &err)()

	if in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, fmt.Errorf("proveedor y al menos una línea son obligatorios: %w", domain.ErrInvalidInput)
	}
	seen := make(map[string]bool, len(in.Lines))
	for _, l := range in.Lines {
		if l.ProductID == "" || l.Cost.IsNegative() {
			return nil, domain.ErrInvalidLine
		}
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		// Lo recibido se suma por producto: una línea por producto.
		if seen[l.ProductID] {
			return nil, fmt.Errorf("producto %s repetido: %w", l.ProductID, domain.ErrInvalidLine)
		}
		seen[l.ProductID] = true
	}

	now := time.Now()
	po = &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		CreatedBy:  actor.UserID,
		Status:     entity.StatusNew,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, l := range in.Lines {
		po.Details = append(po.Details, entity.PurchaseOrderDetail{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			Cost:            l.Cost,
			Status:          entity.StatusNew,
			Description:     l.Description,
		})
	}
	po.RecalculateTotal()

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		active, err := repos.SupplierProducts.ListActiveBySupplier(ctx, in.SupplierID)
		if err != nil {
			return err
		}
		supplied := make(map[string]bool, len(active))
		for _, sp := range active {
			supplied[sp.ProductID] = true
		}
		for _, d := range po.Details {
			p, err := repos.Products.GetByID(ctx, d.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("producto %s: %w", d.ProductID, domain.ErrNotFound)
			}
			if !supplied[d.ProductID] {
				return fmt.Errorf("el proveedor %s no suministra el producto %s: %w", in.SupplierID, d.ProductID, domain.ErrInvalidLine)
			}
		}
		return repos.PurchaseOrders.Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// Get devuelve la orden con lo recibido por línea.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*OrderView, error) {
	var view *OrderView
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		po, err := repos.PurchaseOrders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("orden de compra %s: %w", id, domain.ErrNotFound)
		}
		received, err := receivedByDetail(ctx, repos, po)
		if err != nil {
			return err
		}
		view = &OrderView{Order: po, ReceivedQty: received}
		return nil
	})
	return view, err
}

// List órdenes de compra según el filtro.
func (uc *OrderUseCase) List(ctx context.Context, f repository.OrderFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		out, err = repos.PurchaseOrders.List(ctx, f)
		return err
	})
	return out, err
}

// PlaceOrder envía la orden al proveedor: NEW → PENDING (cabecera y líneas).
// A partir de aquí las cantidades son inmutables y se puede recibir mercancía.
func (uc *OrderUseCase) PlaceOrder(ctx context.Context, id string) (po *entity.PurchaseOrder, err error) {
	defer ports.Track(ctx, uc.metrics, "place_purchase_order", &err)()

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		po, err = lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if err := order.CheckStatus(po.Status, entity.StatusNew); err != nil {
			return err
		}
		if len(po.Details) == 0 {
			return fmt.Errorf("la orden no tiene líneas: %w", domain.ErrInvalidInput)
		}
		for i := range po.Details {
			po.Details[i].Status = entity.StatusPending
		}
		po.Status = entity.StatusPending
		po.UpdatedAt = time.Now()
		return repos.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	ports.PublishAll(ctx, uc.events, orderEvent(ports.EventPurchaseOrderPlaced, po, nil))
	return po, nil
}

// UpdateDetailQuantity cambia la cantidad de una línea. Solo en NEW.
func (uc *OrderUseCase) UpdateDetailQuantity(ctx context.Context, actor entity.Actor, id, detailID string, qty int) (*entity.PurchaseOrder, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var po *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		po, err = lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(po.CreatedBy) {
			return domain.ErrUnauthorized
		}
		if err := order.CheckStatus(po.Status, entity.StatusNew); err != nil {
			return err
		}
		d, ok := po.Detail(detailID)
		if !ok {
			return domain.ErrIllegalReference
		}
		d.Quantity = qty
		po.RecalculateTotal()
		po.UpdatedAt = time.Now()
		return repos.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// Cancel NEW → CANCELLED. Solo el creador o un admin.
func (uc *OrderUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (po *entity.PurchaseOrder, err error) {
	defer ports.Track(ctx, uc.metrics, "cancel_purchase_order", &err)()

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		po, err = lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(po.CreatedBy) {
			return domain.ErrUnauthorized
		}
		if err := order.CheckStatus(po.Status, entity.StatusNew); err != nil {
			return err
		}
		for i := range po.Details {
			po.Details[i].Status = entity.StatusCancelled
		}
		po.Status = entity.StatusCancelled
		po.UpdatedAt = time.Now()
		return repos.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	ports.PublishAll(ctx, uc.events, orderEvent(ports.EventPurchaseOrderCancelled, po, nil))
	return po, nil
}

// Delete elimina una orden en NEW o CANCELLED. Solo el creador o un admin.
func (uc *OrderUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		po, err := lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(po.CreatedBy) {
			return domain.ErrUnauthorized
		}
		if err := order.CheckStatus(po.Status, entity.StatusNew, entity.StatusCancelled); err != nil {
			return err
		}
		return repos.PurchaseOrders.Delete(ctx, id)
	})
}

func lockOrder(ctx context.Context, repos repository.TxRepos, id string) (*entity.PurchaseOrder, error) {
	po, err := repos.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, fmt.Errorf("orden de compra %s: %w", id, domain.ErrNotFound)
	}
	return po, nil
}

// receivedByDetail lo recibido por línea según el libro mayor (asientos PO de esta orden).
func receivedByDetail(ctx context.Context, repos repository.TxRepos, po *entity.PurchaseOrder) (map[string]int, error) {
	byProduct, err := repos.History.SumByRef(ctx, entity.RefTypePO, po.ID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(po.Details))
	for _, d := range po.Details {
		out[d.ID] = byProduct[d.ProductID]
	}
	return out, nil
}

func orderEvent(eventType string, po *entity.PurchaseOrder, detailIDs []string) ports.Event {
	return ports.Event{
		Type:        eventType,
		AggregateID: po.ID,
		OccurredAt:  po.UpdatedAt,
		Payload:     ports.OrderPayload{OrderID: po.ID, Status: po.Status.String(), DetailIDs: detailIDs},
	}
}
