// Package sales contiene los casos de uso de órdenes de venta: ciclo de vida,
// reserva de stock (PrepareOrder) y despacho (DeliverStock).
package sales

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

// OrderUseCase ciclo de vida de la orden de venta.
type OrderUseCase struct {
	txRunner inventory.TxRunner
	events   ports.EventPublisher
	metrics  ports.Metrics
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner inventory.TxRunner, events ports.EventPublisher, metrics ports.Metrics) *OrderUseCase {
	return &OrderUseCase{txRunner: txRunner, events: events, metrics: metrics}
}

// CreateOrderInput entrada para crear una orden de venta.
type CreateOrderInput struct {
	CustomerName string
	Lines        []LineInput
}

// LineInput línea por SKU de proveedor. El precio puede quedar en cero mientras la orden esté en NEW.
type LineInput struct {
	SKU         string
	Quantity    int
	Price       decimal.Decimal
	Description string
}

// Create resuelve cada SKU a su producto y guarda la orden en NEW.
func (uc *OrderUseCase) Create(ctx context.Context, actor entity.Actor, in CreateOrderInput) (so *entity.SalesOrder, err error) {
	defer ports.Track(ctx, uc.metrics, "create_sales_order", &err)()

	if in.CustomerName == "" || len(in.Lines) == 0 {
		return nil, fmt.Errorf("cliente y al menos una línea son obligatorios: %w", domain.ErrInvalidInput)
	}
	for _, l := range in.Lines {
		if l.SKU == "" || l.Price.IsNegative() {
			return nil, domain.ErrInvalidLine
		}
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
	}

	now := time.Now()
	so = &entity.SalesOrder{
		ID:           uuid.New().String(),
		CustomerName: in.CustomerName,
		CreatedBy:    actor.UserID,
		Status:       entity.StatusNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		for _, l := range in.Lines {
			sp, err := lookupSKU(ctx, repos, l.SKU)
			if err != nil {
				return err
			}
			so.Details = append(so.Details, entity.SalesOrderDetail{
				ID:           uuid.New().String(),
				SalesOrderID: so.ID,
				ProductID:    sp.ProductID,
				SKU:          l.SKU,
				Quantity:     l.Quantity,
				Price:        l.Price,
				Status:       entity.StatusNew,
				Description:  l.Description,
			})
		}
		so.RecalculateTotal()
		return repos.SalesOrders.Create(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	return so, nil
}

// Get devuelve la orden con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*entity.SalesOrder, error) {
	var so *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		so, err = repos.SalesOrders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if so == nil {
			return fmt.Errorf("orden de venta %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	return so, err
}

// List órdenes de venta según el filtro.
func (uc *OrderUseCase) List(ctx context.Context, f repository.OrderFilter) ([]*entity.SalesOrder, error) {
	var out []*entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		out, err = repos.SalesOrders.List(ctx, f)
		return err
	})
	return out, err
}

// UpdateDetail cambia cantidad y precio de una línea. Solo en NEW.
func (uc *OrderUseCase) UpdateDetail(ctx context.Context, actor entity.Actor, id, detailID string, qty int, price decimal.Decimal) (*entity.SalesOrder, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if price.IsNegative() {
		return nil, domain.ErrInvalidLine
	}
	var so *entity.SalesOrder
	err := uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		so, err = lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(so.CreatedBy) {
			return domain.ErrUnauthorized
		}
		if err := order.CheckStatus(so.Status, entity.StatusNew); err != nil {
			return err
		}
		d, ok := so.Detail(detailID)
		if !ok {
			return domain.ErrIllegalReference
		}
		d.Quantity = qty
		d.Price = price
		so.RecalculateTotal()
		so.UpdatedAt = time.Now()
		return repos.SalesOrders.Update(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	return so, nil
}

// Cancel NEW → CANCELLED. Una orden en NEW no tiene reservas, no hay stock que liberar.
func (uc *OrderUseCase) Cancel(ctx context.Context, actor entity.Actor, id string) (so *entity.SalesOrder, err error) {
	defer ports.Track(ctx, uc.metrics, "cancel_sales_order", &err)()

	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		so, err = lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(so.CreatedBy) {
			return domain.ErrUnauthorized
		}
		if err := order.CheckStatus(so.Status, entity.StatusNew); err != nil {
			return err
		}
		for i := range so.Details {
			so.Details[i].Status = entity.StatusCancelled
		}
		so.Status = entity.StatusCancelled
		so.UpdatedAt = time.Now()
		return repos.SalesOrders.Update(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	ports.PublishAll(ctx, uc.events, orderEvent(ports.EventSalesOrderCancelled, so, nil))
	return so, nil
}

// Delete elimina una orden en NEW o CANCELLED. Solo el creador o un admin.
func (uc *OrderUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	return uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		so, err := lockOrder(ctx, repos, id)
		if err != nil {
			return err
		}
		if !actor.CanManage(so.CreatedBy) {
			return domain.ErrUnauthorized
		}
		if err := order.CheckStatus(so.Status, entity.StatusNew, entity.StatusCancelled); err != nil {
			return err
		}
		return repos.SalesOrders.Delete(ctx, id)
	})
}

func lockOrder(ctx context.Context, repos repository.TxRepos, id string) (*entity.SalesOrder, error) {
	so, err := repos.SalesOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if so == nil {
		return nil, fmt.Errorf("orden de venta %s: %w", id, domain.ErrNotFound)
	}
	return so, nil
}

func lookupSKU(ctx context.Context, repos repository.TxRepos, sku string) (*entity.SupplierProduct, error) {
	sp, err := repos.SupplierProducts.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if sp == nil {
		return nil, fmt.Errorf("sku %s: %w", sku, domain.ErrNotFound)
	}
	return sp, nil
}

func orderEvent(eventType string, so *entity.SalesOrder, detailIDs []string) ports.Event {
	return ports.Event{
		Type:        eventType,
		AggregateID: so.ID,
		OccurredAt:  so.UpdatedAt,
		Payload:     ports.OrderPayload{OrderID: so.ID, Status: so.Status.String(), DetailIDs: detailIDs},
	}
}
