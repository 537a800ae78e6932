package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/order"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// DeliveryUseCase despacho de una orden preparada: descuenta existencia y libera la reserva.
type DeliveryUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.StockLedger
	events   ports.EventPublisher
	metrics  ports.Metrics
}

// NewDeliveryUseCase construye el caso de uso.
func NewDeliveryUseCase(txRunner inventory.TxRunner, ledger *inventory.StockLedger, events ports.EventPublisher, metrics ports.Metrics) *DeliveryUseCase {
	return &DeliveryUseCase{txRunner: txRunner, ledger: ledger, events: events, metrics: metrics}
}

// DeliverItem cantidad despachada de una línea desde una bodega.
type DeliverItem struct {
	DetailID     string
	WarehouseID  string
	DeliveredQty int
}

// DeliverResult estado final, líneas completadas en este despacho y asientos creados.
type DeliverResult struct {
	Status             entity.OrderStatus
	CompletedDetailIDs []string
	History            []*entity.StockHistory
}

// DeliverStock aplica el despacho en una sola transacción. Cada ítem consume reserva de la
// fila (producto, bodega) indicada; si alguna no alcanza se revierte todo el lote.
func (uc *DeliveryUseCase) DeliverStock(ctx context.Context, soID string, items []DeliverItem) (res *DeliverResult, err error) {
	defer ports.Track(ctx, uc.metrics, "deliver_stock", &err)()

	if len(items) == 0 {
		return nil, fmt.Errorf("no hay ítems para despachar: %w", domain.ErrInvalidInput)
	}

	var so *entity.SalesOrder
	now := time.Now()
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		so, err = lockOrder(ctx, repos, soID)
		if err != nil {
			return err
		}
		if so.Status == entity.StatusCompleted {
			return fmt.Errorf("%w: %w", domain.ErrAlreadyFinal, domain.ErrOverDelivery)
		}
		// Solo las órdenes preparadas tienen reservas.
		if err := order.CheckStatus(so.Status, entity.StatusPending, entity.StatusProcessing); err != nil {
			return err
		}

		requested := make(map[string]int, len(items))
		productOf := make(map[string]string, len(items))
		for _, it := range items {
			d, ok := so.Detail(it.DetailID)
			if !ok {
				return fmt.Errorf("línea %s: %w", it.DetailID, domain.ErrIllegalReference)
			}
			if it.DeliveredQty <= 0 {
				return domain.ErrInvalidQuantity
			}
			requested[d.ID] += it.DeliveredQty
			productOf[d.ID] = d.ProductID
		}
		for _, d := range so.Details {
			if d.DeliveredQty+requested[d.ID] > d.Quantity {
				return fmt.Errorf("%w: línea %s ordenado %d, entregado %d, solicitado %d",
					domain.ErrOverDelivery, d.ID, d.Quantity, d.DeliveredQty, requested[d.ID])
			}
		}

		ordered := append([]DeliverItem(nil), items...)
		sort.SliceStable(ordered, func(i, j int) bool {
			pi, pj := productOf[ordered[i].DetailID], productOf[ordered[j].DetailID]
			if pi != pj {
				return pi < pj
			}
			return ordered[i].WarehouseID < ordered[j].WarehouseID
		})

		res = &DeliverResult{}
		for _, it := range ordered {
			productID := productOf[it.DetailID]
			stock, err := repos.Stocks.GetForUpdate(ctx, productID, it.WarehouseID)
			if err != nil {
				return err
			}
			if stock == nil {
				return fmt.Errorf("stock de %s en bodega %s: %w", productID, it.WarehouseID, domain.ErrNotFound)
			}
			if stock.ReservedQuantity < it.DeliveredQty {
				return fmt.Errorf("%w: bodega %s reservado %d, solicitado %d",
					domain.ErrReservationShortfall, it.WarehouseID, stock.ReservedQuantity, it.DeliveredQty)
			}
			h, err := uc.ledger.ApplyChangeInTx(ctx, repos, inventory.StockChange{
				ProductID:       productID,
				WarehouseID:     it.WarehouseID,
				ChangeQty:       -it.DeliveredQty,
				Type:            entity.HistoryTypeOUT,
				RefType:         entity.RefTypeSO,
				RefID:           so.ID,
				ReleaseReserved: it.DeliveredQty,
			}, now)
			if err != nil {
				return err
			}
			res.History = append(res.History, h)
		}

		statuses := make([]entity.OrderStatus, 0, len(so.Details))
		for i := range so.Details {
			d := &so.Details[i]
			d.DeliveredQty += requested[d.ID]
			next := order.LineStatus(d.DeliveredQty, d.Quantity, d.Status)
			if next == entity.StatusCompleted && d.Status != entity.StatusCompleted {
				res.CompletedDetailIDs = append(res.CompletedDetailIDs, d.ID)
			}
			d.Status = next
			statuses = append(statuses, next)
		}
		so.Status = order.RollUp(statuses)
		so.UpdatedAt = now
		res.Status = so.Status
		return repos.SalesOrders.Update(ctx, so)
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.Notify(ctx, res.History...)
	ports.PublishAll(ctx, uc.events, orderEvent(ports.EventSalesOrderDelivered, so, res.CompletedDetailIDs))
	return res, nil
}
