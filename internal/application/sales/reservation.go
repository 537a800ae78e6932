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

// ReservationUseCase prepara la orden reservando stock en todas las bodegas del producto.
type ReservationUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.StockLedger
	events   ports.EventPublisher
	metrics  ports.Metrics
}

// NewReservationUseCase construye el caso de uso.
func NewReservationUseCase(txRunner inventory.TxRunner, ledger *inventory.StockLedger, events ports.EventPublisher, metrics ports.Metrics) *ReservationUseCase {
	return &ReservationUseCase{txRunner: txRunner, ledger: ledger, events: events, metrics: metrics}
}

// PrepareOrder NEW → PENDING reservando la cantidad de cada línea. Se reserva
// primero en la bodega de menor id. Si una línea no alcanza, no queda ninguna reserva.
func (uc *ReservationUseCase) PrepareOrder(ctx context.Context, soID string) (so *entity.SalesOrder, err error) {
	defer ports.Track(ctx, uc.metrics, "prepare_order", &err)()

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		so, err = lockOrder(ctx, repos, soID)
		if err != nil {
			return err
		}
		if err := order.CheckStatus(so.Status, entity.StatusNew); err != nil {
			return err
		}
		if len(so.Details) == 0 {
			return fmt.Errorf("la orden no tiene líneas: %w", domain.ErrInvalidLine)
		}
		for _, d := range so.Details {
			if d.Quantity <= 0 || !d.Price.IsPositive() {
				return fmt.Errorf("línea %s (cantidad %d, precio %s): %w", d.ID, d.Quantity, d.Price, domain.ErrInvalidLine)
			}
		}

		for i := range so.Details {
			sp, err := lookupSKU(ctx, repos, so.Details[i].SKU)
			if err != nil {
				return err
			}
			so.Details[i].ProductID = sp.ProductID
		}

		// Reservar por producto en orden ascendente: las filas se bloquean siempre igual.
		idx := make([]int, len(so.Details))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return so.Details[idx[a]].ProductID < so.Details[idx[b]].ProductID
		})
		for _, i := range idx {
			d := &so.Details[i]
			if _, err := uc.ledger.ReserveInTx(ctx, repos, d.ProductID, d.Quantity, now); err != nil {
				return fmt.Errorf("línea %s: %w", d.ID, err)
			}
			d.Status = entity.StatusPending
		}

		so.Status = entity.StatusPending
		so.UpdatedAt = now
		return repos.SalesOrders.Update(ctx, so)
	})
	if err != nil {
		return nil, err
	}
	ports.PublishAll(ctx, uc.events, orderEvent(ports.EventSalesOrderPrepared, so, nil))
	return so, nil
}
