package purchasing

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

// ReceivingUseCase recepción de mercancía contra una orden de compra colocada.
// Admite entregas parciales y en varios envíos; lo recibido se deriva del libro mayor.
type ReceivingUseCase struct {
	txRunner inventory.TxRunner
	ledger   *inventory.StockLedger
	events   ports.EventPublisher
	metrics  ports.Metrics
}

// NewReceivingUseCase construye el caso de uso.
func NewReceivingUseCase(txRunner inventory.TxRunner, ledger *inventory.StockLedger, events ports.EventPublisher, metrics ports.Metrics) *ReceivingUseCase {
	return &ReceivingUseCase{txRunner: txRunner, ledger: ledger, events: events, metrics: metrics}
}

// ReceiveItem cantidad recibida de una línea en una bodega.
type ReceiveItem struct {
	DetailID    string
	WarehouseID string
	ReceivedQty int
	Note        string
}

// ReceiveResult estado final de la orden, líneas completadas en esta recepción y asientos creados.
type ReceiveResult struct {
	Status             entity.OrderStatus
	CompletedDetailIDs []string
	History            []*entity.StockHistory
}

// ReceiveStock registra la recepción en una sola transacción: o entran todos los ítems o ninguno.
// Reenviar la misma recepción la aplica dos veces; la idempotencia es responsabilidad del llamador.
func (uc *ReceivingUseCase) ReceiveStock(ctx context.Context, poID string, items []ReceiveItem) (res *ReceiveResult, err error) {
	defer ports.Track(ctx, uc.metrics, "receive_stock", &err)()

	if len(items) == 0 {
		return nil, fmt.Errorf("no hay ítems para recibir: %w", domain.ErrInvalidInput)
	}

	var po *entity.PurchaseOrder
	now := time.Now()
	err = uc.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		// 1. Bloquear la orden antes de leer lo ya recibido.
		po, err = lockOrder(ctx, repos, poID)
		if err != nil {
			return err
		}
		// Una orden completa tiene todas sus líneas llenas: cualquier entrada es sobre-recepción.
		if po.Status == entity.StatusCompleted {
			return fmt.Errorf("%w: %w", domain.ErrAlreadyFinal, domain.ErrOverReceipt)
		}
		if err := order.CheckStatus(po.Status, entity.StatusPending, entity.StatusProcessing); err != nil {
			return err
		}

		// 2. Validar ítems y acumular lo solicitado por línea.
		requested := make(map[string]int, len(items))
		productOf := make(map[string]string, len(items))
		for _, it := range items {
			d, ok := po.Detail(it.DetailID)
			if !ok {
				return fmt.Errorf("línea %s: %w", it.DetailID, domain.ErrIllegalReference)
			}
			if it.ReceivedQty <= 0 {
				return domain.ErrInvalidQuantity
			}
			if err := inventory.EnsureWarehouse(ctx, repos, it.WarehouseID); err != nil {
				return err
			}
			requested[d.ID] += it.ReceivedQty
			productOf[d.ID] = d.ProductID
		}

		// 3. Lo ya recibido sale del libro mayor, leído dentro de la transacción.
		received, err := receivedByDetail(ctx, repos, po)
		if err != nil {
			return err
		}
		for _, d := range po.Details {
			if after := received[d.ID] + requested[d.ID]; after > d.Quantity {
				return fmt.Errorf("%w: línea %s ordenado %d, recibido %d, solicitado %d",
					domain.ErrOverReceipt, d.ID, d.Quantity, received[d.ID], requested[d.ID])
			}
		}

		// 4. Aplicar entradas en orden (producto, bodega) para bloquear filas siempre igual.
		ordered := append([]ReceiveItem(nil), items...)
		sort.SliceStable(ordered, func(i, j int) bool {
			pi, pj := productOf[ordered[i].DetailID], productOf[ordered[j].DetailID]
			if pi != pj {
				return pi < pj
			}
			return ordered[i].WarehouseID < ordered[j].WarehouseID
		})
		res = &ReceiveResult{}
		for _, it := range ordered {
			h, err := uc.ledger.ApplyChangeInTx(ctx, repos, inventory.StockChange{
				ProductID:   productOf[it.DetailID],
				WarehouseID: it.WarehouseID,
				ChangeQty:   it.ReceivedQty,
				Type:        entity.HistoryTypeIN,
				RefType:     entity.RefTypePO,
				RefID:       po.ID,
				Notes:       it.Note,
			}, now)
			if err != nil {
				return err
			}
			res.History = append(res.History, h)
		}

		// 5. Estado por línea y roll-up de la orden.
		statuses := make([]entity.OrderStatus, 0, len(po.Details))
		for i := range po.Details {
			d := &po.Details[i]
			next := order.LineStatus(received[d.ID]+requested[d.ID], d.Quantity, d.Status)
			if next == entity.StatusCompleted && d.Status != entity.StatusCompleted {
				res.CompletedDetailIDs = append(res.CompletedDetailIDs, d.ID)
			}
			d.Status = next
			statuses = append(statuses, next)
		}
		po.Status = order.RollUp(statuses)
		po.UpdatedAt = now
		res.Status = po.Status
		return repos.PurchaseOrders.Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}

	uc.ledger.Notify(ctx, res.History...)
	ports.PublishAll(ctx, uc.events, orderEvent(ports.EventPurchaseOrderReceived, po, res.CompletedDetailIDs))
	return res, nil
}
