package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
)

// StockLedger es el único componente que modifica Quantity/ReservedQuantity y agrega historial.
// Los motores de órdenes le delegan las mutaciones dentro de su propia transacción (métodos *InTx).
type StockLedger struct {
	txRunner TxRunner
	events   ports.EventPublisher
	metrics  ports.Metrics
}

// NewStockLedger construye el libro mayor de stock.
func NewStockLedger(txRunner TxRunner, events ports.EventPublisher, metrics ports.Metrics) *StockLedger {
	return &StockLedger{txRunner: txRunner, events: events, metrics: metrics}
}

// StockChange cambio de cantidad a registrar en el libro mayor.
type StockChange struct {
	ProductID   string
	WarehouseID string
	ChangeQty   int // con signo, distinto de cero
	Type        string
	RefType     string
	RefID       string
	Notes       string
	// ReleaseReserved unidades reservadas que se liberan en la misma actualización (entregas).
	ReleaseReserved int
}

// StockMovementInput entrada de IncreaseStock / DecreaseStock. RefType vacío se registra como ADJ.
type StockMovementInput struct {
	ProductID   string
	WarehouseID string
	Quantity    int
	RefType     string
	RefID       string
	Notes       string
}

// StockAudit resultado de VerifyStock.
type StockAudit struct {
	StockID   string
	Quantity  int
	LedgerSum int
	Drift     int // Quantity - LedgerSum; cero si el registro es consistente
}

// ApplyChangeInTx resuelve o crea la fila de stock (bloqueada), valida el cambio,
// agrega el asiento y actualiza la cantidad. Debe llamarse dentro de TxRunner.Run.
func (l *StockLedger) ApplyChangeInTx(ctx context.Context, repos repository.TxRepos, ch StockChange, now time.Time) (*entity.StockHistory, error) {
	if ch.ChangeQty == 0 {
		return nil, domain.ErrInvalidChange
	}
	if ch.ProductID == "" || ch.WarehouseID == "" || ch.ReleaseReserved < 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidHistoryType(ch.Type) || !entity.IsValidRefType(ch.RefType) {
		return nil, fmt.Errorf("tipo de movimiento %q/%q: %w", ch.Type, ch.RefType, domain.ErrInvalidInput)
	}
	if err := ensureProductAndWarehouse(ctx, repos, ch.ProductID, ch.WarehouseID); err != nil {
		return nil, err
	}

	// Bloquea la fila (SELECT FOR UPDATE); se crea con cantidad 0 en el primer movimiento.
	stock, err := repos.Stocks.GetOrCreateForUpdate(ctx, ch.ProductID, ch.WarehouseID)
	if err != nil {
		return nil, err
	}

	newQty := stock.Quantity + ch.ChangeQty
	if newQty < 0 {
		return nil, fmt.Errorf("%w: existencia %d, cambio %d", domain.ErrInsufficientStock, stock.Quantity, ch.ChangeQty)
	}
	newReserved := stock.ReservedQuantity - ch.ReleaseReserved
	if newReserved < 0 {
		return nil, fmt.Errorf("%w: reservado %d, a liberar %d", domain.ErrReservationShortfall, stock.ReservedQuantity, ch.ReleaseReserved)
	}
	// Lo reservado nunca puede quedar por encima de la existencia.
	if newQty < newReserved {
		return nil, fmt.Errorf("%w: existencia resultante %d, reservado %d", domain.ErrInsufficientStock, newQty, newReserved)
	}

	h := &entity.StockHistory{
		ID:               uuid.New().String(),
		InventoryStockID: stock.ID,
		ProductID:        stock.ProductID,
		WarehouseID:      stock.WarehouseID,
		ChangeQty:        ch.ChangeQty,
		Type:             ch.Type,
		RefType:          ch.RefType,
		RefID:            ch.RefID,
		Notes:            ch.Notes,
		CreatedAt:        now,
	}
	if err := repos.History.Create(ctx, h); err != nil {
		return nil, err
	}
	stock.Quantity = newQty
	stock.ReservedQuantity = newReserved
	stock.UpdatedAt = now
	if err := repos.Stocks.Update(ctx, stock); err != nil {
		return nil, err
	}
	return h, nil
}

// ReserveInTx bloquea todas las filas del producto (bodega ascendente) y reparte qty
// de forma voraz. No genera asientos: reservar no cambia la existencia física.
func (l *StockLedger) ReserveInTx(ctx context.Context, repos repository.TxRepos, productID string, qty int, now time.Time) ([]inventory.Allocation, error) {
	stocks, err := repos.Stocks.ListByProductForUpdate(ctx, productID)
	if err != nil {
		return nil, err
	}
	plan, err := inventory.PlanReservation(stocks, qty)
	if err != nil {
		return nil, fmt.Errorf("producto %s: %w", productID, err)
	}
	byID := make(map[string]*entity.InventoryStock, len(stocks))
	for _, s := range stocks {
		byID[s.ID] = s
	}
	for _, a := range plan {
		s := byID[a.StockID]
		s.ReservedQuantity += a.Quantity
		s.UpdatedAt = now
		if err := repos.Stocks.Update(ctx, s); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// IncreaseStock entrada (IN) de qty > 0 unidades.
func (l *StockLedger) IncreaseStock(ctx context.Context, in StockMovementInput) (h *entity.StockHistory, err error) {
	defer ports.Track(ctx, l.metrics, "increase_stock", &err)()
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return l.apply(ctx, StockChange{
		ProductID: in.ProductID, WarehouseID: in.WarehouseID, ChangeQty: in.Quantity,
		Type: entity.HistoryTypeIN, RefType: in.RefType, RefID: in.RefID, Notes: in.Notes,
	})
}

// DecreaseStock salida (OUT) de qty > 0 unidades; el asiento lleva -qty.
func (l *StockLedger) DecreaseStock(ctx context.Context, in StockMovementInput) (h *entity.StockHistory, err error) {
	defer ports.Track(ctx, l.metrics, "decrease_stock", &err)()
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	return l.apply(ctx, StockChange{
		ProductID: in.ProductID, WarehouseID: in.WarehouseID, ChangeQty: -in.Quantity,
		Type: entity.HistoryTypeOUT, RefType: in.RefType, RefID: in.RefID, Notes: in.Notes,
	})
}

// AdjustStock ajuste manual con signo (conteo físico, merma). Referencia ADJ sin id.
func (l *StockLedger) AdjustStock(ctx context.Context, productID, warehouseID string, deltaQty int, notes string) (h *entity.StockHistory, err error) {
	defer ports.Track(ctx, l.metrics, "adjust_stock", &err)()
	return l.apply(ctx, StockChange{
		ProductID: productID, WarehouseID: warehouseID, ChangeQty: deltaQty,
		Type: entity.HistoryTypeADJ, RefType: entity.RefTypeADJ, Notes: notes,
	})
}

func (l *StockLedger) apply(ctx context.Context, ch StockChange) (*entity.StockHistory, error) {
	if ch.RefType == "" {
		ch.RefType = entity.RefTypeADJ
	}
	var h *entity.StockHistory
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		h, err = l.ApplyChangeInTx(ctx, repos, ch, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	l.Notify(ctx, h)
	return h, nil
}

// Notify publica y mide los asientos ya confirmados.
func (l *StockLedger) Notify(ctx context.Context, entries ...*entity.StockHistory) {
	events := make([]ports.Event, 0, len(entries))
	for _, h := range entries {
		if l.metrics != nil {
			l.metrics.RecordStockChange(ctx, h.Type, h.ChangeQty)
		}
		events = append(events, ports.Event{
			Type:        ports.EventStockChanged,
			AggregateID: h.InventoryStockID,
			OccurredAt:  h.CreatedAt,
			Payload: ports.StockChangedPayload{
				HistoryID:   h.ID,
				StockID:     h.InventoryStockID,
				ProductID:   h.ProductID,
				WarehouseID: h.WarehouseID,
				ChangeQty:   h.ChangeQty,
				Type:        h.Type,
				RefType:     h.RefType,
				RefID:       h.RefID,
			},
		})
	}
	ports.PublishAll(ctx, l.events, events...)
}

// AvailableQuantity Σ(quantity - reserved) del producto en todas las bodegas.
func (l *StockLedger) AvailableQuantity(ctx context.Context, productID string) (int, error) {
	var total int
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		p, err := repos.Products.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
		}
		stocks, err := repos.Stocks.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		total = inventory.Available(stocks)
		return nil
	})
	return total, err
}

// AvailableQuantityBySKU resuelve el SKU del proveedor y delega en AvailableQuantity.
func (l *StockLedger) AvailableQuantityBySKU(ctx context.Context, sku string) (int, error) {
	var productID string
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		sp, err := repos.SupplierProducts.GetBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if sp == nil {
			return fmt.Errorf("sku %s: %w", sku, domain.ErrNotFound)
		}
		productID = sp.ProductID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return l.AvailableQuantity(ctx, productID)
}

// ListStocks registros de stock del producto, uno por bodega.
func (l *StockLedger) ListStocks(ctx context.Context, productID string) ([]*entity.InventoryStock, error) {
	var out []*entity.InventoryStock
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		var err error
		out, err = repos.Stocks.ListByProduct(ctx, productID)
		return err
	})
	return out, err
}

// History asientos del registro de stock, del más reciente al más antiguo.
func (l *StockLedger) History(ctx context.Context, stockID string, limit, offset int) ([]*entity.StockHistory, error) {
	var out []*entity.StockHistory
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Stocks.GetByID(ctx, stockID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("stock %s: %w", stockID, domain.ErrNotFound)
		}
		out, err = repos.History.ListByStock(ctx, stockID, limit, offset)
		return err
	})
	return out, err
}

// VerifyStock recalcula la suma del historial y la compara con la existencia registrada.
func (l *StockLedger) VerifyStock(ctx context.Context, stockID string) (*StockAudit, error) {
	var audit *StockAudit
	err := l.txRunner.Run(ctx, func(repos repository.TxRepos) error {
		s, err := repos.Stocks.GetByID(ctx, stockID)
		if err != nil {
			return err
		}
		if s == nil {
			return fmt.Errorf("stock %s: %w", stockID, domain.ErrNotFound)
		}
		sum, err := repos.History.SumByStock(ctx, stockID)
		if err != nil {
			return err
		}
		audit = &StockAudit{StockID: s.ID, Quantity: s.Quantity, LedgerSum: sum, Drift: s.Quantity - sum}
		return nil
	})
	return audit, err
}

func ensureProductAndWarehouse(ctx context.Context, repos repository.TxRepos, productID, warehouseID string) error {
	p, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	return EnsureWarehouse(ctx, repos, warehouseID)
}

// EnsureWarehouse devuelve ErrNotFound si la bodega no existe.
func EnsureWarehouse(ctx context.Context, repos repository.TxRepos, warehouseID string) error {
	wh, err := repos.Warehouses.GetByID(ctx, warehouseID)
	if err != nil {
		return err
	}
	if wh == nil {
		return fmt.Errorf("bodega %s: %w", warehouseID, domain.ErrNotFound)
	}
	return nil
}
