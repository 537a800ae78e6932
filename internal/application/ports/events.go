package ports

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Tipos de evento de dominio publicados tras el commit.
const (
	EventStockChanged           = "inventory.stock_changed"
	EventPurchaseOrderPlaced    = "purchase_order.placed"
	EventPurchaseOrderReceived  = "purchase_order.received"
	EventPurchaseOrderCancelled = "purchase_order.cancelled"
	EventSalesOrderPrepared     = "sales_order.prepared"
	EventSalesOrderDelivered    = "sales_order.delivered"
	EventSalesOrderCancelled    = "sales_order.cancelled"
)

// Event evento de dominio. Payload se serializa como JSON.
type Event struct {
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload,omitempty"`
}

// StockChangedPayload un asiento del libro mayor.
type StockChangedPayload struct {
	HistoryID   string `json:"history_id"`
	StockID     string `json:"stock_id"`
	ProductID   string `json:"product_id"`
	WarehouseID string `json:"warehouse_id"`
	ChangeQty   int    `json:"change_qty"`
	Type        string `json:"type"`
	RefType     string `json:"ref_type"`
	RefID       string `json:"ref_id,omitempty"`
}

// OrderPayload cambio de estado de una orden.
type OrderPayload struct {
	OrderID   string   `json:"order_id"`
	Status    string   `json:"status"`
	DetailIDs []string `json:"detail_ids,omitempty"`
}

// EventPublisher puerto de salida para eventos de dominio (NATS u otro broker).
type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}

// PublishAll publica los eventos en orden. Un fallo del broker no revierte la
// operación ya confirmada: se registra y se continúa.
func PublishAll(ctx context.Context, pub EventPublisher, events ...Event) {
	if pub == nil {
		return
	}
	for _, evt := range events {
		if err := pub.Publish(ctx, evt); err != nil {
			log.Warn().Err(err).
				Str("event", evt.Type).
				Str("aggregate_id", evt.AggregateID).
				Msg("no se pudo publicar el evento")
		}
	}
}
