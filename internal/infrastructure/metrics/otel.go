// Package metrics implementa ports.Metrics con OpenTelemetry y expone los
// instrumentos en formato Prometheus.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

var _ ports.Metrics = (*OTelMetrics)(nil)

const meterName = "inventario-ledger"

// Setup registra un MeterProvider global con exportador Prometheus (registro por defecto,
// servido por promhttp en /metrics). El llamador debe invocar Shutdown al terminar.
func Setup(ctx context.Context, serviceName string) (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("crear exportador prometheus: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(attribute.String("service.name", serviceName)))
	if err != nil {
		return nil, fmt.Errorf("crear resource: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)
	return provider, nil
}

// OTelMetrics instrumentos de negocio del libro mayor y las órdenes.
type OTelMetrics struct {
	operations  metric.Int64Counter
	failures    metric.Int64Counter
	duration    metric.Float64Histogram
	unitsMoved  metric.Int64Counter
	historyRows metric.Int64Counter
}

// NewOTelMetrics crea los instrumentos sobre el MeterProvider global.
func NewOTelMetrics() (*OTelMetrics, error) {
	meter := otel.Meter(meterName)

	operations, err := meter.Int64Counter("ledger_operations_total",
		metric.WithDescription("Operaciones de inventario y órdenes ejecutadas"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("ledger_operation_errors_total",
		metric.WithDescription("Operaciones revertidas por error"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("ledger_operation_duration_seconds",
		metric.WithDescription("Duración de la operación incluida la transacción"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	unitsMoved, err := meter.Int64Counter("stock_units_moved_total",
		metric.WithDescription("Unidades movidas por tipo de asiento (valor absoluto)"))
	if err != nil {
		return nil, err
	}
	historyRows, err := meter.Int64Counter("stock_history_entries_total",
		metric.WithDescription("Asientos agregados al libro mayor"))
	if err != nil {
		return nil, err
	}
	return &OTelMetrics{
		operations:  operations,
		failures:    failures,
		duration:    duration,
		unitsMoved:  unitsMoved,
		historyRows: historyRows,
	}, nil
}

// RecordOperation implementa ports.Metrics.
func (m *OTelMetrics) RecordOperation(ctx context.Context, operation string, err error, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("operation", operation))
	m.operations.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	if err != nil {
		m.failures.Add(ctx, 1, attrs)
	}
}

// RecordStockChange implementa ports.Metrics.
func (m *OTelMetrics) RecordStockChange(ctx context.Context, historyType string, changeQty int) {
	if changeQty < 0 {
		changeQty = -changeQty
	}
	attrs := metric.WithAttributes(attribute.String("type", historyType))
	m.unitsMoved.Add(ctx, int64(changeQty), attrs)
	m.historyRows.Add(ctx, 1, attrs)
}
