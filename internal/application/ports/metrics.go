package ports

import (
	"context"
	"time"
)

// Metrics puerto de métricas de negocio (OpenTelemetry en infraestructura).
type Metrics interface {
	// RecordOperation cuenta una operación y su duración; err != nil la marca como fallida.
	RecordOperation(ctx context.Context, operation string, err error, elapsed time.Duration)
	// RecordStockChange registra unidades movidas por tipo de asiento (IN, OUT, ADJ).
	RecordStockChange(ctx context.Context, historyType string, changeQty int)
}

// Track devuelve una función para diferir: mide desde ahora hasta su ejecución.
//
//	defer ports.Track(ctx, m, "receive_stock", &err)()
func Track(ctx context.Context, m Metrics, operation string, errp *error) func() {
	start := time.Now()
	return func() {
		if m == nil {
			return
		}
		var err error
		if errp != nil {
			err = *errp
		}
		m.RecordOperation(ctx, operation, err, time.Since(start))
	}
}
