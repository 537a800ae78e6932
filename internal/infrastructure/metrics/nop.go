package metrics

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

var _ ports.Metrics = Nop{}

// Nop descarta las métricas (METRICS_ENABLED=false y pruebas).
type Nop struct{}

func (Nop) RecordOperation(context.Context, string, error, time.Duration) {}

func (Nop) RecordStockChange(context.Context, string, int) {}
