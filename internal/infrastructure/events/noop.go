package events

import (
	"context"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

var _ ports.EventPublisher = NoopPublisher{}

// NoopPublisher descarta los eventos (sin NATS_URL y en pruebas).
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ports.Event) error { return nil }
