package events_test

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
)

func TestNewNATSPublisher_RequiereConexion(t *testing.T) {
	_, err := events.NewNATSPublisher(nil, "inventory")
	assert.Error(t, err)
}

func TestSubject(t *testing.T) {
	pub, err := events.NewNATSPublisher(&nats.Conn{}, "")
	require.NoError(t, err)
	assert.Equal(t, "inventory.inventory.stock-changed", pub.Subject(ports.EventStockChanged))
	assert.Equal(t, "inventory.purchase-order.received", pub.Subject(ports.EventPurchaseOrderReceived))
}
