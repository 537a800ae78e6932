// Package events publica los eventos de dominio confirmados (NATS core).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/inventario-ledger/internal/application/ports"
)

var _ ports.EventPublisher = (*NATSPublisher)(nil)

// NATSPublisher publica cada evento como JSON en el subject {prefijo}.{tipo}.
type NATSPublisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

// Connect abre la conexión con reconexión automática.
func Connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("conectar a nats %s: %w", url, err)
	}
	return conn, nil
}

// NewNATSPublisher construye el publicador sobre una conexión abierta.
func NewNATSPublisher(conn *nats.Conn, subjectPrefix string) (*NATSPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("se requiere una conexión NATS")
	}
	if subjectPrefix == "" {
		subjectPrefix = "inventory"
	}
	return &NATSPublisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

// Subject nombre del subject para un tipo de evento.
func (p *NATSPublisher) Subject(eventType string) string {
	return p.subjectPrefix + "." + strings.ReplaceAll(eventType, "_", "-")
}

// Publish implementa ports.EventPublisher.
func (p *NATSPublisher) Publish(ctx context.Context, evt ports.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", evt.Type, err)
	}
	msg := nats.NewMsg(p.Subject(evt.Type))
	msg.Data = data
	msg.Header.Set("Event-Type", evt.Type)
	msg.Header.Set("Aggregate-Id", evt.AggregateID)
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publicar %s: %w", evt.Type, err)
	}
	return nil
}

// Close vacía el buffer pendiente y cierra la conexión.
func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
