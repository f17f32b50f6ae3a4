package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"quiniela/domain/interfaces"
	"quiniela/events"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// auditRecord is the wire form of one audit entry.
type auditRecord struct {
	Action     string       `json:"action"`
	Entity     string       `json:"entity"`
	EntityID   int64        `json:"entity_id"`
	ActorID    int64        `json:"actor_id"`
	OccurredAt time.Time    `json:"occurred_at"`
	Detail     events.Event `json:"detail"`
}

// NATSAuditPublisher publishes audit records to NATS subjects named
// audit.<action>. Delivery is fire-and-forget; the lifecycle engine never
// fails an operation over a lost audit record.
type NATSAuditPublisher struct {
	nc *nats.Conn
}

// NewNATSAuditPublisher creates an audit publisher over an established
// NATS connection.
func NewNATSAuditPublisher(nc *nats.Conn) interfaces.AuditPublisher {
	return &NATSAuditPublisher{nc: nc}
}

// ConnectNATS dials the NATS servers with the reconnect behavior the audit
// sink needs.
func ConnectNATS(servers string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("quiniela"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.WithError(err).Error("NATS disconnected with error")
			} else {
				log.Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected")
		}),
	}

	nc, err := nats.Connect(servers, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.WithField("servers", servers).Info("Connected to NATS")
	return nc, nil
}

// Publish serializes the event and sends it on its audit subject
func (p *NATSAuditPublisher) Publish(event events.Event) error {
	entity, entityID := event.Entity()
	record := auditRecord{
		Action:     string(event.Type()),
		Entity:     entity,
		EntityID:   entityID,
		ActorID:    event.ActorID(),
		OccurredAt: time.Now().UTC(),
		Detail:     event,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	subject := fmt.Sprintf("audit.%s", event.Type())
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish audit record to %s: %w", subject, err)
	}

	return nil
}
