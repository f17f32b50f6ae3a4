package infrastructure

import (
	"context"

	"quiniela/application"
	"quiniela/domain/interfaces"
	"quiniela/events"

	log "github.com/sirupsen/logrus"
)

// TransactionalAuditPublisher holds audit events until flush so records only
// reach the sink for transactions that actually committed.
type TransactionalAuditPublisher struct {
	realPublisher interfaces.AuditPublisher
	pending       []events.Event
}

// NewTransactionalAuditPublisher creates a transactional buffer in front of
// the real publisher.
func NewTransactionalAuditPublisher(realPublisher interfaces.AuditPublisher) application.TransactionalAuditPublisher {
	return &TransactionalAuditPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
	}
}

// Publish stores the event in the pending queue without delivering it
func (p *TransactionalAuditPublisher) Publish(event events.Event) error {
	p.pending = append(p.pending, event)
	return nil
}

// Flush delivers all pending events. Called after a successful commit.
func (p *TransactionalAuditPublisher) Flush(ctx context.Context) error {
	for _, event := range p.pending {
		if err := p.realPublisher.Publish(event); err != nil {
			// Log and continue so one bad record doesn't block the rest
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish audit event during flush")
		}
	}

	p.pending = p.pending[:0]
	return nil
}

// Discard drops all pending events. Called on rollback.
func (p *TransactionalAuditPublisher) Discard() {
	if len(p.pending) > 0 {
		log.WithField("discardedCount", len(p.pending)).Debug("Discarding pending audit events")
	}
	p.pending = p.pending[:0]
}

// auditPublisherFactory wraps a base publisher in a fresh transactional
// buffer per unit of work.
type auditPublisherFactory struct {
	base interfaces.AuditPublisher
}

// NewAuditPublisherFactory creates a factory producing transaction-scoped
// buffers over the given base publisher.
func NewAuditPublisherFactory(base interfaces.AuditPublisher) application.AuditPublisherFactory {
	return &auditPublisherFactory{base: base}
}

func (f *auditPublisherFactory) Create() application.TransactionalAuditPublisher {
	return NewTransactionalAuditPublisher(f.base)
}
