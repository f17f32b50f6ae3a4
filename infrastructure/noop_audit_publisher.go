package infrastructure

import (
	"quiniela/events"
)

// NoopAuditPublisher drops every event. Used when no NATS servers are
// configured, and in tests.
type NoopAuditPublisher struct{}

// NewNoopAuditPublisher creates a no-op audit publisher
func NewNoopAuditPublisher() *NoopAuditPublisher {
	return &NoopAuditPublisher{}
}

// Publish does nothing with the event
func (n *NoopAuditPublisher) Publish(event events.Event) error {
	return nil
}
