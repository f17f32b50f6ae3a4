package application

import (
	"context"

	"quiniela/domain/interfaces"
)

// UnitOfWork manages database transactions and provides access to
// transaction-scoped repositories. Audit events published through the
// unit of work's publisher are buffered and only flushed on commit.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	EventRepository() interfaces.EventRepository
	BetRepository() interfaces.BetRepository
	PayoutRepository() interfaces.PayoutRepository
	LotteryTypeRepository() interfaces.LotteryTypeRepository
	CustomerRepository() interfaces.CustomerRepository
	UserRepository() interfaces.UserRepository
	SettingsRepository() interfaces.SettingsRepository
	AuditPublisher() interfaces.AuditPublisher
}

// UnitOfWorkFactory creates UnitOfWork instances.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// TransactionalAuditPublisher buffers audit events during a transaction.
// Flush delivers the buffered events after a successful commit; Discard
// drops them on rollback.
type TransactionalAuditPublisher interface {
	interfaces.AuditPublisher
	Flush(ctx context.Context) error
	Discard()
}

// AuditPublisherFactory creates a fresh transactional buffer per unit of work.
type AuditPublisherFactory interface {
	Create() TransactionalAuditPublisher
}
