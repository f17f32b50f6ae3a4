package repository

import (
	"context"
	"fmt"

	"quiniela/application"
	"quiniela/database"
	"quiniela/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db             *database.DB
	tx             pgx.Tx
	ctx            context.Context
	auditPublisher application.TransactionalAuditPublisher

	eventRepo    interfaces.EventRepository
	betRepo      interfaces.BetRepository
	payoutRepo   interfaces.PayoutRepository
	typeRepo     interfaces.LotteryTypeRepository
	customerRepo interfaces.CustomerRepository
	userRepo     interfaces.UserRepository
	settingsRepo interfaces.SettingsRepository
}

type unitOfWorkFactory struct {
	db               *database.DB
	publisherFactory application.AuditPublisherFactory
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, publisherFactory application.AuditPublisherFactory) application.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:               db,
		publisherFactory: publisherFactory,
	}
}

// Create creates a new UnitOfWork with its own transactional audit buffer
func (f *unitOfWorkFactory) Create() application.UnitOfWork {
	return &unitOfWork{
		db:             f.db,
		auditPublisher: f.publisherFactory.Create(),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories bound to the transaction
	u.eventRepo = newEventRepository(tx)
	u.betRepo = newBetRepository(tx)
	u.payoutRepo = newPayoutRepository(tx)
	u.typeRepo = newLotteryTypeRepository(tx)
	u.customerRepo = newCustomerRepository(tx)
	u.userRepo = newUserRepository(tx)
	u.settingsRepo = newSettingsRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	err := u.tx.Commit(u.ctx)
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	// Flush pending audit events after successful commit
	if u.auditPublisher != nil {
		u.auditPublisher.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	// Discard pending audit events on rollback
	if u.auditPublisher != nil {
		u.auditPublisher.Discard()
	}

	return nil
}

func (u *unitOfWork) EventRepository() interfaces.EventRepository {
	return u.eventRepo
}

func (u *unitOfWork) BetRepository() interfaces.BetRepository {
	return u.betRepo
}

func (u *unitOfWork) PayoutRepository() interfaces.PayoutRepository {
	return u.payoutRepo
}

func (u *unitOfWork) LotteryTypeRepository() interfaces.LotteryTypeRepository {
	return u.typeRepo
}

func (u *unitOfWork) CustomerRepository() interfaces.CustomerRepository {
	return u.customerRepo
}

func (u *unitOfWork) UserRepository() interfaces.UserRepository {
	return u.userRepo
}

func (u *unitOfWork) SettingsRepository() interfaces.SettingsRepository {
	return u.settingsRepo
}

// AuditPublisher returns the transaction-scoped audit publisher
func (u *unitOfWork) AuditPublisher() interfaces.AuditPublisher {
	return u.auditPublisher
}
