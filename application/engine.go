package application

import (
	"context"
	"errors"
	"time"

	"quiniela/domain/entities"
	"quiniela/domain/interfaces"
	"quiniela/domain/services"
)

// Engine is the transactional facade over the domain services. Every public
// method runs in its own unit of work: commit on success, rollback on error,
// with buffered audit events flushed only after commit.
type Engine struct {
	uowFactory UnitOfWorkFactory
}

// NewEngine creates the application engine
func NewEngine(uowFactory UnitOfWorkFactory) *Engine {
	return &Engine{uowFactory: uowFactory}
}

// withTx runs fn inside a transaction, committing when fn succeeds.
func (e *Engine) withTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if err := fn(uow); err != nil {
		uow.Rollback()
		return err
	}

	return uow.Commit()
}

func lifecycleServiceFor(uow UnitOfWork) interfaces.LifecycleService {
	return services.NewLifecycleService(
		uow.EventRepository(),
		uow.BetRepository(),
		uow.LotteryTypeRepository(),
		services.NewSettingsService(uow.SettingsRepository()),
		uow.AuditPublisher(),
	)
}

func bettingServiceFor(uow UnitOfWork) interfaces.BettingService {
	return services.NewBettingService(
		uow.BetRepository(),
		uow.EventRepository(),
		uow.LotteryTypeRepository(),
		uow.CustomerRepository(),
		uow.PayoutRepository(),
		services.NewSettingsService(uow.SettingsRepository()),
		uow.AuditPublisher(),
	)
}

func payoutServiceFor(uow UnitOfWork) interfaces.PayoutService {
	return services.NewPayoutService(
		uow.PayoutRepository(),
		uow.BetRepository(),
		uow.EventRepository(),
		uow.LotteryTypeRepository(),
		uow.CustomerRepository(),
		services.NewSettingsService(uow.SettingsRepository()),
		uow.AuditPublisher(),
	)
}

// CreateEvent schedules a single event
func (e *Engine) CreateEvent(ctx context.Context, params interfaces.CreateEventParams) (*entities.LotteryEvent, error) {
	var event *entities.LotteryEvent
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		event, err = lifecycleServiceFor(uow).CreateEvent(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// GenerateDailyEvents schedules the day's events for every active type
func (e *Engine) GenerateDailyEvents(ctx context.Context, date time.Time) ([]*entities.LotteryEvent, error) {
	var created []*entities.LotteryEvent
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		created, err = lifecycleServiceFor(uow).GenerateDailyEvents(ctx, date)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// OpenEvent transitions an event to OPEN
func (e *Engine) OpenEvent(ctx context.Context, eventID, actorUserID int64) (*entities.LotteryEvent, error) {
	var event *entities.LotteryEvent
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		event, err = lifecycleServiceFor(uow).OpenEvent(ctx, eventID, actorUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// CloseEvent transitions an event to CLOSED
func (e *Engine) CloseEvent(ctx context.Context, eventID, actorUserID int64) (*entities.LotteryEvent, error) {
	var event *entities.LotteryEvent
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		event, err = lifecycleServiceFor(uow).CloseEvent(ctx, eventID, actorUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return event, nil
}

// PublishResults stamps the winning number and flags winners atomically
func (e *Engine) PublishResults(ctx context.Context, eventID int64, winningNumber int, actorUserID int64) (*interfaces.PublishResultsResult, error) {
	var result *interfaces.PublishResultsResult
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = lifecycleServiceFor(uow).PublishResults(ctx, eventID, winningNumber, actorUserID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// AdvanceDueEvents runs one open/close pass against the now snapshot
func (e *Engine) AdvanceDueEvents(ctx context.Context, now time.Time) (*interfaces.SweepResult, error) {
	var result *interfaces.SweepResult
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = lifecycleServiceFor(uow).AdvanceDueEvents(ctx, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ExpireOverdueBets forfeits bets past the claim window
func (e *Engine) ExpireOverdueBets(ctx context.Context, now time.Time) ([]int64, error) {
	var expired []int64
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		expired, err = lifecycleServiceFor(uow).ExpireOverdueBets(ctx, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

// PlaceBet registers a bet
func (e *Engine) PlaceBet(ctx context.Context, params interfaces.PlaceBetParams) (*entities.Bet, error) {
	var bet *entities.Bet
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		bet, err = bettingServiceFor(uow).PlaceBet(ctx, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bet, nil
}

// GetBetByClaimToken resolves a claim token to the full bet view
func (e *Engine) GetBetByClaimToken(ctx context.Context, token string) (*interfaces.BetResult, error) {
	var result *interfaces.BetResult
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		result, err = bettingServiceFor(uow).GetBetByClaimToken(ctx, token)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// VoidBet administratively voids a bet
func (e *Engine) VoidBet(ctx context.Context, betID, actorUserID int64, reason string) (*entities.Bet, error) {
	var bet *entities.Bet
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		bet, err = bettingServiceFor(uow).VoidBet(ctx, betID, actorUserID, reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bet, nil
}

// CalculatePayout quotes a prize without paying it
func (e *Engine) CalculatePayout(ctx context.Context, betID int64) (*interfaces.PayoutQuote, error) {
	var quote *interfaces.PayoutQuote
	err := e.withTx(ctx, func(uow UnitOfWork) error {
		var err error
		quote, err = payoutServiceFor(uow).CalculatePayout(ctx, betID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// ProcessPayout pays a winning bet. When the claim window has elapsed the
// service expires the bet as a side effect and reports ErrClaimExpired; that
// expiration must survive, so the transaction commits even though the call
// fails.
func (e *Engine) ProcessPayout(ctx context.Context, betID, payerUserID int64) (*entities.Payout, error) {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	payout, err := payoutServiceFor(uow).ProcessPayout(ctx, betID, payerUserID)
	if err != nil {
		if errors.Is(err, services.ErrClaimExpired) {
			if commitErr := uow.Commit(); commitErr != nil {
				uow.Rollback()
				return nil, commitErr
			}
			return nil, err
		}
		uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return payout, nil
}
