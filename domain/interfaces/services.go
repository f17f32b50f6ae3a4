package interfaces

import (
	"context"
	"fmt"
	"time"

	"quiniela/domain/entities"

	"github.com/shopspring/decimal"
)

// CreateEventParams carries the fields for scheduling a single event.
type CreateEventParams struct {
	LotteryTypeID int64
	EventDate     time.Time
	EventNumber   int
	OpenTime      entities.TimeOfDay
	CloseTime     entities.TimeOfDay
}

// PlaceBetParams carries the fields for registering a bet.
type PlaceBetParams struct {
	EventID      int64
	CustomerID   int64
	UserID       int64
	NumberPlayed int
	Amount       decimal.Decimal
}

// PublishResultsResult reports the outcome of publishing a winning number.
type PublishResultsResult struct {
	Event       *entities.LotteryEvent
	WinnerCount int64
}

// Summary renders the human-readable outcome, distinguishing a deserted
// draw from one with winners.
func (r *PublishResultsResult) Summary() string {
	if r.WinnerCount == 0 {
		return "deserted draw"
	}
	return fmt.Sprintf("%d winner(s)", r.WinnerCount)
}

// SweepResult reports one auto-advance pass.
type SweepResult struct {
	Opened []int64
	Closed []int64
}

// BetResult is the public view of a bet fetched by claim token, with enough
// context to render a voucher or result slip.
type BetResult struct {
	Bet         *entities.Bet
	Event       *entities.LotteryEvent
	LotteryType *entities.LotteryType
	Customer    *entities.Customer
	IsWinner    bool
	Payout      *entities.Payout // nil unless paid
}

// PayoutQuote is a read-only prize breakdown for a winning bet.
type PayoutQuote struct {
	Bet       *entities.Bet
	Breakdown entities.PrizeBreakdown
}

// LifecycleService owns every legal transition of lottery events, both
// operator-driven and scheduler-driven.
type LifecycleService interface {
	// CreateEvent schedules a single PROGRAMMED event.
	CreateEvent(ctx context.Context, params CreateEventParams) (*entities.LotteryEvent, error)

	// GenerateDailyEvents schedules one event per configured draw count for
	// every active lottery type on the given date.
	GenerateDailyEvents(ctx context.Context, date time.Time) ([]*entities.LotteryEvent, error)

	// OpenEvent transitions PROGRAMMED -> OPEN.
	OpenEvent(ctx context.Context, eventID, actorUserID int64) (*entities.LotteryEvent, error)

	// CloseEvent transitions OPEN -> CLOSED.
	CloseEvent(ctx context.Context, eventID, actorUserID int64) (*entities.LotteryEvent, error)

	// PublishResults transitions CLOSED -> RESULTS_PUBLISHED, stamping the
	// winning number and flagging matching ISSUED bets as WIN_PENDING in
	// the same transaction. A zero winner count is a valid outcome.
	PublishResults(ctx context.Context, eventID int64, winningNumber int, actorUserID int64) (*PublishResultsResult, error)

	// AdvanceDueEvents opens and closes today's events whose scheduled
	// times have passed, relative to the single now snapshot. A failure on
	// one event does not block the others.
	AdvanceDueEvents(ctx context.Context, now time.Time) (*SweepResult, error)

	// ExpireOverdueBets forfeits WIN_PENDING bets past the claim window.
	// Idempotent; re-running over expired rows is a no-op.
	ExpireOverdueBets(ctx context.Context, now time.Time) ([]int64, error)
}

// BettingService owns bet placement and public lookup.
type BettingService interface {
	// PlaceBet validates every precondition and creates an ISSUED bet, or
	// rejects the whole operation with nothing persisted.
	PlaceBet(ctx context.Context, params PlaceBetParams) (*entities.Bet, error)

	// GetBetByClaimToken resolves a claim token to the full bet result.
	GetBetByClaimToken(ctx context.Context, token string) (*BetResult, error)

	// VoidBet administratively voids a bet that is not yet terminal.
	VoidBet(ctx context.Context, betID, actorUserID int64, reason string) (*entities.Bet, error)
}

// PayoutService owns prize calculation and payment.
type PayoutService interface {
	// CalculatePayout returns the prize breakdown for a winning bet without
	// paying it.
	CalculatePayout(ctx context.Context, betID int64) (*PayoutQuote, error)

	// ProcessPayout pays a WIN_PENDING bet inside the claim window. When
	// the window has elapsed the bet is expired as a persisted side effect
	// and the call fails with ErrClaimExpired.
	ProcessPayout(ctx context.Context, betID, payerUserID int64) (*entities.Payout, error)
}

// SettingsService resolves named configuration values with their defaults.
type SettingsService interface {
	MinBetAmount(ctx context.Context) (decimal.Decimal, error)
	ClaimWindowDays(ctx context.Context) (int, error)
	BirthdayBonusPercent(ctx context.Context) (decimal.Decimal, error)
}
