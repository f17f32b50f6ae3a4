package interfaces

import (
	"context"
	"time"

	"quiniela/domain/entities"
	"quiniela/events"
)

// EventFilter narrows event listings. Nil fields match everything.
type EventFilter struct {
	Date          *time.Time
	LotteryTypeID *int64
	State         *entities.EventState
}

// BetFilter narrows bet listings. Nil fields match everything.
type BetFilter struct {
	EventID    *int64
	CustomerID *int64
	State      *entities.BetState
}

// EventRepository defines data access for lottery events.
type EventRepository interface {
	// Create inserts a new PROGRAMMED event. Fails if the (type, date,
	// sequence) tuple already exists.
	Create(ctx context.Context, event *entities.LotteryEvent) error

	// GetByID retrieves an event, or nil when absent.
	GetByID(ctx context.Context, id int64) (*entities.LotteryEvent, error)

	// GetByIDForUpdate retrieves an event with a row lock for the duration
	// of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.LotteryEvent, error)

	// Update persists state, winning number and publication timestamp.
	Update(ctx context.Context, event *entities.LotteryEvent) error

	// List returns events matching the filter, newest date first.
	List(ctx context.Context, filter EventFilter) ([]*entities.LotteryEvent, error)

	// ListDueToOpen returns PROGRAMMED events on the given date whose open
	// time is at or before the given wall-clock time, locked for update.
	ListDueToOpen(ctx context.Context, date time.Time, at entities.TimeOfDay) ([]*entities.LotteryEvent, error)

	// ListDueToClose returns OPEN events on the given date whose close time
	// is at or before the given wall-clock time, locked for update.
	ListDueToClose(ctx context.Context, date time.Time, at entities.TimeOfDay) ([]*entities.LotteryEvent, error)
}

// BetRepository defines data access for bets.
type BetRepository interface {
	// Create inserts a new ISSUED bet and fills in its id and placement time.
	Create(ctx context.Context, bet *entities.Bet) error

	// GetByID retrieves a bet, or nil when absent.
	GetByID(ctx context.Context, id int64) (*entities.Bet, error)

	// GetByIDForUpdate retrieves a bet with a row lock.
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Bet, error)

	// GetByClaimToken retrieves a bet through its public claim token.
	GetByClaimToken(ctx context.Context, token string) (*entities.Bet, error)

	// Update persists the bet state.
	Update(ctx context.Context, bet *entities.Bet) error

	// List returns bets matching the filter, most recent first.
	List(ctx context.Context, filter BetFilter) ([]*entities.Bet, error)

	// MarkWinners flags every ISSUED bet on the event whose number matches
	// the winning number as WIN_PENDING, returning how many were flagged.
	// Runs as a single statement so the count reflects exactly the rows
	// committed with the event update.
	MarkWinners(ctx context.Context, eventID int64, winningNumber int) (int64, error)

	// ExpireOverdue transitions WIN_PENDING bets whose event published
	// results more than claimDays before now to EXPIRED, returning the ids
	// of the bets it expired. Already-expired rows are untouched.
	ExpireOverdue(ctx context.Context, now time.Time, claimDays int) ([]int64, error)
}

// PayoutRepository defines data access for payout records.
type PayoutRepository interface {
	// Create inserts the payout and fills in its id.
	Create(ctx context.Context, payout *entities.Payout) error

	// GetByBetID returns the payout for a bet, or nil when the bet has
	// never been paid.
	GetByBetID(ctx context.Context, betID int64) (*entities.Payout, error)
}

// LotteryTypeRepository defines data access for lottery types.
type LotteryTypeRepository interface {
	Create(ctx context.Context, lotteryType *entities.LotteryType) error
	GetByID(ctx context.Context, id int64) (*entities.LotteryType, error)
	ListActive(ctx context.Context) ([]*entities.LotteryType, error)
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entities.Customer) error
	GetByID(ctx context.Context, id int64) (*entities.Customer, error)
}

// UserRepository defines data access for operator accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	GetByID(ctx context.Context, id int64) (*entities.User, error)
}

// SettingsRepository is the key-value settings store. Get returns nil when
// the key is unset; callers apply defaults.
type SettingsRepository interface {
	Get(ctx context.Context, key string) (*string, error)
	Set(ctx context.Context, key, value string) error
}

// AuditPublisher accepts lifecycle audit events. Publication is
// fire-and-forget from the engine's perspective; implementations may buffer
// until the surrounding transaction commits.
type AuditPublisher interface {
	Publish(event events.Event) error
}
