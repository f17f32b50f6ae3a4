package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// BetState represents the lifecycle state of a bet. Persisted as strings.
type BetState string

const (
	BetStateIssued     BetState = "ISSUED"
	BetStateWinPending BetState = "WIN_PENDING"
	BetStatePaid       BetState = "PAID"
	BetStateExpired    BetState = "EXPIRED"
	// BetStateVoid is reachable only through manual correction, never by the
	// automatic flows.
	BetStateVoid BetState = "VOID"
)

// betTransitions lists the legal successors of each bet state. PAID, EXPIRED
// and VOID are terminal.
var betTransitions = map[BetState][]BetState{
	BetStateIssued:     {BetStateWinPending, BetStateVoid},
	BetStateWinPending: {BetStatePaid, BetStateExpired, BetStateVoid},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s BetState) CanTransitionTo(next BetState) bool {
	for _, allowed := range betTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true when no further transition can succeed.
func (s BetState) IsTerminal() bool {
	return len(betTransitions[s]) == 0
}

// Bet represents a single wager on a two-digit number against one event.
type Bet struct {
	ID           int64           `db:"id"`
	EventID      int64           `db:"event_id"`
	CustomerID   int64           `db:"customer_id"`
	UserID       int64           `db:"user_id"` // Operator who registered the bet
	NumberPlayed int             `db:"number_played"`
	Amount       decimal.Decimal `db:"amount"`
	PlacedAt     time.Time       `db:"placed_at"`
	ClaimToken   string          `db:"claim_token"` // Opaque token for unauthenticated lookup
	State        BetState        `db:"state"`
}

// IsWinner reports whether this bet matches the event's published winning
// number. False while results are unpublished.
func (b *Bet) IsWinner(event *LotteryEvent) bool {
	return event.WinningNumber != nil && *event.WinningNumber == b.NumberPlayed
}

// IsNumberInRange validates a chosen or winning two-digit number.
func IsNumberInRange(n int) bool {
	return n >= 0 && n <= 99
}
