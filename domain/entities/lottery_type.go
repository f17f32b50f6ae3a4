package entities

import (
	"github.com/shopspring/decimal"
)

// LotteryType represents a kind of drawing the venue runs, with its prize
// multiplier and how many events it schedules per day.
type LotteryType struct {
	ID           int64           `db:"id"`
	Name         string          `db:"name"`
	PayoutFactor decimal.Decimal `db:"payout_factor"` // Multiplier applied to the stake
	EventsPerDay int             `db:"events_per_day"`
	IsActive     bool            `db:"is_active"`
}
