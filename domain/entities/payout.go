package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Payout represents the single payment made against a winning bet. Created
// exactly once at payment time and never mutated.
type Payout struct {
	ID                   int64           `db:"id"`
	BetID                int64           `db:"bet_id"`
	CalculatedPrize      decimal.Decimal `db:"calculated_prize"`
	BirthdayBonusApplied bool            `db:"birthday_bonus_applied"`
	PaidAt               time.Time       `db:"paid_at"`
	PaidByUserID         int64           `db:"paid_by_user_id"`
	ReceiptNumber        string          `db:"receipt_number"`
}

// PrizeBreakdown is the full prize calculation for a winning bet. All four
// components are surfaced so callers can explain the total.
type PrizeBreakdown struct {
	BasePrize       decimal.Decimal
	BirthdayApplied bool
	BirthdayBonus   decimal.Decimal
	TotalPrize      decimal.Decimal
}

// ReceiptNumberFor derives the deterministic receipt number for a payment,
// from the paid date and the bet id.
func ReceiptNumberFor(paidAt time.Time, betID int64) string {
	return fmt.Sprintf("REC-%s-%d", paidAt.Format("20060102"), betID)
}
