package repository

import (
	"context"
	"fmt"

	"quiniela/database"
	"quiniela/domain/entities"
	"quiniela/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type payoutRepository struct {
	q Queryable
}

// NewPayoutRepository creates a new payout repository
func NewPayoutRepository(db *database.DB) interfaces.PayoutRepository {
	return &payoutRepository{q: db.Pool}
}

// newPayoutRepository creates a new payout repository bound to a transaction
func newPayoutRepository(tx Queryable) interfaces.PayoutRepository {
	return &payoutRepository{q: tx}
}

func (r *payoutRepository) Create(ctx context.Context, payout *entities.Payout) error {
	query := `
		INSERT INTO payouts (bet_id, calculated_prize, birthday_bonus_applied, paid_at, paid_by_user_id, receipt_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := r.q.QueryRow(ctx, query,
		payout.BetID,
		payout.CalculatedPrize,
		payout.BirthdayBonusApplied,
		payout.PaidAt,
		payout.PaidByUserID,
		payout.ReceiptNumber,
	).Scan(&payout.ID)

	if err != nil {
		return fmt.Errorf("failed to create payout: %w", err)
	}

	return nil
}

func (r *payoutRepository) GetByBetID(ctx context.Context, betID int64) (*entities.Payout, error) {
	query := `
		SELECT id, bet_id, calculated_prize, birthday_bonus_applied, paid_at, paid_by_user_id, receipt_number
		FROM payouts
		WHERE bet_id = $1`

	var payout entities.Payout
	err := r.q.QueryRow(ctx, query, betID).Scan(
		&payout.ID,
		&payout.BetID,
		&payout.CalculatedPrize,
		&payout.BirthdayBonusApplied,
		&payout.PaidAt,
		&payout.PaidByUserID,
		&payout.ReceiptNumber,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}

	return &payout, nil
}
