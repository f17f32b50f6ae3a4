package repository

import (
	"context"
	"fmt"

	"quiniela/database"
	"quiniela/domain/entities"
	"quiniela/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type lotteryTypeRepository struct {
	q Queryable
}

// NewLotteryTypeRepository creates a new lottery type repository
func NewLotteryTypeRepository(db *database.DB) interfaces.LotteryTypeRepository {
	return &lotteryTypeRepository{q: db.Pool}
}

// newLotteryTypeRepository creates a new lottery type repository bound to a transaction
func newLotteryTypeRepository(tx Queryable) interfaces.LotteryTypeRepository {
	return &lotteryTypeRepository{q: tx}
}

func (r *lotteryTypeRepository) Create(ctx context.Context, lotteryType *entities.LotteryType) error {
	query := `
		INSERT INTO lottery_types (name, payout_factor, events_per_day, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := r.q.QueryRow(ctx, query,
		lotteryType.Name,
		lotteryType.PayoutFactor,
		lotteryType.EventsPerDay,
		lotteryType.IsActive,
	).Scan(&lotteryType.ID)

	if err != nil {
		return fmt.Errorf("failed to create lottery type: %w", err)
	}

	return nil
}

func (r *lotteryTypeRepository) GetByID(ctx context.Context, id int64) (*entities.LotteryType, error) {
	query := `
		SELECT id, name, payout_factor, events_per_day, is_active
		FROM lottery_types
		WHERE id = $1`

	var lotteryType entities.LotteryType
	err := r.q.QueryRow(ctx, query, id).Scan(
		&lotteryType.ID,
		&lotteryType.Name,
		&lotteryType.PayoutFactor,
		&lotteryType.EventsPerDay,
		&lotteryType.IsActive,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery type: %w", err)
	}

	return &lotteryType, nil
}

func (r *lotteryTypeRepository) ListActive(ctx context.Context) ([]*entities.LotteryType, error) {
	query := `
		SELECT id, name, payout_factor, events_per_day, is_active
		FROM lottery_types
		WHERE is_active
		ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active lottery types: %w", err)
	}
	defer rows.Close()

	var result []*entities.LotteryType
	for rows.Next() {
		var lotteryType entities.LotteryType
		err := rows.Scan(
			&lotteryType.ID,
			&lotteryType.Name,
			&lotteryType.PayoutFactor,
			&lotteryType.EventsPerDay,
			&lotteryType.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery type: %w", err)
		}
		result = append(result, &lotteryType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lottery types: %w", err)
	}

	return result, nil
}
