package repository

import (
	"context"
	"fmt"
	"time"

	"quiniela/database"
	"quiniela/domain/entities"
	"quiniela/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type betRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository
func NewBetRepository(db *database.DB) interfaces.BetRepository {
	return &betRepository{q: db.Pool}
}

// newBetRepository creates a new bet repository bound to a transaction
func newBetRepository(tx Queryable) interfaces.BetRepository {
	return &betRepository{q: tx}
}

const betColumns = `id, event_id, customer_id, user_id, number_played, amount, placed_at, claim_token, state`

func scanBet(row pgx.Row) (*entities.Bet, error) {
	var bet entities.Bet
	err := row.Scan(
		&bet.ID,
		&bet.EventID,
		&bet.CustomerID,
		&bet.UserID,
		&bet.NumberPlayed,
		&bet.Amount,
		&bet.PlacedAt,
		&bet.ClaimToken,
		&bet.State,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}

func (r *betRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (event_id, customer_id, user_id, number_played, amount, claim_token, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, placed_at`

	err := r.q.QueryRow(ctx, query,
		bet.EventID,
		bet.CustomerID,
		bet.UserID,
		bet.NumberPlayed,
		bet.Amount,
		bet.ClaimToken,
		bet.State,
	).Scan(&bet.ID, &bet.PlacedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

func (r *betRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE id = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

func (r *betRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE id = $1
		FOR UPDATE`

	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet for update: %w", err)
	}

	return bet, nil
}

// GetByClaimToken compares the token as text: it arrives from an
// unauthenticated caller, and a malformed value must read as no match, not
// a UUID encoding failure.
func (r *betRepository) GetByClaimToken(ctx context.Context, token string) (*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE claim_token::text = $1`

	bet, err := scanBet(r.q.QueryRow(ctx, query, token))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet by claim token: %w", err)
	}

	return bet, nil
}

func (r *betRepository) Update(ctx context.Context, bet *entities.Bet) error {
	query := `
		UPDATE bets
		SET state = $2
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query, bet.ID, bet.State)
	if err != nil {
		return fmt.Errorf("failed to update bet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("bet %d not found", bet.ID)
	}

	return nil
}

func (r *betRepository) List(ctx context.Context, filter interfaces.BetFilter) ([]*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets`

	var conditions []string
	var args []any
	if filter.EventID != nil {
		args = append(args, *filter.EventID)
		conditions = append(conditions, fmt.Sprintf("event_id = $%d", len(args)))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if filter.State != nil {
		args = append(args, *filter.State)
		conditions = append(conditions, fmt.Sprintf("state = $%d", len(args)))
	}
	for i, cond := range conditions {
		if i == 0 {
			query += "\n\t\tWHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += "\n\t\tORDER BY placed_at DESC, id DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	defer rows.Close()

	var result []*entities.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		result = append(result, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bets: %w", err)
	}

	return result, nil
}

// MarkWinners runs as one UPDATE so the winner count is exact for the rows
// flagged in this transaction.
func (r *betRepository) MarkWinners(ctx context.Context, eventID int64, winningNumber int) (int64, error) {
	query := `
		UPDATE bets
		SET state = $1
		WHERE event_id = $2 AND number_played = $3 AND state = $4`

	tag, err := r.q.Exec(ctx, query,
		entities.BetStateWinPending,
		eventID,
		winningNumber,
		entities.BetStateIssued,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark winning bets: %w", err)
	}

	return tag.RowsAffected(), nil
}

// ExpireOverdue only matches WIN_PENDING rows, so rerunning the sweep over
// an already-swept window is a no-op.
func (r *betRepository) ExpireOverdue(ctx context.Context, now time.Time, claimDays int) ([]int64, error) {
	query := `
		UPDATE bets b
		SET state = $1
		FROM lottery_events e
		WHERE b.event_id = e.id
		  AND b.state = $2
		  AND e.results_published_at IS NOT NULL
		  AND e.results_published_at + make_interval(days => $3) < $4
		RETURNING b.id`

	rows, err := r.q.Query(ctx, query,
		entities.BetStateExpired,
		entities.BetStateWinPending,
		claimDays,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to expire overdue bets: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan expired bet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expired bets: %w", err)
	}

	return ids, nil
}
