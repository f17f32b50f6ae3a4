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

type eventRepository struct {
	q Queryable
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *database.DB) interfaces.EventRepository {
	return &eventRepository{q: db.Pool}
}

// newEventRepository creates a new event repository bound to a transaction
func newEventRepository(tx Queryable) interfaces.EventRepository {
	return &eventRepository{q: tx}
}

const eventColumns = `id, lottery_type_id, event_date, event_number, open_time, close_time, state, winning_number, results_published_at, created_at`

func scanEvent(row pgx.Row) (*entities.LotteryEvent, error) {
	var event entities.LotteryEvent
	err := row.Scan(
		&event.ID,
		&event.LotteryTypeID,
		&event.EventDate,
		&event.EventNumber,
		&event.OpenTime,
		&event.CloseTime,
		&event.State,
		&event.WinningNumber,
		&event.ResultsPublishedAt,
		&event.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *entities.LotteryEvent) error {
	query := `
		INSERT INTO lottery_events (lottery_type_id, event_date, event_number, open_time, close_time, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		event.LotteryTypeID,
		event.EventDate,
		event.EventNumber,
		event.OpenTime,
		event.CloseTime,
		event.State,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create lottery event: %w", err)
	}

	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*entities.LotteryEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM lottery_events
		WHERE id = $1`

	event, err := scanEvent(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery event: %w", err)
	}

	return event, nil
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.LotteryEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM lottery_events
		WHERE id = $1
		FOR UPDATE`

	event, err := scanEvent(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery event for update: %w", err)
	}

	return event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *entities.LotteryEvent) error {
	query := `
		UPDATE lottery_events
		SET state = $2, winning_number = $3, results_published_at = $4
		WHERE id = $1`

	tag, err := r.q.Exec(ctx, query,
		event.ID,
		event.State,
		event.WinningNumber,
		event.ResultsPublishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update lottery event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("lottery event %d not found", event.ID)
	}

	return nil
}

func (r *eventRepository) List(ctx context.Context, filter interfaces.EventFilter) ([]*entities.LotteryEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM lottery_events`

	var conditions []string
	var args []any
	if filter.Date != nil {
		args = append(args, *filter.Date)
		conditions = append(conditions, fmt.Sprintf("event_date = $%d", len(args)))
	}
	if filter.LotteryTypeID != nil {
		args = append(args, *filter.LotteryTypeID)
		conditions = append(conditions, fmt.Sprintf("lottery_type_id = $%d", len(args)))
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
	query += "\n\t\tORDER BY event_date DESC, lottery_type_id, event_number"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list lottery events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func (r *eventRepository) ListDueToOpen(ctx context.Context, date time.Time, at entities.TimeOfDay) ([]*entities.LotteryEvent, error) {
	return r.listDue(ctx, date, at, entities.EventStateProgrammed, "open_time")
}

func (r *eventRepository) ListDueToClose(ctx context.Context, date time.Time, at entities.TimeOfDay) ([]*entities.LotteryEvent, error) {
	return r.listDue(ctx, date, at, entities.EventStateOpen, "close_time")
}

// listDue fetches same-day events of one state whose open or close time has
// arrived, locking the rows so concurrent sweeps cannot double-advance them.
func (r *eventRepository) listDue(ctx context.Context, date time.Time, at entities.TimeOfDay, state entities.EventState, timeColumn string) ([]*entities.LotteryEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM lottery_events
		WHERE event_date = $1 AND state = $2 AND ` + timeColumn + ` <= $3
		ORDER BY id
		FOR UPDATE`

	rows, err := r.q.Query(ctx, query, date, state, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list due lottery events: %w", err)
	}
	defer rows.Close()

	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]*entities.LotteryEvent, error) {
	var result []*entities.LotteryEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery event: %w", err)
		}
		result = append(result, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lottery events: %w", err)
	}
	return result, nil
}
