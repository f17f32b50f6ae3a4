package repository

import (
	"context"
	"fmt"

	"quiniela/database"
	"quiniela/domain/entities"
	"quiniela/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

type customerRepository struct {
	q Queryable
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *database.DB) interfaces.CustomerRepository {
	return &customerRepository{q: db.Pool}
}

// newCustomerRepository creates a new customer repository bound to a transaction
func newCustomerRepository(tx Queryable) interfaces.CustomerRepository {
	return &customerRepository{q: tx}
}

func (r *customerRepository) Create(ctx context.Context, customer *entities.Customer) error {
	query := `
		INSERT INTO customers (full_name, phone, email, birth_date, address, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.q.QueryRow(ctx, query,
		customer.FullName,
		customer.Phone,
		customer.Email,
		customer.BirthDate,
		customer.Address,
		customer.IsActive,
	).Scan(&customer.ID, &customer.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*entities.Customer, error) {
	query := `
		SELECT id, full_name, phone, email, birth_date, address, is_active, created_at
		FROM customers
		WHERE id = $1`

	var customer entities.Customer
	err := r.q.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.FullName,
		&customer.Phone,
		&customer.Email,
		&customer.BirthDate,
		&customer.Address,
		&customer.IsActive,
		&customer.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	return &customer, nil
}
