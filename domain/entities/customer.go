package entities

import (
	"time"
)

// Customer represents a venue customer. BirthDate is optional; only its
// month and day are ever evaluated, for the birthday bonus.
type Customer struct {
	ID        int64      `db:"id"`
	FullName  string     `db:"full_name"`
	Phone     *string    `db:"phone"`
	Email     *string    `db:"email"`
	BirthDate *time.Time `db:"birth_date"`
	Address   *string    `db:"address"`
	IsActive  bool       `db:"is_active"`
	CreatedAt time.Time  `db:"created_at"`
}

// IsBirthdayOn reports whether the customer's birth month and day match the
// given calendar date. The bonus keys off the draw date, not the payment
// date.
func (c *Customer) IsBirthdayOn(date time.Time) bool {
	if c.BirthDate == nil {
		return false
	}
	return c.BirthDate.Month() == date.Month() && c.BirthDate.Day() == date.Day()
}
