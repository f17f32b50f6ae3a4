package entities

import (
	"time"
)

// User represents a venue operator. Authentication lives outside this
// module; bets and payouts only reference the acting operator by id.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	FullName  string    `db:"full_name"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
}
