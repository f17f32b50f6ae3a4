package services

import (
	"errors"
	"fmt"
)

// Recoverable failure conditions surfaced to callers. None of these is
// process-fatal; the caller decides whether to surface, log or retry.
var (
	ErrNotFound            = errors.New("not found")
	ErrOutOfRange          = errors.New("number must be between 00 and 99")
	ErrAlreadyPaid         = errors.New("bet already paid")
	ErrNotAWinner          = errors.New("bet is not a winner")
	ErrClaimExpired        = errors.New("prize claim window expired")
	ErrBelowMinimumStake   = errors.New("stake below minimum bet amount")
	ErrEventNotOpen        = errors.New("event is not open for betting")
	ErrInactiveLotteryType = errors.New("lottery type is not active")
	ErrResultsNotPublished = errors.New("results not published")
)

// InvalidTransitionError reports an illegal state-machine move, naming the
// state the entity is in and the state the operation requires.
type InvalidTransitionError struct {
	Entity   string
	ID       int64
	Current  string
	Required string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for %s %d: state is %s, requires %s",
		e.Entity, e.ID, e.Current, e.Required)
}

// IsInvalidTransition reports whether err is an InvalidTransitionError.
func IsInvalidTransition(err error) bool {
	var ite *InvalidTransitionError
	return errors.As(err, &ite)
}
