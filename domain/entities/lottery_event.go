package entities

import (
	"time"
)

// EventState represents the lifecycle state of a lottery event.
// States persist as strings so historical rows stay readable if the
// enum grows.
type EventState string

const (
	EventStateProgrammed       EventState = "PROGRAMMED"
	EventStateOpen             EventState = "OPEN"
	EventStateClosed           EventState = "CLOSED"
	EventStateResultsPublished EventState = "RESULTS_PUBLISHED"
)

// eventStateOrder encodes the linear PROGRAMMED -> OPEN -> CLOSED ->
// RESULTS_PUBLISHED progression. No state is ever revisited.
var eventStateOrder = map[EventState]int{
	EventStateProgrammed:       0,
	EventStateOpen:             1,
	EventStateClosed:           2,
	EventStateResultsPublished: 3,
}

// CanTransitionTo reports whether next is the single legal successor of s.
func (s EventState) CanTransitionTo(next EventState) bool {
	from, ok := eventStateOrder[s]
	if !ok {
		return false
	}
	to, ok := eventStateOrder[next]
	if !ok {
		return false
	}
	return to == from+1
}

// LotteryEvent represents one scheduled drawing for a lottery type: the Nth
// draw of that type on a calendar date.
type LotteryEvent struct {
	ID                 int64      `db:"id"`
	LotteryTypeID      int64      `db:"lottery_type_id"`
	EventDate          time.Time  `db:"event_date"`   // Calendar date, midnight UTC
	EventNumber        int        `db:"event_number"` // Nth draw of the day, 1-based
	OpenTime           TimeOfDay  `db:"open_time"`
	CloseTime          TimeOfDay  `db:"close_time"`
	State              EventState `db:"state"`
	WinningNumber      *int       `db:"winning_number"` // NULL until results publish
	ResultsPublishedAt *time.Time `db:"results_published_at"`
	CreatedAt          time.Time  `db:"created_at"`
}

// IsOpen returns true if the event currently accepts bets.
func (e *LotteryEvent) IsOpen() bool {
	return e.State == EventStateOpen
}

// HasResults returns true once a winning number has been published.
func (e *LotteryEvent) HasResults() bool {
	return e.State == EventStateResultsPublished && e.WinningNumber != nil
}

// PublishResults stamps the winning number and marks the event final.
func (e *LotteryEvent) PublishResults(winningNumber int, at time.Time) {
	e.WinningNumber = &winningNumber
	e.State = EventStateResultsPublished
	publishedAt := at.UTC()
	e.ResultsPublishedAt = &publishedAt
}

// ClaimDeadline returns the instant after which unclaimed winning bets on
// this event forfeit, or nil when results are not yet published.
// The claim window counts plain calendar days.
func (e *LotteryEvent) ClaimDeadline(claimDays int) *time.Time {
	if e.ResultsPublishedAt == nil {
		return nil
	}
	deadline := e.ResultsPublishedAt.AddDate(0, 0, claimDays)
	return &deadline
}
