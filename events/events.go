package events

// EventType represents the different audit events emitted by the lifecycle
// engine.
type EventType string

const (
	EventTypeEventOpened      EventType = "event_opened"
	EventTypeEventClosed      EventType = "event_closed"
	EventTypeResultsPublished EventType = "results_published"
	EventTypeBetPlaced        EventType = "bet_placed"
	EventTypeBetVoided        EventType = "bet_voided"
	EventTypeBetExpired       EventType = "bet_expired"
	EventTypePayoutProcessed  EventType = "payout_processed"
)

// Event is the base interface for all audit events. Entity identifies the
// record the event is about; ActorID is the acting operator, zero for the
// scheduler.
type Event interface {
	Type() EventType
	Entity() (name string, id int64)
	ActorID() int64
}

// EventOpenedEvent records an event transitioning PROGRAMMED -> OPEN.
// ActorUserID is zero when the scheduler performed the transition.
type EventOpenedEvent struct {
	EventID     int64
	ActorUserID int64
}

func (e EventOpenedEvent) Type() EventType         { return EventTypeEventOpened }
func (e EventOpenedEvent) Entity() (string, int64) { return "lottery_event", e.EventID }
func (e EventOpenedEvent) ActorID() int64          { return e.ActorUserID }

// EventClosedEvent records an event transitioning OPEN -> CLOSED.
type EventClosedEvent struct {
	EventID     int64
	ActorUserID int64
}

func (e EventClosedEvent) Type() EventType         { return EventTypeEventClosed }
func (e EventClosedEvent) Entity() (string, int64) { return "lottery_event", e.EventID }
func (e EventClosedEvent) ActorID() int64          { return e.ActorUserID }

// ResultsPublishedEvent records the publication of a winning number and how
// many bets it flagged as winners.
type ResultsPublishedEvent struct {
	EventID       int64
	WinningNumber int
	WinnerCount   int64
	ActorUserID   int64
}

func (e ResultsPublishedEvent) Type() EventType         { return EventTypeResultsPublished }
func (e ResultsPublishedEvent) Entity() (string, int64) { return "lottery_event", e.EventID }
func (e ResultsPublishedEvent) ActorID() int64          { return e.ActorUserID }

// BetPlacedEvent records a new ISSUED bet.
type BetPlacedEvent struct {
	BetID        int64
	EventID      int64
	CustomerID   int64
	NumberPlayed int
	Amount       string // Decimal string, exact
	ActorUserID  int64
}

func (e BetPlacedEvent) Type() EventType         { return EventTypeBetPlaced }
func (e BetPlacedEvent) Entity() (string, int64) { return "bet", e.BetID }
func (e BetPlacedEvent) ActorID() int64          { return e.ActorUserID }

// BetVoidedEvent records an administrative void.
type BetVoidedEvent struct {
	BetID       int64
	ActorUserID int64
	Reason      string
}

func (e BetVoidedEvent) Type() EventType         { return EventTypeBetVoided }
func (e BetVoidedEvent) Entity() (string, int64) { return "bet", e.BetID }
func (e BetVoidedEvent) ActorID() int64          { return e.ActorUserID }

// BetExpiredEvent records a winning bet forfeiting past the claim window.
type BetExpiredEvent struct {
	BetID       int64
	ActorUserID int64
}

func (e BetExpiredEvent) Type() EventType         { return EventTypeBetExpired }
func (e BetExpiredEvent) Entity() (string, int64) { return "bet", e.BetID }
func (e BetExpiredEvent) ActorID() int64          { return e.ActorUserID }

// PayoutProcessedEvent records a completed payment.
type PayoutProcessedEvent struct {
	PayoutID      int64
	BetID         int64
	TotalPrize    string // Decimal string, exact
	BonusApplied  bool
	ReceiptNumber string
	ActorUserID   int64
}

func (e PayoutProcessedEvent) Type() EventType         { return EventTypePayoutProcessed }
func (e PayoutProcessedEvent) Entity() (string, int64) { return "payout", e.PayoutID }
func (e PayoutProcessedEvent) ActorID() int64          { return e.ActorUserID }
