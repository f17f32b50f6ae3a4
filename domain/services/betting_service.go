package services

import (
	"context"
	"fmt"

	"quiniela/domain/entities"
	"quiniela/domain/interfaces"
	"quiniela/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// bettingService handles bet placement and public claim-token lookup.
type bettingService struct {
	betRepo        interfaces.BetRepository
	eventRepo      interfaces.EventRepository
	typeRepo       interfaces.LotteryTypeRepository
	customerRepo   interfaces.CustomerRepository
	payoutRepo     interfaces.PayoutRepository
	settings       interfaces.SettingsService
	auditPublisher interfaces.AuditPublisher
}

// NewBettingService creates a new betting service.
func NewBettingService(
	betRepo interfaces.BetRepository,
	eventRepo interfaces.EventRepository,
	typeRepo interfaces.LotteryTypeRepository,
	customerRepo interfaces.CustomerRepository,
	payoutRepo interfaces.PayoutRepository,
	settings interfaces.SettingsService,
	auditPublisher interfaces.AuditPublisher,
) interfaces.BettingService {
	return &bettingService{
		betRepo:        betRepo,
		eventRepo:      eventRepo,
		typeRepo:       typeRepo,
		customerRepo:   customerRepo,
		payoutRepo:     payoutRepo,
		settings:       settings,
		auditPublisher: auditPublisher,
	}
}

// PlaceBet validates every precondition and registers an ISSUED bet. Any
// failing check rejects the whole operation; nothing is persisted.
func (s *bettingService) PlaceBet(ctx context.Context, params interfaces.PlaceBetParams) (*entities.Bet, error) {
	if !entities.IsNumberInRange(params.NumberPlayed) {
		return nil, fmt.Errorf("number %d: %w", params.NumberPlayed, ErrOutOfRange)
	}

	minBet, err := s.settings.MinBetAmount(ctx)
	if err != nil {
		return nil, err
	}
	if params.Amount.LessThan(minBet) {
		return nil, fmt.Errorf("stake %s, minimum %s: %w",
			params.Amount.StringFixed(2), minBet.StringFixed(2), ErrBelowMinimumStake)
	}

	event, err := s.eventRepo.GetByID(ctx, params.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", params.EventID, ErrNotFound)
	}
	if !event.IsOpen() {
		return nil, fmt.Errorf("event %d is %s: %w", params.EventID, event.State, ErrEventNotOpen)
	}

	customer, err := s.customerRepo.GetByID(ctx, params.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %d: %w", params.CustomerID, ErrNotFound)
	}

	bet := &entities.Bet{
		EventID:      params.EventID,
		CustomerID:   params.CustomerID,
		UserID:       params.UserID,
		NumberPlayed: params.NumberPlayed,
		Amount:       params.Amount,
		ClaimToken:   uuid.NewString(),
		State:        entities.BetStateIssued,
	}
	if err := s.betRepo.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to create bet: %w", err)
	}

	s.publishAudit(events.BetPlacedEvent{
		BetID:        bet.ID,
		EventID:      bet.EventID,
		CustomerID:   bet.CustomerID,
		NumberPlayed: bet.NumberPlayed,
		Amount:       bet.Amount.StringFixed(2),
		ActorUserID:  params.UserID,
	})

	return bet, nil
}

// GetBetByClaimToken resolves a claim token to the full public view of a
// bet, including payout details once paid.
func (s *bettingService) GetBetByClaimToken(ctx context.Context, token string) (*interfaces.BetResult, error) {
	bet, err := s.betRepo.GetByClaimToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet by claim token: %w", err)
	}
	if bet == nil {
		return nil, fmt.Errorf("claim token: %w", ErrNotFound)
	}

	event, err := s.eventRepo.GetByID(ctx, bet.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", bet.EventID, ErrNotFound)
	}

	lotteryType, err := s.typeRepo.GetByID(ctx, event.LotteryTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery type: %w", err)
	}

	customer, err := s.customerRepo.GetByID(ctx, bet.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	payout, err := s.payoutRepo.GetByBetID(ctx, bet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payout: %w", err)
	}

	return &interfaces.BetResult{
		Bet:         bet,
		Event:       event,
		LotteryType: lotteryType,
		Customer:    customer,
		IsWinner:    bet.IsWinner(event),
		Payout:      payout,
	}, nil
}

// VoidBet is the manual-correction path. Legal only while the bet is not in
// a terminal state.
func (s *bettingService) VoidBet(ctx context.Context, betID, actorUserID int64, reason string) (*entities.Bet, error) {
	bet, err := s.betRepo.GetByIDForUpdate(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, ErrNotFound)
	}
	if !bet.State.CanTransitionTo(entities.BetStateVoid) {
		return nil, &InvalidTransitionError{
			Entity:   "bet",
			ID:       betID,
			Current:  string(bet.State),
			Required: fmt.Sprintf("%s or %s", entities.BetStateIssued, entities.BetStateWinPending),
		}
	}

	bet.State = entities.BetStateVoid
	if err := s.betRepo.Update(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to update bet %d: %w", betID, err)
	}

	s.publishAudit(events.BetVoidedEvent{BetID: betID, ActorUserID: actorUserID, Reason: reason})
	return bet, nil
}

func (s *bettingService) publishAudit(event events.Event) {
	if err := s.auditPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Warn("Failed to publish audit event")
	}
}
