package services

import (
	"context"
	"fmt"
	"time"

	"quiniela/domain/entities"
	"quiniela/domain/interfaces"
	"quiniela/events"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var oneHundred = decimal.NewFromInt(100)

// CalculatePrize computes the full prize breakdown for a bet. Pure decimal
// arithmetic; the only rounding is to currency precision. The birthday
// bonus keys off the event's draw date, not the payment date.
func CalculatePrize(
	bet *entities.Bet,
	lotteryType *entities.LotteryType,
	customer *entities.Customer,
	event *entities.LotteryEvent,
	bonusPercent decimal.Decimal,
) entities.PrizeBreakdown {
	basePrize := bet.Amount.Mul(lotteryType.PayoutFactor).Round(2)

	birthdayApplied := customer != nil && customer.IsBirthdayOn(event.EventDate)
	bonus := decimal.Zero
	if birthdayApplied {
		bonus = basePrize.Mul(bonusPercent).Div(oneHundred).Round(2)
	}

	return entities.PrizeBreakdown{
		BasePrize:       basePrize,
		BirthdayApplied: birthdayApplied,
		BirthdayBonus:   bonus,
		TotalPrize:      basePrize.Add(bonus),
	}
}

// payoutService pays winning bets and enforces the claim window.
type payoutService struct {
	payoutRepo     interfaces.PayoutRepository
	betRepo        interfaces.BetRepository
	eventRepo      interfaces.EventRepository
	typeRepo       interfaces.LotteryTypeRepository
	customerRepo   interfaces.CustomerRepository
	settings       interfaces.SettingsService
	auditPublisher interfaces.AuditPublisher
}

// NewPayoutService creates a new payout service.
func NewPayoutService(
	payoutRepo interfaces.PayoutRepository,
	betRepo interfaces.BetRepository,
	eventRepo interfaces.EventRepository,
	typeRepo interfaces.LotteryTypeRepository,
	customerRepo interfaces.CustomerRepository,
	settings interfaces.SettingsService,
	auditPublisher interfaces.AuditPublisher,
) interfaces.PayoutService {
	return &payoutService{
		payoutRepo:     payoutRepo,
		betRepo:        betRepo,
		eventRepo:      eventRepo,
		typeRepo:       typeRepo,
		customerRepo:   customerRepo,
		settings:       settings,
		auditPublisher: auditPublisher,
	}
}

// CalculatePayout returns the prize breakdown for a winning bet without
// paying it.
func (s *payoutService) CalculatePayout(ctx context.Context, betID int64) (*interfaces.PayoutQuote, error) {
	bet, err := s.betRepo.GetByID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, ErrNotFound)
	}

	event, lotteryType, customer, err := s.loadPrizeContext(ctx, bet)
	if err != nil {
		return nil, err
	}
	if !bet.IsWinner(event) {
		return nil, fmt.Errorf("bet %d played %02d, winning number %02d: %w",
			betID, bet.NumberPlayed, *event.WinningNumber, ErrNotAWinner)
	}

	bonusPercent, err := s.settings.BirthdayBonusPercent(ctx)
	if err != nil {
		return nil, err
	}

	return &interfaces.PayoutQuote{
		Bet:       bet,
		Breakdown: CalculatePrize(bet, lotteryType, customer, event, bonusPercent),
	}, nil
}

// ProcessPayout pays a WIN_PENDING bet. The payout insert and the bet state
// change belong to the caller's transaction and commit together. When the
// claim window has elapsed, the bet is expired as a real side effect and
// the call fails with ErrClaimExpired; the caller must still commit that
// expiration.
func (s *payoutService) ProcessPayout(ctx context.Context, betID, payerUserID int64) (*entities.Payout, error) {
	existing, err := s.payoutRepo.GetByBetID(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing payout: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("bet %d paid at %s: %w", betID, existing.PaidAt.Format(time.RFC3339), ErrAlreadyPaid)
	}

	bet, err := s.betRepo.GetByIDForUpdate(ctx, betID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", betID, err)
	}
	if bet == nil {
		return nil, fmt.Errorf("bet %d: %w", betID, ErrNotFound)
	}

	event, lotteryType, customer, err := s.loadPrizeContext(ctx, bet)
	if err != nil {
		return nil, err
	}
	if !bet.IsWinner(event) {
		return nil, fmt.Errorf("bet %d played %02d, winning number %02d: %w",
			betID, bet.NumberPlayed, *event.WinningNumber, ErrNotAWinner)
	}

	// A bet that already left WIN_PENDING must fail consistently with the
	// state it is in, never silently pay.
	switch bet.State {
	case entities.BetStateWinPending:
		// proceed
	case entities.BetStatePaid:
		return nil, fmt.Errorf("bet %d: %w", betID, ErrAlreadyPaid)
	case entities.BetStateExpired:
		return nil, fmt.Errorf("bet %d: %w", betID, ErrClaimExpired)
	default:
		return nil, &InvalidTransitionError{
			Entity:   "bet",
			ID:       betID,
			Current:  string(bet.State),
			Required: string(entities.BetStateWinPending),
		}
	}

	claimDays, err := s.settings.ClaimWindowDays(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deadline := event.ClaimDeadline(claimDays)
	if deadline != nil && now.After(*deadline) {
		bet.State = entities.BetStateExpired
		if err := s.betRepo.Update(ctx, bet); err != nil {
			return nil, fmt.Errorf("failed to expire bet %d: %w", betID, err)
		}
		s.publishAudit(events.BetExpiredEvent{BetID: betID, ActorUserID: payerUserID})
		return nil, fmt.Errorf("bet %d, claim deadline %s: %w",
			betID, deadline.Format(time.RFC3339), ErrClaimExpired)
	}

	bonusPercent, err := s.settings.BirthdayBonusPercent(ctx)
	if err != nil {
		return nil, err
	}
	breakdown := CalculatePrize(bet, lotteryType, customer, event, bonusPercent)

	payout := &entities.Payout{
		BetID:                betID,
		CalculatedPrize:      breakdown.TotalPrize,
		BirthdayBonusApplied: breakdown.BirthdayApplied,
		PaidAt:               now,
		PaidByUserID:         payerUserID,
		ReceiptNumber:        entities.ReceiptNumberFor(now, betID),
	}
	if err := s.payoutRepo.Create(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to create payout: %w", err)
	}

	bet.State = entities.BetStatePaid
	if err := s.betRepo.Update(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to update bet %d: %w", betID, err)
	}

	s.publishAudit(events.PayoutProcessedEvent{
		PayoutID:      payout.ID,
		BetID:         betID,
		TotalPrize:    breakdown.TotalPrize.StringFixed(2),
		BonusApplied:  breakdown.BirthdayApplied,
		ReceiptNumber: payout.ReceiptNumber,
		ActorUserID:   payerUserID,
	})

	log.WithFields(log.Fields{
		"betID":   betID,
		"prize":   breakdown.TotalPrize.StringFixed(2),
		"receipt": payout.ReceiptNumber,
	}).Info("Payout processed")

	return payout, nil
}

// loadPrizeContext fetches the event, lottery type and customer a prize
// calculation needs, requiring published results.
func (s *payoutService) loadPrizeContext(ctx context.Context, bet *entities.Bet) (*entities.LotteryEvent, *entities.LotteryType, *entities.Customer, error) {
	event, err := s.eventRepo.GetByID(ctx, bet.EventID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get event %d: %w", bet.EventID, err)
	}
	if event == nil {
		return nil, nil, nil, fmt.Errorf("event %d: %w", bet.EventID, ErrNotFound)
	}
	if !event.HasResults() {
		return nil, nil, nil, fmt.Errorf("event %d is %s: %w", event.ID, event.State, ErrResultsNotPublished)
	}

	lotteryType, err := s.typeRepo.GetByID(ctx, event.LotteryTypeID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get lottery type %d: %w", event.LotteryTypeID, err)
	}
	if lotteryType == nil {
		return nil, nil, nil, fmt.Errorf("lottery type %d: %w", event.LotteryTypeID, ErrNotFound)
	}

	customer, err := s.customerRepo.GetByID(ctx, bet.CustomerID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to get customer %d: %w", bet.CustomerID, err)
	}

	return event, lotteryType, customer, nil
}

func (s *payoutService) publishAudit(event events.Event) {
	if err := s.auditPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Warn("Failed to publish audit event")
	}
}
