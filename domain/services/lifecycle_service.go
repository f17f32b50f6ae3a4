package services

import (
	"context"
	"fmt"
	"time"

	"quiniela/domain/entities"
	"quiniela/domain/interfaces"
	"quiniela/events"

	log "github.com/sirupsen/logrus"
)

// Default betting window for batch-generated events.
var (
	defaultOpenTime  = entities.NewTimeOfDay(8, 0)
	defaultCloseTime = entities.NewTimeOfDay(20, 0)
)

// lifecycleService enforces the event state machine. Every transition runs
// against row-locked reads; callers own the surrounding transaction.
type lifecycleService struct {
	eventRepo      interfaces.EventRepository
	betRepo        interfaces.BetRepository
	typeRepo       interfaces.LotteryTypeRepository
	settings       interfaces.SettingsService
	auditPublisher interfaces.AuditPublisher
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(
	eventRepo interfaces.EventRepository,
	betRepo interfaces.BetRepository,
	typeRepo interfaces.LotteryTypeRepository,
	settings interfaces.SettingsService,
	auditPublisher interfaces.AuditPublisher,
) interfaces.LifecycleService {
	return &lifecycleService{
		eventRepo:      eventRepo,
		betRepo:        betRepo,
		typeRepo:       typeRepo,
		settings:       settings,
		auditPublisher: auditPublisher,
	}
}

// CreateEvent schedules a single PROGRAMMED event for an active type.
func (s *lifecycleService) CreateEvent(ctx context.Context, params interfaces.CreateEventParams) (*entities.LotteryEvent, error) {
	lotteryType, err := s.typeRepo.GetByID(ctx, params.LotteryTypeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery type: %w", err)
	}
	if lotteryType == nil {
		return nil, fmt.Errorf("lottery type %d: %w", params.LotteryTypeID, ErrNotFound)
	}
	if !lotteryType.IsActive {
		return nil, fmt.Errorf("lottery type %d: %w", params.LotteryTypeID, ErrInactiveLotteryType)
	}

	event := &entities.LotteryEvent{
		LotteryTypeID: params.LotteryTypeID,
		EventDate:     params.EventDate,
		EventNumber:   params.EventNumber,
		OpenTime:      params.OpenTime,
		CloseTime:     params.CloseTime,
		State:         entities.EventStateProgrammed,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// GenerateDailyEvents schedules the full daily program: one event per
// configured draw count for every active lottery type.
func (s *lifecycleService) GenerateDailyEvents(ctx context.Context, date time.Time) ([]*entities.LotteryEvent, error) {
	types, err := s.typeRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active lottery types: %w", err)
	}

	var generated []*entities.LotteryEvent
	for _, lotteryType := range types {
		for n := 1; n <= lotteryType.EventsPerDay; n++ {
			event := &entities.LotteryEvent{
				LotteryTypeID: lotteryType.ID,
				EventDate:     date,
				EventNumber:   n,
				OpenTime:      defaultOpenTime,
				CloseTime:     defaultCloseTime,
				State:         entities.EventStateProgrammed,
			}
			if err := s.eventRepo.Create(ctx, event); err != nil {
				return nil, fmt.Errorf("failed to create event %d/%d for type %d: %w",
					n, lotteryType.EventsPerDay, lotteryType.ID, err)
			}
			generated = append(generated, event)
		}
	}

	log.WithFields(log.Fields{
		"date":  date.Format("2006-01-02"),
		"count": len(generated),
	}).Info("Generated daily events")

	return generated, nil
}

// OpenEvent transitions PROGRAMMED -> OPEN.
func (s *lifecycleService) OpenEvent(ctx context.Context, eventID, actorUserID int64) (*entities.LotteryEvent, error) {
	event, err := s.lockEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != entities.EventStateProgrammed {
		return nil, &InvalidTransitionError{
			Entity:   "lottery_event",
			ID:       eventID,
			Current:  string(event.State),
			Required: string(entities.EventStateProgrammed),
		}
	}

	event.State = entities.EventStateOpen
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", eventID, err)
	}

	s.publishAudit(events.EventOpenedEvent{EventID: eventID, ActorUserID: actorUserID})
	return event, nil
}

// CloseEvent transitions OPEN -> CLOSED.
func (s *lifecycleService) CloseEvent(ctx context.Context, eventID, actorUserID int64) (*entities.LotteryEvent, error) {
	event, err := s.lockEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != entities.EventStateOpen {
		return nil, &InvalidTransitionError{
			Entity:   "lottery_event",
			ID:       eventID,
			Current:  string(event.State),
			Required: string(entities.EventStateOpen),
		}
	}

	event.State = entities.EventStateClosed
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", eventID, err)
	}

	s.publishAudit(events.EventClosedEvent{EventID: eventID, ActorUserID: actorUserID})
	return event, nil
}

// PublishResults transitions CLOSED -> RESULTS_PUBLISHED and flags winners.
// The event update and the winner flags commit together; the returned count
// reflects exactly the bets moved to WIN_PENDING.
func (s *lifecycleService) PublishResults(ctx context.Context, eventID int64, winningNumber int, actorUserID int64) (*interfaces.PublishResultsResult, error) {
	if !entities.IsNumberInRange(winningNumber) {
		return nil, fmt.Errorf("winning number %d: %w", winningNumber, ErrOutOfRange)
	}

	event, err := s.lockEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != entities.EventStateClosed {
		return nil, &InvalidTransitionError{
			Entity:   "lottery_event",
			ID:       eventID,
			Current:  string(event.State),
			Required: string(entities.EventStateClosed),
		}
	}

	event.PublishResults(winningNumber, time.Now())
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event %d: %w", eventID, err)
	}

	winnerCount, err := s.betRepo.MarkWinners(ctx, eventID, winningNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to flag winners for event %d: %w", eventID, err)
	}

	result := &interfaces.PublishResultsResult{Event: event, WinnerCount: winnerCount}

	s.publishAudit(events.ResultsPublishedEvent{
		EventID:       eventID,
		WinningNumber: winningNumber,
		WinnerCount:   winnerCount,
		ActorUserID:   actorUserID,
	})

	log.WithFields(log.Fields{
		"eventID":       eventID,
		"winningNumber": winningNumber,
		"outcome":       result.Summary(),
	}).Info("Results published")

	return result, nil
}

// AdvanceDueEvents applies the scheduled open/close transitions for the
// given snapshot instant. Events are processed independently; an error on
// one is logged and the rest continue.
func (s *lifecycleService) AdvanceDueEvents(ctx context.Context, now time.Time) (*interfaces.SweepResult, error) {
	date := now.UTC().Truncate(24 * time.Hour)
	at := entities.TimeOfDayFrom(now.UTC())
	result := &interfaces.SweepResult{}

	toOpen, err := s.eventRepo.ListDueToOpen(ctx, date, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list events due to open: %w", err)
	}
	for _, event := range toOpen {
		event.State = entities.EventStateOpen
		if err := s.eventRepo.Update(ctx, event); err != nil {
			log.WithError(err).WithField("eventID", event.ID).Error("Failed to auto-open event")
			continue
		}
		s.publishAudit(events.EventOpenedEvent{EventID: event.ID})
		result.Opened = append(result.Opened, event.ID)
	}

	toClose, err := s.eventRepo.ListDueToClose(ctx, date, at)
	if err != nil {
		return nil, fmt.Errorf("failed to list events due to close: %w", err)
	}
	for _, event := range toClose {
		event.State = entities.EventStateClosed
		if err := s.eventRepo.Update(ctx, event); err != nil {
			log.WithError(err).WithField("eventID", event.ID).Error("Failed to auto-close event")
			continue
		}
		s.publishAudit(events.EventClosedEvent{EventID: event.ID})
		result.Closed = append(result.Closed, event.ID)
	}

	if len(result.Opened) > 0 || len(result.Closed) > 0 {
		log.WithFields(log.Fields{
			"opened": len(result.Opened),
			"closed": len(result.Closed),
		}).Info("Auto-advanced events")
	}

	return result, nil
}

// ExpireOverdueBets forfeits winning bets whose claim window has elapsed at
// the snapshot instant. Safe to re-run; already-expired rows are untouched.
func (s *lifecycleService) ExpireOverdueBets(ctx context.Context, now time.Time) ([]int64, error) {
	claimDays, err := s.settings.ClaimWindowDays(ctx)
	if err != nil {
		return nil, err
	}

	expired, err := s.betRepo.ExpireOverdue(ctx, now.UTC(), claimDays)
	if err != nil {
		return nil, fmt.Errorf("failed to expire overdue bets: %w", err)
	}

	for _, betID := range expired {
		s.publishAudit(events.BetExpiredEvent{BetID: betID})
	}
	if len(expired) > 0 {
		log.WithField("count", len(expired)).Info("Expired unclaimed winning bets")
	}

	return expired, nil
}

// lockEvent loads an event under a row lock, mapping absence to ErrNotFound.
func (s *lifecycleService) lockEvent(ctx context.Context, eventID int64) (*entities.LotteryEvent, error) {
	event, err := s.eventRepo.GetByIDForUpdate(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event %d: %w", eventID, err)
	}
	if event == nil {
		return nil, fmt.Errorf("event %d: %w", eventID, ErrNotFound)
	}
	return event, nil
}

// publishAudit hands an event to the audit sink. Audit is fire-and-forget;
// a publish failure never fails the transition.
func (s *lifecycleService) publishAudit(event events.Event) {
	if err := s.auditPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Warn("Failed to publish audit event")
	}
}
