package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiniela/domain/entities"
	"quiniela/domain/interfaces"
	"quiniela/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type lifecycleMocks struct {
	eventRepo *testhelpers.MockEventRepository
	betRepo   *testhelpers.MockBetRepository
	typeRepo  *testhelpers.MockLotteryTypeRepository
	settings  *testhelpers.MockSettingsService
	audit     *testhelpers.MockAuditPublisher
}

func newLifecycleMocks() *lifecycleMocks {
	return &lifecycleMocks{
		eventRepo: new(testhelpers.MockEventRepository),
		betRepo:   new(testhelpers.MockBetRepository),
		typeRepo:  new(testhelpers.MockLotteryTypeRepository),
		settings:  new(testhelpers.MockSettingsService),
		audit:     new(testhelpers.MockAuditPublisher),
	}
}

func (m *lifecycleMocks) service() *lifecycleService {
	return NewLifecycleService(m.eventRepo, m.betRepo, m.typeRepo, m.settings, m.audit).(*lifecycleService)
}

func TestLifecycleService_CreateEvent(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("schedules a programmed event", func(t *testing.T) {
		m := newLifecycleMocks()
		m.typeRepo.On("GetByID", ctx, int64(1)).Return(&entities.LotteryType{ID: 1, IsActive: true}, nil)
		m.eventRepo.On("Create", ctx, mock.MatchedBy(func(e *entities.LotteryEvent) bool {
			return e.LotteryTypeID == 1 && e.EventNumber == 2 && e.State == entities.EventStateProgrammed
		})).Return(nil)

		event, err := m.service().CreateEvent(ctx, eventParams(1, date, 2))
		require.NoError(t, err)
		assert.Equal(t, entities.EventStateProgrammed, event.State)
	})

	t.Run("unknown type", func(t *testing.T) {
		m := newLifecycleMocks()
		m.typeRepo.On("GetByID", ctx, int64(1)).Return(nil, nil)

		_, err := m.service().CreateEvent(ctx, eventParams(1, date, 1))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("inactive type", func(t *testing.T) {
		m := newLifecycleMocks()
		m.typeRepo.On("GetByID", ctx, int64(1)).Return(&entities.LotteryType{ID: 1, IsActive: false}, nil)

		_, err := m.service().CreateEvent(ctx, eventParams(1, date, 1))
		assert.True(t, errors.Is(err, ErrInactiveLotteryType))
	})
}

func eventParams(typeID int64, date time.Time, number int) interfaces.CreateEventParams {
	return interfaces.CreateEventParams{
		LotteryTypeID: typeID,
		EventDate:     date,
		EventNumber:   number,
		OpenTime:      entities.NewTimeOfDay(8, 0),
		CloseTime:     entities.NewTimeOfDay(20, 0),
	}
}

func TestLifecycleService_GenerateDailyEvents(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	m := newLifecycleMocks()
	m.typeRepo.On("ListActive", ctx).Return([]*entities.LotteryType{
		{ID: 1, EventsPerDay: 2},
		{ID: 2, EventsPerDay: 1},
	}, nil)
	m.eventRepo.On("Create", ctx, mock.AnythingOfType("*entities.LotteryEvent")).Return(nil)

	generated, err := m.service().GenerateDailyEvents(ctx, date)
	require.NoError(t, err)
	require.Len(t, generated, 3)

	assert.Equal(t, 1, generated[0].EventNumber)
	assert.Equal(t, 2, generated[1].EventNumber)
	assert.Equal(t, int64(2), generated[2].LotteryTypeID)
	for _, event := range generated {
		assert.Equal(t, entities.NewTimeOfDay(8, 0), event.OpenTime)
		assert.Equal(t, entities.NewTimeOfDay(20, 0), event.CloseTime)
	}
	m.eventRepo.AssertNumberOfCalls(t, "Create", 3)
}

func TestLifecycleService_OpenEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("programmed opens", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(&entities.LotteryEvent{
			ID: 10, State: entities.EventStateProgrammed,
		}, nil)
		m.eventRepo.On("Update", ctx, mock.MatchedBy(func(e *entities.LotteryEvent) bool {
			return e.ID == 10 && e.State == entities.EventStateOpen
		})).Return(nil)
		m.audit.On("Publish", mock.AnythingOfType("events.EventOpenedEvent")).Return(nil)

		event, err := m.service().OpenEvent(ctx, 10, 55)
		require.NoError(t, err)
		assert.Equal(t, entities.EventStateOpen, event.State)
		m.audit.AssertExpectations(t)
	})

	t.Run("already open fails", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(&entities.LotteryEvent{
			ID: 10, State: entities.EventStateOpen,
		}, nil)

		_, err := m.service().OpenEvent(ctx, 10, 55)
		assert.True(t, IsInvalidTransition(err))
		m.eventRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing event", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(nil, nil)

		_, err := m.service().OpenEvent(ctx, 10, 55)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestLifecycleService_PublishResults(t *testing.T) {
	ctx := context.Background()

	t.Run("publishes and flags winners", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(&entities.LotteryEvent{
			ID: 10, State: entities.EventStateClosed,
		}, nil)
		m.eventRepo.On("Update", ctx, mock.MatchedBy(func(e *entities.LotteryEvent) bool {
			return e.State == entities.EventStateResultsPublished &&
				e.WinningNumber != nil && *e.WinningNumber == 42 &&
				e.ResultsPublishedAt != nil
		})).Return(nil)
		m.betRepo.On("MarkWinners", ctx, int64(10), 42).Return(int64(3), nil)
		m.audit.On("Publish", mock.AnythingOfType("events.ResultsPublishedEvent")).Return(nil)

		result, err := m.service().PublishResults(ctx, 10, 42, 55)
		require.NoError(t, err)
		assert.Equal(t, int64(3), result.WinnerCount)
		assert.Equal(t, "3 winner(s)", result.Summary())
	})

	t.Run("deserted draw", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(&entities.LotteryEvent{
			ID: 10, State: entities.EventStateClosed,
		}, nil)
		m.eventRepo.On("Update", ctx, mock.Anything).Return(nil)
		m.betRepo.On("MarkWinners", ctx, int64(10), 42).Return(int64(0), nil)
		m.audit.On("Publish", mock.Anything).Return(nil)

		result, err := m.service().PublishResults(ctx, 10, 42, 55)
		require.NoError(t, err)
		assert.Zero(t, result.WinnerCount)
		assert.Equal(t, "deserted draw", result.Summary())
	})

	t.Run("winning number out of range", func(t *testing.T) {
		m := newLifecycleMocks()

		_, err := m.service().PublishResults(ctx, 10, 100, 55)
		assert.True(t, errors.Is(err, ErrOutOfRange))
		m.eventRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("republish fails", func(t *testing.T) {
		m := newLifecycleMocks()
		winning := 42
		m.eventRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(&entities.LotteryEvent{
			ID: 10, State: entities.EventStateResultsPublished, WinningNumber: &winning,
		}, nil)

		_, err := m.service().PublishResults(ctx, 10, 13, 55)
		assert.True(t, IsInvalidTransition(err))
		m.betRepo.AssertNotCalled(t, "MarkWinners", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("open event cannot publish", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("GetByIDForUpdate", ctx, int64(10)).Return(&entities.LotteryEvent{
			ID: 10, State: entities.EventStateOpen,
		}, nil)

		_, err := m.service().PublishResults(ctx, 10, 42, 55)
		assert.True(t, IsInvalidTransition(err))
	})
}

func TestLifecycleService_AdvanceDueEvents(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 15, 12, 30, 0, 0, time.UTC)
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	at := entities.NewTimeOfDay(12, 30)

	t.Run("opens and closes due events", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("ListDueToOpen", ctx, date, at).Return([]*entities.LotteryEvent{
			{ID: 1, State: entities.EventStateProgrammed},
		}, nil)
		m.eventRepo.On("ListDueToClose", ctx, date, at).Return([]*entities.LotteryEvent{
			{ID: 2, State: entities.EventStateOpen},
		}, nil)
		m.eventRepo.On("Update", ctx, mock.Anything).Return(nil)
		m.audit.On("Publish", mock.Anything).Return(nil)

		result, err := m.service().AdvanceDueEvents(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, result.Opened)
		assert.Equal(t, []int64{2}, result.Closed)
	})

	t.Run("quiet pass", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("ListDueToOpen", ctx, date, at).Return(nil, nil)
		m.eventRepo.On("ListDueToClose", ctx, date, at).Return(nil, nil)

		result, err := m.service().AdvanceDueEvents(ctx, now)
		require.NoError(t, err)
		assert.Empty(t, result.Opened)
		assert.Empty(t, result.Closed)
	})

	t.Run("one failure does not block the rest", func(t *testing.T) {
		m := newLifecycleMocks()
		m.eventRepo.On("ListDueToOpen", ctx, date, at).Return([]*entities.LotteryEvent{
			{ID: 1, State: entities.EventStateProgrammed},
			{ID: 2, State: entities.EventStateProgrammed},
		}, nil)
		m.eventRepo.On("ListDueToClose", ctx, date, at).Return(nil, nil)
		m.eventRepo.On("Update", ctx, mock.MatchedBy(func(e *entities.LotteryEvent) bool {
			return e.ID == 1
		})).Return(errors.New("deadlock"))
		m.eventRepo.On("Update", ctx, mock.MatchedBy(func(e *entities.LotteryEvent) bool {
			return e.ID == 2
		})).Return(nil)
		m.audit.On("Publish", mock.Anything).Return(nil)

		result, err := m.service().AdvanceDueEvents(ctx, now)
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, result.Opened)
	})
}

func TestLifecycleService_ExpireOverdueBets(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 21, 9, 0, 0, 0, time.UTC)

	m := newLifecycleMocks()
	m.settings.On("ClaimWindowDays", ctx).Return(5, nil)
	m.betRepo.On("ExpireOverdue", ctx, now, 5).Return([]int64{7, 8}, nil)
	m.audit.On("Publish", mock.AnythingOfType("events.BetExpiredEvent")).Return(nil)

	expired, err := m.service().ExpireOverdueBets(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8}, expired)
	m.audit.AssertNumberOfCalls(t, "Publish", 2)
}
