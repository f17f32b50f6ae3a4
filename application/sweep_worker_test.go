package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"quiniela/domain/entities"
	"quiniela/domain/services"
)

// sharedMockFactory hands out a fresh unit of work per operation while
// sharing one set of repository mocks, so both transactions of a worker
// cycle run against a single expectation set.
type sharedMockFactory struct {
	mocks *fakeUnitOfWork
}

func (f *sharedMockFactory) Create() UnitOfWork {
	uow := *f.mocks
	return &uow
}

func TestStateSweepWorker_FinishesCycleAcrossCancel(t *testing.T) {
	mocks := newFakeUnitOfWork()
	engine := NewEngine(&sharedMockFactory{mocks: mocks})

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cycleStarted := make(chan struct{})
	appCancelled := make(chan struct{})
	var inCycleErr error

	// Block the cycle mid-flight until the app context is cancelled, then
	// record what the repository call observes on its own context.
	mocks.events.On("ListDueToOpen", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(cycleStarted)
			<-appCancelled
			inCycleErr = args.Get(0).(context.Context).Err()
		}).
		Return([]*entities.LotteryEvent{}, nil).Once()
	mocks.events.On("ListDueToClose", mock.Anything, mock.Anything, mock.Anything).
		Return([]*entities.LotteryEvent{}, nil)
	mocks.settings.On("Get", mock.Anything, services.SettingPrizeClaimDays).Return(nil, nil)
	mocks.bets.On("ExpireOverdue", mock.Anything, mock.Anything, 5).Return([]int64{}, nil)

	worker := NewStateSweepWorker(engine, time.Hour)
	stop := worker.Start(appCtx)

	<-cycleStarted
	cancel()
	close(appCancelled)

	// stop returns only after the in-flight cycle has finished.
	stop()

	assert.NoError(t, inCycleErr,
		"in-flight cycle must not see the cancelled application context")
	mocks.bets.AssertCalled(t, "ExpireOverdue", mock.Anything, mock.Anything, 5)
}
