package repository

import (
	"context"
	"testing"
	"time"

	"quiniela/domain/entities"
	"quiniela/events"
	"quiniela/infrastructure"
	"quiniela/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingPublisher captures delivered audit events for assertions.
type recordingPublisher struct {
	delivered []events.Event
}

func (p *recordingPublisher) Publish(event events.Event) error {
	p.delivered = append(p.delivered, event)
	return nil
}

func TestUnitOfWork_CommitPersistsAndFlushes(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	recorder := &recordingPublisher{}
	factory := NewUnitOfWorkFactory(testDB.DB, infrastructure.NewAuditPublisherFactory(recorder))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	lotteryType := testutil.CreateTestLotteryType("diaria")
	require.NoError(t, uow.LotteryTypeRepository().Create(ctx, lotteryType))

	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	event := testutil.CreateTestEvent(lotteryType.ID, date, 1)
	require.NoError(t, uow.EventRepository().Create(ctx, event))

	require.NoError(t, uow.AuditPublisher().Publish(events.EventOpenedEvent{EventID: event.ID}))

	// Nothing reaches the sink until commit
	assert.Empty(t, recorder.delivered)

	require.NoError(t, uow.Commit())

	fetched, err := NewEventRepository(testDB.DB).GetByID(ctx, event.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, entities.EventStateProgrammed, fetched.State)

	require.Len(t, recorder.delivered, 1)
	assert.Equal(t, events.EventTypeEventOpened, recorder.delivered[0].Type())
}

func TestUnitOfWork_RollbackDiscards(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	recorder := &recordingPublisher{}
	factory := NewUnitOfWorkFactory(testDB.DB, infrastructure.NewAuditPublisherFactory(recorder))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))

	lotteryType := testutil.CreateTestLotteryType("diaria")
	require.NoError(t, uow.LotteryTypeRepository().Create(ctx, lotteryType))
	require.NoError(t, uow.AuditPublisher().Publish(events.EventOpenedEvent{EventID: 1}))

	require.NoError(t, uow.Rollback())

	fetched, err := NewLotteryTypeRepository(testDB.DB).GetByID(ctx, lotteryType.ID)
	require.NoError(t, err)
	assert.Nil(t, fetched)

	assert.Empty(t, recorder.delivered)
}

func TestUnitOfWork_DoubleBegin(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	ctx := context.Background()

	factory := NewUnitOfWorkFactory(testDB.DB, infrastructure.NewAuditPublisherFactory(&recordingPublisher{}))

	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	assert.Error(t, uow.Begin(ctx))
}
