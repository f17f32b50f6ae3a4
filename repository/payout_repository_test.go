package repository

import (
	"context"
	"testing"
	"time"

	"quiniela/domain/entities"
	"quiniela/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayoutRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)
	event, customer, user := seedBettingFixtures(t, testDB)

	betRepo := NewBetRepository(testDB.DB)
	repo := NewPayoutRepository(testDB.DB)
	ctx := context.Background()

	bet := testutil.CreateTestBet(event.ID, customer.ID, user.ID, 42, "10.00")
	bet.State = entities.BetStateWinPending
	require.NoError(t, betRepo.Create(ctx, bet))

	t.Run("no payout before payment", func(t *testing.T) {
		payout, err := repo.GetByBetID(ctx, bet.ID)
		require.NoError(t, err)
		assert.Nil(t, payout)
	})

	paidAt := time.Now().UTC()
	payout := &entities.Payout{
		BetID:                bet.ID,
		CalculatedPrize:      decimal.RequireFromString("700.00"),
		BirthdayBonusApplied: false,
		PaidAt:               paidAt,
		PaidByUserID:         user.ID,
		ReceiptNumber:        entities.ReceiptNumberFor(paidAt, bet.ID),
	}

	t.Run("create and fetch", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, payout))
		assert.NotZero(t, payout.ID)

		fetched, err := repo.GetByBetID(ctx, bet.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)

		assert.Equal(t, bet.ID, fetched.BetID)
		assert.True(t, fetched.CalculatedPrize.Equal(decimal.RequireFromString("700.00")))
		assert.False(t, fetched.BirthdayBonusApplied)
		assert.Equal(t, payout.ReceiptNumber, fetched.ReceiptNumber)
		assert.WithinDuration(t, paidAt, fetched.PaidAt, time.Second)
	})

	t.Run("one payout per bet", func(t *testing.T) {
		second := &entities.Payout{
			BetID:           bet.ID,
			CalculatedPrize: decimal.RequireFromString("700.00"),
			PaidAt:          paidAt,
			PaidByUserID:    user.ID,
			ReceiptNumber:   "REC-20260315-999",
		}
		assert.Error(t, repo.Create(ctx, second))
	})
}

func TestSettingsRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSettingsRepository(testDB.DB)
	ctx := context.Background()

	t.Run("unset key returns nil", func(t *testing.T) {
		value, err := repo.Get(ctx, "MIN_BET_AMOUNT")
		require.NoError(t, err)
		assert.Nil(t, value)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "MIN_BET_AMOUNT", "5"))

		value, err := repo.Get(ctx, "MIN_BET_AMOUNT")
		require.NoError(t, err)
		require.NotNil(t, value)
		assert.Equal(t, "5", *value)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "MIN_BET_AMOUNT", "2"))

		value, err := repo.Get(ctx, "MIN_BET_AMOUNT")
		require.NoError(t, err)
		require.NotNil(t, value)
		assert.Equal(t, "2", *value)
	})
}
