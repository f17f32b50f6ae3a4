package services

import (
	"context"
	"testing"

	"quiniela/domain/testhelpers"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestSettingsService_Defaults(t *testing.T) {
	ctx := context.Background()
	repo := new(testhelpers.MockSettingsRepository)
	repo.On("Get", ctx, SettingMinBetAmount).Return(nil, nil)
	repo.On("Get", ctx, SettingPrizeClaimDays).Return(nil, nil)
	repo.On("Get", ctx, SettingBirthdayBonusPercent).Return(nil, nil)

	service := NewSettingsService(repo)

	minBet, err := service.MinBetAmount(ctx)
	require.NoError(t, err)
	assert.True(t, minBet.Equal(decimal.NewFromInt(1)))

	days, err := service.ClaimWindowDays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	bonus, err := service.BirthdayBonusPercent(ctx)
	require.NoError(t, err)
	assert.True(t, bonus.Equal(decimal.NewFromInt(10)))
}

func TestSettingsService_StoredValues(t *testing.T) {
	ctx := context.Background()
	repo := new(testhelpers.MockSettingsRepository)
	repo.On("Get", ctx, SettingMinBetAmount).Return(strPtr("2.50"), nil)
	repo.On("Get", ctx, SettingPrizeClaimDays).Return(strPtr("10"), nil)
	repo.On("Get", ctx, SettingBirthdayBonusPercent).Return(strPtr("15"), nil)

	service := NewSettingsService(repo)

	minBet, err := service.MinBetAmount(ctx)
	require.NoError(t, err)
	assert.True(t, minBet.Equal(decimal.RequireFromString("2.50")))

	days, err := service.ClaimWindowDays(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, days)

	bonus, err := service.BirthdayBonusPercent(ctx)
	require.NoError(t, err)
	assert.True(t, bonus.Equal(decimal.NewFromInt(15)))
}

func TestSettingsService_MalformedValues(t *testing.T) {
	ctx := context.Background()
	repo := new(testhelpers.MockSettingsRepository)
	repo.On("Get", ctx, SettingMinBetAmount).Return(strPtr("not-a-number"), nil)
	repo.On("Get", ctx, SettingPrizeClaimDays).Return(strPtr("soon"), nil)

	service := NewSettingsService(repo)

	_, err := service.MinBetAmount(ctx)
	assert.Error(t, err)

	_, err = service.ClaimWindowDays(ctx)
	assert.Error(t, err)
}
