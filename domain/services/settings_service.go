package services

import (
	"context"
	"fmt"
	"strconv"

	"quiniela/domain/interfaces"

	"github.com/shopspring/decimal"
)

// Setting keys resolved through the key-value store.
const (
	SettingMinBetAmount         = "MIN_BET_AMOUNT"
	SettingPrizeClaimDays       = "PRIZE_CLAIM_BUSINESS_DAYS"
	SettingBirthdayBonusPercent = "BIRTHDAY_BONUS_PERCENT"
)

// Defaults applied when a key is unset.
// PRIZE_CLAIM_BUSINESS_DAYS is treated as plain calendar days; excluding
// weekends is a pending policy decision for the venue owner.
var (
	defaultMinBetAmount         = decimal.NewFromInt(1)
	defaultClaimDays            = 5
	defaultBirthdayBonusPercent = decimal.NewFromInt(10)
)

// settingsService resolves typed configuration values from the settings
// store, applying defaults for unset keys.
type settingsService struct {
	settingsRepo interfaces.SettingsRepository
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settingsRepo interfaces.SettingsRepository) interfaces.SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

// MinBetAmount returns the minimum stake a bet must carry.
func (s *settingsService) MinBetAmount(ctx context.Context) (decimal.Decimal, error) {
	raw, err := s.settingsRepo.Get(ctx, SettingMinBetAmount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read %s: %w", SettingMinBetAmount, err)
	}
	if raw == nil {
		return defaultMinBetAmount, nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed %s value %q: %w", SettingMinBetAmount, *raw, err)
	}
	return value, nil
}

// ClaimWindowDays returns how many days winners have to claim a prize.
func (s *settingsService) ClaimWindowDays(ctx context.Context) (int, error) {
	raw, err := s.settingsRepo.Get(ctx, SettingPrizeClaimDays)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", SettingPrizeClaimDays, err)
	}
	if raw == nil {
		return defaultClaimDays, nil
	}
	value, err := strconv.Atoi(*raw)
	if err != nil {
		return 0, fmt.Errorf("malformed %s value %q: %w", SettingPrizeClaimDays, *raw, err)
	}
	return value, nil
}

// BirthdayBonusPercent returns the bonus percentage applied when a
// customer's birthday matches the draw date.
func (s *settingsService) BirthdayBonusPercent(ctx context.Context) (decimal.Decimal, error) {
	raw, err := s.settingsRepo.Get(ctx, SettingBirthdayBonusPercent)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read %s: %w", SettingBirthdayBonusPercent, err)
	}
	if raw == nil {
		return defaultBirthdayBonusPercent, nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("malformed %s value %q: %w", SettingBirthdayBonusPercent, *raw, err)
	}
	return value, nil
}
