package testutil

import (
	"time"

	"quiniela/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateTestLotteryType creates a lottery type with sensible defaults
func CreateTestLotteryType(name string) *entities.LotteryType {
	return &entities.LotteryType{
		Name:         name,
		PayoutFactor: decimal.NewFromInt(70),
		EventsPerDay: 2,
		IsActive:     true,
	}
}

// CreateTestEvent creates a PROGRAMMED event for the given type and date
func CreateTestEvent(lotteryTypeID int64, date time.Time, eventNumber int) *entities.LotteryEvent {
	return &entities.LotteryEvent{
		LotteryTypeID: lotteryTypeID,
		EventDate:     date,
		EventNumber:   eventNumber,
		OpenTime:      entities.NewTimeOfDay(8, 0),
		CloseTime:     entities.NewTimeOfDay(20, 0),
		State:         entities.EventStateProgrammed,
	}
}

// CreateTestCustomer creates an active customer without a birth date
func CreateTestCustomer(fullName string) *entities.Customer {
	return &entities.Customer{
		FullName: fullName,
		IsActive: true,
	}
}

// CreateTestCustomerWithBirthDate creates a customer born on the given date
func CreateTestCustomerWithBirthDate(fullName string, birthDate time.Time) *entities.Customer {
	customer := CreateTestCustomer(fullName)
	customer.BirthDate = &birthDate
	return customer
}

// CreateTestUser creates an active operator account
func CreateTestUser(username string) *entities.User {
	return &entities.User{
		Username: username,
		FullName: "Test Operator",
		IsActive: true,
	}
}

// CreateTestBet creates an ISSUED bet with a fresh claim token
func CreateTestBet(eventID, customerID, userID int64, number int, amount string) *entities.Bet {
	return &entities.Bet{
		EventID:      eventID,
		CustomerID:   customerID,
		UserID:       userID,
		NumberPlayed: number,
		Amount:       decimal.RequireFromString(amount),
		ClaimToken:   uuid.NewString(),
		State:        entities.BetStateIssued,
	}
}
