package domain

import (
	"errors"
	"time"
)

type PaymentStatus string

// Every persisted record is completed; there is no pending/failed state
// machine for card intake.
const PaymentStatusCompleted PaymentStatus = "completed"

// FeeRate is the flat transaction fee applied to every purchase.
const FeeRate = 0.015

var ErrPaymentNotFound = errors.New("payment not found")

// ValidationError is a client-side rejection carrying a message safe to
// return to the caller. No record is persisted when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// PaymentRecord is the immutable result of one processed purchase.
// The full card number is never stored: only its SHA-256 digest and the
// last four raw digits survive intake.
type PaymentRecord struct {
	ID             string
	Email          string
	FullName       string
	CardHash       string
	CardLastFour   string
	CoinSymbol     string
	CoinName       string
	CoinPrice      float64
	AmountUSD      float64
	CryptoAmount   float64
	Status         PaymentStatus
	TransactionFee float64
	NetAmount      float64
	CreatedAt      time.Time
}
