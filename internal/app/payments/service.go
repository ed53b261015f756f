package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"cryptostore/internal/domain"
	"cryptostore/internal/metrics"
	"cryptostore/internal/outbox"
	"cryptostore/internal/pricing"
	"cryptostore/internal/repository/payments_repo"
	"cryptostore/internal/util"
	"cryptostore/internal/validate"
)

// MaxListLimit caps ListRecentPayments regardless of the requested limit.
const MaxListLimit = 50

type PaymentService interface {
	ProcessPayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error)
	GetPaymentByID(ctx context.Context, id string) (*domain.PaymentRecord, error)
	ListRecentPayments(ctx context.Context, limit int) ([]*domain.PaymentRecord, error)
}

type paymentService struct {
	prices      *pricing.Store
	paymentRepo payments_repo.PaymentRepository
	logger      *zap.Logger
}

func NewPaymentService(prices *pricing.Store, paymentRepo payments_repo.PaymentRepository, logger *zap.Logger) PaymentService {
	return &paymentService{
		prices:      prices,
		paymentRepo: paymentRepo,
		logger:      logger,
	}
}

// ProcessPayment validates the request, applies the last-refreshed coin
// price, computes the derived monetary fields, and persists the record
// with its outbox event in one transaction. Validation failures mutate
// nothing.
func (s *paymentService) ProcessPayment(ctx context.Context, req *PaymentRequest) (*PaymentResult, error) {
	if err := validateRequest(req); err != nil {
		metrics.PaymentsProcessedTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	coin, ok := s.prices.Get(req.CoinSymbol)
	if !ok {
		metrics.PaymentsProcessedTotal.WithLabelValues("rejected").Inc()
		return nil, domain.NewValidationError("Invalid cryptocurrency")
	}

	// Degenerate fallback or feed value; refusing beats dividing by it.
	if coin.Price <= 0 {
		metrics.PaymentsProcessedTotal.WithLabelValues("error").Inc()
		s.logger.Error("Coin price is not positive, refusing payment",
			zap.String("coin_symbol", coin.Symbol),
			zap.Float64("price", coin.Price))
		return nil, domain.ErrPriceUnavailable
	}

	cryptoAmount := req.Amount / coin.Price

	paymentID, err := util.GeneratePaymentID()
	if err != nil {
		metrics.PaymentsProcessedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to generate payment id: %w", err)
	}

	digits := validate.CardDigits(req.CardNumber)
	record := &domain.PaymentRecord{
		ID:             paymentID,
		Email:          req.Email,
		FullName:       req.FullName,
		CardHash:       hashCardNumber(req.CardNumber),
		CardLastFour:   digits[len(digits)-4:],
		CoinSymbol:     coin.Symbol,
		CoinName:       coin.Name,
		CoinPrice:      coin.Price,
		AmountUSD:      req.Amount,
		CryptoAmount:   cryptoAmount,
		Status:         domain.PaymentStatusCompleted,
		TransactionFee: req.Amount * domain.FeeRate,
		NetAmount:      req.Amount * (1 - domain.FeeRate),
		CreatedAt:      time.Now().UTC(),
	}

	payload, err := outbox.PreparePaymentCompletedPayload(record)
	if err != nil {
		metrics.PaymentsProcessedTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to prepare payment event payload: %w", err)
	}
	event := &domain.OutboxMessage{
		ID:        util.GenerateUUID(),
		PaymentID: record.ID,
		EventType: outbox.EventTypePaymentCompleted,
		Payload:   payload,
		Status:    domain.OutboxStatusPending,
		CreatedAt: record.CreatedAt,
	}

	if err := s.paymentRepo.Create(ctx, record, event); err != nil {
		metrics.PaymentsProcessedTotal.WithLabelValues("error").Inc()
		s.logger.Error("Failed to persist payment record",
			zap.String("payment_id", record.ID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	metrics.PaymentsProcessedTotal.WithLabelValues("completed").Inc()
	metrics.PaymentAmountUSD.Observe(record.AmountUSD)
	s.logger.Info("Payment processed",
		zap.String("payment_id", record.ID),
		zap.String("coin_symbol", record.CoinSymbol),
		zap.Float64("amount_usd", record.AmountUSD))

	return &PaymentResult{
		PaymentID:    record.ID,
		CryptoAmount: roundTo8(cryptoAmount),
	}, nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListRecentPayments(ctx context.Context, limit int) ([]*domain.PaymentRecord, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	payments, err := s.paymentRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	return payments, nil
}

func validateRequest(req *PaymentRequest) error {
	required := []struct {
		name  string
		empty bool
	}{
		{"email", req.Email == ""},
		{"full_name", req.FullName == ""},
		{"card_number", req.CardNumber == ""},
		{"expiry", req.Expiry == ""},
		{"cvv", req.CVV == ""},
		{"coin_symbol", req.CoinSymbol == ""},
		{"amount", req.Amount == 0},
	}
	for _, f := range required {
		if f.empty {
			return domain.NewValidationError("Missing " + f.name)
		}
	}
	if req.Amount < 0 || math.IsNaN(req.Amount) || math.IsInf(req.Amount, 0) {
		return domain.NewValidationError("Invalid amount")
	}
	if !validate.Email(req.Email) {
		return domain.NewValidationError("Invalid email format")
	}
	if !validate.CardNumber(req.CardNumber) {
		return domain.NewValidationError("Invalid card number")
	}
	return nil
}

func hashCardNumber(cardNumber string) string {
	sum := sha256.Sum256([]byte(cardNumber))
	return hex.EncodeToString(sum[:])
}

func roundTo8(v float64) float64 {
	return math.Round(v*1e8) / 1e8
}
