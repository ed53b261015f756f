package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"cryptostore/internal/domain"
	kafka_infra "cryptostore/internal/infrastructure/kafka"
	"cryptostore/internal/metrics"
	"cryptostore/internal/repository/outbox_repo"
)

const batchSize = 10

// Processor relays pending outbox rows to Kafka. It runs independently of
// payment intake: a broker outage delays events but never fails a payment.
type Processor struct {
	db           *sql.DB
	outboxRepo   outbox_repo.OutboxRepository
	producer     kafka_infra.Producer
	pollInterval time.Duration
	pollTimeout  time.Duration
	logger       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewProcessor(
	db *sql.DB,
	outboxRepo outbox_repo.OutboxRepository,
	producer kafka_infra.Producer,
	pollInterval time.Duration,
	pollTimeout time.Duration,
	logger *zap.Logger,
) *Processor {
	return &Processor{
		db:           db,
		outboxRepo:   outboxRepo,
		producer:     producer,
		pollInterval: pollInterval,
		pollTimeout:  pollTimeout,
		logger:       logger,
	}
}

func (p *Processor) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.logger.Info("Starting outbox processor", zap.Duration("poll_interval", p.pollInterval))

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("Outbox processor stopped")
				return
			case <-ticker.C:
				p.processOutboxMessages(ctx)
			}
		}
	}()
}

func (p *Processor) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

func (p *Processor) processOutboxMessages(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	defer cancel()

	messages, err := p.outboxRepo.GetPendingMessages(queryCtx, p.db, batchSize)
	if err != nil {
		p.logger.Error("Failed to get pending outbox messages", zap.Error(err))
		return
	}
	if len(messages) == 0 {
		return
	}

	for _, msg := range messages {
		if err := p.producer.Produce(ctx, msg.PaymentID, msg.Payload); err != nil {
			metrics.OutboxRelayedTotal.WithLabelValues("error").Inc()
			p.logger.Error("Failed to relay outbox message to Kafka",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}

		if err := p.outboxRepo.UpdateMessageStatusTx(ctx, p.db, msg.ID, domain.OutboxStatusSent); err != nil {
			p.logger.Error("Failed to mark outbox message as sent",
				zap.String("message_id", msg.ID),
				zap.Error(err))
			continue
		}
		metrics.OutboxRelayedTotal.WithLabelValues("success").Inc()
		p.logger.Debug("Outbox message relayed",
			zap.String("message_id", msg.ID),
			zap.String("payment_id", msg.PaymentID))
	}
}

const EventTypePaymentCompleted = "payment.completed"

// PaymentCompletedEvent is the payload published for every persisted
// payment record. Card data never appears here.
type PaymentCompletedEvent struct {
	PaymentID    string    `json:"payment_id"`
	Email        string    `json:"email"`
	CoinSymbol   string    `json:"coin_symbol"`
	AmountUSD    float64   `json:"amount_usd"`
	CryptoAmount float64   `json:"crypto_amount"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

func PreparePaymentCompletedPayload(payment *domain.PaymentRecord) ([]byte, error) {
	event := PaymentCompletedEvent{
		PaymentID:    payment.ID,
		Email:        payment.Email,
		CoinSymbol:   payment.CoinSymbol,
		AmountUSD:    payment.AmountUSD,
		CryptoAmount: payment.CryptoAmount,
		Status:       string(payment.Status),
		Timestamp:    payment.CreatedAt,
	}
	return json.Marshal(event)
}
