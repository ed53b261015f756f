package payments_repo

import (
	"context"

	"cryptostore/internal/domain"
)

// PaymentRepository is the persistence boundary for payment records.
// Create persists the record and its outbox event atomically; nothing is
// written if either insert fails.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.PaymentRecord, event *domain.OutboxMessage) error
	GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.PaymentRecord, error)
}
