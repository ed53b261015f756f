package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"cryptostore/internal/domain"
	"cryptostore/internal/repository/outbox_repo"
)

type paymentRepository struct {
	db         *sql.DB
	outboxRepo outbox_repo.OutboxRepository
}

func NewPaymentRepository(db *sql.DB, outboxRepo outbox_repo.OutboxRepository) *paymentRepository {
	return &paymentRepository{db: db, outboxRepo: outboxRepo}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.PaymentRecord, event *domain.OutboxMessage) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := r.createTx(ctx, tx, payment); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed after payment insert error: %w", rbErr)
		}
		return err
	}

	if event != nil {
		if err := r.outboxRepo.CreateMessageTx(ctx, tx, event); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("rollback failed after outbox insert error: %w", rbErr)
			}
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit payment transaction: %w", err)
	}
	return nil
}

func (r *paymentRepository) createTx(ctx context.Context, querier domain.Querier, payment *domain.PaymentRecord) error {
	query := `
		INSERT INTO payments (
			payment_id, email, full_name, card_hash, card_last_four,
			coin_symbol, coin_name, coin_price, amount_usd, crypto_amount,
			status, transaction_fee, net_amount, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := querier.ExecContext(ctx, query,
		payment.ID,
		payment.Email,
		payment.FullName,
		payment.CardHash,
		payment.CardLastFour,
		payment.CoinSymbol,
		payment.CoinName,
		payment.CoinPrice,
		payment.AmountUSD,
		payment.CryptoAmount,
		payment.Status,
		payment.TransactionFee,
		payment.NetAmount,
		payment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create payment record: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentRecord, error) {
	query := `
		SELECT payment_id, email, full_name, card_hash, card_last_four,
		       coin_symbol, coin_name, coin_price, amount_usd, crypto_amount,
		       status, transaction_fee, net_amount, created_at
		FROM payments
		WHERE payment_id = $1
	`
	payment := &domain.PaymentRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&payment.ID,
		&payment.Email,
		&payment.FullName,
		&payment.CardHash,
		&payment.CardLastFour,
		&payment.CoinSymbol,
		&payment.CoinName,
		&payment.CoinPrice,
		&payment.AmountUSD,
		&payment.CryptoAmount,
		&payment.Status,
		&payment.TransactionFee,
		&payment.NetAmount,
		&payment.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get payment by id %s: %w", id, err)
	}
	return payment, nil
}

func (r *paymentRepository) ListRecent(ctx context.Context, limit int) ([]*domain.PaymentRecord, error) {
	query := `
		SELECT payment_id, email, full_name, card_hash, card_last_four,
		       coin_symbol, coin_name, coin_price, amount_usd, crypto_amount,
		       status, transaction_fee, net_amount, created_at
		FROM payments
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent payments: %w", err)
	}
	defer rows.Close()

	var payments []*domain.PaymentRecord
	for rows.Next() {
		payment := &domain.PaymentRecord{}
		err := rows.Scan(
			&payment.ID,
			&payment.Email,
			&payment.FullName,
			&payment.CardHash,
			&payment.CardLastFour,
			&payment.CoinSymbol,
			&payment.CoinName,
			&payment.CoinPrice,
			&payment.AmountUSD,
			&payment.CryptoAmount,
			&payment.Status,
			&payment.TransactionFee,
			&payment.NetAmount,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment record: %w", err)
		}
		payments = append(payments, payment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment records: %w", err)
	}
	return payments, nil
}
