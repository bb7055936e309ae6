package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"electric-backend/internal/errs"
	"electric-backend/internal/models"
)

type OnlineTransactionRepository struct {
	DB *pgxpool.Pool
}

func NewOnlineTransactionRepository(db *pgxpool.Pool) *OnlineTransactionRepository {
	return &OnlineTransactionRepository{DB: db}
}

// Create records a freshly raised Razorpay order.
func (r *OnlineTransactionRepository) Create(ctx context.Context, tx *models.OnlineTransaction) error {
	err := r.DB.QueryRow(ctx, `
		INSERT INTO online_transactions (customer_id, order_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		tx.CustomerID, tx.OrderID, tx.Amount, models.OnlineTxStatusCreated,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create online transaction: %w", err)
	}

	tx.Status = models.OnlineTxStatusCreated
	return nil
}

// GetByOrderID retrieves a transaction by Razorpay order ID.
func (r *OnlineTransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.OnlineTransaction, error) {
	tx := &models.OnlineTransaction{}
	err := r.DB.QueryRow(ctx, `
		SELECT id, customer_id, order_id, COALESCE(payment_id, ''), amount,
		       status, COALESCE(failure_reason, ''), created_at, updated_at
		FROM online_transactions
		WHERE order_id = $1`, orderID,
	).Scan(&tx.ID, &tx.CustomerID, &tx.OrderID, &tx.PaymentID, &tx.Amount,
		&tx.Status, &tx.FailureReason, &tx.CreatedAt, &tx.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// MarkSuccess stores the payment id after signature verification. Only a
// transaction still in the created state transitions; replayed callbacks
// are ignored.
func (r *OnlineTransactionRepository) MarkSuccess(ctx context.Context, orderID, paymentID string) (bool, error) {
	tag, err := r.DB.Exec(ctx, `
		UPDATE online_transactions
		SET payment_id = $2, status = $3, updated_at = CURRENT_TIMESTAMP
		WHERE order_id = $1 AND status = $4`,
		orderID, paymentID, models.OnlineTxStatusSuccess, models.OnlineTxStatusCreated)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkFailed records a failed or rejected payment attempt.
func (r *OnlineTransactionRepository) MarkFailed(ctx context.Context, orderID, reason string) error {
	_, err := r.DB.Exec(ctx, `
		UPDATE online_transactions
		SET status = $2, failure_reason = $3, updated_at = CURRENT_TIMESTAMP
		WHERE order_id = $1`,
		orderID, models.OnlineTxStatusFailed, reason)
	return err
}

// ListForCustomer returns a customer's online transactions, newest first.
func (r *OnlineTransactionRepository) ListForCustomer(ctx context.Context, customerID int64) ([]*models.OnlineTransaction, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, customer_id, order_id, COALESCE(payment_id, ''), amount,
		       status, COALESCE(failure_reason, ''), created_at, updated_at
		FROM online_transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []*models.OnlineTransaction{}
	for rows.Next() {
		tx := &models.OnlineTransaction{}
		if err := rows.Scan(&tx.ID, &tx.CustomerID, &tx.OrderID, &tx.PaymentID, &tx.Amount,
			&tx.Status, &tx.FailureReason, &tx.CreatedAt, &tx.UpdatedAt); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
