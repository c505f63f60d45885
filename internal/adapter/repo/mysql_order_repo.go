package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adarsh180/accidentaware/internal/usecase"
)

const outboxChannelOrderCompleted = "orders.completed.v1"

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

// CreateCompleted writes the order row and its outbox event in one
// transaction. Nothing else may join this transaction: the cart clear that
// follows a commit belongs to the caller.
func (r *MySQLOrderRepo) CreateCompleted(ctx context.Context, o *usecase.OrderRecord, eventPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO orders (id,user_id,intent_ref,payment_ref,status,amount_cents,currency,items_json,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,NOW())
`, o.ID, o.UserID, o.IntentRef, o.PaymentRef, o.Status, o.AmountCents, o.Currency, o.ItemsJSON, o.CreatedAt); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO outbox (channel,payload,status,retry_count,next_attempt_at,created_at)
VALUES (?,?, 'PENDING', 0, NOW(), NOW())
`, outboxChannelOrderCompleted, eventPayload); err != nil {
		return fmt.Errorf("insert outbox: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID returns nil, nil when the order does not exist.
func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*usecase.OrderRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,intent_ref,payment_ref,status,amount_cents,currency,items_json,created_at
FROM orders WHERE id=?`, id)
	var rec usecase.OrderRecord
	err := row.Scan(&rec.ID, &rec.UserID, &rec.IntentRef, &rec.PaymentRef, &rec.Status,
		&rec.AmountCents, &rec.Currency, &rec.ItemsJSON, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *MySQLOrderRepo) ListByUser(ctx context.Context, userID string) ([]usecase.OrderRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id,user_id,intent_ref,payment_ref,status,amount_cents,currency,items_json,created_at
FROM orders WHERE user_id=? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.OrderRecord
	for rows.Next() {
		var rec usecase.OrderRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.IntentRef, &rec.PaymentRef, &rec.Status,
			&rec.AmountCents, &rec.Currency, &rec.ItemsJSON, &rec.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id, fromStatus, toStatus string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE orders SET status = ?, updated_at = NOW()
WHERE id = ? AND status = ?`, toStatus, id, fromStatus)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0: not found or status mismatch; caller distinguishes.
	return rows > 0, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
