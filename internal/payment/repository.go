package payment

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrTxRefExists     = errors.New("tx_ref already exists")
)

const uniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	created := &Payment{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO payments (user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id, created_at, updated_at
	`, p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.AmountCents, p.TxRef, p.Status, p.PaymentFor, p.ReferenceID).StructScan(created)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return nil, ErrTxRefExists
		}
		return nil, err
	}
	return created, nil
}

func (r *repository) FindByTxRef(ctx context.Context, txRef string) (*Payment, error) {
	p := &Payment{}
	err := r.db.GetContext(ctx, p, `
		SELECT id, user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id, created_at, updated_at
		FROM payments
		WHERE tx_ref = $1
	`, txRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateStatusIfPending is the compare-and-set that keeps reconciliation
// idempotent: two near-simultaneous callbacks for the same tx_ref cannot
// both transition the row.
func (r *repository) UpdateStatusIfPending(ctx context.Context, txRef string, status Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE tx_ref = $2 AND status = 'pending'
	`, status, txRef)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) ListByTarget(ctx context.Context, kind TargetKind, referenceID int) ([]Payment, error) {
	payments := []Payment{}
	err := r.db.SelectContext(ctx, &payments, `
		SELECT id, user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id, created_at, updated_at
		FROM payments
		WHERE payment_for = $1 AND reference_id = $2
		ORDER BY created_at DESC
	`, kind, referenceID)
	return payments, err
}
