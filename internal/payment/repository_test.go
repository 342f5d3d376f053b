package payment

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func setupPaymentMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func paymentColumns() []string {
	return []string{
		"id", "user_id", "first_name", "last_name", "email", "phone",
		"amount_cents", "tx_ref", "status", "payment_for", "reference_id",
		"created_at", "updated_at",
	}
}

const insertPayment = `
		INSERT INTO payments (user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id, created_at, updated_at
	`

func TestCreatePayment(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(insertPayment)).
		WithArgs(7, "Abel", "Tesfaye", "abel@example.com", "+251911000000",
			int64(50000), "GYM-abc", StatusPending, TargetMembership, 3).
		WillReturnRows(sqlmock.NewRows(paymentColumns()).
			AddRow(1, 7, "Abel", "Tesfaye", "abel@example.com", "+251911000000",
				50000, "GYM-abc", "pending", "membership", 3, now, now))

	p, err := repo.Create(ctx, &Payment{
		UserID:      7,
		FirstName:   "Abel",
		LastName:    "Tesfaye",
		Email:       "abel@example.com",
		Phone:       "+251911000000",
		AmountCents: 50000,
		TxRef:       "GYM-abc",
		Status:      StatusPending,
		PaymentFor:  TargetMembership,
		ReferenceID: 3,
	})
	require.NoError(t, err)
	require.Equal(t, 1, p.ID)
	require.Equal(t, "GYM-abc", p.TxRef)
	require.Equal(t, StatusPending, p.Status)
	require.Equal(t, MembershipTarget(3), p.Target())
}

func TestCreatePayment_TxRefCollision(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(insertPayment)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "payments_tx_ref_key"})

	_, err := repo.Create(context.Background(), &Payment{TxRef: "GYM-dup"})
	require.ErrorIs(t, err, ErrTxRefExists)
}

func TestFindByTxRef(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id, created_at, updated_at
		FROM payments
		WHERE tx_ref = $1
	`)).
		WithArgs("GYM-abc").
		WillReturnRows(sqlmock.NewRows(paymentColumns()).
			AddRow(1, 7, "Abel", "Tesfaye", "abel@example.com", "+251911000000",
				50000, "GYM-abc", "success", "membership", 3, now, now))

	p, err := repo.FindByTxRef(context.Background(), "GYM-abc")
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, p.Status)
	require.True(t, p.Status.Terminal())
}

func TestFindByTxRef_NotFound(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM payments`)).
		WithArgs("GYM-missing").
		WillReturnRows(sqlmock.NewRows(paymentColumns()))

	_, err := repo.FindByTxRef(context.Background(), "GYM-missing")
	require.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestUpdateStatusIfPending(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE payments
		SET status = $1, updated_at = NOW()
		WHERE tx_ref = $2 AND status = 'pending'
	`)).
		WithArgs(StatusSuccess, "GYM-abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateStatusIfPending(context.Background(), "GYM-abc", StatusSuccess)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUpdateStatusIfPending_AlreadyFinal(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE payments`)).
		WithArgs(StatusFailed, "GYM-abc").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.UpdateStatusIfPending(context.Background(), "GYM-abc", StatusFailed)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListByTarget(t *testing.T) {
	repo, mock, close := setupPaymentMock(t)
	defer close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, user_id, first_name, last_name, email, phone, amount_cents, tx_ref, status, payment_for, reference_id, created_at, updated_at
		FROM payments
		WHERE payment_for = $1 AND reference_id = $2
		ORDER BY created_at DESC
	`)).
		WithArgs(TargetMembership, 3).
		WillReturnRows(sqlmock.NewRows(paymentColumns()).
			AddRow(2, 7, "Abel", "Tesfaye", "abel@example.com", "+251911000000",
				50000, "GYM-second", "pending", "membership", 3, now, now).
			AddRow(1, 7, "Abel", "Tesfaye", "abel@example.com", "+251911000000",
				50000, "GYM-first", "failed", "membership", 3, now, now))

	payments, err := repo.ListByTarget(context.Background(), TargetMembership, 3)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.Equal(t, "GYM-second", payments[0].TxRef)
}
