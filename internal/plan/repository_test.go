package plan

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func setupPlanMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func planColumns() []string {
	return []string{"id", "name", "price_cents", "duration_days", "description", "created_at", "updated_at"}
}

func TestCreatePlan(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		INSERT INTO plans (name, price_cents, duration_days, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, price_cents, duration_days, description, created_at, updated_at
	`)).
		WithArgs("Monthly", int64(50000), 30, "One month access").
		WillReturnRows(sqlmock.NewRows(planColumns()).
			AddRow(1, "Monthly", 50000, 30, "One month access", now, now))

	p, err := repo.Create(ctx, "Monthly", 50000, 30, "One month access")
	require.NoError(t, err)
	require.Equal(t, 1, p.ID)
	require.Equal(t, int64(50000), p.PriceCents)
	require.Equal(t, 30, p.DurationDays)
}

func TestGetPlanByID(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, name, price_cents, duration_days, description, created_at, updated_at
		FROM plans
		WHERE id = $1
	`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(planColumns()).
			AddRow(1, "Monthly", 50000, 30, "One month access", now, now))

	p, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Monthly", p.Name)
}

func TestGetPlanByID_NotFound(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, price_cents, duration_days, description, created_at, updated_at`)).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestDeletePlan_NotFound(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM plans WHERE id = $1`)).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	require.ErrorIs(t, err, ErrPlanNotFound)
}

func TestNameExists(t *testing.T) {
	repo, mock, close := setupPlanMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT EXISTS(SELECT 1 FROM plans WHERE name = $1 AND id != $2)
	`)).
		WithArgs("Monthly", 0).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.NameExists(context.Background(), "Monthly", 0)
	require.NoError(t, err)
	require.True(t, exists)
}
