package membership

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/coderun23-cloud/gym-manegement-system/internal/plan"
)

type MockMembershipRepo struct{ mock.Mock }

func (m *MockMembershipRepo) Create(ctx context.Context, userID, planID int, start, end time.Time, status Status) (*Membership, error) {
	args := m.Called(ctx, userID, planID, start, end, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockMembershipRepo) GetByID(ctx context.Context, id int) (*Membership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockMembershipRepo) GetWithDetails(ctx context.Context, id int) (*MembershipWithDetails, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MembershipWithDetails), args.Error(1)
}

func (m *MockMembershipRepo) ListAll(ctx context.Context) ([]MembershipWithDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]MembershipWithDetails), args.Error(1)
}

func (m *MockMembershipRepo) LatestForUser(ctx context.Context, userID int) (*MembershipWithDetails, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MembershipWithDetails), args.Error(1)
}

func (m *MockMembershipRepo) Renew(ctx context.Context, id, planID int, start, end time.Time) (*Membership, error) {
	args := m.Called(ctx, id, planID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Membership), args.Error(1)
}

func (m *MockMembershipRepo) UpdateStatus(ctx context.Context, id int, status Status) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockPlanRepo struct{ mock.Mock }

func (m *MockPlanRepo) Create(ctx context.Context, name string, priceCents int64, durationDays int, description string) (*plan.Plan, error) {
	args := m.Called(ctx, name, priceCents, durationDays, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) GetByID(ctx context.Context, id int) (*plan.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) List(ctx context.Context) ([]plan.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) Update(ctx context.Context, id int, name string, priceCents int64, durationDays int, description string) (*plan.Plan, error) {
	args := m.Called(ctx, id, name, priceCents, durationDays, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plan.Plan), args.Error(1)
}

func (m *MockPlanRepo) Delete(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPlanRepo) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func TestWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	gotStart, gotEnd := Window(start, 30)

	assert.Equal(t, start, gotStart)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), gotEnd)
}

func TestAssignDirect(t *testing.T) {
	repo := new(MockMembershipRepo)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)

	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)

	planRepo.On("GetByID", ctx, 1).Return(&plan.Plan{ID: 1, DurationDays: 30, PriceCents: 50000}, nil)
	repo.On("Create", ctx, 7, 1, start, end, StatusActive).
		Return(&Membership{ID: 1, UserID: 7, PlanID: 1, StartDate: start, EndDate: end, Status: StatusActive}, nil)

	m, err := svc.AssignDirect(ctx, 7, 1, start)

	assert.NoError(t, err)
	assert.Equal(t, StatusActive, m.Status)
	assert.Equal(t, end, m.EndDate)
	repo.AssertExpectations(t)
	planRepo.AssertExpectations(t)
}

func TestAssignDirect_PlanNotFound(t *testing.T) {
	repo := new(MockMembershipRepo)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)

	ctx := context.Background()
	planRepo.On("GetByID", ctx, 99).Return(nil, plan.ErrPlanNotFound)

	_, err := svc.AssignDirect(ctx, 7, 99, time.Now())

	assert.ErrorIs(t, err, plan.ErrPlanNotFound)
	repo.AssertNotCalled(t, "Create")
}

func TestRenew_RecomputesWindowAndForcesActive(t *testing.T) {
	repo := new(MockMembershipRepo)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)

	ctx := context.Background()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 90)

	planRepo.On("GetByID", ctx, 2).Return(&plan.Plan{ID: 2, DurationDays: 90}, nil)
	repo.On("Renew", ctx, 1, 2, start, end).
		Return(&Membership{ID: 1, PlanID: 2, StartDate: start, EndDate: end, Status: StatusActive}, nil)

	m, err := svc.Renew(ctx, 1, 2, start)

	assert.NoError(t, err)
	assert.Equal(t, StatusActive, m.Status)
	assert.Equal(t, end, m.EndDate)
	repo.AssertExpectations(t)
}

func TestCancel(t *testing.T) {
	repo := new(MockMembershipRepo)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)

	ctx := context.Background()
	repo.On("UpdateStatus", ctx, 1, StatusCancelled).Return(nil)

	err := svc.Cancel(ctx, 1)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCancel_NotFound(t *testing.T) {
	repo := new(MockMembershipRepo)
	planRepo := new(MockPlanRepo)
	svc := NewService(repo, planRepo)

	ctx := context.Background()
	repo.On("UpdateStatus", ctx, 99, StatusCancelled).Return(ErrMembershipNotFound)

	err := svc.Cancel(ctx, 99)

	assert.ErrorIs(t, err, ErrMembershipNotFound)
}
