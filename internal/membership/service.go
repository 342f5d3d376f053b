package membership

import (
	"context"
	"time"

	"github.com/coderun23-cloud/gym-manegement-system/internal/metrics"
	"github.com/coderun23-cloud/gym-manegement-system/internal/plan"
)

type Service interface {
	// AssignDirect creates an active membership without any payment. This is
	// the administrative entry point; the paid flow goes through the payment
	// service instead.
	AssignDirect(ctx context.Context, userID, planID int, start time.Time) (*Membership, error)
	Renew(ctx context.Context, membershipID, planID int, start time.Time) (*Membership, error)
	Cancel(ctx context.Context, membershipID int) error
	Get(ctx context.Context, membershipID int) (*MembershipWithDetails, error)
	List(ctx context.Context) ([]MembershipWithDetails, error)
	LatestForUser(ctx context.Context, userID int) (*MembershipWithDetails, error)
}

type service struct {
	repo     Repository
	planRepo plan.Repository
}

func NewService(repo Repository, planRepo plan.Repository) Service {
	return &service{repo: repo, planRepo: planRepo}
}

func (s *service) AssignDirect(ctx context.Context, userID, planID int, start time.Time) (*Membership, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	startDate, endDate := Window(start, p.DurationDays)
	m, err := s.repo.Create(ctx, userID, planID, startDate, endDate, StatusActive)
	if err != nil {
		return nil, err
	}

	metrics.RecordMembership(string(StatusActive))
	return m, nil
}

func (s *service) Renew(ctx context.Context, membershipID, planID int, start time.Time) (*Membership, error) {
	p, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}

	startDate, endDate := Window(start, p.DurationDays)
	m, err := s.repo.Renew(ctx, membershipID, planID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	metrics.RecordMembershipRenewal()
	return m, nil
}

// Cancel is a soft status change. The row and any payments pointing at it
// stay queryable.
func (s *service) Cancel(ctx context.Context, membershipID int) error {
	if err := s.repo.UpdateStatus(ctx, membershipID, StatusCancelled); err != nil {
		return err
	}

	metrics.RecordMembershipCancellation()
	return nil
}

func (s *service) Get(ctx context.Context, membershipID int) (*MembershipWithDetails, error) {
	return s.repo.GetWithDetails(ctx, membershipID)
}

func (s *service) List(ctx context.Context) ([]MembershipWithDetails, error) {
	return s.repo.ListAll(ctx)
}

func (s *service) LatestForUser(ctx context.Context, userID int) (*MembershipWithDetails, error) {
	return s.repo.LatestForUser(ctx, userID)
}
