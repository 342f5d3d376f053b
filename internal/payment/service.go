package payment

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/coderun23-cloud/gym-manegement-system/internal/email"
	"github.com/coderun23-cloud/gym-manegement-system/internal/gateway"
	"github.com/coderun23-cloud/gym-manegement-system/internal/logger"
	"github.com/coderun23-cloud/gym-manegement-system/internal/membership"
	"github.com/coderun23-cloud/gym-manegement-system/internal/metrics"
	"github.com/coderun23-cloud/gym-manegement-system/internal/plan"
	"github.com/coderun23-cloud/gym-manegement-system/internal/user"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrTxRefConflict is returned when reference generation kept colliding.
	// Practically unreachable with UUID references; surfaced as a server
	// error rather than retried forever.
	ErrTxRefConflict = errors.New("could not generate a unique tx_ref")
)

const maxTxRefAttempts = 3

// Gateway is the slice of the payment gateway the service depends on.
type Gateway interface {
	Initialize(ctx context.Context, req gateway.InitializeRequest) (string, error)
	Verify(ctx context.Context, txRef string) (*gateway.VerifyResult, error)
}

type InitiateResult struct {
	Payment     *Payment
	Membership  *membership.Membership
	CheckoutURL string
}

type ReconcileResult struct {
	Payment *Payment
	// AlreadyFinal is set when the payment was in a terminal status before
	// this call; the reconciliation was a no-op.
	AlreadyFinal bool
	// Raw is the verification payload from the gateway, for diagnostics.
	// Empty when the gateway was not consulted (AlreadyFinal).
	Raw json.RawMessage
}

type Service interface {
	Initiate(ctx context.Context, req CreatePaymentRequest) (*InitiateResult, error)
	Reconcile(ctx context.Context, txRef string) (*ReconcileResult, error)
	ListForMembership(ctx context.Context, membershipID int) ([]Payment, error)
}

// Config carries the URLs handed to the gateway and the explicit decision on
// what payment success does to the membership.
type Config struct {
	CallbackURL string
	ReturnURL   string
	Currency    string
	// ActivateOnSuccess flips the target membership to active when the
	// gateway verifies a payment. Off by default: membership activation is
	// an administrative step, separate from payment finalization.
	ActivateOnSuccess bool
}

type service struct {
	payments    Repository
	memberships membership.Repository
	plans       plan.Repository
	users       user.Repository
	gw          Gateway
	email       *email.Service
	cfg         Config
}

func NewService(
	payments Repository,
	memberships membership.Repository,
	plans plan.Repository,
	users user.Repository,
	gw Gateway,
	emailService *email.Service,
	cfg Config,
) Service {
	if cfg.Currency == "" {
		cfg.Currency = "ETB"
	}
	return &service{
		payments:    payments,
		memberships: memberships,
		plans:       plans,
		users:       users,
		gw:          gw,
		email:       emailService,
		cfg:         cfg,
	}
}

// Initiate runs the paid-membership flow: pending membership, pending payment
// snapshot, then the synchronous gateway initialize. Exactly one membership
// and one payment are created per call, linked via (payment_for, reference_id).
//
// When any step after membership creation fails, the freshly created rows are
// finalized (payment failed, membership cancelled) before the error is
// returned, so no pending row is left indistinguishable from one awaiting a
// live checkout.
func (s *service) Initiate(ctx context.Context, req CreatePaymentRequest) (*InitiateResult, error) {
	exists, err := s.users.ExistsByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUserNotFound
	}

	p, err := s.plans.GetByID(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	start, end := membership.Window(time.Now(), p.DurationDays)
	m, err := s.memberships.Create(ctx, req.UserID, p.ID, start, end, membership.StatusPending)
	if err != nil {
		return nil, err
	}
	metrics.RecordMembership(string(membership.StatusPending))

	pay, err := s.createPaymentWithFreshRef(ctx, req, p.PriceCents, m.ID)
	if err != nil {
		s.cancelMembership(context.WithoutCancel(ctx), m.ID)
		return nil, err
	}

	checkoutURL, err := s.gw.Initialize(ctx, gateway.InitializeRequest{
		AmountCents: pay.AmountCents,
		Currency:    s.cfg.Currency,
		Email:       pay.Email,
		FirstName:   pay.FirstName,
		LastName:    pay.LastName,
		Phone:       pay.Phone,
		TxRef:       pay.TxRef,
		CallbackURL: s.cfg.CallbackURL,
		ReturnURL:   s.cfg.ReturnURL,
	})
	if err != nil {
		logger.Error("Payment initialization failed",
			"tx_ref", pay.TxRef,
			"user_id", req.UserID,
			"error", err,
		)
		metrics.RecordPaymentInitiation("gateway_failed")
		s.abandon(ctx, pay.TxRef, m.ID)
		return nil, err
	}

	metrics.RecordPaymentInitiation("started")
	logger.Info("Payment initiated",
		"tx_ref", pay.TxRef,
		"user_id", req.UserID,
		"membership_id", m.ID,
		"amount_cents", pay.AmountCents,
	)

	return &InitiateResult{Payment: pay, Membership: m, CheckoutURL: checkoutURL}, nil
}

func (s *service) createPaymentWithFreshRef(ctx context.Context, req CreatePaymentRequest, amountCents int64, membershipID int) (*Payment, error) {
	for attempt := 0; attempt < maxTxRefAttempts; attempt++ {
		pay, err := s.payments.Create(ctx, &Payment{
			UserID:      req.UserID,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Email:       req.Email,
			Phone:       req.Phone,
			AmountCents: amountCents,
			TxRef:       NewTxRef(),
			Status:      StatusPending,
			PaymentFor:  TargetMembership,
			ReferenceID: membershipID,
		})
		if errors.Is(err, ErrTxRefExists) {
			logger.Error("tx_ref collision, regenerating", "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, err
		}
		return pay, nil
	}
	return nil, ErrTxRefConflict
}

// abandon finalizes the rows created by a failed initiation. Best effort:
// the caller already has the gateway error to return. The cleanup runs on a
// context detached from the request, so an initialize that failed because the
// caller's context was cancelled does not also cancel the status updates.
func (s *service) abandon(ctx context.Context, txRef string, membershipID int) {
	ctx = context.WithoutCancel(ctx)
	if _, err := s.payments.UpdateStatusIfPending(ctx, txRef, StatusFailed); err != nil {
		logger.Error("Failed to mark payment failed after gateway error", "tx_ref", txRef, "error", err)
	}
	s.cancelMembership(ctx, membershipID)
}

func (s *service) cancelMembership(ctx context.Context, membershipID int) {
	if err := s.memberships.UpdateStatus(ctx, membershipID, membership.StatusCancelled); err != nil {
		logger.Error("Failed to cancel membership after failed initiation", "membership_id", membershipID, "error", err)
	}
}

// Reconcile turns a gateway-originated signal into final local state. The
// inbound reference is the only trusted input; the outcome is pulled from the
// gateway's verify endpoint, never from the callback body. Safe to run any
// number of times for the same reference.
func (s *service) Reconcile(ctx context.Context, txRef string) (*ReconcileResult, error) {
	pay, err := s.payments.FindByTxRef(ctx, txRef)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			metrics.RecordReconciliation("not_found")
		}
		return nil, err
	}

	if pay.Status.Terminal() {
		metrics.RecordReconciliation("duplicate")
		logger.Info("Reconciliation no-op, payment already final", "tx_ref", txRef, "status", pay.Status)
		return &ReconcileResult{Payment: pay, AlreadyFinal: true}, nil
	}

	verified, err := s.gw.Verify(ctx, txRef)
	if err != nil {
		// Transport or malformed-response failure: leave the payment
		// pending so a later reconciliation attempt can finish the job.
		logger.Error("Payment verification failed", "tx_ref", txRef, "error", err)
		return nil, err
	}

	newStatus := StatusFailed
	if verified.Succeeded() {
		newStatus = StatusSuccess
	}

	transitioned, err := s.payments.UpdateStatusIfPending(ctx, txRef, newStatus)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		// A concurrent callback finalized the row first; report its result.
		current, err := s.payments.FindByTxRef(ctx, txRef)
		if err != nil {
			return nil, err
		}
		metrics.RecordReconciliation("duplicate")
		return &ReconcileResult{Payment: current, AlreadyFinal: true, Raw: verified.Raw}, nil
	}

	pay.Status = newStatus
	metrics.RecordReconciliation(string(newStatus))
	logger.Info("Payment reconciled", "tx_ref", txRef, "status", newStatus)

	if newStatus == StatusSuccess {
		s.onSuccess(ctx, pay)
	}

	return &ReconcileResult{Payment: pay, Raw: verified.Raw}, nil
}

func (s *service) onSuccess(ctx context.Context, pay *Payment) {
	if s.cfg.ActivateOnSuccess && pay.PaymentFor == TargetMembership {
		if err := s.memberships.UpdateStatus(ctx, pay.ReferenceID, membership.StatusActive); err != nil {
			logger.Error("Failed to activate membership after payment", "membership_id", pay.ReferenceID, "error", err)
		}
	}

	if s.email != nil {
		if err := s.email.SendPaymentReceipt(ctx, pay.Email, pay.FirstName, pay.TxRef, pay.AmountCents); err != nil {
			logger.Error("Failed to queue payment receipt", "tx_ref", pay.TxRef, "error", err)
		}
	}
}

func (s *service) ListForMembership(ctx context.Context, membershipID int) ([]Payment, error) {
	return s.payments.ListByTarget(ctx, TargetMembership, membershipID)
}
