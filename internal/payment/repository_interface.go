package payment

import "context"

type Repository interface {
	// Create inserts the payment and fills in the generated fields. Returns
	// ErrTxRefExists when the tx_ref collides with an existing row.
	Create(ctx context.Context, p *Payment) (*Payment, error)
	FindByTxRef(ctx context.Context, txRef string) (*Payment, error)
	// UpdateStatusIfPending transitions the payment to the given status only
	// if it is still pending, and reports whether this call made the
	// transition. A false return with no error means another caller already
	// finalized the row.
	UpdateStatusIfPending(ctx context.Context, txRef string, status Status) (bool, error)
	ListByTarget(ctx context.Context, kind TargetKind, referenceID int) ([]Payment, error)
}
