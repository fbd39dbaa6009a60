package membership

import "context"

type Repository interface {
	// Assign creates a membership after retiring any active one for the
	// member, inside a single transaction.
	Assign(ctx context.Context, req AssignRequest) (*Membership, error)

	// Purchase retires any active membership, inserts the new one and the
	// completed payment row atomically, holding a lock on the member row.
	Purchase(ctx context.Context, p PurchaseParams) (*Membership, int, error)

	GetByID(ctx context.Context, id int) (*Membership, error)
	GetActiveForMember(ctx context.Context, memberID int) (*Membership, error)
	List(ctx context.Context, memberID int, status Status, limit, offset int) ([]MembershipDetails, error)
	Count(ctx context.Context, memberID int, status Status) (int, error)
	Update(ctx context.Context, id int, req UpdateRequest) error
	Delete(ctx context.Context, id int) error

	ExpiringWithin(ctx context.Context, daysAhead int) ([]MembershipDetails, error)
	ExpiringInExactly(ctx context.Context, days int) ([]MembershipDetails, error)
	ExpireOverdue(ctx context.Context) (int64, error)

	AutoRenewCandidates(ctx context.Context) ([]RenewCandidate, error)
	Renew(ctx context.Context, cand RenewCandidate, invoiceNumber string) (*Membership, error)
}

// PurchaseParams carries everything the purchase transaction writes.
type PurchaseParams struct {
	MemberID       int
	PlanID         int
	PlanName       string
	Price          float64
	DurationMonths int
	TransactionID  string
	InvoiceNumber  string
}
