package loanrequest

import "context"

type Repository interface {
	Create(ctx context.Context, r *LoanRequest) error
	Save(ctx context.Context, r *LoanRequest) error
	GetByRequestID(ctx context.Context, requestID string) (*LoanRequest, error)
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*LoanRequest, error)
	// Newest first.
	List(ctx context.Context, f Filter) ([]LoanRequest, error)
	Count(ctx context.Context, f Filter) (int64, error)
}
