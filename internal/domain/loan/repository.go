package loan

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	Save(ctx context.Context, l *Loan) error
	GetByID(ctx context.Context, id uint64) (*Loan, error)
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	CountOpenByResourceID(ctx context.Context, resourceID uint64) (int64, error)
	// Active loans are ordered by due date, everything else newest loan first.
	List(ctx context.Context, f Filter) ([]Loan, error)
	Count(ctx context.Context, f Filter) (int64, error)
	// Open loans whose due date falls on day (date-only).
	ListOpenDueOn(ctx context.Context, day time.Time) ([]Loan, error)
	TopResources(ctx context.Context, departmentID uint64, limit int) ([]ResourceUsage, error)
}
