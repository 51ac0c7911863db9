package uow

import (
	"context"

	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/user"
)

// Repos are bound to the same transaction.
type Repos struct {
	Users         user.Repository
	Departments   department.Repository
	Resources     resource.Repository
	Requests      loanrequest.Repository
	Loans         loan.Repository
	Notifications notification.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock loan first, then pass it in
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
	// same for a loan request
	WithinRequestTx(ctx context.Context, requestID string, fn func(r Repos, req *loanrequest.LoanRequest) error) error
}
