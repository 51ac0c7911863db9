package loanmock

import (
	"context"
	"time"

	domain "campus-lending/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error, reads to context.Canceled.
type Repo struct {
	CreateFn                func(ctx context.Context, l *domain.Loan) error
	SaveFn                  func(ctx context.Context, l *domain.Loan) error
	GetByIDFn               func(ctx context.Context, id uint64) (*domain.Loan, error)
	GetByLoanIDFn           func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn  func(ctx context.Context, loanID string) (*domain.Loan, error)
	CountOpenByResourceIDFn func(ctx context.Context, resourceID uint64) (int64, error)
	ListFn                  func(ctx context.Context, f domain.Filter) ([]domain.Loan, error)
	CountFn                 func(ctx context.Context, f domain.Filter) (int64, error)
	ListOpenDueOnFn         func(ctx context.Context, day time.Time) ([]domain.Loan, error)
	TopResourcesFn          func(ctx context.Context, departmentID uint64, limit int) ([]domain.ResourceUsage, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.Loan) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Loan, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) CountOpenByResourceID(ctx context.Context, resourceID uint64) (int64, error) {
	if m.CountOpenByResourceIDFn != nil {
		return m.CountOpenByResourceIDFn(ctx, resourceID)
	}
	return 0, context.Canceled
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, context.Canceled
}

func (m *Repo) Count(ctx context.Context, f domain.Filter) (int64, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx, f)
	}
	return 0, context.Canceled
}

func (m *Repo) ListOpenDueOn(ctx context.Context, day time.Time) ([]domain.Loan, error) {
	if m.ListOpenDueOnFn != nil {
		return m.ListOpenDueOnFn(ctx, day)
	}
	return nil, context.Canceled
}

func (m *Repo) TopResources(ctx context.Context, departmentID uint64, limit int) ([]domain.ResourceUsage, error) {
	if m.TopResourcesFn != nil {
		return m.TopResourcesFn(ctx, departmentID, limit)
	}
	return nil, context.Canceled
}
