package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-lending/internal/domain/loan"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loan.Loan) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRepository) Save(ctx context.Context, l *loan.Loan) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRepository) GetByID(ctx context.Context, id uint64) (*loan.Loan, error) {
	var out loan.Loan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, notFound(err, loan.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loan.Loan, error) {
	var out loan.Loan
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		return nil, notFound(err, loan.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*loan.Loan, error) {
	var out loan.Loan
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("loan_id = ?", loanID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, loan.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRepository) CountOpenByResourceID(ctx context.Context, resourceID uint64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&loan.Loan{}).
		Where("resource_id = ? AND returned = ?", resourceID, false).
		Count(&n).Error
	return n, err
}

func (r *LoanRepository) filtered(ctx context.Context, f loan.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&loan.Loan{})
	if f.DepartmentID != 0 {
		q = q.Joins("JOIN resources ON resources.id = loans.resource_id").
			Where("resources.department_id = ?", f.DepartmentID)
	}
	if f.BorrowerID != 0 {
		q = q.Where("loans.borrower_id = ?", f.BorrowerID)
	}
	if f.ResourceID != 0 {
		q = q.Where("loans.resource_id = ?", f.ResourceID)
	}
	switch f.State {
	case loan.StateActive:
		q = q.Where("loans.returned = ?", false)
	case loan.StateReturned:
		q = q.Where("loans.returned = ?", true)
	}
	if f.DueBefore != nil {
		q = q.Where("loans.due_date < ?", *f.DueBefore)
	}
	return q
}

func (r *LoanRepository) List(ctx context.Context, f loan.Filter) ([]loan.Loan, error) {
	q := r.filtered(ctx, f).Select("loans.*")
	if f.State == loan.StateActive {
		q = q.Order("loans.due_date ASC, loans.id ASC")
	} else {
		q = q.Order("loans.loan_date DESC, loans.id DESC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []loan.Loan
	err := q.Find(&out).Error
	return out, err
}

func (r *LoanRepository) Count(ctx context.Context, f loan.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, f).Count(&n).Error
	return n, err
}

func (r *LoanRepository) ListOpenDueOn(ctx context.Context, day time.Time) ([]loan.Loan, error) {
	var out []loan.Loan
	err := r.db.WithContext(ctx).
		Where("returned = ? AND due_date = ?", false, day).
		Order("id ASC").
		Find(&out).Error
	return out, err
}

func (r *LoanRepository) TopResources(ctx context.Context, departmentID uint64, limit int) ([]loan.ResourceUsage, error) {
	var rows []struct {
		ResourceID uint64
		LoanCount  int64
	}
	q := r.db.WithContext(ctx).Model(&loan.Loan{}).
		Select("loans.resource_id AS resource_id, COUNT(*) AS loan_count").
		Group("loans.resource_id").
		Order("loan_count DESC, loans.resource_id ASC")
	if departmentID != 0 {
		q = q.Joins("JOIN resources ON resources.id = loans.resource_id").
			Where("resources.department_id = ?", departmentID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]loan.ResourceUsage, 0, len(rows))
	for _, row := range rows {
		out = append(out, loan.ResourceUsage{ResourceID: row.ResourceID, Loans: row.LoanCount})
	}
	return out, nil
}
