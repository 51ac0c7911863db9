package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-lending/internal/domain/loanrequest"
)

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

func (r *LoanRequestRepository) Create(ctx context.Context, req *loanrequest.LoanRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *LoanRequestRepository) Save(ctx context.Context, req *loanrequest.LoanRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *LoanRequestRepository) GetByRequestID(ctx context.Context, requestID string) (*loanrequest.LoanRequest, error) {
	var out loanrequest.LoanRequest
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out).Error; err != nil {
		return nil, notFound(err, loanrequest.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*loanrequest.LoanRequest, error) {
	var out loanrequest.LoanRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, loanrequest.ErrNotFound)
	}
	return &out, nil
}

func (r *LoanRequestRepository) filtered(ctx context.Context, f loanrequest.Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&loanrequest.LoanRequest{})
	if f.DepartmentID != 0 {
		q = q.Joins("JOIN resources ON resources.id = loan_requests.resource_id").
			Where("resources.department_id = ?", f.DepartmentID)
	}
	if f.RequesterID != 0 {
		q = q.Where("loan_requests.requester_id = ?", f.RequesterID)
	}
	if f.Status != "" {
		q = q.Where("loan_requests.status = ?", f.Status)
	}
	return q
}

func (r *LoanRequestRepository) List(ctx context.Context, f loanrequest.Filter) ([]loanrequest.LoanRequest, error) {
	var out []loanrequest.LoanRequest
	err := r.filtered(ctx, f).
		Select("loan_requests.*").
		Order("loan_requests.created_at DESC, loan_requests.id DESC").
		Find(&out).Error
	return out, err
}

func (r *LoanRequestRepository) Count(ctx context.Context, f loanrequest.Filter) (int64, error) {
	var n int64
	err := r.filtered(ctx, f).Count(&n).Error
	return n, err
}
