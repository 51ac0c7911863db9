package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-lending/internal/domain/contract"
	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
	"campus-lending/pkg/id"
)

// SubmitRequest files a PENDING request for the resource identified by code
// and tells the department administrator about it.
func (m *Manager) SubmitRequest(ctx context.Context, p user.Principal, resourceCode string, due time.Time) (*RequestDTO, error) {
	if err := p.Require(user.CapRequestLoan); err != nil {
		return nil, err
	}
	due = DateOnly(due)
	if due.Before(m.EarliestDueDate()) {
		return nil, fmt.Errorf("%w: earliest allowed is %s", loan.ErrDueDateTooSoon, fmtDate(m.EarliestDueDate()))
	}

	var (
		dto *RequestDTO
		fx  effects
	)
	err := m.uow.WithinTx(ctx, func(r uow.Repos) error {
		res, err := r.Resources.GetByCode(ctx, resourceCode)
		if err != nil {
			return err
		}
		requester, err := r.Users.GetByID(ctx, p.UserID)
		if err != nil {
			return err
		}
		req := &loanrequest.LoanRequest{
			RequestID:   id.NewID32(),
			RequesterID: requester.ID,
			ResourceID:  res.ID,
			DueDate:     due,
			Status:      loanrequest.StatusPending,
		}
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}

		admin, err := departmentAdmin(ctx, r, res.DepartmentID)
		switch {
		case errors.Is(err, user.ErrNotFound) || errors.Is(err, department.ErrNotFound):
			m.log.Warn("department has no administrator; request not announced",
				zap.String("request_id", req.RequestID),
				zap.Uint64("department_id", res.DepartmentID))
		case err != nil:
			return err
		default:
			msg := fmt.Sprintf("New loan request from %s for %s (%s), due %s.",
				requester.FullName(), res.Name, res.Code, fmtDate(due))
			if err := fx.notify(ctx, r, admin, notification.KindRequest, msg, "/requests?status=PENDING", nil); err != nil {
				return err
			}
			fx.mail(admin, "New loan request: "+res.Name, msg)
		}

		dto = requestDTO(req, res, requester)
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.flush(ctx, &fx)
	m.log.Info("loan request submitted",
		zap.String("request_id", dto.RequestID),
		zap.String("resource", resourceCode),
		zap.String("requester", p.PublicID))
	return dto, nil
}

// Approve turns a pending request into an open loan. The resource must be
// available and free of open loans; on any failure nothing changes.
func (m *Manager) Approve(ctx context.Context, p user.Principal, requestID string) (*LoanDTO, error) {
	if err := p.Require(user.CapDecideRequests); err != nil {
		return nil, err
	}
	var (
		dto *LoanDTO
		fx  effects
	)
	err := m.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *loanrequest.LoanRequest) error {
		res, err := r.Resources.GetByIDForUpdate(ctx, req.ResourceID)
		if err != nil {
			return err
		}
		if err := p.RequireFor(user.CapDecideRequests, res.DepartmentID); err != nil {
			return err
		}
		if req.Status != loanrequest.StatusPending {
			return loanrequest.ErrNotPending
		}
		if err := ensureLendable(ctx, r, res); err != nil {
			return err
		}

		borrower, err := r.Users.GetByID(ctx, req.RequesterID)
		if err != nil {
			return err
		}
		dept, err := r.Departments.GetByID(ctx, res.DepartmentID)
		if err != nil {
			return err
		}

		now := m.now().UTC()
		l := &loan.Loan{
			LoanID:        id.NewID32(),
			BorrowerID:    borrower.ID,
			ResourceID:    res.ID,
			LoanRequestID: &req.ID,
			LoanDate:      now,
			DueDate:       req.DueDate,
		}
		ref, err := m.issueContract(ctx, &fx, contract.Data{
			Number:         id.NewULID(),
			IssuedAt:       now,
			Borrower:       partyOf(borrower),
			Administrator:  adminParty(p),
			SealURL:        m.sealURL,
			DepartmentName: dept.Name,
			ResourceCode:   res.Code,
			ResourceName:   res.Name,
			ResourceType:   res.Type,
			LoanDate:       DateOnly(now.In(m.loc)),
			DueDate:        l.DueDate,
		})
		if err != nil {
			return err
		}
		l.ContractRef = ref
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}

		res.Available = false
		if err := r.Resources.Save(ctx, res); err != nil {
			return err
		}
		if err := req.Decide(loanrequest.StatusApproved, p.UserID, now); err != nil {
			return err
		}
		req.ContractRef = ref
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}

		msg := fmt.Sprintf("Your request for %s (%s) was approved. Return it by %s.",
			res.Name, res.Code, fmtDate(l.DueDate))
		if err := fx.notify(ctx, r, borrower, notification.KindApproved, msg, loanURL(l), &l.ID); err != nil {
			return err
		}
		fx.mail(borrower, "Loan request approved: "+res.Name,
			msg+"\nYour loan contract is available in the platform.")

		dto = loanDTO(l, res, borrower, "", m.Today())
		return nil
	})
	if err != nil {
		m.discard(ctx, &fx)
		return nil, err
	}
	m.flush(ctx, &fx)
	m.log.Info("loan request approved",
		zap.String("request_id", requestID),
		zap.String("loan_id", dto.LoanID),
		zap.String("by", p.PublicID))
	return dto, nil
}

// Reject closes a pending request without touching the resource.
func (m *Manager) Reject(ctx context.Context, p user.Principal, requestID string) (*RequestDTO, error) {
	if err := p.Require(user.CapDecideRequests); err != nil {
		return nil, err
	}
	var (
		dto *RequestDTO
		fx  effects
	)
	err := m.uow.WithinRequestTx(ctx, requestID, func(r uow.Repos, req *loanrequest.LoanRequest) error {
		res, err := r.Resources.GetByID(ctx, req.ResourceID)
		if err != nil {
			return err
		}
		if err := p.RequireFor(user.CapDecideRequests, res.DepartmentID); err != nil {
			return err
		}
		if err := req.Decide(loanrequest.StatusRejected, p.UserID, m.now().UTC()); err != nil {
			return err
		}
		if err := r.Requests.Save(ctx, req); err != nil {
			return err
		}
		requester, err := r.Users.GetByID(ctx, req.RequesterID)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Your request for %s (%s) was rejected.", res.Name, res.Code)
		if err := fx.notify(ctx, r, requester, notification.KindRejected, msg, "/requests", nil); err != nil {
			return err
		}
		fx.mail(requester, "Loan request rejected: "+res.Name, msg)

		dto = requestDTO(req, res, requester)
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.flush(ctx, &fx)
	m.log.Info("loan request rejected", zap.String("request_id", requestID), zap.String("by", p.PublicID))
	return dto, nil
}

// ensureLendable checks the availability flag and the open-loan count of a
// locked resource.
func ensureLendable(ctx context.Context, r uow.Repos, res *resource.Resource) error {
	if !res.Available {
		return resource.ErrUnavailable
	}
	open, err := r.Loans.CountOpenByResourceID(ctx, res.ID)
	if err != nil {
		return err
	}
	if open > 0 {
		return fmt.Errorf("%w: %d open loan(s)", resource.ErrUnavailable, open)
	}
	return nil
}

// departmentAdmin returns the administrator of a department.
func departmentAdmin(ctx context.Context, r uow.Repos, departmentID uint64) (*user.User, error) {
	dept, err := r.Departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if dept.AdminUserID == nil {
		return nil, user.ErrNotFound
	}
	return r.Users.GetByID(ctx, *dept.AdminUserID)
}
