package lending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-lending/internal/domain/contract"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
	"campus-lending/pkg/id"
)

// ReturnLoan closes an open loan and makes its resource available again.
// Returning a closed loan changes nothing and reports ErrAlreadyReturned.
func (m *Manager) ReturnLoan(ctx context.Context, p user.Principal, loanID string) (*LoanDTO, error) {
	if err := p.Require(user.CapManageLoans); err != nil {
		return nil, err
	}
	var dto *LoanDTO
	err := m.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		res, err := r.Resources.GetByID(ctx, l.ResourceID)
		if err != nil {
			return err
		}
		if err := p.RequireFor(user.CapManageLoans, res.DepartmentID); err != nil {
			return err
		}
		if !l.Open() {
			return loan.ErrAlreadyReturned
		}
		res, err = r.Resources.GetByIDForUpdate(ctx, l.ResourceID)
		if err != nil {
			return err
		}

		if err := l.Close(m.now().UTC()); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		res.Available = true
		if err := r.Resources.Save(ctx, res); err != nil {
			return err
		}

		borrower, err := r.Users.GetByID(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		dto = loanDTO(l, res, borrower, "", m.Today())
		return nil
	})
	if errors.Is(err, loan.ErrAlreadyReturned) {
		m.log.Warn("loan already returned; nothing to do",
			zap.String("loan_id", loanID),
			zap.String("by", p.PublicID))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	m.log.Info("loan returned", zap.String("loan_id", loanID), zap.String("by", p.PublicID))
	return dto, nil
}

// Extend replaces an open loan with a new one running until newDue. The old
// loan is closed, a fresh contract is issued and the resource stays lent.
func (m *Manager) Extend(ctx context.Context, p user.Principal, loanID string, newDue time.Time) (*LoanDTO, error) {
	if err := p.Require(user.CapManageLoans); err != nil {
		return nil, err
	}
	newDue = DateOnly(newDue)
	var (
		dto *LoanDTO
		fx  effects
	)
	err := m.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, old *loan.Loan) error {
		res, err := r.Resources.GetByID(ctx, old.ResourceID)
		if err != nil {
			return err
		}
		if err := p.RequireFor(user.CapManageLoans, res.DepartmentID); err != nil {
			return err
		}
		if !old.Open() {
			return loan.ErrAlreadyReturned
		}
		if !newDue.After(old.DueDate) || newDue.Before(m.Today()) {
			return loan.ErrInvalidDueDate
		}
		res, err = r.Resources.GetByIDForUpdate(ctx, old.ResourceID)
		if err != nil {
			return err
		}

		now := m.now().UTC()
		if err := old.Close(now); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, old); err != nil {
			return err
		}

		borrower, err := r.Users.GetByID(ctx, old.BorrowerID)
		if err != nil {
			return err
		}
		dept, err := r.Departments.GetByID(ctx, res.DepartmentID)
		if err != nil {
			return err
		}
		next := &loan.Loan{
			LoanID:         id.NewID32(),
			BorrowerID:     old.BorrowerID,
			ResourceID:     old.ResourceID,
			LoanRequestID:  old.LoanRequestID,
			LoanDate:       now,
			DueDate:        newDue,
			ExtendedFromID: &old.ID,
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
			DueDate:        newDue,
			ExtendsLoanID:  old.LoanID,
		})
		if err != nil {
			return err
		}
		next.ContractRef = ref
		if err := r.Loans.Create(ctx, next); err != nil {
			return err
		}
		if res.Available {
			res.Available = false
			if err := r.Resources.Save(ctx, res); err != nil {
				return err
			}
		}

		msg := fmt.Sprintf("Your loan of %s (%s) was extended until %s.", res.Name, res.Code, fmtDate(newDue))
		if err := fx.notify(ctx, r, borrower, notification.KindExtended, msg, loanURL(next), &next.ID); err != nil {
			return err
		}
		fx.mail(borrower, "Loan extended: "+res.Name, msg)

		dto = loanDTO(next, res, borrower, old.LoanID, m.Today())
		return nil
	})
	if err != nil {
		m.discard(ctx, &fx)
		return nil, err
	}
	m.flush(ctx, &fx)
	m.log.Info("loan extended",
		zap.String("loan_id", loanID),
		zap.String("new_loan_id", dto.LoanID),
		zap.String("due_date", dto.DueDate),
		zap.String("by", p.PublicID))
	return dto, nil
}

// CreateLoan lends a resource directly, without a prior request.
func (m *Manager) CreateLoan(ctx context.Context, p user.Principal, borrowerCode, resourceCode string, due time.Time) (*LoanDTO, error) {
	if err := p.Require(user.CapManageLoans); err != nil {
		return nil, err
	}
	due = DateOnly(due)
	if due.Before(m.Today()) {
		return nil, loan.ErrInvalidDueDate
	}
	var (
		dto *LoanDTO
		fx  effects
	)
	err := m.uow.WithinTx(ctx, func(r uow.Repos) error {
		borrower, err := r.Users.GetByCode(ctx, borrowerCode)
		if err != nil {
			return err
		}
		if !borrower.Role.Borrower() || !borrower.Active {
			return fmt.Errorf("%w: %s cannot borrow", user.ErrInvalidRole, borrowerCode)
		}
		found, err := r.Resources.GetByCode(ctx, resourceCode)
		if err != nil {
			return err
		}
		if err := p.RequireFor(user.CapManageLoans, found.DepartmentID); err != nil {
			return err
		}
		res, err := r.Resources.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}
		if err := ensureLendable(ctx, r, res); err != nil {
			return err
		}
		dept, err := r.Departments.GetByID(ctx, res.DepartmentID)
		if err != nil {
			return err
		}

		now := m.now().UTC()
		l := &loan.Loan{
			LoanID:     id.NewID32(),
			BorrowerID: borrower.ID,
			ResourceID: res.ID,
			LoanDate:   now,
			DueDate:    due,
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
			DueDate:        due,
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

		msg := fmt.Sprintf("%s (%s) was lent to you until %s.", res.Name, res.Code, fmtDate(due))
		if err := fx.notify(ctx, r, borrower, notification.KindApproved, msg, loanURL(l), &l.ID); err != nil {
			return err
		}
		fx.mail(borrower, "New loan: "+res.Name, msg)

		dto = loanDTO(l, res, borrower, "", m.Today())
		return nil
	})
	if err != nil {
		m.discard(ctx, &fx)
		return nil, err
	}
	m.flush(ctx, &fx)
	m.log.Info("loan created",
		zap.String("loan_id", dto.LoanID),
		zap.String("resource", resourceCode),
		zap.String("borrower", borrowerCode),
		zap.String("by", p.PublicID))
	return dto, nil
}

