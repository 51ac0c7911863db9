// Package stats builds the dashboards: department figures for administrators
// and a personal summary for borrowers.
package stats

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
)

const (
	TopResourcesLimit = 5
	RecentLoansLimit  = 10
)

var hundred = decimal.NewFromInt(100)

type Usecase struct {
	repos uow.Repos
	now   func() time.Time
	loc   *time.Location
}

type Option func(*Usecase)

func WithClock(now func() time.Time) Option  { return func(u *Usecase) { u.now = now } }
func WithLocation(loc *time.Location) Option { return func(u *Usecase) { u.loc = loc } }

func NewUsecase(repos uow.Repos, opts ...Option) *Usecase {
	u := &Usecase{repos: repos, now: time.Now, loc: time.UTC}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) today() time.Time {
	y, m, d := u.now().In(u.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Utilization returns lent/total as a percentage rounded to two decimals.
func Utilization(total, available int64) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	lent := decimal.NewFromInt(total - available)
	return lent.Mul(hundred).Div(decimal.NewFromInt(total)).Round(2)
}

func (u *Usecase) Admin(ctx context.Context, p user.Principal) (*AdminDashboard, error) {
	if err := p.Require(user.CapViewDepartmentStats); err != nil {
		return nil, err
	}
	if p.DepartmentID == 0 {
		return nil, user.ErrForbidden
	}
	deptID := p.DepartmentID
	dept, err := u.repos.Departments.GetByID(ctx, deptID)
	if err != nil {
		return nil, err
	}
	today := u.today()
	yes := true

	out := &AdminDashboard{Department: dept.Name}
	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&out.TotalResources, func() (int64, error) {
			return u.repos.Resources.Count(ctx, resource.Filter{DepartmentID: deptID})
		}},
		{&out.AvailableResources, func() (int64, error) {
			return u.repos.Resources.Count(ctx, resource.Filter{DepartmentID: deptID, Available: &yes})
		}},
		{&out.ActiveLoans, func() (int64, error) {
			return u.repos.Loans.Count(ctx, loan.Filter{DepartmentID: deptID, State: loan.StateActive})
		}},
		{&out.OverdueLoans, func() (int64, error) {
			return u.repos.Loans.Count(ctx, loan.Filter{DepartmentID: deptID, State: loan.StateActive, DueBefore: &today})
		}},
		{&out.ReturnedLoans, func() (int64, error) {
			return u.repos.Loans.Count(ctx, loan.Filter{DepartmentID: deptID, State: loan.StateReturned})
		}},
		{&out.PendingRequests, func() (int64, error) {
			return u.repos.Requests.Count(ctx, loanrequest.Filter{DepartmentID: deptID, Status: loanrequest.StatusPending})
		}},
	}
	for _, c := range counts {
		if *c.dst, err = c.fn(); err != nil {
			return nil, err
		}
	}
	out.Utilization = Utilization(out.TotalResources, out.AvailableResources)

	usage, err := u.repos.Loans.TopResources(ctx, deptID, TopResourcesLimit)
	if err != nil {
		return nil, err
	}
	out.TopResources = make([]ResourceUsage, 0, len(usage))
	for _, ru := range usage {
		res, err := u.repos.Resources.GetByID(ctx, ru.ResourceID)
		if err != nil {
			return nil, err
		}
		out.TopResources = append(out.TopResources, ResourceUsage{Code: res.Code, Name: res.Name, Loans: ru.Loans})
	}

	recent, err := u.repos.Loans.List(ctx, loan.Filter{DepartmentID: deptID, State: loan.StateAll, Limit: RecentLoansLimit})
	if err != nil {
		return nil, err
	}
	if out.RecentLoans, err = u.summaries(ctx, recent, today); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Borrower(ctx context.Context, p user.Principal) (*BorrowerDashboard, error) {
	if err := p.Require(user.CapRequestLoan); err != nil {
		return nil, err
	}
	loans, err := u.repos.Loans.List(ctx, loan.Filter{BorrowerID: p.UserID, State: loan.StateAll})
	if err != nil {
		return nil, err
	}
	today := u.today()
	out := &BorrowerDashboard{}
	for i := range loans {
		switch l := &loans[i]; {
		case l.Returned:
			out.ReturnedLoans++
		case l.Overdue(today):
			out.ActiveLoans++
			out.OverdueLoans++
		default:
			out.ActiveLoans++
		}
	}
	if out.PendingRequests, err = u.repos.Requests.Count(ctx, loanrequest.Filter{RequesterID: p.UserID, Status: loanrequest.StatusPending}); err != nil {
		return nil, err
	}
	if out.Loans, err = u.summaries(ctx, loans, today); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) summaries(ctx context.Context, loans []loan.Loan, today time.Time) ([]LoanSummary, error) {
	resources := map[uint64]*resource.Resource{}
	borrowers := map[uint64]*user.User{}
	out := make([]LoanSummary, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		res, ok := resources[l.ResourceID]
		if !ok {
			var err error
			if res, err = u.repos.Resources.GetByID(ctx, l.ResourceID); err != nil {
				return nil, err
			}
			resources[l.ResourceID] = res
		}
		b, ok := borrowers[l.BorrowerID]
		if !ok {
			var err error
			if b, err = u.repos.Users.GetByID(ctx, l.BorrowerID); err != nil {
				return nil, err
			}
			borrowers[l.BorrowerID] = b
		}
		out = append(out, LoanSummary{
			LoanID:       l.LoanID,
			ResourceCode: res.Code,
			ResourceName: res.Name,
			BorrowerName: b.FullName(),
			LoanDate:     l.LoanDate,
			DueDate:      l.DueDate.Format("2006-01-02"),
			Returned:     l.Returned,
			Overdue:      l.Overdue(today),
		})
	}
	return out, nil
}
