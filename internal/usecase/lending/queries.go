package lending

import (
	"context"

	"campus-lending/internal/domain/contract"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/loanrequest"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
)

// lookup memoizes the users and resources referenced by a listing.
type lookup struct {
	r         uow.Repos
	users     map[uint64]*user.User
	resources map[uint64]*resource.Resource
}

func newLookup(r uow.Repos) *lookup {
	return &lookup{r: r, users: map[uint64]*user.User{}, resources: map[uint64]*resource.Resource{}}
}

func (k *lookup) user(ctx context.Context, id uint64) (*user.User, error) {
	if u, ok := k.users[id]; ok {
		return u, nil
	}
	u, err := k.r.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	k.users[id] = u
	return u, nil
}

func (k *lookup) resource(ctx context.Context, id uint64) (*resource.Resource, error) {
	if res, ok := k.resources[id]; ok {
		return res, nil
	}
	res, err := k.r.Resources.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	k.resources[id] = res
	return res, nil
}

// scope restricts a listing to the administered department for admins and
// to the caller's own records otherwise.
func scope(p user.Principal, adminCap user.Capability) (departmentID, ownerID uint64, err error) {
	switch {
	case p.Can(adminCap):
		if p.DepartmentID == 0 {
			return 0, 0, user.ErrForbidden
		}
		return p.DepartmentID, 0, nil
	case p.Can(user.CapRequestLoan):
		return 0, p.UserID, nil
	}
	return 0, 0, user.ErrForbidden
}

// ListRequests lists the department's requests for an admin and the caller's
// own requests otherwise, newest first. An empty status lists all.
func (m *Manager) ListRequests(ctx context.Context, p user.Principal, status string) ([]RequestDTO, error) {
	deptID, ownerID, err := scope(p, user.CapDecideRequests)
	if err != nil {
		return nil, err
	}
	f := loanrequest.Filter{DepartmentID: deptID, RequesterID: ownerID}
	if status != "" {
		if f.Status, err = loanrequest.ParseStatus(status); err != nil {
			return nil, err
		}
	}
	reqs, err := m.repos.Requests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	k := newLookup(m.repos)
	out := make([]RequestDTO, 0, len(reqs))
	for i := range reqs {
		res, err := k.resource(ctx, reqs[i].ResourceID)
		if err != nil {
			return nil, err
		}
		requester, err := k.user(ctx, reqs[i].RequesterID)
		if err != nil {
			return nil, err
		}
		out = append(out, *requestDTO(&reqs[i], res, requester))
	}
	return out, nil
}

// ListLoans lists loans in the given state: active ones by due date, the
// rest newest first.
func (m *Manager) ListLoans(ctx context.Context, p user.Principal, state loan.State) ([]LoanDTO, error) {
	deptID, ownerID, err := scope(p, user.CapManageLoans)
	if err != nil {
		return nil, err
	}
	loans, err := m.repos.Loans.List(ctx, loan.Filter{DepartmentID: deptID, BorrowerID: ownerID, State: state})
	if err != nil {
		return nil, err
	}
	return m.loanDTOs(ctx, newLookup(m.repos), loans)
}

func (m *Manager) loanDTOs(ctx context.Context, k *lookup, loans []loan.Loan) ([]LoanDTO, error) {
	today := m.Today()
	out := make([]LoanDTO, 0, len(loans))
	for i := range loans {
		l := &loans[i]
		res, err := k.resource(ctx, l.ResourceID)
		if err != nil {
			return nil, err
		}
		borrower, err := k.user(ctx, l.BorrowerID)
		if err != nil {
			return nil, err
		}
		out = append(out, *loanDTO(l, res, borrower, "", today))
	}
	return out, nil
}

// visibleLoan loads a loan the principal may see: its borrower or the
// administrator of the owning department.
func (m *Manager) visibleLoan(ctx context.Context, p user.Principal, loanID string) (*loan.Loan, *resource.Resource, error) {
	l, err := m.repos.Loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, nil, err
	}
	res, err := m.repos.Resources.GetByID(ctx, l.ResourceID)
	if err != nil {
		return nil, nil, err
	}
	if l.BorrowerID != p.UserID && !p.Administers(user.CapManageLoans, res.DepartmentID) {
		// hide existence from strangers
		return nil, nil, loan.ErrNotFound
	}
	return l, res, nil
}

func (m *Manager) GetLoan(ctx context.Context, p user.Principal, loanID string) (*LoanDTO, error) {
	l, res, err := m.visibleLoan(ctx, p, loanID)
	if err != nil {
		return nil, err
	}
	borrower, err := m.repos.Users.GetByID(ctx, l.BorrowerID)
	if err != nil {
		return nil, err
	}
	prev := ""
	if l.ExtendedFromID != nil {
		earlier, err := m.repos.Loans.GetByID(ctx, *l.ExtendedFromID)
		if err != nil {
			return nil, err
		}
		prev = earlier.LoanID
	}
	return loanDTO(l, res, borrower, prev, m.Today()), nil
}

// Contract returns the PDF issued for a loan.
func (m *Manager) Contract(ctx context.Context, p user.Principal, loanID string) ([]byte, error) {
	l, _, err := m.visibleLoan(ctx, p, loanID)
	if err != nil {
		return nil, err
	}
	if l.ContractRef == "" {
		return nil, contract.ErrNotFound
	}
	return m.contracts.Get(ctx, l.ContractRef)
}
