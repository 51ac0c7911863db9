// Package inventory manages the resources a department lends and the public
// catalog borrowers browse.
package inventory

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
)

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	log   *zap.Logger
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repos: repos, uow: tx, log: log}
}

func (in ResourceInput) normalized() (ResourceInput, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Type = strings.TrimSpace(in.Type)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	if in.Code == "" || in.Type == "" || in.Name == "" {
		return in, resource.ErrInvalid
	}
	return in, nil
}

// ownDepartment is the department an inventory manager administers.
func ownDepartment(p user.Principal) (uint64, error) {
	if err := p.Require(user.CapManageInventory); err != nil {
		return 0, err
	}
	if p.DepartmentID == 0 {
		return 0, user.ErrForbidden
	}
	return p.DepartmentID, nil
}

// Add registers a new, available resource in the caller's department.
func (u *Usecase) Add(ctx context.Context, p user.Principal, in ResourceInput) (*ResourceDTO, error) {
	deptID, err := ownDepartment(p)
	if err != nil {
		return nil, err
	}
	if in, err = in.normalized(); err != nil {
		return nil, err
	}
	var dto *ResourceDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		taken, err := r.Resources.ExistsByCode(ctx, in.Code)
		if err != nil {
			return err
		}
		if taken {
			return resource.ErrDuplicateCode
		}
		dept, err := r.Departments.GetByID(ctx, deptID)
		if err != nil {
			return err
		}
		res := &resource.Resource{
			Code:         in.Code,
			Type:         in.Type,
			Name:         in.Name,
			Description:  in.Description,
			PhotoURL:     in.PhotoURL,
			DepartmentID: deptID,
			Available:    true,
		}
		if err := r.Resources.Create(ctx, res); err != nil {
			return err
		}
		dto = toDTO(res, dept)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("resource added", zap.String("code", dto.Code), zap.String("by", p.PublicID))
	return dto, nil
}

// Update edits a resource of the caller's department. The code may change as
// long as the new one was never used.
func (u *Usecase) Update(ctx context.Context, p user.Principal, code string, in ResourceInput) (*ResourceDTO, error) {
	if _, err := ownDepartment(p); err != nil {
		return nil, err
	}
	in, err := in.normalized()
	if err != nil {
		return nil, err
	}
	var dto *ResourceDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		found, err := r.Resources.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := p.RequireFor(user.CapManageInventory, found.DepartmentID); err != nil {
			return err
		}
		// Save writes every column; the locked read keeps Available current.
		res, err := r.Resources.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}
		if in.Code != res.Code {
			taken, err := r.Resources.ExistsByCode(ctx, in.Code)
			if err != nil {
				return err
			}
			if taken {
				return resource.ErrDuplicateCode
			}
		}
		res.Code = in.Code
		res.Type = in.Type
		res.Name = in.Name
		res.Description = in.Description
		res.PhotoURL = in.PhotoURL
		if err := r.Resources.Save(ctx, res); err != nil {
			return err
		}
		dept, err := r.Departments.GetByID(ctx, res.DepartmentID)
		if err != nil {
			return err
		}
		dto = toDTO(res, dept)
		return nil
	})
	if err != nil {
		return nil, err
	}
	u.log.Info("resource updated", zap.String("code", code), zap.String("new_code", dto.Code), zap.String("by", p.PublicID))
	return dto, nil
}

// Delete removes a resource that is not on loan. Loan history keeps it.
func (u *Usecase) Delete(ctx context.Context, p user.Principal, code string) error {
	if _, err := ownDepartment(p); err != nil {
		return err
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		found, err := r.Resources.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := p.RequireFor(user.CapManageInventory, found.DepartmentID); err != nil {
			return err
		}
		res, err := r.Resources.GetByIDForUpdate(ctx, found.ID)
		if err != nil {
			return err
		}
		open, err := r.Loans.CountOpenByResourceID(ctx, res.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return resource.ErrOnLoan
		}
		return r.Resources.Delete(ctx, res)
	})
	if err != nil {
		return err
	}
	u.log.Info("resource deleted", zap.String("code", code), zap.String("by", p.PublicID))
	return nil
}

// Inventory lists the caller's department resources grouped by type.
func (u *Usecase) Inventory(ctx context.Context, p user.Principal) ([]TypeGroup, error) {
	deptID, err := ownDepartment(p)
	if err != nil {
		return nil, err
	}
	return u.grouped(ctx, resource.Filter{DepartmentID: deptID})
}

// Unavailable lists the caller's department resources currently lent out.
func (u *Usecase) Unavailable(ctx context.Context, p user.Principal) ([]ResourceDTO, error) {
	deptID, err := ownDepartment(p)
	if err != nil {
		return nil, err
	}
	dept, err := u.repos.Departments.GetByID(ctx, deptID)
	if err != nil {
		return nil, err
	}
	no := false
	list, err := u.repos.Resources.List(ctx, resource.Filter{DepartmentID: deptID, Available: &no})
	if err != nil {
		return nil, err
	}
	out := make([]ResourceDTO, 0, len(list))
	for i := range list {
		out = append(out, *toDTO(&list[i], dept))
	}
	return out, nil
}

func (u *Usecase) Departments(ctx context.Context, p user.Principal) ([]DepartmentDTO, error) {
	if err := p.Require(user.CapBrowseDepartments); err != nil {
		return nil, err
	}
	depts, err := u.repos.Departments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DepartmentDTO, 0, len(depts))
	for i := range depts {
		d, err := u.departmentDTO(ctx, &depts[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

// Catalog lists one department's resources grouped by type.
func (u *Usecase) Catalog(ctx context.Context, p user.Principal, departmentID string) (*CatalogDTO, error) {
	if err := p.Require(user.CapBrowseDepartments); err != nil {
		return nil, err
	}
	dept, err := u.repos.Departments.GetByDepartmentID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	d, err := u.departmentDTO(ctx, dept)
	if err != nil {
		return nil, err
	}
	groups, err := u.grouped(ctx, resource.Filter{DepartmentID: dept.ID})
	if err != nil {
		return nil, err
	}
	return &CatalogDTO{Department: *d, Groups: groups}, nil
}

// Get returns a single resource by code.
func (u *Usecase) Get(ctx context.Context, p user.Principal, code string) (*ResourceDTO, error) {
	if err := p.Require(user.CapBrowseDepartments); err != nil {
		return nil, err
	}
	res, err := u.repos.Resources.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	dept, err := u.repos.Departments.GetByID(ctx, res.DepartmentID)
	if err != nil {
		return nil, err
	}
	return toDTO(res, dept), nil
}

func (u *Usecase) departmentDTO(ctx context.Context, d *department.Department) (*DepartmentDTO, error) {
	out := &DepartmentDTO{DepartmentID: d.DepartmentID, Name: d.Name, Description: d.Description}
	if d.AdminUserID != nil {
		admin, err := u.repos.Users.GetByID(ctx, *d.AdminUserID)
		switch {
		case errors.Is(err, user.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			out.AdminName = admin.FullName()
		}
	}
	var err error
	if out.Resources, err = u.repos.Resources.Count(ctx, resource.Filter{DepartmentID: d.ID}); err != nil {
		return nil, err
	}
	yes := true
	if out.Available, err = u.repos.Resources.Count(ctx, resource.Filter{DepartmentID: d.ID, Available: &yes}); err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) grouped(ctx context.Context, f resource.Filter) ([]TypeGroup, error) {
	dept, err := u.repos.Departments.GetByID(ctx, f.DepartmentID)
	if err != nil {
		return nil, err
	}
	list, err := u.repos.Resources.List(ctx, f)
	if err != nil {
		return nil, err
	}
	groups := []TypeGroup{}
	for i := range list {
		res := &list[i]
		if n := len(groups); n == 0 || groups[n-1].Type != res.Type {
			groups = append(groups, TypeGroup{Type: res.Type})
		}
		g := &groups[len(groups)-1]
		g.Resources = append(g.Resources, *toDTO(res, dept))
	}
	return groups, nil
}

func toDTO(r *resource.Resource, d *department.Department) *ResourceDTO {
	return &ResourceDTO{
		Code:         r.Code,
		Type:         r.Type,
		Name:         r.Name,
		Description:  r.Description,
		PhotoURL:     r.PhotoURL,
		Available:    r.Available,
		DepartmentID: d.DepartmentID,
		CreatedAt:    r.CreatedAt,
	}
}
