// Package account registers borrowers, opens sessions and resolves the
// caller behind a session token.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/user"
	"campus-lending/internal/infrastructure/auth"
	"campus-lending/pkg/id"
)

type Hasher interface {
	Hash(plain string) (string, error)
	Matches(hash, plain string) (bool, error)
}

type TokenIssuer interface {
	Issue(userID, role string) (string, time.Time, error)
	Verify(token string) (*auth.Claims, error)
}

type Usecase struct {
	users  user.Repository
	depts  department.Repository
	hasher Hasher
	tokens TokenIssuer
	log    *zap.Logger
}

func NewUsecase(users user.Repository, depts department.Repository, hasher Hasher, tokens TokenIssuer, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{users: users, depts: depts, hasher: hasher, tokens: tokens, log: log}
}

// Register creates an active borrower account. Administrators are assigned
// out of band, never through self-registration.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	role, err := user.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	if !role.Borrower() {
		return nil, user.ErrInvalidRole
	}
	if in.Password != in.PasswordConfirm {
		return nil, user.ErrPasswordMismatch
	}
	code := strings.TrimSpace(in.Code)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	taken, err := u.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, user.ErrDuplicateEmail
	}
	if taken, err = u.users.ExistsByCode(ctx, code); err != nil {
		return nil, err
	}
	if taken {
		return nil, user.ErrDuplicateCode
	}

	hash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	usr := &user.User{
		UserID:       id.NewID32(),
		Code:         code,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Program:      strings.TrimSpace(in.Program),
		SignatureURL: strings.TrimSpace(in.SignatureURL),
		Role:         role,
		PasswordHash: hash,
		Active:       true,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		return nil, err
	}
	u.log.Info("user registered", zap.String("user_id", usr.UserID), zap.String("role", string(role)))
	return toDTO(usr, nil), nil
}

// Login checks code and password and issues a session token. Unknown codes,
// inactive accounts and wrong passwords look the same to the caller.
func (u *Usecase) Login(ctx context.Context, code, password string) (*SessionDTO, error) {
	usr, err := u.users.GetByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, user.ErrNotFound) {
		return nil, user.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !usr.Active {
		return nil, user.ErrInvalidCredentials
	}
	ok, err := u.hasher.Matches(usr.PasswordHash, password)
	if err != nil {
		u.log.Warn("stored password hash unusable", zap.String("user_id", usr.UserID), zap.Error(err))
		return nil, user.ErrInvalidCredentials
	}
	if !ok {
		return nil, user.ErrInvalidCredentials
	}
	token, exp, err := u.tokens.Issue(usr.UserID, string(usr.Role))
	if err != nil {
		return nil, err
	}
	dept, err := u.administered(ctx, usr)
	if err != nil {
		return nil, err
	}
	return &SessionDTO{Token: token, ExpiresAt: exp, User: *toDTO(usr, dept)}, nil
}

// Authenticate resolves a session token into the calling principal.
func (u *Usecase) Authenticate(ctx context.Context, token string) (user.Principal, error) {
	claims, err := u.tokens.Verify(token)
	if err != nil {
		return user.Principal{}, err
	}
	usr, err := u.users.GetByUserID(ctx, claims.Subject)
	if errors.Is(err, user.ErrNotFound) {
		return user.Principal{}, auth.ErrInvalidToken
	}
	if err != nil {
		return user.Principal{}, err
	}
	if !usr.Active {
		return user.Principal{}, auth.ErrInvalidToken
	}
	dept, err := u.administered(ctx, usr)
	if err != nil {
		return user.Principal{}, err
	}
	var deptID uint64
	if dept != nil {
		deptID = dept.ID
	}
	return user.NewPrincipal(usr, deptID), nil
}

// Me returns the caller's profile.
func (u *Usecase) Me(ctx context.Context, p user.Principal) (*UserDTO, error) {
	usr, err := u.users.GetByID(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	dept, err := u.administered(ctx, usr)
	if err != nil {
		return nil, err
	}
	return toDTO(usr, dept), nil
}

// administered is nil for non-admins and admins without a department.
func (u *Usecase) administered(ctx context.Context, usr *user.User) (*department.Department, error) {
	if usr.Role != user.RoleAdmin {
		return nil, nil
	}
	dept, err := u.depts.GetByAdminUserID(ctx, usr.ID)
	if errors.Is(err, department.ErrNotFound) {
		return nil, nil
	}
	return dept, err
}

func toDTO(u *user.User, dept *department.Department) *UserDTO {
	out := &UserDTO{
		UserID:   u.UserID,
		Code:     u.Code,
		Email:    u.Email,
		FullName: u.FullName(),
		Program:  u.Program,
		Role:     string(u.Role),
	}
	if dept != nil {
		out.Department = dept.DepartmentID
	}
	return out
}
