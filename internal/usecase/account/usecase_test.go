package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/user"
	"campus-lending/internal/infrastructure/auth"
	"campus-lending/internal/testutil/usermock"
)

// depts satisfies department.Repository; only the admin lookup is used.
type depts struct {
	department.Repository
	byAdmin map[uint64]*department.Department
}

func (d depts) GetByAdminUserID(_ context.Context, userID uint64) (*department.Department, error) {
	if dep, ok := d.byAdmin[userID]; ok {
		return dep, nil
	}
	return nil, department.ErrNotFound
}

var passwords = auth.NewPasswords(bcrypt.MinCost)

func newUsecase(users user.Repository, d depts) *Usecase {
	return NewUsecase(users, d, passwords, auth.NewTokens("test-secret", time.Hour), nil)
}

func validInput() RegisterInput {
	return RegisterInput{
		Code: " 2019001 ", Email: "Ana@Uni.EDU", FirstName: "Ana", LastName: "Ruiz",
		Program: "Physics", Role: "student", Password: "correct horse", PasswordConfirm: "correct horse",
	}
}

func TestRegister(t *testing.T) {
	var created *user.User
	uc := newUsecase(&usermock.Repo{
		CreateFn: func(_ context.Context, u *user.User) error {
			created = u
			return nil
		},
	}, depts{})

	in := validInput()
	in.SignatureURL = " https://files.uni.edu/sig/2019001.png "
	dto, err := uc.Register(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "https://files.uni.edu/sig/2019001.png", created.SignatureURL)
	assert.Equal(t, "2019001", created.Code)
	assert.Equal(t, "ana@uni.edu", created.Email)
	assert.Equal(t, user.RoleStudent, created.Role)
	assert.True(t, created.Active)
	assert.Len(t, created.UserID, 32)
	ok, err := passwords.Matches(created.PasswordHash, "correct horse")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Ana Ruiz", dto.FullName)
}

func TestRegister_Rejections(t *testing.T) {
	cases := map[string]struct {
		mutate func(*RegisterInput)
		repo   *usermock.Repo
		want   error
	}{
		"admin role": {
			mutate: func(in *RegisterInput) { in.Role = "admin" },
			repo:   &usermock.Repo{}, want: user.ErrInvalidRole,
		},
		"unknown role": {
			mutate: func(in *RegisterInput) { in.Role = "janitor" },
			repo:   &usermock.Repo{}, want: user.ErrInvalidRole,
		},
		"password mismatch": {
			mutate: func(in *RegisterInput) { in.PasswordConfirm = "other" },
			repo:   &usermock.Repo{}, want: user.ErrPasswordMismatch,
		},
		"email taken": {
			mutate: func(*RegisterInput) {},
			repo: &usermock.Repo{ExistsByEmailFn: func(_ context.Context, email string) (bool, error) {
				return email == "ana@uni.edu", nil
			}},
			want: user.ErrDuplicateEmail,
		},
		"code taken": {
			mutate: func(*RegisterInput) {},
			repo: &usermock.Repo{ExistsByCodeFn: func(_ context.Context, code string) (bool, error) {
				return code == "2019001", nil
			}},
			want: user.ErrDuplicateCode,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			c.repo.CreateFn = func(context.Context, *user.User) error {
				t.Fatalf("Create must not be called")
				return nil
			}
			in := validInput()
			c.mutate(&in)
			_, err := newUsecase(c.repo, depts{}).Register(context.Background(), in)
			assert.ErrorIs(t, err, c.want)
		})
	}
}

func stored(t *testing.T, u user.User, plain string) *user.User {
	t.Helper()
	hash, err := passwords.Hash(plain)
	require.NoError(t, err)
	u.PasswordHash = hash
	return &u
}

func TestLogin_AndAuthenticate(t *testing.T) {
	admin := stored(t, user.User{ID: 1, UserID: "a1", Code: "ADM1", Role: user.RoleAdmin, Active: true}, "pw-admin-1")
	stu := stored(t, user.User{ID: 2, UserID: "s2", Code: "S2", Role: user.RoleStudent, Active: true}, "pw-student")
	byCode := map[string]*user.User{admin.Code: admin, stu.Code: stu}
	byPublic := map[string]*user.User{admin.UserID: admin, stu.UserID: stu}

	repo := &usermock.Repo{
		GetByCodeFn: func(_ context.Context, code string) (*user.User, error) {
			if u, ok := byCode[code]; ok {
				return u, nil
			}
			return nil, user.ErrNotFound
		},
		GetByUserIDFn: func(_ context.Context, id string) (*user.User, error) {
			if u, ok := byPublic[id]; ok {
				return u, nil
			}
			return nil, user.ErrNotFound
		},
	}
	physics := &department.Department{ID: 9, DepartmentID: "d9", Name: "Physics"}
	uc := newUsecase(repo, depts{byAdmin: map[uint64]*department.Department{1: physics}})
	ctx := context.Background()

	s, err := uc.Login(ctx, "ADM1", "pw-admin-1")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, "d9", s.User.Department)

	p, err := uc.Authenticate(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), p.UserID)
	assert.Equal(t, uint64(9), p.DepartmentID)
	assert.True(t, p.Administers(user.CapDecideRequests, 9))

	s, err = uc.Login(ctx, " S2 ", "pw-student")
	require.NoError(t, err)
	p, err = uc.Authenticate(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent, p.Role)
	assert.Zero(t, p.DepartmentID)

	_, err = uc.Login(ctx, "S2", "wrong")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = uc.Login(ctx, "nobody", "pw")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	stu.Active = false
	_, err = uc.Login(ctx, "S2", "pw-student")
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	_, err = uc.Authenticate(ctx, s.Token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = uc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestLogin_RepositoryFailure(t *testing.T) {
	boom := errors.New("db down")
	uc := newUsecase(&usermock.Repo{
		GetByCodeFn: func(context.Context, string) (*user.User, error) { return nil, boom },
	}, depts{})
	_, err := uc.Login(context.Background(), "S2", "pw")
	assert.ErrorIs(t, err, boom)
}
