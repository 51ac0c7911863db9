package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lending/internal/adapter/repository/mysql"
	"campus-lending/internal/domain/department"
	"campus-lending/internal/domain/resource"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
	"campus-lending/internal/testutil/testdb"
	"campus-lending/internal/testutil/uowmock"
)

type fixture struct {
	uc     *Usecase
	repos  uow.Repos
	admin  user.Principal
	stu    user.Principal
	dept   *department.Department
	others *department.Department
}

func setup(t *testing.T) (*fixture, func(code string) *resource.Resource) {
	t.Helper()
	db := testdb.Open(t)
	admin := testdb.User(t, db, user.RoleAdmin, "ADM1")
	stu := testdb.User(t, db, user.RoleStudent, "S1")
	dept := testdb.Department(t, db, "Physics Lab", admin)
	others := testdb.Department(t, db, "Library", nil)

	repos := mysql.NewRepos(db)
	f := &fixture{
		uc:     NewUsecase(repos, mysql.NewGormUoW(db), nil),
		repos:  repos,
		admin:  user.NewPrincipal(admin, dept.ID),
		stu:    user.NewPrincipal(stu, 0),
		dept:   dept,
		others: others,
	}
	lend := func(code string) *resource.Resource {
		res, err := mysql.NewResourceRepository(db).GetByCode(context.Background(), code)
		require.NoError(t, err)
		testdb.Loan(t, db, stu, res, testdb.Date(2025, 5, 10), false)
		res.Available = false
		require.NoError(t, db.Save(res).Error)
		return res
	}
	return f, lend
}

func TestAdd(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()

	dto, err := f.uc.Add(ctx, f.admin, ResourceInput{Code: " OSC-01 ", Type: "equipment", Name: "Oscilloscope"})
	require.NoError(t, err)
	assert.Equal(t, "OSC-01", dto.Code)
	assert.True(t, dto.Available)
	assert.Equal(t, f.dept.DepartmentID, dto.DepartmentID)

	_, err = f.uc.Add(ctx, f.admin, ResourceInput{Code: "OSC-01", Type: "equipment", Name: "Another"})
	assert.ErrorIs(t, err, resource.ErrDuplicateCode)

	_, err = f.uc.Add(ctx, f.admin, ResourceInput{Code: "X", Type: "", Name: "No type"})
	assert.ErrorIs(t, err, resource.ErrInvalid)

	_, err = f.uc.Add(ctx, f.stu, ResourceInput{Code: "Y", Type: "room", Name: "Room"})
	assert.ErrorIs(t, err, user.ErrForbidden)
}

func TestUpdate(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, f.admin, ResourceInput{Code: "A", Type: "room", Name: "Room A"})
	require.NoError(t, err)
	_, err = f.uc.Add(ctx, f.admin, ResourceInput{Code: "B", Type: "room", Name: "Room B"})
	require.NoError(t, err)

	dto, err := f.uc.Update(ctx, f.admin, "A", ResourceInput{Code: "A2", Type: "room", Name: "Room A (renovated)"})
	require.NoError(t, err)
	assert.Equal(t, "A2", dto.Code)
	assert.Equal(t, "Room A (renovated)", dto.Name)

	_, err = f.uc.Update(ctx, f.admin, "A2", ResourceInput{Code: "B", Type: "room", Name: "clash"})
	assert.ErrorIs(t, err, resource.ErrDuplicateCode)

	_, err = f.uc.Update(ctx, f.admin, "A", ResourceInput{Code: "A", Type: "room", Name: "gone"})
	assert.ErrorIs(t, err, resource.ErrNotFound)
}

// lendingResources lends the resource right after it is looked up by code,
// the way a concurrent approval would.
type lendingResources struct {
	resource.Repository
	afterRead func()
}

func (r lendingResources) GetByCode(ctx context.Context, code string) (*resource.Resource, error) {
	res, err := r.Repository.GetByCode(ctx, code)
	if err == nil && r.afterRead != nil {
		r.afterRead()
	}
	return res, err
}

func TestUpdate_KeepsAvailabilityOfConcurrentLoan(t *testing.T) {
	f, lend := setup(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, f.admin, ResourceInput{Code: "OSC-01", Type: "equipment", Name: "Oscilloscope"})
	require.NoError(t, err)

	repos := f.repos
	repos.Resources = lendingResources{Repository: f.repos.Resources, afterRead: func() { lend("OSC-01") }}
	tx := uowmock.New().WithWithinTx(func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) })
	uc := NewUsecase(repos, tx, nil)

	dto, err := uc.Update(ctx, f.admin, "OSC-01", ResourceInput{Code: "OSC-01", Type: "equipment", Name: "Scope (recalibrated)"})
	require.NoError(t, err)
	assert.False(t, dto.Available)

	got, err := f.repos.Resources.GetByCode(ctx, "OSC-01")
	require.NoError(t, err)
	assert.False(t, got.Available, "an open loan exists")
	assert.Equal(t, "Scope (recalibrated)", got.Name)
}

func TestUpdate_OtherDepartment(t *testing.T) {
	f, _ := setup(t)
	ctx := context.Background()
	_, err := f.uc.Add(ctx, f.admin, ResourceInput{Code: "A", Type: "room", Name: "Room A"})
	require.NoError(t, err)

	stranger := f.admin
	stranger.DepartmentID = f.others.ID
	_, err = f.uc.Update(ctx, stranger, "A", ResourceInput{Code: "A", Type: "room", Name: "mine now"})
	assert.ErrorIs(t, err, user.ErrForbidden)
	assert.ErrorIs(t, f.uc.Delete(ctx, stranger, "A"), user.ErrForbidden)
}

func TestDelete(t *testing.T) {
	f, lend := setup(t)
	ctx := context.Background()
	for _, code := range []string{"A", "B"} {
		_, err := f.uc.Add(ctx, f.admin, ResourceInput{Code: code, Type: "room", Name: "Room " + code})
		require.NoError(t, err)
	}
	lend("B")

	assert.ErrorIs(t, f.uc.Delete(ctx, f.admin, "B"), resource.ErrOnLoan)
	require.NoError(t, f.uc.Delete(ctx, f.admin, "A"))
	assert.ErrorIs(t, f.uc.Delete(ctx, f.admin, "A"), resource.ErrNotFound)

	// deleted codes stay reserved
	_, err := f.uc.Add(ctx, f.admin, ResourceInput{Code: "A", Type: "room", Name: "Room A again"})
	assert.ErrorIs(t, err, resource.ErrDuplicateCode)
}

func TestListings(t *testing.T) {
	f, lend := setup(t)
	ctx := context.Background()
	inputs := []ResourceInput{
		{Code: "R2", Type: "room", Name: "Seminar"},
		{Code: "E1", Type: "equipment", Name: "Scope"},
		{Code: "R1", Type: "room", Name: "Auditorium"},
	}
	for _, in := range inputs {
		_, err := f.uc.Add(ctx, f.admin, in)
		require.NoError(t, err)
	}
	lend("R2")

	groups, err := f.uc.Inventory(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "equipment", groups[0].Type)
	assert.Equal(t, "room", groups[1].Type)
	require.Len(t, groups[1].Resources, 2)
	assert.Equal(t, "Auditorium", groups[1].Resources[0].Name)

	out, err := f.uc.Unavailable(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "R2", out[0].Code)

	_, err = f.uc.Inventory(ctx, f.stu)
	assert.ErrorIs(t, err, user.ErrForbidden)

	depts, err := f.uc.Departments(ctx, f.stu)
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, "Library", depts[0].Name)
	assert.Empty(t, depts[0].AdminName)
	assert.Equal(t, "Physics Lab", depts[1].Name)
	assert.Equal(t, "FirstADM1 Last", depts[1].AdminName)
	assert.EqualValues(t, 3, depts[1].Resources)
	assert.EqualValues(t, 2, depts[1].Available)

	cat, err := f.uc.Catalog(ctx, f.stu, f.dept.DepartmentID)
	require.NoError(t, err)
	assert.Equal(t, "Physics Lab", cat.Department.Name)
	assert.Len(t, cat.Groups, 2)

	_, err = f.uc.Catalog(ctx, f.stu, "missing")
	assert.ErrorIs(t, err, department.ErrNotFound)

	one, err := f.uc.Get(ctx, f.stu, "E1")
	require.NoError(t, err)
	assert.Equal(t, "Scope", one.Name)
}
