package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-lending/internal/adapter/repository/mysql"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
	"campus-lending/internal/testutil/fakes"
	"campus-lending/internal/testutil/testdb"
)

type spyCache struct{ ids []uint64 }

func (s *spyCache) Invalidate(_ context.Context, ids ...uint64) error {
	s.ids = append(s.ids, ids...)
	return nil
}

func kinds(t *testing.T, repos uow.Repos, u *user.User) map[notification.Kind]int {
	t.Helper()
	ns, err := repos.Notifications.ListByRecipient(context.Background(), u.ID, false, 0)
	require.NoError(t, err)
	out := map[notification.Kind]int{}
	for _, n := range ns {
		out[n.Kind]++
	}
	return out
}

func TestRun(t *testing.T) {
	db := testdb.Open(t)
	repos := mysql.NewRepos(db)
	clock := fakes.NewClock(time.Date(2025, 5, 1, 15, 0, 0, 0, time.UTC))
	mailer := &fakes.Mailer{}
	cache := &spyCache{}
	n := NewNotifier(mysql.NewGormUoW(db), repos, mailer,
		WithClock(clock.Now), WithUnreadCache(cache))

	admin := testdb.User(t, db, user.RoleAdmin, "ADM1")
	stu := testdb.User(t, db, user.RoleStudent, "S1")
	prof := testdb.User(t, db, user.RoleProfessor, "P1")
	dept := testdb.Department(t, db, "Physics", admin)
	r1 := testdb.Resource(t, db, dept, "R1", false)
	r2 := testdb.Resource(t, db, dept, "R2", false)
	r3 := testdb.Resource(t, db, dept, "R3", true)
	r4 := testdb.Resource(t, db, dept, "R4", false)

	testdb.Loan(t, db, stu, r1, testdb.Date(2025, 5, 2), false)  // due tomorrow
	testdb.Loan(t, db, prof, r2, testdb.Date(2025, 5, 1), false) // due today
	testdb.Loan(t, db, stu, r3, testdb.Date(2025, 5, 2), true)   // returned
	testdb.Loan(t, db, prof, r4, testdb.Date(2025, 5, 9), false) // not yet

	ctx := context.Background()
	rep, err := n.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{DueSoon: 1, Overdue: 1, Notifications: 4, MailsSent: 2}, rep)

	assert.Equal(t, map[notification.Kind]int{notification.KindDueSoon: 1}, kinds(t, repos, stu))
	assert.Equal(t, map[notification.Kind]int{notification.KindOverdue: 1}, kinds(t, repos, prof))
	assert.Equal(t, map[notification.Kind]int{notification.KindDueSoon: 1, notification.KindOverdue: 1}, kinds(t, repos, admin))
	assert.ElementsMatch(t, []uint64{stu.ID, admin.ID, prof.ID, admin.ID}, cache.ids)

	sent := mailer.Sent()
	require.Len(t, sent, 2)
	assert.Equal(t, stu.Email, sent[0].To)
	assert.Contains(t, sent[0].Body, "tomorrow (02/05/2025)")
	assert.Equal(t, prof.Email, sent[1].To)

	// same day again: nothing new
	clock.Advance(2 * time.Hour)
	rep, err = n.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{DueSoon: 1, Overdue: 1, Skipped: 4}, rep)
	assert.Len(t, mailer.Sent(), 2)

	// next day: R1 is now due today
	clock.Set(time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC))
	rep, err = n.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Report{Overdue: 1, Notifications: 2, MailsSent: 1}, rep)
	assert.Equal(t, map[notification.Kind]int{notification.KindDueSoon: 1, notification.KindOverdue: 1}, kinds(t, repos, stu))
}

func TestRun_DepartmentWithoutAdminAndMailFailure(t *testing.T) {
	db := testdb.Open(t)
	repos := mysql.NewRepos(db)
	mailer := &fakes.Mailer{Err: errors.New("smtp down")}
	n := NewNotifier(mysql.NewGormUoW(db), repos, mailer,
		WithClock(fakes.NewClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)).Now))

	stu := testdb.User(t, db, user.RoleStudent, "S1")
	dept := testdb.Department(t, db, "Archive", nil)
	res := testdb.Resource(t, db, dept, "A1", false)
	testdb.Loan(t, db, stu, res, testdb.Date(2025, 5, 2), false)

	rep, err := n.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Report{DueSoon: 1, Notifications: 1, MailsFailed: 1}, rep)
	assert.Equal(t, map[notification.Kind]int{notification.KindDueSoon: 1}, kinds(t, repos, stu))
}

func TestRun_UsesLocalCalendarDay(t *testing.T) {
	db := testdb.Open(t)
	repos := mysql.NewRepos(db)
	bogota := time.FixedZone("COT", -5*3600)
	// 03:00 UTC on May 2nd is the evening of May 1st in Bogota
	n := NewNotifier(mysql.NewGormUoW(db), repos, &fakes.Mailer{},
		WithClock(fakes.NewClock(time.Date(2025, 5, 2, 3, 0, 0, 0, time.UTC)).Now),
		WithLocation(bogota))

	stu := testdb.User(t, db, user.RoleStudent, "S1")
	dept := testdb.Department(t, db, "Physics", nil)
	res := testdb.Resource(t, db, dept, "R1", false)
	testdb.Loan(t, db, stu, res, testdb.Date(2025, 5, 2), false)

	rep, err := n.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.DueSoon)
	assert.Equal(t, 0, rep.Overdue)
}
