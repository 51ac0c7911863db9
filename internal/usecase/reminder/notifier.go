// Package reminder implements the daily due-date scan: borrowers and their
// department administrators hear about loans due tomorrow and loans due today.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/mail"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
	"campus-lending/pkg/id"
)

type UnreadCache interface {
	Invalidate(ctx context.Context, userIDs ...uint64) error
}

// Report summarizes one run.
type Report struct {
	DueSoon       int `json:"due_soon"`
	Overdue       int `json:"overdue"`
	Notifications int `json:"notifications"`
	Skipped       int `json:"skipped"`
	MailsSent     int `json:"mails_sent"`
	MailsFailed   int `json:"mails_failed"`
}

type Notifier struct {
	uow    uow.UnitOfWork
	repos  uow.Repos
	mailer mail.Sender
	unread UnreadCache
	log    *zap.Logger
	now    func() time.Time
	loc    *time.Location
}

type Option func(*Notifier)

func WithClock(now func() time.Time) Option { return func(n *Notifier) { n.now = now } }
func WithLocation(loc *time.Location) Option { return func(n *Notifier) { n.loc = loc } }
func WithLogger(log *zap.Logger) Option { return func(n *Notifier) { n.log = log } }
func WithUnreadCache(c UnreadCache) Option { return func(n *Notifier) { n.unread = c } }

func NewNotifier(tx uow.UnitOfWork, repos uow.Repos, mailer mail.Sender, opts ...Option) *Notifier {
	n := &Notifier{
		uow:    tx,
		repos:  repos,
		mailer: mailer,
		log:    zap.NewNop(),
		now:    time.Now,
		loc:    time.UTC,
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

type pass struct {
	kind    notification.Kind
	day     time.Time
	subject string
	// format strings: resource, [borrower,] due date
	borrowerMsg string
	adminMsg    string
	mailBody    string
}

// Run notifies about open loans due tomorrow (DUE_SOON) and due today
// (OVERDUE). A recipient is told about a loan at most once per kind and day,
// so running twice on the same day is harmless.
func (n *Notifier) Run(ctx context.Context) (Report, error) {
	var rep Report
	local := n.now().In(n.loc)
	y, m, d := local.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	since := time.Date(y, m, d, 0, 0, 0, 0, n.loc)

	passes := []pass{
		{
			kind:        notification.KindDueSoon,
			day:         today.AddDate(0, 0, 1),
			subject:     "Loan due tomorrow",
			borrowerMsg: "%s must be returned tomorrow (%s).",
			adminMsg:    "%s lent to %s is due tomorrow (%s).",
			mailBody:    "Hello %s,\n\nPlease remember to return %s tomorrow (%s).\n",
		},
		{
			kind:        notification.KindOverdue,
			day:         today,
			subject:     "Loan due today",
			borrowerMsg: "%s is due today (%s).",
			adminMsg:    "%s lent to %s is due today (%s).",
			mailBody:    "Hello %s,\n\n%s is due TODAY (%s). Please return it as soon as possible.\n",
		},
	}

	var (
		mails      []mail.Message
		recipients []uint64
	)
	for _, ps := range passes {
		loans, err := n.repos.Loans.ListOpenDueOn(ctx, ps.day)
		if err != nil {
			return rep, fmt.Errorf("list loans due %s: %w", ps.day.Format("2006-01-02"), err)
		}
		for i := range loans {
			out, err := n.remind(ctx, &loans[i], ps, since)
			if err != nil {
				return rep, fmt.Errorf("remind loan %s: %w", loans[i].LoanID, err)
			}
			if ps.kind == notification.KindDueSoon {
				rep.DueSoon++
			} else {
				rep.Overdue++
			}
			rep.Notifications += len(out.recipients)
			rep.Skipped += out.skipped
			recipients = append(recipients, out.recipients...)
			mails = append(mails, out.mails...)
		}
	}

	if n.unread != nil && len(recipients) > 0 {
		if err := n.unread.Invalidate(ctx, recipients...); err != nil {
			n.log.Warn("unread cache invalidation failed", zap.Error(err))
		}
	}
	for _, msg := range mails {
		if err := n.mailer.Send(ctx, msg); err != nil {
			rep.MailsFailed++
			n.log.Error("reminder mail failed", zap.String("to", msg.To), zap.Error(err))
			continue
		}
		rep.MailsSent++
	}

	n.log.Info("due-date reminders done",
		zap.Int("due_soon", rep.DueSoon),
		zap.Int("overdue", rep.Overdue),
		zap.Int("notifications", rep.Notifications),
		zap.Int("skipped", rep.Skipped),
		zap.Int("mails_sent", rep.MailsSent),
		zap.Int("mails_failed", rep.MailsFailed))
	return rep, nil
}

type outcome struct {
	recipients []uint64
	mails      []mail.Message
	skipped    int
}

func (n *Notifier) remind(ctx context.Context, l *loan.Loan, ps pass, since time.Time) (outcome, error) {
	var out outcome
	err := n.uow.WithinTx(ctx, func(r uow.Repos) error {
		out = outcome{}
		res, err := r.Resources.GetByID(ctx, l.ResourceID)
		if err != nil {
			return err
		}
		borrower, err := r.Users.GetByID(ctx, l.BorrowerID)
		if err != nil {
			return err
		}
		due := l.DueDate.Format("02/01/2006")

		created, err := n.notifyOnce(ctx, r, borrower, l, ps.kind, fmt.Sprintf(ps.borrowerMsg, res.Name, due), since)
		if err != nil {
			return err
		}
		if created {
			out.recipients = append(out.recipients, borrower.ID)
			if borrower.Email != "" {
				out.mails = append(out.mails, mail.Message{
					To:      borrower.Email,
					Subject: ps.subject + ": " + res.Name,
					Body:    fmt.Sprintf(ps.mailBody, borrower.FullName(), res.Name, due),
				})
			}
		} else {
			out.skipped++
		}

		admin, err := administrator(ctx, r, res.DepartmentID)
		if err != nil {
			return err
		}
		if admin == nil {
			return nil
		}
		created, err = n.notifyOnce(ctx, r, admin, l, ps.kind, fmt.Sprintf(ps.adminMsg, res.Name, borrower.FullName(), due), since)
		if err != nil {
			return err
		}
		if created {
			out.recipients = append(out.recipients, admin.ID)
		} else {
			out.skipped++
		}
		return nil
	})
	return out, err
}

func (n *Notifier) notifyOnce(ctx context.Context, r uow.Repos, to *user.User, l *loan.Loan, kind notification.Kind, msg string, since time.Time) (bool, error) {
	seen, err := r.Notifications.ExistsForLoanSince(ctx, to.ID, l.ID, kind, since)
	if err != nil || seen {
		return false, err
	}
	err = r.Notifications.Create(ctx, &notification.Notification{
		NotificationID: id.NewID32(),
		RecipientID:    to.ID,
		Kind:           kind,
		Message:        msg,
		URL:            "/loans/" + l.LoanID,
		LoanID:         &l.ID,
		CreatedAt:      n.now().UTC(),
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// administrator returns nil when the department has nobody assigned.
func administrator(ctx context.Context, r uow.Repos, departmentID uint64) (*user.User, error) {
	dept, err := r.Departments.GetByID(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if dept.AdminUserID == nil {
		return nil, nil
	}
	u, err := r.Users.GetByID(ctx, *dept.AdminUserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, nil
	}
	return u, err
}
