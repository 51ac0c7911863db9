// Package lending runs the loan lifecycle: requests are submitted, approved
// or rejected, approved requests become loans, and loans are returned or
// extended. Every transition commits atomically with the resource
// availability flag and the notifications it produces.
package lending

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"campus-lending/internal/domain/contract"
	"campus-lending/internal/domain/loan"
	"campus-lending/internal/domain/mail"
	"campus-lending/internal/domain/notification"
	"campus-lending/internal/domain/uow"
	"campus-lending/internal/domain/user"
	"campus-lending/pkg/id"
)

const DefaultMinLeadDays = 5

// UnreadCache is told which recipients got new notifications.
type UnreadCache interface {
	Invalidate(ctx context.Context, userIDs ...uint64) error
}

type Manager struct {
	uow       uow.UnitOfWork
	repos     uow.Repos
	renderer  contract.Renderer
	contracts contract.Store
	mailer    mail.Sender
	unread    UnreadCache

	log     *zap.Logger
	now     func() time.Time
	loc     *time.Location
	minLead int
	sealURL string
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithLocation sets the zone in which "today" is evaluated.
func WithLocation(loc *time.Location) Option { return func(m *Manager) { m.loc = loc } }

func WithMinLeadDays(days int) Option { return func(m *Manager) { m.minLead = days } }

func WithLogger(log *zap.Logger) Option { return func(m *Manager) { m.log = log } }

func WithUnreadCache(c UnreadCache) Option { return func(m *Manager) { m.unread = c } }

// WithSealURL stamps the institution's seal on every contract.
func WithSealURL(url string) Option { return func(m *Manager) { m.sealURL = url } }

// NewManager wires the lifecycle. repos are used for reads outside a
// transaction; every write goes through tx.
func NewManager(tx uow.UnitOfWork, repos uow.Repos, renderer contract.Renderer, store contract.Store, mailer mail.Sender, opts ...Option) *Manager {
	m := &Manager{
		uow:       tx,
		repos:     repos,
		renderer:  renderer,
		contracts: store,
		mailer:    mailer,
		log:       zap.NewNop(),
		now:       time.Now,
		loc:       time.UTC,
		minLead:   DefaultMinLeadDays,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Today is the current calendar date in the configured zone, as UTC midnight.
func (m *Manager) Today() time.Time {
	y, mo, d := m.now().In(m.loc).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// EarliestDueDate is the first due date a new request may ask for.
func (m *Manager) EarliestDueDate() time.Time { return m.Today().AddDate(0, 0, m.minLead) }

// DateOnly keeps the calendar date of t as UTC midnight.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// effects collects what a transition does beyond the database: mail is only
// sent once the transaction committed.
type effects struct {
	mails      []mail.Message
	recipients []uint64
	// contracts stored during the transaction, dropped again if it fails
	contracts []string
}

func (e *effects) notify(ctx context.Context, r uow.Repos, to *user.User, kind notification.Kind, msg, url string, loanID *uint64) error {
	n := &notification.Notification{
		NotificationID: id.NewID32(),
		RecipientID:    to.ID,
		Kind:           kind,
		Message:        msg,
		URL:            url,
		LoanID:         loanID,
	}
	if err := r.Notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create %s notification: %w", kind, err)
	}
	e.recipients = append(e.recipients, to.ID)
	return nil
}

func (e *effects) mail(to *user.User, subject, body string) {
	if to.Email == "" {
		return
	}
	e.mails = append(e.mails, mail.Message{To: to.Email, Subject: subject, Body: body})
}

// flush delivers queued side effects. Failures are logged, never returned:
// the state change has already committed.
func (m *Manager) flush(ctx context.Context, e *effects) {
	if m.unread != nil && len(e.recipients) > 0 {
		if err := m.unread.Invalidate(ctx, e.recipients...); err != nil {
			m.log.Warn("unread cache invalidation failed", zap.Error(err))
		}
	}
	for _, msg := range e.mails {
		if err := m.mailer.Send(ctx, msg); err != nil {
			m.log.Error("mail delivery failed",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err))
		}
	}
}

// discard removes the contracts a failed transaction stored. Failures are
// logged; the object is orphaned but nothing references it.
func (m *Manager) discard(ctx context.Context, e *effects) {
	for _, ref := range e.contracts {
		if err := m.contracts.Delete(ctx, ref); err != nil {
			m.log.Warn("orphaned contract left in store", zap.String("ref", ref), zap.Error(err))
		}
	}
}

// issueContract renders and stores a contract, returning its reference.
func (m *Manager) issueContract(ctx context.Context, e *effects, d contract.Data) (string, error) {
	pdf, err := m.renderer.Render(ctx, d)
	if err != nil {
		return "", fmt.Errorf("render contract: %w", err)
	}
	ref, err := m.contracts.Put(ctx, "contracts/loan_contract_"+d.Number+".pdf", pdf)
	if err != nil {
		return "", fmt.Errorf("store contract: %w", err)
	}
	e.contracts = append(e.contracts, ref)
	return ref, nil
}

func partyOf(u *user.User) contract.Party {
	return contract.Party{FullName: u.FullName(), Code: u.Code, Email: u.Email, Program: u.Program, SignatureURL: u.SignatureURL}
}

func adminParty(p user.Principal) *contract.Party {
	return &contract.Party{FullName: p.FullName, Code: p.Code, Email: p.Email, SignatureURL: p.SignatureURL}
}

func fmtDate(t time.Time) string { return t.Format("2006-01-02") }

func loanURL(l *loan.Loan) string { return "/loans/" + l.LoanID }
