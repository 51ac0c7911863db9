package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"campus-lending/internal/config"
	domainmail "campus-lending/internal/domain/mail"
)

var (
	_ domainmail.Sender = (*SMTPSender)(nil)
	_ domainmail.Sender = (*LogSender)(nil)
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	client *gomail.Client
	from   string
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	c, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{client: c, from: cfg.From}, nil
}

// Build turns a domain message into a go-mail message.
func Build(from string, m domainmail.Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, fmt.Errorf("from %q: %w", from, err)
	}
	if err := msg.To(m.To); err != nil {
		return nil, fmt.Errorf("to %q: %w", m.To, err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)
	return msg, nil
}

func (s *SMTPSender) Send(ctx context.Context, m domainmail.Message) error {
	msg, err := Build(s.from, m)
	if err != nil {
		return err
	}
	return s.client.DialAndSendWithContext(ctx, msg)
}

// LogSender only logs outgoing mail; used when no SMTP host is configured.
type LogSender struct{ log *zap.Logger }

func NewLogSender(log *zap.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) Send(_ context.Context, m domainmail.Message) error {
	s.log.Info("mail (not delivered)",
		zap.String("to", m.To),
		zap.String("subject", m.Subject))
	return nil
}

// NewSender delivers through SMTP when a host is configured and only logs
// otherwise.
func NewSender(cfg *config.Config, log *zap.Logger) (domainmail.Sender, error) {
	if !cfg.UseSMTP() {
		log.Warn("SMTP_HOST not set; mail will only be logged")
		return NewLogSender(log), nil
	}
	return NewSMTPSender(SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	})
}
