package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"sadhna-backend/internal/config"
	"sadhna-backend/internal/logger"
	"sadhna-backend/internal/metrics"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer is injected once at start-up.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when mail is configured, otherwise a mailer
// that only logs.
func New(cfg *config.Config) Mailer {
	if !cfg.Mail.Enabled {
		logger.Default().Info("[Mail] SMTP not configured, emails will be logged only")
		return NewLogMailer()
	}
	return NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
}

type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	if from == "" {
		from = username
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	g := gomail.NewMessage()
	g.SetHeader("From", m.from)
	g.SetHeader("To", msg.To)
	g.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		g.SetBody("text/plain", msg.Text)
		if msg.HTML != "" {
			g.AddAlternative("text/html", msg.HTML)
		}
	} else {
		g.SetBody("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(g); err != nil {
		metrics.MailSent.WithLabelValues("error").Inc()
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	metrics.MailSent.WithLabelValues("sent").Inc()
	logger.FromContext(ctx).Infof("[Mail] Sent %q to %s", msg.Subject, msg.To)
	return nil
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct{}

func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	metrics.MailSent.WithLabelValues("logged").Inc()
	logger.FromContext(ctx).WithField("to", msg.To).Infof("[Mail] (not sent) %s\n%s", msg.Subject, msg.Text)
	return nil
}
