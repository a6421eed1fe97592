package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"wego/internal/config"
)

// ErrNotConfigured is returned by Send when no SMTP credentials were given.
var ErrNotConfigured = errors.New("mailer: SMTP credentials not configured")

const (
	breakerName         = "smtp"
	breakerOpenTimeout  = 30 * time.Second
	breakerTripFailures = 3
	sslPort             = 465
	defaultDialTimeout  = 30 * time.Second
)

type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

type Message struct {
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// transport is the part of *mail.Client the mailer uses.
type transport interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
	DialWithContext(ctx context.Context) error
	Close() error
}

type SMTPMailer struct {
	client   transport
	from     string
	fromName string
	breaker  *gobreaker.CircuitBreaker[struct{}]
	logger   *zap.Logger
}

// New builds the process-wide SMTP mailer. Without credentials it returns a
// mailer whose Send always fails with ErrNotConfigured.
func New(cfg config.MailConfig, logger *zap.Logger) (*SMTPMailer, error) {
	m := &SMTPMailer{
		from:     cfg.From,
		fromName: cfg.FromName,
		logger:   logger,
	}
	m.breaker = newBreaker(logger)

	if !cfg.Enabled() {
		logger.Warn("email credentials not configured, outgoing mail disabled")
		return m, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(dialTimeout(cfg.Timeout)),
	}
	if cfg.Port == sslPort {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}
	m.client = client

	return m, nil
}

// go-mail rejects a zero or negative timeout.
func dialTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultDialTimeout
	}
	return d
}

func newBreaker(logger *zap.Logger) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    breakerName,
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("mail circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsExcluded: func(err error) bool {
			return errors.Is(err, context.Canceled)
		},
	})
}

func (m *SMTPMailer) Enabled() bool {
	return m.client != nil
}

// Verify opens and closes one SMTP session.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}
	if err := m.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("connecting to smtp server: %w", err)
	}
	return m.client.Close()
}

// Send delivers msg once. There is no retry; while the breaker is open the
// call fails immediately with gobreaker.ErrOpenState.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.Enabled() {
		return ErrNotConfigured
	}

	mailMsg, err := m.build(msg)
	if err != nil {
		return err
	}

	_, err = m.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, m.client.DialAndSendWithContext(ctx, mailMsg)
	})
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.To, err)
	}

	m.logger.Info("email sent",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

func (m *SMTPMailer) build(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()

	if m.fromName != "" {
		if err := out.FromFormat(m.fromName, m.from); err != nil {
			return nil, fmt.Errorf("invalid sender address: %w", err)
		}
	} else if err := out.From(m.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}

	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}

	out.Subject(msg.Subject)
	out.SetGenHeader(mail.HeaderXMailer, "wego-backoffice")
	out.SetDate()
	out.SetMessageID()

	switch {
	case msg.Text != "" && msg.HTML != "":
		out.SetBodyString(mail.TypeTextPlain, msg.Text)
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		out.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		out.SetBodyString(mail.TypeTextPlain, msg.Text)
	}

	for _, a := range msg.Attachments {
		opts := []mail.FileOption{}
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		out.AttachReadSeeker(a.Name, bytes.NewReader(a.Data), opts...)
	}

	return out, nil
}
