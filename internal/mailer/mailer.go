// Package mailer delivers a single plain-text message through an SMTP relay.
package mailer

import (
	"context"
	"io"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/EzhovAndrew/smtp-client/internal/configuration"
)

// Mail is the user-editable part of a message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Sender performs one send operation.
type Sender interface {
	Send(ctx context.Context, cfg configuration.SMTPConfig, m Mail) error
}

type Mailer struct {
	logger *zap.Logger
}

// NewMailer returns a Mailer logging through logger, or through a no-op
// logger when nil.
func NewMailer(logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{logger: logger}
}

// Send composes m and delivers it through the relay described by cfg.
// Errors are *AddressError, *MessageError or *TransportError.
func (s *Mailer) Send(ctx context.Context, cfg configuration.SMTPConfig, m Mail) error {
	msg, err := compose(cfg.From, m)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(cfg.Host, clientOptions(cfg)...)
	if err != nil {
		return &TransportError{Host: cfg.Host, Port: cfg.Port, Err: err}
	}

	s.logger.Debug("sending mail",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("to", m.To),
	)
	if err = client.DialAndSendWithContext(ctx, msg); err != nil {
		return &TransportError{Host: cfg.Host, Port: cfg.Port, Err: err}
	}
	s.logger.Info("mail delivered", zap.String("host", cfg.Host), zap.String("to", m.To))
	return nil
}

func compose(from string, m Mail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, &AddressError{Field: "from", Address: from, Err: err}
	}
	if err := msg.To(m.To); err != nil {
		return nil, &AddressError{Field: "to", Address: m.To, Err: err}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)

	// Render once before dialing so a broken message never opens a connection.
	if _, err := msg.WriteTo(io.Discard); err != nil {
		return nil, &MessageError{Err: err}
	}
	return msg, nil
}

func clientOptions(cfg configuration.SMTPConfig) []mail.Option {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(tlsPolicy(cfg.TLSPolicy)),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return opts
}

func tlsPolicy(name string) mail.TLSPolicy {
	switch name {
	case "mandatory":
		return mail.TLSMandatory
	case "none":
		return mail.NoTLS
	default:
		return mail.TLSOpportunistic
	}
}
