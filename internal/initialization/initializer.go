package initialization

import (
	"context"
	"errors"
	"io"

	"github.com/EzhovAndrew/smtp-client/internal/configuration"
	"github.com/EzhovAndrew/smtp-client/internal/console"
	"github.com/EzhovAndrew/smtp-client/internal/logging"
	"github.com/EzhovAndrew/smtp-client/internal/mailer"
)

var ErrConfigIsNil = errors.New("config is nil")

type Shell interface {
	Run(ctx context.Context) error
}

type Initializer struct {
	shell Shell
}

func NewInitializer(cfg *configuration.Config, configPath string, out io.Writer) (*Initializer, error) {
	if cfg == nil {
		return nil, ErrConfigIsNil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sender := mailer.NewMailer(logging.Logger().Named("mailer"))
	logging.Info("Mailer configured")

	shell := console.New(cfg, configPath, sender, out)
	logging.Info("Console configured")

	return &Initializer{shell: shell}, nil
}

func (i *Initializer) Start(ctx context.Context) error {
	logging.Info("Client started")
	defer logging.Info("Client stopped")
	return i.shell.Run(ctx)
}
