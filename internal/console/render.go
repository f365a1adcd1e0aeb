package console

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/EzhovAndrew/smtp-client/internal/logging"
	"github.com/EzhovAndrew/smtp-client/internal/query"
)

const (
	msgIdle      = "No e-mail has been sent yet"
	msgSending   = "Sending the e-mail"
	msgDelivered = "Email has been delivered successfully"
	msgFailed    = "An error occurred while sending this email"
)

var spinnerFrames = []rune{'|', '/', '-', '\\'}

// Frame polls the submission and renders a transition into a final state once.
// It reports whether anything was rendered.
func (c *Console) Frame() bool {
	c.submit.Poll()

	state := c.submit.State()
	if state.Status == c.rendered {
		return false
	}
	c.rendered = state.Status

	switch state.Status {
	case query.StatusSucceeded:
		logging.Info("mail delivery finished")
	case query.StatusFailed:
		logging.Warn("mail delivery failed", zap.Error(state.Err))
	}
	c.renderState()
	return true
}

// Wait renders a spinner every frame interval until the running send
// finishes or ctx is done.
func (c *Console) Wait(ctx context.Context) error {
	interval := c.config.Client.FrameInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	spun := false
	for frame := 0; ; frame++ {
		c.submit.Poll()
		if c.submit.IsReady() {
			break
		}

		c.printf("\r%c %s", spinnerFrames[frame%len(spinnerFrames)], msgSending)
		spun = true

		select {
		case <-ctx.Done():
			c.println()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if spun {
		c.printf("\r\033[K")
	}
	c.Frame()
	return nil
}

func (c *Console) renderState() {
	state := c.submit.State()
	switch state.Status {
	case query.StatusIdle:
		c.println(msgIdle)
	case query.StatusRunning:
		c.println(msgSending)
	case query.StatusSucceeded:
		c.println(msgDelivered)
	case query.StatusFailed:
		c.println(msgFailed)
		c.printf("  %v\n", state.Err)
	}
}
