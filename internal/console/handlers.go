package console

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/EzhovAndrew/smtp-client/internal/configuration"
	"github.com/EzhovAndrew/smtp-client/internal/logging"
)

var tlsPolicies = []string{"mandatory", "opportunistic", "none"}

func (c *Console) handleFrom(mailbox string) {
	if mailbox == "" {
		c.println("Error: FROM requires a mailbox")
		c.printUsage("FROM")
		return
	}
	c.config.SMTP.From = mailbox
}

func (c *Console) handleTo(mailbox string) {
	if mailbox == "" {
		c.println("Error: TO requires a mailbox")
		c.printUsage("TO")
		return
	}
	c.draft.To = mailbox
}

func (c *Console) handleHost(args []string) {
	if len(args) != 1 {
		c.println("Error: HOST requires exactly one argument")
		c.printUsage("HOST")
		return
	}
	c.config.SMTP.Host = args[0]
}

func (c *Console) handlePort(args []string) {
	if len(args) != 1 {
		c.println("Error: PORT requires exactly one argument")
		c.printUsage("PORT")
		return
	}

	port, err := strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		c.printf("Error: invalid port %q\n", args[0])
		c.printUsage("PORT")
		return
	}
	c.config.SMTP.Port = port
}

func (c *Console) handleUser(username string) {
	c.config.SMTP.Username = username
}

func (c *Console) handlePass(password string) {
	if password != "" {
		c.config.SMTP.Password = password
		return
	}

	if c.readPassword == nil {
		c.println("Error: PASS requires an argument in this mode")
		c.printUsage("PASS")
		return
	}

	secret, err := c.readPassword("password: ")
	if err != nil {
		c.printf("Error reading password: %v\n", err)
		return
	}
	c.config.SMTP.Password = string(secret)
}

func (c *Console) handleTLS(args []string) {
	if len(args) != 1 {
		c.println("Error: TLS requires exactly one argument")
		c.printUsage("TLS")
		return
	}

	policy := strings.ToLower(args[0])
	for _, known := range tlsPolicies {
		if policy == known {
			c.config.SMTP.TLSPolicy = policy
			return
		}
	}
	c.printf("Error: unknown TLS policy %q\n", args[0])
	c.printUsage("TLS")
}

func (c *Console) handleShow() {
	smtp := c.config.SMTP
	password := "(not set)"
	if smtp.Password != "" {
		password = "********"
	}

	c.println("SMTP settings:")
	c.printf("  From:     %s\n", orNotSet(smtp.From))
	c.printf("  Host:     %s\n", orNotSet(smtp.Host))
	c.printf("  Port:     %d\n", smtp.Port)
	c.printf("  Username: %s\n", orNotSet(smtp.Username))
	c.printf("  Password: %s\n", password)
	c.printf("  TLS:      %s\n", smtp.TLSPolicy)
	c.println("Message:")
	c.printf("  To:       %s\n", orNotSet(c.draft.To))
	c.printf("  Subject:  %s\n", orNotSet(c.draft.Subject))
	c.printf("  Body:\n%s\n", indent(c.draft.Body))
}

// handleSend starts a background send unless one is already in flight.
// The job gets its own copies of the settings and the draft.
func (c *Console) handleSend() {
	if !c.submit.IsReady() {
		c.println("An e-mail is already being sent, use WAIT or STATUS")
		return
	}

	smtp := c.config.SMTP
	mail := c.draft
	sender := c.sender

	c.submit.Fetch(func() (struct{}, error) {
		ctx := context.Background()
		if smtp.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, smtp.Timeout)
			defer cancel()
		}
		return struct{}{}, sender.Send(ctx, smtp, mail)
	})
	c.rendered = c.submit.State().Status

	logging.Info("mail submitted", zap.String("host", smtp.Host), zap.String("to", mail.To))
	c.println(msgSending)
}

func (c *Console) handleStatus() {
	if c.Frame() {
		return
	}
	c.renderState()
}

func (c *Console) handleWait(ctx context.Context) {
	if c.submit.IsReady() {
		c.handleStatus()
		return
	}
	if err := c.Wait(ctx); err != nil {
		c.printf("Stopped waiting: %v\n", err)
	}
}

func (c *Console) handleSave(path string) {
	if path == "" {
		path = c.configPath
	}
	if path == "" {
		path = configuration.DefaultConfigPath
	}

	if err := c.config.Save(path); err != nil {
		logging.Error("unable to save config", zap.String("path", path), zap.Error(err))
		c.printf("Error saving config: %v\n", err)
		return
	}
	c.configPath = path
	c.printf("Settings saved to %s\n", path)
}

func orNotSet(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

func indent(text string) string {
	if text == "" {
		return "    (empty)"
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = "    " + line
	}
	return strings.Join(lines, "\n")
}
