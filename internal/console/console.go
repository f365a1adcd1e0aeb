// Package console implements the interactive mail client shell. The shell's
// command loop doubles as the render loop of the background send: every
// iteration polls the submission and renders its state.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/EzhovAndrew/smtp-client/internal/configuration"
	"github.com/EzhovAndrew/smtp-client/internal/logging"
	"github.com/EzhovAndrew/smtp-client/internal/mailer"
	"github.com/EzhovAndrew/smtp-client/internal/query"
)

// PasswordReader reads a secret without echoing it.
type PasswordReader func(prompt string) ([]byte, error)

type Console struct {
	config     configuration.Config
	configPath string
	sender     mailer.Sender
	draft      mailer.Mail

	submit   *query.Query[struct{}]
	rendered query.Status

	out          io.Writer
	readPassword PasswordReader
}

func New(cfg *configuration.Config, configPath string, sender mailer.Sender, out io.Writer) *Console {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	return &Console{
		config:     *cfg,
		configPath: configPath,
		sender:     sender,
		submit:     query.New[struct{}](),
		out:        out,
	}
}

func (c *Console) SetPasswordReader(reader PasswordReader) {
	c.readPassword = reader
}

// Run drives the shell on the terminal until EXIT, end of input or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	c.banner()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          c.config.Client.Prompt,
		HistoryFile:     c.config.Client.HistoryFile,
		AutoComplete:    readline.NewPrefixCompleter(createCompleterItems()...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		logging.Warn("readline unavailable, using fallback mode", zap.Error(err))
		c.println("Using fallback mode (no autocomplete)")
		return c.RunFallback(ctx, os.Stdin)
	}
	defer rl.Close() //nolint:errcheck

	stop := context.AfterFunc(ctx, func() { _ = rl.Close() })
	defer stop()

	c.SetPasswordReader(rl.ReadPassword)

	for ctx.Err() == nil {
		c.Frame()

		line, err := rl.Readline()
		if err != nil {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if shouldExit := c.ProcessCommand(ctx, line); shouldExit {
			break
		}
	}
	return nil
}

// RunFallback drives the shell from a plain reader, without line editing.
func (c *Console) RunFallback(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for ctx.Err() == nil {
		c.Frame()

		c.printf("%s", c.config.Client.Prompt)
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if shouldExit := c.ProcessCommand(ctx, line); shouldExit {
			break
		}
	}
	return scanner.Err()
}

// ProcessCommand executes one input line and reports whether the shell should exit.
func (c *Console) ProcessCommand(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	cmd := strings.ToUpper(parts[0])
	args := parts[1:]
	rest := strings.TrimSpace(input[len(parts[0]):])

	switch cmd {
	case "HELP":
		c.handleHelp(args)
	case "EXIT", "QUIT":
		c.println("Goodbye!")
		return true
	case "FROM":
		c.handleFrom(rest)
	case "HOST":
		c.handleHost(args)
	case "PORT":
		c.handlePort(args)
	case "USER":
		c.handleUser(rest)
	case "PASS":
		c.handlePass(rest)
	case "TLS":
		c.handleTLS(args)
	case "TO":
		c.handleTo(rest)
	case "SUBJECT":
		c.draft.Subject = rest
	case "BODY":
		c.draft.Body = strings.ReplaceAll(rest, `\n`, "\n")
	case "SHOW":
		c.handleShow()
	case "SEND":
		c.handleSend()
	case "STATUS":
		c.handleStatus()
	case "WAIT":
		c.handleWait(ctx)
	case "SAVE":
		c.handleSave(rest)
	default:
		c.printf("Unknown command: %s\n", cmd)
		c.println("Type 'HELP' for available commands")
	}

	return false
}

func (c *Console) banner() {
	c.println("SMTP Client")
	c.println("Type 'HELP' for available commands or 'EXIT'/'QUIT' to quit")
	c.println()
}

func (c *Console) println(a ...any) {
	_, _ = fmt.Fprintln(c.out, a...)
}

func (c *Console) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.out, format, a...)
}
